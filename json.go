package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/EmanueleCodes/boxes-game/room"
)

var ErrMalformedBody = fmt.Errorf("%w: malformed request body", room.ErrValidation)

func UnmarshalJSON[T any](body io.Reader) (T, error) {
	var parsed T
	if err := json.NewDecoder(body).Decode(&parsed); err != nil {
		return parsed, fmt.Errorf("%w: %v", ErrMalformedBody, err)
	}
	return parsed, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		LogInternalError(err)
	}
}
