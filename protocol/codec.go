package protocol

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrInvalidMessage     = errors.New("invalid message format")
	ErrUnknownMessageType = errors.New("unknown message type")
)

type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Marshal wraps msg in its envelope.
func Marshal(msg Message) ([]byte, error) {
	return json.Marshal(struct {
		Type    string  `json:"type"`
		Payload Message `json:"payload"`
	}{Type: msg.MessageType(), Payload: msg})
}

func ParseClientMessage(data []byte) (ClientMessage, error) {
	envelope, err := parseEnvelope(data)
	if err != nil {
		return nil, err
	}
	switch envelope.Type {
	case TypeJoin:
		return decodeClient[JoinMessage](envelope)
	case TypeAnswer:
		return decodeClient[AnswerMessage](envelope)
	case TypeReady:
		return decodeClient[ReadyMessage](envelope)
	case TypePing:
		return decodeClient[PingMessage](envelope)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownMessageType, envelope.Type)
}

func ParseServerMessage(data []byte) (ServerMessage, error) {
	envelope, err := parseEnvelope(data)
	if err != nil {
		return nil, err
	}
	switch envelope.Type {
	case TypePlayerJoined:
		return decodeServer[PlayerJoinedMessage](envelope)
	case TypePlayerLeft:
		return decodeServer[PlayerLeftMessage](envelope)
	case TypeGameStarting:
		return decodeServer[GameStartingMessage](envelope)
	case TypeRoundStart:
		return decodeServer[RoundStartMessage](envelope)
	case TypeBoxesHidden:
		return decodeServer[BoxesHiddenMessage](envelope)
	case TypeRoundResults:
		return decodeServer[RoundResultsMessage](envelope)
	case TypeGameFinished:
		return decodeServer[GameFinishedMessage](envelope)
	case TypeError:
		return decodeServer[ErrorMessage](envelope)
	case TypePong:
		return decodeServer[PongMessage](envelope)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownMessageType, envelope.Type)
}

func parseEnvelope(data []byte) (Envelope, error) {
	var envelope Envelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		return envelope, fmt.Errorf("%w: %v", ErrInvalidMessage, err)
	}
	if envelope.Type == "" {
		return envelope, fmt.Errorf("%w: missing type", ErrInvalidMessage)
	}
	if len(envelope.Payload) == 0 || bytes.Equal(envelope.Payload, []byte("null")) {
		return envelope, fmt.Errorf("%w: missing payload", ErrInvalidMessage)
	}
	return envelope, nil
}

func decodeClient[T ClientMessage](envelope Envelope) (ClientMessage, error) {
	parsed, err := decodePayload[T](envelope)
	if err != nil {
		return nil, err
	}
	return parsed, nil
}

func decodeServer[T ServerMessage](envelope Envelope) (ServerMessage, error) {
	parsed, err := decodePayload[T](envelope)
	if err != nil {
		return nil, err
	}
	return parsed, nil
}

func decodePayload[T Message](envelope Envelope) (T, error) {
	var parsed T
	if err := json.Unmarshal(envelope.Payload, &parsed); err != nil {
		return parsed, fmt.Errorf("%w: %s payload: %v", ErrInvalidMessage, envelope.Type, err)
	}
	return parsed, nil
}
