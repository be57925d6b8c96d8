package room

import (
	"errors"
	"fmt"
)

// Error kinds. Callers classify failures with errors.Is against these.
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidState = errors.New("invalid state")
	ErrValidation   = errors.New("validation error")
)

var (
	ErrRoomNotFound      = fmt.Errorf("%w: room not found", ErrNotFound)
	ErrPlayerNotFound    = fmt.Errorf("%w: player not found in room", ErrNotFound)
	ErrGameStarted       = fmt.Errorf("%w: game has already started", ErrInvalidState)
	ErrTooFewPlayers     = fmt.Errorf("%w: at least %d players are needed to start", ErrInvalidState, MinPlayers)
	ErrNotAnswering      = fmt.Errorf("%w: round is not accepting answers", ErrInvalidState)
	ErrWrongRound        = fmt.Errorf("%w: answer is for another round", ErrInvalidState)
	ErrAlreadyAnswered   = fmt.Errorf("%w: answer already submitted", ErrInvalidState)
	ErrEmptyPlayerName   = fmt.Errorf("%w: player name is required", ErrValidation)
	ErrPlayerNameTooLong = fmt.Errorf("%w: player name must be at most %d characters", ErrValidation, MaxPlayerNameLength)
	ErrNegativeCount     = fmt.Errorf("%w: count must not be negative", ErrValidation)
)
