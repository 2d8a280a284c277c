package apperror

import "errors"

var (
	ErrNotStarted      = errors.New("game is not started")
	ErrNotYourTurn     = errors.New("it's not your turn")
	ErrInvalidMove     = errors.New("invalid move")
	ErrGameFull        = errors.New("game is already full")
	ErrAlreadyStarted  = errors.New("game is already started")
	ErrInvalidPlayer   = errors.New("invalid player")
	ErrVersionConflict = errors.New("game was modified concurrently")

	ErrGameNotFound      = errors.New("game not found")
	ErrGameAlreadyExists = errors.New("game already exists")
)

// ErrAlreadyJoined is reported for a join on a game that left the CREATED state.
var ErrAlreadyJoined = ErrGameFull
