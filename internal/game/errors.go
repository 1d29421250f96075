package game

import (
	"errors"
	"fmt"
)

// Request errors: the engine rejects the request and mutates nothing.
var (
	ErrHandEnded      = errors.New("hand has ended")
	ErrHandInProgress = errors.New("hand in progress")
	ErrOutOfTurn      = errors.New("not this player's turn")
	ErrIllegalAction  = errors.New("action not legal in current state")
	ErrInvalidAmount  = errors.New("invalid amount")
	ErrNoSuchPlayer   = errors.New("player not found")
	ErrChairOccupied  = errors.New("chair already occupied")
	ErrNotEnough      = errors.New("not enough players")
)

// InvariantError reports a broken engine invariant. It is never the caller's
// fault; a hand that trips one cannot continue.
type InvariantError struct {
	Msg string
}

func (e *InvariantError) Error() string {
	return "invariant violation: " + e.Msg
}

func invariantf(format string, args ...any) error {
	return &InvariantError{Msg: fmt.Sprintf(format, args...)}
}
