package engine

import (
	"errors"
	"fmt"
)

// Kind classifies an engine failure. Every failed action reports exactly one
// kind and leaves the game state untouched.
type Kind uint8

const (
	// KindNotFound means an unknown game, player, or card was named.
	KindNotFound Kind = iota + 1
	// KindInvalidState means the action is not valid in the game's current
	// status (e.g. playing before start, joining after start).
	KindInvalidState
	// KindOutOfTurn means the actor is not the current player.
	KindOutOfTurn
	// KindIllegalMove means the action violates a game rule: unplayable card,
	// drawing or passing while holding a playable card, declaring last-card
	// with more than one card, or a wild without a valid chosen color.
	KindIllegalMove
	// KindExhausted means a draw was requested but no cards remain anywhere
	// outside hands, even after reclaiming the discard pile.
	KindExhausted
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindInvalidState:
		return "invalid_state"
	case KindOutOfTurn:
		return "out_of_turn"
	case KindIllegalMove:
		return "illegal_move"
	case KindExhausted:
		return "exhausted"
	}
	return "unknown"
}

// Error is a typed engine failure.
type Error struct {
	Kind Kind
	msg  string
}

func (e *Error) Error() string { return e.msg }

func newError(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, msg: fmt.Sprintf(format, args...)}
}

// NewError lets callers layering extra preconditions on top of the engine
// report failures with the same typed kinds.
func NewError(kind Kind, format string, args ...interface{}) *Error {
	return newError(kind, format, args...)
}

// KindOf extracts the failure kind from err, or 0 if err is not an engine
// error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// IsKind reports whether err is an engine error of the given kind.
func IsKind(err error, kind Kind) bool { return KindOf(err) == kind }
