package chess

import (
	"errors"
	"fmt"
)

var (
	ErrInconsistentMove = errors.New("inconsistent move")
	ErrNoLegalMove      = errors.New("no legal move")
	ErrInvalidFEN       = errors.New("invalid fen")
)

// InconsistentMoveError is returned when a move does not match the board it is applied to.
// It always means a bug in the caller, the board is left untouched.
type InconsistentMoveError struct {
	Move     Move
	Occupant Piece // piece found on the origin square
	Captured Piece // piece found on the destination square
}

func (e *InconsistentMoveError) Error() string {
	return fmt.Sprintf("inconsistent move %s: moved=%s target=%s, board has %s on %s and %s on %s",
		e.Move, e.Move.Moved(), e.Move.Target(),
		e.Occupant, e.Move.From(), e.Captured, e.Move.To())
}

func (e *InconsistentMoveError) Unwrap() error {
	return ErrInconsistentMove
}

// NoLegalMoveError is returned when a move has to be picked among zero candidates
type NoLegalMoveError struct {
	FEN    string
	Reason string
}

func (e *NoLegalMoveError) Error() string {
	return fmt.Sprintf("no legal move (%s) in %s", e.Reason, e.FEN)
}

func (e *NoLegalMoveError) Unwrap() error {
	return ErrNoLegalMove
}
