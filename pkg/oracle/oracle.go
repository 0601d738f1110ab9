package oracle

import (
	"errors"
	"fmt"
)

var ErrUnavailable = errors.New("oracle unavailable")

// Result of a single oracle query
type Result struct {
	// Best move in coordinate notation, e.g. "e1e2"
	Move string
	// Distance to mate in moves, from the side to move point of view:
	// positive when it mates, negative when it gets mated. Only meaningful when Mate is set.
	DTM int
	// Whether the score is a forced mate
	Mate bool
}

// Oracle is the perfect player the search is compared against.
// Calls are synchronous, a failing oracle is never retried.
type Oracle interface {
	BestMove(fen string) (Result, error)
}

// Func adapts a plain function to the Oracle interface
type Func func(fen string) (Result, error)

func (f Func) BestMove(fen string) (Result, error) {
	return f(fen)
}

// UnavailableError is returned when the oracle could not be started,
// or it answered something that cannot be used.
type UnavailableError struct {
	FEN string
	Err error
}

func (e *UnavailableError) Error() string {
	if e.FEN == "" {
		return fmt.Sprintf("oracle unavailable: %v", e.Err)
	}
	return fmt.Sprintf("oracle unavailable for %q: %v", e.FEN, e.Err)
}

func (e *UnavailableError) Unwrap() []error {
	return []error{ErrUnavailable, e.Err}
}

// Factory creates a fresh oracle, one per worker
type Factory func() (Oracle, error)
