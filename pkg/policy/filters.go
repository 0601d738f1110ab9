package policy

import (
	"github.com/IlikeChooros/go-mcts-endgames/pkg/chess"
)

// Filter narrows down a list of candidate moves for the side to move.
// It may return the input unchanged, a subset of it, or nothing at all.
type Filter func(b *chess.Board, moves []chess.Move) []chess.Move

// keep moves satisfying the predicate, the input slice is left untouched
func keep(moves []chess.Move, pred func(chess.Move) bool) []chess.Move {
	var kept []chess.Move
	for _, m := range moves {
		if pred(m) {
			kept = append(kept, m)
		}
	}
	return kept
}

// Whether any white piece other than the king can be taken by the black king
func anyEnPrise(p *chess.Position) bool {
	for _, piece := range p.Attackers() {
		if p.EnPrise(piece) {
			return true
		}
	}
	return false
}

// Whether the kings stand on the same file or rank, exactly two squares apart
func InOpposition(p *chess.Position) bool {
	wk, bk := p.KingSquare(chess.White), p.KingSquare(chess.Black)
	if wk == chess.NoSquare || bk == chess.NoSquare {
		return false
	}
	df, dr := wk.File()-bk.File(), wk.Rank()-bk.Rank()
	return (df == 0 && (dr == 2 || dr == -2)) || (dr == 0 && (df == 2 || df == -2))
}

// MateInOne keeps the moves that mate right away
func MateInOne(b *chess.Board, moves []chess.Move) []chess.Move {
	return keep(moves, func(m chess.Move) bool {
		after := b.After(m)
		opp := after.Turn()
		return after.InCheck(opp) && len(after.LegalMoves(opp)) == 0
	})
}

// Urgent: when a piece hangs, only the moves that leave nothing hanging are kept,
// i.e. the piece moves away or gets defended. Otherwise all moves are kept.
func Urgent(b *chess.Board, moves []chess.Move) []chess.Move {
	if !anyEnPrise(&b.Position) {
		return moves
	}
	return keep(moves, func(m chess.Move) bool {
		after := b.After(m)
		return !anyEnPrise(&after)
	})
}

// Safe drops the moves that put the moved piece where the king can take it
func Safe(b *chess.Board, moves []chess.Move) []chess.Move {
	return keep(moves, func(m chess.Move) bool {
		if m.Moved().Role() == chess.King {
			return true
		}
		after := b.After(m)
		return !after.EnPrise(m.Moved())
	})
}

// AvoidRepetition drops the moves leading to a position seen within the history window
func AvoidRepetition(b *chess.Board, moves []chess.Move) []chess.Move {
	return keep(moves, func(m chess.Move) bool {
		after := b.After(m)
		return !b.SeenBefore(after.Hash())
	})
}

// KingApproach drops the king moves that walk away from the enemy king
func KingApproach(b *chess.Board, moves []chess.Move) []chess.Move {
	us := b.Turn()
	enemy := b.KingSquare(us.Other())
	current := chess.Distance(b.KingSquare(us), enemy)
	return keep(moves, func(m chess.Move) bool {
		if m.Moved().Role() != chess.King {
			return true
		}
		return chess.Distance(m.To(), enemy) <= current
	})
}

// OppositionChecks: with the kings in opposition, a safe check by a rook or the queen
// pushes the enemy king towards the edge. Outside of opposition all moves are kept.
func OppositionChecks(b *chess.Board, moves []chess.Move) []chess.Move {
	if !InOpposition(&b.Position) {
		return moves
	}
	return keep(moves, func(m chess.Move) bool {
		role := m.Moved().Role()
		if role != chess.Rook && role != chess.Queen {
			return false
		}
		after := b.After(m)
		return after.InCheck(after.Turn()) && !after.EnPrise(m.Moved())
	})
}

// AdjacentBishops keeps the moves after which both bishops stand side by side,
// covering two neighbouring diagonals the king can't cross.
func AdjacentBishops(b *chess.Board, moves []chess.Move) []chess.Move {
	return keep(moves, func(m chess.Move) bool {
		after := b.After(m)
		b1, b2 := after.SquareOf(chess.WhiteBishop1), after.SquareOf(chess.WhiteBishop2)
		return b1 != chess.NoSquare && b2 != chess.NoSquare && chess.ManhattanDistance(b1, b2) == 1
	})
}

// Captures keeps the moves that take a piece
func Captures(b *chess.Board, moves []chess.Move) []chess.Move {
	return keep(moves, func(m chess.Move) bool { return m.IsCapture() })
}

// AvoidOpposition drops the moves ending in opposition with the enemy king
func AvoidOpposition(b *chess.Board, moves []chess.Move) []chess.Move {
	return keep(moves, func(m chess.Move) bool {
		after := b.After(m)
		return !InOpposition(&after)
	})
}

// TowardCenter keeps the moves ending closest to the centre of the board
func TowardCenter(b *chess.Board, moves []chess.Move) []chess.Move {
	best := -1
	var kept []chess.Move
	for _, m := range moves {
		d := chess.CenterDistance(m.To())
		switch {
		case best == -1 || d < best:
			best = d
			kept = append(kept[:0], m)
		case d == best:
			kept = append(kept, m)
		}
	}
	return kept
}
