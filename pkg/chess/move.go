package chess

import "strings"

// Move packs a single ply into 32 bits:
//
//	bits  0-7  origin square
//	bits  8-15 destination square
//	bits 16-23 moved piece
//	bits 24-31 captured piece, NoPiece if the destination was empty
type Move uint32

const (
	_moveFieldBits = 8
	_moveFieldMask = 0xFF
)

// NoMove has NoSquare as origin
const NoMove Move = 0xFFFFFFFF

func Encode(from, to Square, moved, target Piece) Move {
	return Move(from) |
		Move(to)<<_moveFieldBits |
		Move(moved)<<(2*_moveFieldBits) |
		Move(target)<<(3*_moveFieldBits)
}

// Decode returns (from, to, moved, target)
func (m Move) Decode() (Square, Square, Piece, Piece) {
	return m.From(), m.To(), m.Moved(), m.Target()
}

func (m Move) From() Square {
	return Square(m & _moveFieldMask)
}

func (m Move) To() Square {
	return Square((m >> _moveFieldBits) & _moveFieldMask)
}

func (m Move) Moved() Piece {
	return Piece((m >> (2 * _moveFieldBits)) & _moveFieldMask)
}

func (m Move) Target() Piece {
	return Piece((m >> (3 * _moveFieldBits)) & _moveFieldMask)
}

func (m Move) IsNone() bool {
	return m.From() == NoSquare
}

func (m Move) IsCapture() bool {
	return m.Target() != NoPiece
}

// Coordinate notation, e.g. "e1e2"
func (m Move) String() string {
	if m.IsNone() {
		return "(none)"
	}
	return m.From().String() + m.To().String()
}

func (m Move) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// Find the move in the list matching given coordinate notation, returns NoMove if there is none
func FindMove(moves []Move, notation string) Move {
	notation = strings.TrimSpace(notation)
	if len(notation) < 4 {
		return NoMove
	}
	from, ok1 := ParseSquare(notation[:2])
	to, ok2 := ParseSquare(notation[2:4])
	if !ok1 || !ok2 {
		return NoMove
	}
	for _, m := range moves {
		if m.From() == from && m.To() == to {
			return m
		}
	}
	return NoMove
}

// MovesString joins the moves with spaces
func MovesString(moves []Move) string {
	strs := make([]string, len(moves))
	for i, m := range moves {
		strs[i] = m.String()
	}
	return strings.Join(strs, " ")
}
