package chess

import (
	"strings"

	"golang.org/x/exp/constraints"
)

// Square uses the 0x88 layout: rank*16 + file, legal squares satisfy sq&0x88 == 0
type Square uint8

// Piece is an index into the piece table, 0-15 are white pieces, 16-31 black ones
type Piece uint8

type Color uint8
type Role uint8

const (
	NoSquare Square = 0xFF
	NoPiece  Piece  = 0xFF

	NumPieces  = 32
	NumSquares = 128

	offboardMask = 0x88
)

const (
	White Color = iota
	Black
)

// Piece roles, in the order of the piece id sub-ranges
const (
	Rook Role = iota
	Knight
	Bishop
	Queen
	King
	Pawn
	NoRole
)

// Piece ids of the white side, black ids are the same + BlackOffset
const (
	WhiteRook1 Piece = iota
	WhiteRook2
	WhiteKnight1
	WhiteKnight2
	WhiteBishop1
	WhiteBishop2
	WhiteQueen
	WhiteKing
	WhitePawn1
)

const (
	BlackOffset Piece = 16

	BlackRook1   = WhiteRook1 + BlackOffset
	BlackRook2   = WhiteRook2 + BlackOffset
	BlackKnight1 = WhiteKnight1 + BlackOffset
	BlackKnight2 = WhiteKnight2 + BlackOffset
	BlackBishop1 = WhiteBishop1 + BlackOffset
	BlackBishop2 = WhiteBishop2 + BlackOffset
	BlackQueen   = WhiteQueen + BlackOffset
	BlackKing    = WhiteKing + BlackOffset
	BlackPawn1   = WhitePawn1 + BlackOffset
)

// first id and number of ids for each role, relative to the color offset
var roleRanges = [...]struct{ first, count Piece }{
	Rook:   {WhiteRook1, 2},
	Knight: {WhiteKnight1, 2},
	Bishop: {WhiteBishop1, 2},
	Queen:  {WhiteQueen, 1},
	King:   {WhiteKing, 1},
	Pawn:   {WhitePawn1, 8},
}

func (c Color) Other() Color {
	return c ^ 1
}

func (c Color) String() string {
	if c == White {
		return "white"
	}
	return "black"
}

// Offset of the color in the piece table
func (c Color) Offset() Piece {
	return Piece(c) * BlackOffset
}

func (p Piece) Color() Color {
	if p >= BlackOffset {
		return Black
	}
	return White
}

func (p Piece) Role() Role {
	if p >= NumPieces {
		return NoRole
	}
	switch id := p % BlackOffset; {
	case id <= WhiteRook2:
		return Rook
	case id <= WhiteKnight2:
		return Knight
	case id <= WhiteBishop2:
		return Bishop
	case id == WhiteQueen:
		return Queen
	case id == WhiteKing:
		return King
	default:
		return Pawn
	}
}

// KingOf returns the king's piece id of given color
func KingOf(c Color) Piece {
	return WhiteKing + c.Offset()
}

var roleSymbols = [...]byte{Rook: 'r', Knight: 'n', Bishop: 'b', Queen: 'q', King: 'k', Pawn: 'p'}

// Symbol in FEN notation, uppercase for white
func (p Piece) Symbol() byte {
	r := p.Role()
	if r == NoRole {
		return '.'
	}
	s := roleSymbols[r]
	if p.Color() == White {
		s -= 'a' - 'A'
	}
	return s
}

func (p Piece) String() string {
	if p == NoPiece {
		return "none"
	}
	return string(p.Symbol())
}

func roleFromSymbol(b byte) (Role, Color, bool) {
	color := Black
	if b >= 'A' && b <= 'Z' {
		color = White
		b += 'a' - 'A'
	}
	for r, s := range roleSymbols {
		if s == b {
			return Role(r), color, true
		}
	}
	return NoRole, color, false
}

func NewSquare(file, rank int) Square {
	return Square(rank*16 + file)
}

func (s Square) File() int {
	return int(s) & 7
}

func (s Square) Rank() int {
	return int(s) >> 4
}

// Whether this is a square of the 8x8 board
func (s Square) OnBoard() bool {
	return s&offboardMask == 0
}

// Light squares have odd (file + rank)
func (s Square) IsLight() bool {
	return (s.File()+s.Rank())%2 == 1
}

func (s Square) String() string {
	if !s.OnBoard() {
		return "-"
	}
	return string([]byte{byte('a' + s.File()), byte('1' + s.Rank())})
}

// Parse coordinate notation, like "e4"
func ParseSquare(str string) (Square, bool) {
	str = strings.TrimSpace(str)
	if len(str) != 2 || str[0] < 'a' || str[0] > 'h' || str[1] < '1' || str[1] > '8' {
		return NoSquare, false
	}
	return NewSquare(int(str[0]-'a'), int(str[1]-'1')), true
}

func abs[T constraints.Signed](v T) T {
	if v < 0 {
		return -v
	}
	return v
}

// Chebyshev (king-step) distance between two squares
func Distance(a, b Square) int {
	return max(abs(a.File()-b.File()), abs(a.Rank()-b.Rank()))
}

// Manhattan distance between two squares
func ManhattanDistance(a, b Square) int {
	return abs(a.File()-b.File()) + abs(a.Rank()-b.Rank())
}

// Distance to the closest of the four central squares
func CenterDistance(s Square) int {
	df := min(abs(s.File()-3), abs(s.File()-4))
	dr := min(abs(s.Rank()-3), abs(s.Rank()-4))
	return max(df, dr)
}
