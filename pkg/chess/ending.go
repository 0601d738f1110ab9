package chess

import (
	"fmt"
	"strings"
)

// Ending is one of the supported material configurations, white always attacks
type Ending uint8

const (
	EndingKRK Ending = iota
	EndingKQK
	EndingKRRK
	EndingKBBK

	NoEnding
)

var endingNames = [...]string{
	EndingKRK:  "krk",
	EndingKQK:  "kqk",
	EndingKRRK: "krrk",
	EndingKBBK: "kbbk",
}

// Fixed starting layouts, white to move
var endingLayouts = [...]map[Square]Piece{
	EndingKRK: {
		NewSquare(4, 0): WhiteKing,
		NewSquare(7, 0): WhiteRook1,
		NewSquare(3, 4): BlackKing,
	},
	EndingKQK: {
		NewSquare(4, 0): WhiteKing,
		NewSquare(3, 0): WhiteQueen,
		NewSquare(4, 4): BlackKing,
	},
	EndingKRRK: {
		NewSquare(4, 0): WhiteKing,
		NewSquare(0, 0): WhiteRook1,
		NewSquare(7, 0): WhiteRook2,
		NewSquare(4, 4): BlackKing,
	},
	EndingKBBK: {
		NewSquare(4, 0): WhiteKing,
		NewSquare(2, 0): WhiteBishop1,
		NewSquare(5, 0): WhiteBishop2,
		NewSquare(4, 4): BlackKing,
	},
}

func Endings() []Ending {
	return []Ending{EndingKRK, EndingKQK, EndingKRRK, EndingKBBK}
}

func (e Ending) String() string {
	if e >= NoEnding {
		return "unknown"
	}
	return endingNames[e]
}

func ParseEnding(name string) (Ending, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for e, n := range endingNames {
		if n == name {
			return Ending(e), nil
		}
	}
	return NoEnding, fmt.Errorf("unknown ending %q", name)
}

func (e Ending) MarshalText() ([]byte, error) {
	if e >= NoEnding {
		return nil, fmt.Errorf("unknown ending %d", e)
	}
	return []byte(e.String()), nil
}

func (e *Ending) UnmarshalText(text []byte) error {
	v, err := ParseEnding(string(text))
	if err != nil {
		return err
	}
	*e = v
	return nil
}

// Copy of the starting layout of this ending
func (e Ending) Layout() map[Square]Piece {
	if e >= NoEnding {
		return nil
	}
	layout := make(map[Square]Piece, len(endingLayouts[e]))
	for sq, p := range endingLayouts[e] {
		layout[sq] = p
	}
	return layout
}

// Whether the ending has a rook-like (rook or queen) attacker
func (e Ending) HasRookLike() bool {
	return e == EndingKRK || e == EndingKQK || e == EndingKRRK
}
