package chess

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/IlikeChooros/dragontoothmg"
)

// Reference generator: tries every on-board destination for every piece.
// Same set as LegalMoves, only slower.
func (p *Position) legalMovesScan(c Color) []Move {
	var moves []Move
	for id := c.Offset(); id < c.Offset()+BlackOffset; id++ {
		from := p.pieceSquare[id]
		if from == NoSquare {
			continue
		}
		for to := Square(0); to < NumSquares; to++ {
			if to.OnBoard() && p.IsLegal(from, to) {
				moves = append(moves, Encode(from, to, id, p.squares[to]))
			}
		}
	}
	return moves
}

func moveStrings(moves []Move) []string {
	strs := make([]string, len(moves))
	for i, m := range moves {
		strs[i] = m.String()
	}
	sort.Strings(strs)
	return strs
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestGoldenRookMoves(t *testing.T) {
	// white king on 0x33, rook on 0x42, black king on 0x53
	b := mustBoard(t, map[Square]Piece{
		Square(0x33): WhiteKing,
		Square(0x42): WhiteRook1,
		Square(0x53): BlackKing,
	}, White)

	var rookMoves []Move
	for _, m := range b.LegalMoves(White) {
		if m.Moved() == WhiteRook1 {
			rookMoves = append(rookMoves, m)
		}
	}
	expected := []string{
		"c5a5", "c5b5", "c5c1", "c5c2", "c5c3", "c5c4", "c5c6",
		"c5c7", "c5c8", "c5d5", "c5e5", "c5f5", "c5g5", "c5h5",
	}
	if got := moveStrings(rookMoves); !equalStrings(got, expected) {
		t.Fatalf("expected %v, got %v", expected, got)
	}
}

func TestKingMoves(t *testing.T) {
	tests := []struct {
		name    string
		layout  map[Square]Piece
		turn    Color
		from    string
		legal   []string
		illegal []string
	}{
		{
			name:    "opposition",
			layout:  map[Square]Piece{sq("e4"): WhiteKing, sq("e6"): BlackKing},
			turn:    White,
			from:    "e4",
			legal:   []string{"e3", "d3", "f3", "d4", "f4"},
			illegal: []string{"d5", "e5", "f5", "e4", "e6"},
		},
		{
			name:    "lifted king does not shield its own ray",
			layout:  map[Square]Piece{sq("a1"): WhiteKing, sq("a5"): WhiteRook1, sq("e5"): BlackKing},
			turn:    Black,
			from:    "e5",
			legal:   []string{"e6", "d6", "f4", "e4"},
			illegal: []string{"f5", "d5"},
		},
		{
			name:    "defended piece",
			layout:  map[Square]Piece{sq("c1"): WhiteKing, sq("d2"): WhiteRook1, sq("e3"): BlackKing},
			turn:    Black,
			from:    "e3",
			legal:   []string{"f4", "e4"},
			illegal: []string{"d2", "e2", "f2", "d3", "d4"},
		},
		{
			name:    "undefended piece",
			layout:  map[Square]Piece{sq("a1"): WhiteKing, sq("d2"): WhiteRook1, sq("e3"): BlackKing},
			turn:    Black,
			from:    "e3",
			legal:   []string{"d2", "e4"},
			illegal: []string{"e2", "d3"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := mustBoard(t, tt.layout, tt.turn)
			for _, to := range tt.legal {
				if !b.IsLegal(sq(tt.from), sq(to)) {
					t.Errorf("%s%s should be legal in %s", tt.from, to, b.FEN())
				}
			}
			for _, to := range tt.illegal {
				if b.IsLegal(sq(tt.from), sq(to)) {
					t.Errorf("%s%s should be illegal in %s", tt.from, to, b.FEN())
				}
			}
			checkInvariant(t, b)
		})
	}
}

func TestEnPrise(t *testing.T) {
	defended := mustBoard(t, map[Square]Piece{sq("c1"): WhiteKing, sq("d2"): WhiteRook1, sq("e3"): BlackKing}, White)
	if defended.EnPrise(WhiteRook1) {
		t.Error("defended rook reported en prise")
	}
	hanging := mustBoard(t, map[Square]Piece{sq("a1"): WhiteKing, sq("d2"): WhiteRook1, sq("e3"): BlackKing}, White)
	if !hanging.EnPrise(WhiteRook1) {
		t.Error("hanging rook not reported en prise")
	}
	if EvaluateTree(hanging, 100) != PieceInDanger {
		t.Errorf("expected piece in danger, got %s", EvaluateTree(hanging, 100))
	}
}

func TestPawnMoves(t *testing.T) {
	b := mustBoard(t, map[Square]Piece{
		sq("e1"): WhiteKing, sq("d2"): WhitePawn1, sq("e3"): BlackPawn1, sq("e8"): BlackKing,
	}, White)
	for _, to := range []string{"d3", "d4", "e3"} {
		if !b.IsLegal(sq("d2"), sq(to)) {
			t.Errorf("d2%s should be legal", to)
		}
	}
	for _, to := range []string{"c3", "d1", "d5", "e2"} {
		if b.IsLegal(sq("d2"), sq(to)) {
			t.Errorf("d2%s should be illegal", to)
		}
	}
	// pushes never attack, diagonals always do
	if b.IsLegalCannibal(sq("d2"), sq("d3")) || !b.IsLegalCannibal(sq("d2"), sq("c3")) {
		t.Error("wrong pawn attack geometry")
	}
}

func TestMoveGeneration(t *testing.T) {
	r := rand.New(rand.NewSource(11))
	for _, e := range Endings() {
		for i := 0; i < 40; i++ {
			b := NewBoard(e)
			randomPlayout(t, b, r, 120, func(b *Board) {
				for _, c := range []Color{White, Black} {
					fast, slow := moveStrings(b.LegalMoves(c)), moveStrings(b.legalMovesScan(c))
					if !equalStrings(fast, slow) {
						t.Fatalf("%s %s: step tables gave %v, scan gave %v", b.FEN(), c, fast, slow)
					}
				}
				for _, m := range b.LegalMoves(b.Turn()) {
					if m.Moved().Role() == King && Distance(m.To(), b.KingSquare(b.Turn().Other())) < 2 {
						t.Fatalf("king move %s ends next to the other king in %s", m, b.FEN())
					}
				}
			})
		}
	}
}

func TestCannibalSuperset(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	for _, e := range Endings() {
		b := NewBoard(e)
		randomPlayout(t, b, r, 60, func(b *Board) {
			for from := Square(0); from < NumSquares; from++ {
				if !from.OnBoard() || b.At(from) == NoPiece {
					continue
				}
				for to := Square(0); to < NumSquares; to++ {
					if to.OnBoard() && b.IsLegal(from, to) && !b.IsLegalCannibal(from, to) {
						t.Fatalf("%s%s legal but not cannibal-legal in %s", from, to, b.FEN())
					}
				}
			}
		})
	}
}

// Our generator must agree with a full chess move generator for the side to move
func TestAgainstDragontooth(t *testing.T) {
	r := rand.New(rand.NewSource(5))
	for _, e := range Endings() {
		for i := 0; i < 20; i++ {
			b := NewBoard(e)
			randomPlayout(t, b, r, 80, func(b *Board) {
				ref := dragontoothmg.ParseFen(b.FEN())
				refMoves := ref.GenerateLegalMoves()
				expected := make([]string, len(refMoves))
				for i := range refMoves {
					expected[i] = refMoves[i].String()
				}
				sort.Strings(expected)

				if got := moveStrings(b.LegalMoves(b.Turn())); !equalStrings(got, expected) {
					t.Fatalf("%s: expected %v, got %v", b.FEN(), expected, got)
				}
			})
		}
	}
}
