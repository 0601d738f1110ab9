package chess

import (
	"fmt"
)

const (
	// Position hash packs one 8-bit field per piece, it is collision-free only up to this many pieces
	MaxHashedPieces = 4

	// Number of trailing plies kept for repetition detection
	DefaultHistoryWindow = 24
)

// Position is the bare piece placement: square -> piece and piece -> square tables
// kept in sync, plus the side to move. It is cheap to copy by value.
type Position struct {
	squares     [NumSquares]Piece
	pieceSquare [NumPieces]Square
	turn        Color
}

func emptyPosition() Position {
	p := Position{}
	for i := range p.squares {
		p.squares[i] = NoPiece
	}
	for i := range p.pieceSquare {
		p.pieceSquare[i] = NoSquare
	}
	return p
}

// Piece standing on given square, NoPiece if empty (or off board)
func (p *Position) At(sq Square) Piece {
	if !sq.OnBoard() {
		return NoPiece
	}
	return p.squares[sq]
}

// Square of given piece, NoSquare if it's not on the board
func (p *Position) SquareOf(piece Piece) Square {
	if piece >= NumPieces {
		return NoSquare
	}
	return p.pieceSquare[piece]
}

func (p *Position) Turn() Color {
	return p.turn
}

func (p *Position) KingSquare(c Color) Square {
	return p.pieceSquare[KingOf(c)]
}

// Pieces of given color that are on the board, ordered by id
func (p *Position) Pieces(c Color) []Piece {
	pieces := make([]Piece, 0, 4)
	for id := c.Offset(); id < c.Offset()+BlackOffset; id++ {
		if p.pieceSquare[id] != NoSquare {
			pieces = append(pieces, id)
		}
	}
	return pieces
}

// White pieces other than the king
func (p *Position) Attackers() []Piece {
	pieces := p.Pieces(White)
	attackers := pieces[:0]
	for _, piece := range pieces {
		if piece.Role() != King {
			attackers = append(attackers, piece)
		}
	}
	return attackers
}

func (p *Position) PieceCount() int {
	n := 0
	for _, sq := range p.pieceSquare {
		if sq != NoSquare {
			n++
		}
	}
	return n
}

func (p *Position) place(piece Piece, sq Square) {
	p.squares[sq] = piece
	p.pieceSquare[piece] = sq
}

func (p *Position) lift(sq Square) Piece {
	piece := p.squares[sq]
	if piece != NoPiece {
		p.pieceSquare[piece] = NoSquare
		p.squares[sq] = NoPiece
	}
	return piece
}

// Moves the piece and flips the side, no validation
func (p *Position) play(from, to Square) {
	piece := p.lift(from)
	p.lift(to)
	p.place(piece, to)
	p.turn = p.turn.Other()
}

// Copy of this position after playing the move, without any validation or history
func (p Position) After(m Move) Position {
	p.play(m.From(), m.To())
	return p
}

// Hash packs the (square + 1) of every piece on the board into 8-bit fields, ordered by piece id,
// and the side to move into the lowest bit. Panics when more than MaxHashedPieces are on the board.
func (p *Position) Hash() uint64 {
	var h uint64
	n := 0
	for _, sq := range p.pieceSquare {
		if sq == NoSquare {
			continue
		}
		if n++; n > MaxHashedPieces {
			panic(fmt.Sprintf("chess: position hash supports at most %d pieces", MaxHashedPieces))
		}
		h = h<<8 | (uint64(sq) + 1)
	}
	return h<<1 | uint64(p.turn)
}

// Material configuration of the position, NoEnding if it's none of the supported ones
func (p *Position) Ending() Ending {
	if p.SquareOf(WhiteKing) == NoSquare || p.SquareOf(BlackKing) == NoSquare {
		return NoEnding
	}
	if len(p.Pieces(Black)) != 1 {
		return NoEnding
	}
	var counts [NoRole]int
	for _, piece := range p.Attackers() {
		counts[piece.Role()]++
	}
	switch {
	case counts == [NoRole]int{Rook: 1}:
		return EndingKRK
	case counts == [NoRole]int{Queen: 1}:
		return EndingKQK
	case counts == [NoRole]int{Rook: 2}:
		return EndingKRRK
	case counts == [NoRole]int{Bishop: 2}:
		return EndingKBBK
	}
	return NoEnding
}

// Board is a Position with game bookkeeping: ply count and a bounded
// window of position hashes used for repetition detection.
type Board struct {
	Position
	ply         int
	window      int
	history     []uint64
	occurrences map[uint64]int
	repeated    bool
}

// Create the starting board of given ending
func NewBoard(ending Ending) *Board {
	b, err := NewBoardFromMap(ending.Layout(), White)
	if err != nil {
		panic(fmt.Sprintf("chess: bad layout of %s: %v", ending, err))
	}
	return b
}

// Create a board from arbitrary square -> piece mapping
func NewBoardFromMap(layout map[Square]Piece, turn Color) (*Board, error) {
	pos := emptyPosition()
	pos.turn = turn
	for sq, piece := range layout {
		if !sq.OnBoard() {
			return nil, fmt.Errorf("square %#x is off board", uint8(sq))
		}
		if piece >= NumPieces {
			return nil, fmt.Errorf("invalid piece id %d on %s", piece, sq)
		}
		if pos.pieceSquare[piece] != NoSquare {
			return nil, fmt.Errorf("piece %d placed twice (%s and %s)", piece, pos.pieceSquare[piece], sq)
		}
		pos.place(piece, sq)
	}
	if err := pos.validate(); err != nil {
		return nil, err
	}
	ply := 0
	if turn == Black {
		ply = 1
	}
	return newBoard(pos, ply), nil
}

func newBoard(pos Position, ply int) *Board {
	b := &Board{
		Position:    pos,
		ply:         ply,
		window:      DefaultHistoryWindow,
		history:     make([]uint64, 0, DefaultHistoryWindow+1),
		occurrences: make(map[uint64]int, DefaultHistoryWindow+1),
	}
	b.record()
	return b
}

func (p *Position) validate() error {
	if p.pieceSquare[WhiteKing] == NoSquare || p.pieceSquare[BlackKing] == NoSquare {
		return fmt.Errorf("both kings must be on the board")
	}
	if n := p.PieceCount(); n > MaxHashedPieces {
		return fmt.Errorf("%d pieces on the board, at most %d supported", n, MaxHashedPieces)
	}
	if Distance(p.pieceSquare[WhiteKing], p.pieceSquare[BlackKing]) < 2 {
		return fmt.Errorf("kings are adjacent")
	}
	if p.IsAttacked(p.KingSquare(p.turn.Other()), p.turn) {
		return fmt.Errorf("side not to move is in check")
	}
	return nil
}

// Deep copy of the board, including the history window
func (b *Board) Clone() *Board {
	clone := &Board{
		Position:    b.Position,
		ply:         b.ply,
		window:      b.window,
		history:     make([]uint64, len(b.history), b.window+1),
		occurrences: make(map[uint64]int, len(b.occurrences)),
		repeated:    b.repeated,
	}
	copy(clone.history, b.history)
	for h, n := range b.occurrences {
		clone.occurrences[h] = n
	}
	return clone
}

// Number of plies played since the start of the game
func (b *Board) Ply() int {
	return b.ply
}

// Whether some position occurred 3 times within the tracked window
func (b *Board) RepeatedThreeTimes() bool {
	return b.repeated
}

// How many times the current position occurred within the tracked window
func (b *Board) CurrentOccurrenceCount() int {
	return b.occurrences[b.Hash()]
}

// Whether given position hash is in the tracked window
func (b *Board) SeenBefore(hash uint64) bool {
	return b.occurrences[hash] > 0
}

// Applies the move, verifying it matches the board first
func (b *Board) ApplyMove(m Move) error {
	from, to := m.From(), m.To()
	if !from.OnBoard() || !to.OnBoard() {
		return &InconsistentMoveError{Move: m, Occupant: NoPiece, Captured: NoPiece}
	}
	if b.squares[from] != m.Moved() || b.squares[to] != m.Target() {
		return &InconsistentMoveError{Move: m, Occupant: b.squares[from], Captured: b.squares[to]}
	}
	b.apply(from, to)
	return nil
}

// Moves whatever stands on 'from' to 'to'
func (b *Board) ApplyFromTo(from, to Square) error {
	if !from.OnBoard() || !to.OnBoard() || b.squares[from] == NoPiece {
		return &InconsistentMoveError{
			Move: Encode(from, to, NoPiece, b.At(to)), Occupant: b.At(from), Captured: b.At(to),
		}
	}
	b.apply(from, to)
	return nil
}

// Build the move from the board contents
func (b *Board) MoveFromTo(from, to Square) Move {
	return Encode(from, to, b.At(from), b.At(to))
}

func (b *Board) apply(from, to Square) {
	b.play(from, to)
	b.ply++
	b.record()
}

func (b *Board) record() {
	h := b.Hash()
	b.history = append(b.history, h)
	b.occurrences[h]++

	if len(b.history) > b.window {
		oldest := b.history[0]
		b.history = b.history[1:]
		if b.occurrences[oldest]--; b.occurrences[oldest] <= 0 {
			delete(b.occurrences, oldest)
		}
	}

	if b.occurrences[h] > 2 {
		b.repeated = true
	}
}

func (b *Board) String() string {
	return b.FEN()
}
