package chess

// Any two on-board 0x88 squares differ by -119..119, so every difference
// indexes into tables of this size after adding deltaOffset.
const (
	deltaOffset = 119
	deltaRange  = 2*deltaOffset + 1
)

var (
	rookSteps   = [...]int{1, -1, 16, -16}
	bishopSteps = [...]int{15, 17, -15, -17}
	knightSteps = [...]int{14, 18, 31, 33, -14, -18, -31, -33}
	kingSteps   = [...]int{1, -1, 16, -16, 15, 17, -15, -17}
)

var (
	// unit step of the line joining two squares, 0 if they share no line
	rayStep [deltaRange]int
	// whether that line is a rank or a file
	rayOrthogonal [deltaRange]bool
	knightDelta   [deltaRange]bool
	kingDelta     [deltaRange]bool
)

func init() {
	for _, step := range rookSteps {
		for k := 1; k < 8; k++ {
			rayStep[step*k+deltaOffset] = step
			rayOrthogonal[step*k+deltaOffset] = true
		}
	}
	for _, step := range bishopSteps {
		for k := 1; k < 8; k++ {
			rayStep[step*k+deltaOffset] = step
		}
	}
	for _, d := range knightSteps {
		knightDelta[d+deltaOffset] = true
	}
	for _, d := range kingSteps {
		kingDelta[d+deltaOffset] = true
	}
}

func delta(from, to Square) int {
	return int(to) - int(from) + deltaOffset
}

// Square reached by stepping from sq, second value is false when it leaves the board
func offset(sq Square, step int) (Square, bool) {
	t := int(sq) + step
	if t < 0 || t >= NumSquares || Square(t)&offboardMask != 0 {
		return NoSquare, false
	}
	return Square(t), true
}

// IsLegal reports whether the piece on 'from' may move to 'to'.
// Captures of own pieces or of a king are never legal, and a king may not
// step into check or next to the other king.
func (p *Position) IsLegal(from, to Square) bool {
	return p.isLegal(from, to, false)
}

// IsLegalCannibal is IsLegal with the occupant of 'to' ignored, i.e. whether
// the piece on 'from' attacks 'to'. Used for checks and defended squares.
func (p *Position) IsLegalCannibal(from, to Square) bool {
	return p.isLegal(from, to, true)
}

func (p *Position) isLegal(from, to Square, cannibal bool) bool {
	if !from.OnBoard() || !to.OnBoard() || from == to {
		return false
	}
	piece := p.squares[from]
	if piece == NoPiece {
		return false
	}
	if !cannibal {
		target := p.squares[to]
		if target != NoPiece && (target.Color() == piece.Color() || target.Role() == King) {
			return false
		}
	}

	switch piece.Role() {
	case Rook:
		return p.sliderLegal(from, to, true, false)
	case Bishop:
		return p.sliderLegal(from, to, false, true)
	case Queen:
		return p.sliderLegal(from, to, true, true)
	case Knight:
		return knightDelta[delta(from, to)]
	case King:
		return p.kingLegal(piece, from, to, cannibal)
	case Pawn:
		return p.pawnLegal(piece, from, to, cannibal)
	}
	return false
}

func (p *Position) sliderLegal(from, to Square, orthogonal, diagonal bool) bool {
	d := delta(from, to)
	step := rayStep[d]
	if step == 0 {
		return false
	}
	if rayOrthogonal[d] && !orthogonal || !rayOrthogonal[d] && !diagonal {
		return false
	}
	for sq := int(from) + step; sq != int(to); sq += step {
		if p.squares[sq] != NoPiece {
			return false
		}
	}
	return true
}

func (p *Position) kingLegal(king Piece, from, to Square, cannibal bool) bool {
	if !kingDelta[delta(from, to)] {
		return false
	}
	if cannibal {
		return true
	}

	enemy := king.Color().Other()
	if other := p.pieceSquare[KingOf(enemy)]; other != NoSquare && Distance(to, other) < 2 {
		return false
	}

	// Lift the king, so it doesn't shield 'to' from sliders along its own line
	p.squares[from] = NoPiece
	p.pieceSquare[king] = NoSquare
	attacked := p.IsAttacked(to, enemy)
	p.squares[from] = king
	p.pieceSquare[king] = from
	return !attacked
}

func pawnDirection(c Color) int {
	if c == White {
		return 16
	}
	return -16
}

func pawnStartRank(c Color) int {
	if c == White {
		return 1
	}
	return 6
}

func (p *Position) pawnLegal(pawn Piece, from, to Square, cannibal bool) bool {
	c := pawn.Color()
	dir := pawnDirection(c)
	d := int(to) - int(from)

	if d == dir-1 || d == dir+1 {
		return cannibal || p.squares[to] != NoPiece
	}
	if cannibal {
		return false
	}
	if d == dir {
		return p.squares[to] == NoPiece
	}
	if d == 2*dir && from.Rank() == pawnStartRank(c) {
		return p.squares[int(from)+dir] == NoPiece && p.squares[to] == NoPiece
	}
	return false
}

// IsAttacked reports whether any piece of color 'by' attacks the square,
// regardless of what stands on it.
func (p *Position) IsAttacked(sq Square, by Color) bool {
	for id := by.Offset(); id < by.Offset()+BlackOffset; id++ {
		from := p.pieceSquare[id]
		if from != NoSquare && p.isLegal(from, sq, true) {
			return true
		}
	}
	return false
}

// Whether the king of given color is attacked
func (p *Position) InCheck(c Color) bool {
	ksq := p.pieceSquare[KingOf(c)]
	return ksq != NoSquare && p.IsAttacked(ksq, c.Other())
}

// EnPrise reports whether the enemy king can legally capture the piece
func (p *Position) EnPrise(piece Piece) bool {
	sq := p.SquareOf(piece)
	if sq == NoSquare || piece.Role() == King {
		return false
	}
	ksq := p.pieceSquare[KingOf(piece.Color().Other())]
	return ksq != NoSquare && p.IsLegal(ksq, sq)
}

// Legal moves of given color, ordered by piece id and then by direction.
// Side to move is not checked.
func (p *Position) LegalMoves(c Color) []Move {
	moves := make([]Move, 0, 32)
	for id := c.Offset(); id < c.Offset()+BlackOffset; id++ {
		from := p.pieceSquare[id]
		if from == NoSquare {
			continue
		}
		switch id.Role() {
		case Rook:
			moves = p.appendSliding(moves, id, from, rookSteps[:])
		case Bishop:
			moves = p.appendSliding(moves, id, from, bishopSteps[:])
		case Queen:
			moves = p.appendSliding(moves, id, from, kingSteps[:])
		case Knight:
			moves = p.appendSteps(moves, id, from, knightSteps[:])
		case King:
			moves = p.appendSteps(moves, id, from, kingSteps[:])
		case Pawn:
			dir := pawnDirection(c)
			moves = p.appendSteps(moves, id, from, []int{dir, 2 * dir, dir - 1, dir + 1})
		}
	}
	return moves
}

func (p *Position) appendSliding(moves []Move, piece Piece, from Square, steps []int) []Move {
	for _, step := range steps {
		for to, ok := offset(from, step); ok; to, ok = offset(to, step) {
			target := p.squares[to]
			if p.IsLegal(from, to) {
				moves = append(moves, Encode(from, to, piece, target))
			}
			if target != NoPiece {
				break
			}
		}
	}
	return moves
}

func (p *Position) appendSteps(moves []Move, piece Piece, from Square, steps []int) []Move {
	for _, step := range steps {
		if to, ok := offset(from, step); ok && p.IsLegal(from, to) {
			moves = append(moves, Encode(from, to, piece, p.squares[to]))
		}
	}
	return moves
}
