package chess

// EvalState classifies a board for the search and the game loop
type EvalState uint8

const (
	Normal EvalState = iota
	Mated
	Stalemated
	DrawRepetition
	DrawMoveLimit
	PieceInDanger
	// attacker has no mating material left
	DrawMaterial
)

var evalStateNames = [...]string{
	Normal:         "normal",
	Mated:          "mated",
	Stalemated:     "stalemated",
	DrawRepetition: "draw-repetition",
	DrawMoveLimit:  "draw-move-limit",
	PieceInDanger:  "piece-in-danger",
	DrawMaterial:   "draw-material",
}

func (s EvalState) String() string {
	if int(s) >= len(evalStateNames) {
		return "unknown"
	}
	return evalStateNames[s]
}

// Whether the game is over in this state
func (s EvalState) IsTerminal() bool {
	return s != Normal && s != PieceInDanger
}

func (s EvalState) IsDraw() bool {
	return s == Stalemated || s == DrawRepetition || s == DrawMoveLimit || s == DrawMaterial
}

func (s EvalState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// EvaluateTree is the evaluation used inside the search tree and rollouts:
// piece-in-danger takes precedence over the move limit and repetition.
func EvaluateTree(b *Board, maxPly int) EvalState {
	if s, ok := b.mateOrStalemate(); ok {
		return s
	}
	if b.insufficientMaterial() {
		return DrawMaterial
	}
	if b.pieceInDanger() {
		return PieceInDanger
	}
	if b.moveLimitReached(maxPly) {
		return DrawMoveLimit
	}
	if b.repeated {
		return DrawRepetition
	}
	return Normal
}

// Evaluate is the evaluation used by the game loop on the live board:
// the move limit and repetition come before piece-in-danger.
func Evaluate(b *Board, maxPly int) EvalState {
	if s, ok := b.mateOrStalemate(); ok {
		return s
	}
	if b.insufficientMaterial() {
		return DrawMaterial
	}
	if b.moveLimitReached(maxPly) {
		return DrawMoveLimit
	}
	if b.repeated {
		return DrawRepetition
	}
	if b.pieceInDanger() {
		return PieceInDanger
	}
	return Normal
}

func (b *Board) mateOrStalemate() (EvalState, bool) {
	if len(b.LegalMoves(b.turn)) > 0 {
		return Normal, false
	}
	if b.InCheck(b.turn) {
		return Mated, true
	}
	return Stalemated, true
}

// Only kings left, or a lone minor piece
func (p *Position) insufficientMaterial() bool {
	attackers := p.Attackers()
	switch len(attackers) {
	case 0:
		return true
	case 1:
		r := attackers[0].Role()
		return r == Bishop || r == Knight
	}
	return false
}

// Black has just moved and can take some white piece for free
func (p *Position) pieceInDanger() bool {
	if p.turn != White {
		return false
	}
	for _, piece := range p.Attackers() {
		if p.EnPrise(piece) {
			return true
		}
	}
	return false
}

func (b *Board) moveLimitReached(maxPly int) bool {
	return maxPly > 0 && b.ply >= maxPly
}
