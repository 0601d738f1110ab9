package policy

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/IlikeChooros/go-mcts-endgames/pkg/chess"
	"github.com/IlikeChooros/go-mcts-endgames/pkg/config"
	"github.com/IlikeChooros/go-mcts-endgames/pkg/oracle"
)

// Policy narrows the legal moves of the side to move down to the moves it is willing to play.
// The search expands and rolls out only through these candidates.
type Policy interface {
	Candidates(b *chess.Board) ([]chess.Move, error)
}

// Random plays any legal move
type Random struct{}

func (Random) Candidates(b *chess.Board) ([]chess.Move, error) {
	return b.LegalMoves(b.Turn()), nil
}

// Heuristic filters the legal moves through a pipeline
type Heuristic struct {
	Pipeline Pipeline
}

func (h Heuristic) Candidates(b *chess.Board) ([]chess.Move, error) {
	return h.Pipeline.Apply(b, b.LegalMoves(b.Turn())), nil
}

// Perfect plays whatever the oracle says
type Perfect struct {
	Oracle oracle.Oracle
}

func (p Perfect) Candidates(b *chess.Board) ([]chess.Move, error) {
	legal := b.LegalMoves(b.Turn())
	if len(legal) == 0 {
		return nil, nil
	}
	fen := b.FEN()
	res, err := p.Oracle.BestMove(fen)
	if err != nil {
		var ue *oracle.UnavailableError
		if errors.As(err, &ue) {
			return nil, err
		}
		return nil, &oracle.UnavailableError{FEN: fen, Err: err}
	}
	m := chess.FindMove(legal, res.Move)
	if m.IsNone() {
		return nil, &oracle.UnavailableError{FEN: fen, Err: fmt.Errorf("illegal best move %q", res.Move)}
	}
	return []chess.Move{m}, nil
}

// New builds the policy of given kind for one side
func New(kind config.Policy, side chess.Color, ending chess.Ending, flags config.HeuristicFlags, o oracle.Oracle) (Policy, error) {
	switch kind {
	case config.PolicyRandom:
		return Random{}, nil
	case config.PolicyHeuristic:
		if side == chess.White {
			return Heuristic{Pipeline: WhitePipeline(ending, flags)}, nil
		}
		return Heuristic{Pipeline: BlackPipeline()}, nil
	case config.PolicyPerfect:
		if o == nil {
			return nil, &config.InvalidConfigurationError{
				Field:  side.String() + " policy",
				Reason: "perfect policy needs an oracle",
			}
		}
		return Perfect{Oracle: o}, nil
	}
	return nil, &config.InvalidConfigurationError{Field: side.String() + " policy", Reason: fmt.Sprintf("unknown policy %s", kind)}
}

// Choose picks one of the policy's candidates uniformly at random
func Choose(p Policy, b *chess.Board, r *rand.Rand) (chess.Move, error) {
	moves, err := p.Candidates(b)
	if err != nil {
		return chess.NoMove, err
	}
	if len(moves) == 0 {
		return chess.NoMove, &chess.NoLegalMoveError{FEN: b.FEN(), Reason: "policy has no candidates"}
	}
	return moves[r.Intn(len(moves))], nil
}
