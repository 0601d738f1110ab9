package mcts

import (
	"math/rand"

	"github.com/IlikeChooros/go-mcts-endgames/pkg/chess"
	"github.com/IlikeChooros/go-mcts-endgames/pkg/policy"
)

// GameOperations is what the engine asks the game about while growing the tree
type GameOperations interface {
	// Moves of the side to move that may be expanded as children
	Candidates(b *chess.Board) ([]chess.Move, error)
	// Play the position out on the given (scratch) board, reporting whether black got mated
	Rollout(b *chess.Board) (bool, error)
	// Sets the random generator
	SetRand(*rand.Rand)
}

// PolicyOps expands and plays out with one simulation policy per side
type PolicyOps struct {
	White  policy.Policy
	Black  policy.Policy
	MaxPly int
	rand   *rand.Rand
}

func (o *PolicyOps) SetRand(r *rand.Rand) {
	o.rand = r
}

func (o *PolicyOps) policyFor(c chess.Color) policy.Policy {
	if c == chess.White {
		return o.White
	}
	return o.Black
}

func (o *PolicyOps) Candidates(b *chess.Board) ([]chess.Move, error) {
	return o.policyFor(b.Turn()).Candidates(b)
}

// Rollout plays until the game is over or the ply ceiling is reached, a mate
// on the ceiling still counts
func (o *PolicyOps) Rollout(b *chess.Board) (bool, error) {
	for {
		state := chess.EvaluateTree(b, o.MaxPly)
		if state.IsTerminal() || b.Ply() >= o.MaxPly {
			return state == chess.Mated && b.Turn() == chess.Black, nil
		}
		m, err := policy.Choose(o.policyFor(b.Turn()), b, o.rand)
		if err != nil {
			return false, err
		}
		if err := b.ApplyMove(m); err != nil {
			return false, err
		}
	}
}
