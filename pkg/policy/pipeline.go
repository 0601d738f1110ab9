package policy

import (
	"github.com/IlikeChooros/go-mcts-endgames/pkg/chess"
	"github.com/IlikeChooros/go-mcts-endgames/pkg/config"
)

// Pipeline applies filters in order. A filter that would leave no move at all
// is skipped, so the pipeline never empties a non-empty list.
type Pipeline []Filter

func (p Pipeline) Apply(b *chess.Board, moves []chess.Move) []chess.Move {
	for _, filter := range p {
		if len(moves) <= 1 {
			break
		}
		if filtered := filter(b, moves); len(filtered) > 0 {
			moves = filtered
		}
	}
	return moves
}

// WhitePipeline builds the filters enabled by the flags, for the given ending
func WhitePipeline(ending chess.Ending, flags config.HeuristicFlags) Pipeline {
	var p Pipeline
	if flags.MateInOne {
		p = append(p, MateInOne)
	}
	if flags.Urgent {
		p = append(p, Urgent)
	}
	if flags.Safe {
		p = append(p, Safe)
	}
	if flags.AvoidRepetition {
		p = append(p, AvoidRepetition)
	}
	if flags.KingApproach {
		p = append(p, KingApproach)
	}
	if flags.Tactics {
		switch {
		case ending.HasRookLike():
			p = append(p, OppositionChecks)
		case ending == chess.EndingKBBK:
			p = append(p, AdjacentBishops)
		}
	}
	return p
}

// BlackPipeline is fixed: take whatever can be taken, stay out of opposition, run to the centre
func BlackPipeline() Pipeline {
	return Pipeline{Captures, AvoidOpposition, TowardCenter}
}
