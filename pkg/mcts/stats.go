package mcts

import "fmt"

// NodeStats are the counters gathered by the backpropagation
type NodeStats struct {
	// Number of rollouts that went through this node
	Visits int
	// How many of them ended with black being mated
	Mates int
	// Deepest tree depth simulated below this node
	MaxDepth int
	// Shallowest mated node found below, NoMate if there is none
	MinMateDepth int
}

func newNodeStats() NodeStats {
	return NodeStats{MinMateDepth: NoMate}
}

// Fraction of rollouts ending in a mate, 0 for unvisited nodes
func (stats *NodeStats) MateRate() float64 {
	if stats.Visits == 0 {
		return 0
	}
	return float64(stats.Mates) / float64(stats.Visits)
}

func (stats NodeStats) String() string {
	return fmt.Sprintf("{visits=%d mates=%d maxdepth=%d minmate=%d}",
		stats.Visits, stats.Mates, stats.MaxDepth, stats.MinMateDepth)
}

// EngineStats are the counters of a whole game
type EngineStats struct {
	// Rollouts that ended in a mate
	MateCountInRollouts int `json:"mate_count_in_rollouts"`
	// Expanded nodes that were mates already
	MateCountInExpansion int `json:"mate_count_in_expansion"`
	// Times the played move was never explored and the tree was rebuilt
	CollapseCount int `json:"collapse_count"`
}
