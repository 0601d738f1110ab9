package mcts

import (
	"math"
	"math/rand"
)

// UCT score of the child, as seen by the side to move in the parent:
// white maximises the mate rate, black minimises it.
//
//	score = exploitation + C * sqrt(ln(parent visits) / child visits)
func UCT(parent, child *Node, exploration float64) float64 {
	if child.Visits == 0 {
		return math.Inf(1)
	}
	exploitation := child.MateRate()
	if !parent.WhiteToMove() {
		exploitation = 1 - exploitation
	}
	lnParentVisits := math.Log(float64(max(parent.Visits, 1)))
	return exploitation + exploration*math.Sqrt(lnParentVisits/float64(child.Visits))
}

// Children sharing the best UCT score
func bestUCT(parent *Node, exploration float64) []*Node {
	best := math.Inf(-1)
	var tied []*Node
	for _, child := range parent.order {
		score := UCT(parent, child, exploration)
		switch {
		case score > best:
			best = score
			tied = append(tied[:0], child)
		case score == best:
			tied = append(tied, child)
		}
	}
	return tied
}

// Children with the most visits
func mostVisited(nodes []*Node) []*Node {
	most := -1
	var tied []*Node
	for _, child := range nodes {
		switch {
		case child.Visits > most:
			most = child.Visits
			tied = append(tied[:0], child)
		case child.Visits == most:
			tied = append(tied, child)
		}
	}
	return tied
}

func pickRandom(nodes []*Node, r *rand.Rand) *Node {
	switch len(nodes) {
	case 0:
		return nil
	case 1:
		return nodes[0]
	}
	return nodes[r.Intn(len(nodes))]
}

// Select descends one ply: highest UCT, optionally the most visited among
// the tied ones, then uniformly at random
func Select(parent *Node, exploration float64, tieBreakVisits bool, r *rand.Rand) *Node {
	tied := bestUCT(parent, exploration)
	if tieBreakVisits && len(tied) > 1 {
		tied = mostVisited(tied)
	}
	return pickRandom(tied, r)
}
