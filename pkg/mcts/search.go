package mcts

import (
	"github.com/IlikeChooros/go-mcts-endgames/pkg/chess"
)

// Step runs one iteration on the current tree:
//
// 1. selection - descend by UCT to the most promising node
//
// 2. expansion - materialise one new child of that node, if it may grow
//
// 3. simulation - play 'rollouts' games out from the new (or selected) node
//
// 4. backpropagation - credit visits and mates up to the root
func (e *Engine) Step() error {
	node := e.Selection()

	if e.Limiter.Expand() {
		child, err := e.Expansion(node)
		if err != nil {
			return err
		}
		node = child
	}

	mates, err := e.Simulation(node)
	if err != nil {
		return err
	}

	depth := e.root.MaxDepth
	Backpropagate(node, mates, e.cfg.Rollouts, isBlackMated(node))
	e.cycles++
	if e.root.MaxDepth > depth && e.listener.onDepth != nil {
		e.listener.onDepth(toListenerStats(e))
	}
	return nil
}

func isBlackMated(node *Node) bool {
	return node.eval == chess.Mated && !node.WhiteToMove()
}

// Whether the selection may go below this node: it was visited at least
// 'goban' times and has a child. The other candidates of a node that was
// descended from are not expanded anymore.
func (e *Engine) descends(node *Node) bool {
	if e.cfg.CheckEvaluation && node.eval != chess.Normal {
		return false
	}
	return node.Ply < e.cfg.MaxPly &&
		node.Visits >= e.cfg.Goban &&
		len(node.order) > 0
}

// The game is over in this node, a node at the ply ceiling is a drawn game
func (e *Engine) terminal(node *Node) bool {
	return node.eval.IsTerminal() || node.Ply >= e.cfg.MaxPly
}

// Selection walks down from the root while the nodes are trusted enough
func (e *Engine) Selection() *Node {
	node := e.root
	for e.descends(node) {
		node = Select(node, e.cfg.Exploration, e.cfg.TieBreakVisits, e.rand)
	}
	return node
}

// Expansion adds one random unexpanded candidate of the node and returns it,
// or returns the node itself when it is terminal or has nothing left to expand
func (e *Engine) Expansion(node *Node) (*Node, error) {
	if e.terminal(node) {
		return node, nil
	}

	if !node.hasCandidates {
		candidates, err := e.ops.Candidates(node.board)
		if err != nil {
			return nil, err
		}
		node.candidates = candidates
		node.hasCandidates = true
	}

	moves := node.unexpanded()
	if len(moves) == 0 {
		return node, nil
	}

	child, err := node.addChild(moves[e.rand.Intn(len(moves))], e.cfg.MaxPly)
	if err != nil {
		return nil, err
	}
	e.size++
	if isBlackMated(child) {
		e.stats.MateCountInExpansion++
	}
	return child, nil
}

// Simulation plays the configured number of rollouts from the node,
// returns how many of them ended with black mated
func (e *Engine) Simulation(node *Node) (int, error) {
	mates := 0
	for range e.cfg.Rollouts {
		mated, err := e.ops.Rollout(node.board.Clone())
		if err != nil {
			return mates, err
		}
		if mated {
			mates++
		}
	}
	e.stats.MateCountInRollouts += mates
	return mates, nil
}

// Search runs steps until one of the limits is reached, the context is
// cancelled or Stop is called
func (e *Engine) Search(limits *Limits) error {
	e.setupSearch(limits)

	if e.terminal(e.root) {
		e.Limiter.SetStopReason(StopTerminal)
		e.invokeListener(e.listener.onStop)
		return nil
	}

	for e.Limiter.Ok(e.Size(), uint32(e.MaxDepth()), uint32(e.cycles)) {
		if err := e.Step(); err != nil {
			e.Limiter.SetStopReason(StopInterrupt)
			e.invokeListener(e.listener.onStop)
			return err
		}
		e.cps = uint32(e.cycles) * 1000 / e.Limiter.Elapsed()
		e.listener.invokeCycle(e)
	}

	e.Limiter.EvaluateStopReason(e.Size(), uint32(e.MaxDepth()), uint32(e.cycles))
	e.invokeListener(e.listener.onStop)
	e.log.Debug().
		Stringer("limits", e.Limiter.Limits()).
		Int("cycles", e.cycles).
		Uint32("size", e.size).
		Int("visits", e.root.Visits).
		Float64("mate_rate", e.root.MateRate()).
		Stringer("stop", e.Limiter.StopReason()).
		Msg("search finished")
	return nil
}

// Only sets the limits and resets the counters, doesn't start the search
func (e *Engine) setupSearch(limits *Limits) {
	if limits != nil {
		e.Limiter.SetLimits(limits)
	}
	e.Limiter.Reset()
	e.cycles = 0
	e.cps = 0
}
