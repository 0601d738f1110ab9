package mcts

import (
	"github.com/IlikeChooros/go-mcts-endgames/pkg/chess"
)

// Node of the search tree. The parent pointer is a back reference only,
// a subtree is discarded by dropping the reference to it.
type Node struct {
	NodeStats
	Parent *Node
	// Move that led here, NoMove for the root of a fresh tree
	Move chess.Move
	// Absolute ply of the game this node represents
	Ply int
	// Depth within the current tree, the root has 0
	Depth int

	children map[chess.Move]*Node
	// children in creation order, keeps iteration deterministic
	order []*Node

	board *chess.Board
	eval  chess.EvalState
	// moves the simulation policy is willing to play here, nil until asked
	candidates []chess.Move
	// candidates were computed, an empty list is a valid answer
	hasCandidates bool
}

func newRootNode(b *chess.Board, maxPly int) *Node {
	return &Node{
		NodeStats: newNodeStats(),
		Move:      chess.NoMove,
		Ply:       b.Ply(),
		board:     b,
		eval:      chess.EvaluateTree(b, maxPly),
	}
}

// Creates the child reached by playing the move, the board is cloned
func (node *Node) addChild(m chess.Move, maxPly int) (*Node, error) {
	b := node.board.Clone()
	if err := b.ApplyMove(m); err != nil {
		return nil, err
	}
	child := &Node{
		NodeStats: newNodeStats(),
		Parent:    node,
		Move:      m,
		Ply:       b.Ply(),
		Depth:     node.Depth + 1,
		board:     b,
		eval:      chess.EvaluateTree(b, maxPly),
	}
	if node.children == nil {
		node.children = make(map[chess.Move]*Node)
	}
	node.children[m] = child
	node.order = append(node.order, child)
	return child, nil
}

// Whether white is to move in this node, follows from the ply parity
func (node *Node) WhiteToMove() bool {
	return node.Ply%2 == 0
}

// Child reached by given move, nil if it was never expanded
func (node *Node) Child(m chess.Move) *Node {
	return node.children[m]
}

// Children in the order they were created
func (node *Node) Children() []*Node {
	return node.order
}

// Board of this node, must not be modified
func (node *Node) Board() *chess.Board {
	return node.board
}

// Cached evaluation of the node's board
func (node *Node) Eval() chess.EvalState {
	return node.eval
}

func (node *Node) State() NodeState {
	switch {
	case len(node.order) == 0:
		return Unexpanded
	case node.hasCandidates && len(node.order) >= len(node.candidates):
		return FullyExpanded
	default:
		return PartiallyExpanded
	}
}

// Candidates that don't have a child yet
func (node *Node) unexpanded() []chess.Move {
	var moves []chess.Move
	for _, m := range node.candidates {
		if _, ok := node.children[m]; !ok {
			moves = append(moves, m)
		}
	}
	return moves
}

// Shifts the tree depths of the whole subtree, used after re-rooting
func (node *Node) rebase(delta int) {
	node.Depth -= delta
	node.MaxDepth = max(node.MaxDepth-delta, node.Depth)
	if node.MinMateDepth != NoMate {
		node.MinMateDepth -= delta
	}
	for _, child := range node.order {
		child.rebase(delta)
	}
}

// Helper function to count tree nodes
func countTreeNodes(node *Node) int {
	nodes := 1
	for _, child := range node.order {
		nodes += countTreeNodes(child)
	}
	return nodes
}
