package mcts

// Backpropagate walks from the simulated node up to the root, crediting every
// node on the way with the rollout visits and mates. When the simulated node is a
// mate itself, its depth becomes a mate depth candidate of all its ancestors.
func Backpropagate(node *Node, mates, visits int, isMate bool) {
	depth := node.Depth
	for node != nil {
		node.Visits += visits
		node.Mates += mates
		node.MaxDepth = max(node.MaxDepth, depth)
		if isMate && (node.MinMateDepth == NoMate || depth < node.MinMateDepth) {
			node.MinMateDepth = depth
		}
		node = node.Parent
	}
}
