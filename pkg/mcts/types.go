package mcts

// Other types, which didn't fit to the engine or node files

type SeedGeneratorFnType func() int64

// Lifecycle of a single node
type NodeState int

const (
	// No children yet
	Unexpanded NodeState = iota
	// Some of the candidate moves are materialised as children
	PartiallyExpanded
	// Every candidate move has its child
	FullyExpanded
)

func (s NodeState) String() string {
	switch s {
	case Unexpanded:
		return "unexpanded"
	case PartiallyExpanded:
		return "partially-expanded"
	case FullyExpanded:
		return "fully-expanded"
	}
	return "unknown"
}

// Marks the absence of a mate below a node
const NoMate = -1
