package mcts

import (
	"fmt"
	"math"
	"strings"
)

// Limits of a single Search call. Unset limits hold their Default*Limit
// sentinel, every setter also clears Infinite.
type Limits struct {
	Depth    int    `json:"depth"`
	Nodes    uint32 `json:"nodes"`
	Cycles   uint32 `json:"cycles"`
	Movetime int    `json:"movetime"`
	Infinite bool   `json:"infinite"`
	ByteSize int64  `json:"bytesize"`
}

const (
	DefaultDepthLimit    int    = math.MaxInt
	DefaultNodeLimit     uint32 = math.MaxUint32
	DefaultMovetimeLimit int    = -1
	DefaultByteSizeLimit int64  = -1
	DefaultCyclesLimit   uint32 = math.MaxUint32
)

// Only the limits that are set, "infinite" if none is
func (l Limits) String() string {
	if l.Infinite {
		return "infinite"
	}
	var parts []string
	if l.Depth != DefaultDepthLimit {
		parts = append(parts, fmt.Sprintf("depth=%d", l.Depth))
	}
	if l.Nodes != DefaultNodeLimit {
		parts = append(parts, fmt.Sprintf("nodes=%d", l.Nodes))
	}
	if l.Cycles != DefaultCyclesLimit {
		parts = append(parts, fmt.Sprintf("cycles=%d", l.Cycles))
	}
	if l.Movetime != DefaultMovetimeLimit {
		parts = append(parts, fmt.Sprintf("movetime=%dms", l.Movetime))
	}
	if l.ByteSize != DefaultByteSizeLimit {
		parts = append(parts, fmt.Sprintf("bytes=%d", l.ByteSize))
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, " ")
}

// No limit is set, the search runs until stopped
func DefaultLimits() *Limits {
	return &Limits{
		Depth:    DefaultDepthLimit,
		Nodes:    DefaultNodeLimit,
		Cycles:   DefaultCyclesLimit,
		Movetime: DefaultMovetimeLimit,
		Infinite: true,
		ByteSize: DefaultByteSizeLimit,
	}
}

// Set the maximum depth of the tree
func (l *Limits) SetDepth(depth int) *Limits {
	l.Depth = depth
	l.Infinite = false
	return l
}

// Set the maximum number of nodes in the tree
func (l *Limits) SetNodes(nodes uint32) *Limits {
	l.Nodes = nodes
	l.Infinite = false
	return l
}

// Set the number of engine steps
func (l *Limits) SetCycles(cycles uint32) *Limits {
	l.Cycles = cycles
	l.Infinite = false
	return l
}

// Set the maximum time for the engine to think, in milliseconds
func (l *Limits) SetMovetime(movetime int) *Limits {
	l.Movetime = movetime
	l.Infinite = false
	return l
}

// Memory budget of the tree in megabytes, see SetByteSize
func (l *Limits) SetMbSize(mbsize int) *Limits {
	return l.SetByteSize(int64(mbsize) << 20)
}

// Memory budget of the tree. Combined with a cycle or time limit, the tree
// stops growing once it is spent and the search continues on the existing nodes.
func (l *Limits) SetByteSize(bytesize int64) *Limits {
	l.ByteSize = bytesize
	l.Infinite = false
	return l
}
