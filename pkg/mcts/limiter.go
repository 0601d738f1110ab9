package mcts

import (
	"context"
	"sync/atomic"
)

type StopReason int

const (
	StopNone      StopReason = 0
	StopInterrupt StopReason = 1 << (iota - 1) // SetStop(true) or context cancellation
	StopMovetime                               // Time limit reached
	StopMemory                                 // Memory limit reached
	StopDepth                                  // Depth limit reached
	StopCycles                                 // Cycle limit reached
	StopNodes                                  // Node limit reached
	StopTerminal                               // Root is terminal or has nothing to expand
)

var stopReasonNames = []struct {
	flag StopReason
	name string
}{
	{StopInterrupt, "Interrupt"},
	{StopMovetime, "Movetime"},
	{StopMemory, "Memory"},
	{StopDepth, "Depth"},
	{StopCycles, "Cycles"},
	{StopNodes, "Nodes"},
	{StopTerminal, "Terminal"},
}

func (sr StopReason) String() string {
	if sr == StopNone {
		return "None"
	}

	var result string
	for _, r := range stopReasonNames {
		if sr&r.flag == r.flag {
			if result != "" {
				result += "|"
			}
			result += r.name
		}
	}
	return result
}

func (sr StopReason) MarshalText() ([]byte, error) {
	return []byte(sr.String()), nil
}

type LimiterLike interface {
	SetContext(ctx context.Context)
	// Set the limits
	SetLimits(*Limits)
	// Get the limits
	Limits() *Limits
	// Get elapsed time in ms (from the last 'Reset' call)
	Elapsed() uint32
	// Set the stop signal, will cause to exit search if set to true
	SetStop(bool)
	// Get the stop signal
	Stop() bool
	// Reset the limiter's flags, called on search setup
	Reset()
	// Wheter the tree can grow
	Expand() bool
	// Wheter the search may continue, called in the main search loop
	Ok(size, depth, cycles uint32) bool
	// Get the reason why the search was stopped, valid after search ends
	StopReason() StopReason
	// Evaluate stop reason based on current state and store it,
	// called once after the search loop exits
	EvaluateStopReason(size, depth, cycles uint32)
	// Force given stop reason, used when the search could not start at all
	SetStopReason(StopReason)
}

type Limiter struct {
	limits   *Limits
	clock    *movetimer
	nodeSize uint32
	maxSize  uint32
	expand   atomic.Bool
	stop     atomic.Bool
	// limits that are set, see OkMask
	areSet StopReason
	reason StopReason
	ctx    context.Context
}

// Creates a limiter for a tree whose nodes take about 'nodesize' bytes
func NewLimiter(nodesize uint32) *Limiter {
	limiter := &Limiter{
		limits:   DefaultLimits(),
		clock:    newMovetimer(),
		nodeSize: max(nodesize, 1),
		ctx:      context.Background(),
	}

	limiter.expand.Store(true)
	return limiter
}

func flag(set bool, reason StopReason) StopReason {
	if set {
		return reason
	}
	return StopNone
}

func (l *Limiter) Reset() {
	l.clock.setBudget(l.limits.Movetime)
	l.clock.restart()
	l.stop.Store(false)
	l.expand.Store(true)
	l.reason = StopNone

	// Calculate 'nodes' based on memory
	if l.limits.ByteSize != DefaultByteSizeLimit {
		l.maxSize = uint32(max(l.limits.ByteSize, 0) / int64(l.nodeSize))
	} else {
		l.maxSize = DefaultNodeLimit
	}

	l.areSet = flag(l.clock.set, StopMovetime) |
		flag(l.limits.ByteSize != DefaultByteSizeLimit, StopMemory) |
		flag(l.limits.Depth != DefaultDepthLimit, StopDepth) |
		flag(l.limits.Cycles != DefaultCyclesLimit, StopCycles) |
		flag(l.limits.Nodes != DefaultNodeLimit, StopNodes)
}

func (l *Limiter) EvaluateStopReason(size, depth, cycles uint32) {
	if l.reason != StopNone {
		return
	}
	l.reason = l.OkMask(size, depth, cycles)
}

func (l *Limiter) SetStopReason(reason StopReason) {
	l.reason = reason
}

func (l *Limiter) StopReason() StopReason {
	return l.reason
}

func (l *Limiter) SetContext(ctx context.Context) {
	if ctx == nil {
		ctx = context.Background()
	}
	l.ctx = ctx
}

func (l *Limiter) SetStop(v bool) {
	l.stop.Store(v)
}

func (l *Limiter) Stop() bool {
	select {
	case <-l.ctx.Done():
		l.stop.Store(true)
	default:
	}
	return l.stop.Load()
}

func (l *Limiter) SetLimits(limits *Limits) {
	if limits == nil {
		limits = DefaultLimits()
	}
	l.limits = limits
}

func (l *Limiter) Limits() *Limits {
	return l.limits
}

func (l *Limiter) Elapsed() uint32 {
	return uint32(l.clock.elapsedMs())
}

func (l *Limiter) Expand() bool {
	return l.expand.Load()
}

// Every limit that is currently reached
func (l *Limiter) LimitMask(size, depth, cycles uint32) StopReason {
	stop := flag(l.Stop(), StopInterrupt)
	// If infinite, only the stop signal counts
	if l.limits.Infinite {
		return stop
	}

	return stop |
		flag(l.clock.expired(), StopMovetime) |
		flag(l.maxSize <= size, StopMemory) |
		flag(l.limits.Depth <= int(depth), StopDepth) |
		flag(l.limits.Cycles <= cycles, StopCycles) |
		flag(l.limits.Nodes < size, StopNodes)
}

func (l *Limiter) OkMask(size, depth, cycles uint32) StopReason {
	limitMask := l.LimitMask(size, depth, cycles)

	// (time/cycles or both) AND memory limit -> if memory is exhausted,
	// disable expanding of the tree and wait for the other limitation/s
	if l.areSet&StopMemory != 0 && l.areSet&(StopMovetime|StopCycles) != 0 {
		if limitMask&StopMemory != 0 {
			l.expand.Store(false)
			limitMask &^= StopMemory
		}
	}

	return limitMask
}

func (l *Limiter) Ok(size, depth, cycles uint32) bool {
	return l.OkMask(size, depth, cycles) == StopNone
}
