package mcts

import (
	"github.com/IlikeChooros/go-mcts-endgames/pkg/chess"
)

type ListenerTreeStats struct {
	Maxdepth   int             `json:"maxdepth"`
	Cycles     int             `json:"cycles"`
	TimeMs     int             `json:"time_ms"`
	Cps        uint32          `json:"cps"`
	Size       uint32          `json:"size"`
	Visits     int             `json:"visits"`
	MateRate   float64         `json:"mate_rate"`
	Pv         []chess.Move    `json:"pv"`
	Engine     EngineStats     `json:"engine"`
	StopReason StopReason      `json:"stop_reason"`
	RootEval   chess.EvalState `json:"root_eval"`
}

// Convert engine state to 'ListenerTreeStats' struct
func toListenerStats(engine *Engine) ListenerTreeStats {
	return ListenerTreeStats{
		Maxdepth:   engine.MaxDepth(),
		Cycles:     engine.Cycles(),
		TimeMs:     int(engine.Limiter.Elapsed()),
		Cps:        engine.Cps(),
		Size:       engine.Size(),
		Visits:     engine.root.Visits,
		MateRate:   engine.root.MateRate(),
		Pv:         engine.PrincipalVariation(),
		Engine:     engine.stats,
		StopReason: engine.Limiter.StopReason(),
		RootEval:   engine.root.eval,
	}
}

// Listener function callback, will recieve current tree statistics, like
// max depth of tree, number of iterations so far
type ListenerFunc func(ListenerTreeStats)

type StatsListener struct {
	// called when 'max depth' increases
	onDepth ListenerFunc

	// called every N steps
	onCycle ListenerFunc
	nCycles int

	// called when the search stops (either by limiter or 'stop' signal)
	onStop ListenerFunc
}

func NewStatsListener() StatsListener {
	return StatsListener{nCycles: 1}
}

// Attach new on max depth change callback
func (listener *StatsListener) OnDepth(onDepth ListenerFunc) *StatsListener {
	listener.onDepth = onDepth
	return listener
}

// Attach new on step callback, computing the stats walks the principal variation,
// so keep the interval high outside of debugging
func (listener *StatsListener) OnCycle(onCycle ListenerFunc) *StatsListener {
	listener.onCycle = onCycle
	return listener
}

func (listener *StatsListener) SetCycleInterval(n int) *StatsListener {
	listener.nCycles = max(n, 1)
	return listener
}

// Attach 'on search end' callback, makes 'StopReason' available in the stats
func (listener *StatsListener) OnStop(onStop ListenerFunc) *StatsListener {
	listener.onStop = onStop
	return listener
}

func (listener *StatsListener) invokeCycle(engine *Engine) {
	if listener.onCycle != nil && engine.Cycles()%max(listener.nCycles, 1) == 0 {
		listener.onCycle(toListenerStats(engine))
	}
}
