package bench

import (
	"sync"

	"github.com/IlikeChooros/go-mcts-endgames/pkg/config"
)

// ArenaListener distributes the arena events between listeners,
// one event at a time
type ArenaListener struct {
	mu        sync.Mutex
	listeners []ListenerLike
}

func NewArenaListener(listeners ...ListenerLike) *ArenaListener {
	return &ArenaListener{listeners: listeners}
}

func (al *ArenaListener) Add(listener ListenerLike) {
	al.mu.Lock()
	defer al.mu.Unlock()
	al.listeners = append(al.listeners, listener)
}

func (al *ArenaListener) OnStart(cfg config.Config) {
	al.mu.Lock()
	defer al.mu.Unlock()
	for _, l := range al.listeners {
		l.OnStart(cfg)
	}
}

func (al *ArenaListener) OnMoveMade(stats ListenerStats) {
	al.mu.Lock()
	defer al.mu.Unlock()
	for _, l := range al.listeners {
		l.OnMoveMade(stats)
	}
}

func (al *ArenaListener) OnFinishedGame(rec GameRecord, stats ListenerStats) {
	al.mu.Lock()
	defer al.mu.Unlock()
	for _, l := range al.listeners {
		l.OnFinishedGame(rec, stats)
	}
}

func (al *ArenaListener) OnFinishedWork(summary Summary) {
	al.mu.Lock()
	defer al.mu.Unlock()
	for _, l := range al.listeners {
		l.OnFinishedWork(summary)
	}
}
