package bench

import (
	"github.com/IlikeChooros/go-mcts-endgames/pkg/config"
)

type ListenerStats struct {
	WorkerID      int
	GameIndex     int
	NGames        int
	FinishedGames int
	Ply           int
	Move          MoveRecord
	FEN           string
}

// ListenerLike receives the arena progress. The arena calls it from all
// of its workers, use ArenaListener to serialise the calls.
type ListenerLike interface {
	OnStart(cfg config.Config)
	OnMoveMade(stats ListenerStats)
	OnFinishedGame(rec GameRecord, stats ListenerStats)
	OnFinishedWork(summary Summary)
}

// DefaultListener ignores everything
type DefaultListener struct{}

func (DefaultListener) OnStart(config.Config) {}

func (DefaultListener) OnMoveMade(ListenerStats) {}

func (DefaultListener) OnFinishedGame(GameRecord, ListenerStats) {}

func (DefaultListener) OnFinishedWork(Summary) {}
