package bench

import (
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/IlikeChooros/go-mcts-endgames/pkg/chess"
	"github.com/IlikeChooros/go-mcts-endgames/pkg/mcts"
)

// Live counters shared by the workers
type ArenaStats struct {
	finished   atomic.Uint32
	mates      atomic.Uint32
	draws      atomic.Uint32
	whiteMoves atomic.Uint32
	optimal    atomic.Uint32
}

func (as *ArenaStats) Finished() int {
	return int(as.finished.Load())
}

func (as *ArenaStats) Mates() int {
	return int(as.mates.Load())
}

func (as *ArenaStats) Draws() int {
	return int(as.draws.Load())
}

// Optimal white moves out of the scored ones, 0 if nothing was scored
func (as *ArenaStats) Optimality() float64 {
	scored := as.whiteMoves.Load()
	if scored == 0 {
		return 0
	}
	return float64(as.optimal.Load()) / float64(scored)
}

func (as *ArenaStats) add(rec *GameRecord) {
	as.finished.Add(1)
	if rec.Result == chess.Mated {
		as.mates.Add(1)
	} else {
		as.draws.Add(1)
	}
	as.whiteMoves.Add(uint32(rec.ScoredMoves))
	as.optimal.Add(uint32(rec.OptimalMoves))
}

// A single played move
type MoveRecord struct {
	Ply   int         `json:"ply"`
	Move  string      `json:"move"`
	Color chess.Color `json:"-"`
	// Oracle's distance to mate before the move, 0 when not scored
	DTM int `json:"dtm,omitempty"`
	// Whether the oracle scored this move
	Scored bool `json:"scored"`
	// Move kept the shortest mate
	Optimal bool `json:"optimal"`
}

type GameRecord struct {
	ID       uuid.UUID        `json:"id"`
	Index    int              `json:"index"`
	Worker   int              `json:"worker"`
	StartFEN string           `json:"start_fen"`
	FEN      string           `json:"fen"`
	Result   chess.EvalState  `json:"result"`
	Plies    int              `json:"plies"`
	Moves    []MoveRecord     `json:"moves"`
	Stats    mcts.EngineStats `json:"stats"`
	// White moves compared with the oracle and how many of them were optimal
	ScoredMoves  int    `json:"scored_moves"`
	OptimalMoves int    `json:"optimal_moves"`
	PGN          string `json:"pgn"`
}

// Summary of a whole arena run
type Summary struct {
	Ending        chess.Ending `json:"ending"`
	TotalGames    int          `json:"total_games"`
	Mates         int          `json:"mates"`
	Stalemates    int          `json:"stalemates"`
	Repetitions   int          `json:"repetitions"`
	MoveLimits    int          `json:"move_limits"`
	MaterialDraws int          `json:"material_draws"`
	AvgPlies      float64      `json:"avg_plies"`
	AvgMatePlies  float64      `json:"avg_mate_plies"`
	Collapses     int          `json:"collapses"`
	ScoredMoves   int          `json:"scored_moves"`
	OptimalMoves  int          `json:"optimal_moves"`
	Optimality    float64      `json:"optimality"`
	Workers       int          `json:"workers"`
	Records       []GameRecord `json:"records"`
}

func summarize(ending chess.Ending, workers int, records []GameRecord) Summary {
	s := Summary{Ending: ending, Workers: workers}
	plies, matePlies := 0, 0
	for i := range records {
		rec := &records[i]
		// unfinished games have no id
		if rec.ID == uuid.Nil {
			continue
		}
		s.Records = append(s.Records, *rec)
		s.TotalGames++
		plies += rec.Plies
		s.Collapses += rec.Stats.CollapseCount
		s.ScoredMoves += rec.ScoredMoves
		s.OptimalMoves += rec.OptimalMoves
		switch rec.Result {
		case chess.Mated:
			s.Mates++
			matePlies += rec.Plies
		case chess.Stalemated:
			s.Stalemates++
		case chess.DrawRepetition:
			s.Repetitions++
		case chess.DrawMoveLimit:
			s.MoveLimits++
		case chess.DrawMaterial:
			s.MaterialDraws++
		}
	}
	if s.TotalGames > 0 {
		s.AvgPlies = float64(plies) / float64(s.TotalGames)
	}
	if s.Mates > 0 {
		s.AvgMatePlies = float64(matePlies) / float64(s.Mates)
	}
	if s.ScoredMoves > 0 {
		s.Optimality = float64(s.OptimalMoves) / float64(s.ScoredMoves)
	}
	return s
}
