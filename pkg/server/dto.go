package server

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/IlikeChooros/go-mcts-endgames/pkg/chess"
	"github.com/IlikeChooros/go-mcts-endgames/pkg/mcts"
)

var ErrIllegalMove = errors.New("illegal move")

type CreateGameRequest struct {
	// krk, kqk, krrk or kbbk, the configured ending if empty
	Ending string `json:"ending"`
	// Optional starting position
	FEN  string `json:"fen"`
	Seed int64  `json:"seed"`
}

type SearchRequest struct {
	Cycles     uint32 `json:"cycles"`
	MovetimeMs int    `json:"movetime_ms"`
	Depth      int    `json:"depth"`
	MemoryMB   int    `json:"memory_mb"`
	// Stream progress every this many cycles, websocket only
	Interval int `json:"interval"`
}

// Limits of the request, the configured steps per ply when nothing is set
func (r SearchRequest) Limits(stepsPerPly int) *mcts.Limits {
	limits := mcts.DefaultLimits()
	if r.Cycles > 0 {
		limits.SetCycles(r.Cycles)
	}
	if r.MovetimeMs > 0 {
		limits.SetMovetime(r.MovetimeMs)
	}
	if r.Depth > 0 {
		limits.SetDepth(r.Depth)
	}
	if r.MemoryMB > 0 {
		limits.SetMbSize(r.MemoryMB)
	}
	if r.Cycles == 0 && r.MovetimeMs <= 0 && r.Depth <= 0 {
		limits.SetCycles(uint32(max(stepsPerPly, 1)))
	}
	return limits
}

type MoveRequest struct {
	// Coordinate notation, the engine chooses when empty
	Move string `json:"move"`
}

type MoveResponse struct {
	Move chess.Move `json:"move"`
	Game GameDTO    `json:"game"`
}

type GameDTO struct {
	ID         uuid.UUID        `json:"id"`
	FEN        string           `json:"fen"`
	Ending     string           `json:"ending"`
	Turn       string           `json:"turn"`
	Ply        int              `json:"ply"`
	Eval       chess.EvalState  `json:"eval"`
	Moves      []chess.Move     `json:"moves"`
	LegalMoves []chess.Move     `json:"legal_moves"`
	TreeSize   int              `json:"tree_size"`
	Visits     int              `json:"visits"`
	MateRate   float64          `json:"mate_rate"`
	Pv         []chess.Move     `json:"pv"`
	Stats      mcts.EngineStats `json:"stats"`
	Created    time.Time        `json:"created"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
