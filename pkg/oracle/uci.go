package oracle

import (
	"errors"
	"fmt"
	"sync"

	"github.com/freeeve/uci"
	"github.com/rs/zerolog"
)

type UCIConfig struct {
	Path    string
	Depth   int
	HashMB  int
	Threads int
	Logger  zerolog.Logger
}

// UCI is an Oracle backed by an external UCI engine process
type UCI struct {
	mu     sync.Mutex
	engine *uci.Engine
	depth  int
	log    zerolog.Logger
}

func NewUCI(cfg UCIConfig) (*UCI, error) {
	if cfg.Path == "" {
		return nil, &UnavailableError{Err: errors.New("no engine path configured")}
	}
	engine, err := uci.NewEngine(cfg.Path)
	if err != nil {
		return nil, &UnavailableError{Err: fmt.Errorf("starting %s: %w", cfg.Path, err)}
	}

	opts := uci.Options{
		Hash:    max(cfg.HashMB, 1),
		Threads: max(cfg.Threads, 1),
		MultiPV: 1,
		Ponder:  false,
		OwnBook: false,
	}
	if err := engine.SetOptions(opts); err != nil {
		engine.Close()
		return nil, &UnavailableError{Err: fmt.Errorf("setting options: %w", err)}
	}

	cfg.Logger.Info().
		Str("path", cfg.Path).
		Int("depth", cfg.Depth).
		Int("hash_mb", opts.Hash).
		Int("threads", opts.Threads).
		Msg("oracle started")

	return &UCI{
		engine: engine,
		depth:  max(cfg.Depth, 1),
		log:    cfg.Logger,
	}, nil
}

func (u *UCI) BestMove(fen string) (Result, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.engine == nil {
		return Result{}, &UnavailableError{FEN: fen, Err: errors.New("engine closed")}
	}
	if err := u.engine.SetFEN(fen); err != nil {
		return Result{}, &UnavailableError{FEN: fen, Err: fmt.Errorf("set FEN: %w", err)}
	}
	results, err := u.engine.GoDepth(u.depth, uci.HighestDepthOnly)
	if err != nil {
		return Result{}, &UnavailableError{FEN: fen, Err: err}
	}
	if len(results.Results) == 0 {
		return Result{}, &UnavailableError{FEN: fen, Err: errors.New("no results from engine")}
	}

	best := results.Results[0]
	for _, r := range results.Results {
		if r.Depth > best.Depth {
			best = r
		}
	}

	move := results.BestMove
	if move == "" && len(best.BestMoves) > 0 {
		move = best.BestMoves[0]
	}
	if len(move) < 4 {
		return Result{}, &UnavailableError{FEN: fen, Err: fmt.Errorf("unparsable best move %q", move)}
	}

	res := Result{Move: move, Mate: best.Mate}
	if best.Mate {
		res.DTM = best.Score
	}

	u.log.Debug().
		Str("fen", fen).
		Str("move", res.Move).
		Bool("mate", res.Mate).
		Int("dtm", res.DTM).
		Msg("oracle answered")
	return res, nil
}

func (u *UCI) Close() {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.engine != nil {
		u.engine.Close()
		u.engine = nil
	}
}

// UCIFactory starts a new engine process on every call
func UCIFactory(cfg UCIConfig) Factory {
	return func() (Oracle, error) {
		u, err := NewUCI(cfg)
		if err != nil {
			return nil, err
		}
		return u, nil
	}
}
