package bench

/*
Arena benchmark subpackage, plays a series of endgames between the search
(white) and the configured black policy, and compares the white moves
with the oracle's shortest mates.
*/

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/IlikeChooros/go-mcts-endgames/pkg/chess"
	"github.com/IlikeChooros/go-mcts-endgames/pkg/config"
	"github.com/IlikeChooros/go-mcts-endgames/pkg/mcts"
	"github.com/IlikeChooros/go-mcts-endgames/pkg/oracle"
)

type Arena struct {
	ArenaStats
	cfg      config.Config
	factory  oracle.Factory
	listener ListenerLike
	log      zerolog.Logger
}

type Option func(*Arena)

// Every worker creates its own oracle with the factory
func WithOracleFactory(factory oracle.Factory) Option {
	return func(a *Arena) { a.factory = factory }
}

func WithListener(listener ListenerLike) Option {
	return func(a *Arena) { a.listener = listener }
}

func WithLogger(log zerolog.Logger) Option {
	return func(a *Arena) { a.log = log }
}

// NewArena validates the configuration. Unless a factory is given, an oracle
// path in the configuration starts one UCI engine per worker.
func NewArena(cfg config.Config, opts ...Option) (*Arena, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	a := &Arena{
		cfg:      cfg,
		listener: DefaultListener{},
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(a)
	}

	if a.factory == nil && cfg.Oracle.Path != "" {
		a.factory = oracle.UCIFactory(oracle.UCIConfig{
			Path:    cfg.Oracle.Path,
			Depth:   cfg.Oracle.Depth,
			HashMB:  cfg.Oracle.HashMB,
			Threads: cfg.Oracle.Threads,
			Logger:  a.log,
		})
	}
	if a.factory == nil && cfg.NeedsOracle() {
		return nil, &config.InvalidConfigurationError{
			Field:  "oracle.path",
			Reason: "a perfect policy is configured but there is no oracle",
		}
	}
	return a, nil
}

// Run plays all the configured games, spread over the workers. The first
// failing game cancels the others, the summary covers the finished ones.
func (a *Arena) Run(ctx context.Context) (Summary, error) {
	a.listener.OnStart(a.cfg)
	a.log.Info().
		Stringer("ending", a.cfg.Ending).
		Int("games", a.cfg.Games).
		Int("workers", a.cfg.Workers).
		Msg("arena started")

	records := make([]GameRecord, a.cfg.Games)
	games := make(chan int)
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(games)
		for i := range a.cfg.Games {
			select {
			case games <- i:
			case <-ctx.Done():
				return nil
			}
		}
		return nil
	})

	workers := max(1, min(a.cfg.Workers, a.cfg.Games))
	for id := range workers {
		g.Go(func() error {
			return a.worker(ctx, id, games, records)
		})
	}

	err := g.Wait()
	summary := summarize(a.cfg.Ending, workers, records)
	a.listener.OnFinishedWork(summary)

	log := a.log.Info()
	if err != nil {
		log = a.log.Error().Err(err)
	}
	log.Int("games", summary.TotalGames).
		Int("mates", summary.Mates).
		Float64("optimality", summary.Optimality).
		Msg("arena finished")
	return summary, err
}

func (a *Arena) worker(ctx context.Context, id int, games <-chan int, records []GameRecord) error {
	var o oracle.Oracle
	if a.factory != nil {
		var err error
		if o, err = a.factory(); err != nil {
			return err
		}
		if closer, ok := o.(interface{ Close() }); ok {
			defer closer.Close()
		}
	}

	log := a.log.With().Int("worker", id).Logger()
	for index := range games {
		rec, err := a.playGame(ctx, id, index, o, log)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			return fmt.Errorf("game %d: %w", index+1, err)
		}
		records[index] = rec
		a.add(&rec)
		a.listener.OnFinishedGame(rec, ListenerStats{
			WorkerID:      id,
			GameIndex:     index,
			NGames:        a.cfg.Games,
			FinishedGames: a.Finished(),
			Ply:           rec.Plies,
			FEN:           rec.FEN,
		})
	}
	return nil
}

func (a *Arena) playGame(ctx context.Context, id, index int, o oracle.Oracle, log zerolog.Logger) (GameRecord, error) {
	cfg := a.cfg
	if cfg.Seed != 0 {
		// reproducible, but not the same game over and over
		cfg.Seed += int64(index)
	}

	board := chess.NewBoard(cfg.Ending)
	engine, err := mcts.New(cfg, board, mcts.WithOracle(o), mcts.WithLogger(log))
	if err != nil {
		return GameRecord{}, err
	}
	engine.SetContext(ctx)

	rec := GameRecord{
		ID:       uuid.New(),
		Index:    index,
		Worker:   id,
		StartFEN: board.FEN(),
	}
	log = log.With().Stringer("game", rec.ID).Logger()

	for !engine.EvaluateRoot().IsTerminal() {
		if err := ctx.Err(); err != nil {
			return rec, err
		}

		move := MoveRecord{Ply: board.Ply(), Color: board.Turn()}
		white := board.Turn() == chess.White
		if white {
			if err := engine.Search(mcts.DefaultLimits().SetCycles(uint32(cfg.StepsPerPly))); err != nil {
				return rec, err
			}
			if err := ctx.Err(); err != nil {
				return rec, err
			}
		}

		var before oracle.Result
		if white && o != nil {
			if before, err = o.BestMove(board.FEN()); err != nil {
				return rec, err
			}
		}

		m, err := engine.ChooseMove(cfg.WhiteChoice, cfg.BlackChoice)
		if err != nil {
			return rec, err
		}
		if err := engine.CommitMove(m); err != nil {
			return rec, err
		}
		move.Move = m.String()

		if white && o != nil && before.Mate {
			move.Scored = true
			move.DTM = before.DTM
			if move.Optimal, err = a.optimal(board, before, o); err != nil {
				return rec, err
			}
			rec.ScoredMoves++
			if move.Optimal {
				rec.OptimalMoves++
			}
		}
		rec.Moves = append(rec.Moves, move)

		a.listener.OnMoveMade(ListenerStats{
			WorkerID:      id,
			GameIndex:     index,
			NGames:        cfg.Games,
			FinishedGames: a.Finished(),
			Ply:           board.Ply(),
			Move:          move,
			FEN:           board.FEN(),
		})
	}

	rec.Result = engine.EvaluateRoot()
	rec.Plies = board.Ply()
	rec.FEN = board.FEN()
	rec.Stats = engine.Stats()
	if rec.PGN, err = ExportPGN(&rec, cfg.BlackChoice.String()); err != nil {
		return rec, err
	}

	log.Debug().
		Stringer("result", rec.Result).
		Int("plies", rec.Plies).
		Int("collapses", rec.Stats.CollapseCount).
		Int("optimal", rec.OptimalMoves).
		Int("scored", rec.ScoredMoves).
		Msg("game finished")
	return rec, nil
}

// A white move is optimal when it keeps the shortest mate: mate in N
// becomes black being mated in N-1, or the mate itself when N is 1.
func (a *Arena) optimal(board *chess.Board, before oracle.Result, o oracle.Oracle) (bool, error) {
	if before.DTM <= 0 {
		return false, nil
	}
	if state := chess.Evaluate(board, a.cfg.MaxPly); state.IsTerminal() {
		return state == chess.Mated && before.DTM == 1, nil
	}
	after, err := o.BestMove(board.FEN())
	if err != nil {
		return false, err
	}
	return after.Mate && -after.DTM == before.DTM-1, nil
}
