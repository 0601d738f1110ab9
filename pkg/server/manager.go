package server

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/IlikeChooros/go-mcts-endgames/pkg/chess"
	"github.com/IlikeChooros/go-mcts-endgames/pkg/config"
	"github.com/IlikeChooros/go-mcts-endgames/pkg/mcts"
	"github.com/IlikeChooros/go-mcts-endgames/pkg/oracle"
)

var ErrGameNotFound = errors.New("game not found")

// Game is a live game with its own engine, requests on it are serialised
type Game struct {
	mu      sync.Mutex
	ID      uuid.UUID
	Created time.Time
	engine  *mcts.Engine
	moves   []chess.Move
}

// Manager keeps the live games in memory
type Manager struct {
	mu      sync.RWMutex
	games   map[uuid.UUID]*Game
	cfg     config.Config
	factory oracle.Factory
	shared  oracle.Oracle
	log     zerolog.Logger
}

// NewManager validates the configuration, an oracle path in it is used
// unless a factory is given
func NewManager(cfg config.Config, factory oracle.Factory, log zerolog.Logger) (*Manager, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if factory == nil && cfg.Oracle.Path != "" {
		factory = oracle.UCIFactory(oracle.UCIConfig{
			Path:    cfg.Oracle.Path,
			Depth:   cfg.Oracle.Depth,
			HashMB:  cfg.Oracle.HashMB,
			Threads: cfg.Oracle.Threads,
			Logger:  log,
		})
	}
	if factory == nil && cfg.NeedsOracle() {
		return nil, &config.InvalidConfigurationError{
			Field:  "oracle.path",
			Reason: "a perfect policy is configured but there is no oracle",
		}
	}
	return &Manager{
		games:   make(map[uuid.UUID]*Game),
		cfg:     cfg,
		factory: factory,
		log:     log,
	}, nil
}

// The oracle is started on first use and shared by all games
func (m *Manager) oracle() (oracle.Oracle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.shared != nil || m.factory == nil {
		return m.shared, nil
	}
	o, err := m.factory()
	if err != nil {
		return nil, err
	}
	m.shared = o
	return o, nil
}

// Create starts a game from the FEN, or from the ending's initial layout
// when the FEN is empty. The game ending overrides the configured one.
func (m *Manager) Create(req CreateGameRequest) (*Game, error) {
	cfg := m.cfg
	if req.Ending != "" {
		ending, err := chess.ParseEnding(req.Ending)
		if err != nil {
			return nil, &config.InvalidConfigurationError{Field: "ending", Reason: err.Error()}
		}
		cfg.Ending = ending
	}
	if req.Seed != 0 {
		cfg.Seed = req.Seed
	}

	board := chess.NewBoard(cfg.Ending)
	if req.FEN != "" {
		var err error
		if board, err = chess.ParseFEN(req.FEN); err != nil {
			return nil, err
		}
		if ending := board.Ending(); ending != chess.NoEnding {
			cfg.Ending = ending
		}
	}

	var o oracle.Oracle
	if cfg.NeedsOracle() {
		var err error
		if o, err = m.oracle(); err != nil {
			return nil, err
		}
	}

	game := &Game{ID: uuid.New(), Created: time.Now()}
	engine, err := mcts.New(cfg, board,
		mcts.WithOracle(o),
		mcts.WithLogger(m.log.With().Stringer("game", game.ID).Logger()),
	)
	if err != nil {
		return nil, err
	}
	game.engine = engine

	m.mu.Lock()
	m.games[game.ID] = game
	m.mu.Unlock()

	m.log.Info().Stringer("game", game.ID).Str("fen", board.FEN()).Msg("game created")
	return game, nil
}

func (m *Manager) Get(id uuid.UUID) (*Game, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	game, ok := m.games[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrGameNotFound, id)
	}
	return game, nil
}

func (m *Manager) Delete(id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	game, ok := m.games[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrGameNotFound, id)
	}
	game.engine.Stop()
	delete(m.games, id)
	m.log.Info().Stringer("game", id).Msg("game deleted")
	return nil
}

// Number of live games
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.games)
}

// Close stops the shared oracle
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if closer, ok := m.shared.(interface{ Close() }); ok {
		closer.Close()
	}
	m.shared = nil
}

// Search runs the engine with given limits, the game stays locked meanwhile
func (g *Game) Search(ctx context.Context, limits *mcts.Limits, listener *mcts.StatsListener) (mcts.StopReason, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.engine.SetContext(ctx)
	defer g.engine.SetContext(context.Background())
	if listener != nil {
		g.engine.SetListener(*listener)
		defer g.engine.ResetListener()
	}
	err := g.engine.Search(limits)
	return g.engine.StopReason(), err
}

// Play commits the move in coordinate notation, an empty move lets the engine choose
func (g *Game) Play(notation string) (chess.Move, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	board := g.engine.Board()
	if state := g.engine.EvaluateRoot(); state.IsTerminal() {
		return chess.NoMove, &chess.NoLegalMoveError{FEN: board.FEN(), Reason: "game is over: " + state.String()}
	}

	var m chess.Move
	if notation == "" {
		cfg := g.engine.Config()
		var err error
		if m, err = g.engine.ChooseMove(cfg.WhiteChoice, cfg.BlackChoice); err != nil {
			return chess.NoMove, err
		}
	} else {
		m = chess.FindMove(board.LegalMoves(board.Turn()), notation)
		if m.IsNone() {
			return chess.NoMove, fmt.Errorf("%w: %q is not legal in %s", ErrIllegalMove, notation, board.FEN())
		}
	}

	if err := g.engine.CommitMove(m); err != nil {
		return chess.NoMove, err
	}
	g.moves = append(g.moves, m)
	return m, nil
}

// Snapshot of the game for the API
func (g *Game) DTO() GameDTO {
	g.mu.Lock()
	defer g.mu.Unlock()

	e := g.engine
	board := e.Board()
	root := e.Root()
	return GameDTO{
		ID:         g.ID,
		FEN:        e.FEN(),
		Ending:     board.Ending().String(),
		Turn:       board.Turn().String(),
		Ply:        board.Ply(),
		Eval:       e.EvaluateRoot(),
		Moves:      append([]chess.Move(nil), g.moves...),
		LegalMoves: board.LegalMoves(board.Turn()),
		TreeSize:   e.TreeSize(),
		Visits:     root.Visits,
		MateRate:   root.MateRate(),
		Pv:         e.PrincipalVariation(),
		Stats:      e.Stats(),
		Created:    g.Created,
	}
}
