package server

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/IlikeChooros/go-mcts-endgames/pkg/chess"
	"github.com/IlikeChooros/go-mcts-endgames/pkg/config"
	"github.com/IlikeChooros/go-mcts-endgames/pkg/oracle"
)

// Plays the first legal move of any position
func firstMoveOracle(fen string) (oracle.Result, error) {
	b, err := chess.ParseFEN(fen)
	if err != nil {
		return oracle.Result{}, err
	}
	moves := b.LegalMoves(b.Turn())
	if len(moves) == 0 {
		return oracle.Result{}, errors.New("no moves")
	}
	return oracle.Result{Move: moves[0].String()}, nil
}

func TestManagerNeedsOracle(t *testing.T) {
	cfg := testConfig()
	cfg.BlackChoice = config.PolicyPerfect

	if _, err := NewManager(cfg, nil, zerolog.Nop()); !errors.Is(err, config.ErrInvalidConfiguration) {
		t.Fatalf("Expected invalid configuration without an oracle, got %v", err)
	}
}

func TestManagerSharedOracle(t *testing.T) {
	cfg := testConfig()
	cfg.BlackChoice = config.PolicyPerfect

	started := 0
	factory := func() (oracle.Oracle, error) {
		started++
		return oracle.Func(firstMoveOracle), nil
	}
	manager, err := NewManager(cfg, factory, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	defer manager.Close()

	var games []*Game
	for i := 0; i < 2; i++ {
		game, err := manager.Create(CreateGameRequest{Ending: "krk"})
		if err != nil {
			t.Fatal(err)
		}
		games = append(games, game)
	}
	if started != 1 {
		t.Errorf("Expected the oracle to be started once, got %d", started)
	}

	game := games[0]
	if _, err := game.Play("e1e2"); err != nil {
		t.Fatal(err)
	}
	// black to move, the oracle answers
	expected, err := firstMoveOracle(game.engine.FEN())
	if err != nil {
		t.Fatal(err)
	}
	m, err := game.Play("")
	if err != nil {
		t.Fatal(err)
	}
	if m.String() != expected.Move {
		t.Errorf("Expected the oracle move %s, got %s", expected.Move, m)
	}
}

func TestManagerFailingOracle(t *testing.T) {
	cfg := testConfig()
	cfg.BlackChoice = config.PolicyPerfect

	factory := func() (oracle.Oracle, error) {
		return nil, &oracle.UnavailableError{Err: errors.New("no binary")}
	}
	manager, err := NewManager(cfg, factory, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := manager.Create(CreateGameRequest{}); !errors.Is(err, oracle.ErrUnavailable) {
		t.Errorf("Expected the oracle error, got %v", err)
	}
	if manager.Len() != 0 {
		t.Errorf("Expected no games, got %d", manager.Len())
	}
}

func TestManagerDelete(t *testing.T) {
	manager, err := NewManager(testConfig(), nil, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	game, err := manager.Create(CreateGameRequest{Ending: "krrk"})
	if err != nil {
		t.Fatal(err)
	}
	if err := manager.Delete(game.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := manager.Get(game.ID); !errors.Is(err, ErrGameNotFound) {
		t.Errorf("Expected not found, got %v", err)
	}
	if err := manager.Delete(uuid.New()); !errors.Is(err, ErrGameNotFound) {
		t.Errorf("Expected not found, got %v", err)
	}
}
