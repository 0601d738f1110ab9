package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/IlikeChooros/go-mcts-endgames/pkg/chess"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config is invalid: %v", err)
	}
	for _, e := range chess.Endings() {
		if cfg.HeuristicsFor(e) != AllHeuristics() {
			t.Errorf("%s: expected every heuristic enabled", e)
		}
	}
	if cfg.NeedsOracle() {
		t.Error("default config should not need an oracle")
	}
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `{
		"ending": "kbbk",
		"exploration": 0.5,
		"goban": 3,
		"white_choice": "max_uct",
		"black_choice": "perfect",
		"white_simulation": "random",
		"heuristics": {"kbbk": {"urgent": true, "tactics": true}},
		"oracle": {"path": "/usr/bin/stockfish", "depth": 12}
	}`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Ending != chess.EndingKBBK || cfg.Exploration != 0.5 || cfg.Goban != 3 {
		t.Errorf("unexpected values: %+v", cfg)
	}
	if cfg.WhiteChoice != ChoiceMaxUCT || cfg.BlackChoice != PolicyPerfect || cfg.WhiteSimulation != PolicyRandom {
		t.Errorf("unexpected enums: %s %s %s", cfg.WhiteChoice, cfg.BlackChoice, cfg.WhiteSimulation)
	}
	// untouched fields keep their defaults
	if cfg.BlackSimulation != PolicyHeuristic || cfg.MaxPly != 100 {
		t.Errorf("defaults lost: %s %d", cfg.BlackSimulation, cfg.MaxPly)
	}
	flags := cfg.HeuristicsFor(chess.EndingKBBK)
	if !flags.Urgent || !flags.Tactics || flags.Safe {
		t.Errorf("unexpected flags %+v", flags)
	}
	if !cfg.NeedsOracle() {
		t.Error("perfect black choice needs the oracle")
	}
}

func TestLoadRejects(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"unknown ending", `{"ending": "kpk"}`},
		{"unknown policy", `{"black_choice": "clever"}`},
		{"unknown choice", `{"white_choice": "best"}`},
		{"zero rollouts", `{"rollouts": 0}`},
		{"negative goban", `{"goban": -1}`},
		{"malformed", `{"ending": `},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			var ice *InvalidConfigurationError
			if !errors.As(err, &ice) || !errors.Is(err, ErrInvalidConfiguration) {
				t.Fatalf("expected InvalidConfigurationError, got %v", err)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatal("expected an error")
	}
}

func TestCopiesDontShareHeuristics(t *testing.T) {
	base := Default()
	copied := base
	flags := copied.HeuristicsFor(chess.EndingKRK)
	flags.Safe = false
	copied.Heuristics[chess.EndingKRK] = flags

	if !base.HeuristicsFor(chess.EndingKRK).Safe {
		t.Fatal("changing a copy changed the original config")
	}
	if copied.HeuristicsFor(chess.EndingKRK).Safe {
		t.Fatal("the copy kept the old flags")
	}
}

func TestHeuristicsJSON(t *testing.T) {
	cfg := Default()
	cfg.Heuristics[chess.EndingKBBK] = HeuristicFlags{Tactics: true}

	data, err := json.Marshal(cfg)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if !strings.Contains(string(data), `"kbbk":{"mate_in_one":false`) {
		t.Errorf("expected heuristics keyed by ending, got %s", data)
	}

	decoded := Default()
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if decoded.Heuristics != cfg.Heuristics {
		t.Errorf("expected %+v, got %+v", cfg.Heuristics, decoded.Heuristics)
	}
	if decoded.HeuristicsFor(chess.NoEnding) != (HeuristicFlags{}) {
		t.Error("unknown ending should have no flags")
	}
}
