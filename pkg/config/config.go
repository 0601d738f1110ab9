package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/IlikeChooros/go-mcts-endgames/pkg/chess"
)

// Config holds every tunable of a run. It is loaded once and then passed by value,
// nothing in the engine mutates it.
type Config struct {
	Ending chess.Ending `json:"ending"`

	// Exploration constant C of the UCT formula
	Exploration float64 `json:"exploration"`
	// Visits a node needs before the selection trusts its children's statistics
	Goban int `json:"goban"`
	// Game is drawn once this many plies were played
	MaxPly int `json:"max_ply"`
	// Playouts per simulation
	Rollouts int `json:"rollouts"`
	// Stop the selection at nodes the evaluator doesn't classify as normal
	CheckEvaluation bool `json:"check_evaluation"`
	// Among tied UCT scores, keep only the most visited before picking at random
	TieBreakVisits bool `json:"tie_break_visits"`

	WhiteChoice     Choice `json:"white_choice"`
	BlackChoice     Policy `json:"black_choice"`
	WhiteSimulation Policy `json:"white_simulation"`
	BlackSimulation Policy `json:"black_simulation"`

	// 0 means pick a fresh seed
	Seed int64 `json:"seed"`

	StepsPerPly int `json:"steps_per_ply"`
	Games       int `json:"games"`
	Workers     int `json:"workers"`

	Heuristics EndingHeuristics `json:"heuristics"`

	Oracle OracleConfig `json:"oracle"`
	Log    LogConfig    `json:"log"`
	Server ServerConfig `json:"server"`
}

// Which move filters the heuristic policy applies
type HeuristicFlags struct {
	MateInOne       bool `json:"mate_in_one"`
	Urgent          bool `json:"urgent"`
	Safe            bool `json:"safe"`
	AvoidRepetition bool `json:"avoid_repetition"`
	KingApproach    bool `json:"king_approach"`
	// ending specific: rook checks in opposition, adjacent bishops
	Tactics bool `json:"tactics"`
}

type OracleConfig struct {
	// Path to a UCI engine binary, empty disables the oracle
	Path    string `json:"path"`
	Depth   int    `json:"depth"`
	HashMB  int    `json:"hash_mb"`
	Threads int    `json:"threads"`
}

type LogConfig struct {
	Level  string `json:"level"`
	Pretty bool   `json:"pretty"`
}

type ServerConfig struct {
	Addr string `json:"addr"`
}

func AllHeuristics() HeuristicFlags {
	return HeuristicFlags{
		MateInOne:       true,
		Urgent:          true,
		Safe:            true,
		AvoidRepetition: true,
		KingApproach:    true,
		Tactics:         true,
	}
}

// EndingHeuristics are the filter flags of every ending, encoded as a JSON
// object keyed by the ending name. An array, so copies of a Config don't share it.
type EndingHeuristics [chess.NoEnding]HeuristicFlags

func (h EndingHeuristics) MarshalJSON() ([]byte, error) {
	m := make(map[chess.Ending]HeuristicFlags, len(h))
	for e, flags := range h {
		m[chess.Ending(e)] = flags
	}
	return json.Marshal(m)
}

// Endings missing from the object keep their flags
func (h *EndingHeuristics) UnmarshalJSON(data []byte) error {
	var m map[chess.Ending]HeuristicFlags
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	for e, flags := range m {
		h[e] = flags
	}
	return nil
}

func Default() Config {
	var heuristics EndingHeuristics
	for _, e := range chess.Endings() {
		heuristics[e] = AllHeuristics()
	}
	return Config{
		Ending:          chess.EndingKRK,
		Exploration:     1.4,
		Goban:           5,
		MaxPly:          100,
		Rollouts:        5,
		CheckEvaluation: true,
		TieBreakVisits:  false,
		WhiteChoice:     ChoiceMaxVisits,
		BlackChoice:     PolicyHeuristic,
		WhiteSimulation: PolicyHeuristic,
		BlackSimulation: PolicyHeuristic,
		StepsPerPly:     200,
		Games:           10,
		Workers:         2,
		Heuristics:      heuristics,
		Oracle: OracleConfig{
			Depth:   20,
			HashMB:  64,
			Threads: 1,
		},
		Log: LogConfig{
			Level:  "info",
			Pretty: true,
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
	}
}

// Load reads a JSON file on top of the defaults and validates the result
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		var ime *InvalidConfigurationError
		if errors.As(err, &ime) {
			return cfg, ime
		}
		return cfg, &InvalidConfigurationError{Field: path, Reason: err.Error()}
	}
	return cfg, cfg.Validate()
}

// Flags of the configured ending, all disabled if none are set
func (c Config) HeuristicsFor(e chess.Ending) HeuristicFlags {
	if e >= chess.NoEnding {
		return HeuristicFlags{}
	}
	return c.Heuristics[e]
}

// Whether any policy needs the oracle
func (c Config) NeedsOracle() bool {
	return c.BlackChoice == PolicyPerfect ||
		c.WhiteSimulation == PolicyPerfect ||
		c.BlackSimulation == PolicyPerfect
}

func (c Config) Validate() error {
	switch {
	case c.Ending >= chess.NoEnding:
		return &InvalidConfigurationError{Field: "ending", Reason: "unknown ending"}
	case c.Exploration < 0:
		return &InvalidConfigurationError{Field: "exploration", Reason: "must not be negative"}
	case c.Goban < 0:
		return &InvalidConfigurationError{Field: "goban", Reason: "must not be negative"}
	case c.MaxPly <= 0:
		return &InvalidConfigurationError{Field: "max_ply", Reason: "must be positive"}
	case c.Rollouts <= 0:
		return &InvalidConfigurationError{Field: "rollouts", Reason: "must be positive"}
	case c.StepsPerPly <= 0:
		return &InvalidConfigurationError{Field: "steps_per_ply", Reason: "must be positive"}
	case c.Games < 0:
		return &InvalidConfigurationError{Field: "games", Reason: "must not be negative"}
	case c.Workers <= 0:
		return &InvalidConfigurationError{Field: "workers", Reason: "must be positive"}
	case !c.WhiteChoice.valid():
		return &InvalidConfigurationError{Field: "white_choice", Reason: "unknown choice"}
	case !c.BlackChoice.valid():
		return &InvalidConfigurationError{Field: "black_choice", Reason: "unknown policy"}
	case !c.WhiteSimulation.valid():
		return &InvalidConfigurationError{Field: "white_simulation", Reason: "unknown policy"}
	case !c.BlackSimulation.valid():
		return &InvalidConfigurationError{Field: "black_simulation", Reason: "unknown policy"}
	case c.Oracle.Depth <= 0 && c.Oracle.Path != "":
		return &InvalidConfigurationError{Field: "oracle.depth", Reason: "must be positive"}
	}
	return nil
}
