package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/IlikeChooros/go-mcts-endgames/pkg/bench"
	"github.com/IlikeChooros/go-mcts-endgames/pkg/chess"
	"github.com/IlikeChooros/go-mcts-endgames/pkg/config"
	"github.com/IlikeChooros/go-mcts-endgames/pkg/server"
)

const usage = `usage: endgame-mcts <command> [flags]

commands:
  run     play an arena of games and print the summary
  serve   start the HTTP server

run 'endgame-mcts <command> -h' for the flags of a command
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var err error
	switch os.Args[1] {
	case "run":
		err = runArena(ctx, os.Args[2:])
	case "serve":
		err = serve(ctx, os.Args[2:])
	case "-h", "--help", "help":
		fmt.Print(usage)
		return
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", os.Args[1], usage)
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// Flags shared by the commands, they override the config file
type commonFlags struct {
	configPath string
	ending     string
	seed       int64
	oracle     string
	logLevel   string
}

func (c *commonFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&c.configPath, "config", "", "path to a JSON config file")
	fs.StringVar(&c.ending, "ending", "", "krk, kqk, krrk or kbbk")
	fs.Int64Var(&c.seed, "seed", 0, "random seed, 0 picks a fresh one")
	fs.StringVar(&c.oracle, "oracle", "", "path to a UCI engine used as the DTM oracle")
	fs.StringVar(&c.logLevel, "log", "", "log level (debug, info, warn, error)")
}

func (c *commonFlags) load() (config.Config, error) {
	cfg := config.Default()
	if c.configPath != "" {
		var err error
		if cfg, err = config.Load(c.configPath); err != nil {
			return cfg, err
		}
	}
	if c.ending != "" {
		ending, err := chess.ParseEnding(c.ending)
		if err != nil {
			return cfg, &config.InvalidConfigurationError{Field: "ending", Reason: err.Error()}
		}
		cfg.Ending = ending
	}
	if c.seed != 0 {
		cfg.Seed = c.seed
	}
	if c.oracle != "" {
		cfg.Oracle.Path = c.oracle
	}
	if c.logLevel != "" {
		cfg.Log.Level = c.logLevel
	}
	return cfg, cfg.Validate()
}

func newLogger(cfg config.LogConfig) (zerolog.Logger, error) {
	level := zerolog.InfoLevel
	if cfg.Level != "" {
		var err error
		if level, err = zerolog.ParseLevel(cfg.Level); err != nil {
			return zerolog.Nop(), &config.InvalidConfigurationError{Field: "log.level", Reason: err.Error()}
		}
	}
	var log zerolog.Logger
	if cfg.Pretty {
		log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	} else {
		log = zerolog.New(os.Stderr)
	}
	return log.Level(level).With().Timestamp().Logger(), nil
}

func runArena(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	var common commonFlags
	common.register(fs)
	games := fs.Int("games", 0, "number of games, overrides the config")
	workers := fs.Int("workers", 0, "number of workers, overrides the config")
	steps := fs.Int("steps", 0, "search cycles per white move, overrides the config")
	verbose := fs.Bool("v", false, "print every move")
	out := fs.String("json", "", "write the summary with all game records to this file")
	fs.Parse(args)

	cfg, err := common.load()
	if err != nil {
		return err
	}
	if *games > 0 {
		cfg.Games = *games
	}
	if *workers > 0 {
		cfg.Workers = *workers
	}
	if *steps > 0 {
		cfg.StepsPerPly = *steps
	}
	log, err := newLogger(cfg.Log)
	if err != nil {
		return err
	}

	console := bench.NewConsoleListener(os.Stdout)
	console.Verbose = *verbose
	arena, err := bench.NewArena(cfg,
		bench.WithListener(bench.NewArenaListener(console)),
		bench.WithLogger(log),
	)
	if err != nil {
		return err
	}

	summary, err := arena.Run(ctx)
	if *out != "" {
		if werr := writeSummary(*out, summary); werr != nil {
			return errors.Join(err, werr)
		}
	}
	return err
}

func writeSummary(path string, summary bench.Summary) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(summary); err != nil {
		return fmt.Errorf("writing summary: %w", err)
	}
	return nil
}

func serve(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	var common commonFlags
	common.register(fs)
	addr := fs.String("addr", "", "listen address, overrides the config")
	fs.Parse(args)

	cfg, err := common.load()
	if err != nil {
		return err
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	log, err := newLogger(cfg.Log)
	if err != nil {
		return err
	}

	manager, err := server.NewManager(cfg, nil, log)
	if err != nil {
		return err
	}
	defer manager.Close()

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           server.New(manager, log),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Server.Addr).Msg("listening")
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
