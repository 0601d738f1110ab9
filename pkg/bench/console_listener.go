package bench

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"

	"github.com/IlikeChooros/go-mcts-endgames/pkg/chess"
	"github.com/IlikeChooros/go-mcts-endgames/pkg/config"
)

// ConsoleListener prints one coloured line per finished game and the summary.
// With Verbose set it also prints every move.
type ConsoleListener struct {
	Verbose bool
	out     *termenv.Output
}

func NewConsoleListener(w io.Writer, opts ...termenv.OutputOption) *ConsoleListener {
	return &ConsoleListener{out: termenv.NewOutput(w, opts...)}
}

func (c *ConsoleListener) resultColor(state chess.EvalState) termenv.Color {
	switch state {
	case chess.Mated:
		return termenv.ANSIGreen
	case chess.Stalemated, chess.DrawMaterial:
		return termenv.ANSIRed
	default:
		return termenv.ANSIYellow
	}
}

func (c *ConsoleListener) OnStart(cfg config.Config) {
	header := c.out.String(fmt.Sprintf("%s: %d games, %d workers, %d steps per ply",
		cfg.Ending, cfg.Games, cfg.Workers, cfg.StepsPerPly)).Bold()
	fmt.Fprintln(c.out, header)
}

func (c *ConsoleListener) OnMoveMade(stats ListenerStats) {
	if !c.Verbose {
		return
	}
	line := fmt.Sprintf("[w%d g%d] %3d. %s %s", stats.WorkerID, stats.GameIndex+1, stats.Ply, stats.Move.Move, stats.FEN)
	if stats.Move.Scored && !stats.Move.Optimal {
		line = c.out.String(line).Faint().String()
	}
	fmt.Fprintln(c.out, line)
}

func (c *ConsoleListener) OnFinishedGame(rec GameRecord, stats ListenerStats) {
	result := c.out.String(fmt.Sprintf("%-14s", rec.Result)).Foreground(c.resultColor(rec.Result))
	line := fmt.Sprintf("[%d/%d] %s plies=%-3d collapses=%-3d", stats.FinishedGames, stats.NGames, result, rec.Plies, rec.Stats.CollapseCount)
	if rec.ScoredMoves > 0 {
		line += fmt.Sprintf(" optimal=%d/%d", rec.OptimalMoves, rec.ScoredMoves)
	}
	fmt.Fprintln(c.out, line)
}

func (c *ConsoleListener) OnFinishedWork(s Summary) {
	fmt.Fprintln(c.out, c.out.String("summary").Bold().Underline())
	fmt.Fprintf(c.out, "games %d, mates %s, stalemates %d, repetitions %d, move limits %d, material draws %d\n",
		s.TotalGames, c.out.String(fmt.Sprint(s.Mates)).Foreground(termenv.ANSIGreen),
		s.Stalemates, s.Repetitions, s.MoveLimits, s.MaterialDraws)
	fmt.Fprintf(c.out, "avg plies %.1f, avg mate plies %.1f, collapses %d\n", s.AvgPlies, s.AvgMatePlies, s.Collapses)
	if s.ScoredMoves > 0 {
		fmt.Fprintf(c.out, "optimal white moves %d/%d (%.1f%%)\n", s.OptimalMoves, s.ScoredMoves, 100*s.Optimality)
	}
}
