package bench

import (
	"fmt"
	"strconv"

	nchess "github.com/notnil/chess"

	"github.com/IlikeChooros/go-mcts-endgames/pkg/chess"
)

// ExportPGN replays the game through an independent rules implementation
// and returns its PGN. A move the replay rejects is an error.
func ExportPGN(rec *GameRecord, black string) (string, error) {
	fen, err := nchess.FEN(rec.StartFEN)
	if err != nil {
		return "", fmt.Errorf("pgn: start position %q: %w", rec.StartFEN, err)
	}
	game := nchess.NewGame(fen, nchess.UseNotation(nchess.UCINotation{}))
	game.AddTagPair("Event", "endgame-mcts")
	game.AddTagPair("Site", rec.ID.String())
	game.AddTagPair("Round", strconv.Itoa(rec.Index+1))
	game.AddTagPair("White", "mcts")
	game.AddTagPair("Black", black)
	game.AddTagPair("SetUp", "1")
	game.AddTagPair("FEN", rec.StartFEN)
	game.AddTagPair("Termination", rec.Result.String())

	for _, m := range rec.Moves {
		if err := game.MoveStr(m.Move); err != nil {
			return "", fmt.Errorf("pgn: ply %d %s: %w", m.Ply, m.Move, err)
		}
	}

	switch rec.Result {
	case chess.Mated:
		if game.Outcome() != nchess.WhiteWon {
			return "", fmt.Errorf("pgn: game ended with mate, replay says %s", game.Outcome())
		}
	default:
		// draws by our own rules (move limit, short repetition window) are unknown to the replay
		if game.Outcome() == nchess.NoOutcome {
			if err := game.Draw(nchess.DrawOffer); err != nil {
				return "", fmt.Errorf("pgn: %w", err)
			}
		}
	}
	return game.String(), nil
}
