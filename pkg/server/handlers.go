package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/IlikeChooros/go-mcts-endgames/pkg/mcts"
)

var errBadRequest = errors.New("bad request")

// Decodes the optional JSON body, an empty body leaves v untouched
func decodeBody(r *http.Request, v any) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}

func (s *Server) game(r *http.Request) (*Game, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGameNotFound, err)
	}
	return s.manager.Get(id)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateGameRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	game, err := s.manager.Create(req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, game.DTO())
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	game, err := s.game(r)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, game.DTO())
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err == nil {
		err = s.manager.Delete(id)
	} else {
		err = fmt.Errorf("%w: %w", ErrGameNotFound, err)
	}
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	game, err := s.game(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req SearchRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	var final mcts.ListenerTreeStats
	listener := mcts.NewStatsListener()
	listener.OnStop(func(stats mcts.ListenerTreeStats) { final = stats })

	if _, err := game.Search(r.Context(), req.Limits(s.manager.cfg.StepsPerPly), &listener); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, final)
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	game, err := s.game(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req MoveRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	m, err := game.Play(req.Move)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MoveResponse{Move: m, Game: game.DTO()})
}

// StreamMessage is one frame of the search stream
type StreamMessage struct {
	Type  string                  `json:"type"`
	Stats *mcts.ListenerTreeStats `json:"stats,omitempty"`
	Error string                  `json:"error,omitempty"`
}

// handleStream upgrades to a websocket, reads one SearchRequest and streams
// the tree statistics while searching. The search stops when the client goes away.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	game, err := s.game(r)
	if err != nil {
		writeError(w, err)
		return
	}
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Error().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	var req SearchRequest
	if err := conn.ReadJSON(&req); err != nil {
		s.log.Debug().Err(err).Msg("reading search request")
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	send := func(kind string) mcts.ListenerFunc {
		return func(stats mcts.ListenerTreeStats) {
			if err := conn.WriteJSON(StreamMessage{Type: kind, Stats: &stats}); err != nil {
				cancel()
			}
		}
	}
	listener := mcts.NewStatsListener()
	listener.SetCycleInterval(max(req.Interval, 1))
	listener.OnCycle(send("cycle"))
	listener.OnStop(send("stop"))

	if _, err := game.Search(ctx, req.Limits(s.manager.cfg.StepsPerPly), &listener); err != nil {
		conn.WriteJSON(StreamMessage{Type: "error", Error: err.Error()})
		return
	}
	conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "search finished"))
}
