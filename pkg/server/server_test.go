package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/IlikeChooros/go-mcts-endgames/pkg/chess"
	"github.com/IlikeChooros/go-mcts-endgames/pkg/config"
)

func testConfig() config.Config {
	cfg := config.Default()
	cfg.MaxPly = 60
	cfg.Rollouts = 2
	cfg.StepsPerPly = 20
	cfg.Seed = 7
	return cfg
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	manager, err := NewManager(testConfig(), nil, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	ts := httptest.NewServer(New(manager, zerolog.Nop()))
	t.Cleanup(ts.Close)
	return ts
}

func doJSON(t *testing.T, method, url string, body any, out any) int {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if out != nil && resp.StatusCode != http.StatusNoContent {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("%s %s: decoding response: %v", method, url, err)
		}
	}
	return resp.StatusCode
}

func createGame(t *testing.T, ts *httptest.Server, req CreateGameRequest) map[string]any {
	t.Helper()
	var game map[string]any
	if status := doJSON(t, http.MethodPost, ts.URL+"/games", req, &game); status != http.StatusCreated {
		t.Fatalf("Expected 201 on create, got %d: %v", status, game)
	}
	return game
}

func TestCreateAndGet(t *testing.T) {
	ts := newTestServer(t)

	game := createGame(t, ts, CreateGameRequest{Ending: "krk"})
	if fen := chess.NewBoard(chess.EndingKRK).FEN(); game["fen"] != fen {
		t.Errorf("Expected fen %q, got %v", fen, game["fen"])
	}
	if game["turn"] != "white" || game["ending"] != "krk" {
		t.Errorf("Unexpected game %v", game)
	}

	var got map[string]any
	if status := doJSON(t, http.MethodGet, ts.URL+"/games/"+game["id"].(string), nil, &got); status != http.StatusOK {
		t.Fatalf("Expected 200, got %d", status)
	}
	if got["id"] != game["id"] {
		t.Errorf("Expected id %v, got %v", game["id"], got["id"])
	}
}

func TestCreateFromFEN(t *testing.T) {
	ts := newTestServer(t)

	game := createGame(t, ts, CreateGameRequest{Ending: "krk", FEN: "4k3/8/4K3/8/8/8/8/Q7 w - - 0 1"})
	if game["ending"] != "kqk" {
		t.Errorf("Expected the ending to follow the fen, got %v", game["ending"])
	}
}

func TestErrors(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		status int
	}{
		{"unknown ending", http.MethodPost, "/games", CreateGameRequest{Ending: "kpk"}, http.StatusBadRequest},
		{"bad fen", http.MethodPost, "/games", CreateGameRequest{FEN: "not a fen"}, http.StatusBadRequest},
		{"malformed body", http.MethodPost, "/games", "{", http.StatusBadRequest},
		{"unknown game", http.MethodGet, "/games/6ba7b810-9dad-11d1-80b4-00c04fd430c8", nil, http.StatusNotFound},
		{"bad id", http.MethodGet, "/games/abc", nil, http.StatusNotFound},
		{"delete unknown", http.MethodDelete, "/games/6ba7b810-9dad-11d1-80b4-00c04fd430c8", nil, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var resp ErrorResponse
			if status := doJSON(t, tt.method, ts.URL+tt.path, tt.body, &resp); status != tt.status {
				t.Errorf("Expected %d, got %d (%s)", tt.status, status, resp.Error)
			}
			if resp.Error == "" {
				t.Error("Expected an error message")
			}
		})
	}
}

func TestSearchAndMove(t *testing.T) {
	ts := newTestServer(t)
	game := createGame(t, ts, CreateGameRequest{Ending: "krk"})
	url := ts.URL + "/games/" + game["id"].(string)

	var stats map[string]any
	if status := doJSON(t, http.MethodPost, url+"/search", SearchRequest{Cycles: 50}, &stats); status != http.StatusOK {
		t.Fatalf("Expected 200 on search, got %d: %v", status, stats)
	}
	if stats["cycles"] != float64(50) {
		t.Errorf("Expected 50 cycles, got %v", stats["cycles"])
	}
	if !strings.Contains(stats["stop_reason"].(string), "Cycles") {
		t.Errorf("Expected to stop on cycles, got %v", stats["stop_reason"])
	}

	var errResp ErrorResponse
	if status := doJSON(t, http.MethodPost, url+"/move", MoveRequest{Move: "e1e5"}, &errResp); status != http.StatusUnprocessableEntity {
		t.Errorf("Expected 422 for an illegal move, got %d", status)
	}

	var moved map[string]any
	if status := doJSON(t, http.MethodPost, url+"/move", MoveRequest{Move: "e1e2"}, &moved); status != http.StatusOK {
		t.Fatalf("Expected 200 on move, got %d: %v", status, moved)
	}
	if moved["move"] != "e1e2" {
		t.Errorf("Expected e1e2, got %v", moved["move"])
	}
	after := moved["game"].(map[string]any)
	if after["turn"] != "black" || after["ply"] != float64(1) {
		t.Errorf("Unexpected game after the move %v", after)
	}

	// black replies with the configured policy
	moved = nil
	if status := doJSON(t, http.MethodPost, url+"/move", nil, &moved); status != http.StatusOK {
		t.Fatalf("Expected 200 on engine move, got %d: %v", status, moved)
	}
	if after := moved["game"].(map[string]any); after["turn"] != "white" {
		t.Errorf("Expected white to move, got %v", after["turn"])
	}
}

func TestPlayFinishedGame(t *testing.T) {
	ts := newTestServer(t)
	// black is mated
	game := createGame(t, ts, CreateGameRequest{FEN: "R3k3/8/4K3/8/8/8/8/8 b - - 0 1"})
	if game["eval"] != "mated" {
		t.Fatalf("Expected mated, got %v", game["eval"])
	}

	var errResp ErrorResponse
	status := doJSON(t, http.MethodPost, ts.URL+"/games/"+game["id"].(string)+"/move", nil, &errResp)
	if status != http.StatusConflict {
		t.Errorf("Expected 409, got %d (%s)", status, errResp.Error)
	}
}

func TestDelete(t *testing.T) {
	ts := newTestServer(t)
	game := createGame(t, ts, CreateGameRequest{})
	url := ts.URL + "/games/" + game["id"].(string)

	if status := doJSON(t, http.MethodDelete, url, nil, nil); status != http.StatusNoContent {
		t.Fatalf("Expected 204, got %d", status)
	}
	if status := doJSON(t, http.MethodGet, url, nil, &ErrorResponse{}); status != http.StatusNotFound {
		t.Errorf("Expected 404 after delete, got %d", status)
	}
}

func TestStream(t *testing.T) {
	ts := newTestServer(t)
	game := createGame(t, ts, CreateGameRequest{Ending: "kqk"})

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/games/" + game["id"].(string) + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	if err := conn.WriteJSON(SearchRequest{Cycles: 100, Interval: 25}); err != nil {
		t.Fatal(err)
	}

	cycles := 0
	for {
		var msg struct {
			Type  string         `json:"type"`
			Stats map[string]any `json:"stats"`
			Error string         `json:"error"`
		}
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("Expected a stop frame, stream ended with: %v", err)
		}
		switch msg.Type {
		case "cycle":
			cycles++
		case "stop":
			if cycles == 0 {
				t.Error("Expected progress frames before the stop frame")
			}
			if msg.Stats["cycles"] != float64(100) {
				t.Errorf("Expected 100 cycles, got %v", msg.Stats["cycles"])
			}
			return
		default:
			t.Fatalf("Unexpected frame %q: %s", msg.Type, msg.Error)
		}
	}
}
