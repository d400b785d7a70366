package http

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"chessrules/internal/board"
	"chessrules/internal/core"
	"chessrules/internal/service"
	"chessrules/internal/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/google/go-cmp/cmp"
)

type gameBody struct {
	GameID    string          `json:"gameId"`
	Placement string          `json:"placement"`
	Turn      string          `json:"turn"`
	State     string          `json:"state"`
	Status    string          `json:"status"`
	Board     []core.Occupant `json:"board"`
	Moves     []string        `json:"moves"`
	Seats     *core.Seats     `json:"seats"`
}

type moveBody struct {
	Status string          `json:"status"`
	Board  []core.Occupant `json:"board"`
	Turn   string          `json:"turn"`
	State  string          `json:"state"`
}

func newApp(t *testing.T, cfg service.Config) (*fiber.App, *service.Service) {
	t.Helper()
	svc := service.New(cfg)
	t.Cleanup(func() { svc.Shutdown(time.Second) })
	return NewFiberApp(svc, true), svc
}

func do(t *testing.T, app *fiber.App, method, path, body string, headers ...string) (int, []byte) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	data, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, data
}

func decode[T any](t *testing.T, data []byte) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		t.Fatalf("decode %s: %v", data, err)
	}
	return v
}

func createGame(t *testing.T, app *fiber.App, body string) gameBody {
	t.Helper()
	code, data := do(t, app, fiber.MethodPost, "/api/v1/games", body)
	if code != fiber.StatusCreated {
		t.Fatalf("POST /games = %d %s", code, data)
	}
	return decode[gameBody](t, data)
}

func TestHealth(t *testing.T) {
	app, _ := newApp(t, service.Config{})
	code, data := do(t, app, fiber.MethodGet, "/health", "")
	if code != fiber.StatusOK {
		t.Fatalf("GET /health = %d", code)
	}
	h := decode[map[string]any](t, data)
	if h["status"] != "healthy" || h["storage"] != "disabled" {
		t.Errorf("health = %v", h)
	}
}

func TestCreateGameAndMove(t *testing.T) {
	app, _ := newApp(t, service.Config{})
	g := createGame(t, app, "")
	if g.Placement != board.StartingPlacement || g.Turn != "w" || g.State != "ongoing" || g.Status != "ok" {
		t.Errorf("new game = %+v", g)
	}
	if len(g.Board) != 32 {
		t.Errorf("new game board has %d pieces, want 32", len(g.Board))
	}
	if g.Seats != nil {
		t.Errorf("seats issued with seats disabled")
	}

	code, data := do(t, app, fiber.MethodPost, "/api/v1/games/"+g.GameID+"/moves", `{"command":"e2 e4"}`)
	if code != fiber.StatusOK {
		t.Fatalf("POST moves = %d %s", code, data)
	}
	m := decode[moveBody](t, data)
	if m.Status != "ok" || m.Turn != "b" {
		t.Errorf("move response = %+v", m)
	}
	found := false
	for _, o := range m.Board {
		if o == (core.Occupant{Square: "e4", Piece: "WP"}) {
			found = true
		}
	}
	if !found {
		t.Errorf("e4 white pawn missing from %v", m.Board)
	}

	code, data = do(t, app, fiber.MethodPost, "/api/v1/games/"+g.GameID+"/moves", `{"command":"e2 e5"}`)
	if code != fiber.StatusOK || decode[moveBody](t, data).Status != "illegal_move" {
		t.Errorf("illegal move = %d %s", code, data)
	}

	code, data = do(t, app, fiber.MethodGet, "/api/v1/games/"+g.GameID+"/moves", "")
	if code != fiber.StatusOK {
		t.Fatalf("GET moves = %d", code)
	}
	if diff := cmp.Diff([]string{"e2 e4"}, decode[core.MovesResponse](t, data).Moves); diff != "" {
		t.Errorf("moves mismatch (-want +got):\n%s", diff)
	}
}

func TestResignThenIllegal(t *testing.T) {
	app, _ := newApp(t, service.Config{})
	g := createGame(t, app, "")
	path := "/api/v1/games/" + g.GameID + "/moves"

	_, data := do(t, app, fiber.MethodPost, path, `{"command":"resign"}`)
	if m := decode[moveBody](t, data); m.Status != "resign_black_wins" {
		t.Errorf("resign status = %q", m.Status)
	}
	code, data := do(t, app, fiber.MethodPost, path, `{"command":"e7 e5"}`)
	if code != fiber.StatusOK || decode[moveBody](t, data).Status != "illegal_move" {
		t.Errorf("move after resign = %d %s", code, data)
	}
}

func TestCreateFromPlacement(t *testing.T) {
	app, _ := newApp(t, service.Config{})
	g := createGame(t, app, `{"placement":"6k1/5ppp/8/8/8/8/5PPP/3Q2K1","turn":"w"}`)

	_, data := do(t, app, fiber.MethodPost, "/api/v1/games/"+g.GameID+"/moves", `{"command":"d1 d8"}`)
	if m := decode[moveBody](t, data); m.Status != "checkmate_white_wins" || m.State != "checkmate white wins" {
		t.Errorf("mate response = %+v", m)
	}

	code, data := do(t, app, fiber.MethodGet, "/api/v1/games/"+g.GameID+"/board", "")
	if code != fiber.StatusOK {
		t.Fatalf("GET board = %d", code)
	}
	b := decode[core.BoardResponse](t, data)
	if b.Placement != "3Q2k1/5ppp/8/8/8/8/5PPP/6K1" || !strings.Contains(b.Board, "8 . . . Q . . k .  8") {
		t.Errorf("board response = %+v", b)
	}
}

func TestRequestValidation(t *testing.T) {
	app, _ := newApp(t, service.Config{})

	tests := []struct {
		name string
		path string
		body string
		code int
		err  string
	}{
		{"bad placement", "/api/v1/games", `{"placement":"8/8"}`, fiber.StatusBadRequest, core.ErrInvalidPlacement},
		{"bad turn", "/api/v1/games", `{"turn":"x"}`, fiber.StatusBadRequest, core.ErrInvalidRequest},
		{"malformed json", "/api/v1/games", `{`, fiber.StatusBadRequest, core.ErrInvalidRequest},
		{"missing command", "/api/v1/games/00000000-0000-0000-0000-000000000000/moves", `{}`, fiber.StatusBadRequest, core.ErrInvalidRequest},
		{"unknown game", "/api/v1/games/00000000-0000-0000-0000-000000000000/moves", `{"command":"e2 e4"}`, fiber.StatusNotFound, core.ErrGameNotFound},
		{"non uuid", "/api/v1/games/abc/moves", `{"command":"e2 e4"}`, fiber.StatusBadRequest, core.ErrInvalidRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, data := do(t, app, fiber.MethodPost, tt.path, tt.body)
			if code != tt.code {
				t.Fatalf("POST %s = %d %s, want %d", tt.path, code, data, tt.code)
			}
			if e := decode[core.ErrorResponse](t, data); e.Code != tt.err {
				t.Errorf("error code = %q, want %q", e.Code, tt.err)
			}
		})
	}
}

func TestContentType(t *testing.T) {
	app, _ := newApp(t, service.Config{})
	code, _ := do(t, app, fiber.MethodPost, "/api/v1/games", "x=1", "Content-Type", "text/plain")
	if code != fiber.StatusUnsupportedMediaType {
		t.Errorf("text/plain POST = %d, want 415", code)
	}
}

func TestResetUndoDelete(t *testing.T) {
	app, _ := newApp(t, service.Config{})
	g := createGame(t, app, "")
	base := "/api/v1/games/" + g.GameID

	do(t, app, fiber.MethodPost, base+"/moves", `{"command":"e2 e4"}`)
	do(t, app, fiber.MethodPost, base+"/moves", `{"command":"e7 e5"}`)

	code, data := do(t, app, fiber.MethodPost, base+"/undo", `{"count":1}`)
	if code != fiber.StatusOK {
		t.Fatalf("undo = %d %s", code, data)
	}
	if v := decode[gameBody](t, data); v.Turn != "b" || len(v.Moves) != 1 {
		t.Errorf("after undo = %+v", v)
	}

	code, data = do(t, app, fiber.MethodPost, base+"/reset", "")
	if code != fiber.StatusOK {
		t.Fatalf("reset = %d %s", code, data)
	}
	if v := decode[gameBody](t, data); v.Placement != board.StartingPlacement || len(v.Moves) != 0 {
		t.Errorf("after reset = %+v", v)
	}

	if code, _ := do(t, app, fiber.MethodDelete, base, ""); code != fiber.StatusNoContent {
		t.Errorf("delete = %d, want 204", code)
	}
	if code, _ := do(t, app, fiber.MethodGet, base, ""); code != fiber.StatusNotFound {
		t.Errorf("get after delete = %d, want 404", code)
	}
}

func TestLongPollReturnsImmediatelyOnStaleCount(t *testing.T) {
	app, _ := newApp(t, service.Config{WaitTimeout: time.Minute})
	g := createGame(t, app, "")

	code, data := do(t, app, fiber.MethodGet, "/api/v1/games/"+g.GameID+"?wait=true&moveCount=5", "")
	if code != fiber.StatusOK {
		t.Fatalf("long poll = %d %s", code, data)
	}
}

func TestLongPollTimesOut(t *testing.T) {
	app, _ := newApp(t, service.Config{WaitTimeout: 50 * time.Millisecond})
	g := createGame(t, app, "")

	code, data := do(t, app, fiber.MethodGet, "/api/v1/games/"+g.GameID+"?wait=true&moveCount=0", "")
	if code != fiber.StatusOK {
		t.Fatalf("long poll = %d %s", code, data)
	}
	if v := decode[gameBody](t, data); len(v.Moves) != 0 {
		t.Errorf("long poll moves = %v", v.Moves)
	}
}

func TestSeatTokensGuardMoves(t *testing.T) {
	app, _ := newApp(t, service.Config{SeatSecret: []byte("test-secret-minimum-32-characters-long")})
	g := createGame(t, app, "")
	if g.Seats == nil || g.Seats.White == "" || g.Seats.Black == "" {
		t.Fatalf("seats not issued: %+v", g.Seats)
	}
	path := "/api/v1/games/" + g.GameID + "/moves"

	if code, _ := do(t, app, fiber.MethodPost, path, `{"command":"e2 e4"}`); code != fiber.StatusUnauthorized {
		t.Errorf("move without token = %d, want 401", code)
	}
	if code, _ := do(t, app, fiber.MethodPost, path, `{"command":"e2 e4"}`, "Authorization", "Bearer "+g.Seats.Black); code != fiber.StatusForbidden {
		t.Errorf("black token on white's turn = %d, want 403", code)
	}
	code, data := do(t, app, fiber.MethodPost, path, `{"command":"e2 e4"}`, "Authorization", "Bearer "+g.Seats.White)
	if code != fiber.StatusOK || decode[moveBody](t, data).Status != "ok" {
		t.Errorf("white token move = %d %s", code, data)
	}
	if code, _ := do(t, app, fiber.MethodPost, path, `{"command":"e7 e5"}`, "Authorization", "Bearer nonsense"); code != fiber.StatusUnauthorized {
		t.Errorf("garbage token = %d, want 401", code)
	}
}

func TestQueuedMoveKeepsGameID(t *testing.T) {
	store, err := storage.NewStore(filepath.Join(t.TempDir(), "chess.db"), false)
	if err != nil {
		t.Fatalf("NewStore() error: %v", err)
	}
	if err := store.InitDB(); err != nil {
		t.Fatalf("InitDB() error: %v", err)
	}
	app, _ := newApp(t, service.Config{Store: store})

	g := createGame(t, app, "")

	// Keep the writer busy so the move record is still queued while other requests arrive
	for range 400 {
		store.RecordState(g.GameID, core.StateOngoing.String())
	}
	if code, data := do(t, app, fiber.MethodPost, "/api/v1/games/"+g.GameID+"/moves", `{"command":"e2 e4"}`); code != fiber.StatusOK {
		t.Fatalf("POST moves = %d %s", code, data)
	}
	for range 50 {
		do(t, app, fiber.MethodGet, "/api/v1/games/ffffffff-ffff-4fff-bfff-ffffffffffff", "")
	}

	if err := store.Flush(5 * time.Second); err != nil {
		t.Fatalf("Flush() error: %v", err)
	}
	moves, err := store.QueryMoves(g.GameID)
	if err != nil {
		t.Fatalf("QueryMoves() error: %v", err)
	}
	if len(moves) != 1 || moves[0].GameID != g.GameID || moves[0].Command != "e2 e4" {
		t.Errorf("stored moves = %+v, want one e2 e4 under %s", moves, g.GameID)
	}
}
