package game

import (
	"errors"
	"testing"

	"chessrules/internal/board"
	"chessrules/internal/command"
	"chessrules/internal/core"

	"github.com/google/go-cmp/cmp"
)

// Black king g8 behind its pawns, white queen on d1
const backRank = "6k1/5ppp/8/8/8/8/5PPP/3Q2K1"

func resume(t *testing.T, placement string, turn core.Color) *Game {
	t.Helper()
	g, err := NewFromPlacement(placement, turn)
	if err != nil {
		t.Fatalf("NewFromPlacement(%q) error: %v", placement, err)
	}
	return g
}

func pieceAt(t *testing.T, g *Game, sq string) (core.Piece, bool) {
	t.Helper()
	return g.Board().At(board.MustSquare(sq))
}

func TestOpeningPawnPush(t *testing.T) {
	g := New()
	res := g.Play("e2 e4")
	if res.Status != core.StatusOK {
		t.Fatalf("Play(e2 e4) status = %v, want %v", res.Status, core.StatusOK)
	}
	if p, ok := pieceAt(t, g, "e4"); !ok || p != (core.Piece{Color: core.ColorWhite, Kind: core.Pawn}) {
		t.Errorf("e4 = %v, %v; want white pawn", p, ok)
	}
	if _, ok := pieceAt(t, g, "e2"); ok {
		t.Errorf("e2 still occupied after e2 e4")
	}
	if len(res.Board) != 32 {
		t.Errorf("snapshot has %d pieces, want 32", len(res.Board))
	}
	if g.Turn() != core.ColorBlack {
		t.Errorf("Turn() = %v, want black", g.Turn())
	}
}

func TestIllegalMoveLeavesBoard(t *testing.T) {
	g := New()
	want := board.NewStandard().Occupied()

	res := g.Play("e2 e5")
	if res.Status != core.StatusIllegalMove {
		t.Fatalf("Play(e2 e5) status = %v, want %v", res.Status, core.StatusIllegalMove)
	}
	if diff := cmp.Diff(want, res.Board); diff != "" {
		t.Errorf("board changed after illegal move (-want +got):\n%s", diff)
	}
	if g.Turn() != core.ColorWhite {
		t.Errorf("Turn() = %v after illegal move, want white", g.Turn())
	}
}

func TestIllegalRejectionIsIdempotent(t *testing.T) {
	g := New()
	g.Play("e2 e4")

	first := g.Play("e7 e4")
	second := g.Play("e7 e4")
	if first.Status != core.StatusIllegalMove {
		t.Fatalf("Play(e7 e4) status = %v, want illegal", first.Status)
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("repeated illegal move differs (-first +second):\n%s", diff)
	}
	if g.Turn() != core.ColorBlack {
		t.Errorf("Turn() = %v, want black", g.Turn())
	}
}

func TestStrictAlternation(t *testing.T) {
	g := New()
	steps := []struct {
		line string
		want core.Status
	}{
		{"e7 e5", core.StatusIllegalMove}, // black piece on white's turn
		{"e2 e4", core.StatusOK},
		{"d2 d4", core.StatusIllegalMove}, // white again
		{"e7 e5", core.StatusOK},
		{"d7 d5", core.StatusIllegalMove},
		{"d2 d4", core.StatusOK},
	}
	for _, s := range steps {
		if got := g.Play(s.line).Status; got != s.want {
			t.Errorf("Play(%q) = %v, want %v", s.line, got, s.want)
		}
	}
}

func TestUnparseableInputIsIllegal(t *testing.T) {
	g := New()
	for _, line := range []string{"", "hello", "e2", "e2 e9", "e7 e8 K"} {
		if got := g.Play(line).Status; got != core.StatusIllegalMove {
			t.Errorf("Play(%q) = %v, want illegal", line, got)
		}
	}
	if g.Turn() != core.ColorWhite {
		t.Errorf("Turn() = %v, want white", g.Turn())
	}
}

func TestBackRankMate(t *testing.T) {
	g := resume(t, backRank, core.ColorWhite)
	res := g.Play("d1 d8")
	if res.Status != core.StatusCheckmateWhiteWins {
		t.Fatalf("Play(d1 d8) = %v, want %v", res.Status, core.StatusCheckmateWhiteWins)
	}
	if g.State() != core.StateCheckmateWhiteWins {
		t.Errorf("State() = %v, want checkmate white wins", g.State())
	}

	// Terminal states are permanent.
	after := g.Play("g8 h8")
	if after.Status != core.StatusIllegalMove {
		t.Errorf("move after mate = %v, want illegal", after.Status)
	}
	if diff := cmp.Diff(res.Board, after.Board); diff != "" {
		t.Errorf("board changed after game over (-want +got):\n%s", diff)
	}
}

func TestDrawOfferOverridesMate(t *testing.T) {
	g := resume(t, backRank, core.ColorWhite)
	res := g.Play("d1 d8 draw?")
	if res.Status != core.StatusDraw {
		t.Fatalf("Play(d1 d8 draw?) = %v, want %v", res.Status, core.StatusDraw)
	}
	if g.State() != core.StateDraw {
		t.Errorf("State() = %v, want draw", g.State())
	}
	if p, ok := pieceAt(t, g, "d8"); !ok || p.Kind != core.Queen {
		t.Errorf("d8 = %v, %v; want the queen moved", p, ok)
	}
}

func TestIllegalDrawOfferIsRejected(t *testing.T) {
	g := New()
	if got := g.Play("e2 e5 draw?").Status; got != core.StatusIllegalMove {
		t.Errorf("Play(e2 e5 draw?) = %v, want illegal", got)
	}
	if g.State() != core.StateOngoing {
		t.Errorf("State() = %v, want ongoing", g.State())
	}
}

func TestResign(t *testing.T) {
	tests := []struct {
		name   string
		setup  []string
		status core.Status
		state  core.State
	}{
		{"white resigns on turn one", nil, core.StatusResignBlackWins, core.StateResignBlackWins},
		{"black resigns", []string{"e2 e4"}, core.StatusResignWhiteWins, core.StateResignWhiteWins},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			g := New()
			for _, line := range tt.setup {
				g.Play(line)
			}
			if got := g.Play("resign").Status; got != tt.status {
				t.Fatalf("Play(resign) = %v, want %v", got, tt.status)
			}
			if g.State() != tt.state {
				t.Errorf("State() = %v, want %v", g.State(), tt.state)
			}
			for _, line := range []string{"e7 e5", "d2 d4", "resign"} {
				if got := g.Play(line).Status; got != core.StatusIllegalMove {
					t.Errorf("Play(%q) after resign = %v, want illegal", line, got)
				}
			}
		})
	}
}

func TestPromotion(t *testing.T) {
	tests := []struct {
		name      string
		placement string
		turn      core.Color
		line      string
		square    string
		want      core.Piece
	}{
		{"default queen", "8/P7/7k/8/8/8/8/K7", core.ColorWhite, "a7 a8", "a8", core.Piece{Color: core.ColorWhite, Kind: core.Queen}},
		{"explicit knight", "8/P7/7k/8/8/8/8/K7", core.ColorWhite, "a7 a8 N", "a8", core.Piece{Color: core.ColorWhite, Kind: core.Knight}},
		{"explicit rook", "8/P7/7k/8/8/8/8/K7", core.ColorWhite, "a7 a8 r", "a8", core.Piece{Color: core.ColorWhite, Kind: core.Rook}},
		{"black default queen", "k7/8/8/8/8/7K/p7/8", core.ColorBlack, "a2 a1", "a1", core.Piece{Color: core.ColorBlack, Kind: core.Queen}},
		{"capture and promote", "1r6/P7/7k/8/8/8/8/K7", core.ColorWhite, "a7 b8 B", "b8", core.Piece{Color: core.ColorWhite, Kind: core.Bishop}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			g := resume(t, tt.placement, tt.turn)
			res := g.Play(tt.line)
			if res.Status != core.StatusOK {
				t.Fatalf("Play(%q) = %v, want ok", tt.line, res.Status)
			}
			if p, ok := pieceAt(t, g, tt.square); !ok || p != tt.want {
				t.Errorf("%s = %v, %v; want %v", tt.square, p, ok, tt.want)
			}
		})
	}
}

func TestPromotionKindOnOrdinaryMove(t *testing.T) {
	tests := []struct {
		line   string
		square string
		want   core.Piece
		record string
	}{
		{"e2 e4 Q", "e4", core.Piece{Color: core.ColorWhite, Kind: core.Pawn}, "e2 e4"},
		{"g1 f3 N", "f3", core.Piece{Color: core.ColorWhite, Kind: core.Knight}, "g1 f3"},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			g := New()
			if got := g.Play(tt.line).Status; got != core.StatusOK {
				t.Fatalf("Play(%q) = %v, want ok", tt.line, got)
			}
			if p, ok := pieceAt(t, g, tt.square); !ok || p != tt.want {
				t.Errorf("%s = %v, %v; want %v", tt.square, p, ok, tt.want)
			}
			if diff := cmp.Diff([]string{tt.record}, g.Moves()); diff != "" {
				t.Errorf("Moves() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCheck(t *testing.T) {
	g := resume(t, "4k3/8/8/8/8/8/8/R3K3", core.ColorWhite)
	if got := g.Play("a1 a8").Status; got != core.StatusCheck {
		t.Fatalf("Play(a1 a8) = %v, want check", got)
	}
	if !g.InCheck(core.ColorBlack) {
		t.Errorf("InCheck(black) = false, want true")
	}
	if got := g.Snapshot().Status; got != core.StatusCheck {
		t.Errorf("Snapshot().Status = %v, want check", got)
	}
	// Ignoring the check is illegal; stepping out is fine.
	if got := g.Play("e8 d8").Status; got != core.StatusIllegalMove {
		t.Errorf("Play(e8 d8) = %v, want illegal", got)
	}
	if got := g.Play("e8 e7").Status; got != core.StatusOK {
		t.Errorf("Play(e8 e7) = %v, want ok", got)
	}
}

func TestKingSafety(t *testing.T) {
	// Bishop on e2 is pinned by the rook on e7.
	g := resume(t, "4k3/4r3/8/8/8/8/4B3/4K3", core.ColorWhite)
	if got := g.Play("e2 d3").Status; got != core.StatusIllegalMove {
		t.Errorf("pinned bishop move = %v, want illegal", got)
	}
	if got := g.Play("e1 d1").Status; got != core.StatusOK {
		t.Errorf("Play(e1 d1) = %v, want ok", got)
	}

	g = resume(t, "4k3/8/8/8/8/8/3r4/4K3", core.ColorWhite)
	if got := g.Play("e1 e2").Status; got != core.StatusIllegalMove {
		t.Errorf("king into rook attack = %v, want illegal", got)
	}
	if got := g.Play("e1 d2").Status; got != core.StatusOK {
		t.Errorf("king capturing undefended rook = %v, want ok", got)
	}
}

func TestMissingKingCountsAsCheck(t *testing.T) {
	g := resume(t, "4k3/8/8/8/8/8/8/R7", core.ColorWhite)
	if !g.InCheck(core.ColorWhite) {
		t.Errorf("InCheck(white) = false with no white king")
	}
	if got := g.Play("a1 a2").Status; got != core.StatusIllegalMove {
		t.Errorf("Play(a1 a2) = %v, want illegal", got)
	}
	if g.HasLegalMove(core.ColorWhite) {
		t.Errorf("HasLegalMove(white) = true with no white king")
	}
}

func TestFoolsMateReplay(t *testing.T) {
	g := New()
	lines := []string{"f2 f3", "e7 e5", "g2 g4", "d8 h4"}
	want := []core.Status{core.StatusOK, core.StatusOK, core.StatusOK, core.StatusCheckmateBlackWins}

	for i, line := range lines {
		if got := g.Play(line).Status; got != want[i] {
			t.Fatalf("move %d Play(%q) = %v, want %v", i+1, line, got, want[i])
		}
	}
	if diff := cmp.Diff(lines, g.Moves()); diff != "" {
		t.Errorf("Moves() mismatch (-want +got):\n%s", diff)
	}
	if g.Board().Placement() != "rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR" {
		t.Errorf("final placement = %q", g.Board().Placement())
	}
}

func TestCaptureReducesPieces(t *testing.T) {
	g := New()
	var res Result
	for _, line := range []string{"e2 e4", "d7 d5", "e4 d5"} {
		res = g.Play(line)
		if res.Status != core.StatusOK {
			t.Fatalf("Play(%q) = %v, want ok", line, res.Status)
		}
	}
	if len(res.Board) != 31 {
		t.Errorf("snapshot has %d pieces after capture, want 31", len(res.Board))
	}
}

func TestLegalMovesFromStart(t *testing.T) {
	g := New()
	if got := len(g.LegalMoves(core.ColorWhite)); got != 20 {
		t.Errorf("len(LegalMoves(white)) = %d, want 20", got)
	}
	if got := len(g.LegalMoves(core.ColorBlack)); got != 20 {
		t.Errorf("len(LegalMoves(black)) = %d, want 20", got)
	}
}

func TestApplyCommandValues(t *testing.T) {
	g := New()
	m, err := command.NewMove(board.MustSquare("g1"), board.MustSquare("f3"), core.NoKind)
	if err != nil {
		t.Fatalf("NewMove error: %v", err)
	}
	if got := g.Apply(command.MoveCommand{Move: m}).Status; got != core.StatusOK {
		t.Errorf("Apply(g1 f3) = %v, want ok", got)
	}
	if got := g.Apply(command.ResignCommand{}).Status; got != core.StatusResignWhiteWins {
		t.Errorf("Apply(resign) = %v, want resign white wins", got)
	}
}

func TestUndoMoves(t *testing.T) {
	g := New()
	g.Play("e2 e4")
	g.Play("e7 e5")

	if err := g.UndoMoves(3); err == nil {
		t.Errorf("UndoMoves(3) with two moves succeeded")
	}
	if err := g.UndoMoves(2); err != nil {
		t.Fatalf("UndoMoves(2) error: %v", err)
	}
	if g.Board().Placement() != board.StartingPlacement {
		t.Errorf("placement after undo = %q", g.Board().Placement())
	}
	if g.Turn() != core.ColorWhite || len(g.Moves()) != 0 {
		t.Errorf("after undo turn=%v moves=%v", g.Turn(), g.Moves())
	}

	// Undo reopens a finished game.
	g = resume(t, backRank, core.ColorWhite)
	g.Play("d1 d8")
	if err := g.UndoMoves(1); err != nil {
		t.Fatalf("UndoMoves(1) error: %v", err)
	}
	if g.State() != core.StateOngoing || g.Turn() != core.ColorWhite {
		t.Errorf("after undo state=%v turn=%v", g.State(), g.Turn())
	}
}

func TestNewFromPlacementRejects(t *testing.T) {
	if _, err := NewFromPlacement("8/8/8", core.ColorWhite); !errors.Is(err, core.ErrFormat) {
		t.Errorf("short placement error = %v, want ErrFormat", err)
	}
	if _, err := NewFromPlacement(board.StartingPlacement, core.Color('x')); !errors.Is(err, core.ErrFormat) {
		t.Errorf("bad turn error = %v, want ErrFormat", err)
	}
}

func TestHistoryRecordsEveryCommand(t *testing.T) {
	g := New()
	g.Play("e2 e4")
	g.Play("e7 e5 draw?")
	if diff := cmp.Diff([]string{"e2 e4", "e7 e5 draw?"}, g.Moves()); diff != "" {
		t.Errorf("Moves() mismatch (-want +got):\n%s", diff)
	}

	g = New()
	g.Play("e2 e4")
	g.Play("resign")
	if diff := cmp.Diff([]string{"e2 e4", "resign"}, g.Moves()); diff != "" {
		t.Errorf("Moves() mismatch (-want +got):\n%s", diff)
	}
	if err := g.UndoMoves(1); err != nil {
		t.Fatalf("UndoMoves(1) error: %v", err)
	}
	if g.State() != core.StateOngoing || g.Turn() != core.ColorBlack {
		t.Errorf("after undoing resign state=%v turn=%v, want ongoing with black to move", g.State(), g.Turn())
	}
	if got := g.Play("e7 e5").Status; got != core.StatusOK {
		t.Errorf("Play(e7 e5) after undo = %v, want ok", got)
	}
}
