package game

import (
	"fmt"

	"chessrules/internal/board"
	"chessrules/internal/command"
	"chessrules/internal/core"
)

type Snapshot struct {
	Placement    string     // Board placement at this point
	PreviousMove string     // Command that created this position (empty for initial)
	NextTurn     core.Color // Whose turn it is at this position
}

// Result is returned for every applied command: the full occupancy after the
// command and the status message it produced.
type Result struct {
	Board  []board.Occupant `json:"board"`
	Status core.Status      `json:"status"`
}

type Game struct {
	board     *board.Board
	turn      core.Color
	state     core.State
	snapshots []Snapshot
}

// New starts a match from the standard position with White to move
func New() *Game {
	return newGame(board.NewStandard(), core.ColorWhite)
}

// NewFromPlacement resumes a match from a FEN piece-placement field
func NewFromPlacement(placement string, turn core.Color) (*Game, error) {
	if turn != core.ColorWhite && turn != core.ColorBlack {
		return nil, fmt.Errorf("invalid turn %q: %w", byte(turn), core.ErrFormat)
	}
	b, err := board.ParsePlacement(placement)
	if err != nil {
		return nil, err
	}
	return newGame(b, turn), nil
}

func newGame(b *board.Board, turn core.Color) *Game {
	return &Game{
		board: b,
		turn:  turn,
		state: core.StateOngoing,
		snapshots: []Snapshot{
			{
				Placement:    b.Placement(),
				PreviousMove: "", // No move led to initial position
				NextTurn:     turn,
			},
		},
	}
}

// Play parses line and applies it. Unparseable input is an illegal move.
func (g *Game) Play(line string) Result {
	cmd, err := command.Parse(line)
	if err != nil {
		return g.result(core.StatusIllegalMove)
	}
	return g.Apply(cmd)
}

// Apply executes one command for the side to move
func (g *Game) Apply(cmd command.Command) Result {
	if g.state.Over() {
		return g.result(core.StatusIllegalMove)
	}

	var m command.Move
	draw := false
	switch c := cmd.(type) {
	case command.ResignCommand:
		if g.turn == core.ColorWhite {
			g.state = core.StateResignBlackWins
		} else {
			g.state = core.StateResignWhiteWins
		}
		g.record(c.String())
		return g.result(g.state.Status())
	case command.MoveCommand:
		m = c.Move
	case command.DrawOfferCommand:
		m, draw = c.Move, true
	default:
		return g.result(core.StatusIllegalMove)
	}

	m, ok := g.normalize(m)
	if !ok || !g.isLegal(m) {
		return g.result(core.StatusIllegalMove)
	}

	mover := g.turn
	play(g.board, m)
	g.turn = mover.Opposite()

	if draw {
		g.state = core.StateDraw
		g.record(command.DrawOfferCommand{Move: m}.String())
		return g.result(core.StatusDraw)
	}
	g.record(m.String())

	if !g.InCheck(g.turn) {
		return g.result(core.StatusOK)
	}
	if g.HasLegalMove(g.turn) {
		return g.result(core.StatusCheck)
	}
	if mover == core.ColorWhite {
		g.state = core.StateCheckmateWhiteWins
	} else {
		g.state = core.StateCheckmateBlackWins
	}
	return g.result(g.state.Status())
}

// record appends the accepted command and the position it produced
func (g *Game) record(cmd string) {
	g.snapshots = append(g.snapshots, Snapshot{
		Placement:    g.board.Placement(),
		PreviousMove: cmd,
		NextTurn:     g.turn,
	})
}

func (g *Game) result(s core.Status) Result {
	return Result{Board: g.board.Occupied(), Status: s}
}

// UndoMoves rewinds count accepted commands and reopens the game. A resignation
// counts as one command.
func (g *Game) UndoMoves(count int) error {
	if count < 1 {
		return fmt.Errorf("invalid undo count: %d", count)
	}

	availableMoves := len(g.snapshots) - 1
	if availableMoves < count {
		return fmt.Errorf("cannot undo %d moves: only %d moves available", count, availableMoves)
	}

	target := g.snapshots[len(g.snapshots)-1-count]
	b, err := board.ParsePlacement(target.Placement)
	if err != nil {
		return fmt.Errorf("restore snapshot: %w", err)
	}

	g.snapshots = g.snapshots[:len(g.snapshots)-count]
	g.board = b
	g.turn = target.NextTurn
	g.state = core.StateOngoing
	return nil
}

func (g *Game) CurrentSnapshot() Snapshot {
	return g.snapshots[len(g.snapshots)-1]
}

// Moves lists every accepted command in order, with promotions spelled out and
// a trailing "resign" or " draw?" where one ended the game
func (g *Game) Moves() []string {
	moves := []string{}
	for i := 1; i < len(g.snapshots); i++ {
		if g.snapshots[i].PreviousMove != "" {
			moves = append(moves, g.snapshots[i].PreviousMove)
		}
	}
	return moves
}

func (g *Game) InitialPlacement() string {
	return g.snapshots[0].Placement
}

func (g *Game) InitialTurn() core.Color {
	return g.snapshots[0].NextTurn
}

func (g *Game) Turn() core.Color {
	return g.turn
}

func (g *Game) State() core.State {
	return g.state
}

// Board returns a copy of the live board
func (g *Game) Board() *board.Board {
	return g.board.Copy()
}

// Snapshot exports the current occupancy with the status describing the
// position: the terminal status once over, otherwise Check or OK for the side to move.
func (g *Game) Snapshot() Result {
	if !g.state.Over() && g.InCheck(g.turn) {
		return g.result(core.StatusCheck)
	}
	return g.result(g.state.Status())
}
