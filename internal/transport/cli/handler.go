package cli

import (
	"errors"
	"fmt"
	"io"
	"log"
	"strconv"
	"time"

	"chessrules/internal/board"
	"chessrules/internal/cli"
	"chessrules/internal/core"
	"chessrules/internal/service"
	"chessrules/internal/stats"
	"chessrules/internal/transport"

	"github.com/chzyer/readline"
)

// LineReader is the input side of the REPL; *readline.Instance satisfies it
type LineReader interface {
	Readline() (string, error)
	SetPrompt(prompt string)
}

var _ LineReader = (*readline.Instance)(nil)

type CLIHandler struct {
	svc     *service.Service
	view    transport.View
	stats   *stats.Store
	profile string

	gameID   string
	started  time.Time
	recorded bool
}

// New wires a handler. A nil stats store disables statistics and saved
// preferences; otherwise the profile's saved theme is applied to the view.
func New(svc *service.Service, view transport.View, st *stats.Store, profile string) *CLIHandler {
	h := &CLIHandler{
		svc:     svc,
		view:    view,
		stats:   st,
		profile: profile,
	}

	if st != nil {
		prefs, err := st.LoadPreferences(profile)
		if err != nil {
			log.Printf("Load preferences: %v", err)
		} else if prefs != nil && prefs.Theme != "" {
			if err := view.SetTheme(prefs.Theme); err != nil {
				log.Printf("Saved theme ignored: %v", err)
			}
		}
	}

	return h
}

// Run reads and processes lines until quit or end of input
func (h *CLIHandler) Run(in LineReader) {
	for {
		in.SetPrompt(h.prompt())

		line, err := in.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				h.view.ShowError(err)
			}
			return
		}

		if !h.ProcessCommand(cli.ParseCommand(line)) {
			return
		}
	}
}

func (h *CLIHandler) prompt() string {
	if h.gameID == "" {
		return "> "
	}
	v, err := h.svc.GetGame(h.gameID)
	if err != nil || v.State.Over() {
		return "> "
	}
	return fmt.Sprintf("[%s]> ", v.Turn)
}

// ProcessCommand handles one command and returns false to exit
func (h *CLIHandler) ProcessCommand(cmd *cli.Command) bool {
	switch cmd.Type {
	case cli.CmdQuit:
		return false

	case cli.CmdNone:

	case cli.CmdNew:
		h.startGame(board.StartingPlacement, core.ColorWhite)

	case cli.CmdResume:
		if len(cmd.Args) < 1 || len(cmd.Args) > 2 {
			h.view.ShowMessage("Usage: resume <placement> [w|b]")
			return true
		}
		turn := core.ColorWhite
		if len(cmd.Args) == 2 {
			var ok bool
			if turn, ok = core.ParseColor(cmd.Args[1]); !ok {
				h.view.ShowMessage("Side to move must be w or b.")
				return true
			}
		}
		h.startGame(cmd.Args[0], turn)

	case cli.CmdMove:
		if !h.requireGame() {
			return true
		}
		h.play(cmd.Raw)

	case cli.CmdUndo:
		if !h.requireGame() {
			return true
		}

		count := 1
		if len(cmd.Args) > 0 {
			n, err := strconv.Atoi(cmd.Args[0])
			if err != nil || n < 1 {
				h.view.ShowMessage("Invalid undo count. Usage: undo [count]")
				return true
			}
			count = n
		}

		if err := h.svc.UndoMoves(h.gameID, count); err != nil {
			h.view.ShowError(err)
			return true
		}
		h.recorded = false
		if count == 1 {
			h.view.ShowMessage("Move undone")
		} else {
			h.view.ShowMessage(fmt.Sprintf("%d moves undone", count))
		}
		h.showPosition()

	case cli.CmdBoard:
		if !h.requireGame() {
			return true
		}
		h.showPosition()

	case cli.CmdHistory:
		if !h.requireGame() {
			return true
		}
		h.showHistory()

	case cli.CmdColor:
		if len(cmd.Args) < 1 {
			h.view.ShowMessage(fmt.Sprintf("Color theme: %s. Usage: color <off|brown|green|gray>", h.view.Theme()))
			return true
		}
		if err := h.view.SetTheme(cmd.Args[0]); err != nil {
			h.view.ShowError(err)
			return true
		}
		h.view.ShowMessage(fmt.Sprintf("Color theme set to: %s", cmd.Args[0]))
		h.savePreferences()
		if h.gameID != "" {
			h.showPosition()
		}

	case cli.CmdStats:
		if h.stats == nil {
			h.view.ShowMessage("Statistics are unavailable.")
			return true
		}
		st, err := h.stats.Load(h.profile)
		if err != nil {
			h.view.ShowError(err)
			return true
		}
		h.view.ShowStats(h.profile, st)

	case cli.CmdHelp:
		h.view.ShowHelp()
	}

	return true
}

func (h *CLIHandler) requireGame() bool {
	if h.gameID == "" {
		h.view.ShowMessage("No active game. Use 'new' or 'resume <placement>'.")
		return false
	}
	return true
}

func (h *CLIHandler) startGame(placement string, turn core.Color) {
	id, err := h.svc.CreateGame(placement, turn)
	if err != nil {
		h.view.ShowError(fmt.Errorf("could not start the game: %w", err))
		return
	}

	// Only one local game at a time
	if h.gameID != "" {
		if err := h.svc.DeleteGame(h.gameID); err != nil {
			log.Printf("Drop previous game: %v", err)
		}
	}
	h.gameID = id
	h.started = time.Now()
	h.recorded = false

	h.view.ShowMessage("Game started.")
	h.showPosition()
}

func (h *CLIHandler) play(line string) {
	res, err := h.svc.Play(h.gameID, line)
	if err != nil {
		h.view.ShowError(err)
		return
	}

	v, err := h.svc.GetGame(h.gameID)
	if err != nil {
		h.view.ShowError(err)
		return
	}

	if res.Status == core.StatusIllegalMove {
		h.view.ShowStatus(v.Turn, res.Status)
		if v.State.Over() {
			h.view.ShowGameOver(v.State)
		}
		return
	}

	if b, err := board.ParsePlacement(v.Placement); err == nil {
		h.view.DisplayBoard(b)
	}

	if !v.State.Over() {
		h.view.ShowStatus(v.Turn, res.Status)
		return
	}

	h.view.ShowGameOver(v.State)
	h.recordResult(v)
}

// recordResult folds a finished game into the profile statistics once
func (h *CLIHandler) recordResult(v service.GameView) {
	if h.stats == nil || h.recorded {
		return
	}
	_, err := h.stats.RecordResult(h.profile, stats.Result{
		State:    v.State,
		Moves:    len(v.Moves),
		Duration: time.Since(h.started),
	})
	if err != nil {
		log.Printf("Record result: %v", err)
		return
	}
	h.recorded = true
}

func (h *CLIHandler) showPosition() {
	v, err := h.svc.GetGame(h.gameID)
	if err != nil {
		h.view.ShowError(err)
		return
	}
	b, err := board.ParsePlacement(v.Placement)
	if err != nil {
		h.view.ShowError(err)
		return
	}
	h.view.DisplayBoard(b)
	if v.State.Over() {
		h.view.ShowGameOver(v.State)
		return
	}
	h.view.ShowStatus(v.Turn, v.Snapshot.Status)
}

func (h *CLIHandler) showHistory() {
	v, err := h.svc.GetGame(h.gameID)
	if err != nil {
		h.view.ShowError(err)
		return
	}
	h.view.ShowHistory(transport.History{
		InitialPlacement: v.InitialPlacement,
		InitialTurn:      v.InitialTurn,
		Moves:            v.Moves,
		Placement:        v.Placement,
		State:            v.State,
	})
}

func (h *CLIHandler) savePreferences() {
	if h.stats == nil {
		return
	}
	if err := h.stats.SavePreferences(h.profile, &stats.Preferences{Theme: h.view.Theme()}); err != nil {
		log.Printf("Save preferences: %v", err)
	}
}
