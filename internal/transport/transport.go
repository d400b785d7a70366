package transport

import (
	"chessrules/internal/board"
	"chessrules/internal/core"
	"chessrules/internal/stats"
)

// History is the replayable record of one match
type History struct {
	InitialPlacement string
	InitialTurn      core.Color
	Moves            []string
	Placement        string
	State            core.State
}

// View abstracts display/output operations
type View interface {
	DisplayBoard(b *board.Board)
	ShowMessage(msg string)
	ShowError(err error)
	ShowStatus(turn core.Color, status core.Status)
	ShowHistory(h History)
	ShowGameOver(state core.State)
	ShowStats(profile string, st *stats.Stats)
	ShowHelp()
	SetTheme(theme string) error
	Theme() string
}
