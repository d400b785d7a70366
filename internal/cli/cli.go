package cli

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"chessrules/internal/board"
	"chessrules/internal/core"
	"chessrules/internal/stats"
	"chessrules/internal/transport"
)

type CommandType int

const (
	CmdNone CommandType = iota
	CmdNew
	CmdResume
	CmdMove
	CmdUndo
	CmdBoard
	CmdHistory
	CmdColor
	CmdStats
	CmdHelp
	CmdQuit
)

type Command struct {
	Type CommandType
	Args []string
	Raw  string
}

// ParseCommand classifies one input line. Anything that is not a client
// command is passed through as a game command line.
func ParseCommand(input string) *Command {
	input = strings.TrimSpace(input)
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return &Command{Type: CmdNone}
	}

	args := parts[1:]

	switch parts[0] {
	case "new":
		return &Command{Type: CmdNew, Args: args}
	case "resume":
		return &Command{Type: CmdResume, Args: args, Raw: input}
	case "undo":
		return &Command{Type: CmdUndo, Args: args}
	case "board":
		return &Command{Type: CmdBoard}
	case "moves", "history":
		return &Command{Type: CmdHistory}
	case "color":
		return &Command{Type: CmdColor, Args: args}
	case "stats":
		return &Command{Type: CmdStats}
	case "help", "?":
		return &Command{Type: CmdHelp}
	case "quit", "exit":
		return &Command{Type: CmdQuit}
	default:
		return &Command{Type: CmdMove, Raw: input}
	}
}

const (
	ThemeOff   = "off"
	ThemeBrown = "brown"
	ThemeGreen = "green"
	ThemeGray  = "gray"
)

type themeColors struct {
	lightBg string
	darkBg  string
	white   string
	black   string
	reset   string
}

var themes = map[string]themeColors{
	ThemeOff: {},
	ThemeBrown: {
		lightBg: "\033[48;5;230m", // Beige
		darkBg:  "\033[48;5;94m",  // Brown
		white:   "\033[97m",
		black:   "\033[30m",
		reset:   "\033[0m",
	},
	ThemeGreen: {
		lightBg: "\033[48;5;157m",
		darkBg:  "\033[48;5;22m",
		white:   "\033[97m",
		black:   "\033[30m",
		reset:   "\033[0m",
	},
	ThemeGray: {
		lightBg: "\033[48;5;251m",
		darkBg:  "\033[48;5;240m",
		white:   "\033[97m",
		black:   "\033[30m",
		reset:   "\033[0m",
	},
}

// DefaultTheme picks colors for terminals and plain text otherwise
func DefaultTheme(isTerminal bool) string {
	if isTerminal {
		return ThemeBrown
	}
	return ThemeOff
}

// CLI renders games as text on a writer
type CLI struct {
	output io.Writer
	theme  string
}

var _ transport.View = (*CLI)(nil)

func New(output io.Writer) *CLI {
	return &CLI{output: output, theme: ThemeOff}
}

func (c *CLI) SetTheme(theme string) error {
	if _, ok := themes[theme]; !ok {
		return fmt.Errorf("invalid theme: %s (use: off, brown, green, gray)", theme)
	}
	c.theme = theme
	return nil
}

func (c *CLI) Theme() string {
	return c.theme
}

func (c *CLI) ShowMessage(msg string) {
	fmt.Fprintln(c.output, msg)
}

func (c *CLI) ShowError(err error) {
	c.ShowMessage(fmt.Sprintf("Error: %v", err))
}

func (c *CLI) DisplayBoard(b *board.Board) {
	theme := themes[c.theme]
	var sb strings.Builder

	sb.WriteString("\n  a b c d e f g h\n")

	for r := board.Size - 1; r >= 0; r-- {
		sb.WriteString(fmt.Sprintf("%d ", r+1))
		for f := 0; f < board.Size; f++ {
			piece, ok := b.PieceAt(f, r)

			if c.theme == ThemeOff {
				if !ok {
					sb.WriteString(". ")
				} else {
					sb.WriteString(fmt.Sprintf("%c ", piece.FENByte()))
				}
				continue
			}

			// a1 is dark
			bg := theme.darkBg
			if (r+f)%2 == 1 {
				bg = theme.lightBg
			}
			if !ok {
				sb.WriteString(fmt.Sprintf("%s  %s", bg, theme.reset))
				continue
			}
			fg := theme.black
			if piece.Color == core.ColorWhite {
				fg = theme.white
			}
			sb.WriteString(fmt.Sprintf("%s%s%c %s", bg, fg, piece.FENByte(), theme.reset))
		}
		sb.WriteString(fmt.Sprintf(" %d\n", r+1))
	}
	sb.WriteString("  a b c d e f g h\n")

	c.ShowMessage(sb.String())
}

// ShowStatus reports the outcome of the last command
func (c *CLI) ShowStatus(turn core.Color, status core.Status) {
	switch status {
	case core.StatusOK:
		c.ShowMessage(fmt.Sprintf("%s to move.", turn.Name()))
	case core.StatusCheck:
		c.ShowMessage(fmt.Sprintf("Check! %s to move.", turn.Name()))
	case core.StatusIllegalMove:
		c.ShowMessage("Illegal move.")
	default:
		c.ShowMessage(status.String())
	}
}

func (c *CLI) ShowHistory(h transport.History) {
	c.ShowMessage(fmt.Sprintf("Starting position: %s %s", h.InitialPlacement, h.InitialTurn))

	// Pair commands by full move when White moved first
	offset := 0
	if h.InitialTurn == core.ColorBlack && len(h.Moves) > 0 {
		c.ShowMessage(fmt.Sprintf("1. ... | %s", h.Moves[0]))
		offset = 1
	}
	for i := offset; i < len(h.Moves); i += 2 {
		num := (i-offset)/2 + 1 + offset
		if i+1 < len(h.Moves) {
			c.ShowMessage(fmt.Sprintf("%d. %s | %s", num, h.Moves[i], h.Moves[i+1]))
		} else {
			c.ShowMessage(fmt.Sprintf("%d. %s | ...", num, h.Moves[i]))
		}
	}
	c.ShowMessage(fmt.Sprintf("Current position: %s", h.Placement))
	c.ShowMessage(fmt.Sprintf("Game state: %s", h.State))
}

func (c *CLI) ShowGameOver(state core.State) {
	c.ShowMessage(fmt.Sprintf("\nGame Over: %s", state))
	c.ShowMessage("Start a new game with 'new' or 'resume', or step back with 'undo'.")
}

func (c *CLI) ShowStats(profile string, st *stats.Stats) {
	c.ShowMessage(fmt.Sprintf("Statistics for %s:", profile))
	c.ShowMessage(fmt.Sprintf("  Games played:  %d", st.GamesPlayed))
	c.ShowMessage(fmt.Sprintf("  White wins:    %d (%.1f%%)", st.WhiteWins, st.WinRate(core.ColorWhite)))
	c.ShowMessage(fmt.Sprintf("  Black wins:    %d (%.1f%%)", st.BlackWins, st.WinRate(core.ColorBlack)))
	c.ShowMessage(fmt.Sprintf("  Draws:         %d", st.Draws))
	if st.GamesPlayed > 0 {
		c.ShowMessage(fmt.Sprintf("  Average moves: %.1f", float64(st.TotalMoves)/float64(st.GamesPlayed)))
		c.ShowMessage(fmt.Sprintf("  Longest game:  %d", st.LongestGame))
		c.ShowMessage(fmt.Sprintf("  Time played:   %s", st.TotalPlayTime.Round(time.Second)))
	}

	reasons := make([]string, 0, len(st.ByReason))
	for r := range st.ByReason {
		reasons = append(reasons, r)
	}
	sort.Strings(reasons)
	for _, r := range reasons {
		c.ShowMessage(fmt.Sprintf("  By %s: %d", r, st.ByReason[r]))
	}
}

func (c *CLI) ShowHelp() {
	help := `Commands:
  new                        - Start a new game from the standard position
  resume <placement> [w|b]   - Start from a piece placement, e.g. 6k1/5ppp/8/8/8/8/5PPP/3Q2K1 w
  <from> <to> [Q|R|B|N]      - Make a move (e.g., e2 e4, a7 a8 N)
  <from> <to> draw?          - Make a move and agree a draw
  resign                     - Resign on behalf of the side to move
  undo [count]               - Undo last command(s), default 1
  board                      - Show the board
  moves                      - Show the command history
  color <theme>              - Set board color theme (off|brown|green|gray)
  stats                      - Show finished game statistics
  quit/exit                  - Exit the program
  help/?                     - Show this help message`

	c.ShowMessage(help)
}

func (c *CLI) ShowWelcome() {
	c.ShowMessage("Welcome to Chess!")
	c.ShowMessage("Commands: new, resume <placement> [w|b], <move>, resign, undo, board, moves, color, stats, help/?, quit")
	c.ShowMessage("Example: 'resume 6k1/5ppp/8/8/8/8/5PPP/3Q2K1 w' to start from a puzzle.")
	c.ShowMessage("")
}
