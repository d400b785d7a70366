package display

import (
	"fmt"
	"io"
	"strings"
)

// ANSI styles by role in the client's output
const (
	Reset   = "\033[0m"
	OK      = "\033[32m"
	Fail    = "\033[31m"
	Notice  = "\033[33m"
	Heading = "\033[36m"
	Accent  = "\033[35m"
	Trace   = "\033[34m"
	Ident   = "\033[37m"

	whitePiece = "\033[1;34m"
	blackPiece = "\033[1;31m"
	coord      = "\033[2;36m"
)

// Prompt returns text styled as the REPL prompt
func Prompt(text string) string {
	return Notice + text + " > " + Reset
}

func paint(style string, ch rune) string {
	return style + string(ch) + Reset
}

// RenderBoard writes the server's ASCII board with white pieces in bold blue,
// black pieces in bold red and coordinates dimmed
func RenderBoard(w io.Writer, asciiBoard string) {
	lines := strings.Split(asciiBoard, "\n")
	last := len(lines) - 1

	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		fileLine := i == 0 || i == last

		var sb strings.Builder
		for _, ch := range line {
			switch {
			case fileLine && ch >= 'a' && ch <= 'h':
				sb.WriteString(paint(coord, ch))
			case ch >= 'A' && ch <= 'Z':
				sb.WriteString(paint(whitePiece, ch))
			case ch >= 'a' && ch <= 'z':
				sb.WriteString(paint(blackPiece, ch))
			case ch >= '1' && ch <= '8':
				sb.WriteString(paint(coord, ch))
			default:
				sb.WriteRune(ch)
			}
		}
		fmt.Fprintln(w, sb.String())
	}
}

// ColorForTurn names the side to move in its piece color
func ColorForTurn(turn string) string {
	if turn == "w" {
		return whitePiece + "White" + Reset
	}
	return blackPiece + "Black" + Reset
}
