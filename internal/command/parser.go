package command

import (
	"fmt"
	"strings"

	"chessrules/internal/board"
	"chessrules/internal/core"
)

const (
	resignWord = "resign"
	drawSuffix = " draw?"
)

// Parse reads one input line. Accepted forms, case-insensitive and trimmed:
//
//	resign
//	<from> <to> [Q|R|B|N] [draw?]
//
// Every failure wraps core.ErrFormat.
func Parse(line string) (Command, error) {
	text := strings.ToLower(strings.TrimSpace(line))
	if text == resignWord {
		return ResignCommand{}, nil
	}

	draw := false
	if strings.HasSuffix(text, drawSuffix) {
		draw = true
		text = strings.TrimSuffix(text, drawSuffix)
	}

	fields := strings.Fields(text)
	if len(fields) < 2 || len(fields) > 3 {
		return nil, fmt.Errorf("command %q: expected <from> <to> [promotion]: %w", line, core.ErrFormat)
	}

	from, err := board.ParseSquare(fields[0])
	if err != nil {
		return nil, fmt.Errorf("command %q: %w", line, err)
	}
	to, err := board.ParseSquare(fields[1])
	if err != nil {
		return nil, fmt.Errorf("command %q: %w", line, err)
	}

	promotion := core.NoKind
	if len(fields) == 3 {
		promotion, err = parsePromotion(fields[2])
		if err != nil {
			return nil, fmt.Errorf("command %q: %w", line, err)
		}
	}

	m, err := NewMove(from, to, promotion)
	if err != nil {
		return nil, fmt.Errorf("command %q: %w", line, err)
	}

	if draw {
		return DrawOfferCommand{Move: m}, nil
	}
	return MoveCommand{Move: m}, nil
}

func parsePromotion(tok string) (core.Kind, error) {
	if len(tok) != 1 {
		return core.NoKind, fmt.Errorf("promotion %q must be one letter: %w", tok, core.ErrFormat)
	}
	k, ok := core.KindFromLetter(tok[0])
	if !ok || !k.Promotable() {
		return core.NoKind, fmt.Errorf("promotion %q must be one of Q, R, B, N: %w", tok, core.ErrFormat)
	}
	return k, nil
}
