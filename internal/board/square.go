package board

import (
	"fmt"

	"chessrules/internal/core"
)

// Square is a zero-based board coordinate: File 0..7 maps to a..h, Rank 0..7 to 1..8.
type Square struct {
	File int
	Rank int
}

// NewSquare builds a square from indices, rejecting anything off the board
func NewSquare(file, rank int) (Square, error) {
	if !inBounds(file, rank) {
		return Square{}, fmt.Errorf("square (%d,%d): %w", file, rank, core.ErrRange)
	}
	return Square{File: file, Rank: rank}, nil
}

// ParseSquare parses algebraic notation such as "e2"
func ParseSquare(s string) (Square, error) {
	if len(s) != 2 {
		return Square{}, fmt.Errorf("square %q must be two characters: %w", s, core.ErrFormat)
	}
	if s[0] < 'a' || s[0] > 'h' {
		return Square{}, fmt.Errorf("square %q: file must be a-h: %w", s, core.ErrFormat)
	}
	if s[1] < '1' || s[1] > '8' {
		return Square{}, fmt.Errorf("square %q: rank must be 1-8: %w", s, core.ErrFormat)
	}
	return Square{File: int(s[0] - 'a'), Rank: int(s[1] - '1')}, nil
}

// MustSquare is ParseSquare for literals known to be valid
func MustSquare(s string) Square {
	sq, err := ParseSquare(s)
	if err != nil {
		panic(err)
	}
	return sq
}

func (s Square) String() string {
	return string([]byte{byte('a' + s.File), byte('1' + s.Rank)})
}

func (s Square) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Offset returns the square shifted by (df, dr) and whether it is still on the board
func (s Square) Offset(df, dr int) (Square, bool) {
	f, r := s.File+df, s.Rank+dr
	if !inBounds(f, r) {
		return Square{}, false
	}
	return Square{File: f, Rank: r}, true
}

func inBounds(file, rank int) bool {
	return file >= 0 && file < Size && rank >= 0 && rank < Size
}
