package board

import (
	"fmt"
	"strings"

	"chessrules/internal/core"
)

const (
	Size = 8

	// StartingPlacement is the FEN piece-placement field of the standard initial position
	StartingPlacement = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR"
)

// View is the read-only occupancy query used by move generation
type View interface {
	PieceAt(file, rank int) (core.Piece, bool)
}

// Occupant pairs an occupied square with its piece
type Occupant struct {
	Square Square     `json:"square"`
	Piece  core.Piece `json:"piece"`
}

// Board is an 8x8 grid indexed [rank][file]. It is a plain value: copying the
// struct copies every square.
type Board struct {
	squares [Size][Size]core.Piece
}

// New returns an empty board
func New() *Board {
	return &Board{}
}

// NewStandard returns the standard initial position
func NewStandard() *Board {
	b, err := ParsePlacement(StartingPlacement)
	if err != nil {
		panic(err)
	}
	return b
}

// ParsePlacement reads the piece-placement field of a FEN string. Trailing FEN
// fields, if present, are ignored.
func ParsePlacement(fen string) (*Board, error) {
	parts := strings.Fields(fen)
	if len(parts) == 0 {
		return nil, fmt.Errorf("invalid placement: empty: %w", core.ErrFormat)
	}

	ranks := strings.Split(parts[0], "/")
	if len(ranks) != Size {
		return nil, fmt.Errorf("invalid placement: expected 8 ranks, got %d: %w", len(ranks), core.ErrFormat)
	}

	b := &Board{}
	for i, row := range ranks {
		rank := Size - 1 - i
		file := 0
		for j := 0; j < len(row); j++ {
			ch := row[j]
			if ch >= '1' && ch <= '8' {
				file += int(ch - '0')
				continue
			}
			kind, ok := core.KindFromLetter(ch)
			if !ok {
				return nil, fmt.Errorf("invalid placement: unknown piece %q: %w", ch, core.ErrFormat)
			}
			if file >= Size {
				return nil, fmt.Errorf("invalid placement: too many pieces in rank %d: %w", rank+1, core.ErrFormat)
			}
			color := core.ColorBlack
			if ch >= 'A' && ch <= 'Z' {
				color = core.ColorWhite
			}
			b.squares[rank][file] = core.Piece{Color: color, Kind: kind}
			file++
		}
		if file != Size {
			return nil, fmt.Errorf("invalid placement: rank %d has %d files: %w", rank+1, file, core.ErrFormat)
		}
	}

	return b, nil
}

// Placement renders the board as a FEN piece-placement field
func (b *Board) Placement() string {
	var sb strings.Builder
	for rank := Size - 1; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < Size; file++ {
			p := b.squares[rank][file]
			if p.IsZero() {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte(byte('0' + empty))
				empty = 0
			}
			sb.WriteByte(p.FENByte())
		}
		if empty > 0 {
			sb.WriteByte(byte('0' + empty))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}
	return sb.String()
}

// PieceAt returns the occupant of (file, rank). Off-board coordinates report no piece.
func (b *Board) PieceAt(file, rank int) (core.Piece, bool) {
	if !inBounds(file, rank) {
		return core.Piece{}, false
	}
	p := b.squares[rank][file]
	return p, !p.IsZero()
}

// At is PieceAt for a Square
func (b *Board) At(sq Square) (core.Piece, bool) {
	return b.PieceAt(sq.File, sq.Rank)
}

func (b *Board) Set(sq Square, p core.Piece) {
	b.squares[sq.Rank][sq.File] = p
}

// Remove empties sq and returns what was there
func (b *Board) Remove(sq Square) (core.Piece, bool) {
	p := b.squares[sq.Rank][sq.File]
	b.squares[sq.Rank][sq.File] = core.Piece{}
	return p, !p.IsZero()
}

func (b *Board) Clear() {
	b.squares = [Size][Size]core.Piece{}
}

// Copy returns an independent board
func (b *Board) Copy() *Board {
	c := *b
	return &c
}

// Occupied lists every occupied square, rank 1 first, file a first
func (b *Board) Occupied() []Occupant {
	out := make([]Occupant, 0, 32)
	for rank := 0; rank < Size; rank++ {
		for file := 0; file < Size; file++ {
			p := b.squares[rank][file]
			if p.IsZero() {
				continue
			}
			out = append(out, Occupant{Square: Square{File: file, Rank: rank}, Piece: p})
		}
	}
	return out
}

// KingSquare locates the king of color c
func (b *Board) KingSquare(c core.Color) (Square, bool) {
	king := core.Piece{Color: c, Kind: core.King}
	for rank := 0; rank < Size; rank++ {
		for file := 0; file < Size; file++ {
			if b.squares[rank][file] == king {
				return Square{File: file, Rank: rank}, true
			}
		}
	}
	return Square{}, false
}

// ToASCII creates an ASCII representation of the board
func (b *Board) ToASCII() string {
	var sb strings.Builder
	sb.WriteString("  a b c d e f g h\n")

	for r := Size - 1; r >= 0; r-- {
		sb.WriteString(fmt.Sprintf("%d ", r+1))
		for f := 0; f < Size; f++ {
			piece, ok := b.PieceAt(f, r)
			if !ok {
				sb.WriteString(". ")
			} else {
				sb.WriteString(fmt.Sprintf("%c ", piece.FENByte()))
			}
		}
		sb.WriteString(fmt.Sprintf(" %d\n", r+1))
	}
	sb.WriteString("  a b c d e f g h")

	return sb.String()
}
