// Package command defines moves and the per-turn commands a player can issue,
// along with the parser that reads them from text.
package command

import (
	"fmt"

	"chessrules/internal/board"
	"chessrules/internal/core"
)

// Move is an origin/destination pair with an optional promotion kind (core.NoKind when absent)
type Move struct {
	From      board.Square `json:"from"`
	To        board.Square `json:"to"`
	Promotion core.Kind    `json:"promotion,omitempty"`
}

// NewMove builds a move, rejecting promotion to a king or pawn
func NewMove(from, to board.Square, promotion core.Kind) (Move, error) {
	if promotion != core.NoKind && !promotion.Promotable() {
		return Move{}, fmt.Errorf("invalid promotion target %s: %w", promotion, core.ErrFormat)
	}
	return Move{From: from, To: to, Promotion: promotion}, nil
}

// SameSquares reports whether m and o share origin and destination, ignoring promotion
func (m Move) SameSquares(o Move) bool {
	return m.From == o.From && m.To == o.To
}

func (m Move) String() string {
	s := m.From.String() + " " + m.To.String()
	if m.Promotion != core.NoKind {
		s += " " + string(m.Promotion.Letter())
	}
	return s
}

// Command is one of MoveCommand, DrawOfferCommand or ResignCommand
type Command interface {
	command()
}

// MoveCommand is a plain move
type MoveCommand struct {
	Move Move
}

// DrawOfferCommand is a move accompanied by a draw offer
type DrawOfferCommand struct {
	Move Move
}

// ResignCommand ends the game in favor of the opponent
type ResignCommand struct{}

func (MoveCommand) command()      {}
func (DrawOfferCommand) command() {}
func (ResignCommand) command()    {}

func (c MoveCommand) String() string      { return c.Move.String() }
func (c DrawOfferCommand) String() string { return c.Move.String() + drawSuffix }
func (ResignCommand) String() string      { return resignWord }
