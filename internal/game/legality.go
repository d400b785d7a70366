package game

import (
	"chessrules/internal/board"
	"chessrules/internal/command"
	"chessrules/internal/core"
	"chessrules/internal/movegen"
)

// normalize checks the mover's piece and settles the promotion kind: a pawn
// landing on the far rank defaults to a queen, and any other move drops the
// kind it named.
func (g *Game) normalize(m command.Move) (command.Move, bool) {
	p, ok := g.board.At(m.From)
	if !ok || p.Color != g.turn {
		return m, false
	}
	return promote(p, m)
}

func promote(p core.Piece, m command.Move) (command.Move, bool) {
	if p.Kind == core.Pawn && m.To.Rank == farRank(p.Color) {
		if m.Promotion == core.NoKind {
			m.Promotion = core.Queen
		}
		return m, true
	}
	m.Promotion = core.NoKind
	return m, true
}

func farRank(c core.Color) int {
	if c == core.ColorWhite {
		return board.Size - 1
	}
	return 0
}

// isLegal requires m to be pseudo-legal and to leave the mover's king unattacked
func (g *Game) isLegal(m command.Move) bool {
	found := false
	for _, cand := range movegen.Generate(g.board, m.From) {
		if cand.SameSquares(m) {
			found = true
			break
		}
	}
	if !found {
		return false
	}
	return !leavesInCheck(g.board, m, g.turn)
}

// leavesInCheck simulates m on a copy and reports whether c's king is then attacked
func leavesInCheck(b *board.Board, m command.Move, c core.Color) bool {
	sim := b.Copy()
	play(sim, m)
	return inCheck(sim, c)
}

func play(b *board.Board, m command.Move) {
	p, _ := b.Remove(m.From)
	if m.Promotion != core.NoKind {
		p.Kind = m.Promotion
	}
	b.Set(m.To, p)
}

// inCheck treats a missing king as attacked
func inCheck(b *board.Board, c core.Color) bool {
	king, ok := b.KingSquare(c)
	if !ok {
		return true
	}
	return movegen.Attacks(b, king, c.Opposite())
}

// InCheck reports whether c's king is attacked on the live board
func (g *Game) InCheck(c core.Color) bool {
	return inCheck(g.board, c)
}

// LegalMoves lists every legal move for c. Pawn moves onto the far rank carry
// the default queen promotion.
func (g *Game) LegalMoves(c core.Color) []command.Move {
	var moves []command.Move
	g.eachLegal(c, func(m command.Move) bool {
		moves = append(moves, m)
		return true
	})
	return moves
}

func (g *Game) HasLegalMove(c core.Color) bool {
	found := false
	g.eachLegal(c, func(command.Move) bool {
		found = true
		return false
	})
	return found
}

// eachLegal calls fn for every legal move of c until fn returns false
func (g *Game) eachLegal(c core.Color, fn func(command.Move) bool) {
	for _, o := range g.board.Occupied() {
		if o.Piece.Color != c {
			continue
		}
		for _, m := range movegen.Generate(g.board, o.Square) {
			m, _ = promote(o.Piece, m)
			if leavesInCheck(g.board, m, c) {
				continue
			}
			if !fn(m) {
				return
			}
		}
	}
}
