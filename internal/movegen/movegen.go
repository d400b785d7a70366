// Package movegen produces pseudo-legal moves: destinations allowed by piece
// geometry and occupancy, without regard to king safety.
package movegen

import (
	"chessrules/internal/board"
	"chessrules/internal/command"
	"chessrules/internal/core"
)

type offset [2]int

var (
	orthogonal  = []offset{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	diagonal    = []offset{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
	allDirs     = append(append([]offset{}, orthogonal...), diagonal...)
	knightJumps = []offset{{-2, -1}, {-2, 1}, {-1, -2}, {-1, 2}, {1, -2}, {1, 2}, {2, -1}, {2, 1}}
)

// Generate returns the pseudo-legal moves of the piece standing on from.
// An empty origin yields nil.
func Generate(view board.View, from board.Square) []command.Move {
	p, ok := view.PieceAt(from.File, from.Rank)
	if !ok {
		return nil
	}

	switch p.Kind {
	case core.King:
		return steps(view, from, p.Color, allDirs)
	case core.Queen:
		return slides(view, from, p.Color, allDirs)
	case core.Rook:
		return slides(view, from, p.Color, orthogonal)
	case core.Bishop:
		return slides(view, from, p.Color, diagonal)
	case core.Knight:
		return steps(view, from, p.Color, knightJumps)
	case core.Pawn:
		return pawn(view, from, p.Color)
	default:
		return nil
	}
}

// Attacks reports whether any piece of color by has a pseudo-legal move onto target
func Attacks(view board.View, target board.Square, by core.Color) bool {
	for rank := 0; rank < board.Size; rank++ {
		for file := 0; file < board.Size; file++ {
			p, ok := view.PieceAt(file, rank)
			if !ok || p.Color != by {
				continue
			}
			for _, m := range Generate(view, board.Square{File: file, Rank: rank}) {
				if m.To == target {
					return true
				}
			}
		}
	}
	return false
}

// slides walks each ray until the edge, stopping before a friendly piece and on an enemy one
func slides(view board.View, from board.Square, c core.Color, dirs []offset) []command.Move {
	moves := make([]command.Move, 0, 14)
	for _, d := range dirs {
		sq, ok := from.Offset(d[0], d[1])
		for ok {
			occupant, occupied := view.PieceAt(sq.File, sq.Rank)
			if occupied && occupant.Color == c {
				break
			}
			moves = append(moves, command.Move{From: from, To: sq})
			if occupied {
				break
			}
			sq, ok = sq.Offset(d[0], d[1])
		}
	}
	return moves
}

// steps tries each single offset, skipping friendly-occupied and off-board squares
func steps(view board.View, from board.Square, c core.Color, offsets []offset) []command.Move {
	moves := make([]command.Move, 0, len(offsets))
	for _, d := range offsets {
		sq, ok := from.Offset(d[0], d[1])
		if !ok {
			continue
		}
		if occupant, occupied := view.PieceAt(sq.File, sq.Rank); occupied && occupant.Color == c {
			continue
		}
		moves = append(moves, command.Move{From: from, To: sq})
	}
	return moves
}

func pawn(view board.View, from board.Square, c core.Color) []command.Move {
	moves := make([]command.Move, 0, 4)
	dir, startRank := 1, 1
	if c == core.ColorBlack {
		dir, startRank = -1, 6
	}

	if one, ok := from.Offset(0, dir); ok && empty(view, one) {
		moves = append(moves, command.Move{From: from, To: one})
		if from.Rank == startRank {
			if two, ok := from.Offset(0, 2*dir); ok && empty(view, two) {
				moves = append(moves, command.Move{From: from, To: two})
			}
		}
	}

	for _, df := range []int{-1, 1} {
		sq, ok := from.Offset(df, dir)
		if !ok {
			continue
		}
		if occupant, occupied := view.PieceAt(sq.File, sq.Rank); occupied && occupant.Color != c {
			moves = append(moves, command.Move{From: from, To: sq})
		}
	}
	return moves
}

func empty(view board.View, sq board.Square) bool {
	_, occupied := view.PieceAt(sq.File, sq.Rank)
	return !occupied
}
