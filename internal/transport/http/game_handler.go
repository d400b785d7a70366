package http

import (
	"errors"
	"log"
	"strconv"

	"chessrules/internal/board"
	"chessrules/internal/core"
	"chessrules/internal/service"

	"github.com/gofiber/fiber/v2"
)

func notFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(core.ErrorResponse{
		Error: "game not found",
		Code:  core.ErrGameNotFound,
	})
}

func invalidGameID(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(core.ErrorResponse{
		Error:   "invalid game ID format",
		Code:    core.ErrInvalidRequest,
		Details: "game ID must be a valid UUID",
	})
}

func validationBypass(c *fiber.Ctx) error {
	return c.Status(fiber.StatusInternalServerError).JSON(core.ErrorResponse{
		Error: "validation bypass detected",
		Code:  core.ErrInternalError,
	})
}

// occupants converts a board snapshot to its wire form
func occupants(in []board.Occupant) []core.Occupant {
	out := make([]core.Occupant, 0, len(in))
	for _, o := range in {
		out = append(out, core.Occupant{Square: o.Square.String(), Piece: o.Piece.Tag()})
	}
	return out
}

func gameResponse(v service.GameView) core.GameResponse {
	return core.GameResponse{
		GameID:    v.GameID,
		Placement: v.Placement,
		Turn:      v.Turn.String(),
		State:     v.State.String(),
		Status:    v.Snapshot.Status,
		Board:     occupants(v.Snapshot.Board),
		Moves:     v.Moves,
	}
}

// CreateGame starts a match from the standard or a supplied position
func (h *HTTPHandler) CreateGame(c *fiber.Ctx) error {
	req, ok := validatedBody[core.CreateGameRequest](c)
	if !ok {
		return validationBypass(c)
	}

	turn := core.ColorWhite
	if req.Turn != "" {
		turn, _ = core.ParseColor(req.Turn)
	}

	id, err := h.svc.CreateGame(req.Placement, turn)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(core.ErrorResponse{
			Error:   "invalid placement",
			Code:    core.ErrInvalidPlacement,
			Details: err.Error(),
		})
	}

	v, err := h.svc.GetGame(id)
	if err != nil {
		return notFound(c)
	}
	resp := gameResponse(v)

	if h.svc.SeatsEnabled() {
		tokens, err := h.svc.IssueSeatTokens(id)
		if err != nil {
			log.Printf("Seat tokens for %s: %v", id, err)
			return c.Status(fiber.StatusInternalServerError).JSON(core.ErrorResponse{
				Error: "failed to issue seat tokens",
				Code:  core.ErrInternalError,
			})
		}
		resp.Seats = &core.Seats{White: tokens[core.ColorWhite], Black: tokens[core.ColorBlack]}
	}

	return c.Status(fiber.StatusCreated).JSON(resp)
}

// GetGame returns the match, optionally long-polling until its command count
// differs from the client's moveCount
func (h *HTTPHandler) GetGame(c *fiber.Ctx) error {
	gameID := c.Params("gameId")
	if !isValidUUID(gameID) {
		return invalidGameID(c)
	}

	v, err := h.svc.GetGame(gameID)
	if err != nil {
		return notFound(c)
	}

	if c.Query("wait", "false") != "true" {
		return c.JSON(gameResponse(v))
	}

	moveCount, err := strconv.Atoi(c.Query("moveCount", "-1"))
	if err != nil || moveCount != len(v.Moves) {
		return c.JSON(gameResponse(v))
	}

	// Rechecks the count after registering, so a move landing now is not missed
	h.svc.WaitForUpdate(c.Context(), gameID, moveCount)

	// Game might have been deleted while waiting
	v, err = h.svc.GetGame(gameID)
	if err != nil {
		return notFound(c)
	}
	return c.JSON(gameResponse(v))
}

// MakeMove applies one command line. Rejected commands, including any command
// sent to a finished game, answer 200 with status "illegal_move".
func (h *HTTPHandler) MakeMove(c *fiber.Ctx) error {
	gameID := c.Params("gameId")
	if !isValidUUID(gameID) {
		return invalidGameID(c)
	}

	req, ok := validatedBody[core.MoveRequest](c)
	if !ok {
		return validationBypass(c)
	}

	if subject, ok := c.Locals("subject").(string); ok {
		if err := h.svc.AuthorizeMove(gameID, subject); err != nil {
			if errors.Is(err, service.ErrGameNotFound) {
				return notFound(c)
			}
			return c.Status(fiber.StatusForbidden).JSON(core.ErrorResponse{
				Error:   "seat may not move",
				Code:    core.ErrUnauthorized,
				Details: err.Error(),
			})
		}
	}

	res, err := h.svc.Play(gameID, req.Command)
	if err != nil {
		return notFound(c)
	}

	v, err := h.svc.GetGame(gameID)
	if err != nil {
		return notFound(c)
	}

	return c.JSON(core.MoveResponse{
		GameID: gameID,
		Status: res.Status,
		Board:  occupants(res.Board),
		Turn:   v.Turn.String(),
		State:  v.State.String(),
	})
}

// ResetGame restarts a match from its initial position
func (h *HTTPHandler) ResetGame(c *fiber.Ctx) error {
	gameID := c.Params("gameId")
	if !isValidUUID(gameID) {
		return invalidGameID(c)
	}

	if err := h.svc.ResetGame(gameID); err != nil {
		return notFound(c)
	}

	v, err := h.svc.GetGame(gameID)
	if err != nil {
		return notFound(c)
	}
	return c.JSON(gameResponse(v))
}

// UndoMove undoes one or more commands
func (h *HTTPHandler) UndoMove(c *fiber.Ctx) error {
	gameID := c.Params("gameId")
	if !isValidUUID(gameID) {
		return invalidGameID(c)
	}

	req, ok := validatedBody[core.UndoRequest](c)
	if !ok {
		return validationBypass(c)
	}

	if err := h.svc.UndoMoves(gameID, req.Count); err != nil {
		if errors.Is(err, service.ErrGameNotFound) {
			return notFound(c)
		}
		return c.Status(fiber.StatusBadRequest).JSON(core.ErrorResponse{
			Error:   "cannot undo moves",
			Code:    core.ErrInvalidRequest,
			Details: err.Error(),
		})
	}

	v, err := h.svc.GetGame(gameID)
	if err != nil {
		return notFound(c)
	}
	return c.JSON(gameResponse(v))
}

// DeleteGame ends and cleans up a game
func (h *HTTPHandler) DeleteGame(c *fiber.Ctx) error {
	gameID := c.Params("gameId")
	if !isValidUUID(gameID) {
		return invalidGameID(c)
	}

	if err := h.svc.DeleteGame(gameID); err != nil {
		return notFound(c)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// GetBoard returns the placement and an ASCII rendering of the board
func (h *HTTPHandler) GetBoard(c *fiber.Ctx) error {
	gameID := c.Params("gameId")
	if !isValidUUID(gameID) {
		return invalidGameID(c)
	}

	v, err := h.svc.GetGame(gameID)
	if err != nil {
		return notFound(c)
	}

	b, err := board.ParsePlacement(v.Placement)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(core.ErrorResponse{
			Error: "corrupt board state",
			Code:  core.ErrInternalError,
		})
	}

	return c.JSON(core.BoardResponse{
		Placement: v.Placement,
		Board:     b.ToASCII(),
	})
}

// GetMoves returns the accepted command history
func (h *HTTPHandler) GetMoves(c *fiber.Ctx) error {
	gameID := c.Params("gameId")
	if !isValidUUID(gameID) {
		return invalidGameID(c)
	}

	moves, err := h.svc.Moves(gameID)
	if err != nil {
		return notFound(c)
	}
	return c.JSON(core.MovesResponse{GameID: gameID, Moves: moves})
}
