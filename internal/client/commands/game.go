package commands

import (
	"fmt"
	"strconv"
	"strings"

	"chessrules/internal/client/display"
	"chessrules/internal/core"
)

func (r *Registry) registerGameCommands() {
	r.Register(&Command{
		Name:        "new",
		ShortName:   "n",
		Description: "Create a new game",
		Usage:       "new [placement [w|b]]",
		Handler:     newGameHandler,
	})

	r.Register(&Command{
		Name:        "join",
		ShortName:   "j",
		Description: "Join/set current game ID",
		Usage:       "join <gameId>",
		Handler:     joinGameHandler,
	})

	r.Register(&Command{
		Name:        "move",
		ShortName:   "m",
		Description: "Send a command line: a move, a move with draw?, or resign",
		Usage:       "move <from> <to> [Q|R|B|N] [draw?] | move resign",
		Handler:     moveHandler,
	})

	r.Register(&Command{
		Name:        "undo",
		ShortName:   "u",
		Description: "Undo commands",
		Usage:       "undo [count]",
		Handler:     undoHandler,
	})

	r.Register(&Command{
		Name:        "reset",
		ShortName:   "r",
		Description: "Restart the game from its initial position",
		Usage:       "reset",
		Handler:     resetHandler,
	})

	r.Register(&Command{
		Name:        "show",
		ShortName:   "h",
		Description: "Show board and game state",
		Usage:       "show",
		Handler:     showBoardHandler,
	})

	r.Register(&Command{
		Name:        "state",
		ShortName:   "s",
		Description: "Show raw game JSON",
		Usage:       "state",
		Handler:     gameStateHandler,
	})

	r.Register(&Command{
		Name:        "delete",
		ShortName:   "d",
		Description: "Delete a game",
		Usage:       "delete [gameId]",
		Handler:     deleteGameHandler,
	})

	r.Register(&Command{
		Name:        "poll",
		ShortName:   "p",
		Description: "Long-poll until the opponent moves",
		Usage:       "poll",
		Handler:     pollHandler,
	})
}

func newGameHandler(s *Session, args []string) error {
	req := &core.CreateGameRequest{}
	if len(args) > 0 {
		req.Placement = args[0]
	}
	if len(args) > 1 {
		req.Turn = args[1]
	}

	resp, err := s.Client.CreateGame(req)
	if err != nil {
		return err
	}

	s.CurrentGame = resp.GameID
	s.LastMoveCount = len(resp.Moves)
	s.Client.SetToken("")

	s.printf("%sGame created: %s%s\n", display.OK, resp.GameID, display.Reset)
	if resp.Seats != nil {
		s.printf("White seat token: %s\n", resp.Seats.White)
		s.printf("Black seat token: %s\n", resp.Seats.Black)
		s.printf("Use 'seat <token>' to move as one side; share the other token with your opponent.\n")
	}
	return nil
}

func joinGameHandler(s *Session, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: join <gameId>")
	}

	resp, err := s.Client.GetGame(args[0])
	if err != nil {
		return err
	}

	s.CurrentGame = resp.GameID
	s.LastMoveCount = len(resp.Moves)

	s.printf("%sJoined game: %s%s\n", display.OK, resp.GameID, display.Reset)
	s.printf("Turn: %s | State: %s | Moves: %d\n", display.ColorForTurn(resp.Turn), resp.State, len(resp.Moves))
	return nil
}

func moveHandler(s *Session, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: move <from> <to> [Q|R|B|N] [draw?]")
	}
	gameID, err := requireGame(s)
	if err != nil {
		return err
	}

	resp, err := s.Client.MakeMove(gameID, strings.Join(args, " "))
	if err != nil {
		return err
	}

	switch resp.Status {
	case core.StatusIllegalMove:
		s.printf("%sIllegal move%s\n", display.Fail, display.Reset)
	case core.StatusOK:
		s.printf("%sMove accepted%s, %s to move\n", display.OK, display.Reset, display.ColorForTurn(resp.Turn))
	case core.StatusCheck:
		s.printf("%sCheck!%s %s to move\n", display.Notice, display.Reset, display.ColorForTurn(resp.Turn))
	default:
		s.printf("%sGame over: %s%s\n", display.Accent, resp.State, display.Reset)
	}

	// Keep the poll baseline current with the server
	if g, err := s.Client.GetGame(gameID); err == nil {
		s.LastMoveCount = len(g.Moves)
	}
	return nil
}

func undoHandler(s *Session, args []string) error {
	gameID, err := requireGame(s)
	if err != nil {
		return err
	}

	count := 1
	if len(args) > 0 {
		if count, err = strconv.Atoi(args[0]); err != nil || count < 1 {
			return fmt.Errorf("invalid count: %s", args[0])
		}
	}

	resp, err := s.Client.UndoMoves(gameID, count)
	if err != nil {
		return err
	}

	s.LastMoveCount = len(resp.Moves)
	s.printf("%sUndid %d command(s)%s, %s to move\n", display.OK, count, display.Reset, display.ColorForTurn(resp.Turn))
	return nil
}

func resetHandler(s *Session, args []string) error {
	gameID, err := requireGame(s)
	if err != nil {
		return err
	}

	resp, err := s.Client.ResetGame(gameID)
	if err != nil {
		return err
	}

	s.LastMoveCount = len(resp.Moves)
	s.printf("%sGame reset%s\n", display.OK, display.Reset)
	return nil
}

func showBoardHandler(s *Session, args []string) error {
	gameID, err := requireGame(s)
	if err != nil {
		return err
	}

	game, err := s.Client.GetGame(gameID)
	if err != nil {
		return err
	}
	board, err := s.Client.GetBoard(gameID)
	if err != nil {
		return err
	}

	s.LastMoveCount = len(game.Moves)

	s.printf("\n")
	display.RenderBoard(s.Out, board.Board)

	s.printf("\nPlacement: %s\n", game.Placement)
	s.printf("Turn: %s | State: %s | Moves: %d\n",
		display.ColorForTurn(game.Turn), game.State, len(game.Moves))

	if len(game.Moves) > 0 {
		var sb strings.Builder
		for i, move := range game.Moves {
			if i > 0 {
				sb.WriteString(" ")
			}
			if i%2 == 0 {
				sb.WriteString(fmt.Sprintf("%d.%s", i/2+1, move))
			} else {
				sb.WriteString(fmt.Sprintf("| %s", move))
			}
		}
		s.printf("\nHistory: %s\n", sb.String())
	}
	return nil
}

func gameStateHandler(s *Session, args []string) error {
	gameID, err := requireGame(s)
	if err != nil {
		return err
	}

	resp, err := s.Client.GetGame(gameID)
	if err != nil {
		return err
	}
	s.LastMoveCount = len(resp.Moves)

	s.printf("%sGame State:%s\n", display.Heading, display.Reset)
	return printJSON(s, resp)
}

func deleteGameHandler(s *Session, args []string) error {
	gameID := s.CurrentGame
	if len(args) > 0 {
		gameID = args[0]
	}
	if gameID == "" {
		return fmt.Errorf("specify game ID or set current game")
	}

	if err := s.Client.DeleteGame(gameID); err != nil {
		return err
	}

	if gameID == s.CurrentGame {
		s.CurrentGame = ""
		s.LastMoveCount = 0
	}

	s.printf("%sGame deleted: %s%s\n", display.OK, gameID, display.Reset)
	return nil
}

func pollHandler(s *Session, args []string) error {
	gameID, err := requireGame(s)
	if err != nil {
		return err
	}

	moveCount := s.LastMoveCount
	s.printf("%sWaiting for updates (move count: %d)...%s\n", display.Heading, moveCount, display.Reset)

	resp, err := s.Client.GetGameWithPoll(gameID, moveCount)
	if err != nil {
		return err
	}
	s.LastMoveCount = len(resp.Moves)

	if len(resp.Moves) == moveCount {
		s.printf("%sNo updates (timeout)%s\n", display.Notice, display.Reset)
		return nil
	}

	s.printf("%sGame updated%s\n", display.OK, display.Reset)
	if len(resp.Moves) > moveCount {
		s.printf("Last command: %s\n", resp.Moves[len(resp.Moves)-1])
	}
	s.printf("Turn: %s | State: %s\n", display.ColorForTurn(resp.Turn), resp.State)
	return nil
}
