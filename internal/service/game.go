package service

import (
	"fmt"
	"log"
	"time"

	"chessrules/internal/board"
	"chessrules/internal/core"
	"chessrules/internal/game"
	"chessrules/internal/storage"

	"github.com/google/uuid"
)

// GameView is a consistent read of one match, taken under the service lock
type GameView struct {
	GameID           string
	Turn             core.Color
	State            core.State
	Snapshot         game.Result
	Placement        string
	Moves            []string
	InitialPlacement string
	InitialTurn      core.Color
}

func view(gameID string, g *game.Game) GameView {
	return GameView{
		GameID:    gameID,
		Turn:      g.Turn(),
		State:     g.State(),
		Snapshot:  g.Snapshot(),
		Placement: g.Board().Placement(),
		Moves:     g.Moves(),

		InitialPlacement: g.InitialPlacement(),
		InitialTurn:      g.InitialTurn(),
	}
}

// CreateGame starts a match. An empty placement means the standard position
// and a zero turn means White to move.
func (s *Service) CreateGame(placement string, turn core.Color) (string, error) {
	if placement == "" {
		placement = board.StartingPlacement
	}
	if turn == 0 {
		turn = core.ColorWhite
	}
	g, err := game.NewFromPlacement(placement, turn)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.generateGameID()
	s.games[id] = g

	if s.store != nil {
		s.store.RecordNewGame(storage.GameRecord{
			GameID:           id,
			InitialPlacement: g.InitialPlacement(),
			InitialTurn:      g.InitialTurn().String(),
			State:            g.State().String(),
			StartTimeUTC:     time.Now().UTC(),
		})
	}

	return id, nil
}

// generateGameID returns an unused UUID; callers hold s.mu
func (s *Service) generateGameID() string {
	for {
		id := uuid.New().String()
		if _, exists := s.games[id]; !exists {
			return id
		}
	}
}

// GetGame returns a view of the match
func (s *Service) GetGame(gameID string) (GameView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, ok := s.games[gameID]
	if !ok {
		return GameView{}, fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}
	return view(gameID, g), nil
}

// Play parses and applies one command line under the service lock. Rejected
// and unparseable commands come back as StatusIllegalMove with a nil error.
func (s *Service) Play(gameID, line string) (game.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.games[gameID]
	if !ok {
		return game.Result{}, fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}

	mover := g.Turn()
	before := len(g.Moves())
	res := g.Play(line)

	moves := g.Moves()
	if len(moves) == before {
		return res, nil
	}

	s.waiter.NotifyGame(gameID, len(moves))

	if s.store != nil {
		s.store.RecordMove(storage.MoveRecord{
			GameID:         gameID,
			MoveNumber:     len(moves),
			Command:        moves[len(moves)-1],
			Status:         res.Status.String(),
			PlacementAfter: g.CurrentSnapshot().Placement,
			PlayerColor:    mover.String(),
			MoveTimeUTC:    time.Now().UTC(),
		})
		if g.State().Over() {
			s.store.RecordState(gameID, g.State().String())
		}
	}

	if g.State().Over() {
		log.Printf("Game %s over: %s", gameID, g.State())
	}

	return res, nil
}

// ResetGame restarts a match from its initial position, clearing its history
func (s *Service) ResetGame(gameID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.games[gameID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}

	fresh, err := game.NewFromPlacement(g.InitialPlacement(), g.InitialTurn())
	if err != nil {
		return fmt.Errorf("reset %s: %w", gameID, err)
	}
	s.games[gameID] = fresh

	s.waiter.NotifyGame(gameID, 0)

	if s.store != nil {
		s.store.DeleteMoves(gameID, 0)
		s.store.RecordState(gameID, fresh.State().String())
	}

	return nil
}

// UndoMoves removes the specified number of commands from a match's history
func (s *Service) UndoMoves(gameID string, count int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.games[gameID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}

	wasOver := g.State().Over()
	if err := g.UndoMoves(count); err != nil {
		return err
	}
	remaining := len(g.Moves())

	s.waiter.NotifyGame(gameID, remaining)

	if s.store != nil {
		s.store.DeleteMoves(gameID, remaining)
		if wasOver {
			s.store.RecordState(gameID, g.State().String())
		}
	}

	return nil
}

// Moves returns the accepted commands of a match in order
func (s *Service) Moves(gameID string) ([]string, error) {
	v, err := s.GetGame(gameID)
	if err != nil {
		return nil, err
	}
	return v.Moves, nil
}

// DeleteGame removes a match from memory and storage
func (s *Service) DeleteGame(gameID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.games[gameID]; !ok {
		return fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}

	s.waiter.RemoveGame(gameID)
	delete(s.games, gameID)

	if s.store != nil {
		s.store.DeleteGame(gameID)
	}

	return nil
}

// Restore rebuilds every stored match by replaying its recorded commands from
// the initial position. It returns the number of matches loaded.
func (s *Service) Restore() (int, error) {
	if s.store == nil {
		return 0, nil
	}

	records, err := s.store.QueryGames("", "")
	if err != nil {
		return 0, fmt.Errorf("restore: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	loaded := 0
	for _, rec := range records {
		turn, ok := core.ParseColor(rec.InitialTurn)
		if !ok {
			log.Printf("Restore: game %s has invalid turn %q, skipping", rec.GameID, rec.InitialTurn)
			continue
		}
		g, err := game.NewFromPlacement(rec.InitialPlacement, turn)
		if err != nil {
			log.Printf("Restore: game %s: %v, skipping", rec.GameID, err)
			continue
		}

		moves, err := s.store.QueryMoves(rec.GameID)
		if err != nil {
			return loaded, fmt.Errorf("restore %s: %w", rec.GameID, err)
		}
		for _, m := range moves {
			if res := g.Play(m.Command); res.Status == core.StatusIllegalMove {
				log.Printf("Restore: game %s move %d %q no longer applies", rec.GameID, m.MoveNumber, m.Command)
				break
			}
		}

		s.games[rec.GameID] = g
		loaded++
	}

	return loaded, nil
}
