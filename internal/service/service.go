// Package service holds many concurrent matches by ID, serializes commands per
// match, persists accepted commands and issues per-seat move tokens.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"chessrules/internal/core"
	"chessrules/internal/game"
	"chessrules/internal/storage"

	"github.com/lixenwraith/auth"
)

const (
	SeatTokenTTL = 24 * time.Hour

	// SeatSecretEnv names the environment variable holding a fixed seat secret
	SeatSecretEnv = "CHESS_SEAT_SECRET"
)

var (
	ErrGameNotFound  = errors.New("game not found")
	ErrSeatsDisabled = errors.New("seat tokens are disabled")
	ErrNotYourTurn   = errors.New("seat does not hold the move")
)

// Config tunes a Service. A nil Store disables persistence; an empty
// SeatSecret disables seat tokens.
type Config struct {
	Store       *storage.Store
	SeatSecret  []byte
	WaitTimeout time.Duration
}

// Service coordinates match state and storage
type Service struct {
	games      map[string]*game.Game
	mu         sync.RWMutex
	store      *storage.Store
	seatSecret []byte
	waiter     *WaitRegistry
}

// New creates a new service instance with optional storage
func New(cfg Config) *Service {
	return &Service{
		games:      make(map[string]*game.Game),
		store:      cfg.Store,
		seatSecret: cfg.SeatSecret,
		waiter:     NewWaitRegistry(cfg.WaitTimeout),
	}
}

// GetStorageHealth returns the storage component status
func (s *Service) GetStorageHealth() string {
	if s.store == nil {
		return "disabled"
	}
	if s.store.IsHealthy() {
		return "ok"
	}
	return "degraded"
}

// WaitForUpdate long-polls a game until its command count differs from moveCount
// and returns at once when it already does or the game is gone
func (s *Service) WaitForUpdate(ctx context.Context, gameID string, moveCount int) {
	s.waiter.Wait(ctx, gameID, moveCount, func() bool {
		s.mu.RLock()
		defer s.mu.RUnlock()
		g, ok := s.games[gameID]
		return !ok || len(g.Moves()) != moveCount
	})
}

// SeatsEnabled reports whether moves must carry a seat token
func (s *Service) SeatsEnabled() bool {
	return len(s.seatSecret) > 0
}

// IssueSeatTokens signs one token per color for gameID
func (s *Service) IssueSeatTokens(gameID string) (map[core.Color]string, error) {
	if !s.SeatsEnabled() {
		return nil, ErrSeatsDisabled
	}
	if _, err := s.GetGame(gameID); err != nil {
		return nil, err
	}

	tokens := make(map[core.Color]string, 2)
	for _, c := range []core.Color{core.ColorWhite, core.ColorBlack} {
		token, err := SignSeatToken(s.seatSecret, gameID, c)
		if err != nil {
			return nil, err
		}
		tokens[c] = token
	}
	return tokens, nil
}

// SignSeatToken signs a move token for one color of gameID. Tokens signed with
// the secret a server runs with are accepted by that server.
func SignSeatToken(secret []byte, gameID string, c core.Color) (string, error) {
	claims := map[string]any{
		"game": gameID,
		"seat": c.Name(),
	}
	token, err := auth.GenerateHS256Token(secret, seatSubject(gameID, c), claims, SeatTokenTTL)
	if err != nil {
		return "", fmt.Errorf("sign %s seat: %w", c.Name(), err)
	}
	return token, nil
}

// ValidateSeat verifies token and returns the game and color it was issued for
func (s *Service) ValidateSeat(token string) (string, core.Color, error) {
	if !s.SeatsEnabled() {
		return "", 0, ErrSeatsDisabled
	}
	subject, _, err := auth.ValidateHS256Token(s.seatSecret, token)
	if err != nil {
		return "", 0, err
	}
	return parseSeatSubject(subject)
}

// ValidateToken adapts ValidateSeat to the bearer-token middleware signature
func (s *Service) ValidateToken(token string) (string, map[string]any, error) {
	gameID, c, err := s.ValidateSeat(token)
	if err != nil {
		return "", nil, err
	}
	return seatSubject(gameID, c), map[string]any{"game": gameID, "seat": c.String()}, nil
}

// AuthorizeMove checks that the seat named by subject may move in gameID now
func (s *Service) AuthorizeMove(gameID, subject string) error {
	seatGame, c, err := parseSeatSubject(subject)
	if err != nil {
		return err
	}
	if seatGame != gameID {
		return fmt.Errorf("seat belongs to game %s", seatGame)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.games[gameID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}
	if g.Turn() != c {
		return ErrNotYourTurn
	}
	return nil
}

func seatSubject(gameID string, c core.Color) string {
	return gameID + ":" + c.String()
}

func parseSeatSubject(subject string) (string, core.Color, error) {
	gameID, seat, ok := strings.Cut(subject, ":")
	if !ok {
		return "", 0, fmt.Errorf("malformed seat subject %q", subject)
	}
	c, ok := core.ParseColor(seat)
	if !ok {
		return "", 0, fmt.Errorf("malformed seat color %q", seat)
	}
	return gameID, c, nil
}

// Shutdown releases long-poll waiters, drops in-memory games and closes storage
func (s *Service) Shutdown(timeout time.Duration) error {
	var errs []error

	if err := s.waiter.Shutdown(timeout); err != nil {
		errs = append(errs, err)
	}

	s.mu.Lock()
	s.games = make(map[string]*game.Game)
	s.mu.Unlock()

	if s.store != nil {
		if err := s.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage close: %w", err))
		}
	}

	return errors.Join(errs...)
}
