package service

import (
	"context"
	"fmt"
	"sync"
	"time"
)

const (
	// WaitTimeout is the maximum time a client can wait for notifications
	WaitTimeout = 25 * time.Second

	// WaitChannelBuffer size for notification channels
	WaitChannelBuffer = 1
)

// WaitRegistry manages long-polling clients waiting for game state changes
type WaitRegistry struct {
	mu       sync.RWMutex
	waiters  map[string][]*WaitRequest // gameID → waiting clients
	timeout  time.Duration
	shutdown chan struct{}
	closed   sync.Once
	wg       sync.WaitGroup
}

// WaitRequest represents a single client waiting for game updates
type WaitRequest struct {
	MoveCount int           // Last known command count
	Notify    chan struct{} // Buffered channel for notifications
	GameID    string        // Game being watched
}

// NewWaitRegistry creates a new wait registry
func NewWaitRegistry(timeout time.Duration) *WaitRegistry {
	if timeout <= 0 {
		timeout = WaitTimeout
	}
	return &WaitRegistry{
		waiters:  make(map[string][]*WaitRequest),
		timeout:  timeout,
		shutdown: make(chan struct{}),
	}
}

// Wait blocks until the game's command count moves away from moveCount, the
// game is removed, the timeout elapses, ctx ends or the registry shuts down.
// stale is checked once the request is registered, so a change that lands
// between the caller's read and registration still ends the wait.
func (w *WaitRegistry) Wait(ctx context.Context, gameID string, moveCount int, stale func() bool) {
	req := &WaitRequest{
		MoveCount: moveCount,
		Notify:    make(chan struct{}, WaitChannelBuffer),
		GameID:    gameID,
	}

	w.mu.Lock()
	select {
	case <-w.shutdown:
		w.mu.Unlock()
		return
	default:
	}
	w.waiters[gameID] = append(w.waiters[gameID], req)
	w.wg.Add(1)
	w.mu.Unlock()

	defer w.wg.Done()
	defer w.removeWaiter(gameID, req)

	if stale != nil && stale() {
		return
	}

	timer := time.NewTimer(w.timeout)
	defer timer.Stop()

	select {
	case <-req.Notify:
	case <-timer.C:
	case <-ctx.Done():
	case <-w.shutdown:
	}
}

// NotifyGame notifies all clients waiting on a game about state change
func (w *WaitRegistry) NotifyGame(gameID string, currentMoveCount int) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	for _, req := range w.waiters[gameID] {
		if req.MoveCount != currentMoveCount {
			select {
			case req.Notify <- struct{}{}:
			default:
				// Already notified
			}
		}
	}
}

// RemoveGame wakes every waiter of a game (called before game deletion)
func (w *WaitRegistry) RemoveGame(gameID string) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	for _, req := range w.waiters[gameID] {
		select {
		case req.Notify <- struct{}{}:
		default:
		}
	}
}

// Waiting reports how many clients are blocked on gameID
func (w *WaitRegistry) Waiting(gameID string) int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.waiters[gameID])
}

// Shutdown releases every waiter and waits for them to return
func (w *WaitRegistry) Shutdown(timeout time.Duration) error {
	w.closed.Do(func() { close(w.shutdown) })

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("wait registry shutdown timed out after %v", timeout)
	}
}

func (w *WaitRegistry) removeWaiter(gameID string, req *WaitRequest) {
	w.mu.Lock()
	defer w.mu.Unlock()

	waitList := w.waiters[gameID]
	for i, waiter := range waitList {
		if waiter == req {
			w.waiters[gameID] = append(waitList[:i], waitList[i+1:]...)
			break
		}
	}

	if len(w.waiters[gameID]) == 0 {
		delete(w.waiters, gameID)
	}
}
