// Package stats keeps local results and preferences for the interactive client
// in an embedded badger store.
package stats

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"chessrules/internal/core"

	"github.com/dgraph-io/badger/v4"
)

// Key prefixes, one entry per profile
const (
	prefixStats       = "stats/"
	prefixPreferences = "prefs/"
)

// Preferences stores per-profile client settings
type Preferences struct {
	Theme      string    `json:"theme"`
	LastPlayed time.Time `json:"last_played"`
}

// Stats accumulates finished games for one profile
type Stats struct {
	GamesPlayed   int            `json:"games_played"`
	WhiteWins     int            `json:"white_wins"`
	BlackWins     int            `json:"black_wins"`
	Draws         int            `json:"draws"`
	ByReason      map[string]int `json:"by_reason"`
	TotalMoves    int            `json:"total_moves"`
	LongestGame   int            `json:"longest_game"`
	TotalPlayTime time.Duration  `json:"total_play_time"`
}

func newStats() *Stats {
	return &Stats{ByReason: make(map[string]int)}
}

// Result describes one finished game
type Result struct {
	State    core.State
	Moves    int
	Duration time.Duration
}

// Store wraps BadgerDB
type Store struct {
	db *badger.DB
}

// Open opens (or creates) the store in dir. An empty dir keeps everything in memory.
func Open(dir string) (*Store, error) {
	opts := badger.DefaultOptions(dir)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open stats store: %w", err)
	}
	return &Store{db: db}, nil
}

// DefaultDir returns the per-user directory for the store
func DefaultDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "chessrules", "stats"), nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Load returns the profile's statistics, empty if none were recorded
func (s *Store) Load(profile string) (*Stats, error) {
	st := newStats()
	if err := s.get(prefixStats+profile, st); err != nil {
		return nil, err
	}
	if st.ByReason == nil {
		st.ByReason = make(map[string]int)
	}
	return st, nil
}

// RecordResult folds a finished game into the profile's statistics
func (s *Store) RecordResult(profile string, r Result) (*Stats, error) {
	if !r.State.Over() {
		return nil, fmt.Errorf("record result: game still %s", r.State)
	}

	var st *Stats
	err := s.db.Update(func(txn *badger.Txn) error {
		st = newStats()
		if err := getTxn(txn, prefixStats+profile, st); err != nil {
			return err
		}
		if st.ByReason == nil {
			st.ByReason = make(map[string]int)
		}

		st.GamesPlayed++
		st.TotalMoves += r.Moves
		st.TotalPlayTime += r.Duration
		if r.Moves > st.LongestGame {
			st.LongestGame = r.Moves
		}

		switch r.State {
		case core.StateCheckmateWhiteWins, core.StateResignWhiteWins:
			st.WhiteWins++
		case core.StateCheckmateBlackWins, core.StateResignBlackWins:
			st.BlackWins++
		case core.StateDraw:
			st.Draws++
		}
		st.ByReason[reason(r.State)]++

		data, err := json.Marshal(st)
		if err != nil {
			return err
		}
		return txn.Set([]byte(prefixStats+profile), data)
	})
	if err != nil {
		return nil, err
	}
	return st, nil
}

func reason(s core.State) string {
	switch s {
	case core.StateCheckmateWhiteWins, core.StateCheckmateBlackWins:
		return "checkmate"
	case core.StateResignWhiteWins, core.StateResignBlackWins:
		return "resignation"
	case core.StateDraw:
		return "agreement"
	default:
		return "unknown"
	}
}

// SavePreferences saves profile settings
func (s *Store) SavePreferences(profile string, prefs *Preferences) error {
	prefs.LastPlayed = time.Now()

	data, err := json.Marshal(prefs)
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(prefixPreferences+profile), data)
	})
}

// LoadPreferences returns the saved settings, or nil when none exist
func (s *Store) LoadPreferences(profile string) (*Preferences, error) {
	prefs := &Preferences{}
	found := false

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(prefixPreferences + profile))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, prefs)
		})
	})
	if err != nil || !found {
		return nil, err
	}
	return prefs, nil
}

// WinRate returns c's share of finished games as a percentage (0-100)
func (st *Stats) WinRate(c core.Color) float64 {
	decided := st.WhiteWins + st.BlackWins + st.Draws
	if decided == 0 {
		return 0
	}
	wins := st.WhiteWins
	if c == core.ColorBlack {
		wins = st.BlackWins
	}
	return float64(wins) / float64(decided) * 100
}

func (s *Store) get(key string, v any) error {
	return s.db.View(func(txn *badger.Txn) error {
		return getTxn(txn, key, v)
	})
}

// getTxn decodes key into v, leaving v untouched when the key is absent
func getTxn(txn *badger.Txn, key string, v any) error {
	item, err := txn.Get([]byte(key))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	return item.Value(func(val []byte) error {
		return json.Unmarshal(val, v)
	})
}
