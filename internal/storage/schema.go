package storage

import "time"

// GameRecord represents a row in the games table
type GameRecord struct {
	GameID           string    `db:"game_id"`
	InitialPlacement string    `db:"initial_placement"`
	InitialTurn      string    `db:"initial_turn"` // "w" or "b"
	State            string    `db:"state"`
	StartTimeUTC     time.Time `db:"start_time_utc"`
}

// MoveRecord represents a row in the moves table
type MoveRecord struct {
	MoveID         int64     `db:"move_id"`
	GameID         string    `db:"game_id"`
	MoveNumber     int       `db:"move_number"`
	Command        string    `db:"command"`
	Status         string    `db:"status"`
	PlacementAfter string    `db:"placement_after"`
	PlayerColor    string    `db:"player_color"` // "w" or "b"
	MoveTimeUTC    time.Time `db:"move_time_utc"`
}

// Schema defines the SQLite database structure
const Schema = `
CREATE TABLE IF NOT EXISTS games (
	game_id TEXT PRIMARY KEY,
	initial_placement TEXT NOT NULL,
	initial_turn TEXT NOT NULL CHECK(initial_turn IN ('w', 'b')),
	state TEXT NOT NULL DEFAULT 'ongoing',
	start_time_utc DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS moves (
	move_id INTEGER PRIMARY KEY AUTOINCREMENT,
	game_id TEXT NOT NULL,
	move_number INTEGER NOT NULL,
	command TEXT NOT NULL,
	status TEXT NOT NULL,
	placement_after TEXT NOT NULL,
	player_color TEXT NOT NULL CHECK(player_color IN ('w', 'b')),
	move_time_utc DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (game_id) REFERENCES games(game_id) ON DELETE CASCADE,
	UNIQUE(game_id, move_number)
);

CREATE INDEX IF NOT EXISTS idx_moves_game_id ON moves(game_id);
CREATE INDEX IF NOT EXISTS idx_games_state ON games(state);
`
