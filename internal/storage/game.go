package storage

import (
	"database/sql"
	"fmt"
)

// RecordNewGame asynchronously records a new game
func (s *Store) RecordNewGame(record GameRecord) error {
	return s.enqueue("game record", func(tx *sql.Tx) error {
		query := `INSERT INTO games (
			game_id, initial_placement, initial_turn, state, start_time_utc
		) VALUES (?, ?, ?, ?, ?)`

		_, err := tx.Exec(query,
			record.GameID, record.InitialPlacement, record.InitialTurn,
			record.State, record.StartTimeUTC,
		)
		return err
	})
}

// RecordMove asynchronously records an accepted command
func (s *Store) RecordMove(record MoveRecord) error {
	return s.enqueue("move record", func(tx *sql.Tx) error {
		query := `INSERT INTO moves (
			game_id, move_number, command, status, placement_after, player_color, move_time_utc
		) VALUES (?, ?, ?, ?, ?, ?, ?)`

		_, err := tx.Exec(query,
			record.GameID, record.MoveNumber, record.Command, record.Status,
			record.PlacementAfter, record.PlayerColor, record.MoveTimeUTC,
		)
		return err
	})
}

// RecordState asynchronously updates the state column of a game
func (s *Store) RecordState(gameID, state string) error {
	return s.enqueue("state update", func(tx *sql.Tx) error {
		_, err := tx.Exec(`UPDATE games SET state = ? WHERE game_id = ?`, state, gameID)
		return err
	})
}

// DeleteMoves asynchronously deletes the moves numbered above afterMoveNumber.
// Zero clears the game's history, as on reset.
func (s *Store) DeleteMoves(gameID string, afterMoveNumber int) error {
	return s.enqueue("move deletion", func(tx *sql.Tx) error {
		_, err := tx.Exec(`DELETE FROM moves WHERE game_id = ? AND move_number > ?`, gameID, afterMoveNumber)
		return err
	})
}

// DeleteGame asynchronously removes a game and its moves
func (s *Store) DeleteGame(gameID string) error {
	return s.enqueue("game deletion", func(tx *sql.Tx) error {
		// foreign_keys is per connection, so moves are not left to the cascade
		if _, err := tx.Exec(`DELETE FROM moves WHERE game_id = ?`, gameID); err != nil {
			return err
		}
		_, err := tx.Exec(`DELETE FROM games WHERE game_id = ?`, gameID)
		return err
	})
}

// QueryGames retrieves games with optional filtering; "" or "*" matches all
func (s *Store) QueryGames(gameID, state string) ([]GameRecord, error) {
	query := `SELECT
		game_id, initial_placement, initial_turn, state, start_time_utc
	FROM games WHERE 1=1`

	var args []any

	if gameID != "" && gameID != "*" {
		query += " AND game_id = ?"
		args = append(args, gameID)
	}

	if state != "" && state != "*" {
		query += " AND state = ?"
		args = append(args, state)
	}

	query += " ORDER BY start_time_utc DESC"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var games []GameRecord
	for rows.Next() {
		var g GameRecord
		err := rows.Scan(&g.GameID, &g.InitialPlacement, &g.InitialTurn, &g.State, &g.StartTimeUTC)
		if err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		games = append(games, g)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}

	return games, nil
}

// QueryMoves retrieves the recorded moves of one game in move order
func (s *Store) QueryMoves(gameID string) ([]MoveRecord, error) {
	rows, err := s.db.Query(`SELECT
		move_id, game_id, move_number, command, status, placement_after, player_color, move_time_utc
	FROM moves WHERE game_id = ? ORDER BY move_number`, gameID)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var moves []MoveRecord
	for rows.Next() {
		var m MoveRecord
		err := rows.Scan(
			&m.MoveID, &m.GameID, &m.MoveNumber, &m.Command, &m.Status,
			&m.PlacementAfter, &m.PlayerColor, &m.MoveTimeUTC,
		)
		if err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		moves = append(moves, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}

	return moves, nil
}
