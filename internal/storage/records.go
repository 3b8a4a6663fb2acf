package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// GameRecord is a finished game: the starting layout and the removals
// made, enough to replay it.
type GameRecord struct {
	ID        int64
	GameID    string
	Seed      int64
	Width     int
	Height    int
	Colors    int
	Layout    [][]int  // color index per cell, row by row
	Moves     [][2]int // removal origins as (x, y)
	Score     int
	Outcome   string // "win" or "loss"
	Duration  int    // Duration in seconds
	CreatedAt time.Time
}

// SaveGameRecord stores a finished game.
// Returns the ID of the inserted record.
func (s *Store) SaveGameRecord(r GameRecord) (int64, error) {
	layout, err := json.Marshal(r.Layout)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot encode layout: %w", err)
	}
	moves := r.Moves
	if moves == nil {
		moves = [][2]int{}
	}
	movesJSON, err := json.Marshal(moves)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot encode moves: %w", err)
	}

	res, err := s.db.Exec(
		`INSERT INTO game_records
		 (game_id, seed, width, height, colors, layout, moves, score, outcome, duration_secs)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.GameID, r.Seed, r.Width, r.Height, r.Colors,
		string(layout), string(movesJSON), r.Score, r.Outcome, r.Duration,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save game record: %w", err)
	}

	return insertedID(res)
}

const recordColumns = `id, game_id, seed, width, height, colors, layout, moves,
		score, outcome, duration_secs, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (GameRecord, error) {
	var r GameRecord
	var layout, moves string
	var createdAt any

	if err := row.Scan(
		&r.ID, &r.GameID, &r.Seed, &r.Width, &r.Height, &r.Colors,
		&layout, &moves, &r.Score, &r.Outcome, &r.Duration, &createdAt,
	); err != nil {
		return r, err
	}
	if err := json.Unmarshal([]byte(layout), &r.Layout); err != nil {
		return r, fmt.Errorf("storage: record %d: bad layout: %w", r.ID, err)
	}
	if err := json.Unmarshal([]byte(moves), &r.Moves); err != nil {
		return r, fmt.Errorf("storage: record %d: bad moves: %w", r.ID, err)
	}
	r.CreatedAt = parseTime(createdAt)
	return r, nil
}

// GameRecordByID retrieves a game record. Returns ErrNotFound if absent.
func (s *Store) GameRecordByID(id int64) (GameRecord, error) {
	row := s.db.QueryRow(
		`SELECT `+recordColumns+` FROM game_records WHERE id = ?`,
		id,
	)
	r, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return r, fmt.Errorf("storage: game record %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return r, fmt.Errorf("storage: cannot query game record: %w", err)
	}
	return r, nil
}

// RecentGameRecords retrieves the most recent records, optionally
// filtered by game ID (empty means all games).
func (s *Store) RecentGameRecords(gameID string, limit int) ([]GameRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT `+recordColumns+`
		 FROM game_records
		 WHERE ? = '' OR game_id = ?
		 ORDER BY id DESC
		 LIMIT ?`,
		gameID, gameID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query game records: %w", err)
	}
	defer rows.Close()

	var records []GameRecord
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return records, nil
}
