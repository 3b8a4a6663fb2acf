package storage

import (
	"database/sql"
	"fmt"
	"time"
)

// ScoreEntry is the final score of one game.
type ScoreEntry struct {
	ID        int64
	GameID    string
	Score     int
	CreatedAt time.Time
}

// SaveScore records the final score of a game and returns its ID.
func (s *Store) SaveScore(gameID string, score int) (int64, error) {
	if score < 0 {
		return 0, fmt.Errorf("storage: negative score %d", score)
	}
	res, err := s.db.Exec(`INSERT INTO scores (game_id, score) VALUES (?, ?)`, gameID, score)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save score: %w", err)
	}
	return insertedID(res)
}

// TopScores returns up to limit scores for a game, highest first.
// Equal scores rank in the order they were set. limit <= 0 means 10.
func (s *Store) TopScores(gameID string, limit int) ([]ScoreEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.Query(
		`SELECT id, game_id, score, created_at FROM scores
		 WHERE game_id = ?
		 ORDER BY score DESC, id ASC
		 LIMIT ?`,
		gameID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query scores: %w", err)
	}
	defer rows.Close()

	var out []ScoreEntry
	for rows.Next() {
		var e ScoreEntry
		var createdAt any
		if err := rows.Scan(&e.ID, &e.GameID, &e.Score, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan score: %w", err)
		}
		e.CreatedAt = parseTime(createdAt)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: cannot read scores: %w", err)
	}
	return out, nil
}

// HighScore returns the highest saved score for a game, 0 when none.
// Unlike ReadBest it only sees finished games.
func (s *Store) HighScore(gameID string) (int, error) {
	var high int
	err := s.db.QueryRow(
		`SELECT COALESCE(MAX(score), 0) FROM scores WHERE game_id = ?`, gameID,
	).Scan(&high)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot query high score: %w", err)
	}
	return high, nil
}

// ClearScores forgets a game's history: scores, best and recorded games.
func (s *Store) ClearScores(gameID string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("storage: cannot clear scores: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"scores", "best_scores", "game_records"} {
		if _, err := tx.Exec(`DELETE FROM `+table+` WHERE game_id = ?`, gameID); err != nil {
			return fmt.Errorf("storage: cannot clear %s: %w", table, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: cannot clear scores: %w", err)
	}
	return nil
}

// GameStats aggregates the saved history of one game.
type GameStats struct {
	GameID     string
	GamesCount int // saved scores
	HighScore  int
	AvgScore   float64
	Wins       int // recorded games that cleared the board
	Losses     int // recorded games that ran out of moves
	LastPlayed time.Time
}

// GetGameStats aggregates the scores and records of one game. A game with
// no history yields zero stats, not an error.
func (s *Store) GetGameStats(gameID string) (*GameStats, error) {
	all, err := s.gameStats(gameID)
	if err != nil {
		return nil, err
	}
	if st, ok := all[gameID]; ok {
		return st, nil
	}
	return &GameStats{GameID: gameID}, nil
}

// GetAllGamesStats returns stats for every game with saved history.
func (s *Store) GetAllGamesStats() (map[string]*GameStats, error) {
	return s.gameStats("")
}

// gameStats aggregates one game, or every game when gameID is empty.
func (s *Store) gameStats(gameID string) (map[string]*GameStats, error) {
	stats := make(map[string]*GameStats)
	get := func(id string) *GameStats {
		st, ok := stats[id]
		if !ok {
			st = &GameStats{GameID: id}
			stats[id] = st
		}
		return st
	}

	rows, err := s.db.Query(
		`SELECT game_id, COUNT(*), MAX(score), AVG(score), MAX(created_at)
		 FROM scores
		 WHERE ? = '' OR game_id = ?
		 GROUP BY game_id`,
		gameID, gameID,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query stats: %w", err)
	}
	for rows.Next() {
		var id string
		var count, high int
		var avg float64
		var last any
		if err := rows.Scan(&id, &count, &high, &avg, &last); err != nil {
			rows.Close()
			return nil, fmt.Errorf("storage: cannot scan stats: %w", err)
		}
		st := get(id)
		st.GamesCount, st.HighScore, st.AvgScore = count, high, avg
		st.LastPlayed = parseTime(last)
	}
	if err := closeRows(rows); err != nil {
		return nil, err
	}

	rows, err = s.db.Query(
		`SELECT game_id, outcome, COUNT(*)
		 FROM game_records
		 WHERE ? = '' OR game_id = ?
		 GROUP BY game_id, outcome`,
		gameID, gameID,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query outcomes: %w", err)
	}
	for rows.Next() {
		var id, outcome string
		var n int
		if err := rows.Scan(&id, &outcome, &n); err != nil {
			rows.Close()
			return nil, fmt.Errorf("storage: cannot scan outcomes: %w", err)
		}
		switch outcome {
		case "win":
			get(id).Wins = n
		case "loss":
			get(id).Losses = n
		}
	}
	if err := closeRows(rows); err != nil {
		return nil, err
	}
	return stats, nil
}

func closeRows(rows *sql.Rows) error {
	err := rows.Err()
	rows.Close()
	if err != nil {
		return fmt.Errorf("storage: cannot read stats: %w", err)
	}
	return nil
}
