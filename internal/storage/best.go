package storage

import (
	"database/sql"
	"errors"
	"fmt"
)

// ReadBest returns the best score stored for a game.
// The boolean is false when nothing has been stored yet.
func (s *Store) ReadBest(gameID string) (int, bool, error) {
	var score int
	err := s.db.QueryRow(
		"SELECT score FROM best_scores WHERE game_id = ?",
		gameID,
	).Scan(&score)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("storage: cannot read best score: %w", err)
	}
	return score, true, nil
}

// WriteBest stores score as the best for a game unless a higher value is
// already stored.
func (s *Store) WriteBest(gameID string, score int) error {
	if score < 0 {
		return fmt.Errorf("storage: negative best score %d", score)
	}
	_, err := s.db.Exec(
		`INSERT INTO best_scores (game_id, score, updated_at)
		 VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(game_id) DO UPDATE
		 SET score = excluded.score, updated_at = excluded.updated_at
		 WHERE excluded.score > best_scores.score`,
		gameID, score,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot write best score: %w", err)
	}
	return nil
}

// BestCell is the single persisted best-score value of one game variant.
type BestCell struct {
	store  *Store
	gameID string
}

// Best returns the best-score cell for gameID.
func (s *Store) Best(gameID string) BestCell {
	return BestCell{store: s, gameID: gameID}
}

// Read returns the stored best score, false if absent.
func (c BestCell) Read() (int, bool, error) {
	return c.store.ReadBest(c.gameID)
}

// Write stores score if it beats the stored value.
func (c BestCell) Write(score int) error {
	return c.store.WriteBest(c.gameID, score)
}
