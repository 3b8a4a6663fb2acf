package storage

import (
	"errors"
	"testing"
)

func sampleRecord(gameID string, score int) GameRecord {
	return GameRecord{
		GameID:   gameID,
		Seed:     7,
		Width:    3,
		Height:   2,
		Colors:   2,
		Layout:   [][]int{{0, 0, 1}, {1, 1, 0}},
		Moves:    [][2]int{{0, 0}, {0, 1}},
		Score:    score,
		Outcome:  "loss",
		Duration: 12,
	}
}

func TestGameRecordRoundTrip(t *testing.T) {
	store := openTestStore(t)

	want := sampleRecord("balls", 4)
	id, err := store.SaveGameRecord(want)
	if err != nil {
		t.Fatalf("SaveGameRecord() failed: %v", err)
	}

	got, err := store.GameRecordByID(id)
	if err != nil {
		t.Fatalf("GameRecordByID() failed: %v", err)
	}

	if got.ID != id || got.GameID != "balls" || got.Seed != 7 || got.Score != 4 || got.Outcome != "loss" {
		t.Errorf("GameRecordByID() = %+v", got)
	}
	if got.Width != 3 || got.Height != 2 || got.Colors != 2 || got.Duration != 12 {
		t.Errorf("dimensions = %dx%d/%d, duration %d", got.Width, got.Height, got.Colors, got.Duration)
	}
	if len(got.Layout) != 2 || got.Layout[0][2] != 1 || got.Layout[1][2] != 0 {
		t.Errorf("Layout = %v, expected %v", got.Layout, want.Layout)
	}
	if len(got.Moves) != 2 || got.Moves[1] != [2]int{0, 1} {
		t.Errorf("Moves = %v, expected %v", got.Moves, want.Moves)
	}
}

func TestGameRecordNotFound(t *testing.T) {
	store := openTestStore(t)

	if _, err := store.GameRecordByID(99); !errors.Is(err, ErrNotFound) {
		t.Errorf("GameRecordByID(99) = %v, expected ErrNotFound", err)
	}
}

func TestGameRecordWithoutMoves(t *testing.T) {
	store := openTestStore(t)

	r := sampleRecord("balls", 0)
	r.Moves = nil
	id, err := store.SaveGameRecord(r)
	if err != nil {
		t.Fatalf("SaveGameRecord() failed: %v", err)
	}
	got, err := store.GameRecordByID(id)
	if err != nil {
		t.Fatalf("GameRecordByID() failed: %v", err)
	}
	if len(got.Moves) != 0 {
		t.Errorf("Moves = %v, expected none", got.Moves)
	}
}

func TestRecentGameRecords(t *testing.T) {
	store := openTestStore(t)

	for i, id := range []string{"balls", "balls_small", "balls", "balls"} {
		if _, err := store.SaveGameRecord(sampleRecord(id, i)); err != nil {
			t.Fatalf("SaveGameRecord() failed: %v", err)
		}
	}

	all, err := store.RecentGameRecords("", 10)
	if err != nil {
		t.Fatalf("RecentGameRecords() failed: %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("Expected 4 records, got %d", len(all))
	}
	if all[0].Score != 3 {
		t.Errorf("newest record first: got score %d, expected 3", all[0].Score)
	}

	classic, err := store.RecentGameRecords("balls", 2)
	if err != nil {
		t.Fatalf("RecentGameRecords() failed: %v", err)
	}
	if len(classic) != 2 {
		t.Fatalf("Expected 2 records with limit, got %d", len(classic))
	}
	for _, r := range classic {
		if r.GameID != "balls" {
			t.Errorf("filter leaked %q", r.GameID)
		}
	}
}
