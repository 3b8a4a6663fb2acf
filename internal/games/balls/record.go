package balls

import (
	"fmt"
	"time"

	bcore "github.com/vovakirdan/tui-balls/internal/games/balls/core"
	"github.com/vovakirdan/tui-balls/internal/storage"
)

// Record describes a game well enough to store and replay it.
type Record struct {
	GameID  string
	Seed    int64
	Width   int
	Height  int
	Colors  int
	Layout  [][]bcore.Color
	Moves   []bcore.Coord
	Score   int
	Outcome string // "win", "loss", or "" while playing
}

// NewRecord captures an engine's starting layout and move log.
func NewRecord(gameID string, seed int64, e *bcore.Engine) Record {
	layout := e.Layout()
	width := 0
	for _, row := range layout {
		width = max(width, len(row))
	}
	return Record{
		GameID:  gameID,
		Seed:    seed,
		Width:   width,
		Height:  len(layout),
		Colors:  e.PaletteSize(),
		Layout:  layout,
		Moves:   e.Moves(),
		Score:   e.Score(),
		Outcome: outcomeOf(e.State()),
	}
}

func outcomeOf(s bcore.State) string {
	switch s {
	case bcore.StateWon:
		return bcore.OutcomeWin.String()
	case bcore.StateLost:
		return bcore.OutcomeLoss.String()
	default:
		return ""
	}
}

// Record returns the game's record so far.
func (g *Game) Record() Record {
	return NewRecord(g.ID(), g.seed, g.engine)
}

// StorageRecord returns the game's record ready to persist, with the
// time it took to play.
func (g *Game) StorageRecord(d time.Duration) storage.GameRecord {
	return g.Record().Storage(d)
}

// Storage converts the record for persistence.
func (r Record) Storage(d time.Duration) storage.GameRecord {
	layout := make([][]int, len(r.Layout))
	for y, row := range r.Layout {
		layout[y] = make([]int, len(row))
		for x, c := range row {
			layout[y][x] = int(c)
		}
	}
	moves := make([][2]int, len(r.Moves))
	for i, m := range r.Moves {
		moves[i] = [2]int{m.X, m.Y}
	}
	return storage.GameRecord{
		GameID:   r.GameID,
		Seed:     r.Seed,
		Width:    r.Width,
		Height:   r.Height,
		Colors:   r.Colors,
		Layout:   layout,
		Moves:    moves,
		Score:    r.Score,
		Outcome:  r.Outcome,
		Duration: int(d.Seconds()),
	}
}

// RecordFromStorage converts a stored record back.
func RecordFromStorage(sr storage.GameRecord) (Record, error) {
	layout := make([][]bcore.Color, len(sr.Layout))
	for y, row := range sr.Layout {
		layout[y] = make([]bcore.Color, len(row))
		for x, c := range row {
			if c < 0 || c >= sr.Colors {
				return Record{}, fmt.Errorf("balls: record %d: color %d at (%d, %d) outside palette of %d", sr.ID, c, x, y, sr.Colors)
			}
			layout[y][x] = bcore.Color(c)
		}
	}
	moves := make([]bcore.Coord, len(sr.Moves))
	for i, m := range sr.Moves {
		moves[i] = bcore.C(m[0], m[1])
	}
	return Record{
		GameID:  sr.GameID,
		Seed:    sr.Seed,
		Width:   sr.Width,
		Height:  sr.Height,
		Colors:  sr.Colors,
		Layout:  layout,
		Moves:   moves,
		Score:   sr.Score,
		Outcome: sr.Outcome,
	}, nil
}

// Replay rebuilds the recorded game and checks it reaches the recorded score.
func (r Record) Replay() (*bcore.Engine, error) {
	e, err := bcore.Replay(r.Layout, r.Colors, r.Moves)
	if err != nil {
		return nil, err
	}
	if e.Score() != r.Score {
		return e, fmt.Errorf("balls: replay scored %d, record says %d", e.Score(), r.Score)
	}
	return e, nil
}
