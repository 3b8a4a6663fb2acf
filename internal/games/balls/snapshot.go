package balls

import bcore "github.com/vovakirdan/tui-balls/internal/games/balls/core"

// Snapshot captures the complete game state for determinism testing.
type Snapshot struct {
	Tick   uint64
	Score  int
	State  string // "playing", "won", "lost", "paused"
	Rows   [][]bcore.Color
	Cursor bcore.Coord
	Moves  int
}

// Snapshot returns the current game snapshot for determinism verification.
func (g *Game) Snapshot() Snapshot {
	state := g.engine.State().String()
	if g.paused && !g.engine.Ended() {
		state = "paused"
	}
	return Snapshot{
		Tick:   g.tick,
		Score:  g.engine.Score(),
		State:  state,
		Rows:   g.engine.Snapshot(),
		Cursor: g.cursor,
		Moves:  len(g.engine.Moves()),
	}
}
