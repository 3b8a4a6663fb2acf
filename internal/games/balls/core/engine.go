package core

import "fmt"

// Engine owns one game of Balls: the grid, the running score and the
// lifecycle state. It performs no locking; callers serialize access.
type Engine struct {
	grid        Grid
	paletteSize int
	score       int
	state       State

	layout [][]Color // Initial layout, for records and replays
	moves  []Coord   // Origins of successful removals, in order
}

// NewEngine creates a height x width grid with each tile colored
// independently and uniformly from [0, paletteSize).
func NewEngine(width, height, paletteSize int, src Source) (*Engine, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("balls: grid size %dx%d must be positive: %w", width, height, ErrConfiguration)
	}
	if paletteSize <= 0 || paletteSize > 256 {
		return nil, fmt.Errorf("balls: palette size %d out of range: %w", paletteSize, ErrConfiguration)
	}
	if src == nil {
		return nil, fmt.Errorf("balls: nil random source: %w", ErrConfiguration)
	}

	e := &Engine{
		grid:        newRandomGrid(width, height, paletteSize, src),
		paletteSize: paletteSize,
	}
	e.layout = e.grid.colors()
	return e, nil
}

// NewEngineFromRows creates an engine from a fixed layout.
// Rows may differ in length but none may be empty.
func NewEngineFromRows(rows [][]Color, paletteSize int) (*Engine, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("balls: layout has no rows: %w", ErrConfiguration)
	}
	if paletteSize <= 0 || paletteSize > 256 {
		return nil, fmt.Errorf("balls: palette size %d out of range: %w", paletteSize, ErrConfiguration)
	}
	for y, row := range rows {
		if len(row) == 0 {
			return nil, fmt.Errorf("balls: layout row %d is empty: %w", y, ErrConfiguration)
		}
		for x, c := range row {
			if int(c) >= paletteSize {
				return nil, fmt.Errorf("balls: color %d at (%d,%d) outside palette of %d: %w",
					c, x, y, paletteSize, ErrConfiguration)
			}
		}
	}

	e := &Engine{
		grid:        newGridFromColors(rows),
		paletteSize: paletteSize,
	}
	e.layout = e.grid.colors()
	return e, nil
}

// checkCall validates a coordinate against the live grid and the state.
func (e *Engine) checkCall(op string, c Coord) error {
	if e.state.Ended() {
		return fmt.Errorf("balls: %s %v after game %s: %w", op, c, e.state, ErrConfiguration)
	}
	if !e.grid.InBounds(c) {
		return fmt.Errorf("balls: %s %v outside live grid: %w", op, c, ErrConfiguration)
	}
	return nil
}

// ClusterAt returns the connected same-colored group containing (x, y),
// the origin first. The grid is not modified.
func (e *Engine) ClusterAt(x, y int) (Cluster, error) {
	origin := C(x, y)
	if err := e.checkCall("cluster", origin); err != nil {
		return nil, err
	}
	return e.grid.flood(origin, e.grid.newVisited()), nil
}

// PreviewScore returns the points the cluster would earn if removed.
func (e *Engine) PreviewScore(c Cluster) int {
	return PreviewScore(c)
}

// RemoveAt removes the cluster containing (x, y) if it has at least two
// tiles, compacts the grid and checks for the end of the game.
// A singleton cluster is a no-op and returns an empty result.
func (e *Engine) RemoveAt(x, y int) (RemovalResult, error) {
	cluster, err := e.ClusterAt(x, y)
	if err != nil {
		return RemovalResult{}, err
	}
	if !cluster.Removable() {
		return RemovalResult{TotalScore: e.score}, nil
	}

	delta := PreviewScore(cluster)
	e.score += delta

	ordered := cluster.removalOrder()
	e.grid.remove(ordered)
	e.moves = append(e.moves, C(x, y))

	result := RemovalResult{
		Removed:    ordered,
		ScoreDelta: delta,
		TotalScore: e.score,
	}

	if !e.grid.hasPair() {
		if e.grid.Empty() {
			e.state = StateWon
			result.Outcome = OutcomeWin
		} else {
			e.state = StateLost
			result.Outcome = OutcomeLoss
		}
	}
	return result, nil
}

// HasMoves returns true if some cluster can still be removed.
func (e *Engine) HasMoves() bool {
	return e.grid.hasPair()
}

// Clusters returns every removable cluster once, ordered by the
// row-major position of each cluster's first tile.
func (e *Engine) Clusters() []Cluster {
	visited := e.grid.newVisited()
	var out []Cluster
	for y, row := range e.grid.rows {
		for x := range row {
			if visited[y][x] {
				continue
			}
			c := e.grid.flood(C(x, y), visited)
			if c.Removable() {
				out = append(out, c)
			}
		}
	}
	return out
}

// Best returns the largest removable cluster. Ties go to the cluster
// found first in row-major order.
func (e *Engine) Best() (Cluster, bool) {
	var best Cluster
	for _, c := range e.Clusters() {
		if len(c) > len(best) {
			best = c
		}
	}
	return best, best != nil
}

// Score returns the running score.
func (e *Engine) Score() int {
	return e.score
}

// State returns the lifecycle state.
func (e *Engine) State() State {
	return e.state
}

// Ended returns true once the game is won or lost.
func (e *Engine) Ended() bool {
	return e.state.Ended()
}

// PaletteSize returns the number of colors in play.
func (e *Engine) PaletteSize() int {
	return e.paletteSize
}

// Rows returns the number of live rows.
func (e *Engine) Rows() int {
	return e.grid.Rows()
}

// RowLen returns the length of row y, or 0 if it does not exist.
func (e *Engine) RowLen(y int) int {
	return e.grid.RowLen(y)
}

// InBounds returns true if (x, y) addresses a live tile.
func (e *Engine) InBounds(x, y int) bool {
	return e.grid.InBounds(C(x, y))
}

// ColorAt returns the color at (x, y) and whether the tile exists.
func (e *Engine) ColorAt(x, y int) (Color, bool) {
	c := C(x, y)
	if !e.grid.InBounds(c) {
		return 0, false
	}
	return e.grid.at(c).Color, true
}

// Tiles returns the number of tiles left.
func (e *Engine) Tiles() int {
	return e.grid.Tiles()
}

// Snapshot returns a deep copy of the live layout.
func (e *Engine) Snapshot() [][]Color {
	return e.grid.colors()
}

// Layout returns a copy of the layout the game started from.
func (e *Engine) Layout() [][]Color {
	out := make([][]Color, len(e.layout))
	for y, row := range e.layout {
		out[y] = append([]Color(nil), row...)
	}
	return out
}

// Moves returns the origins of all successful removals, in order.
func (e *Engine) Moves() []Coord {
	return append([]Coord(nil), e.moves...)
}
