package core

import "fmt"

// Replay rebuilds a game from its starting layout and the recorded
// removal origins. Every move must remove tiles.
func Replay(layout [][]Color, paletteSize int, moves []Coord) (*Engine, error) {
	e, err := NewEngineFromRows(layout, paletteSize)
	if err != nil {
		return nil, err
	}
	for i, m := range moves {
		res, err := e.RemoveAt(m.X, m.Y)
		if err != nil {
			return nil, fmt.Errorf("balls: replay move %d: %w", i, err)
		}
		if !res.Changed() {
			return nil, fmt.Errorf("balls: replay move %d at %v removed nothing: %w", i, m, ErrConfiguration)
		}
	}
	return e, nil
}
