// Package core provides the grid and cluster engine for the Balls puzzle.
// This package is UI-agnostic and deterministic: randomness is drawn once,
// at construction, from an injected source.
package core

import "errors"

// DefaultPaletteSize is the canonical number of ball colors.
const DefaultPaletteSize = 4

// MinCluster is the smallest cluster that can be removed.
const MinCluster = 2

// ErrConfiguration reports a caller contract violation: bad dimensions,
// stale coordinates, or a call made after the game ended.
var ErrConfiguration = errors.New("configuration error")

// Color is an index into the palette.
type Color uint8

// Tile is a single ball on the grid.
type Tile struct {
	Color Color
}

// Source is the randomness used to color a new grid.
// *rand.Rand satisfies it.
type Source interface {
	Intn(n int) int
}

// State is the engine lifecycle state.
type State uint8

const (
	StatePlaying State = iota
	StateWon
	StateLost
)

// String returns the string representation of a state.
func (s State) String() string {
	switch s {
	case StatePlaying:
		return "playing"
	case StateWon:
		return "won"
	case StateLost:
		return "lost"
	default:
		return "unknown"
	}
}

// Ended reports whether s is terminal.
func (s State) Ended() bool {
	return s == StateWon || s == StateLost
}

// Outcome is how a removal ended the game, if it did.
type Outcome uint8

const (
	OutcomeNone Outcome = iota
	OutcomeWin
	OutcomeLoss
)

// String returns the string representation of an outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeNone:
		return "none"
	case OutcomeWin:
		return "win"
	case OutcomeLoss:
		return "loss"
	default:
		return "unknown"
	}
}

// RemovalResult describes what a RemoveAt call changed.
type RemovalResult struct {
	Removed    Cluster // Coordinates removed, in removal order; empty for a no-op
	ScoreDelta int     // Points gained by this removal
	TotalScore int     // Running score after this removal
	Outcome    Outcome // Set when this removal ended the game
}

// Changed returns true if any tiles were removed.
func (r RemovalResult) Changed() bool {
	return len(r.Removed) > 0
}
