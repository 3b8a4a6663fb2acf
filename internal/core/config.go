package core

import "time"

// Tick rate bounds, in frames per second.
const (
	DefaultTickRate = 30
	MaxTickRate     = 120
)

// RuntimeConfig is what the platform hands a game when it starts one.
type RuntimeConfig struct {
	ScreenW  int
	ScreenH  int
	TickRate int   // frames per second
	Seed     int64 // 0 lets the platform pick one from the clock
}

// DefaultConfig sizes a game for a classic 80x24 terminal.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: DefaultTickRate}
}

// Normalized replaces an unset screen size with the defaults and keeps
// the tick rate within 1..MaxTickRate.
func (c RuntimeConfig) Normalized() RuntimeConfig {
	def := DefaultConfig()
	if c.ScreenW <= 0 || c.ScreenH <= 0 {
		c.ScreenW, c.ScreenH = def.ScreenW, def.ScreenH
	}
	if c.TickRate <= 0 {
		c.TickRate = def.TickRate
	}
	c.TickRate = min(c.TickRate, MaxTickRate)
	return c
}

// TickInterval is the time between frames.
func (c RuntimeConfig) TickInterval() time.Duration {
	return time.Second / time.Duration(c.Normalized().TickRate)
}

// GameState is the status a game reports to the platform.
type GameState struct {
	Score    int
	GameOver bool
	Won      bool // the board was cleared
	Paused   bool
}

// StepResult is what a game returns from one frame.
type StepResult struct {
	State GameState
}
