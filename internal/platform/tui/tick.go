// Package tui runs games in a terminal with Bubble Tea, locally or over
// SSH with Wish. It owns the frame loop, maps keys and mouse events to
// actions, and keeps scores, best scores and game records in storage.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg advances the running game by one frame.
type TickMsg time.Time

func tickCmd(every time.Duration) tea.Cmd {
	return tea.Tick(every, func(t time.Time) tea.Msg { return TickMsg(t) })
}
