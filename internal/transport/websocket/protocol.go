package websocket

import (
	bcore "github.com/vovakirdan/tui-balls/internal/games/balls/core"
	"github.com/vovakirdan/tui-balls/internal/session"
)

// Client actions.
const (
	ActionState   = "state"
	ActionCluster = "cluster"
	ActionRemove  = "remove"
	ActionNew     = "new"
)

// Server events.
const (
	EventState   = "state"
	EventCluster = "cluster"
	EventRemoved = "removed"
	EventError   = "error"
)

// Request is a message from a client.
type Request struct {
	Action  string `json:"action"`
	X       int    `json:"x"`
	Y       int    `json:"y"`
	Variant string `json:"variant,omitempty"`
	Seed    int64  `json:"seed,omitempty"`
}

// Message is sent to clients.
type Message struct {
	Event     string        `json:"event"`
	SessionID string        `json:"session_id,omitempty"`
	View      *session.View `json:"view,omitempty"`
	Result    *Removal      `json:"result,omitempty"`
	Error     string        `json:"error,omitempty"`
}

// Removal is the JSON form of a removal result.
type Removal struct {
	Removed    [][2]int `json:"removed"`
	ScoreDelta int      `json:"score_delta"`
	TotalScore int      `json:"total_score"`
	Outcome    string   `json:"outcome"`
}

// NewRemoval converts an engine result.
func NewRemoval(r bcore.RemovalResult) *Removal {
	removed := make([][2]int, len(r.Removed))
	for i, c := range r.Removed {
		removed[i] = [2]int{c.X, c.Y}
	}
	return &Removal{
		Removed:    removed,
		ScoreDelta: r.ScoreDelta,
		TotalScore: r.TotalScore,
		Outcome:    r.Outcome.String(),
	}
}
