package session

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/vovakirdan/tui-balls/internal/games/balls"
	bcore "github.com/vovakirdan/tui-balls/internal/games/balls/core"
)

// Session is one client's game. All methods are safe for concurrent use.
type Session struct {
	ID        string
	GameID    string
	Seed      int64
	CreatedAt time.Time

	mu           sync.Mutex
	engine       *bcore.Engine
	palette      []string
	best         int
	lastAccessed time.Time
	finished     bool
	mgr          *Manager
}

func (s *Session) touch() {
	s.lastAccessed = s.mgr.now()
}

// LastAccessed returns the time of the last call on the session.
func (s *Session) LastAccessed() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastAccessed
}

// ClusterAt returns the cluster containing (x, y).
func (s *Session) ClusterAt(x, y int) (bcore.Cluster, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	return s.engine.ClusterAt(x, y)
}

// RemoveAt removes the cluster containing (x, y). A new best score is
// written through immediately; a finished game is recorded once.
func (s *Session) RemoveAt(x, y int) (bcore.RemovalResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	res, err := s.engine.RemoveAt(x, y)
	if err != nil || !res.Changed() {
		return res, err
	}

	if res.TotalScore > s.best {
		s.best = res.TotalScore
		s.mgr.writeBest(s.GameID, s.best)
	}
	if s.engine.Ended() && !s.finished {
		s.finished = true
		s.mgr.record(s, balls.NewRecord(s.GameID, s.Seed, s.engine))
	}
	return res, nil
}

// Clusters returns every removable cluster.
func (s *Session) Clusters() []bcore.Cluster {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	return s.engine.Clusters()
}

// Hint returns the largest removable cluster.
func (s *Session) Hint() (bcore.Cluster, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	return s.engine.Best()
}

// View returns a snapshot of the session.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	return s.view()
}

// Preview returns a snapshot with the cluster at (x, y) and its score.
func (s *Session) Preview(x, y int) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	c, err := s.engine.ClusterAt(x, y)
	if err != nil {
		return View{}, err
	}
	v := s.view()
	v.Preview = &Preview{X: x, Y: y, Cluster: coords(c), Score: bcore.PreviewScore(c)}
	return v, nil
}

func (s *Session) view() View {
	snap := s.engine.Snapshot()
	rows := make([][]int, len(snap))
	for y, row := range snap {
		rows[y] = make([]int, len(row))
		for x, c := range row {
			rows[y][x] = int(c)
		}
	}
	return View{
		ID:       s.ID,
		GameID:   s.GameID,
		Palette:  s.palette,
		Rows:     rows,
		Score:    s.engine.Score(),
		Best:     max(s.best, s.engine.Score()),
		State:    s.engine.State().String(),
		Tiles:    s.engine.Tiles(),
		Moves:    len(s.engine.Moves()),
		HasMoves: !s.engine.Ended() && s.engine.HasMoves(),
	}
}

// View is the JSON form of a session sent to network clients.
type View struct {
	ID       string   `json:"id"`
	GameID   string   `json:"game_id"`
	Palette  []string `json:"palette"`
	Rows     [][]int  `json:"rows"`
	Score    int      `json:"score"`
	Best     int      `json:"best"`
	State    string   `json:"state"`
	Tiles    int      `json:"tiles"`
	Moves    int      `json:"moves"`
	HasMoves bool     `json:"has_moves"`
	Preview  *Preview `json:"preview,omitempty"`
}

// Preview is the cluster under a coordinate.
type Preview struct {
	X       int      `json:"x"`
	Y       int      `json:"y"`
	Cluster [][2]int `json:"cluster"`
	Score   int      `json:"score"`
}

func coords(c bcore.Cluster) [][2]int {
	out := make([][2]int, len(c))
	for i, p := range c {
		out[i] = [2]int{p.X, p.Y}
	}
	return out
}

// Board renders the rows as text, one letter per ball taken from the
// palette name, with row and column indices.
func (v View) Board() string {
	var sb strings.Builder
	width := 0
	for _, row := range v.Rows {
		width = max(width, len(row))
	}

	sb.WriteString("    ")
	for x := 0; x < width; x++ {
		fmt.Fprintf(&sb, "%-3d", x)
	}
	sb.WriteString("\n")

	for y, row := range v.Rows {
		fmt.Fprintf(&sb, "%2d  ", y)
		for _, c := range row {
			sb.WriteString(v.letter(c))
			sb.WriteString("  ")
		}
		sb.WriteString("\n")
	}

	fmt.Fprintf(&sb, "score %d  best %d  tiles %d  state %s", v.Score, v.Best, v.Tiles, v.State)
	return sb.String()
}

func (v View) letter(c int) string {
	if c >= 0 && c < len(v.Palette) && v.Palette[c] != "" {
		return strings.ToUpper(v.Palette[c][:1])
	}
	return fmt.Sprint(c)
}
