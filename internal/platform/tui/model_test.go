package tui

import (
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-balls/internal/config"
	"github.com/vovakirdan/tui-balls/internal/core"
	"github.com/vovakirdan/tui-balls/internal/games/balls"
	"github.com/vovakirdan/tui-balls/internal/registry"
	"github.com/vovakirdan/tui-balls/internal/storage"
)

// setup makes balls_small a 2x1 board of one color and opens a
// temporary score database.
func setup(t *testing.T) *storage.Store {
	t.Helper()

	cfg := config.DefaultBallsConfig()
	cfg.Presets[config.PresetSmall] = config.BallsPreset{Width: 2, Height: 1, Colors: 1}
	config.SetActive(cfg)
	t.Cleanup(func() { config.SetActive(config.DefaultBallsConfig()) })

	store, err := storage.Open(filepath.Join(t.TempDir(), "scores.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func newTestModel(t *testing.T, store *storage.Store) (Model, *balls.Game) {
	t.Helper()
	g, err := registry.Create("balls_small")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	m := NewModel(g, store, core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 30, Seed: 1})
	m.Init()
	return m, g.(*balls.Game)
}

func send(m Model, msgs ...tea.Msg) Model {
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func TestModelWinSavesOnce(t *testing.T) {
	store := setup(t)
	m, _ := newTestModel(t, store)

	m = send(m, tea.KeyMsg{Type: tea.KeyEnter}, TickMsg{})
	if !m.gameState.GameOver || !m.gameState.Won || m.gameState.Score != 2 {
		t.Fatalf("state = %+v, expected a win with 2", m.gameState)
	}
	if m.Best() != 2 {
		t.Errorf("Best() = %d, expected 2", m.Best())
	}

	// Later ticks must not save again.
	m = send(m, TickMsg{}, TickMsg{})

	if best, ok, err := store.ReadBest("balls_small"); err != nil || !ok || best != 2 {
		t.Errorf("ReadBest() = %d, %v, %v", best, ok, err)
	}
	scores, err := store.TopScores("balls_small", 0)
	if err != nil || len(scores) != 1 || scores[0].Score != 2 {
		t.Errorf("TopScores() = %+v, %v, expected one score of 2", scores, err)
	}
	records, err := store.RecentGameRecords("balls_small", 10)
	if err != nil || len(records) != 1 {
		t.Fatalf("RecentGameRecords() = %+v, %v, expected one record", records, err)
	}
	if records[0].Outcome != "win" || len(records[0].Moves) != 1 {
		t.Errorf("record = %+v", records[0])
	}
}

func TestModelReadsBest(t *testing.T) {
	store := setup(t)
	if err := store.WriteBest("balls_small", 50); err != nil {
		t.Fatal(err)
	}

	m, g := newTestModel(t, store)
	if m.Best() != 50 || g.Best() != 50 {
		t.Errorf("best = %d / %d, expected 50", m.Best(), g.Best())
	}

	// A lower score leaves the stored best alone.
	send(m, tea.KeyMsg{Type: tea.KeyEnter}, TickMsg{})
	if best, _, _ := store.ReadBest("balls_small"); best != 50 {
		t.Errorf("stored best = %d, expected 50", best)
	}
}

func TestModelRestart(t *testing.T) {
	store := setup(t)
	m, g := newTestModel(t, store)

	m = send(m, tea.KeyMsg{Type: tea.KeyEnter}, TickMsg{})
	m = send(m, runeKey("r"), TickMsg{})
	if m.gameState.GameOver || m.gameState.Score != 0 || m.finished {
		t.Errorf("state after restart = %+v, finished %v", m.gameState, m.finished)
	}
	if g.Best() != 2 {
		t.Errorf("game best after restart = %d, expected 2", g.Best())
	}

	m = send(m, tea.KeyMsg{Type: tea.KeyEnter}, TickMsg{})
	if scores, _ := store.TopScores("balls_small", 0); len(scores) != 2 {
		t.Errorf("scores after second win = %d, expected 2", len(scores))
	}
}

func TestModelMouseClick(t *testing.T) {
	store := setup(t)
	m, _ := newTestModel(t, store)

	// Find the screen position of ball (1, 0) by scanning the render.
	screen := core.NewScreen(80, 24)
	m.game.Render(screen)
	x, y := -1, -1
	for sy := 0; sy < screen.Height() && x < 0; sy++ {
		row := []rune(screen.Row(sy))
		for sx, r := range row {
			if r == '●' || r == '◉' || r == '◎' {
				x, y = sx, sy // keep the last ball on the row
			}
		}
	}
	if x < 0 {
		t.Fatal("no ball rendered")
	}

	m = send(m, tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}, TickMsg{})
	if !m.gameState.Won {
		t.Errorf("click did not clear the board: %+v", m.gameState)
	}
}

func TestModelResizeKeepsBoard(t *testing.T) {
	store := setup(t)
	m, g := newTestModel(t, store)
	e := g.Engine()

	m = send(m, tea.WindowSizeMsg{Width: 100, Height: 40})
	if g.Engine() != e {
		t.Error("resize replaced the board")
	}
	if m.screen.Width() != 100 || m.screen.Height() != 40 {
		t.Errorf("screen = %dx%d, expected 100x40", m.screen.Width(), m.screen.Height())
	}
}

func TestModelBackAndQuit(t *testing.T) {
	store := setup(t)
	m, _ := newTestModel(t, store)

	m = send(m, runeKey("b"))
	if m.BackToMenu() {
		t.Error("back without a menu should be ignored")
	}

	m.allowBack = true
	m = send(m, runeKey("b"))
	if m.BackToMenu() {
		t.Error("back while playing should be ignored")
	}
	m = send(m, runeKey("p"), TickMsg{}, runeKey("b"))
	if !m.BackToMenu() {
		t.Error("back while paused should return to menu")
	}
	if m.View() != "" {
		t.Error("View() should be empty after leaving")
	}

	m, _ = newTestModel(t, store)
	m = send(m, runeKey("q"))
	if !m.IsQuitting() {
		t.Error("q should quit")
	}
}

func TestModelView(t *testing.T) {
	store := setup(t)
	m, _ := newTestModel(t, store)
	m = send(m, TickMsg{})

	view := m.View()
	if !strings.Contains(view, "Score") || !strings.ContainsAny(view, "●◉◎") {
		t.Errorf("View() missing HUD or balls")
	}
}

func TestModelReportsStorageErrors(t *testing.T) {
	store := setup(t)
	m, _ := newTestModel(t, store)
	if m.Err() != nil {
		t.Fatalf("Err() = %v before any failure", m.Err())
	}

	store.Close()
	m = send(m, tea.KeyMsg{Type: tea.KeyEnter}, TickMsg{})
	if !m.gameState.Won {
		t.Fatalf("state = %+v, expected a win", m.gameState)
	}
	if m.Err() == nil {
		t.Error("writes to a closed store should be reported")
	}
}

func TestNewModelDealsBoard(t *testing.T) {
	store := setup(t)
	g, err := registry.Create("balls_small")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	m := NewModel(g, store, core.RuntimeConfig{ScreenW: 80, ScreenH: 24, Seed: 1})
	if g.(*balls.Game).Engine() == nil {
		t.Fatal("board should be dealt before Init")
	}
	if m.startedAt.IsZero() || m.gameState.GameOver || m.finished {
		t.Errorf("fresh model = started %v, state %+v, finished %v", m.startedAt, m.gameState, m.finished)
	}
}
