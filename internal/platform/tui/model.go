package tui

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-balls/internal/core"
	"github.com/vovakirdan/tui-balls/internal/registry"
	"github.com/vovakirdan/tui-balls/internal/storage"
)

// recordable is implemented by games that can describe a finished game
// for the records table.
type recordable interface {
	StorageRecord(d time.Duration) storage.GameRecord
}

// Model runs one registered game inside a Bubble Tea program.
type Model struct {
	game       registry.Game
	screen     *core.Screen
	store      *storage.Store
	config     core.RuntimeConfig
	keyMapper  *KeyMapper
	inputFrame core.InputFrame
	gameState  core.GameState
	best       int
	startedAt  time.Time
	allowBack  bool // B/Esc returns to a menu
	quitting   bool
	backToMenu bool
	finished   bool  // score and record saved for the current game
	saveErr    error // first storage failure, reported when the program exits
}

// NewModel loads the stored best score and deals the first board.
func NewModel(game registry.Game, store *storage.Store, cfg core.RuntimeConfig) Model {
	cfg = cfg.Normalized()
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	m := Model{
		game:      game,
		screen:    core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		store:     store,
		config:    cfg,
		keyMapper: NewKeyMapper(),
	}
	if store != nil {
		best, _, err := store.ReadBest(game.ID())
		m.best = best
		m.noteErr(err)
	}
	m.newRound()
	return m
}

// Init starts the frame loop.
func (m Model) Init() tea.Cmd {
	if registry.AcceptsPointer(m.game) {
		return tea.Batch(m.nextFrame(), tea.EnableMouseAllMotion)
	}
	return m.nextFrame()
}

// newRound resets the game with the current config and best score.
func (m *Model) newRound() {
	m.game.Reset(m.config)
	if b, ok := m.game.(registry.BestAware); ok {
		b.SetBest(m.best)
	}
	m.gameState = m.game.State()
	m.finished = false
	m.startedAt = time.Now()
}

func (m Model) nextFrame() tea.Cmd {
	return tickCmd(m.config.TickInterval())
}

func (m *Model) noteErr(err error) {
	if err != nil && m.saveErr == nil {
		m.saveErr = err
	}
}

// Update routes input into the pending frame and advances on ticks.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		m.keyMapper.MapMouseToFrame(msg, &m.inputFrame)
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
	case TickMsg:
		return m.frame()
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+s" {
		m.noteErr(m.saveScreenshot())
		return m, nil
	}

	if m.keyMapper.MapKeyToFrame(msg, &m.inputFrame) {
		m.quitting = true
		return m, tea.Quit
	}

	// Leaving mid-game would lose the board, so only finished or
	// paused games go back.
	idle := m.gameState.GameOver || m.gameState.Paused
	if m.allowBack && idle && m.inputFrame.Has(core.ActionBack) {
		m.backToMenu = true
		return m, tea.DisableMouse
	}
	return m, nil
}

// resize keeps the board when the game can relayout, otherwise deals a
// new one unless the current game is already over.
func (m *Model) resize(w, h int) {
	m.config.ScreenW, m.config.ScreenH = w, h
	m.screen.Resize(w, h)

	switch r, ok := m.game.(registry.Resizable); {
	case ok:
		r.Resize(w, h)
	case !m.gameState.GameOver:
		m.newRound()
	}
}

// frame feeds the collected input to the game, then persists any new
// best score and the finished game.
func (m Model) frame() (tea.Model, tea.Cmd) {
	if m.inputFrame.Has(core.ActionRestart) {
		m.config.Seed = time.Now().UnixNano()
		m.newRound()
		m.inputFrame.Clear()
		return m, m.nextFrame()
	}

	m.gameState = m.game.Step(m.inputFrame).State

	if m.gameState.Score > m.best {
		m.best = m.gameState.Score
		if m.store != nil {
			m.noteErr(m.store.WriteBest(m.game.ID(), m.best))
		}
	}

	if m.gameState.GameOver && !m.finished {
		m.finished = true
		m.noteErr(m.saveFinished())
	}

	m.inputFrame.Clear()
	return m, m.nextFrame()
}

// saveFinished stores the final score and, for games that can describe
// themselves, the full record.
func (m Model) saveFinished() error {
	if m.store == nil {
		return nil
	}
	var errs []error
	if m.gameState.Score > 0 {
		_, err := m.store.SaveScore(m.game.ID(), m.gameState.Score)
		errs = append(errs, err)
	}
	if r, ok := m.game.(recordable); ok {
		_, err := m.store.SaveGameRecord(r.StorageRecord(time.Since(m.startedAt)))
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// saveScreenshot writes the current frame as text under
// ~/.balls/screenshots.
func (m *Model) saveScreenshot() error {
	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("screenshot: %w", err)
	}
	dir := filepath.Join(home, ".balls", "screenshots")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("screenshot: %w", err)
	}

	m.screen.Clear()
	m.game.Render(m.screen)
	name := fmt.Sprintf("%s_%s.txt", m.game.ID(), time.Now().Format("20060102_150405"))
	return os.WriteFile(filepath.Join(dir, name), []byte(m.screen.String()), 0o600)
}

// View draws the game into the screen buffer and renders it.
func (m Model) View() string {
	if m.quitting || m.backToMenu {
		return ""
	}
	m.screen.Clear()
	m.game.Render(m.screen)
	return RenderScreen(m.screen)
}

// IsQuitting reports whether the player asked to quit entirely.
func (m Model) IsQuitting() bool { return m.quitting }

// BackToMenu reports whether the player asked for the menu.
func (m Model) BackToMenu() bool { return m.backToMenu }

// Best is the best score known to the model.
func (m Model) Best() int { return m.best }

// Err returns the first storage or screenshot failure, if any.
func (m Model) Err() error { return m.saveErr }

// Run plays game in the alternate screen until the player leaves.
// Storage failures don't interrupt play and are returned afterwards.
func Run(game registry.Game, store *storage.Store, cfg core.RuntimeConfig) error {
	final, err := tea.NewProgram(NewModel(game, store, cfg), tea.WithAltScreen()).Run()
	if err != nil {
		return err
	}
	if m, ok := final.(Model); ok && m.Err() != nil {
		return fmt.Errorf("scores not saved: %w", m.Err())
	}
	return nil
}
