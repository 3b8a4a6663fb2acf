package session

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/tui-balls/internal/config"
	"github.com/vovakirdan/tui-balls/internal/games/balls"
	bcore "github.com/vovakirdan/tui-balls/internal/games/balls/core"
	"github.com/vovakirdan/tui-balls/internal/logging"
	"github.com/vovakirdan/tui-balls/internal/storage"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrUnknownVariant  = errors.New("unknown variant")
)

// BestStore persists the best score of each variant.
type BestStore interface {
	ReadBest(gameID string) (int, bool, error)
	WriteBest(gameID string, score int) error
}

// Recorder stores finished games.
type Recorder interface {
	SaveScore(gameID string, score int) (int64, error)
	SaveGameRecord(r storage.GameRecord) (int64, error)
}

// Manager handles session lifecycle.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	cfg    config.BallsConfig
	best   BestStore
	rec    Recorder
	logger *log.Logger
	now    func() time.Time
}

// Option configures a Manager.
type Option func(*Manager)

// WithBestStore sets where best scores are read and written.
func WithBestStore(b BestStore) Option {
	return func(m *Manager) { m.best = b }
}

// WithRecorder sets where finished games are saved.
func WithRecorder(r Recorder) Option {
	return func(m *Manager) { m.rec = r }
}

// WithLogger replaces the default logger.
func WithLogger(l *log.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

// WithConfig replaces the active balls config.
func WithConfig(cfg config.BallsConfig) Option {
	return func(m *Manager) { m.cfg = cfg }
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// NewManager creates a session manager.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		sessions: make(map[string]*Session),
		cfg:      config.Active(),
		logger:   logging.New("session"),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Create starts a new game of the given variant. A zero seed picks one
// from the clock.
func (m *Manager) Create(variantID string, seed int64) (*Session, error) {
	v, ok := balls.VariantByID(variantID)
	if !ok {
		return nil, fmt.Errorf("session: %q: %w", variantID, ErrUnknownVariant)
	}
	p, err := m.cfg.Preset(v.Preset)
	if err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}
	if seed == 0 {
		seed = m.now().UnixNano()
	}

	engine, err := bcore.NewEngine(p.Width, p.Height, m.cfg.ColorsFor(p), rand.New(rand.NewSource(seed)))
	if err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}

	now := m.now()
	s := &Session{
		ID:           uuid.NewString(),
		GameID:       v.ID,
		Seed:         seed,
		CreatedAt:    now,
		engine:       engine,
		palette:      m.cfg.Palette,
		lastAccessed: now,
		mgr:          m,
	}
	s.best = m.readBest(v.ID)

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	m.logger.Debug("session created", "id", s.ID, "game", s.GameID, "seed", seed)
	return s, nil
}

// Get retrieves a session by ID.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("session: %q: %w", id, ErrSessionNotFound)
	}
	return s, nil
}

// Delete removes a session.
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[id]; !ok {
		return fmt.Errorf("session: %q: %w", id, ErrSessionNotFound)
	}
	delete(m.sessions, id)
	return nil
}

// List returns all sessions, oldest first.
func (m *Manager) List() []*Session {
	m.mu.RLock()
	result := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		result = append(result, s)
	}
	m.mu.RUnlock()

	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID < result[j].ID
		}
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result
}

// Count returns the number of sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Sweep deletes sessions idle for longer than maxIdle and returns how
// many were removed.
func (m *Manager) Sweep(maxIdle time.Duration) int {
	cutoff := m.now().Add(-maxIdle)

	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, s := range m.sessions {
		if s.LastAccessed().Before(cutoff) {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}

// RunSweeper calls Sweep every interval until ctx is done.
func (m *Manager) RunSweeper(ctx context.Context, interval, maxIdle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := m.Sweep(maxIdle); n > 0 {
				m.logger.Info("swept idle sessions", "count", n, "remaining", m.Count())
			}
		}
	}
}

func (m *Manager) readBest(gameID string) int {
	if m.best == nil {
		return 0
	}
	best, _, err := m.best.ReadBest(gameID)
	if err != nil {
		m.logger.Warn("could not read best score", "game", gameID, "error", err)
		return 0
	}
	return best
}

func (m *Manager) writeBest(gameID string, score int) {
	if m.best == nil {
		return
	}
	if err := m.best.WriteBest(gameID, score); err != nil {
		m.logger.Warn("could not write best score", "game", gameID, "error", err)
	}
}

func (m *Manager) record(s *Session, rec balls.Record) {
	if m.rec == nil {
		return
	}
	if _, err := m.rec.SaveScore(rec.GameID, rec.Score); err != nil {
		m.logger.Warn("could not save score", "session", s.ID, "error", err)
	}
	id, err := m.rec.SaveGameRecord(rec.Storage(m.now().Sub(s.CreatedAt)))
	if err != nil {
		m.logger.Warn("could not save game record", "session", s.ID, "error", err)
		return
	}
	m.logger.Info("game finished", "session", s.ID, "game", rec.GameID, "score", rec.Score, "outcome", rec.Outcome, "record", id)
}
