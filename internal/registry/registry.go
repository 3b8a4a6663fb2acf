// Package registry maps game IDs to factories. Board variants register
// themselves in init() so every front-end can list and create them by ID.
package registry

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/vovakirdan/tui-balls/internal/core"
)

// Game is one playable variant driven by the fixed-tick loop. It holds no
// UI or storage code; the platform maps input, paces ticks and displays
// the rendered screen.
type Game interface {
	// ID is the stable key used by the CLI and score storage ("balls_small").
	ID() string
	Title() string

	// Reset starts a new game for the given screen size and seed.
	Reset(cfg core.RuntimeConfig)

	// Step applies one tick of input and reports the resulting state.
	Step(in core.InputFrame) core.StepResult

	// Render draws into a pre-cleared screen.
	Render(dst *core.Screen)

	State() core.GameState
}

// BestAware is implemented by games that display the persisted best score.
// The platform reads the best from storage and hands it over; the game
// never touches storage itself.
type BestAware interface {
	SetBest(score int)
}

// PointerAware is implemented by games that consume mouse input.
// The platform enables mouse tracking only for these.
type PointerAware interface {
	WantsPointer() bool
}

// Resizable is implemented by games that survive a terminal resize.
// Other games are reset with the new size.
type Resizable interface {
	Resize(w, h int)
}

// AcceptsPointer reports whether g asked for mouse input.
func AcceptsPointer(g Game) bool {
	p, ok := g.(PointerAware)
	return ok && p.WantsPointer()
}

// ErrUnknownGame is returned by Create for an unregistered ID.
var ErrUnknownGame = errors.New("registry: unknown game")

// GameInfo describes a registered game.
type GameInfo struct {
	ID    string
	Title string
}

// Factory is a function that creates a new instance of a game.
type Factory func() Game

type entry struct {
	info    GameInfo
	factory Factory
}

var (
	mu      sync.RWMutex
	entries []entry // registration order
)

func lookup(id string) (entry, bool) {
	i := slices.IndexFunc(entries, func(e entry) bool { return e.info.ID == id })
	if i < 0 {
		return entry{}, false
	}
	return entries[i], true
}

// Register adds a game factory, usually from the game's init().
// The title is read once from a probe instance. Panics on an empty ID,
// a nil factory or a duplicate ID.
func Register(id string, f Factory) {
	if id == "" || f == nil {
		panic("registry: Register needs an ID and a factory")
	}
	mu.Lock()
	defer mu.Unlock()

	if _, exists := lookup(id); exists {
		panic(fmt.Sprintf("registry: game %q already registered", id))
	}
	entries = append(entries, entry{
		info:    GameInfo{ID: id, Title: f().Title()},
		factory: f,
	})
}

// List returns every registered game in registration order.
func List() []GameInfo {
	mu.RLock()
	defer mu.RUnlock()

	out := make([]GameInfo, len(entries))
	for i, e := range entries {
		out[i] = e.info
	}
	return out
}

// Create returns a fresh instance of the game registered under id.
func Create(id string) (Game, error) {
	mu.RLock()
	e, ok := lookup(id)
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownGame, id)
	}
	return e.factory(), nil
}

// Exists reports whether id is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()
	_, ok := lookup(id)
	return ok
}
