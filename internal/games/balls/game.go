// Package balls adapts the cluster engine to the fixed-tick game loop:
// a cursor over the board, pointer input, hints and rendering.
package balls

import (
	"fmt"
	"math/rand"

	"github.com/vovakirdan/tui-balls/internal/config"
	"github.com/vovakirdan/tui-balls/internal/core"
	bcore "github.com/vovakirdan/tui-balls/internal/games/balls/core"
	"github.com/vovakirdan/tui-balls/internal/registry"
)

// Variant is one registered board size.
type Variant struct {
	ID     string
	Preset string
	Title  string
}

// Variants lists the registered game IDs with their config presets.
var Variants = []Variant{
	{ID: "balls", Preset: config.PresetClassic, Title: "Balls"},
	{ID: "balls_small", Preset: config.PresetSmall, Title: "Balls (small)"},
	{ID: "balls_large", Preset: config.PresetLarge, Title: "Balls (large)"},
}

// VariantByID returns the variant registered under id.
func VariantByID(id string) (Variant, bool) {
	for _, v := range Variants {
		if v.ID == id {
			return v, true
		}
	}
	return Variant{}, false
}

func init() {
	for _, v := range Variants {
		registry.Register(v.ID, func() registry.Game {
			return New(v)
		})
	}
}

// Game is the balls puzzle: pop clusters of two or more same-colored
// balls until none are left.
type Game struct {
	variant Variant

	engine  *bcore.Engine
	palette []core.Color
	seed    int64
	width   int // board width at start, rows only shrink
	height  int
	tick    uint64

	cursor bcore.Coord
	hover  bcore.Cluster // cluster under the cursor, nil if not removable
	best   int
	last   bcore.RemovalResult

	// Screen dimensions
	screenW int
	screenH int

	paused   bool
	tooSmall bool
}

// New creates a game for a variant. The board is built on Reset.
func New(v Variant) *Game {
	return &Game{variant: v}
}

// ID returns the game identifier.
func (g *Game) ID() string {
	return g.variant.ID
}

// Title returns the display name.
func (g *Game) Title() string {
	return g.variant.Title
}

// WantsPointer enables mouse tracking in the platform.
func (g *Game) WantsPointer() bool {
	return true
}

// SetBest sets the best score shown in the HUD.
func (g *Game) SetBest(score int) {
	g.best = score
}

// Best returns the best score shown in the HUD.
func (g *Game) Best() int {
	return g.best
}

// Reset builds a new random board from the active config preset.
func (g *Game) Reset(cfg core.RuntimeConfig) {
	bc := config.Active()
	p, err := bc.Preset(g.variant.Preset)
	if err != nil {
		bc = config.DefaultBallsConfig()
		p = bc.Presets[config.PresetClassic]
	}

	engine, err := bcore.NewEngine(p.Width, p.Height, bc.ColorsFor(p), rand.New(rand.NewSource(cfg.Seed)))
	if err != nil {
		// Only reachable with a config that bypassed validation.
		bc = config.DefaultBallsConfig()
		p = bc.Presets[config.PresetClassic]
		engine, err = bcore.NewEngine(p.Width, p.Height, bc.ColorsFor(p), rand.New(rand.NewSource(cfg.Seed)))
		if err != nil {
			panic(fmt.Sprintf("balls: built-in classic preset rejected: %v", err))
		}
	}

	g.start(cfg, engine, bc.ScreenColors(), p.Width, p.Height)
}

// ResetWithEngine starts a game on a prepared engine, for scripted
// layouts and replays.
func (g *Game) ResetWithEngine(cfg core.RuntimeConfig, engine *bcore.Engine) {
	width := 0
	for y := 0; y < engine.Rows(); y++ {
		width = max(width, engine.RowLen(y))
	}
	g.start(cfg, engine, config.Active().ScreenColors(), width, engine.Rows())
}

func (g *Game) start(cfg core.RuntimeConfig, engine *bcore.Engine, palette []core.Color, width, height int) {
	g.engine = engine
	g.palette = palette
	g.seed = cfg.Seed
	g.width = width
	g.height = height
	g.tick = 0
	g.cursor = bcore.C(0, 0)
	g.last = bcore.RemovalResult{}
	g.screenW = cfg.ScreenW
	g.screenH = cfg.ScreenH
	g.paused = false

	g.checkScreenSize()
	g.refreshHover()
}

// Resize adapts to a new terminal size and keeps the board.
func (g *Game) Resize(w, h int) {
	g.screenW, g.screenH = w, h
	g.checkScreenSize()
}

// Engine exposes the underlying engine for read-only inspection.
func (g *Game) Engine() *bcore.Engine {
	return g.engine
}

// Cursor returns the cursor position.
func (g *Game) Cursor() bcore.Coord {
	return g.cursor
}

// Hover returns the removable cluster under the cursor, nil if none.
func (g *Game) Hover() bcore.Cluster {
	return g.hover
}

// LastRemoval returns the result of the last successful removal.
func (g *Game) LastRemoval() bcore.RemovalResult {
	return g.last
}

// checkScreenSize checks if the screen is large enough.
func (g *Game) checkScreenSize() {
	frame := g.boardFrame()
	minW := max(frame.W, hudWidth)
	minH := frame.Bottom() + footerHeight
	g.tooSmall = g.screenW < minW || g.screenH < minH
}

// Step advances the game by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	g.tick++

	if g.tooSmall {
		return core.StepResult{State: g.State()}
	}

	if g.engine.Ended() {
		// Restart is handled by the platform.
		return core.StepResult{State: g.State()}
	}
	if in.Empty() {
		return core.StepResult{State: g.State()}
	}

	if in.Has(core.ActionPause) {
		g.paused = !g.paused
	}
	if g.paused {
		return core.StepResult{State: g.State()}
	}

	if p := in.Pointer; p != nil {
		if c, ok := g.CellAt(p.X, p.Y); ok {
			g.cursor = c
			if p.Click {
				g.removeAt(c)
			}
		}
	}

	switch {
	case in.Has(core.ActionUp):
		g.cursor.Y--
	case in.Has(core.ActionDown):
		g.cursor.Y++
	case in.Has(core.ActionLeft):
		g.cursor.X--
	case in.Has(core.ActionRight):
		g.cursor.X++
	}
	g.clampCursor()

	if in.Has(core.ActionHint) {
		if best, ok := g.engine.Best(); ok {
			g.cursor = best[0]
		}
	}

	if in.Has(core.ActionConfirm) {
		g.removeAt(g.cursor)
	}

	g.refreshHover()
	return core.StepResult{State: g.State()}
}

// removeAt pops the cluster at c. Singletons are ignored by the engine.
func (g *Game) removeAt(c bcore.Coord) {
	if g.engine.Ended() {
		return
	}
	res, err := g.engine.RemoveAt(c.X, c.Y)
	if err != nil || !res.Changed() {
		return
	}
	g.last = res
	g.clampCursor()
}

// clampCursor keeps the cursor on a live cell after moves and compaction.
func (g *Game) clampCursor() {
	rows := g.engine.Rows()
	if rows == 0 {
		g.cursor = bcore.C(0, 0)
		return
	}
	g.cursor.Y = core.Clamp(g.cursor.Y, 0, rows-1)
	g.cursor.X = core.Clamp(g.cursor.X, 0, g.engine.RowLen(g.cursor.Y)-1)
}

func (g *Game) refreshHover() {
	g.hover = nil
	if g.engine.Ended() || !g.engine.InBounds(g.cursor.X, g.cursor.Y) {
		return
	}
	c, err := g.engine.ClusterAt(g.cursor.X, g.cursor.Y)
	if err == nil && c.Removable() {
		g.hover = c
	}
}

// Possible returns the points the hovered cluster would score.
func (g *Game) Possible() int {
	return bcore.PreviewScore(g.hover)
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	return core.GameState{
		Score:    g.engine.Score(),
		GameOver: g.engine.Ended(),
		Won:      g.engine.State() == bcore.StateWon,
		Paused:   g.paused || g.tooSmall,
	}
}
