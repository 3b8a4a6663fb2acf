package balls

import (
	"strings"
	"testing"
	"time"

	"github.com/vovakirdan/tui-balls/internal/config"
	"github.com/vovakirdan/tui-balls/internal/core"
	bcore "github.com/vovakirdan/tui-balls/internal/games/balls/core"
	"github.com/vovakirdan/tui-balls/internal/registry"
)

const (
	red bcore.Color = iota
	yellow
	blue
)

func testConfig(seed int64) core.RuntimeConfig {
	return core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 30, Seed: seed}
}

// newScripted returns a classic game on the layout
//
//	R R B
//	Y B B
func newScripted(t *testing.T) *Game {
	t.Helper()
	config.SetActive(config.DefaultBallsConfig())

	e, err := bcore.NewEngineFromRows([][]bcore.Color{
		{red, red, blue},
		{yellow, blue, blue},
	}, 4)
	if err != nil {
		t.Fatalf("NewEngineFromRows() error = %v", err)
	}
	g := New(Variants[0])
	g.ResetWithEngine(testConfig(1), e)
	return g
}

func press(g *Game, actions ...core.Action) core.StepResult {
	in := core.NewInputFrame()
	for _, a := range actions {
		in.Set(a)
	}
	return g.Step(in)
}

func click(g *Game, x, y int) core.StepResult {
	sx, sy := g.cellOrigin(x, y)
	in := core.NewInputFrame()
	in.Point(sx, sy, true)
	return g.Step(in)
}

func TestVariantsRegistered(t *testing.T) {
	for _, v := range Variants {
		if !registry.Exists(v.ID) {
			t.Errorf("variant %q not registered", v.ID)
		}
		g, err := registry.Create(v.ID)
		if err != nil {
			t.Fatalf("Create(%q) error = %v", v.ID, err)
		}
		if g.Title() != v.Title {
			t.Errorf("Title() = %q, expected %q", g.Title(), v.Title)
		}
		if !registry.AcceptsPointer(g) {
			t.Errorf("%q should accept pointer input", v.ID)
		}
	}

	if _, ok := VariantByID("balls_small"); !ok {
		t.Error("VariantByID(balls_small) not found")
	}
	if _, ok := VariantByID("tetris"); ok {
		t.Error("VariantByID(tetris) should not exist")
	}
}

func TestResetUsesPreset(t *testing.T) {
	config.SetActive(config.DefaultBallsConfig())

	g := New(Variants[1]) // small
	g.Reset(testConfig(3))

	e := g.Engine()
	if e.Rows() != 8 || e.RowLen(0) != 10 {
		t.Errorf("board = %d rows of %d, expected 8 of 10", e.Rows(), e.RowLen(0))
	}
	if e.PaletteSize() != 4 {
		t.Errorf("PaletteSize() = %d, expected 4", e.PaletteSize())
	}
}

func TestResetFallsBackOnBadPreset(t *testing.T) {
	cfg := config.DefaultBallsConfig()
	cfg.Presets[config.PresetSmall] = config.BallsPreset{Width: 0, Height: 8}
	config.SetActive(cfg) // skips Validate
	t.Cleanup(func() { config.SetActive(config.DefaultBallsConfig()) })

	g := New(Variants[1])
	g.Reset(testConfig(3))

	e := g.Engine()
	if e == nil {
		t.Fatal("Reset left no board")
	}
	if e.Rows() != 15 || e.RowLen(0) != 20 {
		t.Errorf("board = %d rows of %d, expected the classic 15 of 20", e.Rows(), e.RowLen(0))
	}
	press(g, core.ActionConfirm)
}

func TestDeterministicBoards(t *testing.T) {
	config.SetActive(config.DefaultBallsConfig())

	a := New(Variants[0])
	b := New(Variants[0])
	a.Reset(testConfig(42))
	b.Reset(testConfig(42))

	inputs := [][]core.Action{
		{core.ActionRight}, {core.ActionDown}, {core.ActionHint}, {core.ActionConfirm},
		{core.ActionHint}, {core.ActionConfirm}, {core.ActionLeft},
	}
	for _, actions := range inputs {
		press(a, actions...)
		press(b, actions...)
	}

	sa, sb := a.Snapshot(), b.Snapshot()
	if sa.Score != sb.Score || sa.Cursor != sb.Cursor || sa.Tick != sb.Tick || sa.Moves != sb.Moves {
		t.Fatalf("snapshots differ: %+v vs %+v", sa, sb)
	}
	for y := range sa.Rows {
		for x := range sa.Rows[y] {
			if sa.Rows[y][x] != sb.Rows[y][x] {
				t.Fatalf("row %d differs", y)
			}
		}
	}
	if sa.Moves != 2 {
		t.Errorf("Moves = %d, expected two hinted removals", sa.Moves)
	}
}

func TestCursorClamping(t *testing.T) {
	g := newScripted(t)

	press(g, core.ActionLeft)
	press(g, core.ActionUp)
	if g.Cursor() != bcore.C(0, 0) {
		t.Errorf("cursor = %v, expected (0, 0)", g.Cursor())
	}

	for i := 0; i < 5; i++ {
		press(g, core.ActionRight)
	}
	press(g, core.ActionDown)
	press(g, core.ActionDown)
	if g.Cursor() != bcore.C(2, 1) {
		t.Errorf("cursor = %v, expected (2, 1)", g.Cursor())
	}
}

func TestHoverPreview(t *testing.T) {
	g := newScripted(t)

	press(g) // refresh
	if g.Possible() != 2 {
		t.Errorf("Possible() on red pair = %d, expected 2", g.Possible())
	}

	press(g, core.ActionDown) // yellow singleton
	if g.Hover() != nil || g.Possible() != 0 {
		t.Errorf("singleton hover = %v, possible %d", g.Hover(), g.Possible())
	}
}

func TestConfirmRemovesCluster(t *testing.T) {
	g := newScripted(t)

	res := press(g, core.ActionConfirm)
	if res.State.Score != 2 {
		t.Errorf("Score = %d, expected 2", res.State.Score)
	}
	if res.State.GameOver {
		t.Error("blue pair remains, game should continue")
	}
	if g.LastRemoval().ScoreDelta != 2 {
		t.Errorf("LastRemoval().ScoreDelta = %d, expected 2", g.LastRemoval().ScoreDelta)
	}
	if got := g.Engine().RowLen(0); got != 1 {
		t.Errorf("row 0 length = %d, expected 1 after compaction", got)
	}
}

func TestSingletonConfirmIsNoop(t *testing.T) {
	g := newScripted(t)

	press(g, core.ActionDown)
	res := press(g, core.ActionConfirm)
	if res.State.Score != 0 || g.Engine().Tiles() != 6 {
		t.Errorf("singleton removal changed the board: score %d, tiles %d", res.State.Score, g.Engine().Tiles())
	}
}

func TestPointerClickThenLoss(t *testing.T) {
	g := newScripted(t)

	// Blue cluster (2,0) (1,1) (2,1) scores 3*2.
	res := click(g, 2, 0)
	if res.State.Score != 6 {
		t.Fatalf("Score = %d, expected 6", res.State.Score)
	}
	if g.Cursor() != bcore.C(1, 0) {
		t.Errorf("cursor = %v, expected clamp to (1, 0)", g.Cursor())
	}

	res = press(g, core.ActionConfirm)
	if res.State.Score != 8 {
		t.Errorf("Score = %d, expected 8", res.State.Score)
	}
	if !res.State.GameOver || res.State.Won {
		t.Errorf("single yellow left: expected loss, got %+v", res.State)
	}

	// Input after the end is ignored.
	res = press(g, core.ActionConfirm)
	if res.State.Score != 8 {
		t.Errorf("Score after end = %d, expected 8", res.State.Score)
	}
}

func TestPointerMotionHovers(t *testing.T) {
	g := newScripted(t)

	sx, sy := g.cellOrigin(1, 1)
	in := core.NewInputFrame()
	in.Point(sx+1, sy, false) // gap after the ball
	g.Step(in)

	if g.Cursor() != bcore.C(1, 1) {
		t.Errorf("cursor = %v, expected (1, 1)", g.Cursor())
	}
	if g.Engine().Tiles() != 6 {
		t.Error("motion must not remove tiles")
	}
	if g.Possible() != 6 {
		t.Errorf("Possible() = %d, expected 6", g.Possible())
	}
}

func TestCellAt(t *testing.T) {
	g := newScripted(t)
	frame := g.boardFrame()

	tests := []struct {
		name   string
		sx, sy int
		want   bcore.Coord
		ok     bool
	}{
		{"first ball", frame.X + 2, frame.Y + 1, bcore.C(0, 0), true},
		{"gap", frame.X + 3, frame.Y + 1, bcore.C(0, 0), true},
		{"last ball", frame.X + 6, frame.Y + 2, bcore.C(2, 1), true},
		{"border", frame.X, frame.Y + 1, bcore.Coord{}, false},
		{"hud", frame.X + 2, 0, bcore.Coord{}, false},
		{"below board", frame.X + 2, frame.Y + 3, bcore.Coord{}, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := g.CellAt(tc.sx, tc.sy)
			if ok != tc.ok || (ok && got != tc.want) {
				t.Errorf("CellAt(%d, %d) = %v, %v; expected %v, %v", tc.sx, tc.sy, got, ok, tc.want, tc.ok)
			}
		})
	}

	// Compacted cells are no longer addressable.
	press(g, core.ActionConfirm)
	if _, ok := g.CellAt(frame.X+4, frame.Y+1); ok {
		t.Error("CellAt should reject a removed column")
	}
}

func TestHintJumpsToBest(t *testing.T) {
	g := newScripted(t)

	press(g, core.ActionHint)
	if g.Cursor() != bcore.C(2, 0) {
		t.Errorf("cursor = %v, expected best cluster origin (2, 0)", g.Cursor())
	}
	if g.Possible() != 6 {
		t.Errorf("Possible() = %d, expected 6", g.Possible())
	}
}

func TestWin(t *testing.T) {
	config.SetActive(config.DefaultBallsConfig())
	e, err := bcore.NewEngineFromRows([][]bcore.Color{{red, red}, {red, red}}, 4)
	if err != nil {
		t.Fatal(err)
	}
	g := New(Variants[0])
	g.ResetWithEngine(testConfig(1), e)

	res := press(g, core.ActionConfirm)
	if !res.State.GameOver || !res.State.Won || res.State.Score != 12 {
		t.Errorf("State = %+v, expected won with 12", res.State)
	}

	screen := core.NewScreen(80, 24)
	g.Render(screen)
	if !strings.Contains(screen.String(), "YOU WIN") {
		t.Error("win overlay not rendered")
	}
}

func TestPause(t *testing.T) {
	g := newScripted(t)

	res := press(g, core.ActionPause)
	if !res.State.Paused {
		t.Fatal("expected paused")
	}
	press(g, core.ActionConfirm)
	if g.Engine().Score() != 0 {
		t.Error("paused game must ignore input")
	}
	if g.Snapshot().State != "paused" {
		t.Errorf("Snapshot().State = %q, expected paused", g.Snapshot().State)
	}

	press(g, core.ActionPause)
	press(g, core.ActionConfirm)
	if g.Engine().Score() != 2 {
		t.Errorf("Score = %d after resume, expected 2", g.Engine().Score())
	}
}

func TestRenderBoard(t *testing.T) {
	g := newScripted(t)
	g.SetBest(40)
	press(g)

	screen := core.NewScreen(80, 24)
	g.Render(screen)
	text := screen.String()

	for _, want := range []string{"Balls", "Score: 0", "Best: 40", "Possible: 2", "Tiles: 6"} {
		if !strings.Contains(text, want) {
			t.Errorf("render missing %q", want)
		}
	}

	sx, sy := g.cellOrigin(0, 0)
	if cell := screen.GetCell(sx, sy); cell.Rune != hoverRune || cell.Color != core.ColorBrightRed {
		t.Errorf("hovered cell = %+v, expected bright red %q", cell, hoverRune)
	}
	sx, sy = g.cellOrigin(0, 1)
	if cell := screen.GetCell(sx, sy); cell.Rune != ballRune || cell.Color != core.ColorYellow {
		t.Errorf("yellow cell = %+v, expected yellow %q", cell, ballRune)
	}
}

func TestRenderBestFollowsScore(t *testing.T) {
	g := newScripted(t)
	g.SetBest(1)
	press(g, core.ActionConfirm)

	screen := core.NewScreen(80, 24)
	g.Render(screen)
	if !strings.Contains(screen.String(), "Best: 2") {
		t.Error("best should never display below the running score")
	}
}

func TestTooSmall(t *testing.T) {
	config.SetActive(config.DefaultBallsConfig())
	g := New(Variants[2]) // large
	g.Reset(core.RuntimeConfig{ScreenW: 30, ScreenH: 10, Seed: 1})

	res := press(g, core.ActionConfirm)
	if !res.State.Paused {
		t.Error("too small window should pause the game")
	}

	screen := core.NewScreen(30, 10)
	g.Render(screen)
	if !strings.Contains(screen.String(), "Window too small") {
		t.Error("too small message not rendered")
	}
}

func TestResizeKeepsBoard(t *testing.T) {
	g := newScripted(t)
	press(g, core.ActionConfirm)
	score := g.State().Score

	g.Resize(10, 5)
	if !g.State().Paused {
		t.Error("shrinking below the board should pause")
	}
	g.Resize(80, 24)
	if g.State().Paused {
		t.Error("growing back should resume")
	}
	if g.State().Score != score || len(g.Engine().Moves()) != 1 {
		t.Errorf("Resize() lost the board: score %d, moves %d", g.State().Score, len(g.Engine().Moves()))
	}
}

func TestRecordRoundTrip(t *testing.T) {
	g := newScripted(t)
	click(g, 2, 0)
	press(g, core.ActionConfirm)

	rec := g.Record()
	if rec.Outcome != "loss" || rec.Score != 8 || len(rec.Moves) != 2 {
		t.Fatalf("Record() = %+v", rec)
	}
	if rec.Width != 3 || rec.Height != 2 || rec.Colors != 4 {
		t.Errorf("dimensions = %dx%d/%d, expected 3x2/4", rec.Width, rec.Height, rec.Colors)
	}

	stored := rec.Storage(90 * time.Second)
	if stored.Duration != 90 || stored.Moves[0] != [2]int{2, 0} {
		t.Errorf("Storage() = %+v", stored)
	}

	back, err := RecordFromStorage(stored)
	if err != nil {
		t.Fatalf("RecordFromStorage() error = %v", err)
	}
	e, err := back.Replay()
	if err != nil {
		t.Fatalf("Replay() error = %v", err)
	}
	if e.State() != bcore.StateLost || e.Score() != 8 {
		t.Errorf("replayed engine = %s with %d", e.State(), e.Score())
	}
}

func TestRecordFromStorageRejectsBadColor(t *testing.T) {
	g := newScripted(t)
	stored := g.Record().Storage(0)
	stored.Layout[0][0] = 9

	if _, err := RecordFromStorage(stored); err == nil {
		t.Error("color outside palette should be rejected")
	}
}
