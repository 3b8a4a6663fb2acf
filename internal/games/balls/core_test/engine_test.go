package core_test

import (
	"errors"
	"math/rand"
	"reflect"
	"testing"

	"github.com/vovakirdan/tui-balls/internal/games/balls/core"
)

const (
	red core.Color = iota
	yellow
	blue
	green
)

func mustEngine(t *testing.T, rows [][]core.Color) *core.Engine {
	t.Helper()
	e, err := core.NewEngineFromRows(rows, core.DefaultPaletteSize)
	if err != nil {
		t.Fatalf("NewEngineFromRows() failed: %v", err)
	}
	return e
}

// coordSet turns a cluster into a set for order-independent comparison.
func coordSet(c core.Cluster) map[core.Coord]bool {
	set := make(map[core.Coord]bool, len(c))
	for _, p := range c {
		set[p] = true
	}
	return set
}

func TestNewEngineRejectsBadConfig(t *testing.T) {
	src := rand.New(rand.NewSource(1))

	tests := []struct {
		name          string
		width, height int
		palette       int
		src           core.Source
	}{
		{"zero width", 0, 5, 4, src},
		{"zero height", 5, 0, 4, src},
		{"negative width", -1, 5, 4, src},
		{"zero palette", 5, 5, 0, src},
		{"nil source", 5, 5, 4, nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := core.NewEngine(tc.width, tc.height, tc.palette, tc.src)
			if !errors.Is(err, core.ErrConfiguration) {
				t.Errorf("NewEngine(%d, %d, %d) error = %v, want ErrConfiguration",
					tc.width, tc.height, tc.palette, err)
			}
		})
	}
}

func TestNewEngineShapeAndPalette(t *testing.T) {
	e, err := core.NewEngine(7, 5, 4, rand.New(rand.NewSource(42)))
	if err != nil {
		t.Fatalf("NewEngine() failed: %v", err)
	}

	if e.Rows() != 5 {
		t.Errorf("Rows() = %d, want 5", e.Rows())
	}
	for y := 0; y < e.Rows(); y++ {
		if e.RowLen(y) != 7 {
			t.Errorf("RowLen(%d) = %d, want 7", y, e.RowLen(y))
		}
		for x := 0; x < e.RowLen(y); x++ {
			c, ok := e.ColorAt(x, y)
			if !ok || int(c) >= 4 {
				t.Errorf("ColorAt(%d, %d) = %d, %v; want a color in [0, 4)", x, y, c, ok)
			}
		}
	}
	if e.Tiles() != 35 {
		t.Errorf("Tiles() = %d, want 35", e.Tiles())
	}
	if e.State() != core.StatePlaying {
		t.Errorf("State() = %v, want playing", e.State())
	}
}

func TestNewEngineDeterministic(t *testing.T) {
	a, _ := core.NewEngine(10, 8, 4, rand.New(rand.NewSource(99)))
	b, _ := core.NewEngine(10, 8, 4, rand.New(rand.NewSource(99)))

	if !reflect.DeepEqual(a.Snapshot(), b.Snapshot()) {
		t.Error("same seed should produce the same grid")
	}
}

func TestNewEngineFromRowsValidation(t *testing.T) {
	tests := []struct {
		name string
		rows [][]core.Color
	}{
		{"no rows", nil},
		{"empty row", [][]core.Color{{red}, {}}},
		{"color outside palette", [][]core.Color{{red, 9}}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := core.NewEngineFromRows(tc.rows, core.DefaultPaletteSize)
			if !errors.Is(err, core.ErrConfiguration) {
				t.Errorf("error = %v, want ErrConfiguration", err)
			}
		})
	}
}

func TestScoreFormula(t *testing.T) {
	tests := []struct {
		size, expected int
	}{
		{0, 0},
		{1, 0},
		{2, 2},
		{3, 6},
		{4, 12},
		{5, 20},
		{10, 90},
	}

	for _, tc := range tests {
		if got := core.Score(tc.size); got != tc.expected {
			t.Errorf("Score(%d) = %d, want %d", tc.size, got, tc.expected)
		}
		cluster := make(core.Cluster, tc.size)
		if got := core.PreviewScore(cluster); got != tc.expected {
			t.Errorf("PreviewScore(size %d) = %d, want %d", tc.size, got, tc.expected)
		}
	}
}

func TestAllSameColor2x2(t *testing.T) {
	e := mustEngine(t, [][]core.Color{
		{red, red},
		{red, red},
	})

	cluster, err := e.ClusterAt(0, 0)
	if err != nil {
		t.Fatalf("ClusterAt() failed: %v", err)
	}
	if cluster.Len() != 4 {
		t.Fatalf("ClusterAt(0,0) returned %d coords, want 4", cluster.Len())
	}
	if cluster[0] != core.C(0, 0) {
		t.Errorf("cluster should start at its origin, got %v", cluster[0])
	}

	res, err := e.RemoveAt(0, 0)
	if err != nil {
		t.Fatalf("RemoveAt() failed: %v", err)
	}
	if len(res.Removed) != 4 {
		t.Errorf("Removed %d tiles, want 4", len(res.Removed))
	}
	if res.ScoreDelta != 12 || res.TotalScore != 12 {
		t.Errorf("ScoreDelta = %d, TotalScore = %d; want 12, 12", res.ScoreDelta, res.TotalScore)
	}
	if res.Outcome != core.OutcomeWin {
		t.Errorf("Outcome = %v, want win", res.Outcome)
	}
	if e.Rows() != 0 || e.Tiles() != 0 {
		t.Errorf("grid should be empty, got %d rows, %d tiles", e.Rows(), e.Tiles())
	}
	if e.State() != core.StateWon {
		t.Errorf("State() = %v, want won", e.State())
	}
}

func TestRedRedBlueEndsInLoss(t *testing.T) {
	e := mustEngine(t, [][]core.Color{{red, red, blue}})

	res, err := e.RemoveAt(0, 0)
	if err != nil {
		t.Fatalf("RemoveAt() failed: %v", err)
	}
	if len(res.Removed) != 2 || res.ScoreDelta != 2 {
		t.Errorf("Removed %d tiles for %d points, want 2 tiles for 2 points", len(res.Removed), res.ScoreDelta)
	}
	if res.Outcome != core.OutcomeLoss {
		t.Errorf("Outcome = %v, want loss", res.Outcome)
	}

	want := [][]core.Color{{blue}}
	if got := e.Snapshot(); !reflect.DeepEqual(got, want) {
		t.Errorf("Snapshot() = %v, want %v", got, want)
	}
	if e.State() != core.StateLost {
		t.Errorf("State() = %v, want lost", e.State())
	}
}

func TestRemovingLastPairWins(t *testing.T) {
	e := mustEngine(t, [][]core.Color{
		{red, red},
		{blue, blue},
	})

	res, err := e.RemoveAt(1, 0)
	if err != nil {
		t.Fatalf("RemoveAt() failed: %v", err)
	}
	if res.Outcome != core.OutcomeNone {
		t.Fatalf("first removal should not end the game, got %v", res.Outcome)
	}
	if !reflect.DeepEqual(e.Snapshot(), [][]core.Color{{blue, blue}}) {
		t.Fatalf("Snapshot() = %v, want [[blue blue]]", e.Snapshot())
	}

	res, err = e.RemoveAt(0, 0)
	if err != nil {
		t.Fatalf("RemoveAt() failed: %v", err)
	}
	if res.Outcome != core.OutcomeWin {
		t.Errorf("Outcome = %v, want win", res.Outcome)
	}
	if res.TotalScore != 4 {
		t.Errorf("TotalScore = %d, want 4", res.TotalScore)
	}
}

func TestSingletonIsNoOp(t *testing.T) {
	e := mustEngine(t, [][]core.Color{
		{red, blue},
		{yellow, yellow},
	})
	before := e.Snapshot()

	res, err := e.RemoveAt(0, 0)
	if err != nil {
		t.Fatalf("RemoveAt() failed: %v", err)
	}
	if res.Changed() || len(res.Removed) != 0 {
		t.Errorf("singleton removal should remove nothing, removed %v", res.Removed)
	}
	if res.ScoreDelta != 0 || res.Outcome != core.OutcomeNone {
		t.Errorf("ScoreDelta = %d, Outcome = %v; want 0, none", res.ScoreDelta, res.Outcome)
	}
	if e.Score() != 0 || e.State() != core.StatePlaying {
		t.Errorf("score/state changed: %d, %v", e.Score(), e.State())
	}
	if !reflect.DeepEqual(before, e.Snapshot()) {
		t.Error("grid changed after a no-op removal")
	}
	if len(e.Moves()) != 0 {
		t.Errorf("no-op should not be recorded, got %v", e.Moves())
	}
}

func TestCompactionShiftsLeft(t *testing.T) {
	e := mustEngine(t, [][]core.Color{
		{red, yellow, blue},
		{red, red, blue},
		{yellow, red, yellow},
	})

	res, err := e.RemoveAt(0, 0)
	if err != nil {
		t.Fatalf("RemoveAt() failed: %v", err)
	}
	if res.ScoreDelta != 12 {
		t.Errorf("ScoreDelta = %d, want 12", res.ScoreDelta)
	}

	want := [][]core.Color{
		{yellow, blue},
		{blue},
		{yellow, yellow},
	}
	if got := e.Snapshot(); !reflect.DeepEqual(got, want) {
		t.Errorf("Snapshot() = %v, want %v", got, want)
	}

	wantOrder := core.Cluster{core.C(1, 2), core.C(1, 1), core.C(0, 1), core.C(0, 0)}
	if !reflect.DeepEqual(res.Removed, wantOrder) {
		t.Errorf("Removed = %v, want removal order %v", res.Removed, wantOrder)
	}
	if e.State() != core.StatePlaying {
		t.Errorf("State() = %v, want playing", e.State())
	}
}

func TestCompactionDeletesEmptyRow(t *testing.T) {
	e := mustEngine(t, [][]core.Color{
		{yellow, blue},
		{red, red},
		{blue, yellow},
	})

	res, err := e.RemoveAt(1, 1)
	if err != nil {
		t.Fatalf("RemoveAt() failed: %v", err)
	}

	want := [][]core.Color{
		{yellow, blue},
		{blue, yellow},
	}
	if got := e.Snapshot(); !reflect.DeepEqual(got, want) {
		t.Errorf("Snapshot() = %v, want %v", got, want)
	}
	if res.Outcome != core.OutcomeLoss {
		t.Errorf("Outcome = %v, want loss", res.Outcome)
	}
}

func TestJaggedNeighborsUseRowLength(t *testing.T) {
	// Row 1 is shorter than row 0: (2,0) has no neighbor below.
	e := mustEngine(t, [][]core.Color{
		{blue, red, green},
		{red, green},
	})

	cluster, err := e.ClusterAt(2, 0)
	if err != nil {
		t.Fatalf("ClusterAt() failed: %v", err)
	}
	if cluster.Len() != 1 {
		t.Errorf("ClusterAt(2,0) = %v, want a singleton", cluster)
	}

	cluster, err = e.ClusterAt(1, 1)
	if err != nil {
		t.Fatalf("ClusterAt() failed: %v", err)
	}
	if cluster.Len() != 1 {
		t.Errorf("ClusterAt(1,1) = %v, want a singleton", cluster)
	}
}

func TestOutOfRangeCoordinates(t *testing.T) {
	e := mustEngine(t, [][]core.Color{
		{red, red, red},
		{blue},
	})

	tests := []struct {
		name string
		x, y int
	}{
		{"negative x", -1, 0},
		{"negative y", 0, -1},
		{"past row count", 0, 2},
		{"past row length", 1, 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := e.ClusterAt(tc.x, tc.y); !errors.Is(err, core.ErrConfiguration) {
				t.Errorf("ClusterAt(%d, %d) error = %v, want ErrConfiguration", tc.x, tc.y, err)
			}
			if _, err := e.RemoveAt(tc.x, tc.y); !errors.Is(err, core.ErrConfiguration) {
				t.Errorf("RemoveAt(%d, %d) error = %v, want ErrConfiguration", tc.x, tc.y, err)
			}
		})
	}
}

func TestCallsAfterEndFail(t *testing.T) {
	e := mustEngine(t, [][]core.Color{{red, red, blue}})
	if _, err := e.RemoveAt(0, 0); err != nil {
		t.Fatalf("RemoveAt() failed: %v", err)
	}
	if !e.Ended() {
		t.Fatal("game should have ended")
	}

	if _, err := e.ClusterAt(0, 0); !errors.Is(err, core.ErrConfiguration) {
		t.Errorf("ClusterAt after end error = %v, want ErrConfiguration", err)
	}
	if _, err := e.RemoveAt(0, 0); !errors.Is(err, core.ErrConfiguration) {
		t.Errorf("RemoveAt after end error = %v, want ErrConfiguration", err)
	}
}

func TestClusterQueryIsIdempotent(t *testing.T) {
	e, _ := core.NewEngine(12, 10, 3, rand.New(rand.NewSource(7)))
	before := e.Snapshot()

	for y := 0; y < e.Rows(); y++ {
		for x := 0; x < e.RowLen(y); x++ {
			first, err := e.ClusterAt(x, y)
			if err != nil {
				t.Fatalf("ClusterAt(%d, %d) failed: %v", x, y, err)
			}
			second, _ := e.ClusterAt(x, y)
			if !reflect.DeepEqual(first, second) {
				t.Fatalf("ClusterAt(%d, %d) differs between calls: %v vs %v", x, y, first, second)
			}
		}
	}

	if !reflect.DeepEqual(before, e.Snapshot()) {
		t.Error("queries changed the grid")
	}
}

func TestClusterSymmetry(t *testing.T) {
	e, _ := core.NewEngine(15, 12, 3, rand.New(rand.NewSource(2024)))

	for y := 0; y < e.Rows(); y++ {
		for x := 0; x < e.RowLen(y); x++ {
			cluster, _ := e.ClusterAt(x, y)
			want := coordSet(cluster)
			color, _ := e.ColorAt(x, y)

			for _, member := range cluster {
				if c, _ := e.ColorAt(member.X, member.Y); c != color {
					t.Fatalf("member %v of cluster at (%d,%d) has color %d, want %d", member, x, y, c, color)
				}
				other, _ := e.ClusterAt(member.X, member.Y)
				if !reflect.DeepEqual(coordSet(other), want) {
					t.Fatalf("cluster at %v differs from cluster at (%d,%d)", member, x, y)
				}
			}
		}
	}
}

func TestClustersAndBest(t *testing.T) {
	e := mustEngine(t, [][]core.Color{
		{red, red, blue},
		{yellow, blue, blue},
		{yellow, green, red},
	})

	clusters := e.Clusters()
	if len(clusters) != 3 {
		t.Fatalf("Clusters() returned %d clusters, want 3: %v", len(clusters), clusters)
	}
	if clusters[0][0] != core.C(0, 0) || clusters[1][0] != core.C(2, 0) || clusters[2][0] != core.C(0, 1) {
		t.Errorf("clusters not in row-major order: %v", clusters)
	}

	best, ok := e.Best()
	if !ok {
		t.Fatal("Best() found nothing")
	}
	if best.Len() != 3 || !best.Contains(core.C(1, 1)) {
		t.Errorf("Best() = %v, want the blue cluster of 3", best)
	}
}

func TestBestWithoutMoves(t *testing.T) {
	e := mustEngine(t, [][]core.Color{{red, blue, red}})
	if _, ok := e.Best(); ok {
		t.Error("Best() should find nothing on a board without moves")
	}
	if e.HasMoves() {
		t.Error("HasMoves() should be false")
	}
}

// TestRandomGamesKeepInvariants plays seeded random games to the end and
// checks the packing and scoring rules after every removal.
func TestRandomGamesKeepInvariants(t *testing.T) {
	for seed := int64(1); seed <= 25; seed++ {
		src := rand.New(rand.NewSource(seed))
		e, err := core.NewEngine(8, 6, 3, src)
		if err != nil {
			t.Fatalf("NewEngine() failed: %v", err)
		}

		lastScore := 0
		for steps := 0; !e.Ended(); steps++ {
			if steps > 48 {
				t.Fatalf("seed %d: game did not end after %d removals", seed, steps)
			}

			clusters := e.Clusters()
			if len(clusters) == 0 {
				t.Fatalf("seed %d: playing with no removable cluster", seed)
			}
			pick := clusters[src.Intn(len(clusters))]
			origin := pick[0]

			tilesBefore := e.Tiles()
			res, err := e.RemoveAt(origin.X, origin.Y)
			if err != nil {
				t.Fatalf("seed %d: RemoveAt(%v) failed: %v", seed, origin, err)
			}

			if len(res.Removed) != pick.Len() {
				t.Fatalf("seed %d: removed %d tiles, cluster had %d", seed, len(res.Removed), pick.Len())
			}
			if e.Tiles() != tilesBefore-pick.Len() {
				t.Fatalf("seed %d: tiles %d -> %d after removing %d", seed, tilesBefore, e.Tiles(), pick.Len())
			}
			if res.ScoreDelta != core.Score(pick.Len()) || res.TotalScore != lastScore+res.ScoreDelta {
				t.Fatalf("seed %d: bad scoring %+v after %d", seed, res, lastScore)
			}
			lastScore = res.TotalScore

			for y := 0; y < e.Rows(); y++ {
				if e.RowLen(y) < 1 {
					t.Fatalf("seed %d: row %d is empty but was kept", seed, y)
				}
			}

			switch res.Outcome {
			case core.OutcomeWin:
				if e.Tiles() != 0 {
					t.Fatalf("seed %d: win with %d tiles left", seed, e.Tiles())
				}
			case core.OutcomeLoss:
				if e.Tiles() == 0 || e.HasMoves() {
					t.Fatalf("seed %d: loss with %d tiles, moves=%v", seed, e.Tiles(), e.HasMoves())
				}
			case core.OutcomeNone:
				if !e.HasMoves() {
					t.Fatalf("seed %d: game continues without moves", seed)
				}
			}
		}
	}
}
