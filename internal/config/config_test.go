package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/vovakirdan/tui-balls/internal/core"
)

func TestEmbeddedDefaultsMatchHardcoded(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())

	cfg, err := LoadBalls("")
	if err != nil {
		t.Fatalf("LoadBalls() error = %v", err)
	}
	def := DefaultBallsConfig()

	if len(cfg.Palette) != len(def.Palette) {
		t.Fatalf("palette = %v, expected %v", cfg.Palette, def.Palette)
	}
	for i := range def.Palette {
		if cfg.Palette[i] != def.Palette[i] {
			t.Errorf("palette[%d] = %q, expected %q", i, cfg.Palette[i], def.Palette[i])
		}
	}
	for name, want := range def.Presets {
		got, err := cfg.Preset(name)
		if err != nil {
			t.Fatalf("Preset(%q) error = %v", name, err)
		}
		if got != want {
			t.Errorf("Preset(%q) = %+v, expected %+v", name, got, want)
		}
	}
}

func TestDefaultConfigValid(t *testing.T) {
	if err := DefaultBallsConfig().Validate(); err != nil {
		t.Errorf("DefaultBallsConfig().Validate() = %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*BallsConfig)
	}{
		{"empty palette", func(c *BallsConfig) { c.Palette = nil }},
		{"unknown color", func(c *BallsConfig) { c.Palette = []string{"red", "chartreuse"} }},
		{"min cluster", func(c *BallsConfig) { c.Scoring.MinCluster = 3 }},
		{"no presets", func(c *BallsConfig) { c.Presets = nil }},
		{"zero width", func(c *BallsConfig) { c.Presets["x"] = BallsPreset{Width: 0, Height: 3} }},
		{"negative height", func(c *BallsConfig) { c.Presets["x"] = BallsPreset{Width: 3, Height: -1} }},
		{"too many colors", func(c *BallsConfig) { c.Presets["x"] = BallsPreset{Width: 3, Height: 3, Colors: 9} }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultBallsConfig()
			tc.mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalid) {
				t.Errorf("Validate() = %v, expected ErrInvalid", err)
			}
		})
	}
}

func TestLoadCustomPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	data := []byte(`
palette: [red, blue]
presets:
  tiny:
    width: 3
    height: 2
scoring:
  min_cluster: 2
`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadBalls(path)
	if err != nil {
		t.Fatalf("LoadBalls() error = %v", err)
	}
	p, err := cfg.Preset("tiny")
	if err != nil {
		t.Fatalf("Preset(tiny) error = %v", err)
	}
	if p.Width != 3 || p.Height != 2 {
		t.Errorf("tiny = %dx%d, expected 3x2", p.Width, p.Height)
	}
	if got := cfg.ColorsFor(p); got != 2 {
		t.Errorf("ColorsFor() = %d, expected whole palette (2)", got)
	}
}

func TestLoadCustomPathErrors(t *testing.T) {
	if _, err := LoadBalls(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("missing custom config should fail")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("palette: [red]\npresets: {}\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadBalls(path); !errors.Is(err, ErrInvalid) {
		t.Errorf("LoadBalls(invalid) = %v, expected ErrInvalid", err)
	}
}

func TestLoadLocalConfigsDir(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	t.Chdir(dir)

	if err := os.MkdirAll("configs", 0o755); err != nil {
		t.Fatal(err)
	}
	data := []byte("palette: [green]\npresets:\n  classic: {width: 4, height: 4}\nscoring: {min_cluster: 2}\n")
	if err := os.WriteFile(filepath.Join("configs", "balls.yaml"), data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadBalls("")
	if err != nil {
		t.Fatalf("LoadBalls() error = %v", err)
	}
	if len(cfg.Palette) != 1 || cfg.Palette[0] != "green" {
		t.Errorf("palette = %v, expected [green]", cfg.Palette)
	}
}

func TestApplyOverrides(t *testing.T) {
	cfg := DefaultBallsConfig()
	if err := ApplyOverrides(&cfg, PresetSmall, Overrides{Width: 6, Colors: 3}); err != nil {
		t.Fatalf("ApplyOverrides() error = %v", err)
	}
	p := cfg.Presets[PresetSmall]
	if p.Width != 6 || p.Height != 8 || p.Colors != 3 {
		t.Errorf("small = %+v, expected 6x8 with 3 colors", p)
	}

	before := cfg.Presets[PresetSmall]
	if err := ApplyOverrides(&cfg, PresetSmall, Overrides{Colors: 12}); !errors.Is(err, ErrInvalid) {
		t.Errorf("ApplyOverrides(12 colors) = %v, expected ErrInvalid", err)
	}
	if cfg.Presets[PresetSmall] != before {
		t.Error("failed override should leave the config untouched")
	}

	if err := ApplyOverrides(&cfg, "huge", Overrides{}); err == nil {
		t.Error("unknown preset should fail")
	}
}

func TestColorByName(t *testing.T) {
	if c, ok := ColorByName("blue"); !ok || c != core.ColorBlue {
		t.Errorf("ColorByName(blue) = %d, %v", c, ok)
	}
	if _, ok := ColorByName("mauve"); ok {
		t.Error("ColorByName(mauve) should fail")
	}

	got := DefaultBallsConfig().ScreenColors()
	want := []core.Color{core.ColorRed, core.ColorYellow, core.ColorBlue, core.ColorGreen}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ScreenColors()[%d] = %d, expected %d", i, got[i], want[i])
		}
	}

	if c, _ := ColorByName("orange"); c.Bright() != core.ColorBrightWhite {
		t.Error("orange should highlight as bright white")
	}
}
