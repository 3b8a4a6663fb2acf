// Package config provides YAML-based configuration loading for the
// balls board presets and palette.
package config

import (
	"errors"
	"fmt"
	"sort"

	"github.com/vovakirdan/tui-balls/internal/core"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// Preset names shipped with the default configuration.
const (
	PresetClassic = "classic"
	PresetSmall   = "small"
	PresetLarge   = "large"
)

// BallsConfig contains all configuration for the balls game.
type BallsConfig struct {
	Palette []string               `yaml:"palette"` // color names, index = engine color
	Presets map[string]BallsPreset `yaml:"presets"`
	Scoring ScoringConfig          `yaml:"scoring"`
}

// BallsPreset defines one board size.
type BallsPreset struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`  // cells per row
	Height int    `yaml:"height"` // rows
	Colors int    `yaml:"colors"` // palette entries in use, 0 = whole palette
}

// ScoringConfig documents the removal rule. The engine only supports 2.
type ScoringConfig struct {
	MinCluster int `yaml:"min_cluster"`
}

// ColorsFor returns the effective palette size of a preset.
func (c BallsConfig) ColorsFor(p BallsPreset) int {
	if p.Colors == 0 {
		return len(c.Palette)
	}
	return p.Colors
}

// Preset returns a preset by name.
func (c BallsConfig) Preset(name string) (BallsPreset, error) {
	p, ok := c.Presets[name]
	if !ok {
		return BallsPreset{}, fmt.Errorf("config: unknown preset %q: %w", name, ErrInvalid)
	}
	return p, nil
}

// PresetNames returns preset names sorted alphabetically.
func (c BallsConfig) PresetNames() []string {
	names := make([]string, 0, len(c.Presets))
	for name := range c.Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate checks the configuration for values the engine would reject.
func (c BallsConfig) Validate() error {
	if len(c.Palette) == 0 {
		return fmt.Errorf("config: empty palette: %w", ErrInvalid)
	}
	for _, name := range c.Palette {
		if _, ok := ColorByName(name); !ok {
			return fmt.Errorf("config: unknown color %q: %w", name, ErrInvalid)
		}
	}
	if c.Scoring.MinCluster != 2 {
		return fmt.Errorf("config: min_cluster must be 2, got %d: %w", c.Scoring.MinCluster, ErrInvalid)
	}
	if len(c.Presets) == 0 {
		return fmt.Errorf("config: no presets: %w", ErrInvalid)
	}
	for _, name := range c.PresetNames() {
		p := c.Presets[name]
		if p.Width <= 0 || p.Height <= 0 {
			return fmt.Errorf("config: preset %q: size %dx%d: %w", name, p.Width, p.Height, ErrInvalid)
		}
		if n := c.ColorsFor(p); n < 1 || n > len(c.Palette) {
			return fmt.Errorf("config: preset %q: %d colors with a palette of %d: %w", name, n, len(c.Palette), ErrInvalid)
		}
	}
	return nil
}

// ScreenColors maps the palette to screen colors, in engine color order.
func (c BallsConfig) ScreenColors() []core.Color {
	out := make([]core.Color, len(c.Palette))
	for i, name := range c.Palette {
		out[i], _ = ColorByName(name)
	}
	return out
}

// ColorByName maps a palette name to a screen color.
func ColorByName(name string) (core.Color, bool) {
	return core.ParseColor(name)
}
