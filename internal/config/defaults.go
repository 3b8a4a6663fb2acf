package config

import (
	_ "embed"
)

//go:embed defaults/balls.yaml
var defaultBallsYAML []byte

// DefaultBallsConfig returns the hard-coded configuration, used when the
// embedded YAML cannot be parsed.
func DefaultBallsConfig() BallsConfig {
	return BallsConfig{
		Palette: []string{"red", "yellow", "blue", "green"},
		Presets: map[string]BallsPreset{
			PresetClassic: {Title: "Balls", Width: 20, Height: 15, Colors: 4},
			PresetSmall:   {Title: "Balls (small)", Width: 10, Height: 8, Colors: 4},
			PresetLarge:   {Title: "Balls (large)", Width: 30, Height: 20, Colors: 4},
		},
		Scoring: ScoringConfig{MinCluster: 2},
	}
}

// DefaultYAML returns the embedded default YAML.
func DefaultYAML() []byte {
	return defaultBallsYAML
}
