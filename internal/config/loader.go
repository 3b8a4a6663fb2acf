package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

const fileName = "balls.yaml"

// LoadBalls loads the balls configuration.
// Search order: customPath -> ~/.balls/configs/balls.yaml -> ./configs/balls.yaml -> embedded default
func LoadBalls(customPath string) (BallsConfig, error) {
	var cfg BallsConfig

	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("config: read %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("config: parse %s: %w", customPath, err)
		}
		if err := cfg.Validate(); err != nil {
			return cfg, fmt.Errorf("config: %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory, then local configs directory
	candidates := []string{userConfigPath(fileName), filepath.Join("configs", fileName)}
	for _, path := range candidates {
		if path == "" {
			continue
		}
		if c, ok := tryLoad(path); ok {
			return c, nil
		}
	}

	// Use embedded default YAML
	if err := yaml.Unmarshal(defaultBallsYAML, &cfg); err != nil || cfg.Validate() != nil {
		return DefaultBallsConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// tryLoad reads an optional config file. Unreadable or invalid files are skipped.
func tryLoad(path string) (BallsConfig, bool) {
	var cfg BallsConfig
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, false
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, false
	}
	if err := cfg.Validate(); err != nil {
		return cfg, false
	}
	return cfg, true
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".balls", "configs", filename)
}

// Overrides are command-line adjustments applied to one preset.
// Zero fields keep the preset value.
type Overrides struct {
	Width  int
	Height int
	Colors int
}

// ApplyOverrides modifies a preset in place and re-validates the config.
func ApplyOverrides(cfg *BallsConfig, preset string, o Overrides) error {
	p, err := cfg.Preset(preset)
	if err != nil {
		return err
	}
	if o.Width != 0 {
		p.Width = o.Width
	}
	if o.Height != 0 {
		p.Height = o.Height
	}
	if o.Colors != 0 {
		p.Colors = o.Colors
	}

	presets := make(map[string]BallsPreset, len(cfg.Presets))
	for k, v := range cfg.Presets {
		presets[k] = v
	}
	presets[preset] = p
	next := *cfg
	next.Presets = presets
	if err := next.Validate(); err != nil {
		return err
	}
	*cfg = next
	return nil
}

var (
	activeMu  sync.RWMutex
	active    BallsConfig
	activeSet bool
)

// SetActive installs the configuration used by game factories.
func SetActive(cfg BallsConfig) {
	activeMu.Lock()
	defer activeMu.Unlock()
	active = cfg
	activeSet = true
}

// Active returns the configuration installed with SetActive, or the
// embedded default when none was installed.
func Active() BallsConfig {
	activeMu.RLock()
	if activeSet {
		defer activeMu.RUnlock()
		return active
	}
	activeMu.RUnlock()

	cfg, _ := LoadBalls("")
	return cfg
}
