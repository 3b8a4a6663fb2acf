package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-balls/internal/config"
	"github.com/vovakirdan/tui-balls/internal/games/balls"
	"github.com/vovakirdan/tui-balls/internal/platform/tui"
)

var (
	flagWidth  int
	flagHeight int
	flagColors int
)

var playCmd = &cobra.Command{
	Use:   "play [variant]",
	Short: "Play a board",
	Long: `Start playing the given board variant (default: balls).

Controls:
  Arrows/hjkl  - Move the cursor
  Enter/Space  - Pop the group under the cursor
  Mouse        - Hover to preview, click to pop
  ?            - Jump to the biggest group
  P            - Pause
  R            - New board
  Q/Ctrl+C     - Quit

Examples:
  balls play
  balls play balls_large
  balls play --seed 42
  balls play --width 12 --height 8 --colors 3`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlay,
}

func init() {
	playCmd.Flags().IntVar(&flagWidth, "width", 0, "Override board width")
	playCmd.Flags().IntVar(&flagHeight, "height", 0, "Override board height")
	playCmd.Flags().IntVar(&flagColors, "colors", 0, "Override number of colors")
}

func runPlay(_ *cobra.Command, args []string) error {
	variantID := "balls"
	if len(args) == 1 {
		variantID = args[0]
	}

	v, ok := balls.VariantByID(variantID)
	if !ok {
		return fmt.Errorf("unknown board %q, run 'balls list' to see available boards", variantID)
	}

	cfg := config.Active()
	overrides := config.Overrides{Width: flagWidth, Height: flagHeight, Colors: flagColors}
	if err := config.ApplyOverrides(&cfg, v.Preset, overrides); err != nil {
		return err
	}
	config.SetActive(cfg)

	store := openStore()
	if store != nil {
		defer store.Close()
	}
	return tui.Run(balls.New(v), store, runtimeConfig())
}
