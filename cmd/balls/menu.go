package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-balls/internal/core"
	"github.com/vovakirdan/tui-balls/internal/logging"
	"github.com/vovakirdan/tui-balls/internal/platform/tui"
	"github.com/vovakirdan/tui-balls/internal/registry"
	"github.com/vovakirdan/tui-balls/internal/storage"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Pick boards from a menu",
	Long: `Start in interactive menu mode.

Use arrow keys, j/k or 1-9 to choose a board, Enter or a click to play,
Tab for the scoreboard. Leaving a board returns to the menu.

Examples:
  balls menu
  balls menu --db ./scores.db`,
	RunE: runMenu,
}

func runMenu(_ *cobra.Command, _ []string) error {
	store := openStore()
	if store != nil {
		defer store.Close()
	}
	return menuLoop(store, runtimeConfig())
}

// menuLoop alternates between the picker and whatever it opens until
// the player quits. A board that fails to start is logged and the
// picker comes back.
func menuLoop(store *storage.Store, cfg core.RuntimeConfig) error {
	logger := logging.New("menu")
	for {
		choice, err := tui.RunMenu(store, cfg)
		if err != nil {
			return fmt.Errorf("menu: %w", err)
		}
		cfg = choice.Config

		switch {
		case choice.Quit:
			return nil

		case choice.WantsScoreboard:
			back, err := tui.RunScoreboard(store, cfg.ScreenW, cfg.ScreenH)
			if err != nil {
				return fmt.Errorf("scoreboard: %w", err)
			}
			if !back {
				return nil
			}

		default:
			game, err := registry.Create(choice.GameID)
			if err != nil {
				logger.Error("cannot start board", "board", choice.GameID, "error", err)
				continue
			}
			if err := tui.Run(game, store, cfg); err != nil {
				logger.Error("board stopped", "board", choice.GameID, "error", err)
			}
		}
	}
}
