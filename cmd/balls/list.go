package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-balls/internal/config"
	"github.com/vovakirdan/tui-balls/internal/games/balls"
	"github.com/vovakirdan/tui-balls/internal/storage"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List board variants",
	Long:  `Shows every board variant with its size, number of colors and how often it was played.`,
	Run:   runList,
}

func runList(_ *cobra.Command, _ []string) {
	cfg := config.Active()

	played := map[string]*storage.GameStats{}
	if store := openStore(); store != nil {
		if all, err := store.GetAllGamesStats(); err == nil {
			played = all
		}
		store.Close()
	}

	fmt.Println("Available boards:")
	fmt.Println()
	fmt.Printf("  %-12s  %-16s  %-7s  %-6s  %s\n", "ID", "Title", "Size", "Colors", "Played")
	fmt.Printf("  %-12s  %-16s  %-7s  %-6s  %s\n", "--", "-----", "----", "------", "------")

	for _, v := range balls.Variants {
		p, err := cfg.Preset(v.Preset)
		if err != nil {
			fmt.Printf("  %-12s  %-16s  %s\n", v.ID, v.Title, err)
			continue
		}
		size := fmt.Sprintf("%dx%d", p.Width, p.Height)
		games := 0
		if st, ok := played[v.ID]; ok {
			games = st.GamesCount
		}
		fmt.Printf("  %-12s  %-16s  %-7s  %-6d  %d\n", v.ID, v.Title, size, cfg.ColorsFor(p), games)
	}

	fmt.Println()
	fmt.Println("Run 'balls play <id>' to play a board.")
}
