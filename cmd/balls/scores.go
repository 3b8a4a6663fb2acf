package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-balls/internal/games/balls"
	"github.com/vovakirdan/tui-balls/internal/storage"
)

var (
	flagRecords int
	flagClear   bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores [variant]",
	Short: "Show high scores and recent games",
	Long: `Display the best score and the top 10 scores for a board variant
(default: balls), followed by the most recent recorded games.

Examples:
  balls scores
  balls scores balls_small --records 20
  balls scores balls_large --clear`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagRecords, "records", 5, "Number of recent games to list (0 hides them)")
	scoresCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete the board's scores, best and recorded games")
}

func runScores(_ *cobra.Command, args []string) error {
	variantID := "balls"
	if len(args) == 1 {
		variantID = args[0]
	}
	v, ok := balls.VariantByID(variantID)
	if !ok {
		return fmt.Errorf("unknown board %q, run 'balls list' to see available boards", variantID)
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("opening scores database: %w", err)
	}
	defer store.Close()

	if flagClear {
		if err := store.ClearScores(v.ID); err != nil {
			return err
		}
		fmt.Printf("Cleared the history of %s.\n", v.Title)
		return nil
	}

	scores, err := store.TopScores(v.ID, 10)
	if err != nil {
		return fmt.Errorf("retrieving scores: %w", err)
	}
	best, _, err := store.ReadBest(v.ID)
	if err != nil {
		return fmt.Errorf("retrieving best score: %w", err)
	}

	fmt.Printf("High Scores - %s\n", v.Title)
	fmt.Println()
	fmt.Printf("Best: %d\n", best)
	fmt.Println()

	if len(scores) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Printf("Play 'balls play %s' to set the first high score!\n", v.ID)
		return nil
	}

	fmt.Printf("  %-4s  %-10s  %s\n", "Rank", "Score", "Date")
	fmt.Printf("  %-4s  %-10s  %s\n", "----", "-----", "----")
	for i, entry := range scores {
		fmt.Printf("  %-4d  %-10d  %s\n", i+1, entry.Score, entry.CreatedAt.Format("2006-01-02 15:04"))
	}

	if flagRecords <= 0 {
		return nil
	}
	records, err := store.RecentGameRecords(v.ID, flagRecords)
	if err != nil {
		return fmt.Errorf("retrieving records: %w", err)
	}
	if len(records) == 0 {
		return nil
	}

	fmt.Println()
	fmt.Println("Recent games:")
	fmt.Printf("  %-6s  %-8s  %-7s  %-6s  %-6s  %s\n", "Record", "Outcome", "Score", "Moves", "Time", "Date")
	for _, r := range records {
		fmt.Printf("  %-6d  %-8s  %-7d  %-6d  %-6s  %s\n",
			r.ID, r.Outcome, r.Score, len(r.Moves), fmt.Sprintf("%ds", r.Duration), r.CreatedAt.Format("2006-01-02 15:04"))
	}
	fmt.Println()
	fmt.Println("Run 'balls replay <record>' to replay a game.")
	return nil
}
