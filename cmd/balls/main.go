// balls is a tile-matching puzzle for the terminal, the browser and AI
// agents.
//
// Usage:
//
//	balls list               - List board variants
//	balls play [variant]     - Play a board in the terminal
//	balls menu               - Pick boards interactively
//	balls serve              - Start SSH server for remote play
//	balls web                - Start the HTTP, WebSocket and MCP server
//	balls mcp                - Serve MCP tools on stdio
//	balls scores [variant]   - Show high scores and recent games
//	balls replay <record>    - Replay a recorded game and verify its score
//
// Global flags:
//
//	--fps <rate>         - Set tick rate (default: 30)
//	--seed <value>       - Set RNG seed for reproducible boards
//	--db <path>          - Set database path (default: ~/.balls/scores.db)
//	--config <path>      - Load a custom balls.yaml
//	--log-level <level>  - debug, info, warn or error
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-balls/internal/config"
	_ "github.com/vovakirdan/tui-balls/internal/games/balls" // registers the variants
	"github.com/vovakirdan/tui-balls/internal/logging"
)

var (
	// Global flags
	flagFPS      int
	flagSeed     int64
	flagDBPath   string
	flagConfig   string
	flagLogLevel string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "balls",
	Short: "Balls - clear the board by popping clusters of colored balls",
	Long: `Balls is a tile-matching puzzle. Pick a group of two or more
touching balls of one color to pop it; a group of n balls scores n*(n-1).
The balls close up after every pop. Clear the board to win; the game is
lost when no group of two is left.

Available commands:
  list     - Show board variants
  play     - Play a board directly
  menu     - Interactive board picker
  serve    - Start SSH server for remote play
  web      - Serve the browser client, REST API, WebSocket and MCP
  mcp      - Serve MCP tools on stdio
  scores   - View high scores and recent games
  replay   - Replay a recorded game

Examples:
  balls play
  balls play balls_small --seed 42
  balls menu
  balls web --addr :8080
  balls serve --ssh :2222`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 30, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.balls/scores.db", "Path to scores database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom balls.yaml")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(webCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(replayCmd)
}

// setup applies the global flags before any command runs.
func setup(_ *cobra.Command, _ []string) error {
	if err := logging.SetLevel(flagLogLevel); err != nil {
		return err
	}
	if flagFPS <= 0 {
		return fmt.Errorf("--fps must be positive, got %d", flagFPS)
	}

	cfg, err := config.LoadBalls(flagConfig)
	if err != nil {
		return err
	}
	config.SetActive(cfg)
	return nil
}
