package main

import (
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-balls/internal/transport/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve MCP tools on stdio",
	Long: `Run a Model Context Protocol server on stdin and stdout so an AI
agent can start games, inspect boards and pop clusters.

Logs go to stderr. Finished games are saved to the scores database.

Example client configuration:
  {"command": "balls", "args": ["mcp", "--log-level", "warn"]}`,
	RunE: runMCP,
}

func runMCP(_ *cobra.Command, _ []string) error {
	store := openStore()
	if store != nil {
		defer store.Close()
	}
	return mcp.NewServer(newManager(store)).ServeStdio()
}
