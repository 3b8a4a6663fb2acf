// Package mcp exposes balls sessions to AI agents over the Model Context
// Protocol using mark3labs/mcp-go.
//
// Tools:
//   - new_game: start a session of a variant, optionally seeded
//   - list_sessions: list active sessions
//   - game_state: board, score and state of a session
//   - cluster_at: cluster under a coordinate and what removing it scores
//   - remove_at: remove the cluster under a coordinate
//   - list_clusters: every removable cluster, largest first
//   - hint: the largest removable cluster
//   - game_rules: how the game is played
//
// The server runs in-process against a session.Manager. It is served over
// stdio with ServeStdio or mounted on an HTTP router with HTTPHandler.
package mcp
