package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/vovakirdan/tui-balls/internal/games/balls"
	bcore "github.com/vovakirdan/tui-balls/internal/games/balls/core"
	"github.com/vovakirdan/tui-balls/internal/session"
)

const (
	serverName    = "Balls"
	serverVersion = "1.0.0"

	defaultVariant      = "balls"
	defaultClusterLimit = 10
)

const rules = `BALLS

The board is a grid of colored balls. Coordinates are (x, y) with x the
column and y the row, (0, 0) at the top left.

- A cluster is a group of same-colored balls joined horizontally or
  vertically. Only clusters of two or more balls can be removed.
- Removing a cluster of n balls scores n*(n-1).
- After a removal, the balls right of a gap in a row slide left to close
  it, and rows left empty are deleted so the rows below move up. Rows
  can therefore end up with different lengths.
- Clear the whole board to win. The game is lost when balls remain but
  no cluster of two or more is left.

Use cluster_at to preview a move, remove_at to play it, and hint or
list_clusters to find good moves. Large clusters score much more than
several small ones.`

// Notifier is told when a session changes so other clients can refresh.
type Notifier interface {
	BroadcastState(s *session.Session)
}

// Server is an MCP server bound to a session manager.
type Server struct {
	manager   *session.Manager
	notifier  Notifier
	mcpServer *server.MCPServer
}

// Option configures a Server.
type Option func(*Server)

// WithNotifier broadcasts removals made through MCP.
func WithNotifier(n Notifier) Option {
	return func(s *Server) { s.notifier = n }
}

// NewServer creates an MCP server with every tool registered.
func NewServer(manager *session.Manager, opts ...Option) *Server {
	s := &Server{manager: manager}
	for _, opt := range opts {
		opt(s)
	}

	s.mcpServer = server.NewMCPServer(
		serverName,
		serverVersion,
		server.WithToolCapabilities(true),
		server.WithInstructions(`Balls - MCP Interface

Clear a grid of colored balls by removing clusters of two or more
same-colored neighbours. Call new_game first, then play with the
returned session_id. Call game_rules for the full rules.`),
	)
	s.registerTools()
	return s
}

// MCPServer returns the underlying mcp-go server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio serves the tools on stdin and stdout until the client
// disconnects.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// HTTPHandler answers JSON-RPC messages posted to it.
func (s *Server) HTTPHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		response := s.mcpServer.HandleMessage(r.Context(), body)
		if response == nil {
			w.WriteHeader(http.StatusAccepted)
			return
		}

		responseData, err := json.Marshal(response)
		if err != nil {
			http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(responseData)
	})
}

func sessionProp() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Session ID returned by new_game",
	}
}

func coordProps() map[string]interface{} {
	return map[string]interface{}{
		"session_id": sessionProp(),
		"x": map[string]interface{}{
			"type":        "integer",
			"description": "Column, 0 is the leftmost",
		},
		"y": map[string]interface{}{
			"type":        "integer",
			"description": "Row, 0 is the top",
		},
	}
}

func (s *Server) registerTools() {
	variantIDs := make([]string, len(balls.Variants))
	for i, v := range balls.Variants {
		variantIDs[i] = v.ID
	}

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "new_game",
		Description: "Start a new game and return its session ID and board",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"variant": map[string]interface{}{
					"type":        "string",
					"description": "Board variant: " + strings.Join(variantIDs, ", ") + " (default balls)",
				},
				"seed": map[string]interface{}{
					"type":        "integer",
					"description": "Seed for a reproducible board (optional)",
				},
			},
		},
	}, s.handleNewGame)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List active game sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, s.handleListSessions)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "game_state",
		Description: "Show the board, score and state of a session",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"session_id": sessionProp()},
			Required:   []string{"session_id"},
		},
	}, s.handleGameState)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "cluster_at",
		Description: "Show the cluster containing (x, y) and the score for removing it",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: coordProps(),
			Required:   []string{"session_id", "x", "y"},
		},
	}, s.handleClusterAt)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "remove_at",
		Description: "Remove the cluster containing (x, y). Singletons are not removed.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: coordProps(),
			Required:   []string{"session_id", "x", "y"},
		},
	}, s.handleRemoveAt)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "list_clusters",
		Description: "List removable clusters, largest first",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProp(),
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum clusters to list (default 10)",
				},
			},
			Required: []string{"session_id"},
		},
	}, s.handleListClusters)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "hint",
		Description: "Suggest the largest removable cluster",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"session_id": sessionProp()},
			Required:   []string{"session_id"},
		},
	}, s.handleHint)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "game_rules",
		Description: "Explain the rules and scoring",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, s.handleRules)
}

func arguments(request mcp.CallToolRequest) map[string]interface{} {
	args, _ := request.Params.Arguments.(map[string]interface{})
	if args == nil {
		return map[string]interface{}{}
	}
	return args
}

// intArg reads a whole number. JSON numbers arrive as float64.
func intArg(args map[string]interface{}, key string) (int, error) {
	switch v := args[key].(type) {
	case float64:
		if v != float64(int(v)) {
			return 0, fmt.Errorf("%s must be a whole number", key)
		}
		return int(v), nil
	case int:
		return v, nil
	case nil:
		return 0, fmt.Errorf("%s is required", key)
	default:
		return 0, fmt.Errorf("%s must be a number", key)
	}
}

func (s *Server) session(args map[string]interface{}) (*session.Session, error) {
	id, _ := args["session_id"].(string)
	if id == "" {
		return nil, fmt.Errorf("session_id is required")
	}
	return s.manager.Get(id)
}

func (s *Server) handleNewGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	variant, _ := args["variant"].(string)
	if variant == "" {
		variant = defaultVariant
	}
	var seed int64
	if v, ok := args["seed"].(float64); ok {
		seed = int64(v)
	}

	sess, err := s.manager.Create(variant, seed)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	v := sess.View()
	result := fmt.Sprintf("Created session: %s\nVariant: %s\nSeed: %d\n\n%s", sess.ID, sess.GameID, sess.Seed, v.Board())
	return mcp.NewToolResultText(result), nil
}

func (s *Server) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	list := s.manager.List()
	if len(list) == 0 {
		return mcp.NewToolResultText("No active sessions"), nil
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d active session(s):\n", len(list))
	for _, sess := range list {
		v := sess.View()
		fmt.Fprintf(&sb, "- %s  %s  score %d  %s\n", sess.ID, sess.GameID, v.Score, v.State)
	}
	return mcp.NewToolResultText(sb.String()), nil
}

func (s *Server) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess, err := s.session(arguments(request))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	v := sess.View()
	return mcp.NewToolResultText(formatState(v)), nil
}

func (s *Server) handleClusterAt(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sess, err := s.session(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	x, y, err := coords(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	v, err := sess.Preview(x, y)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	p := v.Preview
	var sb strings.Builder
	fmt.Fprintf(&sb, "Cluster at (%d, %d): %d %s ball(s)\n", x, y, len(p.Cluster), colorName(v, x, y))
	if p.Score == 0 {
		sb.WriteString("Not removable: a cluster needs at least two balls.\n")
	} else {
		fmt.Fprintf(&sb, "Removing it scores %d.\n", p.Score)
	}
	fmt.Fprintf(&sb, "Cells: %s", formatCells(p.Cluster))
	return mcp.NewToolResultText(sb.String()), nil
}

func (s *Server) handleRemoveAt(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sess, err := s.session(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	x, y, err := coords(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	res, err := sess.RemoveAt(x, y)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	v := sess.View()
	if !res.Changed() {
		return mcp.NewToolResultText(fmt.Sprintf("Nothing removed: the ball at (%d, %d) has no same-colored neighbour.\n\n%s", x, y, formatState(v))), nil
	}
	if s.notifier != nil {
		s.notifier.BroadcastState(sess)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Removed %d ball(s) for %d points. Score: %d\n", len(res.Removed), res.ScoreDelta, res.TotalScore)
	switch res.Outcome {
	case bcore.OutcomeWin:
		sb.WriteString("Board cleared. You win!\n")
	case bcore.OutcomeLoss:
		sb.WriteString("No moves left. Game over.\n")
	}
	sb.WriteString("\n")
	sb.WriteString(formatState(v))
	return mcp.NewToolResultText(sb.String()), nil
}

func (s *Server) handleListClusters(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sess, err := s.session(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	limit := defaultClusterLimit
	if l, err := intArg(args, "limit"); err == nil && l > 0 {
		limit = l
	}

	clusters := sess.Clusters()
	if len(clusters) == 0 {
		return mcp.NewToolResultText("No removable clusters."), nil
	}
	// Stable keeps row-major order among equal sizes.
	slices.SortStableFunc(clusters, func(a, b bcore.Cluster) int {
		return len(b) - len(a)
	})

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d removable cluster(s)", len(clusters))
	if len(clusters) > limit {
		fmt.Fprintf(&sb, ", showing %d", limit)
		clusters = clusters[:limit]
	}
	sb.WriteString(":\n")
	for _, c := range clusters {
		fmt.Fprintf(&sb, "- at (%d, %d): %d balls, %d points\n", c[0].X, c[0].Y, len(c), bcore.PreviewScore(c))
	}
	return mcp.NewToolResultText(sb.String()), nil
}

func (s *Server) handleHint(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess, err := s.session(arguments(request))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	c, ok := sess.Hint()
	if !ok {
		return mcp.NewToolResultText("No removable cluster."), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Try (%d, %d): %d balls for %d points.", c[0].X, c[0].Y, len(c), bcore.PreviewScore(c))), nil
}

func (s *Server) handleRules(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(rules), nil
}

func coords(args map[string]interface{}) (int, int, error) {
	x, err := intArg(args, "x")
	if err != nil {
		return 0, 0, err
	}
	y, err := intArg(args, "y")
	if err != nil {
		return 0, 0, err
	}
	return x, y, nil
}

func formatState(v session.View) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Session: %s (%s)\n", v.ID, v.GameID)
	sb.WriteString("Colors: ")
	for i, name := range v.Palette {
		if i > 0 {
			sb.WriteString(", ")
		}
		if name == "" {
			fmt.Fprintf(&sb, "%d", i)
			continue
		}
		fmt.Fprintf(&sb, "%s=%s", strings.ToUpper(name[:1]), name)
	}
	sb.WriteString("\n\n")
	sb.WriteString(v.Board())
	sb.WriteString("\n")
	return sb.String()
}

func formatCells(cells [][2]int) string {
	parts := make([]string, len(cells))
	for i, c := range cells {
		parts[i] = fmt.Sprintf("(%d, %d)", c[0], c[1])
	}
	return strings.Join(parts, " ")
}

func colorName(v session.View, x, y int) string {
	c := v.Rows[y][x]
	if c >= 0 && c < len(v.Palette) {
		return v.Palette[c]
	}
	return fmt.Sprint(c)
}
