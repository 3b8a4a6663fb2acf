package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-balls/internal/logging"
	"github.com/vovakirdan/tui-balls/internal/session"
	"github.com/vovakirdan/tui-balls/internal/storage"
	"github.com/vovakirdan/tui-balls/internal/transport/httpapi"
	"github.com/vovakirdan/tui-balls/internal/transport/mcp"
	"github.com/vovakirdan/tui-balls/internal/transport/websocket"
)

var (
	flagAddr       string
	flagSessionTTL time.Duration
	flagNoMCP      bool
)

var webCmd = &cobra.Command{
	Use:   "web",
	Short: "Serve the browser client, REST API, WebSocket and MCP",
	Long: `Start an HTTP server for network play.

Endpoints:
  /             - Browser client
  /api/...      - REST API for sessions, scores and records
  /ws           - WebSocket, several tabs on one session stay in sync
  /mcp          - MCP JSON-RPC endpoint for AI agents
  /healthz      - Liveness

Sessions idle for longer than --session-ttl are dropped.

Examples:
  balls web
  balls web --addr 127.0.0.1:9090 --session-ttl 1h`,
	RunE: runWeb,
}

func init() {
	webCmd.Flags().StringVar(&flagAddr, "addr", ":8080", "HTTP listen address")
	webCmd.Flags().DurationVar(&flagSessionTTL, "session-ttl", 30*time.Minute, "Drop sessions idle for this long")
	webCmd.Flags().BoolVar(&flagNoMCP, "no-mcp", false, "Do not mount the /mcp endpoint")
}

// newManager builds a session manager backed by store, which may be nil.
func newManager(store *storage.Store) *session.Manager {
	opts := []session.Option{session.WithLogger(logging.New("session"))}
	if store != nil {
		opts = append(opts, session.WithBestStore(store), session.WithRecorder(store))
	}
	return session.NewManager(opts...)
}

func runWeb(_ *cobra.Command, _ []string) error {
	logger := logging.New("web")

	store := openStore()
	if store != nil {
		defer store.Close()
	}
	manager := newManager(store)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := websocket.NewHub(manager, logging.New("ws"))
	go hub.Run(ctx)
	go manager.RunSweeper(ctx, time.Minute, flagSessionTTL)

	opts := []httpapi.Option{httpapi.WithHub(hub), httpapi.WithLogger(logger)}
	if store != nil {
		opts = append(opts, httpapi.WithScores(store))
	}
	if !flagNoMCP {
		mcpServer := mcp.NewServer(manager, mcp.WithNotifier(hub))
		opts = append(opts, httpapi.WithMCP(mcpServer.HTTPHandler()))
	}

	httpServer := &http.Server{
		Addr:         flagAddr,
		Handler:      httpapi.NewServer(manager, opts...),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", flagAddr, "mcp", !flagNoMCP)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case sig := <-stop:
		logger.Info("shutting down", "signal", sig)
	case err := <-errCh:
		return err
	}

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", "error", err)
		return err
	}
	logger.Info("server stopped")
	return nil
}
