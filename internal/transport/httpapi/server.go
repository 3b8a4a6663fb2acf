package httpapi

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/gorilla/mux"

	"github.com/vovakirdan/tui-balls/internal/games/balls"
	bcore "github.com/vovakirdan/tui-balls/internal/games/balls/core"
	"github.com/vovakirdan/tui-balls/internal/session"
	"github.com/vovakirdan/tui-balls/internal/storage"
	"github.com/vovakirdan/tui-balls/internal/transport/websocket"
)

//go:embed static
var staticFiles embed.FS

const (
	defaultVariant = "balls"
	defaultLimit   = 10
	maxLimit       = 100
	timeFormat     = "2006-01-02T15:04:05Z"
)

// Scores is the read side of the score database.
type Scores interface {
	ReadBest(gameID string) (int, bool, error)
	TopScores(gameID string, limit int) ([]storage.ScoreEntry, error)
	RecentGameRecords(gameID string, limit int) ([]storage.GameRecord, error)
	GameRecordByID(id int64) (storage.GameRecord, error)
}

// Server represents the REST API server.
type Server struct {
	manager *session.Manager
	hub     *websocket.Hub
	scores  Scores
	mcp     http.Handler
	logger  *log.Logger
	router  *mux.Router
}

// Option configures a Server.
type Option func(*Server)

// WithHub mounts the WebSocket hub at /ws and broadcasts REST removals
// through it.
func WithHub(h *websocket.Hub) Option {
	return func(s *Server) { s.hub = h }
}

// WithScores enables the score and record routes.
func WithScores(sc Scores) Option {
	return func(s *Server) { s.scores = sc }
}

// WithMCP mounts an MCP JSON-RPC handler at /mcp.
func WithMCP(h http.Handler) Option {
	return func(s *Server) { s.mcp = h }
}

// WithLogger sets the request logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// NewServer creates a new API server.
func NewServer(manager *session.Manager, opts ...Option) *Server {
	s := &Server{
		manager: manager,
		logger:  log.Default(),
		router:  mux.NewRouter(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/sessions", s.handleCreateSession).Methods("POST")
	api.HandleFunc("/sessions", s.handleListSessions).Methods("GET")
	api.HandleFunc("/sessions/{id}", s.handleGetSession).Methods("GET")
	api.HandleFunc("/sessions/{id}", s.handleDeleteSession).Methods("DELETE")
	api.HandleFunc("/sessions/{id}/cluster", s.handleCluster).Methods("GET")
	api.HandleFunc("/sessions/{id}/remove", s.handleRemove).Methods("POST")
	api.HandleFunc("/sessions/{id}/clusters", s.handleClusters).Methods("GET")
	api.HandleFunc("/sessions/{id}/hint", s.handleHint).Methods("GET")

	api.HandleFunc("/variants", s.handleVariants).Methods("GET")
	api.HandleFunc("/scores/{game}", s.handleScores).Methods("GET")
	api.HandleFunc("/records", s.handleRecords).Methods("GET")
	api.HandleFunc("/records/{rid:[0-9]+}", s.handleRecord).Methods("GET")

	if s.hub != nil {
		s.router.HandleFunc("/ws", s.hub.ServeWS)
	}
	if s.mcp != nil {
		s.router.Handle("/mcp", s.mcp).Methods("POST")
	}
	s.router.HandleFunc("/healthz", s.handleHealth).Methods("GET")

	static, _ := fs.Sub(staticFiles, "static")
	s.router.PathPrefix("/").Handler(http.FileServer(http.FS(static)))
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// statusOf maps domain errors to HTTP status codes.
func statusOf(err error) int {
	switch {
	case errors.Is(err, session.ErrSessionNotFound), errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, session.ErrUnknownVariant), errors.Is(err, bcore.ErrConfiguration):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess, err := s.manager.Get(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, statusOf(err), err.Error())
		return nil, false
	}
	return sess, true
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Variant string `json:"variant,omitempty"`
		Seed    int64  `json:"seed,omitempty"`
	}
	if r.Body != nil {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			respondError(w, http.StatusBadRequest, "malformed request body")
			return
		}
	}
	if req.Variant == "" {
		req.Variant = defaultVariant
	}

	sess, err := s.manager.Create(req.Variant, req.Seed)
	if err != nil {
		respondError(w, statusOf(err), err.Error())
		return
	}
	s.logger.Info("session created", "id", sess.ID, "variant", sess.GameID, "seed", sess.Seed)
	respondJSON(w, http.StatusCreated, sess.View())
}

type sessionSummary struct {
	ID        string `json:"id"`
	GameID    string `json:"game_id"`
	Seed      int64  `json:"seed"`
	CreatedAt string `json:"created_at"`
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	list := s.manager.List()
	out := make([]sessionSummary, len(list))
	for i, sess := range list {
		out[i] = sessionSummary{
			ID:        sess.ID,
			GameID:    sess.GameID,
			Seed:      sess.Seed,
			CreatedAt: sess.CreatedAt.UTC().Format(timeFormat),
		}
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"count":    len(out),
		"sessions": out,
	})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, sess.View())
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := s.manager.Delete(id); err != nil {
		respondError(w, statusOf(err), err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Session %s deleted", id),
	})
}

// coord reads x and y query parameters.
func coord(r *http.Request) (int, int, error) {
	q := r.URL.Query()
	x, err := strconv.Atoi(q.Get("x"))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid x %q", q.Get("x"))
	}
	y, err := strconv.Atoi(q.Get("y"))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid y %q", q.Get("y"))
	}
	return x, y, nil
}

func (s *Server) handleCluster(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	x, y, err := coord(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	v, err := sess.Preview(x, y)
	if err != nil {
		respondError(w, statusOf(err), err.Error())
		return
	}
	respondJSON(w, http.StatusOK, v)
}

// RemoveResponse is the body returned by a removal.
type RemoveResponse struct {
	View   session.View       `json:"view"`
	Result *websocket.Removal `json:"result"`
}

func (s *Server) handleRemove(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	var req struct {
		X *int `json:"x"`
		Y *int `json:"y"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.X == nil || req.Y == nil {
		respondError(w, http.StatusBadRequest, "request body needs x and y")
		return
	}

	res, err := sess.RemoveAt(*req.X, *req.Y)
	if err != nil {
		respondError(w, statusOf(err), err.Error())
		return
	}

	resp := RemoveResponse{View: sess.View(), Result: websocket.NewRemoval(res)}
	if s.hub != nil && res.Changed() {
		s.hub.Broadcast(sess.ID, websocket.Message{
			Event:     websocket.EventRemoved,
			SessionID: sess.ID,
			View:      &resp.View,
			Result:    resp.Result,
		})
	}
	respondJSON(w, http.StatusOK, resp)
}

// ClusterInfo is one removable cluster.
type ClusterInfo struct {
	Origin [2]int   `json:"origin"`
	Size   int      `json:"size"`
	Score  int      `json:"score"`
	Cells  [][2]int `json:"cells"`
}

func newClusterInfo(c bcore.Cluster) ClusterInfo {
	cells := make([][2]int, len(c))
	for i, p := range c {
		cells[i] = [2]int{p.X, p.Y}
	}
	return ClusterInfo{Origin: cells[0], Size: len(c), Score: bcore.PreviewScore(c), Cells: cells}
}

func (s *Server) handleClusters(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	clusters := sess.Clusters()
	out := make([]ClusterInfo, len(clusters))
	for i, c := range clusters {
		out[i] = newClusterInfo(c)
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"count":    len(out),
		"clusters": out,
	})
}

func (s *Server) handleHint(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	c, found := sess.Hint()
	if !found {
		respondError(w, http.StatusNotFound, "no removable cluster")
		return
	}
	respondJSON(w, http.StatusOK, newClusterInfo(c))
}

type variantInfo struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Preset string `json:"preset"`
}

func (s *Server) handleVariants(w http.ResponseWriter, r *http.Request) {
	out := make([]variantInfo, len(balls.Variants))
	for i, v := range balls.Variants {
		out[i] = variantInfo{ID: v.ID, Title: v.Title, Preset: v.Preset}
	}
	respondJSON(w, http.StatusOK, out)
}

func limitParam(r *http.Request) int {
	limit := defaultLimit
	if l, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && l > 0 {
		limit = min(l, maxLimit)
	}
	return limit
}

type scoreInfo struct {
	Score     int    `json:"score"`
	CreatedAt string `json:"created_at"`
}

func (s *Server) handleScores(w http.ResponseWriter, r *http.Request) {
	if s.scores == nil {
		respondError(w, http.StatusServiceUnavailable, "scores are not enabled")
		return
	}
	game := mux.Vars(r)["game"]
	if _, ok := balls.VariantByID(game); !ok {
		respondError(w, http.StatusNotFound, fmt.Sprintf("unknown game %q", game))
		return
	}

	best, _, err := s.scores.ReadBest(game)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	top, err := s.scores.TopScores(game, limitParam(r))
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	out := make([]scoreInfo, len(top))
	for i, e := range top {
		out[i] = scoreInfo{Score: e.Score, CreatedAt: e.CreatedAt.UTC().Format(timeFormat)}
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"game":   game,
		"best":   best,
		"scores": out,
	})
}

func (s *Server) handleRecords(w http.ResponseWriter, r *http.Request) {
	if s.scores == nil {
		respondError(w, http.StatusServiceUnavailable, "scores are not enabled")
		return
	}
	records, err := s.scores.RecentGameRecords(r.URL.Query().Get("game"), limitParam(r))
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	out := make([]recordInfo, len(records))
	for i, rec := range records {
		out[i] = recordOf(rec)
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"count":   len(out),
		"records": out,
	})
}

func (s *Server) handleRecord(w http.ResponseWriter, r *http.Request) {
	if s.scores == nil {
		respondError(w, http.StatusServiceUnavailable, "scores are not enabled")
		return
	}
	id, err := strconv.ParseInt(mux.Vars(r)["rid"], 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	rec, err := s.scores.GameRecordByID(id)
	if err != nil {
		respondError(w, statusOf(err), err.Error())
		return
	}
	info := recordOf(rec)
	info.Verified = verify(rec)
	respondJSON(w, http.StatusOK, info)
}

// verify replays a stored game and reports whether it reaches the
// recorded score.
func verify(rec storage.GameRecord) *bool {
	ok := false
	if r, err := balls.RecordFromStorage(rec); err == nil {
		_, err = r.Replay()
		ok = err == nil
	}
	return &ok
}

type recordInfo struct {
	ID        int64    `json:"id"`
	GameID    string   `json:"game_id"`
	Seed      int64    `json:"seed"`
	Width     int      `json:"width"`
	Height    int      `json:"height"`
	Colors    int      `json:"colors"`
	Layout    [][]int  `json:"layout"`
	Moves     [][2]int `json:"moves"`
	Score     int      `json:"score"`
	Outcome   string   `json:"outcome"`
	Duration  int      `json:"duration_secs"`
	CreatedAt string   `json:"created_at"`
	Verified  *bool    `json:"verified,omitempty"` // single-record lookups only
}

func recordOf(rec storage.GameRecord) recordInfo {
	return recordInfo{
		ID:        rec.ID,
		GameID:    rec.GameID,
		Seed:      rec.Seed,
		Width:     rec.Width,
		Height:    rec.Height,
		Colors:    rec.Colors,
		Layout:    rec.Layout,
		Moves:     rec.Moves,
		Score:     rec.Score,
		Outcome:   rec.Outcome,
		Duration:  rec.Duration,
		CreatedAt: rec.CreatedAt.UTC().Format(timeFormat),
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"sessions": s.manager.Count(),
	})
}
