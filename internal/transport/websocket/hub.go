package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/tui-balls/internal/session"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 512

	defaultVariant = "balls"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Client is one WebSocket connection.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte

	mu        sync.Mutex
	sessionID string

	closed bool // send is closed; only the hub's Run loop reads or sets it
}

// SessionID returns the session the client is bound to.
func (c *Client) SessionID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sessionID
}

type envelope struct {
	sessionID string  // broadcast target, empty for a direct message
	client    *Client // direct target
	data      []byte
}

type rebind struct {
	client    *Client
	sessionID string
}

// Hub tracks clients per session. Only the Run loop touches the client
// sets and closes send channels.
type Hub struct {
	sessions map[string]map[*Client]bool

	register   chan *Client
	unregister chan *Client
	rebind     chan rebind
	outbox     chan envelope
	done       chan struct{}

	manager *session.Manager
	logger  *log.Logger
}

// NewHub creates a hub serving sessions from manager.
func NewHub(manager *session.Manager, logger *log.Logger) *Hub {
	return &Hub{
		sessions:   make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		rebind:     make(chan rebind),
		outbox:     make(chan envelope, 64),
		done:       make(chan struct{}),
		manager:    manager,
		logger:     logger,
	}
}

// Run starts the hub's event loop and returns when ctx is done.
// It must be called once.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for _, clients := range h.sessions {
				for c := range clients {
					if !c.closed {
						c.closed = true
						close(c.send)
					}
				}
			}
			h.sessions = make(map[string]map[*Client]bool)
			return

		case c := <-h.register:
			h.add(c, c.SessionID())

		case c := <-h.unregister:
			h.remove(c, true)

		case r := <-h.rebind:
			if r.client.closed {
				// Dropped while the request was in flight; readPump
				// will unregister it.
				continue
			}
			h.remove(r.client, false)
			r.client.mu.Lock()
			r.client.sessionID = r.sessionID
			r.client.mu.Unlock()
			h.add(r.client, r.sessionID)

		case e := <-h.outbox:
			h.deliver(e)
		}
	}
}

func (h *Hub) add(c *Client, sessionID string) {
	if h.sessions[sessionID] == nil {
		h.sessions[sessionID] = make(map[*Client]bool)
	}
	h.sessions[sessionID][c] = true
	h.logger.Debug("client registered", "session", sessionID, "clients", len(h.sessions[sessionID]))
}

// remove unbinds c from its session. With closeSend the client is done
// for good: its send channel is closed once and it is never re-added.
func (h *Hub) remove(c *Client, closeSend bool) {
	if closeSend && !c.closed {
		c.closed = true
		close(c.send)
	}

	sessionID := c.SessionID()
	clients, ok := h.sessions[sessionID]
	if !ok || !clients[c] {
		return
	}
	delete(clients, c)
	if len(clients) == 0 {
		delete(h.sessions, sessionID)
	}
	h.logger.Debug("client unregistered", "session", sessionID, "clients", len(clients))
}

func (h *Hub) deliver(e envelope) {
	if e.client != nil {
		if h.sessions[e.client.SessionID()][e.client] {
			h.push(e.client, e.data)
		}
		return
	}
	for c := range h.sessions[e.sessionID] {
		h.push(c, e.data)
	}
}

// push queues data for a client, dropping clients that cannot keep up.
func (h *Hub) push(c *Client, data []byte) {
	select {
	case c.send <- data:
	default:
		h.remove(c, true)
	}
}

// enqueue hands a request to the Run loop. It gives up once the loop
// has stopped.
func enqueue[T any](h *Hub, ch chan T, v T) bool {
	select {
	case ch <- v:
		return true
	case <-h.done:
		return false
	}
}

// Broadcast sends a message to every client of a session.
func (h *Hub) Broadcast(sessionID string, msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("cannot marshal message", "error", err)
		return
	}
	enqueue(h, h.outbox, envelope{sessionID: sessionID, data: data})
}

// BroadcastState sends the current view of a session to its clients.
func (h *Hub) BroadcastState(s *session.Session) {
	v := s.View()
	h.Broadcast(s.ID, Message{Event: EventState, SessionID: s.ID, View: &v})
}

func (h *Hub) reply(c *Client, msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("cannot marshal message", "error", err)
		return
	}
	enqueue(h, h.outbox, envelope{client: c, data: data})
}

// ServeWS upgrades the request and binds the connection to the session
// named by the "session" query parameter. Without one, or for an unknown
// ID, a new session of the "variant" parameter is created.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	s, err := h.resolve(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	c := &Client{
		hub:       h,
		conn:      conn,
		send:      make(chan []byte, 256),
		sessionID: s.ID,
	}
	if !enqueue(h, h.register, c) {
		conn.Close()
		return
	}

	v := s.View()
	h.reply(c, Message{Event: EventState, SessionID: s.ID, View: &v})

	go c.writePump()
	go c.readPump()
}

func (h *Hub) resolve(r *http.Request) (*session.Session, error) {
	q := r.URL.Query()
	if id := q.Get("session"); id != "" {
		s, err := h.manager.Get(id)
		if err == nil {
			return s, nil
		}
		if !errors.Is(err, session.ErrSessionNotFound) {
			return nil, err
		}
	}
	variant := q.Get("variant")
	if variant == "" {
		variant = defaultVariant
	}
	return h.manager.Create(variant, 0)
}

// handle executes one client request.
func (h *Hub) handle(c *Client, req Request) {
	if req.Action == ActionNew {
		variant := req.Variant
		if variant == "" {
			variant = defaultVariant
		}
		s, err := h.manager.Create(variant, req.Seed)
		if err != nil {
			h.reply(c, Message{Event: EventError, Error: err.Error()})
			return
		}
		enqueue(h, h.rebind, rebind{client: c, sessionID: s.ID})
		v := s.View()
		h.reply(c, Message{Event: EventState, SessionID: s.ID, View: &v})
		return
	}

	s, err := h.manager.Get(c.SessionID())
	if err != nil {
		h.reply(c, Message{Event: EventError, SessionID: c.SessionID(), Error: err.Error()})
		return
	}

	switch req.Action {
	case ActionState:
		v := s.View()
		h.reply(c, Message{Event: EventState, SessionID: s.ID, View: &v})

	case ActionCluster:
		v, err := s.Preview(req.X, req.Y)
		if err != nil {
			h.reply(c, Message{Event: EventError, SessionID: s.ID, Error: err.Error()})
			return
		}
		h.reply(c, Message{Event: EventCluster, SessionID: s.ID, View: &v})

	case ActionRemove:
		res, err := s.RemoveAt(req.X, req.Y)
		if err != nil {
			h.reply(c, Message{Event: EventError, SessionID: s.ID, Error: err.Error()})
			return
		}
		v := s.View()
		h.Broadcast(s.ID, Message{Event: EventRemoved, SessionID: s.ID, View: &v, Result: NewRemoval(res)})

	default:
		h.reply(c, Message{Event: EventError, SessionID: s.ID, Error: "unknown action " + req.Action})
	}
}

// readPump decodes requests from the connection until it closes.
func (c *Client) readPump() {
	defer func() {
		enqueue(c.hub, c.hub.unregister, c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Warn("websocket error", "error", err)
			}
			return
		}

		var req Request
		if err := json.Unmarshal(data, &req); err != nil {
			c.hub.reply(c, Message{Event: EventError, Error: "malformed request"})
			continue
		}
		c.hub.handle(c, req)
	}
}

// writePump sends queued messages and pings until the hub closes send.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
