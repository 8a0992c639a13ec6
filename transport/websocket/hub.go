package websocket

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/wricardo/mcp-training/mazerunner/game/engine"
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
)

// Events sent to clients
const (
	EventStateUpdate      = "state_update"
	EventSolutionStep     = "solution_step"
	EventSolutionComplete = "solution_complete"
	EventRevealCancelled  = "solution_cancelled"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins in development
		return true
	},
}

// Message represents a WebSocket message
type Message struct {
	SessionID string            `json:"session_id"`
	MazeState *engine.MazeState `json:"maze_state,omitempty"`
	Event     string            `json:"event,omitempty"`
	Data      interface{}       `json:"data,omitempty"`
}

// RevealStep is the payload of a solution_step event
type RevealStep struct {
	Index    int             `json:"index"` // 0-based position along the path
	Total    int             `json:"total"`
	Position engine.Position `json:"position"`
}

// RevealComplete is the payload of a solution_complete event
type RevealComplete struct {
	Length int         `json:"length"`
	Path   engine.Path `json:"path"`
}

// Client represents a WebSocket client
type Client struct {
	hub       *Hub
	conn      *websocket.Conn
	send      chan []byte
	sessionID string
}

// Hub maintains the set of active clients and broadcasts messages
type Hub struct {
	// Registered clients by session ID. Only touched by the Run goroutine.
	sessions map[string]map[*Client]bool

	// Outbound messages for a session's clients
	broadcast chan *Message

	// Register requests from clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	// In-flight solution reveals by session ID
	reveals   map[string]*reveal
	revealsMu sync.Mutex
}

type reveal struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// NewHub creates a new WebSocket hub
func NewHub() *Hub {
	return &Hub{
		sessions:   make(map[string]map[*Client]bool),
		broadcast:  make(chan *Message, engine.WebSocketBufferSize),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		reveals:    make(map[string]*reveal),
	}
}

// Run starts the hub's event loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case message := <-h.broadcast:
			h.broadcastMessage(message)
		}
	}
}

// ServeWS handles WebSocket requests from clients
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, sessionID string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	client := &Client{
		hub:       h,
		conn:      conn,
		send:      make(chan []byte, engine.WebSocketBufferSize),
		sessionID: sessionID,
	}

	client.hub.register <- client

	go client.writePump()
	go client.readPump()
}

// BroadcastToSession sends a maze state update to all clients in a session
func (h *Hub) BroadcastToSession(sessionID string, state *engine.MazeState) {
	h.broadcast <- &Message{
		SessionID: sessionID,
		MazeState: state,
		Event:     EventStateUpdate,
	}
}

// BroadcastEvent sends a custom event to all clients in a session
func (h *Hub) BroadcastEvent(sessionID string, event string, data interface{}) {
	h.broadcast <- &Message{
		SessionID: sessionID,
		Event:     event,
		Data:      data,
	}
}

// RevealPath streams an already computed path to the session's clients, one
// solution_step per interval followed by solution_complete. A reveal already
// running for the session is cancelled first. The returned channel is closed
// when the reveal finishes or is cancelled.
func (h *Hub) RevealPath(ctx context.Context, sessionID string, path engine.Path, interval time.Duration) <-chan struct{} {
	if interval <= 0 {
		interval = engine.DefaultRevealMillis * time.Millisecond
	}

	ctx, cancel := context.WithCancel(ctx)
	r := &reveal{cancel: cancel, done: make(chan struct{})}

	h.revealsMu.Lock()
	previous := h.reveals[sessionID]
	h.reveals[sessionID] = r
	h.revealsMu.Unlock()

	if previous != nil {
		previous.cancel()
		<-previous.done
	}

	go func() {
		defer close(r.done)
		defer h.finishReveal(sessionID, r)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for i, pos := range path {
			select {
			case <-ctx.Done():
				// Best effort; never block a cancelling caller
				select {
				case h.broadcast <- &Message{SessionID: sessionID, Event: EventRevealCancelled}:
				default:
				}
				return
			case <-ticker.C:
			}
			if !h.send(ctx, &Message{
				SessionID: sessionID,
				Event:     EventSolutionStep,
				Data:      RevealStep{Index: i, Total: len(path), Position: pos},
			}) {
				return
			}
		}

		h.send(ctx, &Message{
			SessionID: sessionID,
			Event:     EventSolutionComplete,
			Data:      RevealComplete{Length: len(path), Path: path},
		})
	}()

	return r.done
}

// CancelReveal stops the session's in-flight reveal, if any, and waits for it to end
func (h *Hub) CancelReveal(sessionID string) {
	h.revealsMu.Lock()
	r, ok := h.reveals[sessionID]
	h.revealsMu.Unlock()

	if ok {
		r.cancel()
		<-r.done
	}
}

// Revealing reports whether a reveal is running for the session
func (h *Hub) Revealing(sessionID string) bool {
	h.revealsMu.Lock()
	defer h.revealsMu.Unlock()
	_, ok := h.reveals[sessionID]
	return ok
}

func (h *Hub) finishReveal(sessionID string, r *reveal) {
	h.revealsMu.Lock()
	if h.reveals[sessionID] == r {
		delete(h.reveals, sessionID)
	}
	h.revealsMu.Unlock()
	r.cancel()
}

// send queues a message unless ctx ends first
func (h *Hub) send(ctx context.Context, message *Message) bool {
	select {
	case h.broadcast <- message:
		return true
	case <-ctx.Done():
		return false
	}
}

// registerClient adds a client to a session
func (h *Hub) registerClient(client *Client) {
	if h.sessions[client.sessionID] == nil {
		h.sessions[client.sessionID] = make(map[*Client]bool)
	}
	h.sessions[client.sessionID][client] = true

	log.Printf("Client registered for session %s (total clients: %d)",
		client.sessionID, len(h.sessions[client.sessionID]))
}

// unregisterClient removes a client from a session
func (h *Hub) unregisterClient(client *Client) {
	if clients, ok := h.sessions[client.sessionID]; ok {
		if _, ok := clients[client]; ok {
			delete(clients, client)
			close(client.send)

			if len(clients) == 0 {
				delete(h.sessions, client.sessionID)
			}

			log.Printf("Client unregistered from session %s (remaining clients: %d)",
				client.sessionID, len(clients))
		}
	}
}

// broadcastMessage sends a message to all clients in a session
func (h *Hub) broadcastMessage(message *Message) {
	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("Failed to marshal broadcast message: %v", err)
		return
	}

	if clients, ok := h.sessions[message.SessionID]; ok {
		for client := range clients {
			select {
			case client.send <- data:
			default:
				// Client's send channel is full, drop it
				h.unregisterClient(client)
			}
		}
	}
}

// readPump pumps messages from the WebSocket connection to the hub
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		// Incoming messages are ignored; reading keeps the connection alive
		_, _, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}
	}
}

// writePump pumps messages from the hub to the WebSocket connection
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
				// The hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			// Add queued messages to the current WebSocket message
			n := len(c.send)
			for i := 0; i < n; i++ {
				w.Write([]byte{'\n'})
				w.Write(<-c.send)
			}

			if err := w.Close(); err != nil {
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
