package remote

import (
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/deckx/internal/presenter"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 5 * time.Second
	sendBuffer = 16
)

// Message is the envelope for everything the server writes to a websocket.
type Message struct {
	Type     string          `json:"type"` // "state", "result" or "error"
	Accepted bool            `json:"accepted,omitempty"`
	Reason   string          `json:"reason,omitempty"`
	Error    string          `json:"error,omitempty"`
	State    *presenter.View `json:"state,omitempty"`
}

func stateMessage(v presenter.View) Message {
	return Message{Type: "state", State: &v}
}

func resultMessage(out presenter.Outcome) Message {
	return Message{Type: "result", Accepted: out.Accepted, Reason: out.Reason.String(), State: &out.View}
}

func errorMessage(err error) Message {
	return Message{Type: "error", Error: err.Error()}
}

// client is one websocket connection. Only its writer goroutine writes to conn.
type client struct {
	conn     *websocket.Conn
	send     chan Message
	done     chan struct{} // closed when the writer exits
	farewell bool          // send a close frame once send is closed
}

func newClient(conn *websocket.Conn) *client {
	return &client{conn: conn, send: make(chan Message, sendBuffer), done: make(chan struct{})}
}

// Hub tracks websocket clients and pushes the view to all of them on every accepted transition.
type Hub struct {
	mu      sync.RWMutex
	clients map[*client]struct{}
	logger  *log.Logger
}

var _ presenter.Listener = (*Hub)(nil)

// NewHub creates an empty hub.
func NewHub(logger *log.Logger) *Hub {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Hub{clients: make(map[*client]struct{}), logger: logger}
}

func (h *Hub) register(conn *websocket.Conn) *client {
	c := newClient(conn)
	h.mu.Lock()
	h.clients[c] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()

	go h.writePump(c)
	h.logger.Debug("websocket client connected", "clients", n)
	return c
}

// writePump drains c.send onto the connection until the hub closes it.
func (h *Hub) writePump(c *client) {
	defer close(c.done)
	defer c.conn.Close()

	for m := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteJSON(m); err != nil {
			h.logger.Warn("failed to push state", "error", err)
			c.conn.Close()
			for range c.send {
			}
			return
		}
	}

	if c.farewell {
		_ = c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "presentation ended"), time.Now().Add(writeWait))
	}
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	_, ok := h.clients[c]
	delete(h.clients, c)
	n := len(h.clients)
	h.mu.Unlock()

	if ok {
		close(c.send)
		h.logger.Debug("websocket client disconnected", "clients", n)
	}
}

// deliver queues m for c without blocking. It reports false when c is gone or its queue is full.
func (h *Hub) deliver(c *client, m Message) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if _, ok := h.clients[c]; !ok {
		return false
	}
	select {
	case c.send <- m:
		return true
	default:
		return false
	}
}

// Len returns the number of connected clients.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// OnTransition implements [presenter.Listener].
func (h *Hub) OnTransition(_ presenter.Transition, v presenter.View) {
	h.Broadcast(v)
}

// Broadcast queues the view for every client and never blocks on the network.
// Clients whose queue is full are dropped.
func (h *Hub) Broadcast(v presenter.View) {
	msg := stateMessage(v)

	var slow []*client
	h.mu.RLock()
	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range slow {
		h.logger.Warn("dropping slow websocket client")
		h.unregister(c)
		c.conn.Close()
	}
}

// Close disconnects every client and waits for their writers to finish.
func (h *Hub) Close() {
	h.mu.Lock()
	clients := h.clients
	h.clients = make(map[*client]struct{})
	for c := range clients {
		c.farewell = true
		close(c.send)
	}
	h.mu.Unlock()

	for c := range clients {
		<-c.done
	}
}
