// Package live pushes change notifications to open list pages over websockets.
package live

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
)

const (
	writeTimeout = 5 * time.Second

	// sendBuffer is how many events may queue for one client before it
	// is considered too slow and dropped.
	sendBuffer = 16
)

// EventCarsChanged tells clients the car list is stale.
const EventCarsChanged = "cars_changed"

// Event actions.
const (
	ActionCreated = "created"
	ActionDeleted = "deleted"
)

// Event is the outgoing websocket message format.
type Event struct {
	Type   string `json:"type"`
	Action string `json:"action,omitempty"` // "created" or "deleted"
	ID     string `json:"id,omitempty"`
}

// Notifier is the publish side of the hub, as used by the page controller.
type Notifier interface {
	Broadcast(ev Event)
}

// Hub tracks connected websocket clients. It is safe for concurrent use.
type Hub struct {
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*client]struct{}
}

// client owns one connection. Only its write loop writes to conn.
type client struct {
	conn *websocket.Conn
	send chan Event
}

var _ Notifier = (*Hub)(nil)

// NewHub creates an empty hub. Unless allowAllOrigins is set, upgrades
// are only accepted from pages served by the same host.
func NewHub(allowAllOrigins bool) *Hub {
	h := &Hub{clients: make(map[*client]struct{})}
	if allowAllOrigins {
		h.upgrader.CheckOrigin = func(r *http.Request) bool { return true }
	}
	return h
}

// RegisterRoutes mounts the websocket endpoint.
func (h *Hub) RegisterRoutes(r chi.Router) {
	r.Get("/ws/cars", h.ServeWS)
}

// ServeWS upgrades the request and keeps the connection registered until
// the peer goes away. Incoming messages are ignored.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("live: websocket upgrade: %v", err)
		return
	}

	c := &client{conn: conn, send: make(chan Event, sendBuffer)}
	h.add(c)
	defer h.remove(c)

	go h.writeLoop(c)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("live: websocket read: %v", err)
			}
			return
		}
	}
}

// Broadcast queues ev for every connected client without waiting for the
// writes. A client whose queue is full is dropped.
func (h *Hub) Broadcast(ev Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- ev:
		default:
			log.Printf("live: dropping slow client")
			h.removeLocked(c)
		}
	}
}

// Count returns the number of connected clients.
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *Hub) add(c *client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	h.removeLocked(c)
	h.mu.Unlock()
}

// removeLocked unregisters c and closes its queue, which stops the write
// loop. h.mu must be held.
func (h *Hub) removeLocked(c *client) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	close(c.send)
}

// writeLoop drains c.send until it is closed or a write fails, then closes
// the connection so the read loop in ServeWS returns.
func (h *Hub) writeLoop(c *client) {
	defer c.conn.Close()
	for ev := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := c.conn.WriteJSON(ev); err != nil {
			log.Printf("live: dropping client: %v", err)
			h.remove(c)
			return
		}
	}
	c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseGoingAway, ""), time.Now().Add(writeTimeout))
}
