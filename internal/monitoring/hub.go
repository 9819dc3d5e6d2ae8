// Package monitoring serves the admin dashboard's live ledger feed and
// host statistics.
package monitoring

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"parcel-backend/internal/metrics"
	"parcel-backend/internal/models"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	sendBuffer = 32
)

var upgrader = websocket.Upgrader{
	// Origin is enforced by CORS and the bearer token, not here
	CheckOrigin: func(r *http.Request) bool { return true },
}

type client struct {
	conn *websocket.Conn
	send chan models.LedgerEvent
}

// Hub broadcasts ledger events to every connected websocket client. A client
// that cannot keep up is dropped rather than slowing the others.
type Hub struct {
	mu        sync.Mutex
	clients   map[*client]bool
	broadcast chan models.LedgerEvent
}

func NewHub() *Hub {
	return &Hub{
		clients:   make(map[*client]bool),
		broadcast: make(chan models.LedgerEvent, 256),
	}
}

// Run delivers queued events until ctx is cancelled, then disconnects all
// clients.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for c := range h.clients {
				h.removeLocked(c)
			}
			h.mu.Unlock()
			return
		case evt := <-h.broadcast:
			h.mu.Lock()
			for c := range h.clients {
				select {
				case c.send <- evt:
				default:
					log.Printf("[Hub] Dropping slow client %s", c.conn.RemoteAddr())
					h.removeLocked(c)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Publish queues evt for broadcast without blocking the caller.
func (h *Hub) Publish(evt models.LedgerEvent) {
	select {
	case h.broadcast <- evt:
	default:
		log.Printf("[Hub] Broadcast queue full, dropping %s for vendor %d", evt.Type, evt.VendorID)
	}
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// ServeWS upgrades the request and streams events to it.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("[Hub] WebSocket upgrade error:", err)
		return
	}

	c := &client{conn: conn, send: make(chan models.LedgerEvent, sendBuffer)}
	h.mu.Lock()
	h.clients[c] = true
	h.mu.Unlock()
	metrics.StreamClients.Inc()

	go h.writePump(c)
	h.readPump(c)
}

func (h *Hub) removeLocked(c *client) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	close(c.send)
	metrics.StreamClients.Dec()
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	h.removeLocked(c)
	h.mu.Unlock()
}

// readPump only watches for close and pong frames; clients never send data.
func (h *Hub) readPump(c *client) {
	defer func() {
		h.remove(c)
		c.conn.Close()
	}()
	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case evt, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(evt); err != nil {
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
