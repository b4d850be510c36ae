// Package gateway streams produced signals to WebSocket subscribers.
// Delivery is fire-and-forget: a slow client drops messages rather
// than stalling the fan-out.
package gateway

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"fx-signal-bot/internal/metrics"
	"fx-signal-bot/internal/model"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Hub manages WebSocket clients and fans out signal envelopes.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]bool
	met     *metrics.Metrics
}

// NewHub creates an empty hub.
func NewHub(met *metrics.Metrics) *Hub {
	return &Hub{
		clients: make(map[*Client]bool),
		met:     met,
	}
}

// Broadcast sends a signal to every connected client.
func (h *Hub) Broadcast(sig *model.Signal) {
	envelope, err := json.Marshal(map[string]interface{}{
		"type":   "signal",
		"signal": json.RawMessage(sig.JSON()),
		"ts":     sig.ProducedAt.Format(time.RFC3339Nano),
	})
	if err != nil {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients {
		select {
		case client.send <- envelope:
		default:
			// Client buffer full, drop this message for it.
		}
	}
}

// ServeHTTP upgrades the connection and registers the client.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[gateway] upgrade failed: %v", err)
		return
	}

	client := &Client{
		conn: conn,
		send: make(chan []byte, 64),
		hub:  h,
	}

	h.mu.Lock()
	h.clients[client] = true
	count := len(h.clients)
	h.mu.Unlock()

	if h.met != nil {
		h.met.WSClients.Set(float64(count))
	}
	log.Printf("[gateway] ws client connected (%d total)", count)

	go client.writePump()
	go client.readPump()
}

// RemoveClient unregisters a client and closes its send channel.
func (h *Hub) RemoveClient(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, c)
	count := len(h.clients)
	h.mu.Unlock()

	close(c.send)
	if h.met != nil {
		h.met.WSClients.Set(float64(count))
	}
}

// ClientCount returns the number of connected WS clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
