package server

import (
	"sync"

	"github.com/lawnchairsociety/roguestats/internal/logger"
)

// Hub is the set of subscribed WebSocket clients.
type Hub struct {
	mu      sync.Mutex
	clients map[*WebSocketClient]struct{}
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{clients: make(map[*WebSocketClient]struct{})}
}

// Add subscribes c.
func (h *Hub) Add(c *WebSocketClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c] = struct{}{}
}

// Remove unsubscribes c.
func (h *Hub) Remove(c *WebSocketClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, c)
}

// Count returns the number of subscribed clients.
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Broadcast sends data to every client. Clients that fail are dropped.
func (h *Hub) Broadcast(data []byte) int {
	sent := 0
	for _, c := range h.snapshot() {
		if err := c.Write(data); err != nil {
			logger.Debug("Dropping WebSocket client", "remote_addr", c.RemoteAddr(), "error", err)
			h.Remove(c)
			c.Close()
			continue
		}
		sent++
	}
	return sent
}

// CloseAll disconnects every client.
func (h *Hub) CloseAll() {
	for _, c := range h.snapshot() {
		h.Remove(c)
		c.Close()
	}
}

func (h *Hub) snapshot() []*WebSocketClient {
	h.mu.Lock()
	defer h.mu.Unlock()
	clients := make([]*WebSocketClient, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	return clients
}
