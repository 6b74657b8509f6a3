package server

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const writeTimeout = 5 * time.Second

// WebSocketClient wraps a WebSocket connection subscribed to report updates.
type WebSocketClient struct {
	conn *websocket.Conn
	mu   sync.Mutex // Serializes writes
	ip   string
}

// NewWebSocketClient creates a new WebSocketClient from a WebSocket connection.
func NewWebSocketClient(conn *websocket.Conn, ip string) *WebSocketClient {
	return &WebSocketClient{conn: conn, ip: ip}
}

// Write sends data to the client as a single text message.
func (c *WebSocketClient) Write(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// WaitClosed reads and discards client messages until the connection fails
// or is closed by either side.
func (c *WebSocketClient) WaitClosed() {
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

// Close closes the WebSocket connection.
func (c *WebSocketClient) Close() error {
	return c.conn.Close()
}

// RemoteAddr returns the remote address as a string.
func (c *WebSocketClient) RemoteAddr() string {
	return c.conn.RemoteAddr().String()
}
