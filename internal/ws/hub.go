// Package ws pushes engine events to connected clients over WebSockets.
// The mobile app keeps one connection per signed-in player; coaching
// dashboards connect without a user filter and see everything.
package ws

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"
)

// Message is the wire frame. UserID scopes the event: a client connected
// with a user filter only receives frames for that user.
type Message struct {
	Type    string `json:"type"`
	UserID  string `json:"userId,omitempty"`
	Payload any    `json:"payload,omitempty"`
}

type client struct {
	conn   *websocket.Conn
	hub    *Hub
	send   chan []byte
	userID string // empty receives every user's events
}

func (c *client) writePump() {
	defer c.conn.Close()
	for msg := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			c.hub.RemoveClient(c)
			return
		}
	}
}

func (c *client) close() {
	close(c.send)
}

// Hub fans engine events out to every interested connection.
type Hub struct {
	mu       sync.RWMutex
	clients  map[*client]bool
	maxConns int
}

// NewHub creates a hub. maxConns <= 0 means unlimited.
func NewHub(maxConns int) *Hub {
	return &Hub{
		clients:  make(map[*client]bool),
		maxConns: maxConns,
	}
}

// AddClient registers a connection and starts its write pump. Returns
// nil when the hub is at its connection limit; the caller should close
// the connection.
func (h *Hub) AddClient(conn *websocket.Conn, userID string) *client {
	h.mu.Lock()
	if h.maxConns > 0 && len(h.clients) >= h.maxConns {
		h.mu.Unlock()
		return nil
	}
	c := &client{
		conn:   conn,
		hub:    h,
		send:   make(chan []byte, 64),
		userID: userID,
	}
	h.clients[c] = true
	h.mu.Unlock()

	go c.writePump()
	return c
}

func (h *Hub) RemoveClient(c *client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		c.close()
	}
	h.mu.Unlock()
}

// Broadcast delivers one event to every connection whose filter matches.
// A client that cannot keep up is disconnected rather than allowed to
// stall the rest.
func (h *Hub) Broadcast(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("ws: marshal error: %v", err)
		return
	}

	h.mu.RLock()
	clients := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		if c.userID != "" && msg.UserID != "" && c.userID != msg.UserID {
			continue
		}
		select {
		case c.send <- data:
		default:
			log.Printf("ws: client too slow, disconnecting")
			h.RemoveClient(c)
		}
	}
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
