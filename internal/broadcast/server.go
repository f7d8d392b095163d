// Package broadcast fans the event bus out to WebSocket clients as
// JSON-encoded stream.Message frames. Adapted from the teacher's
// internal/broadcast.Broadcaster, which serialised a single
// hand-rolled MsgPack Snapshot struct and replayed a ring buffer of
// history to every new client; per SPEC_FULL.md §4.9, historical
// replay is explicitly not supported here, so new clients receive
// only messages published after they connect.
package broadcast

import (
	"encoding/json"
	"log"
	"net/http"

	"idx-analytics/internal/bus"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Server fans out an event bus to WebSocket subscribers.
type Server struct {
	bus *bus.Bus
}

// NewServer constructs a Server fed by the given event bus.
func NewServer(b *bus.Bus) *Server {
	return &Server{bus: b}
}

// Start registers the /ws handler and serves HTTP on addr. Blocks.
func (s *Server) Start(addr string) error {
	http.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		s.serveWS(w, r)
	})
	log.Printf("broadcast server listening on %s", addr)
	return http.ListenAndServe(addr, nil)
}

func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade failed: %v", err)
		return
	}

	sub := s.bus.Subscribe()
	client := &client{conn: conn, sub: sub}

	go client.readPump()
	go client.writePump()
}

// client wraps one WebSocket connection and its bus subscription.
type client struct {
	conn *websocket.Conn
	sub  *bus.Subscription
}

func (c *client) readPump() {
	defer func() {
		c.sub.Close()
		c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			break
		}
	}
}

func (c *client) writePump() {
	defer c.conn.Close()
	for msg := range c.sub.C {
		payload, err := json.Marshal(msg)
		if err != nil {
			log.Printf("failed to marshal stream message: %v", err)
			continue
		}
		if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			return
		}
	}
}
