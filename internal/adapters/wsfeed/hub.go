// Package wsfeed decorates a pipeline.Sink with a websocket broadcast hub,
// pushing every confirmed sandwich to connected clients as soon as it is
// durably stored.
package wsfeed

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const (
	writeTimeout  = 10 * time.Second
	clientBufSize = 32
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Hub tracks connected websocket clients and broadcasts JSON messages to
// all of them. Registration, unregistration and broadcast all flow through
// channels so client bookkeeping never needs a lock around map iteration.
type Hub struct {
	log        *logrus.Logger
	clients    map[*client]struct{}
	register   chan *client
	unregister chan *client
	broadcast  chan []byte

	mu        sync.RWMutex
	connected int
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// NewHub builds a Hub. Call Run to start its event loop.
func NewHub(log *logrus.Logger) *Hub {
	return &Hub{
		log:        log,
		clients:    make(map[*client]struct{}),
		register:   make(chan *client),
		unregister: make(chan *client),
		broadcast:  make(chan []byte, 256),
	}
}

// Run drives the hub's event loop until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for c := range h.clients {
				close(c.send)
			}
			h.clients = map[*client]struct{}{}
			h.connected = 0
			h.mu.Unlock()
			return

		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = struct{}{}
			h.connected = len(h.clients)
			h.mu.Unlock()

		case c := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
				h.connected = len(h.clients)
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.mu.RLock()
			for c := range h.clients {
				select {
				case c.send <- msg:
				default:
					h.log.Warn("wsfeed: client send buffer full, dropping connection")
					go func(c *client) { h.unregister <- c }(c)
				}
			}
			h.mu.RUnlock()
		}
	}
}

// ConnectedClients reports the current connection count.
func (h *Hub) ConnectedClients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.connected
}

// Broadcast enqueues msg for delivery to every connected client. It never
// blocks: a full broadcast channel drops the message and logs, since a slow
// consumer shouldn't stall the scan loop.
func (h *Hub) Broadcast(msg []byte) {
	select {
	case h.broadcast <- msg:
	default:
		h.log.Warn("wsfeed: broadcast channel full, dropping message")
	}
}

// ServeHTTP upgrades the request to a websocket and registers the resulting
// client with the hub.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.WithError(err).Warn("wsfeed: upgrade failed")
		return
	}

	c := &client{conn: conn, send: make(chan []byte, clientBufSize)}
	h.register <- c
	go h.writePump(c)
}

func (h *Hub) writePump(c *client) {
	defer c.conn.Close()
	for msg := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			h.unregister <- c
			return
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}

// marshalOrNil is a small json.Marshal wrapper used by Sink so a marshal
// failure never propagates as a store error.
func marshalOrNil(v interface{}) []byte {
	data, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return data
}
