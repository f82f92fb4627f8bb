// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package stream broadcasts simulation snapshots to websocket clients and
// forwards their commands back to the simulation.
//
package stream

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// Command is a message sent by a client.
//
// The only command type is "press": it presses (Pressed == true) or releases
// the button with the given component ID.
//
type Command struct {
	Type    string `json:"type"`
	ID      string `json:"id"`
	Pressed bool   `json:"pressed"`
}

// Hub maintains the set of connected clients and broadcasts snapshots to them.
//
type Hub struct {
	mu         sync.Mutex
	clients    map[*client]bool
	broadcast  chan []byte
	register   chan *client
	unregister chan *client
	done       chan struct{}

	log      *slog.Logger
	upgrader websocket.Upgrader
	onCmd    func(Command)
}

// NewHub returns a new hub. onCmd is called from the client's read goroutine
// for every command received. It may be nil.
//
func NewHub(log *slog.Logger, onCmd func(Command)) *Hub {
	return &Hub{
		clients:    make(map[*client]bool),
		broadcast:  make(chan []byte, 16),
		register:   make(chan *client),
		unregister: make(chan *client),
		done:       make(chan struct{}),
		log:        log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		onCmd: onCmd,
	}
}

// Run runs the hub loop until ctx is done.
//
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for c := range h.clients {
				delete(h.clients, c)
				close(c.send)
			}
			h.mu.Unlock()
			return
		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = true
			h.mu.Unlock()
			h.log.Debug("stream client connected", "remote", c.conn.RemoteAddr().String())
		case c := <-h.unregister:
			h.mu.Lock()
			if h.clients[c] {
				delete(h.clients, c)
				close(c.send)
				h.log.Debug("stream client disconnected", "remote", c.conn.RemoteAddr().String())
			}
			h.mu.Unlock()
		case msg := <-h.broadcast:
			h.mu.Lock()
			for c := range h.clients {
				select {
				case c.send <- msg:
				default:
					// slow client
					delete(h.clients, c)
					close(c.send)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Clients returns the number of connected clients.
//
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Broadcast queues snap for all clients. It never blocks: the snapshot is
// dropped if the hub is lagging behind.
//
func (h *Hub) Broadcast(snap *Snapshot) {
	msg, err := json.Marshal(snap)
	if err != nil {
		h.log.Error("snapshot encoding failed", "tick", snap.Tick, "err", err)
		return
	}
	select {
	case h.broadcast <- msg:
	default:
		h.log.Debug("snapshot dropped", "tick", snap.Tick)
	}
}

// ServeHTTP upgrades the request to a websocket connection and registers a
// new client.
//
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", "err", err)
		return
	}
	c := &client{hub: h, conn: conn, send: make(chan []byte, 64)}
	select {
	case h.register <- c:
	case <-h.done:
		conn.Close()
		return
	}
	go c.writePump()
	go c.readPump()
}
