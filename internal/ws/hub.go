// Package ws pushes order events to connected admin sessions so the
// order list updates without polling the store.
package ws

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/bizzon-vn/bepnhanga/pkg/logger"
)

// Event types pushed on the admin feed.
const (
	EventOrderCreated   = "order_created"
	EventOrderDelivered = "order_delivered"
)

// Event is one message on the admin feed.
type Event struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// NewEvent marshals payload into a feed event. Marshal failures return
// an event with a null payload; the feed is advisory, never blocking
// the order pipeline.
func NewEvent(eventType string, payload any) Event {
	raw, err := json.Marshal(payload)
	if err != nil {
		raw = json.RawMessage("null")
	}
	return Event{Type: eventType, Payload: raw}
}

// Hub maintains the set of connected admin clients and broadcasts
// events to all of them. There is a single room: every admin sees
// every order.
type Hub struct {
	clients map[*Client]bool

	register   chan *Client
	unregister chan *Client
	broadcast  chan Event

	logger logger.Logger
	mu     sync.RWMutex
}

func NewHub(logger logger.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan Event, 64),
		logger:     logger,
	}
}

// Run processes registrations and broadcasts until ctx is done.
// Call as a goroutine.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if h.clients[client] {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()

		case event := <-h.broadcast:
			message, err := json.Marshal(event)
			if err != nil {
				h.logger.Errorf("marshal feed event: %s", err)
				continue
			}

			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Slow consumer: drop it rather than stall the feed.
					delete(h.clients, client)
					close(client.send)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Broadcast queues an event for every connected admin.
func (h *Hub) Broadcast(event Event) {
	h.broadcast <- event
}
