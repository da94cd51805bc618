package hub

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Event types streamed to clients
const (
	EventFrame     = "frame"
	EventSelection = "selection"
	EventClosed    = "closed"
)

// KeepAliveInterval is how often idle SSE streams get a comment line
const KeepAliveInterval = 30 * time.Second

// Message is one encoded event
type Message struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Client represents a connected subscriber
type Client struct {
	id     string
	events chan Message
}

// ID returns the client's identifier
func (c *Client) ID() string {
	return c.id
}

// Events returns the client's message stream. It is closed when the client
// unsubscribes or the hub stops.
func (c *Client) Events() <-chan Message {
	return c.events
}

// Hub fans out one session's events to its SSE and WebSocket subscribers
type Hub struct {
	mu         sync.RWMutex
	clients    map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	broadcast  chan Message
	done       chan struct{}
	log        zerolog.Logger
}

// New creates a new Hub
func New(log zerolog.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan Message, 256),
		done:       make(chan struct{}),
		log:        log,
	}
}

// Run starts the hub's event loop. When ctx is cancelled every client
// stream is closed.
func (h *Hub) Run(ctx context.Context) {
	defer func() {
		h.mu.Lock()
		for client := range h.clients {
			delete(h.clients, client)
			close(client.events)
		}
		h.mu.Unlock()
		close(h.done)
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = struct{}{}
			n := len(h.clients)
			h.mu.Unlock()
			h.log.Debug().Str("client_id", client.id).Int("total", n).Msg("Client connected")

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.events)
			}
			n := len(h.clients)
			h.mu.Unlock()
			h.log.Debug().Str("client_id", client.id).Int("total", n).Msg("Client disconnected")

		case msg := <-h.broadcast:
			h.mu.RLock()
			for client := range h.clients {
				select {
				case client.events <- msg:
				default:
					// Client is slow, skip this message
					if msg.Type != EventFrame {
						h.log.Warn().Str("client_id", client.id).Str("event", msg.Type).Msg("Client is slow, skipping message")
					}
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Broadcast sends an event to all connected clients
func (h *Hub) Broadcast(eventType string, data any) {
	raw, err := json.Marshal(data)
	if err != nil {
		h.log.Error().Err(err).Str("event", eventType).Msg("Failed to marshal event")
		return
	}
	select {
	case h.broadcast <- Message{Type: eventType, Data: raw}:
	default:
		h.log.Warn().Str("event", eventType).Msg("Broadcast channel full, dropping event")
	}
}

// Subscribe registers a new client. It returns false once the hub stopped.
func (h *Hub) Subscribe() (*Client, bool) {
	client := &Client{
		id:     uuid.NewString(),
		events: make(chan Message, 64),
	}
	select {
	case h.register <- client:
		return client, true
	case <-h.done:
		return nil, false
	}
}

// Unsubscribe removes a client
func (h *Hub) Unsubscribe(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// ServeHTTP handles SSE connections
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "SSE not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // Disable nginx buffering

	client, ok := h.Subscribe()
	if !ok {
		http.Error(w, "session closed", http.StatusGone)
		return
	}
	defer h.Unsubscribe(client)

	fmt.Fprintf(w, ": connected\n\n")
	flusher.Flush()

	ticker := time.NewTicker(KeepAliveInterval)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-client.events:
			if !ok {
				fmt.Fprintf(w, "event: %s\ndata: {}\n\n", EventClosed)
				flusher.Flush()
				return
			}
			if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", msg.Type, msg.Data); err != nil {
				return
			}
			flusher.Flush()

		case <-ticker.C:
			if _, err := fmt.Fprintf(w, ": keepalive\n\n"); err != nil {
				return
			}
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}
