// internal/ws/hub.go
package ws

import (
	"context"
	"encoding/json"
	"sync"

	"crm-service/internal/domain/activity"

	"go.uber.org/zap"
)

// Hub fans recorded activities out to the owning user's connected
// websocket clients. Publishing never blocks the caller: a full or
// closed hub just drops the event, the database row is the record.
type Hub struct {
	clients map[int64]map[*Client]bool
	mu      sync.RWMutex

	register   chan *Client
	unregister chan *Client
	events     chan *event
	done       chan struct{}

	logger *zap.Logger
}

type event struct {
	userID  int64
	payload []byte
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients:    make(map[int64]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		events:     make(chan *event, 256),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Publish queues an activity for delivery to the owning user's clients.
func (h *Hub) Publish(userID int64, a *activity.Activity) {
	payload, err := json.Marshal(a)
	if err != nil {
		h.logger.Warn("failed to marshal activity for feed", zap.Error(err))
		return
	}

	select {
	case h.events <- &event{userID: userID, payload: payload}:
	default:
		h.logger.Warn("activity feed queue full, dropping event",
			zap.Int64("user_id", userID))
	}
}

func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			return

		case client := <-h.register:
			h.addClient(client)

		case client := <-h.unregister:
			h.removeClient(client)

		case ev := <-h.events:
			h.deliver(ev)
		}
	}
}

func (h *Hub) addClient(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.clients[c.userID] == nil {
		h.clients[c.userID] = make(map[*Client]bool)
	}
	h.clients[c.userID][c] = true

	h.logger.Info("activity feed client connected", zap.Int64("user_id", c.userID))
}

func (h *Hub) removeClient(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if conns, ok := h.clients[c.userID]; ok {
		if conns[c] {
			delete(conns, c)
			close(c.send)
			if len(conns) == 0 {
				delete(h.clients, c.userID)
			}
		}
	}
}

func (h *Hub) deliver(ev *event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.clients[ev.userID] {
		select {
		case c.send <- ev.payload:
		default:
			// Slow client; it will be dropped by its write pump
		}
	}
}

// shutdown closes done before the send channels so clients blocked on
// register/unregister bail out instead of waiting on a dead loop.
func (h *Hub) shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()

	close(h.done)
	for _, conns := range h.clients {
		for c := range conns {
			close(c.send)
		}
	}
	h.clients = make(map[int64]map[*Client]bool)
}
