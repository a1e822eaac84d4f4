// Package realtime pushes calendar change notifications to connected
// browsers over WebSocket. Clients subscribe per engagement; every mutation
// of that engagement's events produces a broadcast so open calendars refresh
// without polling.
package realtime

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Actions carried by a Notification.
const (
	ActionCreated  = "created"
	ActionUpdated  = "updated"
	ActionDeleted  = "deleted"
	ActionAssigned = "assigned"
)

// Notification is pushed to every subscriber of an engagement when its
// calendar changes.
type Notification struct {
	// Action is one of "created", "updated", "deleted", "assigned"
	Action string `json:"action"`

	// Engagement whose calendar changed
	EngagementID int64 `json:"engagementId"`

	// Events touched by the change
	EventIDs []int64 `json:"eventIds,omitempty"`

	// User who performed the change
	ActorID int64 `json:"actorId"`

	// Timestamp of the change
	Timestamp time.Time `json:"timestamp"`
}

// Hub maintains the set of active clients grouped by engagement and fans
// notifications out to them.
type Hub struct {
	// Registered clients organized by engagement ID
	clients map[int64]map[*Client]bool

	// Outbound notifications awaiting fan-out
	broadcast chan *Notification

	// Register requests from the clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	mu sync.RWMutex

	logger zerolog.Logger
}

// NewHub creates a new Hub instance.
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		clients:    make(map[int64]map[*Client]bool),
		broadcast:  make(chan *Notification, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		logger:     logger,
	}
}

// Run starts the hub loop, handling registrations and broadcasts.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case notification := <-h.broadcast:
			h.broadcastNotification(notification)
		}
	}
}

// Notify queues a notification for all subscribers of its engagement. It
// never blocks the caller; an overloaded hub drops the notification.
func (h *Hub) Notify(n *Notification) {
	if n.Timestamp.IsZero() {
		n.Timestamp = time.Now()
	}
	select {
	case h.broadcast <- n:
	default:
		h.logger.Warn().
			Int64("engagementID", n.EngagementID).
			Str("action", n.Action).
			Msg("Realtime hub overloaded, dropped notification")
	}
}

// SubscriberCount returns the number of connected clients for an engagement.
func (h *Hub) SubscriberCount(engagementID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if clients, ok := h.clients[engagementID]; ok {
		return len(clients)
	}
	return 0
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	engagementID := client.engagementID
	if _, ok := h.clients[engagementID]; !ok {
		h.clients[engagementID] = make(map[*Client]bool)
	}
	h.clients[engagementID][client] = true

	h.logger.Info().
		Int64("engagementID", engagementID).
		Int64("userID", client.userID).
		Str("addr", client.conn.RemoteAddr().String()).
		Msg("Realtime client registered")
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	engagementID := client.engagementID
	if _, ok := h.clients[engagementID]; ok {
		if _, ok := h.clients[engagementID][client]; ok {
			delete(h.clients[engagementID], client)
			close(client.send)

			if len(h.clients[engagementID]) == 0 {
				delete(h.clients, engagementID)
			}

			h.logger.Info().
				Int64("engagementID", engagementID).
				Int64("userID", client.userID).
				Msg("Realtime client unregistered")
		}
	}
}

func (h *Hub) broadcastNotification(n *Notification) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	clients, ok := h.clients[n.EngagementID]
	if !ok {
		return
	}

	data, err := json.Marshal(n)
	if err != nil {
		h.logger.Error().
			Err(err).
			Int64("engagementID", n.EngagementID).
			Msg("Failed to marshal realtime notification")
		return
	}

	for client := range clients {
		select {
		case client.send <- data:
		default:
			// Slow consumer, drop this notification for it rather than
			// stalling the whole broadcast.
			h.logger.Debug().
				Int64("engagementID", n.EngagementID).
				Int64("userID", client.userID).
				Msg("Dropped notification for slow realtime client")
		}
	}

	h.logger.Debug().
		Int64("engagementID", n.EngagementID).
		Int("clientCount", len(clients)).
		Str("action", n.Action).
		Msg("Notification broadcast to engagement subscribers")
}
