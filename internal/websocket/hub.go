package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"music-promo-be/internal/model"
	"music-promo-be/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// relayChannel carries cross-instance deliveries. Every instance
// subscribes and forwards to whichever sockets it holds locally.
const relayChannel = "promo_realtime"

const broadcastTarget = "*"

// Hub routes notifications to connected artist dashboards. A user may
// hold several sockets at once (phone + studio desktop).
type Hub struct {
	clients map[uuid.UUID][]*Client

	join  chan *Client
	leave chan *Client

	mu sync.RWMutex

	// rdb relays deliveries across instances; nil means single-instance.
	rdb *redis.Client

	logger logger.ILogger
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		join:    make(chan *Client),
		leave:   make(chan *Client),
		clients: make(map[uuid.UUID][]*Client),
		rdb:     rdb,
		logger:  log,
	}
}

func (h *Hub) Run() {
	if h.rdb != nil {
		go h.relayLoop()
	}

	for {
		select {
		case client := <-h.join:
			h.mu.Lock()
			h.clients[client.UserID] = append(h.clients[client.UserID], client)
			h.mu.Unlock()
			h.logger.Info("Hub", "Socket joined", map[string]interface{}{"user_id": client.UserID})

		case client := <-h.leave:
			h.mu.Lock()
			if clients, ok := h.clients[client.UserID]; ok {
				for i, c := range clients {
					if c == client {
						h.clients[client.UserID] = append(clients[:i], clients[i+1:]...)
						close(client.Send)
						break
					}
				}
				if len(h.clients[client.UserID]) == 0 {
					delete(h.clients, client.UserID)
				}
			}
			h.mu.Unlock()
		}
	}
}

func envelope(notification model.Notification) []byte {
	data, _ := json.Marshal(map[string]interface{}{
		"type": "notification",
		"data": notification,
	})
	return data
}

// Send delivers to one user's sockets, here and on every other instance.
// Implements service.NotificationDelivery.
func (h *Hub) Send(userID uuid.UUID, notification model.Notification) {
	data := envelope(notification)
	h.deliverLocal(userID, data)
	h.relay(userID.String(), data)
}

// Broadcast delivers to every connected socket. Used for social-proof
// style announcements.
func (h *Hub) Broadcast(notification model.Notification) {
	data := envelope(notification)
	h.deliverAllLocal(data)
	h.relay(broadcastTarget, data)
}

func (h *Hub) deliverLocal(userID uuid.UUID, data []byte) {
	h.mu.RLock()
	clients := h.clients[userID]
	h.mu.RUnlock()

	for _, client := range clients {
		select {
		case client.Send <- data:
		default:
			// A socket that cannot keep up gets dropped, not queued.
			// The hub closes Send as part of the leave handling.
			h.logger.Warn("Hub", "Send buffer full, dropping socket", map[string]interface{}{"user_id": userID})
			h.leave <- client
		}
	}
}

func (h *Hub) deliverAllLocal(data []byte) {
	h.mu.RLock()
	targets := make([]uuid.UUID, 0, len(h.clients))
	for userID := range h.clients {
		targets = append(targets, userID)
	}
	h.mu.RUnlock()

	for _, userID := range targets {
		h.deliverLocal(userID, data)
	}
}

type relayPayload struct {
	Target  string          `json:"target"`
	Message json.RawMessage `json:"message"`
}

func (h *Hub) relay(target string, data []byte) {
	if h.rdb == nil {
		return
	}
	payload, _ := json.Marshal(relayPayload{Target: target, Message: data})
	h.rdb.Publish(context.Background(), relayChannel, payload)
}

func (h *Hub) relayLoop() {
	ctx := context.Background()
	pubsub := h.rdb.Subscribe(ctx, relayChannel)
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		var payload relayPayload
		if err := json.Unmarshal([]byte(msg.Payload), &payload); err != nil {
			h.logger.Warn("Hub", "Bad relay payload", map[string]interface{}{"error": err.Error()})
			continue
		}

		if payload.Target == broadcastTarget {
			h.deliverAllLocal(payload.Message)
			continue
		}

		userID, err := uuid.Parse(payload.Target)
		if err != nil {
			continue
		}
		h.deliverLocal(userID, payload.Message)
	}
}
