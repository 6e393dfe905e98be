package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"ai-paper-reader-be/internal/dto"
	"ai-paper-reader-be/internal/pkg/logger"

	"github.com/redis/go-redis/v9"
)

// Hub tracks connected reader tabs. There is no login in this app, so
// clients register under a self-chosen client id (one per tab); the same
// id may hold several connections if the tab reconnects.
type Hub struct {
	clients map[string][]*Client

	// Register requests from the clients.
	register chan *Client

	// Unregister requests from clients.
	unregister chan *Client

	mu sync.RWMutex

	// Redis connection for cross-instance fan-out; nil when disabled.
	rdb *redis.Client

	logger logger.ILogger
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[string][]*Client),
		rdb:        rdb,
		logger:     log,
	}
}

func (h *Hub) Run() {
	if h.rdb != nil {
		go h.subscribeToRedis()
	}

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.ClientID] = append(h.clients[client.ClientID], client)
			h.mu.Unlock()
			h.logger.Info("Hub", "Client registered", map[string]interface{}{"client_id": client.ClientID})

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.clients[client.ClientID]; ok {
				for i, c := range clients {
					if c == client {
						h.clients[client.ClientID] = append(clients[:i], clients[i+1:]...)
						close(client.Send)
						break
					}
				}
				if len(h.clients[client.ClientID]) == 0 {
					delete(h.clients, client.ClientID)
					h.logger.Info("Hub", "Client completely unregistered", map[string]interface{}{"client_id": client.ClientID})
				}
			}
			h.mu.Unlock()
		}
	}
}

// Broadcast pushes a notification to every connected tab.
func (h *Hub) Broadcast(notification dto.Notification) {
	data := marshalNotification(notification)
	h.deliver("*", data)
	h.mirror("*", data)
}

// Send pushes a notification to one tab's connections.
func (h *Hub) Send(clientID string, notification dto.Notification) {
	data := marshalNotification(notification)
	h.deliver(clientID, data)
	// Mirror to other instances; the tab may be connected elsewhere.
	h.mirror(clientID, data)
}

func marshalNotification(notification dto.Notification) []byte {
	data, _ := json.Marshal(map[string]interface{}{
		"type": "notification",
		"data": notification,
	})
	return data
}

// deliver fans data out to the selected tabs ("*" means all). Clients
// whose send buffers are full are dropped after the read lock is
// released: pushing to unregister while holding mu would deadlock
// against Run, which needs mu to drain the channel.
func (h *Hub) deliver(targetClientID string, data []byte) {
	var stale []*Client

	h.mu.RLock()
	if targetClientID == "*" {
		for _, clients := range h.clients {
			stale = append(stale, pushToClients(clients, data)...)
		}
	} else if clients, ok := h.clients[targetClientID]; ok {
		stale = append(stale, pushToClients(clients, data)...)
	}
	h.mu.RUnlock()

	for _, client := range stale {
		h.logger.Warn("Hub", "Client send buffer full, dropping connection", map[string]interface{}{"client_id": client.ClientID})
		h.unregister <- client
	}
}

func pushToClients(clients []*Client, data []byte) []*Client {
	var stale []*Client
	for _, client := range clients {
		select {
		case client.Send <- data:
		default:
			stale = append(stale, client)
		}
	}
	return stale
}

// mirror republishes over Redis so tabs connected to other instances see
// the notification too. No-op when Redis is disabled.
func (h *Hub) mirror(targetClientID string, data []byte) {
	if h.rdb == nil {
		return
	}
	payload, _ := json.Marshal(map[string]interface{}{
		"target_client_id": targetClientID,
		"message":          json.RawMessage(data),
	})
	h.rdb.Publish(context.Background(), "reader_cluster_events", payload)
}

func (h *Hub) subscribeToRedis() {
	ctx := context.Background()
	pubsub := h.rdb.Subscribe(ctx, "reader_cluster_events")
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		var payload struct {
			TargetClientID string          `json:"target_client_id"`
			Message        json.RawMessage `json:"message"`
		}
		if err := json.Unmarshal([]byte(msg.Payload), &payload); err != nil {
			h.logger.Warn("Hub", "Redis msg parse error", map[string]interface{}{"error": err.Error()})
			continue
		}
		h.deliver(payload.TargetClientID, payload.Message)
	}
}
