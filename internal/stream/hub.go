package stream

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"github.com/igor-olikh/drive-pilot/internal/orchestrator"

	"github.com/redis/go-redis/v9"
)

// eventsChannel is the Redis channel events are mirrored to, so other
// instances can forward them to their own websocket clients.
const eventsChannel = "drivepilot:events"

// Hub fans detection events out to websocket clients. Slow clients are
// skipped rather than blocking the serialized event handler.
type Hub struct {
	redis   *redis.Client
	clients map[*Client]struct{}
	mu      sync.RWMutex
}

type Client struct {
	Send chan []byte
}

func NewHub(redisClient *redis.Client) *Hub {
	h := &Hub{
		redis:   redisClient,
		clients: map[*Client]struct{}{},
	}

	if redisClient != nil {
		go h.subscribeRedis()
	}
	return h
}

func (h *Hub) Register() *Client {
	client := &Client{Send: make(chan []byte, 64)}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[client] = struct{}{}
	return client
}

func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.Send)
	}
}

// Broadcast delivers a payload to every connected client. With Redis
// configured the payload travels through the shared channel so each
// instance, this one included, fans it out exactly once.
func (h *Hub) Broadcast(payload []byte) {
	if h.redis != nil {
		err := h.redis.Publish(context.Background(), eventsChannel, payload).Err()
		if err == nil {
			return
		}
		log.Printf("redis publish error: %v", err)
	}
	h.fanOut(payload)
}

// EventSubscriber adapts the hub into an orchestrator subscriber.
func (h *Hub) EventSubscriber() orchestrator.Subscriber {
	return func(ev orchestrator.Event) {
		payload, err := json.Marshal(ev)
		if err != nil {
			log.Printf("event marshal error: %v", err)
			return
		}
		h.Broadcast(payload)
	}
}

func (h *Hub) fanOut(payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients {
		select {
		case client.Send <- payload:
		default:
		}
	}
}

func (h *Hub) subscribeRedis() {
	pubsub := h.redis.Subscribe(context.Background(), eventsChannel)
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		h.fanOut([]byte(msg.Payload))
	}
}
