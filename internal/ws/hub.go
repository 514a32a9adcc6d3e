// Package ws is the realtime message relay: every frame a client sends is
// broadcast to every connected client. There are no delivery guarantees, no
// ordering guarantees and no per-chat routing; persistence happens through
// the REST API, not here.
package ws

import (
	"context"

	"github.com/redis/go-redis/v9"

	"github.com/cipherhq/echohub-server/internal/logger"
	"github.com/cipherhq/echohub-server/internal/metrics"
)

// relayChannel is the Redis pub/sub channel shared by all server instances.
const relayChannel = "echohub-relay"

// Hub relays frames between connected clients. With a Redis client attached,
// published frames fan out through pub/sub so every server instance sees
// them; without one, frames loop back in-process. All client bookkeeping is
// confined to the Run goroutine.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte  // Fan-out -> connected clients
	register   chan *Client // New client joins
	unregister chan *Client // Client leaves
	publish    chan []byte  // Client frames -> fan-out
	redis      *redis.Client
}

func NewHub(redisClient *redis.Client) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		publish:    make(chan []byte),
		redis:      redisClient,
	}
}

func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return

		case client := <-h.register:
			h.clients[client] = true

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}

		case frame := <-h.publish:
			if h.redis != nil {
				if err := h.redis.Publish(ctx, relayChannel, frame).Err(); err != nil {
					logger.Log.Errorw("failed to publish relay frame", "err", err)
				}
				continue
			}
			h.fanOut(frame)

		case frame := <-h.broadcast:
			h.fanOut(frame)
		}
	}
}

func (h *Hub) fanOut(frame []byte) {
	metrics.RelayFramesTotal.Inc()
	for client := range h.clients {
		select {
		case client.send <- frame:
		default:
			// Slow consumer: drop the connection rather than block the hub.
			close(client.send)
			delete(h.clients, client)
		}
	}
}

// SubscribeToRedis forwards relay frames published by any instance into the
// local broadcast loop. Returns when ctx is done or the subscription closes.
func (h *Hub) SubscribeToRedis(ctx context.Context) {
	if h.redis == nil {
		return
	}

	pubsub := h.redis.Subscribe(ctx, relayChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			h.broadcast <- []byte(msg.Payload)
		}
	}
}
