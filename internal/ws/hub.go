package ws

import (
	"context"
	"log"
	"sync/atomic"

	"skillstack/internal/metrics"
)

// Hub fans change events out to connected dashboards. The client set is owned
// by the Run goroutine; everything else talks to it over channels.
type Hub struct {
	clients    map[*Client]struct{}
	connected  atomic.Int64
	events     chan []byte
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	logger     *log.Logger
}

func NewHub(logger *log.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]struct{}),
		events:     make(chan []byte, 256),
		register:   make(chan *Client, 64),
		unregister: make(chan *Client, 64),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Run serves registrations and broadcasts until ctx is done, then drops
// every client. Run must be called at most once.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for client := range h.clients {
				h.drop(client, "shutdown")
			}
			return

		case client := <-h.register:
			if client == nil {
				continue
			}
			h.clients[client] = struct{}{}
			h.track()
			h.logf("ws step=connect clients=%d", len(h.clients))

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				h.drop(client, "closed")
			}

		case msg := <-h.events:
			for client := range h.clients {
				select {
				case client.send <- msg:
				default:
					h.drop(client, "slow_client")
					metrics.WSDropped.WithLabelValues("slow_client").Inc()
				}
			}
			h.logf("ws step=broadcast clients=%d bytes=%d", len(h.clients), len(msg))
		}
	}
}

func (h *Hub) drop(client *Client, reason string) {
	delete(h.clients, client)
	close(client.send)
	h.track()
	h.logf("ws step=disconnect reason=%s clients=%d", reason, len(h.clients))
}

func (h *Hub) track() {
	n := int64(len(h.clients))
	h.connected.Store(n)
	metrics.WSClients.Set(float64(n))
}

func (h *Hub) logf(format string, args ...any) {
	if h.logger != nil {
		h.logger.Printf(format, args...)
	}
}

// Register hands client to the hub. Once Run has returned the client is
// closed immediately instead.
func (h *Hub) Register(client *Client) {
	if h == nil || client == nil {
		return
	}
	select {
	case <-h.done:
		close(client.send)
		return
	default:
	}
	select {
	case h.register <- client:
	case <-h.done:
		close(client.send)
	}
}

// Unregister never blocks past the end of Run; by then every client has
// already been dropped.
func (h *Hub) Unregister(client *Client) {
	if h == nil {
		return
	}
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Broadcast queues msg for every client. It never blocks; when the queue is
// full the event is dropped.
func (h *Hub) Broadcast(msg []byte) {
	if h == nil {
		return
	}
	select {
	case h.events <- msg:
	default:
		metrics.WSDropped.WithLabelValues("queue_full").Inc()
		h.logf("ws step=broadcast status=dropped reason=queue_full")
	}
}

func (h *Hub) ClientCount() int {
	if h == nil {
		return 0
	}
	return int(h.connected.Load())
}
