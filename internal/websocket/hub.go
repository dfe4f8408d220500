package websocket

import (
	"log"
	"sync"
	"time"
)

// StreamUpdate carries an encoded feed snapshot for one named stream.
type StreamUpdate struct {
	Stream  string
	Payload []byte
}

// Hub maintains the set of active clients per feed stream and fans
// snapshot payloads out to them.
type Hub struct {
	// Registered clients, keyed by the stream they subscribed to.
	Streams map[string]map[*Client]bool

	// Snapshot payloads to fan out to one stream's clients.
	Announce chan *StreamUpdate

	// Register requests from the clients.
	Register chan *Client

	// Unregister requests from clients.
	Unregister chan *Client

	// Last payload seen per stream, replayed to newly registered clients
	// so they do not wait for the next store mutation.
	lastPayload map[string][]byte

	// Mutex to protect concurrent access to the stream map.
	mu sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		Announce:    make(chan *StreamUpdate),
		Register:    make(chan *Client),
		Unregister:  make(chan *Client),
		Streams:     make(map[string]map[*Client]bool),
		lastPayload: make(map[string][]byte),
	}
}

// Run starts the hub's processing loop.
func (h *Hub) Run() {
	log.Println("WebSocket Hub started.")
	for {
		select {
		case client := <-h.Register:
			h.mu.Lock()
			if _, ok := h.Streams[client.Stream]; !ok {
				h.Streams[client.Stream] = make(map[*Client]bool)
			}
			h.Streams[client.Stream][client] = true
			if payload, ok := h.lastPayload[client.Stream]; ok {
				select {
				case client.Send <- payload:
				default:
				}
			}
			log.Printf("WebSocket client registered for stream %q. Total connections for stream: %d", client.Stream, len(h.Streams[client.Stream]))
			h.mu.Unlock()

		case client := <-h.Unregister:
			h.mu.Lock()
			if streamClients, ok := h.Streams[client.Stream]; ok {
				if _, clientOk := streamClients[client]; clientOk {
					delete(streamClients, client)
					if len(streamClients) == 0 {
						delete(h.Streams, client.Stream)
						log.Printf("WebSocket client unregistered. Stream %q has no more connections.", client.Stream)
					} else {
						log.Printf("WebSocket client unregistered for stream %q. Remaining connections: %d", client.Stream, len(streamClients))
					}
				}
			}
			h.mu.Unlock()

		case update := <-h.Announce:
			h.mu.Lock()
			h.lastPayload[update.Stream] = update.Payload
			for client := range h.Streams[update.Stream] {
				select {
				case client.Send <- update.Payload:
				default:
					log.Printf("Send buffer full for a client of stream %q, snapshot dropped for this client", update.Stream)
				}
			}
			h.mu.Unlock()
		}
	}
}

// AnnounceSnapshot hands an encoded snapshot to the hub for fan-out. Used
// by the bridge goroutines that pump feed subscriptions into the hub.
func (h *Hub) AnnounceSnapshot(stream string, payload []byte) {
	update := &StreamUpdate{Stream: stream, Payload: payload}
	select {
	case h.Announce <- update:
	case <-time.After(1 * time.Second):
		log.Printf("Timeout queuing snapshot for stream %q. Hub might be busy or blocked.", stream)
	}
}
