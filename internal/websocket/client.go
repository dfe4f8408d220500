package websocket

import (
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 512
)

// Client is a middleman between the websocket connection and the hub.
type Client struct {
	Hub *Hub

	// The feed stream this client watches ("clips" or "lfg").
	Stream string

	// The user this client represents; uuid.Nil for anonymous viewers.
	UserID uuid.UUID

	// The websocket connection.
	Conn *websocket.Conn

	// Buffered channel of outbound snapshot payloads.
	Send chan []byte
}

// ReadPump pumps messages from the websocket connection to the hub. The
// feed is one-way; anything the client sends is discarded, but the read
// loop is still what notices the connection going away.
func (c *Client) ReadPump() {
	defer func() {
		c.Hub.Unregister <- c
		c.Conn.Close()
	}()
	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error { c.Conn.SetReadDeadline(time.Now().Add(pongWait)); return nil })
	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket read error on stream %q: %v", c.Stream, err)
			}
			break
		}
	}
}

// WritePump pumps snapshot payloads from the hub to the websocket
// connection.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()
	for {
		select {
		case payload, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			// Snapshots are full states, so when several queued up only
			// the newest matters.
			for len(c.Send) > 0 {
				payload = <-c.Send
			}

			if err := c.Conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				log.Printf("WebSocket write error on stream %q: %v", c.Stream, err)
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
