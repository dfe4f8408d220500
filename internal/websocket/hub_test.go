package websocket

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestClient(hub *Hub, stream string) *Client {
	return &Client{
		Hub:    hub,
		Stream: stream,
		Send:   make(chan []byte, 4),
	}
}

func receive(t *testing.T, c *Client) []byte {
	t.Helper()
	select {
	case payload := <-c.Send:
		return payload
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for payload")
		return nil
	}
}

func TestHubFansOutPerStream(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	clipClient := newTestClient(hub, "clips")
	lfgClient := newTestClient(hub, "lfg")
	hub.Register <- clipClient
	hub.Register <- lfgClient

	hub.AnnounceSnapshot("clips", []byte(`{"stream":"clips"}`))

	assert.Equal(t, `{"stream":"clips"}`, string(receive(t, clipClient)))

	select {
	case payload := <-lfgClient.Send:
		t.Fatalf("lfg client must not receive clips payloads, got %s", payload)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestHubReplaysLastPayloadToNewClients(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	first := newTestClient(hub, "clips")
	hub.Register <- first
	hub.AnnounceSnapshot("clips", []byte("v1"))
	receive(t, first)

	late := newTestClient(hub, "clips")
	hub.Register <- late

	assert.Equal(t, "v1", string(receive(t, late)))
}

func TestHubUnregisterStopsDelivery(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := newTestClient(hub, "clips")
	hub.Register <- client
	hub.Unregister <- client

	hub.AnnounceSnapshot("clips", []byte("after"))

	select {
	case payload := <-client.Send:
		t.Fatalf("unregistered client received %s", payload)
	case <-time.After(100 * time.Millisecond):
	}
}
