package websocket

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestHubBroadcastsScoreUpdate(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := NewClient(hub, uuid.New(), nil)
	hub.Register <- client

	postID := uuid.New()
	hub.PostScoreChanged(postID, 42)

	select {
	case message := <-client.Send:
		var update ScoreUpdate
		assert.NoError(t, json.Unmarshal(message, &update))
		assert.Equal(t, "post_points", update.Type)
		assert.Equal(t, postID, update.PostID)
		assert.Equal(t, 42, update.Points)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for score update")
	}
}

func TestHubUnregisterRemovesClient(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := NewClient(hub, uuid.New(), nil)
	hub.Register <- client
	hub.Unregister <- client

	// Broadcast after unregister; the client's channel must stay empty.
	hub.PostScoreChanged(uuid.New(), 1)

	select {
	case <-client.Send:
		t.Fatal("unregistered client received a message")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestHubFanOutToMultipleClients(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	first := NewClient(hub, uuid.New(), nil)
	second := NewClient(hub, uuid.New(), nil)
	hub.Register <- first
	hub.Register <- second

	hub.PostScoreChanged(uuid.New(), 3)

	for _, client := range []*Client{first, second} {
		select {
		case <-client.Send:
		case <-time.After(2 * time.Second):
			t.Fatal("client missed the broadcast")
		}
	}
}
