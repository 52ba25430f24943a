package websocket

import (
	"encoding/json"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Str("component", "websocket").Logger()

// ScoreUpdate is the payload pushed to clients when a post's points change.
type ScoreUpdate struct {
	Type   string    `json:"type"`
	PostID uuid.UUID `json:"postId"`
	Points int       `json:"points"`
}

// Hub maintains the set of active clients and broadcasts score updates to all
// of them.
type Hub struct {
	// Registered clients. Maps user ID to a set of active client connections.
	Clients map[uuid.UUID]map[*Client]bool

	// Outbound messages fanned out to every connected client.
	Broadcast chan []byte

	// Register requests from the clients.
	Register chan *Client

	// Unregister requests from clients.
	Unregister chan *Client

	// Mutex to protect concurrent access to the clients map.
	mu sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		Broadcast:  make(chan []byte, 64),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		Clients:    make(map[uuid.UUID]map[*Client]bool),
	}
}

// Run starts the hub's processing loop.
func (h *Hub) Run() {
	logger.Info().Msg("websocket hub started")
	for {
		select {
		case client := <-h.Register:
			h.mu.Lock()
			if _, ok := h.Clients[client.UserID]; !ok {
				h.Clients[client.UserID] = make(map[*Client]bool)
			}
			h.Clients[client.UserID][client] = true
			h.mu.Unlock()
			logger.Debug().Str("user_id", client.UserID.String()).Msg("websocket client registered")

		case client := <-h.Unregister:
			h.mu.Lock()
			if userClients, ok := h.Clients[client.UserID]; ok {
				if _, clientOk := userClients[client]; clientOk {
					delete(userClients, client)
					if len(userClients) == 0 {
						delete(h.Clients, client.UserID)
					}
				}
			}
			h.mu.Unlock()
			logger.Debug().Str("user_id", client.UserID.String()).Msg("websocket client unregistered")

		case message := <-h.Broadcast:
			h.mu.RLock()
			for _, userClients := range h.Clients {
				for client := range userClients {
					select {
					case client.Send <- message:
					default:
						logger.Warn().Str("user_id", client.UserID.String()).Msg("broadcast send buffer full, message dropped")
					}
				}
			}
			h.mu.RUnlock()
		}
	}
}

// PostScoreChanged implements forum.ScoreListener: every connected client
// receives the post's new points total.
func (h *Hub) PostScoreChanged(postID uuid.UUID, points int) {
	payload, err := json.Marshal(ScoreUpdate{
		Type:   "post_points",
		PostID: postID,
		Points: points,
	})
	if err != nil {
		logger.Error().Err(err).Msg("failed to encode score update")
		return
	}

	select {
	case h.Broadcast <- payload:
	case <-time.After(1 * time.Second):
		logger.Warn().Str("post_id", postID.String()).Msg("timeout queuing score update, hub busy")
	}
}
