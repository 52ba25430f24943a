package handlers

import (
	"net/http"

	gorilla "github.com/gorilla/websocket"

	"lilypad/internal/middleware"
	"lilypad/internal/websocket"
)

var upgrader = gorilla.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Origin enforcement is handled by the CORS layer.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// HandleWebSocket upgrades an authenticated connection and registers it with
// the hub for live post score updates.
func (s *Server) HandleWebSocket() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middleware.GetUserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Warn().Err(err).Msg("websocket upgrade failed")
			return
		}

		client := websocket.NewClient(s.Hub, userID, conn)
		s.Hub.Register <- client

		go client.WritePump()
		go client.ReadPump()
	}
}
