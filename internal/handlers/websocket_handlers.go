package handlers

import (
	"log"
	"net/http"

	"clipsquad/internal/middleware"
	"clipsquad/internal/websocket"

	"github.com/google/uuid"
	ws "github.com/gorilla/websocket"
)

var upgrader = ws.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// TODO: check the Origin header against Config.AllowedOrigins
		return true
	},
}

// HandleWebSocket upgrades a connection into a live feed subscription.
// The stream is chosen with ?stream=clips|lfg; a JWT may be supplied as
// ?token= but the feed itself is public, so anonymous viewers are allowed.
func (s *Server) HandleWebSocket() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stream := r.URL.Query().Get("stream")
		if stream == "" {
			stream = "clips"
		}
		if !s.Feed.Has(stream) {
			http.Error(w, "Unknown stream", http.StatusBadRequest)
			return
		}

		userID := uuid.Nil
		if tokenString := r.URL.Query().Get("token"); tokenString != "" {
			claims, err := middleware.ValidateToken(tokenString)
			if err != nil {
				log.Printf("WebSocket connection failed: invalid token: %v", err)
				http.Error(w, "Invalid or expired token", http.StatusUnauthorized)
				return
			}
			userID = claims.UserID
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("WebSocket upgrade failed: %v", err)
			// Cannot write an HTTP error after a failed upgrade attempt
			return
		}

		client := &websocket.Client{
			Hub:    s.Hub,
			Stream: stream,
			UserID: userID,
			Conn:   conn,
			Send:   make(chan []byte, 256),
		}
		client.Hub.Register <- client

		// The hub replays the stream's last payload on register; a
		// refresh is also scheduled so the client converges on current
		// store state.
		s.Feed.Notify(stream)

		go client.WritePump()
		go client.ReadPump()
	}
}
