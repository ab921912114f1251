package handlers

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/isdelr/task-manager-be/internal/auth"
	ws "github.com/isdelr/task-manager-be/internal/websocket"
	"github.com/rs/zerolog/log"
)

// WebSocketHandler upgrades authenticated requests to task event streams.
type WebSocketHandler struct {
	hub      *ws.Hub
	upgrader websocket.Upgrader
}

// NewWebSocketHandler creates a new WebSocketHandler.
func NewWebSocketHandler(hub *ws.Hub) *WebSocketHandler {
	return &WebSocketHandler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The connection is already authenticated by bearer token.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Serve handles the WebSocket connection request.
func (h *WebSocketHandler) Serve(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("Failed to upgrade websocket connection")
		return
	}

	client := ws.NewClient(h.hub, conn, user.ID)
	// Queued before Join so it is always the first frame the client reads.
	client.Send <- ws.NewMessage(ws.EventConnected, map[string]string{"userId": user.ID})
	h.hub.Join(client)

	go client.WritePump()
	go client.ReadPump()
}
