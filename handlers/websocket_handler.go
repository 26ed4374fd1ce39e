package handlers

import (
	"log/slog"
	"net/http"
	"slices"

	"github.com/fadhelhaji/90Plus-backend/live"
	"github.com/fadhelhaji/90Plus-backend/services"
	"github.com/gorilla/websocket"
)

type WebSocketHandler struct {
	hub         *live.Hub
	clubService services.ClubService
	upgrader    websocket.Upgrader
}

// NewWebSocketHandler accepts any origin when allowedOrigins is empty or contains "*".
func NewWebSocketHandler(hub *live.Hub, clubService services.ClubService, allowedOrigins []string) *WebSocketHandler {
	allowAll := len(allowedOrigins) == 0 || slices.Contains(allowedOrigins, "*")
	return &WebSocketHandler{
		hub:         hub,
		clubService: clubService,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return allowAll || origin == "" || slices.Contains(allowedOrigins, origin)
			},
		},
	}
}

// ServeWs subscribes the connection to live game events of /ws/clubs/{clubID}.
// It runs behind Authenticate.
func (h *WebSocketHandler) ServeWs(w http.ResponseWriter, r *http.Request) {
	clubID, err := getIDFromURL(r, "clubID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if err := h.clubService.EnsureClub(r.Context(), clubID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		slog.Warn("failed to upgrade websocket connection", slog.Int("club_id", clubID), slog.Any("error", err))
		return
	}

	room := live.ClubRoom(clubID)
	client := live.NewClient(h.hub, conn, room)
	h.hub.Register(client)
	slog.Debug("websocket client subscribed", slog.String("room", room))

	go client.WritePump()
	go client.ReadPump()
}
