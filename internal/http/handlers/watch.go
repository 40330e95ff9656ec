package handlers

import (
	"net/http"

	"telegram_chess/internal/logger"
	"telegram_chess/internal/rules/chess"
	"telegram_chess/internal/session"
	"telegram_chess/internal/ws"

	"github.com/gin-gonic/gin"
	gorilla "github.com/gorilla/websocket"
)

var upgrader = gorilla.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// WatchHandler upgrades spectators onto a session's live feed.
type WatchHandler struct {
	store *session.Store
	hub   *ws.Hub
}

func NewWatchHandler(store *session.Store, hub *ws.Hub) *WatchHandler {
	return &WatchHandler{store: store, hub: hub}
}

// Watch streams board updates for one session. The session must be
// active when the spectator connects.
func (h *WatchHandler) Watch(c *gin.Context) {
	id := session.ID(c.Param("session"))
	s, err := h.store.Get(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no such session"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warn("spectator upgrade failed", "error", err)
		return
	}

	client := ws.NewClient(conn)
	h.hub.Subscribe(id, client)
	// snapshot goes to the new spectator only; existing watchers
	// already have the current position
	client.Deliver(ws.Update{
		Type:    "board",
		Session: string(id),
		FEN:     chess.FEN(s.State),
		Turn:    s.Turn,
	})

	go client.Serve(h.hub, id)
}
