package handlers

import (
	"net/http"
	"strconv"

	"telegram_chess/internal/domain"
	"telegram_chess/internal/repository"
	"telegram_chess/internal/rules"
	"telegram_chess/internal/rules/chess"
	"telegram_chess/internal/session"

	"github.com/gin-gonic/gin"
)

// SessionsHandler exposes read-only operator views of live sessions and
// the game archive.
type SessionsHandler struct {
	store   *session.Store
	archive *repository.ArchiveRepository
}

func NewSessionsHandler(store *session.Store, archive *repository.ArchiveRepository) *SessionsHandler {
	return &SessionsHandler{store: store, archive: archive}
}

type sessionSummary struct {
	ID         string `json:"id"`
	First      int64  `json:"first"`
	Second     int64  `json:"second"`
	Turn       int64  `json:"turn"`
	SideToMove string `json:"side_to_move"`
	FEN        string `json:"fen,omitempty"`
	CreatedAt  string `json:"created_at"`
}

func colorName(r rules.Role) string {
	if r == rules.RoleSecond {
		return "black"
	}
	return "white"
}

// List returns every active session.
func (h *SessionsHandler) List(c *gin.Context) {
	active := h.store.Active()
	out := make([]sessionSummary, 0, len(active))
	for _, s := range active {
		out = append(out, sessionSummary{
			ID:         string(s.ID),
			First:      s.First,
			Second:     s.Second,
			Turn:       s.Turn,
			SideToMove: colorName(chess.SideToMove(s.State)),
			FEN:        chess.FEN(s.State),
			CreatedAt:  s.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
		})
	}
	c.JSON(http.StatusOK, gin.H{"sessions": out, "count": len(out)})
}

// PlayerGames returns a player's archived games.
func (h *SessionsHandler) PlayerGames(c *gin.Context) {
	if h.archive == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "archive not configured"})
		return
	}

	playerID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid player id"})
		return
	}

	limit := 50
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	records, err := h.archive.ListByPlayer(c.Request.Context(), playerID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "archive query failed"})
		return
	}
	if records == nil {
		records = []*domain.GameRecord{}
	}
	c.JSON(http.StatusOK, gin.H{"games": records})
}
