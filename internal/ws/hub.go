// Package ws streams live board updates to read-only spectators over
// WebSocket. Spectators never influence a game; the hub is pure fan-out.
package ws

import (
	"encoding/json"
	"sync"

	"telegram_chess/internal/logger"
	"telegram_chess/internal/session"
)

// Update is one spectator-facing message.
type Update struct {
	Type    string `json:"type"` // "board" or "ended"
	Session string `json:"session"`
	FEN     string `json:"fen,omitempty"`
	Turn    int64  `json:"turn,omitempty"`
	Outcome string `json:"outcome,omitempty"`
}

type Hub struct {
	mu   sync.RWMutex
	subs map[session.ID]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{subs: make(map[session.ID]map[*Client]struct{})}
}

func (h *Hub) Subscribe(id session.ID, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.subs[id] == nil {
		h.subs[id] = make(map[*Client]struct{})
	}
	h.subs[id][c] = struct{}{}
}

func (h *Hub) Unsubscribe(id session.ID, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if set, ok := h.subs[id]; ok {
		delete(set, c)
		if len(set) == 0 {
			delete(h.subs, id)
		}
	}
}

// Broadcast sends the update to every spectator of its session. Slow
// clients are skipped, not waited for.
func (h *Hub) Broadcast(u Update) {
	data, err := json.Marshal(u)
	if err != nil {
		logger.Error("spectator update marshal failed", "error", err)
		return
	}

	h.mu.RLock()
	clients := make([]*Client, 0, len(h.subs[session.ID(u.Session)]))
	for c := range h.subs[session.ID(u.Session)] {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		select {
		case c.send <- data:
		default:
			logger.Debug("spectator send buffer full, dropping update", "session", u.Session)
		}
	}
}

// Watchers reports the spectator count for a session.
func (h *Hub) Watchers(id session.ID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[id])
}
