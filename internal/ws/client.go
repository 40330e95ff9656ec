package ws

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"

	"telegram_chess/internal/logger"
	"telegram_chess/internal/session"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 50 * time.Second
)

// Client is one spectator connection. Spectators only receive; inbound
// frames are read solely to service pings and detect closure.
type Client struct {
	conn *websocket.Conn
	send chan []byte
}

func NewClient(conn *websocket.Conn) *Client {
	return &Client{
		conn: conn,
		send: make(chan []byte, 64),
	}
}

// Deliver queues one update for this client only, without going
// through the hub. Dropped if the send buffer is full.
func (c *Client) Deliver(u Update) {
	data, err := json.Marshal(u)
	if err != nil {
		logger.Error("spectator update marshal failed", "error", err)
		return
	}
	select {
	case c.send <- data:
	default:
		logger.Debug("spectator send buffer full, dropping update", "session", u.Session)
	}
}

// Serve pumps updates to the connection until it closes, then
// unsubscribes. The caller must have subscribed the client already so
// no update is lost before the pumps start. Blocks for the
// connection's lifetime.
func (c *Client) Serve(hub *Hub, id session.ID) {
	defer func() {
		hub.Unsubscribe(id, c)
		c.conn.Close()
	}()

	done := make(chan struct{})
	go c.readPump(done)
	c.writePump(done)
}

func (c *Client) readPump(done chan<- struct{}) {
	defer close(done)

	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *Client) writePump(done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case msg := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
