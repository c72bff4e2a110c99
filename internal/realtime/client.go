package realtime

import (
	"context"
	"encoding/json/v2"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/booksphere/booksphere-server/internal/config"
	"github.com/booksphere/booksphere-server/internal/domain"
)

// Client is one websocket connection with its authenticated user.
type Client struct {
	ID          string
	User        *domain.User
	ConnectedAt time.Time

	conn *websocket.Conn
	send chan []byte
	room string // guarded by the hub's mutex

	hub        *Hub
	dispatcher *Dispatcher
	cfg        config.RealtimeConfig
	logger     *slog.Logger

	closeOnce sync.Once
}

// trySend queues an outbound frame without blocking. Returns false when
// the client's buffer is full or closed.
func (c *Client) trySend(frame []byte) (ok bool) {
	defer func() {
		// Send on a closed channel during disconnect races is survivable.
		if recover() != nil {
			ok = false
		}
	}()

	select {
	case c.send <- frame:
		return true
	default:
		return false
	}
}

func (c *Client) closeSend() {
	c.closeOnce.Do(func() { close(c.send) })
}

// readPump reads inbound frames until the connection dies, feeding each
// through the dispatcher. Runs as the connection's main goroutine.
func (c *Client) readPump(ctx context.Context) {
	defer func() {
		c.hub.Unregister(c)
		c.dispatcher.limiter.Forget(c.User.ID)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(64 << 10)
	_ = c.conn.SetReadDeadline(time.Now().Add(c.cfg.PongTimeout))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(c.cfg.PongTimeout))
	})

	for {
		_, frame, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Warn("websocket read error",
					"client_id", c.ID, "user_id", c.User.ID, "error", err)
			}
			return
		}
		_ = c.conn.SetReadDeadline(time.Now().Add(c.cfg.PongTimeout))

		if !c.dispatcher.limiter.Allow(c.User.ID) {
			c.hub.SendError(c, "too many messages, slow down", "RATE_LIMITED")
			continue
		}

		var env Envelope
		if err := json.Unmarshal(frame, &env); err != nil {
			c.hub.SendError(c, "malformed message", "BAD_ENVELOPE")
			continue
		}

		c.dispatcher.Dispatch(ctx, c, env)
	}
}

// writePump drains the send channel to the socket and keeps the
// connection alive with pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(c.cfg.PingInterval)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case frame, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteTimeout))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
