package gateway

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/7lmtv/rendezvous/pkg/logger"
)

// Connection represents one live client link. Its ID is an opaque token minted
// at upgrade time and never reused; identity equals connection lifetime.
type Connection struct {
	ID        string
	Conn      *websocket.Conn
	send      chan []byte
	closeOnce sync.Once
	createdAt time.Time
}

// NewConnection creates a connection wrapper around an upgraded WebSocket.
func NewConnection(id string, conn *websocket.Conn, sendBuffer int) *Connection {
	return &Connection{
		ID:        id,
		Conn:      conn,
		send:      make(chan []byte, sendBuffer),
		createdAt: time.Now(),
	}
}

// TrySend queues a message for delivery without blocking. Delivery is
// best-effort: a full outbound buffer means the link is not writable and the
// message is dropped. Returns whether the message was queued.
func (c *Connection) TrySend(msg ServerMessage) bool {
	data, err := json.Marshal(msg)
	if err != nil {
		logger.Error("failed to marshal server message",
			logger.ErrorField(err),
			logger.String("connection_id", c.ID),
			logger.String("message_type", string(msg.Type)),
		)
		return false
	}

	select {
	case c.send <- data:
		return true
	default:
		messagesDropped.WithLabelValues(string(msg.Type)).Inc()
		logger.Debug("outbound buffer full, dropping message",
			logger.String("connection_id", c.ID),
			logger.String("message_type", string(msg.Type)),
		)
		return false
	}
}

// Close tears down the transport link. Safe to call more than once; the send
// channel is closed exactly once so the write pump can terminate cleanly.
func (c *Connection) Close() {
	c.closeOnce.Do(func() {
		close(c.send)
		if c.Conn != nil {
			c.Conn.Close()
		}
	})
}
