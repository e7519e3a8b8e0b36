package network

import (
	"encoding/json"
	"errors"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Largest inbound frame; force and board files travel inline.
const maxMessageSize = 8 << 20

// ErrConnectionClosed is returned when sending on a closed connection
var ErrConnectionClosed = errors.New("connection closed")

// ErrSendBufferFull is returned when a slow client cannot keep up
var ErrSendBufferFull = errors.New("send buffer full")

// Connection wraps the WebSocket connection with additional fields
type Connection struct {
	ID     string
	ws     *websocket.Conn
	send   chan []byte
	logger *slog.Logger

	mutex  sync.Mutex
	closed bool
}

// NewConnection creates a new connection wrapper with a fresh id
func NewConnection(ws *websocket.Conn, logger *slog.Logger) *Connection {
	if logger == nil {
		logger = slog.Default()
	}
	id := uuid.NewString()
	return &Connection{
		ID:     id,
		ws:     ws,
		send:   make(chan []byte, 256), // Buffered channel for outgoing messages
		logger: logger.With("conn_id", id),
	}
}

// ReadPump reads messages from the WebSocket connection until it fails,
// then closes the outgoing queue so WritePump exits.
func (c *Connection) ReadPump(h MessageHandler) {
	defer func() {
		c.Close()
		c.ws.Close()
	}()

	c.ws.SetReadLimit(maxMessageSize)
	for {
		_, message, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Warn("error reading message", "error", err)
			}
			break
		}

		h.HandleMessage(c, message)
	}
}

// WritePump writes messages to the WebSocket connection
func (c *Connection) WritePump() {
	defer func() {
		c.ws.Close()
	}()

	for message := range c.send {
		w, err := c.ws.NextWriter(websocket.TextMessage)
		if err != nil {
			return
		}
		if _, err := w.Write(message); err != nil {
			return
		}
		if err := w.Close(); err != nil {
			return
		}
	}

	// Channel closed
	c.ws.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

// SendMessage queues a message for the client
func (c *Connection) SendMessage(msg interface{}) error {
	messageBytes, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	if c.closed {
		return ErrConnectionClosed
	}
	select {
	case c.send <- messageBytes:
		return nil
	default:
		// If the send channel is full, close the connection
		c.logger.Warn("send buffer full, dropping client")
		c.ws.Close()
		return ErrSendBufferFull
	}
}

// Close stops the outgoing queue. Queued messages are still written.
func (c *Connection) Close() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

// MessageHandler interface for handling messages
type MessageHandler interface {
	HandleMessage(conn *Connection, message []byte)
}
