package bridge

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
	readLimit  = 65536
)

type client struct {
	conn   *websocket.Conn
	server *Server
	send   chan []byte

	mu     sync.Mutex
	closed bool
}

func (c *client) readPump() {
	defer func() {
		c.server.removeClient(c)
		c.close()
	}()

	c.conn.SetReadLimit(readLimit)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.server.logger.Warnw("websocket error", "error", err)
			}
			return
		}

		c.handleMessage(data)
	}
}

func (c *client) handleMessage(data []byte) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		c.sendError(ErrInvalidMessage, "failed to parse message")
		return
	}

	var err error
	switch msg.Type {
	case TypeSetTarget:
		var payload TargetPayload
		if err := msg.ParsePayload(&payload); err != nil {
			c.sendError(ErrInvalidMessage, "invalid set_target payload")
			return
		}
		err = c.server.mount.SetTarget(payload.Degrees)
	case TypeSetSpeed:
		var payload SpeedPayload
		if err := msg.ParsePayload(&payload); err != nil {
			c.sendError(ErrInvalidMessage, "invalid set_speed payload")
			return
		}
		err = c.server.mount.SetSpeed(payload.DegreesPerSecond)
	case TypeSetInversion:
		var payload InversionPayload
		if err := msg.ParsePayload(&payload); err != nil {
			c.sendError(ErrInvalidMessage, "invalid set_inversion payload")
			return
		}
		err = c.server.mount.SetInversion(payload.Inverted)
	case TypeStatus:
		c.sendMessage(TypeStatus, c.server.status())
	default:
		c.sendError(ErrUnknownType, "unknown message type: "+msg.Type)
		return
	}

	if err != nil {
		c.server.logger.Errorw("error forwarding command", "type", msg.Type, "error", err)
		c.sendError(ErrLinkUnavailable, err.Error())
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *client) sendMessage(msgType string, payload any) {
	data, err := newMessage(msgType, payload)
	if err != nil {
		c.server.logger.Errorw("error encoding message", "type", msgType, "error", err)
		return
	}
	c.enqueue(data)
}

func (c *client) sendError(code, message string) {
	c.sendMessage(TypeError, ErrorPayload{Code: code, Message: message})
}

// enqueue never blocks; a slow client loses messages instead of stalling the others
func (c *client) enqueue(data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}

	select {
	case c.send <- data:
	default:
		c.server.logger.Debugw("client send buffer full, dropping message")
	}
}

// close ends the write pump, which closes the connection
func (c *client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
}
