package web

import (
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/retroenv/retrogolib/log"
)

const (
	// writeWait is the time allowed to write a message to the client.
	writeWait = 10 * time.Second
	// pongWait is the time allowed to read the next pong message.
	pongWait = 60 * time.Second
	// pingPeriod must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10
	// maxMessageSize is the largest message accepted from a client.
	maxMessageSize = 512
)

// Client is a browser connected to the hub.
type Client struct {
	hub  *hub
	conn *websocket.Conn
	send chan []byte

	ID          uint8
	RemoteAddr  string
	UserAgent   string
	connectedAt time.Time

	latency atomic.Uint32 // round trip time in milliseconds
}

// trySend queues message unless the client has fallen behind.
func (c *Client) trySend(message []byte) bool {
	select {
	case c.send <- message:
		return true
	default:
		return false
	}
}

// readPump forwards the messages of the client to the hub until the
// connection is closed.
func (c *Client) readPump() {
	defer func() {
		c.hub.leave(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.log.Debug("Client read failed", log.Int("id", int(c.ID)), log.Err(err))
			}
			return
		}
		if len(message) == 0 {
			continue
		}
		if message[0] == Closing {
			return
		}

		select {
		case c.hub.incoming <- clientMessage{client: c, data: message}:
		case <-c.hub.done:
			return
		}
	}
}

// writePump writes the queued messages to the connection and pings
// the client, until the hub closes the send channel.
func (c *Client) writePump() {
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
			if err := c.conn.WriteMessage(websocket.BinaryMessage, message); err != nil {
				return
			}

			if d, err := rtt(c.conn.UnderlyingConn()); err == nil {
				// smooth over the last 10 measurements
				avg := (c.latency.Load()*9 + uint32(d/time.Millisecond)) / 10
				c.latency.Store(avg)
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
