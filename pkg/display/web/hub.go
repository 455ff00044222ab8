// Package web implements a display driver streaming the frames of the
// emulator to browsers over websockets. Browsers send joypad input and
// emulator commands back over the same connection.
package web

import (
	"encoding/binary"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/retroenv/retrogolib/log"
)

// clientMessage is a message received from a client.
type clientMessage struct {
	client *Client
	data   []byte
}

// hub keeps track of the connected clients and fans the messages of
// the driver out to them.
type hub struct {
	mu      sync.Mutex
	clients map[*Client]bool

	incoming chan clientMessage
	joined   chan *Client
	done     chan struct{}

	currentID atomic.Uint32
	log       *log.Logger
}

func newHub(logger *log.Logger, done chan struct{}) *hub {
	return &hub{
		clients:  make(map[*Client]bool),
		incoming: make(chan clientMessage, 64),
		joined:   make(chan *Client, 8),
		done:     done,
		log:      logger,
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024 * 16,
	WriteBufferSize: 1024 * 16,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// serveWS upgrades the connection and registers the new client.
func (h *hub) serveWS(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("Websocket upgrade failed", log.String("remote", r.RemoteAddr), log.Err(err))
		return
	}

	c := &Client{
		hub:         h,
		conn:        conn,
		send:        make(chan []byte, 256),
		ID:          uint8(h.currentID.Add(1)),
		RemoteAddr:  r.RemoteAddr,
		UserAgent:   r.Header.Get("User-Agent"),
		connectedAt: time.Now(),
	}
	c.send <- []byte{ClientIdentify, c.ID}

	go c.writePump()
	go c.readPump()

	h.join(c)
}

func (h *hub) join(c *Client) {
	h.mu.Lock()
	h.clients[c] = true
	n := len(h.clients)
	h.mu.Unlock()

	h.log.Info("Client connected",
		log.Int("id", int(c.ID)),
		log.String("remote", c.RemoteAddr),
		log.Int("clients", n))

	select {
	case h.joined <- c:
	case <-h.done:
	}
}

func (h *hub) leave(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.clients[c] {
		delete(h.clients, c)
		close(c.send)
		h.log.Info("Client disconnected", log.Int("id", int(c.ID)))
	}
}

// send queues message for every client. Clients that have fallen
// behind are disconnected.
func (h *hub) send(message []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.clients {
		if !c.trySend(message) {
			delete(h.clients, c)
			close(c.send)
			h.log.Warn("Client too slow, disconnected", log.Int("id", int(c.ID)))
		}
	}
}

// sendTo queues message for c, if it is still connected.
func (h *hub) sendTo(c *Client, message []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.clients[c] && !c.trySend(message) {
		delete(h.clients, c)
		close(c.send)
	}
}

// closeAll disconnects every client.
func (h *hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
	}
}

// serverInfo builds the ServerInfo message from the latency of every
// client.
func (h *hub) serverInfo() []byte {
	h.mu.Lock()
	defer h.mu.Unlock()

	data := []byte{ServerInfo}
	for c := range h.clients {
		data = append(data, c.ID)
		data = binary.LittleEndian.AppendUint16(data, uint16(c.latency.Load()))
	}
	return data
}

// count returns the number of connected clients.
func (h *hub) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}
