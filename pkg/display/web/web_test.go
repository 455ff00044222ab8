package web

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
	"github.com/thelolagemann/gbcore/internal/joypad"
	"github.com/thelolagemann/gbcore/pkg/display/event"
	"github.com/thelolagemann/gbcore/pkg/emulator"
)

type testEmulator struct {
	mu       sync.Mutex
	commands []emulator.Command
}

func (e *testEmulator) SendCommand(command emulator.CommandPacket) emulator.ResponsePacket {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.commands = append(e.commands, command.Command)
	if command.Command == emulator.CommandLoadROM {
		return emulator.ResponsePacket{Command: command.Command, Error: emulator.ErrUnsupportedCommand}
	}
	return emulator.ResponsePacket{Command: command.Command}
}

func (e *testEmulator) Speed() float64 { return 1 }

func (e *testEmulator) Status() emulator.Status { return emulator.Running }

func (e *testEmulator) sent() []emulator.Command {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]emulator.Command(nil), e.commands...)
}

// readType reads messages until one of type typ arrives.
func readType(t *testing.T, conn *websocket.Conn, typ Type) []byte {
	t.Helper()
	assert.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("waiting for message %d: %v", typ, err)
		}
		if len(message) > 0 && message[0] == typ {
			return message
		}
	}
}

func TestDriver(t *testing.T) {
	emu := &testEmulator{}
	d := &driver{addr: "127.0.0.1:0", settings: defaultSettings()}
	d.Initialize(emu, log.NewTestLogger(t))

	fb := make(chan []byte, 1)
	events := make(chan event.Event, 1)
	pressed := make(chan joypad.Button, 1)
	released := make(chan joypad.Button, 1)

	done := make(chan error, 1)
	go func() {
		done <- d.Start(fb, events, pressed, released)
	}()

	deadline := time.Now().Add(5 * time.Second)
	for d.Addr() == nil && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	assert.NotNil(t, d.Addr())

	conn, _, err := websocket.DefaultDialer.Dial("ws://"+d.Addr().String()+"/", nil)
	assert.NoError(t, err)
	defer conn.Close()

	identify := readType(t, conn, ClientIdentify)
	assert.Equal(t, uint8(1), identify[1])
	status := readType(t, conn, Status)
	assert.Equal(t, uint8(0b11101), status[1])

	fb <- solidFrame(1, 2, 3)
	frame := readType(t, conn, Frame)
	assert.Equal(t, []byte{1, 2, 3, 0xFF}, decompress(t, frame[3:])[:4])

	assert.NoError(t, conn.WriteMessage(websocket.BinaryMessage, []byte{joypad.ButtonStart, 1}))
	select {
	case b := <-pressed:
		assert.Equal(t, joypad.ButtonStart, b)
	case <-time.After(5 * time.Second):
		t.Fatal("button press not forwarded")
	}

	assert.NoError(t, conn.WriteMessage(websocket.BinaryMessage, []byte{Command, uint8(emulator.CommandPause)}))
	assert.NoError(t, conn.WriteMessage(websocket.BinaryMessage, []byte{Command, uint8(emulator.CommandLoadROM)}))
	message := readType(t, conn, CommandError)
	assert.True(t, strings.Contains(string(message[1:]), "unsupported"))
	assert.Equal(t, []emulator.Command{emulator.CommandPause, emulator.CommandLoadROM}, emu.sent())

	// the periodic status may still carry the old settings
	assert.NoError(t, conn.WriteMessage(websocket.BinaryMessage, []byte{System, Compression, 0}))
	for status[1] != 0b11001 {
		status = readType(t, conn, Status)
	}

	events <- event.Event{Type: event.Title, Data: "Tetris"}
	title := readType(t, conn, Title)
	assert.Equal(t, "Tetris", string(title[1:]))

	assert.NoError(t, d.Stop())
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Start did not return after Stop")
	}
}

func TestHub_SlowClient(t *testing.T) {
	done := make(chan struct{})
	defer close(done)
	h := newHub(log.NewTestLogger(t), done)

	c := &Client{hub: h, send: make(chan []byte, 1), ID: 1}
	h.clients[c] = true

	h.send([]byte{1})
	assert.Equal(t, 1, h.count())
	h.send([]byte{2})
	assert.Equal(t, 0, h.count())

	_, open := <-c.send
	assert.True(t, open)
	_, open = <-c.send
	assert.False(t, open)
}

func TestHub_ServeWS(t *testing.T) {
	done := make(chan struct{})
	defer close(done)
	h := newHub(log.NewTestLogger(t), done)

	server := httptest.NewServer(http.HandlerFunc(h.serveWS))
	defer server.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(server.URL, "http"), nil)
	assert.NoError(t, err)
	defer conn.Close()

	select {
	case c := <-h.joined:
		assert.Equal(t, uint8(1), c.ID)
	case <-time.After(5 * time.Second):
		t.Fatal("client did not join")
	}

	assert.NoError(t, conn.WriteMessage(websocket.BinaryMessage, []byte{Closing}))
	deadline := time.Now().Add(5 * time.Second)
	for h.count() > 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	assert.Equal(t, 0, h.count())
}
