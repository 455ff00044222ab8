package web

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/retroenv/retrogolib/log"
	"github.com/thelolagemann/gbcore/internal/joypad"
	"github.com/thelolagemann/gbcore/internal/types"
	"github.com/thelolagemann/gbcore/pkg/display"
	"github.com/thelolagemann/gbcore/pkg/display/event"
	"github.com/thelolagemann/gbcore/pkg/emulator"
	gblog "github.com/thelolagemann/gbcore/pkg/log"
)

func init() {
	d := &driver{settings: defaultSettings()}
	display.Install("web", d, []display.DriverOption{
		{
			Name:        "addr",
			Default:     ":8090",
			Value:       &d.addr,
			Type:        "string",
			Description: "Address the websocket server listens on",
		},
		{
			Name:        "compression",
			Default:     true,
			Value:       &d.settings.compression,
			Type:        "bool",
			Description: "Compress frames with brotli",
		},
		{
			Name:        "frame-patching",
			Default:     true,
			Value:       &d.settings.framePatching,
			Type:        "bool",
			Description: "Only send the changed pixels of mostly unchanged frames",
		},
		{
			Name:        "frame-skipping",
			Default:     true,
			Value:       &d.settings.frameSkipping,
			Type:        "bool",
			Description: "Do not send unchanged frames",
		},
	})
}

// driver serves the frames of the emulator to browsers.
type driver struct {
	addr     string
	settings settings

	emu display.Emulator
	log *log.Logger

	mu       sync.Mutex
	done     chan struct{}
	stopOnce sync.Once
	listener net.Addr
}

func (d *driver) Initialize(emu display.Emulator, logger *log.Logger) {
	d.emu = emu
	d.log = logger
	if d.log == nil {
		d.log = gblog.NewQuiet()
	}

	d.mu.Lock()
	d.done = make(chan struct{})
	d.mu.Unlock()
}

// Start serves websocket clients until Stop is called, the frame
// channel is closed or a Quit event is received.
func (d *driver) Start(fb <-chan []byte, events <-chan event.Event, pressed, released chan<- joypad.Button) error {
	ln, err := net.Listen("tcp", d.addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", d.addr, err)
	}
	d.mu.Lock()
	d.listener = ln.Addr()
	done := d.done
	d.mu.Unlock()

	h := newHub(d.log, done)
	mux := http.NewServeMux()
	mux.HandleFunc("/", h.serveWS)
	server := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.Serve(ln)
	}()
	d.log.Info("Web driver listening", log.String("addr", ln.Addr().String()))

	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(ctx)
		h.closeAll()
	}()

	enc := newEncoder()
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case f, ok := <-fb:
			if !ok {
				return nil
			}
			messages, err := enc.encode(f, d.settings)
			if err != nil {
				d.log.Warn("Encoding frame failed", log.Err(err))
			}
			for _, m := range messages {
				h.send(m)
			}

		case e := <-events:
			switch e.Type {
			case event.Quit:
				return nil
			case event.Title:
				if title, ok := e.Data.(string); ok {
					h.send(append([]byte{Title}, title...))
				}
			}

		case c := <-h.joined:
			messages, err := enc.sync()
			if err != nil {
				d.log.Warn("Syncing client failed", log.Err(err))
			}
			for _, m := range messages {
				h.sendTo(c, m)
			}
			h.sendTo(c, []byte{Status, d.info()})

		case m := <-h.incoming:
			d.handle(h, m, pressed, released)

		case <-ticker.C:
			if h.count() > 0 {
				h.send(h.serverInfo())
				h.send([]byte{Status, d.info()})
			}

		case err := <-serveErr:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return fmt.Errorf("serving websocket clients: %w", err)

		case <-done:
			return nil
		}
	}
}

// handle acts on a message received from a client: a joypad button
// ([button, state]), a setting or an emulator command.
func (d *driver) handle(h *hub, m clientMessage, pressed, released chan<- joypad.Button) {
	data := m.data
	switch {
	case data[0] <= joypad.ButtonDown && len(data) == 2:
		if data[1] == 0 {
			released <- data[0]
		} else {
			pressed <- data[0]
		}

	case data[0] == System && len(data) == 3:
		switch data[1] {
		case Compression:
			d.settings.compression = data[2] == 1
		case CompressionLevel:
			d.settings.compressionLevel = min(int(data[2]), 11)
		case FramePatching:
			d.settings.framePatching = data[2] == 1
		case FrameSkipping:
			d.settings.frameSkipping = data[2] == 1
		default:
			return
		}
		h.send([]byte{Status, d.info()})

	case data[0] == Command && len(data) >= 2:
		response := d.emu.SendCommand(emulator.CommandPacket{
			Command: emulator.Command(data[1]),
			Data:    data[2:],
		})
		if response.Error != nil {
			h.sendTo(m.client, append([]byte{CommandError}, response.Error.Error()...))
			return
		}
		h.send([]byte{Status, d.info()})

	default:
		d.log.Debug("Unknown client message",
			log.Int("id", int(m.client.ID)),
			log.Hex("type", data[0]))
	}
}

// info returns a byte of information containing the emulator status
// and the hub settings. The byte is constructed as follows:
//
//	Bit 0: Emulator running
//	Bit 1: Emulator paused
//	Bit 2: Compression enabled
//	Bit 3: Frame patching enabled
//	Bit 4: Frame skipping enabled
func (d *driver) info() byte {
	info := uint8(0)
	switch status := d.emu.Status(); {
	case status.IsRunning(), status.IsHalted():
		info |= types.Bit0
	case status.IsPaused():
		info |= types.Bit1
	}

	if d.settings.compression {
		info |= types.Bit2
	}
	if d.settings.framePatching {
		info |= types.Bit3
	}
	if d.settings.frameSkipping {
		info |= types.Bit4
	}
	return info
}

// Addr returns the address the driver listens on, once started.
func (d *driver) Addr() net.Addr {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.listener
}

// Stop stops the driver, Start returns once the clients have been
// disconnected.
func (d *driver) Stop() error {
	d.mu.Lock()
	done := d.done
	d.mu.Unlock()

	if done != nil {
		d.stopOnce.Do(func() { close(done) })
	}
	return nil
}
