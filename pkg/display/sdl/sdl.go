// Package sdl implements a display driver rendering the frames of the
// emulator into an SDL window, with keyboard input for the joypad.
package sdl

import (
	"fmt"
	"path/filepath"
	"runtime"
	"sync"
	"time"
	"unsafe"

	"github.com/retroenv/retrogolib/log"
	"github.com/thelolagemann/gbcore/internal/joypad"
	"github.com/thelolagemann/gbcore/internal/ppu"
	"github.com/thelolagemann/gbcore/pkg/display"
	"github.com/thelolagemann/gbcore/pkg/display/event"
	"github.com/thelolagemann/gbcore/pkg/emulator"
	gblog "github.com/thelolagemann/gbcore/pkg/log"
	"github.com/thelolagemann/gbcore/pkg/utils"
	"github.com/veandco/go-sdl2/sdl"
)

func init() {
	d := &driver{}
	display.Install("sdl", d, []display.DriverOption{
		{
			Name:        "fullscreen",
			Default:     false,
			Value:       &d.fullscreen,
			Type:        "bool",
			Description: "Run in fullscreen mode",
		},
		{
			Name:        "scale",
			Default:     4.0,
			Value:       &d.scale,
			Type:        "float",
			Description: "Scale the window by this factor",
		},
		{
			Name:        "screenshot-dir",
			Default:     ".",
			Value:       &d.screenshotDir,
			Type:        "string",
			Description: "Directory F12 screenshots are saved to",
		},
	})
}

var joypadKeys = map[sdl.Keycode]joypad.Button{
	sdl.K_a:         joypad.ButtonA,
	sdl.K_b:         joypad.ButtonB,
	sdl.K_DOWN:      joypad.ButtonDown,
	sdl.K_UP:        joypad.ButtonUp,
	sdl.K_LEFT:      joypad.ButtonLeft,
	sdl.K_RIGHT:     joypad.ButtonRight,
	sdl.K_RETURN:    joypad.ButtonStart,
	sdl.K_BACKSPACE: joypad.ButtonSelect,
}

// driver implements a barebones display driver using an SDL
// renderer and a streaming texture.
type driver struct {
	fullscreen    bool
	scale         float64
	screenshotDir string

	emu display.Emulator
	log *log.Logger

	mu       sync.Mutex
	done     chan struct{}
	stopOnce sync.Once

	last []byte // last frame, for screenshots
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

// Start opens the window and renders frames until the window is
// closed, Stop is called or a Quit event is received.
func (d *driver) Start(fb <-chan []byte, events <-chan event.Event, pressed, released chan<- joypad.Button) error {
	// SDL must be driven from the thread that initialised it
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		return fmt.Errorf("initializing sdl: %w", err)
	}
	defer sdl.Quit()

	window, err := sdl.CreateWindow("gbcore",
		sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED,
		int32(ppu.ScreenWidth*d.scale), int32(ppu.ScreenHeight*d.scale),
		sdl.WINDOW_SHOWN|sdl.WINDOW_RESIZABLE)
	if err != nil {
		return fmt.Errorf("creating window: %w", err)
	}
	defer window.Destroy()

	if d.fullscreen {
		if err := window.SetFullscreen(sdl.WINDOW_FULLSCREEN_DESKTOP); err != nil {
			d.log.Warn("Fullscreen not available", log.Err(err))
		}
	}

	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED|sdl.RENDERER_PRESENTVSYNC)
	if err != nil {
		return fmt.Errorf("creating renderer: %w", err)
	}
	defer renderer.Destroy()

	// keep the aspect ratio when the window is resized
	if err := renderer.SetLogicalSize(ppu.ScreenWidth, ppu.ScreenHeight); err != nil {
		return fmt.Errorf("setting logical size: %w", err)
	}
	sdl.SetHint(sdl.HINT_RENDER_SCALE_QUALITY, "0")

	texture, err := renderer.CreateTexture(sdl.PIXELFORMAT_RGB24, sdl.TEXTUREACCESS_STREAMING,
		ppu.ScreenWidth, ppu.ScreenHeight)
	if err != nil {
		return fmt.Errorf("creating texture: %w", err)
	}
	defer texture.Destroy()

	d.mu.Lock()
	done := d.done
	d.mu.Unlock()

	pollTicker := time.NewTicker(10 * time.Millisecond) // to handle input when paused
	defer pollTicker.Stop()

	for {
		select {
		case f, ok := <-fb:
			if !ok {
				return nil
			}
			if len(f) != ppu.ScreenWidth*ppu.ScreenHeight*3 {
				continue
			}
			d.last = f

			if err := texture.Update(nil, unsafe.Pointer(&f[0]), ppu.ScreenWidth*3); err != nil {
				return fmt.Errorf("updating texture: %w", err)
			}
			if err := renderer.Clear(); err != nil {
				return fmt.Errorf("clearing renderer: %w", err)
			}
			if err := renderer.Copy(texture, nil, nil); err != nil {
				return fmt.Errorf("copying texture: %w", err)
			}
			renderer.Present()

		case e := <-events:
			switch e.Type {
			case event.Quit:
				return nil
			case event.Title:
				if title, ok := e.Data.(string); ok {
					window.SetTitle(title)
				}
			}

		case <-pollTicker.C:
			if quit := d.poll(window, pressed, released); quit {
				return nil
			}

		case <-done:
			return nil
		}
	}
}

// poll handles the pending SDL events. It reports whether the window
// was closed.
func (d *driver) poll(window *sdl.Window, pressed, released chan<- joypad.Button) bool {
	for e := sdl.PollEvent(); e != nil; e = sdl.PollEvent() {
		switch ev := e.(type) {
		case *sdl.QuitEvent:
			return true
		case *sdl.KeyboardEvent:
			if ev.Repeat != 0 {
				continue
			}

			// check to see if the key is mapped to a joypad button
			if button, ok := joypadKeys[ev.Keysym.Sym]; ok {
				switch ev.Type {
				case sdl.KEYDOWN:
					pressed <- button
				case sdl.KEYUP:
					released <- button
				}
				continue
			}

			if ev.Type != sdl.KEYDOWN {
				continue
			}
			switch ev.Keysym.Sym {
			case sdl.K_ESCAPE, sdl.K_PAUSE:
				display.TogglePause(d.emu)
			case sdl.K_r:
				d.emu.SendCommand(display.Reset)
			case sdl.K_TAB:
				// toggle fast forward
				speed := 4.0
				if d.emu.Speed() > 1 {
					speed = 1
				}
				d.emu.SendCommand(emulator.SetSpeed(speed))
			case sdl.K_F11:
				flags := uint32(0)
				if window.GetFlags()&sdl.WINDOW_FULLSCREEN_DESKTOP == 0 {
					flags = sdl.WINDOW_FULLSCREEN_DESKTOP
				}
				if err := window.SetFullscreen(flags); err != nil {
					d.log.Warn("Toggling fullscreen failed", log.Err(err))
				}
			case sdl.K_F12:
				d.screenshot(ev.Keysym.Mod&sdl.KMOD_CTRL != 0)
			}
		}
	}
	return false
}

// screenshot copies the last frame to the clipboard, or saves it as
// a PNG when toFile is set.
func (d *driver) screenshot(toFile bool) {
	if d.last == nil {
		return
	}
	img := utils.FrameImage(d.last, ppu.ScreenWidth, ppu.ScreenHeight)
	img = utils.Scale(img, int(d.scale))

	if !toFile {
		if err := utils.CopyImage(img); err != nil {
			d.log.Warn("Copying screenshot failed", log.Err(err))
			return
		}
		d.log.Info("Screenshot copied to clipboard")
		return
	}

	name := filepath.Join(d.screenshotDir, time.Now().Format("gbcore-20060102-150405.png"))
	if err := utils.SavePNG(name, img); err != nil {
		d.log.Warn("Saving screenshot failed", log.Err(err))
		return
	}
	d.log.Info("Screenshot saved", log.String("path", name))
}

// Stop stops the display driver.
func (d *driver) Stop() error {
	d.mu.Lock()
	done := d.done
	d.mu.Unlock()

	if done != nil {
		d.stopOnce.Do(func() { close(done) })
	}
	return nil
}
