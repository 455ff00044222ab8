// Package main starts the emulator with one of the installed display
// drivers.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/retroenv/retrogolib/app"
	"github.com/retroenv/retrogolib/log"
	"github.com/thelolagemann/gbcore/internal/cheats"
	"github.com/thelolagemann/gbcore/internal/gameboy"
	"github.com/thelolagemann/gbcore/internal/joypad"
	"github.com/thelolagemann/gbcore/internal/ppu"
	"github.com/thelolagemann/gbcore/internal/ppu/palette"
	"github.com/thelolagemann/gbcore/pkg/display"
	"github.com/thelolagemann/gbcore/pkg/display/event"
	_ "github.com/thelolagemann/gbcore/pkg/display/sdl"
	_ "github.com/thelolagemann/gbcore/pkg/display/web"
	gblog "github.com/thelolagemann/gbcore/pkg/log"
	"github.com/thelolagemann/gbcore/pkg/report"
	"github.com/thelolagemann/gbcore/pkg/utils"
)

var _ display.Emulator = &gameboy.GameBoy{}

type options struct {
	rom          string
	boot         string
	driver       string
	speed        float64
	rate         uint64
	debug        bool
	quiet        bool
	pacingReport string
	cheats       string
	palette      string
}

func main() {
	ctx := app.Context()

	opts := parseFlags()
	logger := gblog.New(opts.debug, opts.quiet)

	if len(display.InstalledDrivers) == 0 {
		logger.Fatal("No display drivers installed. Please compile with at least one display driver")
	}

	if err := run(ctx, logger, opts); err != nil {
		logger.Error("Emulator failed", log.Err(err))
		os.Exit(1)
	}
}

func parseFlags() options {
	var opts options
	fs := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	fs.StringVar(&opts.rom, "rom", "", "The rom file to load, a file dialog is opened when empty")
	fs.StringVar(&opts.boot, "boot", "", "The boot rom file to load")
	fs.StringVar(&opts.driver, "driver", "auto", fmt.Sprintf("The display driver to use %v", display.Names()))
	fs.Float64Var(&opts.speed, "speed", 1, "The speed to run the emulator at")
	fs.Uint64Var(&opts.rate, "rate", gameboy.ClockSpeed, "The base number of machine cycles per second")
	fs.StringVar(&opts.palette, "palette", "greyscale", fmt.Sprintf("The shades of the display %v", palette.Names()))
	fs.BoolVar(&opts.debug, "debug", false, "Enable debug logging")
	fs.BoolVar(&opts.quiet, "quiet", false, "Only log errors")
	fs.StringVar(&opts.pacingReport, "pacing-report", "", "Write a PNG plot of the achieved clock rate on exit")
	fs.StringVar(&opts.cheats, "cheats", "", "A file of Game Genie and GameShark codes to apply")
	display.RegisterFlags(fs)

	_ = fs.Parse(os.Args[1:])
	return opts
}

func run(ctx context.Context, logger *log.Logger, opts options) error {
	driver := display.GetDriver(opts.driver)
	if driver == nil {
		return fmt.Errorf("invalid display driver %q", opts.driver)
	}

	if opts.rom == "" {
		wd, _ := os.Getwd()
		rom, err := utils.PickROM(wd)
		if err != nil {
			return fmt.Errorf("picking rom: %w", err)
		}
		opts.rom = rom
	}

	rom, err := utils.LoadFile(opts.rom)
	if err != nil {
		return fmt.Errorf("loading rom: %w", err)
	}

	fb := make(chan []byte, 60)
	events := make(chan event.Event, 60)
	pressed := make(chan joypad.Button, 10)
	released := make(chan joypad.Button, 10)

	base, ok := palette.Lookup(opts.palette)
	if !ok {
		return fmt.Errorf("unknown palette %q", opts.palette)
	}

	fps := &frameCounter{}
	gbOpts := []gameboy.Opt{
		gameboy.WithLogger(logger),
		gameboy.WithClockRate(opts.rate),
		gameboy.Speed(opts.speed),
		gameboy.WithPalette(base),
		gameboy.WithFrameHandler(func(f *ppu.Frame) {
			fps.add()
			select {
			case fb <- ppu.FrameBytes(f):
			default:
				// the driver is behind, drop the frame
			}
		}),
	}
	if opts.boot != "" {
		boot, err := utils.LoadFile(opts.boot)
		if err != nil {
			return fmt.Errorf("loading boot rom: %w", err)
		}
		gbOpts = append(gbOpts, gameboy.WithBootROM(boot))
	}
	if opts.cheats != "" {
		set, err := loadCheats(opts.cheats)
		if err != nil {
			return err
		}
		gbOpts = append(gbOpts, gameboy.WithCheats(set))
	}
	if opts.debug {
		gbOpts = append(gbOpts, gameboy.Debug())
	}

	gb, err := gameboy.NewGameBoy(rom, gbOpts...)
	if err != nil {
		return fmt.Errorf("creating emulator: %w", err)
	}

	driver.Initialize(gb, logger)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go forwardButtons(ctx, gb, pressed, released)
	go updateTitle(ctx, gb.Header.Title, fps, events)

	runErr := make(chan error, 1)
	go func() {
		err := gb.Run(ctx)
		select {
		case events <- event.Event{Type: event.Quit}:
		default:
		}
		runErr <- err
	}()

	driverErr := driver.Start(fb, events, pressed, released)
	gb.Close()
	err = <-runErr

	if opts.pacingReport != "" {
		if rerr := writePacingReport(opts.pacingReport, gb, float64(opts.rate)); rerr != nil {
			logger.Error("Writing pacing report failed", log.Err(rerr))
		} else {
			logger.Info("Pacing report written", log.String("file", opts.pacingReport))
		}
	}

	return exitError(err, driverErr)
}

// exitError combines the errors of the emulation and the driver. A
// driver that quits before the emulation started closes it, which is
// a normal exit.
func exitError(runErr, driverErr error) error {
	if errors.Is(runErr, gameboy.ErrClosed) {
		runErr = nil
	}
	return errors.Join(runErr, driverErr)
}

func forwardButtons(ctx context.Context, gb *gameboy.GameBoy, pressed, released <-chan joypad.Button) {
	for {
		select {
		case b := <-pressed:
			gb.Press(b)
		case b := <-released:
			gb.Release(b)
		case <-ctx.Done():
			return
		}
	}
}

// updateTitle sends the cartridge title with the frame rate once a
// second.
func updateTitle(ctx context.Context, title string, fps *frameCounter, events chan<- event.Event) {
	if title == "" {
		title = "gbcore"
	}
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			select {
			case events <- event.Event{Type: event.Title, Data: fmt.Sprintf("%s (%d fps)", title, fps.reset())}:
			default:
			}
		case <-ctx.Done():
			return
		}
	}
}

func writePacingReport(filename string, gb *gameboy.GameBoy, baseRate float64) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("creating report file: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	return report.Pacing(f, gb.Samples(), baseRate*gb.Speed())
}

func loadCheats(filename string) (*cheats.Set, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("opening cheats: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	set := cheats.NewSet()
	if err := set.Load(f); err != nil {
		return nil, fmt.Errorf("loading cheats %s: %w", filename, err)
	}
	return set, nil
}
