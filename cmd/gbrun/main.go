// Command gbrun runs a ROM headless for a number of frames, as fast as
// the host allows. It is meant for test ROMs that report over the
// serial port and for comparing the final frame against a known hash.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/cespare/xxhash"
	"github.com/retroenv/retrogolib/log"
	"github.com/thelolagemann/gbcore/internal/gameboy"
	"github.com/thelolagemann/gbcore/internal/mmu"
	"github.com/thelolagemann/gbcore/internal/ppu"
	"github.com/thelolagemann/gbcore/internal/ppu/palette"
	gblog "github.com/thelolagemann/gbcore/pkg/log"
	"github.com/thelolagemann/gbcore/pkg/utils"
)

var errHashMismatch = errors.New("frame hash mismatch")

type options struct {
	rom     string
	boot    string
	frames  int
	serial  bool
	png     string
	scale   int
	vram    string
	expect  string
	palette string
	debug   bool
	quiet   bool
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	logger := gblog.New(opts.debug, opts.quiet)
	if _, err := run(logger, opts, os.Stdout); err != nil {
		logger.Error("Run failed", log.Err(err))
		os.Exit(1)
	}
}

func parseFlags(args []string) (options, error) {
	var opts options
	fs := flag.NewFlagSet("gbrun", flag.ContinueOnError)
	fs.StringVar(&opts.rom, "rom", "", "The rom file to run")
	fs.StringVar(&opts.boot, "boot", "", "The boot rom file to load")
	fs.IntVar(&opts.frames, "frames", 60, "The number of frames to run")
	fs.BoolVar(&opts.serial, "serial", false, "Copy serial output to stdout")
	fs.StringVar(&opts.png, "png", "", "Save the final frame as PNG")
	fs.IntVar(&opts.scale, "scale", 1, "Scale factor of the saved frame")
	fs.StringVar(&opts.vram, "vram", "", "Dump tile data, tile maps and OAM to a file")
	fs.StringVar(&opts.expect, "expect", "", "Expected xxhash of the final frame, in hex")
	fs.StringVar(&opts.palette, "palette", "greyscale", fmt.Sprintf("The shades of the display %v", palette.Names()))
	fs.BoolVar(&opts.debug, "debug", false, "Enable debug logging")
	fs.BoolVar(&opts.quiet, "quiet", false, "Only log errors")

	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if opts.rom == "" && fs.NArg() > 0 {
		opts.rom = fs.Arg(0)
	}
	if opts.rom == "" {
		return opts, errors.New("no rom given")
	}
	if opts.frames < 0 {
		return opts, fmt.Errorf("invalid frame count %d", opts.frames)
	}
	return opts, nil
}

// run executes the ROM and returns the hash of the final frame.
func run(logger *log.Logger, opts options, stdout io.Writer) (uint64, error) {
	rom, err := utils.LoadFile(opts.rom)
	if err != nil {
		return 0, fmt.Errorf("loading rom: %w", err)
	}

	gbOpts := []gameboy.Opt{gameboy.WithLogger(logger)}
	if opts.palette != "" {
		base, ok := palette.Lookup(opts.palette)
		if !ok {
			return 0, fmt.Errorf("unknown palette %q", opts.palette)
		}
		gbOpts = append(gbOpts, gameboy.WithPalette(base))
	}
	if opts.serial {
		gbOpts = append(gbOpts, gameboy.WithSerialWriter(stdout))
	}
	if opts.boot != "" {
		boot, err := utils.LoadFile(opts.boot)
		if err != nil {
			return 0, fmt.Errorf("loading boot rom: %w", err)
		}
		gbOpts = append(gbOpts, gameboy.WithBootROM(boot))
	}
	if opts.debug {
		gbOpts = append(gbOpts, gameboy.Debug())
	}

	gb, err := gameboy.NewGameBoy(rom, gbOpts...)
	if err != nil {
		return 0, fmt.Errorf("creating emulator: %w", err)
	}

	if err := gb.RunFrames(opts.frames); err != nil {
		return 0, err
	}

	frame := ppu.FrameBytes(gb.PPU.Frame())
	hash := xxhash.Sum64(frame)
	logger.Info("Run finished",
		log.Int("frames", opts.frames),
		log.String("hash", strconv.FormatUint(hash, 16)))

	if opts.png != "" {
		img := utils.Scale(utils.FrameImage(frame, ppu.ScreenWidth, ppu.ScreenHeight), opts.scale)
		if err := utils.SavePNG(opts.png, img); err != nil {
			return 0, err
		}
	}

	if opts.vram != "" {
		if err := dumpVideo(opts.vram, gb); err != nil {
			return 0, err
		}
	}

	if opts.expect != "" {
		expected, err := strconv.ParseUint(opts.expect, 16, 64)
		if err != nil {
			return 0, fmt.Errorf("parsing expected hash: %w", err)
		}
		if expected != hash {
			return hash, fmt.Errorf("%w: got %x, expected %x", errHashMismatch, hash, expected)
		}
	}
	return hash, nil
}

// dumpVideo writes the tile data, both tile maps and OAM, in address
// order.
func dumpVideo(filename string, gb *gameboy.GameBoy) error {
	var v mmu.VideoMemory
	gb.View(func(vm mmu.VideoMemory) {
		v = vm
	})

	data := make([]byte, 0, len(v.TileData)+2*len(v.BGMap[0])+len(v.OAM))
	data = append(data, v.TileData[:]...)
	data = append(data, v.BGMap[0][:]...)
	data = append(data, v.BGMap[1][:]...)
	data = append(data, v.OAM[:]...)

	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return fmt.Errorf("writing video memory: %w", err)
	}
	return nil
}
