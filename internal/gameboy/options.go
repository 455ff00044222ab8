package gameboy

import (
	"io"

	"github.com/retroenv/retrogolib/log"
	"github.com/thelolagemann/gbcore/internal/cheats"
	"github.com/thelolagemann/gbcore/internal/ppu"
)

// Opt is a function that modifies a GameBoy
// instance.
type Opt func(gb *GameBoy)

// Debug logs every executed instruction.
func Debug() Opt {
	return func(gb *GameBoy) {
		gb.debug = true
	}
}

// WithLogger sets the logger used by the GameBoy and its components.
func WithLogger(logger *log.Logger) Opt {
	return func(gb *GameBoy) {
		gb.log = logger
	}
}

// WithBootROM sets the boot ROM for the emulator. The boot ROM is
// mapped over the cartridge and execution starts at 0x0000 with every
// register reset, unless WithPostBootState is also given.
func WithBootROM(rom []byte) Opt {
	return func(gb *GameBoy) {
		gb.bootImage = rom
	}
}

// WithPostBootState starts the emulator with the registers and I/O
// state left behind by the boot ROM. It is the default when no boot
// ROM is supplied.
func WithPostBootState(enabled bool) Opt {
	return func(gb *GameBoy) {
		gb.postBoot = &enabled
	}
}

// WithClockRate sets the base number of ticks per second the pacer
// issues. Defaults to ClockSpeed.
func WithClockRate(rate uint64) Opt {
	return func(gb *GameBoy) {
		if rate > 0 {
			gb.baseRate = rate
		}
	}
}

// Speed multiplies the base clock rate.
func Speed(speed float64) Opt {
	return func(gb *GameBoy) {
		if speed > 0 {
			gb.speed = speed
		}
	}
}

// WithSerialWriter copies every byte sent over the serial port to w.
func WithSerialWriter(w io.Writer) Opt {
	return func(gb *GameBoy) {
		gb.serialOut = w
	}
}

// WithFrameHandler calls fn with every completed frame. fn runs on
// the engine goroutine and must not retain the frame.
func WithFrameHandler(fn func(*ppu.Frame)) Opt {
	return func(gb *GameBoy) {
		gb.onFrame = fn
	}
}

// WithCheats applies the Game Genie codes of set to ROM reads and
// writes its GameShark codes at the start of every VBlank.
func WithCheats(set *cheats.Set) Opt {
	return func(gb *GameBoy) {
		gb.cheats = set
	}
}

// WithPalette colours the frames with the shades of palette.Palettes
// at index base.
func WithPalette(base int) Opt {
	return func(gb *GameBoy) {
		gb.palette = base
	}
}
