// Package gameboy provides an emulation of a Nintendo Game Boy.
//
// A GameBoy owns the console state: the CPU, the memory bus and the
// hardware mapped onto it. Run drives it from a clock.Pacer, one
// machine cycle per tick, while RunCycles and RunFrames step it as fast
// as the host allows.
package gameboy

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/retroenv/retrogolib/log"
	"github.com/thelolagemann/gbcore/internal/boot"
	"github.com/thelolagemann/gbcore/internal/cartridge"
	"github.com/thelolagemann/gbcore/internal/cheats"
	"github.com/thelolagemann/gbcore/internal/clock"
	"github.com/thelolagemann/gbcore/internal/cpu"
	"github.com/thelolagemann/gbcore/internal/interrupts"
	"github.com/thelolagemann/gbcore/internal/joypad"
	"github.com/thelolagemann/gbcore/internal/mmu"
	"github.com/thelolagemann/gbcore/internal/ppu"
	"github.com/thelolagemann/gbcore/internal/scheduler"
	"github.com/thelolagemann/gbcore/internal/serial"
	"github.com/thelolagemann/gbcore/internal/timer"
	"github.com/thelolagemann/gbcore/internal/types"
	"github.com/thelolagemann/gbcore/pkg/emulator"
	gblog "github.com/thelolagemann/gbcore/pkg/log"
)

const (
	// ClockSpeed is the number of machine cycles the Game Boy executes
	// per second (4.194304 MHz / 4).
	ClockSpeed = 1048576
	// CyclesPerFrame is the number of machine cycles per frame.
	CyclesPerFrame = ppu.FrameCycles
)

// ErrClosed is returned by Run once the GameBoy has been run or closed.
var ErrClosed = errors.New("gameboy: closed")

// GameBoy represents a Game Boy. It contains all the components of the Game Boy.
// It is the main entry point for the emulator.
type GameBoy struct {
	CPU        *cpu.CPU
	Bus        *mmu.Bus
	PPU        *ppu.PPU
	Interrupts *interrupts.Service
	Timer      *timer.Controller
	Joypad     *joypad.State
	Serial     *serial.Controller
	Scheduler  *scheduler.Scheduler

	// Header is the parsed cartridge header, the zero value when the
	// ROM is too short to carry one.
	Header cartridge.Header

	rom       []byte
	bootROM   *boot.ROM
	bootImage []byte
	postBoot  *bool
	baseRate  uint64
	speed     float64
	serialOut io.Writer
	onFrame   func(*ppu.Frame)
	cheats    *cheats.Set
	palette   int
	debug     bool
	log       *log.Logger

	// budget is the number of cycles left of the instruction being
	// executed. A new instruction is dispatched when it runs out.
	budget   uint8
	cycles   uint64
	dispatch func() (uint8, error)
	err      error

	rendezvous *clock.Rendezvous
	pacer      *clock.Pacer

	mu      sync.Mutex // guards speed, cancel, running and closed
	cancel  context.CancelFunc
	running bool
	closed  bool
}

// NewGameBoy returns a new GameBoy with rom loaded into the ROM region.
func NewGameBoy(rom []byte, opts ...Opt) (*GameBoy, error) {
	g := &GameBoy{
		rom:      rom,
		baseRate: ClockSpeed,
		speed:    1,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.log == nil {
		g.log = gblog.NewQuiet()
	}

	if g.bootImage != nil {
		bootROM, err := boot.LoadBootROM(g.bootImage)
		if err != nil {
			return nil, fmt.Errorf("loading boot rom: %w", err)
		}
		g.bootROM = bootROM
		g.log.Info("Boot ROM loaded", log.String("checksum", bootROM.Checksum()))
	}

	if header, err := cartridge.ParseHeader(rom); err == nil {
		g.Header = header
		g.log.Info("Cartridge loaded",
			log.String("title", header.Title),
			log.Stringer("type", header.CartridgeType))
		if !header.ValidChecksum() {
			g.log.Warn("Cartridge header checksum mismatch")
		}
	} else {
		g.log.Debug("No cartridge header", log.Err(err))
	}

	if g.cheats != nil {
		g.log.Info("Cheats loaded", log.Int("cheats", len(g.cheats.Cheats())))
	}

	g.reset()

	g.rendezvous = clock.NewRendezvous()
	g.pacer = clock.NewPacer(g.rendezvous, g.rate(), g.log)

	return g, nil
}

// reset builds the hardware and loads the ROM, leaving the console
// either in its power on or its post boot state.
func (g *GameBoy) reset() {
	g.Bus = mmu.NewBus(g.log)
	g.Interrupts = interrupts.NewService(g.Bus)
	g.Scheduler = scheduler.NewScheduler()
	g.PPU = ppu.New(g.Bus, g.Interrupts, g.Scheduler)
	g.PPU.SetPalette(g.palette)
	g.Timer = timer.NewController(g.Bus, g.Interrupts)
	g.Joypad = joypad.New(g.Bus, g.Interrupts)
	g.Serial = serial.NewController(g.Bus, g.Interrupts)
	g.CPU = cpu.NewCPU(g.Bus, g.Interrupts, g.log)
	g.CPU.Debug = g.debug

	if g.serialOut != nil {
		g.Serial.Attach(serial.WriterDevice{W: g.serialOut})
	}
	if g.cheats != nil {
		g.Bus.SetROMPatch(g.cheats.Patch)
	}
	if g.onFrame != nil || g.cheats != nil {
		g.PPU.OnFrame(g.frameDone)
	}

	g.Bus.LoadROM(g.rom)
	g.Bus.LoadBootROM(g.bootROM)

	postBoot := g.bootROM == nil
	if g.postBoot != nil {
		postBoot = *g.postBoot
	}
	if postBoot {
		g.applyPostBootState()
	}

	g.budget = 0
	g.cycles = 0
	g.err = nil
	g.dispatch = g.CPU.Step
}

func (g *GameBoy) frameDone(f *ppu.Frame) {
	if g.cheats != nil {
		g.cheats.Apply(g.Bus.Write)
	}
	if g.onFrame != nil {
		g.onFrame(f)
	}
}

// applyPostBootState sets the registers and hardware to the values
// the DMG boot ROM leaves behind when it jumps to 0x0100.
func (g *GameBoy) applyPostBootState() {
	c := g.CPU
	c.Set16(cpu.RegAF, 0x01B0)
	c.Set16(cpu.RegBC, 0x0013)
	c.Set16(cpu.RegDE, 0x00D8)
	c.Set16(cpu.RegHL, 0x014D)
	c.SP = 0xFFFE
	c.PC = 0x0100

	g.Timer.SetDIV(0xAB)
	g.Bus.Write(types.BGP, 0xFC)
	g.Bus.Write(types.LCDC, 0x91)
	if g.bootROM != nil {
		g.Bus.Write(types.BDIS, 1)
	}
}

func (g *GameBoy) rate() uint64 {
	rate := uint64(float64(g.baseRate) * g.speed)
	if rate == 0 {
		return 1
	}
	return rate
}

// Tick advances the console by one machine cycle. When the budget of
// the previous instruction has been spent the next one is dispatched,
// so an instruction costing C cycles occupies C ticks starting with
// the one that dispatched it.
func (g *GameBoy) Tick() error {
	if g.budget < 1 {
		cycles, err := g.dispatch()
		if err != nil {
			g.err = err
			return err
		}
		if cycles == 0 {
			cycles = 1
		}
		g.budget = cycles
	}
	g.budget--
	g.cycles++

	g.Timer.TickM()
	g.Scheduler.Tick(1)
	return nil
}

// Cycles returns the number of machine cycles executed since the last
// reset.
func (g *GameBoy) Cycles() uint64 {
	return g.cycles
}

// RunCycles executes n machine cycles without pacing. It must not be
// called while Run is active.
func (g *GameBoy) RunCycles(n uint64) error {
	for i := uint64(0); i < n; i++ {
		if err := g.Tick(); err != nil {
			return fmt.Errorf("cycle %d: %w", g.cycles, err)
		}
	}
	return nil
}

// RunFrames executes n frames worth of machine cycles without pacing.
func (g *GameBoy) RunFrames(n int) error {
	if n <= 0 {
		return nil
	}
	return g.RunCycles(uint64(n) * CyclesPerFrame)
}

// Run paces the console in real time until ctx is cancelled, Close is
// called or an instruction fails. A GameBoy can only be run once.
func (g *GameBoy) Run(ctx context.Context) error {
	g.mu.Lock()
	if g.closed || g.running {
		g.mu.Unlock()
		return ErrClosed
	}
	ctx, cancel := context.WithCancel(ctx)
	g.cancel = cancel
	g.running = true
	g.mu.Unlock()

	pacerErr := make(chan error, 1)
	go func() {
		pacerErr <- g.pacer.Run(ctx)
	}()

	g.log.Info("Starting emulation", log.Int("rate", int(g.pacer.Rate())))
	err := g.loop()

	cancel()
	g.pacer.Stop()
	g.rendezvous.Stop()
	if perr := <-pacerErr; err == nil {
		err = perr
	}

	g.mu.Lock()
	g.running = false
	g.closed = true
	g.mu.Unlock()

	if err != nil {
		g.log.Error("Emulation stopped", log.Err(err))
		return err
	}
	g.log.Info("Emulation stopped")
	return nil
}

// loop consumes one tick per rendezvous until the rendezvous stops.
func (g *GameBoy) loop() error {
	for {
		g.rendezvous.Register()
		if err := g.rendezvous.Wait(); err != nil {
			if errors.Is(err, clock.ErrStopped) {
				return nil
			}
			return err
		}

		tickErr := g.Tick()
		if err := g.rendezvous.Finish(); err != nil {
			return err
		}
		if tickErr != nil {
			return fmt.Errorf("cycle %d: %w", g.cycles, tickErr)
		}
	}
}

// View calls fn with a copy of the video memory, taken between two
// ticks.
func (g *GameBoy) View(fn func(mmu.VideoMemory)) {
	var v mmu.VideoMemory
	g.rendezvous.Do(func() {
		v = g.Bus.Video()
	})
	fn(v)
}

// Close stops a running emulation. Run returns once the current tick
// has finished.
func (g *GameBoy) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.closed = true
	if g.cancel != nil {
		g.cancel()
	}
}

// Press presses button on the joypad.
func (g *GameBoy) Press(button joypad.Button) {
	g.rendezvous.Do(func() {
		g.Joypad.Press(button)
	})
}

// Release releases button on the joypad.
func (g *GameBoy) Release(button joypad.Button) {
	g.rendezvous.Do(func() {
		g.Joypad.Release(button)
	})
}

// Speed returns the current speed multiplier.
func (g *GameBoy) Speed() float64 {
	return float64(g.pacer.Rate()) / float64(g.baseRate)
}

// Samples returns the rates achieved by the pacer.
func (g *GameBoy) Samples() []clock.Sample {
	return g.pacer.Samples()
}

// Status returns the status of the emulator.
func (g *GameBoy) Status() emulator.Status {
	status := emulator.Running
	g.rendezvous.Do(func() {
		switch {
		case g.err != nil:
			status = emulator.Errored
		case g.pacer.Paused():
			status = emulator.Paused
		case g.CPU.Halted():
			status = emulator.Halted
		}
	})
	return status
}

// SendCommand executes a command sent by a display driver.
func (g *GameBoy) SendCommand(command emulator.CommandPacket) emulator.ResponsePacket {
	response := emulator.ResponsePacket{Command: command.Command}

	switch command.Command {
	case emulator.CommandPause:
		g.pacer.Pause()
	case emulator.CommandResume:
		g.pacer.Resume()
	case emulator.CommandClose:
		g.Close()
	case emulator.CommandReset:
		g.rendezvous.Do(g.reset)
	case emulator.CommandSetSpeed:
		speed, err := emulator.ParseSpeed(command.Data)
		if err != nil {
			response.Error = err
			break
		}
		g.mu.Lock()
		g.speed = speed
		g.pacer.SetRate(g.rate())
		g.mu.Unlock()
	default:
		response.Error = fmt.Errorf("%w: %s", emulator.ErrUnsupportedCommand, command.Command)
	}

	if response.Error != nil {
		g.log.Warn("Command failed",
			log.Stringer("command", command.Command),
			log.Err(response.Error))
	} else {
		g.log.Debug("Command executed", log.Stringer("command", command.Command))
	}
	return response
}
