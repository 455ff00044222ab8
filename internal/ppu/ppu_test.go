package ppu

import (
	"testing"

	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
	"github.com/thelolagemann/gbcore/internal/interrupts"
	"github.com/thelolagemann/gbcore/internal/mmu"
	"github.com/thelolagemann/gbcore/internal/ppu/lcd"
	"github.com/thelolagemann/gbcore/internal/scheduler"
	"github.com/thelolagemann/gbcore/internal/types"
)

func newTestPPU(t *testing.T) (*PPU, *mmu.Bus, *interrupts.Service, *scheduler.Scheduler) {
	t.Helper()
	b := mmu.NewBus(log.NewTestLogger(t))
	irq := interrupts.NewService(b)
	s := scheduler.NewScheduler()
	return New(b, irq, s), b, irq, s
}

func TestPPU_LineTiming(t *testing.T) {
	p, b, _, s := newTestPPU(t)
	assert.Equal(t, uint8(0), b.Read(types.LY))
	assert.Equal(t, lcd.HBlank, lcd.Mode(b.Read(types.STAT)&0x03))

	b.Write(types.LCDC, 0x91)
	assert.Equal(t, lcd.OAM, p.Mode)

	s.Tick(OAMCycles)
	assert.Equal(t, lcd.VRAM, lcd.Mode(b.Read(types.STAT)&0x03))

	s.Tick(TransferCycles)
	assert.Equal(t, lcd.HBlank, p.Mode)
	assert.Equal(t, uint8(0), b.Read(types.LY))

	s.Tick(HBlankCycles)
	assert.Equal(t, uint8(1), b.Read(types.LY))
	assert.Equal(t, lcd.OAM, p.Mode)
}

func TestPPU_VBlank(t *testing.T) {
	p, b, irq, s := newTestPPU(t)

	frames := 0
	p.OnFrame(func(f *Frame) { frames++ })
	b.Write(types.LCDC, 0x91)

	s.Tick(LineCycles*ScreenHeight - 1)
	assert.Equal(t, 0, frames)
	assert.Equal(t, uint8(0), irq.Flag&interrupts.VBlankFlag)

	s.Tick(1)
	assert.Equal(t, 1, frames)
	assert.Equal(t, uint8(ScreenHeight), p.LY())
	assert.Equal(t, lcd.VBlank, p.Mode)
	assert.Equal(t, uint8(interrupts.VBlankFlag), irq.Flag&interrupts.VBlankFlag)

	s.Tick(LineCycles * (Lines - ScreenHeight))
	assert.Equal(t, uint8(0), p.LY())
	assert.Equal(t, lcd.OAM, p.Mode)
	assert.Equal(t, uint64(1), p.Frames())

	s.Tick(FrameCycles)
	assert.Equal(t, 2, frames)
}

func TestPPU_Registers(t *testing.T) {
	p, b, _, s := newTestPPU(t)
	b.Write(types.LCDC, 0x91)
	s.Tick(LineCycles * 5)

	// LY is read only
	b.Write(types.LY, 0x42)
	assert.Equal(t, uint8(5), b.Read(types.LY))

	// only bits 3-6 of STAT are writable
	b.Write(types.STAT, 0xFF)
	assert.Equal(t, uint8(0xF8|lcd.OAM), b.Read(types.STAT)&^types.Bit2)

	b.Write(types.LCDC, 0x00)
	assert.Equal(t, uint8(0), b.Read(types.LY))
	assert.Equal(t, lcd.HBlank, p.Mode)
	assert.Equal(t, uint8(0x00), b.Read(types.LCDC))

	for _, addr := range []uint16{types.SCY, types.SCX, types.WY, types.WX, types.BGP, types.OBP0, types.OBP1, types.LYC} {
		b.Write(addr, 0x5A)
		assert.Equal(t, uint8(0x5A), b.Read(addr))
	}
}

func TestPPU_Coincidence(t *testing.T) {
	_, b, irq, s := newTestPPU(t)
	b.Write(types.LYC, 3)
	b.Write(types.STAT, types.Bit6)
	b.Write(types.LCDC, 0x91)

	s.Tick(LineCycles*3 - 1)
	assert.Equal(t, uint8(0), irq.Flag&interrupts.LCDFlag)
	assert.Equal(t, uint8(0), b.Read(types.STAT)&types.Bit2)

	s.Tick(1)
	assert.Equal(t, uint8(interrupts.LCDFlag), irq.Flag&interrupts.LCDFlag)
	assert.Equal(t, uint8(types.Bit2), b.Read(types.STAT)&types.Bit2)
}

func TestPPU_RenderBackground(t *testing.T) {
	p, b, _, s := newTestPPU(t)

	// tile 1: top row colour 3, second row colour 1
	b.Write(0x8010, 0xFF)
	b.Write(0x8011, 0xFF)
	b.Write(0x8012, 0xFF)
	b.Write(0x8013, 0x00)
	b.Write(types.BGMap1Start, 1)

	b.Write(types.BGP, 0xE4)
	b.Write(types.LCDC, 0x91) // unsigned tile data, BG on
	s.Tick(FrameCycles)

	f := p.Frame()
	assert.Equal(t, [3]uint8{0x00, 0x00, 0x00}, f[0][0])
	assert.Equal(t, [3]uint8{0x00, 0x00, 0x00}, f[0][7])
	assert.Equal(t, [3]uint8{0xCC, 0xCC, 0xCC}, f[1][0])
	assert.Equal(t, [3]uint8{0xFF, 0xFF, 0xFF}, f[0][8])

	// scrolling moves the tile off screen
	b.Write(types.SCX, 8)
	s.Tick(FrameCycles)
	assert.Equal(t, [3]uint8{0xFF, 0xFF, 0xFF}, f[0][0])
}

func TestPPU_RenderSprites(t *testing.T) {
	p, b, _, s := newTestPPU(t)

	// tile 2: top row, left pixel colour 3
	b.Write(0x8020, 0x80)
	b.Write(0x8021, 0x80)

	// sprite 0 at screen 10, 0, sprite 1 behind it at the same place
	b.Write(types.OAMStart, 16)
	b.Write(types.OAMStart+1, 18)
	b.Write(types.OAMStart+2, 2)
	b.Write(types.OAMStart+3, 0)
	b.Write(types.OAMStart+4, 16)
	b.Write(types.OAMStart+5, 18)
	b.Write(types.OAMStart+6, 2)
	b.Write(types.OAMStart+7, spritePalette)

	b.Write(types.BGP, 0xE4)
	b.Write(types.OBP0, 0xE4)
	b.Write(types.OBP1, 0x00)
	b.Write(types.LCDC, 0x93)
	s.Tick(FrameCycles)

	f := p.Frame()
	assert.Equal(t, [3]uint8{0x00, 0x00, 0x00}, f[0][10])
	assert.Equal(t, [3]uint8{0xFF, 0xFF, 0xFF}, f[0][11])
	assert.Equal(t, [3]uint8{0xFF, 0xFF, 0xFF}, f[1][10])

	// flipped horizontally the pixel moves to the right edge
	b.Write(types.OAMStart+3, spriteFlipX)
	s.Tick(FrameCycles)
	assert.Equal(t, [3]uint8{0x00, 0x00, 0x00}, f[0][17])
}

func TestFrameBytes(t *testing.T) {
	var f Frame
	f[0][1] = [3]uint8{1, 2, 3}
	f[ScreenHeight-1][ScreenWidth-1] = [3]uint8{4, 5, 6}

	b := FrameBytes(&f)
	assert.Len(t, b, ScreenWidth*ScreenHeight*3)
	assert.Equal(t, []byte{1, 2, 3}, b[3:6])
	assert.Equal(t, []byte{4, 5, 6}, b[len(b)-3:])
}
