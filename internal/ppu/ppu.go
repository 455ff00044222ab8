// Package ppu implements the display of the Game Boy. It owns the LCD
// registers, drives the line timing through the scheduler and renders
// each visible line into an RGB frame.
package ppu

import (
	"sort"

	"github.com/thelolagemann/gbcore/internal/interrupts"
	"github.com/thelolagemann/gbcore/internal/mmu"
	"github.com/thelolagemann/gbcore/internal/ppu/lcd"
	"github.com/thelolagemann/gbcore/internal/ppu/palette"
	"github.com/thelolagemann/gbcore/internal/scheduler"
	"github.com/thelolagemann/gbcore/internal/types"
)

const (
	// ScreenWidth is the width of the screen in pixels.
	ScreenWidth = 160
	// ScreenHeight is the height of the screen in pixels.
	ScreenHeight = 144
)

// Line timing in machine cycles.
const (
	OAMCycles      = 20
	TransferCycles = 43
	HBlankCycles   = 51
	LineCycles     = OAMCycles + TransferCycles + HBlankCycles

	// Lines is the number of lines per frame, including VBlank.
	Lines = 154
	// FrameCycles is the length of a frame in machine cycles.
	FrameCycles = LineCycles * Lines
)

// maxSpritesPerLine is the number of sprites the hardware selects
// per line during the OAM search.
const maxSpritesPerLine = 10

// Frame is a rendered screen, indexed [y][x] with RGB pixels.
type Frame = [ScreenHeight][ScreenWidth][3]uint8

// FrameBytes copies f into a new buffer of packed RGB rows.
func FrameBytes(f *Frame) []byte {
	b := make([]byte, 0, ScreenWidth*ScreenHeight*3)
	for y := range f {
		for x := range f[y] {
			b = append(b, f[y][x][:]...)
		}
	}
	return b
}

// PPU is the display. It is clocked by the scheduler, one event per
// mode change, and renders a whole line when the pixel transfer ends.
//
// References:
//   - [Pan Docs](https://gbdev.io/pandocs/Graphics.html)
//   - [Hacktix GBEDG](https://hacktix.github.io/GBEDG/ppu/)
type PPU struct {
	*lcd.Controller
	*lcd.Status

	scy, scx uint8 // background viewport position
	wy, wx   uint8 // window position
	ly, lyc  uint8
	wly      uint8 // window line counter

	bgp, obp0, obp1 uint8
	bgPalette       palette.Palette
	objPalettes     [2]palette.Palette
	base            int

	statLine bool // current level of the STAT interrupt line

	// colour index of the background for the line being rendered,
	// used for sprite priority
	bgIndex [ScreenWidth]uint8

	frame   Frame
	frames  uint64
	onFrame func(*Frame)

	bus *mmu.Bus
	irq *interrupts.Service
	s   *scheduler.Scheduler
}

// New returns a new PPU, with the LCD registers reserved on b. The
// LCD starts disabled.
func New(b *mmu.Bus, irq *interrupts.Service, s *scheduler.Scheduler) *PPU {
	p := &PPU{
		Controller: lcd.NewController(),
		Status:     lcd.NewStatus(),
		bus:        b,
		irq:        irq,
		s:          s,
		base:       palette.Greyscale,
	}
	p.setPalettes()

	b.ReserveAddress(types.LCDC, types.Address{
		Read:  p.Controller.Read,
		Write: p.writeLCDC,
	})
	b.ReserveAddress(types.STAT, types.Address{
		Read: func() uint8 {
			return p.Status.Read()
		},
		Write: func(v uint8) {
			p.Status.Write(v)
			p.statUpdate()
		},
	})
	b.ReserveAddress(types.LY, types.Address{
		// LY is read only
		Read: func() uint8 { return p.ly },
	})
	b.ReserveAddress(types.LYC, types.Address{
		Read: func() uint8 { return p.lyc },
		Write: func(v uint8) {
			p.lyc = v
			p.statUpdate()
		},
	})
	b.ReserveAddress(types.SCY, register(&p.scy, nil))
	b.ReserveAddress(types.SCX, register(&p.scx, nil))
	b.ReserveAddress(types.WY, register(&p.wy, nil))
	b.ReserveAddress(types.WX, register(&p.wx, nil))
	b.ReserveAddress(types.BGP, register(&p.bgp, p.setPalettes))
	b.ReserveAddress(types.OBP0, register(&p.obp0, p.setPalettes))
	b.ReserveAddress(types.OBP1, register(&p.obp1, p.setPalettes))

	s.RegisterEvent(scheduler.PPUEndOAMSearch, p.endOAMSearch)
	s.RegisterEvent(scheduler.PPUEndTransfer, p.endTransfer)
	s.RegisterEvent(scheduler.PPUEndHBlank, p.endHBlank)
	s.RegisterEvent(scheduler.PPUEndVBlankLine, p.endVBlankLine)

	return p
}

// register returns the handlers of a plain read/write register backed
// by v. changed is called after every write, if not nil.
func register(v *uint8, changed func()) types.Address {
	return types.Address{
		Read: func() uint8 { return *v },
		Write: func(value uint8) {
			*v = value
			if changed != nil {
				changed()
			}
		},
	}
}

// OnFrame sets the function called with every completed frame, when
// the display enters VBlank. The frame is only valid for the duration
// of the call.
func (p *PPU) OnFrame(fn func(*Frame)) {
	p.onFrame = fn
}

// SetPalette selects the shades used to colour the frame.
func (p *PPU) SetPalette(base int) {
	if base < 0 || base >= len(palette.Palettes) {
		return
	}
	p.base = base
	p.setPalettes()
}

// Frame returns the last rendered frame.
func (p *PPU) Frame() *Frame {
	return &p.frame
}

// Frames returns the number of frames completed since power on.
func (p *PPU) Frames() uint64 {
	return p.frames
}

// LY returns the line currently being drawn.
func (p *PPU) LY() uint8 {
	return p.ly
}

func (p *PPU) setPalettes() {
	p.bgPalette = palette.ByteToPalette(p.base, p.bgp)
	p.objPalettes[0] = palette.ByteToPalette(p.base, p.obp0)
	p.objPalettes[1] = palette.ByteToPalette(p.base, p.obp1)
}

func (p *PPU) writeLCDC(v uint8) {
	wasEnabled := p.Enabled
	p.Controller.Write(v)

	switch {
	case wasEnabled && !p.Enabled:
		// when the LCD is off, LY reads 0, and STAT mode reads 0 (HBlank)
		for i := scheduler.PPUEndOAMSearch; i <= scheduler.PPUEndVBlankLine; i++ {
			p.s.DescheduleEvent(i)
		}
		p.ly, p.wly = 0, 0
		p.Mode = lcd.HBlank
		p.statLine = false
		p.renderBlank()
	case !wasEnabled && p.Enabled:
		p.ly, p.wly = 0, 0
		p.startLine()
	}
}

// startLine starts the OAM search of the current line.
func (p *PPU) startLine() {
	p.Mode = lcd.OAM
	p.statUpdate()
	p.s.ScheduleEvent(scheduler.PPUEndOAMSearch, OAMCycles)
}

func (p *PPU) endOAMSearch() {
	p.Mode = lcd.VRAM
	p.statUpdate()
	p.s.ScheduleEvent(scheduler.PPUEndTransfer, TransferCycles)
}

func (p *PPU) endTransfer() {
	p.renderScanline()

	p.Mode = lcd.HBlank
	p.statUpdate()
	p.s.ScheduleEvent(scheduler.PPUEndHBlank, HBlankCycles)
}

func (p *PPU) endHBlank() {
	p.ly++
	if p.ly < ScreenHeight {
		p.startLine()
		return
	}

	p.Mode = lcd.VBlank
	p.statUpdate()
	p.irq.Request(interrupts.VBlankFlag)

	p.frames++
	if p.onFrame != nil {
		p.onFrame(&p.frame)
	}

	p.s.ScheduleEvent(scheduler.PPUEndVBlankLine, LineCycles)
}

func (p *PPU) endVBlankLine() {
	p.ly++
	if p.ly == Lines {
		p.ly, p.wly = 0, 0
		p.startLine()
		return
	}

	p.statUpdate()
	p.s.ScheduleEvent(scheduler.PPUEndVBlankLine, LineCycles)
}

// statUpdate updates the coincidence flag and requests the STAT
// interrupt when the line goes from low to high.
func (p *PPU) statUpdate() {
	if !p.Enabled {
		return
	}

	p.Coincidence = p.ly == p.lyc

	line := p.Status.Interrupt()
	if line && !p.statLine {
		p.irq.Request(interrupts.LCDFlag)
	}
	p.statLine = line
}

// renderBlank blanks the current screen.
func (p *PPU) renderBlank() {
	for y := range p.frame {
		for x := range p.frame[y] {
			p.frame[y][x] = palette.Palettes[p.base].Colors[0]
		}
	}
}

// tileColour returns the colour index of the pixel at x, y of the
// 256x256 map starting at mapAddress.
func (p *PPU) tileColour(mapAddress uint16, x, y uint8) uint8 {
	tile := p.bus.Get(mapAddress + uint16(y/8)*32 + uint16(x/8))
	address := p.TileAddress(tile) + uint16(y%8)*2

	return pixel(p.bus.Get(address), p.bus.Get(address+1), 7-x%8)
}

// pixel returns the colour index of bit of a tile row.
func pixel(low, high, bit uint8) uint8 {
	return (low>>bit)&1 | ((high>>bit)&1)<<1
}

// renderScanline renders the current line into the frame.
func (p *PPU) renderScanline() {
	line := &p.frame[p.ly]

	if !p.BackgroundEnabled {
		for x := range line {
			line[x] = p.bgPalette.GetColour(0)
			p.bgIndex[x] = 0
		}
	} else {
		p.renderBackground(line)
	}

	if p.SpriteEnabled {
		p.renderSprites(line)
	}
}

func (p *PPU) renderBackground(line *[ScreenWidth][3]uint8) {
	y := p.ly + p.scy
	for x := 0; x < ScreenWidth; x++ {
		index := p.tileColour(p.BackgroundTileMapAddress, uint8(x)+p.scx, y)
		p.bgIndex[x] = index
		line[x] = p.bgPalette.GetColour(index)
	}

	// the window is drawn over the background, from WX-7
	if !p.WindowEnabled || p.ly < p.wy || p.wx > 166 {
		return
	}
	start := int(p.wx) - 7
	for x := start; x < ScreenWidth; x++ {
		if x < 0 {
			continue
		}
		index := p.tileColour(p.WindowTileMapAddress, uint8(x-start), p.wly)
		p.bgIndex[x] = index
		line[x] = p.bgPalette.GetColour(index)
	}
	p.wly++
}

type sprite struct {
	y, x  int
	tile  uint8
	attr  uint8
	index int
}

const (
	spritePriority = types.Bit7 // behind background colours 1-3
	spriteFlipY    = types.Bit6
	spriteFlipX    = types.Bit5
	spritePalette  = types.Bit4
)

// renderSprites draws up to ten sprites on the current line. When
// sprites overlap, the one with the smaller X wins, then the one
// first in OAM.
func (p *PPU) renderSprites(line *[ScreenWidth][3]uint8) {
	height := int(p.SpriteSize)
	ly := int(p.ly)

	sprites := make([]sprite, 0, maxSpritesPerLine)
	for i := 0; i < 40 && len(sprites) < maxSpritesPerLine; i++ {
		address := types.OAMStart + uint16(i)*4
		y := int(p.bus.Get(address)) - 16
		if ly < y || ly >= y+height {
			continue
		}
		sprites = append(sprites, sprite{
			y:     y,
			x:     int(p.bus.Get(address+1)) - 8,
			tile:  p.bus.Get(address + 2),
			attr:  p.bus.Get(address + 3),
			index: i,
		})
	}

	sort.SliceStable(sprites, func(i, j int) bool {
		return sprites[i].x < sprites[j].x
	})

	var drawn [ScreenWidth]bool
	for _, s := range sprites {
		row := ly - s.y
		if s.attr&spriteFlipY != 0 {
			row = height - 1 - row
		}
		tile := s.tile
		if height == 16 {
			tile &^= 1
		}
		address := types.TileDataStart + uint16(tile)*16 + uint16(row)*2
		low, high := p.bus.Get(address), p.bus.Get(address+1)

		pal := p.objPalettes[0]
		if s.attr&spritePalette != 0 {
			pal = p.objPalettes[1]
		}

		for px := 0; px < 8; px++ {
			x := s.x + px
			if x < 0 || x >= ScreenWidth || drawn[x] {
				continue
			}
			bit := uint8(7 - px)
			if s.attr&spriteFlipX != 0 {
				bit = uint8(px)
			}
			index := pixel(low, high, bit)
			if index == 0 {
				continue // transparent
			}
			drawn[x] = true
			if s.attr&spritePriority != 0 && p.bgIndex[x] != 0 {
				continue
			}
			line[x] = pal.GetColour(index)
		}
	}
}
