// Package mmu provides the memory bus of the Game Boy. The bus owns the
// flat 64kB address space, routing each access to plain storage, to the
// boot ROM overlay or to the handler of a memory-mapped hardware register.
package mmu

import (
	"fmt"

	"github.com/retroenv/retrogolib/log"
	"github.com/thelolagemann/gbcore/internal/boot"
	"github.com/thelolagemann/gbcore/internal/types"
)

// UnmappedValue is returned when reading an address that has nothing
// mapped to it, such as the unusable region or an unreserved
// hardware register. Writes to such addresses are ignored.
const UnmappedValue uint8 = 0xFF

// ieIndex is the slot of types.IE in the hardware handler table.
const ieIndex = 0x80

// Bus is the memory bus of the Game Boy.
//
//	0x0000 - 0x7FFF - ROM, boot ROM overlay at 0x0000 - 0x00FF
//	0x8000 - 0x9FFF - Video RAM (tile data, background maps)
//	0xA000 - 0xBFFF - External RAM
//	0xC000 - 0xDFFF - Work RAM
//	0xE000 - 0xFDFF - Echo of 0xC000 - 0xDDFF
//	0xFE00 - 0xFE9F - Object Attribute Memory
//	0xFEA0 - 0xFEFF - Unusable
//	0xFF00 - 0xFF7F - Hardware registers
//	0xFF80 - 0xFFFE - High RAM
//	0xFFFF          - Interrupt enable
type Bus struct {
	data [0x10000]uint8

	// hardware handlers for 0xFF00 - 0xFF7F, and 0xFFFF at ieIndex
	hardware [0x81]*types.Address

	boot       *boot.ROM
	bootMapped bool
	dma        uint8

	// patch rewrites values read from the ROM region
	patch func(addr uint16, value uint8) uint8

	log *log.Logger
}

// NewBus returns a new Bus with the DMA and boot ROM disable registers
// reserved.
func NewBus(logger *log.Logger) *Bus {
	b := &Bus{log: logger}

	b.ReserveAddress(types.DMA, types.Address{
		Read:  func() uint8 { return b.dma },
		Write: b.transferOAM,
	})
	b.ReserveAddress(types.BDIS, types.Address{
		Write: func(v uint8) {
			if v != 0 && b.bootMapped {
				b.bootMapped = false
				b.log.Debug("Boot ROM unmapped")
			}
		},
	})

	return b
}

// hardwareIndex returns the handler slot of addr, or -1 if addr is
// not a hardware register.
func hardwareIndex(addr uint16) int {
	switch {
	case addr >= types.IOStart && addr <= types.IOEnd:
		return int(addr - types.IOStart)
	case addr == types.IE:
		return ieIndex
	}
	return -1
}

// ReserveAddress installs the handlers of a hardware register. It
// panics if addr is not a hardware register, or if it has already
// been reserved.
func (b *Bus) ReserveAddress(addr uint16, handler types.Address) {
	idx := hardwareIndex(addr)
	if idx < 0 {
		panic(fmt.Sprintf("mmu: %04X is not a hardware address", addr))
	}
	if b.hardware[idx] != nil {
		panic(fmt.Sprintf("mmu: address %04X has already been reserved", addr))
	}
	b.hardware[idx] = &handler
}

// LoadROM copies image verbatim into the ROM region, returning the
// number of bytes copied. Bytes beyond the ROM region are dropped.
func (b *Bus) LoadROM(image []byte) int {
	n := copy(b.data[types.ROMStart:types.ROMEnd+1], image)
	if n < len(image) {
		b.log.Info("ROM image larger than the ROM region, truncated",
			log.Int("size", len(image)),
			log.Int("loaded", n))
	}
	return n
}

// LoadBootROM maps rom over 0x0000 - 0x00FF until a non-zero value is
// written to types.BDIS.
func (b *Bus) LoadBootROM(rom *boot.ROM) {
	b.boot = rom
	b.bootMapped = rom != nil
}

// BootROMMapped reports whether the boot ROM overlay is active.
func (b *Bus) BootROMMapped() bool {
	return b.bootMapped
}

// SetROMPatch installs fn to rewrite every value read from the ROM
// region, as a cheat cartridge does. A nil fn removes it.
func (b *Bus) SetROMPatch(fn func(addr uint16, value uint8) uint8) {
	b.patch = fn
}

// Read returns the value at addr.
func (b *Bus) Read(addr uint16) uint8 {
	switch {
	case addr <= types.BootROMEnd && b.bootMapped:
		return b.boot.Read(addr)
	case addr <= types.ROMEnd && b.patch != nil:
		return b.patch(addr, b.data[addr])
	case addr >= types.EchoStart && addr <= types.EchoEnd:
		return b.data[addr-0x2000]
	case addr >= types.UnusableStart && addr <= types.UnusableEnd:
		return UnmappedValue
	case addr >= types.IOStart:
		if idx := hardwareIndex(addr); idx >= 0 {
			if h := b.hardware[idx]; h != nil && h.Read != nil {
				return h.Read()
			}
			return UnmappedValue
		}
	}
	return b.data[addr]
}

// Write writes value to addr.
func (b *Bus) Write(addr uint16, value uint8) {
	switch {
	case addr <= types.ROMEnd:
		// read only
	case addr >= types.EchoStart && addr <= types.EchoEnd:
		b.data[addr-0x2000] = value
	case addr >= types.UnusableStart && addr <= types.UnusableEnd:
	case addr >= types.IOStart:
		if idx := hardwareIndex(addr); idx >= 0 {
			if h := b.hardware[idx]; h != nil && h.Write != nil {
				h.Write(value)
			}
			return
		}
		b.data[addr] = value
	default:
		b.data[addr] = value
	}
}

// Read16 returns the little endian word at addr. The high byte
// is read from addr+1, wrapping at the top of the address space.
func (b *Bus) Read16(addr uint16) uint16 {
	return uint16(b.Read(addr)) | uint16(b.Read(addr+1))<<8
}

// Write16 writes value as a little endian word at addr.
func (b *Bus) Write16(addr uint16, value uint16) {
	b.Write(addr, uint8(value))
	b.Write(addr+1, uint8(value>>8))
}

// Get returns the stored value at addr, bypassing the overlay and
// hardware handlers. It is used by the display to fetch video
// memory.
func (b *Bus) Get(addr uint16) uint8 {
	return b.data[addr]
}

// transferOAM copies 160 bytes from value<<8 into OAM. The transfer
// completes immediately.
func (b *Bus) transferOAM(value uint8) {
	b.dma = value
	src := uint16(value) << 8
	for i := uint16(0); i < 0xA0; i++ {
		b.data[types.OAMStart+i] = b.Read(src + i)
	}
}
