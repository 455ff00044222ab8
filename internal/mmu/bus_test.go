package mmu

import (
	"testing"

	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
	"github.com/thelolagemann/gbcore/internal/boot"
	"github.com/thelolagemann/gbcore/internal/types"
)

func newTestBus(t *testing.T) *Bus {
	t.Helper()
	return NewBus(log.NewTestLogger(t))
}

func TestBus_ReadWrite16(t *testing.T) {
	b := newTestBus(t)

	// writable regions only, the ROM is read only
	for _, addr := range []uint16{0x8000, 0x9FFE, 0xA123, 0xC000, 0xDFFE, 0xFE00, 0xFF80, 0xFFFD} {
		for _, v := range []uint16{0x0000, 0x00FF, 0xFF00, 0x1234, 0xBEEF, 0xFFFF} {
			b.Write16(addr, v)
			assert.Equal(t, v, b.Read16(addr))
			assert.Equal(t, uint8(v), b.Read(addr))
			assert.Equal(t, uint8(v>>8), b.Read(addr+1))
		}
	}
}

func TestBus_UpperBoundary(t *testing.T) {
	b := newTestBus(t)

	b.ReserveAddress(types.IE, types.Address{
		Read:  func() uint8 { return 0x1F },
		Write: func(uint8) {},
	})

	// the high byte of a word at 0xFFFF wraps to 0x0000
	b.LoadROM([]byte{0xAB})
	assert.Equal(t, uint16(0xAB1F), b.Read16(0xFFFF))
}

func TestBus_Unmapped(t *testing.T) {
	b := newTestBus(t)

	for addr := types.UnusableStart; addr <= types.UnusableEnd; addr++ {
		b.Write(addr, 0x12)
		assert.Equal(t, UnmappedValue, b.Read(addr))
	}

	// unreserved hardware register
	b.Write(0xFF7F, 0x12)
	assert.Equal(t, UnmappedValue, b.Read(0xFF7F))
}

func TestBus_ROMIsReadOnly(t *testing.T) {
	b := newTestBus(t)

	n := b.LoadROM([]byte{0x31, 0xFE, 0xFF})
	assert.Equal(t, 3, n)

	b.Write(0x0000, 0x00)
	assert.Equal(t, uint8(0x31), b.Read(0x0000))

	big := make([]byte, 0x10000)
	assert.Equal(t, 0x8000, b.LoadROM(big))
}

func TestBus_Echo(t *testing.T) {
	b := newTestBus(t)

	b.Write(0xC123, 0x42)
	assert.Equal(t, uint8(0x42), b.Read(0xE123))

	b.Write(0xFDFF, 0x24)
	assert.Equal(t, uint8(0x24), b.Read(0xDDFF))
}

func TestBus_ReserveAddress(t *testing.T) {
	b := newTestBus(t)

	var written uint8
	b.ReserveAddress(types.SCX, types.Address{
		Read:  func() uint8 { return written + 1 },
		Write: func(v uint8) { written = v },
	})

	b.Write(types.SCX, 0x10)
	assert.Equal(t, uint8(0x10), written)
	assert.Equal(t, uint8(0x11), b.Read(types.SCX))

	defer func() {
		assert.NotNil(t, recover())
	}()
	b.ReserveAddress(types.SCX, types.Address{})
}

func TestBus_ReserveAddress_NotHardware(t *testing.T) {
	b := newTestBus(t)

	defer func() {
		assert.NotNil(t, recover())
	}()
	b.ReserveAddress(0xC000, types.Address{})
}

func TestBus_BootROM(t *testing.T) {
	b := newTestBus(t)

	raw := make([]byte, boot.Size)
	raw[0] = 0x31
	rom, err := boot.LoadBootROM(raw)
	assert.NoError(t, err)

	b.LoadROM([]byte{0xC3})
	b.LoadBootROM(rom)
	assert.True(t, b.BootROMMapped())
	assert.Equal(t, uint8(0x31), b.Read(0x0000))

	b.Write(types.BDIS, 0x01)
	assert.False(t, b.BootROMMapped())
	assert.Equal(t, uint8(0xC3), b.Read(0x0000))
}

func TestBus_DMA(t *testing.T) {
	b := newTestBus(t)

	for i := uint16(0); i < 0xA0; i++ {
		b.Write(0xC100+i, uint8(i))
	}
	b.Write(types.DMA, 0xC1)

	assert.Equal(t, uint8(0xC1), b.Read(types.DMA))
	for i := uint16(0); i < 0xA0; i++ {
		assert.Equal(t, uint8(i), b.Read(types.OAMStart+i))
	}
}

func TestBus_Video(t *testing.T) {
	b := newTestBus(t)

	b.Write(types.TileDataStart, 0x11)
	b.Write(types.BGMap1Start+1, 0x22)
	b.Write(types.BGMap2End, 0x33)
	b.Write(types.OAMStart+4, 0x44)
	b.ReserveAddress(types.LCDC, types.Address{Read: func() uint8 { return 0x91 }})

	v := b.Video()
	assert.Equal(t, uint8(0x11), v.TileData[0])
	assert.Equal(t, uint8(0x22), v.BGMap[0][1])
	assert.Equal(t, uint8(0x33), v.BGMap[1][0x3FF])
	assert.Equal(t, uint8(0x44), v.OAM[4])
	assert.Equal(t, uint8(0x91), v.LCDC)
	assert.Equal(t, UnmappedValue, v.SCY)

	// the view is a copy
	v.TileData[0] = 0
	assert.Equal(t, uint8(0x11), b.Read(types.TileDataStart))
}

func TestBus_ROMPatch(t *testing.T) {
	b := newTestBus(t)
	b.LoadROM([]byte{0x00, 0x11, 0x22})

	b.SetROMPatch(func(addr uint16, value uint8) uint8 {
		if addr == 1 {
			return 0xAA
		}
		return value
	})
	assert.Equal(t, uint8(0xAA), b.Read(1))
	assert.Equal(t, uint8(0x22), b.Read(2))
	// RAM is not patched
	b.Write(0xC001, 0x33)
	assert.Equal(t, uint8(0x33), b.Read(0xC001))

	b.SetROMPatch(nil)
	assert.Equal(t, uint8(0x11), b.Read(1))
}
