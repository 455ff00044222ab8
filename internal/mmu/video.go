package mmu

import "github.com/thelolagemann/gbcore/internal/types"

// VideoMemory is a read-only copy of the video memory windows and
// LCD registers, as observed by a display collaborator.
type VideoMemory struct {
	TileData [0x1800]uint8    // 0x8000 - 0x97FF
	BGMap    [2][0x400]uint8 // 0x9800 - 0x9BFF, 0x9C00 - 0x9FFF
	OAM      [0xA0]uint8     // 0xFE00 - 0xFE9F

	LCDC, STAT uint8
	SCY, SCX   uint8
	LY, LYC    uint8
	BGP        uint8
	OBP0, OBP1 uint8
	WY, WX     uint8
}

// Video returns a copy of the video memory and the LCD registers.
// The LCD registers are read through their handlers.
func (b *Bus) Video() VideoMemory {
	var v VideoMemory
	copy(v.TileData[:], b.data[types.TileDataStart:types.TileDataEnd+1])
	copy(v.BGMap[0][:], b.data[types.BGMap1Start:types.BGMap1End+1])
	copy(v.BGMap[1][:], b.data[types.BGMap2Start:types.BGMap2End+1])
	copy(v.OAM[:], b.data[types.OAMStart:types.OAMEnd+1])

	v.LCDC = b.Read(types.LCDC)
	v.STAT = b.Read(types.STAT)
	v.SCY = b.Read(types.SCY)
	v.SCX = b.Read(types.SCX)
	v.LY = b.Read(types.LY)
	v.LYC = b.Read(types.LYC)
	v.BGP = b.Read(types.BGP)
	v.OBP0 = b.Read(types.OBP0)
	v.OBP1 = b.Read(types.OBP1)
	v.WY = b.Read(types.WY)
	v.WX = b.Read(types.WX)

	return v
}
