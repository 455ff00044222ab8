// Package palette maps the four shades of the monochrome display to
// RGB colours.
package palette

import "strings"

// Built in shade sets, indexes into Palettes.
const (
	Greyscale = iota
	// Green approximates the LCD of the original Game Boy.
	Green
	// Pocket approximates the LCD of the Game Boy Pocket.
	Pocket
)

// Palette is the RGB colour of each of the four shades, lightest
// first.
type Palette struct {
	Name   string
	Colors [4][3]uint8
}

// Palettes lists the shade sets the display can be coloured with.
var Palettes = []Palette{
	Greyscale: {
		Name: "greyscale",
		Colors: [4][3]uint8{
			{0xFF, 0xFF, 0xFF},
			{0xCC, 0xCC, 0xCC},
			{0x77, 0x77, 0x77},
			{0x00, 0x00, 0x00},
		},
	},
	Green: {
		Name: "green",
		Colors: [4][3]uint8{
			{0x9B, 0xBC, 0x0F},
			{0x8B, 0xAC, 0x0F},
			{0x30, 0x62, 0x30},
			{0x0F, 0x38, 0x0F},
		},
	},
	Pocket: {
		Name: "pocket",
		Colors: [4][3]uint8{
			{0xC4, 0xCF, 0xA1},
			{0x8B, 0x95, 0x6D},
			{0x4D, 0x53, 0x3C},
			{0x1F, 0x1F, 0x1F},
		},
	},
}

// Lookup returns the index of the palette called name, ignoring case.
func Lookup(name string) (int, bool) {
	for i, p := range Palettes {
		if strings.EqualFold(p.Name, name) {
			return i, true
		}
	}
	return 0, false
}

// Names returns the names of the palettes in index order.
func Names() []string {
	names := make([]string, len(Palettes))
	for i, p := range Palettes {
		names[i] = p.Name
	}
	return names
}

// ByteToPalette maps a palette register (BGP, OBP0 or OBP1) onto the
// shades of base.
//
//	Bit 7-6 - Shade for index 3
//	Bit 5-4 - Shade for index 2
//	Bit 3-2 - Shade for index 1
//	Bit 1-0 - Shade for index 0
func ByteToPalette(base int, b byte) Palette {
	p := Palette{Name: Palettes[base].Name}
	for i := 0; i < 4; i++ {
		p.Colors[i] = Palettes[base].Colors[(b>>(i*2))&0x03]
	}
	return p
}

// GetColour returns the colour of index.
func (p Palette) GetColour(index uint8) [3]uint8 {
	return p.Colors[index&0x03]
}
