package lcd

// Mode is the state of the LCD controller, reported in bits 0-1 of
// STAT. The PPU cycles through OAM, VRAM and HBlank on every visible
// line and stays in VBlank for the last ten.
type Mode uint8

const (
	HBlank Mode = iota // CPU can access VRAM and OAM
	VBlank             // CPU can access VRAM and OAM
	OAM                // OAM search, OAM is locked
	VRAM               // pixel transfer, VRAM and OAM are locked
)

var modeNames = [...]string{"HBlank", "VBlank", "OAM", "VRAM"}

func (m Mode) String() string {
	return modeNames[m&0x03]
}
