package cheats

import (
	"fmt"
	"strconv"
	"strings"
)

// gameGenieLength is the length of ABC-DEF-GHI.
const gameGenieLength = 11

// A GameGenieCode is a nine digit hex number, formatted as ABC-DEF-GHI.
// AB is the new data, FCDE is the address XORed by 0xF000 and GI is
// the old data XORed by 0xBA and rotated left by 2. H is not used by
// the console.
type GameGenieCode struct {
	NewData uint8
	Address uint16
	OldData uint8
}

// ParseGameGenie parses a code formatted as ABC-DEF-GHI.
func ParseGameGenie(code string) (GameGenieCode, error) {
	if len(code) != gameGenieLength || code[3] != '-' || code[7] != '-' {
		return GameGenieCode{}, fmt.Errorf("%w: %q", ErrInvalidCode, code)
	}
	digits := strings.ReplaceAll(code, "-", "")

	v, err := strconv.ParseUint(digits, 16, 64)
	if err != nil {
		return GameGenieCode{}, fmt.Errorf("%w: %q: %w", ErrInvalidCode, code, err)
	}

	// digits: A B C D E F G H I
	nibble := func(i int) uint16 {
		return uint16(v>>(4*(8-i))) & 0xF
	}

	var c GameGenieCode
	c.NewData = uint8(nibble(0)<<4 | nibble(1))
	c.Address = (nibble(5)<<12 | nibble(2)<<8 | nibble(3)<<4 | nibble(4)) ^ 0xF000

	gi := uint8(nibble(6)<<4 | nibble(8))
	c.OldData = (gi>>2 | gi<<6) ^ 0xBA

	return c, nil
}
