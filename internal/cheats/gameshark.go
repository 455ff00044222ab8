package cheats

import (
	"fmt"
	"strconv"
)

const gameSharkLength = 8

// A GameSharkCode is an eight digit hex number, formatted as ABCDEFGH.
// AB is the external RAM bank, CD the new data and GHEF the address.
type GameSharkCode struct {
	ExternalRAMBank uint8
	NewData         uint8
	Address         uint16
}

// ParseGameShark parses a code formatted as ABCDEFGH.
func ParseGameShark(code string) (GameSharkCode, error) {
	if len(code) != gameSharkLength {
		return GameSharkCode{}, fmt.Errorf("%w: %q", ErrInvalidCode, code)
	}

	v, err := strconv.ParseUint(code, 16, 32)
	if err != nil {
		return GameSharkCode{}, fmt.Errorf("%w: %q: %w", ErrInvalidCode, code, err)
	}

	return GameSharkCode{
		ExternalRAMBank: uint8(v >> 24),
		NewData:         uint8(v >> 16),
		// the address is stored little endian
		Address: uint16(v>>8)&0xFF | uint16(v)<<8,
	}, nil
}
