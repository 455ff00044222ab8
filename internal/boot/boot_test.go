package boot

import (
	"errors"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestLoadBootROM(t *testing.T) {
	raw := make([]byte, Size)
	for i := range raw {
		raw[i] = byte(i)
	}

	rom, err := LoadBootROM(raw)
	assert.NoError(t, err)
	assert.Equal(t, byte(0x42), rom.Read(0x42))
	assert.Equal(t, byte(0x10), rom.Read(0x0110))
	assert.Equal(t, 32, len(rom.Checksum()))

	// the ROM holds its own copy
	raw[0x42] = 0
	assert.Equal(t, byte(0x42), rom.Read(0x42))
}

func TestLoadBootROM_InvalidLength(t *testing.T) {
	_, err := LoadBootROM(make([]byte, 2304))
	assert.True(t, errors.Is(err, ErrInvalidLength))

	var rom *ROM
	assert.Equal(t, "", rom.Checksum())
}
