package cheats

import (
	"errors"
	"strings"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestParseGameGenie(t *testing.T) {
	c, err := ParseGameGenie("3CA-17B-CED")
	assert.NoError(t, err)
	assert.Equal(t, uint8(0x3C), c.NewData)
	assert.Equal(t, uint16(0x4A17), c.Address)
	assert.Equal(t, uint8(0xC9), c.OldData)

	for _, code := range []string{"3CA17BCED", "3CA-17B-CEDF", "3CA-17B-CEX", "3CA+17B+CED"} {
		_, err := ParseGameGenie(code)
		assert.True(t, errors.Is(err, ErrInvalidCode), code)
	}
}

func TestParseGameShark(t *testing.T) {
	c, err := ParseGameShark("0138CDC0")
	assert.NoError(t, err)
	assert.Equal(t, uint8(0x01), c.ExternalRAMBank)
	assert.Equal(t, uint8(0x38), c.NewData)
	assert.Equal(t, uint16(0xC0CD), c.Address)

	_, err = ParseGameShark("0138CDCG")
	assert.True(t, errors.Is(err, ErrInvalidCode))
}

func TestSet_Load(t *testing.T) {
	s := NewSet()
	err := s.Load(strings.NewReader(`
3CA-17B-CED

# Infinite lives
0138CDC0
0299CEC0
`))
	assert.NoError(t, err)

	cheats := s.Cheats()
	assert.Len(t, cheats, 2)
	assert.Equal(t, "", cheats[0].Name)
	assert.Equal(t, 1, cheats[0].Codes())
	assert.Equal(t, "Infinite lives", cheats[1].Name)
	assert.Equal(t, 2, cheats[1].Codes())
	assert.True(t, cheats[1].Enabled)

	err = NewSet().Load(strings.NewReader("# bad\n1234\n"))
	assert.ErrorContains(t, err, "line 2")
}

func TestSet_Patch(t *testing.T) {
	s := NewSet()
	assert.NoError(t, s.Add("jump", "3CA-17B-CED"))

	assert.Equal(t, uint8(0x3C), s.Patch(0x4A17, 0xC9))
	// the old value must match
	assert.Equal(t, uint8(0x00), s.Patch(0x4A17, 0x00))
	assert.Equal(t, uint8(0xC9), s.Patch(0x4A18, 0xC9))

	assert.True(t, s.Enable("jump", false))
	assert.Equal(t, uint8(0xC9), s.Patch(0x4A17, 0xC9))
	assert.False(t, s.Enable("missing", true))
}

func TestSet_Apply(t *testing.T) {
	s := NewSet()
	assert.NoError(t, s.Add("lives", "0138CDC0"))
	assert.NoError(t, s.Add("time", "0299CEC0"))
	s.Enable("time", false)

	written := map[uint16]uint8{}
	s.Apply(func(addr uint16, value uint8) {
		written[addr] = value
	})
	assert.Equal(t, map[uint16]uint8{0xC0CD: 0x38}, written)
}
