package interrupts

import (
	"testing"

	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
	"github.com/thelolagemann/gbcore/internal/mmu"
	"github.com/thelolagemann/gbcore/internal/types"
)

func TestService_Vector(t *testing.T) {
	s := NewService(nil)

	_, ok := s.Vector()
	assert.False(t, ok)

	s.Request(TimerFlag)
	s.Request(VBlankFlag)
	assert.False(t, s.HasInterrupts())

	s.Enable = TimerFlag | VBlankFlag
	assert.True(t, s.HasInterrupts())

	// VBlank has the highest priority
	vector, ok := s.Vector()
	assert.True(t, ok)
	assert.Equal(t, uint16(0x0040), vector)

	vector, ok = s.Vector()
	assert.True(t, ok)
	assert.Equal(t, uint16(0x0050), vector)

	assert.False(t, s.HasInterrupts())
	assert.Equal(t, uint8(0), s.Flag)
}

func TestService_Registers(t *testing.T) {
	b := mmu.NewBus(log.NewTestLogger(t))
	s := NewService(b)

	b.Write(types.IF, 0xFF)
	assert.Equal(t, uint8(0x1F), s.Flag)
	assert.Equal(t, uint8(0xFF), b.Read(types.IF))

	b.Write(types.IF, 0x00)
	assert.Equal(t, uint8(0xE0), b.Read(types.IF))

	b.Write(types.IE, 0x05)
	assert.Equal(t, uint8(0x05), s.Enable)
	assert.Equal(t, uint8(0x05), b.Read(types.IE))
}
