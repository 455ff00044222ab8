package joypad

import (
	"testing"

	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
	"github.com/thelolagemann/gbcore/internal/interrupts"
	"github.com/thelolagemann/gbcore/internal/mmu"
	"github.com/thelolagemann/gbcore/internal/types"
)

func TestJoypad(t *testing.T) {
	b := mmu.NewBus(log.NewTestLogger(t))
	irq := interrupts.NewService(b)
	pad := New(b, irq)

	assert.Equal(t, uint8(0xFF), b.Read(types.P1))

	pad.Press(ButtonA)
	pad.Press(ButtonDown)
	assert.Equal(t, uint8(interrupts.JoypadFlag), irq.Flag)

	// nothing is selected
	assert.Equal(t, uint8(0xFF), b.Read(types.P1))

	// action buttons
	b.Write(types.P1, 0x10)
	assert.Equal(t, uint8(0xDE), b.Read(types.P1))

	// direction buttons
	b.Write(types.P1, 0x20)
	assert.Equal(t, uint8(0xE7), b.Read(types.P1))

	pad.Release(ButtonDown)
	assert.Equal(t, uint8(0xEF), b.Read(types.P1))

	// holding a button does not request another interrupt
	irq.Flag = 0
	pad.Press(ButtonA)
	assert.Equal(t, uint8(0), irq.Flag)
}
