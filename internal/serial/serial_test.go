package serial

import (
	"bytes"
	"testing"

	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
	"github.com/thelolagemann/gbcore/internal/interrupts"
	"github.com/thelolagemann/gbcore/internal/mmu"
	"github.com/thelolagemann/gbcore/internal/types"
)

func TestSerial_Transfer(t *testing.T) {
	b := mmu.NewBus(log.NewTestLogger(t))
	irq := interrupts.NewService(b)
	c := NewController(b, irq)

	var out bytes.Buffer
	c.Attach(WriterDevice{W: &out})

	for _, ch := range []byte("Passed") {
		b.Write(types.SB, ch)
		b.Write(types.SC, 0x81)
		assert.Equal(t, uint8(0x7F), b.Read(types.SC))
	}

	assert.Equal(t, "Passed", out.String())
	assert.Equal(t, uint8(0xFF), b.Read(types.SB))
	assert.Equal(t, uint8(interrupts.SerialFlag), irq.Flag)
}

func TestSerial_ExternalClock(t *testing.T) {
	b := mmu.NewBus(log.NewTestLogger(t))
	irq := interrupts.NewService(b)
	NewController(b, irq)

	// without a clock the transfer never completes
	b.Write(types.SB, 0x42)
	b.Write(types.SC, 0x80)
	assert.Equal(t, uint8(0xFE), b.Read(types.SC))
	assert.Equal(t, uint8(0x42), b.Read(types.SB))
	assert.Equal(t, uint8(0), irq.Flag)
}
