// Package timer provides an implementation of the Game Boy
// timer. It is used to generate interrupts at a specific
// frequency. The frequency can be configured using the
// types.TAC register.
package timer

import (
	"github.com/thelolagemann/gbcore/internal/interrupts"
	"github.com/thelolagemann/gbcore/internal/mmu"
	"github.com/thelolagemann/gbcore/internal/types"
)

// Controller is a timer controller. It owns the 16-bit system
// counter, of which types.DIV exposes the upper byte, and increments
// types.TIMA on the falling edge of the counter bit selected by
// types.TAC.
type Controller struct {
	sysClock   uint16
	currentBit uint16

	tima               uint8
	ticksSinceOverflow uint8
	tma                uint8
	tac                uint8

	Enabled  bool
	lastBit  bool
	overflow bool

	irq *interrupts.Service
}

// bits are the system counter bits selected by the lower two bits of
// types.TAC.
//
//	00 = 4096 Hz, 01 = 262144 Hz, 10 = 65536 Hz, 11 = 16384 Hz
var bits = [4]uint16{512, 8, 32, 128}

// NewController returns a new timer controller, with types.DIV,
// types.TIMA, types.TMA and types.TAC reserved on b.
func NewController(b *mmu.Bus, irq *interrupts.Service) *Controller {
	c := &Controller{
		irq:        irq,
		currentBit: bits[0],
	}

	b.ReserveAddress(types.DIV, types.Address{
		Read: func() uint8 {
			return uint8(c.sysClock >> 8)
		},
		Write: func(uint8) {
			// any write resets the counter, which may be a
			// falling edge of the selected bit
			c.sysClock = 0
			c.edge()
		},
	})
	b.ReserveAddress(types.TIMA, types.Address{
		Read: func() uint8 { return c.tima },
		Write: func(v uint8) {
			// writes to TIMA are ignored if written the same tick it is
			// reloading
			if c.ticksSinceOverflow != 5 {
				c.tima = v
				c.overflow = false
				c.ticksSinceOverflow = 0
			}
		},
	})
	b.ReserveAddress(types.TMA, types.Address{
		Read: func() uint8 { return c.tma },
		Write: func(v uint8) {
			c.tma = v
			// if you write to TMA the same tick that TIMA is reloading,
			// TIMA will be set to the new value of TMA
			if c.ticksSinceOverflow == 5 {
				c.tima = v
			}
		},
	})
	b.ReserveAddress(types.TAC, types.Address{
		Read: func() uint8 {
			return c.tac | 0b11111000
		},
		Write: func(v uint8) {
			c.tac = v & 0b111
			c.currentBit = bits[v&0b11]
			c.Enabled = v&types.Bit2 != 0

			// disabling the timer or changing the selected bit may
			// also be a falling edge
			c.edge()
		},
	})

	return c
}

// SetDIV sets the system counter, so that types.DIV reads value.
func (c *Controller) SetDIV(value uint8) {
	c.sysClock = uint16(value) << 8
	c.lastBit = c.Enabled && c.sysClock&c.currentBit != 0
}

// TickM ticks the timer controller by 1 M-Cycle (4 T-Cycles).
func (c *Controller) TickM() {
	for i := 0; i < 4; i++ {
		c.sysClock++
		c.edge()

		if c.overflow {
			c.ticksSinceOverflow++

			switch c.ticksSinceOverflow {
			case 4:
				c.irq.Request(interrupts.TimerFlag)
			case 5:
				c.tima = c.tma
			case 6:
				c.overflow = false
				c.ticksSinceOverflow = 0
			}
		}
	}
}

// edge increments TIMA when the selected bit of the system counter,
// gated by the enable bit, goes from high to low.
func (c *Controller) edge() {
	newBit := c.Enabled && c.sysClock&c.currentBit != 0
	if c.lastBit && !newBit {
		c.tima++
		if c.tima == 0 {
			c.overflow = true
			c.ticksSinceOverflow = 0
		}
	}
	c.lastBit = newBit
}
