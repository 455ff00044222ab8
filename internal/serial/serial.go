// Package serial implements the link port of the Game Boy.
package serial

import (
	"github.com/thelolagemann/gbcore/internal/interrupts"
	"github.com/thelolagemann/gbcore/internal/mmu"
	"github.com/thelolagemann/gbcore/internal/types"
)

// Controller is the serial controller. It is responsible for sending and
// receiving data to and from devices.
//
// Before a transfer, types.SB holds the byte to be sent. Writing to
// types.SC with bits 7 and 0 set starts a transfer driven by the internal
// clock, which completes immediately: the byte is exchanged with the
// attached device, the serial interrupt is requested and bit 7 of
// types.SC is cleared.
type Controller struct {
	data            uint8
	InternalClock   bool // if true, this controller is the master.
	TransferRequest bool // if true, a transfer has been requested.

	AttachedDevice Device // the device that is attached to this controller.
	irq            *interrupts.Service
}

// NewController creates a new Controller, with types.SB and types.SC
// reserved on b.
//
// By default, the Controller is attached to a nullDevice, which acts as if
// there is no device attached. If you want to attach a device, use the
// Controller.Attach method.
func NewController(b *mmu.Bus, irq *interrupts.Service) *Controller {
	c := &Controller{
		AttachedDevice: nullDevice{},
		irq:            irq,
	}

	b.ReserveAddress(types.SB, types.Address{
		Read:  func() uint8 { return c.data },
		Write: func(v uint8) { c.data = v },
	})
	b.ReserveAddress(types.SC, types.Address{
		Read: func() uint8 {
			v := uint8(0x7E) // bits 1-6 are always set
			if c.TransferRequest {
				v |= types.Bit7
			}
			if c.InternalClock {
				v |= types.Bit0
			}
			return v
		},
		Write: func(v uint8) {
			c.InternalClock = v&types.Bit0 != 0
			c.TransferRequest = v&types.Bit7 != 0
			if c.TransferRequest && c.InternalClock {
				c.transfer()
			}
		},
	})

	return c
}

// Attach attaches a Device to the Controller.
func (c *Controller) Attach(d Device) {
	c.AttachedDevice = d
}

func (c *Controller) transfer() {
	c.data = c.AttachedDevice.Transfer(c.data)
	c.TransferRequest = false
	c.irq.Request(interrupts.SerialFlag)
}
