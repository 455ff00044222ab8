// Package joypad provides an implementation of the Game Boy
// joypad. The joypad is used to read the state of the buttons
// and the direction keys.
package joypad

import (
	"github.com/thelolagemann/gbcore/internal/interrupts"
	"github.com/thelolagemann/gbcore/internal/mmu"
	"github.com/thelolagemann/gbcore/internal/types"
)

// Button represents a physical button on the Game Boy.
type Button = uint8

const (
	// ButtonA is the A button.
	ButtonA Button = iota
	// ButtonB is the B button.
	ButtonB
	// ButtonSelect is the Select button.
	ButtonSelect
	// ButtonStart is the Start button.
	ButtonStart
	// ButtonRight is the Right button.
	ButtonRight
	// ButtonLeft is the Left button.
	ButtonLeft
	// ButtonUp is the Up button.
	ButtonUp
	// ButtonDown is the Down button.
	ButtonDown
)

// State represents the state of the joypad. Select either
// action or direction buttons by writing to the register,
// and then read out bits 0-3 to get the state of the buttons.
//
//	Bit 7 - Not used
//	Bit 6 - Not used
//	Bit 5 - P15 Select Button Keys      (0=Select)
//	Bit 4 - P14 Select Direction Keys   (0=Select)
//	Bit 3 - P13 Input Down  or Start    (0=Pressed) (Read Only)
//	Bit 2 - P12 Input Up    or Select   (0=Pressed) (Read Only)
//	Bit 1 - P11 Input Left  or Button B (0=Pressed) (Read Only)
//	Bit 0 - P10 Input Right or Button A (0=Pressed) (Read Only)
type State struct {
	// State holds the pressed buttons, the lower 4 bits for the
	// action buttons and the upper 4 bits for the direction
	// buttons. A 1 in a bit indicates that the button is pressed.
	State Button

	selection uint8 // bits 4-5 of types.P1
	irq       *interrupts.Service
}

// New returns a new joypad state, with types.P1 reserved on b.
func New(b *mmu.Bus, irq *interrupts.Service) *State {
	s := &State{
		irq:       irq,
		selection: 0x30,
	}
	b.ReserveAddress(types.P1, types.Address{
		Read: s.read,
		Write: func(v uint8) {
			s.selection = v & 0x30
		},
	})

	return s
}

func (s *State) read() uint8 {
	d := uint8(0xC0) | s.selection
	if s.selection&types.Bit4 == 0 {
		d |= s.State >> 4 & 0xf
	}
	if s.selection&types.Bit5 == 0 {
		d |= s.State & 0xf
	}

	// 0 = pressed
	return d ^ 0xf
}

// Press presses a button, requesting the joypad interrupt.
func (s *State) Press(button Button) {
	if s.State&(1<<button) == 0 {
		s.State |= 1 << button
		s.irq.Request(interrupts.JoypadFlag)
	}
}

// Release releases a button.
func (s *State) Release(button Button) {
	s.State &^= 1 << button
}
