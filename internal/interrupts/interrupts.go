package interrupts

import (
	"github.com/thelolagemann/gbcore/internal/mmu"
	"github.com/thelolagemann/gbcore/internal/types"
)

const (
	// VBlankFlag is the VBlank interrupt flag (bit 0),
	// which is requested every time the display enters
	// VBlank.
	VBlankFlag = types.Bit0
	// LCDFlag is the LCD interrupt flag (bit 1), which
	// is requested by the LCD STAT register (types.STAT),
	// when certain conditions are met.
	LCDFlag = types.Bit1
	// TimerFlag is the Timer interrupt flag (bit 2),
	// which is requested when the timer overflows,
	// (types.TIMA > 0xFF).
	TimerFlag = types.Bit2
	// SerialFlag is the Serial interrupt flag (bit 3),
	// which is requested when a serial transfer is
	// completed.
	SerialFlag = types.Bit3
	// JoypadFlag is the Joypad interrupt Flag (bit 4),
	// which is requested when any of types.P1 bits 0-3
	// go from high to low.
	JoypadFlag = types.Bit4
)

// Service is the interrupt service, used to request
// interrupts and to get the current interrupt vector.
//
// When an interrupt is requested, the corresponding bit
// in the Flag register is set. When an interrupt is
// enabled, the corresponding bit in the Enable register
// is set. When an interrupt is requested and enabled,
// and the IME is set, the CPU will jump to the interrupt
// vector, and the corresponding bit in the Flag register
// will be cleared.
//
// The IME is set by the DI, EI and RETI instructions,
// and it is used to disable and enable interrupts.
type Service struct {
	Flag   uint8 // interrupt Flag (types.IF)
	Enable uint8 // interrupt Enable (types.IE)
	IME    bool  // interrupt master enable
}

// NewService returns a new Service, with types.IF and types.IE
// reserved on b. A nil b leaves the registers unmapped.
func NewService(b *mmu.Bus) *Service {
	s := &Service{}
	if b == nil {
		return s
	}

	b.ReserveAddress(types.IF, types.Address{
		Read: func() uint8 {
			return s.Flag | 0xE0 // the upper 3 bits are always set
		},
		Write: func(v uint8) {
			s.Flag = v & 0x1F // only the first 5 bits are used
		},
	})
	b.ReserveAddress(types.IE, types.Address{
		Read:  func() uint8 { return s.Enable },
		Write: func(v uint8) { s.Enable = v },
	})

	return s
}

// HasInterrupts returns true if there are any interrupts
// that are requested and enabled.
func (s *Service) HasInterrupts() bool {
	return s.Enable&s.Flag&0x1F != 0
}

// Request requests the specified interrupt, by setting
// the corresponding bit in the Flag register.
func (s *Service) Request(flag uint8) {
	s.Flag |= flag
}

// Vector returns the vector of the highest priority interrupt
// that is requested and enabled, clearing its bit in the Flag
// register. ok is false if there is none.
func (s *Service) Vector() (vector uint16, ok bool) {
	for i := uint8(0); i < 5; i++ {
		flag := uint8(1 << i)
		if s.Flag&flag != 0 && s.Enable&flag != 0 {
			s.Flag &^= flag
			return uint16(0x0040 + i*8), true
		}
	}

	return 0, false
}
