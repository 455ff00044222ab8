package types

// Register represents a GB Register which is used to hold an 8-bit value.
// The CPU has 8 registers: A, B, C, D, E, H, L, and F. The F register is
// special in that it is used to hold the flags.
type Register = uint8

// RegisterPair represents a pair of GB Registers which is used to hold a 16-bit
// value. The CPU has 4 register pairs: AF, BC, DE, and HL. The pair does not
// hold a copy of the value, it composes and decomposes the two registers it
// points to, so a write through either view is visible through the other.
type RegisterPair struct {
	High *Register
	Low  *Register

	// lowMask is applied to the low byte on SetUint16. The AF
	// pair uses 0xF0, as the lower nibble of F is always zero.
	lowMask uint8
}

// NewRegisterPair returns a RegisterPair over high and low. lowMask is
// applied to every value stored into low through the pair.
func NewRegisterPair(high, low *Register, lowMask uint8) *RegisterPair {
	return &RegisterPair{
		High:    high,
		Low:     low,
		lowMask: lowMask,
	}
}

// Uint16 returns the value of the RegisterPair as an uint16.
func (r *RegisterPair) Uint16() uint16 {
	return uint16(*r.High)<<8 | uint16(*r.Low)
}

// SetUint16 sets the value of the RegisterPair to the given value.
func (r *RegisterPair) SetUint16(value uint16) {
	*r.High = uint8(value >> 8)
	*r.Low = uint8(value) & r.lowMask
}
