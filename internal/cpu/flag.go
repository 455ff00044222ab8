package cpu

// Flag is one of the four flags held in the upper nibble of the
// F register.
type Flag uint8

const (
	FlagZero      Flag = 0x80
	FlagSubtract  Flag = 0x40
	FlagHalfCarry Flag = 0x20
	FlagCarry     Flag = 0x10
)

// flagMask covers the bits of F that hold flags.
const flagMask = 0xF0

// SetFlag sets a flag in the F register.
func (r *Registers) SetFlag(flag Flag) {
	r.F = (r.F | uint8(flag)) & flagMask
}

// ClearFlag clears a flag from the F register.
func (r *Registers) ClearFlag(flag Flag) {
	r.F = r.F &^ uint8(flag) & flagMask
}

// IsFlagSet returns true if the given flag is set.
func (r *Registers) IsFlagSet(flag Flag) bool {
	return r.F&uint8(flag)&flagMask != 0
}

// PutFlag sets the flag if set is true, and clears it otherwise.
func (r *Registers) PutFlag(flag Flag, set bool) {
	if set {
		r.SetFlag(flag)
	} else {
		r.ClearFlag(flag)
	}
}

// setFlags replaces all four flags.
func (r *Registers) setFlags(zero, subtract, halfCarry, carry bool) {
	var f uint8
	if zero {
		f |= uint8(FlagZero)
	}
	if subtract {
		f |= uint8(FlagSubtract)
	}
	if halfCarry {
		f |= uint8(FlagHalfCarry)
	}
	if carry {
		f |= uint8(FlagCarry)
	}
	r.F = f
}

// carry returns 1 if the carry flag is set, 0 otherwise.
func (r *Registers) carry() uint8 {
	if r.IsFlagSet(FlagCarry) {
		return 1
	}
	return 0
}
