package cpu

// add adds n to the A Register.
//
//	ADD A, n
//	n = d8, B, C, D, E, H, L, (HL), A
//
// Flags affected:
//
//	Z - Set if result is zero.
//	N - Reset.
//	H - Set if carry from bit 3.
//	C - Set if carry from bit 7.
func (c *CPU) add(n uint8) {
	c.addWithCarry(n, 0)
}

// addCarry adds n plus the carry flag to the A Register.
//
//	ADC A, n
//	n = d8, B, C, D, E, H, L, (HL), A
//
// Flags affected:
//
//	Z - Set if result is zero.
//	N - Reset.
//	H - Set if carry from bit 3.
//	C - Set if carry from bit 7.
func (c *CPU) addCarry(n uint8) {
	c.addWithCarry(n, c.carry())
}

func (c *CPU) addWithCarry(n, carry uint8) {
	sum := uint16(c.A) + uint16(n) + uint16(carry)
	half := c.A&0x0F+n&0x0F+carry > 0x0F
	c.A = uint8(sum)
	c.setFlags(c.A == 0, false, half, sum > 0xFF)
}

// sub subtracts n from the A Register.
//
//	SUB n
//	n = d8, B, C, D, E, H, L, (HL), A
//
// Flags affected:
//
//	Z - Set if result is zero.
//	N - Set.
//	H - Set if no borrow from bit 4.
//	C - Set if no borrow.
func (c *CPU) sub(n uint8) {
	c.A = c.subWithCarry(n, 0)
}

// subCarry subtracts n plus the carry flag from the A Register.
//
//	SBC A, n
//	n = d8, B, C, D, E, H, L, (HL), A
func (c *CPU) subCarry(n uint8) {
	c.A = c.subWithCarry(n, c.carry())
}

// subWithCarry computes A - n - carry and sets the flags, without
// storing the result.
func (c *CPU) subWithCarry(n, carry uint8) uint8 {
	diff := int16(c.A) - int16(n) - int16(carry)
	half := int16(c.A&0x0F)-int16(n&0x0F)-int16(carry) < 0
	result := uint8(diff)
	c.setFlags(result == 0, true, half, diff < 0)
	return result
}

// compare compares n to the A Register.
//
//	CP n
//	n = d8, B, C, D, E, H, L, (HL), A
//
// Flags affected:
//
//	Z - Set if result is zero.
//	N - Set.
//	H - Set if no borrow from bit 4.
//	C - Set if no borrow.
func (c *CPU) compare(n uint8) {
	c.subWithCarry(n, 0)
}

// and performs a bitwise AND operation on n and the A Register.
//
//	AND n
//	n = d8, B, C, D, E, H, L, (HL), A
//
// Flags affected:
//
//	Z - Set if result is zero.
//	N - Reset.
//	H - Set.
//	C - Reset.
func (c *CPU) and(n uint8) {
	c.A &= n
	c.setFlags(c.A == 0, false, true, false)
}

// or performs a bitwise OR operation on n and the A Register.
//
//	OR n
//	n = d8, B, C, D, E, H, L, (HL), A
//
// Flags affected:
//
//	Z - Set if result is zero.
//	N - Reset.
//	H - Reset.
//	C - Reset.
func (c *CPU) or(n uint8) {
	c.A |= n
	c.setFlags(c.A == 0, false, false, false)
}

// xor performs a bitwise XOR operation on n and the A Register.
//
//	XOR n
//	n = d8, B, C, D, E, H, L, (HL), A
//
// Flags affected:
//
//	Z - Set if result is zero.
//	N - Reset.
//	H - Reset.
//	C - Reset.
func (c *CPU) xor(n uint8) {
	c.A ^= n
	c.setFlags(c.A == 0, false, false, false)
}

// increment returns n + 1.
//
//	INC n
//	n = A, B, C, D, E, H, L, (HL)
//
// Flags affected:
//
//	Z - Set if result is zero.
//	N - Reset.
//	H - Set if carry from bit 3.
//	C - Not affected.
func (c *CPU) increment(n uint8) uint8 {
	result := n + 1
	c.PutFlag(FlagZero, result == 0)
	c.ClearFlag(FlagSubtract)
	c.PutFlag(FlagHalfCarry, n&0x0F == 0x0F)
	return result
}

// decrement returns n - 1.
//
//	DEC n
//	n = A, B, C, D, E, H, L, (HL)
//
// Flags affected:
//
//	Z - Set if result is zero.
//	N - Set.
//	H - Set if no borrow from bit 4.
//	C - Not affected.
func (c *CPU) decrement(n uint8) uint8 {
	result := n - 1
	c.PutFlag(FlagZero, result == 0)
	c.SetFlag(FlagSubtract)
	c.PutFlag(FlagHalfCarry, n&0x0F == 0)
	return result
}

// addHL adds n to the HL Register pair.
//
//	ADD HL, nn
//	nn = BC, DE, HL, SP
//
// Flags affected:
//
//	Z - Not affected.
//	N - Reset.
//	H - Set if carry from bit 11.
//	C - Set if carry from bit 15.
func (c *CPU) addHL(n uint16) {
	hl := c.HL.Uint16()
	sum := uint32(hl) + uint32(n)
	c.ClearFlag(FlagSubtract)
	c.PutFlag(FlagHalfCarry, hl&0x0FFF+n&0x0FFF > 0x0FFF)
	c.PutFlag(FlagCarry, sum > 0xFFFF)
	c.HL.SetUint16(uint16(sum))
}

// addSPSigned returns SP plus the signed immediate e. The carries
// are computed on the low byte, as an unsigned 8-bit addition.
//
//	ADD SP, e8
//	LD HL, SP+e8
//
// Flags affected:
//
//	Z - Reset.
//	N - Reset.
//	H - Set if carry from bit 3.
//	C - Set if carry from bit 7.
func (c *CPU) addSPSigned(e uint8) uint16 {
	result := c.SP + uint16(int8(e))
	c.setFlags(false, false,
		c.SP&0x0F+uint16(e&0x0F) > 0x0F,
		c.SP&0xFF+uint16(e) > 0xFF,
	)
	return result
}

// decimalAdjust adjusts the A Register to a binary coded decimal,
// after an addition or subtraction of two BCD values.
//
//	DAA
//
// Flags affected:
//
//	Z - Set if register A is zero.
//	N - Not affected.
//	H - Reset.
//	C - Set or reset according to operation.
func (c *CPU) decimalAdjust() {
	var correction uint8
	carry := c.IsFlagSet(FlagCarry)
	if c.IsFlagSet(FlagHalfCarry) || (!c.IsFlagSet(FlagSubtract) && c.A&0x0F > 0x09) {
		correction |= 0x06
	}
	if carry || (!c.IsFlagSet(FlagSubtract) && c.A > 0x99) {
		correction |= 0x60
		carry = true
	}

	if c.IsFlagSet(FlagSubtract) {
		c.A -= correction
	} else {
		c.A += correction
	}

	c.PutFlag(FlagZero, c.A == 0)
	c.ClearFlag(FlagHalfCarry)
	c.PutFlag(FlagCarry, carry)
}

// complement flips every bit of the A Register.
//
//	CPL
func (c *CPU) complement() {
	c.A = ^c.A
	c.SetFlag(FlagSubtract)
	c.SetFlag(FlagHalfCarry)
}

// setCarry sets the carry flag.
//
//	SCF
func (c *CPU) setCarry() {
	c.ClearFlag(FlagSubtract)
	c.ClearFlag(FlagHalfCarry)
	c.SetFlag(FlagCarry)
}

// complementCarry flips the carry flag.
//
//	CCF
func (c *CPU) complementCarry() {
	c.ClearFlag(FlagSubtract)
	c.ClearFlag(FlagHalfCarry)
	c.PutFlag(FlagCarry, !c.IsFlagSet(FlagCarry))
}
