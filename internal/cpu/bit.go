package cpu

// testBit tests bit b of n.
//
//	BIT b, n
//	b = 0 - 7
//	n = A, B, C, D, E, H, L, (HL)
//
// Flags affected:
//
//	Z - Set if bit b of n is 0.
//	N - Reset.
//	H - Set.
//	C - Not affected.
func (c *CPU) testBit(b, n uint8) {
	c.PutFlag(FlagZero, n&(1<<b) == 0)
	c.ClearFlag(FlagSubtract)
	c.SetFlag(FlagHalfCarry)
}

// resetBit returns n with bit b reset. No flags are affected.
func resetBit(b, n uint8) uint8 {
	return n &^ (1 << b)
}

// setBit returns n with bit b set. No flags are affected.
func setBit(b, n uint8) uint8 {
	return n | 1<<b
}
