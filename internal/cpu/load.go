package cpu

// imm8 returns the 8-bit immediate that follows the opcode.
func (c *CPU) imm8() uint8 {
	return c.bus.Read(c.PC + 1)
}

// imm16 returns the little endian 16-bit immediate that follows the
// opcode. PC is not advanced.
func (c *CPU) imm16() uint16 {
	return c.bus.Read16(c.PC + 1)
}

// readOperand returns the value of the operand with the given index,
// reading memory at HL for the (HL) operand.
func (c *CPU) readOperand(index Reg8) uint8 {
	if index == regHL {
		return c.bus.Read(c.HL.Uint16())
	}
	return *c.register(index)
}

// writeOperand stores value in the operand with the given index,
// writing memory at HL for the (HL) operand.
func (c *CPU) writeOperand(index Reg8, value uint8) {
	if index == regHL {
		c.bus.Write(c.HL.Uint16(), value)
		return
	}
	*c.register(index) = value
}

// loadHLIncrement returns HL and post-increments it.
//
//	LD (HL+), A
//	LD A, (HL+)
func (c *CPU) loadHLIncrement() uint16 {
	hl := c.HL.Uint16()
	c.HL.SetUint16(hl + 1)
	return hl
}

// loadHLDecrement returns HL and post-decrements it.
//
//	LD (HL-), A
//	LD A, (HL-)
func (c *CPU) loadHLDecrement() uint16 {
	hl := c.HL.Uint16()
	c.HL.SetUint16(hl - 1)
	return hl
}

// push pushes value onto the stack. SP is decremented by 2 and the
// value is stored little endian at the new SP.
//
//	PUSH nn
//	nn = AF, BC, DE, HL
func (c *CPU) push(value uint16) {
	c.SP -= 2
	c.bus.Write16(c.SP, value)
}

// pop pops a value from the stack.
//
//	POP nn
//	nn = AF, BC, DE, HL
func (c *CPU) pop() uint16 {
	value := c.bus.Read16(c.SP)
	c.SP += 2
	return value
}
