package cpu

// condition is a branch condition, encoded in bits 3-4 of the
// conditional jump, call and return opcodes.
type condition uint8

const (
	conditionNZ condition = iota
	conditionZ
	conditionNC
	conditionC
)

var conditionNames = [...]string{"NZ", "Z", "NC", "C"}

// holds returns whether the condition is met by the current flags.
func (c *CPU) holds(cond condition) bool {
	switch cond {
	case conditionNZ:
		return !c.IsFlagSet(FlagZero)
	case conditionZ:
		return c.IsFlagSet(FlagZero)
	case conditionNC:
		return !c.IsFlagSet(FlagCarry)
	default:
		return c.IsFlagSet(FlagCarry)
	}
}

// jumpRelative adds the signed immediate to the address of the next
// instruction.
//
//	JR e8
func (c *CPU) jumpRelative() {
	c.PC = c.PC + 2 + uint16(int8(c.imm8()))
}

// call pushes the address of the next instruction and jumps to the
// 16-bit immediate.
//
//	CALL a16
func (c *CPU) call() {
	target := c.imm16()
	c.push(c.PC + 3)
	c.PC = target
}

// ret pops the return address into PC.
//
//	RET
func (c *CPU) ret() {
	c.PC = c.pop()
}

// restart pushes the address of the next instruction and jumps to
// one of the eight fixed vectors.
//
//	RST n
//	n = 0x00, 0x08, 0x10, 0x18, 0x20, 0x28, 0x30, 0x38
func (c *CPU) restart(vector uint16) {
	c.push(c.PC + 1)
	c.PC = vector
}
