package cpu

import (
	"fmt"
)

// shiftOps are the rotate, shift and swap operations of the 0xCB
// table, in encoding order.
var shiftOps = [8]struct {
	name string
	fn   func(c *CPU, n uint8) uint8
}{
	{"RLC", (*CPU).rotateLeft},
	{"RRC", (*CPU).rotateRight},
	{"RL", (*CPU).rotateLeftThroughCarry},
	{"RR", (*CPU).rotateRightThroughCarry},
	{"SLA", (*CPU).shiftLeftArithmetic},
	{"SRA", (*CPU).shiftRightArithmetic},
	{"SWAP", (*CPU).swap},
	{"SRL", (*CPU).shiftRightLogical},
}

// defineCB populates the InstructionSetCB. Every operation exists
// for each register (B, C, D, E, H, L, (HL), A) in operand order.
func defineCB() {
	for r := Reg8(0); r < 8; r++ {
		r := r

		// (HL) needs a read and a write of memory
		var cycles, bitCycles uint8 = 2, 2
		if r == regHL {
			cycles, bitCycles = 4, 3
		}

		// 0x00 - 0x3F - rotates, shifts and swap
		for op, shift := range shiftOps {
			shift := shift
			DefineInstructionCB(uint8(op)<<3|uint8(r), fmt.Sprintf("%s %s", shift.name, r), cycles, func(c *CPU) {
				c.writeOperand(r, shift.fn(c, c.readOperand(r)))
			})
		}

		for b := uint8(0); b < 8; b++ {
			b := b

			// 0x40 - 0x7F - BIT b, r
			DefineInstructionCB(0x40|b<<3|uint8(r), fmt.Sprintf("BIT %d, %s", b, r), bitCycles, func(c *CPU) {
				c.testBit(b, c.readOperand(r))
			})

			// 0x80 - 0xBF - RES b, r
			DefineInstructionCB(0x80|b<<3|uint8(r), fmt.Sprintf("RES %d, %s", b, r), cycles, func(c *CPU) {
				c.writeOperand(r, resetBit(b, c.readOperand(r)))
			})

			// 0xC0 - 0xFF - SET b, r
			DefineInstructionCB(0xC0|b<<3|uint8(r), fmt.Sprintf("SET %d, %s", b, r), cycles, func(c *CPU) {
				c.writeOperand(r, setBit(b, c.readOperand(r)))
			})
		}
	}
}
