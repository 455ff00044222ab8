package cpu

import (
	"fmt"
)

// pairs16 are the register pairs selected by bits 4-5 of the 16-bit
// load and arithmetic opcodes.
var pairs16 = [4]Reg16{RegBC, RegDE, RegHL, RegSP}

// stackPairs are the register pairs selected by bits 4-5 of PUSH and
// POP.
var stackPairs = [4]Reg16{RegBC, RegDE, RegHL, RegAF}

var pairNames = map[Reg16]string{RegBC: "BC", RegDE: "DE", RegHL: "HL", RegSP: "SP", RegAF: "AF"}

// aluOps are the 8-bit accumulator operations, in encoding order.
var aluOps = [8]struct {
	name string
	fn   func(c *CPU, n uint8)
}{
	{"ADD A,", (*CPU).add},
	{"ADC A,", (*CPU).addCarry},
	{"SUB", (*CPU).sub},
	{"SBC A,", (*CPU).subCarry},
	{"AND", (*CPU).and},
	{"XOR", (*CPU).xor},
	{"OR", (*CPU).or},
	{"CP", (*CPU).compare},
}

func init() {
	for _, opcode := range illegalOpcodes {
		InstructionSet[opcode] = illegalOpcode(opcode)
	}
	InstructionSet[0xCB] = Instruction{name: "PREFIX CB", length: 2, prefix: true}

	defineMisc()
	defineLoads()
	defineArithmetic()
	defineBranches()
	defineCB()

	for opcode, instruction := range InstructionSet {
		if instruction.fn == nil && !instruction.prefix {
			panic(fmt.Sprintf("cpu: opcode %02X has no instruction", opcode))
		}
	}
	for opcode, instruction := range InstructionSetCB {
		if instruction.fn == nil {
			panic(fmt.Sprintf("cpu: opcode CB %02X has no instruction", opcode))
		}
	}
}

func defineMisc() {
	DefineInstruction(0x00, "NOP", 1, 1, func(c *CPU) {})
	DefineInstruction(0x10, "STOP", 2, 1, func(c *CPU) {
		c.mode = modeStop
	})
	DefineInstruction(0x76, "HALT", 1, 1, func(c *CPU) {
		c.mode = modeHalt
	})
	DefineInstruction(0xF3, "DI", 1, 1, func(c *CPU) {
		c.irq.IME = false
		c.eiDelay = 0
	})
	DefineInstruction(0xFB, "EI", 1, 1, func(c *CPU) {
		// IME is set after the instruction following EI
		if !c.irq.IME && c.eiDelay == 0 {
			c.eiDelay = 2
		}
	})
	DefineInstruction(0x07, "RLCA", 1, 1, func(c *CPU) {
		c.rotateAccumulator(c.rotateLeft)
	})
	DefineInstruction(0x0F, "RRCA", 1, 1, func(c *CPU) {
		c.rotateAccumulator(c.rotateRight)
	})
	DefineInstruction(0x17, "RLA", 1, 1, func(c *CPU) {
		c.rotateAccumulator(c.rotateLeftThroughCarry)
	})
	DefineInstruction(0x1F, "RRA", 1, 1, func(c *CPU) {
		c.rotateAccumulator(c.rotateRightThroughCarry)
	})
	DefineInstruction(0x27, "DAA", 1, 1, (*CPU).decimalAdjust)
	DefineInstruction(0x2F, "CPL", 1, 1, (*CPU).complement)
	DefineInstruction(0x37, "SCF", 1, 1, (*CPU).setCarry)
	DefineInstruction(0x3F, "CCF", 1, 1, (*CPU).complementCarry)
}

func defineLoads() {
	// 0x40 - 0x7F - LD r, r'
	for dst := Reg8(0); dst < 8; dst++ {
		for src := Reg8(0); src < 8; src++ {
			if dst == regHL && src == regHL {
				continue // HALT
			}
			dst, src := dst, src
			var cycles uint8 = 1
			if dst == regHL || src == regHL {
				cycles = 2
			}
			DefineInstruction(0x40|uint8(dst)<<3|uint8(src), fmt.Sprintf("LD %s, %s", dst, src), 1, cycles, func(c *CPU) {
				c.writeOperand(dst, c.readOperand(src))
			})
		}
	}

	// LD r, d8
	for r := Reg8(0); r < 8; r++ {
		r := r
		var cycles uint8 = 2
		if r == regHL {
			cycles = 3
		}
		DefineInstruction(0x06|uint8(r)<<3, fmt.Sprintf("LD %s, d8", r), 2, cycles, func(c *CPU) {
			c.writeOperand(r, c.imm8())
		})
	}

	// LD rr, d16
	for i, rr := range pairs16 {
		rr := rr
		DefineInstruction(0x01|uint8(i)<<4, fmt.Sprintf("LD %s, d16", pairNames[rr]), 3, 3, func(c *CPU) {
			c.Set16(rr, c.imm16())
		})
	}

	// indirect loads through BC, DE and HL with post increment/decrement
	indirect := [4]struct {
		name    string
		address func(c *CPU) uint16
	}{
		{"(BC)", func(c *CPU) uint16 { return c.BC.Uint16() }},
		{"(DE)", func(c *CPU) uint16 { return c.DE.Uint16() }},
		{"(HL+)", (*CPU).loadHLIncrement},
		{"(HL-)", (*CPU).loadHLDecrement},
	}
	for i, ind := range indirect {
		ind := ind
		DefineInstruction(0x02|uint8(i)<<4, fmt.Sprintf("LD %s, A", ind.name), 1, 2, func(c *CPU) {
			c.bus.Write(ind.address(c), c.A)
		})
		DefineInstruction(0x0A|uint8(i)<<4, fmt.Sprintf("LD A, %s", ind.name), 1, 2, func(c *CPU) {
			c.A = c.bus.Read(ind.address(c))
		})
	}

	DefineInstruction(0x08, "LD (a16), SP", 3, 5, func(c *CPU) {
		c.bus.Write16(c.imm16(), c.SP)
	})
	DefineInstruction(0xE0, "LDH (a8), A", 2, 3, func(c *CPU) {
		c.bus.Write(0xFF00|uint16(c.imm8()), c.A)
	})
	DefineInstruction(0xF0, "LDH A, (a8)", 2, 3, func(c *CPU) {
		c.A = c.bus.Read(0xFF00 | uint16(c.imm8()))
	})
	DefineInstruction(0xE2, "LD (C), A", 1, 2, func(c *CPU) {
		c.bus.Write(0xFF00|uint16(c.C), c.A)
	})
	DefineInstruction(0xF2, "LD A, (C)", 1, 2, func(c *CPU) {
		c.A = c.bus.Read(0xFF00 | uint16(c.C))
	})
	DefineInstruction(0xEA, "LD (a16), A", 3, 4, func(c *CPU) {
		c.bus.Write(c.imm16(), c.A)
	})
	DefineInstruction(0xFA, "LD A, (a16)", 3, 4, func(c *CPU) {
		c.A = c.bus.Read(c.imm16())
	})
	DefineInstruction(0xF8, "LD HL, SP+e8", 2, 3, func(c *CPU) {
		c.HL.SetUint16(c.addSPSigned(c.imm8()))
	})
	DefineInstruction(0xF9, "LD SP, HL", 1, 2, func(c *CPU) {
		c.SP = c.HL.Uint16()
	})

	// PUSH rr, POP rr
	for i, rr := range stackPairs {
		rr := rr
		DefineInstruction(0xC1|uint8(i)<<4, fmt.Sprintf("POP %s", pairNames[rr]), 1, 3, func(c *CPU) {
			c.Set16(rr, c.pop())
		})
		DefineInstruction(0xC5|uint8(i)<<4, fmt.Sprintf("PUSH %s", pairNames[rr]), 1, 4, func(c *CPU) {
			c.push(c.Get16(rr))
		})
	}
}

func defineArithmetic() {
	// 0x80 - 0xBF - ALU A, r and 0xC6 - 0xFE - ALU A, d8
	for op, alu := range aluOps {
		alu := alu
		for r := Reg8(0); r < 8; r++ {
			r := r
			var cycles uint8 = 1
			if r == regHL {
				cycles = 2
			}
			DefineInstruction(0x80|uint8(op)<<3|uint8(r), fmt.Sprintf("%s %s", alu.name, r), 1, cycles, func(c *CPU) {
				alu.fn(c, c.readOperand(r))
			})
		}
		DefineInstruction(0xC6|uint8(op)<<3, fmt.Sprintf("%s d8", alu.name), 2, 2, func(c *CPU) {
			alu.fn(c, c.imm8())
		})
	}

	// INC r, DEC r
	for r := Reg8(0); r < 8; r++ {
		r := r
		var cycles uint8 = 1
		if r == regHL {
			cycles = 3
		}
		DefineInstruction(0x04|uint8(r)<<3, fmt.Sprintf("INC %s", r), 1, cycles, func(c *CPU) {
			c.writeOperand(r, c.increment(c.readOperand(r)))
		})
		DefineInstruction(0x05|uint8(r)<<3, fmt.Sprintf("DEC %s", r), 1, cycles, func(c *CPU) {
			c.writeOperand(r, c.decrement(c.readOperand(r)))
		})
	}

	// INC rr, DEC rr, ADD HL, rr
	for i, rr := range pairs16 {
		rr := rr
		DefineInstruction(0x03|uint8(i)<<4, fmt.Sprintf("INC %s", pairNames[rr]), 1, 2, func(c *CPU) {
			c.Set16(rr, c.Get16(rr)+1)
		})
		DefineInstruction(0x0B|uint8(i)<<4, fmt.Sprintf("DEC %s", pairNames[rr]), 1, 2, func(c *CPU) {
			c.Set16(rr, c.Get16(rr)-1)
		})
		DefineInstruction(0x09|uint8(i)<<4, fmt.Sprintf("ADD HL, %s", pairNames[rr]), 1, 2, func(c *CPU) {
			c.addHL(c.Get16(rr))
		})
	}

	DefineInstruction(0xE8, "ADD SP, e8", 2, 4, func(c *CPU) {
		c.SP = c.addSPSigned(c.imm8())
	})
}

func defineBranches() {
	DefineBranch(0x18, "JR e8", 2, 3, 0, func(c *CPU) bool {
		c.jumpRelative()
		return true
	})
	DefineBranch(0xC3, "JP a16", 3, 4, 0, func(c *CPU) bool {
		c.PC = c.imm16()
		return true
	})
	DefineBranch(0xE9, "JP HL", 1, 1, 0, func(c *CPU) bool {
		c.PC = c.HL.Uint16()
		return true
	})
	DefineBranch(0xCD, "CALL a16", 3, 6, 0, func(c *CPU) bool {
		c.call()
		return true
	})
	DefineBranch(0xC9, "RET", 1, 4, 0, func(c *CPU) bool {
		c.ret()
		return true
	})
	DefineBranch(0xD9, "RETI", 1, 4, 0, func(c *CPU) bool {
		c.ret()
		c.irq.IME = true
		return true
	})

	for cond := condition(0); cond < 4; cond++ {
		cond := cond
		name := conditionNames[cond]
		DefineBranch(0x20|uint8(cond)<<3, fmt.Sprintf("JR %s, e8", name), 2, 2, 3, func(c *CPU) bool {
			if c.holds(cond) {
				c.jumpRelative()
				return true
			}
			return false
		})
		DefineBranch(0xC2|uint8(cond)<<3, fmt.Sprintf("JP %s, a16", name), 3, 3, 4, func(c *CPU) bool {
			if c.holds(cond) {
				c.PC = c.imm16()
				return true
			}
			return false
		})
		DefineBranch(0xC4|uint8(cond)<<3, fmt.Sprintf("CALL %s, a16", name), 3, 3, 6, func(c *CPU) bool {
			if c.holds(cond) {
				c.call()
				return true
			}
			return false
		})
		DefineBranch(0xC0|uint8(cond)<<3, fmt.Sprintf("RET %s", name), 1, 2, 5, func(c *CPU) bool {
			if c.holds(cond) {
				c.ret()
				return true
			}
			return false
		})
	}

	// RST n
	for n := uint8(0); n < 8; n++ {
		vector := uint16(n) * 8
		DefineBranch(0xC7|n<<3, fmt.Sprintf("RST %02XH", vector), 1, 4, 0, func(c *CPU) bool {
			c.restart(vector)
			return true
		})
	}
}
