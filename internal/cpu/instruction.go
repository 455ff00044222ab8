package cpu

import (
	"fmt"
)

// Instruction represents a single instruction of the CPU, and its
// cost in machine cycles.
type Instruction struct {
	name         string // name of the instruction
	length       uint16 // encoded length, including the opcode and prefix
	cycles       uint8  // cycles when not branching
	branchCycles uint8  // cycles when a conditional branch is taken
	prefix       bool   // 0xCB, selects the extended table
	illegal      bool

	// fn is called when executing the instruction. It returns true
	// if it set PC itself.
	fn func(c *CPU) bool
}

// Name returns the mnemonic of the instruction.
func (i Instruction) Name() string {
	return i.name
}

// Length returns the encoded length of the instruction in bytes.
func (i Instruction) Length() uint16 {
	return i.length
}

// Cycles returns the cost of the instruction. For conditional
// branches this is the cost when the branch is not taken.
func (i Instruction) Cycles() uint8 {
	return i.cycles
}

// BranchCycles returns the cost of a conditional branch when it is
// taken, or 0 for every other instruction.
func (i Instruction) BranchCycles() uint8 {
	return i.branchCycles
}

// Illegal reports whether the opcode has no instruction on the
// hardware.
func (i Instruction) Illegal() bool {
	return i.illegal
}

// Execute executes the instruction on c, and returns the number of
// cycles it took. PC is advanced by the length of the instruction,
// unless the instruction set PC itself.
func (i Instruction) Execute(c *CPU) uint8 {
	if i.prefix {
		return DecodeCB(c.bus.Read(c.PC + 1)).Execute(c)
	}

	if i.fn(c) {
		if i.branchCycles != 0 {
			return i.branchCycles
		}
		return i.cycles
	}

	c.PC += i.length
	return i.cycles
}

// InstructionSet holds the first 256 instructions.
var InstructionSet [256]Instruction

// InstructionSetCB holds the 256 instructions of the 0xCB prefix.
var InstructionSetCB [256]Instruction

// Decode returns the instruction for opcode. Every opcode decodes
// to an instruction, illegal opcodes to one whose execution faults
// the CPU.
func Decode(opcode uint8) Instruction {
	return InstructionSet[opcode]
}

// DecodeCB returns the instruction for an opcode following the 0xCB
// prefix.
func DecodeCB(opcode uint8) Instruction {
	return InstructionSetCB[opcode]
}

// DefineInstruction defines a instruction that never sets PC, in
// the InstructionSet, with the provided opcode.
func DefineInstruction(opcode uint8, name string, length uint16, cycles uint8, fn func(*CPU)) {
	InstructionSet[opcode] = Instruction{
		name:   name,
		length: length,
		cycles: cycles,
		fn: func(c *CPU) bool {
			fn(c)
			return false
		},
	}
}

// DefineBranch defines an instruction that may set PC. fn returns
// true when it did. branchCycles is 0 for unconditional branches.
func DefineBranch(opcode uint8, name string, length uint16, cycles, branchCycles uint8, fn func(*CPU) bool) {
	InstructionSet[opcode] = Instruction{
		name:         name,
		length:       length,
		cycles:       cycles,
		branchCycles: branchCycles,
		fn:           fn,
	}
}

// DefineInstructionCB defines an instruction in the InstructionSetCB.
func DefineInstructionCB(opcode uint8, name string, cycles uint8, fn func(*CPU)) {
	InstructionSetCB[opcode] = Instruction{
		name:   name,
		length: 2,
		cycles: cycles,
		fn: func(c *CPU) bool {
			fn(c)
			return false
		},
	}
}

// illegalOpcode creates an instruction that faults the CPU with a
// DecodeError, leaving PC on the opcode.
func illegalOpcode(opcode uint8) Instruction {
	return Instruction{
		name:    fmt.Sprintf("ILLEGAL %02X", opcode),
		length:  1,
		illegal: true,
		fn: func(c *CPU) bool {
			c.fault = &DecodeError{Opcode: opcode, PC: c.PC}
			return true
		},
	}
}

// illegalOpcodes are the opcodes that have no instruction.
var illegalOpcodes = []uint8{0xD3, 0xDB, 0xDD, 0xE3, 0xE4, 0xEB, 0xEC, 0xED, 0xF4, 0xFC, 0xFD}
