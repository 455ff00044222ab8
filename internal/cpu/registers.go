package cpu

import (
	"github.com/thelolagemann/gbcore/internal/types"
)

// Reg8 identifies an 8-bit register. The values of B through A
// follow the operand encoding of the instruction set, where 6
// selects the memory operand (HL) rather than a register.
type Reg8 uint8

const (
	RegB Reg8 = iota
	RegC
	RegD
	RegE
	RegH
	RegL
	regHL // (HL), not a register
	RegA
	RegF
)

// Reg16 identifies a 16-bit register or register pair.
type Reg16 uint8

const (
	RegBC Reg16 = iota
	RegDE
	RegHL
	RegSP
	RegAF
	RegPC
)

var registerNames = [...]string{"B", "C", "D", "E", "H", "L", "(HL)", "A", "F"}

// String returns the name of the register.
func (r Reg8) String() string {
	if int(r) < len(registerNames) {
		return registerNames[r]
	}
	return "?"
}

// Registers is the register file of the CPU. The four register
// pairs point at the 8-bit registers, so both views always share
// the same storage.
type Registers struct {
	A types.Register
	F types.Register
	B types.Register
	C types.Register
	D types.Register
	E types.Register
	H types.Register
	L types.Register

	AF *types.RegisterPair
	BC *types.RegisterPair
	DE *types.RegisterPair
	HL *types.RegisterPair

	// PC is the program counter, it points to the next instruction to be executed.
	PC uint16
	// SP is the stack pointer, it points to the top of the stack.
	SP uint16
}

// NewRegisters returns a zeroed register file.
func NewRegisters() *Registers {
	r := &Registers{}
	r.pair()
	return r
}

// pair binds the register pairs to the 8-bit registers of r.
func (r *Registers) pair() {
	r.AF = types.NewRegisterPair(&r.A, &r.F, 0xF0)
	r.BC = types.NewRegisterPair(&r.B, &r.C, 0xFF)
	r.DE = types.NewRegisterPair(&r.D, &r.E, 0xFF)
	r.HL = types.NewRegisterPair(&r.H, &r.L, 0xFF)
}

// register returns a pointer to the register for the given operand
// index, or nil for the (HL) operand.
func (r *Registers) register(index Reg8) *types.Register {
	switch index {
	case RegB:
		return &r.B
	case RegC:
		return &r.C
	case RegD:
		return &r.D
	case RegE:
		return &r.E
	case RegH:
		return &r.H
	case RegL:
		return &r.L
	case RegA:
		return &r.A
	case RegF:
		return &r.F
	}
	return nil
}

// Get8 returns the value of an 8-bit register.
func (r *Registers) Get8(reg Reg8) uint8 {
	if p := r.register(reg); p != nil {
		return *p
	}
	return 0
}

// Set8 sets the value of an 8-bit register. The lower nibble of
// F is always zero, so only the upper nibble of v is stored there.
func (r *Registers) Set8(reg Reg8, v uint8) {
	if reg == RegF {
		v &= 0xF0
	}
	if p := r.register(reg); p != nil {
		*p = v
	}
}

// pairOf returns the register pair for reg, or nil for SP and PC.
func (r *Registers) pairOf(reg Reg16) *types.RegisterPair {
	switch reg {
	case RegBC:
		return r.BC
	case RegDE:
		return r.DE
	case RegHL:
		return r.HL
	case RegAF:
		return r.AF
	}
	return nil
}

// Get16 returns the value of a 16-bit register.
func (r *Registers) Get16(reg Reg16) uint16 {
	switch reg {
	case RegSP:
		return r.SP
	case RegPC:
		return r.PC
	}
	return r.pairOf(reg).Uint16()
}

// Set16 sets the value of a 16-bit register.
func (r *Registers) Set16(reg Reg16, v uint16) {
	switch reg {
	case RegSP:
		r.SP = v
	case RegPC:
		r.PC = v
	default:
		r.pairOf(reg).SetUint16(v)
	}
}
