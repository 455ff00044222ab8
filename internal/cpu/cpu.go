// Package cpu implements the Sharp SM83 processor of the Game Boy: its
// register file, the instruction tables and the dispatcher that executes
// one instruction at a time.
package cpu

import (
	"errors"
	"fmt"

	"github.com/retroenv/retrogolib/log"
	"github.com/thelolagemann/gbcore/internal/interrupts"
)

// ErrIllegalOpcode is wrapped by every DecodeError.
var ErrIllegalOpcode = errors.New("illegal opcode")

// DecodeError is returned by Step when the opcode at PC has no
// instruction. The CPU state is left as it was before the fetch.
type DecodeError struct {
	Opcode uint8
	PC     uint16
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("cpu: illegal opcode 0x%02X at 0x%04X", e.Opcode, e.PC)
}

func (e *DecodeError) Unwrap() error {
	return ErrIllegalOpcode
}

// InterruptCycles is the cost of dispatching an interrupt.
const InterruptCycles = 5

type mode = uint8

const (
	// modeNormal is the normal CPU mode.
	modeNormal mode = iota
	// modeHalt is entered by HALT, until an interrupt is pending.
	modeHalt
	// modeStop is entered by STOP, and left like modeHalt.
	modeStop
)

// Bus is the memory the CPU executes from.
type Bus interface {
	Read(address uint16) uint8
	Write(address uint16, value uint8)
	Read16(address uint16) uint16
	Write16(address uint16, value uint16)
}

// CPU represents the Gameboy CPU. It is responsible for executing instructions.
type CPU struct {
	// Registers contains the 8-bit registers, the 16-bit register pairs, PC and SP.
	Registers

	// Debug logs every executed instruction.
	Debug bool

	bus Bus
	irq *interrupts.Service
	log *log.Logger

	mode    mode
	eiDelay uint8 // steps until EI sets IME
	fault   error
}

// NewCPU creates a new CPU instance with the given Bus and interrupt
// service. All registers are zero.
func NewCPU(bus Bus, irq *interrupts.Service, logger *log.Logger) *CPU {
	c := &CPU{
		bus: bus,
		irq: irq,
		log: logger,
	}
	c.pair()

	return c
}

// Halted reports whether the CPU is waiting for an interrupt.
func (c *CPU) Halted() bool {
	return c.mode != modeNormal
}

// Step executes a single instruction, or services a pending interrupt,
// and returns the number of cycles it took. A halted CPU idles for a
// single cycle. An illegal opcode returns a *DecodeError.
func (c *CPU) Step() (uint8, error) {
	if c.eiDelay > 0 {
		c.eiDelay--
		if c.eiDelay == 0 {
			c.irq.IME = true
		}
	}

	if c.irq.IME && c.irq.HasInterrupts() {
		return c.serviceInterrupt(), nil
	}

	if c.mode != modeNormal {
		// a pending interrupt wakes the CPU even when IME is reset
		if !c.irq.HasInterrupts() {
			return 1, nil
		}
		c.mode = modeNormal
	}

	pc := c.PC
	opcode := c.bus.Read(pc)
	instruction := Decode(opcode)

	if c.Debug {
		c.log.Debug("Executing instruction",
			log.Hex("pc", pc),
			log.Hex("opcode", opcode),
			log.String("name", instruction.Name()))
	}

	cycles := instruction.Execute(c)
	if c.fault != nil {
		err := c.fault
		c.fault = nil
		return 0, err
	}

	return cycles, nil
}

// serviceInterrupt pushes PC and jumps to the vector of the highest
// priority pending interrupt.
func (c *CPU) serviceInterrupt() uint8 {
	vector, ok := c.irq.Vector()
	if !ok {
		return 0
	}

	c.irq.IME = false
	c.mode = modeNormal
	c.push(c.PC)
	c.PC = vector

	return InterruptCycles
}
