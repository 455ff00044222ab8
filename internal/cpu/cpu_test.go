package cpu

import (
	"errors"
	"testing"

	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
	"github.com/thelolagemann/gbcore/internal/interrupts"
)

// testMemory is a flat 64kB Bus without any mapped hardware.
type testMemory [0x10000]uint8

func (m *testMemory) Read(address uint16) uint8 { return m[address] }

func (m *testMemory) Write(address uint16, value uint8) { m[address] = value }

func (m *testMemory) Read16(address uint16) uint16 {
	return uint16(m[address]) | uint16(m[address+1])<<8
}

func (m *testMemory) Write16(address uint16, value uint16) {
	m[address] = uint8(value)
	m[address+1] = uint8(value >> 8)
}

func newTestCPU(t *testing.T) (*CPU, *testMemory) {
	t.Helper()
	mem := &testMemory{}
	return NewCPU(mem, interrupts.NewService(nil), log.NewTestLogger(t)), mem
}

// load places program at address and points PC at it.
func load(c *CPU, mem *testMemory, address uint16, program ...uint8) {
	copy(mem[address:], program)
	c.PC = address
}

func step(t *testing.T, c *CPU) uint8 {
	t.Helper()
	cycles, err := c.Step()
	assert.NoError(t, err)
	return cycles
}

func TestCPU_LoadAFromBC(t *testing.T) {
	c, mem := newTestCPU(t)
	for i := range mem {
		mem[i] = uint8(i % 255)
	}
	c.PC = 0x0100
	mem[0x0100] = 0x0A // LD A, (BC)
	c.B, c.C = 0xBB, 0xCC

	cycles := step(t, c)

	assert.Equal(t, mem[0xBBCC], c.A)
	assert.Equal(t, uint8(0xBBCC%255), c.A)
	assert.Equal(t, uint16(0x0101), c.PC)
	assert.Equal(t, uint8(2), cycles)
}

func TestCPU_AddImmediate(t *testing.T) {
	c, mem := newTestCPU(t)
	load(c, mem, 0x0200, 0xC6, 0x01) // ADD A, d8
	c.A = 0x0F

	cycles := step(t, c)

	assert.Equal(t, uint8(0x10), c.A)
	assert.False(t, c.IsFlagSet(FlagZero))
	assert.True(t, c.IsFlagSet(FlagHalfCarry))
	assert.False(t, c.IsFlagSet(FlagCarry))
	assert.False(t, c.IsFlagSet(FlagSubtract))
	assert.Equal(t, uint16(0x0202), c.PC)
	assert.Equal(t, uint8(2), cycles)
}

func TestCPU_PushPop(t *testing.T) {
	c, mem := newTestCPU(t)
	load(c, mem, 0x0100,
		0xC5, // PUSH BC
		0x01, 0x00, 0x00, // LD BC, 0x0000
		0xC1, // POP BC
	)
	c.SP = 0xFFFE
	c.BC.SetUint16(0x1234)

	assert.Equal(t, uint8(4), step(t, c))
	assert.Equal(t, uint16(0xFFFC), c.SP)
	assert.Equal(t, uint8(0x34), mem[0xFFFC])
	assert.Equal(t, uint8(0x12), mem[0xFFFD])

	step(t, c)
	assert.Equal(t, uint16(0x0000), c.BC.Uint16())

	assert.Equal(t, uint8(3), step(t, c))
	assert.Equal(t, uint16(0x1234), c.BC.Uint16())
	assert.Equal(t, uint16(0xFFFE), c.SP)
}

func TestCPU_PopAFMasksFlags(t *testing.T) {
	c, mem := newTestCPU(t)
	load(c, mem, 0x0100, 0xF1) // POP AF
	c.SP = 0xC000
	mem[0xC000], mem[0xC001] = 0xFF, 0x12

	step(t, c)

	assert.Equal(t, uint8(0x12), c.A)
	assert.Equal(t, uint8(0xF0), c.F)
}

func TestCPU_IllegalOpcode(t *testing.T) {
	for _, opcode := range illegalOpcodes {
		c, mem := newTestCPU(t)
		load(c, mem, 0x4000, opcode)
		c.A = 0x42

		cycles, err := c.Step()

		assert.Equal(t, uint8(0), cycles)
		assert.True(t, errors.Is(err, ErrIllegalOpcode))
		var decodeErr *DecodeError
		assert.True(t, errors.As(err, &decodeErr))
		assert.Equal(t, opcode, decodeErr.Opcode)
		assert.Equal(t, uint16(0x4000), decodeErr.PC)
		assert.Equal(t, uint16(0x4000), c.PC)
		assert.Equal(t, uint8(0x42), c.A)

		// the fault does not leak into the next step
		mem[0x4000] = 0x00
		_, err = c.Step()
		assert.NoError(t, err)
	}
}

func TestCPU_ConditionalBranch(t *testing.T) {
	c, mem := newTestCPU(t)

	// JR NZ, +5 not taken
	load(c, mem, 0x0100, 0x20, 0x05)
	c.SetFlag(FlagZero)
	assert.Equal(t, uint8(2), step(t, c))
	assert.Equal(t, uint16(0x0102), c.PC)

	// JR NZ, -2 taken
	load(c, mem, 0x0100, 0x20, 0xFE)
	c.ClearFlag(FlagZero)
	assert.Equal(t, uint8(3), step(t, c))
	assert.Equal(t, uint16(0x0100), c.PC)

	// JP C, a16 not taken, then taken
	load(c, mem, 0x0100, 0xDA, 0x34, 0x12)
	assert.Equal(t, uint8(3), step(t, c))
	assert.Equal(t, uint16(0x0103), c.PC)
	load(c, mem, 0x0100, 0xDA, 0x34, 0x12)
	c.SetFlag(FlagCarry)
	assert.Equal(t, uint8(4), step(t, c))
	assert.Equal(t, uint16(0x1234), c.PC)
}

func TestCPU_CallReturn(t *testing.T) {
	c, mem := newTestCPU(t)
	c.SP = 0xDFFF
	load(c, mem, 0x0150, 0xCD, 0x00, 0x20) // CALL 0x2000
	mem[0x2000] = 0xC8                     // RET Z
	mem[0x2001] = 0xC9                     // RET

	assert.Equal(t, uint8(6), step(t, c))
	assert.Equal(t, uint16(0x2000), c.PC)
	assert.Equal(t, uint16(0xDFFD), c.SP)
	assert.Equal(t, uint16(0x0153), mem.Read16(c.SP))

	// zero flag reset, falls through
	assert.Equal(t, uint8(2), step(t, c))
	assert.Equal(t, uint16(0x2001), c.PC)

	assert.Equal(t, uint8(4), step(t, c))
	assert.Equal(t, uint16(0x0153), c.PC)
	assert.Equal(t, uint16(0xDFFF), c.SP)
}

func TestCPU_Restart(t *testing.T) {
	c, mem := newTestCPU(t)
	c.SP = 0xFFFE
	load(c, mem, 0x0200, 0xEF) // RST 28H

	assert.Equal(t, uint8(4), step(t, c))
	assert.Equal(t, uint16(0x0028), c.PC)
	assert.Equal(t, uint16(0x0201), mem.Read16(c.SP))
}

func TestCPU_PrefixCB(t *testing.T) {
	c, mem := newTestCPU(t)
	load(c, mem, 0x0100,
		0xCB, 0x7C, // BIT 7, H
		0xCB, 0x46, // BIT 0, (HL)
		0xCB, 0xFE, // SET 7, (HL)
		0xCB, 0x37, // SWAP A
	)
	c.HL.SetUint16(0x8000)
	c.A = 0xF1
	mem[0x8000] = 0x12 // bit 0 reset

	// H is 0x80
	assert.Equal(t, uint8(2), step(t, c))
	assert.False(t, c.IsFlagSet(FlagZero))
	assert.True(t, c.IsFlagSet(FlagHalfCarry))
	assert.Equal(t, uint16(0x0102), c.PC)

	assert.Equal(t, uint8(3), step(t, c))
	assert.True(t, c.IsFlagSet(FlagZero))

	assert.Equal(t, uint8(4), step(t, c))
	assert.Equal(t, uint8(0x92), mem[0x8000])

	assert.Equal(t, uint8(2), step(t, c))
	assert.Equal(t, uint8(0x1F), c.A)
	assert.Equal(t, uint16(0x0108), c.PC)
}

func TestCPU_Interrupts(t *testing.T) {
	c, mem := newTestCPU(t)
	c.SP = 0xFFFE
	load(c, mem, 0x0100,
		0xFB, // EI
		0x00, // NOP
		0x00, // NOP
	)
	c.irq.Enable = interrupts.VBlankFlag
	c.irq.Request(interrupts.VBlankFlag)

	// EI takes effect after the following instruction
	step(t, c)
	assert.False(t, c.irq.IME)
	step(t, c)
	assert.Equal(t, uint16(0x0102), c.PC)

	assert.Equal(t, uint8(InterruptCycles), step(t, c))
	assert.Equal(t, uint16(0x0040), c.PC)
	assert.False(t, c.irq.IME)
	assert.Equal(t, uint16(0x0102), mem.Read16(c.SP))
	assert.Equal(t, uint8(0), c.irq.Flag)
}

func TestCPU_EIThenDI(t *testing.T) {
	c, mem := newTestCPU(t)
	load(c, mem, 0x0100, 0xFB, 0xF3, 0x00) // EI, DI, NOP

	step(t, c)
	step(t, c)
	step(t, c)
	assert.False(t, c.irq.IME)
}

func TestCPU_Halt(t *testing.T) {
	c, mem := newTestCPU(t)
	c.SP = 0xFFFE
	load(c, mem, 0x0100, 0x76, 0x3C) // HALT, INC A
	c.irq.Enable = interrupts.TimerFlag

	step(t, c)
	assert.True(t, c.Halted())
	assert.Equal(t, uint16(0x0101), c.PC)

	for i := 0; i < 10; i++ {
		assert.Equal(t, uint8(1), step(t, c))
	}
	assert.Equal(t, uint16(0x0101), c.PC)

	// with IME reset the CPU wakes up without servicing the interrupt
	c.irq.Request(interrupts.TimerFlag)
	assert.Equal(t, uint8(1), step(t, c))
	assert.False(t, c.Halted())
	assert.Equal(t, uint8(1), c.A)
	assert.Equal(t, uint16(0x0102), c.PC)
}
