package types

const (
	Bit0 = 1 << iota // 0b0000_0001
	Bit1             // 0b0000_0010
	Bit2             // 0b0000_0100
	Bit3             // 0b0000_1000
	Bit4             // 0b0001_0000
	Bit5             // 0b0010_0000
	Bit6             // 0b0100_0000
	Bit7             // 0b1000_0000
)

// Address is a memory-mapped hardware register. The memory bus
// routes reads and writes of a reserved address to its handlers
// instead of the backing store. A nil Read reads as 0xFF, a nil
// Write ignores the value.
type Address struct {
	// Read is called when the CPU reads from the address.
	Read func() uint8
	// Write is called when the CPU writes to the address.
	Write func(value uint8)
}
