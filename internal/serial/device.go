package serial

import (
	"io"
)

// Device is a device that can be attached to the Controller. A
// transfer exchanges a whole byte with it.
type Device interface {
	Transfer(out uint8) (in uint8)
}

// nullDevice is an implementation of Device that acts as if
// nothing is plugged into the link port. It always sends 0xFF.
type nullDevice struct{}

// Transfer discards out.
func (nullDevice) Transfer(uint8) uint8 { return 0xFF }

// WriterDevice is a Device that writes every byte sent to it to W,
// such as the output of test ROMs. Write errors are ignored, as the
// link port has no way to report them.
type WriterDevice struct {
	W io.Writer
}

// Transfer writes out to W.
func (d WriterDevice) Transfer(out uint8) uint8 {
	_, _ = d.W.Write([]byte{out})
	return 0xFF
}
