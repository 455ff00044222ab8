// Package event defines the notifications the emulator sends to a
// display.Driver. It is separate from package display so that both
// sides can import it.
package event

// Type tells the driver how to interpret an Event.
type Type int

const (
	// Quit tells the driver the emulation has stopped, Start should
	// return.
	Quit Type = iota
	// Title carries a string for the window title, such as the game
	// name and the frame rate.
	Title
)

// Event is a notification for the driver. The type of Data depends on
// Type and is nil when the event carries nothing.
type Event struct {
	Type Type
	Data any
}
