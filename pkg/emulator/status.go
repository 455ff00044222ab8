package emulator

// Status is the state of the emulator as seen by a display driver.
// When several apply, Errored wins over Paused, and Paused over
// Halted.
type Status int

const (
	// Running is the normal state, the clock is ticking and the CPU
	// executes instructions.
	Running Status = iota
	// Halted means the CPU waits for an interrupt after HALT.
	Halted
	// Errored means an instruction failed, such as an illegal
	// opcode. The emulation has stopped.
	Errored
	// Paused means the clock has been paused by a command.
	Paused
)

var statusNames = map[Status]string{
	Running: "Running",
	Halted:  "Halted",
	Errored: "Errored",
	Paused:  "Paused",
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "Unknown"
}

func (s Status) IsRunning() bool { return s == Running }
func (s Status) IsHalted() bool  { return s == Halted }
func (s Status) IsErrored() bool { return s == Errored }
func (s Status) IsPaused() bool  { return s == Paused }
