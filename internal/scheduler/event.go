package scheduler

// EventType identifies an event. Only one event of each type can be
// scheduled at a time.
type EventType int

const (
	// PPUEndOAMSearch ends mode 2 and starts the pixel transfer.
	PPUEndOAMSearch EventType = iota
	// PPUEndTransfer ends mode 3 and enters HBlank.
	PPUEndTransfer
	// PPUEndHBlank ends a visible line.
	PPUEndHBlank
	// PPUEndVBlankLine ends one of the ten lines of VBlank.
	PPUEndVBlankLine

	eventTypes
)

var eventNames = [eventTypes]string{
	PPUEndOAMSearch:  "PPUEndOAMSearch",
	PPUEndTransfer:   "PPUEndTransfer",
	PPUEndHBlank:     "PPUEndHBlank",
	PPUEndVBlankLine: "PPUEndVBlankLine",
}

func (e EventType) String() string {
	if e < 0 || e >= eventTypes {
		return "unknown"
	}
	return eventNames[e]
}

// Event is a node of the scheduler's list.
type Event struct {
	cycle     uint64
	eventType EventType
	next      *Event
	scheduled bool
}

// Reset clears the event so it can be scheduled again.
func (e *Event) Reset() {
	e.cycle = 0
	e.next = nil
	e.scheduled = false
}
