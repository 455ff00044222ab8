package scheduler

import (
	"fmt"
	"strings"
)

// Scheduler is a simple event scheduler that can be used to schedule events
// to be executed at a specific cycle.
//
// The scheduler is a linked list of events, sorted by the cycle at which
// they should be executed. When an event is scheduled, it is inserted into
// the list in the correct position, and when the scheduler is ticked, every
// event that is due is removed from the list and its handler executed.
type Scheduler struct {
	cycles uint64
	root   *Event

	eventHandlers [eventTypes]func()
	events        [eventTypes]Event // only one event of each type can be scheduled at a time
}

// NewScheduler returns an empty Scheduler at cycle 0.
func NewScheduler() *Scheduler {
	s := &Scheduler{}
	for i := range s.events {
		s.events[i].eventType = EventType(i)
	}
	return s
}

// Cycle returns the number of cycles the scheduler has been ticked.
func (s *Scheduler) Cycle() uint64 {
	return s.cycles
}

// RegisterEvent registers a function of the EventType to be called when
// the event is due. Handlers are registered once, so scheduling an
// event never allocates.
func (s *Scheduler) RegisterEvent(eventType EventType, fn func()) {
	s.eventHandlers[eventType] = fn
}

// Tick advances the scheduler by the given number of cycles, executing
// every event scheduled up to and including the new cycle, in order.
// Handlers run with the scheduler at the cycle their event was due, so
// events they schedule are relative to it and run in the same call when
// they are due.
func (s *Scheduler) Tick(c uint64) {
	end := s.cycles + c

	for s.root != nil && s.root.cycle <= end {
		event := s.root
		s.root = event.next
		s.cycles = event.cycle
		event.Reset()

		if fn := s.eventHandlers[event.eventType]; fn != nil {
			fn()
		}
	}
	s.cycles = end
}

// ScheduleEvent schedules an event to be executed in cycle cycles. An
// event of the same type that is already scheduled is moved. Events due
// on the same cycle are executed in the order they were scheduled.
func (s *Scheduler) ScheduleEvent(eventType EventType, cycle uint64) {
	s.DescheduleEvent(eventType)

	this := &s.events[eventType]
	this.cycle = s.cycles + cycle
	this.scheduled = true

	if s.root == nil || this.cycle < s.root.cycle {
		this.next = s.root
		s.root = this
		return
	}

	event := s.root
	for event.next != nil && event.next.cycle <= this.cycle {
		event = event.next
	}
	this.next = event.next
	event.next = this
}

// DescheduleEvent removes the event of the given type, if scheduled.
func (s *Scheduler) DescheduleEvent(eventType EventType) {
	this := &s.events[eventType]
	if !this.scheduled {
		return
	}

	if s.root == this {
		s.root = this.next
		this.Reset()
		return
	}
	for event := s.root; event != nil; event = event.next {
		if event.next == this {
			event.next = this.next
			break
		}
	}
	this.Reset()
}

// Until returns the number of cycles until the event of the given type
// is due, and false if it is not scheduled.
func (s *Scheduler) Until(eventType EventType) (uint64, bool) {
	this := &s.events[eventType]
	if !this.scheduled {
		return 0, false
	}
	return this.cycle - s.cycles, true
}

// Reset removes all events and returns the scheduler to cycle 0.
func (s *Scheduler) Reset() {
	s.root = nil
	s.cycles = 0
	for i := range s.events {
		s.events[i].Reset()
	}
}

func (s *Scheduler) String() string {
	var b strings.Builder
	for event := s.root; event != nil; event = event.next {
		fmt.Fprintf(&b, "%s:%d->", event.eventType, event.cycle)
	}
	return b.String()
}
