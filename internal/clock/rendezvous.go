// Package clock paces the emulation against wall-clock time. A Pacer
// produces ticks at a configurable rate and hands each of them to the
// execution engine through a Rendezvous.
package clock

import (
	"errors"
	"sync"
)

var (
	// ErrHandshake is returned when the tick protocol is violated, such
	// as finishing a tick that was never signalled.
	ErrHandshake = errors.New("clock: handshake violation")
	// ErrStopped is returned by Wait and Signal once the Rendezvous has
	// been stopped.
	ErrStopped = errors.New("clock: stopped")
)

// Rendezvous is the monitor between the producer of ticks and the
// engine consuming them. The engine calls Register, Wait, executes the
// tick and calls Finish. The producer calls Signal, which returns once
// the previous tick has been finished and the new one published.
//
// Between Register and Finish the engine holds the monitor, so Do can
// observe the state the engine mutates without racing it.
type Rendezvous struct {
	mu   sync.Mutex
	cond *sync.Cond

	available bool // a signalled tick has not been finished yet
	issued    uint64
	finished  uint64
	stopped   bool
}

// NewRendezvous returns a Rendezvous with no tick signalled.
func NewRendezvous() *Rendezvous {
	r := &Rendezvous{}
	r.cond = sync.NewCond(&r.mu)
	return r
}

// Register enters the monitor. It must be followed by Wait.
func (r *Rendezvous) Register() {
	r.mu.Lock()
}

// Wait blocks until a tick is signalled. It must be called after
// Register. On ErrStopped the monitor has been left and Finish must
// not be called.
func (r *Rendezvous) Wait() error {
	for !r.available && !r.stopped {
		r.cond.Wait()
	}
	if r.stopped {
		r.mu.Unlock()
		return ErrStopped
	}
	return nil
}

// Finish acknowledges the tick returned by Wait and leaves the monitor.
func (r *Rendezvous) Finish() error {
	defer r.mu.Unlock()

	if !r.available {
		return ErrHandshake
	}
	r.available = false
	r.finished++
	r.cond.Broadcast()

	if r.finished != r.issued {
		return ErrHandshake
	}
	return nil
}

// Signal publishes the next tick. It waits for the acknowledgement of
// the previous tick first, so at most one tick is ever outstanding.
func (r *Rendezvous) Signal() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for r.available && !r.stopped {
		r.cond.Wait()
	}
	if r.stopped {
		return ErrStopped
	}
	if r.issued != r.finished {
		return ErrHandshake
	}

	r.available = true
	r.issued++
	r.cond.Broadcast()
	return nil
}

// Stop wakes every waiter. Wait and Signal return ErrStopped from now
// on.
func (r *Rendezvous) Stop() {
	r.mu.Lock()
	r.stopped = true
	r.cond.Broadcast()
	r.mu.Unlock()
}

// Stopped reports whether Stop has been called.
func (r *Rendezvous) Stopped() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stopped
}

// Do runs fn inside the monitor, never during a tick.
func (r *Rendezvous) Do(fn func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fn()
}

// Ticks returns the number of ticks signalled and finished.
func (r *Rendezvous) Ticks() (issued, finished uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.issued, r.finished
}
