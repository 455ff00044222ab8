package clock

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/retroenv/retrogolib/log"
)

// maxSamples bounds the rate history kept by a Pacer.
const maxSamples = 3600

// Sample is the rate achieved by a Pacer over one second.
type Sample struct {
	At   time.Time
	Rate float64 // ticks per second
}

// Pacer signals ticks to a Rendezvous at a fixed rate. Tick n of an
// epoch is never signalled before epoch + n/rate. When the pacer falls
// behind, such as after oversleeping, the overdue ticks are signalled
// back to back, so the average rate does not drift.
type Pacer struct {
	r   *Rendezvous
	log *log.Logger

	rate    atomic.Uint64
	rebase  atomic.Bool
	paused  atomic.Bool
	wake    chan struct{} // rate changed or resumed
	done    chan struct{}
	stopper sync.Once

	mu      sync.Mutex
	samples []Sample
}

// NewPacer returns a Pacer signalling r at rate ticks per second.
func NewPacer(r *Rendezvous, rate uint64, logger *log.Logger) *Pacer {
	p := &Pacer{
		r:      r,
		log:    logger,
		wake:   make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
	p.SetRate(rate)
	return p
}

// Rate returns the target rate in ticks per second.
func (p *Pacer) Rate() uint64 {
	return p.rate.Load()
}

// SetRate changes the target rate. It may be called while Run is
// running, and takes effect from the next tick. A rate of 0 is
// treated as 1.
func (p *Pacer) SetRate(rate uint64) {
	if rate == 0 {
		rate = 1
	}
	p.rate.Store(rate)
	p.rebase.Store(true)
	p.notify()
}

func (p *Pacer) notify() {
	select {
	case p.wake <- struct{}{}:
	default:
	}
}

// Pause stops signalling ticks until Resume.
func (p *Pacer) Pause() {
	p.paused.Store(true)
}

// Resume continues after Pause.
func (p *Pacer) Resume() {
	if p.paused.Swap(false) {
		p.notify()
	}
}

// Paused reports whether the pacer is paused.
func (p *Pacer) Paused() bool {
	return p.paused.Load()
}

// Stop asks Run to return. It is checked once per tick.
func (p *Pacer) Stop() {
	p.stopper.Do(func() { close(p.done) })
}

// Samples returns the achieved rate of every full second Run has been
// signalling ticks, oldest first.
func (p *Pacer) Samples() []Sample {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Sample(nil), p.samples...)
}

// Run signals ticks until ctx is cancelled or Stop is called, and then
// stops the Rendezvous so the engine leaves Wait. It returns the error
// of the Rendezvous if the protocol was violated.
func (p *Pacer) Run(ctx context.Context) error {
	defer p.r.Stop()

	timer := time.NewTimer(0)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	// sleep waits for d. It returns early when the rate changes, and
	// reports false when the pacer should return.
	sleep := func(d time.Duration) bool {
		timer.Reset(d)
		select {
		case <-timer.C:
			return true
		case <-p.wake:
			if !timer.Stop() {
				<-timer.C
			}
			return true
		case <-ctx.Done():
		case <-p.done:
		}
		if !timer.Stop() {
			<-timer.C
		}
		return false
	}

	var (
		epoch       = time.Now()
		n           uint64
		sampleStart = epoch
		sampleTicks uint64
	)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-p.done:
			return nil
		default:
		}

		if p.paused.Load() {
			select {
			case <-p.wake:
			case <-ctx.Done():
				return nil
			case <-p.done:
				return nil
			}
			p.rebase.Store(true)
			continue
		}

		rate := p.rate.Load()
		if p.rebase.Swap(false) {
			epoch, n = time.Now(), 0
			sampleStart, sampleTicks = epoch, 0
		}
		if n == rate {
			// keep the offsets small
			epoch, n = epoch.Add(time.Second), 0
		}

		deadline := epoch.Add(time.Duration(n * uint64(time.Second) / rate))
		if d := time.Until(deadline); d > 0 {
			if !sleep(d) {
				return nil
			}
			continue
		}

		if err := p.r.Signal(); err != nil {
			if errors.Is(err, ErrStopped) {
				return nil
			}
			return err
		}
		n++
		sampleTicks++

		if now := time.Now(); now.Sub(sampleStart) >= time.Second {
			p.sample(now, float64(sampleTicks)/now.Sub(sampleStart).Seconds())
			sampleStart, sampleTicks = now, 0
		}
	}
}

func (p *Pacer) sample(at time.Time, rate float64) {
	p.mu.Lock()
	p.samples = append(p.samples, Sample{At: at, Rate: rate})
	if len(p.samples) > maxSamples {
		p.samples = p.samples[len(p.samples)-maxSamples:]
	}
	p.mu.Unlock()

	p.log.Debug("Pacer rate",
		log.Int("target", int(p.rate.Load())),
		log.Int("achieved", int(rate)))
}
