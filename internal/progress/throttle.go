package progress

import "time"

// DefaultInterval is the wall-clock floor between forwarded events for a
// phase that is advancing in sub-percent increments.
const DefaultInterval = 200 * time.Millisecond

// Throttle wraps a Sink and suppresses events that would add noise: an event
// is forwarded only when the whole-point percentage advanced since the last
// forwarded event, or when at least the configured interval has elapsed,
// whichever comes first. Phase transitions always pass.
//
// This bounds event volume for multi-gigabyte dumps without starving the
// consumer during slow phases.
type Throttle struct {
	sink     Sink
	interval time.Duration
	now      func() time.Time

	lastItem  int
	lastPhase string
	lastPct   int
	lastEmit  time.Time
	primed    bool
}

// NewThrottle creates a Throttle forwarding to sink. A non-positive interval
// falls back to DefaultInterval.
func NewThrottle(sink Sink, interval time.Duration) *Throttle {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Throttle{
		sink:     sink,
		interval: interval,
		now:      time.Now,
	}
}

// Publish forwards e to the wrapped sink if it clears the rate limit.
func (t *Throttle) Publish(e Event) {
	now := t.now()
	pct := int(e.Percent)

	phaseChanged := !t.primed || e.ItemIndex != t.lastItem || e.Phase != t.lastPhase
	advanced := pct > t.lastPct
	elapsed := now.Sub(t.lastEmit) >= t.interval

	if !phaseChanged && !advanced && !elapsed {
		return
	}

	t.primed = true
	t.lastItem = e.ItemIndex
	t.lastPhase = e.Phase
	t.lastPct = pct
	t.lastEmit = now

	t.sink.Publish(e)
}
