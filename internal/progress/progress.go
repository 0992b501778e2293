// Package progress converts raw byte counters into bounded, rate-limited
// progress events for the goslim pipeline.
package progress

// Event is a transient notification describing how far a single phase of a
// single item has advanced. Percent is phase-relative, in [0,100], monotonic
// non-decreasing within a phase, and resets to 0 at phase transitions.
type Event struct {
	ItemIndex int    // zero-based position within the batch
	ItemCount int    // total items in the batch
	ItemName  string // logical name of the current item
	Phase     string // free-text phase label
	Percent   float64
}

// Sink consumes progress events. Implementations must not block for long;
// the pipeline publishes from its single control flow.
type Sink interface {
	Publish(Event)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(Event)

// Publish calls f(e).
func (f SinkFunc) Publish(e Event) { f(e) }

// Discard is a Sink that drops every event.
var Discard Sink = SinkFunc(func(Event) {})
