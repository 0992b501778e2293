package progress

// UnknownTotalMax is the ceiling applied to a phase whose true end size is
// not known up front. Export phases run against an estimated denominator and
// must not claim completion before the phase actually finishes.
const UnknownTotalMax = 95.0

// Reporter scopes progress events to one item of a batch.
type Reporter struct {
	sink      Sink
	itemIndex int
	itemCount int
	itemName  string
}

// NewReporter creates a Reporter publishing to sink for the given item.
func NewReporter(sink Sink, itemIndex, itemCount int, itemName string) *Reporter {
	if sink == nil {
		sink = Discard
	}
	return &Reporter{
		sink:      sink,
		itemIndex: itemIndex,
		itemCount: itemCount,
		itemName:  itemName,
	}
}

// Emit publishes a single event for the given phase at the given percentage.
func (r *Reporter) Emit(phase string, percent float64) {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	r.sink.Publish(Event{
		ItemIndex: r.itemIndex,
		ItemCount: r.itemCount,
		ItemName:  r.itemName,
		Phase:     phase,
		Percent:   percent,
	})
}

// Counter converts a cumulative byte count into phase-relative percentage
// events. When the total is exact (import of a file of known size) maxPercent
// is 100; when it is an estimate (export, where the output size is unknown
// until done) callers pass UnknownTotalMax.
type Counter struct {
	reporter   *Reporter
	phase      string
	total      int64
	maxPercent float64
}

// NewCounter creates a Counter for one phase of the reporter's item.
func (r *Reporter) NewCounter(phase string, totalBytes int64, maxPercent float64) *Counter {
	return &Counter{
		reporter:   r,
		phase:      phase,
		total:      totalBytes,
		maxPercent: maxPercent,
	}
}

// Bytes reports the cumulative byte count for the phase. Percentages are
// monotonic non-decreasing as long as the byte count is.
func (c *Counter) Bytes(total int64) {
	if c.total <= 0 {
		return
	}
	percent := float64(total) / float64(c.total) * 100
	if percent > c.maxPercent {
		percent = c.maxPercent
	}
	c.reporter.Emit(c.phase, percent)
}

// Done marks the phase complete with a single 100% event.
func (c *Counter) Done() {
	c.reporter.Emit(c.phase, 100)
}
