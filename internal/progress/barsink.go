package progress

import (
	"fmt"

	"github.com/schollz/progressbar/v3"
)

// BarSink renders progress events as a terminal progress bar. Each phase of
// each item reuses one 100-step bar; the description carries the item
// position, name, and phase label.
type BarSink struct {
	bar       *progressbar.ProgressBar
	lastItem  int
	lastPhase string
	primed    bool
}

// NewBarSink creates a terminal progress bar sink.
func NewBarSink() *BarSink {
	return &BarSink{}
}

// Publish updates the bar from the event, resetting it at phase transitions.
func (s *BarSink) Publish(e Event) {
	desc := fmt.Sprintf("[%d/%d] %s: %s", e.ItemIndex+1, e.ItemCount, e.ItemName, e.Phase)

	if !s.primed || e.ItemIndex != s.lastItem || e.Phase != s.lastPhase {
		s.bar = progressbar.NewOptions(100,
			progressbar.OptionSetDescription(desc),
			progressbar.OptionSetWidth(40),
			progressbar.OptionShowCount(),
			progressbar.OptionSetRenderBlankState(true),
			progressbar.OptionClearOnFinish(),
		)
		s.primed = true
		s.lastItem = e.ItemIndex
		s.lastPhase = e.Phase
	}

	_ = s.bar.Set(int(e.Percent))
	if e.Percent >= 100 {
		_ = s.bar.Finish()
	}
}
