package pipeline

import (
	"math"
	"time"
)

// Outcome is the tri-state terminal status of one item. A dump that
// succeeded but whose requested restore failed is reported as OutcomeDumped
// with the restore error recorded, so the two conditions stay independently
// observable.
type Outcome int

const (
	OutcomeFailed   Outcome = iota // no artifact produced
	OutcomeDumped                  // slim dump written, no restore or restore failed
	OutcomeRestored                // slim dump written and restored to the target
)

// String returns a human-readable outcome label.
func (o Outcome) String() string {
	switch o {
	case OutcomeDumped:
		return "dumped"
	case OutcomeRestored:
		return "restored"
	default:
		return "failed"
	}
}

// RestoreSummary describes a completed restore into a named target database.
type RestoreSummary struct {
	Database  string
	Tables    int
	SizeBytes int64
}

// ItemResult is the terminal record of one input dump file.
type ItemResult struct {
	Name    string
	Path    string
	Success bool
	Outcome Outcome

	// Populated on success.
	OriginalBytes  int64
	SlimBytes      int64
	SavingsPercent int
	OutputPath     string
	Restore        *RestoreSummary
	RestoreError   string // set when the optional restore failed after a successful dump

	// Populated on failure.
	Error string
}

// BatchResult is the ordered collection of per-item results. The batch as a
// whole succeeds when it ran to completion, independent of individual item
// failures.
type BatchResult struct {
	Items       []ItemResult
	Succeeded   int
	Failed      int
	StartedAt   time.Time
	CompletedAt time.Time
	Duration    time.Duration
}

// SavingsPercent computes the rounded percentage size reduction of a slim
// dump relative to the full dump.
func SavingsPercent(fullBytes, slimBytes int64) int {
	if fullBytes <= 0 {
		return 0
	}
	return int(math.Round((1 - float64(slimBytes)/float64(fullBytes)) * 100))
}
