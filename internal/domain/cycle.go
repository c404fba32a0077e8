package domain

import "time"

// SubmissionStatus is the terminal outcome of one bundle submission.
type SubmissionStatus string

const (
	SubmissionConfirmed SubmissionStatus = "CONFIRMED"
	SubmissionRejected  SubmissionStatus = "REJECTED"
	SubmissionTimedOut  SubmissionStatus = "TIMED_OUT"
	SubmissionDryRun    SubmissionStatus = "DRY_RUN"
)

// SubmissionResult records what happened to one opportunity after the
// scanner emitted it: the bundle built from it and how submission ended.
type SubmissionResult struct {
	Opportunity Opportunity
	BundleID    string
	Status      SubmissionStatus
	Reason      string // empty on confirmation
	SubmittedAt time.Time
	Elapsed     time.Duration
}

// Confirmed reports whether the bundle landed on-chain.
func (r SubmissionResult) Confirmed() bool {
	return r.Status == SubmissionConfirmed
}

// BatchResult aggregates the outcome of scanning one batch of pairs.
type BatchResult struct {
	Opportunities    []Opportunity
	PairsScanned     int
	SnapshotFailures int
}

// AllSnapshotsFailed reports whether no pair in the batch obtained its
// snapshots. That signals provider degradation, not quiet markets.
func (r BatchResult) AllSnapshotsFailed() bool {
	return r.PairsScanned > 0 && r.SnapshotFailures == r.PairsScanned
}

// CycleSummary aggregates one scan cycle for logging, notification and
// the journal.
type CycleSummary struct {
	StartedAt        time.Time
	Duration         time.Duration
	PairsScanned     int
	SnapshotFailures int
	Opportunities    []Opportunity
	Submissions      []SubmissionResult
}

// ConfirmedCount returns how many submissions landed this cycle.
func (c CycleSummary) ConfirmedCount() int {
	n := 0
	for _, s := range c.Submissions {
		if s.Confirmed() {
			n++
		}
	}
	return n
}
