package aggregator

import "time"

// State distinguishes "no data yet" from "possibly stale data".
type State string

const (
	// StateNoData means no cycle has succeeded yet.
	StateNoData State = "no_data"
	// StateFresh means the last cycle succeeded.
	StateFresh State = "fresh"
	// StateStale means the last cycle failed and an older snapshot is being served.
	StateStale State = "stale"
)

// Status reports the health of the aggregation pipeline.
type Status struct {
	State        State             `json:"state"`
	Tokens       int               `json:"tokens"`
	SnapshotAt   *time.Time        `json:"snapshotAt,omitempty"`
	LastSuccess  *time.Time        `json:"lastSuccess,omitempty"`
	LastAttempt  *time.Time        `json:"lastAttempt,omitempty"`
	LastError    string            `json:"lastError,omitempty"`
	SourceErrors map[string]string `json:"sourceErrors,omitempty"`
}

// Attempted reports whether at least one cycle ran.
func (s Status) Attempted() bool {
	return s.LastAttempt != nil
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
