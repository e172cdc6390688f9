package history

import (
	"strings"
	"time"
)

// Status is the terminal outcome of a run.
type Status string

const (
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
	// StatusRejected marks runs stopped before any external work because the
	// input or configuration was unusable.
	StatusRejected Status = "rejected"
	StatusCanceled Status = "canceled"
)

var allStatuses = []Status{
	StatusSucceeded,
	StatusFailed,
	StatusRejected,
	StatusCanceled,
}

// AllStatuses returns every known status in display order.
func AllStatuses() []Status {
	out := make([]Status, len(allStatuses))
	copy(out, allStatuses)
	return out
}

// ParseStatus converts a user supplied string into a Status.
func ParseStatus(value string) (Status, bool) {
	normalized := Status(strings.ToLower(strings.TrimSpace(value)))
	for _, status := range allStatuses {
		if status == normalized {
			return status, true
		}
	}
	return "", false
}

// Run is one recorded pipeline invocation.
type Run struct {
	ID           int64
	RunID        string
	VideoPath    string
	AudioPath    string
	OutputPath   string
	Status       Status
	Stage        string
	ErrorMessage string
	TaskID       string
	LogID        string
	Mock         bool
	CueCount     int
	InputTokens  int64
	OutputTokens int64
	TotalTokens  int64
	StartedAt    time.Time
	FinishedAt   time.Time
}

// Duration is the wall time between start and finish.
func (r Run) Duration() time.Duration {
	if r.StartedAt.IsZero() || r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// Summary aggregates run counts for status output.
type Summary struct {
	Total       int
	ByStatus    map[Status]int
	TotalTokens int64
	LastRun     *Run
}
