package poller

import (
	"time"

	"github.com/preston-bernstein/cricket-live-service/internal/providers"
)

// State is the match poller's lifecycle state.
type State string

const (
	StateIdle             State = "idle"
	StateFetching         State = "fetching"
	StateSuccess          State = "success"
	StateTransientFailure State = "transient_failure"
	StateBlocked          State = "blocked"
	StateFatal            State = "fatal"
)

// Status describes the recent health of the match poller.
type Status struct {
	State               State          `json:"state"`
	ConsecutiveFailures int            `json:"consecutiveFailures"`
	LastError           string         `json:"lastError,omitempty"`
	LastErrorKind       providers.Kind `json:"lastErrorKind,omitempty"`
	LastAttempt         time.Time      `json:"lastAttempt"`
	LastSuccess         time.Time      `json:"lastSuccess"`
}

// IsReady reports whether the poller has had a recent success and is not failing repeatedly.
func (s Status) IsReady() bool {
	if s.LastSuccess.IsZero() || s.State == StateFatal {
		return false
	}
	return s.ConsecutiveFailures < 3
}
