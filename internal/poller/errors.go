package poller

import (
	"errors"
	"time"

	"github.com/preston-bernstein/cricket-live-service/internal/timeutil"
)

var (
	// ErrClosed is returned by operations on a stopped poller.
	ErrClosed = errors.New("poller stopped")
	// ErrNotLive is returned when commentary is requested for a match that is not live.
	ErrNotLive = errors.New("match is not live")
)

// BlockedError reports an operation refused because the rate-limit window is open.
type BlockedError struct {
	Remaining  int
	Commentary bool
}

func (e *BlockedError) Error() string {
	wait := timeutil.FormatCountdown(e.Remaining)
	if e.Commentary {
		return "cannot fetch commentary while blocked, wait " + wait
	}
	return "still blocked, wait " + wait
}

// RetryAfter is the remaining window as a duration.
func (e *BlockedError) RetryAfter() time.Duration {
	return time.Duration(e.Remaining) * time.Second
}

// AsBlockedError unwraps err into a BlockedError.
func AsBlockedError(err error) (*BlockedError, bool) {
	var blocked *BlockedError
	if errors.As(err, &blocked) {
		return blocked, true
	}
	return nil, false
}
