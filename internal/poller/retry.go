package poller

import (
	"sync"
	"time"
)

// retrySlot holds at most one pending one-shot retry. Scheduling replaces the pending one.
type retrySlot struct {
	mu    sync.Mutex
	timer *time.Timer
}

func (r *retrySlot) Schedule(d time.Duration, fn func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.timer != nil {
		r.timer.Stop()
	}
	var t *time.Timer
	t = time.AfterFunc(d, func() {
		r.mu.Lock()
		if r.timer != t {
			r.mu.Unlock()
			return
		}
		r.timer = nil
		r.mu.Unlock()
		fn()
	})
	r.timer = t
}

// Cancel drops the pending retry and reports whether one was pending.
func (r *retrySlot) Cancel() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.timer == nil {
		return false
	}
	r.timer.Stop()
	r.timer = nil
	return true
}

func (r *retrySlot) Pending() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.timer != nil
}
