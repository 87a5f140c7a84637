package poller

import (
	"context"
	"sync"
	"time"
)

// cadence runs fn on a fixed interval in its own goroutine. Start and Stop are idempotent
// and never wait on fn, so Stop is safe to call from inside fn or from a gate hook.
type cadence struct {
	interval time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
	ctx    context.Context
}

func newCadence(interval time.Duration) *cadence {
	return &cadence{interval: interval}
}

// Start launches the loop under parent unless it is already running. It returns the
// loop's context, which is cancelled by Stop.
func (c *cadence) Start(parent context.Context, fn func(context.Context)) (context.Context, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		return c.ctx, false
	}
	ctx, cancel := context.WithCancel(parent)
	c.ctx, c.cancel = ctx, cancel

	go func() {
		ticker := time.NewTicker(c.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				fn(ctx)
			}
		}
	}()
	return ctx, true
}

// Stop cancels the loop if it is running and reports whether it was.
func (c *cadence) Stop() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel == nil {
		return false
	}
	c.cancel()
	c.cancel, c.ctx = nil, nil
	return true
}

// Running reports whether the loop is active.
func (c *cadence) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cancel != nil
}
