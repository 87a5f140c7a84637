// Package gate holds the single suspension window shared by every upstream fetch path.
package gate

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/preston-bernstein/cricket-live-service/internal/logging"
	"github.com/preston-bernstein/cricket-live-service/internal/metrics"
	"github.com/preston-bernstein/cricket-live-service/internal/timeutil"
)

const defaultTickInterval = time.Second

// HaltHook stops one class of polling activity. Hooks run synchronously when the gate arms.
type HaltHook func()

// Gate is the rate-limit suspension window. The zero value is not usable; call New.
type Gate struct {
	logger   *slog.Logger
	metrics  *metrics.Recorder
	now      func() time.Time
	interval time.Duration

	mu    sync.Mutex
	until time.Time
	armed bool

	hooksMu sync.Mutex
	hooks   []HaltHook
}

// Option customises a Gate.
type Option func(*Gate)

// WithClock overrides the time source used by Run.
func WithClock(now func() time.Time) Option {
	return func(g *Gate) {
		if now != nil {
			g.now = now
		}
	}
}

// WithTickInterval overrides how often Run re-evaluates the countdown.
func WithTickInterval(d time.Duration) Option {
	return func(g *Gate) {
		if d > 0 {
			g.interval = d
		}
	}
}

// New constructs an unarmed gate.
func New(logger *slog.Logger, recorder *metrics.Recorder, opts ...Option) *Gate {
	g := &Gate{
		logger:   logger,
		metrics:  recorder,
		now:      time.Now,
		interval: defaultTickInterval,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Now returns the gate's current time.
func (g *Gate) Now() time.Time {
	return g.now()
}

// OnHalt registers a hook invoked on every Arm.
func (g *Gate) OnHalt(hook HaltHook) {
	if hook == nil {
		return
	}
	g.hooksMu.Lock()
	g.hooks = append(g.hooks, hook)
	g.hooksMu.Unlock()
}

// IsBlocked reports whether the window is open at now.
func (g *Gate) IsBlocked(now time.Time) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.armed && now.Before(g.until)
}

// Until returns the end of the window, if armed.
func (g *Gate) Until() (time.Time, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.until, g.armed
}

// Remaining returns the whole seconds left in the window, rounded up.
func (g *Gate) Remaining(now time.Time) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.armed {
		return 0
	}
	return timeutil.CeilSeconds(g.until.Sub(now))
}

// Arm opens the window for d from now and halts every registered activity before returning.
// Re-arming replaces the previous deadline.
func (g *Gate) Arm(d time.Duration, now time.Time) time.Time {
	if d < 0 {
		d = 0
	}
	g.mu.Lock()
	g.until = now.Add(d)
	g.armed = true
	until := g.until
	g.mu.Unlock()

	g.metrics.RecordGateArm(d)
	logging.Warn(g.logger, "rate limit gate armed",
		slog.Int64(logging.FieldRetryAfter, int64(d/time.Second)),
		slog.Time(logging.FieldUntil, until),
	)

	g.hooksMu.Lock()
	hooks := make([]HaltHook, len(g.hooks))
	copy(hooks, g.hooks)
	g.hooksMu.Unlock()
	for _, hook := range hooks {
		hook()
	}
	return until
}

// Tick re-evaluates the countdown at now. resumed is true exactly once per window,
// on the tick where the remaining time reaches zero; the window is cleared at that point.
func (g *Gate) Tick(now time.Time) (remaining int, resumed bool) {
	g.mu.Lock()
	if !g.armed {
		g.mu.Unlock()
		return 0, false
	}
	remaining = timeutil.CeilSeconds(g.until.Sub(now))
	if remaining > 0 {
		g.mu.Unlock()
		return remaining, false
	}
	g.armed = false
	g.until = time.Time{}
	g.mu.Unlock()

	g.metrics.RecordGateResume()
	logging.Info(g.logger, "rate limit gate cleared")
	return 0, true
}

// Run ticks the gate until ctx is done, calling onResume on each resume signal.
func (g *Gate) Run(ctx context.Context, onResume func(context.Context)) {
	ticker := time.NewTicker(g.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, resumed := g.Tick(g.now()); resumed && onResume != nil {
				onResume(ctx)
			}
		}
	}
}
