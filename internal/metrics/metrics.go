package metrics

import (
	"sync"
	"time"
)

type providerStats struct {
	calls           int
	errors          int
	rateLimitHits   int
	lastRetryAfter  time.Duration
	lastCallLatency time.Duration
}

// Recorder captures lightweight, in-memory metrics about provider calls and the
// suspension gate, mirroring them to OpenTelemetry instruments when configured.
type Recorder struct {
	mu    sync.Mutex
	stats map[string]*providerStats
	gate  gateStats
	otel  *otelInstruments
}

type gateStats struct {
	arms            int
	resumes         int
	lastBlock       time.Duration
	activeListeners int
}

// NewRecorder returns an in-memory recorder with no exporters attached.
func NewRecorder() *Recorder {
	return newRecorder(nil)
}

func newRecorder(otel *otelInstruments) *Recorder {
	return &Recorder{
		stats: make(map[string]*providerStats),
		otel:  otel,
	}
}

// RecordProviderAttempt increments counters for a provider call and stores the last observed latency.
func (r *Recorder) RecordProviderAttempt(provider string, duration time.Duration, err error) {
	if r == nil {
		return
	}

	r.mu.Lock()
	stats := r.ensureStatsLocked(provider)
	stats.calls++
	stats.lastCallLatency = duration
	if err != nil {
		stats.errors++
	}
	r.mu.Unlock()
	if r.otel != nil {
		r.otel.recordProviderAttempt(provider, duration, err)
	}
}

// RecordRateLimit tracks that a provider response hit a rate limit and stores the last Retry-After.
func (r *Recorder) RecordRateLimit(provider string, retryAfter time.Duration) {
	if r == nil {
		return
	}

	r.mu.Lock()
	stats := r.ensureStatsLocked(provider)
	stats.rateLimitHits++
	if retryAfter > 0 {
		stats.lastRetryAfter = retryAfter
	}
	r.mu.Unlock()
	if r.otel != nil {
		r.otel.recordRateLimit(provider, retryAfter)
	}
}

// ProviderCalls returns the total attempts recorded for a provider.
func (r *Recorder) ProviderCalls(provider string) int {
	return r.Snapshot(provider).Calls
}

// ProviderErrors returns the total failed attempts recorded for a provider.
func (r *Recorder) ProviderErrors(provider string) int {
	return r.Snapshot(provider).Errors
}

// RateLimitHits returns the number of rate limit events seen for a provider.
func (r *Recorder) RateLimitHits(provider string) int {
	return r.Snapshot(provider).RateLimitHits
}

// LastRetryAfter returns the most recent Retry-After recorded for a provider.
func (r *Recorder) LastRetryAfter(provider string) time.Duration {
	return r.Snapshot(provider).LastRetryAfter
}

// LastCallLatency returns the last recorded latency for a provider call.
func (r *Recorder) LastCallLatency(provider string) time.Duration {
	return r.Snapshot(provider).LastCallLatency
}

// Snapshot returns a copy of the current stats for the provider.
type Snapshot struct {
	Calls           int
	Errors          int
	RateLimitHits   int
	LastRetryAfter  time.Duration
	LastCallLatency time.Duration
}

func (r *Recorder) Snapshot(provider string) Snapshot {
	if r == nil {
		return Snapshot{}
	}
	stats := r.snapshot(provider)
	return Snapshot{
		Calls:           stats.calls,
		Errors:          stats.errors,
		RateLimitHits:   stats.rateLimitHits,
		LastRetryAfter:  stats.lastRetryAfter,
		LastCallLatency: stats.lastCallLatency,
	}
}

// RecordHTTPRequest tracks basic HTTP metrics.
func (r *Recorder) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	if r == nil || r.otel == nil {
		return
	}
	r.otel.recordHTTPRequest(method, path, status, duration)
}

// RecordPollerCycle tracks poller cycles and errors, labelled by poller kind.
func (r *Recorder) RecordPollerCycle(kind string, duration time.Duration, err error) {
	if r == nil || r.otel == nil {
		return
	}
	r.otel.recordPoller(kind, duration, err)
}

// RecordGateArm tracks a suspension window being opened for the given duration.
func (r *Recorder) RecordGateArm(block time.Duration) {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.gate.arms++
	r.gate.lastBlock = block
	r.mu.Unlock()
	if r.otel != nil {
		r.otel.recordGateArm(block)
	}
}

// RecordGateResume tracks a suspension window elapsing.
func (r *Recorder) RecordGateResume() {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.gate.resumes++
	r.mu.Unlock()
	if r.otel != nil {
		r.otel.recordGateResume()
	}
}

// AddCommentaryPollers adjusts the number of active commentary pollers by delta.
func (r *Recorder) AddCommentaryPollers(delta int) {
	if r == nil || delta == 0 {
		return
	}
	r.mu.Lock()
	r.gate.activeListeners += delta
	r.mu.Unlock()
	if r.otel != nil {
		r.otel.addCommentaryPollers(delta)
	}
}

// GateSnapshot reports gate counters.
type GateSnapshot struct {
	Arms              int
	Resumes           int
	LastBlock         time.Duration
	CommentaryPollers int
}

// Gate returns a copy of the gate counters.
func (r *Recorder) Gate() GateSnapshot {
	if r == nil {
		return GateSnapshot{}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return GateSnapshot{
		Arms:              r.gate.arms,
		Resumes:           r.gate.resumes,
		LastBlock:         r.gate.lastBlock,
		CommentaryPollers: r.gate.activeListeners,
	}
}

// ensureStatsLocked must be called with r.mu held.
func (r *Recorder) ensureStatsLocked(provider string) *providerStats {
	stats, ok := r.stats[provider]
	if !ok {
		stats = &providerStats{}
		r.stats[provider] = stats
	}
	return stats
}

func (r *Recorder) snapshot(provider string) providerStats {
	r.mu.Lock()
	defer r.mu.Unlock()

	if stats, ok := r.stats[provider]; ok && stats != nil {
		return *stats
	}
	return providerStats{}
}
