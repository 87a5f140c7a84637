package poller

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/preston-bernstein/cricket-live-service/internal/domain/matches"
	"github.com/preston-bernstein/cricket-live-service/internal/gate"
	"github.com/preston-bernstein/cricket-live-service/internal/logging"
	"github.com/preston-bernstein/cricket-live-service/internal/metrics"
	"github.com/preston-bernstein/cricket-live-service/internal/providers"
)

const defaultCommentaryInterval = 2 * time.Minute

// CommentaryCache stores the latest commentary per match.
type CommentaryCache interface {
	SetCommentary(id string, entries []matches.CommentaryEntry)
	DeleteCommentary(id string)
	RetainCommentary(keep map[string]struct{})
}

// CommentarySet owns one commentary cadence per opened match. The handle map is the only
// record of which matches are being polled.
type CommentarySet struct {
	provider providers.CommentaryProvider
	gate     *gate.Gate
	cache    CommentaryCache
	logger   *slog.Logger
	metrics  *metrics.Recorder
	interval time.Duration

	base   context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	pollers map[string]*cadence
	closed  bool
	isLive  func(id string) bool
}

// NewCommentarySet builds an empty set and registers StopAll as a gate halt hook.
func NewCommentarySet(provider providers.CommentaryProvider, g *gate.Gate, cache CommentaryCache, logger *slog.Logger, recorder *metrics.Recorder, interval time.Duration) *CommentarySet {
	if interval <= 0 {
		interval = defaultCommentaryInterval
	}
	base, cancel := context.WithCancel(context.Background())
	s := &CommentarySet{
		provider: provider,
		gate:     g,
		cache:    cache,
		logger:   logger,
		metrics:  recorder,
		interval: interval,
		base:     base,
		cancel:   cancel,
		pollers:  make(map[string]*cadence),
	}
	g.OnHalt(s.StopAll)
	return s
}

// RequireLive makes Start refuse ids that isLive rejects. The check runs under the same
// mutex as Retain, so a board update either refuses the start or prunes the new poller.
func (s *CommentarySet) RequireLive(isLive func(id string) bool) {
	s.mu.Lock()
	s.isLive = isLive
	s.mu.Unlock()
}

// Start begins polling commentary for id: one fetch now, then one per interval.
// It is a no-op when id is already polled and is refused while the gate is blocked.
// ctx bounds only the immediate fetch.
func (s *CommentarySet) Start(ctx context.Context, id string) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	if _, ok := s.pollers[id]; ok {
		s.mu.Unlock()
		return nil
	}
	if s.isLive != nil && !s.isLive(id) {
		s.mu.Unlock()
		return ErrNotLive
	}
	now := s.gate.Now()
	if s.gate.IsBlocked(now) {
		s.mu.Unlock()
		return &BlockedError{Remaining: s.gate.Remaining(now), Commentary: true}
	}
	c := newCadence(s.interval)
	pollCtx, _ := c.Start(s.base, func(tickCtx context.Context) { s.fetch(tickCtx, id, c) })
	s.pollers[id] = c
	s.mu.Unlock()

	s.metrics.AddCommentaryPollers(1)
	logging.Info(s.logger, "commentary polling started", slog.String(logging.FieldMatchID, id))

	fetchCtx, stop := mergeCancel(ctx, pollCtx)
	defer stop()
	s.fetch(fetchCtx, id, c)
	return nil
}

// Stop cancels polling for id and discards its cached commentary. Stopping an unknown id is a no-op.
func (s *CommentarySet) Stop(id string) {
	s.mu.Lock()
	c, ok := s.pollers[id]
	if ok {
		c.Stop()
		delete(s.pollers, id)
	}
	if s.cache != nil {
		s.cache.DeleteCommentary(id)
	}
	s.mu.Unlock()

	if ok {
		s.metrics.AddCommentaryPollers(-1)
		logging.Info(s.logger, "commentary polling stopped", slog.String(logging.FieldMatchID, id))
	}
}

// StopAll cancels every commentary poller. Cached commentary is kept until the next prune.
func (s *CommentarySet) StopAll() {
	s.mu.Lock()
	n := len(s.pollers)
	for id, c := range s.pollers {
		c.Stop()
		delete(s.pollers, id)
	}
	s.mu.Unlock()

	if n > 0 {
		s.metrics.AddCommentaryPollers(-n)
		logging.Info(s.logger, "commentary polling halted", slog.Int(logging.FieldCount, n))
	}
}

// Retain stops every poller whose match is not in live and drops commentary cached for them.
func (s *CommentarySet) Retain(live map[string]struct{}) {
	s.mu.Lock()
	var pruned []string
	for id, c := range s.pollers {
		if _, ok := live[id]; ok {
			continue
		}
		c.Stop()
		delete(s.pollers, id)
		pruned = append(pruned, id)
	}
	if s.cache != nil {
		s.cache.RetainCommentary(live)
	}
	s.mu.Unlock()

	if len(pruned) > 0 {
		s.metrics.AddCommentaryPollers(-len(pruned))
		logging.Info(s.logger, "commentary pollers pruned", slog.Any("match_ids", pruned))
	}
}

// IsPolling reports whether id has an active poller.
func (s *CommentarySet) IsPolling(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.pollers[id]
	return ok
}

// Active returns the polled match IDs in sorted order.
func (s *CommentarySet) Active() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.pollers))
	for id := range s.pollers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Close stops every poller and refuses further starts.
func (s *CommentarySet) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.StopAll()
	s.cancel()
}

func (s *CommentarySet) fetch(ctx context.Context, id string, handle *cadence) {
	s.mu.Lock()
	if ctx.Err() != nil || s.pollers[id] != handle {
		s.mu.Unlock()
		return
	}
	if s.gate.IsBlocked(s.gate.Now()) {
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	// An Arm from the match poller can land while this request is in flight. StopAll
	// removes the handle first, so the reply is dropped below and no further tick runs.
	start := time.Now()
	entries, err := s.provider.FetchCommentary(ctx, id)
	s.metrics.RecordPollerCycle("commentary", time.Since(start), err)

	s.mu.Lock()
	defer s.mu.Unlock()
	if ctx.Err() != nil || s.pollers[id] != handle {
		return
	}
	if err != nil {
		s.logFailure(id, err)
		return
	}
	if s.cache != nil {
		s.cache.SetCommentary(id, matches.TruncateCommentary(entries))
	}
}

func (s *CommentarySet) logFailure(id string, err error) {
	attrs := []any{slog.String(logging.FieldMatchID, id), "error", err}
	switch {
	case errors.Is(err, providers.ErrNoCommentary):
		if s.logger != nil {
			s.logger.Debug("commentary reply had no entries", attrs...)
		}
	case providers.Classify(err) == providers.KindRateLimited:
		logging.Warn(s.logger, "commentary fetch rate limited", attrs...)
	default:
		logging.Warn(s.logger, "commentary fetch failed", attrs...)
	}
}

// mergeCancel returns a context cancelled when either a or b is done. Values come from a.
func mergeCancel(a, b context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(a)
	stop := context.AfterFunc(b, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}
