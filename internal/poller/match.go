package poller

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/preston-bernstein/cricket-live-service/internal/domain/matches"
	"github.com/preston-bernstein/cricket-live-service/internal/gate"
	"github.com/preston-bernstein/cricket-live-service/internal/logging"
	"github.com/preston-bernstein/cricket-live-service/internal/metrics"
	"github.com/preston-bernstein/cricket-live-service/internal/providers"
)

const (
	defaultMatchInterval = 5 * time.Minute
	defaultRetryDelay    = 10 * time.Second
	publishTimeout       = 5 * time.Second
)

const (
	triggerInitial = "initial"
	triggerTick    = "tick"
	triggerRetry   = "retry"
	triggerResume  = "resume"
	triggerManual  = "manual"
)

// BoardStore receives every successfully classified board.
type BoardStore interface {
	SetBoard(board matches.Board, all []matches.Match, updated time.Time)
}

// SnapshotWriter persists board snapshots to disk.
type SnapshotWriter interface {
	WriteBoardSnapshot(date string, snapshot matches.Snapshot) error
}

// Publisher pushes the board to an external cache.
type Publisher interface {
	PublishBoard(ctx context.Context, snapshot matches.Snapshot) error
}

// MatchOptions tunes a MatchPoller. Zero values fall back to defaults; nil sinks are skipped.
type MatchOptions struct {
	Interval   time.Duration
	RetryDelay time.Duration
	Writer     SnapshotWriter
	Publisher  Publisher
	Logger     *slog.Logger
	Metrics    *metrics.Recorder
}

// MatchPoller refreshes the match board on a cadence and reacts to each outcome:
// success replaces the board, a transient failure schedules one retry, a rate limit
// arms the gate and a credential or configuration failure halts automatic polling.
type MatchPoller struct {
	provider   providers.MatchProvider
	gate       *gate.Gate
	commentary *CommentarySet
	board      BoardStore
	writer     SnapshotWriter
	publisher  Publisher
	logger     *slog.Logger
	metrics    *metrics.Recorder
	interval   time.Duration
	retryDelay time.Duration

	cadence *cadence
	retry   retrySlot

	// fetchMu serialises fetches. Only fetch arms the gate for match polling, so the
	// gate check and the request form one step.
	fetchMu sync.Mutex

	lifeMu  sync.Mutex
	runCtx  context.Context
	cancel  context.CancelFunc
	started bool
	closed  bool

	statusMu sync.RWMutex
	status   Status
}

// NewMatchPoller constructs a poller and registers its halt hook on the gate.
func NewMatchPoller(provider providers.MatchProvider, g *gate.Gate, commentary *CommentarySet, board BoardStore, opts MatchOptions) *MatchPoller {
	if opts.Interval <= 0 {
		opts.Interval = defaultMatchInterval
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = defaultRetryDelay
	}
	p := &MatchPoller{
		provider:   provider,
		gate:       g,
		commentary: commentary,
		board:      board,
		writer:     opts.Writer,
		publisher:  opts.Publisher,
		logger:     opts.Logger,
		metrics:    opts.Metrics,
		interval:   opts.Interval,
		retryDelay: opts.RetryDelay,
		cadence:    newCadence(opts.Interval),
		status:     Status{State: StateIdle},
	}
	g.OnHalt(p.halt)
	return p
}

// Start fetches immediately, begins the cadence and runs the gate countdown until ctx
// is cancelled or Stop is called.
func (p *MatchPoller) Start(ctx context.Context) {
	p.lifeMu.Lock()
	if p.started || p.closed {
		p.lifeMu.Unlock()
		return
	}
	p.started = true
	p.runCtx, p.cancel = context.WithCancel(ctx)
	runCtx := p.runCtx
	p.lifeMu.Unlock()

	logging.Info(p.logger, "match poller started", slog.Int64(logging.FieldDurationMS, p.interval.Milliseconds()))
	p.cadence.Start(runCtx, p.tick)
	go p.gate.Run(runCtx, p.Resume)
	go func() {
		_ = p.fetch(runCtx, triggerInitial)
	}()
}

// Stop halts the cadence, any pending retry and the gate countdown. Results of a fetch
// still in flight are discarded.
func (p *MatchPoller) Stop(ctx context.Context) error {
	_ = ctx
	p.lifeMu.Lock()
	if p.closed {
		p.lifeMu.Unlock()
		return nil
	}
	p.closed = true
	cancel := p.cancel
	p.lifeMu.Unlock()

	p.cadence.Stop()
	p.retry.Cancel()
	if cancel != nil {
		cancel()
	}
	logging.Info(p.logger, "match poller stopped")
	return nil
}

// Refresh performs one fetch now and returns its outcome. While the gate is blocked it
// returns a BlockedError and issues no request.
func (p *MatchPoller) Refresh(ctx context.Context) error {
	return p.fetch(ctx, triggerManual)
}

// Resume is the gate's resume signal: it re-establishes the cadence and fetches once.
func (p *MatchPoller) Resume(ctx context.Context) {
	runCtx, ok := p.running()
	if !ok {
		return
	}
	logging.Info(p.logger, "rate limit window elapsed, resuming")
	p.cadence.Start(runCtx, p.tick)
	_ = p.fetch(ctx, triggerResume)
}

// Status returns a snapshot of the poller's recent health.
func (p *MatchPoller) Status() Status {
	p.statusMu.RLock()
	defer p.statusMu.RUnlock()
	return p.status
}

// CadenceRunning reports whether periodic fetching is active.
func (p *MatchPoller) CadenceRunning() bool {
	return p.cadence.Running()
}

// RetryPending reports whether a one-shot retry is scheduled.
func (p *MatchPoller) RetryPending() bool {
	return p.retry.Pending()
}

func (p *MatchPoller) tick(ctx context.Context) {
	_ = p.fetch(ctx, triggerTick)
}

// halt is the gate hook: stop the cadence and drop any pending retry.
func (p *MatchPoller) halt() {
	p.cadence.Stop()
	p.retry.Cancel()
}

func (p *MatchPoller) running() (context.Context, bool) {
	p.lifeMu.Lock()
	defer p.lifeMu.Unlock()
	if !p.started || p.closed {
		return nil, false
	}
	return p.runCtx, true
}

func (p *MatchPoller) isClosed() bool {
	p.lifeMu.Lock()
	defer p.lifeMu.Unlock()
	return p.closed
}

func (p *MatchPoller) fetch(ctx context.Context, trigger string) error {
	p.fetchMu.Lock()
	defer p.fetchMu.Unlock()

	if p.isClosed() {
		return ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	now := p.gate.Now()
	// A window that lapsed before the countdown ticked is cleared here, so this fetch is
	// the single resume fetch and the countdown does not trigger another.
	if _, resumed := p.gate.Tick(now); resumed {
		logging.Info(p.logger, "rate limit window elapsed, resuming", slog.String("trigger", trigger))
		if runCtx, ok := p.running(); ok {
			p.cadence.Start(runCtx, p.tick)
		}
	}
	if p.gate.IsBlocked(now) {
		blocked := &BlockedError{Remaining: p.gate.Remaining(now)}
		if p.logger != nil {
			p.logger.Debug("fetch skipped while blocked", slog.String("trigger", trigger), "error", blocked)
		}
		return blocked
	}

	start := p.gate.Now()
	p.setState(StateFetching, start)
	list, err := p.provider.FetchCurrentMatches(ctx)
	done := p.gate.Now()
	p.metrics.RecordPollerCycle("match", done.Sub(start), err)

	if p.isClosed() {
		return ErrClosed
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if err != nil {
		p.handleFailure(err, trigger, done)
		return err
	}
	p.handleSuccess(ctx, list, done, start)
	return nil
}

func (p *MatchPoller) handleSuccess(ctx context.Context, list []matches.Match, done, start time.Time) {
	board := matches.Classify(list, done)
	if p.board != nil {
		p.board.SetBoard(board, list, done)
	}
	if p.commentary != nil {
		p.commentary.Retain(board.LiveIDs())
	}
	p.retry.Cancel()
	if runCtx, ok := p.running(); ok {
		p.cadence.Start(runCtx, p.tick)
	}
	p.recordSuccess(done)

	snap := matches.NewSnapshot(board, done)
	if p.writer != nil {
		if err := p.writer.WriteBoardSnapshot(snap.Date, snap); err != nil {
			logging.Error(p.logger, "board snapshot write failed", err)
		}
	}
	if p.publisher != nil {
		pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
		if err := p.publisher.PublishBoard(pubCtx, snap); err != nil {
			logging.Error(p.logger, "board publish failed", err)
		}
		cancel()
	}

	logging.Info(p.logger, "match board refreshed",
		slog.Int(logging.FieldLive, len(board.Live)),
		slog.Int(logging.FieldUpcoming, len(board.Upcoming)),
		slog.Int(logging.FieldCount, len(list)),
		slog.Int64(logging.FieldDurationMS, done.Sub(start).Milliseconds()),
	)
}

func (p *MatchPoller) handleFailure(err error, trigger string, done time.Time) {
	kind := providers.Classify(err)
	attrs := []any{slog.String("trigger", trigger), slog.String("kind", string(kind))}

	switch kind {
	case providers.KindRateLimited:
		rl, _ := providers.AsRateLimitError(err)
		p.recordFailure(StateBlocked, err, kind, done)
		logging.Warn(p.logger, "match fetch rate limited",
			append(attrs, slog.Int64(logging.FieldRetryAfter, int64(rl.RetryAfter/time.Second)), "error", err)...)
		p.gate.Arm(rl.RetryAfter, done)
	case providers.KindAuth, providers.KindConfiguration:
		p.recordFailure(StateFatal, err, kind, done)
		p.cadence.Stop()
		p.retry.Cancel()
		logging.Error(p.logger, "match polling halted", err, attrs...)
	default:
		p.recordFailure(StateTransientFailure, err, kind, done)
		logging.Error(p.logger, "match fetch failed", err, attrs...)
		runCtx, ok := p.running()
		if !ok {
			return
		}
		p.retry.Schedule(p.retryDelay, func() {
			_ = p.fetch(runCtx, triggerRetry)
		})
	}
}

func (p *MatchPoller) setState(state State, at time.Time) {
	p.statusMu.Lock()
	defer p.statusMu.Unlock()
	p.status.State = state
	p.status.LastAttempt = at
}

func (p *MatchPoller) recordSuccess(at time.Time) {
	p.statusMu.Lock()
	defer p.statusMu.Unlock()
	p.status.State = StateSuccess
	p.status.ConsecutiveFailures = 0
	p.status.LastError = ""
	p.status.LastErrorKind = providers.KindNone
	p.status.LastSuccess = at
}

func (p *MatchPoller) recordFailure(state State, err error, kind providers.Kind, at time.Time) {
	p.statusMu.Lock()
	defer p.statusMu.Unlock()
	p.status.State = state
	p.status.ConsecutiveFailures++
	p.status.LastError = err.Error()
	p.status.LastErrorKind = kind
	p.status.LastAttempt = at
}
