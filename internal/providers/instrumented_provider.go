package providers

import (
	"context"
	"log/slog"
	"time"

	"github.com/preston-bernstein/cricket-live-service/internal/domain/matches"
	"github.com/preston-bernstein/cricket-live-service/internal/logging"
	"github.com/preston-bernstein/cricket-live-service/internal/metrics"
)

// instrumentedProvider records attempts, latency and rate-limit hits for every call.
// It never retries; retry policy belongs to the pollers.
type instrumentedProvider struct {
	inner        CricketProvider
	logger       *slog.Logger
	metrics      *metrics.Recorder
	providerName string
	now          func() time.Time
}

// NewInstrumentedProvider wraps inner with metrics and logging.
func NewInstrumentedProvider(inner CricketProvider, logger *slog.Logger, recorder *metrics.Recorder, providerName string) CricketProvider {
	if providerName == "" {
		providerName = "provider"
	}
	return &instrumentedProvider{
		inner:        inner,
		logger:       logger,
		metrics:      recorder,
		providerName: providerName,
		now:          time.Now,
	}
}

func (p *instrumentedProvider) FetchCurrentMatches(ctx context.Context) ([]matches.Match, error) {
	if p.inner == nil {
		return nil, ErrProviderUnavailable
	}
	start := p.now()
	list, err := p.inner.FetchCurrentMatches(ctx)
	p.record(ctx, "currentMatches", start, err)
	return list, err
}

func (p *instrumentedProvider) FetchCommentary(ctx context.Context, matchID string) ([]matches.CommentaryEntry, error) {
	if p.inner == nil {
		return nil, ErrProviderUnavailable
	}
	start := p.now()
	entries, err := p.inner.FetchCommentary(ctx, matchID)
	p.record(ctx, "matchCommentary", start, err, slog.String(logging.FieldMatchID, matchID))
	return entries, err
}

func (p *instrumentedProvider) record(ctx context.Context, endpoint string, start time.Time, err error, attrs ...any) {
	elapsed := p.now().Sub(start)
	p.metrics.RecordProviderAttempt(p.providerName, elapsed, err)
	if rlErr, ok := AsRateLimitError(err); ok {
		p.metrics.RecordRateLimit(p.providerName, rlErr.RetryAfter)
	}
	if err == nil {
		return
	}
	attrs = append(attrs,
		slog.String("endpoint", endpoint),
		slog.String("kind", string(Classify(err))),
		slog.Int64(logging.FieldDurationMS, elapsed.Milliseconds()),
		"error", err,
	)
	logWithProvider(ctx, p.logger, slog.LevelWarn, p.providerName, "provider fetch failed", attrs...)
}
