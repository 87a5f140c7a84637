package providers

import (
	"context"
	"log/slog"

	"golang.org/x/time/rate"

	"github.com/preston-bernstein/cricket-live-service/internal/domain/matches"
)

const limitedProviderName = "rate-limited"

// rateLimitedProvider wraps a CricketProvider with a token bucket shared by every call.
type rateLimitedProvider struct {
	next    CricketProvider
	limiter *rate.Limiter
	logger  *slog.Logger
}

// NewRateLimitedProvider returns a CricketProvider that allows at most perMinute calls
// per minute (burst of the same size). Calls wait for a token or the context.
func NewRateLimitedProvider(next CricketProvider, perMinute int, logger *slog.Logger) CricketProvider {
	if perMinute <= 0 {
		perMinute = 30
	}
	return &rateLimitedProvider{
		next:    next,
		limiter: rate.NewLimiter(rate.Limit(float64(perMinute)/60), perMinute),
		logger:  logger,
	}
}

func (p *rateLimitedProvider) FetchCurrentMatches(ctx context.Context) ([]matches.Match, error) {
	if err := p.wait(ctx, "currentMatches"); err != nil {
		return nil, err
	}
	return p.next.FetchCurrentMatches(ctx)
}

func (p *rateLimitedProvider) FetchCommentary(ctx context.Context, matchID string) ([]matches.CommentaryEntry, error) {
	if err := p.wait(ctx, "matchCommentary"); err != nil {
		return nil, err
	}
	return p.next.FetchCommentary(ctx, matchID)
}

func (p *rateLimitedProvider) wait(ctx context.Context, endpoint string) error {
	if p == nil || p.next == nil {
		if p != nil {
			logWithProvider(ctx, p.logger, slog.LevelWarn, limitedProviderName, "provider unavailable")
		}
		return ErrProviderUnavailable
	}
	if err := p.limiter.Wait(ctx); err != nil {
		logWithProvider(ctx, p.logger, slog.LevelWarn, limitedProviderName, "rate-limited fetch canceled",
			slog.String("endpoint", endpoint), "error", err)
		return err
	}
	return nil
}
