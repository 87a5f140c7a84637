package server

import (
	"log/slog"

	"github.com/preston-bernstein/cricket-live-service/internal/config"
	"github.com/preston-bernstein/cricket-live-service/internal/metrics"
	"github.com/preston-bernstein/cricket-live-service/internal/providers"
	"github.com/preston-bernstein/cricket-live-service/internal/providers/cricapi"
)

// providerFactory assembles the upstream client with the shared wrappers (rate limit + instrumentation).
type providerFactory struct {
	logger  *slog.Logger
	metrics *metrics.Recorder
}

func newProviderFactory(logger *slog.Logger, metrics *metrics.Recorder) providerFactory {
	return providerFactory{logger: logger, metrics: metrics}
}

func (f providerFactory) build(cfg config.Config) providers.CricketProvider {
	return f.wrap(cfg, cricapi.NewClient(cricapi.Config{
		BaseURL:      cfg.CricAPI.BaseURL,
		APIKey:       cfg.CricAPI.APIKey,
		DefaultBlock: cfg.CricAPI.DefaultBlock,
	}))
}

// wrap applies the request budget and metrics to base. The instrumented layer sits
// outermost so time spent waiting on the limiter counts toward call latency.
func (f providerFactory) wrap(cfg config.Config, base providers.CricketProvider) providers.CricketProvider {
	limited := providers.NewRateLimitedProvider(base, cfg.CricAPI.RequestsPerMinute, f.logger)
	return providers.NewInstrumentedProvider(limited, f.logger, f.metrics, normalizeProviderName(base))
}
