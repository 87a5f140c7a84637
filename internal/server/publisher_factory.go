package server

import (
	"log/slog"

	"github.com/preston-bernstein/cricket-live-service/internal/cache"
	"github.com/preston-bernstein/cricket-live-service/internal/config"
	"github.com/preston-bernstein/cricket-live-service/internal/logging"
)

var newPublisher = cache.NewPublisher

// buildPublisher returns nil when Redis is not configured or the URL is unusable.
func buildPublisher(cfg config.Config, logger *slog.Logger) *cache.Publisher {
	if !cfg.Redis.Enabled() {
		return nil
	}
	pub, err := newPublisher(cfg.Redis.URL, cfg.Redis.BoardTTL, logger)
	if err != nil {
		logging.Warn(logger, "redis publisher disabled", "error", err)
		return nil
	}
	return pub
}
