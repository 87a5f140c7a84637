package server

import (
	"log/slog"

	appblogs "github.com/preston-bernstein/cricket-live-service/internal/app/blogs"
	"github.com/preston-bernstein/cricket-live-service/internal/config"
	"github.com/preston-bernstein/cricket-live-service/internal/likes"
	"github.com/preston-bernstein/cricket-live-service/internal/logging"
	"github.com/preston-bernstein/cricket-live-service/internal/providers/blog"
)

// buildBlogs returns nil when no content API is configured. An unreadable likes file
// falls back to an in-memory set so the blog routes stay up.
func buildBlogs(cfg config.Config, logger *slog.Logger) *appblogs.Service {
	if cfg.Blog.BaseURL == "" {
		return nil
	}
	set, err := likes.Open(cfg.Blog.LikesPath)
	if err != nil {
		logging.Warn(logger, "liked posts file unreadable, keeping likes in memory", "path", cfg.Blog.LikesPath, "error", err)
		set, _ = likes.Open("")
	}
	return appblogs.NewService(blog.NewClient(blog.Config{BaseURL: cfg.Blog.BaseURL}), set, logger)
}
