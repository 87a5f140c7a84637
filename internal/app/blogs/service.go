package blogs

import (
	"context"
	"fmt"
	"log/slog"

	domainblogs "github.com/preston-bernstein/cricket-live-service/internal/domain/blogs"
	"github.com/preston-bernstein/cricket-live-service/internal/logging"
)

const detailRelated = 3

// API is the content backend.
type API interface {
	List(ctx context.Context) ([]domainblogs.Blog, error)
	Get(ctx context.Context, id string) (domainblogs.Blog, error)
	Related(ctx context.Context, id string, limit int) ([]domainblogs.Blog, error)
	Like(ctx context.Context, id string, increment bool) (int, error)
}

// LikeSet records which posts the reader has liked.
type LikeSet interface {
	IsLiked(id string) bool
	Set(id string, liked bool) error
}

// Listing is a filtered post list together with every available category.
type Listing struct {
	Blogs      []domainblogs.Blog `json:"blogs"`
	Categories []string           `json:"categories"`
	Category   string             `json:"category"`
}

// Service fronts the blog API and keeps the local like set in step with it.
type Service struct {
	api    API
	likes  LikeSet
	logger *slog.Logger
}

// NewService constructs a Service.
func NewService(api API, likes LikeSet, logger *slog.Logger) *Service {
	return &Service{api: api, likes: likes, logger: logger}
}

// List returns posts in category; "" or "all" returns everything.
func (s *Service) List(ctx context.Context, category string) (Listing, error) {
	all, err := s.api.List(ctx)
	if err != nil {
		return Listing{}, err
	}
	if category == "" {
		category = domainblogs.CategoryAll
	}
	return Listing{
		Blogs:      domainblogs.FilterByCategory(all, category),
		Categories: domainblogs.Categories(all),
		Category:   category,
	}, nil
}

// Detail returns a post with its like state and a few related posts. Related posts are
// best effort: a failure there leaves the list empty.
func (s *Service) Detail(ctx context.Context, id string) (domainblogs.Detail, error) {
	post, err := s.api.Get(ctx, id)
	if err != nil {
		return domainblogs.Detail{}, err
	}
	related, err := s.api.Related(ctx, id, detailRelated)
	if err != nil {
		logging.Warn(s.logger, "related posts unavailable", slog.String("blog_id", id), "error", err)
		related = []domainblogs.Blog{}
	}
	return domainblogs.Detail{Blog: post, Liked: s.likes.IsLiked(id), Related: related}, nil
}

// Related returns up to limit posts related to id.
func (s *Service) Related(ctx context.Context, id string, limit int) ([]domainblogs.Blog, error) {
	return s.api.Related(ctx, id, limit)
}

// ToggleLike flips the reader's like on id. The local set changes first and is restored
// if the API rejects the change.
func (s *Service) ToggleLike(ctx context.Context, id string) (domainblogs.LikeResult, error) {
	previous := s.likes.IsLiked(id)
	if err := s.likes.Set(id, !previous); err != nil {
		return domainblogs.LikeResult{}, fmt.Errorf("record like: %w", err)
	}
	count, err := s.api.Like(ctx, id, !previous)
	if err != nil {
		if revertErr := s.likes.Set(id, previous); revertErr != nil {
			logging.Error(s.logger, "like revert failed", revertErr, slog.String("blog_id", id))
		}
		return domainblogs.LikeResult{}, err
	}
	return domainblogs.LikeResult{ID: id, Likes: count, Liked: !previous}, nil
}
