package handlers

import (
	"errors"
	"log/slog"
	nethttp "net/http"
	"strings"

	"github.com/preston-bernstein/cricket-live-service/internal/logging"
	"github.com/preston-bernstein/cricket-live-service/internal/providers/blog"
)

// Blogs lists posts, optionally narrowed by ?category=.
func (h *Handler) Blogs(w nethttp.ResponseWriter, r *nethttp.Request) {
	if !h.blogsEnabled(w, r) {
		return
	}
	listing, err := h.blogs.List(r.Context(), strings.TrimSpace(r.URL.Query().Get("category")))
	if err != nil {
		h.writeBlogError(w, r, err)
		return
	}
	writeJSON(w, nethttp.StatusOK, listing, h.logger)
}

// Blog returns one post with its like state and related posts.
func (h *Handler) Blog(w nethttp.ResponseWriter, r *nethttp.Request) {
	if !h.blogsEnabled(w, r) {
		return
	}
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, r, nethttp.StatusBadRequest, "invalid blog id", h.logger)
		return
	}
	detail, err := h.blogs.Detail(r.Context(), id)
	if err != nil {
		h.writeBlogError(w, r, err)
		return
	}
	writeJSON(w, nethttp.StatusOK, detail, h.logger)
}

// RelatedBlogs returns posts related to one post; ?limit= defaults to 3.
func (h *Handler) RelatedBlogs(w nethttp.ResponseWriter, r *nethttp.Request) {
	if !h.blogsEnabled(w, r) {
		return
	}
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, r, nethttp.StatusBadRequest, "invalid blog id", h.logger)
		return
	}
	limit, ok := parseLimit(r, "limit")
	if !ok {
		writeError(w, r, nethttp.StatusBadRequest, "invalid limit", h.logger)
		return
	}
	related, err := h.blogs.Related(r.Context(), id, limit)
	if err != nil {
		h.writeBlogError(w, r, err)
		return
	}
	writeJSON(w, nethttp.StatusOK, map[string]any{"blogs": related}, h.logger)
}

// LikeBlog toggles the reader's like on a post.
func (h *Handler) LikeBlog(w nethttp.ResponseWriter, r *nethttp.Request) {
	if !h.blogsEnabled(w, r) {
		return
	}
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, r, nethttp.StatusBadRequest, "invalid blog id", h.logger)
		return
	}
	res, err := h.blogs.ToggleLike(r.Context(), id)
	if err != nil {
		h.writeBlogError(w, r, err)
		return
	}
	logging.Info(loggerFromContext(r, h.logger), "blog like toggled", slog.String("blog_id", id), slog.Bool("liked", res.Liked))
	writeJSON(w, nethttp.StatusOK, res, h.logger)
}

func (h *Handler) blogsEnabled(w nethttp.ResponseWriter, r *nethttp.Request) bool {
	if h.blogs == nil {
		writeError(w, r, nethttp.StatusServiceUnavailable, "blog api not configured", h.logger)
		return false
	}
	return true
}

func (h *Handler) writeBlogError(w nethttp.ResponseWriter, r *nethttp.Request, err error) {
	logger := loggerFromContext(r, h.logger)
	if errors.Is(err, blog.ErrNotFound) {
		writeError(w, r, nethttp.StatusNotFound, "blog not found", logger)
		return
	}
	logging.Warn(logger, "blog api request failed", "error", err)
	writeError(w, r, nethttp.StatusBadGateway, "blog api unavailable", logger)
}
