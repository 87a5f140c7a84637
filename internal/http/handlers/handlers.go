package handlers

import (
	"log/slog"
	nethttp "net/http"
	"strconv"
	"strings"

	appblogs "github.com/preston-bernstein/cricket-live-service/internal/app/blogs"
	"github.com/preston-bernstein/cricket-live-service/internal/app/live"
	appmatches "github.com/preston-bernstein/cricket-live-service/internal/app/matches"
)

// Handler wires HTTP routes to the live, schedule and blog services.
type Handler struct {
	live     *live.Service
	schedule *appmatches.Service
	blogs    *appblogs.Service
	logger   *slog.Logger
}

// NewHandler constructs a Handler. blogs may be nil, in which case blog routes answer 503.
func NewHandler(liveSvc *live.Service, schedule *appmatches.Service, blogs *appblogs.Service, logger *slog.Logger) *Handler {
	return &Handler{
		live:     liveSvc,
		schedule: schedule,
		blogs:    blogs,
		logger:   logger,
	}
}

// Health reports the service health.
func (h *Handler) Health(w nethttp.ResponseWriter, r *nethttp.Request) {
	if err := r.Context().Err(); err != nil {
		writeError(w, r, nethttp.StatusServiceUnavailable, "shutting down", h.logger)
		return
	}
	writeJSON(w, nethttp.StatusOK, map[string]string{"status": "ok"}, h.logger)
}

// Ready reports whether a usable board has been fetched.
func (h *Handler) Ready(w nethttp.ResponseWriter, r *nethttp.Request) {
	if h.live.Ready() {
		writeJSON(w, nethttp.StatusOK, map[string]string{"status": "ready"}, h.logger)
		return
	}
	board := h.live.Board(0)
	msg := board.Status.LastError
	if msg == "" {
		msg = "not ready"
	}
	if board.Blocked {
		writeBlocked(w, r, board.RetryAfter, board.Countdown, msg, h.logger)
		return
	}
	writeError(w, r, nethttp.StatusServiceUnavailable, msg, h.logger)
}

// parseLimit reads a non-negative integer query parameter; empty means no limit.
func parseLimit(r *nethttp.Request, key string) (int, bool) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// NotFound answers unknown routes with a JSON error.
func (h *Handler) NotFound(w nethttp.ResponseWriter, r *nethttp.Request) {
	writeError(w, r, nethttp.StatusNotFound, "not found", h.logger)
}

// MethodNotAllowed answers known routes called with the wrong method.
func (h *Handler) MethodNotAllowed(w nethttp.ResponseWriter, r *nethttp.Request) {
	writeError(w, r, nethttp.StatusMethodNotAllowed, "method not allowed", h.logger)
}
