package handlers

import (
	"errors"
	"log/slog"
	nethttp "net/http"
	"strings"

	"github.com/preston-bernstein/cricket-live-service/internal/app/live"
	"github.com/preston-bernstein/cricket-live-service/internal/logging"
	"github.com/preston-bernstein/cricket-live-service/internal/poller"
	"github.com/preston-bernstein/cricket-live-service/internal/providers"
)

// Live returns the current board, or the stored board for ?date=YYYY-MM-DD.
func (h *Handler) Live(w nethttp.ResponseWriter, r *nethttp.Request) {
	limit, ok := parseLimit(r, "limit")
	if !ok {
		writeError(w, r, nethttp.StatusBadRequest, "invalid limit", h.logger)
		return
	}
	logger := loggerFromContext(r, h.logger)

	date := strings.TrimSpace(r.URL.Query().Get("date"))
	if date == "" {
		writeJSON(w, nethttp.StatusOK, h.live.Board(limit), logger)
		return
	}

	board, err := h.live.BoardOn(date, limit)
	switch {
	case err == nil:
		logging.Info(logger, "served snapshot board", slog.String("date", date), slog.Int(logging.FieldCount, len(board.Live)+len(board.Upcoming)))
		writeJSON(w, nethttp.StatusOK, board, logger)
	case errors.Is(err, live.ErrInvalidDate):
		writeError(w, r, nethttp.StatusBadRequest, "invalid date format (expected YYYY-MM-DD)", logger)
	case errors.Is(err, live.ErrSnapshotNotFound):
		writeError(w, r, nethttp.StatusNotFound, "no snapshot for date", logger)
	case errors.Is(err, live.ErrSnapshotsDisabled):
		writeError(w, r, nethttp.StatusServiceUnavailable, "snapshots not enabled", logger)
	default:
		logging.Error(logger, "snapshot load failed", err, slog.String("date", date))
		writeError(w, r, nethttp.StatusBadGateway, "snapshot unavailable", logger)
	}
}

// Refresh triggers a manual fetch. While blocked it answers 429 with Retry-After.
func (h *Handler) Refresh(w nethttp.ResponseWriter, r *nethttp.Request) {
	logger := loggerFromContext(r, h.logger)
	board, err := h.live.Refresh(r.Context())
	if err == nil {
		writeJSON(w, nethttp.StatusOK, board, logger)
		return
	}

	if blocked, ok := poller.AsBlockedError(err); ok {
		writeBlocked(w, r, blocked.Remaining, board.Countdown, blocked.Error(), logger)
		return
	}
	if errors.Is(err, poller.ErrClosed) {
		writeError(w, r, nethttp.StatusServiceUnavailable, "shutting down", logger)
		return
	}
	switch providers.Classify(err) {
	case providers.KindRateLimited:
		writeBlocked(w, r, board.RetryAfter, board.Countdown, "rate limited by upstream, wait "+board.Countdown, logger)
	case providers.KindConfiguration:
		writeError(w, r, nethttp.StatusServiceUnavailable, err.Error(), logger)
	default:
		writeError(w, r, nethttp.StatusBadGateway, err.Error(), logger)
	}
}

// Snapshots lists the dates with a stored board.
func (h *Handler) Snapshots(w nethttp.ResponseWriter, r *nethttp.Request) {
	dates, err := h.live.SnapshotDates()
	if errors.Is(err, live.ErrSnapshotsDisabled) {
		writeError(w, r, nethttp.StatusServiceUnavailable, "snapshots not enabled", h.logger)
		return
	}
	if err != nil {
		logging.Error(loggerFromContext(r, h.logger), "snapshot manifest unreadable", err)
		writeError(w, r, nethttp.StatusInternalServerError, "snapshot index unavailable", h.logger)
		return
	}
	writeJSON(w, nethttp.StatusOK, map[string]any{"dates": dates}, h.logger)
}
