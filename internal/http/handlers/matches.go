package handlers

import (
	"errors"
	nethttp "net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/preston-bernstein/cricket-live-service/internal/domain/matches"
	"github.com/preston-bernstein/cricket-live-service/internal/poller"
)

// MatchesResponse is the schedule view payload.
type MatchesResponse struct {
	Tab     matches.Tab     `json:"tab"`
	Count   int             `json:"count"`
	Matches []matches.Match `json:"matches"`
}

// Matches returns the full list filtered by ?tab=, ?type= and ?q=.
func (h *Handler) Matches(w nethttp.ResponseWriter, r *nethttp.Request) {
	q := r.URL.Query()
	tab, ok := matches.ParseTab(q.Get("tab"))
	if !ok {
		writeError(w, r, nethttp.StatusBadRequest, "invalid tab (expected upcoming, completed or all)", h.logger)
		return
	}
	list := h.schedule.Schedule(matches.Filter{
		Tab:    tab,
		Format: strings.TrimSpace(q.Get("type")),
		Query:  q.Get("q"),
	})
	writeJSON(w, nethttp.StatusOK, MatchesResponse{Tab: tab, Count: len(list), Matches: list}, h.logger)
}

// MatchByID returns a match from the last fetched list.
func (h *Handler) MatchByID(w nethttp.ResponseWriter, r *nethttp.Request) {
	id, ok := matchID(r)
	if !ok {
		writeError(w, r, nethttp.StatusBadRequest, "invalid match id", h.logger)
		return
	}
	m, found := h.schedule.MatchByID(id)
	if !found {
		writeError(w, r, nethttp.StatusNotFound, "match not found", h.logger)
		return
	}
	writeJSON(w, nethttp.StatusOK, m, h.logger)
}

// Commentary returns cached commentary for a match.
func (h *Handler) Commentary(w nethttp.ResponseWriter, r *nethttp.Request) {
	id, ok := matchID(r)
	if !ok {
		writeError(w, r, nethttp.StatusBadRequest, "invalid match id", h.logger)
		return
	}
	writeJSON(w, nethttp.StatusOK, h.live.Commentary(id), h.logger)
}

// OpenCommentary starts commentary polling for a live match.
func (h *Handler) OpenCommentary(w nethttp.ResponseWriter, r *nethttp.Request) {
	id, ok := matchID(r)
	if !ok {
		writeError(w, r, nethttp.StatusBadRequest, "invalid match id", h.logger)
		return
	}
	logger := loggerFromContext(r, h.logger)
	view, err := h.live.OpenCommentary(r.Context(), id)
	if err == nil {
		writeJSON(w, nethttp.StatusOK, view, logger)
		return
	}
	if blocked, isBlocked := poller.AsBlockedError(err); isBlocked {
		writeBlocked(w, r, blocked.Remaining, h.live.Board(0).Countdown, blocked.Error(), logger)
		return
	}
	switch {
	case errors.Is(err, poller.ErrNotLive):
		writeError(w, r, nethttp.StatusConflict, "match is not live", logger)
	case errors.Is(err, poller.ErrClosed):
		writeError(w, r, nethttp.StatusServiceUnavailable, "shutting down", logger)
	default:
		writeError(w, r, nethttp.StatusInternalServerError, err.Error(), logger)
	}
}

// CloseCommentary stops commentary polling for a match. Closing twice is harmless.
func (h *Handler) CloseCommentary(w nethttp.ResponseWriter, r *nethttp.Request) {
	id, ok := matchID(r)
	if !ok {
		writeError(w, r, nethttp.StatusBadRequest, "invalid match id", h.logger)
		return
	}
	h.live.CloseCommentary(id)
	w.WriteHeader(nethttp.StatusNoContent)
}

func matchID(r *nethttp.Request) (string, bool) {
	return pathID(r, "id")
}

func pathID(r *nethttp.Request, key string) (string, bool) {
	id := strings.TrimSpace(chi.URLParam(r, key))
	if id == "" || strings.ContainsAny(id, " \t/") {
		return "", false
	}
	return id, true
}
