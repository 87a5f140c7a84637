package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/preston-bernstein/cricket-live-service/internal/http/middleware"
	"github.com/preston-bernstein/cricket-live-service/internal/logging"
)

func writeJSON(w http.ResponseWriter, status int, payload any, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil && logger != nil {
		logger.Error("failed to encode response", "err", err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, message string, logger *slog.Logger) {
	writeJSON(w, status, errorBody(r, message), logger)
}

// writeBlocked answers 429 with Retry-After in whole seconds.
func writeBlocked(w http.ResponseWriter, r *http.Request, remaining int, countdown, message string, logger *slog.Logger) {
	body := errorBody(r, message)
	body["retryAfterSeconds"] = remaining
	body["countdown"] = countdown
	w.Header().Set("Retry-After", strconv.Itoa(remaining))
	writeJSON(w, http.StatusTooManyRequests, body, logger)
}

func errorBody(r *http.Request, message string) map[string]any {
	reqID := middleware.RequestIDFromContext(r.Context())
	if reqID == "" {
		reqID = r.Header.Get("X-Request-ID")
	}
	body := map[string]any{"error": message}
	if reqID != "" {
		body["requestId"] = reqID
	}
	return body
}

func loggerFromContext(r *http.Request, fallback *slog.Logger) *slog.Logger {
	if r == nil {
		return fallback
	}
	return logging.FromContext(r.Context(), fallback)
}
