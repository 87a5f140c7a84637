package cricapi

import (
	"net/http"
	"regexp"
	"strconv"
	"time"

	"github.com/preston-bernstein/cricket-live-service/internal/providers"
)

var blockedPattern = regexp.MustCompile(`(?i)blocked\s+for\s+(\d+)\s+minute`)

// blockedMinutes extracts N from "blocked for N minute(s)".
func blockedMinutes(reason string) (int, bool) {
	m := blockedPattern.FindStringSubmatch(reason)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// detect turns an upstream reply into a typed error, or nil when the reply is usable.
// The body is consulted before the status code so a block message on a 429 keeps its minutes.
func (c *Client) detect(statusCode int, env envelope, parsed bool, body []byte) error {
	if parsed && env.failed() {
		reason := env.failureReason()
		if minutes, ok := blockedMinutes(reason); ok {
			return &providers.RateLimitError{
				Provider:   ProviderName,
				StatusCode: statusCode,
				RetryAfter: time.Duration(minutes) * time.Minute,
				Message:    "API blocked for " + strconv.Itoa(minutes) + " minutes",
			}
		}
	}
	switch statusCode {
	case http.StatusTooManyRequests:
		return &providers.RateLimitError{
			Provider:   ProviderName,
			StatusCode: statusCode,
			RetryAfter: c.defaultBlock,
			Message:    "rate limit exceeded",
		}
	case http.StatusUnauthorized, http.StatusForbidden:
		return &providers.AuthError{Provider: ProviderName, StatusCode: statusCode}
	}
	if parsed && env.failed() {
		return &providers.APIError{Provider: ProviderName, Reason: env.failureReason()}
	}
	if statusCode < 200 || statusCode > 299 {
		return &providers.StatusError{
			Provider:   ProviderName,
			StatusCode: statusCode,
			Body:       excerpt(body, errorExcerptBytes),
		}
	}
	return nil
}
