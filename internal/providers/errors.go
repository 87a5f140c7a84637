package providers

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrProviderUnavailable is returned when no upstream provider is wired.
	ErrProviderUnavailable = errors.New("provider unavailable")
	// ErrNoCommentary reports a commentary reply that carried no commentary list.
	ErrNoCommentary = errors.New("no commentary in response")
)

// Kind groups upstream failures by how callers must react to them.
type Kind string

const (
	KindNone          Kind = ""
	KindTransient     Kind = "transient"
	KindRateLimited   Kind = "rate_limited"
	KindAuth          Kind = "auth"
	KindConfiguration Kind = "configuration"
)

// RateLimitError captures rate limit responses from upstream providers.
// RetryAfter is how long the upstream asked us to stay away.
type RateLimitError struct {
	Provider   string
	StatusCode int
	RetryAfter time.Duration
	Message    string
}

func (e *RateLimitError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "provider rate limited"
	}
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s (status=%d)", msg, e.StatusCode)
	}
	return msg
}

// AsRateLimitError attempts to unwrap an error into a RateLimitError.
func AsRateLimitError(err error) (*RateLimitError, bool) {
	var rlErr *RateLimitError
	if errors.As(err, &rlErr) {
		return rlErr, true
	}
	return nil, false
}

// AuthError reports rejected credentials. Retrying does not help.
type AuthError struct {
	Provider   string
	StatusCode int
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("%s rejected the API key (status=%d): check the configured key", e.Provider, e.StatusCode)
}

// ConfigurationError reports a missing or invalid local setting.
type ConfigurationError struct {
	Setting string
	Reason  string
}

func (e *ConfigurationError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("missing %s", e.Setting)
	}
	return fmt.Sprintf("%s: %s", e.Setting, e.Reason)
}

// StatusError reports an unexpected HTTP status with a trimmed body excerpt.
type StatusError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: unexpected status %d", e.Provider, e.StatusCode)
	}
	return fmt.Sprintf("%s: unexpected status %d: %s", e.Provider, e.StatusCode, e.Body)
}

// APIError reports a failure status embedded in an otherwise readable body.
type APIError struct {
	Provider string
	Reason   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: api error: %s", e.Provider, e.Reason)
}

// Classify maps an error to the reaction it requires. Unknown errors are transient.
func Classify(err error) Kind {
	if err == nil {
		return KindNone
	}
	var (
		cfgErr  *ConfigurationError
		authErr *AuthError
	)
	switch {
	case errors.As(err, &cfgErr):
		return KindConfiguration
	case errors.As(err, &authErr):
		return KindAuth
	}
	if _, ok := AsRateLimitError(err); ok {
		return KindRateLimited
	}
	return KindTransient
}
