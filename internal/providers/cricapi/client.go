package cricapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/preston-bernstein/cricket-live-service/internal/domain/matches"
	"github.com/preston-bernstein/cricket-live-service/internal/providers"
)

// Config controls how the client reaches the upstream API.
type Config struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
	// DefaultBlock is the suspension applied to a bare 429 reply.
	DefaultBlock time.Duration
}

// Client fetches current matches and commentary from CricAPI.
type Client struct {
	baseURL      string
	apiKey       string
	httpClient   httpDoer
	defaultBlock time.Duration
}

// NewClient constructs a client with the provided configuration.
func NewClient(cfg Config) *Client {
	return &Client{
		baseURL:      normalizeBaseURL(cfg.BaseURL),
		apiKey:       cfg.APIKey,
		httpClient:   resolveHTTPClient(cfg.HTTPClient),
		defaultBlock: resolveDefaultBlock(cfg.DefaultBlock),
	}
}

// FetchCurrentMatches returns the upstream match list. An empty list is not an error.
func (c *Client) FetchCurrentMatches(ctx context.Context) ([]matches.Match, error) {
	q := url.Values{}
	q.Set("offset", "0")
	env, err := c.get(ctx, "/currentMatches", q)
	if err != nil {
		return nil, err
	}
	list := make([]matches.Match, 0)
	if !env.hasData() {
		return list, nil
	}
	if err := json.Unmarshal(env.Data, &list); err != nil {
		return nil, fmt.Errorf("cricapi: decode matches: %w", err)
	}
	return list, nil
}

// FetchCommentary returns the newest-first commentary for a match.
func (c *Client) FetchCommentary(ctx context.Context, matchID string) ([]matches.CommentaryEntry, error) {
	q := url.Values{}
	q.Set("id", matchID)
	env, err := c.get(ctx, "/matchCommentary", q)
	if err != nil {
		return nil, err
	}
	if !env.hasData() {
		return nil, providers.ErrNoCommentary
	}
	var data commentaryData
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return nil, fmt.Errorf("cricapi: decode commentary: %w", err)
	}
	if data.Commentary == nil {
		return nil, providers.ErrNoCommentary
	}
	return *data.Commentary, nil
}

func (c *Client) get(ctx context.Context, path string, q url.Values) (envelope, error) {
	if c.apiKey == "" {
		return envelope{}, &providers.ConfigurationError{Setting: apiKeySetting, Reason: "API key not configured"}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return envelope{}, err
	}
	q.Set("apikey", c.apiKey)
	req.URL.RawQuery = q.Encode()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return envelope{}, fmt.Errorf("cricapi: request %s: %w", path, redact(err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return envelope{}, fmt.Errorf("cricapi: read %s: %w", path, err)
	}

	var env envelope
	parseErr := json.Unmarshal(body, &env)
	if err := c.detect(resp.StatusCode, env, parseErr == nil, body); err != nil {
		return env, err
	}
	if parseErr != nil {
		return env, fmt.Errorf("cricapi: invalid JSON from API: %s: %w", excerpt(body, 100), parseErr)
	}
	return env, nil
}

// redact drops the request URL, which carries the API key, from transport errors.
func redact(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return urlErr.Err
	}
	return err
}
