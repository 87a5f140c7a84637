// Package blog is a thin client over the content API that serves blog posts.
package blog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/preston-bernstein/cricket-live-service/internal/domain/blogs"
	"github.com/preston-bernstein/cricket-live-service/internal/providers"
)

const (
	providerName       = "blog"
	defaultBaseURL     = "http://localhost:5000/api/v1"
	defaultHTTPTimeout = 10 * time.Second
	defaultRelated     = 3
)

var (
	// ErrNotFound is returned when the API has no post with the requested id.
	ErrNotFound = errors.New("blog not found")
	// ErrInvalidResponse is returned when a reply lacks {success: true, data}.
	ErrInvalidResponse = errors.New("blog: invalid response structure")
)

// Config controls how the client reaches the content API.
type Config struct {
	BaseURL    string
	HTTPClient *http.Client
}

type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client reads and likes blog posts.
type Client struct {
	baseURL    string
	httpClient httpDoer
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type likeRequest struct {
	Increment bool `json:"increment"`
}

type likeData struct {
	Likes int `json:"likes"`
}

// NewClient constructs a client with the provided configuration.
func NewClient(cfg Config) *Client {
	base := cfg.BaseURL
	if base == "" {
		base = defaultBaseURL
	}
	var doer httpDoer = cfg.HTTPClient
	if cfg.HTTPClient == nil {
		doer = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return &Client{
		baseURL:    strings.TrimSuffix(base, "/"),
		httpClient: doer,
	}
}

// List returns every post.
func (c *Client) List(ctx context.Context) ([]blogs.Blog, error) {
	var out []blogs.Blog
	if err := c.do(ctx, http.MethodGet, "/blog", nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = make([]blogs.Blog, 0)
	}
	return out, nil
}

// Get returns one post.
func (c *Client) Get(ctx context.Context, id string) (blogs.Blog, error) {
	var out blogs.Blog
	if err := c.do(ctx, http.MethodGet, "/blog/"+url.PathEscape(id), nil, &out); err != nil {
		return blogs.Blog{}, err
	}
	return out, nil
}

// Related returns up to limit posts related to id.
func (c *Client) Related(ctx context.Context, id string, limit int) ([]blogs.Blog, error) {
	if limit <= 0 {
		limit = defaultRelated
	}
	path := "/blog/" + url.PathEscape(id) + "/related?limit=" + strconv.Itoa(limit)
	var out []blogs.Blog
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = make([]blogs.Blog, 0)
	}
	return out, nil
}

// Like adds (increment) or removes a like and returns the new total.
func (c *Client) Like(ctx context.Context, id string, increment bool) (int, error) {
	var out likeData
	if err := c.do(ctx, http.MethodPost, "/blog/"+url.PathEscape(id)+"/like", likeRequest{Increment: increment}, &out); err != nil {
		return 0, err
	}
	return out.Likes, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload any, dest any) error {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("blog: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	var env envelope
	decodeErr := json.NewDecoder(io.LimitReader(resp.Body, 4<<20)).Decode(&env)

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &providers.StatusError{Provider: providerName, StatusCode: resp.StatusCode, Body: env.Message}
	}
	if decodeErr != nil {
		return fmt.Errorf("blog: decode %s: %w", path, decodeErr)
	}
	if !env.Success || len(env.Data) == 0 || string(env.Data) == "null" {
		return ErrInvalidResponse
	}
	if err := json.Unmarshal(env.Data, dest); err != nil {
		return fmt.Errorf("blog: decode %s data: %w", path, err)
	}
	return nil
}
