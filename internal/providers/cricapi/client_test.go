package cricapi

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/preston-bernstein/cricket-live-service/internal/providers"
)

func stubClient(t *testing.T, status int, body string, inspect func(*http.Request)) *Client {
	t.Helper()
	rt := roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		if inspect != nil {
			inspect(req)
		}
		return &http.Response{
			StatusCode: status,
			Body:       io.NopCloser(strings.NewReader(body)),
			Header:     make(http.Header),
		}, nil
	})
	return NewClient(Config{
		BaseURL:    "http://example.com/v1/",
		APIKey:     "secret",
		HTTPClient: &http.Client{Transport: rt},
	})
}

func TestFetchCurrentMatchesHitsAPIAndDecodes(t *testing.T) {
	var captured *http.Request
	body := `{
		"status": "success",
		"data": [
			{
				"id": "m1",
				"name": "India vs Australia, 1st T20I",
				"matchType": "t20",
				"status": "India need 20 runs in 12 balls",
				"venue": "Wankhede",
				"dateTimeGMT": "2024-05-01T14:00:00",
				"teams": ["India", "Australia"],
				"teamInfo": [{"name": "India", "shortname": "IND"}],
				"score": [{"r": 160, "w": 4, "o": 18, "inning": "Australia Inning 1"}],
				"matchStarted": true,
				"matchEnded": false
			}
		]
	}`
	client := stubClient(t, http.StatusOK, body, func(req *http.Request) { captured = req })

	list, err := client.FetchCurrentMatches(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if captured.URL.Path != "/v1/currentMatches" {
		t.Fatalf("unexpected path %s", captured.URL.Path)
	}
	q := captured.URL.Query()
	if q.Get("apikey") != "secret" || q.Get("offset") != "0" {
		t.Fatalf("unexpected query %s", captured.URL.RawQuery)
	}
	if len(list) != 1 {
		t.Fatalf("expected one match, got %d", len(list))
	}
	m := list[0]
	if m.ID != "m1" || !m.MatchStarted || m.MatchEnded || m.TeamInfo[0].ShortName != "IND" {
		t.Fatalf("unexpected match %+v", m)
	}
	if m.Score[0].Runs != 160 || m.Score[0].Wickets != 4 || m.Score[0].Overs != 18 {
		t.Fatalf("unexpected score %+v", m.Score)
	}
}

func TestFetchCurrentMatchesEmptyData(t *testing.T) {
	for _, body := range []string{`{"status":"success","data":[]}`, `{"status":"success"}`, `{"status":"success","data":null}`} {
		client := stubClient(t, http.StatusOK, body, nil)
		list, err := client.FetchCurrentMatches(context.Background())
		if err != nil {
			t.Fatalf("expected no error for %s, got %v", body, err)
		}
		if list == nil || len(list) != 0 {
			t.Fatalf("expected empty non-nil list for %s, got %#v", body, list)
		}
	}
}

func TestDetectionPolicy(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantKind   providers.Kind
		wantRetry  time.Duration
		wantAPIErr bool
	}{
		{
			name:      "blocked message",
			status:    http.StatusOK,
			body:      `{"status":"failure","reason":"Blocked for 12 minutes due to excessive hits"}`,
			wantKind:  providers.KindRateLimited,
			wantRetry: 12 * time.Minute,
		},
		{
			name:      "blocked message in message field",
			status:    http.StatusOK,
			body:      `{"status":"fail","message":"You are BLOCKED FOR 3 MINUTE"}`,
			wantKind:  providers.KindRateLimited,
			wantRetry: 3 * time.Minute,
		},
		{
			name:      "body wins over 429",
			status:    http.StatusTooManyRequests,
			body:      `{"status":"failure","reason":"blocked for 7 minutes"}`,
			wantKind:  providers.KindRateLimited,
			wantRetry: 7 * time.Minute,
		},
		{
			name:      "bare 429",
			status:    http.StatusTooManyRequests,
			body:      ``,
			wantKind:  providers.KindRateLimited,
			wantRetry: 15 * time.Minute,
		},
		{
			name:      "429 with failure body lacking pattern",
			status:    http.StatusTooManyRequests,
			body:      `{"status":"failure","reason":"hits exhausted"}`,
			wantKind:  providers.KindRateLimited,
			wantRetry: 15 * time.Minute,
		},
		{
			name:     "unauthorized",
			status:   http.StatusUnauthorized,
			body:     `{}`,
			wantKind: providers.KindAuth,
		},
		{
			name:     "forbidden",
			status:   http.StatusForbidden,
			body:     `not json`,
			wantKind: providers.KindAuth,
		},
		{
			name:       "failure body without pattern",
			status:     http.StatusOK,
			body:       `{"status":"failure","reason":"Invalid offset"}`,
			wantKind:   providers.KindTransient,
			wantAPIErr: true,
		},
		{
			name:     "server error",
			status:   http.StatusBadGateway,
			body:     `boom`,
			wantKind: providers.KindTransient,
		},
		{
			name:     "malformed json",
			status:   http.StatusOK,
			body:     `{bad json`,
			wantKind: providers.KindTransient,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := stubClient(t, tt.status, tt.body, nil)
			_, err := client.FetchCurrentMatches(context.Background())
			if err == nil {
				t.Fatalf("expected error")
			}
			if got := providers.Classify(err); got != tt.wantKind {
				t.Fatalf("expected kind %q, got %q (%v)", tt.wantKind, got, err)
			}
			if tt.wantRetry > 0 {
				rl, ok := providers.AsRateLimitError(err)
				if !ok || rl.RetryAfter != tt.wantRetry {
					t.Fatalf("expected retry after %s, got %+v", tt.wantRetry, rl)
				}
			}
			if tt.wantAPIErr {
				var apiErr *providers.APIError
				if !errors.As(err, &apiErr) || apiErr.Reason != "Invalid offset" {
					t.Fatalf("expected api error with reason, got %v", err)
				}
			}
		})
	}
}

func TestDefaultBlockOverride(t *testing.T) {
	rt := roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusTooManyRequests,
			Body:       io.NopCloser(strings.NewReader("")),
			Header:     make(http.Header),
		}, nil
	})
	client := NewClient(Config{APIKey: "k", HTTPClient: &http.Client{Transport: rt}, DefaultBlock: time.Minute})
	_, err := client.FetchCurrentMatches(context.Background())
	rl, ok := providers.AsRateLimitError(err)
	if !ok || rl.RetryAfter != time.Minute {
		t.Fatalf("expected configured default block, got %v", err)
	}
}

func TestMissingAPIKeyIssuesNoRequest(t *testing.T) {
	calls := 0
	rt := roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		calls++
		return nil, errors.New("unexpected request")
	})
	client := NewClient(Config{HTTPClient: &http.Client{Transport: rt}})

	_, err := client.FetchCurrentMatches(context.Background())
	if providers.Classify(err) != providers.KindConfiguration {
		t.Fatalf("expected configuration error, got %v", err)
	}
	if _, err := client.FetchCommentary(context.Background(), "m1"); providers.Classify(err) != providers.KindConfiguration {
		t.Fatalf("expected configuration error for commentary, got %v", err)
	}
	if calls != 0 {
		t.Fatalf("expected no requests, got %d", calls)
	}
}

func TestTransportErrorDoesNotLeakKey(t *testing.T) {
	rt := roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		return nil, errors.New("connection refused")
	})
	client := NewClient(Config{APIKey: "super-secret", HTTPClient: &http.Client{Transport: rt}})

	_, err := client.FetchCurrentMatches(context.Background())
	if err == nil {
		t.Fatalf("expected transport error")
	}
	if strings.Contains(err.Error(), "super-secret") {
		t.Fatalf("expected api key redacted, got %v", err)
	}
	if providers.Classify(err) != providers.KindTransient {
		t.Fatalf("expected transient, got %v", err)
	}
}

func TestFetchCommentary(t *testing.T) {
	var captured *http.Request
	body := `{"status":"success","data":{"commentary":[
		{"over":"18.2","event":"FOUR","commentary":"driven through cover"},
		{"over":"18.1","event":"","commentary":"dot ball"}
	]}}`
	client := stubClient(t, http.StatusOK, body, func(req *http.Request) { captured = req })

	entries, err := client.FetchCommentary(context.Background(), "m1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if captured.URL.Path != "/v1/matchCommentary" || captured.URL.Query().Get("id") != "m1" {
		t.Fatalf("unexpected request %s", captured.URL.String())
	}
	if len(entries) != 2 || entries[0].Over != "18.2" || entries[0].Event != "FOUR" {
		t.Fatalf("unexpected entries %+v", entries)
	}
}

func TestFetchCommentaryNumericOver(t *testing.T) {
	body := `{"status":"success","data":{"commentary":[
		{"over":18.2,"event":"FOUR","commentary":"driven through cover"},
		{"over":18,"event":"","commentary":"dot ball"}
	]}}`
	client := stubClient(t, http.StatusOK, body, nil)

	entries, err := client.FetchCommentary(context.Background(), "m1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(entries) != 2 || entries[0].Over != "18.2" || entries[1].Over != "18" {
		t.Fatalf("unexpected entries %+v", entries)
	}
}

func TestFetchCommentaryMissingList(t *testing.T) {
	for _, body := range []string{`{"status":"success"}`, `{"status":"success","data":{}}`} {
		client := stubClient(t, http.StatusOK, body, nil)
		if _, err := client.FetchCommentary(context.Background(), "m1"); !errors.Is(err, providers.ErrNoCommentary) {
			t.Fatalf("expected ErrNoCommentary for %s, got %v", body, err)
		}
	}

	client := stubClient(t, http.StatusOK, `{"data":{"commentary":[]}}`, nil)
	entries, err := client.FetchCommentary(context.Background(), "m1")
	if err != nil || entries == nil || len(entries) != 0 {
		t.Fatalf("expected empty commentary, got %v err %v", entries, err)
	}
}

func TestFetchCommentaryRateLimited(t *testing.T) {
	client := stubClient(t, http.StatusTooManyRequests, ``, nil)
	_, err := client.FetchCommentary(context.Background(), "m1")
	if _, ok := providers.AsRateLimitError(err); !ok {
		t.Fatalf("expected rate limit error, got %v", err)
	}
}

func TestBlockedMinutes(t *testing.T) {
	if n, ok := blockedMinutes("Blocked   for 15 minutes"); !ok || n != 15 {
		t.Fatalf("expected 15, got %d ok=%v", n, ok)
	}
	if _, ok := blockedMinutes("blocked for a few minutes"); ok {
		t.Fatalf("expected no match")
	}
	if _, ok := blockedMinutes("blocked for 99999999999999999999 minutes"); ok {
		t.Fatalf("expected overflow to be rejected")
	}
}

type roundTripperFunc func(req *http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}
