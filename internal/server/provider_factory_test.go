package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/preston-bernstein/cricket-live-service/internal/config"
	"github.com/preston-bernstein/cricket-live-service/internal/metrics"
	"github.com/preston-bernstein/cricket-live-service/internal/providers/cricapi"
	"github.com/preston-bernstein/cricket-live-service/internal/teststubs"
)

func TestProviderFactoryBuildsCricAPIChain(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("apikey") != "k" {
			t.Errorf("expected api key on request, got %q", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"success","data":[]}`))
	}))
	defer upstream.Close()

	rec := metrics.NewRecorder()
	prov := newProviderFactory(nil, rec).build(config.Config{
		CricAPI: config.CricAPIConfig{BaseURL: upstream.URL, APIKey: "k", RequestsPerMinute: 60},
	})
	list, err := prov.FetchCurrentMatches(context.Background())
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("expected empty list, got %d", len(list))
	}
	if rec.ProviderCalls(cricapi.ProviderName) != 1 {
		t.Fatalf("expected call recorded under %s", cricapi.ProviderName)
	}
}

func TestNormalizeProviderName(t *testing.T) {
	if got := normalizeProviderName(nil); got != "provider" {
		t.Fatalf("expected fallback name, got %s", got)
	}
	if got := normalizeProviderName(cricapi.NewClient(cricapi.Config{})); got != cricapi.ProviderName {
		t.Fatalf("expected cricapi, got %s", got)
	}
	if got := normalizeProviderName(&teststubs.StubProvider{}); got != "teststubs.stubprovider" {
		t.Fatalf("expected type-derived name, got %s", got)
	}
}
