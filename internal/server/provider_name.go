package server

import (
	"fmt"
	"strings"

	"github.com/preston-bernstein/cricket-live-service/internal/providers"
	"github.com/preston-bernstein/cricket-live-service/internal/providers/cricapi"
)

// normalizeProviderName returns the lower-cased label used for provider metrics and logs.
func normalizeProviderName(provider providers.CricketProvider) string {
	switch provider.(type) {
	case nil:
		return "provider"
	case *cricapi.Client:
		return cricapi.ProviderName
	default:
		name := strings.ToLower(fmt.Sprintf("%T", provider))
		return strings.TrimPrefix(name, "*")
	}
}
