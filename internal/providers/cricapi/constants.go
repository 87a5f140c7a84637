package cricapi

import "time"

const (
	// ProviderName labels errors and metrics from this client.
	ProviderName       = "cricapi"
	defaultBaseURL     = "https://api.cricapi.com/v1"
	defaultHTTPTimeout = 10 * time.Second
	defaultBlock       = 15 * time.Minute
	maxBodyBytes       = 8 << 20
	errorExcerptBytes  = 512
	apiKeySetting      = "CRICAPI_API_KEY"
)
