package config

import "time"

const (
	envPort               = "PORT"
	envCORSOrigins        = "CORS_ALLOW_ORIGINS"
	envMetricsPort        = "METRICS_PORT"
	envMetricsOn          = "METRICS_ENABLED"
	envOtelEndpoint       = "OTEL_EXPORTER_OTLP_ENDPOINT"
	envOtelService        = "OTEL_SERVICE_NAME"
	envOtelInsecure       = "OTEL_EXPORTER_OTLP_INSECURE"
	envCricAPIKey         = "CRICAPI_API_KEY"
	envCricAPIKeyCRA      = "REACT_APP_CRICKET_API_KEY"
	envCricAPIKeyVite     = "VITE_REACT_APP_CRICKET_API_KEY"
	envCricBaseURL        = "CRICAPI_BASE_URL"
	envMatchInterval      = "MATCH_POLL_INTERVAL"
	envCommentaryInterval = "COMMENTARY_POLL_INTERVAL"
	envRetryDelay         = "TRANSIENT_RETRY_DELAY"
	envDefaultBlock       = "RATE_LIMIT_DEFAULT_BLOCK"
	envRequestsPerMinute  = "CRICAPI_REQUESTS_PER_MINUTE"
	envBlogBaseURL        = "BLOG_API_BASE_URL"
	envLikesPath          = "LIKES_FILE"
	envSnapshotsOn        = "SNAPSHOTS_ENABLED"
	envSnapshotsDir       = "SNAPSHOTS_DIR"
	envSnapshotsRetention = "SNAPSHOTS_RETENTION_DAYS"
	envRedisURL           = "REDIS_URL"
	envRedisTTL           = "REDIS_BOARD_TTL"

	defaultPort        = "4000"
	defaultCricBaseURL = "https://api.cricapi.com/v1"
	// Upstream free tier blocks aggressive clients, so the board refreshes slowly.
	defaultMatchInterval      = 5 * Duration(time.Minute)
	defaultCommentaryInterval = 2 * Duration(time.Minute)
	defaultRetryDelay         = 10 * Duration(time.Second)
	defaultBlock              = 15 * Duration(time.Minute)
	defaultRequestsPerMinute  = 30
	defaultBlogBaseURL        = "http://localhost:5000/api/v1"
	defaultLikesPath          = "data/liked_blogs.json"
	defaultMetricsPort        = "9090"
	defaultSnapshotsOn        = true
	defaultSnapshotsDir       = "data/snapshots"
	defaultSnapshotsRetention = 7
	defaultRedisTTL           = 10 * Duration(time.Minute)
	defaultServiceName        = "cricket-live-service"
)

var defaultCORSOrigins = []string{
	"http://localhost:3000",
	"http://localhost:5173",
}
