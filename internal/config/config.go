package config

import "fmt"

// Config holds runtime configuration for the server.
type Config struct {
	Port        string
	CORSOrigins []string
	CricAPI     CricAPIConfig
	Blog        BlogConfig
	Metrics     MetricsConfig
	Snapshots   SnapshotsConfig
	Redis       RedisConfig
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	return Config{
		Port:        envOrDefault(envPort, defaultPort),
		CORSOrigins: listEnvOrDefault(envCORSOrigins, defaultCORSOrigins),
		CricAPI:     loadCricAPI(),
		Blog:        loadBlog(),
		Metrics:     loadMetrics(),
		Snapshots:   loadSnapshots(),
		Redis:       loadRedis(),
	}
}

// MissingKeyError reports a required setting that was not provided.
type MissingKeyError struct {
	Keys []string
}

func (e *MissingKeyError) Error() string {
	return fmt.Sprintf("missing required configuration: set %s (or a .env file entry)", e.Keys[0])
}

// Validate reports settings the service cannot run without.
func (c Config) Validate() error {
	if c.CricAPI.APIKey == "" {
		return &MissingKeyError{Keys: []string{envCricAPIKey, envCricAPIKeyCRA, envCricAPIKeyVite}}
	}
	return nil
}
