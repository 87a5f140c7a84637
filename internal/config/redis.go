package config

// RedisConfig enables publishing the live board to Redis when URL is set.
type RedisConfig struct {
	URL      string
	BoardTTL Duration
}

// Enabled reports whether a Redis URL was configured.
func (c RedisConfig) Enabled() bool {
	return c.URL != ""
}

func loadRedis() RedisConfig {
	return RedisConfig{
		URL:      envOrDefault(envRedisURL, ""),
		BoardTTL: durationEnvOrDefault(envRedisTTL, defaultRedisTTL),
	}
}
