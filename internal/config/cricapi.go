package config

// CricAPIConfig controls how we talk to the cricket data API and how often we poll it.
type CricAPIConfig struct {
	BaseURL            string
	APIKey             string
	MatchInterval      Duration
	CommentaryInterval Duration
	RetryDelay         Duration
	DefaultBlock       Duration
	RequestsPerMinute  int
}

func loadCricAPI() CricAPIConfig {
	return CricAPIConfig{
		BaseURL:            envOrDefault(envCricBaseURL, defaultCricBaseURL),
		APIKey:             firstEnv(envCricAPIKey, envCricAPIKeyCRA, envCricAPIKeyVite),
		MatchInterval:      durationEnvOrDefault(envMatchInterval, defaultMatchInterval),
		CommentaryInterval: durationEnvOrDefault(envCommentaryInterval, defaultCommentaryInterval),
		RetryDelay:         durationEnvOrDefault(envRetryDelay, defaultRetryDelay),
		DefaultBlock:       durationEnvOrDefault(envDefaultBlock, defaultBlock),
		RequestsPerMinute:  intEnvOrDefault(envRequestsPerMinute, defaultRequestsPerMinute),
	}
}
