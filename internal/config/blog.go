package config

// BlogConfig points at the local content API and the liked-posts file.
type BlogConfig struct {
	BaseURL   string
	LikesPath string
}

func loadBlog() BlogConfig {
	return BlogConfig{
		BaseURL:   envOrDefault(envBlogBaseURL, defaultBlogBaseURL),
		LikesPath: envOrDefault(envLikesPath, defaultLikesPath),
	}
}
