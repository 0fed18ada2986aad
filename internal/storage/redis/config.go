package redis

import "time"

// Config holds Redis connection and behavior settings
type Config struct {
	// URL is the Redis connection URL (e.g., redis://localhost:6379)
	URL string

	// Pool settings
	PoolSize     int
	MinIdleConns int

	// SessionTTL bounds how long an idle truth-or-dare session survives
	SessionTTL time.Duration

	// QuestionCacheTTL is the lifetime of a cached eligible-question pool.
	// Zero disables expiry.
	QuestionCacheTTL time.Duration
}

// DefaultConfig returns sensible defaults for Redis configuration
func DefaultConfig() Config {
	return Config{
		URL:              "redis://localhost:6379",
		PoolSize:         10,
		MinIdleConns:     2,
		SessionTTL:       12 * time.Hour,
		QuestionCacheTTL: 10 * time.Minute,
	}
}
