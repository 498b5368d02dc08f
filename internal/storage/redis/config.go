package redis

import "time"

// Config holds Redis connection and behavior settings
type Config struct {
	// URL is the Redis connection URL (e.g., redis://localhost:6379)
	URL string

	// Namespace separates the state of several client installs sharing one Redis
	Namespace string

	// Pool settings
	PoolSize     int
	MinIdleConns int

	// TTL settings
	SessionTTL  time.Duration
	IdentityTTL time.Duration
}

// DefaultConfig returns sensible defaults for Redis configuration
func DefaultConfig() Config {
	return Config{
		URL:          "redis://localhost:6379",
		Namespace:    "default",
		PoolSize:     4,
		MinIdleConns: 1,
		SessionTTL:   7 * 24 * time.Hour,
		IdentityTTL:  30 * 24 * time.Hour,
	}
}
