package rpc

import "time"

// Config holds gateway connection settings
type Config struct {
	// BaseURL is the root of the procedure service; calls go to {BaseURL}/rpc/{procedure}
	BaseURL string
	// APIKey is the public project key sent on every call (optional)
	APIKey string
	// Timeout bounds a single call so a hung procedure cannot pin a loading flag forever
	Timeout time.Duration
}

// DefaultConfig returns sensible defaults for gateway configuration
func DefaultConfig() Config {
	return Config{
		BaseURL: "http://localhost:54321",
		Timeout: 15 * time.Second,
	}
}
