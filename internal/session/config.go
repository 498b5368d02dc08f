package session

import "time"

// Config holds configuration for the session manager
type Config struct {
	// RenewInterval is how often the renewal ticker checks the credential
	RenewInterval time.Duration
	// RenewAfter is the credential age at which renewal kicks in
	RenewAfter time.Duration
	// ExpiryMargin renews early when the credential's own expiry is this close
	ExpiryMargin time.Duration

	// MaxReauthFailures stops automatic re-authentication after this many
	// consecutive failures. Zero means unlimited.
	MaxReauthFailures int
	// ReauthBackoffInitial is the wait after the first automatic failure
	ReauthBackoffInitial time.Duration
	// ReauthBackoffMax caps the wait between automatic attempts
	ReauthBackoffMax time.Duration
	// ReauthJitter randomizes the backoff; zero gives exact waits
	ReauthJitter float64
}

// DefaultConfig returns default session configuration
func DefaultConfig() Config {
	return Config{
		RenewInterval:        time.Minute,
		RenewAfter:           45 * time.Minute,
		ExpiryMargin:         5 * time.Minute,
		MaxReauthFailures:    5,
		ReauthBackoffInitial: 2 * time.Second,
		ReauthBackoffMax:     2 * time.Minute,
		ReauthJitter:         0.2,
	}
}
