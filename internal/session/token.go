package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// credentialExpiry reads the exp claim of a JWT-shaped credential without verifying it.
// The signature belongs to the backend; the client only needs to know when to renew.
// Opaque credentials and credentials without exp yield the zero time.
func credentialExpiry(token string) time.Time {
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return time.Time{}
	}
	if claims.ExpiresAt == nil {
		return time.Time{}
	}
	return claims.ExpiresAt.Time
}

// renewalDue reports whether a credential established at establishedAt and expiring
// at expiresAt should be replaced at now
func renewalDue(cfg Config, now, establishedAt, expiresAt time.Time) bool {
	if !establishedAt.IsZero() && now.Sub(establishedAt) >= cfg.RenewAfter {
		return true
	}
	if !expiresAt.IsZero() && !now.Before(expiresAt.Add(-cfg.ExpiryMargin)) {
		return true
	}
	return false
}
