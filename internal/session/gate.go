package session

import (
	"errors"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/mcoot/mobboss/internal/model"
)

// errBackingOff means an automatic attempt came too soon after the last failure
var errBackingOff = errors.New("re-authentication backing off")

// reauthGate spaces out automatic re-authentication after failures and
// closes for good once too many have failed in a row. Only a success reopens it.
type reauthGate struct {
	mu          sync.Mutex
	backoff     *backoff.ExponentialBackOff
	maxFailures int
	failures    int
	notBefore   time.Time
}

func newReauthGate(cfg Config) *reauthGate {
	b := backoff.NewExponentialBackOff()
	if cfg.ReauthBackoffInitial > 0 {
		b.InitialInterval = cfg.ReauthBackoffInitial
	}
	if cfg.ReauthBackoffMax > 0 {
		b.MaxInterval = cfg.ReauthBackoffMax
	}
	b.RandomizationFactor = cfg.ReauthJitter
	b.Reset()

	return &reauthGate{
		backoff:     b,
		maxFailures: cfg.MaxReauthFailures,
	}
}

// Allow returns nil if an automatic attempt may run at now
func (g *reauthGate) Allow(now time.Time) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.maxFailures > 0 && g.failures >= g.maxFailures {
		return model.ErrReauthExhausted
	}
	if now.Before(g.notBefore) {
		return errBackingOff
	}
	return nil
}

// Failure records a failed automatic attempt made at now
func (g *reauthGate) Failure(now time.Time) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.failures++
	g.notBefore = now.Add(g.backoff.NextBackOff())
}

// Success reopens the gate
func (g *reauthGate) Success() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.failures = 0
	g.notBefore = time.Time{}
	g.backoff.Reset()
}

// Failures returns the number of consecutive failures
func (g *reauthGate) Failures() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.failures
}

// NotBefore returns the earliest time of the next automatic attempt
func (g *reauthGate) NotBefore() time.Time {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.notBefore
}
