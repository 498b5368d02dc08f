package host

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/mcoot/mobboss/internal/dependencies/clock"
	"github.com/mcoot/mobboss/internal/model"
	"github.com/mcoot/mobboss/internal/storage"
	"github.com/mcoot/mobboss/internal/stream"
)

// BridgeConfig holds configuration for the host bridge
type BridgeConfig struct {
	// InitialProof seeds the proof material, usually from the environment
	InitialProof string
	// BufferSize is how many notifications may queue before new ones are dropped
	BufferSize int
}

// DefaultBridgeConfig returns default bridge configuration
func DefaultBridgeConfig() BridgeConfig {
	return BridgeConfig{
		BufferSize: 32,
	}
}

// Bridge is the Host the embedding shell talks to. The shell pushes proof material
// and lifecycle events over a loopback HTTP API (see Handler); the remembered
// session lives in storage so it survives restarts. Events flow back to the
// shell on the bridge's stream.
type Bridge struct {
	store  storage.Storage
	clock  clock.Clock
	logger *slog.Logger

	mu    sync.RWMutex
	proof string

	events chan model.HostNotification
	hub    *stream.Hub
}

// Ensure Bridge implements Host
var _ Host = (*Bridge)(nil)

// NewBridge creates a new Bridge
func NewBridge(store storage.Storage, clk clock.Clock, cfg BridgeConfig, logger *slog.Logger) *Bridge {
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = DefaultBridgeConfig().BufferSize
	}
	hub := stream.NewHub(logger)
	go hub.Run()
	return &Bridge{
		store:  store,
		clock:  clk,
		logger: logger,
		proof:  cfg.InitialProof,
		events: make(chan model.HostNotification, cfg.BufferSize),
		hub:    hub,
	}
}

// Stream returns the hub that feeds GET /v1/stream
func (b *Bridge) Stream() *stream.Hub {
	return b.hub
}

// Close disconnects stream readers. It is safe to call more than once.
func (b *Bridge) Close() {
	b.hub.Close()
}

// ProofMaterial returns the current proof material
func (b *Bridge) ProofMaterial() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.proof
}

// SetProof replaces the proof material
func (b *Bridge) SetProof(proof string) {
	b.mu.Lock()
	b.proof = proof
	b.mu.Unlock()
	b.logger.Info("host proof material updated", slog.Bool("present", proof != ""))
}

// CurrentSession returns the remembered session, or nil if there is none
func (b *Bridge) CurrentSession(ctx context.Context) (*model.HostSession, error) {
	session, err := b.store.GetSession(ctx)
	if err != nil {
		if errors.Is(err, model.ErrSessionNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return session, nil
}

// InstallSession remembers a session
func (b *Bridge) InstallSession(ctx context.Context, session *model.HostSession) error {
	return b.store.SaveSession(ctx, session)
}

// ClearSession forgets the remembered session
func (b *Bridge) ClearSession(ctx context.Context) error {
	return b.store.DeleteSession(ctx)
}

// CurrentUser returns the identity of the remembered session
func (b *Bridge) CurrentUser(ctx context.Context) (*model.Identity, error) {
	session, err := b.store.GetSession(ctx)
	if err != nil {
		return nil, err
	}
	identity := session.Identity
	return &identity, nil
}

// Notifications streams lifecycle events pushed by the shell
func (b *Bridge) Notifications() <-chan model.HostNotification {
	return b.events
}

// Publish enqueues a notification without blocking. It reports false if the
// buffer was full and the notification was dropped.
func (b *Bridge) Publish(n model.HostNotification) bool {
	if n.At.IsZero() {
		n.At = b.clock.Now()
	}
	b.hub.Publish(stream.EventHost, n)
	select {
	case b.events <- n:
		return true
	default:
		b.logger.Warn("host notification dropped - buffer full",
			slog.String("event", string(n.Event)))
		return false
	}
}
