// Package session owns the player's authenticated session: bootstrapping from the
// identity host, exchanging proof material for a credential, reacting to host
// notifications, refetching the profile and renewing the credential before it lapses.
//
// Authentication, host-triggered refetches and renewal may overlap. Every path ends by
// storing the latest successful response, so the last successful write wins.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/mcoot/mobboss/internal/dependencies/clock"
	"github.com/mcoot/mobboss/internal/host"
	"github.com/mcoot/mobboss/internal/model"
	"github.com/mcoot/mobboss/internal/rpc"
	"github.com/mcoot/mobboss/internal/storage"
)

// errSessionEnded means the session was torn down while an exchange was in flight
var errSessionEnded = errors.New("session ended during authentication")

// Gateway is the procedure caller the manager installs credentials into
type Gateway interface {
	rpc.Caller
	SetToken(token string)
}

// Hooks are called on session boundaries
type Hooks struct {
	// OnEstablished runs after a session is established for a new identity
	OnEstablished func(ctx context.Context, identity model.Identity)
	// OnTerminated runs after the session has been torn down
	OnTerminated func(ctx context.Context)
}

// Snapshot is a point-in-time copy of the manager's state
type Snapshot struct {
	State          State                `json:"state"`
	Profile        *model.PlayerProfile `json:"profile,omitempty"`
	Identity       *model.Identity      `json:"identity,omitempty"`
	EstablishedAt  time.Time            `json:"established_at"`
	ExpiresAt      time.Time            `json:"expires_at"`
	Err            error                `json:"-"`
	ReauthFailures int                  `json:"reauth_failures"`
}

type exchangeResult struct {
	Success *bool                `json:"success,omitempty"`
	Message string               `json:"message,omitempty"`
	Token   string               `json:"token"`
	Profile *model.PlayerProfile `json:"profile"`
}

// Manager is the session lifecycle manager
type Manager struct {
	gateway Gateway
	host    host.Host
	store   storage.Storage
	clock   clock.Clock
	cfg     Config
	logger  *slog.Logger
	gate    *reauthGate

	mu            sync.RWMutex
	state         State
	profile       *model.PlayerProfile
	identity      *model.Identity
	expiresAt     time.Time
	establishedAt time.Time
	lastErr       error
	reconciledFor model.PlayerID
	hooks         Hooks
	// epoch changes on every teardown so exchanges started before it are discarded
	epoch uint64
	// reauthPending is set while a re-authentication waits out the backoff window
	reauthPending bool

	renewMu   sync.Mutex
	renewStop chan struct{}
	renewDone chan struct{}
}

// NewManager creates a new Manager
func NewManager(
	gateway Gateway,
	h host.Host,
	store storage.Storage,
	clk clock.Clock,
	cfg Config,
	logger *slog.Logger,
) *Manager {
	return &Manager{
		gateway: gateway,
		host:    h,
		store:   store,
		clock:   clk,
		cfg:     cfg,
		logger:  logger,
		gate:    newReauthGate(cfg),
		state:   StateUnauthenticated,
	}
}

// SetHooks replaces the session boundary hooks
func (m *Manager) SetHooks(hooks Hooks) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hooks = hooks
}

// Bootstrap establishes the session at process start. A session the host still
// remembers is resumed; otherwise the host's proof material is exchanged. Without
// either the manager enters the terminal error state and makes no remote call.
func (m *Manager) Bootstrap(ctx context.Context) error {
	proof := m.host.ProofMaterial()

	existing, err := m.host.CurrentSession(ctx)
	if err != nil {
		m.logger.Warn("failed to read host session", slog.String("error", err.Error()))
		existing = nil
	}

	if existing != nil && existing.Token != "" {
		if host.SessionMatchesProof(existing, proof) {
			return m.resume(ctx, existing, proof)
		}
		m.logger.Info("host session belongs to other proof material, discarding",
			slog.String("player_id", string(existing.Identity.ID)),
		)
		if err := m.host.ClearSession(ctx); err != nil {
			m.logger.Warn("failed to clear host session", slog.String("error", err.Error()))
		}
	}

	if proof == "" {
		m.mu.Lock()
		m.state = StateError
		m.lastErr = model.ErrMustOpenFromHost
		m.mu.Unlock()
		m.logger.Error("no host session and no proof material")
		return model.ErrMustOpenFromHost
	}

	_, err = m.Authenticate(ctx, proof)
	return err
}

func (m *Manager) resume(ctx context.Context, existing *model.HostSession, proof string) error {
	identity := existing.Identity

	m.mu.Lock()
	m.gateway.SetToken(existing.Token)
	m.state = StateValid
	m.identity = &identity
	m.establishedAt = existing.EstablishedAt
	m.expiresAt = credentialExpiry(existing.Token)
	m.lastErr = nil
	m.mu.Unlock()

	m.logger.Info("resuming host session",
		slog.String("player_id", string(identity.ID)),
		slog.Time("established_at", existing.EstablishedAt),
	)

	m.Refetch(ctx)

	if m.Profile() == nil {
		// The remembered credential no longer works; fall back to fresh proof
		if proof != "" {
			_, err := m.Authenticate(ctx, proof)
			return err
		}
		m.mu.Lock()
		m.state = StateStale
		m.mu.Unlock()
	} else {
		m.startRenewal()
	}

	m.establish(ctx, identity)
	return nil
}

// Authenticate exchanges proof material for a credential and a profile.
// On failure any previously cached profile is kept.
func (m *Manager) Authenticate(ctx context.Context, proof string) (*model.PlayerProfile, error) {
	if proof == "" {
		return nil, model.ErrProofMissing
	}

	m.mu.Lock()
	epoch := m.epoch
	if m.profile == nil && m.state != StateError {
		m.state = StateAuthenticating
	}
	m.mu.Unlock()

	var res exchangeResult
	err := m.gateway.Call(ctx, rpc.ProcExchangeIdentity, rpc.Args{"proof": proof}, &res)
	if err == nil {
		switch {
		case res.Success != nil && !*res.Success:
			err = &rpc.LogicalError{Procedure: rpc.ProcExchangeIdentity, Message: res.Message}
		case res.Token == "" || res.Profile == nil || res.Profile.ID == "":
			err = &rpc.LogicalError{Procedure: rpc.ProcExchangeIdentity, Message: "exchange returned no session"}
		}
	}
	if err != nil {
		m.mu.Lock()
		if m.epoch == epoch {
			m.lastErr = err
			if m.state == StateAuthenticating {
				m.state = StateUnauthenticated
			}
		}
		m.mu.Unlock()
		m.logger.Warn("authentication failed", slog.String("error", err.Error()))
		return nil, fmt.Errorf("authenticate: %w", err)
	}

	now := m.clock.Now()
	profile := *res.Profile
	identity := profile.Identity()

	m.mu.Lock()
	if m.epoch != epoch {
		m.mu.Unlock()
		m.logger.Info("discarding credential issued after the session ended",
			slog.String("player_id", string(identity.ID)))
		return nil, fmt.Errorf("authenticate: %w", errSessionEnded)
	}
	m.gateway.SetToken(res.Token)
	m.state = StateValid
	m.profile = &profile
	m.identity = &identity
	m.establishedAt = now
	m.expiresAt = credentialExpiry(res.Token)
	m.lastErr = nil
	m.reauthPending = false
	m.mu.Unlock()

	m.gate.Success()

	m.logger.Info("session established",
		slog.String("player_id", string(identity.ID)),
		slog.Time("expires_at", credentialExpiry(res.Token)),
	)

	session := &model.HostSession{
		Token:            res.Token,
		Identity:         identity,
		EstablishedAt:    now,
		ProofFingerprint: host.Fingerprint(proof),
	}
	if err := m.host.InstallSession(ctx, session); err != nil {
		m.logger.Warn("failed to install host session", slog.String("error", err.Error()))
	}
	if err := m.store.SaveLastIdentity(ctx, identity); err != nil {
		m.logger.Warn("failed to save last identity", slog.String("error", err.Error()))
	}

	m.startRenewal()
	m.establish(ctx, identity)

	out := profile
	return &out, nil
}

// establish fires the establishment hook once per identity
func (m *Manager) establish(ctx context.Context, identity model.Identity) {
	m.mu.Lock()
	if m.reconciledFor == identity.ID {
		m.mu.Unlock()
		return
	}
	m.reconciledFor = identity.ID
	hook := m.hooks.OnEstablished
	m.mu.Unlock()

	if hook != nil {
		hook(ctx, identity)
	}
}

// HandleNotification applies one host notification
func (m *Manager) HandleNotification(ctx context.Context, n model.HostNotification) {
	proofAvailable := m.host.ProofMaterial() != ""

	m.mu.Lock()
	prev := m.state
	next, commands := Transition(prev, n, proofAvailable, m.profile != nil)
	m.state = next
	m.mu.Unlock()

	m.logger.Info("host notification",
		slog.String("event", string(n.Event)),
		slog.Bool("session_present", n.SessionPresent),
		slog.String("from", prev.String()),
		slog.String("to", next.String()),
	)

	for _, c := range commands {
		m.execute(ctx, c)
	}
}

func (m *Manager) execute(ctx context.Context, c Command) {
	switch c {
	case CommandRefetch:
		m.Refetch(ctx)
	case CommandReauthenticate:
		m.reauthenticate(ctx)
	case CommandClearProfile:
		m.terminate(ctx, nil)
	case CommandStopRenewal:
		m.stopRenewal()
	}
}

// reauthenticate re-establishes a session the host lost track of. The profile stays
// in place while it runs and is only cleared if re-authentication fails. Inside a
// backoff window the attempt is left to the renewal loop instead.
func (m *Manager) reauthenticate(ctx context.Context) {
	now := m.clock.Now()
	if err := m.gate.Allow(now); err != nil {
		if errors.Is(err, errBackingOff) {
			m.deferReauth()
			return
		}
		m.logger.Warn("re-authentication refused", slog.String("error", err.Error()))
		m.terminate(ctx, err)
		return
	}
	m.attemptReauth(ctx, now)
}

// attemptReauth exchanges the current proof and tears the session down if that fails
func (m *Manager) attemptReauth(ctx context.Context, now time.Time) {
	proof := m.host.ProofMaterial()
	if _, err := m.Authenticate(ctx, proof); err != nil {
		if errors.Is(err, errSessionEnded) {
			return
		}
		m.gate.Failure(now)
		m.terminate(ctx, err)
	}
}

func (m *Manager) deferReauth() {
	m.mu.Lock()
	m.reauthPending = true
	m.state = StateStale
	m.mu.Unlock()

	m.logger.Info("re-authentication deferred", slog.Time("not_before", m.gate.NotBefore()))
	m.startRenewal()
}

// Run consumes host notifications until ctx is cancelled or the stream closes
func (m *Manager) Run(ctx context.Context) error {
	notifications := m.host.Notifications()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case n, ok := <-notifications:
			if !ok {
				return nil
			}
			m.HandleNotification(ctx, n)
		}
	}
}

// Refetch reloads the profile for the active identity. Failures are logged and the
// cached profile is left as it was.
func (m *Manager) Refetch(ctx context.Context) {
	id, err := m.resolveIdentity(ctx)
	if err != nil {
		m.logger.Warn("refetch skipped", slog.String("error", err.Error()))
		return
	}

	var profile model.PlayerProfile
	if err := m.gateway.Call(ctx, rpc.ProcGetPlayer, rpc.Args{"player_id": id}, &profile); err != nil {
		m.logger.Warn("refetch failed",
			slog.String("player_id", string(id)),
			slog.String("error", err.Error()),
		)
		return
	}
	if profile.ID == "" {
		m.logger.Warn("refetch returned no profile", slog.String("player_id", string(id)))
		return
	}

	m.mu.Lock()
	m.profile = &profile
	if m.identity == nil {
		identity := profile.Identity()
		m.identity = &identity
	}
	m.mu.Unlock()
}

// resolveIdentity prefers the host's current user, then the last identity this
// client recognized
func (m *Manager) resolveIdentity(ctx context.Context) (model.PlayerID, error) {
	if user, err := m.host.CurrentUser(ctx); err == nil && user != nil && user.ID != "" {
		return user.ID, nil
	}

	if last, err := m.store.GetLastIdentity(ctx); err == nil && last.ID != "" {
		return last.ID, nil
	} else if err != nil && !errors.Is(err, model.ErrIdentityNotFound) {
		m.logger.Warn("failed to read last identity", slog.String("error", err.Error()))
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.identity != nil {
		return m.identity.ID, nil
	}
	return "", model.ErrNoIdentity
}

// CheckRenewal re-authenticates if the credential is old enough or about to expire,
// or if a deferred re-authentication is waiting. A failed renewal leaves the profile
// in place and is retried on a later tick; a failed deferred re-authentication does not.
func (m *Manager) CheckRenewal(ctx context.Context) {
	m.mu.RLock()
	state := m.state
	hasProfile := m.profile != nil
	pending := m.reauthPending
	establishedAt := m.establishedAt
	expiresAt := m.expiresAt
	m.mu.RUnlock()

	if !pending && (!state.Authenticated() || !hasProfile) {
		return
	}

	now := m.clock.Now()
	if !pending && !renewalDue(m.cfg, now, establishedAt, expiresAt) {
		return
	}

	proof := m.host.ProofMaterial()
	if proof == "" {
		if pending {
			m.terminate(ctx, model.ErrProofMissing)
			return
		}
		m.logger.Warn("renewal due but no proof material")
		return
	}

	if err := m.gate.Allow(now); err != nil {
		if errors.Is(err, model.ErrReauthExhausted) {
			if pending {
				m.terminate(ctx, err)
				return
			}
			m.logger.Warn("renewal disabled", slog.String("error", err.Error()))
			m.stopRenewal()
		}
		return
	}

	if pending {
		m.logger.Info("retrying deferred re-authentication")
		m.attemptReauth(ctx, now)
		return
	}

	m.logger.Info("renewing session", slog.Duration("age", now.Sub(establishedAt)))
	if _, err := m.Authenticate(ctx, proof); err != nil {
		if errors.Is(err, errSessionEnded) {
			return
		}
		m.gate.Failure(now)
		m.mu.Lock()
		if m.state == StateValid {
			m.state = StateStale
		}
		m.mu.Unlock()
	}
}

func (m *Manager) startRenewal() {
	m.renewMu.Lock()
	defer m.renewMu.Unlock()
	if m.renewStop != nil {
		return
	}

	stop := make(chan struct{})
	done := make(chan struct{})
	ticker := m.clock.NewTicker(m.cfg.RenewInterval)
	m.renewStop = stop
	m.renewDone = done

	go func() {
		defer close(done)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C():
				m.CheckRenewal(context.Background())
			}
		}
	}()
}

// stopRenewal signals the renewal loop to exit. It does not wait, so it is safe
// to call from the loop itself.
func (m *Manager) stopRenewal() {
	m.renewMu.Lock()
	defer m.renewMu.Unlock()
	if m.renewStop == nil {
		return
	}
	close(m.renewStop)
	m.renewStop = nil
	m.renewDone = nil
}

// RenewalRunning reports whether the renewal loop is active
func (m *Manager) RenewalRunning() bool {
	m.renewMu.Lock()
	defer m.renewMu.Unlock()
	return m.renewStop != nil
}

// terminate tears the session down and clears the profile
func (m *Manager) terminate(ctx context.Context, cause error) {
	m.stopRenewal()

	m.mu.Lock()
	m.gateway.SetToken("")
	m.state = StateUnauthenticated
	m.profile = nil
	m.identity = nil
	m.establishedAt = time.Time{}
	m.expiresAt = time.Time{}
	m.lastErr = cause
	m.reconciledFor = ""
	m.reauthPending = false
	m.epoch++
	hook := m.hooks.OnTerminated
	m.mu.Unlock()

	if err := m.host.ClearSession(ctx); err != nil {
		m.logger.Warn("failed to clear host session", slog.String("error", err.Error()))
	}

	if cause != nil {
		m.logger.Warn("session terminated", slog.String("error", cause.Error()))
	} else {
		m.logger.Info("session terminated")
	}

	if hook != nil {
		hook(ctx)
	}
}

// Logout ends the session for good and forgets the last identity
func (m *Manager) Logout(ctx context.Context) error {
	m.terminate(ctx, nil)
	if err := m.store.DeleteLastIdentity(ctx); err != nil {
		return fmt.Errorf("failed to forget last identity: %w", err)
	}
	return nil
}

// Close stops background work and waits for the renewal loop to exit
func (m *Manager) Close() {
	m.renewMu.Lock()
	done := m.renewDone
	m.renewMu.Unlock()

	m.stopRenewal()
	if done != nil {
		<-done
	}
}

// State returns the current state
func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Err returns the error that last moved the session, if any
func (m *Manager) Err() error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastErr
}

// Profile returns a copy of the cached profile, or nil
func (m *Manager) Profile() *model.PlayerProfile {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.profile == nil {
		return nil
	}
	p := *m.profile
	return &p
}

// Identity returns the active identity, or nil
func (m *Manager) Identity() *model.Identity {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.identity == nil {
		return nil
	}
	id := *m.identity
	return &id
}

// ProfileState returns what can be observed about the player right now
func (m *Manager) ProfileState() ProfileState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.profile != nil {
		return Active{Profile: *m.profile, Stale: m.state != StateValid}
	}
	if m.state == StateAuthenticating {
		return Authenticating{}
	}
	return NoSession{Err: m.lastErr}
}

// Snapshot returns a copy of the manager's state
func (m *Manager) Snapshot() Snapshot {
	m.mu.RLock()
	s := Snapshot{
		State:         m.state,
		EstablishedAt: m.establishedAt,
		ExpiresAt:     m.expiresAt,
		Err:           m.lastErr,
	}
	if m.profile != nil {
		p := *m.profile
		s.Profile = &p
	}
	if m.identity != nil {
		id := *m.identity
		s.Identity = &id
	}
	m.mu.RUnlock()

	s.ReauthFailures = m.gate.Failures()
	return s
}
