package mocks

import (
	"context"
	"sync"

	"github.com/mcoot/mobboss/internal/model"
)

// MockHost is an in-memory identity host for testing
type MockHost struct {
	mu       sync.Mutex
	proof    string
	session  *model.HostSession
	user     *model.Identity
	events   chan model.HostNotification
	installs int
	clears   int

	// SessionErr, when set, is returned by CurrentSession
	SessionErr error
}

// NewMockHost creates a MockHost with the given proof material
func NewMockHost(proof string) *MockHost {
	return &MockHost{
		proof:  proof,
		events: make(chan model.HostNotification, 16),
	}
}

// ProofMaterial returns the configured proof material
func (h *MockHost) ProofMaterial() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.proof
}

// SetProof replaces the proof material
func (h *MockHost) SetProof(proof string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.proof = proof
}

// CurrentSession returns the remembered session
func (h *MockHost) CurrentSession(_ context.Context) (*model.HostSession, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.SessionErr != nil {
		return nil, h.SessionErr
	}
	if h.session == nil {
		return nil, nil
	}
	s := *h.session
	return &s, nil
}

// SetSession seeds a remembered session
func (h *MockHost) SetSession(session *model.HostSession) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.session = session
	if session != nil {
		id := session.Identity
		h.user = &id
	}
}

// InstallSession remembers the session and its user
func (h *MockHost) InstallSession(_ context.Context, session *model.HostSession) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	s := *session
	h.session = &s
	id := session.Identity
	h.user = &id
	h.installs++
	return nil
}

// ClearSession forgets the session and its user
func (h *MockHost) ClearSession(_ context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.session = nil
	h.user = nil
	h.clears++
	return nil
}

// CurrentUser returns the user of the remembered session
func (h *MockHost) CurrentUser(_ context.Context) (*model.Identity, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.user == nil {
		return nil, model.ErrIdentityNotFound
	}
	u := *h.user
	return &u, nil
}

// SetUser overrides the current user independently of the session
func (h *MockHost) SetUser(user *model.Identity) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.user = user
}

// Notifications returns the notification channel
func (h *MockHost) Notifications() <-chan model.HostNotification {
	return h.events
}

// Emit queues a notification
func (h *MockHost) Emit(n model.HostNotification) {
	h.events <- n
}

// Installs returns how many sessions were installed
func (h *MockHost) Installs() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.installs
}

// Clears returns how many times the session was cleared
func (h *MockHost) Clears() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.clears
}
