package memory

import (
	"context"
	"sync"

	"github.com/mcoot/mobboss/internal/model"
	"github.com/mcoot/mobboss/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	session      *model.HostSession
	lastIdentity *model.Identity
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Host session operations

func (s *Storage) SaveSession(ctx context.Context, session *model.HostSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *session
	s.session = &cp
	return nil
}

func (s *Storage) GetSession(ctx context.Context) (*model.HostSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.session == nil {
		return nil, model.ErrSessionNotFound
	}
	cp := *s.session
	return &cp, nil
}

func (s *Storage) DeleteSession(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = nil
	return nil
}

// Last known identity operations

func (s *Storage) SaveLastIdentity(ctx context.Context, identity model.Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastIdentity = &identity
	return nil
}

func (s *Storage) GetLastIdentity(ctx context.Context) (*model.Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.lastIdentity == nil {
		return nil, model.ErrIdentityNotFound
	}
	cp := *s.lastIdentity
	return &cp, nil
}

func (s *Storage) DeleteLastIdentity(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastIdentity = nil
	return nil
}
