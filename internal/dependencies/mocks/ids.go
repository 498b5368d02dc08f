package mocks

import (
	"fmt"
	"sync"

	"github.com/mcoot/mobboss/internal/dependencies/ids"
)

// MockIDs is a mock implementation of ids.Generator for testing
type MockIDs struct {
	mu sync.Mutex

	// RequestIDs is a queue of results to return from RequestID
	RequestIDs []string
	index      int
	generated  int
}

// Ensure MockIDs implements Generator
var _ ids.Generator = (*MockIDs)(nil)

// NewMockIDs creates a new MockIDs
func NewMockIDs() *MockIDs {
	return &MockIDs{}
}

// RequestID returns the next queued id, or a sequential "req-N" once the queue is drained
func (m *MockIDs) RequestID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.index < len(m.RequestIDs) {
		id := m.RequestIDs[m.index]
		m.index++
		return id
	}
	m.generated++
	return fmt.Sprintf("req-%d", m.generated)
}

// QueueRequestIDs adds values to the RequestID result queue
func (m *MockIDs) QueueRequestIDs(values ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RequestIDs = append(m.RequestIDs, values...)
}
