package ids

import "github.com/google/uuid"

// Generator produces unique identifiers that can be mocked for testing
type Generator interface {
	// RequestID returns a fresh correlation id for an outbound call
	RequestID() string
}

// UUIDGenerator implements Generator with random (v4) UUIDs
type UUIDGenerator struct{}

// New creates a new UUIDGenerator
func New() *UUIDGenerator {
	return &UUIDGenerator{}
}

// RequestID returns a new random UUID string
func (g *UUIDGenerator) RequestID() string {
	return uuid.NewString()
}
