package mocks

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/mcoot/mobboss/internal/rpc"
)

// HandlerFunc answers one procedure call. The returned payload is round-tripped
// through JSON into the caller's result, like the real gateway.
type HandlerFunc func(ctx context.Context, args rpc.Args) (any, error)

// RecordedCall is one call seen by MockGateway
type RecordedCall struct {
	Procedure string
	Args      rpc.Args
	Token     string
}

// MockGateway is a scriptable procedure caller for testing
type MockGateway struct {
	mu       sync.Mutex
	handlers map[string]HandlerFunc
	calls    []RecordedCall
	token    string
}

// Ensure MockGateway implements Caller
var _ rpc.Caller = (*MockGateway)(nil)

// NewMockGateway creates a MockGateway with no handlers
func NewMockGateway() *MockGateway {
	return &MockGateway{handlers: make(map[string]HandlerFunc)}
}

// Handle sets the handler for a procedure
func (g *MockGateway) Handle(procedure string, fn HandlerFunc) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.handlers[procedure] = fn
}

// Respond makes a procedure always return payload
func (g *MockGateway) Respond(procedure string, payload any) {
	g.Handle(procedure, func(context.Context, rpc.Args) (any, error) {
		return payload, nil
	})
}

// Fail makes a procedure always return err
func (g *MockGateway) Fail(procedure string, err error) {
	g.Handle(procedure, func(context.Context, rpc.Args) (any, error) {
		return nil, err
	})
}

// Call records the call and dispatches it to the procedure's handler.
// Unhandled procedures fail like a 404 from the service.
func (g *MockGateway) Call(ctx context.Context, procedure string, args rpc.Args, result any) error {
	g.mu.Lock()
	g.calls = append(g.calls, RecordedCall{Procedure: procedure, Args: args, Token: g.token})
	fn, ok := g.handlers[procedure]
	g.mu.Unlock()

	if !ok {
		return &rpc.TransportError{Procedure: procedure, StatusCode: http.StatusNotFound, Message: "no handler"}
	}

	payload, err := fn(ctx, args)
	if err != nil {
		return err
	}
	if result == nil || payload == nil {
		return nil
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, result)
}

// SetToken records the installed credential
func (g *MockGateway) SetToken(token string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.token = token
}

// Token returns the installed credential
func (g *MockGateway) Token() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.token
}

// Calls returns every recorded call in order
func (g *MockGateway) Calls() []RecordedCall {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]RecordedCall(nil), g.calls...)
}

// Procedures returns the procedure names of every recorded call in order
func (g *MockGateway) Procedures() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	names := make([]string, len(g.calls))
	for i, c := range g.calls {
		names[i] = c.Procedure
	}
	return names
}

// CallCount returns how many times a procedure was called
func (g *MockGateway) CallCount(procedure string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	n := 0
	for _, c := range g.calls {
		if c.Procedure == procedure {
			n++
		}
	}
	return n
}

// ResetCalls forgets recorded calls but keeps handlers
func (g *MockGateway) ResetCalls() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = nil
}
