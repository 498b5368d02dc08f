package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/mux"

	"github.com/mcoot/mobboss/internal/model"
)

// FakeHandler answers one procedure with an HTTP status and a JSON payload
type FakeHandler func(args map[string]any) (status int, payload any)

// FakeCall is one request the fake backend received
type FakeCall struct {
	Procedure string
	Args      map[string]any
	Token     string
	APIKey    string
	RequestID string
}

// FakeBackend is an in-process procedure service for integration tests.
// Procedures answer with whatever was scripted; unscripted ones return 404.
type FakeBackend struct {
	server *httptest.Server

	mu          sync.Mutex
	handlers    map[string]FakeHandler
	calls       []FakeCall
	tokens      map[string]model.PlayerID
	requireAuth bool
	signingKey  []byte
	tokenTTL    time.Duration
}

// NewFakeBackend starts a fake backend. Close it when done.
func NewFakeBackend() *FakeBackend {
	b := &FakeBackend{
		handlers:   make(map[string]FakeHandler),
		tokens:     make(map[string]model.PlayerID),
		signingKey: []byte("fake-backend-signing-key"),
		tokenTTL:   time.Hour,
	}

	r := mux.NewRouter()
	r.HandleFunc("/rpc/{procedure}", b.handle).Methods(http.MethodPost)
	b.server = httptest.NewServer(r)
	return b
}

// URL returns the base URL of the fake backend
func (b *FakeBackend) URL() string {
	return b.server.URL
}

// Close shuts the fake backend down
func (b *FakeBackend) Close() {
	b.server.Close()
}

// RequireAuth makes every procedure except the identity exchange demand an issued token
func (b *FakeBackend) RequireAuth(on bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.requireAuth = on
}

// Handle scripts a procedure
func (b *FakeBackend) Handle(procedure string, fn FakeHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[procedure] = fn
}

// Respond makes a procedure always answer payload
func (b *FakeBackend) Respond(procedure string, payload any) {
	b.Handle(procedure, func(map[string]any) (int, any) {
		return http.StatusOK, payload
	})
}

// IssueToken mints a signed credential for id that the backend will accept
func (b *FakeBackend) IssueToken(id model.PlayerID) string {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   string(id),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(b.tokenTTL)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(b.signingKey)
	if err != nil {
		panic(err)
	}

	b.mu.Lock()
	b.tokens[token] = id
	b.mu.Unlock()
	return token
}

// ScriptPlayer answers the identity exchange and the profile lookup for profile
func (b *FakeBackend) ScriptPlayer(profile model.PlayerProfile) {
	b.Handle("exchange_identity", func(args map[string]any) (int, any) {
		if proof, _ := args["proof"].(string); proof == "" {
			return http.StatusOK, map[string]any{"success": false, "message": "missing init data"}
		}
		return http.StatusOK, map[string]any{"token": b.IssueToken(profile.ID), "profile": profile}
	})
	b.Respond("get_player", profile)
}

// Calls returns every recorded call in order
func (b *FakeBackend) Calls() []FakeCall {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]FakeCall(nil), b.calls...)
}

// Procedures returns the procedure names of every recorded call in order
func (b *FakeBackend) Procedures() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	procs := make([]string, len(b.calls))
	for i, c := range b.calls {
		procs[i] = c.Procedure
	}
	return procs
}

// CallCount returns how many times procedure was called
func (b *FakeBackend) CallCount(procedure string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, c := range b.calls {
		if c.Procedure == procedure {
			n++
		}
	}
	return n
}

func (b *FakeBackend) handle(w http.ResponseWriter, r *http.Request) {
	procedure := mux.Vars(r)["procedure"]

	var args map[string]any
	if err := json.NewDecoder(r.Body).Decode(&args); err != nil {
		writeFakeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid JSON body"})
		return
	}

	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")

	b.mu.Lock()
	b.calls = append(b.calls, FakeCall{
		Procedure: procedure,
		Args:      args,
		Token:     token,
		APIKey:    r.Header.Get("apikey"),
		RequestID: r.Header.Get("X-Request-ID"),
	})
	fn, ok := b.handlers[procedure]
	_, known := b.tokens[token]
	requireAuth := b.requireAuth
	b.mu.Unlock()

	if requireAuth && procedure != "exchange_identity" && !known {
		writeFakeJSON(w, http.StatusUnauthorized, map[string]string{"message": "JWT expired"})
		return
	}
	if !ok {
		writeFakeJSON(w, http.StatusNotFound, map[string]string{"message": "Could not find the function " + procedure})
		return
	}

	status, payload := fn(args)
	writeFakeJSON(w, status, payload)
}

func writeFakeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
