package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/mcoot/mobboss/internal/dependencies/ids"
)

// Args are the named arguments of a remote procedure
type Args map[string]any

// Caller invokes a remote procedure and decodes its payload into result
type Caller interface {
	Call(ctx context.Context, procedure string, args Args, result any) error
}

// Gateway is an HTTP client for the authoritative procedure service.
// It never retries and never caches.
type Gateway struct {
	baseURL    string
	apiKey     string
	timeout    time.Duration
	httpClient *http.Client
	ids        ids.Generator
	logger     *slog.Logger

	mu    sync.RWMutex
	token string
}

// Ensure Gateway implements Caller
var _ Caller = (*Gateway)(nil)

// New creates a new Gateway
func New(cfg Config, gen ids.Generator, logger *slog.Logger) *Gateway {
	return NewWithHTTPClient(cfg, &http.Client{}, gen, logger)
}

// NewWithHTTPClient creates a Gateway with an existing HTTP client (for testing)
func NewWithHTTPClient(cfg Config, httpClient *http.Client, gen ids.Generator, logger *slog.Logger) *Gateway {
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}
	return &Gateway{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		timeout:    cfg.Timeout,
		httpClient: httpClient,
		ids:        gen,
		logger:     logger,
	}
}

// SetToken installs the session credential sent on every call
func (g *Gateway) SetToken(token string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.token = token
}

// Token returns the installed session credential
func (g *Gateway) Token() string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.token
}

type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// Call performs one procedure call
func (g *Gateway) Call(ctx context.Context, procedure string, args Args, result any) error {
	if args == nil {
		args = Args{}
	}
	data, err := json.Marshal(args)
	if err != nil {
		return fmt.Errorf("failed to marshal %s args: %w", procedure, err)
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	url := g.baseURL + "/rpc/" + procedure
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	requestID := g.ids.RequestID()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if g.apiKey != "" {
		req.Header.Set("apikey", g.apiKey)
	}
	if token := g.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := g.httpClient.Do(req)
	if err != nil {
		g.logger.Warn("rpc call failed",
			slog.String("procedure", procedure),
			slog.String("request_id", requestID),
			slog.String("error", err.Error()),
		)
		return &TransportError{Procedure: procedure, Message: "request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Procedure: procedure, StatusCode: resp.StatusCode, Message: "failed to read response", Cause: err}
	}

	g.logger.Debug("rpc call",
		slog.String("procedure", procedure),
		slog.String("request_id", requestID),
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		te := &TransportError{Procedure: procedure, StatusCode: resp.StatusCode}
		var eb errorBody
		if err := json.Unmarshal(respBody, &eb); err == nil {
			te.Message = eb.Message
			if te.Message == "" {
				te.Message = eb.Error
			}
		}
		if te.Message == "" {
			te.Message = strings.TrimSpace(string(respBody))
		}
		return te
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return &TransportError{Procedure: procedure, StatusCode: resp.StatusCode, Message: "failed to parse response", Cause: err}
		}
	}

	return nil
}
