// Package config reads mobboss settings from the environment and hands each
// component its own Config.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/mcoot/mobboss/internal/cache"
	"github.com/mcoot/mobboss/internal/host"
	"github.com/mcoot/mobboss/internal/rpc"
	"github.com/mcoot/mobboss/internal/session"
	redisstorage "github.com/mcoot/mobboss/internal/storage/redis"
)

// Storage backends
const (
	StorageMemory = "memory"
	StorageRedis  = "redis"
)

// Config holds every setting mobboss reads from the environment
type Config struct {
	RPCURL   string `env:"MOBBOSS_RPC_URL" envDefault:"http://localhost:54321"`
	APIKey   string `env:"MOBBOSS_API_KEY"`
	InitData string `env:"MOBBOSS_INIT_DATA"`

	Storage   string `env:"MOBBOSS_STORAGE" envDefault:"memory"`
	RedisURL  string `env:"MOBBOSS_REDIS_URL"`
	Namespace string `env:"MOBBOSS_NAMESPACE" envDefault:"default"`

	BridgeAddr  string        `env:"MOBBOSS_BRIDGE_ADDR" envDefault:"127.0.0.1:8787"`
	CallTimeout time.Duration `env:"MOBBOSS_CALL_TIMEOUT" envDefault:"15s"`

	RenewInterval        time.Duration `env:"MOBBOSS_RENEW_INTERVAL" envDefault:"1m"`
	RenewAfter           time.Duration `env:"MOBBOSS_RENEW_AFTER" envDefault:"45m"`
	ExpiryMargin         time.Duration `env:"MOBBOSS_EXPIRY_MARGIN" envDefault:"5m"`
	MaxReauthFailures    int           `env:"MOBBOSS_MAX_REAUTH_FAILURES" envDefault:"5"`
	ReauthBackoffInitial time.Duration `env:"MOBBOSS_REAUTH_BACKOFF_INITIAL" envDefault:"2s"`
	ReauthBackoffMax     time.Duration `env:"MOBBOSS_REAUTH_BACKOFF_MAX" envDefault:"2m"`

	SequencedLoads bool   `env:"MOBBOSS_SEQUENCED_LOADS" envDefault:"false"`
	LogLevel       string `env:"MOBBOSS_LOG_LEVEL" envDefault:"warn"`
}

// Parse reads the environment into a Config without validating it, so callers
// can layer overrides on top first
func Parse() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Load parses the environment into a Config and validates it
func Load() (Config, error) {
	cfg, err := Parse()
	if err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks settings that depend on each other
func (c Config) Validate() error {
	if c.RPCURL == "" {
		return errors.New("MOBBOSS_RPC_URL is required")
	}
	switch c.Storage {
	case StorageMemory:
	case StorageRedis:
		if c.RedisURL == "" {
			return errors.New("MOBBOSS_REDIS_URL required when MOBBOSS_STORAGE=redis")
		}
	default:
		return fmt.Errorf("invalid MOBBOSS_STORAGE %q: must be 'memory' or 'redis'", c.Storage)
	}
	if c.MaxReauthFailures < 1 {
		return errors.New("MOBBOSS_MAX_REAUTH_FAILURES must be at least 1")
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// RPC returns the gateway configuration
func (c Config) RPC() rpc.Config {
	cfg := rpc.DefaultConfig()
	cfg.BaseURL = strings.TrimRight(c.RPCURL, "/")
	cfg.APIKey = c.APIKey
	if c.CallTimeout > 0 {
		cfg.Timeout = c.CallTimeout
	}
	return cfg
}

// Session returns the session manager configuration
func (c Config) Session() session.Config {
	cfg := session.DefaultConfig()
	cfg.RenewInterval = c.RenewInterval
	cfg.RenewAfter = c.RenewAfter
	cfg.ExpiryMargin = c.ExpiryMargin
	cfg.MaxReauthFailures = c.MaxReauthFailures
	cfg.ReauthBackoffInitial = c.ReauthBackoffInitial
	cfg.ReauthBackoffMax = c.ReauthBackoffMax
	return cfg
}

// Cache returns the game state cache configuration
func (c Config) Cache() cache.Config {
	cfg := cache.DefaultConfig()
	cfg.SequencedLoads = c.SequencedLoads
	return cfg
}

// Bridge returns the host bridge configuration
func (c Config) Bridge() host.BridgeConfig {
	cfg := host.DefaultBridgeConfig()
	cfg.InitialProof = c.InitData
	return cfg
}

// Server returns the bridge HTTP server configuration
func (c Config) Server() host.ServerConfig {
	cfg := host.DefaultServerConfig()
	if c.BridgeAddr != "" {
		cfg.Addr = c.BridgeAddr
	}
	return cfg
}

// Redis returns the redis storage configuration
func (c Config) Redis() redisstorage.Config {
	cfg := redisstorage.DefaultConfig()
	if c.RedisURL != "" {
		cfg.URL = c.RedisURL
	}
	if c.Namespace != "" {
		cfg.Namespace = c.Namespace
	}
	return cfg
}

// Level returns the configured log level, falling back to info
func (c Config) Level() slog.Level {
	level, err := parseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return level
}

// NewLogger builds the JSON logger every component shares
func (c Config) NewLogger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: c.Level(),
	}))
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid MOBBOSS_LOG_LEVEL %q", s)
	}
	return level, nil
}
