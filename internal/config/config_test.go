package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:54321", cfg.RPCURL)
	assert.Equal(t, StorageMemory, cfg.Storage)
	assert.Equal(t, "127.0.0.1:8787", cfg.BridgeAddr)
	assert.Equal(t, 15*time.Second, cfg.CallTimeout)
	assert.Equal(t, 45*time.Minute, cfg.RenewAfter)
	assert.Equal(t, 5, cfg.MaxReauthFailures)
	assert.False(t, cfg.SequencedLoads)
	assert.Equal(t, slog.LevelWarn, cfg.Level())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("MOBBOSS_RPC_URL", "https://backend.example/")
	t.Setenv("MOBBOSS_API_KEY", "anon-key")
	t.Setenv("MOBBOSS_INIT_DATA", "user=42&hash=abc")
	t.Setenv("MOBBOSS_STORAGE", "redis")
	t.Setenv("MOBBOSS_REDIS_URL", "redis://cache:6379/2")
	t.Setenv("MOBBOSS_NAMESPACE", "device-7")
	t.Setenv("MOBBOSS_CALL_TIMEOUT", "3s")
	t.Setenv("MOBBOSS_RENEW_INTERVAL", "30s")
	t.Setenv("MOBBOSS_MAX_REAUTH_FAILURES", "2")
	t.Setenv("MOBBOSS_SEQUENCED_LOADS", "true")
	t.Setenv("MOBBOSS_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	rpcCfg := cfg.RPC()
	assert.Equal(t, "https://backend.example", rpcCfg.BaseURL)
	assert.Equal(t, "anon-key", rpcCfg.APIKey)
	assert.Equal(t, 3*time.Second, rpcCfg.Timeout)

	sessCfg := cfg.Session()
	assert.Equal(t, 30*time.Second, sessCfg.RenewInterval)
	assert.Equal(t, 2, sessCfg.MaxReauthFailures)

	assert.True(t, cfg.Cache().SequencedLoads)
	assert.Equal(t, "user=42&hash=abc", cfg.Bridge().InitialProof)

	redisCfg := cfg.Redis()
	assert.Equal(t, "redis://cache:6379/2", redisCfg.URL)
	assert.Equal(t, "device-7", redisCfg.Namespace)

	assert.Equal(t, slog.LevelDebug, cfg.Level())
}

func TestLoadRejectsInvalidSettings(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"unknown storage", map[string]string{"MOBBOSS_STORAGE": "postgres"}},
		{"redis without url", map[string]string{"MOBBOSS_STORAGE": "redis"}},
		{"no reauth attempts", map[string]string{"MOBBOSS_MAX_REAUTH_FAILURES": "0"}},
		{"bad log level", map[string]string{"MOBBOSS_LOG_LEVEL": "chatty"}},
		{"bad duration", map[string]string{"MOBBOSS_CALL_TIMEOUT": "soon"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestServerKeepsTimeoutsAndTakesAddr(t *testing.T) {
	cfg := Config{BridgeAddr: "127.0.0.1:0"}

	srv := cfg.Server()
	assert.Equal(t, "127.0.0.1:0", srv.Addr)
	assert.Equal(t, 5*time.Second, srv.ShutdownTimeout)
}
