package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, 64, cfg.Engine.FixCap)
	assert.False(t, cfg.Engine.ConcurrentPar)
	assert.Empty(t, cfg.Redis.Addr)
	assert.Equal(t, "weave:session:", cfg.Redis.Prefix)
	assert.Zero(t, cfg.Redis.TTL)
}

func TestLoadFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weave.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
log:
  level: debug
engine:
  fix_cap: 10
  concurrent_par: true
redis:
  addr: localhost:6379
  ttl: 10m
store:
  dir: /var/lib/weave
  encryption_key: a2V5
  fallback_keys: [b2xk]
`), 0o644))

	t.Setenv("WEAVE_ENGINE__FIX_CAP", "3")
	t.Setenv("WEAVE_LOG__FORMAT", "json")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 3, cfg.Engine.FixCap, "environment overrides the file")
	assert.True(t, cfg.Engine.ConcurrentPar)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, 10*time.Minute, cfg.Redis.TTL)
	assert.Equal(t, "/var/lib/weave", cfg.Store.Dir)
	assert.Equal(t, "a2V5", cfg.Store.EncryptionKey)
	assert.Equal(t, []string{"b2xk"}, cfg.Store.FallbackKeys)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	t.Setenv("WEAVE_ENGINE__FIX_CAP", "0")
	_, err = Load("")
	assert.ErrorContains(t, err, "fix_cap")
}
