package server

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.Empty(t, cfg.StaticDir, "static files are off unless configured")
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("DUELARENA_ADDR", ":9999")
	t.Setenv("DUELARENA_LOG_FILE", "")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, ":9999", cfg.Addr)
	assert.Empty(t, cfg.LogFile, "an empty value means stderr")
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadConfigDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("DUELARENA_STATIC_DIR=public\nDUELARENA_LOG_LEVEL=warn\n"), 0o644))
	t.Cleanup(func() {
		os.Unsetenv("DUELARENA_STATIC_DIR")
		os.Unsetenv("DUELARENA_LOG_LEVEL")
	})

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "public", cfg.StaticDir)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestInitLogger(t *testing.T) {
	prev := Log
	t.Cleanup(func() { Log = prev })

	path := filepath.Join(t.TempDir(), "app.log")
	require.NoError(t, InitLogger(path, "info"))
	Log.Infof("hello %s", "world")
	SyncLogger()

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), "hello world")

	assert.Error(t, InitLogger(path, "loud"))
}
