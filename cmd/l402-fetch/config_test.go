package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Run("passes - defaults", func(t *testing.T) {
		cfg, err := loadConfig("")
		require.NoError(t, err)
		assert.Equal(t, "GET", cfg.Method)
		assert.Equal(t, "x-l402-proof", cfg.ProofHeader)
		assert.Equal(t, 1, cfg.MaxRetries)
		assert.Equal(t, "L402", cfg.Scheme)
		assert.Equal(t, slog.LevelInfo, cfg.level())
	})

	t.Run("passes - file then environment", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "l402.yaml")
		require.NoError(t, os.WriteFile(path, []byte("url: https://example.com/file\nmaxretries: 3\nlog:\n  level: warn\n"), 0o600))

		t.Setenv("L402_MAXRETRIES", "2")
		t.Setenv("L402_LOG_LEVEL", "debug")

		cfg, err := loadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, "https://example.com/file", cfg.URL)
		assert.Equal(t, 2, cfg.MaxRetries)
		assert.Equal(t, slog.LevelDebug, cfg.level())
	})

	t.Run("fails - missing file", func(t *testing.T) {
		_, err := loadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
		require.Error(t, err)
	})
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	require.ErrorIs(t, (&config{Scheme: "L402"}).validate(), errMissingURL)
	require.Error(t, (&config{URL: "https://example.com", Scheme: "Bearer"}).validate())
	require.NoError(t, (&config{URL: "https://example.com", Scheme: "lsat"}).validate())
}
