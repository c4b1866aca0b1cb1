package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mediamirror.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, "origins:\n  - https://cdn.example.com\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.True(t, cfg.Enabled())
	assert.Equal(t, DefaultImageDir, cfg.ImageDir)
	assert.Equal(t, DefaultOutput, cfg.Output)
	assert.Equal(t, DefaultTimeout, cfg.Fetch.Timeout)
	assert.Equal(t, DefaultConcurrency, cfg.Fetch.Concurrency)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.Equal(t, DefaultSubject, cfg.Events.Subject)
	assert.Equal(t, DefaultDebounce, cfg.Daemon.Debounce)
}

func TestLoadExplicitValues(t *testing.T) {
	path := writeConfig(t, `
origins:
  - https://cdn.example.com
  - https://assets.example.org
image_dir: ./media
fetch:
  timeout: 5s
  concurrency: 8
logging:
  level: DEBUG
  format: json
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Len(t, cfg.Origins, 2)
	assert.Equal(t, "./media", cfg.ImageDir)
	assert.Equal(t, 5*time.Second, cfg.Fetch.Timeout)
	assert.Equal(t, 8, cfg.Fetch.Concurrency)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestEmptyOriginsDisables(t *testing.T) {
	path := writeConfig(t, "image_dir: ./media\n")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.False(t, cfg.Enabled())
}

func TestOriginsTrimmed(t *testing.T) {
	cfg := &Config{Origins: []string{" https://cdn.example.com ", "", "  "}}
	cfg.Normalize()
	assert.Equal(t, []string{"https://cdn.example.com"}, cfg.Origins)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("MEDIAMIRROR_ORIGINS", "https://a.example.com, https://b.example.com")
	t.Setenv("MEDIAMIRROR_FETCH_TIMEOUT", "10s")

	path := writeConfig(t, "origins:\n  - https://cdn.example.com\n")
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.Origins)
	assert.Equal(t, 10*time.Second, cfg.Fetch.Timeout)
}

func TestNormalizeLogLevel(t *testing.T) {
	cases := map[string]string{
		"debug":   "debug",
		"WARNING": "warn",
		"Error":   "error",
		"bogus":   "info",
		"":        "info",
	}
	for raw, want := range cases {
		if got := NormalizeLogLevel(raw); got != want {
			t.Fatalf("NormalizeLogLevel(%q) = %q, want %q", raw, got, want)
		}
	}
}

func TestInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mediamirror.yaml")
	require.NoError(t, Init(path, false))

	// Second init without force must refuse.
	require.Error(t, Init(path, false))
	require.NoError(t, Init(path, true))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.True(t, cfg.Enabled())
}
