package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearConfigEnv(t *testing.T) {
	for _, k := range []string{configPathEnv, "PORT", "LOG_LEVEL", "CORS_ORIGINS", "GCP_PROJECT_ID", "GCP_REGION", "GEMINI_MODEL"} {
		t.Setenv(k, "")
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	clearConfigEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Empty(t, cfg.GCP.ProjectID)
	assert.Equal(t, defaultRegion, cfg.GCP.Region)
	assert.Equal(t, defaultModel, cfg.GCP.Model)
	assert.Equal(t, 5, cfg.Limits.UploadsPerMinute)
	assert.Equal(t, 20, cfg.Limits.SolvesPerSecond)
}

func TestLoadConfigFileAndEnv(t *testing.T) {
	clearConfigEnv(t)

	path := filepath.Join(t.TempDir(), "wordsearch.yaml")
	content := `port: "9000"
log_level: debug
cors_origins:
  - https://example.org
gcp:
  project_id: from-file
  region: us-central1
limits:
  uploads_per_minute: 2
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	t.Setenv(configPathEnv, path)
	t.Setenv("GCP_PROJECT_ID", "from-env")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, []string{"https://example.org"}, cfg.CORSOrigins)
	assert.Equal(t, "from-env", cfg.GCP.ProjectID)
	assert.Equal(t, "us-central1", cfg.GCP.Region)
	assert.Equal(t, 2, cfg.Limits.UploadsPerMinute)
	assert.Equal(t, 20, cfg.Limits.SolvesPerSecond)
}

func TestLoadConfigErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		clearConfigEnv(t)
		t.Setenv(configPathEnv, filepath.Join(t.TempDir(), "missing.yaml"))

		_, err := LoadConfig()
		assert.ErrorContains(t, err, "read config")
	})

	t.Run("bad yaml", func(t *testing.T) {
		clearConfigEnv(t)
		path := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("port: [unclosed"), 0o644))
		t.Setenv(configPathEnv, path)

		_, err := LoadConfig()
		assert.ErrorContains(t, err, "parse config")
	})

	t.Run("bad log level", func(t *testing.T) {
		clearConfigEnv(t)
		t.Setenv("LOG_LEVEL", "loud")

		_, err := LoadConfig()
		assert.ErrorContains(t, err, "invalid log level")
	})
}
