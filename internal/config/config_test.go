package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "API_PORT", "GIN_MODE", "MAX_UPLOAD_MB", "SESSION_TTL",
		"DEFAULT_CHUNK_SIZE", "PREVIEW_ROWS", "DATABASE_URL",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "8090", cfg.Server.APIPort)
	assert.Equal(t, int64(50), cfg.Upload.MaxUploadMB)
	assert.Equal(t, 30*time.Minute, cfg.Upload.SessionTTL)
	assert.Equal(t, 500, cfg.Compare.DefaultChunkSize)
	assert.Equal(t, 50, cfg.Compare.PreviewRows)
	assert.Empty(t, cfg.Database.URL)
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("MAX_UPLOAD_MB", "10")
	t.Setenv("DEFAULT_CHUNK_SIZE", "250")
	t.Setenv("SESSION_TTL", "5m")
	t.Setenv("DATABASE_URL", "postgres://localhost/dupfinder")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, int64(10), cfg.Upload.MaxUploadMB)
	assert.Equal(t, 250, cfg.Compare.DefaultChunkSize)
	assert.Equal(t, 5*time.Minute, cfg.Upload.SessionTTL)
	assert.Equal(t, "postgres://localhost/dupfinder", cfg.Database.URL)
}

func TestLoadRejectsBadChunkSize(t *testing.T) {
	clearEnv(t)
	t.Setenv("DEFAULT_CHUNK_SIZE", "0")

	_, err := Load()
	require.Error(t, err)
}

func TestLoadIgnoresUnparseableValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("MAX_UPLOAD_MB", "lots")
	t.Setenv("SESSION_TTL", "whenever")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, int64(50), cfg.Upload.MaxUploadMB)
	assert.Equal(t, 30*time.Minute, cfg.Upload.SessionTTL)
}
