package langsync

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigFromEnvDefaults(t *testing.T) {
	t.Setenv("LANGSYNC_API_KEY", "env-key")
	t.Setenv("LANGSYNC_PROJECT_ID", "env-proj")

	cfg, err := ConfigFromEnv()
	require.NoError(t, err)

	assert.Equal(t, "env-key", cfg.APIKey)
	assert.Equal(t, "env-proj", cfg.ProjectID)
	assert.Equal(t, DefaultBaseURL, cfg.BaseURL)
	assert.Equal(t, DefaultTimeout, cfg.Timeout)
	assert.Equal(t, DefaultRetries, cfg.Retries)
	assert.Equal(t, DefaultCacheTTL, cfg.CacheTTL)
}

func TestConfigFromEnvOverrides(t *testing.T) {
	t.Setenv("LANGSYNC_API_KEY", "env-key")
	t.Setenv("LANGSYNC_PROJECT_ID", "env-proj")
	t.Setenv("LANGSYNC_BASE_URL", "https://staging.langsync.xyz")
	t.Setenv("LANGSYNC_TIMEOUT", "2s")
	t.Setenv("LANGSYNC_RETRIES", "5")
	t.Setenv("LANGSYNC_CACHE_TTL", "90s")

	cfg, err := ConfigFromEnv()
	require.NoError(t, err)

	assert.Equal(t, "https://staging.langsync.xyz", cfg.BaseURL)
	assert.Equal(t, 2*time.Second, cfg.Timeout)
	assert.Equal(t, 5, cfg.Retries)
	assert.Equal(t, 90*time.Second, cfg.CacheTTL)
}

func TestConfigFromEnvInvalidDuration(t *testing.T) {
	t.Setenv("LANGSYNC_TIMEOUT", "not-a-duration")

	_, err := ConfigFromEnv()
	require.Error(t, err)
}

func TestNewFromEnv(t *testing.T) {
	t.Setenv("LANGSYNC_API_KEY", "env-key")
	t.Setenv("LANGSYNC_PROJECT_ID", "env-proj")

	client, err := NewFromEnv()
	require.NoError(t, err)
	assert.Equal(t, "env-proj", client.ProjectID())
}

func TestNewFromEnvMissingCredential(t *testing.T) {
	t.Setenv("LANGSYNC_API_KEY", "")
	t.Setenv("LANGSYNC_PROJECT_ID", "")

	_, err := NewFromEnv()
	require.Error(t, err)
}
