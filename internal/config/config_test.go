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
	t.Setenv("HOME", t.TempDir()) // no user config file in the way

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "pt", cfg.DefaultTargetLang)
	assert.Equal(t, "en", cfg.SourceLang)
	assert.Equal(t, "https://api-free.deepl.com/v2/translate", cfg.Provider.Endpoint)
	assert.Equal(t, "DeepL-Auth-Key", cfg.Provider.AuthScheme)
	assert.Equal(t, 30*time.Second, cfg.Provider.RequestTimeout)
	assert.Equal(t, 20, cfg.Scheduler.MaxBatchSize)
	assert.Equal(t, 3*time.Second, cfg.Scheduler.InterBatchDelay)
	assert.NotEmpty(t, cfg.DBPath)
	assert.Empty(t, cfg.Provider.Credentials)
}

func TestLoadSingleKeyFromEnvironment(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("UITRANSLATOR_PROVIDER_KEY", "env-key")

	cfg, err := Load("")
	require.NoError(t, err)

	require.Len(t, cfg.Provider.Credentials, 1)
	assert.Equal(t, "env-key", cfg.Provider.Credentials[0].Key)
	assert.Equal(t, 2, cfg.Provider.Credentials[0].RequestsPerMinute)
	assert.Equal(t, 250, cfg.Provider.Credentials[0].DailyQuota)
}

func TestLoadFromFile(t *testing.T) {
	content := `
default_target_lang: fr
db_path: /tmp/uitranslator-test.db
provider:
  model: deepl-v2
  credentials:
    - key: first-key
      requests_per_minute: 2
      daily_quota: 250
    - key: second-key
      requests_per_minute: 5
scheduler:
  max_batch_size: 10
  inter_batch_delay: 1s
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "fr", cfg.DefaultTargetLang)
	assert.Equal(t, "/tmp/uitranslator-test.db", cfg.DBPath)
	require.Len(t, cfg.Provider.Credentials, 2)
	assert.Equal(t, "first-key", cfg.Provider.Credentials[0].Key)
	assert.Equal(t, 250, cfg.Provider.Credentials[0].DailyQuota)
	assert.Equal(t, 5, cfg.Provider.Credentials[1].RequestsPerMinute)
	assert.Equal(t, 10, cfg.Scheduler.MaxBatchSize)
	assert.Equal(t, time.Second, cfg.Scheduler.InterBatchDelay)

	// The env single-key fallback must not override file credentials.
	t.Setenv("UITRANSLATOR_PROVIDER_KEY", "env-key")
	cfg, err = Load(path)
	require.NoError(t, err)
	require.Len(t, cfg.Provider.Credentials, 2)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
