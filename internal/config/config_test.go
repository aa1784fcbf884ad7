package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "https://api.openai.com/v1", cfg.Provider.BaseURL)
	assert.Equal(t, "OPENAI_API_KEY", cfg.Provider.APIKeyEnv)
	assert.Equal(t, "gpt-4o-mini", cfg.Provider.Model)
	assert.Equal(t, "knowledge_base_", cfg.KnowledgeBase.NamePrefix)
	assert.False(t, cfg.KnowledgeBase.DeleteOnReset)
	assert.False(t, cfg.KnowledgeBase.WaitForIndexing)
	assert.Equal(t, time.Second, cfg.KnowledgeBase.PollInterval())
	assert.Equal(t, time.Duration(0), cfg.Provider.Timeout())
	assert.NotEmpty(t, cfg.Log.Path)
}

func TestLoadAppliesDefaultsToPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`
provider:
  model: gpt-4.1-mini
  timeout_secs: 45
knowledge_base:
  delete_on_reset: true
  index_timeout_secs: 5
log:
  level: debug
`)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "gpt-4.1-mini", cfg.Provider.Model)
	assert.Equal(t, 45*time.Second, cfg.Provider.Timeout())
	assert.Equal(t, "https://api.openai.com/v1", cfg.Provider.BaseURL)
	assert.True(t, cfg.KnowledgeBase.DeleteOnReset)
	assert.Equal(t, 5*time.Second, cfg.KnowledgeBase.IndexTimeout())
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "dark", cfg.UI.MarkdownStyle)
}

func TestLoadRejectsInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("provider: [oops"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := defaultConfig()
	cfg.KnowledgeBase.WaitForIndexing = true

	require.NoError(t, Save(path, cfg))
	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestAPIKeyReadsConfiguredEnv(t *testing.T) {
	t.Setenv("DOCCHAT_TEST_KEY", "sk-test")
	p := ProviderConfig{APIKeyEnv: "DOCCHAT_TEST_KEY"}
	assert.Equal(t, "sk-test", p.APIKey())
	assert.Empty(t, ProviderConfig{}.APIKey())
}

func TestLoadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := []byte(`
[provider]
model = "gpt-4.1-mini"

[knowledge_base]
wait_for_indexing = true
poll_interval_ms = 250
`)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "gpt-4.1-mini", cfg.Provider.Model)
	assert.True(t, cfg.KnowledgeBase.WaitForIndexing)
	assert.Equal(t, 250*time.Millisecond, cfg.KnowledgeBase.PollInterval())
	assert.Equal(t, "OPENAI_API_KEY", cfg.Provider.APIKeyEnv)
}

func TestSaveTOMLRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	cfg := defaultConfig()
	cfg.KnowledgeBase.DeleteOnReset = true

	require.NoError(t, Save(path, cfg))
	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"log level": "log:\n  level: verbose\n",
		"base url":  "provider:\n  base_url: not a url\n",
		"timeout":   "provider:\n  timeout_secs: -1\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

			_, err := Load(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid config")
		})
	}
}
