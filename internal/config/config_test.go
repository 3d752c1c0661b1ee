package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "openai", cfg.NLP.Provider)
	assert.Equal(t, "openai", cfg.Embedding.Provider)
	assert.True(t, cfg.Feeds.GoogleNews.Enabled)
	assert.False(t, cfg.Feeds.Mastodon.Enabled)
	assert.Contains(t, cfg.Trust.TrustedDomains, "bbc.com")
	assert.Equal(t, 6, cfg.Feeds.MaxPerSource)
}

func TestLoadInterpolatesEnvVars(t *testing.T) {
	t.Setenv("TEST_VERISIGHT_KEY", "sk-from-env")

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  port: 9090
nlp:
  provider: openai
  api_key: ${TEST_VERISIGHT_KEY}
embedding:
  provider: ollama
trust:
  trusted_domains:
    - example.org
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "sk-from-env", cfg.NLP.APIKey)
	assert.Equal(t, "ollama", cfg.Embedding.Provider)
	assert.Equal(t, []string{"example.org"}, cfg.Trust.TrustedDomains)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config file not found")
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.NLP.APIKey = "k"
	cfg.Embedding.APIKey = "k"
	require.NoError(t, cfg.Validate())

	cfg.Server.Port = 0
	assert.Error(t, cfg.Validate())
	cfg.Server.Port = 8080

	cfg.NLP.Provider = "spacy"
	assert.Error(t, cfg.Validate())
	cfg.NLP.Provider = "openai"

	cfg.Embedding.APIKey = ""
	assert.Error(t, cfg.Validate(), "openai embedding requires a key")
	cfg.Embedding.Provider = "ollama"
	assert.NoError(t, cfg.Validate(), "ollama needs no key")

	cfg.Feeds.Mastodon.Enabled = true
	cfg.Feeds.Mastodon.Instance = ""
	assert.Error(t, cfg.Validate())
}
