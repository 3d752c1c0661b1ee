// Package config handles application configuration from YAML files and environment variables.
package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	Server     ServerConfig    `yaml:"server"`
	Database   DatabaseConfig  `yaml:"database"`
	NLP        ProviderConfig  `yaml:"nlp"`
	Embedding  ProviderConfig  `yaml:"embedding"`
	Feeds      FeedsConfig     `yaml:"feeds"`
	Trust      TrustConfig     `yaml:"trust"`
	RateLimits RateLimitConfig `yaml:"rate_limits"`
	Logging    LoggingConfig   `yaml:"logging"`
}

type ServerConfig struct {
	Port int `yaml:"port"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// ProviderConfig configures an external capability (entity annotation or
// text embedding).
type ProviderConfig struct {
	Provider  string `yaml:"provider"` // openai, ollama
	Model     string `yaml:"model"`
	APIKey    string `yaml:"api_key"`
	OllamaURL string `yaml:"ollama_url"`
}

type FeedsConfig struct {
	GoogleNews GoogleNewsConfig `yaml:"google_news"`
	Mastodon   MastodonConfig   `yaml:"mastodon"`
	MaxPerSource int            `yaml:"max_per_source"`
}

type GoogleNewsConfig struct {
	Enabled bool `yaml:"enabled"`
}

type MastodonConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Instance    string `yaml:"instance"`
	AccessToken string `yaml:"access_token"`
}

// TrustConfig holds the set of domains treated as reputable news sources.
type TrustConfig struct {
	TrustedDomains []string `yaml:"trusted_domains"`
}

type RateLimitConfig struct {
	RequestsPerMinute int `yaml:"default_requests_per_minute"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port: 8080,
		},
		Database: DatabaseConfig{
			Path: "./data/verisight.db",
		},
		NLP: ProviderConfig{
			Provider: "openai",
			Model:    "gpt-4o-mini",
		},
		Embedding: ProviderConfig{
			Provider: "openai",
			Model:    "text-embedding-3-small",
		},
		Feeds: FeedsConfig{
			GoogleNews:   GoogleNewsConfig{Enabled: true},
			Mastodon:     MastodonConfig{Instance: "https://mastodon.social"},
			MaxPerSource: 6,
		},
		Trust: TrustConfig{
			TrustedDomains: []string{
				"bbc.co.uk",
				"bbc.com",
				"cnn.com",
				"theguardian.com",
				"nation.africa",
				"standardmedia.co.ke",
			},
		},
		RateLimits: RateLimitConfig{
			RequestsPerMinute: 60,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load reads configuration from a YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s (run with --generate-config to create one)", path)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Interpolate environment variables
	content := interpolateEnvVars(string(data))

	cfg := DefaultConfig()
	if err := yaml.Unmarshal([]byte(content), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// GenerateSample creates a sample configuration file.
func GenerateSample(path string) error {
	sample := `# VeriSight Configuration
# See documentation for all options

server:
  port: 8080

database:
  path: ./data/verisight.db

# Entity annotation capability
nlp:
  provider: openai  # openai or ollama
  model: gpt-4o-mini
  api_key: ${OPENAI_API_KEY}

  # For Ollama (local):
  # provider: ollama
  # model: llama3
  # ollama_url: http://localhost:11434

# Text embedding capability
embedding:
  provider: openai  # openai or ollama
  model: text-embedding-3-small
  api_key: ${OPENAI_API_KEY}

feeds:
  max_per_source: 6
  google_news:
    enabled: true
  mastodon:
    enabled: false
    instance: https://mastodon.social
    access_token: ${MASTODON_TOKEN}

trust:
  trusted_domains:
    - bbc.co.uk
    - bbc.com
    - cnn.com
    - theguardian.com
    - nation.africa
    - standardmedia.co.ke

rate_limits:
  default_requests_per_minute: 60

logging:
  level: info  # debug, info, warn, error
  format: json # json or text
`
	return os.WriteFile(path, []byte(sample), 0644)
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}

	if err := validateProvider("nlp", &c.NLP); err != nil {
		return err
	}
	if err := validateProvider("embedding", &c.Embedding); err != nil {
		return err
	}

	if c.Feeds.MaxPerSource < 1 {
		return fmt.Errorf("feeds.max_per_source must be positive")
	}

	if c.Feeds.Mastodon.Enabled && c.Feeds.Mastodon.Instance == "" {
		return fmt.Errorf("mastodon instance URL is required when enabled")
	}

	return nil
}

func validateProvider(section string, cfg *ProviderConfig) error {
	switch cfg.Provider {
	case "openai":
		if cfg.APIKey == "" {
			return fmt.Errorf("%s: OpenAI API key is required", section)
		}
	case "ollama":
		// No key needed; URL defaults to localhost.
	default:
		return fmt.Errorf("%s: unsupported provider: %s", section, cfg.Provider)
	}
	return nil
}

// interpolateEnvVars replaces ${VAR_NAME} with environment variable values.
func interpolateEnvVars(content string) string {
	re := regexp.MustCompile(`\$\{([^}]+)\}`)
	return re.ReplaceAllStringFunc(content, func(match string) string {
		varName := strings.TrimPrefix(strings.TrimSuffix(match, "}"), "${")
		if value := os.Getenv(varName); value != "" {
			return value
		}
		return match // Keep original if not set
	})
}
