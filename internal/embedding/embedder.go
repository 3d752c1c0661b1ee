// Package embedding provides a pluggable interface for text embedding providers.
package embedding

import (
	"context"
	"fmt"

	"github.com/verisight/verisight/internal/config"
)

// Embedder defines the interface for embedding providers.
type Embedder interface {
	// Embed generates one embedding vector per input text, in the same
	// order. An empty input yields an empty result.
	Embed(ctx context.Context, texts []string) ([][]float32, error)

	// Name returns the provider name.
	Name() string
}

// NewEmbedder creates a new embedder based on configuration.
func NewEmbedder(cfg *config.ProviderConfig) (Embedder, error) {
	switch cfg.Provider {
	case "openai":
		return NewOpenAIEmbedder(cfg)
	case "ollama":
		return NewOllamaEmbedder(cfg)
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", cfg.Provider)
	}
}
