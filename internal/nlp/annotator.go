// Package nlp provides a pluggable interface for text annotation providers.
package nlp

import (
	"context"
	"fmt"

	"github.com/verisight/verisight/internal/config"
	"github.com/verisight/verisight/internal/models"
)

// Annotation is the result of annotating one piece of text: its content
// tokens in original order and the named entities found in it, in order of
// appearance. Duplicate entities are preserved.
type Annotation struct {
	Tokens   []string
	Entities []models.Entity
}

// Annotator defines the interface for text annotation providers. Annotate
// must be deterministic for the same input.
type Annotator interface {
	// Annotate tokenizes the text and extracts named entities.
	Annotate(ctx context.Context, text string) (*Annotation, error)

	// Name returns the provider name.
	Name() string
}

// NewAnnotator creates a new annotator based on configuration.
func NewAnnotator(cfg *config.ProviderConfig) (Annotator, error) {
	switch cfg.Provider {
	case "openai":
		return NewOpenAIAnnotator(cfg)
	case "ollama":
		return NewOllamaAnnotator(cfg)
	default:
		return nil, fmt.Errorf("unsupported NLP provider: %s", cfg.Provider)
	}
}
