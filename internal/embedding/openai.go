// Package embedding provides OpenAI implementation of the Embedder interface.
package embedding

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
	"github.com/verisight/verisight/internal/config"
)

// OpenAIEmbedder implements Embedder using the OpenAI embeddings API.
type OpenAIEmbedder struct {
	client *openai.Client
	model  string
}

// NewOpenAIEmbedder creates a new OpenAI embedder.
func NewOpenAIEmbedder(cfg *config.ProviderConfig) (*OpenAIEmbedder, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	model := cfg.Model
	if model == "" {
		model = "text-embedding-3-small"
	}

	return &OpenAIEmbedder{
		client: openai.NewClient(cfg.APIKey),
		model:  model,
	}, nil
}

// Name returns the provider name.
func (e *OpenAIEmbedder) Name() string {
	return "openai"
}

// Embed generates embeddings for the given texts in a single batched call.
func (e *OpenAIEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Model: openai.EmbeddingModel(e.model),
		Input: texts,
	})
	if err != nil {
		return nil, fmt.Errorf("OpenAI embedding failed: %w", err)
	}

	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("OpenAI returned %d embeddings for %d inputs", len(resp.Data), len(texts))
	}

	// The API does not guarantee response order; Index is authoritative.
	vectors := make([][]float32, len(texts))
	for _, d := range resp.Data {
		if d.Index < 0 || d.Index >= len(vectors) {
			return nil, fmt.Errorf("OpenAI returned embedding with index %d out of range", d.Index)
		}
		vectors[d.Index] = d.Embedding
	}

	return vectors, nil
}
