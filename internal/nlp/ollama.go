// Package nlp provides Ollama (local LLM) implementation of the Annotator interface.
package nlp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/verisight/verisight/internal/config"
)

// OllamaAnnotator implements Annotator using a local Ollama server.
type OllamaAnnotator struct {
	baseURL    string
	model      string
	httpClient *http.Client
}

// NewOllamaAnnotator creates a new Ollama annotator.
func NewOllamaAnnotator(cfg *config.ProviderConfig) (*OllamaAnnotator, error) {
	baseURL := cfg.OllamaURL
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}

	model := cfg.Model
	if model == "" {
		model = "llama3"
	}

	return &OllamaAnnotator{
		baseURL:    baseURL,
		model:      model,
		httpClient: &http.Client{},
	}, nil
}

// Name returns the provider name.
func (a *OllamaAnnotator) Name() string {
	return "ollama"
}

type ollamaGenerateRequest struct {
	Model   string `json:"model"`
	Prompt  string `json:"prompt"`
	System  string `json:"system,omitempty"`
	Stream  bool   `json:"stream"`
	Options struct {
		Temperature float64 `json:"temperature"`
	} `json:"options"`
}

type ollamaGenerateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
	Error    string `json:"error,omitempty"`
}

// Annotate tokenizes the text and extracts named entities.
func (a *OllamaAnnotator) Annotate(ctx context.Context, text string) (*Annotation, error) {
	reqBody := ollamaGenerateRequest{
		Model:  a.model,
		Prompt: fmt.Sprintf("Text to annotate:\n\n%s", text),
		System: annotateSystemPrompt,
		Stream: false,
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", a.baseURL+"/api/generate", bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("Ollama request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var result ollamaGenerateResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if result.Error != "" {
		return nil, fmt.Errorf("Ollama error: %s", result.Error)
	}

	return parseAnnotation(result.Response)
}
