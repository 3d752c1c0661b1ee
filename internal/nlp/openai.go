// Package nlp provides OpenAI implementation of the Annotator interface.
package nlp

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"github.com/verisight/verisight/internal/config"
	"github.com/verisight/verisight/internal/models"
)

// OpenAIAnnotator implements Annotator using the OpenAI API.
type OpenAIAnnotator struct {
	client *openai.Client
	model  string
}

// NewOpenAIAnnotator creates a new OpenAI annotator.
func NewOpenAIAnnotator(cfg *config.ProviderConfig) (*OpenAIAnnotator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	model := cfg.Model
	if model == "" {
		model = "gpt-4o-mini"
	}

	return &OpenAIAnnotator{
		client: openai.NewClient(cfg.APIKey),
		model:  model,
	}, nil
}

// Name returns the provider name.
func (a *OpenAIAnnotator) Name() string {
	return "openai"
}

const annotateSystemPrompt = `You are a linguistic annotation service.

Your task:
1. Tokenize the text into its content tokens, in original order. Do not include whitespace-only tokens.
2. Extract named entities (people, organizations, places, dates, quantities, events) in order of appearance. Keep duplicates.

Respond with a JSON object:
{
  "tokens": ["token1", "token2"],
  "entities": [{"text": "entity surface text", "label": "PERSON|ORG|GPE|DATE|CARDINAL|EVENT|OTHER"}]
}

Only respond with the JSON object, no other text.`

type annotationResult struct {
	Tokens   []string `json:"tokens"`
	Entities []struct {
		Text  string `json:"text"`
		Label string `json:"label"`
	} `json:"entities"`
}

// Annotate tokenizes the text and extracts named entities.
func (a *OpenAIAnnotator) Annotate(ctx context.Context, text string) (*Annotation, error) {
	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: a.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: annotateSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: fmt.Sprintf("Text to annotate:\n\n%s", text)},
		},
		MaxTokens:   2048,
		Temperature: 0,
	})
	if err != nil {
		return nil, fmt.Errorf("OpenAI annotation failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("OpenAI returned no choices")
	}

	return parseAnnotation(resp.Choices[0].Message.Content)
}

func parseAnnotation(response string) (*Annotation, error) {
	response = strings.TrimSpace(response)

	// Handle markdown code blocks
	if strings.HasPrefix(response, "```") {
		re := regexp.MustCompile("```(?:json)?\\s*([\\s\\S]*?)\\s*```")
		matches := re.FindStringSubmatch(response)
		if len(matches) > 1 {
			response = matches[1]
		}
	}

	var result annotationResult
	if err := json.Unmarshal([]byte(response), &result); err != nil {
		// Try to find JSON object in response
		start := strings.Index(response, "{")
		end := strings.LastIndex(response, "}")
		if start >= 0 && end > start {
			response = response[start : end+1]
			if err := json.Unmarshal([]byte(response), &result); err != nil {
				return nil, fmt.Errorf("invalid JSON: %w", err)
			}
		} else {
			return nil, fmt.Errorf("no JSON found in response")
		}
	}

	ann := &Annotation{
		Tokens:   result.Tokens,
		Entities: make([]models.Entity, len(result.Entities)),
	}
	for i, e := range result.Entities {
		ann.Entities[i] = models.Entity{Text: e.Text, Label: e.Label}
	}
	return ann, nil
}
