// Package feeds provides candidate evidence retrieval from external sources.
package feeds

import (
	"context"
	"strings"
	"time"

	"github.com/verisight/verisight/internal/models"
	"golang.org/x/net/html"
)

// Client defines the interface for candidate evidence sources.
type Client interface {
	// Fetch retrieves candidates related to the query.
	Fetch(ctx context.Context, query string, limit int) ([]models.CandidateEvidence, error)

	// Name returns the source name.
	Name() string

	// Available returns whether this client is properly configured.
	Available() bool
}

// AggregatedClient fetches candidates from multiple sources.
type AggregatedClient struct {
	clients []Client
}

// NewAggregatedClient creates a new aggregated feed client.
func NewAggregatedClient(clients ...Client) *AggregatedClient {
	// Filter to only available clients
	available := make([]Client, 0, len(clients))
	for _, c := range clients {
		if c.Available() {
			available = append(available, c)
		}
	}
	return &AggregatedClient{clients: available}
}

// Fetch queries all configured sources concurrently. Results keep the
// declared source order regardless of completion order, so repeated fetches
// against stable sources produce a stable candidate sequence. Source failures
// become warnings, never errors.
func (a *AggregatedClient) Fetch(ctx context.Context, query string, limitPerSource int) ([]models.CandidateEvidence, []models.Warning) {
	if len(a.clients) == 0 {
		return nil, []models.Warning{{Source: "feeds", Message: "No candidate sources configured"}}
	}

	type result struct {
		candidates []models.CandidateEvidence
		err        error
	}

	results := make([]result, len(a.clients))
	done := make(chan int, len(a.clients))

	for i, client := range a.clients {
		go func(idx int, c Client) {
			candidates, err := c.Fetch(ctx, query, limitPerSource)
			results[idx] = result{candidates: candidates, err: err}
			done <- idx
		}(i, client)
	}

	completed := make([]bool, len(a.clients))
	timeout := time.After(15 * time.Second)
collect:
	for range a.clients {
		select {
		case idx := <-done:
			completed[idx] = true
		case <-timeout:
			break collect
		case <-ctx.Done():
			break collect
		}
	}

	var all []models.CandidateEvidence
	var warnings []models.Warning
	for i, client := range a.clients {
		if !completed[i] {
			warnings = append(warnings, models.Warning{Source: client.Name(), Message: "Source timed out"})
			continue
		}
		if results[i].err != nil {
			warnings = append(warnings, models.Warning{Source: client.Name(), Message: results[i].err.Error()})
			continue
		}
		all = append(all, results[i].candidates...)
	}

	return all, warnings
}

// HasClients returns whether any feed clients are available.
func (a *AggregatedClient) HasClients() bool {
	return len(a.clients) > 0
}

// stripTags flattens an HTML fragment to its text content. Feed titles and
// post bodies frequently arrive with markup.
func stripTags(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return strings.TrimSpace(s)
	}

	tokenizer := html.NewTokenizer(strings.NewReader(s))
	var b strings.Builder
	for {
		tt := tokenizer.Next()
		if tt == html.ErrorToken {
			break
		}
		if tt == html.TextToken {
			b.WriteString(tokenizer.Token().Data)
			b.WriteByte(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
