// Package feeds provides the Google News RSS candidate source.
package feeds

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/verisight/verisight/internal/models"
)

// GoogleNewsClient fetches article candidates from the Google News RSS
// search feed.
type GoogleNewsClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewGoogleNewsClient creates a new Google News client.
func NewGoogleNewsClient() *GoogleNewsClient {
	return &GoogleNewsClient{
		baseURL:    "https://news.google.com/rss/search",
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Name returns the source name.
func (c *GoogleNewsClient) Name() string {
	return "GoogleNews"
}

// Available returns true as the RSS feed requires no API key.
func (c *GoogleNewsClient) Available() bool {
	return true
}

type rssFeed struct {
	Channel struct {
		Items []rssItem `xml:"item"`
	} `xml:"channel"`
}

type rssItem struct {
	Title   string `xml:"title"`
	Link    string `xml:"link"`
	PubDate string `xml:"pubDate"`
}

// Fetch searches Google News and returns up to limit article candidates in
// feed order.
func (c *GoogleNewsClient) Fetch(ctx context.Context, query string, limit int) ([]models.CandidateEvidence, error) {
	feedURL := fmt.Sprintf("%s?q=%s", c.baseURL, url.QueryEscape(query))

	req, err := http.NewRequestWithContext(ctx, "GET", feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("Google News fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Google News returned status %d", resp.StatusCode)
	}

	var feed rssFeed
	if err := xml.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("failed to decode RSS feed: %w", err)
	}

	items := feed.Channel.Items
	if len(items) > limit {
		items = items[:limit]
	}

	candidates := make([]models.CandidateEvidence, 0, len(items))
	for _, item := range items {
		title := stripTags(item.Title)
		if title == "" {
			continue
		}
		candidates = append(candidates, models.ArticleEvidence{
			Title:       title,
			Link:        item.Link,
			PublishedAt: item.PubDate,
		})
	}

	log.Debug().Str("query", query).Int("count", len(candidates)).Msg("GoogleNews: fetched candidates")
	return candidates, nil
}
