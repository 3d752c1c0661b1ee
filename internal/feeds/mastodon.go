// Package feeds provides the Mastodon public search candidate source.
package feeds

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/verisight/verisight/internal/config"
	"github.com/verisight/verisight/internal/models"
)

// MastodonClient fetches social post candidates from a Mastodon instance's
// search API.
type MastodonClient struct {
	instance    string
	accessToken string
	enabled     bool
	httpClient  *http.Client
	now         func() time.Time
}

// NewMastodonClient creates a new Mastodon client.
func NewMastodonClient(cfg *config.MastodonConfig) *MastodonClient {
	return &MastodonClient{
		instance:    strings.TrimRight(cfg.Instance, "/"),
		accessToken: cfg.AccessToken,
		enabled:     cfg.Enabled,
		httpClient:  &http.Client{Timeout: 10 * time.Second},
		now:         time.Now,
	}
}

// Name returns the source name.
func (c *MastodonClient) Name() string {
	return "Mastodon"
}

// Available returns whether the client is enabled and configured. Status
// search requires an access token on most instances.
func (c *MastodonClient) Available() bool {
	return c.enabled && c.instance != "" && c.accessToken != ""
}

type mastodonStatus struct {
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	Account   struct {
		Acct           string    `json:"acct"`
		FollowersCount int       `json:"followers_count"`
		CreatedAt      time.Time `json:"created_at"`
	} `json:"account"`
}

type mastodonSearchResponse struct {
	Statuses []mastodonStatus `json:"statuses"`
}

// Fetch searches public statuses and returns up to limit social post
// candidates in API order.
func (c *MastodonClient) Fetch(ctx context.Context, query string, limit int) ([]models.CandidateEvidence, error) {
	searchURL := fmt.Sprintf("%s/api/v2/search?q=%s&type=statuses&limit=%d",
		c.instance, url.QueryEscape(query), limit)

	req, err := http.NewRequestWithContext(ctx, "GET", searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("Mastodon search failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Mastodon returned status %d", resp.StatusCode)
	}

	var searchData mastodonSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&searchData); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	statuses := searchData.Statuses
	if len(statuses) > limit {
		statuses = statuses[:limit]
	}

	now := c.now()
	candidates := make([]models.CandidateEvidence, 0, len(statuses))
	for _, st := range statuses {
		body := stripTags(st.Content)
		if body == "" {
			continue
		}

		accountAge := time.Duration(0)
		if !st.Account.CreatedAt.IsZero() && st.Account.CreatedAt.Before(now) {
			accountAge = now.Sub(st.Account.CreatedAt)
		}

		candidates = append(candidates, models.SocialPostEvidence{
			Author:        st.Account.Acct,
			Text:          body,
			PostedAt:      st.CreatedAt,
			FollowerCount: st.Account.FollowersCount,
			AccountAge:    accountAge,
		})
	}

	log.Debug().Str("query", query).Int("count", len(candidates)).Msg("Mastodon: fetched candidates")
	return candidates, nil
}
