package feeds

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/verisight/verisight/internal/models"
)

const sampleRSS = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
<title>"flood nairobi" - Google News</title>
<item>
<title>Flooding hits Nairobi suburbs - Daily Nation</title>
<link>https://nation.africa/kenya/news/flooding-123</link>
<pubDate>Mon, 12 May 2025 08:30:00 GMT</pubDate>
</item>
<item>
<title>Heavy rains &amp; flood warnings issued</title>
<link>https://randomblog.net/rains</link>
<pubDate>Mon, 12 May 2025 07:00:00 GMT</pubDate>
</item>
<item>
<title>Third story</title>
<link>https://example.com/3</link>
<pubDate>Sun, 11 May 2025 10:00:00 GMT</pubDate>
</item>
</channel>
</rss>`

func TestGoogleNewsFetch(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		w.Header().Set("Content-Type", "application/xml")
		w.Write([]byte(sampleRSS))
	}))
	defer server.Close()

	client := NewGoogleNewsClient()
	client.baseURL = server.URL

	candidates, err := client.Fetch(context.Background(), "flood nairobi", 6)
	require.NoError(t, err)
	assert.Equal(t, "flood nairobi", gotQuery)
	require.Len(t, candidates, 3)

	first, ok := candidates[0].(models.ArticleEvidence)
	require.True(t, ok)
	assert.Equal(t, "Flooding hits Nairobi suburbs - Daily Nation", first.Title)
	assert.Equal(t, "https://nation.africa/kenya/news/flooding-123", first.Link)
	assert.Equal(t, "Mon, 12 May 2025 08:30:00 GMT", first.PublishedAt)

	second := candidates[1].(models.ArticleEvidence)
	assert.Equal(t, "Heavy rains & flood warnings issued", second.Title)
}

func TestGoogleNewsFetchRespectsLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(sampleRSS))
	}))
	defer server.Close()

	client := NewGoogleNewsClient()
	client.baseURL = server.URL

	candidates, err := client.Fetch(context.Background(), "flood", 2)
	require.NoError(t, err)
	assert.Len(t, candidates, 2)
}

func TestGoogleNewsFetchServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewGoogleNewsClient()
	client.baseURL = server.URL

	_, err := client.Fetch(context.Background(), "flood", 6)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 503")
}
