package feeds

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/verisight/verisight/internal/models"
)

type stubClient struct {
	name       string
	available  bool
	candidates []models.CandidateEvidence
	err        error
}

func (s *stubClient) Name() string    { return s.name }
func (s *stubClient) Available() bool { return s.available }

func (s *stubClient) Fetch(ctx context.Context, query string, limit int) ([]models.CandidateEvidence, error) {
	return s.candidates, s.err
}

func TestAggregatedClientKeepsSourceOrder(t *testing.T) {
	a := NewAggregatedClient(
		&stubClient{name: "first", available: true, candidates: []models.CandidateEvidence{
			models.ArticleEvidence{Title: "from first"},
		}},
		&stubClient{name: "second", available: true, candidates: []models.CandidateEvidence{
			models.ArticleEvidence{Title: "from second"},
		}},
	)

	candidates, warnings := a.Fetch(context.Background(), "query", 5)
	require.Len(t, candidates, 2)
	assert.Empty(t, warnings)
	assert.Equal(t, "from first", candidates[0].Body())
	assert.Equal(t, "from second", candidates[1].Body())
}

func TestAggregatedClientCollectsFailuresAsWarnings(t *testing.T) {
	a := NewAggregatedClient(
		&stubClient{name: "broken", available: true, err: errors.New("boom")},
		&stubClient{name: "working", available: true, candidates: []models.CandidateEvidence{
			models.ArticleEvidence{Title: "ok"},
		}},
	)

	candidates, warnings := a.Fetch(context.Background(), "query", 5)
	require.Len(t, candidates, 1)
	require.Len(t, warnings, 1)
	assert.Equal(t, "broken", warnings[0].Source)
	assert.Equal(t, "boom", warnings[0].Message)
}

func TestAggregatedClientFiltersUnavailable(t *testing.T) {
	a := NewAggregatedClient(
		&stubClient{name: "off", available: false},
	)
	assert.False(t, a.HasClients())

	_, warnings := a.Fetch(context.Background(), "query", 5)
	require.Len(t, warnings, 1)
	assert.Equal(t, "feeds", warnings[0].Source)
}

func TestStripTags(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain text", "plain text"},
		{"  padded  ", "padded"},
		{"<p>Hello <b>world</b></p>", "Hello world"},
		{"a &amp; b", "a & b"},
		{"<a href=\"x\">link text</a> trailing", "link text trailing"},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, stripTags(tt.in), "input %q", tt.in)
	}
}
