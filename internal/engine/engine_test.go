package engine_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/verisight/verisight/internal/engine"
	"github.com/verisight/verisight/internal/models"
)

func newTestPipeline(annotator *fakeAnnotator, embedder *fakeEmbedder) *engine.Pipeline {
	return engine.NewPipeline(annotator, embedder, testTrustedDomains)
}

func TestNormalize(t *testing.T) {
	entities := []models.Entity{
		{Text: "Nairobi", Label: "GPE"},
		{Text: "Nairobi", Label: "GPE"}, // duplicates preserved
		{Text: "Monday", Label: "DATE"},
	}
	p := newTestPipeline(&fakeAnnotator{entities: entities}, &fakeEmbedder{})

	claim, err := p.Normalize(context.Background(), "  Flooding   hit Nairobi\ton Monday  ")
	require.NoError(t, err)

	assert.Equal(t, "Flooding hit Nairobi on Monday", claim.NormalizedText)
	assert.Equal(t, "  Flooding   hit Nairobi\ton Monday  ", claim.Text)
	assert.Equal(t, entities, claim.Entities)
}

func TestNormalizeUnavailable(t *testing.T) {
	p := newTestPipeline(&fakeAnnotator{err: errors.New("model not loaded")}, &fakeEmbedder{})

	_, err := p.Normalize(context.Background(), "some claim")
	require.Error(t, err)
	assert.ErrorIs(t, err, engine.ErrNormalizationUnavailable)
}

func TestVerifyScoresEveryCandidate(t *testing.T) {
	p := newTestPipeline(&fakeAnnotator{}, &fakeEmbedder{})

	candidates := []models.CandidateEvidence{
		models.ArticleEvidence{Title: "headline one", Link: "https://www.bbc.com/1"},
		models.ArticleEvidence{Title: "headline two", Link: "https://randomblog.net/2"},
		models.SocialPostEvidence{Author: "acct", Text: "a post", FollowerCount: 6000, AccountAge: 3 * 365 * 24 * time.Hour},
		models.ArticleEvidence{Title: "broken", Link: ""},
	}

	brief, err := p.Verify(context.Background(), "some claim", candidates)
	require.NoError(t, err)

	// No silent drops: one scored entry per candidate.
	require.Len(t, brief.Evidence, len(candidates))

	for i, ev := range brief.Evidence {
		assert.GreaterOrEqual(t, ev.SimilarityScore, 0.0, "evidence %d", i)
		assert.LessOrEqual(t, ev.SimilarityScore, 1.0, "evidence %d", i)
		assert.GreaterOrEqual(t, ev.SourceTrustScore, 0.0, "evidence %d", i)
		assert.LessOrEqual(t, ev.SourceTrustScore, 1.0, "evidence %d", i)
		assert.GreaterOrEqual(t, ev.ConfidenceScore, 0.0, "evidence %d", i)
		assert.LessOrEqual(t, ev.ConfidenceScore, 1.0, "evidence %d", i)

		// Confidence is always the aggregation of its inputs.
		want := engine.Aggregate(ev.SourceTrustScore, ev.SimilarityScore,
			engine.DefaultRecency, engine.DefaultMediaCorroboration)
		assert.InDelta(t, want, ev.ConfidenceScore, 1e-9, "evidence %d", i)
	}

	// Ranked descending.
	for i := 1; i < len(brief.Evidence); i++ {
		assert.GreaterOrEqual(t, brief.Evidence[i-1].ConfidenceScore, brief.Evidence[i].ConfidenceScore)
	}
	assert.InDelta(t, brief.Evidence[0].ConfidenceScore, brief.TopConfidence, 1e-9)
}

func TestVerifyEmptyCandidates(t *testing.T) {
	p := newTestPipeline(&fakeAnnotator{}, &fakeEmbedder{})

	brief, err := p.Verify(context.Background(), "a claim with no evidence", nil)
	require.NoError(t, err)

	assert.Empty(t, brief.Evidence)
	assert.Equal(t, 0.0, brief.TopConfidence)
	assert.Equal(t, models.TierLow, brief.Tier)
}

func TestVerifySimilarityFailsClosed(t *testing.T) {
	p := newTestPipeline(&fakeAnnotator{}, &fakeEmbedder{err: errors.New("timeout")})

	candidates := []models.CandidateEvidence{
		models.ArticleEvidence{Title: "headline", Link: "https://www.bbc.com/1"},
		models.ArticleEvidence{Title: "other", Link: "https://randomblog.net/2"},
	}

	brief, err := p.Verify(context.Background(), "some claim", candidates)
	require.NoError(t, err, "similarity failure must not abort the pipeline")

	require.Len(t, brief.Evidence, 2)
	for _, ev := range brief.Evidence {
		assert.Equal(t, 0.0, ev.SimilarityScore)
	}

	// Trust still contributes: 0.35*0.8 + 0.28 for the trusted article.
	assert.InDelta(t, 0.56, brief.TopConfidence, 1e-9)
	assert.Equal(t, models.TierMedium, brief.Tier)

	require.Len(t, brief.Warnings, 1)
	assert.Equal(t, "similarity", brief.Warnings[0].Source)
}

func TestVerifyDeterministic(t *testing.T) {
	build := func() (*models.VerificationBrief, error) {
		emb := &fakeEmbedder{vectors: map[string][]float32{
			"the claim": {1, 0, 0},
			"close":     {0.9, 0.1, 0},
			"far":       {0, 1, 0},
		}}
		p := newTestPipeline(&fakeAnnotator{entities: []models.Entity{{Text: "claim", Label: "OTHER"}}}, emb)
		return p.Verify(context.Background(), "the claim", []models.CandidateEvidence{
			models.ArticleEvidence{Title: "close", Link: "https://www.bbc.com/1"},
			models.SocialPostEvidence{Author: "a", Text: "far", FollowerCount: 200, AccountAge: 2 * 365 * 24 * time.Hour},
			models.ArticleEvidence{Title: "close", Link: "https://randomblog.net/2"},
		})
	}

	first, err := build()
	require.NoError(t, err)
	second, err := build()
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestVerifyTieOrderMatchesInput(t *testing.T) {
	// Identical candidates score identically; ranking must keep their
	// input order.
	p := newTestPipeline(&fakeAnnotator{}, &fakeEmbedder{})

	candidates := []models.CandidateEvidence{
		models.ArticleEvidence{Title: "same headline", Link: "https://www.bbc.com/first"},
		models.ArticleEvidence{Title: "same headline", Link: "https://www.bbc.com/second"},
	}

	brief, err := p.Verify(context.Background(), "claim", candidates)
	require.NoError(t, err)
	require.Len(t, brief.Evidence, 2)

	first := brief.Evidence[0].Evidence.(models.ArticleEvidence)
	second := brief.Evidence[1].Evidence.(models.ArticleEvidence)
	assert.Equal(t, "https://www.bbc.com/first", first.Link)
	assert.Equal(t, "https://www.bbc.com/second", second.Link)
}
