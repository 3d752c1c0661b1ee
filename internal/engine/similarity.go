package engine

import (
	"context"
	"fmt"
	"math"

	"github.com/verisight/verisight/internal/embedding"
)

// SimilarityScorer computes the semantic relevance of candidate texts to a
// claim through an embedding capability.
type SimilarityScorer struct {
	embedder embedding.Embedder
}

// NewSimilarityScorer creates a similarity scorer backed by the given embedder.
func NewSimilarityScorer(embedder embedding.Embedder) *SimilarityScorer {
	return &SimilarityScorer{embedder: embedder}
}

// ScoreBatch returns one score per candidate text, same order and length.
// The claim and all candidates are embedded in a single batched call; each
// score is the cosine similarity of the claim vector and the candidate
// vector, clamped to [0,1]. Negative similarity is zero relevance, not a
// signed signal. An empty input yields an empty result.
//
// A failed embedding call is reported as ErrSimilarityUnavailable.
func (s *SimilarityScorer) ScoreBatch(ctx context.Context, claim string, candidates []string) ([]float64, error) {
	if len(candidates) == 0 {
		return []float64{}, nil
	}

	inputs := make([]string, 0, len(candidates)+1)
	inputs = append(inputs, claim)
	inputs = append(inputs, candidates...)

	vectors, err := s.embedder.Embed(ctx, inputs)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSimilarityUnavailable, err)
	}
	if len(vectors) != len(inputs) {
		return nil, fmt.Errorf("%w: got %d vectors for %d inputs", ErrSimilarityUnavailable, len(vectors), len(inputs))
	}

	claimVec := vectors[0]
	scores := make([]float64, len(candidates))
	for i, vec := range vectors[1:] {
		scores[i] = clamp01(cosineSimilarity(claimVec, vec))
	}

	return scores, nil
}

// cosineSimilarity returns the cosine of the angle between two vectors, in
// [-1,1]. Mismatched or zero-norm vectors yield 0.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
