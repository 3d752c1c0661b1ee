package engine

import (
	"sort"

	"github.com/verisight/verisight/internal/models"
)

// Tier thresholds, evaluated highest-first.
const (
	tierHighThreshold   = 0.75
	tierMediumThreshold = 0.50
)

// Rank sorts scored evidence by confidence descending and returns the sorted
// copy together with the top confidence and its tier. Ties keep input order;
// there is no secondary sort key. An empty input is a valid outcome and maps
// to top confidence 0.0, tier low.
func Rank(evidence []models.ScoredEvidence) ([]models.ScoredEvidence, float64, models.Tier) {
	ranked := make([]models.ScoredEvidence, len(evidence))
	copy(ranked, evidence)

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].ConfidenceScore > ranked[j].ConfidenceScore
	})

	topConfidence := 0.0
	if len(ranked) > 0 {
		topConfidence = ranked[0].ConfidenceScore
	}

	return ranked, topConfidence, ClassifyTier(topConfidence)
}

// ClassifyTier maps a top confidence value to its discrete tier. The mapping
// is pure; no other state influences it.
func ClassifyTier(topConfidence float64) models.Tier {
	switch {
	case topConfidence >= tierHighThreshold:
		return models.TierHigh
	case topConfidence >= tierMediumThreshold:
		return models.TierMedium
	default:
		return models.TierLow
	}
}
