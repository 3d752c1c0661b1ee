package engine

// Aggregation weights. They sum to 1.0, so for inputs in [0,1] the weighted
// sum stays in [0,1] without re-clamping.
const (
	weightSourceTrust = 0.35
	weightSimilarity  = 0.35
	weightRecency     = 0.20
	weightMedia       = 0.10
)

// Placeholder signal values. No real temporal-decay or cross-source
// corroboration signal exists yet; callers with real values pass them to
// Aggregate directly.
const (
	DefaultRecency            = 1.0
	DefaultMediaCorroboration = 0.8
)

// Aggregate combines the per-candidate signals into a single confidence
// score via a fixed linear weighting.
func Aggregate(sourceTrust, similarity, recency, mediaCorroboration float64) float64 {
	return weightSourceTrust*sourceTrust +
		weightSimilarity*similarity +
		weightRecency*recency +
		weightMedia*mediaCorroboration
}
