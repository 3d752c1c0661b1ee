package engine

import "errors"

// Sentinel errors for capability-level failures. Callers distinguish them
// with errors.Is.
var (
	// ErrNormalizationUnavailable is returned when the annotation
	// capability is unreachable. This is fatal to a verification request;
	// any fallback to raw text is the caller's policy, not the engine's.
	ErrNormalizationUnavailable = errors.New("normalization capability unavailable")

	// ErrSimilarityUnavailable indicates the embedding capability is
	// unreachable. The pipeline recovers from it by treating every
	// similarity score as 0.0 rather than failing the request.
	ErrSimilarityUnavailable = errors.New("similarity capability unavailable")
)
