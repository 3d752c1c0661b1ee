// Package engine implements the evidence scoring and aggregation pipeline.
package engine

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/verisight/verisight/internal/config"
	"github.com/verisight/verisight/internal/database"
	"github.com/verisight/verisight/internal/embedding"
	"github.com/verisight/verisight/internal/feeds"
	"github.com/verisight/verisight/internal/models"
	"github.com/verisight/verisight/internal/nlp"
)

// Pipeline is the stateless per-request verification core: normalization,
// similarity scoring, trust scoring, aggregation and ranking. Capabilities
// are injected so the pipeline is testable with fakes.
type Pipeline struct {
	annotator  nlp.Annotator
	similarity *SimilarityScorer
	trust      *TrustScorer
}

// NewPipeline creates a verification pipeline from its capabilities.
func NewPipeline(annotator nlp.Annotator, embedder embedding.Embedder, trustedDomains []string) *Pipeline {
	return &Pipeline{
		annotator:  annotator,
		similarity: NewSimilarityScorer(embedder),
		trust:      NewTrustScorer(trustedDomains),
	}
}

// Verify runs the full pipeline on a raw claim: normalize, score, rank.
// Identical inputs against deterministic capabilities yield an identical
// brief.
func (p *Pipeline) Verify(ctx context.Context, claimText string, candidates []models.CandidateEvidence) (*models.VerificationBrief, error) {
	claim, err := p.Normalize(ctx, claimText)
	if err != nil {
		return nil, err
	}
	return p.Score(ctx, claim, candidates), nil
}

// Score scores every candidate against an already-normalized claim and
// assembles the ranked brief. The output always contains one ScoredEvidence
// per candidate: a candidate that cannot be scored gets 0.0 floors, never an
// exclusion.
func (p *Pipeline) Score(ctx context.Context, claim *models.Claim, candidates []models.CandidateEvidence) *models.VerificationBrief {
	var warnings []models.Warning

	texts := make([]string, len(candidates))
	for i, c := range candidates {
		texts[i] = c.Body()
	}

	// One batched embedding call for the claim plus all candidates. A
	// missing relevance signal must not abort the request, so failure
	// degrades every similarity to 0.0.
	sims, err := p.similarity.ScoreBatch(ctx, claim.NormalizedText, texts)
	if err != nil {
		log.Warn().Err(err).Int("candidates", len(candidates)).Msg("Similarity scoring failed, using zero scores")
		warnings = append(warnings, models.Warning{Source: "similarity", Message: err.Error()})
		sims = make([]float64, len(candidates))
	}

	// Trust scoring per candidate is independent of everything else, so it
	// runs concurrently with limited parallelism. Results are merged back
	// by candidate index to keep output order equal to input order.
	scored := make([]models.ScoredEvidence, len(candidates))
	var wg sync.WaitGroup
	semaphore := make(chan struct{}, 8)

	for i := range candidates {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			trust := p.trust.Score(candidates[idx])
			scored[idx] = models.ScoredEvidence{
				EvidenceKind:     candidates[idx].Kind(),
				Evidence:         candidates[idx],
				SimilarityScore:  sims[idx],
				SourceTrustScore: trust,
				ConfidenceScore:  Aggregate(trust, sims[idx], DefaultRecency, DefaultMediaCorroboration),
			}
		}(i)
	}
	wg.Wait()

	ranked, topConfidence, tier := Rank(scored)

	return &models.VerificationBrief{
		Claim:         *claim,
		Evidence:      ranked,
		TopConfidence: topConfidence,
		Tier:          tier,
		Warnings:      warnings,
	}
}

// Engine wraps the pipeline with candidate retrieval and persistence. It is
// the entry point used by the HTTP layer.
type Engine struct {
	pipeline   *Pipeline
	feedClient *feeds.AggregatedClient
	store      database.Store
	maxPerFeed int
}

// NewEngine creates a verification engine.
func NewEngine(cfg *config.Config, annotator nlp.Annotator, embedder embedding.Embedder, feedClient *feeds.AggregatedClient, store database.Store) *Engine {
	if !feedClient.HasClients() {
		log.Warn().Msg("No candidate feeds configured - briefs will carry no evidence")
	}

	return &Engine{
		pipeline:   NewPipeline(annotator, embedder, cfg.Trust.TrustedDomains),
		feedClient: feedClient,
		store:      store,
		maxPerFeed: cfg.Feeds.MaxPerSource,
	}
}

// VerifyClaim processes a claim through the complete pipeline: normalize,
// fetch candidates, score, rank, persist.
func (e *Engine) VerifyClaim(ctx context.Context, text string) (*models.VerificationBrief, error) {
	startTime := time.Now()

	hash := sha256.Sum256([]byte(text))
	claimHash := hex.EncodeToString(hash[:])

	// Check for an existing brief for the same claim text.
	existing, err := e.store.GetBriefByHash(ctx, claimHash)
	if err != nil {
		log.Error().Err(err).Msg("Failed to check for existing brief")
	}
	if existing != nil {
		log.Info().Str("id", existing.ID).Msg("Returning cached brief")
		return existing, nil
	}

	log.Info().Msg("Step 1: Normalizing claim")
	claim, err := e.pipeline.Normalize(ctx, text)
	if err != nil {
		return nil, err
	}

	log.Info().Msg("Step 2: Fetching candidates")
	candidates, fetchWarnings := e.feedClient.Fetch(ctx, claim.NormalizedText, e.maxPerFeed)
	log.Info().Int("count", len(candidates)).Msg("Candidates fetched")

	log.Info().Msg("Step 3: Scoring and ranking")
	brief := e.pipeline.Score(ctx, claim, candidates)

	brief.ID = uuid.New().String()
	brief.ClaimHash = claimHash
	brief.Warnings = append(fetchWarnings, brief.Warnings...)
	brief.ProcessingTimeMs = time.Since(startTime).Milliseconds()
	brief.CreatedAt = time.Now()

	log.Info().Msg("Step 4: Persisting brief")
	if err := e.store.SaveBrief(ctx, brief); err != nil {
		log.Error().Err(err).Msg("Failed to save brief")
	}

	log.Info().
		Str("id", brief.ID).
		Float64("top_confidence", brief.TopConfidence).
		Str("tier", string(brief.Tier)).
		Int("evidence", len(brief.Evidence)).
		Int64("duration_ms", brief.ProcessingTimeMs).
		Msg("Verification complete")

	return brief, nil
}
