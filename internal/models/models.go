// Package models defines the core data structures used throughout the application.
package models

import (
	"time"
)

// Tier classifies the top confidence of a brief for at-a-glance triage.
type Tier string

const (
	TierHigh   Tier = "high"
	TierMedium Tier = "medium"
	TierLow    Tier = "low"
)

// EvidenceKind distinguishes the candidate evidence variants.
type EvidenceKind string

const (
	KindArticle    EvidenceKind = "article"
	KindSocialPost EvidenceKind = "social_post"
)

// Entity is a named entity extracted from claim text.
type Entity struct {
	Text  string `json:"text"`
	Label string `json:"label"`
}

// Claim is a user-submitted statement under verification. Immutable once
// normalized; a new Claim is built per request.
type Claim struct {
	Text           string   `json:"text"`
	NormalizedText string   `json:"normalized_text"`
	Entities       []Entity `json:"entities"`
}

// CandidateEvidence is one item retrieved from an external source, considered
// as potential support or refutation for a claim. The variant set is closed:
// ArticleEvidence and SocialPostEvidence are the only implementations.
type CandidateEvidence interface {
	// Kind identifies the concrete variant.
	Kind() EvidenceKind

	// Body returns the text that is scored for semantic similarity
	// against the claim.
	Body() string

	candidateEvidence()
}

// ArticleEvidence is a news item (headline plus link).
type ArticleEvidence struct {
	Title       string `json:"title"`
	Link        string `json:"link"`
	PublishedAt string `json:"published_at"`
}

func (ArticleEvidence) Kind() EvidenceKind { return KindArticle }
func (a ArticleEvidence) Body() string     { return a.Title }
func (ArticleEvidence) candidateEvidence() {}

// SocialPostEvidence is a public social media post.
type SocialPostEvidence struct {
	Author        string        `json:"author"`
	Text          string        `json:"text"`
	PostedAt      time.Time     `json:"posted_at"`
	FollowerCount int           `json:"follower_count"`
	AccountAge    time.Duration `json:"account_age"`
}

func (SocialPostEvidence) Kind() EvidenceKind { return KindSocialPost }
func (p SocialPostEvidence) Body() string     { return p.Text }
func (SocialPostEvidence) candidateEvidence() {}

// ScoredEvidence is a candidate plus its derived scores. All three scores lie
// in [0,1]; ConfidenceScore is always the aggregation of the other signals,
// never assigned independently. Values are not mutated after creation.
type ScoredEvidence struct {
	EvidenceKind     EvidenceKind      `json:"kind"`
	Evidence         CandidateEvidence `json:"evidence"`
	SimilarityScore  float64           `json:"similarity_score"`
	SourceTrustScore float64           `json:"source_trust_score"`
	ConfidenceScore  float64           `json:"confidence_score"`
}

// VerificationBrief is the final output of one verification request: the
// normalized claim, evidence ordered by confidence descending, and the tier
// classification of the top confidence.
type VerificationBrief struct {
	ID               string           `json:"id"`
	ClaimHash        string           `json:"claim_hash"`
	Claim            Claim            `json:"claim"`
	Evidence         []ScoredEvidence `json:"evidence"`
	TopConfidence    float64          `json:"top_confidence"`
	Tier             Tier             `json:"tier"`
	Warnings         []Warning        `json:"warnings,omitempty"`
	ProcessingTimeMs int64            `json:"processing_time_ms"`
	CreatedAt        time.Time        `json:"created_at"`
}

// BriefSummary is a lightweight listing row for stored briefs.
type BriefSummary struct {
	ID            string    `json:"id"`
	ClaimText     string    `json:"claim_text"`
	TopConfidence float64   `json:"top_confidence"`
	Tier          Tier      `json:"tier"`
	EvidenceCount int       `json:"evidence_count"`
	CreatedAt     time.Time `json:"created_at"`
}

// Warning represents a non-fatal issue during processing.
type Warning struct {
	Source  string `json:"source"`
	Message string `json:"message"`
}

// APIKey represents an API key for authentication.
type APIKey struct {
	ID                string     `json:"id"`
	KeyHash           string     `json:"-"` // Never expose
	Name              string     `json:"name"`
	RequestsPerMinute int        `json:"requests_per_minute"`
	CreatedAt         time.Time  `json:"created_at"`
	LastUsedAt        *time.Time `json:"last_used_at,omitempty"`
}

// AuditLog represents an API request audit entry.
type AuditLog struct {
	ID           string    `json:"id"`
	APIKeyID     string    `json:"api_key_id"`
	Endpoint     string    `json:"endpoint"`
	Method       string    `json:"method"`
	RequestSize  int64     `json:"request_size"`
	ResponseCode int       `json:"response_code"`
	DurationMs   int64     `json:"duration_ms"`
	Timestamp    time.Time `json:"timestamp"`
}

// VerifyRequest is the request body for the verification endpoint.
type VerifyRequest struct {
	Text string `json:"text"`
}
