package engine

import (
	"net/url"
	"strings"

	"github.com/verisight/verisight/internal/models"
)

// Trust score constants. The scale is a deliberately coarse stand-in for a
// real reputation model; the exact values are part of the engine's contract.
const (
	trustArticleTrusted    = 0.80
	trustArticleOfficial   = 0.90
	trustArticleUnknown    = 0.40
	trustArticleBadURL     = 0.35
	trustSocialEstablished = 0.70
	trustSocialModerate    = 0.55
	trustSocialDefault     = 0.25
)

// TrustScorer assigns a provenance-based trust score in [0,1] to candidate
// evidence, independent of content relevance.
type TrustScorer struct {
	trustedDomains []string
}

// NewTrustScorer creates a trust scorer with the given set of reputable
// news domains.
func NewTrustScorer(trustedDomains []string) *TrustScorer {
	return &TrustScorer{trustedDomains: trustedDomains}
}

// Score returns the trust score for a candidate. Unknown variants fail
// closed to 0.0.
func (s *TrustScorer) Score(ev models.CandidateEvidence) float64 {
	switch e := ev.(type) {
	case models.ArticleEvidence:
		return s.scoreArticle(e)
	case models.SocialPostEvidence:
		return scoreSocialPost(e)
	default:
		return 0.0
	}
}

// scoreArticle scores a news item by its registrable domain. A link that
// cannot be parsed at all scores 0.35, distinct from the 0.40 of a valid but
// unrecognized domain.
func (s *TrustScorer) scoreArticle(e models.ArticleEvidence) float64 {
	u, err := url.Parse(e.Link)
	if err != nil || u.Host == "" {
		return trustArticleBadURL
	}

	domain := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")

	for _, trusted := range s.trustedDomains {
		if domain == trusted || strings.HasSuffix(domain, "."+trusted) {
			return trustArticleTrusted
		}
	}

	if strings.HasSuffix(domain, ".gov") || strings.Contains(domain, "police") {
		return trustArticleOfficial
	}

	return trustArticleUnknown
}

// scoreSocialPost scores a post by the author's follower count and account
// age, tiered highest-first.
func scoreSocialPost(e models.SocialPostEvidence) float64 {
	ageYears := e.AccountAge.Hours() / 24 / 365

	switch {
	case e.FollowerCount > 5000 && ageYears > 2:
		return trustSocialEstablished
	case e.FollowerCount > 100 && ageYears > 1:
		return trustSocialModerate
	default:
		return trustSocialDefault
	}
}
