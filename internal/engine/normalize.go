package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/verisight/verisight/internal/models"
)

// Normalize cleans the claim text and extracts its named entities via the
// annotation capability. Content tokens are kept in original order, joined by
// single spaces; entities keep their order of appearance, duplicates included.
func (p *Pipeline) Normalize(ctx context.Context, claimText string) (*models.Claim, error) {
	ann, err := p.annotator.Annotate(ctx, claimText)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNormalizationUnavailable, err)
	}

	return &models.Claim{
		Text:           claimText,
		NormalizedText: strings.Join(ann.Tokens, " "),
		Entities:       ann.Entities,
	}, nil
}
