package driven

import (
	"context"

	"github.com/custodia-labs/tallybridge/internal/core/domain"
)

// ResultExtractor reads the target candidates' votes from one raw document.
type ResultExtractor interface {
	// Extract parses content and returns the votes for both offices.
	// A target candidate missing from its list yields 0 for that office.
	// Returns an error wrapping domain.ErrFormat when the document cannot be
	// parsed into the expected shape.
	Extract(ctx context.Context, externalID string, content []byte) (domain.ExtractedResult, error)
}
