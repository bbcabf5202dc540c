package driven

import (
	"context"

	"github.com/custodia-labs/tallybridge/internal/core/domain"
)

// ArtifactWriter persists the summary artifact.
type ArtifactWriter interface {
	// Write replaces the artifact atomically: readers see either the previous
	// artifact or the complete new one. Returns an error wrapping
	// domain.ErrWrite on any storage failure.
	Write(ctx context.Context, artifact domain.SummaryArtifact) error

	// Path returns the destination of the artifact.
	Path() string
}
