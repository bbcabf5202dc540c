package driving

import (
	"context"

	"github.com/custodia-labs/tallybridge/internal/core/domain"
)

// RunHistory exposes recorded pipeline runs.
type RunHistory interface {
	// List returns the most recent runs, newest first.
	List(ctx context.Context, limit int) ([]domain.RunRecord, error)

	// Get returns a run and its recorded issues.
	Get(ctx context.Context, runID string) (*domain.RunRecord, []domain.Issue, error)
}
