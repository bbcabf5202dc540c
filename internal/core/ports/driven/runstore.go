package driven

import (
	"context"

	"github.com/custodia-labs/tallybridge/internal/core/domain"
)

// RunStore persists run history.
type RunStore interface {
	// SaveRun stores a run record and its issues, replacing any previous
	// record with the same ID.
	SaveRun(ctx context.Context, run domain.RunRecord, issues []domain.Issue) error

	// GetRun retrieves a run by ID.
	// Returns domain.ErrNotFound if the run does not exist.
	GetRun(ctx context.Context, id string) (*domain.RunRecord, error)

	// ListRuns returns the most recent runs, newest first.
	// A limit of zero or less returns all runs.
	ListRuns(ctx context.Context, limit int) ([]domain.RunRecord, error)

	// ListIssues returns the issues recorded for a run, in recorded order.
	ListIssues(ctx context.Context, runID string) ([]domain.Issue, error)
}
