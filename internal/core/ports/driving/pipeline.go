package driving

import (
	"context"

	"github.com/custodia-labs/tallybridge/internal/core/domain"
)

// Pipeline runs the crosswalk reconciliation batch job.
type Pipeline interface {
	// Run loads the crosswalk, scans the corpus, extracts and aggregates every
	// document, and writes the summary artifact. A fatal error aborts the run
	// before anything is written.
	Run(ctx context.Context, opts RunOptions) (*domain.RunReport, error)

	// Scan lists corpus documents with their crosswalk mapping without
	// extracting or writing anything.
	Scan(ctx context.Context, opts RunOptions) ([]ScanEntry, error)
}

// RunOptions tunes a single invocation.
type RunOptions struct {
	// DryRun computes and reports without writing the artifact.
	DryRun bool

	// Strict makes a mismatch against expected totals fatal.
	Strict bool

	// Offline loads the crosswalk from the local cache instead of the network.
	Offline bool
}

// ScanEntry describes one corpus document.
type ScanEntry struct {
	// ExternalID is the document's identifier.
	ExternalID string

	// CanonicalID is empty when the document is unmapped.
	CanonicalID string

	// Mapped reports whether the crosswalk knows the external identifier.
	Mapped bool
}
