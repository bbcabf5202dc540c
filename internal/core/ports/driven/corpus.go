package driven

import (
	"context"
)

// Corpus provides access to the raw per-entity result documents.
type Corpus interface {
	// List returns the external identifiers of all available documents,
	// sorted lexicographically. The summary artifact itself is never listed.
	// Returns an error wrapping domain.ErrCorpusUnavailable on failure.
	List(ctx context.Context) ([]string, error)

	// Read returns the raw bytes of the document for an external identifier.
	Read(ctx context.Context, externalID string) ([]byte, error)

	// Location describes where the corpus lives, for reporting.
	Location() string
}

// CorpusWatcher reports when the corpus changes.
type CorpusWatcher interface {
	// Watch sends a value after each burst of changes settles.
	// The channel is closed when ctx is cancelled.
	Watch(ctx context.Context) (<-chan struct{}, error)
}
