package driven

import (
	"context"

	"github.com/custodia-labs/tallybridge/internal/core/domain"
)

// CrosswalkSource loads the external-to-canonical identifier mapping.
type CrosswalkSource interface {
	// Load fetches and parses the crosswalk.
	// Returns an error wrapping domain.ErrTransport when the fetch fails
	// and domain.ErrFormat when the payload has the wrong shape.
	Load(ctx context.Context) (*domain.Crosswalk, error)
}
