package driving

import (
	"context"

	"github.com/custodia-labs/tallybridge/internal/core/domain"
)

// RunHandler receives the outcome of each watched run.
type RunHandler func(report *domain.RunReport, err error)

// Watcher reruns the pipeline whenever the corpus changes.
type Watcher interface {
	// Watch runs once, then again after every settled burst of corpus
	// changes. Blocks until ctx is cancelled or Stop is called.
	Watch(ctx context.Context, opts RunOptions, handle RunHandler) error

	// Stop ends a running Watch call.
	Stop()
}
