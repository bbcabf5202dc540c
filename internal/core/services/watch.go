package services

import (
	"context"
	"errors"
	"sync"

	"github.com/custodia-labs/tallybridge/internal/core/domain"
	"github.com/custodia-labs/tallybridge/internal/core/ports/driven"
	"github.com/custodia-labs/tallybridge/internal/core/ports/driving"
	"github.com/custodia-labs/tallybridge/internal/logger"
)

// Ensure WatchService implements the interface.
var _ driving.Watcher = (*WatchService)(nil)

// WatchService reruns the full pipeline whenever the corpus changes.
// Runs never overlap: changes arriving during a run trigger one more run
// after it finishes.
type WatchService struct {
	pipeline driving.Pipeline
	watcher  driven.CorpusWatcher

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
}

// NewWatchService creates a watch service.
func NewWatchService(pipeline driving.Pipeline, watcher driven.CorpusWatcher) *WatchService {
	return &WatchService{
		pipeline: pipeline,
		watcher:  watcher,
	}
}

// Watch runs the pipeline once, then again after every corpus change.
// It blocks until ctx is cancelled or Stop is called.
func (w *WatchService) Watch(ctx context.Context, opts driving.RunOptions, handle driving.RunHandler) error {
	if w.watcher == nil {
		return errors.New("corpus watcher not configured")
	}

	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.stopCh = make(chan struct{})
	stopCh := w.stopCh
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
	}()

	changes, err := w.watcher.Watch(ctx)
	if err != nil {
		return err
	}

	if handle == nil {
		handle = func(*domain.RunReport, error) {}
	}
	runOnce := func() {
		report, err := w.pipeline.Run(ctx, opts)
		handle(report, err)
	}

	runOnce()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-stopCh:
			return nil
		case _, ok := <-changes:
			if !ok {
				return nil
			}
			logger.Info("Corpus changed, rerunning pipeline")
			runOnce()
		}
	}
}

// Stop ends a running Watch call.
func (w *WatchService) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.running {
		return
	}
	w.running = false
	close(w.stopCh)
}
