package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/tallybridge/internal/core/domain"
	"github.com/custodia-labs/tallybridge/internal/core/ports/driven"
)

// Ensure RunStore implements the interface.
var _ driven.RunStore = (*RunStore)(nil)

// RunStore is an in-memory implementation of driven.RunStore.
type RunStore struct {
	mu     sync.RWMutex
	runs   map[string]domain.RunRecord
	issues map[string][]domain.Issue
}

// NewRunStore creates a new in-memory run store.
func NewRunStore() *RunStore {
	return &RunStore{
		runs:   make(map[string]domain.RunRecord),
		issues: make(map[string][]domain.Issue),
	}
}

// SaveRun stores a run record and its issues.
func (s *RunStore) SaveRun(_ context.Context, run domain.RunRecord, issues []domain.Issue) error {
	if run.ID == "" {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[run.ID] = run
	s.issues[run.ID] = append([]domain.Issue(nil), issues...)
	return nil
}

// GetRun retrieves a run by ID.
func (s *RunStore) GetRun(_ context.Context, id string) (*domain.RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	run, ok := s.runs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &run, nil
}

// ListRuns returns the most recent runs, newest first.
func (s *RunStore) ListRuns(_ context.Context, limit int) ([]domain.RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	runs := make([]domain.RunRecord, 0, len(s.runs))
	for _, run := range s.runs {
		runs = append(runs, run)
	}
	sort.Slice(runs, func(i, j int) bool {
		return runs[i].StartedAt.After(runs[j].StartedAt)
	})

	if limit > 0 && len(runs) > limit {
		runs = runs[:limit]
	}
	return runs, nil
}

// ListIssues returns the issues recorded for a run.
func (s *RunStore) ListIssues(_ context.Context, runID string) ([]domain.Issue, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Issue(nil), s.issues[runID]...), nil
}
