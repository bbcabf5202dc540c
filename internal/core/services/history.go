package services

import (
	"context"
	"errors"

	"github.com/custodia-labs/tallybridge/internal/core/domain"
	"github.com/custodia-labs/tallybridge/internal/core/ports/driven"
	"github.com/custodia-labs/tallybridge/internal/core/ports/driving"
)

// Ensure HistoryService implements the interface.
var _ driving.RunHistory = (*HistoryService)(nil)

// ErrHistoryDisabled is returned when no run store is configured.
var ErrHistoryDisabled = errors.New("run history is disabled")

// HistoryService reads recorded runs.
type HistoryService struct {
	store driven.RunStore
}

// NewHistoryService creates a history service. A nil store disables history.
func NewHistoryService(store driven.RunStore) *HistoryService {
	return &HistoryService{store: store}
}

// List returns the most recent runs, newest first.
func (s *HistoryService) List(ctx context.Context, limit int) ([]domain.RunRecord, error) {
	if s.store == nil {
		return nil, ErrHistoryDisabled
	}
	return s.store.ListRuns(ctx, limit)
}

// Get returns a run and its issues.
func (s *HistoryService) Get(ctx context.Context, runID string) (*domain.RunRecord, []domain.Issue, error) {
	if s.store == nil {
		return nil, nil, ErrHistoryDisabled
	}
	if runID == "" {
		return nil, nil, domain.ErrInvalidInput
	}

	run, err := s.store.GetRun(ctx, runID)
	if err != nil {
		return nil, nil, err
	}

	issues, err := s.store.ListIssues(ctx, runID)
	if err != nil {
		return nil, nil, err
	}
	return run, issues, nil
}
