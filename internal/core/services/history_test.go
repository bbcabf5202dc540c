package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/tallybridge/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/tallybridge/internal/core/domain"
)

func TestHistoryService(t *testing.T) {
	ctx := context.Background()
	store := memory.NewRunStore()
	now := time.Now()
	require.NoError(t, store.SaveRun(ctx, domain.RunRecord{ID: "old", StartedAt: now.Add(-time.Hour)}, nil))
	require.NoError(t, store.SaveRun(ctx, domain.RunRecord{ID: "new", StartedAt: now},
		[]domain.Issue{{Kind: domain.IssueUnmapped, ExternalID: "200"}}))

	svc := NewHistoryService(store)

	t.Run("lists newest first", func(t *testing.T) {
		runs, err := svc.List(ctx, 10)
		require.NoError(t, err)
		require.Len(t, runs, 2)
		assert.Equal(t, "new", runs[0].ID)
	})

	t.Run("get returns run with issues", func(t *testing.T) {
		run, issues, err := svc.Get(ctx, "new")
		require.NoError(t, err)
		assert.Equal(t, "new", run.ID)
		require.Len(t, issues, 1)
		assert.Equal(t, "200", issues[0].ExternalID)
	})

	t.Run("get unknown run", func(t *testing.T) {
		_, _, err := svc.Get(ctx, "missing")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("get requires id", func(t *testing.T) {
		_, _, err := svc.Get(ctx, "")
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestHistoryService_Disabled(t *testing.T) {
	svc := NewHistoryService(nil)

	_, err := svc.List(context.Background(), 10)
	assert.ErrorIs(t, err, ErrHistoryDisabled)

	_, _, err = svc.Get(context.Background(), "x")
	assert.ErrorIs(t, err, ErrHistoryDisabled)
}
