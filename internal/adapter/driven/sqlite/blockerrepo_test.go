package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/accountpulse/internal/domain/model"
	"github.com/ericfisherdev/accountpulse/internal/domain/port/driven"
)

func TestBlockerRepo_CreateAndGet(t *testing.T) {
	db := setupTestDB(t)
	addTestAccount(t, db, "acc-1", "Acme")
	repo := NewBlockerRepo(db)
	ctx := context.Background()

	addTestBlocker(t, db, "b-1", "acc-1", baseTime)

	got, err := repo.GetByID(ctx, "b-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "acc-1", got.AccountID)
	assert.Equal(t, model.BlockerStatusOpen, got.Status)
	assert.Equal(t, model.BlockerCategoryTechnical, got.Category)
	assert.Equal(t, 0, got.EscalationLevel)
	assert.Nil(t, got.ResolvedAt)

	missing, err := repo.GetByID(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestBlockerRepo_Resolve_SetsResolvedAtOnce(t *testing.T) {
	db := setupTestDB(t)
	addTestAccount(t, db, "acc-1", "Acme")
	repo := NewBlockerRepo(db)
	ctx := context.Background()
	addTestBlocker(t, db, "b-1", "acc-1", baseTime)

	first := baseTime.AddDate(0, 0, 1)
	require.NoError(t, repo.Resolve(ctx, "b-1", first))

	// A second resolve leaves the original timestamp in place.
	require.NoError(t, repo.Resolve(ctx, "b-1", first.AddDate(0, 0, 3)))

	got, err := repo.GetByID(ctx, "b-1")
	require.NoError(t, err)
	assert.Equal(t, model.BlockerStatusResolved, got.Status)
	require.NotNil(t, got.ResolvedAt)
	assert.True(t, first.Equal(*got.ResolvedAt))
}

func TestBlockerRepo_Resolve_NotFound(t *testing.T) {
	db := setupTestDB(t)

	err := NewBlockerRepo(db).Resolve(context.Background(), "nope", baseTime)
	require.ErrorIs(t, err, driven.ErrBlockerNotFound)
}

func TestBlockerRepo_ListOpen(t *testing.T) {
	db := setupTestDB(t)
	addTestAccount(t, db, "acc-1", "Acme")
	repo := NewBlockerRepo(db)
	ctx := context.Background()

	addTestBlocker(t, db, "b-new", "acc-1", baseTime)
	addTestBlocker(t, db, "b-old", "acc-1", baseTime.AddDate(0, 0, -3))
	addTestBlocker(t, db, "b-done", "acc-1", baseTime)
	require.NoError(t, repo.Resolve(ctx, "b-done", baseTime))

	open, err := repo.ListOpen(ctx)
	require.NoError(t, err)
	require.Len(t, open, 2)
	assert.Equal(t, "b-old", open[0].ID)
	assert.Equal(t, "b-new", open[1].ID)
	assert.Equal(t, "acc-1", open[0].AccountID)
}

func TestBlockerRepo_ListByAccount_OpenFirst(t *testing.T) {
	db := setupTestDB(t)
	addTestAccount(t, db, "acc-1", "Acme")
	addTestAccount(t, db, "acc-2", "Zeta")
	repo := NewBlockerRepo(db)
	ctx := context.Background()

	addTestBlocker(t, db, "b-1", "acc-1", baseTime.AddDate(0, 0, -1))
	addTestBlocker(t, db, "b-2", "acc-1", baseTime)
	addTestBlocker(t, db, "b-3", "acc-2", baseTime)
	require.NoError(t, repo.Resolve(ctx, "b-2", baseTime))

	blockers, err := repo.ListByAccount(ctx, "acc-1")
	require.NoError(t, err)
	require.Len(t, blockers, 2)
	assert.Equal(t, "b-1", blockers[0].ID)
	assert.Equal(t, "b-2", blockers[1].ID)
}

func TestBlockerRepo_EscalateStale(t *testing.T) {
	db := setupTestDB(t)
	addTestAccount(t, db, "acc-1", "Acme")
	repo := NewBlockerRepo(db)
	ctx := context.Background()

	now := baseTime
	threshold := now.AddDate(0, 0, -5)

	addTestBlocker(t, db, "stale", "acc-1", now.AddDate(0, 0, -6))
	addTestBlocker(t, db, "fresh", "acc-1", now.AddDate(0, 0, -2))
	addTestBlocker(t, db, "resolved", "acc-1", now.AddDate(0, 0, -10))
	require.NoError(t, repo.Resolve(ctx, "resolved", now.AddDate(0, 0, -10)))

	changed, err := repo.EscalateStale(ctx, threshold)
	require.NoError(t, err)
	assert.Equal(t, int64(1), changed)

	stale, err := repo.GetByID(ctx, "stale")
	require.NoError(t, err)
	assert.Equal(t, 1, stale.EscalationLevel)
	assert.True(t, now.AddDate(0, 0, -6).Equal(stale.UpdatedAt), "escalation must not touch updated_at")

	fresh, err := repo.GetByID(ctx, "fresh")
	require.NoError(t, err)
	assert.Equal(t, 0, fresh.EscalationLevel)

	resolved, err := repo.GetByID(ctx, "resolved")
	require.NoError(t, err)
	assert.Equal(t, 0, resolved.EscalationLevel)

	// Second sweep finds nothing new.
	changed, err = repo.EscalateStale(ctx, threshold)
	require.NoError(t, err)
	assert.Equal(t, int64(0), changed)
}
