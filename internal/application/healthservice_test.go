package application_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/accountpulse/internal/application"
	"github.com/ericfisherdev/accountpulse/internal/domain/model"
)

func (f *fixture) healthService() *application.HealthService {
	return application.NewHealthService(f.accounts, f.pcrs, f.health, f.clock, f.newID, discardLogger())
}

func activeAccount(id, name string) model.Account {
	return model.Account{
		ID:             id,
		Name:           name,
		HealthScore:    model.DefaultHealthScore,
		Status:         model.AccountStatusActive,
		LastActivityAt: timePtr(daysAgo(2)),
		CreatedAt:      daysAgo(100),
	}
}

func TestApplyHealthScore_MissingAccountWritesNothing(t *testing.T) {
	f := newFixture()

	got, err := f.healthService().ApplyHealthScore(context.Background(), "missing")

	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Empty(t, f.health.records)
}

func TestApplyHealthScore_UnchangedScoreLogsWithoutNote(t *testing.T) {
	f := newFixture(activeAccount("acc-1", "Acme"))

	got, err := f.healthService().ApplyHealthScore(context.Background(), "acc-1")

	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 5, got.Score)

	require.Len(t, f.health.records, 1)
	rec := f.health.records[0]
	assert.Nil(t, rec.Note)
	assert.Equal(t, "acc-1", rec.Log.AccountID)
	assert.Equal(t, now, rec.Log.CalculatedAt)
	assert.Equal(t, got.Breakdown, rec.Log.Breakdown)
	assert.Equal(t, daysAgo(2), *f.accounts.accounts["acc-1"].LastActivityAt)
}

func TestApplyHealthScore_ChangedScoreAddsNoteAndBumpsActivity(t *testing.T) {
	f := newFixture(activeAccount("acc-1", "Acme"))
	for i := range 4 {
		f.blockers.blockers = append(f.blockers.blockers, &model.Blocker{
			ID: fmt.Sprintf("b%d", i), AccountID: "acc-1", Status: model.BlockerStatusOpen, UpdatedAt: now,
		})
	}

	got, err := f.healthService().ApplyHealthScore(context.Background(), "acc-1")

	require.NoError(t, err)
	require.NotNil(t, got)
	// blocker 1, activity 5, pcr 5, expiry 5
	assert.Equal(t, 4, got.Score)

	require.Len(t, f.health.records, 1)
	note := f.health.records[0].Note
	require.NotNil(t, note)
	assert.Equal(t, "Health score updated: 5 → 4", note.Content)
	assert.Equal(t, model.ActivityTypeAutomated, note.Type)
	assert.Equal(t, now, *f.accounts.accounts["acc-1"].LastActivityAt)
	assert.Equal(t, 4, f.accounts.accounts["acc-1"].HealthScore)
}

func TestApplyHealthScore_RepeatedCallsAppendLogOnly(t *testing.T) {
	f := newFixture(activeAccount("acc-1", "Acme"))
	f.blockers.blockers = append(f.blockers.blockers,
		&model.Blocker{ID: "b1", AccountID: "acc-1", Status: model.BlockerStatusOpen},
		&model.Blocker{ID: "b2", AccountID: "acc-1", Status: model.BlockerStatusOpen},
		&model.Blocker{ID: "b3", AccountID: "acc-1", Status: model.BlockerStatusOpen},
		&model.Blocker{ID: "b4", AccountID: "acc-1", Status: model.BlockerStatusOpen},
	)
	svc := f.healthService()

	first, err := svc.ApplyHealthScore(context.Background(), "acc-1")
	require.NoError(t, err)
	second, err := svc.ApplyHealthScore(context.Background(), "acc-1")
	require.NoError(t, err)

	assert.Equal(t, first.Score, second.Score)
	require.Len(t, f.health.records, 2)
	assert.NotNil(t, f.health.records[0].Note)
	assert.Nil(t, f.health.records[1].Note)
	assert.Len(t, f.activity.entries, 1)
}

func TestApplyHealthScore_UsesContractAndPCRSignals(t *testing.T) {
	acc := activeAccount("acc-1", "Acme")
	acc.ContractEndDate = timePtr(daysAhead(10))
	f := newFixture(acc)
	f.pcrs.pcrs = []*model.ProductChangeRequest{
		{ID: "p1", Status: model.PCRStatusRequested},
		{ID: "p2", Status: model.PCRStatusInProgress},
		{ID: "p3", Status: model.PCRStatusCompleted},
	}

	got, err := f.healthService().ApplyHealthScore(context.Background(), "acc-1")

	require.NoError(t, err)
	require.NotNil(t, got)
	assert.InDelta(t, 4.0, got.Breakdown.PCRScore, 0.0001)
	assert.Equal(t, 1, got.Breakdown.ExpiryScore)
	// 5 + 5 + 4 + 1 = 15 / 4 = 3.75
	assert.Equal(t, 4, got.Score)
}

func TestApplyHealthScore_StorageErrorsPropagate(t *testing.T) {
	t.Run("signals", func(t *testing.T) {
		f := newFixture(activeAccount("acc-1", "Acme"))
		f.accounts.signalsErr = errStorage

		_, err := f.healthService().ApplyHealthScore(context.Background(), "acc-1")
		assert.ErrorIs(t, err, errStorage)
	})

	t.Run("pcr count", func(t *testing.T) {
		f := newFixture(activeAccount("acc-1", "Acme"))
		f.pcrs.countErr = errStorage

		_, err := f.healthService().ApplyHealthScore(context.Background(), "acc-1")
		assert.ErrorIs(t, err, errStorage)
		assert.Empty(t, f.health.records)
	})

	t.Run("record", func(t *testing.T) {
		f := newFixture(activeAccount("acc-1", "Acme"))
		f.health.recordErr = errStorage

		_, err := f.healthService().ApplyHealthScore(context.Background(), "acc-1")
		assert.ErrorIs(t, err, errStorage)
	})
}

func TestHealthService_History(t *testing.T) {
	f := newFixture(activeAccount("acc-1", "Acme"))
	svc := f.healthService()

	for range 3 {
		_, err := svc.ApplyHealthScore(context.Background(), "acc-1")
		require.NoError(t, err)
	}

	history, err := svc.History(context.Background(), "acc-1", 2)
	require.NoError(t, err)
	assert.Len(t, history, 2)
}
