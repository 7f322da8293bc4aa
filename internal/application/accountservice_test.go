package application_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/accountpulse/internal/application"
	"github.com/ericfisherdev/accountpulse/internal/domain/model"
	"github.com/ericfisherdev/accountpulse/internal/domain/port/driven"
)

func (f *fixture) accountService() *application.AccountService {
	return application.NewAccountService(f.accounts, f.healthService(), f.clock, f.newID, discardLogger())
}

func TestAccountService_CreateDefaults(t *testing.T) {
	f := newFixture()

	got, err := f.accountService().Create(context.Background(), application.CreateAccountInput{Name: " Acme "})

	require.NoError(t, err)
	assert.Equal(t, "Acme", got.Name)
	assert.Equal(t, model.DefaultHealthScore, got.HealthScore)
	assert.Equal(t, model.AccountStatusProspective, got.Status)
	assert.Nil(t, got.LastActivityAt)
	assert.Equal(t, now, got.CreatedAt)
}

func TestAccountService_CreateDuplicate(t *testing.T) {
	f := newFixture(activeAccount("acc-1", "Acme"))

	_, err := f.accountService().Create(context.Background(), application.CreateAccountInput{Name: "Acme"})
	assert.ErrorIs(t, err, driven.ErrAccountAlreadyExists)
}

func TestAccountService_CreateRejectsBadStatus(t *testing.T) {
	f := newFixture()

	_, err := f.accountService().Create(context.Background(), application.CreateAccountInput{Name: "Acme", Status: "churned"})

	var verr *application.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "status", verr.Field)
}

func TestAccountService_UpdateStatusRescores(t *testing.T) {
	f := newFixture(activeAccount("acc-1", "Acme"))

	got, err := f.accountService().UpdateStatus(context.Background(), "acc-1", model.AccountStatusAtRisk)

	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, model.AccountStatusAtRisk, f.accounts.accounts["acc-1"].Status)
	assert.Len(t, f.health.records, 1)
}

func TestAccountService_UpdateStatusErrors(t *testing.T) {
	f := newFixture(activeAccount("acc-1", "Acme"))
	svc := f.accountService()

	_, err := svc.UpdateStatus(context.Background(), "acc-1", "bogus")
	var verr *application.ValidationError
	assert.ErrorAs(t, err, &verr)

	_, err = svc.UpdateStatus(context.Background(), "missing", model.AccountStatusActive)
	assert.ErrorIs(t, err, application.ErrAccountNotFound)
	assert.Empty(t, f.accounts.statuses)
}
