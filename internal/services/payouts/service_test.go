package payouts_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"referraldesk/internal/apperrors"
	"referraldesk/internal/domain"
	"referraldesk/internal/ports"
	"referraldesk/internal/services/payouts"
	"referraldesk/internal/services/servicetest"
)

func TestCreateStartsPending(t *testing.T) {
	store := servicetest.NewStore()
	svc := payouts.New(store.PayoutRepo())

	method := "bank_transfer"
	p, err := svc.Create(context.Background(), "co-1", ports.PayoutInput{
		ReferrerID: "ref-1", Amount: decimal.NewFromInt(1200), PaymentMethod: &method,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.PayoutPending, p.Status)
	assert.Nil(t, p.PaidAt)
	assert.Nil(t, p.TransactionID)
}

func TestCreateValidatesInput(t *testing.T) {
	svc := payouts.New(servicetest.NewStore().PayoutRepo())

	_, err := svc.Create(context.Background(), "co-1", ports.PayoutInput{
		Amount: decimal.NewFromInt(100),
	})
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeValidation, apperrors.CodeOf(err))

	_, err = svc.Create(context.Background(), "co-1", ports.PayoutInput{
		ReferrerID: "ref-1", Amount: decimal.Zero,
	})
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeValidation, apperrors.CodeOf(err))
}

func TestCompletedStampsPaidAt(t *testing.T) {
	store := servicetest.NewStore()
	svc := payouts.New(store.PayoutRepo())

	p, err := svc.Create(context.Background(), "co-1", ports.PayoutInput{
		ReferrerID: "ref-1", Amount: decimal.NewFromInt(1200),
	})
	require.NoError(t, err)

	moved, err := svc.UpdateStatus(context.Background(), "co-1", p.ID, domain.PayoutProcessing)
	require.NoError(t, err)
	assert.Equal(t, domain.PayoutProcessing, moved.Status)
	assert.Nil(t, moved.PaidAt)

	done, err := svc.UpdateStatus(context.Background(), "co-1", p.ID, domain.PayoutCompleted)
	require.NoError(t, err)
	assert.Equal(t, domain.PayoutCompleted, done.Status)
	assert.NotNil(t, done.PaidAt)
}

func TestUpdateStatusRejectsUnknownValue(t *testing.T) {
	svc := payouts.New(servicetest.NewStore().PayoutRepo())
	_, err := svc.UpdateStatus(context.Background(), "co-1", "payout-1", domain.PayoutStatus("queued"))
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeValidation, apperrors.CodeOf(err))
}
