package deals_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"referraldesk/internal/apperrors"
	"referraldesk/internal/domain"
	"referraldesk/internal/ports"
	"referraldesk/internal/services/deals"
	"referraldesk/internal/services/servicetest"
)

type fixture struct {
	store *servicetest.Store
	svc   *deals.Service
	ref   domain.Referrer
	lead  domain.Lead
}

func setup(t *testing.T) fixture {
	t.Helper()
	store := servicetest.NewStore()
	ref := store.SeedReferrer(domain.Referrer{
		CompanyID: "co-1", Name: "Dana", Email: "d@x.com",
		CommissionRate: decimal.NewFromInt(10), Status: domain.ReferrerActive,
	})
	lead := store.SeedLead(domain.Lead{
		CompanyID: "co-1", ReferrerID: ref.ID, Name: "Avery", Email: "a@x.com",
		Status: domain.LeadQualified,
	})
	svc := deals.New(store.DealRepo(), store.LeadRepo(), store.ReferrerRepo(), store.CommissionRepo(), zap.NewNop())
	return fixture{store: store, svc: svc, ref: ref, lead: lead}
}

func TestCreateCopiesReferrerFromLead(t *testing.T) {
	f := setup(t)

	d, err := f.svc.Create(context.Background(), "co-1", ports.DealInput{
		LeadID: f.lead.ID, Amount: decimal.NewFromInt(5000),
	})
	require.NoError(t, err)
	assert.Equal(t, f.ref.ID, d.ReferrerID)
	assert.Equal(t, domain.DealPending, d.Status)
	assert.Nil(t, d.ClosedAt)
	assert.Empty(t, f.store.CommissionsForDeal(d.ID), "pending deal earns nothing yet")
}

func TestCreateValidatesAmount(t *testing.T) {
	f := setup(t)

	for _, amount := range []int64{0, -10} {
		_, err := f.svc.Create(context.Background(), "co-1", ports.DealInput{
			LeadID: f.lead.ID, Amount: decimal.NewFromInt(amount),
		})
		require.Error(t, err)
		assert.Equal(t, apperrors.CodeValidation, apperrors.CodeOf(err))
	}
}

func TestCreateRejectsSecondDealForLead(t *testing.T) {
	f := setup(t)

	_, err := f.svc.Create(context.Background(), "co-1", ports.DealInput{
		LeadID: f.lead.ID, Amount: decimal.NewFromInt(100),
	})
	require.NoError(t, err)

	_, err = f.svc.Create(context.Background(), "co-1", ports.DealInput{
		LeadID: f.lead.ID, Amount: decimal.NewFromInt(200),
	})
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeDuplicate, apperrors.CodeOf(err))
	assert.Equal(t, 1, f.store.DealCount())
}

func TestCreateWonStampsClosedAtAndLedger(t *testing.T) {
	f := setup(t)

	d, err := f.svc.Create(context.Background(), "co-1", ports.DealInput{
		LeadID: f.lead.ID, Amount: decimal.New(500000, -2), Status: domain.DealWon,
	})
	require.NoError(t, err)
	require.NotNil(t, d.ClosedAt)

	entries := f.store.CommissionsForDeal(d.ID)
	require.Len(t, entries, 1)
	assert.True(t, entries[0].Amount.Equal(decimal.NewFromInt(500)), "5000.00 at 10%% is 500, got %s", entries[0].Amount)
	assert.Equal(t, domain.CommissionPending, entries[0].Status)
	assert.Equal(t, f.ref.ID, entries[0].ReferrerID)
}

func TestUpdateToWonCreatesLedgerEntryOnce(t *testing.T) {
	f := setup(t)
	d, err := f.svc.Create(context.Background(), "co-1", ports.DealInput{
		LeadID: f.lead.ID, Amount: decimal.NewFromInt(5000),
	})
	require.NoError(t, err)

	won := domain.DealWon
	updated, err := f.svc.Update(context.Background(), "co-1", d.ID, ports.DealUpdate{Status: &won})
	require.NoError(t, err)
	require.NotNil(t, updated.ClosedAt)
	require.Len(t, f.store.CommissionsForDeal(d.ID), 1)
	firstClosed := *updated.ClosedAt

	// Re-opening and winning again keeps the single entry and the
	// original close timestamp.
	pending := domain.DealPending
	_, err = f.svc.Update(context.Background(), "co-1", d.ID, ports.DealUpdate{Status: &pending})
	require.NoError(t, err)
	again, err := f.svc.Update(context.Background(), "co-1", d.ID, ports.DealUpdate{Status: &won})
	require.NoError(t, err)
	assert.Len(t, f.store.CommissionsForDeal(d.ID), 1)
	assert.True(t, again.ClosedAt.Equal(firstClosed))
}

func TestAmountEditAfterWinDoesNotReprice(t *testing.T) {
	f := setup(t)
	won := domain.DealWon
	d, err := f.svc.Create(context.Background(), "co-1", ports.DealInput{
		LeadID: f.lead.ID, Amount: decimal.NewFromInt(5000), Status: won,
	})
	require.NoError(t, err)

	bigger := decimal.NewFromInt(9000)
	_, err = f.svc.Update(context.Background(), "co-1", d.ID, ports.DealUpdate{Amount: &bigger})
	require.NoError(t, err)

	entries := f.store.CommissionsForDeal(d.ID)
	require.Len(t, entries, 1)
	assert.True(t, entries[0].Amount.Equal(decimal.NewFromInt(500)), "entry keeps the amount fixed at win time")
}

func TestWinWithMissingReferrerReportsPartialState(t *testing.T) {
	f := setup(t)
	orphan := f.store.SeedLead(domain.Lead{
		CompanyID: "co-1", ReferrerID: "ref-gone", Name: "Briar", Email: "b@x.com",
		Status: domain.LeadQualified,
	})

	d, err := f.svc.Create(context.Background(), "co-1", ports.DealInput{
		LeadID: orphan.ID, Amount: decimal.NewFromInt(100), Status: domain.DealWon,
	})
	require.Error(t, err)
	assert.Equal(t, apperrors.CodePartialWorkflow, apperrors.CodeOf(err))

	// The deal itself was persisted and stays won; only the ledger entry
	// is missing.
	stored, ok := f.store.Deal(d.ID)
	require.True(t, ok)
	assert.Equal(t, domain.DealWon, stored.Status)
	assert.Empty(t, f.store.CommissionsForDeal(d.ID))
}

func TestZeroRateStillWritesLedgerEntry(t *testing.T) {
	f := setup(t)
	freeRef := f.store.SeedReferrer(domain.Referrer{
		CompanyID: "co-1", Name: "Noor", Email: "n@x.com",
		CommissionRate: decimal.Zero, Status: domain.ReferrerActive,
	})
	lead := f.store.SeedLead(domain.Lead{
		CompanyID: "co-1", ReferrerID: freeRef.ID, Name: "Briar", Email: "b@x.com",
		Status: domain.LeadQualified,
	})

	d, err := f.svc.Create(context.Background(), "co-1", ports.DealInput{
		LeadID: lead.ID, Amount: decimal.NewFromInt(5000), Status: domain.DealWon,
	})
	require.NoError(t, err)

	entries := f.store.CommissionsForDeal(d.ID)
	require.Len(t, entries, 1)
	assert.True(t, entries[0].Amount.IsZero())
}

func TestDeleteLeavesLedgerEntryOrphaned(t *testing.T) {
	f := setup(t)
	d, err := f.svc.Create(context.Background(), "co-1", ports.DealInput{
		LeadID: f.lead.ID, Amount: decimal.NewFromInt(5000), Status: domain.DealWon,
	})
	require.NoError(t, err)
	require.Len(t, f.store.CommissionsForDeal(d.ID), 1)

	require.NoError(t, f.svc.Delete(context.Background(), "co-1", d.ID))
	_, ok := f.store.Deal(d.ID)
	assert.False(t, ok)
	assert.Len(t, f.store.CommissionsForDeal(d.ID), 1, "ledger entry survives the deal delete")
}
