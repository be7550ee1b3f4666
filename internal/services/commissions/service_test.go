package commissions_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"referraldesk/internal/apperrors"
	"referraldesk/internal/domain"
	"referraldesk/internal/services/commissions"
	"referraldesk/internal/services/servicetest"
)

type fixture struct {
	store *servicetest.Store
	svc   *commissions.Service
	lead  domain.Lead
	deal  domain.Deal
	entry domain.CommissionEntry
}

func setup(t *testing.T, dealStatus domain.DealStatus) fixture {
	t.Helper()
	store := servicetest.NewStore()
	lead := store.SeedLead(domain.Lead{
		CompanyID: "co-1", ReferrerID: "ref-1", Name: "Avery", Email: "a@x.com",
		Status: domain.LeadQualified,
	})
	deal := store.SeedDeal(domain.Deal{
		CompanyID: "co-1", LeadID: lead.ID, ReferrerID: "ref-1",
		Amount: decimal.NewFromInt(5000), Status: dealStatus,
	})
	entry := store.SeedCommission(domain.CommissionEntry{
		CompanyID: "co-1", ReferrerID: "ref-1", DealID: deal.ID,
		Amount: decimal.NewFromInt(500), Status: domain.CommissionPending,
	})
	svc := commissions.New(store.CommissionRepo(), store.DealRepo(), store.LeadRepo(), zap.NewNop())
	return fixture{store: store, svc: svc, lead: lead, deal: deal, entry: entry}
}

func TestApproveDoesNotTouchLead(t *testing.T) {
	f := setup(t, domain.DealWon)

	entry, err := f.svc.AdvanceStatus(context.Background(), "co-1", f.entry.ID, domain.CommissionApproved)
	require.NoError(t, err)
	assert.Equal(t, domain.CommissionApproved, entry.Status)

	lead, _ := f.store.Lead(f.lead.ID)
	assert.Equal(t, domain.LeadQualified, lead.Status)
}

func TestPayConvertsLeadWhenDealWon(t *testing.T) {
	f := setup(t, domain.DealWon)

	entry, err := f.svc.AdvanceStatus(context.Background(), "co-1", f.entry.ID, domain.CommissionPaid)
	require.NoError(t, err)
	assert.Equal(t, domain.CommissionPaid, entry.Status)

	lead, _ := f.store.Lead(f.lead.ID)
	assert.Equal(t, domain.LeadConverted, lead.Status)
}

func TestPayLeavesLeadWhenDealNotWon(t *testing.T) {
	f := setup(t, domain.DealPending)

	entry, err := f.svc.AdvanceStatus(context.Background(), "co-1", f.entry.ID, domain.CommissionPaid)
	require.NoError(t, err)
	assert.Equal(t, domain.CommissionPaid, entry.Status)

	lead, _ := f.store.Lead(f.lead.ID)
	assert.Equal(t, domain.LeadQualified, lead.Status)
}

func TestPayKeepsEntryPaidWhenConversionFails(t *testing.T) {
	f := setup(t, domain.DealWon)
	f.store.FailLeadStatusUpdate = errors.New("connection reset")

	entry, err := f.svc.AdvanceStatus(context.Background(), "co-1", f.entry.ID, domain.CommissionPaid)
	require.Error(t, err)
	assert.Equal(t, apperrors.CodePartialWorkflow, apperrors.CodeOf(err))
	assert.Equal(t, domain.CommissionPaid, entry.Status)

	stored, err2 := f.svc.Get(context.Background(), "co-1", f.entry.ID)
	require.NoError(t, err2)
	assert.Equal(t, domain.CommissionPaid, stored.Status, "the paid write stands despite the failed side effect")

	lead, _ := f.store.Lead(f.lead.ID)
	assert.Equal(t, domain.LeadQualified, lead.Status)
}

func TestBackwardMovesAreRejected(t *testing.T) {
	f := setup(t, domain.DealWon)
	_, err := f.svc.AdvanceStatus(context.Background(), "co-1", f.entry.ID, domain.CommissionPaid)
	require.NoError(t, err)

	for _, target := range []domain.CommissionStatus{domain.CommissionApproved, domain.CommissionPending} {
		_, err := f.svc.AdvanceStatus(context.Background(), "co-1", f.entry.ID, target)
		require.Error(t, err, "paid -> %s", target)
		assert.Equal(t, apperrors.CodeValidation, apperrors.CodeOf(err))
	}
}

func TestUnknownStatusRejected(t *testing.T) {
	f := setup(t, domain.DealWon)
	_, err := f.svc.AdvanceStatus(context.Background(), "co-1", f.entry.ID, domain.CommissionStatus("void"))
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeValidation, apperrors.CodeOf(err))
}
