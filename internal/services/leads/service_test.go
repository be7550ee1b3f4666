package leads_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"referraldesk/internal/apperrors"
	"referraldesk/internal/domain"
	"referraldesk/internal/ports"
	"referraldesk/internal/services/leads"
	"referraldesk/internal/services/referrers"
	"referraldesk/internal/services/servicetest"
)

func newService(store *servicetest.Store) *leads.Service {
	resolver := referrers.New(store.ReferrerRepo(), zap.NewNop(), 0, time.Millisecond)
	return leads.New(store.LeadRepo(), store.DealRepo(), resolver, zap.NewNop())
}

func seedReferrer(store *servicetest.Store, code string) domain.Referrer {
	return store.SeedReferrer(domain.Referrer{
		CompanyID: "co-1", Name: "Dana", Email: "d@x.com",
		CommissionRate: decimal.NewFromInt(10),
		Status:         domain.ReferrerActive, ReferralCode: &code,
	})
}

func TestCreateDefaultsAndNormalises(t *testing.T) {
	store := servicetest.NewStore()
	svc := newService(store)
	ref := seedReferrer(store, "REFAAAA0001")

	l, err := svc.Create(context.Background(), "co-1", ports.LeadInput{
		ReferrerID: ref.ID, Name: "Avery", Email: "Avery@Example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.LeadNew, l.Status)
	assert.Equal(t, "avery@example.com", l.Email)
	assert.Equal(t, ref.ID, l.ReferrerID)
}

func TestCreateRejectsQualifiedStatus(t *testing.T) {
	store := servicetest.NewStore()
	svc := newService(store)
	ref := seedReferrer(store, "REFAAAA0002")

	_, err := svc.Create(context.Background(), "co-1", ports.LeadInput{
		ReferrerID: ref.ID, Name: "Avery", Email: "a@x.com",
		Status: domain.LeadQualified,
	})
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeValidation, apperrors.CodeOf(err))
}

func TestSetStatusRejectsQualified(t *testing.T) {
	store := servicetest.NewStore()
	svc := newService(store)
	lead := store.SeedLead(domain.Lead{CompanyID: "co-1", ReferrerID: "ref-1", Name: "Avery", Email: "a@x.com", Status: domain.LeadNew})

	_, err := svc.SetStatus(context.Background(), "co-1", lead.ID, domain.LeadQualified)
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeValidation, apperrors.CodeOf(err))

	got, ok := store.Lead(lead.ID)
	require.True(t, ok)
	assert.Equal(t, domain.LeadNew, got.Status)

	updated, err := svc.SetStatus(context.Background(), "co-1", lead.ID, domain.LeadContacted)
	require.NoError(t, err)
	assert.Equal(t, domain.LeadContacted, updated.Status)
}

func TestUpdateRejectsQualifyingThroughEdit(t *testing.T) {
	store := servicetest.NewStore()
	svc := newService(store)
	lead := store.SeedLead(domain.Lead{CompanyID: "co-1", ReferrerID: "ref-1", Name: "Avery", Email: "a@x.com", Status: domain.LeadContacted})

	_, err := svc.Update(context.Background(), "co-1", lead.ID, ports.LeadInput{
		ReferrerID: "ref-1", Name: "Avery", Email: "a@x.com",
		Status: domain.LeadQualified,
	})
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeValidation, apperrors.CodeOf(err))
}

func TestCapture(t *testing.T) {
	store := servicetest.NewStore()
	svc := newService(store)
	ref := seedReferrer(store, "REFAAAA0003")

	l, err := svc.Capture(context.Background(), "REFAAAA0003", ports.CaptureInput{
		Name: "  Avery  planner", Email: " Avery@Example.com ",
	})
	require.NoError(t, err)
	assert.Equal(t, "co-1", l.CompanyID)
	assert.Equal(t, ref.ID, l.ReferrerID)
	assert.Equal(t, domain.LeadNew, l.Status)
	assert.Equal(t, "avery@example.com", l.Email)

	// Same email into the same company is refused.
	_, err = svc.Capture(context.Background(), "REFAAAA0003", ports.CaptureInput{
		Name: "Avery", Email: "avery@example.com",
	})
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeDuplicate, apperrors.CodeOf(err))
}

func TestCaptureRejectsInactiveCode(t *testing.T) {
	store := servicetest.NewStore()
	svc := newService(store)
	code := "REFAAAA0004"
	store.SeedReferrer(domain.Referrer{
		CompanyID: "co-1", Name: "Dana", Email: "d@x.com",
		Status: domain.ReferrerInactive, ReferralCode: &code,
	})

	_, err := svc.Capture(context.Background(), code, ports.CaptureInput{Name: "Avery", Email: "a@x.com"})
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeValidation, apperrors.CodeOf(err))
}

func TestRequestQualifyDuplicateDealGuard(t *testing.T) {
	store := servicetest.NewStore()
	svc := newService(store)
	lead := store.SeedLead(domain.Lead{CompanyID: "co-1", ReferrerID: "ref-1", Name: "Avery", Email: "a@x.com", Status: domain.LeadContacted})

	got, err := svc.RequestQualify(context.Background(), "co-1", lead.ID)
	require.NoError(t, err)
	assert.Equal(t, lead.ID, got.ID)

	store.SeedDeal(domain.Deal{CompanyID: "co-1", LeadID: lead.ID, ReferrerID: "ref-1", Amount: decimal.NewFromInt(100), Status: domain.DealPending})

	_, err = svc.RequestQualify(context.Background(), "co-1", lead.ID)
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeDuplicate, apperrors.CodeOf(err))
	assert.EqualError(t, err, "a deal already exists for this lead")
}

func TestDeleteLeavesDealOrphaned(t *testing.T) {
	store := servicetest.NewStore()
	svc := newService(store)
	lead := store.SeedLead(domain.Lead{CompanyID: "co-1", ReferrerID: "ref-1", Name: "Avery", Email: "a@x.com", Status: domain.LeadQualified})
	deal := store.SeedDeal(domain.Deal{CompanyID: "co-1", LeadID: lead.ID, ReferrerID: "ref-1", Amount: decimal.NewFromInt(100), Status: domain.DealPending})

	require.NoError(t, svc.Delete(context.Background(), "co-1", lead.ID))
	_, ok := store.Lead(lead.ID)
	assert.False(t, ok)
	_, ok = store.Deal(deal.ID)
	assert.True(t, ok, "deal row survives the lead delete")
}
