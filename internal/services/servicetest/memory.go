// Package servicetest provides in-memory repository implementations for
// exercising the services without a database.
package servicetest

import (
	"context"
	"fmt"
	"sync"
	"time"

	"referraldesk/internal/apperrors"
	"referraldesk/internal/domain"
)

// Store holds all entity maps behind one mutex. The Fail* fields inject
// errors into specific operations to drive partial-failure paths.
type Store struct {
	mu          sync.Mutex
	seq         int
	referrers   map[string]domain.Referrer
	leads       map[string]domain.Lead
	deals       map[string]domain.Deal
	commissions map[string]domain.CommissionEntry
	payouts     map[string]domain.Payout

	FailLeadUpdate       error
	FailLeadStatusUpdate error
	FailCommissionCreate error
	FailReferrerByCode   error
	// ReferrerByCodeFailures makes GetByCode fail this many times before
	// succeeding, for exercising the bounded claim retry.
	ReferrerByCodeFailures int
}

func NewStore() *Store {
	return &Store{
		referrers:   make(map[string]domain.Referrer),
		leads:       make(map[string]domain.Lead),
		deals:       make(map[string]domain.Deal),
		commissions: make(map[string]domain.CommissionEntry),
		payouts:     make(map[string]domain.Payout),
	}
}

func (s *Store) nextID(prefix string) string {
	s.seq++
	return fmt.Sprintf("%s-%d", prefix, s.seq)
}

func notFound(entity string) error {
	return apperrors.Newf(apperrors.CodeNotFound, "%s not found", entity)
}

// Seed helpers insert rows directly, bypassing service validation.

func (s *Store) SeedReferrer(r domain.Referrer) domain.Referrer {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r.ID == "" {
		r.ID = s.nextID("ref")
	}
	s.referrers[r.ID] = r
	return r
}

func (s *Store) SeedLead(l domain.Lead) domain.Lead {
	s.mu.Lock()
	defer s.mu.Unlock()
	if l.ID == "" {
		l.ID = s.nextID("lead")
	}
	s.leads[l.ID] = l
	return l
}

func (s *Store) SeedDeal(d domain.Deal) domain.Deal {
	s.mu.Lock()
	defer s.mu.Unlock()
	if d.ID == "" {
		d.ID = s.nextID("deal")
	}
	s.deals[d.ID] = d
	return d
}

func (s *Store) SeedCommission(c domain.CommissionEntry) domain.CommissionEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == "" {
		c.ID = s.nextID("comm")
	}
	s.commissions[c.ID] = c
	return c
}

// Direct state readers for assertions.

func (s *Store) Lead(id string) (domain.Lead, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.leads[id]
	return l, ok
}

func (s *Store) Deal(id string) (domain.Deal, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.deals[id]
	return d, ok
}

func (s *Store) DealCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.deals)
}

func (s *Store) CommissionsForDeal(dealID string) []domain.CommissionEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.CommissionEntry
	for _, c := range s.commissions {
		if c.DealID == dealID {
			out = append(out, c)
		}
	}
	return out
}

func (s *Store) Payout(id string) (domain.Payout, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.payouts[id]
	return p, ok
}

// Referrer repository

type ReferrerRepo struct{ s *Store }

func (s *Store) ReferrerRepo() *ReferrerRepo { return &ReferrerRepo{s: s} }

func (r *ReferrerRepo) Create(_ context.Context, ref domain.Referrer) (domain.Referrer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ref.ID = r.s.nextID("ref")
	ref.CreatedAt = time.Now()
	ref.UpdatedAt = ref.CreatedAt
	r.s.referrers[ref.ID] = ref
	return ref, nil
}

func (r *ReferrerRepo) Update(_ context.Context, ref domain.Referrer) (domain.Referrer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.referrers[ref.ID]
	if !ok || cur.CompanyID != ref.CompanyID {
		return domain.Referrer{}, notFound("referrer")
	}
	ref.UpdatedAt = time.Now()
	r.s.referrers[ref.ID] = ref
	return ref, nil
}

func (r *ReferrerRepo) Delete(_ context.Context, companyID, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if ref, ok := r.s.referrers[id]; ok && ref.CompanyID == companyID {
		delete(r.s.referrers, id)
	}
	return nil
}

func (r *ReferrerRepo) Get(_ context.Context, companyID, id string) (domain.Referrer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ref, ok := r.s.referrers[id]
	if !ok || ref.CompanyID != companyID {
		return domain.Referrer{}, notFound("referrer")
	}
	return ref, nil
}

func (r *ReferrerRepo) GetByCode(_ context.Context, code string) (domain.Referrer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.FailReferrerByCode != nil {
		return domain.Referrer{}, r.s.FailReferrerByCode
	}
	if r.s.ReferrerByCodeFailures > 0 {
		r.s.ReferrerByCodeFailures--
		return domain.Referrer{}, fmt.Errorf("transient lookup failure")
	}
	for _, ref := range r.s.referrers {
		if ref.ReferralCode != nil && *ref.ReferralCode == code {
			return ref, nil
		}
	}
	return domain.Referrer{}, notFound("referrer")
}

func (r *ReferrerRepo) List(_ context.Context, companyID string, status *domain.ReferrerStatus) ([]domain.Referrer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []domain.Referrer
	for _, ref := range r.s.referrers {
		if ref.CompanyID != companyID {
			continue
		}
		if status != nil && ref.Status != *status {
			continue
		}
		out = append(out, ref)
	}
	return out, nil
}

// Lead repository

type LeadRepo struct{ s *Store }

func (s *Store) LeadRepo() *LeadRepo { return &LeadRepo{s: s} }

func (r *LeadRepo) Create(_ context.Context, l domain.Lead) (domain.Lead, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	l.ID = r.s.nextID("lead")
	l.CreatedAt = time.Now()
	l.UpdatedAt = l.CreatedAt
	r.s.leads[l.ID] = l
	return l, nil
}

func (r *LeadRepo) Update(_ context.Context, l domain.Lead) (domain.Lead, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.FailLeadUpdate != nil {
		return domain.Lead{}, r.s.FailLeadUpdate
	}
	cur, ok := r.s.leads[l.ID]
	if !ok || cur.CompanyID != l.CompanyID {
		return domain.Lead{}, notFound("lead")
	}
	l.UpdatedAt = time.Now()
	r.s.leads[l.ID] = l
	return l, nil
}

func (r *LeadRepo) UpdateStatus(_ context.Context, companyID, id string, status domain.LeadStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.FailLeadStatusUpdate != nil {
		return r.s.FailLeadStatusUpdate
	}
	l, ok := r.s.leads[id]
	if !ok || l.CompanyID != companyID {
		return notFound("lead")
	}
	l.Status = status
	l.UpdatedAt = time.Now()
	r.s.leads[id] = l
	return nil
}

func (r *LeadRepo) Delete(_ context.Context, companyID, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if l, ok := r.s.leads[id]; ok && l.CompanyID == companyID {
		delete(r.s.leads, id)
	}
	return nil
}

func (r *LeadRepo) Get(_ context.Context, companyID, id string) (domain.Lead, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	l, ok := r.s.leads[id]
	if !ok || l.CompanyID != companyID {
		return domain.Lead{}, notFound("lead")
	}
	return l, nil
}

func (r *LeadRepo) ExistsByEmail(_ context.Context, companyID, email string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, l := range r.s.leads {
		if l.CompanyID == companyID && l.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *LeadRepo) List(_ context.Context, companyID string, status *domain.LeadStatus) ([]domain.Lead, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []domain.Lead
	for _, l := range r.s.leads {
		if l.CompanyID != companyID {
			continue
		}
		if status != nil && l.Status != *status {
			continue
		}
		out = append(out, l)
	}
	return out, nil
}

// Deal repository

type DealRepo struct{ s *Store }

func (s *Store) DealRepo() *DealRepo { return &DealRepo{s: s} }

func (r *DealRepo) Create(_ context.Context, d domain.Deal) (domain.Deal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	d.ID = r.s.nextID("deal")
	d.CreatedAt = time.Now()
	d.UpdatedAt = d.CreatedAt
	r.s.deals[d.ID] = d
	return d, nil
}

func (r *DealRepo) Update(_ context.Context, d domain.Deal) (domain.Deal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.deals[d.ID]
	if !ok || cur.CompanyID != d.CompanyID {
		return domain.Deal{}, notFound("deal")
	}
	d.UpdatedAt = time.Now()
	r.s.deals[d.ID] = d
	return d, nil
}

func (r *DealRepo) Delete(_ context.Context, companyID, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if d, ok := r.s.deals[id]; ok && d.CompanyID == companyID {
		delete(r.s.deals, id)
	}
	return nil
}

func (r *DealRepo) Get(_ context.Context, companyID, id string) (domain.Deal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	d, ok := r.s.deals[id]
	if !ok || d.CompanyID != companyID {
		return domain.Deal{}, notFound("deal")
	}
	return d, nil
}

func (r *DealRepo) ExistsForLead(_ context.Context, companyID, leadID string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, d := range r.s.deals {
		if d.CompanyID == companyID && d.LeadID == leadID {
			return true, nil
		}
	}
	return false, nil
}

func (r *DealRepo) List(_ context.Context, companyID string, status *domain.DealStatus) ([]domain.Deal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []domain.Deal
	for _, d := range r.s.deals {
		if d.CompanyID != companyID {
			continue
		}
		if status != nil && d.Status != *status {
			continue
		}
		out = append(out, d)
	}
	return out, nil
}

// Commission repository

type CommissionRepo struct{ s *Store }

func (s *Store) CommissionRepo() *CommissionRepo { return &CommissionRepo{s: s} }

func (r *CommissionRepo) Create(_ context.Context, c domain.CommissionEntry) (domain.CommissionEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.FailCommissionCreate != nil {
		return domain.CommissionEntry{}, r.s.FailCommissionCreate
	}
	for _, existing := range r.s.commissions {
		if existing.DealID == c.DealID {
			return existing, nil
		}
	}
	c.ID = r.s.nextID("comm")
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	r.s.commissions[c.ID] = c
	return c, nil
}

func (r *CommissionRepo) UpdateStatus(_ context.Context, companyID, id string, status domain.CommissionStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.commissions[id]
	if !ok || c.CompanyID != companyID {
		return notFound("commission entry")
	}
	c.Status = status
	c.UpdatedAt = time.Now()
	r.s.commissions[id] = c
	return nil
}

func (r *CommissionRepo) Get(_ context.Context, companyID, id string) (domain.CommissionEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.commissions[id]
	if !ok || c.CompanyID != companyID {
		return domain.CommissionEntry{}, notFound("commission entry")
	}
	return c, nil
}

func (r *CommissionRepo) ExistsForDeal(_ context.Context, companyID, dealID string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.commissions {
		if c.CompanyID == companyID && c.DealID == dealID {
			return true, nil
		}
	}
	return false, nil
}

func (r *CommissionRepo) List(_ context.Context, companyID string, status *domain.CommissionStatus) ([]domain.CommissionEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []domain.CommissionEntry
	for _, c := range r.s.commissions {
		if c.CompanyID != companyID {
			continue
		}
		if status != nil && c.Status != *status {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

// Payout repository

type PayoutRepo struct{ s *Store }

func (s *Store) PayoutRepo() *PayoutRepo { return &PayoutRepo{s: s} }

func (r *PayoutRepo) Create(_ context.Context, p domain.Payout) (domain.Payout, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p.ID = r.s.nextID("payout")
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	r.s.payouts[p.ID] = p
	return p, nil
}

func (r *PayoutRepo) UpdateStatus(_ context.Context, companyID, id string, status domain.PayoutStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.payouts[id]
	if !ok || p.CompanyID != companyID {
		return notFound("payout")
	}
	p.Status = status
	if status == domain.PayoutCompleted {
		now := time.Now()
		p.PaidAt = &now
	}
	p.UpdatedAt = time.Now()
	r.s.payouts[id] = p
	return nil
}

func (r *PayoutRepo) SetTransaction(_ context.Context, payoutID, transactionID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.payouts[payoutID]
	if !ok {
		return notFound("payout")
	}
	p.TransactionID = &transactionID
	r.s.payouts[payoutID] = p
	return nil
}

func (r *PayoutRepo) Get(_ context.Context, companyID, id string) (domain.Payout, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.payouts[id]
	if !ok || p.CompanyID != companyID {
		return domain.Payout{}, notFound("payout")
	}
	return p, nil
}

func (r *PayoutRepo) List(_ context.Context, companyID string, status *domain.PayoutStatus) ([]domain.Payout, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []domain.Payout
	for _, p := range r.s.payouts {
		if p.CompanyID != companyID {
			continue
		}
		if status != nil && p.Status != *status {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}
