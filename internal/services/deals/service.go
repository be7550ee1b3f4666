package deals

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"referraldesk/internal/apperrors"
	"referraldesk/internal/domain"
	"referraldesk/internal/ports"
)

type Service struct {
	deals       ports.DealRepository
	leads       ports.LeadRepository
	referrers   ports.ReferrerRepository
	commissions ports.CommissionRepository
	log         *zap.Logger
	now         func() time.Time
}

func New(deals ports.DealRepository, leads ports.LeadRepository, referrers ports.ReferrerRepository, commissions ports.CommissionRepository, log *zap.Logger) *Service {
	return &Service{
		deals:       deals,
		leads:       leads,
		referrers:   referrers,
		commissions: commissions,
		log:         log,
		now:         time.Now,
	}
}

// Create inserts a deal for a lead. The referrer is copied from the lead
// at this moment and never re-derived. An initial status of won stamps
// closed_at and creates the ledger entry right after the insert.
func (s *Service) Create(ctx context.Context, companyID string, in ports.DealInput) (domain.Deal, error) {
	if in.Amount.LessThanOrEqual(decimal.Zero) {
		return domain.Deal{}, apperrors.New(apperrors.CodeValidation, "deal amount must be greater than zero")
	}
	status := in.Status
	if status == "" {
		status = domain.DealPending
	}
	if !status.Valid() {
		return domain.Deal{}, apperrors.Newf(apperrors.CodeValidation, "unknown deal status %q", status)
	}
	lead, err := s.leads.Get(ctx, companyID, in.LeadID)
	if err != nil {
		return domain.Deal{}, err
	}
	exists, err := s.deals.ExistsForLead(ctx, companyID, in.LeadID)
	if err != nil {
		return domain.Deal{}, apperrors.Wrap(apperrors.CodeGateway, "check existing deals", err)
	}
	if exists {
		return domain.Deal{}, apperrors.New(apperrors.CodeDuplicate, "a deal already exists for this lead")
	}

	d := domain.Deal{
		CompanyID:  companyID,
		LeadID:     lead.ID,
		ReferrerID: lead.ReferrerID,
		Amount:     in.Amount,
		Status:     status,
	}
	if status == domain.DealWon {
		now := s.now()
		d.ClosedAt = &now
	}
	created, err := s.deals.Create(ctx, d)
	if err != nil {
		return domain.Deal{}, apperrors.Wrap(apperrors.CodeGateway, "create deal", err)
	}
	if created.Status == domain.DealWon {
		if err := s.ensureCommission(ctx, created); err != nil {
			return created, err
		}
	}
	return created, nil
}

// Update edits amount and status. Moving to won stamps closed_at and
// creates the commission entry exactly once; editing a closed deal's
// amount does not reprice an already-created entry. The persistence
// layer does not forbid re-opening a won deal, matching the update
// operation's unchecked semantics.
func (s *Service) Update(ctx context.Context, companyID, id string, in ports.DealUpdate) (domain.Deal, error) {
	cur, err := s.deals.Get(ctx, companyID, id)
	if err != nil {
		return domain.Deal{}, err
	}
	if in.Amount != nil {
		if in.Amount.LessThanOrEqual(decimal.Zero) {
			return domain.Deal{}, apperrors.New(apperrors.CodeValidation, "deal amount must be greater than zero")
		}
		cur.Amount = *in.Amount
	}
	becameWon := false
	if in.Status != nil {
		if !in.Status.Valid() {
			return domain.Deal{}, apperrors.Newf(apperrors.CodeValidation, "unknown deal status %q", *in.Status)
		}
		if *in.Status == domain.DealWon {
			becameWon = true
			if cur.ClosedAt == nil {
				now := s.now()
				cur.ClosedAt = &now
			}
		}
		cur.Status = *in.Status
	}
	updated, err := s.deals.Update(ctx, cur)
	if err != nil {
		return domain.Deal{}, apperrors.Wrap(apperrors.CodeGateway, "update deal", err)
	}
	if becameWon {
		if err := s.ensureCommission(ctx, updated); err != nil {
			return updated, err
		}
	}
	return updated, nil
}

// Delete is unconditional; an existing ledger entry keeps its deal
// reference and becomes an orphan, which is logged rather than blocked.
func (s *Service) Delete(ctx context.Context, companyID, id string) error {
	exists, err := s.commissions.ExistsForDeal(ctx, companyID, id)
	if err == nil && exists {
		s.log.Warn("deleting deal with an existing ledger entry; the entry is left orphaned",
			zap.String("company_id", companyID), zap.String("deal_id", id))
	}
	return s.deals.Delete(ctx, companyID, id)
}

func (s *Service) Get(ctx context.Context, companyID, id string) (domain.Deal, error) {
	return s.deals.Get(ctx, companyID, id)
}

func (s *Service) List(ctx context.Context, companyID string, status *domain.DealStatus) ([]domain.Deal, error) {
	return s.deals.List(ctx, companyID, status)
}

// ensureCommission creates the ledger entry for a won deal. A second
// attempt for the same deal is a silent no-op, keeping the at-most-one
// entry invariant across repeated won transitions.
func (s *Service) ensureCommission(ctx context.Context, d domain.Deal) error {
	exists, err := s.commissions.ExistsForDeal(ctx, d.CompanyID, d.ID)
	if err != nil {
		return apperrors.Wrap(apperrors.CodePartialWorkflow, "deal won but ledger check failed", err)
	}
	if exists {
		return nil
	}
	ref, err := s.referrers.Get(ctx, d.CompanyID, d.ReferrerID)
	if err != nil {
		s.log.Error("deal won but referrer lookup failed; no ledger entry created",
			zap.String("deal_id", d.ID), zap.Error(err))
		return apperrors.Wrap(apperrors.CodePartialWorkflow, "deal won but referrer lookup failed", err)
	}
	amount, err := domain.ComputeCommission(d.Amount, ref.CommissionRate)
	if err != nil {
		return err
	}
	entry := domain.CommissionEntry{
		CompanyID:  d.CompanyID,
		ReferrerID: d.ReferrerID,
		DealID:     d.ID,
		Amount:     amount,
		Status:     domain.CommissionPending,
	}
	if _, err := s.commissions.Create(ctx, entry); err != nil {
		s.log.Error("deal won but ledger entry insert failed",
			zap.String("deal_id", d.ID), zap.Error(err))
		return apperrors.Wrap(apperrors.CodePartialWorkflow, "deal won but ledger entry insert failed", err)
	}
	return nil
}
