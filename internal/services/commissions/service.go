package commissions

import (
	"context"

	"go.uber.org/zap"

	"referraldesk/internal/apperrors"
	"referraldesk/internal/domain"
	"referraldesk/internal/ports"
)

type Service struct {
	commissions ports.CommissionRepository
	deals       ports.DealRepository
	leads       ports.LeadRepository
	log         *zap.Logger
}

func New(commissions ports.CommissionRepository, deals ports.DealRepository, leads ports.LeadRepository, log *zap.Logger) *Service {
	return &Service{commissions: commissions, deals: deals, leads: leads, log: log}
}

// AdvanceStatus moves a ledger entry forward (pending -> approved ->
// paid). Marking an entry paid converts the source lead, but only when
// the deal is still won at that moment; approving never touches the
// lead. A failure of the lead update after the entry is already paid is
// logged and reported, not rolled back or retried.
func (s *Service) AdvanceStatus(ctx context.Context, companyID, id string, status domain.CommissionStatus) (domain.CommissionEntry, error) {
	if !status.Valid() {
		return domain.CommissionEntry{}, apperrors.Newf(apperrors.CodeValidation, "unknown commission status %q", status)
	}
	entry, err := s.commissions.Get(ctx, companyID, id)
	if err != nil {
		return domain.CommissionEntry{}, err
	}
	if !entry.Status.CanAdvanceTo(status) {
		return domain.CommissionEntry{}, apperrors.Newf(apperrors.CodeValidation,
			"commission cannot move from %s to %s", entry.Status, status)
	}
	if err := s.commissions.UpdateStatus(ctx, companyID, id, status); err != nil {
		return domain.CommissionEntry{}, apperrors.Wrap(apperrors.CodeGateway, "update commission status", err)
	}
	entry.Status = status

	if status == domain.CommissionPaid {
		if err := s.convertLead(ctx, entry); err != nil {
			return entry, err
		}
	}
	return entry, nil
}

// convertLead runs the paid side effect: if the entry's deal is still
// won, its lead moves to converted. The entry stays paid regardless of
// what happens here.
func (s *Service) convertLead(ctx context.Context, entry domain.CommissionEntry) error {
	deal, err := s.deals.Get(ctx, entry.CompanyID, entry.DealID)
	if err != nil {
		s.log.Warn("commission paid but deal lookup failed; lead left unconverted",
			zap.String("commission_id", entry.ID), zap.String("deal_id", entry.DealID), zap.Error(err))
		return apperrors.Wrap(apperrors.CodePartialWorkflow, "commission paid but deal lookup failed", err)
	}
	if deal.Status != domain.DealWon {
		return nil
	}
	if err := s.leads.UpdateStatus(ctx, entry.CompanyID, deal.LeadID, domain.LeadConverted); err != nil {
		s.log.Error("commission paid but lead conversion failed; not retried",
			zap.String("commission_id", entry.ID), zap.String("lead_id", deal.LeadID), zap.Error(err))
		return apperrors.Wrap(apperrors.CodePartialWorkflow, "commission paid but lead conversion failed", err)
	}
	return nil
}

func (s *Service) Get(ctx context.Context, companyID, id string) (domain.CommissionEntry, error) {
	return s.commissions.Get(ctx, companyID, id)
}

func (s *Service) List(ctx context.Context, companyID string, status *domain.CommissionStatus) ([]domain.CommissionEntry, error) {
	return s.commissions.List(ctx, companyID, status)
}
