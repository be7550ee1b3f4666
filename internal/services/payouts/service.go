package payouts

import (
	"context"

	"github.com/shopspring/decimal"

	"referraldesk/internal/apperrors"
	"referraldesk/internal/domain"
	"referraldesk/internal/ports"
)

// Service manages administrative batch payouts. Payouts sit outside the
// deal-to-ledger chain: nothing here derives from commission entries.
type Service struct {
	payouts ports.PayoutRepository
}

func New(payouts ports.PayoutRepository) *Service {
	return &Service{payouts: payouts}
}

func (s *Service) Create(ctx context.Context, companyID string, in ports.PayoutInput) (domain.Payout, error) {
	if in.ReferrerID == "" {
		return domain.Payout{}, apperrors.New(apperrors.CodeValidation, "referrer is required")
	}
	if in.Amount.LessThanOrEqual(decimal.Zero) {
		return domain.Payout{}, apperrors.New(apperrors.CodeValidation, "payout amount must be greater than zero")
	}
	p := domain.Payout{
		CompanyID:     companyID,
		ReferrerID:    in.ReferrerID,
		Amount:        in.Amount,
		Status:        domain.PayoutPending,
		PaymentMethod: in.PaymentMethod,
		Notes:         in.Notes,
	}
	created, err := s.payouts.Create(ctx, p)
	if err != nil {
		return domain.Payout{}, apperrors.Wrap(apperrors.CodeGateway, "create payout", err)
	}
	return created, nil
}

// UpdateStatus is the manual path for moving a payout; completion stamps
// paid_at in the repository.
func (s *Service) UpdateStatus(ctx context.Context, companyID, id string, status domain.PayoutStatus) (domain.Payout, error) {
	if !status.Valid() {
		return domain.Payout{}, apperrors.Newf(apperrors.CodeValidation, "unknown payout status %q", status)
	}
	if err := s.payouts.UpdateStatus(ctx, companyID, id, status); err != nil {
		return domain.Payout{}, apperrors.Wrap(apperrors.CodeGateway, "update payout status", err)
	}
	return s.payouts.Get(ctx, companyID, id)
}

func (s *Service) Get(ctx context.Context, companyID, id string) (domain.Payout, error) {
	return s.payouts.Get(ctx, companyID, id)
}

func (s *Service) List(ctx context.Context, companyID string, status *domain.PayoutStatus) ([]domain.Payout, error) {
	return s.payouts.List(ctx, companyID, status)
}
