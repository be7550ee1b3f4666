package referrers

import (
	"context"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"referraldesk/internal/apperrors"
	"referraldesk/internal/domain"
	"referraldesk/internal/ports"
)

var oneHundred = decimal.NewFromInt(100)

type Service struct {
	referrers ports.ReferrerRepository
	log       *zap.Logger

	claimRetries uint64
	claimWait    time.Duration
}

func New(referrers ports.ReferrerRepository, log *zap.Logger, claimRetries uint64, claimWait time.Duration) *Service {
	return &Service{referrers: referrers, log: log, claimRetries: claimRetries, claimWait: claimWait}
}

// newReferralCode mints a code of the same shape the original tracking
// links use: "REF" plus eight uppercase characters.
func newReferralCode() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "REF" + strings.ToUpper(raw[:8])
}

func validateInput(in ports.ReferrerInput) error {
	if in.Name == "" {
		return apperrors.New(apperrors.CodeValidation, "referrer name is required")
	}
	if in.Email == "" {
		return apperrors.New(apperrors.CodeValidation, "referrer email is required")
	}
	if in.CommissionRate.IsNegative() || in.CommissionRate.GreaterThan(oneHundred) {
		return apperrors.New(apperrors.CodeValidation, "commission rate must be between 0 and 100")
	}
	if in.Status != "" && !in.Status.Valid() {
		return apperrors.Newf(apperrors.CodeValidation, "unknown referrer status %q", in.Status)
	}
	return nil
}

func (s *Service) Create(ctx context.Context, companyID string, in ports.ReferrerInput) (domain.Referrer, error) {
	if err := validateInput(in); err != nil {
		return domain.Referrer{}, err
	}
	status := in.Status
	if status == "" {
		status = domain.ReferrerActive
	}
	code := newReferralCode()
	r := domain.Referrer{
		CompanyID:      companyID,
		Name:           in.Name,
		Email:          strings.ToLower(in.Email),
		Phone:          in.Phone,
		CommissionRate: in.CommissionRate,
		Status:         status,
		ReferralCode:   &code,
	}
	created, err := s.referrers.Create(ctx, r)
	if err != nil {
		return domain.Referrer{}, apperrors.Wrap(apperrors.CodeGateway, "create referrer", err)
	}
	return created, nil
}

// Update edits contact details, rate and status. The referral code and
// claimed identity are immutable through this path.
func (s *Service) Update(ctx context.Context, companyID, id string, in ports.ReferrerInput) (domain.Referrer, error) {
	if err := validateInput(in); err != nil {
		return domain.Referrer{}, err
	}
	cur, err := s.referrers.Get(ctx, companyID, id)
	if err != nil {
		return domain.Referrer{}, err
	}
	cur.Name = in.Name
	cur.Email = strings.ToLower(in.Email)
	cur.Phone = in.Phone
	cur.CommissionRate = in.CommissionRate
	if in.Status != "" {
		cur.Status = in.Status
	}
	updated, err := s.referrers.Update(ctx, cur)
	if err != nil {
		return domain.Referrer{}, apperrors.Wrap(apperrors.CodeGateway, "update referrer", err)
	}
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, companyID, id string) error {
	return s.referrers.Delete(ctx, companyID, id)
}

func (s *Service) Get(ctx context.Context, companyID, id string) (domain.Referrer, error) {
	return s.referrers.Get(ctx, companyID, id)
}

func (s *Service) List(ctx context.Context, companyID string, status *domain.ReferrerStatus) ([]domain.Referrer, error) {
	return s.referrers.List(ctx, companyID, status)
}

// ResolveCode looks up the referrer behind a tracking link. Inactive
// referrers do not accept new leads.
func (s *Service) ResolveCode(ctx context.Context, code string) (domain.Referrer, error) {
	r, err := s.referrers.GetByCode(ctx, code)
	if err != nil {
		return domain.Referrer{}, err
	}
	if r.Status != domain.ReferrerActive {
		return domain.Referrer{}, apperrors.New(apperrors.CodeValidation, "referral code is not active")
	}
	return r, nil
}

// Claim links an authenticated identity to the referrer row matching the
// code. The identity record materialises asynchronously upstream, so the
// lookup retries on a fixed delay for a fixed number of attempts and
// gives up with best-effort state after the bound is exhausted.
func (s *Service) Claim(ctx context.Context, code, userID, email string) (domain.Referrer, error) {
	if userID == "" {
		return domain.Referrer{}, apperrors.New(apperrors.CodeValidation, "user id is required")
	}

	var r domain.Referrer
	lookup := func() error {
		var err error
		r, err = s.referrers.GetByCode(ctx, code)
		return err
	}
	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewConstantBackOff(s.claimWait), s.claimRetries), ctx)
	if err := backoff.Retry(lookup, policy); err != nil {
		s.log.Warn("referrer claim lookup exhausted retries",
			zap.String("referral_code", code), zap.Error(err))
		return domain.Referrer{}, apperrors.Wrap(apperrors.CodeGateway, "resolve referral code", err)
	}

	if r.UserID != nil && *r.UserID != userID {
		return domain.Referrer{}, apperrors.New(apperrors.CodeDuplicate, "referrer is already claimed")
	}
	r.UserID = &userID
	if email != "" {
		r.Email = strings.ToLower(email)
	}
	claimed, err := s.referrers.Update(ctx, r)
	if err != nil {
		return domain.Referrer{}, apperrors.Wrap(apperrors.CodeGateway, "link referrer identity", err)
	}
	return claimed, nil
}
