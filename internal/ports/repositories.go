package ports

import (
	"context"

	"referraldesk/internal/domain"
)

// Repository interfaces form the persistence-gateway boundary. All
// reads and writes are company-scoped; implementations live in
// internal/adapters/postgres.

type ReferrerRepository interface {
	Create(ctx context.Context, r domain.Referrer) (domain.Referrer, error)
	Update(ctx context.Context, r domain.Referrer) (domain.Referrer, error)
	Delete(ctx context.Context, companyID, id string) error
	Get(ctx context.Context, companyID, id string) (domain.Referrer, error)
	// GetByCode resolves a referrer by referral code across companies;
	// used by the public capture and claim paths where no company scope
	// exists yet.
	GetByCode(ctx context.Context, code string) (domain.Referrer, error)
	List(ctx context.Context, companyID string, status *domain.ReferrerStatus) ([]domain.Referrer, error)
}

type LeadRepository interface {
	Create(ctx context.Context, l domain.Lead) (domain.Lead, error)
	Update(ctx context.Context, l domain.Lead) (domain.Lead, error)
	UpdateStatus(ctx context.Context, companyID, id string, status domain.LeadStatus) error
	Delete(ctx context.Context, companyID, id string) error
	Get(ctx context.Context, companyID, id string) (domain.Lead, error)
	ExistsByEmail(ctx context.Context, companyID, email string) (bool, error)
	List(ctx context.Context, companyID string, status *domain.LeadStatus) ([]domain.Lead, error)
}

type DealRepository interface {
	Create(ctx context.Context, d domain.Deal) (domain.Deal, error)
	Update(ctx context.Context, d domain.Deal) (domain.Deal, error)
	Delete(ctx context.Context, companyID, id string) error
	Get(ctx context.Context, companyID, id string) (domain.Deal, error)
	ExistsForLead(ctx context.Context, companyID, leadID string) (bool, error)
	List(ctx context.Context, companyID string, status *domain.DealStatus) ([]domain.Deal, error)
}

type CommissionRepository interface {
	Create(ctx context.Context, c domain.CommissionEntry) (domain.CommissionEntry, error)
	UpdateStatus(ctx context.Context, companyID, id string, status domain.CommissionStatus) error
	Get(ctx context.Context, companyID, id string) (domain.CommissionEntry, error)
	ExistsForDeal(ctx context.Context, companyID, dealID string) (bool, error)
	List(ctx context.Context, companyID string, status *domain.CommissionStatus) ([]domain.CommissionEntry, error)
}

type PayoutRepository interface {
	// Create inserts the payout and enqueues a processing job for the
	// background runner in the same transaction.
	Create(ctx context.Context, p domain.Payout) (domain.Payout, error)
	UpdateStatus(ctx context.Context, companyID, id string, status domain.PayoutStatus) error
	SetTransaction(ctx context.Context, payoutID, transactionID string) error
	Get(ctx context.Context, companyID, id string) (domain.Payout, error)
	List(ctx context.Context, companyID string, status *domain.PayoutStatus) ([]domain.Payout, error)
}
