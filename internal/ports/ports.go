package ports

import (
	"context"

	"github.com/shopspring/decimal"

	"referraldesk/internal/domain"
)

// Service interfaces consumed by the HTTP adapter. Implementations live
// under internal/services.

type ReferrerInput struct {
	Name           string
	Email          string
	Phone          *string
	CommissionRate decimal.Decimal
	Status         domain.ReferrerStatus
}

type LeadInput struct {
	ReferrerID  string
	Name        string
	Email       string
	Phone       *string
	CompanyName *string
	Status      domain.LeadStatus
	Notes       *string
}

type CaptureInput struct {
	Name        string
	Email       string
	Phone       *string
	CompanyName *string
}

type DealInput struct {
	LeadID string
	Amount decimal.Decimal
	Status domain.DealStatus
}

// DealUpdate carries partial edits; nil fields are left untouched.
type DealUpdate struct {
	Amount *decimal.Decimal
	Status *domain.DealStatus
}

type PayoutInput struct {
	ReferrerID    string
	Amount        decimal.Decimal
	PaymentMethod *string
	Notes         *string
}

// Referrers manages referrer records, code assignment and identity claims.
type Referrers interface {
	Create(ctx context.Context, companyID string, in ReferrerInput) (domain.Referrer, error)
	Update(ctx context.Context, companyID, id string, in ReferrerInput) (domain.Referrer, error)
	Delete(ctx context.Context, companyID, id string) error
	Get(ctx context.Context, companyID, id string) (domain.Referrer, error)
	List(ctx context.Context, companyID string, status *domain.ReferrerStatus) ([]domain.Referrer, error)
	Claim(ctx context.Context, code, userID, email string) (domain.Referrer, error)
	ResolveCode(ctx context.Context, code string) (domain.Referrer, error)
}

// Leads is the lead lifecycle controller plus the public capture path.
type Leads interface {
	Create(ctx context.Context, companyID string, in LeadInput) (domain.Lead, error)
	Update(ctx context.Context, companyID, id string, in LeadInput) (domain.Lead, error)
	SetStatus(ctx context.Context, companyID, id string, status domain.LeadStatus) (domain.Lead, error)
	Delete(ctx context.Context, companyID, id string) error
	Get(ctx context.Context, companyID, id string) (domain.Lead, error)
	List(ctx context.Context, companyID string, status *domain.LeadStatus) ([]domain.Lead, error)
	Capture(ctx context.Context, referralCode string, in CaptureInput) (domain.Lead, error)
}

// Deals is the deal lifecycle controller; a win triggers commission
// ledger creation.
type Deals interface {
	Create(ctx context.Context, companyID string, in DealInput) (domain.Deal, error)
	Update(ctx context.Context, companyID, id string, in DealUpdate) (domain.Deal, error)
	Delete(ctx context.Context, companyID, id string) error
	Get(ctx context.Context, companyID, id string) (domain.Deal, error)
	List(ctx context.Context, companyID string, status *domain.DealStatus) ([]domain.Deal, error)
}

// Commissions is the ledger controller; paying an entry can convert the
// source lead.
type Commissions interface {
	AdvanceStatus(ctx context.Context, companyID, id string, status domain.CommissionStatus) (domain.CommissionEntry, error)
	Get(ctx context.Context, companyID, id string) (domain.CommissionEntry, error)
	List(ctx context.Context, companyID string, status *domain.CommissionStatus) ([]domain.CommissionEntry, error)
}

type Payouts interface {
	Create(ctx context.Context, companyID string, in PayoutInput) (domain.Payout, error)
	UpdateStatus(ctx context.Context, companyID, id string, status domain.PayoutStatus) (domain.Payout, error)
	Get(ctx context.Context, companyID, id string) (domain.Payout, error)
	List(ctx context.Context, companyID string, status *domain.PayoutStatus) ([]domain.Payout, error)
}

// Workflow sequences the qualify-lead flow: begin stages the transition
// and runs the duplicate guard, confirm commits deal then lead, cancel
// drops the staged state without touching persisted rows.
type Workflow interface {
	BeginQualify(ctx context.Context, companyID, leadID string) (domain.Lead, error)
	ConfirmQualify(ctx context.Context, companyID, leadID string, amount decimal.Decimal, staged *LeadInput) (domain.Deal, error)
	CancelQualify(companyID, leadID string)
}
