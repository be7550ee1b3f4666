package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Core domain models. Every row is scoped to an owning company; HTTP and
// service layers carry the company id explicitly rather than through any
// ambient session state.

type Company struct {
	ID        string
	Name      string
	OwnerID   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type MembershipRole string

const (
	RoleOwner  MembershipRole = "owner"
	RoleAdmin  MembershipRole = "admin"
	RoleMember MembershipRole = "member"
)

type Membership struct {
	ID        string
	UserID    string
	CompanyID string
	Role      MembershipRole
	CreatedAt time.Time
}

type ReferrerStatus string

const (
	ReferrerActive   ReferrerStatus = "active"
	ReferrerInactive ReferrerStatus = "inactive"
	ReferrerPending  ReferrerStatus = "pending"
)

// Referrer is a partner who brings in leads and earns commission on won
// deals. The referral code is assigned at creation and never changes;
// UserID is nil until the referrer claims the row with an authenticated
// identity matching its email.
type Referrer struct {
	ID             string
	CompanyID      string
	UserID         *string
	Name           string
	Email          string
	Phone          *string
	CommissionRate decimal.Decimal // percent, 0-100
	Status         ReferrerStatus
	ReferralCode   *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type LeadStatus string

const (
	LeadNew       LeadStatus = "new"
	LeadContacted LeadStatus = "contacted"
	LeadQualified LeadStatus = "qualified"
	LeadConverted LeadStatus = "converted"
	LeadLost      LeadStatus = "lost"
)

type Lead struct {
	ID          string
	CompanyID   string
	ReferrerID  string
	Name        string
	Email       string
	Phone       *string
	CompanyName *string
	Status      LeadStatus
	Notes       *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type DealStatus string

const (
	DealPending DealStatus = "pending"
	DealWon     DealStatus = "won"
	DealLost    DealStatus = "lost"
)

// Deal is created exactly once per lead, when the lead is qualified.
// ReferrerID is copied from the lead at creation, not re-derived later.
type Deal struct {
	ID         string
	CompanyID  string
	LeadID     string
	ReferrerID string
	Amount     decimal.Decimal
	Status     DealStatus
	ClosedAt   *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type CommissionStatus string

const (
	CommissionPending  CommissionStatus = "pending"
	CommissionApproved CommissionStatus = "approved"
	CommissionPaid     CommissionStatus = "paid"
)

// CommissionEntry records money owed to a referrer for a won deal. The
// amount is fixed when the deal is won; later commission-rate edits do
// not reprice existing entries.
type CommissionEntry struct {
	ID         string
	CompanyID  string
	ReferrerID string
	DealID     string
	Amount     decimal.Decimal
	Status     CommissionStatus
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type PayoutStatus string

const (
	PayoutPending    PayoutStatus = "pending"
	PayoutProcessing PayoutStatus = "processing"
	PayoutCompleted  PayoutStatus = "completed"
	PayoutFailed     PayoutStatus = "failed"
)

// Payout is an administrative batch payment to a referrer, independent
// of individual ledger entries.
type Payout struct {
	ID            string
	CompanyID     string
	ReferrerID    string
	Amount        decimal.Decimal
	Status        PayoutStatus
	PaymentMethod *string
	TransactionID *string
	Notes         *string
	PaidAt        *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
