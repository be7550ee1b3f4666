// Package workflow sequences the multi-step "qualify lead" flow: the
// guarded transition is staged while the caller collects a deal amount,
// then committed as deal insert followed by lead update. Each step is an
// independent round-trip; there is no transaction across them.
package workflow

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"referraldesk/internal/apperrors"
	"referraldesk/internal/domain"
	"referraldesk/internal/ports"
)

// LeadController is the slice of the lead service the orchestrator needs.
type LeadController interface {
	RequestQualify(ctx context.Context, companyID, leadID string) (domain.Lead, error)
	ValidateEdit(in ports.LeadInput) error
	CompleteQualify(ctx context.Context, companyID, leadID string, staged *ports.LeadInput) (domain.Lead, error)
}

// DealCreator creates the pending deal once an amount is confirmed.
type DealCreator interface {
	Create(ctx context.Context, companyID string, in ports.DealInput) (domain.Deal, error)
}

type sessionKey struct {
	companyID string
	leadID    string
}

type Service struct {
	leads LeadController
	deals DealCreator
	log   *zap.Logger

	mu       sync.Mutex
	sessions map[sessionKey]domain.Lead
}

func New(leads LeadController, deals DealCreator, log *zap.Logger) *Service {
	return &Service{
		leads:    leads,
		deals:    deals,
		log:      log,
		sessions: make(map[sessionKey]domain.Lead),
	}
}

// BeginQualify runs the duplicate-deal guard and stages the transition
// until the caller confirms an amount or cancels. Both entry points (the
// edit form and the status control) come through here, so the guard
// cannot diverge between them. Re-beginning an open session replaces it;
// last write wins, and two truly simultaneous sessions on the same lead
// are not reconciled.
func (s *Service) BeginQualify(ctx context.Context, companyID, leadID string) (domain.Lead, error) {
	lead, err := s.leads.RequestQualify(ctx, companyID, leadID)
	if err != nil {
		return domain.Lead{}, err
	}
	s.mu.Lock()
	s.sessions[sessionKey{companyID, leadID}] = lead
	s.mu.Unlock()
	return lead, nil
}

// ConfirmQualify commits the staged transition: the deal is created
// first (pending, closed_at null, referrer copied from the lead), then
// the lead is written. When the deal insert succeeds but the lead write
// fails, the pending deal stays; that state is logged and reported as a
// partial workflow failure rather than rolled back.
func (s *Service) ConfirmQualify(ctx context.Context, companyID, leadID string, amount decimal.Decimal, staged *ports.LeadInput) (domain.Deal, error) {
	key := sessionKey{companyID, leadID}
	s.mu.Lock()
	_, open := s.sessions[key]
	s.mu.Unlock()
	if !open {
		return domain.Deal{}, apperrors.New(apperrors.CodeValidation, "no qualification in progress for this lead")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return domain.Deal{}, apperrors.New(apperrors.CodeValidation, "deal amount must be greater than zero")
	}
	// Staged form fields are checked up front so a bad edit is rejected
	// before any write, not after the deal already exists.
	if staged != nil {
		if err := s.leads.ValidateEdit(*staged); err != nil {
			return domain.Deal{}, err
		}
	}

	// The deal service re-runs the duplicate guard before inserting, so a
	// confirm raced against another one fails here instead of spawning a
	// second deal. The guard itself is read-then-write without locking.
	deal, err := s.deals.Create(ctx, companyID, ports.DealInput{
		LeadID: leadID,
		Amount: amount,
		Status: domain.DealPending,
	})
	if err != nil {
		return domain.Deal{}, err
	}

	if _, err := s.leads.CompleteQualify(ctx, companyID, leadID, staged); err != nil {
		s.log.Error("deal created but lead qualification write failed; deal left pending",
			zap.String("lead_id", leadID), zap.String("deal_id", deal.ID), zap.Error(err))
		s.drop(key)
		return deal, apperrors.Wrap(apperrors.CodePartialWorkflow, "deal created but lead update failed", err)
	}
	s.drop(key)
	return deal, nil
}

// CancelQualify drops the staged state. Nothing was persisted before
// confirmation, so there is nothing to revert beyond the session itself.
func (s *Service) CancelQualify(companyID, leadID string) {
	s.drop(sessionKey{companyID, leadID})
}

func (s *Service) drop(key sessionKey) {
	s.mu.Lock()
	delete(s.sessions, key)
	s.mu.Unlock()
}
