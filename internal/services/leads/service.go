package leads

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"referraldesk/internal/apperrors"
	"referraldesk/internal/domain"
	"referraldesk/internal/ports"
)

// CodeResolver resolves an active referrer behind a tracking link;
// implemented by the referrers service.
type CodeResolver interface {
	ResolveCode(ctx context.Context, code string) (domain.Referrer, error)
}

type Service struct {
	leads     ports.LeadRepository
	deals     ports.DealRepository
	referrers CodeResolver
	log       *zap.Logger
}

func New(leads ports.LeadRepository, deals ports.DealRepository, referrers CodeResolver, log *zap.Logger) *Service {
	return &Service{leads: leads, deals: deals, referrers: referrers, log: log}
}

func validateInput(in ports.LeadInput) error {
	if in.ReferrerID == "" {
		return apperrors.New(apperrors.CodeValidation, "referrer is required")
	}
	if in.Name == "" {
		return apperrors.New(apperrors.CodeValidation, "lead name is required")
	}
	if in.Email == "" {
		return apperrors.New(apperrors.CodeValidation, "lead email is required")
	}
	if in.Status != "" && !in.Status.Valid() {
		return apperrors.Newf(apperrors.CodeValidation, "unknown lead status %q", in.Status)
	}
	return nil
}

func (s *Service) Create(ctx context.Context, companyID string, in ports.LeadInput) (domain.Lead, error) {
	if err := validateInput(in); err != nil {
		return domain.Lead{}, err
	}
	status := in.Status
	if status == "" {
		status = domain.LeadNew
	}
	if status == domain.LeadQualified {
		return domain.Lead{}, apperrors.New(apperrors.CodeValidation, "qualifying a lead requires the qualify workflow")
	}
	l := domain.Lead{
		CompanyID:   companyID,
		ReferrerID:  in.ReferrerID,
		Name:        in.Name,
		Email:       strings.ToLower(in.Email),
		Phone:       in.Phone,
		CompanyName: in.CompanyName,
		Status:      status,
		Notes:       in.Notes,
	}
	created, err := s.leads.Create(ctx, l)
	if err != nil {
		return domain.Lead{}, apperrors.Wrap(apperrors.CodeGateway, "create lead", err)
	}
	return created, nil
}

// Update applies a full field edit. A status change into qualified is
// rejected here so it cannot bypass the guarded qualify workflow; every
// other status value is written as-is.
func (s *Service) Update(ctx context.Context, companyID, id string, in ports.LeadInput) (domain.Lead, error) {
	if err := validateInput(in); err != nil {
		return domain.Lead{}, err
	}
	cur, err := s.leads.Get(ctx, companyID, id)
	if err != nil {
		return domain.Lead{}, err
	}
	if in.Status == domain.LeadQualified && cur.Status != domain.LeadQualified {
		return domain.Lead{}, apperrors.New(apperrors.CodeValidation, "qualifying a lead requires the qualify workflow")
	}
	cur.ReferrerID = in.ReferrerID
	cur.Name = in.Name
	cur.Email = strings.ToLower(in.Email)
	cur.Phone = in.Phone
	cur.CompanyName = in.CompanyName
	if in.Status != "" {
		cur.Status = in.Status
	}
	cur.Notes = in.Notes
	updated, err := s.leads.Update(ctx, cur)
	if err != nil {
		return domain.Lead{}, apperrors.Wrap(apperrors.CodeGateway, "update lead", err)
	}
	return updated, nil
}

// SetStatus is the unguarded dropdown path: unconditional update, no
// side effects. The qualified target is refused so the deal-spawning
// transition always runs through the workflow's duplicate check.
func (s *Service) SetStatus(ctx context.Context, companyID, id string, status domain.LeadStatus) (domain.Lead, error) {
	if !status.Valid() {
		return domain.Lead{}, apperrors.Newf(apperrors.CodeValidation, "unknown lead status %q", status)
	}
	if status == domain.LeadQualified {
		return domain.Lead{}, apperrors.New(apperrors.CodeValidation, "qualifying a lead requires the qualify workflow")
	}
	if err := s.leads.UpdateStatus(ctx, companyID, id, status); err != nil {
		return domain.Lead{}, apperrors.Wrap(apperrors.CodeGateway, "update lead status", err)
	}
	return s.leads.Get(ctx, companyID, id)
}

// Delete is unconditional and does not cascade: an associated deal or
// ledger entry is left referencing the removed lead. That matches the
// accepted behaviour; the orphan is logged so it is at least visible.
func (s *Service) Delete(ctx context.Context, companyID, id string) error {
	exists, err := s.deals.ExistsForLead(ctx, companyID, id)
	if err == nil && exists {
		s.log.Warn("deleting lead with an existing deal; deal and ledger rows are left orphaned",
			zap.String("company_id", companyID), zap.String("lead_id", id))
	}
	return s.leads.Delete(ctx, companyID, id)
}

func (s *Service) Get(ctx context.Context, companyID, id string) (domain.Lead, error) {
	return s.leads.Get(ctx, companyID, id)
}

func (s *Service) List(ctx context.Context, companyID string, status *domain.LeadStatus) ([]domain.Lead, error) {
	return s.leads.List(ctx, companyID, status)
}

// Capture handles a public submission through a referrer's tracking
// link: the referral code picks the company and referrer, duplicate
// emails inside the company are refused, and the lead starts as new.
func (s *Service) Capture(ctx context.Context, referralCode string, in ports.CaptureInput) (domain.Lead, error) {
	if in.Name == "" || in.Email == "" {
		return domain.Lead{}, apperrors.New(apperrors.CodeValidation, "name and email are required")
	}
	ref, err := s.referrers.ResolveCode(ctx, referralCode)
	if err != nil {
		return domain.Lead{}, err
	}
	email := strings.ToLower(strings.TrimSpace(in.Email))
	exists, err := s.leads.ExistsByEmail(ctx, ref.CompanyID, email)
	if err != nil {
		return domain.Lead{}, apperrors.Wrap(apperrors.CodeGateway, "check existing lead", err)
	}
	if exists {
		return domain.Lead{}, apperrors.New(apperrors.CodeDuplicate, "this email has already been submitted")
	}
	l := domain.Lead{
		CompanyID:   ref.CompanyID,
		ReferrerID:  ref.ID,
		Name:        strings.TrimSpace(in.Name),
		Email:       email,
		Phone:       in.Phone,
		CompanyName: in.CompanyName,
		Status:      domain.LeadNew,
	}
	created, err := s.leads.Create(ctx, l)
	if err != nil {
		return domain.Lead{}, apperrors.Wrap(apperrors.CodeGateway, "create lead", err)
	}
	return created, nil
}

// RequestQualify runs the duplicate-deal guard and returns the lead
// unchanged when qualification may proceed. Shared by both workflow
// entry points (edit form and status control).
func (s *Service) RequestQualify(ctx context.Context, companyID, leadID string) (domain.Lead, error) {
	l, err := s.leads.Get(ctx, companyID, leadID)
	if err != nil {
		return domain.Lead{}, err
	}
	exists, err := s.deals.ExistsForLead(ctx, companyID, leadID)
	if err != nil {
		return domain.Lead{}, apperrors.Wrap(apperrors.CodeGateway, "check existing deals", err)
	}
	if exists {
		return domain.Lead{}, apperrors.New(apperrors.CodeDuplicate, "a deal already exists for this lead")
	}
	return l, nil
}

// ValidateEdit checks an edit-form payload without persisting anything.
// The workflow runs it over staged fields before committing either side
// of a qualification.
func (s *Service) ValidateEdit(in ports.LeadInput) error {
	return validateInput(in)
}

// CompleteQualify commits the lead side of a confirmed qualification:
// either the staged form edit with status forced to qualified, or a
// plain status write when the flow started from the status control.
// The deal has already been persisted by the time this runs.
func (s *Service) CompleteQualify(ctx context.Context, companyID, leadID string, staged *ports.LeadInput) (domain.Lead, error) {
	if staged == nil {
		if err := s.leads.UpdateStatus(ctx, companyID, leadID, domain.LeadQualified); err != nil {
			return domain.Lead{}, err
		}
		return s.leads.Get(ctx, companyID, leadID)
	}
	cur, err := s.leads.Get(ctx, companyID, leadID)
	if err != nil {
		return domain.Lead{}, err
	}
	cur.ReferrerID = staged.ReferrerID
	cur.Name = staged.Name
	cur.Email = strings.ToLower(staged.Email)
	cur.Phone = staged.Phone
	cur.CompanyName = staged.CompanyName
	cur.Status = domain.LeadQualified
	cur.Notes = staged.Notes
	return s.leads.Update(ctx, cur)
}
