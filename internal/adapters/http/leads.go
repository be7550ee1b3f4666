package httpadapter

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"referraldesk/internal/apperrors"
	"referraldesk/internal/domain"
	"referraldesk/internal/ports"
)

type leadRequest struct {
	ReferrerID  string            `json:"referrer_id"`
	Name        string            `json:"name"`
	Email       string            `json:"email"`
	Phone       *string           `json:"phone"`
	CompanyName *string           `json:"company_name"`
	Status      domain.LeadStatus `json:"status"`
	Notes       *string           `json:"notes"`
}

func (req leadRequest) input() ports.LeadInput {
	return ports.LeadInput{
		ReferrerID:  req.ReferrerID,
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		CompanyName: req.CompanyName,
		Status:      req.Status,
		Notes:       req.Notes,
	}
}

type leadView struct {
	ID          string            `json:"id"`
	CompanyID   string            `json:"company_id"`
	ReferrerID  string            `json:"referrer_id"`
	Name        string            `json:"name"`
	Email       string            `json:"email"`
	Phone       *string           `json:"phone"`
	CompanyName *string           `json:"company_name"`
	Status      domain.LeadStatus `json:"status"`
	Notes       *string           `json:"notes"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

func toLeadView(l domain.Lead) leadView {
	return leadView{
		ID:          l.ID,
		CompanyID:   l.CompanyID,
		ReferrerID:  l.ReferrerID,
		Name:        l.Name,
		Email:       l.Email,
		Phone:       l.Phone,
		CompanyName: l.CompanyName,
		Status:      l.Status,
		Notes:       l.Notes,
		CreatedAt:   l.CreatedAt,
		UpdatedAt:   l.UpdatedAt,
	}
}

func (s *Server) handleCreateLead(w http.ResponseWriter, r *http.Request) {
	company, err := companyID(r)
	if err != nil {
		s.respondError(w, err)
		return
	}
	var req leadRequest
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, err)
		return
	}
	created, err := s.leads.Create(r.Context(), company, req.input())
	if err != nil {
		s.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, toLeadView(created))
}

func (s *Server) handleUpdateLead(w http.ResponseWriter, r *http.Request) {
	company, err := companyID(r)
	if err != nil {
		s.respondError(w, err)
		return
	}
	var req leadRequest
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, err)
		return
	}
	updated, err := s.leads.Update(r.Context(), company, chi.URLParam(r, "id"), req.input())
	if err != nil {
		s.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toLeadView(updated))
}

func (s *Server) handleDeleteLead(w http.ResponseWriter, r *http.Request) {
	company, err := companyID(r)
	if err != nil {
		s.respondError(w, err)
		return
	}
	if err := s.leads.Delete(r.Context(), company, chi.URLParam(r, "id")); err != nil {
		s.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetLead(w http.ResponseWriter, r *http.Request) {
	company, err := companyID(r)
	if err != nil {
		s.respondError(w, err)
		return
	}
	lead, err := s.leads.Get(r.Context(), company, chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toLeadView(lead))
}

func (s *Server) handleListLeads(w http.ResponseWriter, r *http.Request) {
	company, err := companyID(r)
	if err != nil {
		s.respondError(w, err)
		return
	}
	var status *domain.LeadStatus
	if v := r.URL.Query().Get("status"); v != "" {
		st := domain.LeadStatus(v)
		if !st.Valid() {
			s.respondError(w, apperrors.Newf(apperrors.CodeValidation, "unknown lead status %q", v))
			return
		}
		status = &st
	}
	leads, err := s.leads.List(r.Context(), company, status)
	if err != nil {
		s.respondError(w, err)
		return
	}
	views := make([]leadView, 0, len(leads))
	for _, l := range leads {
		views = append(views, toLeadView(l))
	}
	respondJSON(w, http.StatusOK, views)
}

type setStatusRequest struct {
	Status domain.LeadStatus `json:"status"`
}

// handleSetLeadStatus is the dropdown path. A qualified target is routed
// through the workflow by the service, so callers get a clear rejection
// here instead of an unguarded transition.
func (s *Server) handleSetLeadStatus(w http.ResponseWriter, r *http.Request) {
	company, err := companyID(r)
	if err != nil {
		s.respondError(w, err)
		return
	}
	var req setStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, err)
		return
	}
	lead, err := s.leads.SetStatus(r.Context(), company, chi.URLParam(r, "id"), req.Status)
	if err != nil {
		s.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toLeadView(lead))
}

func (s *Server) handleBeginQualify(w http.ResponseWriter, r *http.Request) {
	company, err := companyID(r)
	if err != nil {
		s.respondError(w, err)
		return
	}
	lead, err := s.workflow.BeginQualify(r.Context(), company, chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toLeadView(lead))
}

type confirmQualifyRequest struct {
	Amount decimal.Decimal `json:"amount"`
	// Staged carries the pending edit-form fields when qualification was
	// started from the lead form rather than the status control.
	Staged *leadRequest `json:"staged"`
}

func (s *Server) handleConfirmQualify(w http.ResponseWriter, r *http.Request) {
	company, err := companyID(r)
	if err != nil {
		s.respondError(w, err)
		return
	}
	var req confirmQualifyRequest
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, err)
		return
	}
	var staged *ports.LeadInput
	if req.Staged != nil {
		in := req.Staged.input()
		staged = &in
	}
	deal, err := s.workflow.ConfirmQualify(r.Context(), company, chi.URLParam(r, "id"), req.Amount, staged)
	if err != nil {
		s.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, toDealView(deal))
}

func (s *Server) handleCancelQualify(w http.ResponseWriter, r *http.Request) {
	company, err := companyID(r)
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.workflow.CancelQualify(company, chi.URLParam(r, "id"))
	w.WriteHeader(http.StatusNoContent)
}

type captureRequest struct {
	ReferralCode string  `json:"referral_code"`
	Name         string  `json:"name"`
	Email        string  `json:"email"`
	Phone        *string `json:"phone"`
	CompanyName  *string `json:"company_name"`
}

func (s *Server) handleCapture(w http.ResponseWriter, r *http.Request) {
	var req captureRequest
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, err)
		return
	}
	lead, err := s.leads.Capture(r.Context(), req.ReferralCode, ports.CaptureInput{
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		CompanyName: req.CompanyName,
	})
	if err != nil {
		s.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, toLeadView(lead))
}
