package httpadapter

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"referraldesk/internal/apperrors"
	"referraldesk/internal/domain"
)

type commissionView struct {
	ID         string                  `json:"id"`
	CompanyID  string                  `json:"company_id"`
	ReferrerID string                  `json:"referrer_id"`
	DealID     string                  `json:"deal_id"`
	Amount     decimal.Decimal         `json:"amount"`
	Status     domain.CommissionStatus `json:"status"`
	CreatedAt  time.Time               `json:"created_at"`
	UpdatedAt  time.Time               `json:"updated_at"`
}

func toCommissionView(c domain.CommissionEntry) commissionView {
	return commissionView{
		ID:         c.ID,
		CompanyID:  c.CompanyID,
		ReferrerID: c.ReferrerID,
		DealID:     c.DealID,
		Amount:     c.Amount,
		Status:     c.Status,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
}

type advanceCommissionRequest struct {
	Status domain.CommissionStatus `json:"status"`
}

func (s *Server) handleAdvanceCommission(w http.ResponseWriter, r *http.Request) {
	company, err := companyID(r)
	if err != nil {
		s.respondError(w, err)
		return
	}
	var req advanceCommissionRequest
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, err)
		return
	}
	entry, err := s.commissions.AdvanceStatus(r.Context(), company, chi.URLParam(r, "id"), req.Status)
	if err != nil {
		s.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toCommissionView(entry))
}

func (s *Server) handleGetCommission(w http.ResponseWriter, r *http.Request) {
	company, err := companyID(r)
	if err != nil {
		s.respondError(w, err)
		return
	}
	entry, err := s.commissions.Get(r.Context(), company, chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toCommissionView(entry))
}

func (s *Server) handleListCommissions(w http.ResponseWriter, r *http.Request) {
	company, err := companyID(r)
	if err != nil {
		s.respondError(w, err)
		return
	}
	var status *domain.CommissionStatus
	if v := r.URL.Query().Get("status"); v != "" {
		st := domain.CommissionStatus(v)
		if !st.Valid() {
			s.respondError(w, apperrors.Newf(apperrors.CodeValidation, "unknown commission status %q", v))
			return
		}
		status = &st
	}
	entries, err := s.commissions.List(r.Context(), company, status)
	if err != nil {
		s.respondError(w, err)
		return
	}
	views := make([]commissionView, 0, len(entries))
	for _, c := range entries {
		views = append(views, toCommissionView(c))
	}
	respondJSON(w, http.StatusOK, views)
}
