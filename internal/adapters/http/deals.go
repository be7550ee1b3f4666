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

type dealRequest struct {
	LeadID string            `json:"lead_id"`
	Amount decimal.Decimal   `json:"amount"`
	Status domain.DealStatus `json:"status"`
}

type dealUpdateRequest struct {
	Amount *decimal.Decimal   `json:"amount"`
	Status *domain.DealStatus `json:"status"`
}

type dealView struct {
	ID         string            `json:"id"`
	CompanyID  string            `json:"company_id"`
	LeadID     string            `json:"lead_id"`
	ReferrerID string            `json:"referrer_id"`
	Amount     decimal.Decimal   `json:"amount"`
	Status     domain.DealStatus `json:"status"`
	ClosedAt   *time.Time        `json:"closed_at"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

func toDealView(d domain.Deal) dealView {
	return dealView{
		ID:         d.ID,
		CompanyID:  d.CompanyID,
		LeadID:     d.LeadID,
		ReferrerID: d.ReferrerID,
		Amount:     d.Amount,
		Status:     d.Status,
		ClosedAt:   d.ClosedAt,
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
	}
}

func (s *Server) handleCreateDeal(w http.ResponseWriter, r *http.Request) {
	company, err := companyID(r)
	if err != nil {
		s.respondError(w, err)
		return
	}
	var req dealRequest
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, err)
		return
	}
	created, err := s.deals.Create(r.Context(), company, ports.DealInput{
		LeadID: req.LeadID,
		Amount: req.Amount,
		Status: req.Status,
	})
	if err != nil {
		s.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, toDealView(created))
}

func (s *Server) handleUpdateDeal(w http.ResponseWriter, r *http.Request) {
	company, err := companyID(r)
	if err != nil {
		s.respondError(w, err)
		return
	}
	var req dealUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, err)
		return
	}
	updated, err := s.deals.Update(r.Context(), company, chi.URLParam(r, "id"), ports.DealUpdate{
		Amount: req.Amount,
		Status: req.Status,
	})
	if err != nil {
		s.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toDealView(updated))
}

func (s *Server) handleDeleteDeal(w http.ResponseWriter, r *http.Request) {
	company, err := companyID(r)
	if err != nil {
		s.respondError(w, err)
		return
	}
	if err := s.deals.Delete(r.Context(), company, chi.URLParam(r, "id")); err != nil {
		s.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetDeal(w http.ResponseWriter, r *http.Request) {
	company, err := companyID(r)
	if err != nil {
		s.respondError(w, err)
		return
	}
	deal, err := s.deals.Get(r.Context(), company, chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toDealView(deal))
}

func (s *Server) handleListDeals(w http.ResponseWriter, r *http.Request) {
	company, err := companyID(r)
	if err != nil {
		s.respondError(w, err)
		return
	}
	var status *domain.DealStatus
	if v := r.URL.Query().Get("status"); v != "" {
		st := domain.DealStatus(v)
		if !st.Valid() {
			s.respondError(w, apperrors.Newf(apperrors.CodeValidation, "unknown deal status %q", v))
			return
		}
		status = &st
	}
	deals, err := s.deals.List(r.Context(), company, status)
	if err != nil {
		s.respondError(w, err)
		return
	}
	views := make([]dealView, 0, len(deals))
	for _, d := range deals {
		views = append(views, toDealView(d))
	}
	respondJSON(w, http.StatusOK, views)
}
