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

type payoutRequest struct {
	ReferrerID    string          `json:"referrer_id"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod *string         `json:"payment_method"`
	Notes         *string         `json:"notes"`
}

type payoutView struct {
	ID            string              `json:"id"`
	CompanyID     string              `json:"company_id"`
	ReferrerID    string              `json:"referrer_id"`
	Amount        decimal.Decimal     `json:"amount"`
	Status        domain.PayoutStatus `json:"status"`
	PaymentMethod *string             `json:"payment_method"`
	TransactionID *string             `json:"transaction_id"`
	Notes         *string             `json:"notes"`
	PaidAt        *time.Time          `json:"paid_at"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

func toPayoutView(p domain.Payout) payoutView {
	return payoutView{
		ID:            p.ID,
		CompanyID:     p.CompanyID,
		ReferrerID:    p.ReferrerID,
		Amount:        p.Amount,
		Status:        p.Status,
		PaymentMethod: p.PaymentMethod,
		TransactionID: p.TransactionID,
		Notes:         p.Notes,
		PaidAt:        p.PaidAt,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func (s *Server) handleCreatePayout(w http.ResponseWriter, r *http.Request) {
	company, err := companyID(r)
	if err != nil {
		s.respondError(w, err)
		return
	}
	var req payoutRequest
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, err)
		return
	}
	created, err := s.payouts.Create(r.Context(), company, ports.PayoutInput{
		ReferrerID:    req.ReferrerID,
		Amount:        req.Amount,
		PaymentMethod: req.PaymentMethod,
		Notes:         req.Notes,
	})
	if err != nil {
		s.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, toPayoutView(created))
}

type payoutStatusRequest struct {
	Status domain.PayoutStatus `json:"status"`
}

func (s *Server) handleUpdatePayoutStatus(w http.ResponseWriter, r *http.Request) {
	company, err := companyID(r)
	if err != nil {
		s.respondError(w, err)
		return
	}
	var req payoutStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, err)
		return
	}
	payout, err := s.payouts.UpdateStatus(r.Context(), company, chi.URLParam(r, "id"), req.Status)
	if err != nil {
		s.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toPayoutView(payout))
}

func (s *Server) handleGetPayout(w http.ResponseWriter, r *http.Request) {
	company, err := companyID(r)
	if err != nil {
		s.respondError(w, err)
		return
	}
	payout, err := s.payouts.Get(r.Context(), company, chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toPayoutView(payout))
}

func (s *Server) handleListPayouts(w http.ResponseWriter, r *http.Request) {
	company, err := companyID(r)
	if err != nil {
		s.respondError(w, err)
		return
	}
	var status *domain.PayoutStatus
	if v := r.URL.Query().Get("status"); v != "" {
		st := domain.PayoutStatus(v)
		if !st.Valid() {
			s.respondError(w, apperrors.Newf(apperrors.CodeValidation, "unknown payout status %q", v))
			return
		}
		status = &st
	}
	payouts, err := s.payouts.List(r.Context(), company, status)
	if err != nil {
		s.respondError(w, err)
		return
	}
	views := make([]payoutView, 0, len(payouts))
	for _, p := range payouts {
		views = append(views, toPayoutView(p))
	}
	respondJSON(w, http.StatusOK, views)
}
