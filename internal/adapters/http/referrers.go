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

type referrerRequest struct {
	Name           string                `json:"name"`
	Email          string                `json:"email"`
	Phone          *string               `json:"phone"`
	CommissionRate decimal.Decimal       `json:"commission_rate"`
	Status         domain.ReferrerStatus `json:"status"`
}

type referrerView struct {
	ID             string                `json:"id"`
	CompanyID      string                `json:"company_id"`
	UserID         *string               `json:"user_id"`
	Name           string                `json:"name"`
	Email          string                `json:"email"`
	Phone          *string               `json:"phone"`
	CommissionRate decimal.Decimal       `json:"commission_rate"`
	Status         domain.ReferrerStatus `json:"status"`
	ReferralCode   *string               `json:"referral_code"`
	CreatedAt      time.Time             `json:"created_at"`
	UpdatedAt      time.Time             `json:"updated_at"`
}

func toReferrerView(r domain.Referrer) referrerView {
	return referrerView{
		ID:             r.ID,
		CompanyID:      r.CompanyID,
		UserID:         r.UserID,
		Name:           r.Name,
		Email:          r.Email,
		Phone:          r.Phone,
		CommissionRate: r.CommissionRate,
		Status:         r.Status,
		ReferralCode:   r.ReferralCode,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

func (s *Server) handleCreateReferrer(w http.ResponseWriter, r *http.Request) {
	company, err := companyID(r)
	if err != nil {
		s.respondError(w, err)
		return
	}
	var req referrerRequest
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, err)
		return
	}
	created, err := s.referrers.Create(r.Context(), company, ports.ReferrerInput{
		Name:           req.Name,
		Email:          req.Email,
		Phone:          req.Phone,
		CommissionRate: req.CommissionRate,
		Status:         req.Status,
	})
	if err != nil {
		s.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, toReferrerView(created))
}

func (s *Server) handleUpdateReferrer(w http.ResponseWriter, r *http.Request) {
	company, err := companyID(r)
	if err != nil {
		s.respondError(w, err)
		return
	}
	var req referrerRequest
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, err)
		return
	}
	updated, err := s.referrers.Update(r.Context(), company, chi.URLParam(r, "id"), ports.ReferrerInput{
		Name:           req.Name,
		Email:          req.Email,
		Phone:          req.Phone,
		CommissionRate: req.CommissionRate,
		Status:         req.Status,
	})
	if err != nil {
		s.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toReferrerView(updated))
}

func (s *Server) handleDeleteReferrer(w http.ResponseWriter, r *http.Request) {
	company, err := companyID(r)
	if err != nil {
		s.respondError(w, err)
		return
	}
	if err := s.referrers.Delete(r.Context(), company, chi.URLParam(r, "id")); err != nil {
		s.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetReferrer(w http.ResponseWriter, r *http.Request) {
	company, err := companyID(r)
	if err != nil {
		s.respondError(w, err)
		return
	}
	ref, err := s.referrers.Get(r.Context(), company, chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toReferrerView(ref))
}

func (s *Server) handleListReferrers(w http.ResponseWriter, r *http.Request) {
	company, err := companyID(r)
	if err != nil {
		s.respondError(w, err)
		return
	}
	var status *domain.ReferrerStatus
	if v := r.URL.Query().Get("status"); v != "" {
		st := domain.ReferrerStatus(v)
		if !st.Valid() {
			s.respondError(w, apperrors.Newf(apperrors.CodeValidation, "unknown referrer status %q", v))
			return
		}
		status = &st
	}
	refs, err := s.referrers.List(r.Context(), company, status)
	if err != nil {
		s.respondError(w, err)
		return
	}
	views := make([]referrerView, 0, len(refs))
	for _, ref := range refs {
		views = append(views, toReferrerView(ref))
	}
	respondJSON(w, http.StatusOK, views)
}

type claimRequest struct {
	ReferralCode string `json:"referral_code"`
	UserID       string `json:"user_id"`
	Email        string `json:"email"`
}

func (s *Server) handleClaimReferrer(w http.ResponseWriter, r *http.Request) {
	var req claimRequest
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, err)
		return
	}
	claimed, err := s.referrers.Claim(r.Context(), req.ReferralCode, req.UserID, req.Email)
	if err != nil {
		s.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toReferrerView(claimed))
}
