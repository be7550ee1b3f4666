// Package httpadapter exposes the services over a chi REST surface.
// Authentication and sessions are handled upstream; the company scope
// arrives as an opaque X-Company-ID header and is passed explicitly to
// every service call.
package httpadapter

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"referraldesk/internal/ports"
)

type Server struct {
	referrers   ports.Referrers
	leads       ports.Leads
	deals       ports.Deals
	commissions ports.Commissions
	payouts     ports.Payouts
	workflow    ports.Workflow
	log         *zap.Logger
}

func New(referrers ports.Referrers, leads ports.Leads, deals ports.Deals, commissions ports.Commissions, payouts ports.Payouts, workflow ports.Workflow, log *zap.Logger) *Server {
	return &Server{
		referrers:   referrers,
		leads:       leads,
		deals:       deals,
		commissions: commissions,
		payouts:     payouts,
		workflow:    workflow,
		log:         log,
	}
}

func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/healthz", s.handleHealthz)

	// Public paths reached through a referrer's tracking link; the
	// referral code supplies the company scope.
	r.Post("/capture", s.handleCapture)
	r.Post("/referrers/claim", s.handleClaimReferrer)

	r.Route("/referrers", func(r chi.Router) {
		r.Get("/", s.handleListReferrers)
		r.Post("/", s.handleCreateReferrer)
		r.Get("/{id}", s.handleGetReferrer)
		r.Put("/{id}", s.handleUpdateReferrer)
		r.Delete("/{id}", s.handleDeleteReferrer)
	})

	r.Route("/leads", func(r chi.Router) {
		r.Get("/", s.handleListLeads)
		r.Post("/", s.handleCreateLead)
		r.Get("/{id}", s.handleGetLead)
		r.Put("/{id}", s.handleUpdateLead)
		r.Delete("/{id}", s.handleDeleteLead)
		r.Post("/{id}/status", s.handleSetLeadStatus)
		r.Post("/{id}/qualify", s.handleBeginQualify)
		r.Post("/{id}/qualify/confirm", s.handleConfirmQualify)
		r.Post("/{id}/qualify/cancel", s.handleCancelQualify)
	})

	r.Route("/deals", func(r chi.Router) {
		r.Get("/", s.handleListDeals)
		r.Post("/", s.handleCreateDeal)
		r.Get("/{id}", s.handleGetDeal)
		r.Put("/{id}", s.handleUpdateDeal)
		r.Delete("/{id}", s.handleDeleteDeal)
	})

	r.Route("/commissions", func(r chi.Router) {
		r.Get("/", s.handleListCommissions)
		r.Get("/{id}", s.handleGetCommission)
		r.Post("/{id}/status", s.handleAdvanceCommission)
	})

	r.Route("/payouts", func(r chi.Router) {
		r.Get("/", s.handleListPayouts)
		r.Post("/", s.handleCreatePayout)
		r.Get("/{id}", s.handleGetPayout)
		r.Post("/{id}/status", s.handleUpdatePayoutStatus)
	})

	return r
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
