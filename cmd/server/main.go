package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	httpadapter "referraldesk/internal/adapters/http"
	pg "referraldesk/internal/adapters/postgres"
	"referraldesk/internal/config"
	"referraldesk/internal/ports"
	commsvc "referraldesk/internal/services/commissions"
	dealsvc "referraldesk/internal/services/deals"
	leadsvc "referraldesk/internal/services/leads"
	paysvc "referraldesk/internal/services/payouts"
	refsvc "referraldesk/internal/services/referrers"
	wfsvc "referraldesk/internal/services/workflow"
	payoutworker "referraldesk/internal/workers/payoutrunner"
)

func main() {
	log, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		log.Warn("config", zap.Error(err))
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is required for Postgres adapters")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := pg.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal("db connect", zap.Error(err))
	}
	defer db.Close()

	if err := pg.Migrate(ctx, cfg.DatabaseURL); err != nil {
		log.Fatal("db migrate", zap.Error(err))
	}

	referrerRepo := pg.NewReferrerRepo(db)
	leadRepo := pg.NewLeadRepo(db)
	dealRepo := pg.NewDealRepo(db)
	commissionRepo := pg.NewCommissionRepo(db)
	payoutRepo := pg.NewPayoutRepo(db)
	jobRepo := pg.NewPayoutJobRepo(db)

	// Wire repositories to services (ports)
	var _ ports.ReferrerRepository = referrerRepo
	var _ ports.LeadRepository = leadRepo
	var _ ports.DealRepository = dealRepo
	var _ ports.CommissionRepository = commissionRepo
	var _ ports.PayoutRepository = payoutRepo
	var _ ports.PayoutJobRepository = jobRepo

	referrers := refsvc.New(referrerRepo, log, cfg.ClaimRetries, cfg.ClaimRetryWait)
	leads := leadsvc.New(leadRepo, dealRepo, referrers, log)
	deals := dealsvc.New(dealRepo, leadRepo, referrerRepo, commissionRepo, log)
	commissions := commsvc.New(commissionRepo, dealRepo, leadRepo, log)
	payouts := paysvc.New(payoutRepo)
	workflow := wfsvc.New(leads, deals, log)

	srv := httpadapter.New(referrers, leads, deals, commissions, payouts, workflow, log)
	r := chi.NewRouter()
	r.Mount("/", srv.Routes())

	// Optional background payout workers
	if cfg.PayoutWorkers > 0 {
		processor := payoutworker.StubSettlement{Payouts: payoutRepo}
		go payoutworker.Run(ctx, jobRepo, processor, cfg.PayoutWorkers, cfg.PayoutPollInterval, log)
		log.Info("payout workers started", zap.Int("count", cfg.PayoutWorkers))
	}

	errCh := make(chan error, 1)
	go func() { errCh <- http.ListenAndServe(cfg.ListenAddr, r) }()
	log.Info("listening", zap.String("addr", cfg.ListenAddr))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		log.Info("shutting down", zap.String("signal", sig.String()))
		cancel()
		time.Sleep(300 * time.Millisecond)
	case err := <-errCh:
		log.Fatal("server error", zap.Error(err))
	}
}
