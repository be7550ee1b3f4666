package payoutrunner

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"referraldesk/internal/ports"
)

// Processor settles a claimed payout. Claiming has already moved the
// payout to processing; returning nil marks it completed, an error marks
// it failed.
type Processor interface {
	Process(ctx context.Context, payoutID string) error
}

// StubSettlement stamps a locally generated transaction id and reports
// success. Replace with a real payment-provider integration.
type StubSettlement struct {
	Payouts ports.PayoutRepository
}

func (s StubSettlement) Process(ctx context.Context, payoutID string) error {
	return s.Payouts.SetTransaction(ctx, payoutID, "txn_"+uuid.NewString())
}

// Run starts worker goroutines that claim payout jobs and process them.
// The dispatcher drains the queue on every tick; workers resolve each
// job to completed or failed.
func Run(ctx context.Context, repo ports.PayoutJobRepository, processor Processor, concurrency int, pollInterval time.Duration, log *zap.Logger) {
	if concurrency < 1 {
		return
	}
	jobsCh := make(chan ports.PayoutJob, concurrency)

	// dispatcher loop
	go func() {
		ticker := time.NewTicker(pollInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				close(jobsCh)
				return
			case <-ticker.C:
				for {
					job, found, err := repo.ClaimNext(ctx)
					if err != nil {
						log.Warn("payout job claim failed", zap.Error(err))
						break
					}
					if !found {
						break
					}
					jobsCh <- job
				}
			}
		}
	}()

	// workers
	for i := 0; i < concurrency; i++ {
		go func(idx int) {
			for job := range jobsCh {
				if err := processor.Process(ctx, job.PayoutID); err != nil {
					_ = repo.MarkFailed(ctx, job.ID, err.Error())
					log.Warn("payout processing failed",
						zap.Int("worker", idx), zap.String("job_id", job.ID), zap.Error(err))
					continue
				}
				if err := repo.MarkCompleted(ctx, job.ID); err != nil {
					log.Warn("payout completion write failed",
						zap.Int("worker", idx), zap.String("job_id", job.ID), zap.Error(err))
				}
			}
		}(i)
	}
}
