package ports

import "context"

type PayoutJob struct {
	ID       string
	PayoutID string
}

// PayoutJobRepository supports claiming and resolving payout jobs.
// Claiming moves the payout to processing; completion and failure move
// it to its terminal status along with the job row.
type PayoutJobRepository interface {
	ClaimNext(ctx context.Context) (job PayoutJob, found bool, err error)
	MarkCompleted(ctx context.Context, jobID string) error
	MarkFailed(ctx context.Context, jobID string, reason string) error
}
