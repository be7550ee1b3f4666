package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"referraldesk/internal/ports"
)

type PayoutJobRepo struct {
	db *DB
}

func NewPayoutJobRepo(db *DB) *PayoutJobRepo { return &PayoutJobRepo{db: db} }

// ClaimNext selects the next queued payout job using SKIP LOCKED, marks
// it running and moves the payout to processing in one transaction.
func (repo *PayoutJobRepo) ClaimNext(ctx context.Context) (job ports.PayoutJob, found bool, err error) {
	tx, err := repo.db.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return job, false, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			_ = tx.Commit(ctx)
		}
	}()

	err = tx.QueryRow(ctx, `
        SELECT id, payout_id FROM payout_jobs
        WHERE status = 'queued'
        ORDER BY queued_at
        FOR UPDATE SKIP LOCKED
        LIMIT 1
    `).Scan(&job.ID, &job.PayoutID)
	if errors.Is(err, pgx.ErrNoRows) {
		err = nil
		return job, false, nil
	}
	if err != nil {
		return job, false, err
	}

	if _, err = tx.Exec(ctx, `
        UPDATE payout_jobs SET status='running', started_at=now(), attempts=attempts+1 WHERE id=$1
    `, job.ID); err != nil {
		return job, false, err
	}
	if _, err = tx.Exec(ctx, `
        UPDATE payouts SET status='processing', updated_at=now() WHERE id=$1
    `, job.PayoutID); err != nil {
		return job, false, err
	}
	return job, true, nil
}

// MarkCompleted resolves the job and its payout together; completion
// stamps paid_at.
func (repo *PayoutJobRepo) MarkCompleted(ctx context.Context, jobID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	tx, err := repo.db.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			_ = tx.Commit(ctx)
		}
	}()

	var payoutID string
	if err = tx.QueryRow(ctx, `SELECT payout_id FROM payout_jobs WHERE id=$1`, jobID).Scan(&payoutID); err != nil {
		return err
	}
	if _, err = tx.Exec(ctx, `UPDATE payout_jobs SET status='completed', finished_at=now() WHERE id=$1`, jobID); err != nil {
		return err
	}
	if _, err = tx.Exec(ctx, `UPDATE payouts SET status='completed', paid_at=now(), updated_at=now() WHERE id=$1`, payoutID); err != nil {
		return err
	}
	return nil
}

func (repo *PayoutJobRepo) MarkFailed(ctx context.Context, jobID string, reason string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	tx, err := repo.db.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			_ = tx.Commit(ctx)
		}
	}()

	var payoutID string
	if err = tx.QueryRow(ctx, `SELECT payout_id FROM payout_jobs WHERE id=$1`, jobID).Scan(&payoutID); err != nil {
		return err
	}
	if _, err = tx.Exec(ctx, `UPDATE payout_jobs SET status='failed', reason=$2, finished_at=now() WHERE id=$1`, jobID, reason); err != nil {
		return err
	}
	if _, err = tx.Exec(ctx, `UPDATE payouts SET status='failed', updated_at=now() WHERE id=$1`, payoutID); err != nil {
		return err
	}
	return nil
}
