package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"referraldesk/internal/domain"
)

type PayoutRepo struct {
	db *DB
}

func NewPayoutRepo(db *DB) *PayoutRepo { return &PayoutRepo{db: db} }

const payoutCols = `id, company_id, referrer_id, amount, status, payment_method, transaction_id, notes, paid_at, created_at, updated_at`

func scanPayout(row pgx.Row) (domain.Payout, error) {
	var p domain.Payout
	err := row.Scan(&p.ID, &p.CompanyID, &p.ReferrerID, &p.Amount, &p.Status,
		&p.PaymentMethod, &p.TransactionID, &p.Notes, &p.PaidAt, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

// Create inserts the payout row and its processing job together.
func (repo *PayoutRepo) Create(ctx context.Context, p domain.Payout) (domain.Payout, error) {
	tx, err := repo.db.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return domain.Payout{}, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			_ = tx.Commit(ctx)
		}
	}()

	var out domain.Payout
	out, err = scanPayout(tx.QueryRow(ctx, `
        INSERT INTO payouts (company_id, referrer_id, amount, status, payment_method, notes)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING `+payoutCols+`
    `, p.CompanyID, p.ReferrerID, p.Amount, p.Status, p.PaymentMethod, p.Notes))
	if err != nil {
		return domain.Payout{}, err
	}
	_, err = tx.Exec(ctx, `INSERT INTO payout_jobs (payout_id) VALUES ($1)`, out.ID)
	if err != nil {
		return domain.Payout{}, err
	}
	return out, nil
}

func (repo *PayoutRepo) UpdateStatus(ctx context.Context, companyID, id string, status domain.PayoutStatus) error {
	tag, err := repo.db.Pool.Exec(ctx, `
        UPDATE payouts
        SET status=$3,
            paid_at=CASE WHEN $3='completed' THEN now() ELSE paid_at END,
            updated_at=now()
        WHERE company_id=$1 AND id=$2
    `, companyID, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return notFound("payout")
	}
	return nil
}

func (repo *PayoutRepo) SetTransaction(ctx context.Context, payoutID, transactionID string) error {
	_, err := repo.db.Pool.Exec(ctx, `
        UPDATE payouts SET transaction_id=$2, updated_at=now() WHERE id=$1
    `, payoutID, transactionID)
	return err
}

func (repo *PayoutRepo) Get(ctx context.Context, companyID, id string) (domain.Payout, error) {
	row := repo.db.Pool.QueryRow(ctx, `SELECT `+payoutCols+` FROM payouts WHERE company_id=$1 AND id=$2`, companyID, id)
	out, err := scanPayout(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return out, notFound("payout")
	}
	return out, err
}

func (repo *PayoutRepo) List(ctx context.Context, companyID string, status *domain.PayoutStatus) ([]domain.Payout, error) {
	rows, err := repo.db.Pool.Query(ctx, `
        SELECT `+payoutCols+` FROM payouts
        WHERE company_id=$1 AND ($2::text IS NULL OR status=$2)
        ORDER BY created_at DESC
    `, companyID, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []domain.Payout
	for rows.Next() {
		p, err := scanPayout(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
