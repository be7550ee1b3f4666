package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"referraldesk/internal/domain"
)

type CommissionRepo struct {
	db *DB
}

func NewCommissionRepo(db *DB) *CommissionRepo { return &CommissionRepo{db: db} }

const commissionCols = `id, company_id, referrer_id, deal_id, amount, status, created_at, updated_at`

func scanCommission(row pgx.Row) (domain.CommissionEntry, error) {
	var c domain.CommissionEntry
	err := row.Scan(&c.ID, &c.CompanyID, &c.ReferrerID, &c.DealID, &c.Amount,
		&c.Status, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

// Create inserts the single ledger entry for a deal. ON CONFLICT DO
// NOTHING backs up the service-level duplicate check: a lost race falls
// through to re-reading the existing row instead of failing.
func (repo *CommissionRepo) Create(ctx context.Context, c domain.CommissionEntry) (domain.CommissionEntry, error) {
	row := repo.db.Pool.QueryRow(ctx, `
        INSERT INTO commission_ledger (company_id, referrer_id, deal_id, amount, status)
        VALUES ($1, $2, $3, $4, $5)
        ON CONFLICT (deal_id) DO NOTHING
        RETURNING `+commissionCols+`
    `, c.CompanyID, c.ReferrerID, c.DealID, c.Amount, c.Status)
	out, err := scanCommission(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return repo.getByDeal(ctx, c.CompanyID, c.DealID)
	}
	return out, err
}

func (repo *CommissionRepo) getByDeal(ctx context.Context, companyID, dealID string) (domain.CommissionEntry, error) {
	row := repo.db.Pool.QueryRow(ctx, `
        SELECT `+commissionCols+` FROM commission_ledger WHERE company_id=$1 AND deal_id=$2
    `, companyID, dealID)
	out, err := scanCommission(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return out, notFound("commission entry")
	}
	return out, err
}

func (repo *CommissionRepo) UpdateStatus(ctx context.Context, companyID, id string, status domain.CommissionStatus) error {
	tag, err := repo.db.Pool.Exec(ctx, `
        UPDATE commission_ledger SET status=$3, updated_at=now() WHERE company_id=$1 AND id=$2
    `, companyID, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return notFound("commission entry")
	}
	return nil
}

func (repo *CommissionRepo) Get(ctx context.Context, companyID, id string) (domain.CommissionEntry, error) {
	row := repo.db.Pool.QueryRow(ctx, `
        SELECT `+commissionCols+` FROM commission_ledger WHERE company_id=$1 AND id=$2
    `, companyID, id)
	out, err := scanCommission(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return out, notFound("commission entry")
	}
	return out, err
}

func (repo *CommissionRepo) ExistsForDeal(ctx context.Context, companyID, dealID string) (bool, error) {
	var exists bool
	err := repo.db.Pool.QueryRow(ctx, `
        SELECT EXISTS (SELECT 1 FROM commission_ledger WHERE company_id=$1 AND deal_id=$2)
    `, companyID, dealID).Scan(&exists)
	return exists, err
}

func (repo *CommissionRepo) List(ctx context.Context, companyID string, status *domain.CommissionStatus) ([]domain.CommissionEntry, error) {
	rows, err := repo.db.Pool.Query(ctx, `
        SELECT `+commissionCols+` FROM commission_ledger
        WHERE company_id=$1 AND ($2::text IS NULL OR status=$2)
        ORDER BY created_at DESC
    `, companyID, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []domain.CommissionEntry
	for rows.Next() {
		c, err := scanCommission(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
