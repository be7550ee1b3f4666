package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"referraldesk/internal/domain"
)

type DealRepo struct {
	db *DB
}

func NewDealRepo(db *DB) *DealRepo { return &DealRepo{db: db} }

const dealCols = `id, company_id, lead_id, referrer_id, amount, status, closed_at, created_at, updated_at`

func scanDeal(row pgx.Row) (domain.Deal, error) {
	var d domain.Deal
	err := row.Scan(&d.ID, &d.CompanyID, &d.LeadID, &d.ReferrerID, &d.Amount,
		&d.Status, &d.ClosedAt, &d.CreatedAt, &d.UpdatedAt)
	return d, err
}

func (repo *DealRepo) Create(ctx context.Context, d domain.Deal) (domain.Deal, error) {
	row := repo.db.Pool.QueryRow(ctx, `
        INSERT INTO deals (company_id, lead_id, referrer_id, amount, status, closed_at)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING `+dealCols+`
    `, d.CompanyID, d.LeadID, d.ReferrerID, d.Amount, d.Status, d.ClosedAt)
	return scanDeal(row)
}

func (repo *DealRepo) Update(ctx context.Context, d domain.Deal) (domain.Deal, error) {
	row := repo.db.Pool.QueryRow(ctx, `
        UPDATE deals
        SET amount=$3, status=$4, closed_at=$5, updated_at=now()
        WHERE company_id=$1 AND id=$2
        RETURNING `+dealCols+`
    `, d.CompanyID, d.ID, d.Amount, d.Status, d.ClosedAt)
	out, err := scanDeal(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return out, notFound("deal")
	}
	return out, err
}

func (repo *DealRepo) Delete(ctx context.Context, companyID, id string) error {
	_, err := repo.db.Pool.Exec(ctx, `DELETE FROM deals WHERE company_id=$1 AND id=$2`, companyID, id)
	return err
}

func (repo *DealRepo) Get(ctx context.Context, companyID, id string) (domain.Deal, error) {
	row := repo.db.Pool.QueryRow(ctx, `SELECT `+dealCols+` FROM deals WHERE company_id=$1 AND id=$2`, companyID, id)
	out, err := scanDeal(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return out, notFound("deal")
	}
	return out, err
}

func (repo *DealRepo) ExistsForLead(ctx context.Context, companyID, leadID string) (bool, error) {
	var exists bool
	err := repo.db.Pool.QueryRow(ctx, `
        SELECT EXISTS (SELECT 1 FROM deals WHERE company_id=$1 AND lead_id=$2)
    `, companyID, leadID).Scan(&exists)
	return exists, err
}

func (repo *DealRepo) List(ctx context.Context, companyID string, status *domain.DealStatus) ([]domain.Deal, error) {
	rows, err := repo.db.Pool.Query(ctx, `
        SELECT `+dealCols+` FROM deals
        WHERE company_id=$1 AND ($2::text IS NULL OR status=$2)
        ORDER BY created_at DESC
    `, companyID, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []domain.Deal
	for rows.Next() {
		d, err := scanDeal(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
