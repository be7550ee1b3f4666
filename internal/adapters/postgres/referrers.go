package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"referraldesk/internal/domain"
)

type ReferrerRepo struct {
	db *DB
}

func NewReferrerRepo(db *DB) *ReferrerRepo { return &ReferrerRepo{db: db} }

const referrerCols = `id, company_id, user_id, name, email, phone, commission_rate, status, referral_code, created_at, updated_at`

func scanReferrer(row pgx.Row) (domain.Referrer, error) {
	var r domain.Referrer
	err := row.Scan(&r.ID, &r.CompanyID, &r.UserID, &r.Name, &r.Email, &r.Phone,
		&r.CommissionRate, &r.Status, &r.ReferralCode, &r.CreatedAt, &r.UpdatedAt)
	return r, err
}

func (repo *ReferrerRepo) Create(ctx context.Context, r domain.Referrer) (domain.Referrer, error) {
	row := repo.db.Pool.QueryRow(ctx, `
        INSERT INTO referrers (company_id, user_id, name, email, phone, commission_rate, status, referral_code)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING `+referrerCols+`
    `, r.CompanyID, r.UserID, r.Name, r.Email, r.Phone, r.CommissionRate, r.Status, r.ReferralCode)
	return scanReferrer(row)
}

func (repo *ReferrerRepo) Update(ctx context.Context, r domain.Referrer) (domain.Referrer, error) {
	row := repo.db.Pool.QueryRow(ctx, `
        UPDATE referrers
        SET user_id=$3, name=$4, email=$5, phone=$6, commission_rate=$7, status=$8, updated_at=now()
        WHERE company_id=$1 AND id=$2
        RETURNING `+referrerCols+`
    `, r.CompanyID, r.ID, r.UserID, r.Name, r.Email, r.Phone, r.CommissionRate, r.Status)
	out, err := scanReferrer(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return out, notFound("referrer")
	}
	return out, err
}

func (repo *ReferrerRepo) Delete(ctx context.Context, companyID, id string) error {
	_, err := repo.db.Pool.Exec(ctx, `DELETE FROM referrers WHERE company_id=$1 AND id=$2`, companyID, id)
	return err
}

func (repo *ReferrerRepo) Get(ctx context.Context, companyID, id string) (domain.Referrer, error) {
	row := repo.db.Pool.QueryRow(ctx, `SELECT `+referrerCols+` FROM referrers WHERE company_id=$1 AND id=$2`, companyID, id)
	out, err := scanReferrer(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return out, notFound("referrer")
	}
	return out, err
}

func (repo *ReferrerRepo) GetByCode(ctx context.Context, code string) (domain.Referrer, error) {
	row := repo.db.Pool.QueryRow(ctx, `SELECT `+referrerCols+` FROM referrers WHERE referral_code=$1`, code)
	out, err := scanReferrer(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return out, notFound("referrer")
	}
	return out, err
}

func (repo *ReferrerRepo) List(ctx context.Context, companyID string, status *domain.ReferrerStatus) ([]domain.Referrer, error) {
	rows, err := repo.db.Pool.Query(ctx, `
        SELECT `+referrerCols+` FROM referrers
        WHERE company_id=$1 AND ($2::text IS NULL OR status=$2)
        ORDER BY created_at DESC
    `, companyID, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []domain.Referrer
	for rows.Next() {
		r, err := scanReferrer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
