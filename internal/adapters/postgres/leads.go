package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"referraldesk/internal/domain"
)

type LeadRepo struct {
	db *DB
}

func NewLeadRepo(db *DB) *LeadRepo { return &LeadRepo{db: db} }

const leadCols = `id, company_id, referrer_id, name, email, phone, company_name, status, notes, created_at, updated_at`

func scanLead(row pgx.Row) (domain.Lead, error) {
	var l domain.Lead
	err := row.Scan(&l.ID, &l.CompanyID, &l.ReferrerID, &l.Name, &l.Email, &l.Phone,
		&l.CompanyName, &l.Status, &l.Notes, &l.CreatedAt, &l.UpdatedAt)
	return l, err
}

func (repo *LeadRepo) Create(ctx context.Context, l domain.Lead) (domain.Lead, error) {
	row := repo.db.Pool.QueryRow(ctx, `
        INSERT INTO leads (company_id, referrer_id, name, email, phone, company_name, status, notes)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING `+leadCols+`
    `, l.CompanyID, l.ReferrerID, l.Name, l.Email, l.Phone, l.CompanyName, l.Status, l.Notes)
	return scanLead(row)
}

func (repo *LeadRepo) Update(ctx context.Context, l domain.Lead) (domain.Lead, error) {
	row := repo.db.Pool.QueryRow(ctx, `
        UPDATE leads
        SET referrer_id=$3, name=$4, email=$5, phone=$6, company_name=$7, status=$8, notes=$9, updated_at=now()
        WHERE company_id=$1 AND id=$2
        RETURNING `+leadCols+`
    `, l.CompanyID, l.ID, l.ReferrerID, l.Name, l.Email, l.Phone, l.CompanyName, l.Status, l.Notes)
	out, err := scanLead(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return out, notFound("lead")
	}
	return out, err
}

func (repo *LeadRepo) UpdateStatus(ctx context.Context, companyID, id string, status domain.LeadStatus) error {
	tag, err := repo.db.Pool.Exec(ctx, `
        UPDATE leads SET status=$3, updated_at=now() WHERE company_id=$1 AND id=$2
    `, companyID, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return notFound("lead")
	}
	return nil
}

func (repo *LeadRepo) Delete(ctx context.Context, companyID, id string) error {
	_, err := repo.db.Pool.Exec(ctx, `DELETE FROM leads WHERE company_id=$1 AND id=$2`, companyID, id)
	return err
}

func (repo *LeadRepo) Get(ctx context.Context, companyID, id string) (domain.Lead, error) {
	row := repo.db.Pool.QueryRow(ctx, `SELECT `+leadCols+` FROM leads WHERE company_id=$1 AND id=$2`, companyID, id)
	out, err := scanLead(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return out, notFound("lead")
	}
	return out, err
}

func (repo *LeadRepo) ExistsByEmail(ctx context.Context, companyID, email string) (bool, error) {
	var exists bool
	err := repo.db.Pool.QueryRow(ctx, `
        SELECT EXISTS (SELECT 1 FROM leads WHERE company_id=$1 AND email=$2)
    `, companyID, email).Scan(&exists)
	return exists, err
}

func (repo *LeadRepo) List(ctx context.Context, companyID string, status *domain.LeadStatus) ([]domain.Lead, error) {
	rows, err := repo.db.Pool.Query(ctx, `
        SELECT `+leadCols+` FROM leads
        WHERE company_id=$1 AND ($2::text IS NULL OR status=$2)
        ORDER BY created_at DESC
    `, companyID, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []domain.Lead
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}
