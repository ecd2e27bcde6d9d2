package portfolio

import (
	"context"
	"database/sql"
	"errors"
)

// PGRepo implements PortfolioRepo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// CreateCompany inserts one holding.
func (r *PGRepo) CreateCompany(ctx context.Context, company Company) error {
	const query = `
INSERT INTO portfolio_companies (id, user_id, deal_id, name, invested_at, invested_amount_usd, ownership_pct, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	var dealID sql.NullString
	if company.DealID != "" {
		dealID = sql.NullString{String: company.DealID, Valid: true}
	}
	var investedAt sql.NullTime
	if company.InvestedAt != nil {
		investedAt = sql.NullTime{Time: *company.InvestedAt, Valid: true}
	}
	_, err := r.DB.ExecContext(
		ctx,
		query,
		company.ID,
		company.UserID,
		dealID,
		company.Name,
		investedAt,
		company.InvestedAmountUSD,
		company.OwnershipPct,
		company.CreatedAt,
	)
	return err
}

// GetCompany fetches one holding owned by the user.
func (r *PGRepo) GetCompany(ctx context.Context, userID, companyID string) (Company, error) {
	const query = `
SELECT id, user_id, deal_id, name, invested_at, invested_amount_usd, ownership_pct, created_at
FROM portfolio_companies
WHERE user_id = $1 AND id = $2
LIMIT 1`
	var company Company
	var dealID sql.NullString
	var investedAt sql.NullTime
	err := r.DB.QueryRowContext(ctx, query, userID, companyID).Scan(
		&company.ID,
		&company.UserID,
		&dealID,
		&company.Name,
		&investedAt,
		&company.InvestedAmountUSD,
		&company.OwnershipPct,
		&company.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Company{}, ErrNotFound
		}
		return Company{}, err
	}
	if dealID.Valid {
		company.DealID = dealID.String
	}
	if investedAt.Valid {
		t := investedAt.Time
		company.InvestedAt = &t
	}
	return company, nil
}

// ListCompanies lists holdings newest-first.
func (r *PGRepo) ListCompanies(ctx context.Context, userID string) ([]Company, error) {
	const query = `
SELECT id, user_id, deal_id, name, invested_at, invested_amount_usd, ownership_pct, created_at
FROM portfolio_companies
WHERE user_id = $1
ORDER BY created_at DESC`
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Company
	for rows.Next() {
		var company Company
		var dealID sql.NullString
		var investedAt sql.NullTime
		if err := rows.Scan(
			&company.ID,
			&company.UserID,
			&dealID,
			&company.Name,
			&investedAt,
			&company.InvestedAmountUSD,
			&company.OwnershipPct,
			&company.CreatedAt,
		); err != nil {
			return nil, err
		}
		if dealID.Valid {
			company.DealID = dealID.String
		}
		if investedAt.Valid {
			t := investedAt.Time
			company.InvestedAt = &t
		}
		out = append(out, company)
	}
	return out, rows.Err()
}

// CreateKPI inserts one KPI snapshot.
func (r *PGRepo) CreateKPI(ctx context.Context, kpi KPI) error {
	const query = `
INSERT INTO portfolio_kpis (id, company_id, reported_at, revenue_usd, burn_usd, runway_months, headcount, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.DB.ExecContext(
		ctx,
		query,
		kpi.ID,
		kpi.CompanyID,
		kpi.ReportedAt,
		kpi.RevenueUSD,
		kpi.BurnUSD,
		kpi.RunwayMonths,
		kpi.Headcount,
		kpi.CreatedAt,
	)
	return err
}

// ListKPIs lists snapshots for a company, most recently reported first.
func (r *PGRepo) ListKPIs(ctx context.Context, companyID string, limit int) ([]KPI, error) {
	if limit <= 0 {
		limit = 24
	}
	const query = `
SELECT id, company_id, reported_at, revenue_usd, burn_usd, runway_months, headcount, created_at
FROM portfolio_kpis
WHERE company_id = $1
ORDER BY reported_at DESC
LIMIT $2`
	rows, err := r.DB.QueryContext(ctx, query, companyID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []KPI
	for rows.Next() {
		var kpi KPI
		if err := rows.Scan(
			&kpi.ID,
			&kpi.CompanyID,
			&kpi.ReportedAt,
			&kpi.RevenueUSD,
			&kpi.BurnUSD,
			&kpi.RunwayMonths,
			&kpi.Headcount,
			&kpi.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, kpi)
	}
	return out, rows.Err()
}

var _ PortfolioRepo = (*PGRepo)(nil)
