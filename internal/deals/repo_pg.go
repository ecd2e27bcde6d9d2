package deals

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
)

// PGRepo implements DealsRepo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const dealColumns = `id, user_id, company, sector, round, check_size_usd, stage, notes, created_at, updated_at`

// Create inserts a new deal.
func (r *PGRepo) Create(ctx context.Context, deal Deal) error {
	const query = `
INSERT INTO deals (id, user_id, company, sector, round, check_size_usd, stage, notes, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.DB.ExecContext(
		ctx,
		query,
		deal.ID,
		deal.UserID,
		deal.Company,
		deal.Sector,
		deal.Round,
		deal.CheckSizeUSD,
		deal.Stage,
		deal.Notes,
		deal.CreatedAt,
		deal.UpdatedAt,
	)
	return err
}

// GetByID fetches one deal owned by the user.
func (r *PGRepo) GetByID(ctx context.Context, userID, dealID string) (Deal, error) {
	const query = `
SELECT ` + dealColumns + `
FROM deals
WHERE user_id = $1 AND id = $2 AND deleted_at IS NULL
LIMIT 1`
	var deal Deal
	err := r.DB.QueryRowContext(ctx, query, userID, dealID).Scan(
		&deal.ID,
		&deal.UserID,
		&deal.Company,
		&deal.Sector,
		&deal.Round,
		&deal.CheckSizeUSD,
		&deal.Stage,
		&deal.Notes,
		&deal.CreatedAt,
		&deal.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Deal{}, ErrNotFound
		}
		return Deal{}, err
	}
	return deal, nil
}

// ListByUser lists deals newest-first, optionally filtered by stage.
func (r *PGRepo) ListByUser(ctx context.Context, userID, stage string, limit, offset int) ([]Deal, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}
	if offset < 0 {
		offset = 0
	}

	query := `
SELECT ` + dealColumns + `
FROM deals
WHERE user_id = $1 AND deleted_at IS NULL`
	args := []any{userID}
	if stage != "" {
		query += ` AND stage = $2`
		args = append(args, stage)
	}
	query += ` ORDER BY created_at DESC LIMIT $` + strconv.Itoa(len(args)+1) + ` OFFSET $` + strconv.Itoa(len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Deal
	for rows.Next() {
		var deal Deal
		if err := rows.Scan(
			&deal.ID,
			&deal.UserID,
			&deal.Company,
			&deal.Sector,
			&deal.Round,
			&deal.CheckSizeUSD,
			&deal.Stage,
			&deal.Notes,
			&deal.CreatedAt,
			&deal.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, deal)
	}
	return out, rows.Err()
}

// Update rewrites the mutable fields of a deal.
func (r *PGRepo) Update(ctx context.Context, deal Deal) error {
	const query = `
UPDATE deals
SET company = $1, sector = $2, round = $3, check_size_usd = $4, stage = $5, notes = $6, updated_at = $7
WHERE user_id = $8 AND id = $9 AND deleted_at IS NULL`
	res, err := r.DB.ExecContext(
		ctx,
		query,
		deal.Company,
		deal.Sector,
		deal.Round,
		deal.CheckSizeUSD,
		deal.Stage,
		deal.Notes,
		deal.UpdatedAt,
		deal.UserID,
		deal.ID,
	)
	if err != nil {
		return err
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete soft-deletes a deal.
func (r *PGRepo) Delete(ctx context.Context, userID, dealID string) error {
	const query = `
UPDATE deals
SET deleted_at = now()
WHERE user_id = $1 AND id = $2 AND deleted_at IS NULL`
	res, err := r.DB.ExecContext(ctx, query, userID, dealID)
	if err != nil {
		return err
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return ErrNotFound
	}
	return nil
}

var _ DealsRepo = (*PGRepo)(nil)
