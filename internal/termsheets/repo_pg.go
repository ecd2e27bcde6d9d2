package termsheets

import (
	"context"
	"database/sql"
)

// PGRepo implements TermSheetsRepo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a generated sheet.
func (r *PGRepo) Create(ctx context.Context, sheet TermSheet) error {
	const query = `
INSERT INTO term_sheets (id, deal_id, user_id, template, variables, body, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`
	variables := sheet.Variables
	if len(variables) == 0 {
		variables = []byte("{}")
	}
	_, err := r.DB.ExecContext(
		ctx,
		query,
		sheet.ID,
		sheet.DealID,
		sheet.UserID,
		sheet.Template,
		[]byte(variables),
		sheet.Body,
		sheet.CreatedAt,
	)
	return err
}

// ListByDeal lists sheets for a deal, newest first.
func (r *PGRepo) ListByDeal(ctx context.Context, userID, dealID string) ([]TermSheet, error) {
	const query = `
SELECT id, deal_id, user_id, template, variables, body, created_at
FROM term_sheets
WHERE user_id = $1 AND deal_id = $2
ORDER BY created_at DESC`
	rows, err := r.DB.QueryContext(ctx, query, userID, dealID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TermSheet
	for rows.Next() {
		var sheet TermSheet
		var variables []byte
		if err := rows.Scan(
			&sheet.ID,
			&sheet.DealID,
			&sheet.UserID,
			&sheet.Template,
			&variables,
			&sheet.Body,
			&sheet.CreatedAt,
		); err != nil {
			return nil, err
		}
		sheet.Variables = variables
		out = append(out, sheet)
	}
	return out, rows.Err()
}

var _ TermSheetsRepo = (*PGRepo)(nil)
