package reports

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a queued report.
func (r *PGRepo) Create(ctx context.Context, report Report) error {
	const query = `
INSERT INTO diligence_reports (id, deal_id, user_id, document_id, status, provider, model, report_version, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	var documentID sql.NullString
	if report.DocumentID != "" {
		documentID = sql.NullString{String: report.DocumentID, Valid: true}
	}
	_, err := r.DB.ExecContext(
		ctx,
		query,
		report.ID,
		report.DealID,
		report.UserID,
		documentID,
		report.Status,
		report.Provider,
		report.Model,
		report.ReportVersion,
		report.CreatedAt,
	)
	return err
}

const reportColumns = `id, deal_id, user_id, document_id, status, provider, model, report_version, prompt_hash, result, error_code, error_message, retryable, created_at, started_at, completed_at`

func scanReport(scan func(dest ...any) error) (Report, error) {
	var report Report
	var documentID sql.NullString
	var result []byte
	var errorCode sql.NullString
	var errorMessage sql.NullString
	var retryable sql.NullBool
	var startedAt sql.NullTime
	var completedAt sql.NullTime
	err := scan(
		&report.ID,
		&report.DealID,
		&report.UserID,
		&documentID,
		&report.Status,
		&report.Provider,
		&report.Model,
		&report.ReportVersion,
		&report.PromptHash,
		&result,
		&errorCode,
		&errorMessage,
		&retryable,
		&report.CreatedAt,
		&startedAt,
		&completedAt,
	)
	if err != nil {
		return Report{}, err
	}
	if documentID.Valid {
		report.DocumentID = documentID.String
	}
	if len(result) > 0 {
		_ = json.Unmarshal(result, &report.Result)
	}
	if errorCode.Valid {
		report.ErrorCode = errorCode.String
	}
	if errorMessage.Valid {
		report.ErrorMessage = errorMessage.String
	}
	if retryable.Valid {
		v := retryable.Bool
		report.Retryable = &v
	}
	if startedAt.Valid {
		t := startedAt.Time
		report.StartedAt = &t
	}
	if completedAt.Valid {
		t := completedAt.Time
		report.CompletedAt = &t
	}
	return report, nil
}

// GetByID fetches one report.
func (r *PGRepo) GetByID(ctx context.Context, reportID string) (Report, error) {
	const query = `
SELECT ` + reportColumns + `
FROM diligence_reports
WHERE id = $1
LIMIT 1`
	report, err := scanReport(r.DB.QueryRowContext(ctx, query, reportID).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Report{}, ErrNotFound
		}
		return Report{}, err
	}
	return report, nil
}

// ListByUser lists reports newest-first.
func (r *PGRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Report, error) {
	const query = `
SELECT ` + reportColumns + `
FROM diligence_reports
WHERE user_id = $1
ORDER BY created_at DESC
LIMIT $2 OFFSET $3`
	return r.list(ctx, query, userID, limit, offset)
}

// ListByDeal lists reports for one deal, newest-first.
func (r *PGRepo) ListByDeal(ctx context.Context, userID, dealID string, limit, offset int) ([]Report, error) {
	const query = `
SELECT ` + reportColumns + `
FROM diligence_reports
WHERE user_id = $1 AND deal_id = $2
ORDER BY created_at DESC
LIMIT $3 OFFSET $4`
	return r.list(ctx, query, userID, limit, offset, dealID)
}

func (r *PGRepo) list(ctx context.Context, query, userID string, limit, offset int, extra ...any) ([]Report, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	args := append([]any{userID}, extra...)
	args = append(args, limit, offset)

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Report
	for rows.Next() {
		report, err := scanReport(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, report)
	}
	return out, rows.Err()
}

// MarkProcessing flips a queued report to processing.
func (r *PGRepo) MarkProcessing(ctx context.Context, reportID string, startedAt time.Time) error {
	const query = `
UPDATE diligence_reports
SET status = 'processing', started_at = $1
WHERE id = $2`
	_, err := r.DB.ExecContext(ctx, query, startedAt, reportID)
	return err
}

// UpdateRaw stores the raw LLM payload.
func (r *PGRepo) UpdateRaw(ctx context.Context, reportID string, raw any) error {
	data, err := json.Marshal(raw)
	if err != nil {
		return err
	}
	const query = `UPDATE diligence_reports SET raw = $1 WHERE id = $2`
	_, err = r.DB.ExecContext(ctx, query, data, reportID)
	return err
}

// UpdatePromptHash records the hash of the prompt actually sent.
func (r *PGRepo) UpdatePromptHash(ctx context.Context, reportID, promptHash string) error {
	const query = `UPDATE diligence_reports SET prompt_hash = $1 WHERE id = $2`
	_, err := r.DB.ExecContext(ctx, query, promptHash, reportID)
	return err
}

// UpdateResult stores the validated result and completes the report.
func (r *PGRepo) UpdateResult(ctx context.Context, reportID string, result map[string]any, completedAt time.Time) error {
	data, err := json.Marshal(result)
	if err != nil {
		return err
	}
	const query = `
UPDATE diligence_reports
SET status = 'completed', result = $1, error_code = NULL, error_message = NULL, retryable = NULL, completed_at = $2
WHERE id = $3`
	_, err = r.DB.ExecContext(ctx, query, data, completedAt, reportID)
	return err
}

// MarkFailed records a classified failure.
func (r *PGRepo) MarkFailed(ctx context.Context, reportID, code, message string, retryable bool, completedAt time.Time) error {
	const query = `
UPDATE diligence_reports
SET status = 'failed', error_code = $1, error_message = $2, retryable = $3, completed_at = $4
WHERE id = $5`
	_, err := r.DB.ExecContext(ctx, query, code, message, retryable, completedAt, reportID)
	return err
}

var _ Repo = (*PGRepo)(nil)
