package reports

import (
	"context"
	"time"
)

// Repo defines persistence operations for diligence reports.
type Repo interface {
	Create(ctx context.Context, report Report) error
	GetByID(ctx context.Context, reportID string) (Report, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]Report, error)
	ListByDeal(ctx context.Context, userID, dealID string, limit, offset int) ([]Report, error)
	MarkProcessing(ctx context.Context, reportID string, startedAt time.Time) error
	UpdateRaw(ctx context.Context, reportID string, raw any) error
	UpdatePromptHash(ctx context.Context, reportID, promptHash string) error
	UpdateResult(ctx context.Context, reportID string, result map[string]any, completedAt time.Time) error
	MarkFailed(ctx context.Context, reportID, code, message string, retryable bool, completedAt time.Time) error
}
