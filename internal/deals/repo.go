package deals

import "context"

// DealsRepo defines persistence operations for deals.
type DealsRepo interface {
	Create(ctx context.Context, deal Deal) error
	GetByID(ctx context.Context, userID, dealID string) (Deal, error)
	ListByUser(ctx context.Context, userID, stage string, limit, offset int) ([]Deal, error)
	Update(ctx context.Context, deal Deal) error
	Delete(ctx context.Context, userID, dealID string) error
}
