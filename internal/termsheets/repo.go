package termsheets

import "context"

// TermSheetsRepo defines persistence operations for generated sheets.
type TermSheetsRepo interface {
	Create(ctx context.Context, sheet TermSheet) error
	ListByDeal(ctx context.Context, userID, dealID string) ([]TermSheet, error)
}
