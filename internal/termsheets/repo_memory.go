package termsheets

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory TermSheetsRepo used in dev and tests.
type MemoryRepo struct {
	mu     sync.RWMutex
	sheets []TermSheet
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{}
}

func (r *MemoryRepo) Create(_ context.Context, sheet TermSheet) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sheets = append(r.sheets, sheet)
	return nil
}

func (r *MemoryRepo) ListByDeal(_ context.Context, userID, dealID string) ([]TermSheet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []TermSheet
	for _, sheet := range r.sheets {
		if sheet.UserID == userID && sheet.DealID == dealID {
			out = append(out, sheet)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

var _ TermSheetsRepo = (*MemoryRepo)(nil)
