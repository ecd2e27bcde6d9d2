package deals

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory DealsRepo used in dev and tests.
type MemoryRepo struct {
	mu    sync.RWMutex
	deals map[string]Deal
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{deals: make(map[string]Deal)}
}

func (r *MemoryRepo) Create(_ context.Context, deal Deal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deals[deal.ID] = deal
	return nil
}

func (r *MemoryRepo) GetByID(_ context.Context, userID, dealID string) (Deal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	deal, ok := r.deals[dealID]
	if !ok || deal.UserID != userID {
		return Deal{}, ErrNotFound
	}
	return deal, nil
}

func (r *MemoryRepo) ListByUser(_ context.Context, userID, stage string, limit, offset int) ([]Deal, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	r.mu.RLock()
	var out []Deal
	for _, deal := range r.deals {
		if deal.UserID != userID {
			continue
		}
		if stage != "" && deal.Stage != stage {
			continue
		}
		out = append(out, deal)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *MemoryRepo) Update(_ context.Context, deal Deal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.deals[deal.ID]
	if !ok || existing.UserID != deal.UserID {
		return ErrNotFound
	}
	r.deals[deal.ID] = deal
	return nil
}

func (r *MemoryRepo) Delete(_ context.Context, userID, dealID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	deal, ok := r.deals[dealID]
	if !ok || deal.UserID != userID {
		return ErrNotFound
	}
	delete(r.deals, dealID)
	return nil
}

var _ DealsRepo = (*MemoryRepo)(nil)
