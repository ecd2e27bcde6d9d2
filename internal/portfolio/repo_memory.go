package portfolio

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory PortfolioRepo used in dev and tests.
type MemoryRepo struct {
	mu        sync.RWMutex
	companies map[string]Company
	kpis      map[string][]KPI
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		companies: make(map[string]Company),
		kpis:      make(map[string][]KPI),
	}
}

func (r *MemoryRepo) CreateCompany(_ context.Context, company Company) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.companies[company.ID] = company
	return nil
}

func (r *MemoryRepo) GetCompany(_ context.Context, userID, companyID string) (Company, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	company, ok := r.companies[companyID]
	if !ok || company.UserID != userID {
		return Company{}, ErrNotFound
	}
	return company, nil
}

func (r *MemoryRepo) ListCompanies(_ context.Context, userID string) ([]Company, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Company
	for _, company := range r.companies {
		if company.UserID == userID {
			out = append(out, company)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *MemoryRepo) CreateKPI(_ context.Context, kpi KPI) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.kpis[kpi.CompanyID] = append(r.kpis[kpi.CompanyID], kpi)
	return nil
}

func (r *MemoryRepo) ListKPIs(_ context.Context, companyID string, limit int) ([]KPI, error) {
	if limit <= 0 {
		limit = 24
	}
	r.mu.RLock()
	out := append([]KPI(nil), r.kpis[companyID]...)
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		return out[i].ReportedAt.After(out[j].ReportedAt)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

var _ PortfolioRepo = (*MemoryRepo)(nil)
