package reports

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"
)

// MemoryRepo is an in-memory Repo used in dev and tests.
type MemoryRepo struct {
	mu      sync.RWMutex
	reports map[string]Report
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{reports: make(map[string]Report)}
}

func (r *MemoryRepo) Create(_ context.Context, report Report) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reports[report.ID] = report
	return nil
}

func (r *MemoryRepo) GetByID(_ context.Context, reportID string) (Report, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	report, ok := r.reports[reportID]
	if !ok {
		return Report{}, ErrNotFound
	}
	return report, nil
}

func (r *MemoryRepo) ListByUser(_ context.Context, userID string, limit, offset int) ([]Report, error) {
	return r.listFiltered(func(report Report) bool {
		return report.UserID == userID
	}, limit, offset)
}

func (r *MemoryRepo) ListByDeal(_ context.Context, userID, dealID string, limit, offset int) ([]Report, error) {
	return r.listFiltered(func(report Report) bool {
		return report.UserID == userID && report.DealID == dealID
	}, limit, offset)
}

func (r *MemoryRepo) listFiltered(keep func(Report) bool, limit, offset int) ([]Report, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	r.mu.RLock()
	var out []Report
	for _, report := range r.reports {
		if keep(report) {
			out = append(out, report)
		}
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

func (r *MemoryRepo) mutate(reportID string, fn func(*Report)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	report, ok := r.reports[reportID]
	if !ok {
		return ErrNotFound
	}
	fn(&report)
	r.reports[reportID] = report
	return nil
}

func (r *MemoryRepo) MarkProcessing(_ context.Context, reportID string, startedAt time.Time) error {
	return r.mutate(reportID, func(report *Report) {
		report.Status = StatusProcessing
		t := startedAt
		report.StartedAt = &t
	})
}

func (r *MemoryRepo) UpdateRaw(_ context.Context, reportID string, raw any) error {
	data, err := json.Marshal(raw)
	if err != nil {
		return err
	}
	var parsed map[string]any
	if err := json.Unmarshal(data, &parsed); err != nil {
		parsed = map[string]any{"rawText": string(data)}
	}
	return r.mutate(reportID, func(report *Report) {
		report.Raw = parsed
	})
}

func (r *MemoryRepo) UpdatePromptHash(_ context.Context, reportID, promptHash string) error {
	return r.mutate(reportID, func(report *Report) {
		report.PromptHash = promptHash
	})
}

func (r *MemoryRepo) UpdateResult(_ context.Context, reportID string, result map[string]any, completedAt time.Time) error {
	return r.mutate(reportID, func(report *Report) {
		report.Status = StatusCompleted
		report.Result = result
		report.ErrorCode = ""
		report.ErrorMessage = ""
		report.Retryable = nil
		t := completedAt
		report.CompletedAt = &t
	})
}

func (r *MemoryRepo) MarkFailed(_ context.Context, reportID, code, message string, retryable bool, completedAt time.Time) error {
	return r.mutate(reportID, func(report *Report) {
		report.Status = StatusFailed
		report.ErrorCode = code
		report.ErrorMessage = message
		v := retryable
		report.Retryable = &v
		t := completedAt
		report.CompletedAt = &t
	})
}

var _ Repo = (*MemoryRepo)(nil)
