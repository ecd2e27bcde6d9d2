package portfolio

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/akjsdfklj/investor-intel-sub000/internal/shared/telemetry"
)

// Service implements portfolio tracking on top of a repo.
type Service struct {
	repo PortfolioRepo
}

func NewService(repo PortfolioRepo) *Service {
	return &Service{repo: repo}
}

// CreateCompanyInput carries the fields for adding a holding.
type CreateCompanyInput struct {
	DealID            string
	Name              string
	InvestedAt        *time.Time
	InvestedAmountUSD int64
	OwnershipPct      float64
}

func (s *Service) CreateCompany(ctx context.Context, userID string, input CreateCompanyInput) (Company, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return Company{}, ErrNameRequired
	}
	company := Company{
		ID:                uuid.NewString(),
		UserID:            userID,
		DealID:            input.DealID,
		Name:              name,
		InvestedAt:        input.InvestedAt,
		InvestedAmountUSD: input.InvestedAmountUSD,
		OwnershipPct:      input.OwnershipPct,
		CreatedAt:         time.Now().UTC(),
	}
	if err := s.repo.CreateCompany(ctx, company); err != nil {
		return Company{}, err
	}
	telemetry.Info("portfolio.company_added", map[string]any{
		"company_id": company.ID,
		"user_id":    userID,
	})
	return company, nil
}

func (s *Service) ListCompanies(ctx context.Context, userID string) ([]Company, error) {
	return s.repo.ListCompanies(ctx, userID)
}

// RecordKPIInput carries one KPI snapshot.
type RecordKPIInput struct {
	ReportedAt   time.Time
	RevenueUSD   int64
	BurnUSD      int64
	RunwayMonths float64
	Headcount    int
}

// RecordKPI stores a snapshot after verifying the company belongs to the user.
func (s *Service) RecordKPI(ctx context.Context, userID, companyID string, input RecordKPIInput) (KPI, error) {
	if _, err := s.repo.GetCompany(ctx, userID, companyID); err != nil {
		return KPI{}, err
	}
	reportedAt := input.ReportedAt
	if reportedAt.IsZero() {
		reportedAt = time.Now().UTC()
	}
	kpi := KPI{
		ID:           uuid.NewString(),
		CompanyID:    companyID,
		ReportedAt:   reportedAt,
		RevenueUSD:   input.RevenueUSD,
		BurnUSD:      input.BurnUSD,
		RunwayMonths: input.RunwayMonths,
		Headcount:    input.Headcount,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.repo.CreateKPI(ctx, kpi); err != nil {
		return KPI{}, err
	}
	return kpi, nil
}

// ListKPIs returns snapshots for a company the user owns.
func (s *Service) ListKPIs(ctx context.Context, userID, companyID string, limit int) ([]KPI, error) {
	if _, err := s.repo.GetCompany(ctx, userID, companyID); err != nil {
		return nil, err
	}
	return s.repo.ListKPIs(ctx, companyID, limit)
}
