package portfolio

import "context"

// PortfolioRepo defines persistence operations for holdings and their KPIs.
type PortfolioRepo interface {
	CreateCompany(ctx context.Context, company Company) error
	GetCompany(ctx context.Context, userID, companyID string) (Company, error)
	ListCompanies(ctx context.Context, userID string) ([]Company, error)
	CreateKPI(ctx context.Context, kpi KPI) error
	ListKPIs(ctx context.Context, companyID string, limit int) ([]KPI, error)
}
