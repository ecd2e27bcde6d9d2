package portfolio

import "time"

// Company is one post-investment portfolio holding.
type Company struct {
	ID                string
	UserID            string
	DealID            string
	Name              string
	InvestedAt        *time.Time
	InvestedAmountUSD int64
	OwnershipPct      float64
	CreatedAt         time.Time
}

// KPI is one periodic operating snapshot reported by a company.
type KPI struct {
	ID           string
	CompanyID    string
	ReportedAt   time.Time
	RevenueUSD   int64
	BurnUSD      int64
	RunwayMonths float64
	Headcount    int
	CreatedAt    time.Time
}
