package termsheets

import (
	"encoding/json"
	"time"
)

// Template names the closed set of supported term-sheet variants.
const (
	TemplateSAFE            = "safe"
	TemplateConvertibleNote = "convertible_note"
	TemplatePricedEquity    = "priced_equity"
)

// Templates lists the supported variants in display order.
func Templates() []string {
	return []string{TemplateSAFE, TemplateConvertibleNote, TemplatePricedEquity}
}

// ValidTemplate reports whether name is a known variant.
func ValidTemplate(name string) bool {
	switch name {
	case TemplateSAFE, TemplateConvertibleNote, TemplatePricedEquity:
		return true
	}
	return false
}

// Variables are the inputs a term-sheet renderer consumes. Fields not used
// by a given variant are ignored by its renderer.
type Variables struct {
	CompanyName       string  `json:"companyName"`
	InvestorName      string  `json:"investorName"`
	InvestmentUSD     int64   `json:"investmentUsd"`
	ValuationCapUSD   int64   `json:"valuationCapUsd,omitempty"`
	DiscountPct       float64 `json:"discountPct,omitempty"`
	InterestRatePct   float64 `json:"interestRatePct,omitempty"`
	MaturityMonths    int     `json:"maturityMonths,omitempty"`
	PreMoneyUSD       int64   `json:"preMoneyUsd,omitempty"`
	OptionPoolPct     float64 `json:"optionPoolPct,omitempty"`
	BoardSeats        int     `json:"boardSeats,omitempty"`
	ProRataRights     bool    `json:"proRataRights,omitempty"`
	LiquidationPrefX  float64 `json:"liquidationPrefX,omitempty"`
	ClosingDate       string  `json:"closingDate,omitempty"`
	GoverningLawState string  `json:"governingLawState,omitempty"`
}

// TermSheet is one generated and persisted sheet.
type TermSheet struct {
	ID        string
	DealID    string
	UserID    string
	Template  string
	Variables json.RawMessage
	Body      string
	CreatedAt time.Time
}
