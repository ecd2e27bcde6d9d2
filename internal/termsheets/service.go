package termsheets

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/akjsdfklj/investor-intel-sub000/internal/shared/telemetry"
)

// Service generates and persists term sheets.
type Service struct {
	repo TermSheetsRepo
}

func NewService(repo TermSheetsRepo) *Service {
	return &Service{repo: repo}
}

// Generate renders a sheet for a deal and persists it.
func (s *Service) Generate(ctx context.Context, userID, dealID, template string, vars Variables) (TermSheet, error) {
	if !ValidTemplate(template) {
		return TermSheet{}, ErrUnknownTemplate
	}
	if strings.TrimSpace(vars.CompanyName) == "" || strings.TrimSpace(vars.InvestorName) == "" || vars.InvestmentUSD <= 0 {
		return TermSheet{}, ErrMissingFields
	}

	body, err := Render(template, vars)
	if err != nil {
		return TermSheet{}, err
	}
	varsJSON, err := json.Marshal(vars)
	if err != nil {
		return TermSheet{}, err
	}

	sheet := TermSheet{
		ID:        uuid.NewString(),
		DealID:    dealID,
		UserID:    userID,
		Template:  template,
		Variables: varsJSON,
		Body:      body,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, sheet); err != nil {
		return TermSheet{}, err
	}
	telemetry.Info("termsheet.generated", map[string]any{
		"term_sheet_id": sheet.ID,
		"deal_id":       dealID,
		"template":      template,
	})
	return sheet, nil
}

// ListByDeal returns previously generated sheets for a deal.
func (s *Service) ListByDeal(ctx context.Context, userID, dealID string) ([]TermSheet, error) {
	return s.repo.ListByDeal(ctx, userID, dealID)
}
