package deals

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/akjsdfklj/investor-intel-sub000/internal/shared/telemetry"
)

// Service implements deal pipeline business logic on top of a repo.
type Service struct {
	repo DealsRepo
}

func NewService(repo DealsRepo) *Service {
	return &Service{repo: repo}
}

// CreateInput carries the fields a user may set when creating a deal.
type CreateInput struct {
	Company      string
	Sector       string
	Round        string
	CheckSizeUSD int64
	Stage        string
	Notes        string
}

func (s *Service) Create(ctx context.Context, userID string, input CreateInput) (Deal, error) {
	company := strings.TrimSpace(input.Company)
	if company == "" {
		return Deal{}, ErrCompanyRequired
	}
	stage := input.Stage
	if stage == "" {
		stage = StageSourcing
	}
	if !ValidStage(stage) {
		return Deal{}, ErrInvalidStage
	}

	now := time.Now().UTC()
	deal := Deal{
		ID:           uuid.NewString(),
		UserID:       userID,
		Company:      company,
		Sector:       strings.TrimSpace(input.Sector),
		Round:        strings.TrimSpace(input.Round),
		CheckSizeUSD: input.CheckSizeUSD,
		Stage:        stage,
		Notes:        input.Notes,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, deal); err != nil {
		return Deal{}, err
	}
	telemetry.Info("deal.created", map[string]any{
		"deal_id": deal.ID,
		"user_id": userID,
		"stage":   deal.Stage,
	})
	return deal, nil
}

func (s *Service) Get(ctx context.Context, userID, dealID string) (Deal, error) {
	return s.repo.GetByID(ctx, userID, dealID)
}

func (s *Service) List(ctx context.Context, userID, stage string, limit, offset int) ([]Deal, error) {
	if stage != "" && !ValidStage(stage) {
		return nil, ErrInvalidStage
	}
	return s.repo.ListByUser(ctx, userID, stage, limit, offset)
}

// UpdateInput carries optional field updates; nil means leave unchanged.
type UpdateInput struct {
	Company      *string
	Sector       *string
	Round        *string
	CheckSizeUSD *int64
	Notes        *string
}

func (s *Service) Update(ctx context.Context, userID, dealID string, input UpdateInput) (Deal, error) {
	deal, err := s.repo.GetByID(ctx, userID, dealID)
	if err != nil {
		return Deal{}, err
	}
	if input.Company != nil {
		company := strings.TrimSpace(*input.Company)
		if company == "" {
			return Deal{}, ErrCompanyRequired
		}
		deal.Company = company
	}
	if input.Sector != nil {
		deal.Sector = strings.TrimSpace(*input.Sector)
	}
	if input.Round != nil {
		deal.Round = strings.TrimSpace(*input.Round)
	}
	if input.CheckSizeUSD != nil {
		deal.CheckSizeUSD = *input.CheckSizeUSD
	}
	if input.Notes != nil {
		deal.Notes = *input.Notes
	}
	deal.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, deal); err != nil {
		return Deal{}, err
	}
	return deal, nil
}

// ChangeStage moves a deal to a new pipeline stage after validating the
// transition.
func (s *Service) ChangeStage(ctx context.Context, userID, dealID, stage string) (Deal, error) {
	if !ValidStage(stage) {
		return Deal{}, ErrInvalidStage
	}
	deal, err := s.repo.GetByID(ctx, userID, dealID)
	if err != nil {
		return Deal{}, err
	}
	if !CanTransition(deal.Stage, stage) {
		return Deal{}, ErrInvalidTransition
	}
	from := deal.Stage
	deal.Stage = stage
	deal.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, deal); err != nil {
		return Deal{}, err
	}
	telemetry.Info("deal.stage_changed", map[string]any{
		"deal_id": deal.ID,
		"user_id": userID,
		"from":    from,
		"to":      stage,
	})
	return deal, nil
}

func (s *Service) Delete(ctx context.Context, userID, dealID string) error {
	return s.repo.Delete(ctx, userID, dealID)
}
