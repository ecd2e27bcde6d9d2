package deals

import "time"

type createRequest struct {
	Company      string `json:"company"`
	Sector       string `json:"sector"`
	Round        string `json:"round"`
	CheckSizeUSD int64  `json:"checkSizeUsd"`
	Stage        string `json:"stage"`
	Notes        string `json:"notes"`
}

type updateRequest struct {
	Company      *string `json:"company"`
	Sector       *string `json:"sector"`
	Round        *string `json:"round"`
	CheckSizeUSD *int64  `json:"checkSizeUsd"`
	Notes        *string `json:"notes"`
}

type stageRequest struct {
	Stage string `json:"stage"`
}

type dealResponse struct {
	ID           string    `json:"id"`
	Company      string    `json:"company"`
	Sector       string    `json:"sector,omitempty"`
	Round        string    `json:"round,omitempty"`
	CheckSizeUSD int64     `json:"checkSizeUsd"`
	Stage        string    `json:"stage"`
	Notes        string    `json:"notes,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func toDealResponse(deal Deal) dealResponse {
	return dealResponse{
		ID:           deal.ID,
		Company:      deal.Company,
		Sector:       deal.Sector,
		Round:        deal.Round,
		CheckSizeUSD: deal.CheckSizeUSD,
		Stage:        deal.Stage,
		Notes:        deal.Notes,
		CreatedAt:    deal.CreatedAt,
		UpdatedAt:    deal.UpdatedAt,
	}
}

type listResponse struct {
	Deals []dealResponse `json:"deals"`
}
