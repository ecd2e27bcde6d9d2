package portfolio

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/akjsdfklj/investor-intel-sub000/internal/shared/server/middleware"
	"github.com/akjsdfklj/investor-intel-sub000/internal/shared/server/respond"
)

// Handler exposes the portfolio endpoints.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Register mounts the portfolio routes on the versioned API group.
func (h *Handler) Register(api *gin.RouterGroup) {
	api.POST("/portfolio", h.CreateCompany)
	api.GET("/portfolio", h.ListCompanies)
	api.POST("/portfolio/:id/kpis", h.RecordKPI)
	api.GET("/portfolio/:id/kpis", h.ListKPIs)
}

type createCompanyRequest struct {
	DealID            string     `json:"dealId"`
	Name              string     `json:"name"`
	InvestedAt        *time.Time `json:"investedAt"`
	InvestedAmountUSD int64      `json:"investedAmountUsd"`
	OwnershipPct      float64    `json:"ownershipPct"`
}

type companyResponse struct {
	ID                string     `json:"id"`
	DealID            string     `json:"dealId,omitempty"`
	Name              string     `json:"name"`
	InvestedAt        *time.Time `json:"investedAt,omitempty"`
	InvestedAmountUSD int64      `json:"investedAmountUsd"`
	OwnershipPct      float64    `json:"ownershipPct"`
	CreatedAt         time.Time  `json:"createdAt"`
}

func toCompanyResponse(company Company) companyResponse {
	return companyResponse{
		ID:                company.ID,
		DealID:            company.DealID,
		Name:              company.Name,
		InvestedAt:        company.InvestedAt,
		InvestedAmountUSD: company.InvestedAmountUSD,
		OwnershipPct:      company.OwnershipPct,
		CreatedAt:         company.CreatedAt,
	}
}

type recordKPIRequest struct {
	ReportedAt   *time.Time `json:"reportedAt"`
	RevenueUSD   int64      `json:"revenueUsd"`
	BurnUSD      int64      `json:"burnUsd"`
	RunwayMonths float64    `json:"runwayMonths"`
	Headcount    int        `json:"headcount"`
}

type kpiResponse struct {
	ID           string    `json:"id"`
	ReportedAt   time.Time `json:"reportedAt"`
	RevenueUSD   int64     `json:"revenueUsd"`
	BurnUSD      int64     `json:"burnUsd"`
	RunwayMonths float64   `json:"runwayMonths"`
	Headcount    int       `json:"headcount"`
}

func toKPIResponse(kpi KPI) kpiResponse {
	return kpiResponse{
		ID:           kpi.ID,
		ReportedAt:   kpi.ReportedAt,
		RevenueUSD:   kpi.RevenueUSD,
		BurnUSD:      kpi.BurnUSD,
		RunwayMonths: kpi.RunwayMonths,
		Headcount:    kpi.Headcount,
	}
}

func (h *Handler) CreateCompany(c *gin.Context) {
	var req createCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "invalid JSON body", nil)
		return
	}
	company, err := h.svc.CreateCompany(c.Request.Context(), middleware.UserIDFromContext(c), CreateCompanyInput{
		DealID:            req.DealID,
		Name:              req.Name,
		InvestedAt:        req.InvestedAt,
		InvestedAmountUSD: req.InvestedAmountUSD,
		OwnershipPct:      req.OwnershipPct,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	respond.JSON(c, http.StatusCreated, toCompanyResponse(company))
}

func (h *Handler) ListCompanies(c *gin.Context) {
	list, err := h.svc.ListCompanies(c.Request.Context(), middleware.UserIDFromContext(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	out := make([]companyResponse, 0, len(list))
	for _, company := range list {
		out = append(out, toCompanyResponse(company))
	}
	respond.OK(c, gin.H{"companies": out})
}

func (h *Handler) RecordKPI(c *gin.Context) {
	var req recordKPIRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "invalid JSON body", nil)
		return
	}
	input := RecordKPIInput{
		RevenueUSD:   req.RevenueUSD,
		BurnUSD:      req.BurnUSD,
		RunwayMonths: req.RunwayMonths,
		Headcount:    req.Headcount,
	}
	if req.ReportedAt != nil {
		input.ReportedAt = *req.ReportedAt
	}
	kpi, err := h.svc.RecordKPI(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id"), input)
	if err != nil {
		h.writeError(c, err)
		return
	}
	respond.JSON(c, http.StatusCreated, toKPIResponse(kpi))
}

func (h *Handler) ListKPIs(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	list, err := h.svc.ListKPIs(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id"), limit)
	if err != nil {
		h.writeError(c, err)
		return
	}
	out := make([]kpiResponse, 0, len(list))
	for _, kpi := range list {
		out = append(out, toKPIResponse(kpi))
	}
	respond.OK(c, gin.H{"kpis": out})
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "portfolio company not found", nil)
	case errors.Is(err, ErrNameRequired):
		respond.Error(c, http.StatusBadRequest, "invalid_request", "name is required", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "something went wrong", nil)
	}
}
