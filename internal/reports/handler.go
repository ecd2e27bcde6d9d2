package reports

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/akjsdfklj/investor-intel-sub000/internal/deals"
	"github.com/akjsdfklj/investor-intel-sub000/internal/shared/server/middleware"
	"github.com/akjsdfklj/investor-intel-sub000/internal/shared/server/respond"
)

// Handler exposes the diligence report endpoints.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Register mounts the report routes on the versioned API group.
func (h *Handler) Register(api *gin.RouterGroup) {
	api.POST("/deals/:id/reports", h.Create)
	api.GET("/deals/:id/reports", h.ListByDeal)
	api.GET("/reports", h.List)
	api.GET("/reports/:id", h.Get)
}

type createRequest struct {
	DocumentID string `json:"documentId"`
}

type reportResponse struct {
	ReportID      string         `json:"reportId"`
	DealID        string         `json:"dealId"`
	DocumentID    string         `json:"documentId,omitempty"`
	Status        string         `json:"status"`
	Provider      string         `json:"provider"`
	Model         string         `json:"model,omitempty"`
	ReportVersion string         `json:"reportVersion"`
	Result        map[string]any `json:"result,omitempty"`
	ErrorCode     string         `json:"errorCode,omitempty"`
	ErrorMessage  string         `json:"errorMessage,omitempty"`
	Retryable     *bool          `json:"retryable,omitempty"`
	CreatedAt     string         `json:"createdAt"`
	CompletedAt   string         `json:"completedAt,omitempty"`
}

func (h *Handler) Create(c *gin.Context) {
	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "invalid JSON body", nil)
		return
	}
	report, err := h.svc.Create(WithRequestID(c.Request.Context(), middleware.RequestIDFromContext(c)),
		middleware.UserIDFromContext(c), c.Param("id"), req.DocumentID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	respond.JSON(c, http.StatusAccepted, toReportResponse(report))
}

func (h *Handler) Get(c *gin.Context) {
	report, err := h.svc.Get(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	respond.OK(c, toReportResponse(report))
}

func (h *Handler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	offset, _ := strconv.Atoi(c.Query("offset"))
	list, err := h.svc.List(c.Request.Context(), middleware.UserIDFromContext(c), limit, offset)
	if err != nil {
		h.writeError(c, err)
		return
	}
	respond.OK(c, toReportList(list))
}

func (h *Handler) ListByDeal(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	offset, _ := strconv.Atoi(c.Query("offset"))
	list, err := h.svc.ListByDeal(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id"), limit, offset)
	if err != nil {
		h.writeError(c, err)
		return
	}
	respond.OK(c, toReportList(list))
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, deals.ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "report or deal not found", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "something went wrong", nil)
	}
}

func toReportList(list []Report) gin.H {
	out := make([]reportResponse, 0, len(list))
	for _, report := range list {
		out = append(out, toReportResponse(report))
	}
	return gin.H{"reports": out}
}

func toReportResponse(report Report) reportResponse {
	resp := reportResponse{
		ReportID:      report.ID,
		DealID:        report.DealID,
		DocumentID:    report.DocumentID,
		Status:        report.Status,
		Provider:      report.Provider,
		Model:         report.Model,
		ReportVersion: report.ReportVersion,
		Result:        report.Result,
		ErrorCode:     report.ErrorCode,
		ErrorMessage:  report.ErrorMessage,
		Retryable:     report.Retryable,
		CreatedAt:     report.CreatedAt.UTC().Format(time.RFC3339),
	}
	if report.CompletedAt != nil {
		resp.CompletedAt = report.CompletedAt.UTC().Format(time.RFC3339)
	}
	return resp
}
