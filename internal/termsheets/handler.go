package termsheets

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/akjsdfklj/investor-intel-sub000/internal/shared/server/middleware"
	"github.com/akjsdfklj/investor-intel-sub000/internal/shared/server/respond"
)

// Handler exposes the term-sheet endpoints.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Register mounts the term-sheet routes on the versioned API group.
func (h *Handler) Register(api *gin.RouterGroup) {
	api.GET("/term-sheets/templates", h.Templates)
	api.POST("/term-sheets/generate", h.Generate)
	api.GET("/deals/:id/term-sheets", h.ListByDeal)
}

type generateRequest struct {
	DealID    string    `json:"dealId"`
	Template  string    `json:"template"`
	Variables Variables `json:"variables"`
}

type sheetResponse struct {
	ID        string          `json:"id"`
	DealID    string          `json:"dealId"`
	Template  string          `json:"template"`
	Variables json.RawMessage `json:"variables"`
	Body      string          `json:"body"`
	CreatedAt time.Time       `json:"createdAt"`
}

func toSheetResponse(sheet TermSheet) sheetResponse {
	return sheetResponse{
		ID:        sheet.ID,
		DealID:    sheet.DealID,
		Template:  sheet.Template,
		Variables: sheet.Variables,
		Body:      sheet.Body,
		CreatedAt: sheet.CreatedAt,
	}
}

func (h *Handler) Templates(c *gin.Context) {
	respond.OK(c, gin.H{"templates": Templates()})
}

func (h *Handler) Generate(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "invalid JSON body", nil)
		return
	}
	if req.DealID == "" {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "dealId is required", nil)
		return
	}
	sheet, err := h.svc.Generate(c.Request.Context(), middleware.UserIDFromContext(c), req.DealID, req.Template, req.Variables)
	if err != nil {
		switch {
		case errors.Is(err, ErrUnknownTemplate):
			respond.Error(c, http.StatusBadRequest, "unknown_template", "unknown term-sheet template", gin.H{"templates": Templates()})
		case errors.Is(err, ErrMissingFields):
			respond.Error(c, http.StatusBadRequest, "invalid_request", err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "something went wrong", nil)
		}
		return
	}
	respond.JSON(c, http.StatusCreated, toSheetResponse(sheet))
}

func (h *Handler) ListByDeal(c *gin.Context) {
	sheets, err := h.svc.ListByDeal(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id"))
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "something went wrong", nil)
		return
	}
	out := make([]sheetResponse, 0, len(sheets))
	for _, sheet := range sheets {
		out = append(out, toSheetResponse(sheet))
	}
	respond.OK(c, gin.H{"termSheets": out})
}
