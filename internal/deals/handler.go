package deals

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/akjsdfklj/investor-intel-sub000/internal/shared/server/middleware"
	"github.com/akjsdfklj/investor-intel-sub000/internal/shared/server/respond"
)

// Handler exposes the deal pipeline endpoints.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Register mounts the deal routes on the versioned API group.
func (h *Handler) Register(api *gin.RouterGroup) {
	api.POST("/deals", h.Create)
	api.GET("/deals", h.List)
	api.GET("/deals/:id", h.Get)
	api.PATCH("/deals/:id", h.Update)
	api.POST("/deals/:id/stage", h.ChangeStage)
	api.DELETE("/deals/:id", h.Delete)
}

func (h *Handler) Create(c *gin.Context) {
	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "invalid JSON body", nil)
		return
	}
	deal, err := h.svc.Create(c.Request.Context(), middleware.UserIDFromContext(c), CreateInput{
		Company:      req.Company,
		Sector:       req.Sector,
		Round:        req.Round,
		CheckSizeUSD: req.CheckSizeUSD,
		Stage:        req.Stage,
		Notes:        req.Notes,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	respond.JSON(c, http.StatusCreated, toDealResponse(deal))
}

func (h *Handler) Get(c *gin.Context) {
	deal, err := h.svc.Get(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	respond.OK(c, toDealResponse(deal))
}

func (h *Handler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	offset, _ := strconv.Atoi(c.Query("offset"))
	list, err := h.svc.List(c.Request.Context(), middleware.UserIDFromContext(c), c.Query("stage"), limit, offset)
	if err != nil {
		h.writeError(c, err)
		return
	}
	out := listResponse{Deals: make([]dealResponse, 0, len(list))}
	for _, deal := range list {
		out.Deals = append(out.Deals, toDealResponse(deal))
	}
	respond.OK(c, out)
}

func (h *Handler) Update(c *gin.Context) {
	var req updateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "invalid JSON body", nil)
		return
	}
	deal, err := h.svc.Update(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id"), UpdateInput{
		Company:      req.Company,
		Sector:       req.Sector,
		Round:        req.Round,
		CheckSizeUSD: req.CheckSizeUSD,
		Notes:        req.Notes,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	respond.OK(c, toDealResponse(deal))
}

func (h *Handler) ChangeStage(c *gin.Context) {
	var req stageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "invalid JSON body", nil)
		return
	}
	deal, err := h.svc.ChangeStage(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id"), req.Stage)
	if err != nil {
		h.writeError(c, err)
		return
	}
	respond.OK(c, toDealResponse(deal))
}

func (h *Handler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "deal not found", nil)
	case errors.Is(err, ErrCompanyRequired):
		respond.Error(c, http.StatusBadRequest, "invalid_request", "company is required", nil)
	case errors.Is(err, ErrInvalidStage):
		respond.Error(c, http.StatusBadRequest, "invalid_stage", "unknown stage", nil)
	case errors.Is(err, ErrInvalidTransition):
		respond.Error(c, http.StatusConflict, "invalid_transition", "stage transition not allowed", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "something went wrong", nil)
	}
}
