package documents

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/akjsdfklj/investor-intel-sub000/internal/shared/server/middleware"
	"github.com/akjsdfklj/investor-intel-sub000/internal/shared/server/respond"
)

// maxUploadBytes caps one uploaded document at 20 MB.
const maxUploadBytes = 20 << 20

// Handler exposes the document endpoints.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Register mounts the document routes on the versioned API group.
func (h *Handler) Register(api *gin.RouterGroup) {
	api.POST("/documents", h.Upload)
	api.POST("/documents/from-s3", h.RegisterFromS3)
	api.GET("/documents", h.List)
	api.GET("/documents/:id", h.Get)
}

type documentResponse struct {
	DocumentID  string     `json:"documentId"`
	DealID      string     `json:"dealId,omitempty"`
	FileName    string     `json:"fileName"`
	MimeType    string     `json:"mimeType"`
	SizeBytes   int64      `json:"sizeBytes"`
	ExtractedAt *time.Time `json:"extractedAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

func toDocumentResponse(doc Document) documentResponse {
	return documentResponse{
		DocumentID:  doc.ID,
		DealID:      doc.DealID,
		FileName:    doc.FileName,
		MimeType:    doc.MimeType,
		SizeBytes:   doc.SizeBytes,
		ExtractedAt: doc.ExtractedAt,
		CreatedAt:   doc.CreatedAt,
	}
}

func (h *Handler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "file is required", nil)
		return
	}
	if fileHeader.Size > maxUploadBytes {
		respond.Error(c, http.StatusRequestEntityTooLarge, "file_too_large", "file exceeds the 20 MB limit", nil)
		return
	}
	src, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "could not read file", nil)
		return
	}
	defer src.Close()

	doc, err := h.svc.Upload(c.Request.Context(), middleware.UserIDFromContext(c), c.PostForm("dealId"), fileHeader.Filename, src)
	if err != nil {
		h.writeError(c, err)
		return
	}
	respond.JSON(c, http.StatusCreated, toDocumentResponse(doc))
}

type fromS3Request struct {
	DealID    string `json:"dealId"`
	FileName  string `json:"fileName"`
	S3Key     string `json:"s3Key"`
	MimeType  string `json:"mimeType"`
	SizeBytes int64  `json:"sizeBytes"`
}

func (h *Handler) RegisterFromS3(c *gin.Context) {
	var req fromS3Request
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "invalid JSON body", nil)
		return
	}
	doc, err := h.svc.RegisterFromS3(c.Request.Context(), middleware.UserIDFromContext(c), req.DealID, req.FileName, req.S3Key, req.MimeType, req.SizeBytes)
	if err != nil {
		h.writeError(c, err)
		return
	}
	respond.JSON(c, http.StatusCreated, toDocumentResponse(doc))
}

func (h *Handler) Get(c *gin.Context) {
	doc, err := h.svc.Get(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	respond.OK(c, toDocumentResponse(doc))
}

func (h *Handler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	offset, _ := strconv.Atoi(c.Query("offset"))
	docs, err := h.svc.List(c.Request.Context(), middleware.UserIDFromContext(c), c.Query("dealId"), limit, offset)
	if err != nil {
		h.writeError(c, err)
		return
	}
	out := make([]documentResponse, 0, len(docs))
	for _, doc := range docs {
		out = append(out, toDocumentResponse(doc))
	}
	respond.OK(c, gin.H{"documents": out})
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "document not found", nil)
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "invalid_request", "invalid input", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "something went wrong", nil)
	}
}
