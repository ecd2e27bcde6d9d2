package bulk

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/akjsdfklj/investor-intel-sub000/internal/shared/server/middleware"
	"github.com/akjsdfklj/investor-intel-sub000/internal/shared/server/respond"
	"github.com/akjsdfklj/investor-intel-sub000/internal/shared/storage/object"
	"github.com/akjsdfklj/investor-intel-sub000/internal/shared/telemetry"
)

// maxUploadBytes caps one uploaded deck at 20 MB.
const maxUploadBytes = 20 << 20

// Handler exposes the bulk diligence endpoints.
type Handler struct {
	orch     *Orchestrator
	store    object.ObjectStore
	maxItems int
}

func NewHandler(orch *Orchestrator, store object.ObjectStore, maxItems int) *Handler {
	if maxItems < 1 {
		maxItems = 10
	}
	return &Handler{orch: orch, store: store, maxItems: maxItems}
}

// Register mounts the bulk routes on the versioned API group.
func (h *Handler) Register(api *gin.RouterGroup) {
	api.POST("/bulk-diligence", h.Submit)
	api.GET("/bulk-diligence", h.Current)
	api.DELETE("/bulk-diligence", h.Reset)
}

type submitResponse struct {
	Session  SessionView `json:"session"`
	Warnings []string    `json:"warnings,omitempty"`
}

// Submit accepts a mixed batch of PDF decks and pasted URLs, starts a new
// session over the accepted subset and returns it with any intake warnings.
func (h *Handler) Submit(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil && err != http.ErrNotMultipart {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "could not parse upload form", nil)
		return
	}

	var files []FileInput
	if form != nil {
		for _, fh := range form.File["files"] {
			files = append(files, FileInput{
				Name:     fh.Filename,
				MimeType: fh.Header.Get("Content-Type"),
				Size:     fh.Size,
			})
		}
	}
	urlText := c.PostForm("urls")

	result := NormalizeIntake(0, files, urlText, h.maxItems)
	if len(result.Items) == 0 {
		respond.Error(c, http.StatusBadRequest, "no_valid_items", "no valid PDF files or URLs in submission", result.Warnings)
		return
	}

	// Persist accepted uploads before processing starts. A failed save leaves
	// the item without a source ref, which the pipeline treats as a degraded
	// extraction rather than a dead item.
	userID := middleware.UserIDFromContext(c)
	fileItem := 0
	for itemIdx := range result.Items {
		if result.Items[itemIdx].SourceKind != SourceFile {
			continue
		}
		fh := form.File["files"][result.FileIndexes[fileItem]]
		fileItem++
		if fh.Size > maxUploadBytes {
			result.Items[itemIdx].SourceRef = ""
			result.Warnings = append(result.Warnings, fh.Filename+" exceeds the 20 MB limit and will be analyzed by name only")
			continue
		}
		src, err := fh.Open()
		if err != nil {
			result.Items[itemIdx].SourceRef = ""
			continue
		}
		key, _, _, err := h.store.Save(c.Request.Context(), userID, fh.Filename, src)
		src.Close()
		if err != nil {
			telemetry.Error("bulk.upload.save_failed", map[string]any{
				"file":  fh.Filename,
				"error": err.Error(),
			})
			result.Items[itemIdx].SourceRef = ""
			continue
		}
		result.Items[itemIdx].SourceRef = key
	}

	view := h.orch.Start(result.Items)
	respond.JSON(c, http.StatusAccepted, submitResponse{Session: view, Warnings: result.Warnings})
}

// Current returns the live session snapshot the UI polls.
func (h *Handler) Current(c *gin.Context) {
	view, ok := h.orch.Snapshot()
	if !ok {
		respond.Error(c, http.StatusNotFound, "no_session", "no bulk diligence session in progress", nil)
		return
	}
	respond.OK(c, view)
}

// Reset discards the current session.
func (h *Handler) Reset(c *gin.Context) {
	h.orch.Reset()
	c.Status(http.StatusNoContent)
}
