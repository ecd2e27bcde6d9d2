package reports

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/akjsdfklj/investor-intel-sub000/internal/deals"
	"github.com/akjsdfklj/investor-intel-sub000/internal/documents"
	"github.com/akjsdfklj/investor-intel-sub000/internal/extract"
	"github.com/akjsdfklj/investor-intel-sub000/internal/llm"
	"github.com/akjsdfklj/investor-intel-sub000/internal/queue"
	"github.com/akjsdfklj/investor-intel-sub000/internal/shared/metrics"
	"github.com/akjsdfklj/investor-intel-sub000/internal/shared/storage/object"
	"github.com/akjsdfklj/investor-intel-sub000/internal/shared/telemetry"
)

const (
	StatusQueued     = "queued"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// Service contains business logic for diligence reports.
type Service struct {
	Repo          Repo
	Deals         deals.DealsRepo
	Docs          documents.DocumentsRepo
	Store         object.ObjectStore
	LLM           llm.Client
	Queue         queue.Client
	Provider      string
	Model         string
	ReportVersion string
}

// Create enqueues a new report for a deal and kicks off completion, either
// through SQS when a queue is configured or in-process otherwise.
func (s *Service) Create(ctx context.Context, userID, dealID, documentID string) (Report, error) {
	if dealID == "" || userID == "" {
		return Report{}, errors.New("dealID and userID are required")
	}

	deal, err := s.Deals.GetByID(ctx, userID, dealID)
	if err != nil {
		return Report{}, err
	}

	if documentID == "" && s.Docs != nil {
		docs, err := s.Docs.ListByUser(ctx, userID, dealID, 1, 0)
		if err == nil && len(docs) > 0 {
			documentID = docs[0].ID
		}
	}

	report := Report{
		ID:            uuid.NewString(),
		DealID:        deal.ID,
		UserID:        userID,
		DocumentID:    documentID,
		Status:        StatusQueued,
		Provider:      normalizeProvider(s.Provider),
		Model:         s.Model,
		ReportVersion: normalizeVersion(s.ReportVersion),
		CreatedAt:     time.Now().UTC(),
	}

	if err := s.Repo.Create(ctx, report); err != nil {
		return Report{}, err
	}

	if s.Queue != nil {
		msg := queue.Message{
			ReportID:   report.ID,
			RequestID:  requestIDFromContext(ctx),
			EnqueuedAt: time.Now().UTC().Format(time.RFC3339),
			Version:    1,
		}
		if err := s.Queue.Send(ctx, msg); err != nil {
			telemetry.Error("report.enqueue_failed", map[string]any{
				"report_id": report.ID,
				"error":     err.Error(),
			})
			// Fall back to in-process completion rather than strand the job.
			go s.completeAsync(backgroundWithRequestID(ctx), report.ID)
		}
		return report, nil
	}

	go s.completeAsync(backgroundWithRequestID(ctx), report.ID)
	return report, nil
}

// Get returns a report, enforcing ownership.
func (s *Service) Get(ctx context.Context, userID, reportID string) (Report, error) {
	report, err := s.Repo.GetByID(ctx, reportID)
	if err != nil {
		return Report{}, err
	}
	if report.UserID != userID {
		return Report{}, ErrNotFound
	}
	return report, nil
}

// List returns reports for a user, newest first.
func (s *Service) List(ctx context.Context, userID string, limit, offset int) ([]Report, error) {
	if userID == "" {
		return nil, errors.New("userID is required")
	}
	return s.Repo.ListByUser(ctx, userID, limit, offset)
}

// ListByDeal returns reports for one deal.
func (s *Service) ListByDeal(ctx context.Context, userID, dealID string, limit, offset int) ([]Report, error) {
	return s.Repo.ListByDeal(ctx, userID, dealID, limit, offset)
}

func (s *Service) completeAsync(ctx context.Context, reportID string) {
	defer func() {
		if r := recover(); r != nil {
			s.failReport(ctx, reportID, "", fmt.Errorf("panic: %v", r), nil)
		}
	}()
	_ = s.Process(ctx, reportID)
}

// Process drives one queued report to a terminal state. It is called by the
// in-process path and by the SQS worker.
func (s *Service) Process(ctx context.Context, reportID string) error {
	startedAt := time.Now().UTC()
	if err := s.Repo.MarkProcessing(ctx, reportID, startedAt); err != nil {
		s.failReport(ctx, reportID, "", fmt.Errorf("set processing failed: %w", err), &startedAt)
		return err
	}

	report, err := s.Repo.GetByID(ctx, reportID)
	if err != nil {
		s.failReport(ctx, reportID, "", fmt.Errorf("report lookup: %w", err), &startedAt)
		return err
	}
	metrics.IncReportStarted()
	s.logStatus(ctx, report, StatusProcessing, "queued->processing", 0)

	if s.LLM == nil {
		err := errors.New("missing llm client")
		s.failReport(ctx, reportID, report.UserID, err, &startedAt)
		return err
	}

	deal, err := s.Deals.GetByID(ctx, report.UserID, report.DealID)
	if err != nil {
		s.failReport(ctx, reportID, report.UserID, fmt.Errorf("deal lookup id=%s: %w", report.DealID, err), &startedAt)
		return err
	}

	deckText, err := s.loadDeckText(ctx, report)
	if err != nil {
		s.failReport(ctx, reportID, report.UserID, err, &startedAt)
		return err
	}

	var promptHash string
	ctxWithHash := llm.WithPromptHashCapture(ctx, &promptHash)

	raw, err := s.LLM.AnalyzeDeal(ctxWithHash, llm.AnalyzeInput{
		CompanyName:   deal.Company,
		DeckText:      deckText,
		ReportVersion: report.ReportVersion,
	})
	if err != nil {
		s.failReport(ctx, reportID, report.UserID, fmt.Errorf("llm analyze: %w", err), &startedAt)
		return err
	}
	if err := s.storeRaw(ctx, reportID, raw); err != nil {
		s.failReport(ctx, reportID, report.UserID, fmt.Errorf("set report raw failed: %w", err), &startedAt)
		return err
	}
	if promptHash != "" {
		if err := s.Repo.UpdatePromptHash(ctx, reportID, promptHash); err != nil {
			s.failReport(ctx, reportID, report.UserID, fmt.Errorf("set prompt metadata failed: %w", err), &startedAt)
			return err
		}
	}

	result, err := normalizeResult(raw)
	if err != nil {
		s.failReport(ctx, reportID, report.UserID, fmt.Errorf("llm output invalid: %w", err), &startedAt)
		return err
	}

	completedAt := time.Now().UTC()
	if err := s.Repo.UpdateResult(ctx, reportID, result, completedAt); err != nil {
		s.failReport(ctx, reportID, report.UserID, fmt.Errorf("set report result failed: %w", err), &startedAt)
		return err
	}
	metrics.IncReportCompleted()
	metrics.ObserveReportDurationMs(durationMs(&startedAt, &completedAt))
	s.logStatus(ctx, report, StatusCompleted, "processing->completed", durationMs(&startedAt, &completedAt))
	return nil
}

// loadDeckText resolves the document's extracted text, extracting on first
// use. A report without a document proceeds on the company name alone.
func (s *Service) loadDeckText(ctx context.Context, report Report) (string, error) {
	if report.DocumentID == "" {
		return "", nil
	}
	if s.Docs == nil || s.Store == nil {
		return "", errors.New("missing document store dependencies")
	}

	doc, err := s.Docs.GetByID(ctx, report.UserID, report.DocumentID)
	if err != nil {
		return "", fmt.Errorf("document lookup id=%s: %w", report.DocumentID, err)
	}

	text, err := extract.ExtractText(ctx, s.Store, doc.StorageKey, doc.MimeType)
	if err != nil {
		return "", fmt.Errorf("document %s mime %s: %w", doc.ID, doc.MimeType, err)
	}
	return text, nil
}

func (s *Service) failReport(ctx context.Context, reportID, userID string, err error, startedAt *time.Time) {
	code, retryable := classifyFailure(err)
	msg := sanitizeError(err)
	completedAt := time.Now().UTC()
	if updateErr := s.Repo.MarkFailed(context.Background(), reportID, code, msg, retryable, completedAt); updateErr != nil {
		telemetry.Error("report.fail_update_failed", map[string]any{
			"report_id": reportID,
			"error":     updateErr.Error(),
			"orig":      msg,
		})
	}
	metrics.IncReportFailed()
	if startedAt != nil {
		metrics.ObserveReportDurationMs(durationMs(startedAt, &completedAt))
	}
	telemetry.Info("report.status", map[string]any{
		"request_id":        requestIDFromContext(ctx),
		"user_id":           userID,
		"report_id":         reportID,
		"status":            StatusFailed,
		"status_transition": "processing->failed",
		"error_code":        code,
		"duration_ms":       durationMs(startedAt, &completedAt),
	})
}

func (s *Service) logStatus(ctx context.Context, report Report, status, transition string, durationMs float64) {
	fields := map[string]any{
		"request_id":        requestIDFromContext(ctx),
		"user_id":           report.UserID,
		"deal_id":           report.DealID,
		"report_id":         report.ID,
		"status":            status,
		"status_transition": transition,
	}
	if durationMs > 0 {
		fields["duration_ms"] = durationMs
	}
	telemetry.Info("report.status", fields)
}

func (s *Service) storeRaw(ctx context.Context, reportID string, raw json.RawMessage) error {
	return s.Repo.UpdateRaw(ctx, reportID, buildRawPayload(raw))
}

func buildRawPayload(raw json.RawMessage) any {
	if len(raw) == 0 {
		return map[string]any{"rawText": ""}
	}
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err == nil {
		return parsed
	}
	return map[string]any{"rawText": string(raw)}
}

func normalizeProvider(provider string) string {
	if strings.TrimSpace(provider) == "" {
		return "openai"
	}
	return provider
}

func normalizeVersion(version string) string {
	if strings.TrimSpace(version) == "" {
		return "unknown"
	}
	return strings.TrimSpace(version)
}

func durationMs(startedAt, completedAt *time.Time) float64 {
	if startedAt == nil || completedAt == nil {
		return 0
	}
	return float64(completedAt.Sub(*startedAt).Microseconds()) / 1000.0
}

func classifyFailure(err error) (string, bool) {
	if err == nil {
		return ErrorCodeInternal, false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrorCodeLLMTimeout, true
	}
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "openai request timeout") {
		return ErrorCodeLLMTimeout, true
	}
	if strings.Contains(msg, "timeout") && strings.Contains(msg, "llm") {
		return ErrorCodeLLMTimeout, true
	}
	if strings.Contains(msg, "schema") || strings.Contains(msg, "llm output invalid") || strings.Contains(msg, "llm output parse") {
		return ErrorCodeLLMSchemaMismatch, false
	}
	if strings.Contains(msg, "validation") && !strings.Contains(msg, "llm") {
		return ErrorCodeValidation, false
	}
	if strings.Contains(msg, "document") || strings.Contains(msg, "storage") || strings.Contains(msg, "report raw") || strings.Contains(msg, "report result") || strings.Contains(msg, "prompt metadata") || strings.Contains(msg, "set processing") {
		return ErrorCodeStorage, true
	}
	return ErrorCodeInternal, false
}

func sanitizeError(err error) string {
	if err == nil {
		return ""
	}
	msg := strings.ReplaceAll(err.Error(), "\n", " ")
	msg = strings.ReplaceAll(msg, "\r", " ")
	msg = strings.TrimSpace(msg)
	const maxLen = 500
	if len(msg) > maxLen {
		msg = msg[:maxLen]
	}
	return msg
}
