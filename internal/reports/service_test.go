package reports

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/akjsdfklj/investor-intel-sub000/internal/deals"
	"github.com/akjsdfklj/investor-intel-sub000/internal/llm"
)

type fakeLLM struct {
	analyze func(ctx context.Context, in llm.AnalyzeInput) (json.RawMessage, error)
}

func (f *fakeLLM) AnalyzeDeal(ctx context.Context, in llm.AnalyzeInput) (json.RawMessage, error) {
	if sink, ok := llm.PromptHashSinkFromContext(ctx); ok && sink != nil {
		*sink = "hash-abc"
	}
	return f.analyze(ctx, in)
}

func (f *fakeLLM) RankDeals(ctx context.Context, in llm.RankInput) (json.RawMessage, error) {
	return nil, errors.New("not implemented")
}

func validAnalysis() json.RawMessage {
	return json.RawMessage(`{
		"summary": "Strong founding team in a growing market.",
		"scores": {
			"team": {"score": 4, "reasoning": "experienced"},
			"market": {"score": 3, "reasoning": "competitive"},
			"product": {"score": 4, "reasoning": "differentiated"},
			"moat": {"score": 2, "reasoning": "early"}
		}
	}`)
}

func newTestService(t *testing.T, client llm.Client) (*Service, string) {
	t.Helper()
	dealsRepo := deals.NewMemoryRepo()
	deal := deals.Deal{ID: "deal-1", UserID: "user-1", Company: "Acme", Stage: "diligence"}
	if err := dealsRepo.Create(context.Background(), deal); err != nil {
		t.Fatalf("seed deal: %v", err)
	}
	svc := &Service{
		Repo:          NewMemoryRepo(),
		Deals:         dealsRepo,
		LLM:           client,
		Provider:      "openai",
		Model:         "gpt-4o-mini",
		ReportVersion: "dd:v1",
	}
	return svc, deal.ID
}

func waitTerminal(t *testing.T, svc *Service, reportID string) Report {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for {
		select {
		case <-deadline:
			t.Fatal("report never reached a terminal status")
		default:
		}
		report, err := svc.Repo.GetByID(context.Background(), reportID)
		if err != nil {
			t.Fatalf("get report: %v", err)
		}
		if report.Status == StatusCompleted || report.Status == StatusFailed {
			return report
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestCreateCompletesReport(t *testing.T) {
	svc, dealID := newTestService(t, &fakeLLM{
		analyze: func(_ context.Context, in llm.AnalyzeInput) (json.RawMessage, error) {
			if in.CompanyName != "Acme" {
				t.Errorf("company = %q, want Acme", in.CompanyName)
			}
			return validAnalysis(), nil
		},
	})

	created, err := svc.Create(context.Background(), "user-1", dealID, "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Status != StatusQueued {
		t.Fatalf("initial status = %q, want queued", created.Status)
	}

	report := waitTerminal(t, svc, created.ID)
	if report.Status != StatusCompleted {
		t.Fatalf("status = %q (%s: %s)", report.Status, report.ErrorCode, report.ErrorMessage)
	}
	if report.Result["summary"] == "" {
		t.Error("result summary is empty")
	}
	if report.Raw == nil {
		t.Error("raw payload was not stored")
	}
	if report.PromptHash != "hash-abc" {
		t.Errorf("prompt hash = %q", report.PromptHash)
	}
	if report.CompletedAt == nil || report.StartedAt == nil {
		t.Error("timestamps not set")
	}
}

func TestSchemaMismatchFailsWithoutRetry(t *testing.T) {
	svc, dealID := newTestService(t, &fakeLLM{
		analyze: func(context.Context, llm.AnalyzeInput) (json.RawMessage, error) {
			return json.RawMessage(`{"summary": "ok"}`), nil
		},
	})

	created, err := svc.Create(context.Background(), "user-1", dealID, "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	report := waitTerminal(t, svc, created.ID)
	if report.Status != StatusFailed {
		t.Fatalf("status = %q, want failed", report.Status)
	}
	if report.ErrorCode != ErrorCodeLLMSchemaMismatch {
		t.Errorf("error code = %q, want %q", report.ErrorCode, ErrorCodeLLMSchemaMismatch)
	}
	if report.Retryable == nil || *report.Retryable {
		t.Error("schema mismatch must not be retryable")
	}
	if report.Raw == nil {
		t.Error("raw payload should be stored even when validation fails")
	}
}

func TestTimeoutFailureIsRetryable(t *testing.T) {
	svc, dealID := newTestService(t, &fakeLLM{
		analyze: func(context.Context, llm.AnalyzeInput) (json.RawMessage, error) {
			return nil, errors.New("openai request timeout after 60s")
		},
	})

	created, err := svc.Create(context.Background(), "user-1", dealID, "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	report := waitTerminal(t, svc, created.ID)
	if report.Status != StatusFailed {
		t.Fatalf("status = %q, want failed", report.Status)
	}
	if report.ErrorCode != ErrorCodeLLMTimeout {
		t.Errorf("error code = %q, want %q", report.ErrorCode, ErrorCodeLLMTimeout)
	}
	if report.Retryable == nil || !*report.Retryable {
		t.Error("timeout must be retryable")
	}
}

func TestCreateRejectsForeignDeal(t *testing.T) {
	svc, dealID := newTestService(t, &fakeLLM{
		analyze: func(context.Context, llm.AnalyzeInput) (json.RawMessage, error) {
			return validAnalysis(), nil
		},
	})
	if _, err := svc.Create(context.Background(), "user-2", dealID, ""); !errors.Is(err, deals.ErrNotFound) {
		t.Fatalf("err = %v, want deals.ErrNotFound", err)
	}
}

func TestNormalizeResultRejectsBadPayloads(t *testing.T) {
	cases := []struct {
		name    string
		payload string
	}{
		{"not json", "plain text"},
		{"missing summary", `{"scores": {"team": {"score": 3}, "market": {"score": 3}, "product": {"score": 3}, "moat": {"score": 3}}}`},
		{"missing dimension", `{"summary": "x", "scores": {"team": {"score": 3}}}`},
		{"score out of range", `{"summary": "x", "scores": {"team": {"score": 9}, "market": {"score": 3}, "product": {"score": 3}, "moat": {"score": 3}}}`},
		{"fractional score", `{"summary": "x", "scores": {"team": {"score": 3.5}, "market": {"score": 3}, "product": {"score": 3}, "moat": {"score": 3}}}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := normalizeResult(json.RawMessage(tc.payload)); err == nil {
				t.Error("expected error")
			}
		})
	}

	result, err := normalizeResult(validAnalysis())
	if err != nil {
		t.Fatalf("valid payload rejected: %v", err)
	}
	if result["summary"] != "Strong founding team in a growing market." {
		t.Errorf("summary = %v", result["summary"])
	}
}
