package bulk_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/akjsdfklj/investor-intel-sub000/internal/bootstrap"
	"github.com/akjsdfklj/investor-intel-sub000/internal/shared/config"
)

type sessionBody struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Items  []struct {
		Name     string `json:"name"`
		Status   string `json:"status"`
		Progress int    `json:"progress"`
		Error    string `json:"error"`
	} `json:"items"`
	FailedCount int `json:"failedCount"`
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Config{
		Port:            "0",
		CORSAllowOrigin: []string{"http://localhost:5173"},
		LocalStoreDir:   t.TempDir(),
		Env:             "dev",
		ObjectStoreType: "local",
		BulkMaxItems:    10,
		BulkBatchSize:   3,
	}
	app, err := bootstrap.Build(cfg)
	if err != nil {
		t.Fatalf("bootstrap build: %v", err)
	}
	return app.Router
}

func addFile(t *testing.T, writer *multipart.Writer, fileName, contentType string, content []byte) {
	t.Helper()
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="files"; filename="`+fileName+`"`)
	h.Set("Content-Type", contentType)
	part, err := writer.CreatePart(h)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("write part: %v", err)
	}
}

func submit(t *testing.T, router *gin.Engine, build func(*multipart.Writer)) *httptest.ResponseRecorder {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	build(writer)
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bulk-diligence", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("X-Guest-Id", "test-guest")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func currentSession(t *testing.T, router *gin.Engine) (*httptest.ResponseRecorder, sessionBody) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/bulk-diligence", nil)
	req.Header.Set("X-Guest-Id", "test-guest")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	var view sessionBody
	if resp.Code == http.StatusOK {
		if err := json.NewDecoder(resp.Body).Decode(&view); err != nil {
			t.Fatalf("decode session: %v", err)
		}
	}
	return resp, view
}

func TestBulkSubmitPartialAcceptAndCompletion(t *testing.T) {
	router := newTestRouter(t)

	resp := submit(t, router, func(writer *multipart.Writer) {
		addFile(t, writer, "deck.pdf", "application/pdf", []byte("%PDF-1.4 not really a deck"))
		addFile(t, writer, "notes.docx", "application/vnd.openxmlformats-officedocument.wordprocessingml.document", []byte("doc"))
	})
	if resp.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", resp.Code, resp.Body.String())
	}

	var accepted struct {
		Session  sessionBody `json:"session"`
		Warnings []string    `json:"warnings"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&accepted); err != nil {
		t.Fatalf("decode submit response: %v", err)
	}
	if len(accepted.Session.Items) != 1 {
		t.Fatalf("expected 1 accepted item, got %d", len(accepted.Session.Items))
	}
	if accepted.Session.Items[0].Name != "deck" {
		t.Errorf("item name = %q, want deck", accepted.Session.Items[0].Name)
	}
	if len(accepted.Warnings) != 1 {
		t.Errorf("expected 1 warning for the rejected docx, got %v", accepted.Warnings)
	}

	// Without an LLM backend every item fails, but the session must still run
	// to completion instead of hanging.
	deadline := time.After(5 * time.Second)
	for {
		select {
		case <-deadline:
			t.Fatal("session never completed")
		default:
		}
		getResp, view := currentSession(t, router)
		if getResp.Code != http.StatusOK {
			t.Fatalf("current: expected 200, got %d", getResp.Code)
		}
		if view.Status == "complete" {
			if view.FailedCount != 1 {
				t.Fatalf("failedCount = %d, want 1", view.FailedCount)
			}
			if view.Items[0].Status != "error" || view.Items[0].Progress != 0 {
				t.Fatalf("item = %+v, want terminal error with progress 0", view.Items[0])
			}
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestBulkSubmitRejectsEmptyBatch(t *testing.T) {
	router := newTestRouter(t)

	resp := submit(t, router, func(writer *multipart.Writer) {
		addFile(t, writer, "notes.txt", "text/plain", []byte("hello"))
	})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestBulkResetClearsSession(t *testing.T) {
	router := newTestRouter(t)

	resp := submit(t, router, func(writer *multipart.Writer) {
		addFile(t, writer, "deck.pdf", "application/pdf", []byte("%PDF-1.4"))
	})
	if resp.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", resp.Code)
	}

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/bulk-diligence", nil)
	req.Header.Set("X-Guest-Id", "test-guest")
	del := httptest.NewRecorder()
	router.ServeHTTP(del, req)
	if del.Code != http.StatusNoContent {
		t.Fatalf("delete: expected 204, got %d", del.Code)
	}

	getResp, _ := currentSession(t, router)
	if getResp.Code != http.StatusNotFound {
		t.Fatalf("current after reset: expected 404, got %d", getResp.Code)
	}
}
