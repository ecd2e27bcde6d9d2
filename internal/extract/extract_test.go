package extract

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestExtractTextFromBytes_UnsupportedMimeRejected(t *testing.T) {
	_, err := ExtractTextFromBytes(context.Background(), []byte("hello"), "application/zip")
	if err == nil {
		t.Fatal("expected unsupported mime error")
	}
	if !strings.Contains(err.Error(), "unsupported mime type: application/zip") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestExtractTextFromBytes_MimeParamsIgnored(t *testing.T) {
	// Parameters after the media type must not change dispatch. The payload
	// itself is not a valid PDF, so the error should come from the parser,
	// not from mime routing.
	_, err := ExtractTextFromBytes(context.Background(), []byte("not a pdf"), "Application/PDF; charset=binary")
	if err == nil {
		t.Fatal("expected parse error for bogus pdf bytes")
	}
	if strings.Contains(err.Error(), "unsupported mime type") {
		t.Fatalf("mime routing failed: %v", err)
	}
}

func TestFetchURLText_StripsMarkup(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><head><title>ignored</title><style>p{}</style></head>` +
			`<body><h1>Acme Robotics</h1><script>var x=1;</script><p>Seed stage, warehouse automation.</p></body></html>`))
	}))
	defer srv.Close()

	text, err := FetchURLText(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("FetchURLText: %v", err)
	}
	if !strings.Contains(text, "Acme Robotics") || !strings.Contains(text, "warehouse automation") {
		t.Fatalf("missing visible text: %q", text)
	}
	if strings.Contains(text, "var x=1") || strings.Contains(text, "ignored") {
		t.Fatalf("markup leaked into text: %q", text)
	}
}

func TestFetchURLText_PlainTextPassedThrough(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte("  company memo body  "))
	}))
	defer srv.Close()

	text, err := FetchURLText(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("FetchURLText: %v", err)
	}
	if text != "company memo body" {
		t.Fatalf("text = %q", text)
	}
}

func TestFetchURLText_RejectsBadInput(t *testing.T) {
	if _, err := FetchURLText(context.Background(), "ftp://example.com/deck"); err == nil {
		t.Fatal("expected scheme rejection")
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()
	if _, err := FetchURLText(context.Background(), srv.URL); err == nil {
		t.Fatal("expected error for non-2xx response")
	}
}
