package bulk

import (
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/google/uuid"
)

// FileInput describes one uploaded file offered to intake. The handler owns
// reading the multipart body; intake only decides acceptance.
type FileInput struct {
	Name     string
	MimeType string
	Size     int64
}

// IntakeResult is the outcome of normalizing one submission. FileIndexes maps
// each accepted file-sourced item back to its position in the files slice so
// the caller can persist only the accepted uploads.
type IntakeResult struct {
	Items       []Item
	FileIndexes []int
	Warnings    []string
}

// NormalizeIntake filters a mixed batch of files and pasted URLs into analysis
// items. Non-PDF files and malformed URLs are dropped with a warning, and once
// existingCount plus accepted items reaches maxItems the remainder is dropped
// with a warning. The submission itself never fails.
func NormalizeIntake(existingCount int, files []FileInput, urlText string, maxItems int) IntakeResult {
	var result IntakeResult
	capacity := maxItems - existingCount
	if capacity < 0 {
		capacity = 0
	}
	dropped := 0

	for i, f := range files {
		if !isPDF(f) {
			result.Warnings = append(result.Warnings, fmt.Sprintf("%s is not a PDF and was skipped", f.Name))
			continue
		}
		if len(result.Items) >= capacity {
			dropped++
			continue
		}
		result.Items = append(result.Items, Item{
			ID:         uuid.NewString(),
			Name:       displayNameFromFile(f.Name),
			SourceKind: SourceFile,
			SourceRef:  f.Name,
			MimeType:   f.MimeType,
			Status:     StatusPending,
		})
		result.FileIndexes = append(result.FileIndexes, i)
	}

	for _, raw := range splitURLText(urlText) {
		u, err := url.Parse(raw)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			result.Warnings = append(result.Warnings, fmt.Sprintf("%s is not a valid URL and was skipped", raw))
			continue
		}
		if len(result.Items) >= capacity {
			dropped++
			continue
		}
		result.Items = append(result.Items, Item{
			ID:         uuid.NewString(),
			Name:       displayNameFromURL(u),
			SourceKind: SourceURL,
			SourceRef:  u.String(),
			Status:     StatusPending,
		})
	}

	if dropped > 0 {
		result.Warnings = append(result.Warnings, fmt.Sprintf("maximum of %d companies per session; %d submission(s) were skipped", maxItems, dropped))
	}
	return result
}

func isPDF(f FileInput) bool {
	mt := strings.ToLower(strings.TrimSpace(f.MimeType))
	if i := strings.Index(mt, ";"); i >= 0 {
		mt = strings.TrimSpace(mt[:i])
	}
	if mt == "application/pdf" {
		return true
	}
	// Some browsers send an empty or generic type for drag-and-drop uploads.
	if mt == "" || mt == "application/octet-stream" {
		return strings.HasSuffix(strings.ToLower(f.Name), ".pdf")
	}
	return false
}

func splitURLText(text string) []string {
	var out []string
	for _, chunk := range strings.FieldsFunc(text, func(r rune) bool {
		return r == '\n' || r == ','
	}) {
		if s := strings.TrimSpace(chunk); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func displayNameFromFile(name string) string {
	base := path.Base(strings.ReplaceAll(name, "\\", "/"))
	return strings.TrimSuffix(base, path.Ext(base))
}

func displayNameFromURL(u *url.URL) string {
	host := strings.TrimPrefix(u.Hostname(), "www.")
	if host == "" {
		return u.String()
	}
	return host
}
