package documents

import "time"

// Document is one uploaded pitch deck or data-room file, optionally attached
// to a deal.
type Document struct {
	ID               string
	UserID           string
	DealID           string
	FileName         string
	MimeType         string
	SizeBytes        int64
	StorageProvider  string
	StorageKey       string
	ExtractedTextKey string
	ExtractedAt      *time.Time
	CreatedAt        time.Time
}
