package reports

import "time"

// Report represents a persisted single-deal diligence job.
type Report struct {
	ID            string         `json:"id"`
	DealID        string         `json:"dealId"`
	UserID        string         `json:"userId"`
	DocumentID    string         `json:"documentId,omitempty"`
	Status        string         `json:"status"`
	Provider      string         `json:"provider"`
	Model         string         `json:"model"`
	ReportVersion string         `json:"reportVersion"`
	PromptHash    string         `json:"-"`
	Result        map[string]any `json:"result,omitempty"`
	Raw           map[string]any `json:"-"`
	ErrorCode     string         `json:"errorCode,omitempty"`
	ErrorMessage  string         `json:"errorMessage,omitempty"`
	Retryable     *bool          `json:"retryable,omitempty"`
	CreatedAt     time.Time      `json:"createdAt"`
	StartedAt     *time.Time     `json:"startedAt,omitempty"`
	CompletedAt   *time.Time     `json:"completedAt,omitempty"`
}
