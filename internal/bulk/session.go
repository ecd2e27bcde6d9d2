package bulk

import (
	"sync"
	"time"
)

// SourceKind tells the pipeline how to reach an item's content.
type SourceKind string

const (
	SourceFile SourceKind = "file"
	SourceURL  SourceKind = "url"
)

// Item statuses. pending -> parsing -> analyzing -> complete, with error
// reachable from parsing or analyzing. complete and error are terminal.
const (
	StatusPending   = "pending"
	StatusParsing   = "parsing"
	StatusAnalyzing = "analyzing"
	StatusComplete  = "complete"
	StatusError     = "error"
)

// Session statuses. processing -> ranking -> complete, no reverse transitions.
const (
	SessionProcessing = "processing"
	SessionRanking    = "ranking"
	SessionComplete   = "complete"
)

// Item is one startup submission inside a bulk session.
type Item struct {
	ID               string
	Name             string
	SourceKind       SourceKind
	SourceRef        string
	MimeType         string
	Status           string
	Progress         int
	ExtractedContent string
	Report           *Report
	Error            string
}

// Terminal reports whether the item reached a terminal state.
func (it Item) Terminal() bool {
	return it.Status == StatusComplete || it.Status == StatusError
}

// Session is one bulk diligence run. The item set is fixed at creation; all
// mutation goes through update so concurrent snapshot reads never observe a
// half-applied transition.
type Session struct {
	mu        sync.Mutex
	ID        string
	CreatedAt time.Time
	Status    string
	Items     []Item
	Ranking   *RankingResult
}

func (s *Session) update(idx int, mutate func(*Item)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if idx < 0 || idx >= len(s.Items) {
		return
	}
	mutate(&s.Items[idx])
}

func (s *Session) item(idx int) Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Items[idx]
}

func (s *Session) setStatus(status string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Status = status
}

func (s *Session) setRanking(r *RankingResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Ranking = r
}

// completedItems returns copies of items with a report, in intake order.
func (s *Session) completedItems() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Item, 0, len(s.Items))
	for _, it := range s.Items {
		if it.Status == StatusComplete && it.Report != nil {
			out = append(out, it)
		}
	}
	return out
}

// View returns a deep-copied, JSON-ready snapshot of the session.
func (s *Session) View() SessionView {
	s.mu.Lock()
	defer s.mu.Unlock()

	view := SessionView{
		ID:        s.ID,
		CreatedAt: s.CreatedAt,
		Status:    s.Status,
		Items:     make([]ItemView, 0, len(s.Items)),
	}
	for _, it := range s.Items {
		iv := ItemView{
			ID:         it.ID,
			Name:       it.Name,
			SourceKind: it.SourceKind,
			Status:     it.Status,
			Progress:   it.Progress,
			Error:      it.Error,
		}
		if it.Report != nil {
			reportCopy := *it.Report
			iv.Report = &reportCopy
		}
		view.Items = append(view.Items, iv)
		switch it.Status {
		case StatusComplete:
			view.CompletedCount++
		case StatusError:
			view.FailedCount++
		}
	}
	if s.Ranking != nil {
		view.Ranking = s.Ranking.clone()
	}
	return view
}

// SessionView is the read-only representation exposed to the UI.
type SessionView struct {
	ID             string         `json:"id"`
	CreatedAt      time.Time      `json:"createdAt"`
	Status         string         `json:"status"`
	Items          []ItemView     `json:"items"`
	CompletedCount int            `json:"completedCount"`
	FailedCount    int            `json:"failedCount"`
	Ranking        *RankingResult `json:"ranking,omitempty"`
}

// ItemView is the read-only representation of one item.
type ItemView struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	SourceKind SourceKind `json:"sourceKind"`
	Status     string     `json:"status"`
	Progress   int        `json:"progress"`
	Error      string     `json:"error,omitempty"`
	Report     *Report    `json:"report,omitempty"`
}
