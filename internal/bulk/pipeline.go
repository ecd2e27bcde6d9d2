package bulk

import (
	"context"
	"fmt"
	"runtime/debug"
	"strings"

	"github.com/akjsdfklj/investor-intel-sub000/internal/llm"
	"github.com/akjsdfklj/investor-intel-sub000/internal/shared/metrics"
	"github.com/akjsdfklj/investor-intel-sub000/internal/shared/telemetry"
)

// maxDeckChars bounds the extracted text sent to the analysis call.
const maxDeckChars = 24000

// Extractor obtains text for one item. File-sourced items resolve SourceRef
// through the object store; URL-sourced items fetch and strip the page.
type Extractor interface {
	Extract(ctx context.Context, item Item) (string, error)
}

// Pipeline runs one item from pending to a terminal state.
type Pipeline struct {
	Extractor Extractor
	LLM       llm.Client
	Version   string
}

// Process drives the item at idx through extraction, analysis and completion.
// Extraction failures degrade to empty content; analysis failures move the
// item to error with progress reset. Panics are contained so a bad item never
// takes down its siblings.
func (p *Pipeline) Process(ctx context.Context, session *Session, idx int) {
	defer func() {
		if r := recover(); r != nil {
			telemetry.Error("bulk.item.panic", map[string]any{
				"session_id": session.ID,
				"panic":      fmt.Sprint(r),
				"stack":      string(debug.Stack()),
			})
			p.fail(session, idx, fmt.Sprintf("internal error: %v", r))
		}
	}()

	item := session.item(idx)

	session.update(idx, func(it *Item) {
		it.Status = StatusParsing
		it.Progress = 20
	})
	logItemTransition(session.ID, item.ID, StatusParsing)

	text, err := p.Extractor.Extract(ctx, item)
	if err != nil {
		// Degraded, not fatal. Analysis can still score from the name alone.
		telemetry.Error("bulk.item.extract_degraded", map[string]any{
			"session_id": session.ID,
			"item_id":    item.ID,
			"error":      sanitizeError(err),
		})
		text = ""
	}
	session.update(idx, func(it *Item) {
		it.ExtractedContent = text
		it.Status = StatusAnalyzing
		it.Progress = 50
	})
	logItemTransition(session.ID, item.ID, StatusAnalyzing)

	raw, err := p.LLM.AnalyzeDeal(ctx, llm.AnalyzeInput{
		CompanyName:   item.Name,
		DeckText:      truncate(text, maxDeckChars),
		ReportVersion: p.Version,
	})
	if err != nil {
		p.fail(session, idx, sanitizeError(err))
		return
	}
	report, err := ParseReport(raw)
	if err != nil {
		p.fail(session, idx, sanitizeError(err))
		return
	}

	session.update(idx, func(it *Item) {
		it.Report = report
		it.Status = StatusComplete
		it.Progress = 100
	})
	logItemTransition(session.ID, item.ID, StatusComplete)
	metrics.IncBulkItemCompleted()
}

func (p *Pipeline) fail(session *Session, idx int, reason string) {
	var itemID string
	session.update(idx, func(it *Item) {
		if it.Terminal() {
			return
		}
		itemID = it.ID
		it.Status = StatusError
		it.Progress = 0
		it.Error = reason
	})
	logItemTransition(session.ID, itemID, StatusError)
	metrics.IncBulkItemFailed()
}

func logItemTransition(sessionID, itemID, status string) {
	telemetry.Info("bulk.item.status", map[string]any{
		"session_id": sessionID,
		"item_id":    itemID,
		"status":     status,
	})
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

// sanitizeError flattens an error chain into a single bounded line.
func sanitizeError(err error) string {
	if err == nil {
		return ""
	}
	msg := strings.Join(strings.Fields(err.Error()), " ")
	if len(msg) > 500 {
		msg = msg[:500]
	}
	return msg
}
