package bulk

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/akjsdfklj/investor-intel-sub000/internal/llm"
	"github.com/akjsdfklj/investor-intel-sub000/internal/shared/metrics"
	"github.com/akjsdfklj/investor-intel-sub000/internal/shared/telemetry"
)

// Orchestrator owns the current bulk session and drives it to completion.
// Sessions are transient workflow objects; a new Start or a Reset discards
// the previous one, and goroutines still working on a discarded session hold
// only that session's pointer so they can never touch its replacement.
type Orchestrator struct {
	mu       sync.Mutex
	current  *Session
	pipeline *Pipeline
	llm      llm.Client
	batch    int
}

// NewOrchestrator wires the per-item pipeline and the ranking client.
func NewOrchestrator(extractor Extractor, client llm.Client, reportVersion string, batchSize int) *Orchestrator {
	if batchSize < 1 {
		batchSize = 3
	}
	return &Orchestrator{
		pipeline: &Pipeline{Extractor: extractor, LLM: client, Version: reportVersion},
		llm:      client,
		batch:    batchSize,
	}
}

// Start creates a session from already-normalized items, replaces the current
// session and begins processing in the background.
func (o *Orchestrator) Start(items []Item) SessionView {
	session := &Session{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Status:    SessionProcessing,
		Items:     append([]Item(nil), items...),
	}

	o.mu.Lock()
	o.current = session
	o.mu.Unlock()

	metrics.IncBulkSessionStarted()
	telemetry.Info("bulk.session.started", map[string]any{
		"session_id": session.ID,
		"item_count": len(items),
	})

	go o.run(context.Background(), session)
	return session.View()
}

// Snapshot returns a view of the current session, if one exists.
func (o *Orchestrator) Snapshot() (SessionView, bool) {
	o.mu.Lock()
	session := o.current
	o.mu.Unlock()
	if session == nil {
		return SessionView{}, false
	}
	return session.View(), true
}

// Reset discards the current session. In-flight work keeps running against
// the discarded object and is simply no longer observable.
func (o *Orchestrator) Reset() {
	o.mu.Lock()
	session := o.current
	o.current = nil
	o.mu.Unlock()
	if session != nil {
		telemetry.Info("bulk.session.discarded", map[string]any{"session_id": session.ID})
	}
}

func (o *Orchestrator) run(ctx context.Context, session *Session) {
	runWaves(ctx, len(session.Items), o.batch, func(ctx context.Context, i int) {
		o.pipeline.Process(ctx, session, i)
	})

	session.setStatus(SessionRanking)
	completed := session.completedItems()
	if len(completed) >= rankable {
		session.setRanking(o.rank(ctx, session.ID, completed))
	} else {
		telemetry.Info("bulk.ranking.skipped", map[string]any{
			"session_id":      session.ID,
			"completed_count": len(completed),
		})
	}

	session.setStatus(SessionComplete)
	metrics.IncBulkSessionCompleted()
	telemetry.Info("bulk.session.complete", map[string]any{
		"session_id":      session.ID,
		"completed_count": len(completed),
		"item_count":      len(session.Items),
	})
}

// rank tries the comparative LLM ranking and falls back to the local
// deterministic ranking on any failure or malformed response.
func (o *Orchestrator) rank(ctx context.Context, sessionID string, completed []Item) *RankingResult {
	candidates := make([]llm.RankCandidate, 0, len(completed))
	ids := make([]string, 0, len(completed))
	for _, it := range completed {
		reportJSON, err := json.Marshal(it.Report)
		if err != nil {
			reportJSON = json.RawMessage("{}")
		}
		candidates = append(candidates, llm.RankCandidate{ID: it.ID, Name: it.Name, Report: reportJSON})
		ids = append(ids, it.ID)
	}

	raw, err := o.llm.RankDeals(ctx, llm.RankInput{Candidates: candidates})
	if err == nil {
		result, parseErr := ParseRankingResult(raw, ids)
		if parseErr == nil {
			return result
		}
		err = parseErr
	}

	telemetry.Error("bulk.ranking.fallback", map[string]any{
		"session_id": sessionID,
		"error":      sanitizeError(err),
	})
	metrics.IncBulkRankingFallback()
	return FallbackRanking(completed)
}
