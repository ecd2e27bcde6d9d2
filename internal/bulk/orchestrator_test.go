package bulk

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/akjsdfklj/investor-intel-sub000/internal/llm"
)

func analysisJSON(team, market, product, moat int) json.RawMessage {
	return json.RawMessage(fmt.Sprintf(
		`{"summary":"Credible team addressing a real market.","scores":{"team":{"score":%d,"reason":"ok"},"market":{"score":%d,"reason":"ok"},"product":{"score":%d,"reason":"ok"},"moat":{"score":%d,"reason":"ok"}},"followUpQuestions":["What is net revenue retention?"]}`,
		team, market, product, moat))
}

type fakeLLM struct {
	mu        sync.Mutex
	analyze   func(input llm.AnalyzeInput) (json.RawMessage, error)
	rank      func(input llm.RankInput) (json.RawMessage, error)
	rankCalls int
}

func (f *fakeLLM) AnalyzeDeal(_ context.Context, input llm.AnalyzeInput) (json.RawMessage, error) {
	if f.analyze != nil {
		return f.analyze(input)
	}
	return analysisJSON(3, 3, 3, 3), nil
}

func (f *fakeLLM) RankDeals(_ context.Context, input llm.RankInput) (json.RawMessage, error) {
	f.mu.Lock()
	f.rankCalls++
	f.mu.Unlock()
	if f.rank != nil {
		return f.rank(input)
	}
	return nil, errors.New("ranking unavailable")
}

func (f *fakeLLM) rankCallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rankCalls
}

type extractStart struct {
	name          string
	terminalNames []string
}

// fakeExtractor records each extraction start and, when wired to a session
// snapshot, which items were already terminal at that moment.
type fakeExtractor struct {
	mu       sync.Mutex
	starts   []extractStart
	text     string
	err      error
	gate     chan struct{}
	snapshot func() (SessionView, bool)
}

func (f *fakeExtractor) Extract(_ context.Context, item Item) (string, error) {
	f.mu.Lock()
	start := extractStart{name: item.Name}
	if f.snapshot != nil {
		if view, ok := f.snapshot(); ok {
			for _, it := range view.Items {
				if it.Status == StatusComplete || it.Status == StatusError {
					start.terminalNames = append(start.terminalNames, it.Name)
				}
			}
		}
	}
	f.starts = append(f.starts, start)
	gate := f.gate
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}
	return f.text, f.err
}

func (f *fakeExtractor) startsCopy() []extractStart {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]extractStart(nil), f.starts...)
}

func urlItems(names ...string) []Item {
	items := make([]Item, len(names))
	for i, name := range names {
		items[i] = Item{
			ID:         uuid.NewString(),
			Name:       name,
			SourceKind: SourceURL,
			SourceRef:  "https://" + name + ".example.com",
			Status:     StatusPending,
		}
	}
	return items
}

func waitComplete(t *testing.T, orch *Orchestrator) SessionView {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if view, ok := orch.Snapshot(); ok && view.Status == SessionComplete {
			return view
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("session did not reach complete in time")
	return SessionView{}
}

func TestItemIsolation(t *testing.T) {
	client := &fakeLLM{
		analyze: func(input llm.AnalyzeInput) (json.RawMessage, error) {
			if input.CompanyName == "beta" {
				return nil, errors.New("model overloaded")
			}
			return analysisJSON(4, 4, 4, 4), nil
		},
		rank: func(llm.RankInput) (json.RawMessage, error) { return nil, errors.New("down") },
	}
	orch := NewOrchestrator(&fakeExtractor{text: "deck text"}, client, "dd:v1", 3)
	orch.Start(urlItems("alpha", "beta", "gamma"))

	view := waitComplete(t, orch)

	byName := map[string]ItemView{}
	for _, it := range view.Items {
		byName[it.Name] = it
	}
	if got := byName["beta"]; got.Status != StatusError || got.Progress != 0 || got.Error == "" || got.Report != nil {
		t.Fatalf("beta = %+v, want error status with progress 0 and no report", got)
	}
	for _, name := range []string{"alpha", "gamma"} {
		got := byName[name]
		if got.Status != StatusComplete || got.Progress != 100 || got.Report == nil {
			t.Fatalf("%s = %+v, want complete/100 with report (sibling failure must not spread)", name, got)
		}
	}
	if view.CompletedCount != 2 || view.FailedCount != 1 {
		t.Fatalf("counts = %d/%d, want 2 completed 1 failed", view.CompletedCount, view.FailedCount)
	}
}

func TestExtractionFailureDegradesToEmptyContent(t *testing.T) {
	var seenDeck string
	client := &fakeLLM{
		analyze: func(input llm.AnalyzeInput) (json.RawMessage, error) {
			seenDeck = input.DeckText
			return analysisJSON(2, 2, 2, 2), nil
		},
	}
	orch := NewOrchestrator(&fakeExtractor{err: errors.New("fetch timeout")}, client, "dd:v1", 3)
	orch.Start(urlItems("solo"))

	view := waitComplete(t, orch)

	if view.Items[0].Status != StatusComplete {
		t.Fatalf("status = %s, want complete (extraction failure must not fail the item)", view.Items[0].Status)
	}
	if seenDeck != "" {
		t.Fatalf("deck text = %q, want empty after degraded extraction", seenDeck)
	}
}

func TestTerminalCoverage(t *testing.T) {
	client := &fakeLLM{
		analyze: func(input llm.AnalyzeInput) (json.RawMessage, error) {
			if input.CompanyName == "c2" || input.CompanyName == "c5" {
				return nil, errors.New("boom")
			}
			return analysisJSON(3, 3, 3, 3), nil
		},
		rank: func(llm.RankInput) (json.RawMessage, error) { return nil, errors.New("down") },
	}
	orch := NewOrchestrator(&fakeExtractor{text: "x"}, client, "dd:v1", 3)
	orch.Start(urlItems("c0", "c1", "c2", "c3", "c4", "c5", "c6"))

	view := waitComplete(t, orch)

	for _, it := range view.Items {
		if it.Status != StatusComplete && it.Status != StatusError {
			t.Fatalf("item %s left in %s, want a terminal state", it.Name, it.Status)
		}
	}
}

func TestBatchBarrier(t *testing.T) {
	extractor := &fakeExtractor{text: "x"}
	orch := NewOrchestrator(extractor, &fakeLLM{}, "dd:v1", 3)
	extractor.snapshot = orch.Snapshot

	names := []string{"c0", "c1", "c2", "c3", "c4", "c5", "c6"}
	orch.Start(urlItems(names...))
	waitComplete(t, orch)

	firstWave := map[string]bool{"c0": true, "c1": true, "c2": true}
	starts := extractor.startsCopy()
	for _, start := range starts {
		if firstWave[start.name] {
			continue
		}
		terminal := map[string]bool{}
		for _, n := range start.terminalNames {
			terminal[n] = true
		}
		for wave1 := range firstWave {
			if !terminal[wave1] {
				t.Fatalf("%s started extraction before %s was terminal", start.name, wave1)
			}
		}
	}
	if got := len(starts); got != len(names) {
		t.Fatalf("extractions = %d, want %d", got, len(names))
	}
}

func TestRankingPrecondition(t *testing.T) {
	client := &fakeLLM{
		analyze: func(input llm.AnalyzeInput) (json.RawMessage, error) {
			if input.CompanyName != "winner" {
				return nil, errors.New("boom")
			}
			return analysisJSON(5, 5, 5, 5), nil
		},
	}
	orch := NewOrchestrator(&fakeExtractor{text: "x"}, client, "dd:v1", 3)
	orch.Start(urlItems("winner", "loser1", "loser2"))

	view := waitComplete(t, orch)

	if client.rankCallCount() != 0 {
		t.Fatalf("rank calls = %d, want 0 with a single completed item", client.rankCallCount())
	}
	if view.Ranking != nil {
		t.Fatalf("ranking = %+v, want none", view.Ranking)
	}
	if view.Status != SessionComplete {
		t.Fatalf("status = %s, want complete", view.Status)
	}
}

func TestRankingFallbackOnServiceFailure(t *testing.T) {
	client := &fakeLLM{
		rank: func(llm.RankInput) (json.RawMessage, error) { return nil, errors.New("down") },
	}
	orch := NewOrchestrator(&fakeExtractor{text: "x"}, client, "dd:v1", 3)
	orch.Start(urlItems("a", "b"))

	view := waitComplete(t, orch)

	if view.Ranking == nil {
		t.Fatal("want a fallback ranking when the service fails")
	}
	if len(view.Ranking.AllRankings) != 2 {
		t.Fatalf("allRankings = %d, want 2", len(view.Ranking.AllRankings))
	}
	if view.Ranking.Narrative == "" {
		t.Fatal("fallback narrative must be present")
	}
}

func TestRankingFallbackOnMalformedResponse(t *testing.T) {
	client := &fakeLLM{
		rank: func(llm.RankInput) (json.RawMessage, error) {
			return json.RawMessage(`{"topEntries":[],"allRankings":[]}`), nil
		},
	}
	orch := NewOrchestrator(&fakeExtractor{text: "x"}, client, "dd:v1", 3)
	orch.Start(urlItems("a", "b"))

	view := waitComplete(t, orch)

	if view.Ranking == nil || len(view.Ranking.AllRankings) != 2 {
		t.Fatalf("ranking = %+v, want fallback covering both items", view.Ranking)
	}
}

func TestStaleSessionGuard(t *testing.T) {
	gate := make(chan struct{})
	blocked := &fakeExtractor{text: "x", gate: gate}
	client := &fakeLLM{}
	orch := NewOrchestrator(blocked, client, "dd:v1", 3)

	orch.Start(urlItems("old1", "old2"))
	time.Sleep(20 * time.Millisecond)
	orch.Reset()

	if _, ok := orch.Snapshot(); ok {
		t.Fatal("snapshot after reset should report no session")
	}

	blocked.mu.Lock()
	blocked.gate = nil
	blocked.mu.Unlock()
	second := orch.Start(urlItems("new1"))

	// Let the discarded session's in-flight extractions resolve now.
	close(gate)
	view := waitComplete(t, orch)

	if view.ID != second.ID {
		t.Fatalf("snapshot session = %s, want the new session %s", view.ID, second.ID)
	}
	if len(view.Items) != 1 || view.Items[0].Name != "new1" {
		t.Fatalf("items = %+v, stale resolutions must not touch the new session", view.Items)
	}

	// Give the stale goroutines time to finish, then re-check.
	time.Sleep(50 * time.Millisecond)
	view, _ = orch.Snapshot()
	if len(view.Items) != 1 || view.Items[0].Name != "new1" || view.Status != SessionComplete {
		t.Fatalf("post-settle view = %+v, want untouched single-item session", view)
	}
}
