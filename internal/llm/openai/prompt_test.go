package openai

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/akjsdfklj/investor-intel-sub000/internal/llm"
)

func TestPromptHashDeterministic(t *testing.T) {
	input := llm.AnalyzeInput{CompanyName: "Acme", DeckText: "deck text", ReportVersion: "dd:v1"}
	messages := BuildAnalyzePrompt(input)
	hash1 := hashPromptString(promptStringFromMessages(messages))
	hash2 := hashPromptString(promptStringFromMessages(messages))
	if hash1 != hash2 {
		t.Fatalf("expected deterministic prompt hash, got %q and %q", hash1, hash2)
	}

	inputAlt := llm.AnalyzeInput{CompanyName: "Acme", DeckText: "different deck", ReportVersion: "dd:v1"}
	hashAlt := hashPromptString(promptStringFromMessages(BuildAnalyzePrompt(inputAlt)))
	if hash1 == hashAlt {
		t.Fatalf("expected prompt hash to change when input changes")
	}
}

func TestBuildAnalyzePromptHandlesEmptyDeck(t *testing.T) {
	messages := BuildAnalyzePrompt(llm.AnalyzeInput{CompanyName: "Acme"})
	if len(messages) != 2 {
		t.Fatalf("expected system+user messages, got %d", len(messages))
	}
	user := messages[1].Content
	if !strings.Contains(user, "No pitch deck content was available") {
		t.Fatalf("empty deck not signalled to the model: %q", user)
	}
	if !strings.Contains(user, "Acme") {
		t.Fatal("company name missing from prompt")
	}
}

func TestBuildRankPromptIncludesEveryCandidate(t *testing.T) {
	input := llm.RankInput{Candidates: []llm.RankCandidate{
		{ID: "item-1", Name: "Acme", Report: json.RawMessage(`{"summary":"a"}`)},
		{ID: "item-2", Name: "Beta", Report: json.RawMessage(`{"summary":"b"}`)},
	}}
	messages := BuildRankPrompt(input)
	user := messages[1].Content
	for _, id := range []string{"item-1", "item-2"} {
		if !strings.Contains(user, "itemId="+id) {
			t.Fatalf("candidate %s missing from prompt", id)
		}
	}
	if !strings.Contains(user, "topEntries") {
		t.Fatal("rank schema missing from prompt")
	}
}
