package openai

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/akjsdfklj/investor-intel-sub000/internal/llm"
)

// Message represents an OpenAI chat message.
type Message struct {
	Role    string
	Content string
}

const (
	systemPromptAnalyze = "You are a venture capital due diligence engine. Respond with JSON only. No markdown. Never omit keys. Output must match the schema exactly."
	systemPromptRank    = "You are a venture capital investment committee. Compare the startups and respond with JSON only. Output must match the schema exactly."
	systemPromptFixJSON = "You are a JSON repair tool. Return only valid JSON that matches the schema exactly."
)

const analyzeSchema = `{
  "summary": "string, 3-5 sentence assessment of the startup",
  "scores": {
    "team": {"score": "integer 1-5", "reason": "string"},
    "market": {"score": "integer 1-5", "reason": "string"},
    "product": {"score": "integer 1-5", "reason": "string"},
    "moat": {"score": "integer 1-5", "reason": "string"}
  },
  "followUpQuestions": ["string"],
  "swot": {"strengths": ["string"], "weaknesses": ["string"], "opportunities": ["string"], "threats": ["string"]},
  "competitors": ["string"],
  "tamEstimate": "string, optional"
}`

const rankSchema = `{
  "topEntries": [{"itemId": "string", "rank": "integer starting at 1", "overallScore": "number 0-100", "reasoning": "string", "strengths": ["string"], "risks": ["string"]}],
  "allRankings": [{"itemId": "string", "rank": "integer 1-N, unique", "aggregateScore": "number 0-100", "breakdown": {"team": "number 0-5", "market": "number 0-5", "product": "number 0-5", "moat": "number 0-5", "financials": "number 0-5"}}],
  "narrative": "string, comparative insight and investment thesis"
}`

// BuildAnalyzePrompt creates the chat messages for a single-deal analysis request.
func BuildAnalyzePrompt(input llm.AnalyzeInput) []Message {
	deck := strings.TrimSpace(input.DeckText)
	if deck == "" {
		deck = "No pitch deck content was available. Assess from the company name alone and say so in the summary."
	}
	user := fmt.Sprintf("Startup: %s\n\nPitch deck content:\n%s\n\nReturn JSON matching this schema:\n%s",
		input.CompanyName, deck, analyzeSchema)
	return []Message{
		{Role: "system", Content: systemPromptAnalyze},
		{Role: "user", Content: user},
	}
}

// BuildRankPrompt creates the chat messages for a comparative-ranking request.
func BuildRankPrompt(input llm.RankInput) []Message {
	var b strings.Builder
	b.WriteString("Compare these analyzed startups and rank every one of them.\n\n")
	for i, cand := range input.Candidates {
		report, err := json.Marshal(cand.Report)
		if err != nil {
			report = []byte("{}")
		}
		fmt.Fprintf(&b, "Candidate %d (itemId=%s) %s:\n%s\n\n", i+1, cand.ID, cand.Name, report)
	}
	fmt.Fprintf(&b, "Return JSON matching this schema, with topEntries limited to the best 3:\n%s", rankSchema)
	return []Message{
		{Role: "system", Content: systemPromptRank},
		{Role: "user", Content: b.String()},
	}
}

func buildFixPrompt(raw []byte) []Message {
	return []Message{
		{Role: "system", Content: systemPromptFixJSON},
		{Role: "user", Content: fmt.Sprintf("Fix this JSON to match the schema exactly. Output JSON only:\n%s", string(raw))},
	}
}
