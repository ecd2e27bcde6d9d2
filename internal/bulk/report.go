package bulk

import (
	"encoding/json"
	"fmt"
	"strings"
)

// DimensionScore is one scored diligence dimension.
type DimensionScore struct {
	Score  int    `json:"score"`
	Reason string `json:"reason"`
}

// ScoreSet holds the four core diligence dimensions.
type ScoreSet struct {
	Team    DimensionScore `json:"team"`
	Market  DimensionScore `json:"market"`
	Product DimensionScore `json:"product"`
	Moat    DimensionScore `json:"moat"`
}

// SWOT is the optional extended strengths/weaknesses section.
type SWOT struct {
	Strengths     []string `json:"strengths"`
	Weaknesses    []string `json:"weaknesses"`
	Opportunities []string `json:"opportunities"`
	Threats       []string `json:"threats"`
}

// Report is the structured due-diligence result for one item.
type Report struct {
	Summary           string   `json:"summary"`
	Scores            ScoreSet `json:"scores"`
	FollowUpQuestions []string `json:"followUpQuestions"`
	SWOT              *SWOT    `json:"swot,omitempty"`
	Competitors       []string `json:"competitors,omitempty"`
	TAMEstimate       string   `json:"tamEstimate,omitempty"`
}

// ParseReport decodes and validates an LLM analysis payload.
func ParseReport(raw json.RawMessage) (*Report, error) {
	var report Report
	if err := json.Unmarshal(raw, &report); err != nil {
		return nil, fmt.Errorf("analysis output parse: %w", err)
	}
	if strings.TrimSpace(report.Summary) == "" {
		return nil, fmt.Errorf("analysis output invalid: summary is required")
	}
	dims := map[string]DimensionScore{
		"team":    report.Scores.Team,
		"market":  report.Scores.Market,
		"product": report.Scores.Product,
		"moat":    report.Scores.Moat,
	}
	for name, dim := range dims {
		if dim.Score < 1 || dim.Score > 5 {
			return nil, fmt.Errorf("analysis output invalid: %s score %d out of range", name, dim.Score)
		}
	}
	return &report, nil
}
