package bulk

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// rankable is the minimum number of completed items for a comparative ranking.
const rankable = 2

// fallbackFinancialsScore is the placeholder value for the financials
// dimension when no comparative signal is available.
const fallbackFinancialsScore = 3

// TopEntry is one of the up-to-three highlighted recommendations.
type TopEntry struct {
	ItemID       string   `json:"itemId"`
	Rank         int      `json:"rank"`
	OverallScore float64  `json:"overallScore"`
	Reasoning    string   `json:"reasoning"`
	Strengths    []string `json:"strengths"`
	Risks        []string `json:"risks"`
}

// ScoreBreakdown is the per-dimension comparison for one ranked item.
type ScoreBreakdown struct {
	Team       float64 `json:"team"`
	Market     float64 `json:"market"`
	Product    float64 `json:"product"`
	Moat       float64 `json:"moat"`
	Financials float64 `json:"financials"`
}

// RankingRow is one entry in the full ranking table.
type RankingRow struct {
	ItemID         string         `json:"itemId"`
	Rank           int            `json:"rank"`
	AggregateScore float64        `json:"aggregateScore"`
	Breakdown      ScoreBreakdown `json:"breakdown"`
}

// RankingResult is the comparative output of a bulk session. The fallback
// path produces the exact same shape as the AI path.
type RankingResult struct {
	TopEntries  []TopEntry   `json:"topEntries"`
	AllRankings []RankingRow `json:"allRankings"`
	Narrative   string       `json:"narrative"`
}

func (r *RankingResult) clone() *RankingResult {
	if r == nil {
		return nil
	}
	out := &RankingResult{
		TopEntries:  make([]TopEntry, len(r.TopEntries)),
		AllRankings: append([]RankingRow(nil), r.AllRankings...),
		Narrative:   r.Narrative,
	}
	for i, entry := range r.TopEntries {
		entryCopy := entry
		entryCopy.Strengths = append([]string(nil), entry.Strengths...)
		entryCopy.Risks = append([]string(nil), entry.Risks...)
		out.TopEntries[i] = entryCopy
	}
	return out
}

// ParseRankingResult decodes and validates an LLM ranking payload against the
// set of completed item IDs. Any structural gap is an error so the caller can
// fall back to the deterministic ranking.
func ParseRankingResult(raw json.RawMessage, itemIDs []string) (*RankingResult, error) {
	var result RankingResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("ranking output parse: %w", err)
	}

	if len(result.AllRankings) != len(itemIDs) {
		return nil, fmt.Errorf("ranking output invalid: %d rankings for %d items", len(result.AllRankings), len(itemIDs))
	}
	known := make(map[string]struct{}, len(itemIDs))
	for _, id := range itemIDs {
		known[id] = struct{}{}
	}
	seenRanks := make(map[int]struct{}, len(result.AllRankings))
	for _, row := range result.AllRankings {
		if _, ok := known[row.ItemID]; !ok {
			return nil, fmt.Errorf("ranking output invalid: unknown item %q", row.ItemID)
		}
		if row.Rank < 1 || row.Rank > len(itemIDs) {
			return nil, fmt.Errorf("ranking output invalid: rank %d out of range", row.Rank)
		}
		if _, dup := seenRanks[row.Rank]; dup {
			return nil, fmt.Errorf("ranking output invalid: duplicate rank %d", row.Rank)
		}
		seenRanks[row.Rank] = struct{}{}
		delete(known, row.ItemID)
	}
	if len(result.TopEntries) == 0 || len(result.TopEntries) > 3 {
		return nil, fmt.Errorf("ranking output invalid: %d top entries", len(result.TopEntries))
	}
	if strings.TrimSpace(result.Narrative) == "" {
		return nil, fmt.Errorf("ranking output invalid: narrative is required")
	}

	sort.Slice(result.AllRankings, func(i, j int) bool {
		return result.AllRankings[i].Rank < result.AllRankings[j].Rank
	})
	sort.Slice(result.TopEntries, func(i, j int) bool {
		return result.TopEntries[i].Rank < result.TopEntries[j].Rank
	})

	// Top entries must be the head of the full ranking table.
	wantTop := len(result.AllRankings)
	if wantTop > 3 {
		wantTop = 3
	}
	if len(result.TopEntries) != wantTop {
		return nil, fmt.Errorf("ranking output invalid: %d top entries for %d rankings", len(result.TopEntries), len(result.AllRankings))
	}
	for i, entry := range result.TopEntries {
		if entry.Rank != i+1 {
			return nil, fmt.Errorf("ranking output invalid: top entry rank %d at position %d", entry.Rank, i+1)
		}
		if entry.ItemID != result.AllRankings[i].ItemID {
			return nil, fmt.Errorf("ranking output invalid: top entry %q does not match rank %d item %q", entry.ItemID, i+1, result.AllRankings[i].ItemID)
		}
	}
	return &result, nil
}

// FallbackRanking computes the deterministic local ranking from completed
// items, in intake order. Aggregate is the four core dimension scores summed
// and scaled to 0-100; ties keep intake order.
func FallbackRanking(completed []Item) *RankingResult {
	type scored struct {
		item      Item
		aggregate float64
	}

	entries := make([]scored, 0, len(completed))
	for _, it := range completed {
		if it.Report == nil {
			continue
		}
		scores := it.Report.Scores
		sum := scores.Team.Score + scores.Market.Score + scores.Product.Score + scores.Moat.Score
		entries = append(entries, scored{item: it, aggregate: float64(sum * 5)})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].aggregate > entries[j].aggregate
	})

	result := &RankingResult{
		Narrative: "Comparative AI ranking was unavailable. Rankings were computed locally from each startup's due diligence scores.",
	}
	for i, entry := range entries {
		rank := i + 1
		scores := entry.item.Report.Scores
		result.AllRankings = append(result.AllRankings, RankingRow{
			ItemID:         entry.item.ID,
			Rank:           rank,
			AggregateScore: entry.aggregate,
			Breakdown: ScoreBreakdown{
				Team:       float64(scores.Team.Score),
				Market:     float64(scores.Market.Score),
				Product:    float64(scores.Product.Score),
				Moat:       float64(scores.Moat.Score),
				Financials: fallbackFinancialsScore,
			},
		})
		if rank <= 3 {
			result.TopEntries = append(result.TopEntries, TopEntry{
				ItemID:       entry.item.ID,
				Rank:         rank,
				OverallScore: entry.aggregate,
				Reasoning:    fmt.Sprintf("Ranked #%d based on overall DD scores", rank),
				Strengths:    []string{"Strong aggregate due diligence scores"},
				Risks:        []string{"No comparative AI assessment available"},
			})
		}
	}
	return result
}
