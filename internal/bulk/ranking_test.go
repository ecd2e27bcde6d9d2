package bulk

import (
	"encoding/json"
	"fmt"
	"testing"
)

func reportWithScores(team, market, product, moat int) *Report {
	return &Report{
		Summary: "summary",
		Scores: ScoreSet{
			Team:    DimensionScore{Score: team, Reason: "r"},
			Market:  DimensionScore{Score: market, Reason: "r"},
			Product: DimensionScore{Score: product, Reason: "r"},
			Moat:    DimensionScore{Score: moat, Reason: "r"},
		},
	}
}

func TestFallbackRankingDeterminism(t *testing.T) {
	items := []Item{
		{ID: "item1", Name: "one", Status: StatusComplete, Report: reportWithScores(5, 5, 5, 5)},
		{ID: "item2", Name: "two", Status: StatusComplete, Report: reportWithScores(1, 1, 1, 1)},
		{ID: "item3", Name: "three", Status: StatusComplete, Report: reportWithScores(3, 3, 3, 3)},
	}

	result := FallbackRanking(items)

	wantRows := []struct {
		itemID    string
		rank      int
		aggregate float64
	}{
		{"item1", 1, 100},
		{"item3", 2, 60},
		{"item2", 3, 20},
	}
	if len(result.AllRankings) != len(wantRows) {
		t.Fatalf("allRankings = %d rows, want %d", len(result.AllRankings), len(wantRows))
	}
	for i, want := range wantRows {
		got := result.AllRankings[i]
		if got.ItemID != want.itemID || got.Rank != want.rank || got.AggregateScore != want.aggregate {
			t.Errorf("row %d = {%s rank=%d score=%v}, want {%s rank=%d score=%v}",
				i, got.ItemID, got.Rank, got.AggregateScore, want.itemID, want.rank, want.aggregate)
		}
		if got.Breakdown.Financials != 3 {
			t.Errorf("row %d financials = %v, want the default 3", i, got.Breakdown.Financials)
		}
	}

	if len(result.TopEntries) != 3 {
		t.Fatalf("topEntries = %d, want 3", len(result.TopEntries))
	}
	for i, want := range wantRows {
		entry := result.TopEntries[i]
		if entry.ItemID != want.itemID || entry.Rank != want.rank || entry.OverallScore != want.aggregate {
			t.Errorf("top %d = {%s rank=%d score=%v}, want {%s rank=%d score=%v}",
				i, entry.ItemID, entry.Rank, entry.OverallScore, want.itemID, want.rank, want.aggregate)
		}
		if entry.Reasoning != fmt.Sprintf("Ranked #%d based on overall DD scores", want.rank) {
			t.Errorf("top %d reasoning = %q", i, entry.Reasoning)
		}
	}
}

func TestFallbackRankingStableTieBreak(t *testing.T) {
	items := []Item{
		{ID: "a", Status: StatusComplete, Report: reportWithScores(3, 3, 3, 3)},
		{ID: "b", Status: StatusComplete, Report: reportWithScores(3, 3, 3, 3)},
		{ID: "c", Status: StatusComplete, Report: reportWithScores(4, 4, 4, 4)},
	}

	result := FallbackRanking(items)

	gotOrder := []string{result.AllRankings[0].ItemID, result.AllRankings[1].ItemID, result.AllRankings[2].ItemID}
	if gotOrder[0] != "c" || gotOrder[1] != "a" || gotOrder[2] != "b" {
		t.Fatalf("order = %v, ties must keep intake order", gotOrder)
	}
}

func TestFallbackRankingFewerThanThree(t *testing.T) {
	items := []Item{
		{ID: "a", Status: StatusComplete, Report: reportWithScores(4, 4, 4, 4)},
		{ID: "b", Status: StatusComplete, Report: reportWithScores(2, 2, 2, 2)},
	}

	result := FallbackRanking(items)
	if len(result.TopEntries) != 2 {
		t.Fatalf("topEntries = %d, want 2 when only 2 items completed", len(result.TopEntries))
	}
}

func primaryRankingJSON() json.RawMessage {
	return json.RawMessage(`{
		"topEntries":[
			{"itemId":"a","rank":1,"overallScore":92,"reasoning":"Strongest team and market","strengths":["team"],"risks":["competition"]},
			{"itemId":"b","rank":2,"overallScore":75,"reasoning":"Good product","strengths":["product"],"risks":["gtm"]}
		],
		"allRankings":[
			{"itemId":"a","rank":1,"aggregateScore":92,"breakdown":{"team":5,"market":5,"product":4,"moat":4,"financials":4}},
			{"itemId":"b","rank":2,"aggregateScore":75,"breakdown":{"team":4,"market":4,"product":4,"moat":3,"financials":3}}
		],
		"narrative":"Company a leads on team strength."
	}`)
}

func TestParseRankingResult(t *testing.T) {
	result, err := ParseRankingResult(primaryRankingJSON(), []string{"a", "b"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.AllRankings[0].ItemID != "a" || result.AllRankings[1].ItemID != "b" {
		t.Fatalf("rows = %+v", result.AllRankings)
	}
	if result.TopEntries[0].Rank != 1 {
		t.Fatalf("topEntries[0].rank = %d", result.TopEntries[0].Rank)
	}
}

func TestParseRankingResultRejectsBadPayloads(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"not json", `not json`},
		{"missing item", `{"topEntries":[{"itemId":"a","rank":1}],"allRankings":[{"itemId":"a","rank":1}],"narrative":"n"}`},
		{"duplicate rank", `{"topEntries":[{"itemId":"a","rank":1}],"allRankings":[{"itemId":"a","rank":1},{"itemId":"b","rank":1}],"narrative":"n"}`},
		{"unknown item", `{"topEntries":[{"itemId":"a","rank":1}],"allRankings":[{"itemId":"a","rank":1},{"itemId":"zz","rank":2}],"narrative":"n"}`},
		{"empty top entries", `{"topEntries":[],"allRankings":[{"itemId":"a","rank":1},{"itemId":"b","rank":2}],"narrative":"n"}`},
		{"missing narrative", `{"topEntries":[{"itemId":"a","rank":1}],"allRankings":[{"itemId":"a","rank":1},{"itemId":"b","rank":2}]}`},
		{"top entry not ranking head", `{"topEntries":[{"itemId":"b","rank":1},{"itemId":"a","rank":2}],"allRankings":[{"itemId":"a","rank":1},{"itemId":"b","rank":2}],"narrative":"n"}`},
		{"top entry rank gap", `{"topEntries":[{"itemId":"b","rank":2}],"allRankings":[{"itemId":"a","rank":1},{"itemId":"b","rank":2}],"narrative":"n"}`},
		{"truncated top entries", `{"topEntries":[{"itemId":"a","rank":1}],"allRankings":[{"itemId":"a","rank":1},{"itemId":"b","rank":2}],"narrative":"n"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ParseRankingResult(json.RawMessage(tc.raw), []string{"a", "b"}); err == nil {
				t.Fatal("want error")
			}
		})
	}
}

// The fallback must expose the same structural shape as the primary path so
// the UI consumes one contract.
func TestFallbackMatchesPrimaryShape(t *testing.T) {
	primary, err := ParseRankingResult(primaryRankingJSON(), []string{"a", "b"})
	if err != nil {
		t.Fatalf("primary parse: %v", err)
	}
	fallback := FallbackRanking([]Item{
		{ID: "a", Status: StatusComplete, Report: reportWithScores(5, 5, 4, 4)},
		{ID: "b", Status: StatusComplete, Report: reportWithScores(4, 4, 4, 3)},
	})

	keys := func(result *RankingResult) map[string]bool {
		data, err := json.Marshal(result)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		var top map[string]json.RawMessage
		if err := json.Unmarshal(data, &top); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		var rows []map[string]json.RawMessage
		if err := json.Unmarshal(top["allRankings"], &rows); err != nil {
			t.Fatalf("allRankings: %v", err)
		}
		var entries []map[string]json.RawMessage
		if err := json.Unmarshal(top["topEntries"], &entries); err != nil {
			t.Fatalf("topEntries: %v", err)
		}
		out := map[string]bool{}
		for k := range top {
			out["."+k] = true
		}
		for k := range rows[0] {
			out["allRankings."+k] = true
		}
		for k := range entries[0] {
			out["topEntries."+k] = true
		}
		return out
	}

	primaryKeys := keys(primary)
	fallbackKeys := keys(fallback)
	for k := range primaryKeys {
		if !fallbackKeys[k] {
			t.Errorf("fallback missing key %s", k)
		}
	}
	for k := range fallbackKeys {
		if !primaryKeys[k] {
			t.Errorf("primary missing key %s", k)
		}
	}
}
