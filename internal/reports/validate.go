package reports

import (
	"encoding/json"
	"fmt"
	"strings"
)

var scoreDimensions = []string{"team", "market", "product", "moat"}

// normalizeResult validates the model output and returns it as a generic map
// suitable for JSONB storage. The payload must carry a non-empty summary and
// a score between 1 and 5 for every dimension.
func normalizeResult(raw json.RawMessage) (map[string]any, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("empty payload")
	}

	var result map[string]any
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("not a json object: %w", err)
	}

	summary, _ := result["summary"].(string)
	if strings.TrimSpace(summary) == "" {
		return nil, fmt.Errorf("missing summary")
	}

	scores, ok := result["scores"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("missing scores")
	}
	for _, dim := range scoreDimensions {
		entry, ok := scores[dim].(map[string]any)
		if !ok {
			return nil, fmt.Errorf("missing scores.%s", dim)
		}
		score, ok := entry["score"].(float64)
		if !ok {
			return nil, fmt.Errorf("scores.%s.score is not a number", dim)
		}
		if score < 1 || score > 5 || score != float64(int(score)) {
			return nil, fmt.Errorf("scores.%s.score out of range: %v", dim, score)
		}
	}

	return result, nil
}
