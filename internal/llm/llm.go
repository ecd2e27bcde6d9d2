package llm

import (
	"context"
	"encoding/json"
	"errors"
)

// Client abstracts LLM providers for deal analysis and comparative ranking.
type Client interface {
	AnalyzeDeal(ctx context.Context, input AnalyzeInput) (json.RawMessage, error)
	RankDeals(ctx context.Context, input RankInput) (json.RawMessage, error)
}

// AnalyzeInput captures the inputs needed for a single-deal diligence analysis.
type AnalyzeInput struct {
	CompanyName   string
	DeckText      string
	ReportVersion string
}

// RankCandidate is one analyzed deal submitted for comparative ranking.
type RankCandidate struct {
	ID     string          `json:"id"`
	Name   string          `json:"name"`
	Report json.RawMessage `json:"report"`
}

// RankInput captures the inputs for the comparative-ranking call.
type RankInput struct {
	Candidates []RankCandidate
}

type fixJSONKey struct{}

// WithFixJSON returns a context signaling a fix-JSON retry with the given raw output.
func WithFixJSON(ctx context.Context, raw string) context.Context {
	return context.WithValue(ctx, fixJSONKey{}, raw)
}

// FixJSONFromContext returns the raw JSON to repair, if any.
func FixJSONFromContext(ctx context.Context) (string, bool) {
	val := ctx.Value(fixJSONKey{})
	raw, ok := val.(string)
	return raw, ok
}

type promptHashSinkKey struct{}

// WithPromptHashCapture returns a context that asks the provider to record the
// hash of the prompt it actually sent into sink.
func WithPromptHashCapture(ctx context.Context, sink *string) context.Context {
	return context.WithValue(ctx, promptHashSinkKey{}, sink)
}

// PromptHashSinkFromContext returns the prompt hash sink, if any.
func PromptHashSinkFromContext(ctx context.Context) (*string, bool) {
	sink, ok := ctx.Value(promptHashSinkKey{}).(*string)
	return sink, ok
}

// ErrNotImplemented is returned by the placeholder client.
var ErrNotImplemented = errors.New("LLM not implemented")

// PlaceholderClient is a stub implementation until provider wiring is added.
type PlaceholderClient struct{}

// AnalyzeDeal returns ErrNotImplemented.
func (PlaceholderClient) AnalyzeDeal(ctx context.Context, input AnalyzeInput) (json.RawMessage, error) {
	_ = ctx
	_ = input
	return nil, ErrNotImplemented
}

// RankDeals returns ErrNotImplemented.
func (PlaceholderClient) RankDeals(ctx context.Context, input RankInput) (json.RawMessage, error) {
	_ = ctx
	_ = input
	return nil, ErrNotImplemented
}
