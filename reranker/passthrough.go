package reranker

import "context"

// Passthrough is the identity Reranker: candidates pass through unchanged
// except for the TopN/Threshold filters, used when no scoring model is
// configured (spec §4.5).
type Passthrough struct{}

var _ Reranker = Passthrough{}

func (Passthrough) ModelName() string { return "passthrough" }

func (Passthrough) Rerank(_ context.Context, _ string, docs []Candidate, opts Options) ([]Result, error) {
	out := make([]Result, len(docs))
	for i, d := range docs {
		out[i] = Result{ID: d.ID, Content: d.Content, OriginalScore: d.OriginalScore, RerankScore: d.OriginalScore, Metadata: d.Metadata}
	}
	return applyFilter(out, opts), nil
}
