// Package reranker defines the Reranker capability contract of spec §6: an
// LLM-scored reordering and filtering of retrieved candidates, and an
// identity passthrough for when no model is configured.
package reranker

import "context"

// Candidate is one document considered for reranking.
type Candidate struct {
	ID            string
	Content       string
	OriginalScore float64
	Metadata      map[string]any
}

// Result is a Candidate annotated with its rerank score.
type Result struct {
	ID            string
	Content       string
	OriginalScore float64
	RerankScore   float64
	Metadata      map[string]any
}

// Options configures one Rerank call.
type Options struct {
	TopN      int     // 0 means "no limit"
	Threshold float64 // results scoring below this are dropped; 0 disables
}

// Reranker is the Reranker capability contract (spec §6, §4.5).
type Reranker interface {
	Rerank(ctx context.Context, query string, docs []Candidate, opts Options) ([]Result, error)
	ModelName() string
}
