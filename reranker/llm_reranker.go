package reranker

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/tangerg/ragengine/llm"
	"github.com/tangerg/ragengine/telemetry"
)

// LLMReranker asks a chat model to score each candidate 1-10 for relevance
// to the query, then sorts and filters by that score (spec §4.5).
type LLMReranker struct {
	provider llm.Provider
	model    string
	reporter telemetry.Reporter
}

var _ Reranker = (*LLMReranker)(nil)

func NewLLM(provider llm.Provider, model string, reporter telemetry.Reporter) *LLMReranker {
	if reporter == nil {
		reporter = telemetry.Silent{}
	}
	return &LLMReranker{provider: provider, model: model, reporter: reporter}
}

func (r *LLMReranker) ModelName() string { return r.model }

func (r *LLMReranker) buildPrompt(query string, docs []Candidate) string {
	var b strings.Builder
	b.WriteString("Score each document's relevance to the query on a scale of 1-10.\n")
	b.WriteString("Respond with only a JSON array like [{\"index\":0,\"score\":7}], one entry per document, no prose.\n\n")
	fmt.Fprintf(&b, "Query: %s\n\n", query)
	for i, d := range docs {
		fmt.Fprintf(&b, "Document %d:\n%s\n\n", i, d.Content)
	}
	return b.String()
}

type scoreEntry struct {
	index int
	score float64
}

func parseScores(raw string, n int) ([]scoreEntry, error) {
	start := strings.IndexByte(raw, '[')
	end := strings.LastIndexByte(raw, ']')
	if start < 0 || end < 0 || end < start {
		return nil, fmt.Errorf("reranker: no JSON array found in model output")
	}
	arr := gjson.Parse(raw[start : end+1])
	if !arr.IsArray() {
		return nil, fmt.Errorf("reranker: model output is not a JSON array")
	}

	var out []scoreEntry
	var parseErr error
	arr.ForEach(func(_, entry gjson.Result) bool {
		idx := entry.Get("index")
		score := entry.Get("score")
		if !idx.Exists() || !score.Exists() {
			parseErr = fmt.Errorf("reranker: entry missing index/score")
			return false
		}
		i := int(idx.Int())
		if i < 0 || i >= n {
			parseErr = fmt.Errorf("reranker: index %d out of range", i)
			return false
		}
		out = append(out, scoreEntry{index: i, score: score.Float()})
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("reranker: no scored entries parsed")
	}
	return out, nil
}

// Rerank scores docs with the LLM and reorders them. On any LLM or parse
// failure it falls back to the original ordering unchanged, per spec §4.5
// ("reranking is skipped and the original ordering is preserved").
func (r *LLMReranker) Rerank(ctx context.Context, query string, docs []Candidate, opts Options) ([]Result, error) {
	span := telemetry.Start(ctx, r.reporter, "rag.rerank", "rag.rerank", map[string]any{"model": r.model, "n": len(docs)})

	if len(docs) == 0 {
		span.Stop(nil)
		return nil, nil
	}

	passthroughResult := func(reason string) []Result {
		span.Stop(map[string]any{"kept": "original", "reason": reason})
		out := make([]Result, len(docs))
		for i, d := range docs {
			out[i] = Result{ID: d.ID, Content: d.Content, OriginalScore: d.OriginalScore, RerankScore: d.OriginalScore, Metadata: d.Metadata}
		}
		return applyFilter(out, opts)
	}

	resp, err := r.provider.Complete(ctx, []llm.Message{
		{Role: llm.RoleUser, Content: r.buildPrompt(query, docs)},
	}, llm.Options{Model: r.model})
	if err != nil {
		return passthroughResult("llm_error"), nil
	}

	scores, err := parseScores(resp.Content, len(docs))
	if err != nil {
		return passthroughResult("parse_error"), nil
	}

	byIndex := make(map[int]float64, len(scores))
	for _, s := range scores {
		byIndex[s.index] = s.score
	}

	out := make([]Result, 0, len(docs))
	for i, d := range docs {
		score, ok := byIndex[i]
		if !ok {
			score = d.OriginalScore
		}
		out = append(out, Result{ID: d.ID, Content: d.Content, OriginalScore: d.OriginalScore, RerankScore: score, Metadata: d.Metadata})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].RerankScore > out[j].RerankScore })

	span.Stop(map[string]any{"kept": "reranked"})
	return applyFilter(out, opts), nil
}

func applyFilter(results []Result, opts Options) []Result {
	if opts.Threshold > 0 {
		filtered := results[:0:0]
		for _, r := range results {
			if r.RerankScore >= opts.Threshold {
				filtered = append(filtered, r)
			}
		}
		results = filtered
	}
	if opts.TopN > 0 && len(results) > opts.TopN {
		results = results[:opts.TopN]
	}
	return results
}
