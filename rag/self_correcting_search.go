package rag

import (
	"context"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/tangerg/ragengine/llm"
	"github.com/tangerg/ragengine/telemetry"
)

// SearchFunc runs one retrieval pass for a query, used by SelfCorrectingSearch
// so it stays decoupled from any one Composer configuration.
type SearchFunc func(ctx context.Context, query string, opts RetrieveOptions) ([]Result, error)

// SelfCorrectingSearchOptions configures the iterative loop of spec §4.6.
type SelfCorrectingSearchOptions struct {
	MaxIterations int // default 3
	MinResults    int
	Model         string
	RetrieveOpts  RetrieveOptions
}

func (o SelfCorrectingSearchOptions) maxIterations() int {
	if o.MaxIterations > 0 {
		return o.MaxIterations
	}
	return 3
}

type sufficiencyVerdict struct {
	Sufficient bool
	Reasoning  string
}

// SelfCorrectingSearch drives the bounded retry loop of spec §4.6: search,
// rewrite-on-empty, LLM sufficiency check, improve-on-insufficient.
type SelfCorrectingSearch struct {
	LLM      llm.Provider
	Reporter telemetry.Reporter
}

func NewSelfCorrectingSearch(provider llm.Provider, reporter telemetry.Reporter) *SelfCorrectingSearch {
	if reporter == nil {
		reporter = telemetry.Silent{}
	}
	return &SelfCorrectingSearch{LLM: provider, Reporter: reporter}
}

// Run iterates search_fn up to max_iterations (spec §4.6). The loop always
// terminates: a search_fn error halts the Context; a sufficiency-check LLM
// error fails open (treated as sufficient, keeping current results).
func (s *SelfCorrectingSearch) Run(ctx context.Context, c Context, search SearchFunc, opts SelfCorrectingSearchOptions) Context {
	span := telemetry.Start(ctx, s.Reporter, "rag.self_correct", "rag.self_correct.search", map[string]any{})

	for i := 0; i < opts.maxIterations(); i++ {
		results, err := search(ctx, c.EffectiveQuery(), opts.RetrieveOpts)
		if err != nil {
			span.Exception(err, map[string]any{"iteration": i})
			return c.Halt(err)
		}

		if len(results) == 0 && opts.MinResults > 0 {
			c = s.rewriteOnEmpty(ctx, c, opts)
			continue
		}

		c = c.WithResults(results)

		verdict, err := s.evaluateSufficiency(ctx, c.Question, results, opts)
		if err != nil {
			// fail-open: spec §4.6 "If the sufficiency LLM errors, assume
			// sufficient and keep current results."
			span.Stop(map[string]any{"iteration": i, "fail_open": true})
			return c
		}
		if verdict.Sufficient {
			span.Stop(map[string]any{"iteration": i, "sufficient": true})
			return c
		}

		c = s.improveQuery(ctx, c, verdict.Reasoning, opts)
	}

	span.Stop(map[string]any{"iteration": opts.maxIterations(), "exhausted": true})
	return c
}

func (s *SelfCorrectingSearch) rewriteOnEmpty(ctx context.Context, c Context, opts SelfCorrectingSearchOptions) Context {
	resp, err := s.LLM.Complete(ctx, []llm.Message{
		{Role: llm.RoleSystem, Content: "The previous search returned no results. Rewrite the query to be more likely to match. Reply with only the query."},
		{Role: llm.RoleUser, Content: c.EffectiveQuery()},
	}, llm.Options{Model: opts.Model})
	if err != nil {
		return c
	}
	return c.WithRewrittenQuery(strings.TrimSpace(firstLine(resp.Content)))
}

func (s *SelfCorrectingSearch) evaluateSufficiency(ctx context.Context, question string, results []Result, opts SelfCorrectingSearchOptions) (sufficiencyVerdict, error) {
	var b strings.Builder
	b.WriteString("Question: " + question + "\n\nRetrieved results:\n")
	for _, r := range results {
		b.WriteString("- " + r.Content + "\n")
	}
	b.WriteString(`\nReply with only JSON: {"sufficient": bool, "reasoning": "..."}`)

	resp, err := s.LLM.Complete(ctx, []llm.Message{
		{Role: llm.RoleUser, Content: b.String()},
	}, llm.Options{Model: opts.Model})
	if err != nil {
		return sufficiencyVerdict{}, err
	}

	start := strings.IndexByte(resp.Content, '{')
	end := strings.LastIndexByte(resp.Content, '}')
	if start < 0 || end < 0 || end < start {
		return sufficiencyVerdict{}, errSufficiencyParse
	}
	obj := gjson.Parse(resp.Content[start : end+1])
	return sufficiencyVerdict{
		Sufficient: obj.Get("sufficient").Bool(),
		Reasoning:  obj.Get("reasoning").String(),
	}, nil
}

func (s *SelfCorrectingSearch) improveQuery(ctx context.Context, c Context, feedback string, opts SelfCorrectingSearchOptions) Context {
	resp, err := s.LLM.Complete(ctx, []llm.Message{
		{Role: llm.RoleSystem, Content: "Improve the search query given this feedback about why the current results are insufficient. Reply with only the query."},
		{Role: llm.RoleUser, Content: "Query: " + c.EffectiveQuery() + "\nFeedback: " + feedback},
	}, llm.Options{Model: opts.Model})
	next := c.WithCorrection(Correction{Reason: feedback, Query: c.EffectiveQuery()})
	if err != nil {
		return next
	}
	return next.WithRewrittenQuery(strings.TrimSpace(firstLine(resp.Content)))
}
