package rag

import (
	"context"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/tangerg/ragengine/llm"
	"github.com/tangerg/ragengine/telemetry"
)

// QueryProcessorOptions configures which stages run and how.
type QueryProcessorOptions struct {
	Skip  map[string]bool // stage names "rewrite", "expand", "decompose" to disable
	Model string
}

func (o QueryProcessorOptions) skips(stage string) bool {
	return o.Skip != nil && o.Skip[stage]
}

// QueryProcessor runs the rewrite -> expand -> decompose stages of spec
// §4.3. Each stage is advisory: a failure is logged via telemetry and the
// Context returns unchanged, never halted.
type QueryProcessor struct {
	LLM      llm.Provider
	Reporter telemetry.Reporter
}

func NewQueryProcessor(provider llm.Provider, reporter telemetry.Reporter) *QueryProcessor {
	if reporter == nil {
		reporter = telemetry.Silent{}
	}
	return &QueryProcessor{LLM: provider, Reporter: reporter}
}

// Process runs every non-skipped stage in order: rewrite, expand, decompose.
func (p *QueryProcessor) Process(ctx context.Context, c Context, opts QueryProcessorOptions) Context {
	if c.Halted {
		return c
	}
	if !opts.skips("rewrite") {
		c = p.Rewrite(ctx, c, opts)
	}
	if c.Halted {
		return c
	}
	if !opts.skips("expand") {
		c = p.Expand(ctx, c, opts)
	}
	if c.Halted {
		return c
	}
	if !opts.skips("decompose") {
		c = p.Decompose(ctx, c, opts)
	}
	return c
}

// Rewrite turns conversational input into a single-line search query
// (spec §4.3). On failure it leaves RewrittenQuery unset and does not halt.
func (p *QueryProcessor) Rewrite(ctx context.Context, c Context, opts QueryProcessorOptions) Context {
	span := telemetry.Start(ctx, p.Reporter, "rag.step", "rag.query.rewrite", map[string]any{})
	resp, err := p.LLM.Complete(ctx, []llm.Message{
		{Role: llm.RoleSystem, Content: "Rewrite the user's input as a single-line search query. Reply with only the query."},
		{Role: llm.RoleUser, Content: c.Question},
	}, llm.Options{Model: opts.Model})
	if err != nil {
		span.Exception(err, nil)
		return c
	}
	span.Stop(nil)
	return c.WithRewrittenQuery(strings.TrimSpace(firstLine(resp.Content)))
}

// Expand adds synonyms and adjacent terms to improve recall (spec §4.3).
func (p *QueryProcessor) Expand(ctx context.Context, c Context, opts QueryProcessorOptions) Context {
	span := telemetry.Start(ctx, p.Reporter, "rag.step", "rag.query.expand", map[string]any{})
	base := c.Question
	if c.RewrittenQuery != nil && *c.RewrittenQuery != "" {
		base = *c.RewrittenQuery
	}
	resp, err := p.LLM.Complete(ctx, []llm.Message{
		{Role: llm.RoleSystem, Content: "Expand the query with synonyms and closely related terms to improve search recall. Reply with only the expanded query."},
		{Role: llm.RoleUser, Content: base},
	}, llm.Options{Model: opts.Model})
	if err != nil {
		span.Exception(err, nil)
		return c
	}
	span.Stop(nil)
	return c.WithExpandedQuery(strings.TrimSpace(firstLine(resp.Content)))
}

// Decompose asks the model for a JSON {sub_questions: [...]} and falls back
// to a single-element list containing the original question on parse
// failure or an empty array (spec §4.3).
func (p *QueryProcessor) Decompose(ctx context.Context, c Context, opts QueryProcessorOptions) Context {
	span := telemetry.Start(ctx, p.Reporter, "rag.step", "rag.query.decompose", map[string]any{})
	resp, err := p.LLM.Complete(ctx, []llm.Message{
		{Role: llm.RoleSystem, Content: `Break the question into independent sub-questions if it has multiple parts. Reply with only JSON: {"sub_questions": ["..."]}`},
		{Role: llm.RoleUser, Content: c.Question},
	}, llm.Options{Model: opts.Model})
	if err != nil {
		span.Exception(err, nil)
		return c
	}

	subs := parseSubQuestions(resp.Content)
	if len(subs) == 0 {
		span.Stop(map[string]any{"fallback": true})
		return c.WithSubQuestions([]string{c.Question})
	}
	span.Stop(map[string]any{"count": len(subs)})
	return c.WithSubQuestions(subs)
}

// parseSubQuestions accepts either the "sub_questions" or "questions" key,
// per spec §4.3's "A parse succeeds if any of the keys sub_questions,
// questions yields a non-empty array."
func parseSubQuestions(raw string) []string {
	start := strings.IndexByte(raw, '{')
	end := strings.LastIndexByte(raw, '}')
	if start < 0 || end < 0 || end < start {
		return nil
	}
	obj := gjson.Parse(raw[start : end+1])

	for _, key := range []string{"sub_questions", "questions"} {
		arr := obj.Get(key)
		if !arr.IsArray() {
			continue
		}
		var out []string
		arr.ForEach(func(_, v gjson.Result) bool {
			s := strings.TrimSpace(v.String())
			if s != "" {
				out = append(out, s)
			}
			return true
		})
		if len(out) > 0 {
			return out
		}
	}
	return nil
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
