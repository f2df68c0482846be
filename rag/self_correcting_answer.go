package rag

import (
	"context"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/tangerg/ragengine/llm"
	"github.com/tangerg/ragengine/telemetry"
)

// SelfCorrectingAnswerOptions configures the answer/ground/retry loop of
// spec §4.7.
type SelfCorrectingAnswerOptions struct {
	MaxCorrections int // default 2
	Model          string
}

func (o SelfCorrectingAnswerOptions) maxCorrections() int {
	if o.MaxCorrections > 0 {
		return o.MaxCorrections
	}
	return 2
}

// SelfCorrectingAnswer generates an answer from retrieved chunks, checks it
// for grounding, and retries with feedback up to max_corrections times
// (spec §4.7).
type SelfCorrectingAnswer struct {
	LLM      llm.Provider
	Reporter telemetry.Reporter
}

func NewSelfCorrectingAnswer(provider llm.Provider, reporter telemetry.Reporter) *SelfCorrectingAnswer {
	if reporter == nil {
		reporter = telemetry.Silent{}
	}
	return &SelfCorrectingAnswer{LLM: provider, Reporter: reporter}
}

func (a *SelfCorrectingAnswer) Run(ctx context.Context, c Context, opts SelfCorrectingAnswerOptions) Context {
	span := telemetry.Start(ctx, a.Reporter, "rag.self_correct", "rag.self_correct.answer", map[string]any{})

	for {
		answer, err := a.generate(ctx, c, opts)
		if err != nil {
			span.Exception(err, map[string]any{"correction_count": c.CorrectionCount})
			return c.Halt(err)
		}
		c = c.WithAnswer(answer)

		verdict, err := a.checkGrounding(ctx, c, answer, opts)
		if err != nil {
			// fail-open: accept the answer rather than loop on a broken checker.
			span.Stop(map[string]any{"correction_count": c.CorrectionCount, "grounding_check_failed": true})
			return c
		}
		c = c.WithGroundingVerdict(verdict)

		if verdict.Grounded || c.CorrectionCount >= opts.maxCorrections() {
			span.Stop(map[string]any{"correction_count": c.CorrectionCount, "grounded": verdict.Grounded})
			return c
		}

		c = c.WithCorrection(Correction{Reason: verdict.Reason, Query: c.EffectiveQuery()})
	}
}

func (a *SelfCorrectingAnswer) generate(ctx context.Context, c Context, opts SelfCorrectingAnswerOptions) (string, error) {
	var b strings.Builder
	b.WriteString("Answer the question using only the context below.\n\nContext:\n")
	for _, r := range c.Results {
		b.WriteString("- " + r.Content + "\n")
	}
	b.WriteString("\nQuestion: " + c.Question)
	if len(c.Corrections) > 0 {
		last := c.Corrections[len(c.Corrections)-1]
		b.WriteString("\n\nYour previous answer was ungrounded: " + last.Reason + ". Answer again, citing only the context.")
	}

	resp, err := a.LLM.Complete(ctx, []llm.Message{{Role: llm.RoleUser, Content: b.String()}}, llm.Options{Model: opts.Model})
	if err != nil {
		return "", err
	}
	return resp.Content, nil
}

func (a *SelfCorrectingAnswer) checkGrounding(ctx context.Context, c Context, answer string, opts SelfCorrectingAnswerOptions) (GroundingVerdict, error) {
	var b strings.Builder
	b.WriteString("Context:\n")
	for _, r := range c.Results {
		b.WriteString("- " + r.Content + "\n")
	}
	b.WriteString("\nAnswer: " + answer)
	b.WriteString(`\n\nIs the answer fully supported by the context? Reply with only JSON: {"grounded": bool, "score": float, "reasoning": "..."}`)

	resp, err := a.LLM.Complete(ctx, []llm.Message{{Role: llm.RoleUser, Content: b.String()}}, llm.Options{Model: opts.Model})
	if err != nil {
		return GroundingVerdict{}, err
	}

	start := strings.IndexByte(resp.Content, '{')
	end := strings.LastIndexByte(resp.Content, '}')
	if start < 0 || end < 0 || end < start {
		return GroundingVerdict{}, errGroundingParse
	}
	obj := gjson.Parse(resp.Content[start : end+1])
	return GroundingVerdict{
		Grounded: obj.Get("grounded").Bool(),
		Score:    obj.Get("score").Float(),
		Reason:   obj.Get("reasoning").String(),
	}, nil
}
