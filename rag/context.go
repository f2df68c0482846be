// Package rag implements the retrieval orchestration layer of spec §1: the
// Pipeline Context, Query Processor, Retriever Composer, Reranker
// integration, Self-Correcting Search and Self-Correcting Answer.
package rag

import (
	"github.com/tangerg/ragengine/adapter"
)

// Source identifies which retriever produced a Result (spec §3).
type Source string

const (
	SourceVector      Source = "vector"
	SourceFulltext    Source = "fulltext"
	SourceHybrid      Source = "hybrid"
	SourceGraphLocal  Source = "graph_local"
	SourceGraphGlobal Source = "graph_global"
)

// Result is one ranked retrieval hit (spec §3's Retrieval Result). Score is
// normalized to [0,1] with higher meaning more relevant.
type Result struct {
	ID       string
	Content  string
	Score    float64
	Metadata map[string]any
	Source   Source
}

// Correction is one entry in a self-correcting loop's history (spec §4.7).
type Correction struct {
	Reason string
	Query  string
}

// GroundingVerdict is the outcome of checking an answer against its
// supporting chunks (spec §4.7).
type GroundingVerdict struct {
	Grounded bool
	Score    float64
	Reason   string
}

// Context is the immutable Pipeline Context of spec §3, §4.2. Every stage
// takes one Context and returns a new one; nothing here is mutated in
// place. Zero value is a usable empty context for Question == "".
type Context struct {
	Question       string
	RewrittenQuery *string
	ExpandedQuery  *string
	SubQuestions   []string
	IsComplex      bool

	Results      []Result
	RerankScores map[string]float64

	Answer           *string
	GroundingVerdict *GroundingVerdict
	CorrectionCount  int
	Corrections      []Correction

	Halted bool
	Err    error

	Adapters *adapter.Registry
	Opts     map[string]any
}

// New starts a fresh Context for a question.
func New(question string, adapters *adapter.Registry) Context {
	return Context{Question: question, Adapters: adapters}
}

// EffectiveQuery returns expanded_query ?? rewritten_query ?? question, per
// spec §4.2.
func (c Context) EffectiveQuery() string {
	if c.ExpandedQuery != nil && *c.ExpandedQuery != "" {
		return *c.ExpandedQuery
	}
	if c.RewrittenQuery != nil && *c.RewrittenQuery != "" {
		return *c.RewrittenQuery
	}
	return c.Question
}

// Halt returns a copy of c marked halted with err recorded. A halted
// Context short-circuits every subsequent stage (spec §4.2).
func (c Context) Halt(err error) Context {
	next := c
	next.Halted = true
	next.Err = err
	return next
}

// WithRewrittenQuery returns a copy of c with RewrittenQuery set.
func (c Context) WithRewrittenQuery(q string) Context {
	next := c
	next.RewrittenQuery = &q
	return next
}

// WithExpandedQuery returns a copy of c with ExpandedQuery set.
func (c Context) WithExpandedQuery(q string) Context {
	next := c
	next.ExpandedQuery = &q
	return next
}

// WithSubQuestions returns a copy of c with SubQuestions and IsComplex set
// (spec §4.3: "Complexity = len(sub_questions) > 1").
func (c Context) WithSubQuestions(qs []string) Context {
	next := c
	next.SubQuestions = qs
	next.IsComplex = len(qs) > 1
	return next
}

// WithResults returns a copy of c with its retrieval results replaced.
func (c Context) WithResults(results []Result) Context {
	next := c
	next.Results = results
	return next
}

// WithAnswer returns a copy of c with Answer set.
func (c Context) WithAnswer(answer string) Context {
	next := c
	next.Answer = &answer
	return next
}

// WithGroundingVerdict returns a copy of c with GroundingVerdict set.
func (c Context) WithGroundingVerdict(v GroundingVerdict) Context {
	next := c
	next.GroundingVerdict = &v
	return next
}

// WithCorrection returns a copy of c with one more correction recorded and
// CorrectionCount incremented (spec §4.7).
func (c Context) WithCorrection(corr Correction) Context {
	next := c
	next.CorrectionCount = c.CorrectionCount + 1
	next.Corrections = append(append([]Correction{}, c.Corrections...), corr)
	return next
}
