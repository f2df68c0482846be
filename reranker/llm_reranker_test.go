package reranker

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tangerg/ragengine/llm"
)

type fakeProvider struct {
	content string
	err     error
}

func (f *fakeProvider) Complete(context.Context, []llm.Message, llm.Options) (llm.Result, error) {
	if f.err != nil {
		return llm.Result{}, f.err
	}
	return llm.Result{Content: f.content}, nil
}

func (f *fakeProvider) Stream(context.Context, []llm.Message, llm.Options) (<-chan llm.Chunk, <-chan error) {
	panic("not used")
}

func docs() []Candidate {
	return []Candidate{
		{ID: "a", Content: "about cats", OriginalScore: 0.5},
		{ID: "b", Content: "about dogs", OriginalScore: 0.4},
		{ID: "c", Content: "about fish", OriginalScore: 0.3},
	}
}

func TestLLMRerankerSortsByScore(t *testing.T) {
	p := &fakeProvider{content: `[{"index":0,"score":3},{"index":1,"score":9},{"index":2,"score":5}]`}
	r := NewLLM(p, "gpt-4o-mini", nil)

	out, err := r.Rerank(context.Background(), "pets", docs(), Options{})
	require.NoError(t, err)
	require.Len(t, out, 3)
	assert.Equal(t, "b", out[0].ID)
	assert.Equal(t, "c", out[1].ID)
	assert.Equal(t, "a", out[2].ID)
}

func TestLLMRerankerAppliesTopNAndThreshold(t *testing.T) {
	p := &fakeProvider{content: `[{"index":0,"score":3},{"index":1,"score":9},{"index":2,"score":5}]`}
	r := NewLLM(p, "gpt-4o-mini", nil)

	out, err := r.Rerank(context.Background(), "pets", docs(), Options{TopN: 2, Threshold: 4})
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "b", out[0].ID)
	assert.Equal(t, "c", out[1].ID)
}

func TestLLMRerankerFailsOpenOnLLMError(t *testing.T) {
	p := &fakeProvider{err: errors.New("boom")}
	r := NewLLM(p, "gpt-4o-mini", nil)

	out, err := r.Rerank(context.Background(), "pets", docs(), Options{})
	require.NoError(t, err)
	require.Len(t, out, 3)
	assert.Equal(t, "a", out[0].ID)
	assert.Equal(t, "b", out[1].ID)
	assert.Equal(t, "c", out[2].ID)
}

func TestLLMRerankerFailsOpenOnUnparsableOutput(t *testing.T) {
	p := &fakeProvider{content: "not json at all"}
	r := NewLLM(p, "gpt-4o-mini", nil)

	out, err := r.Rerank(context.Background(), "pets", docs(), Options{})
	require.NoError(t, err)
	require.Len(t, out, 3)
	assert.Equal(t, "a", out[0].ID)
}

func TestPassthroughRerankerIsIdentity(t *testing.T) {
	r := Passthrough{}
	out, err := r.Rerank(context.Background(), "pets", docs(), Options{})
	require.NoError(t, err)
	require.Len(t, out, 3)
	assert.Equal(t, "a", out[0].ID)
	assert.Equal(t, out[0].OriginalScore, out[0].RerankScore)
}
