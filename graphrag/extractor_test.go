package graphrag

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tangerg/ragengine/llm"
)

// failingAfterNLLM succeeds with ok on the n-th call and errors on every
// other call, used to exercise ExtractBatch's per-item failure tolerance.
type failingAfterNLLM struct {
	n     int64
	ok    string
	calls int64
}

func (f *failingAfterNLLM) Complete(context.Context, []llm.Message, llm.Options) (llm.Result, error) {
	c := atomic.AddInt64(&f.calls, 1)
	if c == f.n {
		return llm.Result{Content: f.ok}, nil
	}
	return llm.Result{}, errors.New("simulated provider failure")
}

func (f *failingAfterNLLM) Stream(context.Context, []llm.Message, llm.Options) (<-chan llm.Chunk, <-chan error) {
	panic("not used")
}

func TestFirstBalancedObjectToleratesSurroundingProse(t *testing.T) {
	raw, ok := firstBalancedObject(`Sure, here it is:
{"entities": [{"name": "A", "type": "Module"}], "relationships": []}
Hope that helps!`)
	require.True(t, ok)
	assert.Contains(t, raw, `"name": "A"`)
}

func TestFirstBalancedObjectNoObject(t *testing.T) {
	_, ok := firstBalancedObject("not valid JSON")
	assert.False(t, ok)
}

func TestParseExtractionDropsInvalidRecords(t *testing.T) {
	out := parseExtraction(`{"entities": [{"name": "", "type": "Module"}, {"name": "Valid", "type": "Bogus"}], "relationships": [{"source": "a", "target": "", "type": "CALLS"}, {"source": "a", "target": "b", "type": "NOPE"}]}`)
	require.Len(t, out.Entities, 1)
	assert.Equal(t, "Valid", out.Entities[0].Name)
	assert.Equal(t, EntityOther, out.Entities[0].Type)
	assert.Empty(t, out.Relationships)
}

func TestExtractBatchSkipsFailuresButSucceedsOverall(t *testing.T) {
	ex := NewExtractor(&failingAfterNLLM{n: 1, ok: `{"entities":[{"name":"X","type":"Module"}],"relationships":[]}`}, "m", nil)
	out, err := ex.ExtractBatch(context.Background(), []string{"one", "two", "three"}, ExtractBatchOptions{MaxConcurrency: 2, RateLimit: 1})
	require.NoError(t, err)
	assert.Len(t, out, 1)
}
