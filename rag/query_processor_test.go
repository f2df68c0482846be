package rag

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Decompose falls back to a single-element list when the model returns an
// empty sub_questions array, and marks is_complex false.
func TestDecomposeFallsBackOnEmptyArray(t *testing.T) {
	llm := &scriptedLLM{Responses: []string{`{"sub_questions": []}`}}
	p := NewQueryProcessor(llm, nil)

	c := New("what is the weather", nil)
	c = p.Decompose(context.Background(), c, QueryProcessorOptions{})

	require.Len(t, c.SubQuestions, 1)
	assert.Equal(t, "what is the weather", c.SubQuestions[0])
	assert.False(t, c.IsComplex)
}

func TestDecomposeFallsBackOnUnparsableOutput(t *testing.T) {
	llm := &scriptedLLM{Responses: []string{"no json here"}}
	p := NewQueryProcessor(llm, nil)

	c := New("question", nil)
	c = p.Decompose(context.Background(), c, QueryProcessorOptions{})

	require.Len(t, c.SubQuestions, 1)
	assert.Equal(t, "question", c.SubQuestions[0])
}

func TestDecomposeAcceptsQuestionsKey(t *testing.T) {
	llm := &scriptedLLM{Responses: []string{`{"questions": ["a", "b"]}`}}
	p := NewQueryProcessor(llm, nil)

	c := New("a and b", nil)
	c = p.Decompose(context.Background(), c, QueryProcessorOptions{})

	require.Len(t, c.SubQuestions, 2)
	assert.True(t, c.IsComplex)
}

func TestRewriteDoesNotHaltOnError(t *testing.T) {
	llm := &scriptedLLM{Err: assertErr}
	p := NewQueryProcessor(llm, nil)

	c := New("question", nil)
	c = p.Rewrite(context.Background(), c, QueryProcessorOptions{})

	assert.False(t, c.Halted)
	assert.Nil(t, c.RewrittenQuery)
}
