package rag

import (
	"context"
	"errors"

	"github.com/tangerg/ragengine/llm"
)

var assertErr = errors.New("fake llm failure")

// scriptedLLM returns its Responses in order, one per Complete call, and
// errors once Responses is exhausted (or immediately if Err is set).
type scriptedLLM struct {
	Responses []string
	Err       error
	calls     int
}

func (s *scriptedLLM) Complete(context.Context, []llm.Message, llm.Options) (llm.Result, error) {
	if s.Err != nil {
		return llm.Result{}, s.Err
	}
	if s.calls >= len(s.Responses) {
		return llm.Result{}, errors.New("scriptedLLM: no more responses")
	}
	r := s.Responses[s.calls]
	s.calls++
	return llm.Result{Content: r}, nil
}

func (s *scriptedLLM) Stream(context.Context, []llm.Message, llm.Options) (<-chan llm.Chunk, <-chan error) {
	panic("not used")
}
