package graphrag

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tangerg/ragengine/embedder"
	"github.com/tangerg/ragengine/graphstore"
	"github.com/tangerg/ragengine/graphstore/memory"
	"github.com/tangerg/ragengine/llm"
)

type scriptedLLM struct {
	Response string
}

func (s *scriptedLLM) Complete(context.Context, []llm.Message, llm.Options) (llm.Result, error) {
	return llm.Result{Content: s.Response}, nil
}

func (s *scriptedLLM) Stream(context.Context, []llm.Message, llm.Options) (<-chan llm.Chunk, <-chan error) {
	panic("not used")
}

type fakeEmbedder struct{}

func (fakeEmbedder) Embed(_ context.Context, text string, _ embedder.Options) (embedder.Result, error) {
	return embedder.Result{Vector: []float32{float32(len(text)), 1, 2}, Dimensions: 3}, nil
}

func (fakeEmbedder) EmbedBatch(ctx context.Context, texts []string, opts embedder.Options) (embedder.BatchResult, error) {
	var out embedder.BatchResult
	for _, t := range texts {
		r, _ := fakeEmbedder{}.Embed(ctx, t, opts)
		out.Embeddings = append(out.Embeddings, r)
	}
	return out, nil
}

func (fakeEmbedder) Dimensions(string) (int, bool) { return 3, true }
func (fakeEmbedder) SupportedModels() []string     { return []string{"fake"} }

func TestSummarizePersistsSummaryAndEmbedding(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	graphID := "g1"
	require.NoError(t, store.CreateGraph(ctx, graphID))
	require.NoError(t, store.CreateNode(ctx, graphID, graphstore.Node{ID: "a", Name: "A", Type: "Module"}))
	require.NoError(t, store.CreateNode(ctx, graphID, graphstore.Node{ID: "b", Name: "B", Type: "Module"}))
	require.NoError(t, store.CreateEdge(ctx, graphID, graphstore.Edge{ID: "e0", Source: "a", Target: "b", Type: "CALLS"}))
	require.NoError(t, store.CreateCommunity(ctx, graphID, graphstore.Community{ID: "community_0", Level: 0, Members: []string{"a", "b"}}))

	summarizer := NewSummarizer(store, &scriptedLLM{Response: "A and B work together."}, fakeEmbedder{}, "test-model", nil)

	err := summarizer.Summarize(ctx, graphID, graphstore.Community{ID: "community_0", Level: 0, Members: []string{"a", "b"}})
	require.NoError(t, err)

	communities, err := store.ListCommunities(ctx, graphID, 0)
	require.NoError(t, err)
	require.Len(t, communities, 1)
	assert.Equal(t, "A and B work together.", communities[0].Summary)
	assert.NotEmpty(t, communities[0].Embedding)
}
