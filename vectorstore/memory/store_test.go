package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tangerg/ragengine/ragerr"
	"github.com/tangerg/ragengine/vectorstore"
)

func TestRoundTripVectorSearch(t *testing.T) {
	// S1: index D=3 cosine, insert a/b/c, search [1,0,0] k=2 => [a, c].
	ctx := context.Background()
	s := New()
	require.NoError(t, s.CreateIndex(ctx, "idx", vectorstore.IndexSpec{Dimensions: 3, Metric: vectorstore.MetricCosine}))

	inv := float32(1) / 1.4142135
	require.NoError(t, s.StoreBatch(ctx, "idx", []vectorstore.Item{
		{ID: "a", Embedding: []float32{1, 0, 0}},
		{ID: "b", Embedding: []float32{0, 1, 0}},
		{ID: "c", Embedding: []float32{inv, inv, 0}},
	}))

	results, err := s.Search(ctx, "idx", []float32{1, 0, 0}, 2, vectorstore.SearchOptions{})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "a", results[0].ID)
	assert.InDelta(t, 1.0, results[0].Score, 1e-6)
	assert.Equal(t, "c", results[1].ID)
	assert.InDelta(t, 0.707, results[1].Score, 1e-3)
}

func TestCreateIndexIdempotent(t *testing.T) {
	ctx := context.Background()
	s := New()
	require.NoError(t, s.CreateIndex(ctx, "idx", vectorstore.IndexSpec{Dimensions: 4}))
	require.NoError(t, s.CreateIndex(ctx, "idx", vectorstore.IndexSpec{Dimensions: 4}))

	err := s.CreateIndex(ctx, "idx", vectorstore.IndexSpec{Dimensions: 8})
	require.Error(t, err)
	assert.True(t, ragerr.Is(err, ragerr.KindDimensionMismatch))
}

func TestSoftDeleteAndRestore(t *testing.T) {
	ctx := context.Background()
	s := New()
	require.NoError(t, s.CreateIndex(ctx, "idx", vectorstore.IndexSpec{Dimensions: 2}))
	require.NoError(t, s.Store(ctx, "idx", vectorstore.Item{ID: "a", Embedding: []float32{1, 0}}))

	require.NoError(t, s.SoftDelete(ctx, "idx", "a"))
	results, err := s.Search(ctx, "idx", []float32{1, 0}, 10, vectorstore.SearchOptions{})
	require.NoError(t, err)
	assert.Empty(t, results)

	require.NoError(t, s.Restore(ctx, "idx", "a"))
	results, err = s.Search(ctx, "idx", []float32{1, 0}, 10, vectorstore.SearchOptions{})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "a", results[0].ID)
}

func TestStoreBatchEveryIDExactlyOnce(t *testing.T) {
	ctx := context.Background()
	s := New()
	require.NoError(t, s.CreateIndex(ctx, "idx", vectorstore.IndexSpec{Dimensions: 2}))

	items := []vectorstore.Item{
		{ID: "a", Embedding: []float32{1, 0}},
		{ID: "b", Embedding: []float32{0, 1}},
		{ID: "c", Embedding: []float32{1, 1}},
	}
	require.NoError(t, s.StoreBatch(ctx, "idx", items))

	results, err := s.Search(ctx, "idx", []float32{1, 0}, 100, vectorstore.SearchOptions{})
	require.NoError(t, err)
	seen := make(map[string]int)
	for _, r := range results {
		seen[r.ID]++
	}
	for _, item := range items {
		assert.Equal(t, 1, seen[item.ID])
	}
}
