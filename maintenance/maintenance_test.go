package maintenance

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tangerg/ragengine/docstore/memory"
	"github.com/tangerg/ragengine/document"
	"github.com/tangerg/ragengine/embedder"
)

type fakeEmbedder struct{}

func (fakeEmbedder) Embed(_ context.Context, text string, _ embedder.Options) (embedder.Result, error) {
	return embedder.Result{Vector: []float32{1, 2, 3}, Dimensions: 3}, nil
}

func (f fakeEmbedder) EmbedBatch(ctx context.Context, texts []string, opts embedder.Options) (embedder.BatchResult, error) {
	var out embedder.BatchResult
	for range texts {
		r, _ := f.Embed(ctx, "", opts)
		out.Embeddings = append(out.Embeddings, r)
	}
	return out, nil
}

func (fakeEmbedder) Dimensions(string) (int, bool) { return 3, true }
func (fakeEmbedder) SupportedModels() []string     { return []string{"fake"} }

func seedStore(t *testing.T) (*memory.Store, *document.Collection, *document.Document) {
	t.Helper()
	ctx := context.Background()
	store := memory.New()

	col, err := document.NewCollection("docs", nil)
	require.NoError(t, err)
	require.NoError(t, store.CreateCollection(ctx, col))

	doc, err := document.NewBuilder().WithCollectionID(col.ID()).Build()
	require.NoError(t, err)
	require.NoError(t, store.CreateDocument(ctx, doc))

	c0, err := document.NewChunk(doc.ID(), "alpha", 0, nil)
	require.NoError(t, err)
	c1, err := document.NewChunk(doc.ID(), "beta", 1, nil)
	require.NoError(t, err)
	require.NoError(t, c1.SetEmbedding([]float32{1, 2, 3}, 0))
	require.NoError(t, store.CreateChunks(ctx, []*document.Chunk{c0, c1}))

	return store, col, doc
}

func TestReembedOnlyTouchesMissingEmbeddings(t *testing.T) {
	ctx := context.Background()
	store, _, doc := seedStore(t)

	result, err := Reembed(ctx, store, fakeEmbedder{}, ReembedOptions{WithoutEmbedding: true}, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Total)
	assert.Equal(t, 1, result.Processed)
	assert.Empty(t, result.Errors)

	chunks, err := store.ListChunks(ctx, doc.ID())
	require.NoError(t, err)
	for _, c := range chunks {
		assert.True(t, c.HasEmbedding())
	}
}

func TestDiagnoseCounts(t *testing.T) {
	ctx := context.Background()
	store, _, _ := seedStore(t)

	d, err := Diagnose(ctx, store)
	require.NoError(t, err)
	assert.Equal(t, 1, d.Collections)
	assert.Equal(t, 1, d.Documents)
	assert.Equal(t, 2, d.Chunks)
	assert.Equal(t, 1, d.ChunksWithoutEmbedding)
}

func TestVerifyEmbeddingsDetectsInconsistency(t *testing.T) {
	ctx := context.Background()
	store, _, doc := seedStore(t)

	result, err := VerifyEmbeddings(ctx, store)
	require.NoError(t, err)
	assert.True(t, result.Consistent)

	mismatched, err := document.NewChunk(doc.ID(), "gamma", 2, nil)
	require.NoError(t, err)
	require.NoError(t, mismatched.SetEmbedding([]float32{1, 2}, 0))
	require.NoError(t, store.CreateChunks(ctx, []*document.Chunk{mismatched}))

	result, err = VerifyEmbeddings(ctx, store)
	require.NoError(t, err)
	assert.False(t, result.Consistent)
}

func TestRetryFailedFlipsStatus(t *testing.T) {
	ctx := context.Background()
	store, col, doc := seedStore(t)

	require.NoError(t, doc.Transition(document.StatusProcessing))
	require.NoError(t, doc.Fail("boom"))
	require.NoError(t, store.UpdateDocument(ctx, doc))

	n, err := RetryFailed(ctx, store, RetryFailedOptions{CollectionID: col.ID()}, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	updated, err := store.GetDocument(ctx, doc.ID())
	require.NoError(t, err)
	assert.Equal(t, document.StatusPending, updated.Status())
	assert.Empty(t, updated.ErrorMessage())
}

func TestCleanupDeletedCascades(t *testing.T) {
	ctx := context.Background()
	store, _, doc := seedStore(t)

	require.NoError(t, doc.Transition(document.StatusDeleted))
	require.NoError(t, store.UpdateDocument(ctx, doc))

	n, err := CleanupDeleted(ctx, store, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = store.GetDocument(ctx, doc.ID())
	assert.Error(t, err)

	chunks, err := store.ListChunks(ctx, doc.ID())
	require.NoError(t, err)
	assert.Empty(t, chunks)
}
