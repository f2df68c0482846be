package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tangerg/ragengine/document"
	"github.com/tangerg/ragengine/ragerr"
)

func TestCollectionDeleteCascadesToDocumentsAndChunks(t *testing.T) {
	ctx := context.Background()
	store := New()

	col, err := document.NewCollection("docs", nil)
	require.NoError(t, err)
	require.NoError(t, store.CreateCollection(ctx, col))

	doc, err := document.NewBuilder().WithCollectionID(col.ID()).WithSourcePath("a.md").Build()
	require.NoError(t, err)
	require.NoError(t, store.CreateDocument(ctx, doc))

	chunk, err := document.NewChunk(doc.ID(), "hello", 0, nil)
	require.NoError(t, err)
	require.NoError(t, store.CreateChunks(ctx, []*document.Chunk{chunk}))

	require.NoError(t, store.DeleteCollection(ctx, col.ID()))

	_, err = store.GetDocument(ctx, doc.ID())
	assert.ErrorIs(t, err, ragerr.NotFound(""))

	chunks, err := store.ListChunks(ctx, doc.ID())
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestChunksMissingEmbeddingsFiltersByDocument(t *testing.T) {
	ctx := context.Background()
	store := New()

	col, _ := document.NewCollection("docs", nil)
	require.NoError(t, store.CreateCollection(ctx, col))
	doc1, _ := document.NewBuilder().WithCollectionID(col.ID()).Build()
	doc2, _ := document.NewBuilder().WithCollectionID(col.ID()).Build()
	require.NoError(t, store.CreateDocument(ctx, doc1))
	require.NoError(t, store.CreateDocument(ctx, doc2))

	c1, _ := document.NewChunk(doc1.ID(), "a", 0, nil)
	c2, _ := document.NewChunk(doc1.ID(), "b", 1, nil)
	require.NoError(t, c2.SetEmbedding([]float32{1, 2}, 0))
	c3, _ := document.NewChunk(doc2.ID(), "c", 0, nil)
	require.NoError(t, store.CreateChunks(ctx, []*document.Chunk{c1, c2, c3}))

	missing, err := store.ChunksMissingEmbeddings(ctx, []string{doc1.ID()})
	require.NoError(t, err)
	require.Len(t, missing, 1)
	assert.Equal(t, c1.ID(), missing[0].ID())

	allMissing, err := store.ChunksMissingEmbeddings(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, allMissing, 2)
}

func TestDocumentStatusFilter(t *testing.T) {
	ctx := context.Background()
	store := New()
	col, _ := document.NewCollection("docs", nil)
	require.NoError(t, store.CreateCollection(ctx, col))

	doc, _ := document.NewBuilder().WithCollectionID(col.ID()).Build()
	require.NoError(t, store.CreateDocument(ctx, doc))
	require.NoError(t, doc.Transition(document.StatusProcessing))
	require.NoError(t, doc.Fail("boom"))
	require.NoError(t, store.UpdateDocument(ctx, doc))

	failed, err := store.ListDocumentsByStatus(ctx, col.ID(), document.StatusFailed)
	require.NoError(t, err)
	require.Len(t, failed, 1)
	assert.Equal(t, "boom", failed[0].ErrorMessage())
}
