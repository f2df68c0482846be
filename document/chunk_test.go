package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewChunkRequiresDocumentID(t *testing.T) {
	_, err := NewChunk("", "text", 0, nil)
	assert.Error(t, err)
}

func TestNewChunkRejectsNegativeIndex(t *testing.T) {
	_, err := NewChunk("doc-1", "text", -1, nil)
	assert.Error(t, err)
}

func TestNewChunkDefaultsMetadata(t *testing.T) {
	c, err := NewChunk("doc-1", "hello", 0, nil)
	require.NoError(t, err)
	assert.NotNil(t, c.Metadata())
}

func TestNewChunkEstimatesTokenCount(t *testing.T) {
	c, err := NewChunk("doc-1", "12345678", 0, nil)
	require.NoError(t, err)
	assert.Equal(t, EstimateTokens("12345678"), c.TokenCount())
}

func TestEstimateTokensEdgeCases(t *testing.T) {
	assert.Equal(t, 0, EstimateTokens(""))
	assert.Equal(t, 1, EstimateTokens("ab"))
	assert.Equal(t, 2, EstimateTokens("12345678"))
}

func TestSetEmbeddingValidatesDimension(t *testing.T) {
	c, err := NewChunk("doc-1", "hi", 0, nil)
	require.NoError(t, err)

	assert.Error(t, c.SetEmbedding([]float32{1, 2}, 3))
	assert.False(t, c.HasEmbedding())

	require.NoError(t, c.SetEmbedding([]float32{1, 2, 3}, 3))
	assert.True(t, c.HasEmbedding())
}

func TestSetEmbeddingSkipsCheckWhenDimZero(t *testing.T) {
	c, err := NewChunk("doc-1", "hi", 0, nil)
	require.NoError(t, err)
	require.NoError(t, c.SetEmbedding([]float32{1, 2}, 0))
	assert.True(t, c.HasEmbedding())
}

func TestByteRangeUnsetByDefault(t *testing.T) {
	c, err := NewChunk("doc-1", "hi", 0, nil)
	require.NoError(t, err)
	_, _, ok := c.ByteRange()
	assert.False(t, ok)

	c.SetByteRange(0, 2)
	start, end, ok := c.ByteRange()
	assert.True(t, ok)
	assert.Equal(t, 0, start)
	assert.Equal(t, 2, end)
}
