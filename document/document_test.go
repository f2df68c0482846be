package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilderRequiresCollectionID(t *testing.T) {
	_, err := NewBuilder().WithTitle("x").Build()
	assert.Error(t, err)
}

func TestBuilderBuildsPendingDocument(t *testing.T) {
	d, err := NewBuilder().
		WithCollectionID("col-1").
		WithSourcePath("/tmp/a.txt").
		WithTitle("A").
		WithContent("hello world").
		Build()
	require.NoError(t, err)

	assert.NotEmpty(t, d.ID())
	assert.Equal(t, "col-1", d.CollectionID())
	assert.Equal(t, StatusPending, d.Status())
	assert.Equal(t, ContentHash("hello world"), d.ContentHash())
}

func TestBuilderWithoutContentLeavesHashEmpty(t *testing.T) {
	d, err := NewBuilder().WithCollectionID("col-1").Build()
	require.NoError(t, err)
	assert.Empty(t, d.ContentHash())
}

func TestContentHashIsDeterministic(t *testing.T) {
	assert.Equal(t, ContentHash("same"), ContentHash("same"))
	assert.NotEqual(t, ContentHash("a"), ContentHash("b"))
}

func TestDocumentTransitionHappyPath(t *testing.T) {
	d, err := NewBuilder().WithCollectionID("c").Build()
	require.NoError(t, err)

	require.NoError(t, d.Transition(StatusProcessing))
	require.NoError(t, d.Transition(StatusCompleted))
	assert.Equal(t, StatusCompleted, d.Status())
}

func TestDocumentTransitionRejectsInvalidJump(t *testing.T) {
	d, err := NewBuilder().WithCollectionID("c").Build()
	require.NoError(t, err)

	assert.Error(t, d.Transition(StatusCompleted))
}

func TestFailSetsErrorMessage(t *testing.T) {
	d, err := NewBuilder().WithCollectionID("c").Build()
	require.NoError(t, err)
	require.NoError(t, d.Transition(StatusProcessing))

	require.NoError(t, d.Fail("boom"))
	assert.Equal(t, StatusFailed, d.Status())
	assert.Equal(t, "boom", d.ErrorMessage())
}

func TestRetryFailedClearsErrorMessage(t *testing.T) {
	d, err := NewBuilder().WithCollectionID("c").Build()
	require.NoError(t, err)
	require.NoError(t, d.Transition(StatusProcessing))
	require.NoError(t, d.Fail("boom"))

	require.NoError(t, d.Transition(StatusPending))
	assert.Empty(t, d.ErrorMessage())
}

func TestDeletedIsTerminal(t *testing.T) {
	d, err := NewBuilder().WithCollectionID("c").Build()
	require.NoError(t, err)
	require.NoError(t, d.Transition(StatusDeleted))
	assert.Error(t, d.Transition(StatusPending))
}
