package rag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeDedupesKeepingMaxScore(t *testing.T) {
	a := []Result{{ID: "1", Score: 0.4, Source: SourceVector}, {ID: "2", Score: 0.9, Source: SourceVector}}
	b := []Result{{ID: "1", Score: 0.7, Source: SourceFulltext}, {ID: "3", Score: 0.2, Source: SourceFulltext}}

	out := Merge(a, b)

	require.Len(t, out, 3)
	byID := make(map[string]Result, len(out))
	for _, r := range out {
		byID[r.ID] = r
	}
	assert.Equal(t, 0.7, byID["1"].Score)
	assert.Equal(t, SourceFulltext, byID["1"].Source)
	assert.Equal(t, 0.9, byID["2"].Score)
	assert.Equal(t, 0.2, byID["3"].Score)

	// descending order
	for i := 0; i < len(out)-1; i++ {
		assert.GreaterOrEqual(t, out[i].Score, out[i+1].Score)
	}
}

func TestMergeWithEmptySets(t *testing.T) {
	out := Merge(nil, []Result{{ID: "1", Score: 1}}, nil)
	require.Len(t, out, 1)
}
