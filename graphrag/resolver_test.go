package graphrag

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveMergesSimilarNames(t *testing.T) {
	entities := []Entity{
		{Name: "OrderService", Type: EntityClass, Description: "handles orders"},
		{Name: "orderservice", Type: EntityClass, Description: "a longer description of the order service class"},
		{Name: "PaymentGateway", Type: EntityClass, Description: "processes payments"},
	}

	out := Resolve(entities, ResolveOptions{Threshold: 0.85})

	if assert.Len(t, out, 2) {
		assert.Equal(t, "OrderService", out[0].Name)
		assert.Equal(t, "a longer description of the order service class", out[0].Description)
		assert.Equal(t, "PaymentGateway", out[1].Name)
	}
}

func TestResolveEmptyInput(t *testing.T) {
	assert.Empty(t, Resolve(nil, ResolveOptions{}))
}

func TestResolveHighThresholdKeepsDistinctEntities(t *testing.T) {
	entities := []Entity{
		{Name: "Alpha"},
		{Name: "Beta"},
	}
	out := Resolve(entities, ResolveOptions{Threshold: 0.99})
	assert.Len(t, out, 2)
}

func TestJaccardIdenticalSets(t *testing.T) {
	assert.Equal(t, 1.0, jaccard(charSet("abc"), charSet("abc")))
	assert.Equal(t, 0.0, jaccard(charSet("abc"), charSet("xyz")))
}
