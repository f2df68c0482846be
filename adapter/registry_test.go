package adapter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tangerg/ragengine/ragerr"
)

func TestRegistryResolve(t *testing.T) {
	t.Run("missing capability returns no_adapter", func(t *testing.T) {
		r := New()
		_, err := r.Resolve(CapabilityEmbedder, nil)
		require.Error(t, err)
		assert.True(t, ragerr.Is(err, ragerr.KindNoAdapter))
	})

	t.Run("first registration becomes the default", func(t *testing.T) {
		r := New()
		r.Register(CapabilityLLM, "openai", "impl-a")
		impl, err := r.Resolve(CapabilityLLM, nil)
		require.NoError(t, err)
		assert.Equal(t, "impl-a", impl)
	})

	t.Run("per-call override beats the default", func(t *testing.T) {
		r := New()
		r.Register(CapabilityLLM, "openai", "impl-a")
		r.Register(CapabilityLLM, "anthropic", "impl-b")

		impl, err := r.Resolve(CapabilityLLM, &Options{Override: "anthropic"})
		require.NoError(t, err)
		assert.Equal(t, "impl-b", impl)
	})

	t.Run("SetDefault changes the process-wide default", func(t *testing.T) {
		r := New()
		r.Register(CapabilityLLM, "openai", "impl-a")
		r.Register(CapabilityLLM, "anthropic", "impl-b")
		r.SetDefault(CapabilityLLM, "anthropic")

		impl, err := r.Resolve(CapabilityLLM, nil)
		require.NoError(t, err)
		assert.Equal(t, "impl-b", impl)
	})

	t.Run("unknown override name errors", func(t *testing.T) {
		r := New()
		r.Register(CapabilityLLM, "openai", "impl-a")
		_, err := r.Resolve(CapabilityLLM, &Options{Override: "missing"})
		require.Error(t, err)
		assert.True(t, ragerr.Is(err, ragerr.KindNoAdapter))
	})
}
