package tokenizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHeuristic(t *testing.T) {
	t.Run("empty string estimates zero", func(t *testing.T) {
		assert.Equal(t, 0, Heuristic.Estimate(""))
	})

	t.Run("non-empty string estimates at least one", func(t *testing.T) {
		assert.GreaterOrEqual(t, Heuristic.Estimate("a"), 1)
	})

	t.Run("approximates len/4 for ASCII", func(t *testing.T) {
		s := "abcdefghijklmnopqrst" // 20 chars
		assert.Equal(t, 5, Heuristic.Estimate(s))
	})
}

func TestTiktoken(t *testing.T) {
	t.Run("invalid encoding name errors", func(t *testing.T) {
		_, err := NewTiktoken("not-a-real-encoding")
		assert.Error(t, err)
	})
}
