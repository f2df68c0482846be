package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadAppliesDefaults(t *testing.T) {
	t.Setenv("RAGENGINE_RATE_LIMIT_PER_SECOND", "")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 5.0, cfg.RateLimitPerSecond)
	assert.Equal(t, 400, cfg.ChunkSize)
	assert.Equal(t, "memory", cfg.VectorStoreBackend)
}

func TestLoadHonorsEnvOverride(t *testing.T) {
	t.Setenv("RAGENGINE_CHUNK_SIZE", "800")
	t.Setenv("RAGENGINE_VECTOR_STORE", "qdrant")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 800, cfg.ChunkSize)
	assert.Equal(t, "qdrant", cfg.VectorStoreBackend)
}
