// Package config is the engine-wide Config struct, populated from the
// process environment via struct tags (spec §9's ambient configuration
// surface: rate limiter defaults, chunker defaults, self-correction caps,
// telemetry sinks).
package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is the top-level configuration for a ragengine deployment.
type Config struct {
	// Rate limiter defaults, applied to any (provider, operation) key
	// without a more specific override.
	RateLimitPerSecond float64 `env:"RAGENGINE_RATE_LIMIT_PER_SECOND" envDefault:"5"`
	RateLimitBurst     int     `env:"RAGENGINE_RATE_LIMIT_BURST" envDefault:"5"`

	// Chunker defaults.
	ChunkSize     int    `env:"RAGENGINE_CHUNK_SIZE" envDefault:"400"`
	ChunkOverlap  int    `env:"RAGENGINE_CHUNK_OVERLAP" envDefault:"50"`
	ChunkSizeUnit string `env:"RAGENGINE_CHUNK_SIZE_UNIT" envDefault:"characters"`

	// Self-correction caps (search and answer loops).
	MaxSearchIterations int `env:"RAGENGINE_MAX_SEARCH_ITERATIONS" envDefault:"3"`
	MaxAnswerIterations int `env:"RAGENGINE_MAX_ANSWER_ITERATIONS" envDefault:"2"`

	// Ingestion pipeline tuning.
	IngestChunkWorkers int           `env:"RAGENGINE_INGEST_CHUNK_WORKERS" envDefault:"10"`
	IngestEmbedWorkers int           `env:"RAGENGINE_INGEST_EMBED_WORKERS" envDefault:"10"`
	IngestBatchSize    int           `env:"RAGENGINE_INGEST_BATCH_SIZE" envDefault:"100"`
	IngestBatchTimeout time.Duration `env:"RAGENGINE_INGEST_BATCH_TIMEOUT" envDefault:"2s"`

	// Telemetry sink selection: "silent", "text", or "zap".
	TelemetrySink string `env:"RAGENGINE_TELEMETRY_SINK" envDefault:"text"`

	// Provider credentials, consumed by the embedder/llm adapters.
	OpenAIAPIKey string `env:"OPENAI_API_KEY"`

	// Vector store backend selection and connection info.
	VectorStoreBackend string `env:"RAGENGINE_VECTOR_STORE" envDefault:"memory"`
	QdrantURL          string `env:"RAGENGINE_QDRANT_URL"`
	PineconeAPIKey     string `env:"PINECONE_API_KEY"`
}

// Load reads Config from the process environment, applying envDefault tags
// for anything unset.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
