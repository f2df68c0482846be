// Package ingest implements the concurrent Ingestion Pipeline of spec §4.9:
// a producer/consumer pipeline from file discovery through parsing,
// chunking, rate-limited embedding, and batched vector-store writes.
package ingest

// Item is one unit of work discovered by the Producer (spec §4.9:
// "Emits {path, type} items").
type Item struct {
	Path string
	Type string // chunker.Format name, e.g. "markdown"; "text", "" and other unknown names chunk recursively

	DocumentID   string
	CollectionID string
}

// ChunkJob is one chunk in flight between the chunking and embedding
// stages, carrying enough provenance to build its eventual store item id.
type ChunkJob struct {
	DocumentID   string
	CollectionID string
	SourcePath   string
	Content      string
	ChunkIndex   int
	StartChar    int
	EndChar      int
	Metadata     map[string]any
}

// EmbeddedChunk is a ChunkJob after a successful embed call, ready for the
// batched writer.
type EmbeddedChunk struct {
	ChunkJob
	Vector []float32
}

// FailureReason classifies why a unit of work didn't make it through a
// stage, used by progress/error reporting (spec §4.9, §7).
type FailureReason string

const (
	ReasonRateLimited FailureReason = "rate_limited"
	ReasonReadError   FailureReason = "read_error"
	ReasonChunkError  FailureReason = "chunk_error"
	ReasonEmbedError  FailureReason = "embed_error"
	ReasonStoreError  FailureReason = "store_error"
)

// Failure records one dropped unit of work for the caller's error log.
type Failure struct {
	Path   string
	Reason FailureReason
	Err    error
}
