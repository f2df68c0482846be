// Package vectorstore defines the Vector Store capability contract of spec
// §6 and the Vector Index entity of spec §3.
package vectorstore

import (
	"context"

	"github.com/tangerg/ragengine/vectorstore/filter"
)

// Metric is a distance function over embeddings.
type Metric string

const (
	MetricCosine    Metric = "cosine"
	MetricEuclidean Metric = "euclidean"
	MetricDot       Metric = "dot"
)

// IndexKind selects the underlying ANN structure. The engine never
// implements one itself (spec §1 non-goals); it only names the kind when
// asking a backend to create an index.
type IndexKind string

const (
	IndexFlat IndexKind = "flat"
	IndexIVF  IndexKind = "ivf"
	IndexHNSW IndexKind = "hnsw"
)

// SearchMode selects which of the store's query paths to use.
type SearchMode string

const (
	ModeVector  SearchMode = "vector"
	ModeKeyword SearchMode = "keyword"
	ModeFulltext SearchMode = "fulltext"
)

// IndexSpec describes a Vector Index at creation time.
type IndexSpec struct {
	Dimensions int
	Metric     Metric
	Kind       IndexKind
	Options    map[string]any
}

// IndexStats reports the current size/shape of an index.
type IndexStats struct {
	VectorCount int
	Dimensions  int
	Metric      Metric
}

// Item is one (id, embedding, metadata) tuple to upsert.
type Item struct {
	ID        string
	Embedding []float32
	Metadata  map[string]any
}

// SearchOptions configures a similarity search.
type SearchOptions struct {
	Metric        Metric
	Filter        filter.Expr
	MinScore      float64
	Mode          SearchMode
	IncludeVector bool
}

// SearchResult is one ranked hit. Score is normalized to [0,1] with higher
// meaning more relevant, per spec §4.4's normalization rule.
type SearchResult struct {
	ID       string
	Score    float64
	Metadata map[string]any
	Vector   []float32
}

// Store is the Vector Store capability contract (spec §6). Idempotence:
// Store upserts by (indexID, id); StoreBatch is all-or-nothing on its batch;
// CreateIndex is idempotent and validates dimensionality (spec §5, §8).
type Store interface {
	CreateIndex(ctx context.Context, indexID string, spec IndexSpec) error
	DeleteIndex(ctx context.Context, indexID string) error
	IndexExists(ctx context.Context, indexID string) (bool, error)
	IndexStats(ctx context.Context, indexID string) (IndexStats, error)

	Store(ctx context.Context, indexID string, item Item) error
	StoreBatch(ctx context.Context, indexID string, items []Item) error

	Search(ctx context.Context, indexID string, vector []float32, k int, opts SearchOptions) ([]SearchResult, error)

	Delete(ctx context.Context, indexID string, id string) error
}

// FulltextCapable is implemented by stores that also expose full-text
// search (spec §4.4's full-text retriever, §6's hybrid capability).
type FulltextCapable interface {
	FulltextSearch(ctx context.Context, indexID string, query string, k int, opts FulltextOptions) ([]SearchResult, error)
}

// FulltextOptions configures a full-text query.
type FulltextOptions struct {
	Language string
	Phrase   bool
	Filter   filter.Expr
}

// SoftDeletable is implemented by stores that support the soft-delete /
// restore cycle of spec §5 and §8 ("insert then soft_delete then search
// never returns the deleted id; a subsequent restore makes it searchable
// again").
type SoftDeletable interface {
	SoftDelete(ctx context.Context, indexID string, id string) error
	Restore(ctx context.Context, indexID string, id string) error
}
