// Package memory is the in-memory Vector Store adapter used for tests and
// local development (spec §5: "append-only vector list ... serialized
// through one worker", implemented here with one mutex per index standing in
// for the single worker).
package memory

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/tangerg/ragengine/ragerr"
	"github.com/tangerg/ragengine/vectorstore"
	"github.com/tangerg/ragengine/vectorstore/filter"
)

type record struct {
	item    vectorstore.Item
	deleted bool
}

type index struct {
	mu      sync.Mutex
	spec    vectorstore.IndexSpec
	order   []string // append-only id order
	byID    map[string]*record
}

// Store implements vectorstore.Store, vectorstore.SoftDeletable and
// vectorstore.FulltextCapable entirely in memory.
type Store struct {
	mu      sync.RWMutex
	indexes map[string]*index
}

var (
	_ vectorstore.Store         = (*Store)(nil)
	_ vectorstore.SoftDeletable = (*Store)(nil)
)

func New() *Store {
	return &Store{indexes: make(map[string]*index)}
}

func (s *Store) getIndex(indexID string) (*index, error) {
	s.mu.RLock()
	idx, ok := s.indexes[indexID]
	s.mu.RUnlock()
	if !ok {
		return nil, ragerr.NotFound("index " + indexID)
	}
	return idx, nil
}

func (s *Store) CreateIndex(_ context.Context, indexID string, spec vectorstore.IndexSpec) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.indexes[indexID]; ok {
		if existing.spec.Dimensions != spec.Dimensions {
			return ragerr.DimensionMismatch(existing.spec.Dimensions, spec.Dimensions)
		}
		return nil // idempotent
	}
	s.indexes[indexID] = &index{spec: spec, byID: make(map[string]*record)}
	return nil
}

func (s *Store) DeleteIndex(_ context.Context, indexID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.indexes, indexID)
	return nil
}

func (s *Store) IndexExists(_ context.Context, indexID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.indexes[indexID]
	return ok, nil
}

func (s *Store) IndexStats(_ context.Context, indexID string) (vectorstore.IndexStats, error) {
	idx, err := s.getIndex(indexID)
	if err != nil {
		return vectorstore.IndexStats{}, err
	}
	idx.mu.Lock()
	defer idx.mu.Unlock()
	count := 0
	for _, r := range idx.byID {
		if !r.deleted {
			count++
		}
	}
	return vectorstore.IndexStats{
		VectorCount: count,
		Dimensions:  idx.spec.Dimensions,
		Metric:      idx.spec.Metric,
	}, nil
}

func (s *Store) Store(ctx context.Context, indexID string, item vectorstore.Item) error {
	return s.StoreBatch(ctx, indexID, []vectorstore.Item{item})
}

// StoreBatch is all-or-nothing: every item is validated against the index's
// dimensionality before any is written (spec §5 idempotence rule).
func (s *Store) StoreBatch(_ context.Context, indexID string, items []vectorstore.Item) error {
	idx, err := s.getIndex(indexID)
	if err != nil {
		return err
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	for _, item := range items {
		if idx.spec.Dimensions > 0 && len(item.Embedding) != idx.spec.Dimensions {
			return ragerr.DimensionMismatch(idx.spec.Dimensions, len(item.Embedding))
		}
	}

	for _, item := range items {
		if _, exists := idx.byID[item.ID]; !exists {
			idx.order = append(idx.order, item.ID)
		}
		idx.byID[item.ID] = &record{item: item}
	}
	return nil
}

func (s *Store) Delete(_ context.Context, indexID string, id string) error {
	idx, err := s.getIndex(indexID)
	if err != nil {
		return err
	}
	idx.mu.Lock()
	defer idx.mu.Unlock()
	delete(idx.byID, id)
	return nil
}

func (s *Store) SoftDelete(_ context.Context, indexID string, id string) error {
	idx, err := s.getIndex(indexID)
	if err != nil {
		return err
	}
	idx.mu.Lock()
	defer idx.mu.Unlock()
	r, ok := idx.byID[id]
	if !ok {
		return ragerr.NotFound("vector " + id)
	}
	r.deleted = true
	return nil
}

func (s *Store) Restore(_ context.Context, indexID string, id string) error {
	idx, err := s.getIndex(indexID)
	if err != nil {
		return err
	}
	idx.mu.Lock()
	defer idx.mu.Unlock()
	r, ok := idx.byID[id]
	if !ok {
		return ragerr.NotFound("vector " + id)
	}
	r.deleted = false
	return nil
}

func (s *Store) Search(_ context.Context, indexID string, vector []float32, k int, opts vectorstore.SearchOptions) ([]vectorstore.SearchResult, error) {
	idx, err := s.getIndex(indexID)
	if err != nil {
		return nil, err
	}
	idx.mu.Lock()
	defer idx.mu.Unlock()

	metric := opts.Metric
	if metric == "" {
		metric = idx.spec.Metric
	}
	if metric == "" {
		metric = vectorstore.MetricCosine
	}

	var results []vectorstore.SearchResult
	for _, id := range idx.order {
		r, ok := idx.byID[id]
		if !ok || r.deleted {
			continue
		}
		if opts.Filter != nil && !filter.Match(opts.Filter, r.item.Metadata) {
			continue
		}
		score := score(metric, vector, r.item.Embedding)
		if score < opts.MinScore {
			continue
		}
		sr := vectorstore.SearchResult{ID: id, Score: score, Metadata: r.item.Metadata}
		if opts.IncludeVector {
			sr.Vector = r.item.Embedding
		}
		results = append(results, sr)
	}

	sort.Slice(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	if k > 0 && len(results) > k {
		results = results[:k]
	}
	return results, nil
}

// score normalizes every metric to "higher is better" in roughly [0,1], per
// spec §4.4: cosine passes through, euclidean distance maps to 1-d.
func score(metric vectorstore.Metric, a, b []float32) float64 {
	switch metric {
	case vectorstore.MetricEuclidean:
		return 1 - euclidean(a, b)
	case vectorstore.MetricDot:
		return dot(a, b)
	default:
		return cosine(a, b)
	}
}

func cosine(a, b []float32) float64 {
	if len(a) == 0 || len(b) == 0 || len(a) != len(b) {
		return 0
	}
	var dotP, na, nb float64
	for i := range a {
		dotP += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dotP / (math.Sqrt(na) * math.Sqrt(nb))
}

func dot(a, b []float32) float64 {
	var s float64
	for i := range a {
		if i >= len(b) {
			break
		}
		s += float64(a[i]) * float64(b[i])
	}
	return s
}

func euclidean(a, b []float32) float64 {
	var s float64
	for i := range a {
		if i >= len(b) {
			break
		}
		d := float64(a[i]) - float64(b[i])
		s += d * d
	}
	return math.Sqrt(s)
}
