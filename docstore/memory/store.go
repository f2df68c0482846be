// Package memory is an in-process docstore.Store, the default repository
// backing for tests and single-node deployments (spec §9: "every store
// interface ships an in-memory reference implementation").
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/tangerg/ragengine/docstore"
	"github.com/tangerg/ragengine/document"
	"github.com/tangerg/ragengine/ragerr"
)

// Store is a mutex-guarded in-memory docstore.Store.
type Store struct {
	mu sync.RWMutex

	collections map[string]*document.Collection
	documents   map[string]*document.Document
	// chunks indexes by document id, preserving chunk_index order.
	chunks map[string][]*document.Chunk
}

func New() *Store {
	return &Store{
		collections: make(map[string]*document.Collection),
		documents:   make(map[string]*document.Document),
		chunks:      make(map[string][]*document.Chunk),
	}
}

var _ docstore.Store = (*Store)(nil)

func (s *Store) CreateCollection(_ context.Context, c *document.Collection) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.collections[c.ID()] = c
	return nil
}

func (s *Store) GetCollection(_ context.Context, id string) (*document.Collection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.collections[id]
	if !ok {
		return nil, ragerr.NotFound("collection not found: " + id)
	}
	return c, nil
}

func (s *Store) ListCollections(context.Context) ([]*document.Collection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*document.Collection, 0, len(s.collections))
	for _, c := range s.collections {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out, nil
}

func (s *Store) DeleteCollection(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.collections[id]; !ok {
		return ragerr.NotFound("collection not found: " + id)
	}
	for docID, d := range s.documents {
		if d.CollectionID() == id {
			delete(s.documents, docID)
			delete(s.chunks, docID)
		}
	}
	delete(s.collections, id)
	return nil
}

func (s *Store) DocumentCount(_ context.Context, collectionID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, d := range s.documents {
		if d.CollectionID() == collectionID {
			n++
		}
	}
	return n, nil
}

func (s *Store) CreateDocument(_ context.Context, d *document.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.documents[d.ID()] = d
	return nil
}

func (s *Store) GetDocument(_ context.Context, id string) (*document.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.documents[id]
	if !ok {
		return nil, ragerr.NotFound("document not found: " + id)
	}
	return d, nil
}

func (s *Store) ListDocuments(_ context.Context, collectionID string) ([]*document.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*document.Document
	for _, d := range s.documents {
		if collectionID == "" || d.CollectionID() == collectionID {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out, nil
}

func (s *Store) ListDocumentsByStatus(_ context.Context, collectionID string, status document.Status) ([]*document.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*document.Document
	for _, d := range s.documents {
		if (collectionID == "" || d.CollectionID() == collectionID) && d.Status() == status {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out, nil
}

func (s *Store) UpdateDocument(_ context.Context, d *document.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.documents[d.ID()]; !ok {
		return ragerr.NotFound("document not found: " + d.ID())
	}
	s.documents[d.ID()] = d
	return nil
}

func (s *Store) DeleteDocument(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.documents[id]; !ok {
		return ragerr.NotFound("document not found: " + id)
	}
	delete(s.documents, id)
	delete(s.chunks, id)
	return nil
}

func (s *Store) CreateChunks(_ context.Context, chunks []*document.Chunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range chunks {
		s.chunks[c.DocumentID()] = append(s.chunks[c.DocumentID()], c)
	}
	for docID := range groupByDocument(chunks) {
		sortByIndex(s.chunks[docID])
	}
	return nil
}

func (s *Store) ListChunks(_ context.Context, documentID string) ([]*document.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*document.Chunk, len(s.chunks[documentID]))
	copy(out, s.chunks[documentID])
	return out, nil
}

func (s *Store) ChunksMissingEmbeddings(_ context.Context, documentIDs []string) ([]*document.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	want := toSet(documentIDs)
	var out []*document.Chunk
	for docID, chunks := range s.chunks {
		if len(want) > 0 && !want[docID] {
			continue
		}
		for _, c := range chunks {
			if !c.HasEmbedding() {
				out = append(out, c)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DocumentID() != out[j].DocumentID() {
			return out[i].DocumentID() < out[j].DocumentID()
		}
		return out[i].ChunkIndex() < out[j].ChunkIndex()
	})
	return out, nil
}

func (s *Store) UpdateChunk(_ context.Context, c *document.Chunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.chunks[c.DocumentID()]
	for i, existing := range list {
		if existing.ID() == c.ID() {
			list[i] = c
			return nil
		}
	}
	return ragerr.NotFound("chunk not found: " + c.ID())
}

func (s *Store) DeleteChunksForDocument(_ context.Context, documentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.chunks, documentID)
	return nil
}

func sortByIndex(chunks []*document.Chunk) {
	sort.Slice(chunks, func(i, j int) bool { return chunks[i].ChunkIndex() < chunks[j].ChunkIndex() })
}

func groupByDocument(chunks []*document.Chunk) map[string][]*document.Chunk {
	out := make(map[string][]*document.Chunk)
	for _, c := range chunks {
		out[c.DocumentID()] = append(out[c.DocumentID()], c)
	}
	return out
}

func toSet(ids []string) map[string]bool {
	if len(ids) == 0 {
		return nil
	}
	out := make(map[string]bool, len(ids))
	for _, id := range ids {
		out[id] = true
	}
	return out
}
