// Package docstore is the repository layer over the document.Collection,
// document.Document and document.Chunk entities (spec §3, §6): the
// metadata side of ingestion and maintenance, separate from the vector
// store's embeddings. Grounded on the teacher's repository-interface
// pattern (ai/commons storage interfaces) adapted to this domain's three
// entities and cascade-delete rule.
package docstore

import (
	"context"

	"github.com/tangerg/ragengine/document"
)

// CollectionRepository persists Collections.
type CollectionRepository interface {
	CreateCollection(ctx context.Context, c *document.Collection) error
	GetCollection(ctx context.Context, id string) (*document.Collection, error)
	ListCollections(ctx context.Context) ([]*document.Collection, error)
	// DeleteCollection removes a Collection and cascades to its Documents
	// and their Chunks (spec §3: "exclusive ownership").
	DeleteCollection(ctx context.Context, id string) error
	// DocumentCount reports the virtual document_count field (spec §3).
	DocumentCount(ctx context.Context, collectionID string) (int, error)
}

// DocumentRepository persists Documents.
type DocumentRepository interface {
	CreateDocument(ctx context.Context, d *document.Document) error
	GetDocument(ctx context.Context, id string) (*document.Document, error)
	ListDocuments(ctx context.Context, collectionID string) ([]*document.Document, error)
	ListDocumentsByStatus(ctx context.Context, collectionID string, status document.Status) ([]*document.Document, error)
	UpdateDocument(ctx context.Context, d *document.Document) error
	// DeleteDocument removes a Document and cascades to its Chunks.
	DeleteDocument(ctx context.Context, id string) error
}

// ChunkRepository persists Chunks.
type ChunkRepository interface {
	CreateChunks(ctx context.Context, chunks []*document.Chunk) error
	ListChunks(ctx context.Context, documentID string) ([]*document.Chunk, error)
	// ChunksMissingEmbeddings lists every Chunk across documentIDs (or, if
	// documentIDs is empty, every chunk in the store) whose HasEmbedding is
	// false, for the maintenance re-embed/verify operations.
	ChunksMissingEmbeddings(ctx context.Context, documentIDs []string) ([]*document.Chunk, error)
	UpdateChunk(ctx context.Context, c *document.Chunk) error
	DeleteChunksForDocument(ctx context.Context, documentID string) error
}

// Store composes all three repositories, the unit most callers depend on.
type Store interface {
	CollectionRepository
	DocumentRepository
	ChunkRepository
}
