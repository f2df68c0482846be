// Package maintenance implements the background repair/inspection
// operations of spec §4.10: re-embedding, diagnostics, embedding-width
// verification, retrying failed documents, and hard-deleting soft-deleted
// ones.
package maintenance

import (
	"context"

	"github.com/tangerg/ragengine/docstore"
	"github.com/tangerg/ragengine/document"
	"github.com/tangerg/ragengine/embedder"
)

// ReembedOptions filters which chunks reembed touches.
type ReembedOptions struct {
	CollectionID     string // empty means every collection
	WithoutEmbedding bool   // only chunks missing a vector
	BatchSize        int    // default 50
	Dimensions       int
	Model            string
}

func (o ReembedOptions) batchSize() int {
	if o.BatchSize > 0 {
		return o.BatchSize
	}
	return 50
}

// ChunkError pairs a chunk id with the error that occurred re-embedding it.
type ChunkError struct {
	ChunkID string
	Err     error
}

// ReembedResult summarizes one Reembed run (spec §4.10).
type ReembedResult struct {
	Total     int
	Processed int
	Failed    int
	Errors    []ChunkError
}

// Reembed iterates chunks matching opts, re-embeds each through emb, and
// writes the result back via store.UpdateChunk, invoking reporter after
// every batch (spec §4.10). A chunk-level embed error is recorded in
// Errors and does not stop the run.
func Reembed(ctx context.Context, store docstore.Store, emb embedder.Provider, opts ReembedOptions, reporter Reporter) (ReembedResult, error) {
	if reporter == nil {
		reporter = Silent{}
	}

	chunks, err := chunksFor(ctx, store, opts)
	if err != nil {
		return ReembedResult{}, err
	}

	result := ReembedResult{Total: len(chunks)}
	batchSize := opts.batchSize()

	for start := 0; start < len(chunks); start += batchSize {
		end := start + batchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		batch := chunks[start:end]

		texts := make([]string, len(batch))
		for i, c := range batch {
			texts[i] = c.Content()
		}

		embOpts := embedder.Options{Dimensions: opts.Dimensions, Model: opts.Model}
		batchResult, err := emb.EmbedBatch(ctx, texts, embOpts)
		if err != nil {
			for _, c := range batch {
				result.Failed++
				result.Errors = append(result.Errors, ChunkError{ChunkID: c.ID(), Err: err})
			}
		} else {
			for i, c := range batch {
				if i >= len(batchResult.Embeddings) {
					result.Failed++
					result.Errors = append(result.Errors, ChunkError{ChunkID: c.ID(), Err: errShortBatchResult})
					continue
				}
				if err := c.SetEmbedding(batchResult.Embeddings[i].Vector, 0); err != nil {
					result.Failed++
					result.Errors = append(result.Errors, ChunkError{ChunkID: c.ID(), Err: err})
					continue
				}
				if err := store.UpdateChunk(ctx, c); err != nil {
					result.Failed++
					result.Errors = append(result.Errors, ChunkError{ChunkID: c.ID(), Err: err})
					continue
				}
				result.Processed++
			}
		}

		reporter.Report(ctx, Event{Operation: "reembed", Current: end, Total: result.Total})

		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}
	}

	return result, nil
}

func chunksFor(ctx context.Context, store docstore.Store, opts ReembedOptions) ([]*document.Chunk, error) {
	var docIDs []string
	if opts.CollectionID != "" {
		docs, err := store.ListDocuments(ctx, opts.CollectionID)
		if err != nil {
			return nil, err
		}
		for _, d := range docs {
			docIDs = append(docIDs, d.ID())
		}
		if len(docIDs) == 0 {
			return nil, nil
		}
	}

	if opts.WithoutEmbedding {
		return store.ChunksMissingEmbeddings(ctx, docIDs)
	}

	if len(docIDs) == 0 && opts.CollectionID == "" {
		docs, err := store.ListDocuments(ctx, "")
		if err != nil {
			return nil, err
		}
		for _, d := range docs {
			docIDs = append(docIDs, d.ID())
		}
	}

	var all []*document.Chunk
	for _, id := range docIDs {
		chunks, err := store.ListChunks(ctx, id)
		if err != nil {
			return nil, err
		}
		all = append(all, chunks...)
	}
	return all, nil
}

// Diagnostics is the count snapshot returned by Diagnose (spec §4.10).
type Diagnostics struct {
	Collections            int
	Documents              int
	Chunks                 int
	ChunksWithoutEmbedding int
	FailedDocuments        int
	StorageBytes           int64
}

// Diagnose counts collections, documents, chunks, chunks missing
// embeddings, failed documents, and an approximate storage footprint
// (spec §4.10). StorageBytes sums chunk content byte lengths, the only
// size the repository layer can observe without a backend-specific API.
func Diagnose(ctx context.Context, store docstore.Store) (Diagnostics, error) {
	var d Diagnostics

	collections, err := store.ListCollections(ctx)
	if err != nil {
		return d, err
	}
	d.Collections = len(collections)

	docs, err := store.ListDocuments(ctx, "")
	if err != nil {
		return d, err
	}
	d.Documents = len(docs)

	for _, doc := range docs {
		if doc.Status() == document.StatusFailed {
			d.FailedDocuments++
		}
		chunks, err := store.ListChunks(ctx, doc.ID())
		if err != nil {
			return d, err
		}
		d.Chunks += len(chunks)
		for _, c := range chunks {
			if !c.HasEmbedding() {
				d.ChunksWithoutEmbedding++
			}
			d.StorageBytes += int64(len(c.Content()))
		}
	}

	return d, nil
}

// VerifyResult reports whether every chunk's embedding shares one width
// (spec §4.10).
type VerifyResult struct {
	TotalChunks int
	Consistent  bool
	Width       int // the width found, 0 if no chunk has an embedding
}

// VerifyEmbeddings checks that every embedded chunk across the store
// shares the same vector width.
func VerifyEmbeddings(ctx context.Context, store docstore.Store) (VerifyResult, error) {
	docs, err := store.ListDocuments(ctx, "")
	if err != nil {
		return VerifyResult{}, err
	}

	result := VerifyResult{Consistent: true}
	for _, doc := range docs {
		chunks, err := store.ListChunks(ctx, doc.ID())
		if err != nil {
			return VerifyResult{}, err
		}
		result.TotalChunks += len(chunks)
		for _, c := range chunks {
			if !c.HasEmbedding() {
				continue
			}
			width := len(c.Embedding())
			if result.Width == 0 {
				result.Width = width
			} else if width != result.Width {
				result.Consistent = false
			}
		}
	}
	return result, nil
}

// RetryFailedOptions filters which failed documents to retry.
type RetryFailedOptions struct {
	CollectionID string // empty means every collection
}

// RetryFailed flips every document with status=failed back to pending and
// clears its error message (spec §4.10).
func RetryFailed(ctx context.Context, store docstore.Store, opts RetryFailedOptions, reporter Reporter) (int, error) {
	if reporter == nil {
		reporter = Silent{}
	}

	failed, err := store.ListDocumentsByStatus(ctx, opts.CollectionID, document.StatusFailed)
	if err != nil {
		return 0, err
	}

	for i, d := range failed {
		if err := d.Transition(document.StatusPending); err != nil {
			return i, err
		}
		if err := store.UpdateDocument(ctx, d); err != nil {
			return i, err
		}
		reporter.Report(ctx, Event{Operation: "retry_failed", Current: i + 1, Total: len(failed)})
	}
	return len(failed), nil
}

// CleanupDeleted hard-deletes every document with status=deleted and its
// chunks (cascade), across every collection (spec §4.10).
func CleanupDeleted(ctx context.Context, store docstore.Store, reporter Reporter) (int, error) {
	if reporter == nil {
		reporter = Silent{}
	}

	deleted, err := store.ListDocumentsByStatus(ctx, "", document.StatusDeleted)
	if err != nil {
		return 0, err
	}

	for i, d := range deleted {
		if err := store.DeleteChunksForDocument(ctx, d.ID()); err != nil {
			return i, err
		}
		if err := store.DeleteDocument(ctx, d.ID()); err != nil {
			return i, err
		}
		reporter.Report(ctx, Event{Operation: "cleanup_deleted", Current: i + 1, Total: len(deleted)})
	}
	return len(deleted), nil
}
