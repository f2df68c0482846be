package ingest

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/tangerg/ragengine/telemetry"
	"github.com/tangerg/ragengine/vectorstore"
)

// WriterConfig configures the batched vector-store writer (spec §4.9: flush
// "when batch_size embeddings have accumulated or batch_timeout has
// elapsed, whichever comes first").
type WriterConfig struct {
	IndexID      string
	BatchSize    int           // default 100
	BatchTimeout time.Duration // default 2s
	Store        vectorstore.Store
}

func (c WriterConfig) batchSize() int {
	if c.BatchSize > 0 {
		return c.BatchSize
	}
	return 100
}

func (c WriterConfig) batchTimeout() time.Duration {
	if c.BatchTimeout > 0 {
		return c.BatchTimeout
	}
	return 2 * time.Second
}

// ChunkItemID builds the deterministic store item id for a chunk, so
// re-ingesting the same source is idempotent (spec §5: "<source8>:
// <chunk_index>:<content8>", each piece an 8-hex-char md5 prefix).
func ChunkItemID(sourcePath string, chunkIndex int, content string) string {
	return fmt.Sprintf("%s:%d:%s", md5Prefix8(sourcePath), chunkIndex, md5Prefix8(content))
}

func md5Prefix8(s string) string {
	sum := md5.Sum([]byte(s))
	return hex.EncodeToString(sum[:])[:8]
}

// Writer accumulates EmbeddedChunks off in and flushes them to the vector
// store in batches, either once BatchSize items have accumulated or
// BatchTimeout has elapsed since the first unflushed item, whichever comes
// first (spec §4.9). Returns once in is closed and the final partial batch,
// if any, has been flushed.
func Writer(ctx context.Context, in <-chan EmbeddedChunk, cfg WriterConfig, reporter telemetry.Reporter, onFailure func(Failure)) {
	if reporter == nil {
		reporter = telemetry.Silent{}
	}

	batch := make([]EmbeddedChunk, 0, cfg.batchSize())
	var timer *time.Timer
	var timerC <-chan time.Time

	flush := func() {
		if len(batch) == 0 {
			return
		}
		flushBatch(ctx, cfg, reporter, onFailure, batch)
		batch = batch[:0]
		if timer != nil {
			timer.Stop()
			timer = nil
			timerC = nil
		}
	}

	for {
		select {
		case chunk, ok := <-in:
			if !ok {
				flush()
				return
			}
			batch = append(batch, chunk)
			if timer == nil {
				timer = time.NewTimer(cfg.batchTimeout())
				timerC = timer.C
			}
			if len(batch) >= cfg.batchSize() {
				flush()
			}
		case <-timerC:
			flush()
		case <-ctx.Done():
			flush()
			return
		}
	}
}

func flushBatch(ctx context.Context, cfg WriterConfig, reporter telemetry.Reporter, onFailure func(Failure), batch []EmbeddedChunk) {
	span := telemetry.Start(ctx, reporter, "vector_store", "vector_store.store_batch", map[string]any{
		"index_id":   cfg.IndexID,
		"batch_size": len(batch),
	})

	items := make([]vectorstore.Item, len(batch))
	for i, c := range batch {
		items[i] = vectorstore.Item{
			ID:        ChunkItemID(c.SourcePath, c.ChunkIndex, c.Content),
			Embedding: c.Vector,
			Metadata:  chunkMetadata(c),
		}
	}

	if err := cfg.Store.StoreBatch(ctx, cfg.IndexID, items); err != nil {
		span.Exception(err, nil)
		for _, c := range batch {
			report(onFailure, Failure{Path: c.SourcePath, Reason: ReasonStoreError, Err: err})
		}
		return
	}
	span.Stop(nil)
}

func chunkMetadata(c EmbeddedChunk) map[string]any {
	meta := make(map[string]any, len(c.Metadata)+5)
	for k, v := range c.Metadata {
		meta[k] = v
	}
	meta["document_id"] = c.DocumentID
	meta["collection_id"] = c.CollectionID
	meta["source_path"] = c.SourcePath
	meta["chunk_index"] = c.ChunkIndex
	meta["content"] = c.Content
	return meta
}
