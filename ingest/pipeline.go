package ingest

import (
	"context"
	"sync"
	"time"

	"github.com/tangerg/ragengine/chunker"
	"github.com/tangerg/ragengine/embedder"
	"github.com/tangerg/ragengine/ratelimit"
	"github.com/tangerg/ragengine/telemetry"
	"github.com/tangerg/ragengine/vectorstore"
)

// Config wires together every stage of the Ingestion Pipeline (spec §4.9):
// Producer -> ChunkStage -> EmbedStage -> Writer, connected by bounded
// in-memory queues.
type Config struct {
	Source FileSource

	ChunkerCfg chunker.Config
	FormatFor  func(itemType string) chunker.Format
	Read       ReadFile

	Embedder         embedder.Provider
	Limiter          *ratelimit.Limiter
	EmbedderProvider string
	Dimensions       int

	IndexID      string
	Store        vectorstore.Store
	BatchSize    int
	BatchTimeout time.Duration

	ChunkWorkers  int
	EmbedWorkers  int
	QueueCapacity int // default 1000

	Reporter telemetry.Reporter
}

func (c Config) queueCapacity() int {
	if c.QueueCapacity > 0 {
		return c.QueueCapacity
	}
	return 1000
}

// Result summarizes one Run.
type Result struct {
	ItemsDiscovered int
	Failures        []Failure
}

// Run discovers items via cfg.Source and drives them through chunking,
// rate-limited embedding, and batched writing, blocking until every item
// has been discovered, processed, and written (or ctx is cancelled). Stage
// failures are accumulated in Result.Failures and never abort the run
// (spec §4.9, §7: "Failures are logged per file/chunk and do not stop the
// pipeline").
func Run(ctx context.Context, cfg Config) (Result, error) {
	reporter := cfg.Reporter
	if reporter == nil {
		reporter = telemetry.Silent{}
	}

	span := telemetry.Start(ctx, reporter, "rag.step", "ingest.run", map[string]any{"index_id": cfg.IndexID})

	items, err := cfg.Source.Discover(ctx)
	if err != nil {
		span.Exception(err, nil)
		return Result{}, err
	}

	var failures []Failure
	var failuresMu sync.Mutex
	onFailure := func(f Failure) {
		failuresMu.Lock()
		failures = append(failures, f)
		failuresMu.Unlock()
	}

	itemsCh := make(chan Item, len(items))
	for _, it := range items {
		itemsCh <- it
	}
	close(itemsCh)

	chunkQueue := NewChunkQueue(cfg.queueCapacity())
	embedded := make(chan EmbeddedChunk, cfg.queueCapacity())

	chunkCfg := ChunkStageConfig{
		Workers:    cfg.ChunkWorkers,
		ChunkerCfg: cfg.ChunkerCfg,
		FormatFor:  cfg.FormatFor,
		Read:       cfg.Read,
	}
	chunkDone := ChunkStage(ctx, itemsCh, chunkQueue, chunkCfg, reporter, onFailure)
	chunkQueue.CloseWhenDrained(chunkDone)

	embedCfg := EmbedStageConfig{
		Workers:    cfg.EmbedWorkers,
		Embedder:   cfg.Embedder,
		Limiter:    cfg.Limiter,
		Provider:   cfg.EmbedderProvider,
		Dimensions: cfg.Dimensions,
	}
	EmbedStage(ctx, chunkQueue, embedded, embedCfg, reporter, onFailure)

	writerCfg := WriterConfig{
		IndexID:      cfg.IndexID,
		BatchSize:    cfg.BatchSize,
		BatchTimeout: cfg.BatchTimeout,
		Store:        cfg.Store,
	}
	Writer(ctx, embedded, writerCfg, reporter, onFailure)

	span.Stop(map[string]any{"items_discovered": len(items), "failures": len(failures)})

	return Result{ItemsDiscovered: len(items), Failures: failures}, nil
}
