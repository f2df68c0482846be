package ingest

import (
	"context"
	"os"
	"sync"

	"github.com/tangerg/ragengine/chunker"
	"github.com/tangerg/ragengine/telemetry"
)

// ReadFile abstracts file access so tests can inject content without
// touching a real filesystem.
type ReadFile func(path string) (string, error)

// OSReadFile reads a file from disk.
func OSReadFile(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ChunkStageConfig configures the parsing+chunking processor (spec §4.9).
type ChunkStageConfig struct {
	Workers    int // default 10
	ChunkerCfg chunker.Config
	// FormatFor overrides which chunker.Format an Item's Type maps to;
	// defaults to treating Type as the Format name directly.
	FormatFor func(itemType string) chunker.Format
	Read      ReadFile
}

func (c ChunkStageConfig) workers() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return 10
}

func (c ChunkStageConfig) formatFor(itemType string) chunker.Format {
	if c.FormatFor != nil {
		return c.FormatFor(itemType)
	}
	return chunker.Format(itemType)
}

func (c ChunkStageConfig) read() ReadFile {
	if c.Read != nil {
		return c.Read
	}
	return OSReadFile
}

// ChunkStage pulls Items off in, reads and chunks each file's content with
// a pool of workers, and pushes one ChunkJob per resulting chunk onto out.
// Chunks from one file never reorder relative to each other, but files are
// interleaved across workers (spec §4.9, §5). A read or chunk failure on
// one file is reported via onFailure and does not stop the pipeline.
// Closes done once every worker has exited and no more jobs will be
// produced onto out, so callers can tell when to stop draining it.
func ChunkStage(ctx context.Context, in <-chan Item, out *ChunkQueue, cfg ChunkStageConfig, reporter telemetry.Reporter, onFailure func(Failure)) (done <-chan struct{}) {
	if reporter == nil {
		reporter = telemetry.Silent{}
	}
	doneCh := make(chan struct{})

	var wg sync.WaitGroup
	for i := 0; i < cfg.workers(); i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case item, ok := <-in:
					if !ok {
						return
					}
					processFile(ctx, item, cfg, reporter, out, onFailure)
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(doneCh)
	}()

	return doneCh
}

func processFile(ctx context.Context, item Item, cfg ChunkStageConfig, reporter telemetry.Reporter, out *ChunkQueue, onFailure func(Failure)) {
	span := telemetry.Start(ctx, reporter, "rag.step", "ingest.chunk", map[string]any{"path": item.Path})

	content, err := cfg.read()(item.Path)
	if err != nil {
		span.Exception(err, nil)
		report(onFailure, Failure{Path: item.Path, Reason: ReasonReadError, Err: err})
		return
	}

	chunkCfg := cfg.ChunkerCfg
	chunkCfg.Format = cfg.formatFor(item.Type)

	chunks, err := chunker.Dispatch(ctx, content, chunkCfg)
	if err != nil {
		span.Exception(err, nil)
		report(onFailure, Failure{Path: item.Path, Reason: ReasonChunkError, Err: err})
		return
	}

	for _, c := range chunks {
		job := ChunkJob{
			DocumentID:   item.DocumentID,
			CollectionID: item.CollectionID,
			SourcePath:   item.Path,
			Content:      c.Content,
			ChunkIndex:   c.Index,
			StartChar:    c.StartChar,
			EndChar:      c.EndChar,
			Metadata:     c.Metadata,
		}
		if err := out.Submit(ctx, job); err != nil {
			return
		}
	}
	span.Stop(map[string]any{"chunk_count": len(chunks)})
}

func report(onFailure func(Failure), f Failure) {
	if onFailure != nil {
		onFailure(f)
	}
}
