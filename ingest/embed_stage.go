package ingest

import (
	"context"
	"sync"

	"github.com/tangerg/ragengine/embedder"
	"github.com/tangerg/ragengine/queue"
	"github.com/tangerg/ragengine/ratelimit"
	"github.com/tangerg/ragengine/telemetry"
)

// EmbedStageConfig configures the rate-limited embedding processor (spec
// §4.9).
type EmbedStageConfig struct {
	Workers    int // default 10
	Embedder   embedder.Provider
	Limiter    *ratelimit.Limiter
	Provider   string // rate limiter key's provider component
	Dimensions int
}

func (c EmbedStageConfig) workers() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return 10
}

// EmbedStage pulls ChunkJobs off in, consults the rate limiter for
// (Provider, "embedding") before each call, and on success hands the
// embedded chunk to out. A rate-limited chunk is requeued at the tail with
// reason=rate_limited rather than treated as a pipeline error (spec §4.9,
// §5, §7). Closes out once every worker has exited.
func EmbedStage(ctx context.Context, in *ChunkQueue, out chan<- EmbeddedChunk, cfg EmbedStageConfig, reporter telemetry.Reporter, onFailure func(Failure)) {
	if reporter == nil {
		reporter = telemetry.Silent{}
	}

	var wg sync.WaitGroup
	for i := 0; i < cfg.workers(); i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				job, id, err := in.Consume(ctx)
				if err != nil {
					return // queue closed and drained, or ctx cancelled
				}
				embedOne(ctx, in, id, job, out, cfg, reporter, onFailure)
			}
		}()
	}

	go func() {
		wg.Wait()
		close(out)
	}()
}

func embedOne(ctx context.Context, q *ChunkQueue, id queue.ID, job ChunkJob, out chan<- EmbeddedChunk, cfg EmbedStageConfig, reporter telemetry.Reporter, onFailure func(Failure)) {
	span := telemetry.Start(ctx, reporter, "embedder", "embedder.embed", map[string]any{
		"provider":    cfg.Provider,
		"text_length": len(job.Content),
	})

	if cfg.Limiter != nil {
		decision := cfg.Limiter.Allow(ratelimit.Key{Provider: cfg.Provider, Operation: "embedding"})
		if !decision.Allowed {
			span.Stop(map[string]any{"rate_limited": true})
			if err := q.Requeue(ctx, id, job); err != nil {
				q.Done()
				report(onFailure, Failure{Path: job.SourcePath, Reason: ReasonRateLimited, Err: err})
				return
			}
			report(onFailure, Failure{Path: job.SourcePath, Reason: ReasonRateLimited})
			return
		}
	}

	result, err := cfg.Embedder.Embed(ctx, job.Content, embedder.Options{Dimensions: cfg.Dimensions})
	if err != nil {
		span.Exception(err, nil)
		q.Done()
		report(onFailure, Failure{Path: job.SourcePath, Reason: ReasonEmbedError, Err: err})
		return
	}

	span.Stop(map[string]any{"dimensions": result.Dimensions, "token_count": result.TokenCount})

	embedded := EmbeddedChunk{ChunkJob: job, Vector: result.Vector}
	select {
	case out <- embedded:
	case <-ctx.Done():
		q.Done()
		return
	}
	q.Done()
}
