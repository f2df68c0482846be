package ingest

import (
	"context"
	"sync"

	"github.com/tangerg/ragengine/queue"
)

// ChunkQueue is the bounded queue.Queue[ChunkJob] between the chunking and
// embedding stages, augmented with an outstanding-work counter so the
// pipeline knows exactly when it is safe to close the underlying channel:
// once every file has been chunked (producing is done) and every produced
// chunk has reached a terminal outcome (forwarded to the writer, or
// permanently failed — rate-limited retries stay outstanding, since they
// re-enter the same queue via Requeue without touching the counter).
type ChunkQueue struct {
	q          *queue.Queue[ChunkJob]
	outstanding sync.WaitGroup
}

func NewChunkQueue(capacity int) *ChunkQueue {
	return &ChunkQueue{q: queue.New[ChunkJob](capacity)}
}

// Submit enqueues a newly-chunked job, marking it outstanding.
func (c *ChunkQueue) Submit(ctx context.Context, job ChunkJob) error {
	c.outstanding.Add(1)
	return c.q.Produce(ctx, job)
}

// Consume pulls the next job for a worker to handle.
func (c *ChunkQueue) Consume(ctx context.Context) (ChunkJob, queue.ID, error) {
	return c.q.Consume(ctx)
}

// Requeue puts job back at the tail after a rate-limit backoff, without
// changing the outstanding count — it is the same logical unit of work,
// still in flight (spec §5: "Rate-limit backoffs re-enqueue the message at
// tail and release the worker immediately").
func (c *ChunkQueue) Requeue(ctx context.Context, id queue.ID, job ChunkJob) error {
	return c.q.Nack(ctx, id, job)
}

// Done marks one job as terminally resolved (forwarded or permanently
// dropped).
func (c *ChunkQueue) Done() { c.outstanding.Done() }

// CloseWhenDrained blocks until chunkDone has fired and every submitted job
// has reached a terminal outcome, then closes the underlying queue so
// workers blocked in Consume wake up and exit. Safe to call once.
func (c *ChunkQueue) CloseWhenDrained(chunkDone <-chan struct{}) {
	go func() {
		<-chunkDone
		c.outstanding.Wait()
		_ = c.q.Close()
	}()
}
