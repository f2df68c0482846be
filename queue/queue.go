// Package queue implements the in-memory bounded producer/consumer queue
// that backs the Ingestion Pipeline (spec §4.9, §5, §9: "ETS in-memory
// queue becomes a concurrent bounded queue"). It is adapted from the
// teacher's core/broker package: the same Producer/Consumer/Broker
// three-method shape, generalized from a byte-payload message broker
// client (Kafka/Pulsar backed) to a generic typed in-process channel,
// since the concrete broker wire drivers are out of scope (spec §1) but
// the shape they gave the teacher's pipelines is exactly what an internal
// work queue needs.
package queue

import (
	"context"
	"sync"
)

// ID identifies one in-flight item for Ack/Nack, mirroring the teacher's
// message.ID.
type ID uint64

// Producer accepts new work items.
type Producer[T any] interface {
	Produce(ctx context.Context, items ...T) error
}

// Consumer pulls one item at a time and acknowledges or requeues it.
type Consumer[T any] interface {
	Consume(ctx context.Context) (T, ID, error)
	Ack(ctx context.Context, id ID) error
	// Nack requeues val at the tail of the queue and releases the worker
	// immediately (spec §5: "Rate-limit backoffs re-enqueue the message
	// (at tail) and release the worker immediately").
	Nack(ctx context.Context, id ID, val T) error
}

// Queue is a bounded, in-memory, single-process producer/consumer channel.
// There is no shared mutable data beyond the channel and a small id
// counter (spec §5: "no shared mutable data other than the queue").
type Queue[T any] struct {
	ch chan entry[T]

	mu     sync.Mutex
	nextID ID
	closed bool
}

type entry[T any] struct {
	id  ID
	val T
}

var (
	_ Producer[any] = (*Queue[any])(nil)
	_ Consumer[any] = (*Queue[any])(nil)
)

// New creates a Queue with the given buffer capacity. A producer blocks
// once the buffer is full, providing natural backpressure.
func New[T any](capacity int) *Queue[T] {
	if capacity <= 0 {
		capacity = 1
	}
	return &Queue[T]{ch: make(chan entry[T], capacity)}
}

func (q *Queue[T]) allocID() ID {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.nextID++
	return q.nextID
}

// Produce enqueues items at the tail, blocking if the queue is full or
// until ctx is cancelled.
func (q *Queue[T]) Produce(ctx context.Context, items ...T) error {
	for _, item := range items {
		e := entry[T]{id: q.allocID(), val: item}
		select {
		case q.ch <- e:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// Consume pulls the next item, or returns ctx.Err() if cancelled first.
func (q *Queue[T]) Consume(ctx context.Context) (T, ID, error) {
	select {
	case e, ok := <-q.ch:
		if !ok {
			var zero T
			return zero, 0, errClosed
		}
		return e.val, e.id, nil
	case <-ctx.Done():
		var zero T
		return zero, 0, ctx.Err()
	}
}

// Ack is a hook for symmetry with the Producer/Consumer contract; this
// queue has no outstanding-delivery tracking to clear, since a single
// worker either finishes a message or requeues it via Nack.
func (q *Queue[T]) Ack(context.Context, ID) error { return nil }

// Nack requeues val at the tail under a fresh id, matching the teacher's
// retry-by-resubmission pattern rather than in-place redelivery.
func (q *Queue[T]) Nack(ctx context.Context, _ ID, val T) error {
	return q.Produce(ctx, val)
}

// Close stops accepting new items. Safe to call once; Consume drains
// whatever remains buffered before reporting errClosed.
func (q *Queue[T]) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return nil
	}
	q.closed = true
	close(q.ch)
	return nil
}

// Len reports the number of items currently buffered, for tests and
// diagnostics.
func (q *Queue[T]) Len() int { return len(q.ch) }
