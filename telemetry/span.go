// Package telemetry provides the span primitive used across the engine's
// subsystems (embedder, llm, vector_store, rag.step, rag.search, rag.rerank,
// rag.self_correct). A span emits a start event, then exactly one of stop or
// exception, carrying consistent metadata per subsystem.
package telemetry

import (
	"context"
	"time"
)

// Event is one point in a span's lifecycle.
type Event struct {
	Namespace string // e.g. "rag.search"
	Name      string // e.g. "llm.complete"
	Phase     Phase
	Meta      map[string]any
	Duration  time.Duration // set only on Phase == PhaseStop or PhaseException
	Err       error         // set only on Phase == PhaseException
}

type Phase string

const (
	PhaseStart     Phase = "start"
	PhaseStop      Phase = "stop"
	PhaseException Phase = "exception"
)

// Reporter is the sink a span emits events to. Implementations must not
// block the caller for long; the built-in reporters are synchronous but
// cheap (format + write).
type Reporter interface {
	Report(ctx context.Context, ev Event)
}

// Span wraps one start/stop/exception triple. Zero value is not usable;
// create with Start.
type Span struct {
	reporter  Reporter
	namespace string
	name      string
	meta      map[string]any
	begun     time.Time
	ctx       context.Context
	done      bool
}

// Start emits the start event and returns a Span that must be closed with
// Stop or Exception exactly once.
func Start(ctx context.Context, r Reporter, namespace, name string, meta map[string]any) *Span {
	s := &Span{
		reporter:  r,
		namespace: namespace,
		name:      name,
		meta:      meta,
		begun:     time.Now(),
		ctx:       ctx,
	}
	if r != nil {
		r.Report(ctx, Event{Namespace: namespace, Name: name, Phase: PhaseStart, Meta: meta})
	}
	return s
}

// Stop emits the stop event, merging extra metadata (e.g. result_count) on
// top of the metadata supplied to Start.
func (s *Span) Stop(extra map[string]any) {
	if s == nil || s.done {
		return
	}
	s.done = true
	if s.reporter == nil {
		return
	}
	s.reporter.Report(s.ctx, Event{
		Namespace: s.namespace,
		Name:      s.name,
		Phase:     PhaseStop,
		Meta:      merge(s.meta, extra),
		Duration:  time.Since(s.begun),
	})
}

// Exception emits the exception event, carrying err in the event's Err
// field and merging extra metadata on top of the metadata supplied to Start.
func (s *Span) Exception(err error, extra map[string]any) {
	if s == nil || s.done {
		return
	}
	s.done = true
	if s.reporter == nil {
		return
	}
	s.reporter.Report(s.ctx, Event{
		Namespace: s.namespace,
		Name:      s.name,
		Phase:     PhaseException,
		Meta:      merge(s.meta, extra),
		Duration:  time.Since(s.begun),
		Err:       err,
	})
}

func merge(base, extra map[string]any) map[string]any {
	out := make(map[string]any, len(base)+len(extra))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range extra {
		out[k] = v
	}
	return out
}
