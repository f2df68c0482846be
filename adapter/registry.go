// Package adapter implements the Adapter Registry of spec §4.1: resolving a
// capability name ("embedder", "llm", "vector_store", "graph_store",
// "reranker", "chunker", "document_store") to a concrete implementation,
// with per-call override support.
package adapter

import (
	"sync"

	"github.com/tangerg/ragengine/ragerr"
)

// Capability is one of the well-known names resolved by the registry.
type Capability string

const (
	CapabilityEmbedder      Capability = "embedder"
	CapabilityLLM           Capability = "llm"
	CapabilityVectorStore   Capability = "vector_store"
	CapabilityGraphStore    Capability = "graph_store"
	CapabilityReranker      Capability = "reranker"
	CapabilityChunker       Capability = "chunker"
	CapabilityDocumentStore Capability = "document_store"
)

// Registry holds process-wide defaults for each capability, plus named
// alternatives a caller can select via options or a per-call Context
// override. Resolution never mutates shared state; Resolve is a pure
// function over the registry's current snapshot (spec §4.1: "Resolution is
// a pure function").
//
// Mirrors the teacher's tool.Registry (ai/model/chat/tool/registry.go) in
// its concurrency shape, generalized from a single flat name->value map to
// a two-level capability->name->value map plus a capability->default name.
type Registry struct {
	mu       sync.RWMutex
	impls    map[Capability]map[string]any
	defaults map[Capability]string
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		impls:    make(map[Capability]map[string]any),
		defaults: make(map[Capability]string),
	}
}

// Register adds a named implementation for a capability. The first
// implementation registered for a capability becomes its process-wide
// default unless SetDefault is called explicitly.
func (r *Registry) Register(cap Capability, name string, impl any) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.impls[cap] == nil {
		r.impls[cap] = make(map[string]any)
	}
	r.impls[cap][name] = impl
	if _, ok := r.defaults[cap]; !ok {
		r.defaults[cap] = name
	}
}

// SetDefault designates which named implementation Resolve should return
// for a capability when the caller supplies no override.
func (r *Registry) SetDefault(cap Capability, name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.defaults[cap] = name
}

// Options carries a per-call override: a specific name within a capability,
// taking priority over the capability's default.
type Options struct {
	// Override, if non-empty, names the implementation to use for one
	// specific call, bypassing defaults entirely.
	Override string
}

// Resolve returns the implementation named by opts.Override when one is
// given, and otherwise the capability's default: the first implementation
// registered, unless SetDefault named another. These are the only two
// levels. An unknown override name, or a default naming an unregistered
// implementation, returns no_adapter without falling back to any other
// registered implementation.
func (r *Registry) Resolve(cap Capability, opts *Options) (any, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := r.impls[cap]
	if len(names) == 0 {
		return nil, ragerr.NoAdapter(string(cap))
	}

	if opts != nil && opts.Override != "" {
		if impl, ok := names[opts.Override]; ok {
			return impl, nil
		}
		return nil, ragerr.NoAdapter(string(cap) + ":" + opts.Override)
	}

	if def, ok := r.defaults[cap]; ok {
		if impl, ok := names[def]; ok {
			return impl, nil
		}
	}

	return nil, ragerr.NoAdapter(string(cap))
}

// Names returns the registered implementation names for a capability.
func (r *Registry) Names(cap Capability) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.impls[cap]))
	for name := range r.impls[cap] {
		out = append(out, name)
	}
	return out
}
