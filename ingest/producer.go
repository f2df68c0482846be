package ingest

import (
	"context"
	"path/filepath"
	"sort"
)

// FileSource discovers items to ingest, either by globbing a filesystem or
// by draining an in-memory queue of already-known items (spec §4.9:
// "discovers files matching glob patterns, or accepts items from an
// in-memory queue").
type FileSource interface {
	Discover(ctx context.Context) ([]Item, error)
}

// GlobSource discovers files matching Patterns, relative to Root, inferring
// each Item's Type from the file extension unless TypeOf is set.
type GlobSource struct {
	Root     string
	Patterns []string
	TypeOf   func(path string) string
}

func (g GlobSource) Discover(ctx context.Context) ([]Item, error) {
	var out []Item
	for _, pattern := range g.Patterns {
		full := pattern
		if g.Root != "" {
			full = filepath.Join(g.Root, pattern)
		}
		matches, err := filepath.Glob(full)
		if err != nil {
			return nil, err
		}
		for _, m := range matches {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			default:
			}
			out = append(out, Item{Path: m, Type: g.typeOf(m)})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return dedupByPath(out), nil
}

func (g GlobSource) typeOf(path string) string {
	if g.TypeOf != nil {
		return g.TypeOf(path)
	}
	switch filepath.Ext(path) {
	case ".md", ".markdown":
		return "markdown"
	default:
		return "text"
	}
}

func dedupByPath(items []Item) []Item {
	seen := make(map[string]bool, len(items))
	out := items[:0]
	for _, it := range items {
		if seen[it.Path] {
			continue
		}
		seen[it.Path] = true
		out = append(out, it)
	}
	return out
}

// StaticSource wraps a fixed, in-memory list of items, standing in for the
// "accepts items from an in-memory queue" half of spec §4.9's Producer.
type StaticSource []Item

func (s StaticSource) Discover(context.Context) ([]Item, error) { return s, nil }
