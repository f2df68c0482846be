package rag

import (
	"context"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/tangerg/ragengine/embedder"
	"github.com/tangerg/ragengine/graphstore"
	"github.com/tangerg/ragengine/telemetry"
	"github.com/tangerg/ragengine/vectorstore"
	"github.com/tangerg/ragengine/vectorstore/filter"
)

// RetrieverMode selects which retrieval strategy to run.
type RetrieverMode string

const (
	RetrieveVector   RetrieverMode = "vector"
	RetrieveFulltext RetrieverMode = "fulltext"
	RetrieveHybrid   RetrieverMode = "hybrid"
	RetrieveGraph    RetrieverMode = "graph"
)

// GraphMode selects one of the graph retriever's three strategies
// (spec §4.4).
type GraphMode string

const (
	GraphLocal  GraphMode = "local"
	GraphGlobal GraphMode = "global"
	GraphHybrid GraphMode = "hybrid"
)

// RetrieveOptions configures one Retrieve call.
type RetrieveOptions struct {
	Mode       RetrieverMode
	GraphMode  GraphMode
	K          int
	Metric     vectorstore.Metric
	Filter     filter.Expr
	MinScore   float64
	Alpha      float64 // hybrid vector/fulltext weight, default 0.5
	GraphID    string
	GraphDepth int // local graph retriever BFS depth, default 2
}

func (o RetrieveOptions) k() int {
	if o.K > 0 {
		return o.K
	}
	return 10
}

func (o RetrieveOptions) alpha() float64 {
	if o.Alpha > 0 {
		return o.Alpha
	}
	return 0.5
}

func (o RetrieveOptions) graphDepth() int {
	if o.GraphDepth > 0 {
		return o.GraphDepth
	}
	return 2
}

// Composer runs the dense/full-text/graph retrievers and merges their
// output (spec §4.4).
type Composer struct {
	Embedder   embedder.Provider
	VectorIdx  string
	Store      vectorstore.Store
	GraphStore graphstore.Store
	Reporter   telemetry.Reporter
}

func NewComposer(emb embedder.Provider, indexID string, store vectorstore.Store, graphStore graphstore.Store, reporter telemetry.Reporter) *Composer {
	if reporter == nil {
		reporter = telemetry.Silent{}
	}
	return &Composer{Embedder: emb, VectorIdx: indexID, Store: store, GraphStore: graphStore, Reporter: reporter}
}

// Retrieve runs the retrievers named by opts.Mode (dense, fulltext, hybrid
// of those two, or graph) against query and returns the ranked results.
// Hybrid mode scores each id as alpha times its vector score plus (1-alpha)
// times its full-text score; graph hybrid mode merges local and global
// results by id keeping the maximum score (spec §4.4).
func (c *Composer) Retrieve(ctx context.Context, query string, opts RetrieveOptions) ([]Result, error) {
	switch opts.Mode {
	case RetrieveFulltext:
		return c.fulltext(ctx, query, opts)
	case RetrieveHybrid:
		return c.hybrid(ctx, query, opts)
	case RetrieveGraph:
		return c.graph(ctx, query, opts)
	default:
		return c.dense(ctx, query, opts)
	}
}

func (c *Composer) dense(ctx context.Context, query string, opts RetrieveOptions) ([]Result, error) {
	span := telemetry.Start(ctx, c.Reporter, "rag.search", "rag.search.vector", map[string]any{"mode": "semantic", "k": opts.k()})

	emb, err := c.Embedder.Embed(ctx, query, embedder.Options{})
	if err != nil {
		span.Exception(err, nil)
		return nil, err
	}

	hits, err := c.Store.Search(ctx, c.VectorIdx, emb.Vector, opts.k(), vectorstore.SearchOptions{
		Metric: opts.Metric, Filter: opts.Filter, MinScore: opts.MinScore, Mode: vectorstore.ModeVector,
	})
	if err != nil {
		span.Exception(err, nil)
		return nil, err
	}

	out := make([]Result, len(hits))
	for i, h := range hits {
		out[i] = Result{ID: h.ID, Score: h.Score, Metadata: h.Metadata, Source: SourceVector}
	}
	span.Stop(map[string]any{"result_count": len(out)})
	return out, nil
}

func (c *Composer) fulltext(ctx context.Context, query string, opts RetrieveOptions) ([]Result, error) {
	span := telemetry.Start(ctx, c.Reporter, "rag.search", "rag.search.fulltext", map[string]any{"mode": "fulltext", "k": opts.k()})

	ft, ok := c.Store.(vectorstore.FulltextCapable)
	if !ok {
		err := errNoFulltext
		span.Exception(err, nil)
		return nil, err
	}

	hits, err := ft.FulltextSearch(ctx, c.VectorIdx, andOfTerms(query), opts.k(), vectorstore.FulltextOptions{Filter: opts.Filter})
	if err != nil {
		span.Exception(err, nil)
		return nil, err
	}

	out := make([]Result, len(hits))
	for i, h := range hits {
		out[i] = Result{ID: h.ID, Score: h.Score, Metadata: h.Metadata, Source: SourceFulltext}
	}
	span.Stop(map[string]any{"result_count": len(out)})
	return out, nil
}

// andOfTerms tokenizes a free-text query into an AND-of-terms expression,
// per spec §4.4 ("tokenize query into an AND-of-terms expression"). Real
// proximity/phrase handling belongs to the store's full-text capability.
func andOfTerms(query string) string {
	fields := strings.Fields(query)
	return strings.Join(fields, " AND ")
}

func (c *Composer) hybrid(ctx context.Context, query string, opts RetrieveOptions) ([]Result, error) {
	var vecResults, ftResults []Result
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		vecResults, err = c.dense(gctx, query, opts)
		return err
	})
	g.Go(func() error {
		var err error
		ftResults, err = c.fulltext(gctx, query, opts)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	alpha := opts.alpha()
	byID := make(map[string]*Result)
	for _, r := range vecResults {
		v := r
		v.Score = alpha * r.Score
		v.Source = SourceVector
		byID[r.ID] = &v
	}
	for _, r := range ftResults {
		if existing, ok := byID[r.ID]; ok {
			existing.Score += (1 - alpha) * r.Score
			continue
		}
		v := r
		v.Score = (1 - alpha) * r.Score
		byID[r.ID] = &v
	}

	out := make([]Result, 0, len(byID))
	for _, r := range byID {
		r.Source = SourceHybrid
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	if len(out) > opts.k() {
		out = out[:opts.k()]
	}
	return out, nil
}

func (c *Composer) graph(ctx context.Context, query string, opts RetrieveOptions) ([]Result, error) {
	switch opts.GraphMode {
	case GraphGlobal:
		return c.graphGlobal(ctx, query, opts)
	case GraphHybrid:
		local, err := c.graphLocal(ctx, query, opts)
		if err != nil {
			return nil, err
		}
		global, err := c.graphGlobal(ctx, query, opts)
		if err != nil {
			return nil, err
		}
		return Merge(local, global), nil
	default:
		return c.graphLocal(ctx, query, opts)
	}
}

func (c *Composer) graphLocal(ctx context.Context, query string, opts RetrieveOptions) ([]Result, error) {
	span := telemetry.Start(ctx, c.Reporter, "rag.search", "rag.search.graph_local", map[string]any{"k": opts.k()})

	searcher, ok := c.GraphStore.(graphstore.EntitySearchCapable)
	if !ok {
		err := errNoGraphSearch
		span.Exception(err, nil)
		return nil, err
	}
	traverser, ok := c.GraphStore.(graphstore.TraversalCapable)
	if !ok {
		err := errNoGraphTraversal
		span.Exception(err, nil)
		return nil, err
	}

	emb, err := c.Embedder.Embed(ctx, query, embedder.Options{})
	if err != nil {
		span.Exception(err, nil)
		return nil, err
	}

	seeds, err := searcher.SearchByVector(ctx, opts.GraphID, emb.Vector, opts.k())
	if err != nil {
		span.Exception(err, nil)
		return nil, err
	}

	// BFS returns nodes ordered by increasing distance from the seed, so a
	// neighbor's position in that slice stands in for its hop count.
	type ranked struct {
		node Result
		hop  int
	}
	seen := make(map[string]ranked)
	for _, n := range seeds {
		seen[n.ID] = ranked{node: nodeResult(n, SourceGraphLocal), hop: 0}
	}
	for _, n := range seeds {
		hops, err := traverser.BFS(ctx, opts.GraphID, n.ID, opts.graphDepth())
		if err != nil {
			continue
		}
		for i, neighbor := range hops {
			if _, exists := seen[neighbor.ID]; exists {
				continue
			}
			seen[neighbor.ID] = ranked{node: nodeResult(neighbor, SourceGraphLocal), hop: i + 1}
		}
	}

	out := make([]Result, 0, len(seen))
	for _, r := range seen {
		out = append(out, r.node)
	}
	sort.SliceStable(out, func(i, j int) bool {
		hi, hj := seen[out[i].ID].hop, seen[out[j].ID].hop
		if hi != hj {
			return hi < hj
		}
		return out[i].Score > out[j].Score
	})
	if len(out) > opts.k() {
		out = out[:opts.k()]
	}
	span.Stop(map[string]any{"result_count": len(out)})
	return out, nil
}

func (c *Composer) graphGlobal(ctx context.Context, query string, opts RetrieveOptions) ([]Result, error) {
	span := telemetry.Start(ctx, c.Reporter, "rag.search", "rag.search.graph_global", map[string]any{"k": opts.k()})

	communityStore, ok := c.GraphStore.(graphstore.CommunityCapable)
	if !ok {
		err := errNoCommunitySearch
		span.Exception(err, nil)
		return nil, err
	}

	emb, err := c.Embedder.Embed(ctx, query, embedder.Options{})
	if err != nil {
		span.Exception(err, nil)
		return nil, err
	}

	communities, err := communityStore.SearchCommunitiesByVector(ctx, opts.GraphID, emb.Vector, opts.k())
	if err != nil {
		span.Exception(err, nil)
		return nil, err
	}

	out := make([]Result, len(communities))
	for i, c := range communities {
		out[i] = Result{ID: c.ID, Content: c.Summary, Score: 1, Source: SourceGraphGlobal, Metadata: map[string]any{"level": c.Level, "member_count": len(c.Members)}}
	}
	span.Stop(map[string]any{"result_count": len(out)})
	return out, nil
}

func nodeResult(n graphstore.Node, source Source) Result {
	return Result{
		ID:      n.ID,
		Content: n.Description,
		Score:   1,
		Source:  source,
		Metadata: map[string]any{
			"name": n.Name,
			"type": n.Type,
		},
	}
}

// Merge deduplicates result sets by id, keeping the entry with the maximum
// score across all sets (spec §4.4's merge policy). Distance-based scores
// must already be normalized to "higher is better" before calling Merge.
func Merge(sets ...[]Result) []Result {
	byID := make(map[string]Result)
	var order []string
	for _, set := range sets {
		for _, r := range set {
			existing, ok := byID[r.ID]
			if !ok {
				byID[r.ID] = r
				order = append(order, r.ID)
				continue
			}
			if r.Score > existing.Score {
				byID[r.ID] = r
			}
		}
	}
	out := make([]Result, 0, len(order))
	for _, id := range order {
		out = append(out, byID[id])
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}
