// Package memory is the in-memory Graph Store adapter, grounded in shape on
// vectorstore/memory: one mutex-guarded adjacency list per graph, arena+index
// identifiers rather than pointer chains (spec §9: "Graph cycles ... use
// arena+index identifiers").
package memory

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/tangerg/ragengine/graphstore"
	"github.com/tangerg/ragengine/ragerr"
)

type graph struct {
	mu         sync.Mutex
	nodes      map[string]graphstore.Node
	edges      map[string]graphstore.Edge
	outAdj     map[string][]string // nodeID -> edge ids leaving it
	inAdj      map[string][]string // nodeID -> edge ids entering it
	communities map[string]graphstore.Community
}

func newGraph() *graph {
	return &graph{
		nodes:       make(map[string]graphstore.Node),
		edges:       make(map[string]graphstore.Edge),
		outAdj:      make(map[string][]string),
		inAdj:       make(map[string][]string),
		communities: make(map[string]graphstore.Community),
	}
}

// Store implements graphstore.Store plus its optional capability
// interfaces, entirely in memory.
type Store struct {
	mu     sync.RWMutex
	graphs map[string]*graph
}

var (
	_ graphstore.Store               = (*Store)(nil)
	_ graphstore.CommunityCapable    = (*Store)(nil)
	_ graphstore.EntitySearchCapable = (*Store)(nil)
	_ graphstore.TraversalCapable    = (*Store)(nil)
	_ graphstore.GraphReader         = (*Store)(nil)
)

func New() *Store {
	return &Store{graphs: make(map[string]*graph)}
}

func (s *Store) CreateGraph(_ context.Context, graphID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.graphs[graphID]; !ok {
		s.graphs[graphID] = newGraph()
	}
	return nil
}

func (s *Store) DeleteGraph(_ context.Context, graphID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.graphs, graphID)
	return nil
}

func (s *Store) get(graphID string) (*graph, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.graphs[graphID]
	if !ok {
		return nil, ragerr.NotFound("graph " + graphID)
	}
	return g, nil
}

func (s *Store) CreateNode(_ context.Context, graphID string, node graphstore.Node) error {
	g, err := s.get(graphID)
	if err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.nodes[node.ID] = node
	return nil
}

func (s *Store) CreateEdge(_ context.Context, graphID string, edge graphstore.Edge) error {
	g, err := s.get(graphID)
	if err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.edges[edge.ID] = edge
	g.outAdj[edge.Source] = append(g.outAdj[edge.Source], edge.ID)
	g.inAdj[edge.Target] = append(g.inAdj[edge.Target], edge.ID)
	return nil
}

func (s *Store) GetNeighbors(_ context.Context, graphID string, nodeID string) ([]graphstore.Node, error) {
	g, err := s.get(graphID)
	if err != nil {
		return nil, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return neighborsLocked(g, nodeID), nil
}

func neighborsLocked(g *graph, nodeID string) []graphstore.Node {
	seen := make(map[string]bool)
	var out []graphstore.Node
	for _, eid := range g.outAdj[nodeID] {
		e := g.edges[eid]
		if !seen[e.Target] {
			seen[e.Target] = true
			if n, ok := g.nodes[e.Target]; ok {
				out = append(out, n)
			}
		}
	}
	for _, eid := range g.inAdj[nodeID] {
		e := g.edges[eid]
		if !seen[e.Source] {
			seen[e.Source] = true
			if n, ok := g.nodes[e.Source]; ok {
				out = append(out, n)
			}
		}
	}
	return out
}

func (s *Store) Query(_ context.Context, graphID string, _ string, _ map[string]any) (any, error) {
	_, err := s.get(graphID)
	if err != nil {
		return nil, err
	}
	// The in-memory backend doesn't speak Cypher; it exists for tests and
	// exercises the typed methods instead. A real graph database driver
	// would execute the query server-side.
	return nil, ragerr.ProviderError("memory graph store does not support Query", nil)
}

func (s *Store) AllNodes(_ context.Context, graphID string) ([]graphstore.Node, error) {
	g, err := s.get(graphID)
	if err != nil {
		return nil, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]graphstore.Node, 0, len(g.nodes))
	for _, n := range g.nodes {
		out = append(out, n)
	}
	return out, nil
}

func (s *Store) AllEdges(_ context.Context, graphID string) ([]graphstore.Edge, error) {
	g, err := s.get(graphID)
	if err != nil {
		return nil, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]graphstore.Edge, 0, len(g.edges))
	for _, e := range g.edges {
		out = append(out, e)
	}
	return out, nil
}

func (s *Store) EnsureVectorIndex(_ context.Context, graphID string, _ int) error {
	_, err := s.get(graphID)
	return err
}

func (s *Store) SearchByVector(_ context.Context, graphID string, vector []float32, k int) ([]graphstore.Node, error) {
	g, err := s.get(graphID)
	if err != nil {
		return nil, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	type scored struct {
		n graphstore.Node
		s float64
	}
	var list []scored
	for _, n := range g.nodes {
		if len(n.Embedding) == 0 {
			continue
		}
		list = append(list, scored{n, cosine(vector, n.Embedding)})
	}
	sort.Slice(list, func(i, j int) bool { return list[i].s > list[j].s })
	if k > 0 && len(list) > k {
		list = list[:k]
	}
	out := make([]graphstore.Node, len(list))
	for i, sc := range list {
		out[i] = sc.n
	}
	return out, nil
}

func (s *Store) BFS(_ context.Context, graphID string, startID string, depth int) ([]graphstore.Node, error) {
	g, err := s.get(graphID)
	if err != nil {
		return nil, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	visited := map[string]bool{startID: true}
	frontier := []string{startID}
	var out []graphstore.Node

	for d := 0; d < depth && len(frontier) > 0; d++ {
		var next []string
		for _, id := range frontier {
			for _, n := range neighborsLocked(g, id) {
				if visited[n.ID] {
					continue
				}
				visited[n.ID] = true
				out = append(out, n)
				next = append(next, n.ID)
			}
		}
		frontier = next
	}
	return out, nil
}

func (s *Store) NHopNeighbors(ctx context.Context, graphID string, nodeID string, hops int) ([]graphstore.Node, error) {
	return s.BFS(ctx, graphID, nodeID, hops)
}

func (s *Store) GetSubgraph(_ context.Context, graphID string, nodeIDs []string) ([]graphstore.Node, []graphstore.Edge, error) {
	g, err := s.get(graphID)
	if err != nil {
		return nil, nil, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	want := make(map[string]bool, len(nodeIDs))
	for _, id := range nodeIDs {
		want[id] = true
	}
	var nodes []graphstore.Node
	for _, id := range nodeIDs {
		if n, ok := g.nodes[id]; ok {
			nodes = append(nodes, n)
		}
	}
	var edges []graphstore.Edge
	for _, e := range g.edges {
		if want[e.Source] && want[e.Target] {
			edges = append(edges, e)
		}
	}
	return nodes, edges, nil
}

func (s *Store) ShortestPath(_ context.Context, graphID string, fromID, toID string) ([]graphstore.Node, error) {
	g, err := s.get(graphID)
	if err != nil {
		return nil, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	if fromID == toID {
		if n, ok := g.nodes[fromID]; ok {
			return []graphstore.Node{n}, nil
		}
		return nil, ragerr.NotFound("node " + fromID)
	}

	type item struct {
		id   string
		path []string
	}
	visited := map[string]bool{fromID: true}
	queue := []item{{id: fromID, path: []string{fromID}}}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, n := range neighborsLocked(g, cur.id) {
			if visited[n.ID] {
				continue
			}
			visited[n.ID] = true
			path := append(append([]string{}, cur.path...), n.ID)
			if n.ID == toID {
				out := make([]graphstore.Node, 0, len(path))
				for _, id := range path {
					out = append(out, g.nodes[id])
				}
				return out, nil
			}
			queue = append(queue, item{id: n.ID, path: path})
		}
	}
	return nil, ragerr.NotFound("no path from " + fromID + " to " + toID)
}

func cosine(a, b []float32) float64 {
	if len(a) == 0 || len(b) == 0 || len(a) != len(b) {
		return 0
	}
	var dotP, na, nb float64
	for i := range a {
		dotP += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dotP / (math.Sqrt(na) * math.Sqrt(nb))
}
