package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tangerg/ragengine/graphstore"
)

func seedPath(t *testing.T, s *Store) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, s.CreateGraph(ctx, "g"))
	for _, n := range []graphstore.Node{
		{ID: "a", Name: "A"},
		{ID: "b", Name: "B"},
		{ID: "c", Name: "C"},
	} {
		require.NoError(t, s.CreateNode(ctx, "g", n))
	}
	for _, e := range []graphstore.Edge{
		{ID: "ab", Source: "a", Target: "b", Type: "knows"},
		{ID: "bc", Source: "b", Target: "c", Type: "knows"},
	} {
		require.NoError(t, s.CreateEdge(ctx, "g", e))
	}
}

func TestGetNeighborsIsUndirected(t *testing.T) {
	s := New()
	seedPath(t, s)
	ctx := context.Background()

	neighbors, err := s.GetNeighbors(ctx, "g", "b")
	require.NoError(t, err)
	ids := make([]string, 0, len(neighbors))
	for _, n := range neighbors {
		ids = append(ids, n.ID)
	}
	assert.ElementsMatch(t, []string{"a", "c"}, ids)
}

func TestBFSRespectsDepth(t *testing.T) {
	s := New()
	seedPath(t, s)
	ctx := context.Background()

	depth1, err := s.BFS(ctx, "g", "a", 1)
	require.NoError(t, err)
	require.Len(t, depth1, 1)
	assert.Equal(t, "b", depth1[0].ID)

	depth2, err := s.BFS(ctx, "g", "a", 2)
	require.NoError(t, err)
	ids := make([]string, 0, len(depth2))
	for _, n := range depth2 {
		ids = append(ids, n.ID)
	}
	assert.ElementsMatch(t, []string{"b", "c"}, ids)
}

func TestShortestPath(t *testing.T) {
	s := New()
	seedPath(t, s)
	ctx := context.Background()

	path, err := s.ShortestPath(ctx, "g", "a", "c")
	require.NoError(t, err)
	ids := make([]string, 0, len(path))
	for _, n := range path {
		ids = append(ids, n.ID)
	}
	assert.Equal(t, []string{"a", "b", "c"}, ids)
}

func TestShortestPathNoPath(t *testing.T) {
	s := New()
	ctx := context.Background()
	require.NoError(t, s.CreateGraph(ctx, "g"))
	require.NoError(t, s.CreateNode(ctx, "g", graphstore.Node{ID: "x"}))
	require.NoError(t, s.CreateNode(ctx, "g", graphstore.Node{ID: "y"}))

	_, err := s.ShortestPath(ctx, "g", "x", "y")
	assert.Error(t, err)
}

func TestSearchByVectorRanksBySimilarity(t *testing.T) {
	s := New()
	ctx := context.Background()
	require.NoError(t, s.CreateGraph(ctx, "g"))
	require.NoError(t, s.CreateNode(ctx, "g", graphstore.Node{ID: "a", Embedding: []float32{1, 0}}))
	require.NoError(t, s.CreateNode(ctx, "g", graphstore.Node{ID: "b", Embedding: []float32{0, 1}}))
	require.NoError(t, s.CreateNode(ctx, "g", graphstore.Node{ID: "c"})) // no embedding, excluded

	results, err := s.SearchByVector(ctx, "g", []float32{1, 0}, 5)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "a", results[0].ID)
	assert.Equal(t, "b", results[1].ID)
}

func TestGetSubgraphFiltersEdgesToMemberSet(t *testing.T) {
	s := New()
	seedPath(t, s)
	ctx := context.Background()

	nodes, edges, err := s.GetSubgraph(ctx, "g", []string{"a", "b"})
	require.NoError(t, err)
	assert.Len(t, nodes, 2)
	require.Len(t, edges, 1)
	assert.Equal(t, "ab", edges[0].ID)
}

func TestCommunityCRUDAndSearch(t *testing.T) {
	s := New()
	ctx := context.Background()
	require.NoError(t, s.CreateGraph(ctx, "g"))

	require.NoError(t, s.CreateCommunity(ctx, "g", graphstore.Community{
		ID: "c1", Level: 0, Members: []string{"a", "b"}, Embedding: []float32{1, 0},
	}))
	require.NoError(t, s.CreateCommunity(ctx, "g", graphstore.Community{
		ID: "c2", Level: 0, Members: []string{"c"}, Embedding: []float32{0, 1},
	}))

	list, err := s.ListCommunities(ctx, "g", 0)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	members, err := s.GetCommunityMembers(ctx, "g", "c1")
	require.NoError(t, err)
	ids := make([]string, 0, len(members))
	for _, m := range members {
		ids = append(ids, m.ID)
	}
	assert.ElementsMatch(t, []string{"a", "b"}, ids)

	found, err := s.SearchCommunitiesByVector(ctx, "g", []float32{1, 0}, 1)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "c1", found[0].ID)

	require.NoError(t, s.UpdateCommunitySummary(ctx, "g", "c1", "summary text", []float32{0.5, 0.5}))
	updated, err := s.ListCommunities(ctx, "g", 0)
	require.NoError(t, err)
	for _, c := range updated {
		if c.ID == "c1" {
			assert.Equal(t, "summary text", c.Summary)
		}
	}

	require.NoError(t, s.DeleteCommunity(ctx, "g", "c2"))
	list, err = s.ListCommunities(ctx, "g", 0)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestOperationsOnUnknownGraphReturnNotFound(t *testing.T) {
	s := New()
	ctx := context.Background()
	_, err := s.GetNeighbors(ctx, "missing", "x")
	assert.Error(t, err)
}

func TestDeleteGraphRemovesAllState(t *testing.T) {
	s := New()
	seedPath(t, s)
	ctx := context.Background()

	require.NoError(t, s.DeleteGraph(ctx, "g"))
	_, err := s.AllNodes(ctx, "g")
	assert.Error(t, err)
}
