// Package graphstore defines the Graph Store capability contract of spec
// §6, covering graph CRUD, community management, entity-vector search and
// traversal.
package graphstore

import "context"

// Node is an Entity materialized in the graph (spec §3's Entity).
type Node struct {
	ID          string
	Name        string
	Type        string
	Description string
	Embedding   []float32
}

// Edge is a Relationship between two Nodes (spec §3).
type Edge struct {
	ID          string
	Source      string // node id
	Target      string // node id
	Type        string
	Description string
}

// Community is a densely-connected subset of entities (spec §3).
type Community struct {
	ID        string
	Level     int
	Members   []string // entity ids
	Summary   string
	Embedding []float32
}

// Store is the Graph Store capability contract (spec §6).
type Store interface {
	CreateGraph(ctx context.Context, graphID string) error
	DeleteGraph(ctx context.Context, graphID string) error

	CreateNode(ctx context.Context, graphID string, node Node) error
	CreateEdge(ctx context.Context, graphID string, edge Edge) error
	GetNeighbors(ctx context.Context, graphID string, nodeID string) ([]Node, error)

	Query(ctx context.Context, graphID string, query string, params map[string]any) (any, error)
}

// CommunityCapable exposes community CRUD + community-vector-search, used by
// GraphRAG's summarizer and global/hybrid search (spec §4.8).
type CommunityCapable interface {
	CreateCommunity(ctx context.Context, graphID string, c Community) error
	ListCommunities(ctx context.Context, graphID string, level int) ([]Community, error)
	GetCommunityMembers(ctx context.Context, graphID string, communityID string) ([]Node, error)
	SearchCommunitiesByVector(ctx context.Context, graphID string, vector []float32, k int) ([]Community, error)
	DeleteCommunity(ctx context.Context, graphID string, communityID string) error
	UpdateCommunitySummary(ctx context.Context, graphID string, communityID string, summary string, embedding []float32) error
}

// EntitySearchCapable exposes entity-vector search for the local graph
// retriever (spec §4.4 "local" mode).
type EntitySearchCapable interface {
	SearchByVector(ctx context.Context, graphID string, vector []float32, k int) ([]Node, error)
	EnsureVectorIndex(ctx context.Context, graphID string, dimensions int) error
}

// TraversalCapable exposes BFS-family operations used by the local graph
// retriever (spec §4.4) and community hierarchy construction.
type TraversalCapable interface {
	BFS(ctx context.Context, graphID string, startID string, depth int) ([]Node, error)
	GetSubgraph(ctx context.Context, graphID string, nodeIDs []string) ([]Node, []Edge, error)
	ShortestPath(ctx context.Context, graphID string, fromID, toID string) ([]Node, error)
	NHopNeighbors(ctx context.Context, graphID string, nodeID string, hops int) ([]Node, error)
}

// GraphReader is a convenience aggregate used by community detection
// (spec §4.8 step 1: "Read all entities and edges for the graph"), not part
// of the external interface contract itself but implemented by the
// in-memory store and expected of any backend the engine drives directly.
type GraphReader interface {
	AllNodes(ctx context.Context, graphID string) ([]Node, error)
	AllEdges(ctx context.Context, graphID string) ([]Edge, error)
}
