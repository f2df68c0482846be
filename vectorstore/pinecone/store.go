// Package pinecone adapts github.com/pinecone-io/go-pinecone/v4 to the
// vectorstore.Store contract. It is the second concrete vector_store
// capability the Adapter Registry can resolve, grounded on the teacher's
// vectorstores module (which vendors go-pinecone alongside qdrant/milvus)
// and kept intentionally thin: schema and dimensionality live with the
// caller, this adapter only translates calls.
package pinecone

import (
	"context"
	"fmt"

	"github.com/pinecone-io/go-pinecone/v4/pinecone"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/tangerg/ragengine/ragerr"
	"github.com/tangerg/ragengine/vectorstore"
)

// Store wraps one Pinecone index connection. Pinecone indexes are created
// out-of-band via the control plane; CreateIndex here only verifies the
// dimensionality the caller expects matches what Pinecone reports.
type Store struct {
	client *pinecone.Client
	conns  map[string]*pinecone.IndexConnection
}

var _ vectorstore.Store = (*Store)(nil)

func New(client *pinecone.Client) *Store {
	return &Store{client: client, conns: make(map[string]*pinecone.IndexConnection)}
}

func (s *Store) connection(ctx context.Context, indexID string) (*pinecone.IndexConnection, error) {
	if conn, ok := s.conns[indexID]; ok {
		return conn, nil
	}
	idx, err := s.client.DescribeIndex(ctx, indexID)
	if err != nil {
		return nil, ragerr.ProviderError("pinecone: describe_index", err)
	}
	conn, err := s.client.Index(pinecone.NewIndexConnParams{Host: idx.Host})
	if err != nil {
		return nil, ragerr.ProviderError("pinecone: index_connection", err)
	}
	s.conns[indexID] = conn
	return conn, nil
}

func (s *Store) CreateIndex(ctx context.Context, indexID string, spec vectorstore.IndexSpec) error {
	idx, err := s.client.DescribeIndex(ctx, indexID)
	if err != nil {
		return ragerr.ProviderError("pinecone: describe_index", err)
	}
	if spec.Dimensions > 0 && int(idx.Dimension) != spec.Dimensions {
		return ragerr.DimensionMismatch(spec.Dimensions, int(idx.Dimension))
	}
	return nil
}

func (s *Store) DeleteIndex(ctx context.Context, indexID string) error {
	return s.client.DeleteIndex(ctx, indexID)
}

func (s *Store) IndexExists(ctx context.Context, indexID string) (bool, error) {
	_, err := s.client.DescribeIndex(ctx, indexID)
	if err != nil {
		return false, nil
	}
	return true, nil
}

func (s *Store) IndexStats(ctx context.Context, indexID string) (vectorstore.IndexStats, error) {
	conn, err := s.connection(ctx, indexID)
	if err != nil {
		return vectorstore.IndexStats{}, err
	}
	stats, err := conn.DescribeIndexStats(ctx)
	if err != nil {
		return vectorstore.IndexStats{}, ragerr.ProviderError("pinecone: describe_index_stats", err)
	}
	return vectorstore.IndexStats{VectorCount: int(stats.TotalVectorCount)}, nil
}

func (s *Store) Store(ctx context.Context, indexID string, item vectorstore.Item) error {
	return s.StoreBatch(ctx, indexID, []vectorstore.Item{item})
}

func (s *Store) StoreBatch(ctx context.Context, indexID string, items []vectorstore.Item) error {
	conn, err := s.connection(ctx, indexID)
	if err != nil {
		return err
	}

	vecs := make([]*pinecone.Vector, 0, len(items))
	for _, item := range items {
		vecs = append(vecs, &pinecone.Vector{
			Id:       item.ID,
			Values:   &item.Embedding,
			Metadata: toMetadataStruct(item.Metadata),
		})
	}

	if _, err := conn.UpsertVectors(ctx, vecs); err != nil {
		return ragerr.ProviderError(fmt.Sprintf("pinecone: upsert %d vectors", len(vecs)), err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, indexID string, id string) error {
	conn, err := s.connection(ctx, indexID)
	if err != nil {
		return err
	}
	if err := conn.DeleteVectorsById(ctx, []string{id}); err != nil {
		return ragerr.ProviderError("pinecone: delete", err)
	}
	return nil
}

func (s *Store) Search(ctx context.Context, indexID string, vector []float32, k int, opts vectorstore.SearchOptions) ([]vectorstore.SearchResult, error) {
	conn, err := s.connection(ctx, indexID)
	if err != nil {
		return nil, err
	}

	resp, err := conn.QueryByVectorValues(ctx, &pinecone.QueryByVectorValuesRequest{
		Vector:          vector,
		TopK:            uint32(k),
		IncludeValues:   opts.IncludeVector,
		IncludeMetadata: true,
	})
	if err != nil {
		return nil, ragerr.ProviderError("pinecone: query", err)
	}

	results := make([]vectorstore.SearchResult, 0, len(resp.Matches))
	for _, m := range resp.Matches {
		if float64(m.Score) < opts.MinScore {
			continue
		}
		results = append(results, vectorstore.SearchResult{
			ID:       m.Vector.Id,
			Score:    float64(m.Score),
			Metadata: fromMetadataStruct(m.Vector.Metadata),
		})
	}
	return results, nil
}

func toMetadataStruct(m map[string]any) *pinecone.Metadata {
	s, err := structpb.NewStruct(m)
	if err != nil {
		return nil
	}
	return s
}

func fromMetadataStruct(m *pinecone.Metadata) map[string]any {
	if m == nil {
		return nil
	}
	return m.AsMap()
}
