// Package qdrant adapts github.com/qdrant/go-client to the vectorstore.Store
// contract, grounded on the teacher's ai/providers/vectorstores/qdrant
// package but narrowed: document batching/embedding is the ingestion
// pipeline's job here, not the store's, so this adapter only deals in
// already-embedded Items.
package qdrant

import (
	"context"
	"errors"
	"fmt"

	qc "github.com/qdrant/go-client/qdrant"

	"github.com/tangerg/ragengine/ragerr"
	"github.com/tangerg/ragengine/vectorstore"
)

const payloadContentKey = "__content__"

// Store is a thin adapter over a *qdrant.Client. It is an external
// collaborator binding per spec §1 ("out of scope: ... the SQL+vector
// database") — the engine depends on it only through vectorstore.Store.
type Store struct {
	client *qc.Client
}

var _ vectorstore.Store = (*Store)(nil)

func New(client *qc.Client) (*Store, error) {
	if client == nil {
		return nil, errors.New("qdrant: client is required")
	}
	return &Store{client: client}, nil
}

func toDistance(m vectorstore.Metric) qc.Distance {
	switch m {
	case vectorstore.MetricEuclidean:
		return qc.Distance_Euclid
	case vectorstore.MetricDot:
		return qc.Distance_Dot
	default:
		return qc.Distance_Cosine
	}
}

func (s *Store) CreateIndex(ctx context.Context, indexID string, spec vectorstore.IndexSpec) error {
	exists, err := s.client.CollectionExists(ctx, indexID)
	if err != nil {
		return ragerr.ProviderError("qdrant: collection_exists", err)
	}
	if exists {
		info, err := s.client.GetCollectionInfo(ctx, indexID)
		if err != nil {
			return ragerr.ProviderError("qdrant: get_collection_info", err)
		}
		if spec.Dimensions > 0 {
			// Named-vector collections carry no single size and are
			// accepted as is.
			if p := info.GetConfig().GetParams().GetVectorsConfig().GetParams(); p != nil && int(p.GetSize()) != spec.Dimensions {
				return ragerr.DimensionMismatch(int(p.GetSize()), spec.Dimensions)
			}
		}
		return nil
	}

	err = s.client.CreateCollection(ctx, &qc.CreateCollection{
		CollectionName: indexID,
		VectorsConfig: qc.NewVectorsConfig(&qc.VectorParams{
			Size:     uint64(spec.Dimensions),
			Distance: toDistance(spec.Metric),
		}),
	})
	if err != nil {
		return ragerr.ProviderError("qdrant: create_collection", err)
	}
	return nil
}

func (s *Store) DeleteIndex(ctx context.Context, indexID string) error {
	if err := s.client.DeleteCollection(ctx, indexID); err != nil {
		return ragerr.ProviderError("qdrant: delete_collection", err)
	}
	return nil
}

func (s *Store) IndexExists(ctx context.Context, indexID string) (bool, error) {
	ok, err := s.client.CollectionExists(ctx, indexID)
	if err != nil {
		return false, ragerr.ProviderError("qdrant: collection_exists", err)
	}
	return ok, nil
}

func (s *Store) IndexStats(ctx context.Context, indexID string) (vectorstore.IndexStats, error) {
	info, err := s.client.GetCollectionInfo(ctx, indexID)
	if err != nil {
		return vectorstore.IndexStats{}, ragerr.ProviderError("qdrant: get_collection_info", err)
	}
	stats := vectorstore.IndexStats{}
	if info != nil && info.PointsCount != nil {
		stats.VectorCount = int(*info.PointsCount)
	}
	return stats, nil
}

func (s *Store) Store(ctx context.Context, indexID string, item vectorstore.Item) error {
	return s.StoreBatch(ctx, indexID, []vectorstore.Item{item})
}

func (s *Store) StoreBatch(ctx context.Context, indexID string, items []vectorstore.Item) error {
	points := make([]*qc.PointStruct, 0, len(items))
	for _, item := range items {
		payload, err := qc.TryValueMap(item.Metadata)
		if err != nil {
			return ragerr.ProviderError("qdrant: payload conversion", err)
		}
		points = append(points, &qc.PointStruct{
			Id:      qc.NewID(item.ID),
			Vectors: qc.NewVectors(item.Embedding...),
			Payload: payload,
		})
	}

	_, err := s.client.Upsert(ctx, &qc.UpsertPoints{
		CollectionName: indexID,
		Points:         points,
	})
	if err != nil {
		return ragerr.ProviderError(fmt.Sprintf("qdrant: upsert %d points", len(points)), err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, indexID string, id string) error {
	_, err := s.client.Delete(ctx, &qc.DeletePoints{
		CollectionName: indexID,
		Points:         qc.NewPointsSelector(qc.NewID(id)),
	})
	if err != nil {
		return ragerr.ProviderError("qdrant: delete", err)
	}
	return nil
}

func (s *Store) Search(ctx context.Context, indexID string, vector []float32, k int, opts vectorstore.SearchOptions) ([]vectorstore.SearchResult, error) {
	threshold := float32(opts.MinScore)
	limit := uint64(k)
	points, err := s.client.Query(ctx, &qc.QueryPoints{
		CollectionName: indexID,
		Query:          qc.NewQuery(vector...),
		Limit:          &limit,
		ScoreThreshold: &threshold,
		WithPayload:    qc.NewWithPayload(true),
	})
	if err != nil {
		return nil, ragerr.ProviderError("qdrant: query", err)
	}

	results := make([]vectorstore.SearchResult, 0, len(points))
	for _, p := range points {
		results = append(results, vectorstore.SearchResult{
			ID:       p.Id.GetUuid(),
			Score:    float64(p.Score),
			Metadata: fromPayload(p.Payload),
		})
	}
	return results, nil
}

func fromPayload(payload map[string]*qc.Value) map[string]any {
	out := make(map[string]any, len(payload))
	for k, v := range payload {
		out[k] = valueToAny(v)
	}
	return out
}

func valueToAny(v *qc.Value) any {
	if v == nil {
		return nil
	}
	switch k := v.Kind.(type) {
	case *qc.Value_StringValue:
		return k.StringValue
	case *qc.Value_IntegerValue:
		return k.IntegerValue
	case *qc.Value_DoubleValue:
		return k.DoubleValue
	case *qc.Value_BoolValue:
		return k.BoolValue
	default:
		return nil
	}
}
