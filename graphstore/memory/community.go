package memory

import (
	"context"
	"sort"

	"github.com/tangerg/ragengine/graphstore"
	"github.com/tangerg/ragengine/ragerr"
)

func (s *Store) CreateCommunity(_ context.Context, graphID string, c graphstore.Community) error {
	g, err := s.get(graphID)
	if err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.communities[c.ID] = c
	return nil
}

func (s *Store) ListCommunities(_ context.Context, graphID string, level int) ([]graphstore.Community, error) {
	g, err := s.get(graphID)
	if err != nil {
		return nil, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	var out []graphstore.Community
	for _, c := range g.communities {
		if c.Level == level {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) GetCommunityMembers(_ context.Context, graphID string, communityID string) ([]graphstore.Node, error) {
	g, err := s.get(graphID)
	if err != nil {
		return nil, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	c, ok := g.communities[communityID]
	if !ok {
		return nil, ragerr.NotFound("community " + communityID)
	}
	out := make([]graphstore.Node, 0, len(c.Members))
	for _, id := range c.Members {
		if n, ok := g.nodes[id]; ok {
			out = append(out, n)
		}
	}
	return out, nil
}

func (s *Store) SearchCommunitiesByVector(_ context.Context, graphID string, vector []float32, k int) ([]graphstore.Community, error) {
	g, err := s.get(graphID)
	if err != nil {
		return nil, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	type scored struct {
		c graphstore.Community
		s float64
	}
	var list []scored
	for _, c := range g.communities {
		if len(c.Embedding) == 0 {
			continue
		}
		list = append(list, scored{c, cosine(vector, c.Embedding)})
	}
	sort.Slice(list, func(i, j int) bool { return list[i].s > list[j].s })
	if k > 0 && len(list) > k {
		list = list[:k]
	}
	out := make([]graphstore.Community, len(list))
	for i, sc := range list {
		out[i] = sc.c
	}
	return out, nil
}

func (s *Store) DeleteCommunity(_ context.Context, graphID string, communityID string) error {
	g, err := s.get(graphID)
	if err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.communities, communityID)
	return nil
}

func (s *Store) UpdateCommunitySummary(_ context.Context, graphID string, communityID string, summary string, embedding []float32) error {
	g, err := s.get(graphID)
	if err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	c, ok := g.communities[communityID]
	if !ok {
		return ragerr.NotFound("community " + communityID)
	}
	c.Summary = summary
	c.Embedding = embedding
	g.communities[communityID] = c
	return nil
}
