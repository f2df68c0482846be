package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/tangerg/ragengine/vectorstore"
	"github.com/tangerg/ragengine/vectorstore/filter"
)

var _ vectorstore.FulltextCapable = (*Store)(nil)

const fulltextField = "content"

// FulltextSearch matches each item's fulltextField metadata value against
// the whitespace-separated query terms by case-insensitive substring: an
// item matches when at least one term occurs and scores the fraction of
// terms that occur. With Phrase set, the joined terms must occur verbatim
// and a match scores 1. It exists so tests can exercise the hybrid
// retriever (spec §4.4) without a real full-text engine.
func (s *Store) FulltextSearch(_ context.Context, indexID string, query string, k int, opts vectorstore.FulltextOptions) ([]vectorstore.SearchResult, error) {
	idx, err := s.getIndex(indexID)
	if err != nil {
		return nil, err
	}
	idx.mu.Lock()
	defer idx.mu.Unlock()

	terms := strings.Fields(strings.ToLower(query))
	if len(terms) == 0 {
		return nil, nil
	}

	var results []vectorstore.SearchResult
	for _, id := range idx.order {
		r, ok := idx.byID[id]
		if !ok || r.deleted {
			continue
		}
		if opts.Filter != nil && !filter.Match(opts.Filter, r.item.Metadata) {
			continue
		}
		text, _ := r.item.Metadata[fulltextField].(string)
		text = strings.ToLower(text)
		matched, score := matchTerms(text, terms, opts.Phrase)
		if !matched {
			continue
		}
		results = append(results, vectorstore.SearchResult{ID: id, Score: score, Metadata: r.item.Metadata})
	}

	sort.Slice(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	if k > 0 && len(results) > k {
		results = results[:k]
	}
	return results, nil
}

func matchTerms(text string, terms []string, phrase bool) (bool, float64) {
	if phrase {
		joined := strings.Join(terms, " ")
		if !strings.Contains(text, joined) {
			return false, 0
		}
		return true, 1.0
	}

	hits := 0
	for _, t := range terms {
		if strings.Contains(text, t) {
			hits++
		}
	}
	if hits == 0 {
		return false, 0
	}
	return true, float64(hits) / float64(len(terms))
}
