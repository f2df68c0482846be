package graphrag

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/tangerg/ragengine/graphstore"
)

// DetectOptions configures label-propagation community detection (spec
// §4.8).
type DetectOptions struct {
	MaxIterations         int     // default 100
	ConvergenceThreshold  float64 // default 0.01
	Seed                  int64   // shuffle seed, used when HasSeed is set
	HasSeed               bool    // without it the shuffle uses a fixed seed of 1
	Levels                int // hierarchical levels above the base partition, default 0 (base only)
}

func (o DetectOptions) maxIterations() int {
	if o.MaxIterations > 0 {
		return o.MaxIterations
	}
	return 100
}

func (o DetectOptions) convergenceThreshold() float64 {
	if o.ConvergenceThreshold > 0 {
		return o.ConvergenceThreshold
	}
	return 0.01
}

// Detector runs synchronous label propagation over a graph's entities and
// edges (spec §4.8). Detect on the same graph must be serialized by the
// caller; the Detector itself holds no cross-call state (spec §5).
type Detector struct {
	Store graphstore.Store
}

func NewDetector(store graphstore.Store) *Detector {
	return &Detector{Store: store}
}

// Detect runs base-level label propagation and returns the resulting
// partition as Communities at level 0. A graph with no entities returns no
// communities, not an error (spec §7).
func (d *Detector) Detect(ctx context.Context, graphID string, opts DetectOptions) ([]graphstore.Community, error) {
	reader, ok := d.Store.(graphstore.GraphReader)
	if !ok {
		return nil, errNoGraphReader
	}

	nodes, err := reader.AllNodes(ctx, graphID)
	if err != nil {
		return nil, err
	}
	if len(nodes) == 0 {
		return nil, nil
	}
	edges, err := reader.AllEdges(ctx, graphID)
	if err != nil {
		return nil, err
	}

	labels := labelPropagate(ctx, nodes, edges, opts)
	return communitiesFromLabels(nodes, labels, 0, "community"), nil
}

// neighborIndex maps a node id to the ids of its undirected neighbors.
func neighborIndex(nodes []graphstore.Node, edges []graphstore.Edge) map[string][]string {
	idx := make(map[string][]string, len(nodes))
	for _, n := range nodes {
		idx[n.ID] = nil
	}
	for _, e := range edges {
		if _, ok := idx[e.Source]; ok {
			idx[e.Source] = append(idx[e.Source], e.Target)
		}
		if _, ok := idx[e.Target]; ok {
			idx[e.Target] = append(idx[e.Target], e.Source)
		}
	}
	return idx
}

// labelPropagate implements spec §4.8 steps 2-4: each node starts with a
// unique label; for up to MaxIterations rounds, shuffle the node order and
// have each node adopt the mode of its neighbors' labels (ties keep the
// current label); stop when the fraction of nodes that changed label in a
// round falls below ConvergenceThreshold.
func labelPropagate(ctx context.Context, nodes []graphstore.Node, edges []graphstore.Edge, opts DetectOptions) map[string]int {
	neighbors := neighborIndex(nodes, edges)

	labels := make(map[string]int, len(nodes))
	order := make([]string, len(nodes))
	for i, n := range nodes {
		labels[n.ID] = i
		order[i] = n.ID
	}

	rng := rand.New(rand.NewSource(1))
	if opts.HasSeed {
		rng = rand.New(rand.NewSource(opts.Seed))
	}

	total := len(nodes)
	for iter := 0; iter < opts.maxIterations(); iter++ {
		select {
		case <-ctx.Done():
			return labels
		default:
		}

		rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })

		changed := 0
		for _, id := range order {
			ns := neighbors[id]
			if len(ns) == 0 {
				continue
			}
			counts := make(map[int]int, len(ns))
			for _, nb := range ns {
				counts[labels[nb]]++
			}
			best, bestCount := labels[id], -1
			// Iterate neighbors in their (already shuffled-stable) order so
			// ties between neighbor labels resolve by first-seen label in
			// this round, not map order (spec §4.8: "ties between
			// neighbors handled by iteration order after shuffle").
			seenLabel := make(map[int]bool, len(ns))
			for _, nb := range ns {
				lbl := labels[nb]
				if seenLabel[lbl] {
					continue
				}
				seenLabel[lbl] = true
				c := counts[lbl]
				if c > bestCount {
					bestCount = c
					best = lbl
				}
			}
			if best != labels[id] {
				// A tie with the current label keeps the current label
				// (spec §4.8: "ties broken by keeping the current label").
				if counts[labels[id]] >= bestCount {
					continue
				}
				labels[id] = best
				changed++
			}
		}

		if total == 0 {
			break
		}
		if float64(changed)/float64(total) < opts.convergenceThreshold() {
			break
		}
	}
	return labels
}

func communitiesFromLabels(nodes []graphstore.Node, labels map[string]int, level int, prefix string) []graphstore.Community {
	members := make(map[int][]string)
	for _, n := range nodes {
		lbl := labels[n.ID]
		members[lbl] = append(members[lbl], n.ID)
	}

	lbls := make([]int, 0, len(members))
	for l := range members {
		lbls = append(lbls, l)
	}
	sort.Ints(lbls)

	out := make([]graphstore.Community, 0, len(lbls))
	for i, l := range lbls {
		ids := members[l]
		sort.Strings(ids)
		out = append(out, graphstore.Community{
			ID:      fmt.Sprintf("%s_%d", prefix, i),
			Level:   level,
			Members: ids,
		})
	}
	return out
}

// DetectHierarchical runs base detection then repeatedly merges communities
// smaller than 2^level into larger siblings, one level at a time, up to
// opts.Levels additional levels above the base partition (spec §4.8).
func (d *Detector) DetectHierarchical(ctx context.Context, graphID string, opts DetectOptions) (map[int][]graphstore.Community, error) {
	base, err := d.Detect(ctx, graphID, opts)
	if err != nil {
		return nil, err
	}
	result := map[int][]graphstore.Community{0: base}
	if len(base) == 0 {
		return result, nil
	}

	current := base
	for level := 1; level <= opts.Levels; level++ {
		current = mergeSmallCommunities(current, level)
		for i := range current {
			current[i].ID = fmt.Sprintf("community_l%d_%d", level, i)
			current[i].Level = level
		}
		result[level] = current
	}
	return result, nil
}

// mergeSmallCommunities iteratively folds communities whose member count is
// below 2^level into the nearest larger sibling, so every community at a
// given level is the union of its children (spec §3, §4.8).
func mergeSmallCommunities(communities []graphstore.Community, level int) []graphstore.Community {
	threshold := int(math.Pow(2, float64(level)))

	sorted := append([]graphstore.Community(nil), communities...)
	sort.SliceStable(sorted, func(i, j int) bool { return len(sorted[i].Members) > len(sorted[j].Members) })

	var merged []graphstore.Community
	var pending []string
	for _, c := range sorted {
		if len(c.Members) >= threshold {
			merged = append(merged, graphstore.Community{Members: append([]string{}, c.Members...)})
			continue
		}
		pending = append(pending, c.Members...)
	}
	if len(pending) > 0 {
		if len(merged) > 0 {
			merged[len(merged)-1].Members = append(merged[len(merged)-1].Members, pending...)
		} else {
			merged = append(merged, graphstore.Community{Members: pending})
		}
	}
	for i := range merged {
		sort.Strings(merged[i].Members)
	}
	return merged
}
