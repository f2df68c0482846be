package graphrag

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/tangerg/ragengine/embedder"
	"github.com/tangerg/ragengine/graphstore"
	"github.com/tangerg/ragengine/llm"
	"github.com/tangerg/ragengine/telemetry"
)

const summarizationSystemPrompt = `Summarize the following group of related entities and their relationships in a few sentences of prose, suitable as a standalone description of this part of the knowledge graph. Do not mention that this is a summary.`

// Summarizer generates a prose summary and embedding for each community,
// persisted back onto the community node (spec §4.8).
type Summarizer struct {
	Store    graphstore.Store
	LLM      llm.Provider
	Embedder embedder.Provider
	Model    string
	Reporter telemetry.Reporter
}

func NewSummarizer(store graphstore.Store, llmProvider llm.Provider, emb embedder.Provider, model string, reporter telemetry.Reporter) *Summarizer {
	if reporter == nil {
		reporter = telemetry.Silent{}
	}
	return &Summarizer{Store: store, LLM: llmProvider, Embedder: emb, Model: model, Reporter: reporter}
}

// Summarize builds a prompt from a community's members and internal
// relationships, generates a summary, embeds it, and persists both onto
// the community node via UpdateCommunitySummary.
func (s *Summarizer) Summarize(ctx context.Context, graphID string, community graphstore.Community) error {
	span := telemetry.Start(ctx, s.Reporter, "rag.step", "graphrag.summarize", map[string]any{"community_id": community.ID})

	communityStore, ok := s.Store.(graphstore.CommunityCapable)
	if !ok {
		err := errNoCommunityCapable
		span.Exception(err, nil)
		return err
	}

	members, err := communityStore.GetCommunityMembers(ctx, graphID, community.ID)
	if err != nil {
		span.Exception(err, nil)
		return err
	}

	var edges []graphstore.Edge
	if reader, ok := s.Store.(graphstore.GraphReader); ok {
		all, err := reader.AllEdges(ctx, graphID)
		if err == nil {
			inCommunity := make(map[string]bool, len(members))
			for _, m := range members {
				inCommunity[m.ID] = true
			}
			for _, e := range all {
				if inCommunity[e.Source] && inCommunity[e.Target] {
					edges = append(edges, e)
				}
			}
		}
	}

	prompt := buildCommunityPrompt(members, edges)

	resp, err := s.LLM.Complete(ctx, []llm.Message{
		{Role: llm.RoleSystem, Content: summarizationSystemPrompt},
		{Role: llm.RoleUser, Content: prompt},
	}, llm.Options{Model: s.Model})
	if err != nil {
		span.Exception(err, nil)
		return err
	}
	summary := strings.TrimSpace(resp.Content)

	emb, err := s.Embedder.Embed(ctx, summary, embedder.Options{})
	if err != nil {
		span.Exception(err, nil)
		return err
	}

	if err := communityStore.UpdateCommunitySummary(ctx, graphID, community.ID, summary, emb.Vector); err != nil {
		span.Exception(err, nil)
		return err
	}
	span.Stop(map[string]any{"summary_length": len(summary)})
	return nil
}

func buildCommunityPrompt(members []graphstore.Node, edges []graphstore.Edge) string {
	var b strings.Builder
	b.WriteString("Entities:\n")
	for _, m := range members {
		fmt.Fprintf(&b, "- %s (%s): %s\n", m.Name, m.Type, m.Description)
	}
	if len(edges) > 0 {
		b.WriteString("\nRelationships:\n")
		for _, e := range edges {
			fmt.Fprintf(&b, "- %s %s %s: %s\n", e.Source, e.Type, e.Target, e.Description)
		}
	}
	return b.String()
}

// SummarizeAll runs Summarize over every community with bounded
// concurrency, mirroring ExtractBatch's pool shape (spec §4.8: "Batched
// with bounded concurrency like extraction"). A failure on one community is
// logged via its span and skipped; the batch still succeeds overall.
func (s *Summarizer) SummarizeAll(ctx context.Context, graphID string, communities []graphstore.Community, opts ExtractBatchOptions) error {
	pool, err := ants.NewPool(opts.maxConcurrency())
	if err != nil {
		return fmt.Errorf("graphrag: creating summarization pool: %w", err)
	}
	defer pool.Release()

	var wg sync.WaitGroup
	for _, c := range communities {
		c := c
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			_ = s.Summarize(ctx, graphID, c)
		})
		if submitErr != nil {
			wg.Done()
		}
	}
	wg.Wait()
	return nil
}
