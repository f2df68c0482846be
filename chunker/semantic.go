package chunker

import (
	"context"
	"math"
	"strings"

	"github.com/tangerg/ragengine/embedder"
)

// Semantic groups sentences by embedding similarity rather than raw size:
// consecutive sentences join the same chunk while the cosine similarity to
// the running chunk centroid stays at or above Threshold, and a chunk still
// closes early if it would exceed chunk_size. With no Embedder configured
// it falls back to Sentence's size-only accumulation, since the capability
// is genuinely optional (spec §4.9 lists it as one of several strategies,
// not a requirement).
type Semantic struct {
	Embedder  embedder.Provider
	Threshold float64 // default 0.75
}

var _ Chunker = Semantic{}

func NewSemantic(provider embedder.Provider, threshold float64) Semantic {
	if threshold <= 0 {
		threshold = 0.75
	}
	return Semantic{Embedder: provider, Threshold: threshold}
}

func (s Semantic) Chunk(ctx context.Context, text string, cfg Config) ([]Chunk, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	if s.Embedder == nil {
		return Sentence{}.Chunk(ctx, text, cfg)
	}

	sentences := splitSentences(text)
	var nonEmpty []string
	for _, sent := range sentences {
		if strings.TrimSpace(sent) != "" {
			nonEmpty = append(nonEmpty, sent)
		}
	}
	if len(nonEmpty) == 0 {
		return nil, nil
	}

	batch, err := s.Embedder.EmbedBatch(ctx, nonEmpty, embedder.Options{})
	if err != nil {
		return Sentence{}.Chunk(ctx, text, cfg)
	}

	var groups [][]string
	var groupSize int
	var centroid []float32

	for i, sent := range nonEmpty {
		vec := batch.Embeddings[i].Vector
		sentSize := cfg.effectiveSize(sent)

		if len(groups) > 0 {
			sim := cosineSimilarity(centroid, vec)
			if sim >= s.Threshold && groupSize+sentSize <= cfg.chunkSize() {
				last := len(groups) - 1
				groups[last] = append(groups[last], sent)
				centroid = averageVector(centroid, vec, len(groups[last]))
				groupSize += sentSize
				continue
			}
		}

		groups = append(groups, []string{sent})
		centroid = append([]float32(nil), vec...)
		groupSize = sentSize
	}

	pieces := make([]string, len(groups))
	for i, g := range groups {
		pieces[i] = strings.Join(g, "")
	}
	offsets := pieceOffsets(text, pieces)
	out := make([]Chunk, len(pieces))
	for i, p := range pieces {
		out[i] = Chunk{
			Content:   p,
			Index:     i,
			StartChar: offsets[i],
			EndChar:   offsets[i] + len([]rune(p)),
		}
	}
	return out, nil
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(b) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

func averageVector(centroid, next []float32, count int) []float32 {
	if len(centroid) != len(next) || count <= 1 {
		return append([]float32(nil), next...)
	}
	out := make([]float32, len(centroid))
	for i := range centroid {
		out[i] = centroid[i] + (next[i]-centroid[i])/float32(count)
	}
	return out
}
