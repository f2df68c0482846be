// Package chunker splits document text into ordered, overlapping spans for
// embedding (spec §4.9, §6). It is grounded on the teacher pack's TextChunker
// (teilomillet-raggo/rag/chunk.go): sentence-bounded accumulation with a
// token budget and trailing-sentence overlap, generalized here to several
// selectable strategies and a byte-range tracking contract.
package chunker

import (
	"context"

	"github.com/tangerg/ragengine/tokenizer"
)

// SizeUnit selects what ChunkSize and ChunkOverlap are measured in.
type SizeUnit string

const (
	SizeCharacters SizeUnit = "characters"
	SizeTokens     SizeUnit = "tokens"
)

// Format selects which splitting strategy applies to a document's content.
type Format string

const (
	FormatRecursive Format = "recursive"
	FormatMarkdown  Format = "markdown"
	FormatSentence  Format = "sentence"
	FormatParagraph Format = "paragraph"
	FormatCharacter Format = "character"
	FormatSemantic  Format = "semantic"
)

// Config controls one Chunk call (spec §6: "Config: {chunk_size,
// chunk_overlap, size_unit, get_chunk_size?, format, separators?}").
type Config struct {
	ChunkSize    int
	ChunkOverlap int
	SizeUnit     SizeUnit
	Format       Format
	Separators   []string // used by the recursive/markdown strategies, in priority order

	// GetChunkSize overrides ChunkSize/SizeUnit with a caller-supplied size
	// function, e.g. to vary chunk size by document type.
	GetChunkSize func(text string) int

	// Estimator measures text under SizeUnit == SizeTokens. Defaults to
	// tokenizer.Heuristic when nil.
	Estimator tokenizer.Estimator
}

func (c Config) effectiveSize(text string) int {
	if c.GetChunkSize != nil {
		return c.GetChunkSize(text)
	}
	return c.sizeOf(text)
}

func (c Config) sizeOf(text string) int {
	if c.SizeUnit == SizeTokens {
		est := c.Estimator
		if est == nil {
			est = tokenizer.Heuristic
		}
		return est.Estimate(text)
	}
	return len([]rune(text))
}

func (c Config) chunkSize() int {
	if c.ChunkSize > 0 {
		return c.ChunkSize
	}
	return 400
}

func (c Config) chunkOverlap() int {
	if c.ChunkOverlap < 0 {
		return 0
	}
	return c.ChunkOverlap
}

// runeWindow converts a size expressed in cfg's configured unit into an
// approximate rune count, used by strategies that must pick a fixed window
// before any text exists to measure (Character). Token counts use the
// spec's ~4-chars-per-token heuristic (spec §4.9).
func (c Config) runeWindow(n int) int {
	if c.SizeUnit == SizeTokens {
		return n * 4
	}
	return n
}

// Chunk is one ordered span of a chunked document (spec §3's Chunk entity,
// pre-embedding).
type Chunk struct {
	Content   string
	Index     int
	StartChar int
	EndChar   int
	Metadata  map[string]any
}

// Chunker is the Chunker capability contract (spec §6).
type Chunker interface {
	Chunk(ctx context.Context, text string, cfg Config) ([]Chunk, error)
}

// Dispatch picks the strategy for cfg.Format, defaulting to recursive when
// unset or unrecognized, and wires each resulting chunk's token_count
// metadata (spec §4.9: "Each chunk receives token_count in its metadata").
func Dispatch(ctx context.Context, text string, cfg Config) ([]Chunk, error) {
	var strategy Chunker
	switch cfg.Format {
	case FormatMarkdown:
		strategy = Markdown{}
	case FormatSentence:
		strategy = Sentence{}
	case FormatParagraph:
		strategy = Paragraph{}
	case FormatCharacter:
		strategy = Character{}
	case FormatSemantic:
		strategy = Semantic{}
	default:
		strategy = Recursive{}
	}

	chunks, err := strategy.Chunk(ctx, text, cfg)
	if err != nil {
		return nil, err
	}

	est := cfg.Estimator
	if est == nil {
		est = tokenizer.Heuristic
	}
	for i := range chunks {
		if chunks[i].Metadata == nil {
			chunks[i].Metadata = make(map[string]any, 1)
		}
		chunks[i].Metadata["token_count"] = est.Estimate(chunks[i].Content)
	}
	return chunks, nil
}
