package document

import (
	"errors"

	"github.com/google/uuid"
)

// Chunk is an ordered span of a Document (spec §3). Chunks exist without
// embeddings while pending; ChunkIndex values are unique and dense from 0
// within one Document. Neither Chunk nor the repository layer checks this
// invariant; it holds because chunks are only ever produced in index order
// by one chunker run.
type Chunk struct {
	id          string
	documentID  string
	content     string
	chunkIndex  int
	startChar   int
	endChar     int
	hasRange    bool
	tokenCount  int
	embedding   []float32
	metadata    map[string]any
}

// NewChunk validates and constructs a Chunk. The byte range starts unset;
// attach one with SetByteRange when the chunker tracks offsets.
func NewChunk(documentID, content string, chunkIndex int, metadata map[string]any) (*Chunk, error) {
	if documentID == "" {
		return nil, errors.New("chunk requires a document id")
	}
	if chunkIndex < 0 {
		return nil, errors.New("chunk_index must be >= 0")
	}
	if metadata == nil {
		metadata = make(map[string]any)
	}
	return &Chunk{
		id:         uuid.NewString(),
		documentID: documentID,
		content:    content,
		chunkIndex: chunkIndex,
		tokenCount: EstimateTokens(content),
		metadata:   metadata,
	}, nil
}

func (c *Chunk) ID() string             { return c.id }
func (c *Chunk) DocumentID() string     { return c.documentID }
func (c *Chunk) Content() string        { return c.content }
func (c *Chunk) ChunkIndex() int        { return c.chunkIndex }
func (c *Chunk) TokenCount() int        { return c.tokenCount }
func (c *Chunk) Metadata() map[string]any { return c.metadata }
func (c *Chunk) Embedding() []float32   { return c.embedding }
func (c *Chunk) HasEmbedding() bool     { return len(c.embedding) > 0 }

// ByteRange returns [startChar, endChar] and whether it was ever set.
func (c *Chunk) ByteRange() (start, end int, ok bool) {
	return c.startChar, c.endChar, c.hasRange
}

func (c *Chunk) SetByteRange(start, end int) {
	c.startChar, c.endChar, c.hasRange = start, end, true
}

func (c *Chunk) SetTokenCount(n int) { c.tokenCount = n }

// SetEmbedding attaches a dense vector, validating it against an expected
// width when dim > 0 (dim <= 0 skips the check, used before the index's
// dimensionality is known).
func (c *Chunk) SetEmbedding(vec []float32, dim int) error {
	if dim > 0 && len(vec) != dim {
		return errors.New("embedding dimension mismatch")
	}
	c.embedding = vec
	return nil
}

// EstimateTokens is the ~4-chars-per-token heuristic fallback (spec §4.9,
// §8): estimate("") = 0, estimate(s) >= 1 for s != "".
func EstimateTokens(s string) int {
	n := len([]rune(s))
	if n == 0 {
		return 0
	}
	est := n / 4
	if est < 1 {
		est = 1
	}
	return est
}
