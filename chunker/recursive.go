package chunker

import (
	"context"
	"strings"
)

var defaultSeparators = []string{"\n\n", "\n", ". ", " "}

// Recursive splits text by trying each separator in priority order,
// recursing into any piece still larger than the effective chunk size, then
// re-accumulates the resulting leaf pieces into chunk_size-bounded chunks
// with trailing overlap. Accumulation follows the teacher's TextChunker
// shape (teilomillet-raggo/rag/chunk.go): add pieces until the budget is
// exceeded, then start the next chunk with a tail of the previous one.
type Recursive struct{}

var _ Chunker = Recursive{}

func (Recursive) Chunk(_ context.Context, text string, cfg Config) ([]Chunk, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	seps := cfg.Separators
	if len(seps) == 0 {
		seps = defaultSeparators
	}

	pieces := splitRecursive(text, seps, cfg)
	return accumulate(text, pieces, cfg), nil
}

// splitRecursive returns leaf segments, recursing into any segment whose
// effective size still exceeds chunk_size.
func splitRecursive(text string, seps []string, cfg Config) []string {
	if cfg.effectiveSize(text) <= cfg.chunkSize() || len(seps) == 0 {
		return []string{text}
	}

	sep := seps[0]
	rest := seps[1:]

	var parts []string
	if sep == "" {
		for _, r := range text {
			parts = append(parts, string(r))
		}
	} else {
		parts = strings.Split(text, sep)
	}

	var out []string
	for i, p := range parts {
		if p == "" {
			continue
		}
		piece := p
		if sep != "" && i < len(parts)-1 {
			piece = p + sep
		}
		if cfg.effectiveSize(piece) > cfg.chunkSize() {
			out = append(out, splitRecursive(piece, rest, cfg)...)
		} else {
			out = append(out, piece)
		}
	}
	return out
}

// pieceOffsets locates the byte offset of each piece within source,
// scanning forward from the previous piece's end so repeated substrings
// resolve to their actual, in-order position.
func pieceOffsets(source string, pieces []string) []int {
	offsets := make([]int, len(pieces))
	search := 0
	for i, p := range pieces {
		pos := strings.Index(source[search:], p)
		if pos < 0 {
			offsets[i] = search
			continue
		}
		offsets[i] = search + pos
		search += pos + len(p)
	}
	return offsets
}

// accumulate merges consecutive pieces (tracked by index range [lo, hi) into
// the pieces slice) until adding the next would exceed chunk_size, emits a
// chunk, then starts the next window with a trailing overlap of pieces
// carried back from the end of the window just closed.
func accumulate(source string, pieces []string, cfg Config) []Chunk {
	if len(pieces) == 0 {
		return nil
	}
	offsets := pieceOffsets(source, pieces)

	emit := func(out []Chunk, lo, hi int, index int) []Chunk {
		if hi <= lo {
			return out
		}
		content := strings.Join(pieces[lo:hi], "")
		start := offsets[lo]
		return append(out, Chunk{
			Content:   content,
			Index:     index,
			StartChar: start,
			EndChar:   start + len([]rune(content)),
		})
	}

	// overlapStart walks back from hi, adding whole pieces until their
	// combined effective size reaches chunk_overlap or the first piece is
	// reached, and returns that start index. The carried-over tail can
	// therefore exceed chunk_overlap by up to one piece.
	overlapStart := func(hi int) int {
		overlap := cfg.chunkOverlap()
		if overlap == 0 {
			return hi
		}
		size := 0
		lo := hi
		for lo > 0 && size < overlap {
			lo--
			size += cfg.effectiveSize(pieces[lo])
		}
		return lo
	}

	var out []Chunk
	index := 0
	lo := 0
	curSize := 0

	for hi := 0; hi < len(pieces); hi++ {
		pieceSize := cfg.effectiveSize(pieces[hi])
		if curSize+pieceSize > cfg.chunkSize() && hi > lo {
			out = emit(out, lo, hi, index)
			index++
			lo = overlapStart(hi)
			curSize = 0
			for i := lo; i < hi; i++ {
				curSize += cfg.effectiveSize(pieces[i])
			}
		}
		curSize += pieceSize
	}
	out = emit(out, lo, len(pieces), index)

	return out
}
