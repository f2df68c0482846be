package chunker

import (
	"context"
	"strings"
)

// Paragraph splits on blank lines, then accumulates paragraphs into
// chunk_size-bounded chunks the same way Recursive does.
type Paragraph struct{}

var _ Chunker = Paragraph{}

func (Paragraph) Chunk(_ context.Context, text string, cfg Config) ([]Chunk, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	raw := strings.Split(text, "\n\n")
	var pieces []string
	for i, p := range raw {
		if p == "" {
			continue
		}
		if i < len(raw)-1 {
			p += "\n\n"
		}
		if cfg.effectiveSize(p) > cfg.chunkSize() {
			pieces = append(pieces, splitRecursive(p, defaultSeparators[1:], cfg)...)
		} else {
			pieces = append(pieces, p)
		}
	}
	return accumulate(text, pieces, cfg), nil
}
