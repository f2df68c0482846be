package chunker

import (
	"context"
	"strings"
)

// Markdown splits text at ATX heading lines (`#`..`######`), keeping each
// heading attached to the section that follows it, then recurses into any
// over-sized section with the paragraph/line separators.
type Markdown struct{}

var _ Chunker = Markdown{}

func isHeadingLine(line string) bool {
	trimmed := strings.TrimLeft(line, "#")
	n := len(line) - len(trimmed)
	return n > 0 && n <= 6 && (len(trimmed) == 0 || strings.HasPrefix(trimmed, " "))
}

func splitMarkdownSections(text string) []string {
	lines := strings.Split(text, "\n")
	var sections []string
	var cur strings.Builder

	for i, line := range lines {
		if isHeadingLine(line) && cur.Len() > 0 {
			sections = append(sections, cur.String())
			cur.Reset()
		}
		cur.WriteString(line)
		if i < len(lines)-1 {
			cur.WriteByte('\n')
		}
	}
	if cur.Len() > 0 {
		sections = append(sections, cur.String())
	}
	return sections
}

func (Markdown) Chunk(_ context.Context, text string, cfg Config) ([]Chunk, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	sections := splitMarkdownSections(text)
	var pieces []string
	for _, s := range sections {
		if strings.TrimSpace(s) == "" {
			continue
		}
		if cfg.effectiveSize(s) > cfg.chunkSize() {
			pieces = append(pieces, splitRecursive(s, defaultSeparators, cfg)...)
		} else {
			pieces = append(pieces, s)
		}
	}
	return accumulate(text, pieces, cfg), nil
}
