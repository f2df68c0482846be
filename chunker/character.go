package chunker

import "context"

// Character splits raw text into fixed-size spans measured by
// Config.SizeUnit, advancing by (size - overlap) runes each step. It is the
// simplest strategy and the fallback unit the others build on.
type Character struct{}

var _ Chunker = Character{}

func (Character) Chunk(_ context.Context, text string, cfg Config) ([]Chunk, error) {
	runes := []rune(text)
	if len(runes) == 0 {
		return nil, nil
	}

	size := cfg.runeWindow(cfg.chunkSize())
	overlap := cfg.runeWindow(cfg.chunkOverlap())
	if overlap >= size {
		overlap = size - 1
	}
	step := size - overlap
	if step < 1 {
		step = 1
	}

	var out []Chunk
	idx := 0
	for start := 0; start < len(runes); start += step {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}
		out = append(out, Chunk{
			Content:   string(runes[start:end]),
			Index:     idx,
			StartChar: start,
			EndChar:   end,
		})
		idx++
		if end == len(runes) {
			break
		}
	}
	return out, nil
}
