package chunker

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// S6: 1000 'a' characters, chunk_size=100 tokens, chunk_overlap=20 tokens.
// Expect at least 2 chunks, each at or under the token budget, and
// overlapping windows (end_char(i) >= start_char(i+1)).
func TestCharacterChunkerTokenSizedOverlap(t *testing.T) {
	text := strings.Repeat("a", 1000)
	cfg := Config{ChunkSize: 100, ChunkOverlap: 20, SizeUnit: SizeTokens}

	chunks, err := Dispatch(context.Background(), text, Config{Format: FormatCharacter, ChunkSize: cfg.ChunkSize, ChunkOverlap: cfg.ChunkOverlap, SizeUnit: cfg.SizeUnit})
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(chunks), 2)

	for _, c := range chunks {
		tc, ok := c.Metadata["token_count"].(int)
		require.True(t, ok)
		assert.LessOrEqual(t, tc, 100)
	}
	for i := 0; i < len(chunks)-1; i++ {
		assert.GreaterOrEqual(t, chunks[i].EndChar, chunks[i+1].StartChar)
	}
}

func TestCharacterChunkerCharacterUnit(t *testing.T) {
	text := strings.Repeat("b", 50)
	chunks, err := Dispatch(context.Background(), text, Config{Format: FormatCharacter, ChunkSize: 20, ChunkOverlap: 5, SizeUnit: SizeCharacters})
	require.NoError(t, err)
	require.NotEmpty(t, chunks)
	for _, c := range chunks {
		assert.LessOrEqual(t, len([]rune(c.Content)), 20)
	}
}

func TestRecursiveChunkerRespectsSeparators(t *testing.T) {
	text := "first paragraph here.\n\nsecond paragraph follows.\n\nthird one too."
	chunks, err := Dispatch(context.Background(), text, Config{Format: FormatRecursive, ChunkSize: 10, SizeUnit: SizeCharacters})
	require.NoError(t, err)
	require.NotEmpty(t, chunks)

	for _, c := range chunks {
		assert.NotEmpty(t, c.Content)
	}
}

func TestParagraphChunkerRejoinsParagraphsWithinBudget(t *testing.T) {
	text := "alpha section.\n\nbeta section.\n\ngamma section."
	chunks, err := Dispatch(context.Background(), text, Config{Format: FormatParagraph, ChunkSize: 1000, SizeUnit: SizeCharacters})
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, text, chunks[0].Content)
}

func TestSentenceChunkerSplitsOnPunctuation(t *testing.T) {
	text := "One sentence. Two sentence! Three sentence?"
	sentences := splitSentences(text)
	require.Len(t, sentences, 3)
}

func TestMarkdownChunkerKeepsHeadingWithSection(t *testing.T) {
	text := "# Title\ncontent under title\n\n## Subsection\nmore content"
	sections := splitMarkdownSections(text)
	require.Len(t, sections, 2)
	assert.True(t, strings.HasPrefix(sections[0], "# Title"))
	assert.True(t, strings.HasPrefix(sections[1], "## Subsection"))
}

func TestSemanticChunkerFallsBackWithoutEmbedder(t *testing.T) {
	text := "First sentence here. Second sentence follows. Third one too."
	chunks, err := Semantic{}.Chunk(context.Background(), text, Config{ChunkSize: 1000, SizeUnit: SizeCharacters})
	require.NoError(t, err)
	require.Len(t, chunks, 1)
}

func TestDispatchAssignsTokenCountMetadata(t *testing.T) {
	chunks, err := Dispatch(context.Background(), "hello world", Config{Format: FormatCharacter, ChunkSize: 100, SizeUnit: SizeCharacters})
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	_, ok := chunks[0].Metadata["token_count"]
	assert.True(t, ok)
}
