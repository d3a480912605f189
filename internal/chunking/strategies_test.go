package chunking

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chunksmith/chunksmith-mcp/pkg/types"
)

func TestParagraph_MergesShortParagraphs(t *testing.T) {
	text := "First paragraph with a complete sentence inside it.\n\n" +
		"Second paragraph, also quite short and complete.\n\n" +
		"Third paragraph rounds out the document nicely."
	doc := &types.Document{ID: "para", Text: text}

	opts := types.NewChunkingOptions()
	opts.MaxChunkSize = 1024

	chunks, err := NewParagraph().Chunk(context.Background(), doc, opts)
	require.NoError(t, err)
	// All three fit one budget, so they merge into a single chunk
	require.Len(t, chunks, 1)
	assert.Contains(t, chunks[0].Content, "First paragraph")
	assert.Contains(t, chunks[0].Content, "Third paragraph")
}

func TestParagraph_RespectsBudget(t *testing.T) {
	para := "A complete sentence sits in this paragraph body for testing. "
	text := strings.TrimSpace(strings.Repeat(para, 3)) + "\n\n" +
		strings.TrimSpace(strings.Repeat(para, 3)) + "\n\n" +
		strings.TrimSpace(strings.Repeat(para, 3))
	doc := &types.Document{ID: "para2", Text: text}

	opts := types.NewChunkingOptions()
	opts.MaxChunkSize = 200

	chunks, err := NewParagraph().Chunk(context.Background(), doc, opts)
	require.NoError(t, err)
	require.Greater(t, len(chunks), 1)
	for _, c := range chunks {
		assert.LessOrEqual(t, len([]rune(c.Content)), opts.MaxChunkSize)
		assert.Equal(t, doc.Text[c.StartChar:c.EndChar], c.Content)
	}
}

func TestParagraph_OversizedParagraphCutAtSentences(t *testing.T) {
	sentence := "Every sentence in this very long paragraph ends cleanly with a period. "
	text := strings.TrimSpace(strings.Repeat(sentence, 20))
	doc := &types.Document{ID: "big-para", Text: text}

	opts := types.NewChunkingOptions()
	opts.MaxChunkSize = 300

	chunks, err := NewParagraph().Chunk(context.Background(), doc, opts)
	require.NoError(t, err)
	require.Greater(t, len(chunks), 1)
	for _, c := range chunks {
		assert.LessOrEqual(t, len([]rune(c.Content)), opts.MaxChunkSize)
		// Cuts land on sentence boundaries
		assert.True(t, strings.HasSuffix(strings.TrimSpace(c.Content), "."),
			"chunk should end at a sentence boundary: %q", c.Content)
	}
}

func TestSemantic_NeverSplitsSentences(t *testing.T) {
	sentence := "Sentences stay whole under the semantic strategy at all times. "
	text := strings.TrimSpace(strings.Repeat(sentence, 12))
	doc := &types.Document{ID: "sem", Text: text}

	opts := types.NewChunkingOptions()
	opts.MaxChunkSize = 200

	chunks, err := NewSemantic().Chunk(context.Background(), doc, opts)
	require.NoError(t, err)
	require.Greater(t, len(chunks), 1)
	for _, c := range chunks {
		assert.LessOrEqual(t, len([]rune(c.Content)), opts.MaxChunkSize)
		assert.True(t, strings.HasSuffix(strings.TrimSpace(c.Content), "."))
	}
}

func TestSmart_CompletenessFloor(t *testing.T) {
	// Prose with an occasional short fragment that drags completeness down
	text := "The system processes each request in strict order of arrival. " +
		"Yes.\n" +
		"Requests above the configured limit are rejected immediately. " +
		"Every rejection is logged together with the client identifier. " +
		"Clients may retry after the cooldown window has fully elapsed. " +
		"The cooldown duration is part of the rejection response body."
	doc := &types.Document{ID: "smart", Text: text}

	opts := types.NewChunkingOptions()
	opts.MaxChunkSize = 400

	chunks, err := NewSmart().Chunk(context.Background(), doc, opts)
	require.NoError(t, err)
	require.NotEmpty(t, chunks)

	var sum float64
	for _, c := range chunks {
		sum += Completeness(c.Content)
	}
	assert.GreaterOrEqual(t, sum/float64(len(chunks)), CompletenessFloor)
}

func TestSmart_PlainProse(t *testing.T) {
	doc := proseDoc("smart-prose", 30)
	opts := types.NewChunkingOptions()
	opts.MaxChunkSize = 300

	chunks, err := NewSmart().Chunk(context.Background(), doc, opts)
	require.NoError(t, err)
	require.Greater(t, len(chunks), 1)

	var sum float64
	for _, c := range chunks {
		sum += Completeness(c.Content)
		assert.Equal(t, doc.Text[c.StartChar:c.EndChar], c.Content)
	}
	assert.GreaterOrEqual(t, sum/float64(len(chunks)), CompletenessFloor)
}

func TestHierarchical_SectionTitles(t *testing.T) {
	text := "# Introduction\n\nThe opening section explains the purpose.\n\n" +
		"## Details\n\nThe second section carries the details.\n\n" +
		"## Closing\n\nThe final section wraps everything up.\n"
	doc := &types.Document{ID: "hier", Text: text}

	chunks, err := NewHierarchical().Chunk(context.Background(), doc, types.NewChunkingOptions())
	require.NoError(t, err)
	require.Len(t, chunks, 3)

	titles := make([]string, len(chunks))
	for i, c := range chunks {
		titles[i] = c.PropStringOr(types.PropSectionTitle, "")
	}
	assert.Equal(t, []string{"Introduction", "Details", "Closing"}, titles)
}

func TestHierarchical_SectionHintsTakePrecedence(t *testing.T) {
	text := "Part one of the document body sits here. Part two follows after it."
	doc := &types.Document{
		ID:   "hints",
		Text: text,
		Sections: []types.SectionHint{
			{Title: "One", Level: 1, Offset: 0},
			{Title: "Two", Level: 1, Offset: 41},
		},
	}

	chunks, err := NewHierarchical().Chunk(context.Background(), doc, types.NewChunkingOptions())
	require.NoError(t, err)
	require.Len(t, chunks, 2)
	assert.Equal(t, "One", chunks[0].PropStringOr(types.PropSectionTitle, ""))
	assert.Equal(t, "Two", chunks[1].PropStringOr(types.PropSectionTitle, ""))
}

func TestPageLevel_PageNumbers(t *testing.T) {
	page := "A full page of text with a proper closing sentence here."
	text := page + "\n" + page + "\n" + page
	offsets := []int{0, len(page) + 1, 2 * (len(page) + 1)}
	doc := &types.Document{ID: "pages", Text: text, PageOffsets: offsets}

	chunks, err := NewPageLevel().Chunk(context.Background(), doc, types.NewChunkingOptions())
	require.NoError(t, err)
	require.Len(t, chunks, 3)
	for i, c := range chunks {
		page, ok := c.PropInt(types.PropPageNumber)
		require.True(t, ok)
		assert.Equal(t, i+1, page)
	}
}

func TestPageLevel_NoHintsDegradesToParagraph(t *testing.T) {
	doc := &types.Document{ID: "nopages", Text: "Only one paragraph of content, no page offsets supplied."}
	chunks, err := NewPageLevel().Chunk(context.Background(), doc, types.NewChunkingOptions())
	require.NoError(t, err)
	require.Len(t, chunks, 1)
}

func TestClassifyContent(t *testing.T) {
	assert.Equal(t, types.ContentProse, ClassifyContent("Just a plain sentence of prose."))
	assert.Equal(t, types.ContentCode, ClassifyContent("```go\nfunc main() {}\n```"))
	assert.Equal(t, types.ContentList, ClassifyContent("- one\n- two\n- three"))
	assert.Equal(t, types.ContentTable, ClassifyContent("| a | b |\n| 1 | 2 |"))
	assert.Equal(t, types.ContentHeading, ClassifyContent("# Title"))
}
