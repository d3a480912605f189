package semantic

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuggestBoundaries_Empty(t *testing.T) {
	d := NewDetector(nil, DefaultConfig(), nil)
	spans, degraded, err := d.SuggestBoundaries(context.Background(), "", 200)
	require.NoError(t, err)
	assert.False(t, degraded)
	assert.Nil(t, spans)
}

func TestSuggestBoundaries_SingleSentence(t *testing.T) {
	d := NewDetector(nil, DefaultConfig(), nil)
	spans, _, err := d.SuggestBoundaries(context.Background(), "Just one sentence here.", 200)
	require.NoError(t, err)
	require.Len(t, spans, 1)
	assert.Equal(t, "single segment", spans[0].Reason)
	assert.InDelta(t, 0.8, spans[0].CoherenceScore, 1e-9)
}

func TestSuggestBoundaries_CutsAtTopicChange(t *testing.T) {
	content := "The red fox runs across the quiet field every morning. " +
		"The red fox runs across the quiet field every evening. " +
		"Quantum computers use entangled qubits for parallel computation."

	d := NewDetector(nil, DefaultConfig(), nil)
	spans, degraded, err := d.SuggestBoundaries(context.Background(), content, 200)
	require.NoError(t, err)
	assert.True(t, degraded)
	require.Len(t, spans, 2)

	// The two near-duplicate sentences stay together; the unrelated
	// sentence starts a new span
	assert.Equal(t, 0, spans[0].StartPosition)
	assert.True(t, strings.HasPrefix(content[spans[1].StartPosition:], "Quantum"),
		"second span should start at the topic change")
}

func TestSuggestBoundaries_MergesShortSpans(t *testing.T) {
	// Mutually unrelated short sentences would each form a tiny span;
	// the merge pass folds them back together
	content := "Apples grow on orchard trees. " +
		"Submarines dive beneath arctic ice. " +
		"Violins require regular tuning."

	d := NewDetector(nil, DefaultConfig(), nil)
	spans, _, err := d.SuggestBoundaries(context.Background(), content, 1000)
	require.NoError(t, err)
	require.Len(t, spans, 1)
	assert.Equal(t, "merged short span", spans[0].Reason)
	assert.Equal(t, 0, spans[0].StartPosition)
}

func TestSuggestBoundaries_SplitsLongSpans(t *testing.T) {
	sentence := "The same coherent sentence repeats throughout this whole passage. "
	content := strings.TrimSpace(strings.Repeat(sentence, 10))

	d := NewDetector(nil, DefaultConfig(), nil)
	spans, _, err := d.SuggestBoundaries(context.Background(), content, 200)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(spans), 2)

	for _, sp := range spans {
		assert.LessOrEqual(t, sp.Length(), 300) // 1.5x the chunk size cap
		assert.Equal(t, "split oversized span", sp.Reason)
		// Each halving keeps 90% of the parent score
		assert.Less(t, sp.CoherenceScore, 1.0)
	}
}

func TestSuggestBoundaries_PreviewTruncated(t *testing.T) {
	sentence := "The same coherent sentence repeats throughout this whole passage. "
	content := strings.TrimSpace(strings.Repeat(sentence, 4))

	d := NewDetector(nil, DefaultConfig(), nil)
	spans, _, err := d.SuggestBoundaries(context.Background(), content, 1000)
	require.NoError(t, err)
	require.NotEmpty(t, spans)
	assert.True(t, strings.HasSuffix(spans[0].ContentPreview, "..."))
	assert.LessOrEqual(t, len([]rune(spans[0].ContentPreview)), previewLen+3)
}
