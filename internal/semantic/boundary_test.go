package semantic

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chunksmith/chunksmith-mcp/internal/embedder"
	"github.com/chunksmith/chunksmith-mcp/pkg/types"
)

// vectorProvider returns fixed vectors per text, so pairwise similarities
// are fully controlled by the test.
type vectorProvider struct {
	vectors map[string][]float32
	fail    bool
}

func (p *vectorProvider) Embed(ctx context.Context, text string) (*embedder.Embedding, error) {
	if p.fail {
		return nil, errors.New("provider down")
	}
	v, ok := p.vectors[text]
	if !ok {
		v = []float32{1, 0, 0}
	}
	return &embedder.Embedding{Vector: v, Dimension: len(v), Provider: "test", Model: "fixed"}, nil
}

func (p *vectorProvider) EmbedBatch(ctx context.Context, texts []string) ([]*embedder.Embedding, error) {
	out := make([]*embedder.Embedding, len(texts))
	for i, t := range texts {
		e, err := p.Embed(ctx, t)
		if err != nil {
			return nil, err
		}
		out[i] = e
	}
	return out, nil
}

func (p *vectorProvider) Dimension() int { return 3 }
func (p *vectorProvider) Name() string   { return "test" }
func (p *vectorProvider) Model() string  { return "fixed" }
func (p *vectorProvider) Close() error   { return nil }

func TestDetectBoundaries_LowSimilarityForcesTopicChange(t *testing.T) {
	// Similarity between the two segments is ~0.2; the first segment ends
	// with terminal punctuation, which must NOT downgrade the boundary.
	provider := &vectorProvider{vectors: map[string][]float32{
		"The weather was sunny today.": {1, 0, 0},
		"Quantum computing uses qubits.": {0.2, 0.98, 0},
	}}
	d := NewDetector(provider, DefaultConfig(), nil)

	points, degraded, err := d.DetectBoundaries(context.Background(), []string{
		"The weather was sunny today.",
		"Quantum computing uses qubits.",
	})
	require.NoError(t, err)
	assert.False(t, degraded)
	require.Len(t, points, 1)
	assert.Equal(t, types.BoundaryTopicChange, points[0].Type)
	assert.Less(t, points[0].Similarity, 0.5)
}

func TestDetectBoundaries_SentenceBoundary(t *testing.T) {
	// Similarity ~0.6 with terminal punctuation on the preceding segment
	provider := &vectorProvider{vectors: map[string][]float32{
		"a.": {1, 0, 0},
		"b":  {0.6, 0.8, 0},
	}}
	d := NewDetector(provider, DefaultConfig(), nil)

	points, _, err := d.DetectBoundaries(context.Background(), []string{"a.", "b"})
	require.NoError(t, err)
	require.Len(t, points, 1)
	assert.Equal(t, types.BoundarySentence, points[0].Type)
}

func TestDetectBoundaries_ParagraphBoundary(t *testing.T) {
	// High similarity: paragraph continuation regardless of punctuation
	provider := &vectorProvider{vectors: map[string][]float32{
		"a.": {1, 0, 0},
		"b":  {1, 0, 0},
	}}
	d := NewDetector(provider, DefaultConfig(), nil)

	points, _, err := d.DetectBoundaries(context.Background(), []string{"a.", "b"})
	require.NoError(t, err)
	require.Len(t, points, 1)
	assert.Equal(t, types.BoundaryParagraph, points[0].Type)
	assert.InDelta(t, 1.0, points[0].Similarity, 1e-6)
}

func TestDetectBoundaries_NilProviderDegrades(t *testing.T) {
	d := NewDetector(nil, DefaultConfig(), nil)

	points, degraded, err := d.DetectBoundaries(context.Background(), []string{
		"the cat sat on the mat",
		"the cat sat on the mat",
	})
	require.NoError(t, err)
	assert.True(t, degraded)
	require.Len(t, points, 1)
	// Identical word sets have lexical similarity 1
	assert.InDelta(t, 1.0, points[0].Similarity, 1e-6)
}

func TestDetectBoundaries_ProviderFailureDegrades(t *testing.T) {
	d := NewDetector(&vectorProvider{fail: true}, DefaultConfig(), nil)

	points, degraded, err := d.DetectBoundaries(context.Background(), []string{
		"completely distinct words here",
		"another unrelated phrase entirely",
	})
	require.NoError(t, err)
	assert.True(t, degraded)
	require.Len(t, points, 1)
	assert.Equal(t, types.BoundaryTopicChange, points[0].Type)
}

func TestDetectBoundaries_FewSegments(t *testing.T) {
	d := NewDetector(nil, DefaultConfig(), nil)
	points, degraded, err := d.DetectBoundaries(context.Background(), []string{"only one"})
	require.NoError(t, err)
	assert.False(t, degraded)
	assert.Nil(t, points)
}

func TestDetectBoundaries_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	d := NewDetector(nil, DefaultConfig(), nil)
	_, _, err := d.DetectBoundaries(ctx, []string{"a", "b", "c"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLexicalSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, LexicalSimilarity("same words here", "same words here"), 1e-9)
	assert.Equal(t, 0.0, LexicalSimilarity("alpha beta", "gamma delta"))
	assert.Equal(t, 0.0, LexicalSimilarity("", "anything"))

	partial := LexicalSimilarity("alpha beta gamma", "beta gamma delta")
	assert.Greater(t, partial, 0.0)
	assert.Less(t, partial, 1.0)
}
