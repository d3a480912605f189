package quality

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chunksmith/chunksmith-mcp/internal/embedder"
	"github.com/chunksmith/chunksmith-mcp/pkg/types"
)

// fixedProvider embeds every text to the same vector unless overridden,
// so consistency comes out exactly where the test wants it.
type fixedProvider struct {
	vectors map[string][]float32
	fail    bool
}

func (p *fixedProvider) Embed(ctx context.Context, text string) (*embedder.Embedding, error) {
	if p.fail {
		return nil, errors.New("provider down")
	}
	v, ok := p.vectors[text]
	if !ok {
		v = []float32{1, 0, 0}
	}
	return &embedder.Embedding{Vector: v, Dimension: len(v), Provider: "test", Model: "fixed"}, nil
}

func (p *fixedProvider) EmbedBatch(ctx context.Context, texts []string) ([]*embedder.Embedding, error) {
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

func (p *fixedProvider) Dimension() int { return 3 }
func (p *fixedProvider) Name() string   { return "test" }
func (p *fixedProvider) Model() string  { return "fixed" }
func (p *fixedProvider) Close() error   { return nil }

func chunkSeq(contents ...string) []types.Chunk {
	chunks := make([]types.Chunk, len(contents))
	pos := 0
	for i, content := range contents {
		chunks[i] = types.Chunk{
			ID:        "c" + string(rune('a'+i)),
			DocID:     "doc",
			Index:     i,
			Content:   content,
			StartChar: pos,
			EndChar:   pos + len(content),
		}
		pos += len(content)
	}
	return chunks
}

func TestEvaluateChunks_Empty(t *testing.T) {
	e := NewEvaluator(nil, nil)
	metrics, degraded, err := e.EvaluateChunks(context.Background(), nil)
	require.NoError(t, err)
	assert.False(t, degraded)
	assert.Zero(t, metrics.TotalChunks)
	assert.Zero(t, metrics.OverallScore)
}

func TestEvaluateChunks_SingleChunk(t *testing.T) {
	e := NewEvaluator(nil, nil)
	chunks := chunkSeq("A single complete sentence makes a perfect chunk here.")

	metrics, _, err := e.EvaluateChunks(context.Background(), chunks)
	require.NoError(t, err)
	// No adjacency or cut points to judge
	assert.Equal(t, 1.0, metrics.ContentConsistency)
	assert.Equal(t, 1.0, metrics.BoundaryQuality)
	assert.InDelta(t, 1.0, metrics.AverageCompleteness, 1e-9)
	assert.InDelta(t, 1.0, metrics.OverallScore, 1e-9)
	assert.Equal(t, 1, metrics.TotalChunks)
}

func TestEvaluateChunks_WeightedScore(t *testing.T) {
	e := NewEvaluator(nil, nil)
	chunks := chunkSeq(
		"The quick brown fox jumps over the lazy dog today.",
		"The quick brown fox naps under the shady tree today.",
	)

	metrics, degraded, err := e.EvaluateChunks(context.Background(), chunks)
	require.NoError(t, err)
	assert.True(t, degraded) // no provider: lexical consistency

	// Both chunks are complete sentences ending at a cut boundary.
	// Lexical similarity of the pair is 5 shared words over a 13-word union.
	sim := 5.0 / 13.0
	assert.InDelta(t, 1.0, metrics.AverageCompleteness, 1e-9)
	assert.InDelta(t, sim, metrics.ContentConsistency, 1e-9)
	assert.Equal(t, 1.0, metrics.BoundaryQuality)
	assert.InDelta(t, 0.4*1.0+0.3*sim+0.3*1.0, metrics.OverallScore, 1e-9)
	require.Len(t, metrics.PerChunkScores, 2)
}

func TestEvaluateChunks_MisalignedCut(t *testing.T) {
	e := NewEvaluator(nil, nil)
	chunks := chunkSeq(
		"The first chunk stops mid wo",
		"rd and the second chunk finishes the sentence properly.",
	)

	metrics, _, err := e.EvaluateChunks(context.Background(), chunks)
	require.NoError(t, err)
	assert.Equal(t, 0.0, metrics.BoundaryQuality)
	assert.Less(t, metrics.AverageCompleteness, 1.0)
}

func TestEvaluateChunks_ProviderConsistency(t *testing.T) {
	e := NewEvaluator(&fixedProvider{}, nil)
	chunks := chunkSeq(
		"The quick brown fox jumps over the lazy dog today.",
		"An entirely different topic appears in this second chunk.",
	)

	metrics, degraded, err := e.EvaluateChunks(context.Background(), chunks)
	require.NoError(t, err)
	assert.False(t, degraded)
	// Identical vectors: perfect consistency regardless of wording
	assert.InDelta(t, 1.0, metrics.ContentConsistency, 1e-6)
}

// cappedFixedProvider enforces the provider-side batch limit the way the
// HTTP providers do.
type cappedFixedProvider struct {
	fixedProvider
}

func (p *cappedFixedProvider) EmbedBatch(ctx context.Context, texts []string) ([]*embedder.Embedding, error) {
	if len(texts) > embedder.MaxBatchSize {
		return nil, embedder.ErrBatchTooLarge
	}
	return p.fixedProvider.EmbedBatch(ctx, texts)
}

func TestEvaluateChunks_ManyChunksStayEmbedded(t *testing.T) {
	// Over a hundred chunks must not trip the provider batch cap
	e := NewEvaluator(&cappedFixedProvider{}, nil)
	contents := make([]string, 120)
	for i := range contents {
		contents[i] = "The indexing service stores every document in sorted order. "
	}

	metrics, degraded, err := e.EvaluateChunks(context.Background(), chunkSeq(contents...))
	require.NoError(t, err)
	assert.False(t, degraded)
	assert.InDelta(t, 1.0, metrics.ContentConsistency, 1e-6)
}

func TestEvaluateChunks_ProviderFailureDegrades(t *testing.T) {
	e := NewEvaluator(&fixedProvider{fail: true}, nil)
	chunks := chunkSeq(
		"The quick brown fox jumps over the lazy dog today.",
		"The quick brown fox naps under the shady tree today.",
	)

	_, degraded, err := e.EvaluateChunks(context.Background(), chunks)
	require.NoError(t, err)
	assert.True(t, degraded)
}

func TestEvaluateChunks_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	e := NewEvaluator(nil, nil)
	_, _, err := e.EvaluateChunks(ctx, chunkSeq("One sentence here.", "Another sentence here."))
	assert.ErrorIs(t, err, context.Canceled)
}
