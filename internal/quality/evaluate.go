package quality

import (
	"context"
	"log/slog"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/chunksmith/chunksmith-mcp/internal/chunking"
	"github.com/chunksmith/chunksmith-mcp/internal/embedder"
	"github.com/chunksmith/chunksmith-mcp/internal/semantic"
	"github.com/chunksmith/chunksmith-mcp/pkg/types"
)

// Metric weights for the overall score.
const (
	weightCompleteness = 0.4
	weightConsistency  = 0.3
	weightBoundary     = 0.3
)

// Evaluator turns a chunk sequence into document-level quality metrics.
// provider may be nil; consistency then falls back to lexical overlap and
// results are flagged degraded.
type Evaluator struct {
	provider embedder.Provider
	logger   *slog.Logger
}

// NewEvaluator constructs an evaluator.
func NewEvaluator(provider embedder.Provider, logger *slog.Logger) *Evaluator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Evaluator{provider: provider, logger: logger}
}

// EvaluateChunks computes quality metrics over an ordered chunk sequence.
// degraded is true when consistency came from lexical overlap instead of
// embeddings.
func (e *Evaluator) EvaluateChunks(ctx context.Context, chunks []types.Chunk) (*types.QualityMetrics, bool, error) {
	if len(chunks) == 0 {
		return &types.QualityMetrics{}, false, nil
	}

	completeness := make([]float64, len(chunks))
	for i, c := range chunks {
		if err := ctx.Err(); err != nil {
			return nil, false, err
		}
		completeness[i] = chunking.Completeness(c.Content)
	}

	adjacency, degraded, err := e.adjacentSimilarities(ctx, chunks)
	if err != nil {
		return nil, degraded, err
	}

	aligned := boundaryAlignment(chunks)

	metrics := &types.QualityMetrics{
		AverageCompleteness: mean(completeness),
		ContentConsistency:  mean(adjacency),
		BoundaryQuality:     aligned,
		TotalChunks:         len(chunks),
	}
	if len(chunks) == 1 {
		// A single chunk has no adjacency or cut points to judge.
		metrics.ContentConsistency = 1
		metrics.BoundaryQuality = 1
	}
	metrics.OverallScore = weightCompleteness*metrics.AverageCompleteness +
		weightConsistency*metrics.ContentConsistency +
		weightBoundary*metrics.BoundaryQuality

	sizes := make([]float64, len(chunks))
	for i, c := range chunks {
		sizes[i] = float64(utf8.RuneCountInString(c.Content))
	}
	metrics.AverageChunkSize = mean(sizes)
	metrics.ChunkSizeStdDev = stddev(sizes, metrics.AverageChunkSize)

	metrics.PerChunkScores = perChunkScores(chunks, completeness, adjacency)
	return metrics, degraded, nil
}

// adjacentSimilarities scores each consecutive chunk pair, preferring
// embeddings and degrading to lexical overlap. Chunk contents are embedded
// in provider-sized batches so long documents never exceed the batch cap.
func (e *Evaluator) adjacentSimilarities(ctx context.Context, chunks []types.Chunk) ([]float64, bool, error) {
	if len(chunks) < 2 {
		return nil, false, nil
	}

	if e.provider != nil {
		texts := make([]string, len(chunks))
		for i, c := range chunks {
			texts[i] = c.Content
		}
		vecs, err := embedder.EmbedAll(ctx, e.provider, texts)
		if err == nil {
			sims := make([]float64, len(chunks)-1)
			for i := 0; i < len(vecs)-1; i++ {
				sims[i] = embedder.Similarity(vecs[i], vecs[i+1])
			}
			return sims, false, nil
		}
		if ctx.Err() != nil {
			return nil, false, ctx.Err()
		}
		e.logger.Warn("embedding provider failed, consistency degrades to lexical overlap", "error", err)
	}

	sims := make([]float64, len(chunks)-1)
	for i := 0; i < len(chunks)-1; i++ {
		if err := ctx.Err(); err != nil {
			return nil, true, err
		}
		sims[i] = semantic.LexicalSimilarity(chunks[i].Content, chunks[i+1].Content)
	}
	return sims, true, nil
}

// boundaryAlignment returns the fraction of cut points that fall on a
// structural boundary: the earlier chunk ends at sentence-terminal
// punctuation, or the cut coincides with a paragraph break.
func boundaryAlignment(chunks []types.Chunk) float64 {
	if len(chunks) < 2 {
		return 1
	}
	aligned := 0
	for i := 0; i < len(chunks)-1; i++ {
		if cutAligned(chunks[i].Content) {
			aligned++
		}
	}
	return float64(aligned) / float64(len(chunks)-1)
}

func cutAligned(content string) bool {
	trimmed := strings.TrimRight(content, " \t")
	if strings.HasSuffix(trimmed, "\n") {
		return true
	}
	trimmed = strings.TrimRight(strings.TrimSpace(trimmed), `"')]»”’」』`)
	r, _ := utf8.DecodeLastRuneInString(trimmed)
	switch r {
	case '.', '!', '?', ':', '。', '！', '？':
		return true
	}
	return false
}

// perChunkScores blends each chunk's completeness, its similarity to
// neighbors, and its cut alignment with the metric weights.
func perChunkScores(chunks []types.Chunk, completeness, adjacency []float64) []float64 {
	scores := make([]float64, len(chunks))
	for i := range chunks {
		neighborSim := 1.0
		if len(adjacency) > 0 {
			var sum float64
			n := 0
			if i > 0 {
				sum += adjacency[i-1]
				n++
			}
			if i < len(adjacency) {
				sum += adjacency[i]
				n++
			}
			neighborSim = sum / float64(n)
		}
		cut := 1.0
		if i < len(chunks)-1 && !cutAligned(chunks[i].Content) {
			cut = 0
		}
		scores[i] = weightCompleteness*completeness[i] +
			weightConsistency*neighborSim +
			weightBoundary*cut
	}
	return scores
}

func mean(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	var sum float64
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}

func stddev(vals []float64, mean float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	var sqSum float64
	for _, v := range vals {
		d := v - mean
		sqSum += d * d
	}
	return math.Sqrt(sqSum / float64(len(vals)))
}
