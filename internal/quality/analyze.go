package quality

import (
	"context"
	"fmt"

	"github.com/chunksmith/chunksmith-mcp/internal/chunking"
	"github.com/chunksmith/chunksmith-mcp/pkg/types"
)

// Recommendation thresholds.
const (
	completenessThreshold = 0.7
	consistencyThreshold  = 0.65
	boundaryThreshold     = 0.75
)

// Analyzer runs a full chunking pass and scores the result.
type Analyzer struct {
	engine    *chunking.Engine
	evaluator *Evaluator
}

// NewAnalyzer constructs an analyzer around a chunking engine and evaluator.
func NewAnalyzer(engine *chunking.Engine, evaluator *Evaluator) *Analyzer {
	return &Analyzer{engine: engine, evaluator: evaluator}
}

// AnalyzeQuality chunks the document with the given options and reports
// quality metrics plus rule-based recommendations.
func (a *Analyzer) AnalyzeQuality(ctx context.Context, doc *types.Document, opts types.ChunkingOptions) (*types.QualityReport, error) {
	chunks, err := a.engine.Chunk(ctx, doc, opts)
	if err != nil {
		return nil, fmt.Errorf("analyze quality of %s: %w", doc.ID, err)
	}

	metrics, degraded, err := a.evaluator.EvaluateChunks(ctx, chunks)
	if err != nil {
		return nil, fmt.Errorf("analyze quality of %s: %w", doc.ID, err)
	}

	strategy := opts.Strategy
	if len(chunks) > 0 {
		strategy = chunks[0].Strategy
	}

	return &types.QualityReport{
		DocID:           doc.ID,
		Strategy:        strategy,
		Metrics:         *metrics,
		Recommendations: recommendations(metrics),
		Degraded:        degraded,
	}, nil
}

// recommendations maps metric shortfalls to fixed advice.
func recommendations(m *types.QualityMetrics) []string {
	var out []string
	if m.AverageCompleteness < completenessThreshold {
		out = append(out, "completeness is low: prefer the smart strategy or raise max_chunk_size so sentences are not truncated")
	}
	if m.ContentConsistency < consistencyThreshold {
		out = append(out, "consistency is low: chunks mix topics, consider the semantic strategy or smaller chunks")
	}
	if m.BoundaryQuality < boundaryThreshold {
		out = append(out, "boundary quality is low: cuts fall mid-sentence, prefer a sentence-aware strategy")
	}
	return out
}
