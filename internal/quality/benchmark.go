package quality

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/chunksmith/chunksmith-mcp/pkg/types"
)

const (
	// benchmarkParallelism bounds how many strategies run concurrently.
	benchmarkParallelism = 4

	// qualityTolerance: a faster strategy within this quality gap of the
	// best is recommended over it.
	qualityTolerance = 0.05
)

// Benchmark runs each named strategy over the document independently and
// compares them. A strategy failure is recorded in its own slot; the
// benchmark still returns one slot per requested strategy, in request order.
func (a *Analyzer) Benchmark(ctx context.Context, doc *types.Document, strategies []string) (*types.BenchmarkResult, error) {
	if len(strategies) == 0 {
		return nil, types.ErrNoStrategies
	}

	slots := make([]types.StrategyBenchmark, len(strategies))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(benchmarkParallelism)
	for i, name := range strategies {
		g.Go(func() error {
			slots[i] = a.runStrategy(gctx, doc, name)
			return nil
		})
	}
	// Workers never return errors; failures live in their slots.
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return &types.BenchmarkResult{
		DocID:               doc.ID,
		RecommendedStrategy: recommend(slots),
		Results:             slots,
	}, nil
}

// runStrategy times one strategy and scores its output. Errors are folded
// into the slot, wrapped with document and strategy context.
func (a *Analyzer) runStrategy(ctx context.Context, doc *types.Document, name string) types.StrategyBenchmark {
	slot := types.StrategyBenchmark{Strategy: name}

	opts := types.NewChunkingOptions()
	opts.Strategy = name

	start := time.Now()
	chunks, err := a.engine.Chunk(ctx, doc, opts)
	slot.ProcessingTime = time.Since(start)
	if err != nil {
		failure := &types.BenchmarkStrategyFailure{DocID: doc.ID, Strategy: name, Cause: err}
		a.evaluator.logger.Warn("benchmark strategy failed", "doc_id", doc.ID, "strategy", name, "error", err)
		slot.Err = failure.Error()
		return slot
	}

	metrics, _, err := a.evaluator.EvaluateChunks(ctx, chunks)
	if err != nil {
		failure := &types.BenchmarkStrategyFailure{DocID: doc.ID, Strategy: name, Cause: err}
		slot.Err = failure.Error()
		return slot
	}

	slot.QualityScore = metrics.OverallScore
	slot.ChunkCount = len(chunks)
	slot.AvgChunkSize = metrics.AverageChunkSize
	return slot
}

// recommend picks the highest-quality strategy, except that any strategy
// within the quality tolerance of the best wins if it is faster.
func recommend(slots []types.StrategyBenchmark) string {
	best := -1
	for i, s := range slots {
		if s.Failed() {
			continue
		}
		if best < 0 || s.QualityScore > slots[best].QualityScore {
			best = i
		}
	}
	if best < 0 {
		return ""
	}

	pick := best
	for i, s := range slots {
		if s.Failed() || i == pick {
			continue
		}
		if slots[best].QualityScore-s.QualityScore < qualityTolerance &&
			s.ProcessingTime < slots[pick].ProcessingTime {
			pick = i
		}
	}
	return slots[pick].Strategy
}
