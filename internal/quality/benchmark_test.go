package quality

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chunksmith/chunksmith-mcp/internal/chunking"
	"github.com/chunksmith/chunksmith-mcp/pkg/types"
)

func newTestAnalyzer(t *testing.T) *Analyzer {
	t.Helper()
	engine := chunking.NewEngine(chunking.NewDefaultRegistry(nil), nil)
	return NewAnalyzer(engine, NewEvaluator(nil, nil))
}

func benchmarkDoc(id string) *types.Document {
	var b strings.Builder
	for i := 0; i < 30; i++ {
		b.WriteString("The indexing service stores every document in sorted order on disk. ")
	}
	return &types.Document{ID: id, Text: strings.TrimSpace(b.String())}
}

func TestBenchmark_NoStrategies(t *testing.T) {
	a := newTestAnalyzer(t)
	_, err := a.Benchmark(context.Background(), benchmarkDoc("none"), nil)
	assert.ErrorIs(t, err, types.ErrNoStrategies)
}

func TestBenchmark_SlotPerStrategyInRequestOrder(t *testing.T) {
	a := newTestAnalyzer(t)
	strategies := []string{types.StrategyFixedSize, types.StrategySmart}

	result, err := a.Benchmark(context.Background(), benchmarkDoc("bench"), strategies)
	require.NoError(t, err)
	require.Len(t, result.Results, 2)

	for i, slot := range result.Results {
		assert.Equal(t, strategies[i], slot.Strategy)
		assert.False(t, slot.Failed(), "strategy %s should not fail: %s", slot.Strategy, slot.Err)
		assert.Greater(t, slot.ChunkCount, 0)
		assert.Greater(t, slot.QualityScore, 0.0)
	}
	assert.Contains(t, strategies, result.RecommendedStrategy)
	assert.Equal(t, "bench", result.DocID)
}

func TestBenchmark_FailedStrategyIsolated(t *testing.T) {
	// No fallback registered: an unknown strategy fails its own slot only
	r := chunking.NewRegistry()
	require.NoError(t, r.Register(types.StrategySmart, func() chunking.Strategy { return chunking.NewSmart() }))
	r.Freeze()
	a := NewAnalyzer(chunking.NewEngine(r, nil), NewEvaluator(nil, nil))

	result, err := a.Benchmark(context.Background(), benchmarkDoc("partial"),
		[]string{types.StrategySmart, "nonexistent"})
	require.NoError(t, err)
	require.Len(t, result.Results, 2)

	assert.False(t, result.Results[0].Failed())
	assert.True(t, result.Results[1].Failed())
	assert.Contains(t, result.Results[1].Err, "nonexistent")
	assert.Equal(t, types.StrategySmart, result.RecommendedStrategy)
}

func TestBenchmark_FailureLogsToInjectedLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	r := chunking.NewRegistry()
	require.NoError(t, r.Register(types.StrategySmart, func() chunking.Strategy { return chunking.NewSmart() }))
	r.Freeze()
	a := NewAnalyzer(chunking.NewEngine(r, logger), NewEvaluator(nil, logger))

	_, err := a.Benchmark(context.Background(), benchmarkDoc("logged"), []string{"nonexistent"})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "benchmark strategy failed")
	assert.Contains(t, buf.String(), "nonexistent")
}

func TestBenchmark_Cancelled(t *testing.T) {
	a := newTestAnalyzer(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := a.Benchmark(ctx, benchmarkDoc("cancel"), []string{types.StrategySmart})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRecommend_FasterWithinTolerance(t *testing.T) {
	slots := []types.StrategyBenchmark{
		{Strategy: "slow_best", QualityScore: 0.90, ProcessingTime: 100 * time.Millisecond},
		{Strategy: "fast_close", QualityScore: 0.88, ProcessingTime: 10 * time.Millisecond},
	}
	assert.Equal(t, "fast_close", recommend(slots))
}

func TestRecommend_QualityGapTooWide(t *testing.T) {
	slots := []types.StrategyBenchmark{
		{Strategy: "slow_best", QualityScore: 0.90, ProcessingTime: 100 * time.Millisecond},
		{Strategy: "fast_far", QualityScore: 0.80, ProcessingTime: 10 * time.Millisecond},
	}
	assert.Equal(t, "slow_best", recommend(slots))
}

func TestRecommend_AllFailed(t *testing.T) {
	slots := []types.StrategyBenchmark{
		{Strategy: "a", Err: "broken"},
		{Strategy: "b", Err: "also broken"},
	}
	assert.Equal(t, "", recommend(slots))
}
