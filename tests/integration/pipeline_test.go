package integration

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/chunksmith/chunksmith-mcp/internal/chunking"
	"github.com/chunksmith/chunksmith-mcp/internal/doctype"
	"github.com/chunksmith/chunksmith-mcp/internal/embedder"
	"github.com/chunksmith/chunksmith-mcp/internal/quality"
	"github.com/chunksmith/chunksmith-mcp/internal/semantic"
	"github.com/chunksmith/chunksmith-mcp/internal/storage"
	"github.com/chunksmith/chunksmith-mcp/pkg/types"
)

// PipelineTestSuite exercises the full chunk-analyze-store pipeline on the
// local embedding provider, the same wiring the server uses.
type PipelineTestSuite struct {
	suite.Suite
	ctx       context.Context
	store     *storage.SQLiteStore
	provider  embedder.Provider
	engine    *chunking.Engine
	quality   *quality.Analyzer
	optimizer *doctype.Optimizer
}

func (s *PipelineTestSuite) SetupTest() {
	s.ctx = context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	store, err := storage.NewSQLiteStore(filepath.Join(s.T().TempDir(), "pipeline.db"))
	s.Require().NoError(err)
	s.store = store

	local, err := embedder.NewLocalProvider(nil)
	s.Require().NoError(err)
	s.provider = storage.NewCachingEmbedder(local, store, logger)

	registry := chunking.NewDefaultRegistry(nil)
	s.engine = chunking.NewEngine(registry, logger)
	s.quality = quality.NewAnalyzer(s.engine, quality.NewEvaluator(s.provider, logger))

	s.optimizer, err = doctype.NewOptimizer(logger)
	s.Require().NoError(err)
}

func (s *PipelineTestSuite) TearDownTest() {
	s.NoError(s.store.Close())
}

func (s *PipelineTestSuite) sampleDoc(id string) *types.Document {
	var b strings.Builder
	b.WriteString("# Service Overview\n\n")
	b.WriteString("The gateway accepts requests and forwards them to a backend pool. ")
	b.WriteString("Each backend reports its health every five seconds. ")
	b.WriteString("Unhealthy backends are removed from rotation until they recover.\n\n")
	b.WriteString("## Configuration\n\n")
	b.WriteString("The pool size and health interval are set in the configuration file. ")
	b.WriteString("Changes are applied without restarting the gateway process.\n")
	return &types.Document{ID: id, Text: b.String()}
}

func (s *PipelineTestSuite) TestChunkThenEvaluate() {
	doc := s.sampleDoc("pipeline-1")

	opts := types.NewChunkingOptions()
	opts.MaxChunkSize = 300

	chunks, err := s.engine.Chunk(s.ctx, doc, opts)
	s.Require().NoError(err)
	s.Require().NotEmpty(chunks)

	// Offsets always address the source text exactly
	for _, c := range chunks {
		s.Equal(doc.Text[c.StartChar:c.EndChar], c.Content)
	}

	report, err := s.quality.AnalyzeQuality(s.ctx, doc, opts)
	s.Require().NoError(err)
	s.False(report.Degraded, "local provider should serve embeddings")
	s.Greater(report.Metrics.OverallScore, 0.0)
	s.Equal(len(chunks), report.Metrics.TotalChunks)
}

func (s *PipelineTestSuite) TestEmbeddingsPersistAcrossAnalyses() {
	doc := s.sampleDoc("pipeline-2")

	// Small chunks force multiple chunks, so consistency needs embeddings
	opts := types.NewChunkingOptions()
	opts.MaxChunkSize = 150

	_, err := s.quality.AnalyzeQuality(s.ctx, doc, opts)
	s.Require().NoError(err)

	count, err := s.store.CountEmbeddings(s.ctx)
	s.Require().NoError(err)
	s.Greater(count, int64(0), "analysis should populate the embedding cache")

	// Re-running the same analysis adds no new cache rows
	_, err = s.quality.AnalyzeQuality(s.ctx, doc, opts)
	s.Require().NoError(err)

	again, err := s.store.CountEmbeddings(s.ctx)
	s.Require().NoError(err)
	s.Equal(count, again)
}

func (s *PipelineTestSuite) TestBenchmarkAcrossStrategies() {
	doc := s.sampleDoc("pipeline-3")

	result, err := s.quality.Benchmark(s.ctx, doc,
		[]string{types.StrategyFixedSize, types.StrategyParagraph, types.StrategySmart})
	s.Require().NoError(err)
	s.Len(result.Results, 3)
	s.NotEmpty(result.RecommendedStrategy)
	for _, slot := range result.Results {
		s.False(slot.Failed(), "strategy %s failed: %s", slot.Strategy, slot.Err)
	}
}

func (s *PipelineTestSuite) TestOptimizedOptionsChunkCleanly() {
	doc := s.sampleDoc("pipeline-4")

	info, opts := s.optimizer.Optimize(doc)
	s.Require().NoError(opts.Validate())
	s.NotEmpty(info.Category)

	chunks, err := s.engine.Chunk(s.ctx, doc, opts)
	s.Require().NoError(err)
	s.NotEmpty(chunks)
}

func (s *PipelineTestSuite) TestCoherenceOnChunkedOutput() {
	doc := s.sampleDoc("pipeline-5")

	chunks, err := s.engine.Chunk(s.ctx, doc, types.NewChunkingOptions())
	s.Require().NoError(err)
	s.Require().NotEmpty(chunks)

	analyzer := semantic.NewAnalyzer(s.provider, nil)
	for _, c := range chunks {
		res, err := analyzer.Analyze(s.ctx, c.Content)
		s.Require().NoError(err)
		s.GreaterOrEqual(res.CoherenceScore, 0.0)
		s.LessOrEqual(res.CoherenceScore, 1.0)
		s.False(res.Degraded)
	}
}

func TestPipelineSuite(t *testing.T) {
	suite.Run(t, new(PipelineTestSuite))
}
