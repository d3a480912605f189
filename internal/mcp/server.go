package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/mark3labs/mcp-go/server"

	"github.com/chunksmith/chunksmith-mcp/internal/chunking"
	"github.com/chunksmith/chunksmith-mcp/internal/doctype"
	"github.com/chunksmith/chunksmith-mcp/internal/embedder"
	"github.com/chunksmith/chunksmith-mcp/internal/quality"
	"github.com/chunksmith/chunksmith-mcp/internal/semantic"
	"github.com/chunksmith/chunksmith-mcp/internal/storage"
	"github.com/chunksmith/chunksmith-mcp/internal/textgen"
)

const (
	// ServerName is the MCP server name
	ServerName = "chunksmith-mcp"
	// ServerVersion is the current server version
	ServerVersion = "1.0.0"
	// DefaultDBPath is the default location for the database
	DefaultDBPath = "~/.chunksmith"
)

// Server wraps the MCP server with application dependencies.
type Server struct {
	mcp        *server.MCPServer
	store      storage.Store
	provider   embedder.Provider
	completion textgen.Provider
	registry   *chunking.Registry
	engine     *chunking.Engine
	detector   *semantic.Detector
	coherence  *semantic.Analyzer
	optimizer  *doctype.Optimizer
	evaluator  *quality.Evaluator
	quality    *quality.Analyzer
	logger     *slog.Logger
}

// NewServer creates a fully wired MCP server instance.
func NewServer(dbPath string, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if dbPath == "" || dbPath == DefaultDBPath {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		dbPath = filepath.Join(home, ".chunksmith")
	}
	if err := os.MkdirAll(dbPath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}
	dbFile := filepath.Join(dbPath, "chunksmith.db")

	store, err := storage.NewSQLiteStore(dbFile)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	emb, err := embedder.NewFromEnv()
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to initialize embedder: %w", err)
	}
	// Persist embeddings across runs
	cached := storage.NewCachingEmbedder(emb, store, logger)

	completion, err := textgen.NewFromEnv()
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to initialize completion provider: %w", err)
	}

	registry := chunking.NewDefaultRegistry(completion)
	engine := chunking.NewEngine(registry, logger)

	optimizer, err := doctype.NewOptimizer(logger)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to initialize document type optimizer: %w", err)
	}

	evaluator := quality.NewEvaluator(cached, logger)

	s := &Server{
		mcp:        server.NewMCPServer(ServerName, ServerVersion),
		store:      store,
		provider:   cached,
		completion: completion,
		registry:   registry,
		engine:     engine,
		detector:   semantic.NewDetector(cached, semantic.DefaultConfig(), logger),
		coherence:  semantic.NewAnalyzer(cached, logger),
		optimizer:  optimizer,
		evaluator:  evaluator,
		quality:    quality.NewAnalyzer(engine, evaluator),
		logger:     logger,
	}
	s.registerTools()
	return s, nil
}

// Serve starts the MCP server on stdio and blocks until shutdown.
func (s *Server) Serve(ctx context.Context) error {
	defer s.close()
	return server.ServeStdio(s.mcp)
}

func (s *Server) close() {
	if s.provider != nil {
		_ = s.provider.Close()
	}
	if s.completion != nil {
		_ = s.completion.Close()
	}
	_ = s.store.Close()
}

// registerTools registers all MCP tools.
func (s *Server) registerTools() {
	s.mcp.AddTool(chunkDocumentTool(), s.handleChunkDocument)
	s.mcp.AddTool(analyzeQualityTool(), s.handleAnalyzeQuality)
	s.mcp.AddTool(benchmarkStrategiesTool(), s.handleBenchmarkStrategies)
	s.mcp.AddTool(detectDocumentTypeTool(), s.handleDetectDocumentType)
	s.mcp.AddTool(analyzeCoherenceTool(), s.handleAnalyzeCoherence)
	s.mcp.AddTool(suggestBoundariesTool(), s.handleSuggestBoundaries)
	s.mcp.AddTool(getStatusTool(), s.handleGetStatus)
}
