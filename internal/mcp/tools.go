package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/chunksmith/chunksmith-mcp/internal/storage"
	"github.com/chunksmith/chunksmith-mcp/pkg/types"
)

// MCP error codes
const (
	ErrorCodeInvalidParams   = -32602 // Invalid method parameters
	ErrorCodeInternalError   = -32603 // Internal JSON-RPC error
	ErrorCodeUnknownStrategy = -32001 // Requested strategy is not registered
	ErrorCodeEmptyDocument   = -32002 // Document text is empty
)

// handleChunkDocument handles the chunk_document tool invocation.
func (s *Server) handleChunkDocument(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	doc, err := parseDocument(args)
	if err != nil {
		return nil, err
	}
	opts, err := parseOptions(args)
	if err != nil {
		return nil, err
	}
	includeQuality := getBoolDefault(args, "include_quality", false)

	chunks, err := s.engine.Chunk(ctx, doc, opts)
	if err != nil {
		return nil, chunkingError(err)
	}

	response := map[string]interface{}{
		"doc_id":      doc.ID,
		"chunk_count": len(chunks),
	}
	if len(chunks) > 0 {
		response["strategy"] = chunks[0].Strategy
	}

	if includeQuality {
		metrics, degraded, err := s.evaluator.EvaluateChunks(ctx, chunks)
		if err != nil {
			return nil, newMCPError(ErrorCodeInternalError, "quality evaluation failed", map[string]interface{}{
				"error": err.Error(),
			})
		}
		for i := range chunks {
			if i < len(metrics.PerChunkScores) {
				chunks[i].QualityScore = metrics.PerChunkScores[i]
			}
		}
		response["quality"] = metricsMap(metrics)
		response["degraded"] = degraded
	}

	response["chunks"] = chunksToMaps(chunks)
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleAnalyzeQuality handles the analyze_quality tool invocation.
func (s *Server) handleAnalyzeQuality(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	doc, err := parseDocument(args)
	if err != nil {
		return nil, err
	}
	opts, err := parseOptions(args)
	if err != nil {
		return nil, err
	}

	report, err := s.quality.AnalyzeQuality(ctx, doc, opts)
	if err != nil {
		return nil, chunkingError(err)
	}

	response := map[string]interface{}{
		"doc_id":          report.DocID,
		"strategy":        report.Strategy,
		"metrics":         metricsMap(&report.Metrics),
		"recommendations": report.Recommendations,
		"degraded":        report.Degraded,
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleBenchmarkStrategies handles the benchmark_strategies tool invocation.
func (s *Server) handleBenchmarkStrategies(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	doc, err := parseDocument(args)
	if err != nil {
		return nil, err
	}

	strategies := getStringSlice(args, "strategies")
	if len(strategies) == 0 {
		strategies = s.registry.Names()
	}

	result, err := s.quality.Benchmark(ctx, doc, strategies)
	if err != nil {
		return nil, chunkingError(err)
	}

	slots := make([]map[string]interface{}, len(result.Results))
	for i, r := range result.Results {
		slot := map[string]interface{}{
			"strategy":           r.Strategy,
			"quality_score":      r.QualityScore,
			"processing_time_ms": r.ProcessingTime.Milliseconds(),
			"chunk_count":        r.ChunkCount,
			"avg_chunk_size":     r.AvgChunkSize,
		}
		if r.Failed() {
			slot["error"] = r.Err
		}
		slots[i] = slot
	}

	response := map[string]interface{}{
		"doc_id":               result.DocID,
		"recommended_strategy": result.RecommendedStrategy,
		"results":              slots,
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleDetectDocumentType handles the detect_document_type tool invocation.
func (s *Server) handleDetectDocumentType(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	doc, err := parseDocument(args)
	if err != nil {
		return nil, err
	}
	optimize := getBoolDefault(args, "optimize", true)

	var (
		info *types.DocumentTypeInfo
		opts types.ChunkingOptions
	)
	if optimize {
		info, opts = s.optimizer.Optimize(doc)
	} else {
		info = s.optimizer.Detect(doc)
	}

	// Memoize the classification across runs; failures only cost the memo
	if memoErr := s.store.PutDocumentType(ctx, &storage.StoredDocumentType{
		DocID:      doc.ID,
		Category:   info.Category,
		Confidence: info.Confidence,
		SubType:    info.SubType,
		Language:   info.Language,
		Complexity: info.ComplexityScore,
	}); memoErr != nil {
		s.logger.Warn("failed to persist document type", "doc_id", doc.ID, "error", memoErr)
	}

	elements := make([]map[string]interface{}, len(info.StructuralElements))
	for i, e := range info.StructuralElements {
		elements[i] = map[string]interface{}{
			"type":       e.Type,
			"count":      e.Count,
			"avg_size":   e.AvgSize,
			"importance": e.Importance,
		}
	}

	response := map[string]interface{}{
		"doc_id":              doc.ID,
		"category":            string(info.Category),
		"confidence":          info.Confidence,
		"sub_type":            info.SubType,
		"language":            info.Language,
		"complexity_score":    info.ComplexityScore,
		"structural_elements": elements,
	}
	if optimize {
		response["optimized_options"] = map[string]interface{}{
			"strategy":       opts.Strategy,
			"max_chunk_size": opts.MaxChunkSize,
			"overlap_size":   opts.OverlapSize,
		}
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleAnalyzeCoherence handles the analyze_coherence tool invocation.
func (s *Server) handleAnalyzeCoherence(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	content, ok := args["content"].(string)
	if !ok || content == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "content parameter is required", map[string]interface{}{
			"param":  "content",
			"reason": "missing or empty",
		})
	}

	result, err := s.coherence.Analyze(ctx, content)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "coherence analysis failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	issues := make([]map[string]interface{}, len(result.Issues))
	for i, issue := range result.Issues {
		issues[i] = map[string]interface{}{
			"type":        string(issue.Type),
			"description": issue.Description,
			"position":    issue.Position,
			"severity":    string(issue.Severity),
		}
	}

	response := map[string]interface{}{
		"coherence_score":           result.CoherenceScore,
		"intra_sentence_similarity": result.IntraSentenceSimilarity,
		"similarity_variance":       result.SimilarityVariance,
		"level":                     string(result.Level),
		"issues":                    issues,
		"suggestions":               result.Suggestions,
		"degraded":                  result.Degraded,
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleSuggestBoundaries handles the suggest_boundaries tool invocation.
func (s *Server) handleSuggestBoundaries(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	content, ok := args["content"].(string)
	if !ok || content == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "content parameter is required", map[string]interface{}{
			"param":  "content",
			"reason": "missing or empty",
		})
	}
	maxChunkSize := getIntDefault(args, "max_chunk_size", types.DefaultMaxChunkSize)
	if maxChunkSize <= 0 {
		return nil, newMCPError(ErrorCodeInvalidParams, "max_chunk_size must be greater than zero", map[string]interface{}{
			"param": "max_chunk_size",
			"value": maxChunkSize,
		})
	}

	spans, degraded, err := s.detector.SuggestBoundaries(ctx, content, maxChunkSize)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "boundary suggestion failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	out := make([]map[string]interface{}, len(spans))
	for i, sp := range spans {
		out[i] = map[string]interface{}{
			"start_position":  sp.StartPosition,
			"end_position":    sp.EndPosition,
			"coherence_score": sp.CoherenceScore,
			"reason":          sp.Reason,
			"content_preview": sp.ContentPreview,
		}
	}

	response := map[string]interface{}{
		"boundary_count": len(spans),
		"boundaries":     out,
		"degraded":       degraded,
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleGetStatus handles the get_status tool invocation.
func (s *Server) handleGetStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	embeddingCount, err := s.store.CountEmbeddings(ctx)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to read cache statistics", map[string]interface{}{
			"error": err.Error(),
		})
	}

	response := map[string]interface{}{
		"server":  ServerName,
		"version": ServerVersion,
		"storage": map[string]interface{}{
			"build_mode":        storage.BuildMode,
			"driver":            storage.DriverName,
			"cached_embeddings": embeddingCount,
		},
		"embedding": map[string]interface{}{
			"provider":  s.provider.Name(),
			"model":     s.provider.Model(),
			"dimension": s.provider.Dimension(),
		},
		"completion_configured": s.completion != nil,
		"strategies":            s.registry.Names(),
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// Helper functions

// parseDocument builds the document from common tool arguments, including
// the optional structural hints (sections, page_offsets).
func parseDocument(args map[string]interface{}) (*types.Document, error) {
	text, ok := args["text"].(string)
	if !ok || text == "" {
		return nil, newMCPError(ErrorCodeEmptyDocument, "text parameter is required and cannot be empty", map[string]interface{}{
			"param":  "text",
			"reason": "missing or empty",
		})
	}
	docID := getStringDefault(args, "doc_id", "")
	if docID == "" {
		docID = uuid.NewString()
	}

	sections, err := parseSections(args, len(text))
	if err != nil {
		return nil, err
	}
	pages, err := parsePageOffsets(args, len(text))
	if err != nil {
		return nil, err
	}
	return &types.Document{ID: docID, Text: text, Sections: sections, PageOffsets: pages}, nil
}

// parseSections reads the optional sections argument. Offsets are byte
// offsets into the text; out-of-range hints are rejected before they can
// reach any strategy.
func parseSections(args map[string]interface{}, textLen int) ([]types.SectionHint, error) {
	raw, ok := args["sections"].([]interface{})
	if !ok {
		return nil, nil
	}
	hints := make([]types.SectionHint, 0, len(raw))
	for i, v := range raw {
		m, ok := v.(map[string]interface{})
		if !ok {
			return nil, newMCPError(ErrorCodeInvalidParams,
				fmt.Sprintf("sections[%d] must be an object", i), map[string]interface{}{
					"param": "sections",
				})
		}
		offset := getIntDefault(m, "offset", -1)
		if offset < 0 || offset >= textLen {
			return nil, newMCPError(ErrorCodeInvalidParams,
				fmt.Sprintf("sections[%d].offset is outside the document text", i), map[string]interface{}{
					"param":       "sections",
					"offset":      offset,
					"text_length": textLen,
				})
		}
		hints = append(hints, types.SectionHint{
			Title:  getStringDefault(m, "title", ""),
			Level:  getIntDefault(m, "level", 1),
			Offset: offset,
		})
	}
	return hints, nil
}

// parsePageOffsets reads the optional page_offsets argument, validating
// that every offset falls inside the text.
func parsePageOffsets(args map[string]interface{}, textLen int) ([]int, error) {
	raw, ok := args["page_offsets"].([]interface{})
	if !ok {
		return nil, nil
	}
	offsets := make([]int, 0, len(raw))
	for i, v := range raw {
		f, ok := v.(float64)
		if !ok {
			return nil, newMCPError(ErrorCodeInvalidParams,
				fmt.Sprintf("page_offsets[%d] must be a number", i), map[string]interface{}{
					"param": "page_offsets",
				})
		}
		offset := int(f)
		if offset < 0 || offset >= textLen {
			return nil, newMCPError(ErrorCodeInvalidParams,
				fmt.Sprintf("page_offsets[%d] is outside the document text", i), map[string]interface{}{
					"param":       "page_offsets",
					"offset":      offset,
					"text_length": textLen,
				})
		}
		offsets = append(offsets, offset)
	}
	return offsets, nil
}

// parseOptions builds chunking options from common tool arguments,
// rejecting invalid combinations before any processing starts.
func parseOptions(args map[string]interface{}) (types.ChunkingOptions, error) {
	opts := types.NewChunkingOptions()
	opts.Strategy = getStringDefault(args, "strategy", types.StrategyAuto)
	opts.MaxChunkSize = getIntDefault(args, "max_chunk_size", opts.MaxChunkSize)
	opts.OverlapSize = getIntDefault(args, "overlap_size", opts.OverlapSize)
	opts.PreserveStructure = getBoolDefault(args, "preserve_structure", false)

	if err := opts.Validate(); err != nil {
		var cfgErr *types.ConfigurationError
		if errors.As(err, &cfgErr) {
			return opts, newMCPError(ErrorCodeInvalidParams, cfgErr.Error(), map[string]interface{}{
				"param":  cfgErr.Option,
				"value":  cfgErr.Value,
				"reason": cfgErr.Reason,
			})
		}
		return opts, newMCPError(ErrorCodeInvalidParams, err.Error(), nil)
	}
	return opts, nil
}

// chunkingError maps engine errors onto MCP error codes.
func chunkingError(err error) error {
	var unknownErr *types.UnknownStrategyError
	if errors.As(err, &unknownErr) {
		return newMCPError(ErrorCodeUnknownStrategy, "unknown strategy", map[string]interface{}{
			"strategy": unknownErr.Name,
		})
	}
	if errors.Is(err, types.ErrEmptyDocument) {
		return newMCPError(ErrorCodeEmptyDocument, "document text is empty", nil)
	}
	var cfgErr *types.ConfigurationError
	if errors.As(err, &cfgErr) {
		return newMCPError(ErrorCodeInvalidParams, cfgErr.Error(), map[string]interface{}{
			"param":  cfgErr.Option,
			"value":  cfgErr.Value,
			"reason": cfgErr.Reason,
		})
	}
	return newMCPError(ErrorCodeInternalError, "chunking failed", map[string]interface{}{
		"error": err.Error(),
	})
}

// chunksToMaps renders chunks for the wire.
func chunksToMaps(chunks []types.Chunk) []map[string]interface{} {
	out := make([]map[string]interface{}, len(chunks))
	for i, c := range chunks {
		out[i] = map[string]interface{}{
			"id":            c.ID,
			"index":         c.Index,
			"strategy":      c.Strategy,
			"content":       c.Content,
			"content_hash":  fmt.Sprintf("%x", c.ContentHash),
			"start_char":    c.StartChar,
			"end_char":      c.EndChar,
			"quality_score": c.QualityScore,
			"props":         c.Props,
		}
	}
	return out
}

func metricsMap(m *types.QualityMetrics) map[string]interface{} {
	return map[string]interface{}{
		"average_completeness": m.AverageCompleteness,
		"content_consistency":  m.ContentConsistency,
		"boundary_quality":     m.BoundaryQuality,
		"overall_score":        m.OverallScore,
		"average_chunk_size":   m.AverageChunkSize,
		"chunk_size_stddev":    m.ChunkSizeStdDev,
		"total_chunks":         m.TotalChunks,
	}
}

// newMCPError creates a properly formatted MCP error
func newMCPError(code int, message string, data interface{}) error {
	return &MCPError{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

// MCPError represents an MCP protocol error
type MCPError struct {
	Code    int
	Message string
	Data    interface{}
}

func (e *MCPError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

// formatJSON formats a map as indented JSON
func formatJSON(data map[string]interface{}) string {
	bytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", data)
	}
	return string(bytes)
}

// getBoolDefault extracts a boolean parameter with a default value
func getBoolDefault(args map[string]interface{}, key string, defaultValue bool) bool {
	if val, ok := args[key].(bool); ok {
		return val
	}
	return defaultValue
}

// getIntDefault extracts an integer parameter with a default value
func getIntDefault(args map[string]interface{}, key string, defaultValue int) int {
	if val, ok := args[key].(float64); ok {
		return int(val)
	}
	if val, ok := args[key].(int); ok {
		return val
	}
	return defaultValue
}

// getStringDefault extracts a string parameter with a default value
func getStringDefault(args map[string]interface{}, key string, defaultValue string) string {
	if val, ok := args[key].(string); ok {
		return val
	}
	return defaultValue
}

// getStringSlice extracts a string array parameter.
func getStringSlice(args map[string]interface{}, key string) []string {
	raw, ok := args[key].([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
