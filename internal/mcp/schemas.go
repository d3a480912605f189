package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// Structural hint parameters shared by the document-taking tools.
var (
	sectionsSchema = map[string]interface{}{
		"type":        "array",
		"description": "Optional section hints; offsets are byte offsets into text",
		"items": map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"title":  map[string]interface{}{"type": "string"},
				"level":  map[string]interface{}{"type": "integer", "minimum": 1},
				"offset": map[string]interface{}{"type": "integer", "minimum": 0},
			},
			"required": []string{"offset"},
		},
	}
	pageOffsetsSchema = map[string]interface{}{
		"type":        "array",
		"description": "Optional byte offsets where pages begin, used by the page_level strategy",
		"items": map[string]interface{}{
			"type":    "integer",
			"minimum": 0,
		},
	}
)

var strategyEnum = []string{
	"auto", "smart", "intelligent", "semantic", "paragraph",
	"fixed_size", "hierarchical", "page_level", "recursive",
}

// chunkDocumentTool returns the tool definition for chunk_document
func chunkDocumentTool() mcp.Tool {
	return mcp.Tool{
		Name:        "chunk_document",
		Description: "Split document text into retrieval-sized chunks using a named or auto-selected strategy",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"text": map[string]interface{}{
					"type":        "string",
					"description": "Document text to chunk",
				},
				"doc_id": map[string]interface{}{
					"type":        "string",
					"description": "Stable document identifier (optional, generated if omitted)",
				},
				"strategy": map[string]interface{}{
					"type":        "string",
					"description": "Chunking strategy; auto selects one from document structure",
					"enum":        strategyEnum,
					"default":     "auto",
				},
				"max_chunk_size": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum chunk size in characters",
					"default":     1024,
					"minimum":     1,
				},
				"overlap_size": map[string]interface{}{
					"type":        "integer",
					"description": "Overlap between adjacent chunks in characters (must be < max_chunk_size)",
					"default":     128,
					"minimum":     0,
				},
				"preserve_structure": map[string]interface{}{
					"type":        "boolean",
					"description": "Keep structural units (paragraphs, sections) intact where possible",
					"default":     false,
				},
				"include_quality": map[string]interface{}{
					"type":        "boolean",
					"description": "Score each chunk and include document-level quality metrics",
					"default":     false,
				},
				"sections":     sectionsSchema,
				"page_offsets": pageOffsetsSchema,
			},
			Required: []string{"text"},
		},
	}
}

// analyzeQualityTool returns the tool definition for analyze_quality
func analyzeQualityTool() mcp.Tool {
	return mcp.Tool{
		Name:        "analyze_quality",
		Description: "Chunk a document and report quality metrics with recommendations",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"text": map[string]interface{}{
					"type":        "string",
					"description": "Document text to analyze",
				},
				"doc_id": map[string]interface{}{
					"type":        "string",
					"description": "Stable document identifier (optional)",
				},
				"strategy": map[string]interface{}{
					"type":        "string",
					"description": "Strategy to evaluate",
					"enum":        strategyEnum,
					"default":     "auto",
				},
				"max_chunk_size": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum chunk size in characters",
					"default":     1024,
					"minimum":     1,
				},
				"overlap_size": map[string]interface{}{
					"type":        "integer",
					"description": "Overlap between adjacent chunks in characters",
					"default":     128,
					"minimum":     0,
				},
				"sections":     sectionsSchema,
				"page_offsets": pageOffsetsSchema,
			},
			Required: []string{"text"},
		},
	}
}

// benchmarkStrategiesTool returns the tool definition for benchmark_strategies
func benchmarkStrategiesTool() mcp.Tool {
	return mcp.Tool{
		Name:        "benchmark_strategies",
		Description: "Run multiple chunking strategies over one document and recommend the best tradeoff",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"text": map[string]interface{}{
					"type":        "string",
					"description": "Document text to benchmark against",
				},
				"doc_id": map[string]interface{}{
					"type":        "string",
					"description": "Stable document identifier (optional)",
				},
				"strategies": map[string]interface{}{
					"type":        "array",
					"description": "Strategies to compare (default: all registered strategies)",
					"items": map[string]interface{}{
						"type": "string",
						"enum": strategyEnum,
					},
				},
			},
			Required: []string{"text"},
		},
	}
}

// detectDocumentTypeTool returns the tool definition for detect_document_type
func detectDocumentTypeTool() mcp.Tool {
	return mcp.Tool{
		Name:        "detect_document_type",
		Description: "Classify a document's category and derive tuned chunking options",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"text": map[string]interface{}{
					"type":        "string",
					"description": "Document text to classify",
				},
				"doc_id": map[string]interface{}{
					"type":        "string",
					"description": "Stable document identifier; classifications are memoized per ID",
				},
				"optimize": map[string]interface{}{
					"type":        "boolean",
					"description": "Include chunking options tuned to the detected category",
					"default":     true,
				},
			},
			Required: []string{"text"},
		},
	}
}

// analyzeCoherenceTool returns the tool definition for analyze_coherence
func analyzeCoherenceTool() mcp.Tool {
	return mcp.Tool{
		Name:        "analyze_coherence",
		Description: "Score the semantic coherence of one chunk of text and flag issues",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"content": map[string]interface{}{
					"type":        "string",
					"description": "Chunk content to analyze",
				},
			},
			Required: []string{"content"},
		},
	}
}

// suggestBoundariesTool returns the tool definition for suggest_boundaries
func suggestBoundariesTool() mcp.Tool {
	return mcp.Tool{
		Name:        "suggest_boundaries",
		Description: "Propose chunk boundaries for raw content from detected semantic topic changes",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"content": map[string]interface{}{
					"type":        "string",
					"description": "Content to find boundaries in",
				},
				"max_chunk_size": map[string]interface{}{
					"type":        "integer",
					"description": "Target chunk size the suggested spans are normalized against",
					"default":     1024,
					"minimum":     1,
				},
			},
			Required: []string{"content"},
		},
	}
}

// getStatusTool returns the tool definition for get_status
func getStatusTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_status",
		Description: "Report server configuration, registered strategies, and cache statistics",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}
}
