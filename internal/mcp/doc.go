// Package mcp exposes the chunking engine over the Model Context Protocol.
//
// The server speaks MCP on stdio (all logging goes to stderr) and offers
// seven tools:
//
//   - chunk_document: split text into chunks with a named or auto-selected
//     strategy, optionally scoring each chunk
//   - analyze_quality: chunk and report quality metrics with
//     rule-based recommendations
//   - benchmark_strategies: run several strategies over one document and
//     recommend the best quality/speed tradeoff
//   - detect_document_type: classify the document and derive tuned
//     chunking options
//   - analyze_coherence: score one chunk's internal semantic coherence
//   - suggest_boundaries: propose chunk boundaries at detected topic changes
//   - get_status: report configuration and cache statistics
//
// Tool errors use JSON-RPC error codes: -32602 for invalid parameters,
// -32001 for an unknown strategy, -32002 for empty document text, and
// -32603 for internal failures. Embedding-dependent tools degrade to
// statistical approximations (flagged in the response) rather than fail
// when no provider is configured.
package mcp
