// Package quality scores chunking output and compares strategies.
//
// The Evaluator aggregates per-chunk completeness, adjacent-chunk
// consistency, and cut-point alignment into weighted document-level
// metrics. The Analyzer wraps a chunking engine to run full
// analyze-and-recommend passes, benchmark strategies against each other
// with bounded parallelism, and optionally orchestrate question-generation
// coverage when a completion provider is configured.
package quality
