// Package semantic implements embedding-driven boundary detection and
// intra-chunk coherence analysis.
//
// The Detector scores the similarity between consecutive text segments and
// classifies each boundary as sentence, paragraph, or topic change; low
// similarity forces a topic change regardless of trailing punctuation.
// SuggestBoundaries turns boundary points into size-normalized cut spans.
//
// The Analyzer scores how semantically related the sentences inside one
// chunk are, flags issues (topic shift, incomplete thought, broken
// reference), and derives deterministic suggestions from them.
//
// Both degrade gracefully: with no embedding provider, or when the
// provider fails mid-run, similarities come from lexical word overlap and
// results are marked degraded. Chunking itself never depends on this
// package succeeding. Cancellation is honored between segments so analysis
// of a large document stops promptly.
package semantic
