// Package types defines the shared domain types for the chunking engine:
// chunks and their metadata, chunking options, document type classification,
// boundary and coherence analysis results, and quality metrics.
//
// These types carry no behavior beyond validation and typed metadata access;
// the algorithms live in the internal packages.
package types
