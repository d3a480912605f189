// Package doctype classifies documents into categories by keyword density
// and derives chunking options tuned to the category.
//
// The classifier is fully deterministic: word-boundary keyword matching,
// a floor below which everything is General, and a complexity score built
// from word length, sentence length, and vocabulary repetition. The
// optimizer maps each category to a known-good size/overlap range and
// interpolates within it by complexity. Classification results are
// memoized per document ID in an optimizer-owned LRU cache.
package doctype
