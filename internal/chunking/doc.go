// Package chunking implements the strategy engine: a frozen registry of
// chunking strategies, auto-selection from cheap structural signals, and
// the strategies themselves.
//
// # Strategies
//
//   - fixed_size: character windows with a fixed overlap; registry fallback
//   - paragraph: blank-line boundaries, short paragraphs merged
//   - semantic: whole-sentence packing up to the budget
//   - smart: semantic packing with an average-completeness floor of 0.7
//   - hierarchical: section hints or detected headings drive the cuts
//   - page_level: reader-supplied page offsets drive the cuts
//   - intelligent: structure-aware, optionally refined by a completion
//     provider; degrades to the heuristic when the provider is absent
//   - recursive: recursive-character splitting
//   - auto: selected per document by the Selector
//
// # Offsets
//
// Every chunk records byte offsets into the source text such that
// doc.Text[StartChar:EndChar] == Content. Strategies cut at rune
// boundaries, so offsets never land inside a UTF-8 sequence. Concatenating
// chunk contents and dropping declared overlaps reproduces the source
// modulo inter-chunk whitespace.
//
// # Concurrency
//
// Strategies hold no document-scoped state; a single instance may chunk
// multiple documents concurrently. The registry is frozen after startup
// registration, making lookups lock-free.
package chunking
