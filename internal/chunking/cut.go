package chunking

import (
	"strings"
	"unicode"

	"github.com/chunksmith/chunksmith-mcp/pkg/types"
)

// span is a half-open byte range into the source text.
type span struct {
	start int
	end   int
}

// newChunk builds a raw chunk over doc.Text[start:end]. Identification,
// hashing, and enrichment happen later in the engine finalize step.
func newChunk(doc *types.Document, start, end int) types.Chunk {
	return types.Chunk{
		Content:   doc.Text[start:end],
		StartChar: start,
		EndChar:   end,
	}
}

// runeOffsets returns a slice mapping rune index -> byte offset, with a
// final element equal to len(text).
func runeOffsets(text string) []int {
	offsets := make([]int, 0, len(text)+1)
	for i := range text {
		offsets = append(offsets, i)
	}
	offsets = append(offsets, len(text))
	return offsets
}

// fixedSpans cuts text into spans of at most size runes. Consecutive spans
// share overlap runes: the tail of span n is repeated at the head of span
// n+1. Spans are always cut at rune boundaries.
func fixedSpans(text string, size, overlap int) []span {
	if size <= 0 || text == "" {
		return nil
	}
	if overlap < 0 || overlap >= size {
		overlap = 0
	}

	offsets := runeOffsets(text)
	totalRunes := len(offsets) - 1
	step := size - overlap

	var spans []span
	for pos := 0; pos < totalRunes; pos += step {
		end := pos + size
		if end > totalRunes {
			end = totalRunes
		}
		spans = append(spans, span{start: offsets[pos], end: offsets[end]})
		if end == totalRunes {
			break
		}
	}
	return spans
}

// splitOversized force-splits a span whose text exceeds size runes,
// preferring word boundaries close to the limit. Used only when a single
// indivisible unit (sentence, paragraph) is larger than the chunk budget.
func splitOversized(text string, base int, size int) []span {
	offsets := runeOffsets(text)
	totalRunes := len(offsets) - 1
	if totalRunes <= size {
		return []span{{start: base, end: base + len(text)}}
	}

	var spans []span
	runes := []rune(text)
	pos := 0
	for pos < totalRunes {
		end := pos + size
		if end >= totalRunes {
			spans = append(spans, span{start: base + offsets[pos], end: base + offsets[totalRunes]})
			break
		}
		// Back up to the nearest word boundary, but never below half the
		// budget, to avoid degenerate slivers on unbroken runs.
		cut := end
		for cut > pos+size/2 && !unicode.IsSpace(runes[cut-1]) {
			cut--
		}
		if cut == pos+size/2 {
			cut = end
		}
		spans = append(spans, span{start: base + offsets[pos], end: base + offsets[cut]})
		pos = cut
		// Skip leading whitespace of the next piece
		for pos < totalRunes && unicode.IsSpace(runes[pos]) {
			pos++
		}
	}
	return spans
}

// runeLen is a readable alias for counting runes in a span's content.
func runeLen(s string) int {
	return len([]rune(s))
}

// trimSpan narrows a span to exclude leading/trailing whitespace while
// keeping offsets consistent with the source text.
func trimSpan(text string, s span) (span, bool) {
	content := text[s.start:s.end]
	trimmedLeft := strings.TrimLeft(content, " \t\n\r")
	start := s.start + (len(content) - len(trimmedLeft))
	trimmed := strings.TrimRight(trimmedLeft, " \t\n\r")
	end := start + len(trimmed)
	if start >= end {
		return span{}, false
	}
	return span{start: start, end: end}, true
}
