package chunking

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// minCompleteLen is the minimum trimmed length for a sentence to count as
// complete. Shorter fragments are treated as truncations.
const minCompleteLen = 10

// Sentence is one sentence-level unit of the source text with its byte
// offsets. For every unit, text[Start:End] == Text.
type Sentence struct {
	Text  string
	Start int
	End   int

	// Complete is true when the unit ends at a boundary that existed in
	// the source (terminal punctuation or a source line break) and is
	// longer than minCompleteLen. Units produced by force-splitting an
	// oversized sentence are never complete.
	Complete bool
}

// terminal punctuation for Latin and CJK scripts
func isTerminal(r rune) bool {
	switch r {
	case '.', '!', '?', '。', '！', '？':
		return true
	}
	return false
}

// closing characters that may trail terminal punctuation
func isClosing(r rune) bool {
	switch r {
	case '"', '\'', ')', ']', '»', '”', '’', '」', '』':
		return true
	}
	return false
}

// SplitSentences splits text into sentence units. The primary rule places a
// boundary after terminal punctuation followed by whitespace and an
// uppercase letter (or a CJK codepoint, which has no case). When no sentence
// boundary is found at all, it falls back to splitting on line breaks.
func SplitSentences(text string) []Sentence {
	if text == "" {
		return nil
	}

	var sentences []Sentence
	start := 0
	runes := []rune(text)
	byteOff := make([]int, len(runes)+1)
	{
		off := 0
		for i, r := range runes {
			byteOff[i] = off
			off += utf8.RuneLen(r)
		}
		byteOff[len(runes)] = len(text)
	}

	for i := 0; i < len(runes); i++ {
		if !isTerminal(runes[i]) {
			continue
		}
		// Consume trailing closers and repeated punctuation ("?!", '."')
		j := i + 1
		for j < len(runes) && (isTerminal(runes[j]) || isClosing(runes[j])) {
			j++
		}
		// CJK terminators end a sentence unconditionally
		cjkStop := runes[i] == '。' || runes[i] == '！' || runes[i] == '？'
		if j >= len(runes) {
			i = j - 1
			continue // end of text closes the final sentence below
		}
		if !cjkStop {
			// Require whitespace then an uppercase (or caseless CJK) start
			if !unicode.IsSpace(runes[j]) {
				i = j - 1
				continue
			}
			k := j
			for k < len(runes) && unicode.IsSpace(runes[k]) {
				k++
			}
			if k >= len(runes) {
				i = j - 1
				continue
			}
			next := runes[k]
			if !unicode.IsUpper(next) && !isCJK(next) && !unicode.IsDigit(next) {
				i = j - 1
				continue
			}
		}
		s := text[byteOff[start]:byteOff[j]]
		sentences = append(sentences, newSourceSentence(s, byteOff[start], byteOff[j]))
		start = j
		// Skip whitespace so the next sentence starts on content
		for start < len(runes) && unicode.IsSpace(runes[start]) {
			start++
		}
		i = start - 1
	}

	if start < len(runes) {
		s := text[byteOff[start]:]
		sentences = append(sentences, newSourceSentence(s, byteOff[start], len(text)))
	}

	// Fallback: no sentence boundary found, split on line breaks
	if strings.Contains(strings.TrimSpace(text), "\n") {
		if len(sentences) == 0 || (len(sentences) == 1 && !sentences[0].Complete) {
			return splitLines(text)
		}
	}

	return sentences
}

// newSourceSentence builds a unit that ended at a source boundary.
func newSourceSentence(s string, start, end int) Sentence {
	trimmed := strings.TrimSpace(s)
	complete := len([]rune(trimmed)) > minCompleteLen && !strings.HasSuffix(trimmed, "...") &&
		!strings.HasSuffix(trimmed, "…")
	if complete {
		last, _ := utf8.DecodeLastRuneInString(strings.TrimRightFunc(trimmed, isClosing))
		if !isTerminal(last) {
			// Ends mid-thought; still a source unit but not complete
			complete = false
		}
	}
	return Sentence{Text: s, Start: start, End: end, Complete: complete}
}

// splitLines is the fallback when text carries no sentence punctuation.
// A line that ended at a source line break is not a truncation, so lines
// longer than minCompleteLen count as complete.
func splitLines(text string) []Sentence {
	var sentences []Sentence
	pos := 0
	for pos < len(text) {
		nl := strings.IndexByte(text[pos:], '\n')
		end := len(text)
		if nl >= 0 {
			end = pos + nl + 1
		}
		seg := text[pos:end]
		if strings.TrimSpace(seg) != "" {
			sentences = append(sentences, Sentence{
				Text:     seg,
				Start:    pos,
				End:      end,
				Complete: len([]rune(strings.TrimSpace(seg))) > minCompleteLen,
			})
		}
		pos = end
	}
	return sentences
}

func isCJK(r rune) bool {
	return unicode.Is(unicode.Han, r) ||
		unicode.Is(unicode.Hangul, r) ||
		unicode.Is(unicode.Hiragana, r) ||
		unicode.Is(unicode.Katakana, r)
}

// CJKRatio returns the fraction of codepoints belonging to the Hangul,
// CJK-Unified, Hiragana, or Katakana ranges.
func CJKRatio(text string) float64 {
	var total, cjk int
	for _, r := range text {
		if unicode.IsSpace(r) {
			continue
		}
		total++
		if isCJK(r) {
			cjk++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(cjk) / float64(total)
}

// Completeness returns the fraction of a chunk's sentence units that are
// complete. Chunks with no units at all score zero.
func Completeness(content string) float64 {
	units := SplitSentences(content)
	if len(units) == 0 {
		return 0
	}
	complete := 0
	for _, u := range units {
		if u.Complete {
			complete++
		}
	}
	return float64(complete) / float64(len(units))
}
