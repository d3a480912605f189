package chunking

import (
	"context"
	"regexp"

	"github.com/chunksmith/chunksmith-mcp/pkg/types"
)

var blankLinePattern = regexp.MustCompile(`\n[ \t]*\n+`)

// Paragraph splits on blank-line boundaries and merges short paragraphs
// until the chunk budget is approached. A paragraph is only cut mid-sentence
// when the paragraph alone exceeds the budget, and even then the cut falls
// on sentence boundaries first.
type Paragraph struct{}

// NewParagraph constructs the strategy.
func NewParagraph() *Paragraph { return &Paragraph{} }

func (s *Paragraph) Name() string { return types.StrategyParagraph }

func (s *Paragraph) Chunk(ctx context.Context, doc *types.Document, opts types.ChunkingOptions) ([]types.Chunk, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	paras := paragraphSpans(doc.Text)
	var chunks []types.Chunk
	var cur span
	open := false

	flush := func() {
		if open {
			chunks = append(chunks, newChunk(doc, cur.start, cur.end))
			open = false
		}
	}

	for _, p := range paras {
		plen := runeLen(doc.Text[p.start:p.end])
		if plen > opts.MaxChunkSize {
			// Oversized paragraph: close what we have and cut the
			// paragraph itself at sentence boundaries.
			flush()
			for _, sp := range packSentences(doc.Text[p.start:p.end], p.start, opts.MaxChunkSize) {
				chunks = append(chunks, newChunk(doc, sp.start, sp.end))
			}
			continue
		}

		if !open {
			cur = p
			open = true
			continue
		}

		merged := doc.Text[cur.start:p.end]
		if runeLen(merged) <= opts.MaxChunkSize {
			cur.end = p.end
		} else {
			flush()
			cur = p
			open = true
		}
	}
	flush()

	return chunks, nil
}

// paragraphSpans returns trimmed spans for each blank-line-separated block.
func paragraphSpans(text string) []span {
	var spans []span
	pos := 0
	for _, loc := range blankLinePattern.FindAllStringIndex(text, -1) {
		if sp, ok := trimSpan(text, span{start: pos, end: loc[0]}); ok {
			spans = append(spans, sp)
		}
		pos = loc[1]
	}
	if sp, ok := trimSpan(text, span{start: pos, end: len(text)}); ok {
		spans = append(spans, sp)
	}
	return spans
}

// packSentences greedily groups the sentences of text into spans of at most
// size runes. A single sentence larger than the budget is force-split at
// word boundaries.
func packSentences(text string, base int, size int) []span {
	sentences := SplitSentences(text)
	if len(sentences) == 0 {
		return nil
	}

	var spans []span
	cur := span{start: -1}
	flush := func() {
		if cur.start >= 0 {
			spans = append(spans, span{start: base + cur.start, end: base + cur.end})
			cur = span{start: -1}
		}
	}

	for _, sent := range sentences {
		slen := runeLen(sent.Text)
		if slen > size {
			flush()
			spans = append(spans, splitOversized(sent.Text, base+sent.Start, size)...)
			continue
		}
		if cur.start < 0 {
			cur = span{start: sent.Start, end: sent.End}
			continue
		}
		if runeLen(text[cur.start:sent.End]) <= size {
			cur.end = sent.End
		} else {
			flush()
			cur = span{start: sent.Start, end: sent.End}
		}
	}
	flush()

	return spans
}
