package chunking

import (
	"context"
	"sort"

	"github.com/chunksmith/chunksmith-mcp/pkg/types"
)

// PageLevel cuts on page boundaries supplied as structural hints. Pages
// larger than the budget are packed at sentence boundaries, each piece
// keeping its page number. Without page hints the strategy degrades to
// paragraph chunking rather than failing.
type PageLevel struct{}

// NewPageLevel constructs the strategy.
func NewPageLevel() *PageLevel { return &PageLevel{} }

func (s *PageLevel) Name() string { return types.StrategyPageLevel }

func (s *PageLevel) Chunk(ctx context.Context, doc *types.Document, opts types.ChunkingOptions) ([]types.Chunk, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if len(doc.PageOffsets) == 0 {
		return NewParagraph().Chunk(ctx, doc, opts)
	}

	offsets := append([]int(nil), doc.PageOffsets...)
	sort.Ints(offsets)
	if offsets[0] != 0 {
		offsets = append([]int{0}, offsets...)
	}

	var chunks []types.Chunk
	for i, start := range offsets {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		end := len(doc.Text)
		if i+1 < len(offsets) {
			end = offsets[i+1]
		}
		if start >= end || start >= len(doc.Text) {
			continue
		}
		if end > len(doc.Text) {
			end = len(doc.Text)
		}
		page, ok := trimSpan(doc.Text, span{start: start, end: end})
		if !ok {
			continue
		}
		pageNum := i + 1
		if runeLen(doc.Text[page.start:page.end]) <= opts.MaxChunkSize {
			c := newChunk(doc, page.start, page.end)
			c.SetProp(types.PropPageNumber, pageNum)
			chunks = append(chunks, c)
			continue
		}
		for _, sp := range packSentences(doc.Text[page.start:page.end], page.start, opts.MaxChunkSize) {
			c := newChunk(doc, sp.start, sp.end)
			c.SetProp(types.PropPageNumber, pageNum)
			chunks = append(chunks, c)
		}
	}
	return chunks, nil
}
