package chunking

import (
	"context"

	"github.com/chunksmith/chunksmith-mcp/pkg/types"
)

// Hierarchical cuts along the document's section hierarchy. Reader-supplied
// section hints take precedence; without hints, Markdown-style headings are
// detected. Each section becomes one or more chunks carrying the section
// title, and oversized sections are packed at sentence boundaries.
type Hierarchical struct{}

// NewHierarchical constructs the strategy.
func NewHierarchical() *Hierarchical { return &Hierarchical{} }

func (s *Hierarchical) Name() string { return types.StrategyHierarchical }

func (s *Hierarchical) Chunk(ctx context.Context, doc *types.Document, opts types.ChunkingOptions) ([]types.Chunk, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sections := sectionSpans(doc)
	if len(sections) == 0 {
		// No hierarchy to follow; degrade to sentence packing.
		return NewSemantic().Chunk(ctx, doc, opts)
	}

	var chunks []types.Chunk
	for _, sec := range sections {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		body, ok := trimSpan(doc.Text, span{start: sec.start, end: sec.end})
		if !ok {
			continue
		}
		if runeLen(doc.Text[body.start:body.end]) <= opts.MaxChunkSize {
			c := newChunk(doc, body.start, body.end)
			annotateSection(&c, sec)
			chunks = append(chunks, c)
			continue
		}
		for _, sp := range packSentences(doc.Text[body.start:body.end], body.start, opts.MaxChunkSize) {
			c := newChunk(doc, sp.start, sp.end)
			annotateSection(&c, sec)
			chunks = append(chunks, c)
		}
	}
	return chunks, nil
}

// section is a heading-delimited region of the document.
type section struct {
	start int
	end   int
	title string
	level int
}

func annotateSection(c *types.Chunk, sec section) {
	if sec.title != "" {
		c.SetProp(types.PropSectionTitle, sec.title)
	}
}

// sectionSpans derives section regions from reader hints or detected
// headings. Each section runs from its heading to the next heading of any
// level, the last one to end of text.
func sectionSpans(doc *types.Document) []section {
	var heads []Heading
	if len(doc.Sections) > 0 {
		for _, h := range doc.Sections {
			heads = append(heads, Heading{Title: h.Title, Level: h.Level, Offset: h.Offset})
		}
	} else {
		heads = AnalyzeStructure(doc.Text).Headings
	}
	if len(heads) == 0 {
		return nil
	}

	var sections []section
	// Preamble before the first heading is its own section.
	if heads[0].Offset > 0 {
		sections = append(sections, section{start: 0, end: heads[0].Offset})
	}
	for i, h := range heads {
		end := len(doc.Text)
		if i+1 < len(heads) {
			end = heads[i+1].Offset
		}
		if h.Offset >= end {
			continue
		}
		sections = append(sections, section{start: h.Offset, end: end, title: h.Title, level: h.Level})
	}
	return sections
}
