package chunking

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/textsplitter"

	"github.com/chunksmith/chunksmith-mcp/pkg/types"
)

// Recursive delegates to a recursive-character splitter (paragraph, then
// sentence, then word separators). It keeps the engine's offset and overlap
// contracts by locating each produced segment back in the source text.
type Recursive struct{}

// NewRecursive constructs the strategy.
func NewRecursive() *Recursive { return &Recursive{} }

func (s *Recursive) Name() string { return types.StrategyRecursive }

func (s *Recursive) Chunk(ctx context.Context, doc *types.Document, opts types.ChunkingOptions) ([]types.Chunk, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	splitter := textsplitter.NewRecursiveCharacter(
		textsplitter.WithChunkSize(opts.MaxChunkSize),
		textsplitter.WithChunkOverlap(opts.OverlapSize),
	)
	segments, err := splitter.SplitText(doc.Text)
	if err != nil {
		return nil, fmt.Errorf("recursive split of document %q: %w", doc.ID, err)
	}

	chunks := make([]types.Chunk, 0, len(segments))
	searchFrom := 0
	for _, segment := range segments {
		if segment == "" {
			continue
		}
		// Overlapping segments can start before the previous segment's
		// end, so search from just past the previous start.
		at := strings.Index(doc.Text[searchFrom:], segment)
		start := searchFrom
		if at >= 0 {
			start = searchFrom + at
		} else if at = strings.Index(doc.Text, segment); at >= 0 {
			start = at
		}
		chunks = append(chunks, newChunk(doc, start, start+len(segment)))
		searchFrom = start + 1
	}
	return chunks, nil
}
