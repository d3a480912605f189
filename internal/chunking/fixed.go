package chunking

import (
	"context"

	"github.com/chunksmith/chunksmith-mcp/pkg/types"
)

// FixedSize cuts text into windows of MaxChunkSize characters with a fixed
// overlap window copied from the tail of each chunk into the head of the
// next. It is the cheapest strategy and the registry's default fallback.
type FixedSize struct{}

// NewFixedSize constructs the strategy.
func NewFixedSize() *FixedSize { return &FixedSize{} }

func (s *FixedSize) Name() string { return types.StrategyFixedSize }

func (s *FixedSize) Chunk(ctx context.Context, doc *types.Document, opts types.ChunkingOptions) ([]types.Chunk, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	spans := fixedSpans(doc.Text, opts.MaxChunkSize, opts.OverlapSize)
	chunks := make([]types.Chunk, 0, len(spans))
	for _, sp := range spans {
		chunks = append(chunks, newChunk(doc, sp.start, sp.end))
	}
	return chunks, nil
}
