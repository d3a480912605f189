package chunking

import (
	"context"

	"github.com/chunksmith/chunksmith-mcp/pkg/types"
)

// Semantic groups whole sentences until the chunk budget is approached.
// Sentence boundaries are never crossed unless a single sentence exceeds
// the budget on its own.
type Semantic struct{}

// NewSemantic constructs the strategy.
func NewSemantic() *Semantic { return &Semantic{} }

func (s *Semantic) Name() string { return types.StrategySemantic }

func (s *Semantic) Chunk(ctx context.Context, doc *types.Document, opts types.ChunkingOptions) ([]types.Chunk, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	spans := packSentences(doc.Text, 0, opts.MaxChunkSize)
	chunks := make([]types.Chunk, 0, len(spans))
	for _, sp := range spans {
		chunks = append(chunks, newChunk(doc, sp.start, sp.end))
	}
	return chunks, nil
}
