package chunking

import (
	"context"

	"github.com/chunksmith/chunksmith-mcp/pkg/types"
)

// CompletenessFloor is the minimum average completeness the smart strategy
// guarantees across all chunks it produces.
const CompletenessFloor = 0.7

// maxRebalancePasses bounds the re-balancing loop; each pass removes at
// least one chunk, so this is also a hard upper bound on merge work.
const maxRebalancePasses = 64

// Smart is sentence-boundary aware like Semantic, with a hard floor: the
// average completeness over its produced chunks stays at or above
// CompletenessFloor. If naive packing would violate the floor, chunk
// boundaries are re-balanced (fragment-heavy chunks merged into their
// neighbors) until it is satisfied or no merge can improve it.
type Smart struct{}

// NewSmart constructs the strategy.
func NewSmart() *Smart { return &Smart{} }

func (s *Smart) Name() string { return types.StrategySmart }

func (s *Smart) Chunk(ctx context.Context, doc *types.Document, opts types.ChunkingOptions) ([]types.Chunk, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	spans := packSentences(doc.Text, 0, opts.MaxChunkSize)
	spans = rebalance(doc.Text, spans, opts.MaxChunkSize)

	chunks := make([]types.Chunk, 0, len(spans))
	for _, sp := range spans {
		chunks = append(chunks, newChunk(doc, sp.start, sp.end))
	}
	return chunks, nil
}

// rebalance merges the least-complete chunk into its smaller neighbor until
// the average completeness reaches the floor. Merged chunks may exceed the
// budget by a small tolerance; that trade is preferred over emitting
// truncated fragments.
func rebalance(text string, spans []span, size int) []span {
	tolerance := size + size/5

	for pass := 0; pass < maxRebalancePasses && len(spans) > 1; pass++ {
		scores := make([]float64, len(spans))
		var sum float64
		worst := 0
		for i, sp := range spans {
			scores[i] = Completeness(text[sp.start:sp.end])
			sum += scores[i]
			if scores[i] < scores[worst] {
				worst = i
			}
		}
		if sum/float64(len(spans)) >= CompletenessFloor {
			return spans
		}

		// Merge the worst chunk into whichever neighbor keeps the
		// combined span smaller.
		target := worst - 1
		if worst == 0 {
			target = 1
		} else if worst+1 < len(spans) {
			left := runeLen(text[spans[worst-1].start:spans[worst].end])
			right := runeLen(text[spans[worst].start:spans[worst+1].end])
			if right < left {
				target = worst + 1
			}
		}

		lo, hi := worst, target
		if lo > hi {
			lo, hi = hi, lo
		}
		merged := span{start: spans[lo].start, end: spans[hi].end}
		if runeLen(text[merged.start:merged.end]) > tolerance {
			// Merging would blow the budget; the floor cannot be
			// improved without truncating sentences, so stop.
			return spans
		}
		spans = append(spans[:lo], append([]span{merged}, spans[hi+1:]...)...)
	}
	return spans
}
