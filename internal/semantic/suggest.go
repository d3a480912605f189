package semantic

import (
	"context"

	"github.com/chunksmith/chunksmith-mcp/internal/chunking"
	"github.com/chunksmith/chunksmith-mcp/pkg/types"
)

// Span-size normalization relative to maxChunkSize.
const (
	mergeBelowFactor = 0.3
	splitAboveFactor = 1.5

	// splitCoherenceInheritance: each half of a split span inherits this
	// share of the parent's coherence score.
	splitCoherenceInheritance = 0.9

	previewLen = 80
)

// SuggestBoundaries proposes chunk boundaries for arbitrary content: it
// cuts at detected topic changes, then normalizes span sizes by merging
// spans under 0.3x maxChunkSize into a neighbor and halving spans over
// 1.5x maxChunkSize.
func (d *Detector) SuggestBoundaries(ctx context.Context, content string, maxChunkSize int) ([]types.ChunkBoundary, bool, error) {
	sentences := chunking.SplitSentences(content)
	if len(sentences) == 0 {
		return nil, false, nil
	}
	if len(sentences) == 1 {
		return []types.ChunkBoundary{singleSpan(content, sentences[0])}, false, nil
	}

	segments := make([]string, len(sentences))
	for i, s := range sentences {
		segments[i] = s.Text
	}

	points, degraded, err := d.DetectBoundaries(ctx, segments)
	if err != nil {
		return nil, degraded, err
	}

	spans := d.cutAtTopicChanges(content, sentences, points)
	spans = mergeShortSpans(content, spans, maxChunkSize)
	spans = splitLongSpans(content, spans, maxChunkSize)
	return spans, degraded, nil
}

// cutAtTopicChanges groups sentences into spans, closing a span at every
// topic-change boundary. A span's coherence score is the mean similarity
// across its internal boundaries (single-sentence spans score 0.8, matching
// the coherence analyzer's short-content assumption).
func (d *Detector) cutAtTopicChanges(content string, sentences []chunking.Sentence, points []types.BoundaryPoint) []types.ChunkBoundary {
	var spans []types.ChunkBoundary
	spanStart := 0
	var simSum float64
	simCount := 0

	closeSpan := func(endSentence int) {
		start := sentences[spanStart].Start
		end := sentences[endSentence].End
		score := 0.8
		if simCount > 0 {
			score = simSum / float64(simCount)
		}
		spans = append(spans, types.ChunkBoundary{
			StartPosition:  start,
			EndPosition:    end,
			CoherenceScore: clamp01(score),
			Reason:         "topic boundary",
			ContentPreview: makePreview(content[start:end]),
		})
		simSum, simCount = 0, 0
	}

	for i, p := range points {
		if p.Type == types.BoundaryTopicChange {
			closeSpan(i)
			spanStart = i + 1
		} else {
			simSum += p.Similarity
			simCount++
		}
	}
	closeSpan(len(sentences) - 1)
	return spans
}

// mergeShortSpans folds spans under the merge threshold into the smaller of
// their neighbors, keeping the neighbor's reason.
func mergeShortSpans(content string, spans []types.ChunkBoundary, maxChunkSize int) []types.ChunkBoundary {
	minSize := int(float64(maxChunkSize) * mergeBelowFactor)
	for i := 0; i < len(spans) && len(spans) > 1; {
		if spans[i].Length() >= minSize {
			i++
			continue
		}
		target := i - 1
		if i == 0 {
			target = 1
		} else if i+1 < len(spans) && spans[i+1].Length() < spans[i-1].Length() {
			target = i + 1
		}

		lo, hi := i, target
		if lo > hi {
			lo, hi = hi, lo
		}
		merged := types.ChunkBoundary{
			StartPosition: spans[lo].StartPosition,
			EndPosition:   spans[hi].EndPosition,
			// The weaker score dominates the merged span
			CoherenceScore: minFloat(spans[lo].CoherenceScore, spans[hi].CoherenceScore),
			Reason:         "merged short span",
		}
		merged.ContentPreview = makePreview(content[merged.StartPosition:merged.EndPosition])
		spans = append(spans[:lo], append([]types.ChunkBoundary{merged}, spans[hi+1:]...)...)
		if i > 0 {
			i--
		}
	}
	return spans
}

// splitLongSpans halves spans over the split threshold; each half inherits
// 90% of the parent's coherence score. Halving repeats until every span is
// under the threshold.
func splitLongSpans(content string, spans []types.ChunkBoundary, maxChunkSize int) []types.ChunkBoundary {
	maxSize := int(float64(maxChunkSize) * splitAboveFactor)
	var out []types.ChunkBoundary
	for _, sp := range spans {
		out = append(out, halveSpan(content, sp, maxSize)...)
	}
	return out
}

func halveSpan(content string, sp types.ChunkBoundary, maxSize int) []types.ChunkBoundary {
	if sp.Length() <= maxSize {
		return []types.ChunkBoundary{sp}
	}
	mid := sp.StartPosition + sp.Length()/2
	// Cut on a rune boundary
	for mid > sp.StartPosition && !isRuneStart(content, mid) {
		mid--
	}
	score := clamp01(sp.CoherenceScore * splitCoherenceInheritance)
	left := types.ChunkBoundary{
		StartPosition:  sp.StartPosition,
		EndPosition:    mid,
		CoherenceScore: score,
		Reason:         "split oversized span",
		ContentPreview: makePreview(content[sp.StartPosition:mid]),
	}
	right := types.ChunkBoundary{
		StartPosition:  mid,
		EndPosition:    sp.EndPosition,
		CoherenceScore: score,
		Reason:         "split oversized span",
		ContentPreview: makePreview(content[mid:sp.EndPosition]),
	}
	return append(halveSpan(content, left, maxSize), halveSpan(content, right, maxSize)...)
}

func singleSpan(content string, s chunking.Sentence) types.ChunkBoundary {
	return types.ChunkBoundary{
		StartPosition:  s.Start,
		EndPosition:    s.End,
		CoherenceScore: 0.8,
		Reason:         "single segment",
		ContentPreview: makePreview(content[s.Start:s.End]),
	}
}

func makePreview(text string) string {
	runes := []rune(text)
	if len(runes) <= previewLen {
		return text
	}
	return string(runes[:previewLen]) + "..."
}

func isRuneStart(s string, i int) bool {
	return i == 0 || i >= len(s) || (s[i]&0xC0) != 0x80
}

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
