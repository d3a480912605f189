package semantic

import (
	"context"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/chunksmith/chunksmith-mcp/internal/embedder"
	"github.com/chunksmith/chunksmith-mcp/pkg/types"
)

// Config holds the boundary classification thresholds. These are tunable
// defaults, not frozen invariants; the topic-change rule deliberately wins
// over punctuation heuristics (similarity below the threshold forces
// TopicChange even after a terminal-punctuated segment).
type Config struct {
	// TopicChangeThreshold: similarity below this is a topic change.
	TopicChangeThreshold float64
	// SentenceThreshold: similarity in [TopicChangeThreshold, this) with
	// terminal punctuation is a sentence boundary.
	SentenceThreshold float64
}

// DefaultConfig returns the documented default thresholds.
func DefaultConfig() Config {
	return Config{
		TopicChangeThreshold: 0.5,
		SentenceThreshold:    0.7,
	}
}

// Detector scores the boundaries between ordered text segments using an
// embedding provider. A nil provider degrades to lexical statistics.
type Detector struct {
	provider embedder.Provider
	cfg      Config
	logger   *slog.Logger
}

// NewDetector constructs a detector. provider may be nil.
func NewDetector(provider embedder.Provider, cfg Config, logger *slog.Logger) *Detector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Detector{provider: provider, cfg: cfg, logger: logger}
}

// DetectBoundaries classifies the boundary between each consecutive pair of
// segments. The returned points are ordered by segment index. degraded is
// true when similarities came from lexical statistics instead of embeddings.
// Cancellation is checked between segments, not only at entry.
func (d *Detector) DetectBoundaries(ctx context.Context, segments []string) (points []types.BoundaryPoint, degraded bool, err error) {
	if len(segments) < 2 {
		return nil, false, nil
	}

	sims, degraded, err := d.pairwiseSimilarities(ctx, segments)
	if err != nil {
		return nil, degraded, err
	}

	points = make([]types.BoundaryPoint, 0, len(sims))
	for i, sim := range sims {
		points = append(points, types.BoundaryPoint{
			SegmentIndex: i,
			Similarity:   sim,
			Confidence:   d.confidence(sim),
			Type:         d.classify(sim, segments[i]),
		})
	}
	return points, degraded, nil
}

// classify applies the threshold rules. Low similarity forces TopicChange
// regardless of trailing punctuation.
func (d *Detector) classify(similarity float64, precedingSegment string) types.BoundaryType {
	switch {
	case similarity < d.cfg.TopicChangeThreshold:
		return types.BoundaryTopicChange
	case similarity < d.cfg.SentenceThreshold && endsWithTerminal(precedingSegment):
		return types.BoundarySentence
	default:
		return types.BoundaryParagraph
	}
}

// confidence reflects the distance from the nearest classification
// threshold, scaled into [0, 1]: similarities deep inside a band are more
// confident than ones near a cutoff.
func (d *Detector) confidence(similarity float64) float64 {
	dist := absFloat(similarity - d.cfg.TopicChangeThreshold)
	if other := absFloat(similarity - d.cfg.SentenceThreshold); other < dist {
		dist = other
	}
	conf := 0.5 + dist
	if conf > 1 {
		conf = 1
	}
	return conf
}

// pairwiseSimilarities returns the similarity of each consecutive segment
// pair, falling back to lexical overlap when embeddings are unavailable.
func (d *Detector) pairwiseSimilarities(ctx context.Context, segments []string) ([]float64, bool, error) {
	sims := make([]float64, len(segments)-1)

	if d.provider == nil {
		for i := 0; i < len(segments)-1; i++ {
			if err := ctx.Err(); err != nil {
				return nil, true, err
			}
			sims[i] = LexicalSimilarity(segments[i], segments[i+1])
		}
		return sims, true, nil
	}

	vectors, err := embedder.EmbedAll(ctx, d.provider, segments)
	if err != nil {
		if ctx.Err() != nil {
			return nil, false, ctx.Err()
		}
		// Provider failed mid-run: degrade rather than abort.
		d.logger.Warn("embedding provider failed, degrading to lexical similarity", "error", err)
		for i := 0; i < len(segments)-1; i++ {
			if cerr := ctx.Err(); cerr != nil {
				return nil, true, cerr
			}
			sims[i] = LexicalSimilarity(segments[i], segments[i+1])
		}
		return sims, true, nil
	}

	for i := 0; i < len(segments)-1; i++ {
		if err := ctx.Err(); err != nil {
			return nil, false, err
		}
		sims[i] = embedder.Similarity(vectors[i], vectors[i+1])
	}
	return sims, false, nil
}

func endsWithTerminal(segment string) bool {
	trimmed := strings.TrimRight(strings.TrimSpace(segment), `"')]»”’」』`)
	r, _ := utf8.DecodeLastRuneInString(trimmed)
	switch r {
	case '.', '!', '?', '。', '！', '？':
		return true
	}
	return false
}

func absFloat(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
