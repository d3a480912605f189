package chunking

import (
	"github.com/chunksmith/chunksmith-mcp/pkg/types"
)

// Auto-selection thresholds. The numbered-section rule wins first so
// procedural documents never break mid-procedure.
const (
	autoNumberedSectionMin = 5
	autoHeadingMin         = 3

	// DefaultCJKThreshold is the CJK ratio above which the chunk size
	// multiplier kicks in.
	DefaultCJKThreshold = 0.3

	// cjkMinMultiplier is the multiplier at CJK ratio 1.0: the effective
	// chunk size bottoms out at 15% of the configured budget.
	cjkMinMultiplier = 0.15
)

// Selection is the outcome of auto strategy selection.
type Selection struct {
	Strategy string
	Options  types.ChunkingOptions
	Reason   string
}

// Selector picks a concrete strategy from cheap structural signals.
type Selector struct {
	// CJKThreshold is the ratio above which CJK size reduction applies.
	CJKThreshold float64
}

// NewSelector returns a selector with default thresholds.
func NewSelector() *Selector {
	return &Selector{CJKThreshold: DefaultCJKThreshold}
}

// Select applies the selection heuristics in priority order:
//
//  1. Five or more numbered-section markers select paragraph chunking.
//  2. Three or more Markdown headings select hierarchical chunking.
//  3. A CJK ratio above the threshold shrinks the chunk budget (CJK text
//     carries more information per codepoint) and selects semantic.
//  4. Everything else gets smart.
func (s *Selector) Select(doc *types.Document, opts types.ChunkingOptions) Selection {
	info := AnalyzeStructure(doc.Text)

	switch {
	case info.NumberedSectionCount >= autoNumberedSectionMin:
		return Selection{
			Strategy: types.StrategyParagraph,
			Options:  opts,
			Reason:   "numbered sections",
		}
	case info.HeadingCount >= autoHeadingMin:
		return Selection{
			Strategy: types.StrategyHierarchical,
			Options:  opts,
			Reason:   "markdown headings",
		}
	case info.CJKRatio > s.CJKThreshold:
		adjusted := opts
		adjusted.MaxChunkSize = int(float64(opts.MaxChunkSize) * CJKMultiplier(info.CJKRatio))
		if adjusted.MaxChunkSize < 1 {
			adjusted.MaxChunkSize = 1
		}
		if adjusted.OverlapSize >= adjusted.MaxChunkSize {
			adjusted.OverlapSize = adjusted.MaxChunkSize / 4
		}
		return Selection{
			Strategy: types.StrategySemantic,
			Options:  adjusted,
			Reason:   "cjk ratio",
		}
	default:
		return Selection{
			Strategy: types.StrategySmart,
			Options:  opts,
			Reason:   "default",
		}
	}
}

// CJKMultiplier maps a CJK ratio in [0, 1] to a chunk-size multiplier.
// It decreases linearly from 1.0 at ratio 0 to cjkMinMultiplier at ratio 1,
// so it is monotonically non-increasing in the ratio.
func CJKMultiplier(ratio float64) float64 {
	if ratio <= 0 {
		return 1.0
	}
	if ratio >= 1 {
		return cjkMinMultiplier
	}
	return 1.0 - (1.0-cjkMinMultiplier)*ratio
}
