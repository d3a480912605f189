package chunking

import (
	"context"
	"strconv"
	"strings"

	"github.com/chunksmith/chunksmith-mcp/internal/textgen"
	"github.com/chunksmith/chunksmith-mcp/pkg/types"
)

// Intelligent is the structure-aware strategy: it follows the section
// hierarchy when one exists and sentence packing otherwise, and may consult
// a text-completion provider to refine boundary placement. The provider is
// strictly optional; any provider absence or failure degrades to the
// structure-only heuristic, never to a hard failure.
type Intelligent struct {
	completion textgen.Provider
}

// NewIntelligent constructs the strategy. completion may be nil.
func NewIntelligent(completion textgen.Provider) *Intelligent {
	return &Intelligent{completion: completion}
}

func (s *Intelligent) Name() string { return types.StrategyIntelligent }

func (s *Intelligent) Chunk(ctx context.Context, doc *types.Document, opts types.ChunkingOptions) ([]types.Chunk, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var base Strategy
	if len(doc.Sections) > 0 || AnalyzeStructure(doc.Text).HeadingCount > 0 {
		base = NewHierarchical()
	} else {
		base = NewSemantic()
	}

	chunks, err := base.Chunk(ctx, doc, opts)
	if err != nil {
		return nil, err
	}

	if s.completion == nil || len(chunks) < 3 {
		return chunks, nil
	}
	return s.refineBoundaries(ctx, doc, chunks, opts.MaxChunkSize)
}

// refineBoundaries asks the completion provider which adjacent chunk pairs
// belong together, and merges the approved pairs when the result stays
// within a tolerance of the budget. Any provider error leaves the heuristic
// result untouched.
func (s *Intelligent) refineBoundaries(ctx context.Context, doc *types.Document, chunks []types.Chunk, size int) ([]types.Chunk, error) {
	var b strings.Builder
	b.WriteString("Below are numbered consecutive text segments. Reply with the numbers " +
		"of segments that continue directly into the following segment, comma separated, " +
		"or 'none'.\n\n")
	for i, c := range chunks {
		b.WriteString(strconv.Itoa(i))
		b.WriteString(": ")
		b.WriteString(preview(c.Content, 160))
		b.WriteString("\n")
	}

	reply, err := s.completion.Complete(ctx, b.String())
	if err != nil {
		// Degrade to the structure-only result.
		return chunks, nil
	}

	joinAfter := make(map[int]bool)
	for _, tok := range strings.FieldsFunc(reply, func(r rune) bool { return r == ',' || r == ' ' || r == '\n' }) {
		if n, err := strconv.Atoi(strings.TrimSpace(tok)); err == nil && n >= 0 && n < len(chunks)-1 {
			joinAfter[n] = true
		}
	}
	if len(joinAfter) == 0 {
		return chunks, nil
	}

	// Merged chunks may exceed the budget by the same tolerance the smart
	// strategy uses; larger merges are refused.
	tolerance := size + size/5

	var merged []types.Chunk
	for i := 0; i < len(chunks); i++ {
		c := chunks[i]
		for joinAfter[i] && i+1 < len(chunks) {
			next := chunks[i+1]
			combined := doc.Text[c.StartChar:next.EndChar]
			if runeLen(combined) > tolerance {
				break
			}
			c.Content = combined
			c.EndChar = next.EndChar
			i++
		}
		merged = append(merged, c)
	}
	return merged, nil
}

func preview(text string, limit int) string {
	text = strings.ReplaceAll(text, "\n", " ")
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit])
}
