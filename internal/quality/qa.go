package quality

import (
	"context"
	"fmt"
	"strings"

	"github.com/chunksmith/chunksmith-mcp/internal/textgen"
	"github.com/chunksmith/chunksmith-mcp/pkg/types"
)

// Question types generated per chunk.
const (
	QuestionFactual    = "factual"
	QuestionConceptual = "conceptual"
	QuestionProcedural = "procedural"
)

// qaChunkBudget caps how many chunks are sampled for question generation.
const qaChunkBudget = 20

// QAReport summarizes a question-generation pass: what fraction of chunks
// produced at least one answerable question and how the questions break
// down by type. Skipped is set when no completion provider is configured.
type QAReport struct {
	DocID           string
	Coverage        float64
	QuestionsByType map[string]int
	TotalQuestions  int
	Skipped         bool
}

// QABenchmark asks the completion provider to generate retrieval questions
// for a sample of chunks and reports coverage. With a nil provider the
// report comes back marked Skipped; this never fails the caller.
func (a *Analyzer) QABenchmark(ctx context.Context, completion textgen.Provider, doc *types.Document, chunks []types.Chunk) (*QAReport, error) {
	report := &QAReport{
		DocID:           doc.ID,
		QuestionsByType: make(map[string]int),
	}
	if completion == nil {
		report.Skipped = true
		return report, nil
	}
	if len(chunks) == 0 {
		return report, nil
	}

	sample := chunks
	if len(sample) > qaChunkBudget {
		sample = sample[:qaChunkBudget]
	}

	covered := 0
	for _, chunk := range sample {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		questions, err := a.generateQuestions(ctx, completion, chunk.Content)
		if err != nil {
			return nil, fmt.Errorf("generate questions for chunk %s: %w", chunk.ID, err)
		}
		if len(questions) > 0 {
			covered++
		}
		for qtype, n := range questions {
			report.QuestionsByType[qtype] += n
			report.TotalQuestions += n
		}
	}
	report.Coverage = float64(covered) / float64(len(sample))
	return report, nil
}

// generateQuestions prompts for one question per type and counts non-empty
// answers.
func (a *Analyzer) generateQuestions(ctx context.Context, completion textgen.Provider, content string) (map[string]int, error) {
	prompts := map[string]string{
		QuestionFactual:    "Write one factual question answerable only from this passage:\n\n",
		QuestionConceptual: "Write one conceptual question about the main idea of this passage:\n\n",
		QuestionProcedural: "Write one how-to question this passage answers, or reply NONE:\n\n",
	}

	out := make(map[string]int, len(prompts))
	for qtype, prompt := range prompts {
		answer, err := completion.Complete(ctx, prompt+content)
		if err != nil {
			return nil, err
		}
		answer = strings.TrimSpace(answer)
		if answer == "" || strings.EqualFold(answer, "NONE") {
			continue
		}
		out[qtype] = 1
	}
	return out, nil
}
