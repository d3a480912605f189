package semantic

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/chunksmith/chunksmith-mcp/internal/chunking"
	"github.com/chunksmith/chunksmith-mcp/internal/embedder"
	"github.com/chunksmith/chunksmith-mcp/pkg/types"
)

// Coherence analysis constants.
const (
	// shortChunkScore is assumed for chunks with fewer than two sentences;
	// no embedding call is made for them.
	shortChunkScore = 0.8

	// topicShiftThreshold flags a pairwise similarity as a topic shift;
	// below topicShiftSevere the issue is high severity.
	topicShiftThreshold = 0.3
	topicShiftSevere    = 0.2

	// incompleteLen: a first or last sentence shorter than this suggests
	// a truncated thought.
	incompleteLen = 20

	// variancePenalty scales how much similarity spread reduces the score.
	variancePenalty = 0.5

	// splitSuggestionThreshold: below this mean similarity the chunk
	// should be split.
	splitSuggestionThreshold = 0.5
)

// severityPenalty maps issue severity to its score multiplier.
func severityPenalty(s types.IssueSeverity) float64 {
	switch s {
	case types.SeverityHigh:
		return 0.8
	case types.SeverityMedium:
		return 0.9
	default:
		return 0.95
	}
}

// unresolvedPronouns open a chunk pointing at context the chunk no longer has.
var unresolvedPronouns = map[string]bool{
	"this": true, "that": true, "these": true,
	"those": true, "it": true, "they": true,
}

// Analyzer scores intra-chunk semantic coherence and flags issues. Scoring
// is a pure function of the chunk content and the embedding outputs:
// identical inputs always yield the identical score.
type Analyzer struct {
	provider embedder.Provider
	logger   *slog.Logger
}

// NewAnalyzer constructs an analyzer. provider may be nil; analysis then
// runs on lexical statistics and reports itself degraded.
func NewAnalyzer(provider embedder.Provider, logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{provider: provider, logger: logger}
}

// Analyze scores one chunk's internal coherence.
func (a *Analyzer) Analyze(ctx context.Context, content string) (*types.CoherenceResult, error) {
	sentences := chunking.SplitSentences(content)

	// Chunks with fewer than two sentences are assumed coherent.
	if len(sentences) < 2 {
		return &types.CoherenceResult{
			CoherenceScore:          shortChunkScore,
			IntraSentenceSimilarity: shortChunkScore,
			Level:                   types.CohesionLevelForScore(shortChunkScore),
		}, nil
	}

	texts := make([]string, len(sentences))
	for i, s := range sentences {
		texts[i] = strings.TrimSpace(s.Text)
	}

	sims, degraded, err := a.allPairSimilarities(ctx, texts)
	if err != nil {
		return nil, err
	}

	mean, stddev := meanStddev(sims)
	issues := a.detectIssues(sentences, texts, sims)

	score := mean * (1 - stddev*variancePenalty)
	for _, issue := range issues {
		score *= severityPenalty(issue.Severity)
	}
	score = clamp01(score)

	return &types.CoherenceResult{
		CoherenceScore:          score,
		IntraSentenceSimilarity: mean,
		SimilarityVariance:      stddev,
		Level:                   types.CohesionLevelForScore(score),
		Issues:                  issues,
		Suggestions:             suggestions(mean, issues),
		Degraded:                degraded,
	}, nil
}

// allPairSimilarities computes similarity for every sentence pair, checking
// cancellation between pairs. Sentences are embedded in provider-sized
// batches so long chunks never exceed the batch cap.
func (a *Analyzer) allPairSimilarities(ctx context.Context, texts []string) (pairs []pairSim, degraded bool, err error) {
	var vectors [][]float32
	if a.provider != nil {
		vecs, embErr := embedder.EmbedAll(ctx, a.provider, texts)
		switch {
		case embErr == nil:
			vectors = vecs
		case ctx.Err() != nil:
			return nil, false, ctx.Err()
		default:
			a.logger.Warn("embedding provider failed, degrading to lexical similarity", "error", embErr)
			degraded = true
		}
	} else {
		degraded = true
	}

	for i := 0; i < len(texts); i++ {
		if err := ctx.Err(); err != nil {
			return nil, degraded, err
		}
		for j := i + 1; j < len(texts); j++ {
			var sim float64
			if vectors != nil {
				sim = embedder.Similarity(vectors[i], vectors[j])
			} else {
				sim = LexicalSimilarity(texts[i], texts[j])
			}
			pairs = append(pairs, pairSim{i: i, j: j, sim: sim})
		}
	}
	return pairs, degraded, nil
}

type pairSim struct {
	i, j int
	sim  float64
}

// detectIssues flags topic shifts, truncated edge sentences, and unresolved
// opening references.
func (a *Analyzer) detectIssues(sentences []chunking.Sentence, texts []string, sims []pairSim) []types.CoherenceIssue {
	var issues []types.CoherenceIssue

	// TopicShift: adjacent pair with low similarity
	for _, p := range sims {
		if p.j != p.i+1 || p.sim >= topicShiftThreshold {
			continue
		}
		severity := types.SeverityMedium
		if p.sim < topicShiftSevere {
			severity = types.SeverityHigh
		}
		issues = append(issues, types.CoherenceIssue{
			Type:        types.IssueTopicShift,
			Description: fmt.Sprintf("sentences %d and %d diverge (similarity %.2f)", p.i, p.j, p.sim),
			Position:    sentences[p.j].Start,
			Severity:    severity,
		})
	}

	// IncompleteThought: a very short first or last sentence
	if len([]rune(texts[0])) < incompleteLen {
		issues = append(issues, types.CoherenceIssue{
			Type:        types.IssueIncompleteThought,
			Description: "chunk opens with a fragment",
			Position:    sentences[0].Start,
			Severity:    types.SeverityMedium,
		})
	}
	if last := len(texts) - 1; len([]rune(texts[last])) < incompleteLen {
		issues = append(issues, types.CoherenceIssue{
			Type:        types.IssueIncompleteThought,
			Description: "chunk ends with a fragment",
			Position:    sentences[last].Start,
			Severity:    types.SeverityMedium,
		})
	}

	// BrokenReference: the first sentence leans on a pronoun whose referent
	// lives outside the chunk
	if containsUnresolvedPronoun(texts[0]) {
		issues = append(issues, types.CoherenceIssue{
			Type:        types.IssueBrokenReference,
			Description: "first sentence contains an unresolved pronoun",
			Position:    sentences[0].Start,
			Severity:    types.SeverityLow,
		})
	}

	return issues
}

func containsUnresolvedPronoun(sentence string) bool {
	for _, w := range strings.Fields(strings.ToLower(sentence)) {
		w = strings.Trim(w, `"'(),.;:!?`)
		if unresolvedPronouns[w] {
			return true
		}
	}
	return false
}

// suggestions derives deterministic advice from which issues fired.
func suggestions(mean float64, issues []types.CoherenceIssue) []string {
	var out []string
	if mean < splitSuggestionThreshold {
		out = append(out, "split into separate chunks at the topic boundary")
	}
	seen := make(map[types.CoherenceIssueType]bool)
	for _, issue := range issues {
		if seen[issue.Type] {
			continue
		}
		seen[issue.Type] = true
		switch issue.Type {
		case types.IssueTopicShift:
			if mean >= splitSuggestionThreshold {
				out = append(out, "consider cutting at the detected topic shift")
			}
		case types.IssueIncompleteThought:
			out = append(out, "extend the chunk so edge sentences are complete thoughts")
		case types.IssueBrokenReference:
			out = append(out, "include the preceding sentence to resolve the opening reference")
		}
	}
	return out
}

// meanStddev returns the mean similarity and a population standard
// deviation over all pairs.
func meanStddev(pairs []pairSim) (mean, stddev float64) {
	if len(pairs) == 0 {
		return 0, 0
	}
	for _, p := range pairs {
		mean += p.sim
	}
	mean /= float64(len(pairs))

	var sqSum float64
	for _, p := range pairs {
		d := p.sim - mean
		sqSum += d * d
	}
	stddev = math.Sqrt(sqSum / float64(len(pairs)))
	return mean, stddev
}
