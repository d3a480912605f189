package doctype

import (
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/chunksmith/chunksmith-mcp/internal/chunking"
	"github.com/chunksmith/chunksmith-mcp/pkg/types"
)

const (
	// categoryFloor: below this top density score the document is classified
	// General with a fixed confidence.
	categoryFloor    = 0.3
	floorConfidence  = 0.5
	cjkLanguageRatio = 0.3
)

// categoryKeywords drives the density classifier. Keywords are matched
// case-insensitively on word boundaries; density is matches over total
// words, scaled so a keyword-rich technical page clears the floor.
var categoryKeywords = map[types.DocumentCategory][]string{
	types.CategoryTechnical: {
		"api", "function", "implementation", "algorithm", "database", "server",
		"protocol", "interface", "deployment", "configuration", "endpoint",
		"runtime", "compiler", "debug", "repository", "framework", "kernel",
	},
	types.CategoryLegal: {
		"agreement", "contract", "party", "parties", "clause", "liability",
		"pursuant", "herein", "thereof", "warranty", "indemnify", "jurisdiction",
		"plaintiff", "defendant", "statute", "covenant",
	},
	types.CategoryAcademic: {
		"abstract", "hypothesis", "methodology", "literature", "citation",
		"empirical", "findings", "research", "study", "analysis", "theory",
		"experiment", "dataset", "peer", "journal", "dissertation",
	},
	types.CategoryFinancial: {
		"revenue", "profit", "earnings", "fiscal", "quarter", "dividend",
		"portfolio", "asset", "liability", "equity", "investment", "margin",
		"capital", "valuation", "audit", "balance",
	},
	types.CategoryMedical: {
		"patient", "diagnosis", "treatment", "clinical", "symptom", "dosage",
		"therapy", "prescription", "chronic", "acute", "pathology", "prognosis",
		"medication", "surgical", "cardiovascular", "oncology",
	},
	types.CategoryBusiness: {
		"strategy", "stakeholder", "roadmap", "quarterly", "objective",
		"milestone", "deliverable", "customer", "market", "proposal",
		"initiative", "synergy", "kpi", "onboarding", "procurement",
	},
	types.CategoryCreative: {
		"character", "story", "scene", "dialogue", "narrative", "chapter",
		"plot", "protagonist", "verse", "metaphor", "imagery", "stanza",
	},
}

// densityScale converts a raw keyword fraction into the score space the
// floor is defined over: a document where 3% of words are category keywords
// scores 0.3 for that category.
const densityScale = 10.0

// Classifier assigns a document to a category from keyword density and
// measures its lexical complexity. Classification is deterministic and
// needs no provider.
type Classifier struct{}

// NewClassifier returns a stateless classifier.
func NewClassifier() *Classifier {
	return &Classifier{}
}

// Classify computes the document's type info: category, confidence,
// language guess, complexity, and structural element summary.
func (c *Classifier) Classify(doc *types.Document) *types.DocumentTypeInfo {
	words := tokenizeWords(doc.Text)
	scores := densityScores(words)

	category, confidence := pickCategory(scores)
	structure := chunking.AnalyzeStructure(doc.Text)

	info := &types.DocumentTypeInfo{
		Category:           category,
		Confidence:         confidence,
		Language:           detectLanguage(doc.Text),
		ComplexityScore:    Complexity(doc.Text, words),
		StructuralElements: structure.Elements(len(doc.Text)),
	}
	info.SubType = subType(category, structure)
	return info
}

// densityScores returns the scaled keyword density per category.
func densityScores(words []string) map[types.DocumentCategory]float64 {
	scores := make(map[types.DocumentCategory]float64, len(categoryKeywords))
	if len(words) == 0 {
		return scores
	}

	counts := make(map[string]int, len(words))
	for _, w := range words {
		counts[w]++
	}

	for cat, keywords := range categoryKeywords {
		matches := 0
		for _, kw := range keywords {
			matches += counts[kw]
		}
		score := densityScale * float64(matches) / float64(len(words))
		if score > 1 {
			score = 1
		}
		scores[cat] = score
	}
	return scores
}

// pickCategory selects the top-scoring category. Below the floor the
// document is General at fixed confidence; otherwise confidence grows with
// the gap between the top two scores.
func pickCategory(scores map[types.DocumentCategory]float64) (types.DocumentCategory, float64) {
	type scored struct {
		cat   types.DocumentCategory
		score float64
	}
	ranked := make([]scored, 0, len(scores))
	for cat, s := range scores {
		ranked = append(ranked, scored{cat, s})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].cat < ranked[j].cat
	})

	if len(ranked) == 0 || ranked[0].score < categoryFloor {
		return types.CategoryGeneral, floorConfidence
	}

	top := ranked[0]
	second := 0.0
	if len(ranked) > 1 {
		second = ranked[1].score
	}
	confidence := 0.5 + (top.score-second)/2
	if confidence > 1 {
		confidence = 1
	}
	return top.cat, confidence
}

// Complexity scores lexical complexity in [0, 1]: a weighted sum of
// normalized average word length, average sentence length, and vocabulary
// repetition (1 - unique-word ratio). words may be nil; it is re-derived.
func Complexity(text string, words []string) float64 {
	if words == nil {
		words = tokenizeWords(text)
	}
	if len(words) == 0 {
		return 0
	}

	var charSum int
	unique := make(map[string]struct{}, len(words))
	for _, w := range words {
		charSum += len([]rune(w))
		unique[w] = struct{}{}
	}
	avgWordLen := float64(charSum) / float64(len(words))

	sentences := chunking.SplitSentences(text)
	avgSentenceLen := float64(len(words))
	if len(sentences) > 0 {
		avgSentenceLen = float64(len(words)) / float64(len(sentences))
	}

	// Normalize: 4-char words / 10-word sentences map to 0, 10-char words /
	// 40-word sentences saturate at 1.
	wordScore := clampRange((avgWordLen - 4) / 6)
	sentenceScore := clampRange((avgSentenceLen - 10) / 30)
	repetition := 1 - float64(len(unique))/float64(len(words))

	return clampRange(0.4*wordScore + 0.4*sentenceScore + 0.2*repetition)
}

// subType refines the category from structural signals.
func subType(cat types.DocumentCategory, s *chunking.StructureInfo) string {
	switch {
	case cat == types.CategoryTechnical && s.CodeBlockCount > 0:
		return "code_documentation"
	case s.NumberedSectionCount >= 5:
		return "procedural"
	case s.HeadingCount >= 3:
		return "structured"
	default:
		return ""
	}
}

func detectLanguage(text string) string {
	if chunking.CJKRatio(text) > cjkLanguageRatio {
		return "cjk"
	}
	return "en"
}

func tokenizeWords(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func clampRange(f float64) float64 {
	return math.Min(1, math.Max(0, f))
}
