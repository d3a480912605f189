package types

// CohesionLevel buckets a coherence score for reporting.
type CohesionLevel string

const (
	CohesionVeryHigh CohesionLevel = "very_high"
	CohesionHigh     CohesionLevel = "high"
	CohesionMedium   CohesionLevel = "medium"
	CohesionLow      CohesionLevel = "low"
	CohesionVeryLow  CohesionLevel = "very_low"
)

// CohesionLevelForScore maps a coherence score onto its reporting bucket.
func CohesionLevelForScore(score float64) CohesionLevel {
	switch {
	case score >= 0.8:
		return CohesionVeryHigh
	case score >= 0.65:
		return CohesionHigh
	case score >= 0.5:
		return CohesionMedium
	case score >= 0.35:
		return CohesionLow
	default:
		return CohesionVeryLow
	}
}

// CoherenceIssueType identifies a detected intra-chunk problem.
type CoherenceIssueType string

const (
	IssueTopicShift        CoherenceIssueType = "topic_shift"
	IssueIncompleteThought CoherenceIssueType = "incomplete_thought"
	IssueBrokenReference   CoherenceIssueType = "broken_reference"
)

// IssueSeverity grades how much an issue degrades the chunk.
type IssueSeverity string

const (
	SeverityHigh   IssueSeverity = "high"
	SeverityMedium IssueSeverity = "medium"
	SeverityLow    IssueSeverity = "low"
)

// CoherenceIssue describes one detected problem within a chunk.
type CoherenceIssue struct {
	Type        CoherenceIssueType
	Description string
	Position    int
	Severity    IssueSeverity
}

// CoherenceResult is the outcome of analyzing one chunk's internal coherence.
type CoherenceResult struct {
	CoherenceScore          float64
	IntraSentenceSimilarity float64
	SimilarityVariance      float64
	Level                   CohesionLevel
	Issues                  []CoherenceIssue
	Suggestions             []string

	// Degraded is set when the embedding provider was unavailable and the
	// score is a statistical approximation.
	Degraded bool
}
