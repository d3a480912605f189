package types

// BoundaryType classifies the nature of a cut point between two segments.
type BoundaryType string

const (
	BoundarySentence    BoundaryType = "sentence"
	BoundaryParagraph   BoundaryType = "paragraph"
	BoundaryTopicChange BoundaryType = "topic_change"
)

// BoundaryPoint scores the boundary between segment SegmentIndex and the
// segment that follows it. Similarity is cosine similarity in [-1, 1].
type BoundaryPoint struct {
	SegmentIndex int
	Similarity   float64
	Confidence   float64
	Type         BoundaryType
}

// ChunkBoundary is a proposed cut span over raw content, produced before
// chunk-size normalization.
type ChunkBoundary struct {
	StartPosition  int
	EndPosition    int
	CoherenceScore float64
	Reason         string
	ContentPreview string
}

// Length returns the span length in characters.
func (b ChunkBoundary) Length() int {
	return b.EndPosition - b.StartPosition
}
