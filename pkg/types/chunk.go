package types

import (
	"crypto/sha256"
	"errors"
)

// Well-known Props keys. Strategies and analyzers write these; callers can
// rely on them being present on every produced chunk.
const (
	PropContentType    = "content_type"
	PropStructuralRole = "structural_role"
	PropTokenEstimate  = "estimated_tokens"
	PropAutoStrategy   = "auto_selected_strategy"
	PropDegraded       = "degraded"
	PropFallback       = "fallback_warning"
	PropSectionTitle   = "section_title"
	PropPageNumber     = "page_number"
)

// ContentType classifies what kind of text a chunk mostly contains.
type ContentType string

const (
	ContentProse   ContentType = "prose"
	ContentCode    ContentType = "code"
	ContentTable   ContentType = "table"
	ContentList    ContentType = "list"
	ContentHeading ContentType = "heading"
)

// StructuralRole describes where a chunk sits in the document.
type StructuralRole string

const (
	RoleIntro   StructuralRole = "intro"
	RoleBody    StructuralRole = "body"
	RoleHeading StructuralRole = "heading"
	RoleClosing StructuralRole = "closing"
)

// Chunk represents a contiguous span of document text sized for retrieval use.
// Adjacent chunks may share text only within the configured overlap window.
type Chunk struct {
	// Identification
	ID       string
	DocID    string
	Index    int
	Strategy string

	// Content
	Content     string
	ContentHash [32]byte

	// Location (character offsets into the source document text)
	StartChar int
	EndChar   int

	// Scoring
	QualityScore float64

	// Props is an open string-keyed map for enrichment metadata.
	// Use the typed accessors rather than asserting at call sites.
	Props map[string]any
}

// SetProp stores a metadata value, allocating the map on first use.
func (c *Chunk) SetProp(key string, value any) {
	if c.Props == nil {
		c.Props = make(map[string]any)
	}
	c.Props[key] = value
}

// PropString returns the string value for key, if present and a string.
func (c *Chunk) PropString(key string) (string, bool) {
	v, ok := c.Props[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// PropStringOr returns the string value for key or def when absent.
func (c *Chunk) PropStringOr(key, def string) string {
	if s, ok := c.PropString(key); ok {
		return s
	}
	return def
}

// PropFloat returns the float value for key. Integer values are widened.
func (c *Chunk) PropFloat(key string) (float64, bool) {
	switch v := c.Props[key].(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	default:
		return 0, false
	}
}

// PropInt returns the int value for key. Float values are truncated.
func (c *Chunk) PropInt(key string) (int, bool) {
	switch v := c.Props[key].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}

// PropBool returns the bool value for key, false when absent.
func (c *Chunk) PropBool(key string) bool {
	b, _ := c.Props[key].(bool)
	return b
}

// ComputeContentHash computes the SHA-256 hash of the chunk content.
func (c *Chunk) ComputeContentHash() {
	c.ContentHash = sha256.Sum256([]byte(c.Content))
}

// Validate performs structural validation of the chunk.
func (c *Chunk) Validate() error {
	if c.Content == "" {
		return errors.New("chunk content cannot be empty")
	}
	if c.Index < 0 {
		return errors.New("chunk index must be non-negative")
	}
	if c.StartChar < 0 || c.EndChar < c.StartChar {
		return errors.New("chunk character range is invalid")
	}
	if c.QualityScore < 0 || c.QualityScore > 1 {
		return errors.New("quality score must be between 0 and 1")
	}
	return nil
}

// ValidateSequence checks the ordering invariants across one document's chunks:
// contiguous indexes and non-decreasing character offsets.
func ValidateSequence(chunks []Chunk) error {
	for i := range chunks {
		if chunks[i].Index != i {
			return errors.New("chunk indexes must be contiguous and ordered")
		}
		if i > 0 && chunks[i].StartChar < chunks[i-1].StartChar {
			return errors.New("chunk start offsets must be non-decreasing")
		}
	}
	return nil
}
