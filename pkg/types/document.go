package types

// SectionHint is a structural hint supplied by an external format reader:
// a heading or section marker with its nesting level and character offset.
type SectionHint struct {
	Title  string
	Level  int
	Offset int
}

// Document is the reader-independent input to the chunking engine.
// How the text was extracted (PDF, DOCX, HTML, ...) is not this package's
// concern; only the normalized text and optional structural hints are.
type Document struct {
	// ID is an opaque stable identifier supplied by the caller.
	ID string

	// Text is the normalized document text.
	Text string

	// Sections are optional structural hints from the reader.
	Sections []SectionHint

	// PageOffsets are optional character offsets where pages begin,
	// in ascending order. Used by the page-level strategy.
	PageOffsets []int
}

// HasStructuralHints reports whether any reader-supplied structure exists.
func (d *Document) HasStructuralHints() bool {
	return len(d.Sections) > 0 || len(d.PageOffsets) > 0
}
