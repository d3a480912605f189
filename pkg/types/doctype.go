package types

// DocumentCategory is the closed set of recognized document categories.
type DocumentCategory string

const (
	CategoryTechnical DocumentCategory = "technical"
	CategoryLegal     DocumentCategory = "legal"
	CategoryAcademic  DocumentCategory = "academic"
	CategoryFinancial DocumentCategory = "financial"
	CategoryMedical   DocumentCategory = "medical"
	CategoryBusiness  DocumentCategory = "business"
	CategoryCreative  DocumentCategory = "creative"
	CategoryGeneral   DocumentCategory = "general"
)

// StructuralElement summarizes one kind of structural feature found in a
// document (headings, code blocks, tables, numbered sections).
type StructuralElement struct {
	Type       string
	Count      int
	AvgSize    float64
	Importance float64
}

// DocumentTypeInfo is the result of document type classification.
// It is computed once per document and read-only afterward.
type DocumentTypeInfo struct {
	Category           DocumentCategory
	Confidence         float64
	SubType            string
	Language           string
	ComplexityScore    float64
	StructuralElements []StructuralElement
}
