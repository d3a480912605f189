package chunking

import (
	"regexp"
	"strings"

	"github.com/chunksmith/chunksmith-mcp/pkg/types"
)

// Heading is a detected or hinted section heading.
type Heading struct {
	Title  string
	Level  int
	Offset int
}

// StructureInfo is the result of the cheap heuristic structure scan that
// feeds auto strategy selection and document type analysis. No embedding
// calls are made here.
type StructureInfo struct {
	HeadingCount         int
	NumberedSectionCount int
	CodeBlockCount       int
	TableRowCount        int
	ListItemCount        int
	CJKRatio             float64
	Headings             []Heading
}

var (
	headingPattern = regexp.MustCompile(`^(#{1,6})\s+(.+)$`)
	// Numbered-section markers: "1.", "3-1.", "2)", "(1)", "①" ... "⑳"
	numberedPattern = regexp.MustCompile(`^\s*(?:\(?\d+(?:[.\-]\d+)*[.)．]|[①-⑳])\s*\S`)
	listPattern     = regexp.MustCompile(`^\s*(?:[-*+]|\d+[.)])\s+\S`)
)

// AnalyzeStructure scans text line by line for structural signals.
func AnalyzeStructure(text string) *StructureInfo {
	info := &StructureInfo{
		CJKRatio: CJKRatio(text),
	}

	inCode := false
	offset := 0
	for _, line := range strings.SplitAfter(text, "\n") {
		trimmed := strings.TrimRight(line, "\n")
		switch {
		case strings.HasPrefix(strings.TrimSpace(trimmed), "```"):
			if !inCode {
				info.CodeBlockCount++
			}
			inCode = !inCode
		case inCode:
			// Structure markers inside code fences are not document structure
		case headingPattern.MatchString(trimmed):
			m := headingPattern.FindStringSubmatch(trimmed)
			info.HeadingCount++
			info.Headings = append(info.Headings, Heading{
				Title:  strings.TrimSpace(m[2]),
				Level:  len(m[1]),
				Offset: offset,
			})
		case strings.Count(trimmed, "|") >= 2:
			info.TableRowCount++
		case numberedPattern.MatchString(trimmed):
			info.NumberedSectionCount++
			if listPattern.MatchString(trimmed) {
				info.ListItemCount++
			}
		case listPattern.MatchString(trimmed):
			info.ListItemCount++
		}
		offset += len(line)
	}

	return info
}

// Elements converts the scan results into reportable structural elements,
// with importance weights reflecting how strongly each signal should steer
// strategy and size selection.
func (s *StructureInfo) Elements(textLen int) []types.StructuralElement {
	var elems []types.StructuralElement
	add := func(typ string, count int, importance float64) {
		if count == 0 {
			return
		}
		elems = append(elems, types.StructuralElement{
			Type:       typ,
			Count:      count,
			AvgSize:    float64(textLen) / float64(count),
			Importance: importance,
		})
	}
	add("heading", s.HeadingCount, 0.9)
	add("numbered_section", s.NumberedSectionCount, 0.8)
	add("code_block", s.CodeBlockCount, 0.7)
	add("table_row", s.TableRowCount, 0.6)
	add("list_item", s.ListItemCount, 0.4)
	return elems
}
