package chunking

import (
	"strings"

	"github.com/chunksmith/chunksmith-mcp/pkg/types"
)

// ClassifyContent decides what kind of text a chunk mostly contains, using
// the same line-level signals as the structure scan.
func ClassifyContent(content string) types.ContentType {
	lines := strings.Split(content, "\n")
	var code, table, list, heading, total int
	inCode := false
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		total++
		switch {
		case strings.HasPrefix(trimmed, "```"):
			inCode = !inCode
			code++
		case inCode:
			code++
		case headingPattern.MatchString(trimmed):
			heading++
		case strings.Count(trimmed, "|") >= 2:
			table++
		case listPattern.MatchString(trimmed):
			list++
		}
	}
	if total == 0 {
		return types.ContentProse
	}
	switch {
	case code*2 > total:
		return types.ContentCode
	case table*2 > total:
		return types.ContentTable
	case list*2 > total:
		return types.ContentList
	case heading == total:
		return types.ContentHeading
	default:
		return types.ContentProse
	}
}

// classifyRole assigns a structural role from the chunk's position in the
// sequence and its content type.
func classifyRole(contentType types.ContentType, index, total int) types.StructuralRole {
	switch {
	case contentType == types.ContentHeading:
		return types.RoleHeading
	case index == 0 && total > 1:
		return types.RoleIntro
	case index == total-1 && total > 1:
		return types.RoleClosing
	default:
		return types.RoleBody
	}
}
