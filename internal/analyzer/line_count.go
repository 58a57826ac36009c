package analyzer

import (
	"strings"
	"unicode"
)

// MethodLineCount counts the meaningful lines of a method body: lines that are neither
// blank nor start with "//". Block comments are not recognized. A method without a body
// counts as a single line.
func MethodLineCount(body string, hasBody bool) int {
	if !hasBody {
		return 1
	}

	lines := strings.FieldsFunc(body, func(r rune) bool {
		return r == '\r' || r == '\n'
	})

	count := 0
	for _, line := range lines {
		trimmed := strings.TrimLeftFunc(line, unicode.IsSpace)
		if trimmed == "" || strings.HasPrefix(trimmed, "//") {
			continue
		}
		count++
	}
	return count
}
