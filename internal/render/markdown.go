package render

import (
	"regexp"
	"strings"
)

var (
	headingRe = regexp.MustCompile(`(?m)^(#{1,6})\s*(.+)$`)
	blankRe   = regexp.MustCompile(`\n{3,}`)
	linkRe    = regexp.MustCompile(`\[([^\]]+)\]\s*\(([^)]+)\)`)
)

// CleanMarkdown normalizes model-produced markdown before rendering: literal
// code fences are stripped, ATX headings get a single space and a trailing
// blank line, runs of blank lines collapse to one, and link syntax tolerates
// stray whitespace between the brackets. The function is idempotent.
func CleanMarkdown(md string) string {
	md = strings.ReplaceAll(md, "```", "")

	md = headingRe.ReplaceAllString(md, "$1 $2\n")

	md = blankRe.ReplaceAllString(md, "\n\n")

	md = linkRe.ReplaceAllString(md, "[$1]($2)")

	return strings.TrimSpace(md)
}
