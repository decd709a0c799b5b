package render

import (
	"strings"
	"testing"
)

func TestCleanMarkdownStripsFences(t *testing.T) {
	t.Parallel()

	got := CleanMarkdown("```markdown\n# Resume\n```")
	if strings.Contains(got, "```") {
		t.Fatalf("expected fences stripped, got %q", got)
	}
}

func TestCleanMarkdownNormalizesHeadings(t *testing.T) {
	t.Parallel()

	got := CleanMarkdown("##Experience\nAcme")
	if !strings.HasPrefix(got, "## Experience\n") {
		t.Fatalf("expected normalized heading, got %q", got)
	}
}

func TestCleanMarkdownCollapsesBlankLines(t *testing.T) {
	t.Parallel()

	got := CleanMarkdown("a\n\n\n\n\nb")
	if got != "a\n\nb" {
		t.Fatalf("expected collapsed blank lines, got %q", got)
	}
}

func TestCleanMarkdownNormalizesLinks(t *testing.T) {
	t.Parallel()

	got := CleanMarkdown("[GitHub]   (https://github.com/dvasyliev)")
	if got != "[GitHub](https://github.com/dvasyliev)" {
		t.Fatalf("expected normalized link, got %q", got)
	}
}

func TestCleanMarkdownIdempotent(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"",
		"plain text",
		"# Title\nbody",
		"##Skills\n\n\n\n- Go\n- SQL\n\n[site] (https://example.com)\n```\ncode\n```",
		"### Header with spaces   \n\n\n\ntext [a](b) [c]  (d)",
	}

	for _, input := range inputs {
		once := CleanMarkdown(input)
		twice := CleanMarkdown(once)
		if once != twice {
			t.Fatalf("clean not idempotent for %q:\nonce:  %q\ntwice: %q", input, once, twice)
		}
	}
}
