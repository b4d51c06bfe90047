package utils

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/text"
)

// CleanNarrative strips conversational filler and outer code fences from a
// generated narrative section so the assembler receives plain Markdown.
func CleanNarrative(input string) string {
	cleaned := StripCodeFence(input)

	// Models sometimes prefix narratives with a lead-in line.
	for _, prefix := range []string{"Here is the analysis:", "Here's the analysis:"} {
		if strings.HasPrefix(cleaned, prefix) {
			cleaned = strings.TrimSpace(strings.TrimPrefix(cleaned, prefix))
		}
	}
	return cleaned
}

// ValidMarkdown reports whether the string parses to a non-empty Markdown
// document. Goldmark is permissive, so this rejects only blank or grossly
// broken output.
func ValidMarkdown(input string) bool {
	parser := goldmark.DefaultParser()
	reader := text.NewReader([]byte(input))
	doc := parser.Parse(reader)
	return doc != nil && doc.HasChildren()
}
