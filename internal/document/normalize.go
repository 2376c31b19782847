package document

import "strings"

// Normalize turns decoded paragraphs into the engine's input contract: a
// trimmed, non-empty paragraph list in document order and the full text with
// paragraphs joined by newlines.
func Normalize(raw []string) (fullText string, paragraphs []string) {
	for _, p := range raw {
		p = strings.TrimSpace(p)
		if p != "" {
			paragraphs = append(paragraphs, p)
		}
	}
	return strings.Join(paragraphs, "\n"), paragraphs
}

// NormalizeContent is Normalize over a single content blob, split on
// newlines first. Used for converted (markdown) content.
func NormalizeContent(content string) (string, []string) {
	return Normalize(strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n"))
}
