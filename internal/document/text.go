package document

import (
	"fmt"
	"os"
	"strings"
)

// decodeText reads plain text, markdown or CSV as UTF-8 lines.
func decodeText(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read text file: %w", err)
	}
	content := strings.ReplaceAll(string(data), "\r\n", "\n")
	return &Document{
		Paragraphs: strings.Split(content, "\n"),
		Converted:  Detect(path) == FormatMarkdown,
	}, nil
}
