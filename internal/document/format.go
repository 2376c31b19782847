// Package document decodes supported exam document formats into an ordered
// paragraph sequence and normalizes it for the extraction engine.
package document

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Format identifies the decoder used for a file.
type Format string

const (
	FormatWord        Format = "word"
	FormatSpreadsheet Format = "spreadsheet"
	FormatText        Format = "text"
	FormatMarkdown    Format = "markdown"
	FormatImage       Format = "image"
	FormatUnknown     Format = "unknown"
)

// ErrUnsupportedFormat marks files the service cannot decode. Image formats
// are recognized but need OCR, which this service does not perform.
var ErrUnsupportedFormat = errors.New("unsupported document format")

// Detect returns the format for a file path based on its extension.
func Detect(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".doc", ".docx":
		return FormatWord
	case ".xls", ".xlsx":
		return FormatSpreadsheet
	case ".md", ".markdown":
		return FormatMarkdown
	case ".txt", ".csv", ".text":
		return FormatText
	case ".jpg", ".jpeg", ".png", ".gif", ".bmp":
		return FormatImage
	default:
		return FormatUnknown
	}
}

// Document is the decoded form handed to the normalizer: raw paragraph texts
// in original reading order. Converted marks content that went through a
// lossy text conversion and may still reference embedded images.
type Document struct {
	Paragraphs []string
	Converted  bool
}

// Decode reads a local file and extracts its paragraph texts.
func Decode(path string) (*Document, error) {
	switch Detect(path) {
	case FormatWord:
		return decodeDocx(path)
	case FormatSpreadsheet:
		return decodeSpreadsheet(path)
	case FormatText, FormatMarkdown:
		return decodeText(path)
	case FormatImage:
		return nil, fmt.Errorf("%w: image files require OCR (%s)", ErrUnsupportedFormat, filepath.Ext(path))
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
}
