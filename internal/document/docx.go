package document

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// A .docx file is a zip archive whose main body lives in word/document.xml.
// Paragraphs are <w:p> elements; the visible text is the concatenation of
// their <w:t> runs. Streaming the tokens keeps memory proportional to one
// paragraph, not the document.

func decodeDocx(path string) (*Document, error) {
	archive, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open docx archive: %w", err)
	}
	defer archive.Close()

	for _, file := range archive.File {
		if file.Name != "word/document.xml" {
			continue
		}
		body, err := file.Open()
		if err != nil {
			return nil, fmt.Errorf("open document body: %w", err)
		}
		defer body.Close()

		paragraphs, err := docxParagraphs(body)
		if err != nil {
			return nil, err
		}
		return &Document{Paragraphs: paragraphs}, nil
	}
	return nil, fmt.Errorf("docx missing word/document.xml")
}

func docxParagraphs(r io.Reader) ([]string, error) {
	decoder := xml.NewDecoder(r)

	var (
		paragraphs  []string
		current     strings.Builder
		inParagraph bool
		inText      bool
	)
	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse document xml: %w", err)
		}

		switch el := token.(type) {
		case xml.StartElement:
			switch el.Name.Local {
			case "p":
				inParagraph = true
				current.Reset()
			case "t":
				inText = inParagraph
			case "tab":
				if inParagraph {
					current.WriteByte('\t')
				}
			case "br":
				if inParagraph {
					current.WriteByte('\n')
				}
			}
		case xml.CharData:
			if inText {
				current.Write(el)
			}
		case xml.EndElement:
			switch el.Name.Local {
			case "t":
				inText = false
			case "p":
				inParagraph = false
				paragraphs = append(paragraphs, current.String())
			}
		}
	}
	return paragraphs, nil
}
