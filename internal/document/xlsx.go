package document

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// decodeSpreadsheet flattens every sheet into text lines: one paragraph per
// row, cells joined with tabs. Question banks exported from spreadsheets
// keep one question per row, which the engine's grammars read fine.
func decodeSpreadsheet(path string) (*Document, error) {
	book, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open spreadsheet: %w", err)
	}
	defer book.Close()

	var paragraphs []string
	for _, sheet := range book.GetSheetList() {
		rows, err := book.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
		}
		for _, row := range rows {
			line := strings.TrimSpace(strings.Join(row, "\t"))
			if line != "" {
				paragraphs = append(paragraphs, line)
			}
		}
	}
	return &Document{Paragraphs: paragraphs, Converted: true}, nil
}
