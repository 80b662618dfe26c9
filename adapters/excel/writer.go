package excel

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

const maxSheetName = 31

// WriteWorkbook writes rows as a single-sheet xlsx document. Header rows are
// set in bold.
func WriteWorkbook(w io.Writer, sheetName string, rows [][]string, headerRows int) error {
	f := excelize.NewFile()
	defer f.Close()

	name := SheetName(sheetName)
	if err := f.SetSheetName("Sheet1", name); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		values := make([]interface{}, len(row))
		for j, v := range row {
			values[j] = v
		}
		if err := f.SetSheetRow(name, cell, &values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	if headerRows > 0 && len(rows) > 0 {
		style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
		if err != nil {
			return fmt.Errorf("failed to create header style: %w", err)
		}
		if headerRows > len(rows) {
			headerRows = len(rows)
		}
		if err := f.SetRowStyle(name, 1, headerRows, style); err != nil {
			return fmt.Errorf("failed to style header rows: %w", err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// SheetName makes s usable as a worksheet name: forbidden characters are
// replaced and the result is cut to 31 runes.
func SheetName(s string) string {
	s = strings.Map(func(r rune) rune {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			return '_'
		}
		return r
	}, strings.TrimSpace(s))
	s = strings.Trim(s, "'")
	if s == "" {
		return "Sheet1"
	}
	if runes := []rune(s); len(runes) > maxSheetName {
		s = string(runes[:maxSheetName])
	}
	return s
}
