package excel

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"phone8ez/internal"
)

// ErrUnsupportedFormat is returned for uploads that are neither xlsx nor csv
var ErrUnsupportedFormat = errors.New("unsupported file type")

// ErrNoRows is returned when a file holds no non-empty cells
var ErrNoRows = errors.New("file contains no rows")

// Reader handles reading carrier pricing files in Excel and CSV form
type Reader struct {
	logger *internal.Logger
}

// NewReader creates a reader. A nil logger falls back to the default logger.
func NewReader(logger *internal.Logger) *Reader {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Reader{logger: logger}
}

// Read parses r according to the extension of fileName
func (r *Reader) Read(fileName string, src io.Reader) (Workbook, error) {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".xlsx", ".xlsm":
		return r.ReadWorkbook(fileName, src)
	case ".csv":
		return r.ReadCSV(fileName, src)
	default:
		return Workbook{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, fileName)
	}
}

// ReadWorkbook reads every sheet of an xlsx file. Sheets without any
// non-empty cell are skipped.
func (r *Reader) ReadWorkbook(fileName string, src io.Reader) (Workbook, error) {
	startTime := time.Now()
	f, err := excelize.OpenReader(src)
	if err != nil {
		return Workbook{}, fmt.Errorf("failed to open Excel file %s: %w", fileName, err)
	}
	defer f.Close()

	wb := Workbook{FileName: fileName}
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil {
			return Workbook{}, fmt.Errorf("failed to read sheet %s: %w", name, err)
		}
		rows = trimRows(rows)
		if len(rows) == 0 {
			continue
		}
		wb.Sheets = append(wb.Sheets, Sheet{Name: name, Rows: rows})
	}

	if len(wb.Sheets) == 0 {
		return Workbook{}, fmt.Errorf("%w: %s", ErrNoRows, fileName)
	}

	r.logger.Debug("[Reader] %s read in %.2fms (%d sheets)", fileName,
		float64(time.Since(startTime).Nanoseconds())/1e6, len(wb.Sheets))
	return wb, nil
}

// ReadCSV reads a csv file as a single sheet named after the file
func (r *Reader) ReadCSV(fileName string, src io.Reader) (Workbook, error) {
	reader := csv.NewReader(src)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return Workbook{}, fmt.Errorf("failed to read CSV file %s: %w", fileName, err)
	}
	rows = trimRows(rows)
	if len(rows) == 0 {
		return Workbook{}, fmt.Errorf("%w: %s", ErrNoRows, fileName)
	}

	name := strings.TrimSuffix(filepath.Base(fileName), filepath.Ext(fileName))
	r.logger.Debug("[Reader] %s read (%d rows)", fileName, len(rows))
	return Workbook{FileName: fileName, Sheets: []Sheet{{Name: name, Rows: rows}}}, nil
}

// trimRows trims every cell, strips a leading BOM and drops trailing empty rows
func trimRows(rows [][]string) [][]string {
	out := make([][]string, 0, len(rows))
	for i, row := range rows {
		cells := make([]string, len(row))
		for j, cell := range row {
			if i == 0 && j == 0 {
				cell = strings.TrimPrefix(cell, "\ufeff")
			}
			cells[j] = strings.TrimSpace(cell)
		}
		out = append(out, cells)
	}
	for len(out) > 0 && isBlank(out[len(out)-1]) {
		out = out[:len(out)-1]
	}
	return out
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if cell != "" {
			return false
		}
	}
	return true
}
