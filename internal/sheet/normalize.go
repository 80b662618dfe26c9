package sheet

import (
	"errors"
	"strings"

	"phone8ez/domain/dataset"
)

// MaxHeaderRows is the number of header rows a pricing sheet can carry
const MaxHeaderRows = 3

var (
	ErrEmptySheet = errors.New("sheet has no data")
	ErrNoBody     = errors.New("sheet has header rows but no model rows")
)

// Normalize cleans rows into a payload. headerRows <= 0 detects the header
// height from the content.
func Normalize(rows [][]string, headerRows int) (dataset.SheetPayload, error) {
	grid := compact(rows)
	if len(grid) == 0 {
		return dataset.SheetPayload{}, ErrEmptySheet
	}

	if headerRows <= 0 {
		headerRows = DetectHeaderRows(grid)
	}
	if headerRows > MaxHeaderRows {
		headerRows = MaxHeaderRows
	}
	if headerRows >= len(grid) {
		return dataset.SheetPayload{}, ErrNoBody
	}

	for r := 0; r < headerRows; r++ {
		forwardFill(grid[r])
	}

	payload := dataset.SheetPayload{
		SheetData:    grid,
		Carrier:      distinct(grid[0]),
		Contract:     []string{},
		Options:      []string{},
		RepeatCounts: repeatCounts(grid[0]),
	}
	if headerRows > 1 {
		payload.Contract = distinct(grid[1])
	}
	if headerRows > 2 {
		payload.Options = distinct(grid[2])
	}
	return payload, nil
}

// DetectHeaderRows counts the leading rows, up to MaxHeaderRows, whose value
// cells contain no prices. At least one row is always a header.
func DetectHeaderRows(rows [][]string) int {
	n := 0
	for n < len(rows) && n < MaxHeaderRows {
		if hasPrice(rows[n]) {
			break
		}
		n++
	}
	if n == 0 {
		n = 1
	}
	return n
}

// HeaderRows reports how many header rows a normalized payload carries
func HeaderRows(p dataset.SheetPayload) int {
	switch {
	case len(p.Options) > 0:
		return 3
	case len(p.Contract) > 0:
		return 2
	case len(p.SheetData) > 0:
		return 1
	default:
		return 0
	}
}

// compact trims cells, drops empty rows and empty columns and pads every row
// to the same width
func compact(rows [][]string) [][]string {
	width := 0
	kept := make([][]string, 0, len(rows))
	for _, row := range rows {
		cells := make([]string, len(row))
		empty := true
		for i, cell := range row {
			cells[i] = strings.TrimSpace(cell)
			if cells[i] != "" {
				empty = false
			}
		}
		if empty {
			continue
		}
		if len(cells) > width {
			width = len(cells)
		}
		kept = append(kept, cells)
	}

	used := make([]bool, width)
	for _, row := range kept {
		for i, cell := range row {
			if cell != "" {
				used[i] = true
			}
		}
	}

	out := make([][]string, len(kept))
	for r, row := range kept {
		cells := make([]string, 0, width)
		for c := 0; c < width; c++ {
			if !used[c] {
				continue
			}
			if c < len(row) {
				cells = append(cells, row[c])
			} else {
				cells = append(cells, "")
			}
		}
		out[r] = cells
	}
	return out
}

// forwardFill copies each value cell into the empty cells to its right.
// The label column is left alone.
func forwardFill(row []string) {
	for i := 2; i < len(row); i++ {
		if row[i] == "" {
			row[i] = row[i-1]
		}
	}
}

func distinct(row []string) []string {
	out := []string{}
	seen := make(map[string]bool)
	for i := 1; i < len(row); i++ {
		v := row[i]
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

func repeatCounts(row []string) map[string]int {
	counts := make(map[string]int)
	for i := 1; i < len(row); i++ {
		if row[i] != "" {
			counts[row[i]]++
		}
	}
	return counts
}

func hasPrice(row []string) bool {
	for i := 1; i < len(row); i++ {
		if _, ok := ParsePrice(row[i]); ok {
			return true
		}
	}
	return false
}
