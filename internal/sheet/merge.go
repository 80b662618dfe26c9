package sheet

import (
	"errors"
	"fmt"
	"strings"

	"phone8ez/domain/dataset"
)

var (
	ErrTooFewDatasets   = errors.New("merging needs at least two datasets")
	ErrHeaderMismatch   = errors.New("datasets have different header layouts")
	ErrEmptyMergeSource = errors.New("dataset has no sheet data")
)

// NewDataset wraps a normalized payload in a normal dataset
func NewDataset(name string, payload dataset.SheetPayload) dataset.Dataset {
	return dataset.NewDataset(name, dataset.TypeNormal, payload)
}

// Merge combines datasets side by side into one integrated dataset. Body
// rows are matched on the model column; a model missing from one source gets
// blank cells for that source's columns. Models keep first-appearance order.
func Merge(name string, sources ...dataset.Dataset) (dataset.Dataset, error) {
	if len(sources) < 2 {
		return dataset.Dataset{}, ErrTooFewDatasets
	}

	headers := -1
	for _, src := range sources {
		h, err := mergeHeaderRows(src)
		if err != nil {
			return dataset.Dataset{}, err
		}
		if headers == -1 {
			headers = h
		} else if h != headers {
			return dataset.Dataset{}, fmt.Errorf("%w: %s has %d header rows, expected %d", ErrHeaderMismatch, src.Name, h, headers)
		}
	}

	var grid [][]string
	for r := 0; r < headers; r++ {
		row := []string{sources[0].Data.SheetData[r][0]}
		for _, src := range sources {
			row = append(row, valueCells(src.Data.SheetData[r], width(src.Data))...)
		}
		grid = append(grid, row)
	}

	var models []string
	bodies := make([]map[string][]string, len(sources))
	seen := make(map[string]bool)
	for i, src := range sources {
		bodies[i] = make(map[string][]string)
		for _, row := range src.Data.SheetData[headers:] {
			model := modelKey(row)
			if model == "" {
				continue
			}
			if _, dup := bodies[i][model]; dup {
				continue
			}
			bodies[i][model] = valueCells(row, width(src.Data))
			if !seen[model] {
				seen[model] = true
				models = append(models, strings.TrimSpace(row[0]))
			}
		}
	}

	for _, model := range models {
		row := []string{model}
		for i, src := range sources {
			cells, ok := bodies[i][normalizeModel(model)]
			if !ok {
				cells = make([]string, width(src.Data)-1)
			}
			row = append(row, cells...)
		}
		grid = append(grid, row)
	}

	payload := dataset.SheetPayload{
		SheetData:    grid,
		Carrier:      []string{},
		Contract:     []string{},
		Options:      []string{},
		RepeatCounts: make(map[string]int),
	}
	for _, src := range sources {
		payload.Carrier = union(payload.Carrier, src.Data.Carrier)
		payload.Contract = union(payload.Contract, src.Data.Contract)
		payload.Options = union(payload.Options, src.Data.Options)
		for k, v := range src.Data.RepeatCounts {
			payload.RepeatCounts[k] += v
		}
	}

	return dataset.NewDataset(name, dataset.TypeIntegrated, payload), nil
}

// mergeHeaderRows checks that the grid of src really carries the header rows
// its metadata claims. Imported datasets are not normalized, so the two can
// disagree.
func mergeHeaderRows(src dataset.Dataset) (int, error) {
	grid := src.Data.SheetData
	if len(grid) == 0 {
		return 0, fmt.Errorf("%w: %s", ErrEmptyMergeSource, src.Name)
	}
	h := HeaderRows(src.Data)
	if len(grid) < h {
		return 0, fmt.Errorf("%w: %s declares %d header rows but has %d rows", ErrHeaderMismatch, src.Name, h, len(grid))
	}
	for r := 0; r < h; r++ {
		if len(grid[r]) == 0 {
			return 0, fmt.Errorf("%w: %s has an empty header row %d", ErrHeaderMismatch, src.Name, r+1)
		}
	}
	return h, nil
}

func width(p dataset.SheetPayload) int {
	w := p.Columns()
	if w < 1 {
		w = 1
	}
	return w
}

// valueCells returns row[1:] padded to w-1 cells
func valueCells(row []string, w int) []string {
	out := make([]string, w-1)
	if len(row) > 1 {
		copy(out, row[1:])
	}
	return out
}

func modelKey(row []string) string {
	if len(row) == 0 {
		return ""
	}
	return normalizeModel(row[0])
}

// normalizeModel folds case and inner whitespace so "Galaxy  S25" and
// "galaxy s25" match
func normalizeModel(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

func union(dst, src []string) []string {
	for _, v := range src {
		found := false
		for _, have := range dst {
			if have == v {
				found = true
				break
			}
		}
		if !found {
			dst = append(dst, v)
		}
	}
	return dst
}
