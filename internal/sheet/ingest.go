package sheet

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"phone8ez/adapters/excel"
	"phone8ez/domain/dataset"
	"phone8ez/internal/metrics"
)

// maxParallelIngest bounds concurrent workbook parsing
const maxParallelIngest = 4

// Upload is one pricing file received from a user
type Upload struct {
	FileName string
	Content  []byte
}

// Ingester parses uploaded pricing files into datasets
type Ingester struct {
	reader     *excel.Reader
	headerRows int
}

// NewIngester creates an ingester. headerRows <= 0 detects header height per sheet.
func NewIngester(reader *excel.Reader, headerRows int) *Ingester {
	return &Ingester{reader: reader, headerRows: headerRows}
}

// IngestWorkbooks parses files concurrently. The result keeps upload order,
// and within a file, sheet order. The first failure cancels the rest.
func (in *Ingester) IngestWorkbooks(ctx context.Context, files []Upload) ([]dataset.Dataset, error) {
	results := make([][]dataset.Dataset, len(files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelIngest)
	for i, file := range files {
		i, file := i, file
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			datasets, err := in.ingest(file)
			if err != nil {
				return err
			}
			results[i] = datasets
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []dataset.Dataset
	for _, r := range results {
		out = append(out, r...)
	}
	return out, nil
}

func (in *Ingester) ingest(file Upload) ([]dataset.Dataset, error) {
	start := time.Now()
	defer func() {
		metrics.SheetIngestDuration.Observe(time.Since(start).Seconds())
	}()

	wb, err := in.reader.Read(file.FileName, bytes.NewReader(file.Content))
	if err != nil {
		return nil, err
	}

	base := strings.TrimSuffix(filepath.Base(file.FileName), filepath.Ext(file.FileName))
	datasets := make([]dataset.Dataset, 0, len(wb.Sheets))
	for _, s := range wb.Sheets {
		payload, err := Normalize(s.Rows, in.headerRows)
		if err != nil {
			return nil, fmt.Errorf("%s, sheet %s: %w", file.FileName, s.Name, err)
		}
		name := base
		if len(wb.Sheets) > 1 {
			name = base + " - " + s.Name
		}
		datasets = append(datasets, NewDataset(name, payload))
	}
	return datasets, nil
}
