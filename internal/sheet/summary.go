package sheet

import (
	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"

	"phone8ez/domain/dataset"
)

// Stats describes the distribution of price cells
type Stats struct {
	Count  int     `json:"count"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Median float64 `json:"median"`
	P90    float64 `json:"p90"`
}

// CarrierStats is Stats restricted to one carrier's columns
type CarrierStats struct {
	Carrier string `json:"carrier"`
	Stats
}

// Summary holds price statistics for a dataset body
type Summary struct {
	Rows      int            `json:"rows"`
	Overall   Stats          `json:"overall"`
	ByCarrier []CarrierStats `json:"by_carrier"`
}

// Summarize computes price statistics over the numeric body cells. Columns
// are attributed to the nearest carrier named at or left of them in the
// first header row.
func Summarize(p dataset.SheetPayload) (Summary, error) {
	headers := HeaderRows(p)
	if headers == 0 {
		return Summary{}, ErrEmptySheet
	}
	if len(p.SheetData) < headers {
		return Summary{}, ErrNoBody
	}

	// a carrier spans the blank header cells that follow it
	var carrierRow []string
	last := ""
	for _, cell := range p.SheetData[0] {
		if cell != "" {
			last = cell
		}
		carrierRow = append(carrierRow, last)
	}
	if len(carrierRow) > 0 {
		carrierRow[0] = ""
	}

	var all []float64
	perCarrier := make(map[string][]float64)
	for _, row := range p.SheetData[headers:] {
		for c := 1; c < len(row); c++ {
			v, ok := ParsePrice(row[c])
			if !ok {
				continue
			}
			all = append(all, v)
			if c < len(carrierRow) && carrierRow[c] != "" {
				perCarrier[carrierRow[c]] = append(perCarrier[carrierRow[c]], v)
			}
		}
	}

	overall, err := describe(all)
	if err != nil {
		return Summary{}, err
	}

	summary := Summary{
		Rows:      len(p.SheetData) - headers,
		Overall:   overall,
		ByCarrier: []CarrierStats{},
	}
	for _, carrier := range p.Carrier {
		values, ok := perCarrier[carrier]
		if !ok {
			continue
		}
		s, err := describe(values)
		if err != nil {
			return Summary{}, err
		}
		summary.ByCarrier = append(summary.ByCarrier, CarrierStats{Carrier: carrier, Stats: s})
	}
	return summary, nil
}

func describe(values []float64) (Stats, error) {
	if len(values) == 0 {
		return Stats{}, nil
	}

	data := stats.Float64Data(values)
	min, err := stats.Min(data)
	if err != nil {
		return Stats{}, err
	}
	max, err := stats.Max(data)
	if err != nil {
		return Stats{}, err
	}
	median, err := stats.Median(data)
	if err != nil {
		return Stats{}, err
	}

	s := Stats{
		Count:  len(values),
		Min:    min,
		Max:    max,
		Median: median,
	}
	if len(values) == 1 {
		s.Mean, s.P90 = values[0], values[0]
		return s, nil
	}

	if s.P90, err = stats.Percentile(data, 90); err != nil {
		return Stats{}, err
	}
	s.Mean, s.StdDev = stat.MeanStdDev(values, nil)
	return s, nil
}
