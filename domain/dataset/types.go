package dataset

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"phone8ez/domain/core"
)

// DatasetType distinguishes a single carrier sheet from a merged one
type DatasetType string

const (
	TypeNormal     DatasetType = "normal"
	TypeIntegrated DatasetType = "integrated"
)

// ID identifies a dataset within a collection. Older exports wrote
// millisecond timestamps as numeric ids, so decoding accepts both forms.
type ID string

// NewID returns a fresh dataset id
func NewID() ID {
	return ID(core.NewID())
}

func (id ID) String() string { return string(id) }

// UnmarshalJSON accepts a JSON string or number
func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("dataset id must be a string or number")
	}
	*id = ID(n.String())
	return nil
}

// Dataset is one named, timestamped unit of imported or merged pricing-sheet data
type Dataset struct {
	ID        ID           `json:"id"`
	Name      string       `json:"name"`
	Type      DatasetType  `json:"type"`
	CreatedAt time.Time    `json:"createdAt"`
	Data      SheetPayload `json:"data"`
}

// SheetPayload is a normalized carrier pricing sheet: the cell grid plus the
// categorical header metadata derived from it.
type SheetPayload struct {
	SheetData    [][]string     `json:"sheetData"`
	Carrier      []string       `json:"carrier"`
	Contract     []string       `json:"contract"`
	Options      []string       `json:"options"`
	RepeatCounts map[string]int `json:"repeatCounts"`
}

// Collection is the ordered working set of datasets
type Collection []Dataset

// NewDataset creates a dataset with a fresh id and creation time
func NewDataset(name string, typ DatasetType, data SheetPayload) Dataset {
	return Dataset{
		ID:        NewID(),
		Name:      strings.TrimSpace(name),
		Type:      typ,
		CreatedAt: time.Now(),
		Data:      data,
	}
}

// IsIntegrated reports whether the dataset was produced by merging
func (d Dataset) IsIntegrated() bool {
	return d.Type == TypeIntegrated
}

// Rows returns the number of rows in the sheet grid
func (p SheetPayload) Rows() int {
	return len(p.SheetData)
}

// Columns returns the width of the widest row
func (p SheetPayload) Columns() int {
	width := 0
	for _, row := range p.SheetData {
		if len(row) > width {
			width = len(row)
		}
	}
	return width
}

// Clone returns a deep copy of the payload. Nil slices and maps stay nil.
func (p SheetPayload) Clone() SheetPayload {
	out := SheetPayload{
		Carrier:  cloneStrings(p.Carrier),
		Contract: cloneStrings(p.Contract),
		Options:  cloneStrings(p.Options),
	}
	if p.SheetData != nil {
		out.SheetData = make([][]string, len(p.SheetData))
		for i, row := range p.SheetData {
			out.SheetData[i] = cloneStrings(row)
		}
	}
	if p.RepeatCounts != nil {
		out.RepeatCounts = make(map[string]int, len(p.RepeatCounts))
		for k, v := range p.RepeatCounts {
			out.RepeatCounts[k] = v
		}
	}
	return out
}

// Clone returns a deep copy of the dataset
func (d Dataset) Clone() Dataset {
	d.Data = d.Data.Clone()
	return d
}

// Clone returns a deep copy of the collection
func (c Collection) Clone() Collection {
	if c == nil {
		return nil
	}
	out := make(Collection, len(c))
	for i, d := range c {
		out[i] = d.Clone()
	}
	return out
}

// Index returns the position of the dataset with the given id, or -1
func (c Collection) Index(id ID) int {
	for i, d := range c {
		if d.ID == id {
			return i
		}
	}
	return -1
}

// Find returns the dataset with the given id
func (c Collection) Find(id ID) (Dataset, bool) {
	if i := c.Index(id); i >= 0 {
		return c[i], true
	}
	return Dataset{}, false
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
