package exchange

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"phone8ez/domain/dataset"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// FileName builds prefix_YYMMDD_HHmm.json from t in t's location
func FileName(prefix string, t time.Time) string {
	return prefix + "_" + t.Format("060102_1504") + ".json"
}

// Encode serializes the collection as indented JSON
func Encode(datasets dataset.Collection) ([]byte, error) {
	body, err := json.MarshalIndent(datasets, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode datasets: %w", err)
	}
	return body, nil
}

// Decode validates an exported document and returns its datasets.
// Checks run in order: empty content, JSON syntax, array root, non-empty
// array, then per entry object shape and the data field.
func Decode(content []byte) (dataset.Collection, error) {
	text := bytes.TrimSpace(bytes.TrimPrefix(content, utf8BOM))
	if len(text) == 0 {
		return nil, ErrEmptyContent
	}

	if !json.Valid(text) {
		var probe json.RawMessage
		err := json.Unmarshal(text, &probe)
		return nil, fmt.Errorf("%w: %v", ErrMalformedJSON, err)
	}

	if text[0] != '[' {
		return nil, ErrNotAnArray
	}

	var items []json.RawMessage
	if err := json.Unmarshal(text, &items); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedJSON, err)
	}
	if len(items) == 0 {
		return nil, ErrEmptyArray
	}

	out := make(dataset.Collection, 0, len(items))
	for i, raw := range items {
		ds, err := decodeElement(i, raw)
		if err != nil {
			return nil, err
		}
		out = append(out, ds)
	}
	return out, nil
}

func decodeElement(i int, raw json.RawMessage) (dataset.Dataset, error) {
	if !isObject(raw) {
		return dataset.Dataset{}, &ElementError{Index: i, Err: ErrInvalidElement}
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return dataset.Dataset{}, &ElementError{Index: i, Err: ErrInvalidElement, Detail: err.Error()}
	}
	data, ok := fields["data"]
	if !ok || !isObject(data) {
		return dataset.Dataset{}, &ElementError{Index: i, Err: ErrMissingDataField}
	}

	var ds dataset.Dataset
	if err := json.Unmarshal(raw, &ds); err != nil {
		return dataset.Dataset{}, &ElementError{Index: i, Err: ErrInvalidElement, Detail: err.Error()}
	}
	return ds, nil
}

func isObject(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '{'
}
