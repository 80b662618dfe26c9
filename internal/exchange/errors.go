package exchange

import (
	"errors"
	"fmt"
)

var (
	ErrCloudReserved   = errors.New("cloud storage is not available yet")
	ErrUnknownMode     = errors.New("unknown storage mode")
	ErrEmptyCollection = errors.New("there are no datasets to export")

	ErrFileRead      = errors.New("could not read the selected file")
	ErrEmptyContent  = errors.New("the file is empty")
	ErrMalformedJSON = errors.New("the file is not valid JSON")
	ErrNotAnArray    = errors.New("the file must contain a list of datasets")
	ErrEmptyArray    = errors.New("the file contains no datasets")

	ErrInvalidElement   = errors.New("entry is not a dataset object")
	ErrMissingDataField = errors.New("entry has no data object")
)

// ElementError reports a validation failure for one entry of an imported
// file. Index is zero-based; messages use the one-based position.
type ElementError struct {
	Index  int
	Err    error
	Detail string
}

func (e *ElementError) Error() string {
	msg := fmt.Sprintf("item %d: %v", e.Position(), e.Err)
	if e.Detail != "" {
		msg += " (" + e.Detail + ")"
	}
	return msg
}

func (e *ElementError) Unwrap() error {
	return e.Err
}

// Position returns the one-based position of the offending entry
func (e *ElementError) Position() int {
	return e.Index + 1
}

// IsValidationError reports whether err is a content problem the user can
// fix by choosing a different file, as opposed to a read or mode failure.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrEmptyContent) ||
		errors.Is(err, ErrMalformedJSON) ||
		errors.Is(err, ErrNotAnArray) ||
		errors.Is(err, ErrEmptyArray) ||
		errors.Is(err, ErrInvalidElement) ||
		errors.Is(err, ErrMissingDataField)
}
