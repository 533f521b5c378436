package loader

import (
	"errors"
	"fmt"
)

// Sentinel reasons carried by DataLoadError and DataValidationError.
var (
	ErrNoDataFile    = errors.New("no dataset file found")
	ErrEmptyDataset  = errors.New("dataset has no records")
	ErrMissingColumn = errors.New("required column missing from header")
	ErrMissingValue  = errors.New("value is missing")
	ErrNotNumeric    = errors.New("value is not numeric")
	ErrNotFinite     = errors.New("value is not a finite number")
)

// DataLoadError reports a dataset that could not be read at all: the file
// is missing or unreadable, the CSV is malformed, the header lacks a
// required column, or no records remain.
type DataLoadError struct {
	Path string
	Err  error
}

func (e *DataLoadError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("load dataset: %v", e.Err)
	}
	return fmt.Sprintf("load dataset %s: %v", e.Path, e.Err)
}

func (e *DataLoadError) Unwrap() error { return e.Err }

// DataValidationError reports a row whose metric value cannot be coerced to
// a finite number. Row is the 1-based data row, header excluded.
type DataValidationError struct {
	Path   string
	Row    int
	ID     string
	Column string
	Value  string
	Reason error
}

func (e *DataValidationError) Error() string {
	where := fmt.Sprintf("row %d", e.Row)
	if e.ID != "" {
		where = fmt.Sprintf("row %d (%s)", e.Row, e.ID)
	}
	if e.Path != "" {
		where = e.Path + ": " + where
	}
	return fmt.Sprintf("%s: column %s value %q: %v", where, e.Column, e.Value, e.Reason)
}

func (e *DataValidationError) Unwrap() error { return e.Reason }

// withPath fills in the dataset path on typed loader errors that lack one.
func withPath(err error, path string) error {
	var le *DataLoadError
	if errors.As(err, &le) && le.Path == "" {
		le.Path = path
		return err
	}
	var ve *DataValidationError
	if errors.As(err, &ve) && ve.Path == "" {
		ve.Path = path
	}
	return err
}
