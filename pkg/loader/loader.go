// Package loader reads the state indicator dataset from CSV and coerces the
// six metric columns to finite numbers.
package loader

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/vanderheijden86/healthscatter/pkg/debug"
	"github.com/vanderheijden86/healthscatter/pkg/metrics"
	"github.com/vanderheijden86/healthscatter/pkg/model"
)

// DataPathEnvVar overrides dataset discovery with an explicit file path.
const DataPathEnvVar = "HS_DATA_PATH"

// Header names outside the metric columns.
const (
	IDColumn   = "abbr"
	NameColumn = "state"
)

// DefaultDataFiles lists the dataset locations tried, relative to the
// working directory, in priority order.
var DefaultDataFiles = []string{
	"data.csv",
	filepath.Join("assets", "data", "data.csv"),
}

// GetDataPath resolves the dataset path. HS_DATA_PATH wins; otherwise the
// first non-empty entry of DefaultDataFiles under dir is used.
func GetDataPath(dir string) (string, error) {
	if env := os.Getenv(DataPathEnvVar); env != "" {
		return env, nil
	}
	if dir == "" {
		var err error
		dir, err = os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to get current working directory: %w", err)
		}
	}
	for _, name := range DefaultDataFiles {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() && info.Size() > 0 {
			return path, nil
		}
	}
	return "", &DataLoadError{Path: dir, Err: ErrNoDataFile}
}

// ParseOptions configures ParseRecordsWithOptions.
type ParseOptions struct {
	// WarningHandler receives non-fatal problems such as duplicate ids or
	// blank rows. When nil, warnings go to the debug log.
	WarningHandler func(string)

	// RecordFilter optionally drops parsed records. Return true to keep.
	RecordFilter func(*model.Record) bool
}

func (o ParseOptions) warn() func(string) {
	if o.WarningHandler != nil {
		return o.WarningHandler
	}
	return func(msg string) { debug.Log("loader warning: %s", msg) }
}

// LoadRecords finds the dataset for dir and loads it.
func LoadRecords(dir string) ([]model.Record, error) {
	path, err := GetDataPath(dir)
	if err != nil {
		return nil, err
	}
	return LoadRecordsFromFile(path)
}

// LoadRecordsFromFile reads records from a CSV file.
func LoadRecordsFromFile(path string) ([]model.Record, error) {
	return LoadRecordsFromFileWithOptions(path, ParseOptions{})
}

// LoadRecordsFromFileWithOptions reads records from a CSV file with custom
// options.
func LoadRecordsFromFileWithOptions(path string, opts ParseOptions) ([]model.Record, error) {
	defer metrics.Timer(metrics.DatasetLoad)()

	file, err := os.Open(path)
	if err != nil {
		return nil, &DataLoadError{Path: path, Err: err}
	}
	defer file.Close()

	records, err := ParseRecordsWithOptions(file, opts)
	if err != nil {
		return nil, withPath(err, path)
	}
	debug.Log("loaded %d records from %s", len(records), path)
	return records, nil
}

// ParseRecords parses CSV content into records.
func ParseRecords(r io.Reader) ([]model.Record, error) {
	return ParseRecordsWithOptions(r, ParseOptions{})
}

// ParseRecordsWithOptions parses CSV content with custom options. The first
// row is the header; header names are matched case-insensitively and extra
// columns are ignored. A UTF-8 BOM before the header is stripped.
func ParseRecordsWithOptions(r io.Reader, opts ParseOptions) ([]model.Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = false

	fields, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &DataLoadError{Err: ErrEmptyDataset}
		}
		return nil, &DataLoadError{Err: fmt.Errorf("read header: %w", err)}
	}
	if len(fields) > 0 {
		fields[0] = string(stripBOM([]byte(fields[0])))
	}

	var rows [][]string
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &DataLoadError{Err: fmt.Errorf("read csv: %w", err)}
		}
		rows = append(rows, row)
	}
	return CoerceRows(fields, rows, opts)
}

// Header maps required column names to field positions.
type Header struct {
	id   int
	name int // -1 when absent
	cols map[model.Column]int
}

// NewHeader locates the identifier, optional name and six metric columns.
func NewHeader(fields []string) (Header, error) {
	index := make(map[string]int, len(fields))
	for i, f := range fields {
		key := strings.ToLower(strings.TrimSpace(f))
		if _, seen := index[key]; !seen {
			index[key] = i
		}
	}

	h := Header{name: -1, cols: make(map[model.Column]int, len(model.Columns()))}
	var missing []string
	if i, ok := index[IDColumn]; ok {
		h.id = i
	} else {
		missing = append(missing, IDColumn)
	}
	if i, ok := index[NameColumn]; ok {
		h.name = i
	}
	for _, c := range model.Columns() {
		i, ok := index[c.Tag()]
		if !ok {
			missing = append(missing, c.Tag())
			continue
		}
		h.cols[c] = i
	}
	if len(missing) > 0 {
		return Header{}, &DataLoadError{Err: fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))}
	}
	return h, nil
}

// Record coerces one data row. rowNum is used for error reporting only.
func (h Header) Record(row []string, rowNum int) (model.Record, error) {
	rec := model.Record{ID: strings.TrimSpace(field(row, h.id))}
	if h.name >= 0 {
		rec.Name = strings.TrimSpace(field(row, h.name))
	}
	if rec.ID == "" {
		return model.Record{}, &DataValidationError{Row: rowNum, Column: IDColumn, Reason: ErrMissingValue}
	}
	for _, c := range model.Columns() {
		raw := field(row, h.cols[c])
		v, err := ParseMetric(raw)
		if err != nil {
			return model.Record{}, &DataValidationError{
				Row:    rowNum,
				ID:     rec.ID,
				Column: c.Tag(),
				Value:  raw,
				Reason: err,
			}
		}
		rec.SetValue(c, v)
	}
	return rec, nil
}

// ParseMetric coerces a raw field to a finite float64.
func ParseMetric(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, ErrMissingValue
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		var numErr *strconv.NumError
		if errors.As(err, &numErr) && errors.Is(numErr.Err, strconv.ErrRange) {
			return 0, ErrNotFinite
		}
		return 0, ErrNotNumeric
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, ErrNotFinite
	}
	return v, nil
}

// CoerceRows turns a header and its data rows into records, preserving row
// order. Blank rows are skipped with a warning; later duplicates of an id
// are dropped with a warning. Any other bad value fails the whole load.
func CoerceRows(header []string, rows [][]string, opts ParseOptions) ([]model.Record, error) {
	h, err := NewHeader(header)
	if err != nil {
		return nil, err
	}
	warn := opts.warn()

	records := make([]model.Record, 0, len(rows))
	seen := make(map[string]int, len(rows))
	for i, row := range rows {
		rowNum := i + 1
		if blankRow(row) {
			warn(fmt.Sprintf("skipping blank row %d", rowNum))
			continue
		}
		rec, err := h.Record(row, rowNum)
		if err != nil {
			return nil, err
		}
		if first, dup := seen[rec.ID]; dup {
			warn(fmt.Sprintf("skipping row %d: duplicate id %s (first seen on row %d)", rowNum, rec.ID, first))
			continue
		}
		seen[rec.ID] = rowNum
		if opts.RecordFilter != nil && !opts.RecordFilter(&rec) {
			continue
		}
		records = append(records, rec)
	}
	if len(records) == 0 {
		return nil, &DataLoadError{Err: ErrEmptyDataset}
	}
	return records, nil
}

func field(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

func blankRow(row []string) bool {
	for _, f := range row {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

// stripBOM removes a UTF-8 byte order mark if present.
func stripBOM(b []byte) []byte {
	if bytes.HasPrefix(b, []byte{0xEF, 0xBB, 0xBF}) {
		return b[3:]
	}
	return b
}
