// Package datasource discovers dataset files in a directory, validates them
// and picks the freshest usable one. CSV, SQLite and Excel sources are
// supported; all of them are coerced through the same loader rules.
package datasource

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// ErrNoSources is returned when discovery finds nothing usable.
var ErrNoSources = errors.New("no valid data sources")

// SourceType identifies the kind of data source.
type SourceType string

const (
	SourceTypeSQLite SourceType = "sqlite"
	SourceTypeXLSX   SourceType = "xlsx"
	SourceTypeCSV    SourceType = "csv"
)

// Priority values break ties between sources with the same mtime
// (higher wins).
const (
	PrioritySQLite = 100
	PriorityXLSX   = 80
	PriorityCSV    = 50
)

// SQLiteTable is the table read from SQLite sources.
const SQLiteTable = "records"

// DataSource is a candidate dataset file.
type DataSource struct {
	Type     SourceType `json:"type"`
	Path     string     `json:"path"`
	Priority int        `json:"priority"`
	ModTime  time.Time  `json:"mod_time"`
	Size     int64      `json:"size"`

	// Set by ValidateSource.
	Valid           bool   `json:"valid"`
	ValidationError string `json:"validation_error,omitempty"`
	RecordCount     int    `json:"record_count"`
}

// String returns a one-line description of the source.
func (s DataSource) String() string {
	status := "valid"
	if !s.Valid {
		status = "invalid: " + s.ValidationError
	}
	return fmt.Sprintf("%s (%s, priority=%d, mod=%s, records=%d, %s)",
		s.Path, s.Type, s.Priority, s.ModTime.Format(time.RFC3339), s.RecordCount, status)
}

// TypeForPath infers the source type from a file extension.
func TypeForPath(path string) (SourceType, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return SourceTypeCSV, true
	case ".db", ".sqlite", ".sqlite3":
		return SourceTypeSQLite, true
	case ".xlsx":
		return SourceTypeXLSX, true
	default:
		return "", false
	}
}

func priorityFor(t SourceType) int {
	switch t {
	case SourceTypeSQLite:
		return PrioritySQLite
	case SourceTypeXLSX:
		return PriorityXLSX
	default:
		return PriorityCSV
	}
}

// NewSource describes the file at path, inferring its type from the
// extension.
func NewSource(path string) (DataSource, error) {
	t, ok := TypeForPath(path)
	if !ok {
		return DataSource{}, fmt.Errorf("unsupported data file type: %s", path)
	}
	info, err := os.Stat(path)
	if err != nil {
		return DataSource{}, err
	}
	if info.IsDir() {
		return DataSource{}, fmt.Errorf("%s is a directory", path)
	}
	return DataSource{
		Type:     t,
		Path:     path,
		Priority: priorityFor(t),
		ModTime:  info.ModTime(),
		Size:     info.Size(),
	}, nil
}

// DiscoveryOptions configures DiscoverSources.
type DiscoveryOptions struct {
	// Dirs are searched in order; missing directories are skipped.
	Dirs []string
	// ValidateAfterDiscovery runs ValidateSource on every candidate.
	ValidateAfterDiscovery bool
	// IncludeInvalid keeps sources that failed validation.
	IncludeInvalid bool
	// Logger receives progress messages when non-nil.
	Logger func(msg string)
}

// DiscoverSources lists dataset files in the configured directories, newest
// first, with priority breaking mtime ties.
func DiscoverSources(opts DiscoveryOptions) ([]DataSource, error) {
	logf := func(format string, args ...any) {
		if opts.Logger != nil {
			opts.Logger(fmt.Sprintf(format, args...))
		}
	}

	var sources []DataSource
	for _, dir := range opts.Dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("failed to read data directory: %w", err)
		}
		for _, e := range entries {
			if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
				continue
			}
			path := filepath.Join(dir, e.Name())
			if _, ok := TypeForPath(path); !ok {
				continue
			}
			src, err := NewSource(path)
			if err != nil {
				logf("skipping %s: %v", path, err)
				continue
			}
			logf("found %s source: %s (mod=%s)", src.Type, path, src.ModTime.Format(time.RFC3339))
			sources = append(sources, src)
		}
	}

	if opts.ValidateAfterDiscovery {
		for i := range sources {
			if err := ValidateSource(&sources[i]); err != nil {
				logf("validation failed for %s: %v", sources[i].Path, err)
			}
		}
		if !opts.IncludeInvalid {
			valid := sources[:0]
			for _, s := range sources {
				if s.Valid {
					valid = append(valid, s)
				}
			}
			sources = valid
		}
	}

	sortSources(sources)
	logf("discovered %d sources", len(sources))
	return sources, nil
}

func sortSources(sources []DataSource) {
	sort.SliceStable(sources, func(i, j int) bool {
		if sources[i].ModTime.Equal(sources[j].ModTime) {
			return sources[i].Priority > sources[j].Priority
		}
		return sources[i].ModTime.After(sources[j].ModTime)
	})
}

// ValidateSource loads the source once and records whether it is usable.
// The returned error is also stored in ValidationError.
func ValidateSource(source *DataSource) error {
	records, err := LoadFromSource(*source)
	if err != nil {
		source.Valid = false
		source.ValidationError = err.Error()
		source.RecordCount = 0
		return err
	}
	source.Valid = true
	source.ValidationError = ""
	source.RecordCount = len(records)
	return nil
}

// SelectBestSource returns the newest valid source, preferring higher
// priority on equal mtime.
func SelectBestSource(sources []DataSource) (DataSource, error) {
	candidates := make([]DataSource, 0, len(sources))
	for _, s := range sources {
		if s.Valid {
			candidates = append(candidates, s)
		}
	}
	if len(candidates) == 0 {
		return DataSource{}, ErrNoSources
	}
	sortSources(candidates)
	return candidates[0], nil
}
