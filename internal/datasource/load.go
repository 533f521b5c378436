package datasource

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vanderheijden86/healthscatter/pkg/debug"
	"github.com/vanderheijden86/healthscatter/pkg/loader"
	"github.com/vanderheijden86/healthscatter/pkg/metrics"
	"github.com/vanderheijden86/healthscatter/pkg/model"
)

// SearchDirs returns the directories searched for dir: dir itself and its
// assets/data subdirectory.
func SearchDirs(dir string) []string {
	return []string{dir, filepath.Join(dir, "assets", "data")}
}

// LoadRecords resolves the dataset for dir and loads it. HS_DATA_PATH names
// a file directly; otherwise the freshest valid source under SearchDirs is
// used, falling back to loader.LoadRecords when discovery finds nothing.
func LoadRecords(dir string) ([]model.Record, DataSource, error) {
	if env := os.Getenv(loader.DataPathEnvVar); env != "" {
		return LoadPath(env)
	}
	if dir == "" {
		var err error
		dir, err = os.Getwd()
		if err != nil {
			return nil, DataSource{}, fmt.Errorf("failed to get current directory: %w", err)
		}
	}

	sources, err := DiscoverSources(DiscoveryOptions{
		Dirs:                   SearchDirs(dir),
		ValidateAfterDiscovery: true,
		Logger:                 func(msg string) { debug.Log("datasource: %s", msg) },
	})
	if err == nil {
		if best, selErr := SelectBestSource(sources); selErr == nil {
			records, loadErr := LoadFromSource(best)
			if loadErr == nil {
				return records, best, nil
			}
			debug.Log("datasource: best source %s failed: %v", best.Path, loadErr)
		}
	}

	path, err := loader.GetDataPath(dir)
	if err != nil {
		return nil, DataSource{}, err
	}
	return LoadPath(path)
}

// LoadPath loads a single dataset file, choosing the reader by extension.
// Unknown extensions are read as CSV.
func LoadPath(path string) ([]model.Record, DataSource, error) {
	src, err := NewSource(path)
	if err != nil {
		if _, ok := TypeForPath(path); ok {
			return nil, DataSource{}, &loader.DataLoadError{Path: path, Err: err}
		}
		info, statErr := os.Stat(path)
		if statErr != nil {
			return nil, DataSource{}, &loader.DataLoadError{Path: path, Err: statErr}
		}
		src = DataSource{Type: SourceTypeCSV, Path: path, Priority: PriorityCSV, ModTime: info.ModTime(), Size: info.Size()}
	}
	records, err := LoadFromSource(src)
	if err != nil {
		return nil, src, err
	}
	src.Valid = true
	src.RecordCount = len(records)
	return records, src, nil
}

// LoadFromSource loads records from a DataSource, dispatching on its type.
func LoadFromSource(source DataSource) ([]model.Record, error) {
	switch source.Type {
	case SourceTypeCSV:
		return loader.LoadRecordsFromFile(source.Path)

	case SourceTypeSQLite:
		defer metrics.Timer(metrics.DatasetLoad)()
		reader, err := NewSQLiteReader(source)
		if err != nil {
			return nil, &loader.DataLoadError{Path: source.Path, Err: err}
		}
		defer reader.Close()
		return reader.LoadRecords()

	case SourceTypeXLSX:
		defer metrics.Timer(metrics.DatasetLoad)()
		reader, err := NewExcelReader(source)
		if err != nil {
			return nil, &loader.DataLoadError{Path: source.Path, Err: err}
		}
		defer reader.Close()
		return reader.LoadRecords()

	default:
		return nil, fmt.Errorf("unknown source type: %s", source.Type)
	}
}

// withSourcePath fills in the path on typed loader errors.
func withSourcePath(err error, path string) error {
	var le *loader.DataLoadError
	if errors.As(err, &le) && le.Path == "" {
		le.Path = path
		return err
	}
	var ve *loader.DataValidationError
	if errors.As(err, &ve) && ve.Path == "" {
		ve.Path = path
	}
	return err
}
