package datasource

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/vanderheijden86/healthscatter/pkg/loader"
	"github.com/vanderheijden86/healthscatter/pkg/model"
)

// SQLiteReader reads records from the records table of a SQLite database.
type SQLiteReader struct {
	db   *sql.DB
	path string
}

// NewSQLiteReader opens the database read-only.
func NewSQLiteReader(source DataSource) (*SQLiteReader, error) {
	if source.Type != SourceTypeSQLite {
		return nil, fmt.Errorf("source is not SQLite: %s", source.Type)
	}
	dsn := fmt.Sprintf("file:%s?mode=ro&_busy_timeout=5000", source.Path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("cannot open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("cannot open database: %w", err)
	}
	return &SQLiteReader{db: db, path: source.Path}, nil
}

// Close closes the database.
func (r *SQLiteReader) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// CountRecords returns the number of rows in the records table.
func (r *SQLiteReader) CountRecords() (int, error) {
	var n int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM " + SQLiteTable).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// LoadRecords reads every row of the records table in rowid order.
// Column names follow the CSV header rules.
func (r *SQLiteReader) LoadRecords() ([]model.Record, error) {
	n, err := r.CountRecords()
	if err != nil {
		return nil, &loader.DataLoadError{Path: r.path, Err: fmt.Errorf("count failed: %w", err)}
	}
	if n == 0 {
		return nil, &loader.DataLoadError{Path: r.path, Err: loader.ErrEmptyDataset}
	}

	rows, err := r.db.Query("SELECT * FROM " + SQLiteTable + " ORDER BY rowid")
	if err != nil {
		return nil, &loader.DataLoadError{Path: r.path, Err: fmt.Errorf("query failed: %w", err)}
	}
	defer rows.Close()

	header, err := rows.Columns()
	if err != nil {
		return nil, &loader.DataLoadError{Path: r.path, Err: err}
	}

	data := make([][]string, 0, n)
	for rows.Next() {
		cells := make([]sql.NullString, len(header))
		dest := make([]any, len(header))
		for i := range cells {
			dest[i] = &cells[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, &loader.DataLoadError{Path: r.path, Err: fmt.Errorf("scan row: %w", err)}
		}
		row := make([]string, len(cells))
		for i, c := range cells {
			if c.Valid {
				row[i] = c.String
			}
		}
		data = append(data, row)
	}
	if err := rows.Err(); err != nil {
		return nil, &loader.DataLoadError{Path: r.path, Err: fmt.Errorf("error iterating rows: %w", err)}
	}

	records, err := loader.CoerceRows(header, data, loader.ParseOptions{})
	if err != nil {
		return nil, withSourcePath(err, r.path)
	}
	return records, nil
}
