package datasource

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/vanderheijden86/healthscatter/pkg/loader"
	"github.com/vanderheijden86/healthscatter/pkg/model"
)

// ExcelReader reads records from the first sheet of a workbook. The first
// row of the sheet is the header.
type ExcelReader struct {
	file *excelize.File
	path string
}

// NewExcelReader opens the workbook.
func NewExcelReader(source DataSource) (*ExcelReader, error) {
	if source.Type != SourceTypeXLSX {
		return nil, fmt.Errorf("source is not an Excel workbook: %s", source.Type)
	}
	f, err := excelize.OpenFile(source.Path)
	if err != nil {
		return nil, fmt.Errorf("cannot open workbook: %w", err)
	}
	return &ExcelReader{file: f, path: source.Path}, nil
}

// Close releases the workbook.
func (r *ExcelReader) Close() error {
	if r.file != nil {
		return r.file.Close()
	}
	return nil
}

// Sheet returns the name of the sheet that holds the data.
func (r *ExcelReader) Sheet() (string, error) {
	sheets := r.file.GetSheetList()
	if len(sheets) == 0 {
		return "", fmt.Errorf("workbook has no sheets")
	}
	return sheets[0], nil
}

// LoadRecords reads the data sheet.
func (r *ExcelReader) LoadRecords() ([]model.Record, error) {
	sheet, err := r.Sheet()
	if err != nil {
		return nil, &loader.DataLoadError{Path: r.path, Err: err}
	}
	rows, err := r.rows(sheet)
	if err != nil {
		return nil, &loader.DataLoadError{Path: r.path, Err: fmt.Errorf("read sheet %s: %w", sheet, err)}
	}
	if len(rows) == 0 {
		return nil, &loader.DataLoadError{Path: r.path, Err: loader.ErrEmptyDataset}
	}

	records, err := loader.CoerceRows(rows[0], rows[1:], loader.ParseOptions{})
	if err != nil {
		return nil, withSourcePath(err, r.path)
	}
	return records, nil
}

// rows returns the sheet's cells as stored, so number formats such as
// "#,##0" do not reach the metric parser. Percent-formatted cells hold a
// fraction, so those keep their displayed value without the sign.
func (r *ExcelReader) rows(sheet string) ([][]string, error) {
	raw, err := r.file.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, err
	}
	shown, err := r.file.GetRows(sheet)
	if err != nil {
		return nil, err
	}
	for i, row := range raw {
		if i >= len(shown) {
			break
		}
		for j := range row {
			if j < len(shown[i]) && strings.HasSuffix(shown[i][j], "%") {
				row[j] = strings.TrimSpace(strings.TrimSuffix(shown[i][j], "%"))
			}
		}
	}
	return raw, nil
}
