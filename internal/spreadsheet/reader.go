// Package spreadsheet loads policy rows from the renewal Excel workbook.
package spreadsheet

import (
	"fmt"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/insurops/motor-renewal/internal/records"
)

// Reader loads header-keyed rows from an xlsx workbook.
type Reader struct {
	logger *zap.Logger
}

// NewReader creates a Reader.
func NewReader(logger *zap.Logger) *Reader {
	return &Reader{logger: logger}
}

// Load reads the first sheet of the workbook at path. The first row is taken
// as column headers; each following row becomes a records.Row. Columns beyond
// the header width are ignored, short rows leave the remaining columns unset.
func (r *Reader) Load(path string) ([]records.Row, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	sheet := sheets[0]

	raw, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	if len(raw) < 2 {
		return nil, fmt.Errorf("sheet %q has no data rows", sheet)
	}

	headers := raw[0]
	rows := make([]records.Row, 0, len(raw)-1)
	for _, cells := range raw[1:] {
		row := make(records.Row, len(headers))
		for i, h := range headers {
			if h == "" {
				continue
			}
			if i < len(cells) {
				row[h] = cells[i]
			}
		}
		rows = append(rows, row)
	}

	r.logger.Info("Loaded policy rows",
		zap.String("path", path),
		zap.String("sheet", sheet),
		zap.Int("rows", len(rows)))

	return rows, nil
}

// Count returns the number of data rows in the workbook at path without
// materializing them. Used by the upload endpoint to echo a record count.
func (r *Reader) Count(path string) (int, error) {
	rows, err := r.Load(path)
	if err != nil {
		return 0, err
	}
	return len(rows), nil
}
