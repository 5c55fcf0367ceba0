package exporter

import (
	"fmt"
	"log/slog"
	"math"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	apperrors "github.com/anitej-c-501/hdf-position-tracker/internal/errors"
)

// WorkbookWriter writes report tables as sheets of one spreadsheet
type WorkbookWriter struct {
	logger *slog.Logger
}

// NewWorkbookWriter creates a workbook writer
func NewWorkbookWriter(logger *slog.Logger) *WorkbookWriter {
	return &WorkbookWriter{logger: logger}
}

// WriteWorkbook writes every table to its own sheet, named after the table,
// in dir/fileName and returns the path written. Finite values are stored as
// numbers; NaN and infinities are stored as text since cells cannot hold them.
func (w *WorkbookWriter) WriteWorkbook(dir, fileName string, tables ...*Table) (string, error) {
	fullPath := filepath.Join(dir, fileName)

	f := excelize.NewFile()
	defer f.Close()

	for i, table := range tables {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), table.Name); err != nil {
				return "", apperrors.NewStorageError("failed to name sheet", err).WithContext("sheet", table.Name)
			}
		} else if _, err := f.NewSheet(table.Name); err != nil {
			return "", apperrors.NewStorageError("failed to create sheet", err).WithContext("sheet", table.Name)
		}

		if err := writeSheet(f, table); err != nil {
			return "", apperrors.NewStorageError("failed to write sheet", err).WithContext("sheet", table.Name)
		}
	}

	w.logger.Info("Writing workbook",
		slog.String("full_path", fullPath),
		slog.Int("sheets", len(tables)))

	if err := f.SaveAs(fullPath); err != nil {
		return "", apperrors.NewStorageError("failed to save workbook", err).WithContext("path", fullPath)
	}

	return fullPath, nil
}

func writeSheet(f *excelize.File, table *Table) error {
	header := make([]interface{}, len(table.Header))
	for i, h := range table.Header {
		header[i] = h
	}
	if err := f.SetSheetRow(table.Name, "A1", &header); err != nil {
		return err
	}

	for r, row := range table.Rows {
		cells := make([]interface{}, 0, 1+len(row.Values))
		cells = append(cells, row.Label)
		for _, v := range row.Values {
			cells = append(cells, cellValue(v))
		}

		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(table.Name, cell, &cells); err != nil {
			return fmt.Errorf("row %d: %w", r, err)
		}
	}
	return nil
}

func cellValue(v float64) interface{} {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return FormatFloat(v)
	}
	return v
}
