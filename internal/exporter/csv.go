package exporter

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	apperrors "github.com/anitej-c-501/hdf-position-tracker/internal/errors"
)

// CSVWriter writes report tables as CSV files
type CSVWriter struct {
	codec  Codec
	logger *slog.Logger
}

// NewCSVWriter creates a CSV writer; a nil codec writes plain files
func NewCSVWriter(codec Codec, logger *slog.Logger) *CSVWriter {
	if codec == nil {
		codec = noneCodec{}
	}
	return &CSVWriter{codec: codec, logger: logger}
}

// Path returns the file a table named fileName is written to in dir
func (w *CSVWriter) Path(dir, fileName string) string {
	return filepath.Join(dir, fileName+w.codec.Extension())
}

// WriteTable writes the header and then every row to dir/fileName, replacing
// any existing file, and returns the path written. Every row must match the
// header width.
func (w *CSVWriter) WriteTable(dir, fileName string, table *Table) (string, error) {
	fullPath := w.Path(dir, fileName)

	for i, row := range table.Rows {
		if got := 1 + len(row.Values); got != table.Width() {
			return "", apperrors.NewStorageError(
				fmt.Sprintf("row %d of %s has %d cells, header has %d", i, table.Name, got, table.Width()), nil)
		}
	}

	w.logger.Info("Writing CSV file",
		slog.String("table", table.Name),
		slog.String("full_path", fullPath),
		slog.Int("record_count", len(table.Rows)),
		slog.String("compression", w.codec.Name()))

	file, err := os.OpenFile(fullPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return "", apperrors.NewStorageError("failed to open file", err).WithContext("path", fullPath)
	}

	if err := w.write(file, table); err != nil {
		file.Close()
		return "", apperrors.NewStorageError("failed to write table", err).WithContext("path", fullPath)
	}

	if err := file.Close(); err != nil {
		return "", apperrors.NewStorageError("failed to close file", err).WithContext("path", fullPath)
	}

	return fullPath, nil
}

func (w *CSVWriter) write(file *os.File, table *Table) error {
	out, err := w.codec.NewWriter(file)
	if err != nil {
		return fmt.Errorf("failed to create %s stream: %w", w.codec.Name(), err)
	}

	writer := csv.NewWriter(out)
	if err := writer.Write(table.Header); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}

	for i, row := range table.Rows {
		if err := writer.Write(formatRow(row)); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return err
	}

	return out.Close()
}
