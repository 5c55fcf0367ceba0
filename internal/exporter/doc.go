// Package exporter writes the position report tables.
//
// AveragePositionTable and MaxDistanceTable lay a domain.Report out as
// tables whose columns follow the sensor schema. CSVWriter writes a table
// as CSV, optionally through a compression Codec (gzip, zstd or lz4).
// WorkbookWriter writes several tables as sheets of one xlsx workbook.
//
// Example usage:
//
//	codec, _ := exporter.NewCodec("none")
//	w := exporter.NewCSVWriter(codec, logger)
//	path, err := w.WriteTable(outputDir, "average_positions.csv", exporter.AveragePositionTable(report))
package exporter
