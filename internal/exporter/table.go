package exporter

import (
	"github.com/anitej-c-501/hdf-position-tracker/pkg/contracts/domain"
)

// FileNameHeader is the first column of both report tables
const FileNameHeader = "File Name"

// Table is a report table: a header and one labeled numeric row per file
type Table struct {
	// Name identifies the table, e.g. "average_positions"
	Name   string
	Header []string
	Rows   []TableRow
}

// TableRow is one file name followed by its values
type TableRow struct {
	Label  string
	Values []float64
}

// Width returns the number of cells every row must have
func (t *Table) Width() int {
	return len(t.Header)
}

// AveragePositionTable builds the average position table: for every schema
// sensor three columns <sensor>_X, <sensor>_Y and <sensor>_Z.
func AveragePositionTable(report *domain.Report) *Table {
	sensors := report.Schema.Sensors()
	header := make([]string, 0, 1+3*len(sensors))
	header = append(header, FileNameHeader)
	for _, id := range sensors {
		for _, axis := range domain.Axes {
			header = append(header, id.String()+"_"+axis)
		}
	}

	rows := make([]TableRow, len(report.Rows))
	for i, r := range report.Rows {
		rows[i] = TableRow{Label: r.FileName, Values: r.AvgPositions}
	}

	return &Table{Name: "average_positions", Header: header, Rows: rows}
}

// MaxDistanceTable builds the max distance table: one column per schema sensor.
func MaxDistanceTable(report *domain.Report) *Table {
	sensors := report.Schema.Sensors()
	header := make([]string, 0, 1+len(sensors))
	header = append(header, FileNameHeader)
	for _, id := range sensors {
		header = append(header, id.String())
	}

	rows := make([]TableRow, len(report.Rows))
	for i, r := range report.Rows {
		rows[i] = TableRow{Label: r.FileName, Values: r.MaxDistances}
	}

	return &Table{Name: "max_distances", Header: header, Rows: rows}
}
