package domain

import (
	"math"
)

// Missing is the sentinel written for a schema sensor a file does not have.
var Missing = math.NaN()

// ReportRow is one processed file projected onto the global schema.
// AvgPositions always has 3*Schema.Len() values and MaxDistances always
// has Schema.Len() values, whatever sensors the file itself contained.
type ReportRow struct {
	FileName     string    `json:"file_name"`
	AvgPositions []float64 `json:"avg_positions"`
	MaxDistances []float64 `json:"max_distances"`
}

// Report is the materialized result of a batch run.
type Report struct {
	Schema Schema      `json:"-"`
	Rows   []ReportRow `json:"rows"`
}

// ReportStats summarizes how a pass went. It feeds the run summary log and
// the run metrics.
type ReportStats struct {
	FilesSeen      int `json:"files_seen"`
	FilesProcessed int `json:"files_processed"`
	FilesSkipped   int `json:"files_skipped"`
	SensorsFound   int `json:"sensors_found"`
}
