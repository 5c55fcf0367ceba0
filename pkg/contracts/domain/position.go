package domain

import (
	"fmt"
	"math"
)

// Axis names in the order they appear in a position sample.
var Axes = [3]string{"X", "Y", "Z"}

// Vec3 is one 3D point: a raw position sample or a mean position.
type Vec3 [3]float64

// Norm returns the Euclidean distance of v from the coordinate origin.
func (v Vec3) Norm() float64 {
	return math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
}

// SensorID identifies one tracked point across files.
// The format "<device>_Sensor_<index>" is the join key of the global schema,
// so it must stay byte-for-byte stable between runs.
type SensorID string

// NewSensorID builds the identifier of the sensor at index within device.
func NewSensorID(device string, index int) SensorID {
	return SensorID(fmt.Sprintf("%s_Sensor_%d", device, index))
}

// String implements fmt.Stringer
func (id SensorID) String() string {
	return string(id)
}

// SensorStats holds the two statistics a sensor series is reduced to.
type SensorStats struct {
	Mean        Vec3    `json:"mean"`
	MaxDistance float64 `json:"max_distance"`
}

// FileSummary is the per-file aggregation result.
//
// The three slices are order-aligned: SensorIDs[i] corresponds to
// MaxDistances[i] and to AvgPositions[3*i : 3*i+3]. Sensors appear in
// discovery order (device order, then sensor index).
type FileSummary struct {
	FileName     string     `json:"file_name"`
	AvgPositions []float64  `json:"avg_positions"`
	MaxDistances []float64  `json:"max_distances"`
	SensorIDs    []SensorID `json:"sensor_ids"`
}

// Append records the statistics of one sensor, keeping the slices aligned.
func (s *FileSummary) Append(id SensorID, stats SensorStats) {
	s.AvgPositions = append(s.AvgPositions, stats.Mean[0], stats.Mean[1], stats.Mean[2])
	s.MaxDistances = append(s.MaxDistances, stats.MaxDistance)
	s.SensorIDs = append(s.SensorIDs, id)
}

// SensorCount returns the number of sensors recorded in the summary.
func (s *FileSummary) SensorCount() int {
	return len(s.SensorIDs)
}
