package domain

import (
	"sort"

	"github.com/cespare/xxhash/v2"
)

// Schema is the global sensor schema of a batch: the sorted, deduplicated
// set of every sensor identifier observed across all files.
//
// It fixes the column order of both output tables. A Schema is immutable
// once built; accessors hand out copies.
type Schema struct {
	sensors []SensorID
	index   map[SensorID]int
}

// NewSchema builds a schema from any collection of identifiers.
// Duplicates are dropped and the result is sorted byte-wise ascending,
// so the outcome does not depend on the order ids were collected in.
func NewSchema(ids []SensorID) Schema {
	seen := make(map[SensorID]struct{}, len(ids))
	sensors := make([]SensorID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		sensors = append(sensors, id)
	}
	sort.Slice(sensors, func(i, j int) bool { return sensors[i] < sensors[j] })

	index := make(map[SensorID]int, len(sensors))
	for i, id := range sensors {
		index[id] = i
	}
	return Schema{sensors: sensors, index: index}
}

// Len returns the number of sensors in the schema.
func (s Schema) Len() int {
	return len(s.sensors)
}

// Sensors returns the schema sensors in column order.
func (s Schema) Sensors() []SensorID {
	out := make([]SensorID, len(s.sensors))
	copy(out, s.sensors)
	return out
}

// Contains reports whether id is part of the schema.
func (s Schema) Contains(id SensorID) bool {
	_, ok := s.index[id]
	return ok
}

// Fingerprint hashes the ordered identifiers. Two runs that discovered the
// same schema log the same fingerprint.
func (s Schema) Fingerprint() uint64 {
	d := xxhash.New()
	for _, id := range s.sensors {
		_, _ = d.WriteString(string(id))
		_, _ = d.Write([]byte{0})
	}
	return d.Sum64()
}
