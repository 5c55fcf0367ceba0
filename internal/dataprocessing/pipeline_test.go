package dataprocessing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anitej-c-501/hdf-position-tracker/internal/container"
	apperrors "github.com/anitej-c-501/hdf-position-tracker/internal/errors"
	"github.com/anitej-c-501/hdf-position-tracker/internal/shared/testutil"
	"github.com/anitej-c-501/hdf-position-tracker/pkg/contracts/domain"
)

func track(points ...domain.Vec3) []domain.Vec3 { return points }

func fixturePaths(names ...string) []string {
	paths := make([]string, len(names))
	for i, n := range names {
		paths[i] = filepath.Join("/data", n)
	}
	return paths
}

// mixedStore holds files with overlapping sensors, a corrupt file and a
// file with an invalid shape.
func mixedStore() *testutil.MemoryStore {
	badShape := &container.Array{Shape: []int{2, 1, 2}, Values: []float64{1, 2, 3, 4}}

	return testutil.NewMemoryStore().
		Add("1.hdf5", &testutil.MemoryContainer{Devices: []testutil.MemoryDevice{
			testutil.PositionDevice("D1", testutil.SensorTracks(
				track(domain.Vec3{1, 2, 3}, domain.Vec3{3, 4, 5}),
				track(domain.Vec3{3, 4, 0}, domain.Vec3{6, 8, 0}),
			)),
		}}).
		Add("2.hdf5", &testutil.MemoryContainer{Devices: []testutil.MemoryDevice{
			testutil.PositionDevice("D2", testutil.SensorTracks(track(domain.Vec3{0, 0, 2}))),
			testutil.PositionDevice("D1", testutil.SensorTracks(track(domain.Vec3{1, 1, 1}))),
		}}).
		Add("corrupt.hdf5", &testutil.MemoryContainer{OpenErr: errors.New("bad superblock")}).
		Add("shape.hdf5", &testutil.MemoryContainer{Devices: []testutil.MemoryDevice{
			testutil.PositionDevice("D9", badShape),
		}})
}

func newTestPipeline(t *testing.T, store *testutil.MemoryStore, opts ...Option) (*Pipeline, *testutil.BufferedSlogHandler) {
	logger, handler := testutil.NewTestLogger(t)
	agg := NewAggregator(store.Open, "Position", logger, nil)
	return NewPipeline(agg, logger, opts...), handler
}

func TestAggregateFile(t *testing.T) {
	store := mixedStore()
	logger, _ := testutil.NewTestLogger(t)
	agg := NewAggregator(store.Open, "Position", logger, nil)

	summary, err := agg.AggregateFile(context.Background(), "/data/1.hdf5")
	require.NoError(t, err)

	assert.Equal(t, "1.hdf5", summary.FileName)
	assert.Equal(t, []domain.SensorID{"D1_Sensor_0", "D1_Sensor_1"}, summary.SensorIDs)
	assert.Equal(t, []float64{2, 3, 4, 4.5, 6, 0}, summary.AvgPositions)
	assert.InDelta(t, math.Sqrt(9+16+25), summary.MaxDistances[0], 1e-12)
	assert.InDelta(t, 10, summary.MaxDistances[1], 1e-12)
	assert.Equal(t, 0, store.OpenHandles())
}

func TestAggregateFileFailures(t *testing.T) {
	store := mixedStore()
	logger, _ := testutil.NewTestLogger(t)
	agg := NewAggregator(store.Open, "Position", logger, nil)

	_, err := agg.AggregateFile(context.Background(), "/data/corrupt.hdf5")
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeOpen))

	_, err = agg.AggregateFile(context.Background(), "/data/shape.hdf5")
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeShape))

	// the container is closed even when the file fails
	assert.Equal(t, 0, store.OpenHandles())
}

func TestDiscoverSchema(t *testing.T) {
	store := mixedStore()
	p, handler := newTestPipeline(t, store)

	schema, stats, err := p.DiscoverSchema(context.Background(),
		fixturePaths("1.hdf5", "corrupt.hdf5", "2.hdf5", "shape.hdf5"))
	require.NoError(t, err)

	assert.Equal(t, []domain.SensorID{"D1_Sensor_0", "D1_Sensor_1", "D2_Sensor_0"}, schema.Sensors())
	assert.Equal(t, domain.ReportStats{FilesSeen: 4, FilesProcessed: 2, FilesSkipped: 2, SensorsFound: 3}, stats)

	skipped := handler.Find("Skipping file due to error")
	require.Len(t, skipped, 2)
	assert.Equal(t, "corrupt.hdf5", skipped[0].Attrs["file"])
	assert.Equal(t, "shape.hdf5", skipped[1].Attrs["file"])

	summary := handler.Find("Finished first pass")
	require.Len(t, summary, 1)
	assert.Equal(t, "3", fmt.Sprint(summary[0].Attrs["sensors"]))
	assert.Equal(t, fmt.Sprintf("%016x", schema.Fingerprint()), summary[0].Attrs["fingerprint"])
}

func TestDiscoverSchemaOrderIndependent(t *testing.T) {
	store := mixedStore()
	orders := [][]string{
		{"1.hdf5", "2.hdf5", "corrupt.hdf5", "shape.hdf5"},
		{"shape.hdf5", "2.hdf5", "1.hdf5", "corrupt.hdf5"},
		{"2.hdf5", "corrupt.hdf5", "shape.hdf5", "1.hdf5"},
	}

	var fingerprints []uint64
	for _, order := range orders {
		for _, workers := range []int{1, 3} {
			p, _ := newTestPipeline(t, store, WithWorkers(workers))
			schema, _, err := p.DiscoverSchema(context.Background(), fixturePaths(order...))
			require.NoError(t, err)
			fingerprints = append(fingerprints, schema.Fingerprint())
		}
	}

	for _, fp := range fingerprints[1:] {
		assert.Equal(t, fingerprints[0], fp)
	}
}

func TestProject(t *testing.T) {
	schema := domain.NewSchema([]domain.SensorID{"A_Sensor_0", "B_Sensor_0", "C_Sensor_0"})

	t.Run("present and absent sensors", func(t *testing.T) {
		summary := &domain.FileSummary{FileName: "f.hdf5"}
		summary.Append("C_Sensor_0", domain.SensorStats{Mean: domain.Vec3{7, 8, 9}, MaxDistance: 3})
		summary.Append("A_Sensor_0", domain.SensorStats{Mean: domain.Vec3{1, 2, 3}, MaxDistance: 1})

		row, inconsistent := Project(schema, summary)
		assert.Empty(t, inconsistent)
		assert.Equal(t, "f.hdf5", row.FileName)
		require.Len(t, row.AvgPositions, 9)
		require.Len(t, row.MaxDistances, 3)

		assert.Equal(t, []float64{1, 2, 3}, row.AvgPositions[0:3])
		for _, v := range row.AvgPositions[3:6] {
			assert.True(t, math.IsNaN(v))
		}
		assert.Equal(t, []float64{7, 8, 9}, row.AvgPositions[6:9])

		assert.Equal(t, 1.0, row.MaxDistances[0])
		assert.True(t, math.IsNaN(row.MaxDistances[1]))
		assert.Equal(t, 3.0, row.MaxDistances[2])
	})

	t.Run("first occurrence wins", func(t *testing.T) {
		summary := &domain.FileSummary{FileName: "dup.hdf5"}
		summary.Append("A_Sensor_0", domain.SensorStats{Mean: domain.Vec3{1, 1, 1}, MaxDistance: 1})
		summary.Append("A_Sensor_0", domain.SensorStats{Mean: domain.Vec3{2, 2, 2}, MaxDistance: 2})

		row, _ := Project(schema, summary)
		assert.Equal(t, []float64{1, 1, 1}, row.AvgPositions[0:3])
		assert.Equal(t, 1.0, row.MaxDistances[0])
	})

	t.Run("misaligned summary is filled and reported", func(t *testing.T) {
		summary := &domain.FileSummary{
			FileName:     "broken.hdf5",
			SensorIDs:    []domain.SensorID{"A_Sensor_0", "B_Sensor_0"},
			AvgPositions: []float64{1, 2, 3},
			MaxDistances: []float64{5},
		}

		row, inconsistent := Project(schema, summary)
		assert.Equal(t, []domain.SensorID{"B_Sensor_0"}, inconsistent)
		assert.Equal(t, []float64{1, 2, 3}, row.AvgPositions[0:3])
		assert.True(t, math.IsNaN(row.AvgPositions[3]))
		assert.True(t, math.IsNaN(row.MaxDistances[1]))
	})

	t.Run("empty schema", func(t *testing.T) {
		summary := &domain.FileSummary{FileName: "x.hdf5"}
		summary.Append("A_Sensor_0", domain.SensorStats{})

		row, _ := Project(domain.NewSchema(nil), summary)
		assert.Empty(t, row.AvgPositions)
		assert.Empty(t, row.MaxDistances)
	})
}

func TestBuildRows(t *testing.T) {
	store := mixedStore()
	p, handler := newTestPipeline(t, store)
	paths := fixturePaths("2.hdf5", "shape.hdf5", "1.hdf5", "corrupt.hdf5")

	report, stats, err := p.Run(context.Background(), paths)
	require.NoError(t, err)

	require.Len(t, report.Rows, 2)
	assert.Equal(t, "2.hdf5", report.Rows[0].FileName)
	assert.Equal(t, "1.hdf5", report.Rows[1].FileName)
	assert.Equal(t, domain.ReportStats{FilesSeen: 4, FilesProcessed: 2, FilesSkipped: 2, SensorsFound: 3}, stats)

	for _, row := range report.Rows {
		assert.Len(t, row.AvgPositions, 3*report.Schema.Len())
		assert.Len(t, row.MaxDistances, report.Schema.Len())
	}

	// 2.hdf5 has no D1_Sensor_1
	row := report.Rows[0]
	assert.Equal(t, []float64{1, 1, 1}, row.AvgPositions[0:3])
	assert.True(t, math.IsNaN(row.AvgPositions[3]))
	assert.True(t, math.IsNaN(row.MaxDistances[1]))
	assert.Equal(t, []float64{0, 0, 2}, row.AvgPositions[6:9])

	// the invalid shape file appears in neither pass
	for _, id := range report.Schema.Sensors() {
		assert.NotContains(t, id.String(), "D9")
	}
	assert.Equal(t, 2, store.Opens("shape.hdf5"))
	assert.Len(t, handler.Find("Skipping file due to error"), 4)
	assert.Equal(t, 0, store.OpenHandles())
}

func TestRunParallelMatchesSequential(t *testing.T) {
	store := testutil.NewMemoryStore()
	var names []string
	for i := 0; i < 12; i++ {
		name := fmt.Sprintf("%02d.hdf5", i)
		names = append(names, name)
		store.Add(name, &testutil.MemoryContainer{Devices: []testutil.MemoryDevice{
			testutil.PositionDevice(fmt.Sprintf("D%d", i%4), testutil.SensorTracks(
				track(domain.Vec3{float64(i), 0, 0}, domain.Vec3{0, float64(i), 0}),
			)),
		}})
	}

	seq, _ := newTestPipeline(t, store)
	par, _ := newTestPipeline(t, store, WithWorkers(4))

	want, _, err := seq.Run(context.Background(), fixturePaths(names...))
	require.NoError(t, err)
	got, _, err := par.Run(context.Background(), fixturePaths(names...))
	require.NoError(t, err)

	assert.Equal(t, want.Schema.Sensors(), got.Schema.Sensors())
	// rows hold NaN, which never compares equal
	assert.Equal(t, fmt.Sprintf("%v", want.Rows), fmt.Sprintf("%v", got.Rows))
}

func TestRunCancelled(t *testing.T) {
	store := mixedStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for _, workers := range []int{1, 2} {
		p, _ := newTestPipeline(t, store, WithWorkers(workers))
		_, _, err := p.Run(ctx, fixturePaths("1.hdf5", "2.hdf5"))
		assert.ErrorIs(t, err, context.Canceled)
	}
}

func TestAggregatorLogsCarryFile(t *testing.T) {
	store := testutil.NewMemoryStore().Add("x.hdf5", &testutil.MemoryContainer{Devices: []testutil.MemoryDevice{
		{Name: "NoPos"},
	}})
	logger, handler := testutil.NewTestLogger(t)
	agg := NewAggregator(store.Open, "Position", logger, nil)

	summary, err := agg.AggregateFile(context.Background(), "/data/x.hdf5")
	require.NoError(t, err)
	assert.Equal(t, 0, summary.SensorCount())

	warnings := handler.GetRecordsByLevel(slog.LevelWarn)
	require.Len(t, warnings, 1)
	assert.Equal(t, "x.hdf5", warnings[0].Attrs["file"])
	assert.Equal(t, "NoPos", warnings[0].Attrs["device"])
}
