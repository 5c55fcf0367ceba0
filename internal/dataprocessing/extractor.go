package dataprocessing

import (
	"context"
	"log/slog"

	"github.com/anitej-c-501/hdf-position-tracker/internal/container"
	apperrors "github.com/anitej-c-501/hdf-position-tracker/internal/errors"
	"github.com/anitej-c-501/hdf-position-tracker/pkg/contracts/domain"
)

// SensorSeries is the time series of one sensor: samples[t] is its
// position at time step t.
type SensorSeries struct {
	ID      domain.SensorID
	Device  string
	Index   int
	Samples []domain.Vec3
}

// ExtractSeries walks the devices of c in container order and slices the
// named position series of each into per-sensor series.
//
// A device without the series is logged and skipped. A series whose shape is
// not [T, S, 3] is an ErrTypeShape error for the whole container. A sensor
// with no samples (T == 0) is logged and skipped.
func ExtractSeries(ctx context.Context, c container.Container, seriesName string, logger *slog.Logger) ([]SensorSeries, error) {
	devices, err := c.Devices()
	if err != nil {
		return nil, err
	}

	var out []SensorSeries
	for _, device := range devices {
		g, err := c.Device(device)
		if err != nil {
			return nil, err
		}

		if !g.Has(seriesName) {
			logger.WarnContext(ctx, "Skipping device without position data",
				slog.String("device", device),
				slog.String("series", seriesName))
			continue
		}

		arr, err := g.Read(seriesName)
		if err != nil {
			return nil, err
		}

		if arr.Rank() != 3 || arr.Shape[2] != 3 {
			return nil, apperrors.NewShapeError(device, arr.Shape)
		}

		steps, sensors := arr.Shape[0], arr.Shape[1]
		for s := 0; s < sensors; s++ {
			if steps == 0 {
				logger.WarnContext(ctx, "Sensor has no data",
					slog.String("device", device),
					slog.Int("sensor", s))
				continue
			}

			samples := make([]domain.Vec3, steps)
			for t := 0; t < steps; t++ {
				samples[t] = domain.Vec3{arr.At3(t, s, 0), arr.At3(t, s, 1), arr.At3(t, s, 2)}
			}

			out = append(out, SensorSeries{
				ID:      domain.NewSensorID(device, s),
				Device:  device,
				Index:   s,
				Samples: samples,
			})
		}
	}

	return out, nil
}
