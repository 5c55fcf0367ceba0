package dataprocessing

import (
	"math"

	apperrors "github.com/anitej-c-501/hdf-position-tracker/internal/errors"
	"github.com/anitej-c-501/hdf-position-tracker/pkg/contracts/domain"
)

// Reduce computes the per-axis mean and the maximum distance from the origin
// of a sensor series. NaN and infinite samples propagate; any NaN distance
// makes the maximum NaN.
func Reduce(samples []domain.Vec3) (domain.SensorStats, error) {
	if len(samples) == 0 {
		return domain.SensorStats{}, apperrors.NewReductionError("cannot reduce an empty series")
	}

	var sum domain.Vec3
	maxDist := math.Inf(-1)
	for _, v := range samples {
		sum[0] += v[0]
		sum[1] += v[1]
		sum[2] += v[2]

		d := v.Norm()
		if math.IsNaN(d) || math.IsNaN(maxDist) {
			maxDist = math.NaN()
		} else if d > maxDist {
			maxDist = d
		}
	}

	n := float64(len(samples))
	return domain.SensorStats{
		Mean:        domain.Vec3{sum[0] / n, sum[1] / n, sum[2] / n},
		MaxDistance: maxDist,
	}, nil
}
