package dataprocessing

import (
	"context"
	"log/slog"
	"path/filepath"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/anitej-c-501/hdf-position-tracker/internal/container"
	"github.com/anitej-c-501/hdf-position-tracker/pkg/contracts/domain"
)

// Aggregator reduces every sensor of one container file to its statistics
type Aggregator struct {
	open       container.Opener
	seriesName string
	logger     *slog.Logger
	tracer     trace.Tracer
}

// NewAggregator creates an aggregator reading seriesName from containers
// opened with open. A nil tracer disables spans.
func NewAggregator(open container.Opener, seriesName string, logger *slog.Logger, tracer trace.Tracer) *Aggregator {
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("posagg")
	}
	return &Aggregator{
		open:       open,
		seriesName: seriesName,
		logger:     logger.With("component", "aggregator"),
		tracer:     tracer,
	}
}

// AggregateFile opens the container at path, extracts and reduces every
// sensor, and closes the container before returning.
//
// The summary lists sensors in discovery order. Open and shape failures fail
// the whole file; a sensor that cannot be reduced is logged and left out.
func (a *Aggregator) AggregateFile(ctx context.Context, path string) (summary *domain.FileSummary, err error) {
	name := filepath.Base(path)

	ctx, span := a.tracer.Start(ctx, "posagg.aggregate_file",
		trace.WithAttributes(attribute.String("file", name)))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	logger := a.logger.With("file", name)

	c, err := a.open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := c.Close(); cerr != nil {
			logger.WarnContext(ctx, "Failed to close container", slog.String("error", cerr.Error()))
		}
	}()

	series, err := ExtractSeries(ctx, c, a.seriesName, logger)
	if err != nil {
		return nil, err
	}

	summary = &domain.FileSummary{FileName: name}
	for _, s := range series {
		stats, err := Reduce(s.Samples)
		if err != nil {
			logger.ErrorContext(ctx, "Error processing sensor",
				slog.String("device", s.Device),
				slog.Int("sensor", s.Index),
				slog.String("error", err.Error()))
			continue
		}
		summary.Append(s.ID, stats)
	}

	span.SetAttributes(attribute.Int("sensors", summary.SensorCount()))
	logger.DebugContext(ctx, "Container aggregated", slog.Int("sensors", summary.SensorCount()))

	return summary, nil
}
