package dataprocessing

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"go.opentelemetry.io/otel/attribute"

	"github.com/anitej-c-501/hdf-position-tracker/pkg/contracts/domain"
)

// DiscoverSchema is the first pass: it aggregates every file and returns
// the sorted union of the sensor identifiers found. A file that fails is
// logged and skipped. The schema does not depend on the order of paths.
func (p *Pipeline) DiscoverSchema(ctx context.Context, paths []string) (domain.Schema, domain.ReportStats, error) {
	ctx, span := p.tracer.Start(ctx, "posagg.discover_schema")
	defer span.End()

	results, err := p.aggregateAll(ctx, passSchema, paths)
	if err != nil {
		return domain.Schema{}, domain.ReportStats{}, err
	}

	stats := domain.ReportStats{FilesSeen: len(paths)}
	var ids []domain.SensorID
	for i, r := range results {
		if r.err != nil {
			stats.FilesSkipped++
			p.logger.WarnContext(ctx, "Skipping file due to error",
				slog.String("file", filepath.Base(paths[i])),
				slog.String("pass", passSchema),
				slog.String("error", r.err.Error()))
			continue
		}
		stats.FilesProcessed++
		ids = append(ids, r.summary.SensorIDs...)
	}

	schema := domain.NewSchema(ids)
	stats.SensorsFound = schema.Len()

	span.SetAttributes(
		attribute.Int("sensors", schema.Len()),
		attribute.Int("files_skipped", stats.FilesSkipped))
	p.metrics.RecordSensors(ctx, schema.Len())

	p.logger.InfoContext(ctx, "Finished first pass",
		slog.Int("files", stats.FilesSeen),
		slog.Int("skipped", stats.FilesSkipped),
		slog.Int("sensors", schema.Len()),
		slog.String("fingerprint", fmt.Sprintf("%016x", schema.Fingerprint())))

	return schema, stats, nil
}
