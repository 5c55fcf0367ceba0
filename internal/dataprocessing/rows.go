package dataprocessing

import (
	"context"
	"log/slog"
	"path/filepath"

	"go.opentelemetry.io/otel/attribute"

	"github.com/anitej-c-501/hdf-position-tracker/pkg/contracts/domain"
)

// Project lays a file summary out on the schema columns.
//
// A schema sensor the file has contributes its three mean components and its
// max distance; the first occurrence wins if the file repeats an identifier.
// A sensor the file lacks is filled with domain.Missing. A sensor whose
// values the summary cannot supply (misaligned slices) is also filled with
// domain.Missing and returned in inconsistent.
func Project(schema domain.Schema, summary *domain.FileSummary) (row domain.ReportRow, inconsistent []domain.SensorID) {
	position := make(map[domain.SensorID]int, len(summary.SensorIDs))
	for i, id := range summary.SensorIDs {
		if _, ok := position[id]; !ok {
			position[id] = i
		}
	}

	sensors := schema.Sensors()
	row = domain.ReportRow{
		FileName:     summary.FileName,
		AvgPositions: make([]float64, 0, 3*len(sensors)),
		MaxDistances: make([]float64, 0, len(sensors)),
	}

	for _, id := range sensors {
		i, ok := position[id]
		if ok && (3*i+3 > len(summary.AvgPositions) || i >= len(summary.MaxDistances)) {
			inconsistent = append(inconsistent, id)
			ok = false
		}
		if !ok {
			row.AvgPositions = append(row.AvgPositions, domain.Missing, domain.Missing, domain.Missing)
			row.MaxDistances = append(row.MaxDistances, domain.Missing)
			continue
		}
		row.AvgPositions = append(row.AvgPositions, summary.AvgPositions[3*i:3*i+3]...)
		row.MaxDistances = append(row.MaxDistances, summary.MaxDistances[i])
	}

	return row, inconsistent
}

// BuildRows is the second pass: it aggregates every file again and projects
// it onto schema. Rows follow the order of paths; a file that fails is
// logged and contributes no row.
func (p *Pipeline) BuildRows(ctx context.Context, schema domain.Schema, paths []string) ([]domain.ReportRow, domain.ReportStats, error) {
	ctx, span := p.tracer.Start(ctx, "posagg.build_rows")
	defer span.End()

	results, err := p.aggregateAll(ctx, passRows, paths)
	if err != nil {
		return nil, domain.ReportStats{}, err
	}

	stats := domain.ReportStats{FilesSeen: len(paths), SensorsFound: schema.Len()}
	rows := make([]domain.ReportRow, 0, len(paths))
	for i, r := range results {
		name := filepath.Base(paths[i])
		if r.err != nil {
			stats.FilesSkipped++
			p.logger.WarnContext(ctx, "Skipping file due to error",
				slog.String("file", name),
				slog.String("pass", passRows),
				slog.String("error", r.err.Error()))
			continue
		}

		row, inconsistent := Project(schema, r.summary)
		for _, id := range inconsistent {
			p.logger.ErrorContext(ctx, "Error processing sensor",
				slog.String("file", name),
				slog.String("sensor", id.String()))
		}

		stats.FilesProcessed++
		rows = append(rows, row)
	}

	span.SetAttributes(attribute.Int("rows", len(rows)))
	p.logger.InfoContext(ctx, "Finished second pass",
		slog.Int("rows", len(rows)),
		slog.Int("skipped", stats.FilesSkipped))

	return rows, stats, nil
}
