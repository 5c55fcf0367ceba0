package app

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/anitej-c-501/hdf-position-tracker/internal/config"
	"github.com/anitej-c-501/hdf-position-tracker/internal/container"
	"github.com/anitej-c-501/hdf-position-tracker/internal/dataprocessing"
	apperrors "github.com/anitej-c-501/hdf-position-tracker/internal/errors"
	"github.com/anitej-c-501/hdf-position-tracker/internal/exporter"
	"github.com/anitej-c-501/hdf-position-tracker/internal/files"
	"github.com/anitej-c-501/hdf-position-tracker/internal/infrastructure"
	"github.com/anitej-c-501/hdf-position-tracker/pkg/contracts/domain"
)

// Application wires one aggregation run together
type Application struct {
	Config    *config.Config
	Logger    *slog.Logger
	Telemetry *infrastructure.Telemetry
	Opener    container.Opener
}

// Result describes a finished run
type Result struct {
	Report  *domain.Report
	Stats   domain.ReportStats
	Outputs []string
}

// New creates an application. A nil telemetry disables tracing and metrics.
func New(cfg *config.Config, logger *slog.Logger, tel *infrastructure.Telemetry, opener container.Opener) *Application {
	return &Application{
		Config:    cfg,
		Logger:    logger,
		Telemetry: tel,
		Opener:    opener,
	}
}

func (a *Application) tracer() trace.Tracer {
	if a.Telemetry == nil || a.Telemetry.Tracer == nil {
		return noop.NewTracerProvider().Tracer("posagg")
	}
	return a.Telemetry.Tracer
}

func (a *Application) metrics() *infrastructure.RunMetrics {
	if a.Telemetry == nil {
		return nil
	}
	return a.Telemetry.Metrics
}

// Run aggregates every container in paths.InputDir and writes the reports
// to paths.OutputDir.
//
// The input folder must exist; the output folder is created if needed.
// Files that fail are logged and skipped, so the reports are written even
// when no file could be processed. A folder without container files fails
// before any report is written.
func (a *Application) Run(ctx context.Context, paths *config.Paths) (result *Result, err error) {
	start := time.Now()
	ctx = infrastructure.EnsureRunID(ctx)
	logger := infrastructure.WithComponent(a.Logger, "app")

	ctx, span := a.tracer().Start(ctx, "posagg.run", trace.WithAttributes(
		attribute.String("input_dir", paths.InputDir),
		attribute.String("output_dir", paths.OutputDir)))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
		a.metrics().RecordRun(ctx, time.Since(start))
	}()

	logger.InfoContext(ctx, "Starting run",
		slog.String("input_dir", paths.InputDir),
		slog.String("output_dir", paths.OutputDir),
		slog.String("config", a.Config.String()))

	if err := files.ValidateFolder(paths.InputDir, false); err != nil {
		return nil, err
	}
	if err := files.ValidateFolder(paths.OutputDir, true); err != nil {
		return nil, err
	}

	containers, err := files.NewDiscovery(a.Config.Processing.Extensions...).
		WithLogger(logger).
		ListContainerFiles(paths.InputDir)
	if err != nil {
		return nil, err
	}

	inputs := make([]string, len(containers))
	for i, f := range containers {
		inputs[i] = f.Path
	}
	logger.InfoContext(ctx, "Found container files", slog.Int("count", len(inputs)))

	agg := dataprocessing.NewAggregator(a.Opener, a.Config.Processing.SeriesName, a.Logger, a.tracer())
	pipeline := dataprocessing.NewPipeline(agg, a.Logger,
		dataprocessing.WithWorkers(a.Config.Processing.Workers),
		dataprocessing.WithTracer(a.tracer()),
		dataprocessing.WithMetrics(a.metrics()))

	report, stats, err := pipeline.Run(ctx, inputs)
	if err != nil {
		return nil, err
	}

	outputs, err := a.writeReports(ctx, paths, report)
	if err != nil {
		return nil, err
	}

	logger.InfoContext(ctx, "Run completed",
		slog.Int("files", stats.FilesSeen),
		slog.Int("rows", len(report.Rows)),
		slog.Int("skipped", stats.FilesSkipped),
		slog.Int("sensors", report.Schema.Len()),
		slog.Duration("elapsed", time.Since(start)))

	return &Result{Report: report, Stats: stats, Outputs: outputs}, nil
}

func (a *Application) writeReports(ctx context.Context, paths *config.Paths, report *domain.Report) ([]string, error) {
	out := a.Config.Output
	tables := []*exporter.Table{
		exporter.AveragePositionTable(report),
		exporter.MaxDistanceTable(report),
	}
	var written []string

	if out.HasFormat(config.FormatCSV) {
		codec, err := exporter.NewCodec(out.Compression)
		if err != nil {
			return nil, apperrors.NewConfigError("invalid output compression", err)
		}
		w := exporter.NewCSVWriter(codec, a.Logger)

		names := []string{out.AverageFile, out.MaxDistanceFile}
		for i, table := range tables {
			path, err := w.WriteTable(paths.OutputDir, names[i], table)
			if err != nil {
				return nil, err
			}
			written = append(written, path)
			a.metrics().RecordReport(ctx, config.FormatCSV)
		}
	}

	if out.HasFormat(config.FormatXLSX) {
		path, err := exporter.NewWorkbookWriter(a.Logger).
			WriteWorkbook(paths.OutputDir, out.WorkbookFile, tables...)
		if err != nil {
			return nil, err
		}
		written = append(written, path)
		a.metrics().RecordReport(ctx, config.FormatXLSX)
	}

	for _, p := range written {
		a.Logger.DebugContext(ctx, "Report written", slog.String("file", filepath.Base(p)))
	}
	return written, nil
}
