package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.28.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/anitej-c-501/hdf-position-tracker/internal/config"
	"github.com/anitej-c-501/hdf-position-tracker/pkg/contracts"
)

const (
	ServiceName    = config.AppName
	ServiceVersion = contracts.Version
	MeterName      = "posagg"
)

// Telemetry holds the tracer and meter used for one run
type Telemetry struct {
	Tracer   trace.Tracer
	Meter    metric.Meter
	Metrics  *RunMetrics
	Registry *promclient.Registry

	tracerProvider *sdktrace.TracerProvider
	meterProvider  *sdkmetric.MeterProvider
	traceOutput    io.Closer
	metricsFile    string
	logger         *slog.Logger
}

// InitializeTelemetry sets up tracing and run metrics.
// Tracing is a no-op unless enabled. Metrics are always collected into a
// private Prometheus registry and written to the metrics file on Shutdown
// when one is configured.
func InitializeTelemetry(ctx context.Context, cfg config.TelemetryConfig, logger *slog.Logger) (*Telemetry, error) {
	tel := &Telemetry{
		metricsFile: cfg.MetricsFile,
		logger:      logger,
	}

	res := createResource()

	if cfg.TracingEnabled {
		if err := tel.initializeTracing(cfg, res); err != nil {
			return nil, fmt.Errorf("failed to initialize tracing: %w", err)
		}
	} else {
		tel.Tracer = noop.NewTracerProvider().Tracer(MeterName)
	}

	if err := tel.initializeMetrics(res); err != nil {
		_ = tel.closeTracing(ctx)
		return nil, fmt.Errorf("failed to initialize metrics: %w", err)
	}

	logger.DebugContext(ctx, "Telemetry initialized",
		slog.Bool("tracing_enabled", cfg.TracingEnabled),
		slog.String("trace_file", cfg.TraceFile),
		slog.String("metrics_file", cfg.MetricsFile))

	return tel, nil
}

// createResource creates the OpenTelemetry resource
func createResource() *resource.Resource {
	return resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(ServiceName),
		semconv.ServiceVersion(ServiceVersion),
	)
}

func (t *Telemetry) initializeTracing(cfg config.TelemetryConfig, res *resource.Resource) error {
	var out io.Writer = os.Stderr
	if cfg.TraceFile != "" {
		file, err := openLogFile(cfg.TraceFile)
		if err != nil {
			return err
		}
		t.traceOutput = file
		out = file
	}

	exporter, err := stdouttrace.New(stdouttrace.WithWriter(out))
	if err != nil {
		return fmt.Errorf("failed to create trace exporter: %w", err)
	}

	t.tracerProvider = sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	t.Tracer = t.tracerProvider.Tracer(MeterName, trace.WithInstrumentationVersion(ServiceVersion))
	return nil
}

func (t *Telemetry) initializeMetrics(res *resource.Resource) error {
	t.Registry = promclient.NewRegistry()

	exporter, err := prometheus.New(prometheus.WithRegisterer(t.Registry))
	if err != nil {
		return fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	t.meterProvider = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(exporter),
	)
	t.Meter = t.meterProvider.Meter(MeterName, metric.WithInstrumentationVersion(ServiceVersion))

	t.Metrics, err = NewRunMetrics(t.Meter)
	return err
}

// Shutdown flushes spans, writes the metrics file and releases providers
func (t *Telemetry) Shutdown(ctx context.Context) error {
	var errs []error

	if t.metricsFile != "" {
		if err := promclient.WriteToTextfile(t.metricsFile, t.Registry); err != nil {
			errs = append(errs, fmt.Errorf("failed to write metrics file: %w", err))
		} else {
			t.logger.DebugContext(ctx, "Metrics written", slog.String("path", t.metricsFile))
		}
	}

	if err := t.meterProvider.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("failed to shutdown meter provider: %w", err))
	}
	if err := t.closeTracing(ctx); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

func (t *Telemetry) closeTracing(ctx context.Context) error {
	var errs []error
	if t.tracerProvider != nil {
		if err := t.tracerProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("failed to shutdown tracer provider: %w", err))
		}
	}
	if t.traceOutput != nil {
		if err := t.traceOutput.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close trace file: %w", err))
		}
	}
	return errors.Join(errs...)
}

// RunMetrics are the instruments recorded during a run
type RunMetrics struct {
	FilesTotal     metric.Int64Counter
	SchemaSensors  metric.Int64Gauge
	ReportsWritten metric.Int64Counter
	FileDuration   metric.Float64Histogram
	RunDuration    metric.Float64Histogram
}

// NewRunMetrics creates the run instruments on the given meter
func NewRunMetrics(meter metric.Meter) (*RunMetrics, error) {
	filesTotal, err := meter.Int64Counter(
		"posagg_files",
		metric.WithDescription("Container files seen, by pass and outcome"),
	)
	if err != nil {
		return nil, err
	}

	schemaSensors, err := meter.Int64Gauge(
		"posagg_schema_sensors",
		metric.WithDescription("Sensors in the unified schema"),
	)
	if err != nil {
		return nil, err
	}

	reportsWritten, err := meter.Int64Counter(
		"posagg_reports_written",
		metric.WithDescription("Report files written, by format"),
	)
	if err != nil {
		return nil, err
	}

	fileDuration, err := meter.Float64Histogram(
		"posagg_file_duration",
		metric.WithDescription("Time spent aggregating one container"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	runDuration, err := meter.Float64Histogram(
		"posagg_run_duration",
		metric.WithDescription("Total run time"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	return &RunMetrics{
		FilesTotal:     filesTotal,
		SchemaSensors:  schemaSensors,
		ReportsWritten: reportsWritten,
		FileDuration:   fileDuration,
		RunDuration:    runDuration,
	}, nil
}

// RecordFile records the outcome of one container in one pass
func (m *RunMetrics) RecordFile(ctx context.Context, pass string, ok bool, elapsed time.Duration) {
	if m == nil {
		return
	}
	outcome := "processed"
	if !ok {
		outcome = "skipped"
	}
	attrs := metric.WithAttributes(
		attribute.String("pass", pass),
		attribute.String("outcome", outcome),
	)
	m.FilesTotal.Add(ctx, 1, attrs)
	m.FileDuration.Record(ctx, elapsed.Seconds(), metric.WithAttributes(attribute.String("pass", pass)))
}

// RecordSensors records the number of sensors in the unified schema
func (m *RunMetrics) RecordSensors(ctx context.Context, n int) {
	if m == nil {
		return
	}
	m.SchemaSensors.Record(ctx, int64(n))
}

// RecordReport records one written report file
func (m *RunMetrics) RecordReport(ctx context.Context, format string) {
	if m == nil {
		return
	}
	m.ReportsWritten.Add(ctx, 1, metric.WithAttributes(attribute.String("format", format)))
}

// RecordRun records the total run time
func (m *RunMetrics) RecordRun(ctx context.Context, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.RunDuration.Record(ctx, elapsed.Seconds())
}
