package infrastructure

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anitej-c-501/hdf-position-tracker/internal/config"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestInitializeTelemetryDisabledTracing(t *testing.T) {
	ctx := context.Background()
	tel, err := InitializeTelemetry(ctx, config.TelemetryConfig{}, discardLogger())
	require.NoError(t, err)
	require.NotNil(t, tel.Tracer)
	require.NotNil(t, tel.Metrics)

	_, span := tel.Tracer.Start(ctx, "noop")
	assert.False(t, span.SpanContext().IsValid())
	span.End()

	assert.NoError(t, tel.Shutdown(ctx))
}

func TestTelemetryWritesTraceFile(t *testing.T) {
	ctx := context.Background()
	traceFile := filepath.Join(t.TempDir(), "trace", "spans.json")

	tel, err := InitializeTelemetry(ctx, config.TelemetryConfig{
		TracingEnabled: true,
		TraceFile:      traceFile,
	}, discardLogger())
	require.NoError(t, err)

	_, span := tel.Tracer.Start(ctx, "posagg.run")
	assert.True(t, span.SpanContext().IsValid())
	span.End()

	require.NoError(t, tel.Shutdown(ctx))

	content, err := os.ReadFile(traceFile)
	require.NoError(t, err)
	assert.Contains(t, string(content), "posagg.run")
}

func TestTelemetryWritesMetricsFile(t *testing.T) {
	ctx := context.Background()
	metricsFile := filepath.Join(t.TempDir(), "posagg.prom")

	tel, err := InitializeTelemetry(ctx, config.TelemetryConfig{MetricsFile: metricsFile}, discardLogger())
	require.NoError(t, err)

	tel.Metrics.RecordFile(ctx, "schema", true, 10*time.Millisecond)
	tel.Metrics.RecordFile(ctx, "schema", false, time.Millisecond)
	tel.Metrics.RecordSensors(ctx, 6)
	tel.Metrics.RecordReport(ctx, "csv")
	tel.Metrics.RecordRun(ctx, time.Second)

	families, err := tel.Registry.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	joined := strings.Join(names, " ")
	assert.Contains(t, joined, "posagg_files")
	assert.Contains(t, joined, "posagg_schema_sensors")
	assert.Contains(t, joined, "posagg_reports_written")

	require.NoError(t, tel.Shutdown(ctx))

	content, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(content), `outcome="skipped"`)
	assert.Contains(t, string(content), `format="csv"`)
}

func TestRunMetricsNilSafe(t *testing.T) {
	var m *RunMetrics
	ctx := context.Background()

	assert.NotPanics(t, func() {
		m.RecordFile(ctx, "rows", true, time.Millisecond)
		m.RecordSensors(ctx, 1)
		m.RecordReport(ctx, "xlsx")
		m.RecordRun(ctx, time.Second)
	})
}
