package infrastructure

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"corplinks/internal/config"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}

// TestTelemetryInitialization tests provider setup without an exporter
func TestTelemetryInitialization(t *testing.T) {
	tel, err := InitializeTelemetry(config.TelemetryConfig{
		Environment:   "test",
		TraceExporter: config.TraceExporterNone,
		SampleRatio:   1.0,
	}, testLogger())
	require.NoError(t, err)
	require.NotNil(t, tel)

	assert.NotNil(t, tel.TracerProvider)
	assert.NotNil(t, tel.Tracer)
	assert.NotNil(t, tel.MeterProvider)
	assert.NotNil(t, tel.Meter)
	assert.NotNil(t, tel.Registry)
	assert.NotNil(t, tel.PipelineMetrics())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	assert.NoError(t, tel.Shutdown(ctx))
}

func TestTelemetryInitialization_UnknownExporter(t *testing.T) {
	_, err := InitializeTelemetry(config.TelemetryConfig{TraceExporter: "otlp"}, testLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported trace exporter")
}

// TestStageSpansExported checks that stage spans reach the trace file
func TestStageSpansExported(t *testing.T) {
	traceFile := filepath.Join(t.TempDir(), "traces", "run.json")
	tel, err := InitializeTelemetry(config.TelemetryConfig{
		Environment:   "test",
		TraceExporter: config.TraceExporterStdout,
		TraceFile:     traceFile,
		SampleRatio:   1.0,
	}, testLogger())
	require.NoError(t, err)

	ctx := WithRunID(context.Background(), "run-42")
	ctx, span := tel.StartStage(ctx, "load")
	assert.True(t, span.SpanContext().IsValid())
	RecordError(span, errors.New("boom"), "load failed")
	span.End()

	require.NoError(t, tel.Shutdown(context.Background()))

	data, err := os.ReadFile(traceFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"Name":"load"`)
	assert.Contains(t, string(data), "run-42")
	_ = ctx
}

func TestWriteMetricsTextfile(t *testing.T) {
	tel, err := InitializeTelemetry(config.TelemetryConfig{
		Environment:   "test",
		TraceExporter: config.TraceExporterNone,
		SampleRatio:   1.0,
	}, testLogger())
	require.NoError(t, err)
	defer tel.Shutdown(context.Background())

	ctx := context.Background()
	m := tel.PipelineMetrics()
	m.RecordLoaded(ctx, 10, 1)
	m.RecordCleaned(ctx, 10)
	m.RecordMissing(ctx, "INN_company", 3)
	m.RecordStage(ctx, "clean", 150*time.Millisecond)
	m.RecordFindings(ctx, "over100", 1)

	path := filepath.Join(t.TempDir(), "metrics", "cleaner.prom")
	require.NoError(t, tel.WriteMetricsTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, "rows_loaded")
	assert.Contains(t, content, "rows_rejected")
	assert.Contains(t, content, `field="INN_company"`)
	assert.Contains(t, content, "stage_duration_seconds")
	assert.Contains(t, content, `report="over100"`)
}

// TestNilTelemetry ensures callers can run without telemetry
func TestNilTelemetry(t *testing.T) {
	var tel *Telemetry
	ctx := context.Background()

	stageCtx, span := tel.StartStage(ctx, "clean")
	assert.Equal(t, ctx, stageCtx)
	span.End()

	var m *PipelineMetrics
	assert.NotPanics(t, func() {
		m.RecordLoaded(ctx, 1, 0)
		m.RecordCleaned(ctx, 1)
		m.RecordMissing(ctx, "Region", 1)
		m.RecordStage(ctx, "clean", time.Second)
		m.RecordFindings(ctx, "changing", 1)
	})
	assert.Nil(t, tel.PipelineMetrics())
	assert.NoError(t, tel.WriteMetricsTextfile("ignored.prom"))
	assert.NoError(t, tel.Shutdown(ctx))
	RecordError(nil, errors.New("x"), "ignored")
}
