package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.28.0"
	"go.opentelemetry.io/otel/trace"

	"corplinks/internal/config"
	"corplinks/pkg/contracts"
)

const (
	ServiceName = "corplinks-cleaner"
	MeterName   = "corplinks"
)

// Telemetry holds the tracing and metrics providers for one pipeline run.
// A nil *Telemetry is valid and records nothing.
type Telemetry struct {
	TracerProvider *sdktrace.TracerProvider
	MeterProvider  *sdkmetric.MeterProvider
	Tracer         trace.Tracer
	Meter          metric.Meter
	Registry       *prometheus.Registry
	Metrics        *PipelineMetrics
	Logger         *slog.Logger

	traceOut io.Closer
}

// InitializeTelemetry builds the tracer and meter providers described by cfg.
// Metrics are always collected into a private Prometheus registry so they
// can be dumped to a textfile at the end of the run.
func InitializeTelemetry(cfg config.TelemetryConfig, logger *slog.Logger) (*Telemetry, error) {
	if logger == nil {
		logger = slog.Default()
	}
	ctx := context.Background()

	logger.InfoContext(ctx, "Initializing telemetry",
		slog.String("service", ServiceName),
		slog.String("environment", cfg.Environment),
		slog.String("trace_exporter", cfg.TraceExporter))

	res := createResource(cfg)
	t := &Telemetry{Logger: logger}

	if err := t.initializeTracing(ctx, cfg, res); err != nil {
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}
	if err := t.initializeMetrics(ctx, res); err != nil {
		t.closeTraceOutput()
		return nil, fmt.Errorf("failed to initialize metrics: %w", err)
	}

	return t, nil
}

// createResource creates the OpenTelemetry resource
func createResource(cfg config.TelemetryConfig) *resource.Resource {
	return resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(ServiceName),
		semconv.ServiceVersion(contracts.Version),
		semconv.DeploymentEnvironmentName(cfg.Environment),
		attribute.String("service.instance.id", NewRunID()),
	)
}

func (t *Telemetry) initializeTracing(ctx context.Context, cfg config.TelemetryConfig, res *resource.Resource) error {
	opts := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.TraceIDRatioBased(cfg.SampleRatio)),
	}

	switch cfg.TraceExporter {
	case config.TraceExporterStdout:
		var out io.Writer = os.Stdout
		if cfg.TraceFile != "" {
			if err := os.MkdirAll(filepath.Dir(cfg.TraceFile), 0755); err != nil {
				return fmt.Errorf("failed to create trace directory: %w", err)
			}
			f, err := os.Create(cfg.TraceFile)
			if err != nil {
				return fmt.Errorf("failed to open trace file: %w", err)
			}
			t.traceOut = f
			out = f
		}
		exporter, err := stdouttrace.New(stdouttrace.WithWriter(out))
		if err != nil {
			t.closeTraceOutput()
			return fmt.Errorf("failed to create trace exporter: %w", err)
		}
		opts = append(opts, sdktrace.WithBatcher(exporter))
	case config.TraceExporterNone, "":
		// spans are created but never exported
	default:
		return fmt.Errorf("unsupported trace exporter: %s", cfg.TraceExporter)
	}

	t.TracerProvider = sdktrace.NewTracerProvider(opts...)
	t.Tracer = t.TracerProvider.Tracer(MeterName, trace.WithInstrumentationVersion(contracts.Version))

	t.Logger.InfoContext(ctx, "Tracing initialized",
		slog.String("exporter", cfg.TraceExporter),
		slog.Float64("sample_ratio", cfg.SampleRatio))
	return nil
}

func (t *Telemetry) initializeMetrics(ctx context.Context, res *resource.Resource) error {
	t.Registry = prometheus.NewRegistry()

	exporter, err := otelprom.New(otelprom.WithRegisterer(t.Registry))
	if err != nil {
		return fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	t.MeterProvider = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(exporter),
	)
	t.Meter = t.MeterProvider.Meter(MeterName, metric.WithInstrumentationVersion(contracts.Version))

	t.Metrics, err = NewPipelineMetrics(t.Meter)
	if err != nil {
		return fmt.Errorf("failed to create pipeline metrics: %w", err)
	}

	t.Logger.InfoContext(ctx, "Metrics initialized", slog.String("exporter", "prometheus"))
	return nil
}

// StartStage opens a span for one pipeline stage.
func (t *Telemetry) StartStage(ctx context.Context, stage string) (context.Context, trace.Span) {
	if t == nil || t.Tracer == nil {
		return ctx, trace.SpanFromContext(ctx)
	}
	ctx, span := t.Tracer.Start(ctx, stage)
	if runID := GetRunID(ctx); runID != "" {
		span.SetAttributes(attribute.String(runIDKey, runID))
	}
	return ctx, span
}

// PipelineMetrics returns the run's metric instruments, or nil.
func (t *Telemetry) PipelineMetrics() *PipelineMetrics {
	if t == nil {
		return nil
	}
	return t.Metrics
}

// WriteMetricsTextfile dumps the registry in the Prometheus text format,
// suitable for the node_exporter textfile collector.
func (t *Telemetry) WriteMetricsTextfile(path string) error {
	if t == nil || t.Registry == nil || path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create metrics directory: %w", err)
	}
	return prometheus.WriteToTextfile(path, t.Registry)
}

// Shutdown flushes pending spans and releases the providers.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	if t == nil {
		return nil
	}
	var errs []error
	if t.TracerProvider != nil {
		if err := t.TracerProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer provider shutdown: %w", err))
		}
	}
	if t.MeterProvider != nil {
		if err := t.MeterProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter provider shutdown: %w", err))
		}
	}
	if err := t.closeTraceOutput(); err != nil {
		errs = append(errs, fmt.Errorf("trace file close: %w", err))
	}
	return errors.Join(errs...)
}

func (t *Telemetry) closeTraceOutput() error {
	if t.traceOut == nil {
		return nil
	}
	err := t.traceOut.Close()
	t.traceOut = nil
	return err
}

// PipelineMetrics are the instruments recorded by a cleaning run.
type PipelineMetrics struct {
	RowsLoaded    metric.Int64Counter
	RowsRejected  metric.Int64Counter
	RowsCleaned   metric.Int64Counter
	MissingValues metric.Int64Counter
	StageDuration metric.Float64Histogram
	Findings      metric.Int64Counter
}

// NewPipelineMetrics creates the pipeline instruments on meter.
func NewPipelineMetrics(meter metric.Meter) (*PipelineMetrics, error) {
	rowsLoaded, err := meter.Int64Counter(
		"rows_loaded",
		metric.WithDescription("Raw ownership rows accepted by the loader"),
	)
	if err != nil {
		return nil, err
	}

	rowsRejected, err := meter.Int64Counter(
		"rows_rejected",
		metric.WithDescription("Raw rows rejected for having too many fields"),
	)
	if err != nil {
		return nil, err
	}

	rowsCleaned, err := meter.Int64Counter(
		"rows_cleaned",
		metric.WithDescription("Rows produced by the record cleaner"),
	)
	if err != nil {
		return nil, err
	}

	missingValues, err := meter.Int64Counter(
		"missing_values",
		metric.WithDescription("Cleaned values that ended up missing, by field"),
	)
	if err != nil {
		return nil, err
	}

	stageDuration, err := meter.Float64Histogram(
		"stage_duration_seconds",
		metric.WithDescription("Pipeline stage duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	findings, err := meter.Int64Counter(
		"analysis_findings",
		metric.WithDescription("Groups flagged by each analysis report"),
	)
	if err != nil {
		return nil, err
	}

	return &PipelineMetrics{
		RowsLoaded:    rowsLoaded,
		RowsRejected:  rowsRejected,
		RowsCleaned:   rowsCleaned,
		MissingValues: missingValues,
		StageDuration: stageDuration,
		Findings:      findings,
	}, nil
}

// Helper functions for metrics recording; all are no-ops on a nil receiver.

func (m *PipelineMetrics) RecordLoaded(ctx context.Context, loaded, rejected int) {
	if m == nil {
		return
	}
	m.RowsLoaded.Add(ctx, int64(loaded))
	m.RowsRejected.Add(ctx, int64(rejected))
}

func (m *PipelineMetrics) RecordCleaned(ctx context.Context, rows int) {
	if m == nil {
		return
	}
	m.RowsCleaned.Add(ctx, int64(rows))
}

func (m *PipelineMetrics) RecordMissing(ctx context.Context, field string, n int) {
	if m == nil || n == 0 {
		return
	}
	m.MissingValues.Add(ctx, int64(n), metric.WithAttributes(attribute.String("field", field)))
}

func (m *PipelineMetrics) RecordStage(ctx context.Context, stage string, d time.Duration) {
	if m == nil {
		return
	}
	m.StageDuration.Record(ctx, d.Seconds(), metric.WithAttributes(attribute.String("stage", stage)))
}

func (m *PipelineMetrics) RecordFindings(ctx context.Context, report string, n int) {
	if m == nil {
		return
	}
	m.Findings.Add(ctx, int64(n), metric.WithAttributes(attribute.String("report", report)))
}

// RecordError records an error on the span
func RecordError(span trace.Span, err error, description string) {
	if span == nil || err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, description)
}
