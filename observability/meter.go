package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// Run outcomes recorded on logpipe.runs.
const (
	StatusOK     = "ok"
	StatusFailed = "failed"
)

// Record outcomes recorded on logpipe.records.
const (
	OutcomeRead        = "read"
	OutcomeMatched     = "matched"
	OutcomeParsed      = "parsed"
	OutcomeDropped     = "dropped"
	OutcomeTransformed = "transformed"
	OutcomeSkipped     = "skipped"
	OutcomeWritten     = "written"
)

// MeterConfig configures the meter provider.
type MeterConfig struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
}

// DefaultMeterConfig returns defaults for a local run.
func DefaultMeterConfig(serviceName string) MeterConfig {
	return MeterConfig{
		ServiceName:    serviceName,
		ServiceVersion: "dev",
		Environment:    "development",
	}
}

// InitMeter installs a global meter provider feeding reader.
// The provider should be shut down on exit.
func InitMeter(cfg MeterConfig, reader sdkmetric.Reader) (*sdkmetric.MeterProvider, error) {
	res, err := newResource(cfg.ServiceName, cfg.ServiceVersion, cfg.Environment)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(reader),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(mp)
	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// RunCounts are the record totals of one run.
type RunCounts struct {
	Read        int64
	Matched     int64
	Parsed      int64
	Dropped     int64
	Transformed int64
	Skipped     int64
	Written     int64
}

// Metrics holds the pipeline instruments.
type Metrics struct {
	runTotal    metric.Int64Counter
	runDuration metric.Float64Histogram
	records     metric.Int64Counter
	errorTotal  metric.Int64Counter
}

// NewMetrics creates metric instruments on the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	runTotal, err := meter.Int64Counter("logpipe.runs",
		metric.WithDescription("Pipeline runs by status"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating logpipe.runs counter: %w", err)
	}

	runDuration, err := meter.Float64Histogram("logpipe.run.duration",
		metric.WithDescription("Duration of pipeline runs in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating logpipe.run.duration histogram: %w", err)
	}

	records, err := meter.Int64Counter("logpipe.records",
		metric.WithDescription("Records seen by the pipeline, by outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating logpipe.records counter: %w", err)
	}

	errorTotal, err := meter.Int64Counter("logpipe.errors",
		metric.WithDescription("Fatal pipeline errors by code and stage"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating logpipe.errors counter: %w", err)
	}

	return &Metrics{
		runTotal:    runTotal,
		runDuration: runDuration,
		records:     records,
		errorTotal:  errorTotal,
	}, nil
}

// RecordRun records a finished run and its record totals.
func (m *Metrics) RecordRun(ctx context.Context, status string, counts RunCounts, duration time.Duration) {
	m.runTotal.Add(ctx, 1, metric.WithAttributes(attribute.String(AttrStatus, status)))
	m.runDuration.Record(ctx, duration.Seconds())

	for _, c := range []struct {
		outcome string
		n       int64
	}{
		{OutcomeRead, counts.Read},
		{OutcomeMatched, counts.Matched},
		{OutcomeParsed, counts.Parsed},
		{OutcomeDropped, counts.Dropped},
		{OutcomeTransformed, counts.Transformed},
		{OutcomeSkipped, counts.Skipped},
		{OutcomeWritten, counts.Written},
	} {
		m.records.Add(ctx, c.n, metric.WithAttributes(attribute.String(AttrOutcome, c.outcome)))
	}
}

// RecordError records a fatal error by code and stage.
func (m *Metrics) RecordError(ctx context.Context, code, stage string) {
	m.errorTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String(AttrErrorCode, code),
		attribute.String(AttrStage, stage),
	))
}
