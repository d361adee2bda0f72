package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	metricFilesTotal       = "mp2vue.files.total"
	metricFileDuration     = "mp2vue.file.duration.seconds"
	metricDiagnosticsTotal = "mp2vue.diagnostics.total"
	metricInflightFiles    = "mp2vue.inflight.files"

	attrKind     = "kind"
	attrStatus   = "status"
	attrSeverity = "severity"
	attrCode     = "code"
)

// File statuses recorded on mp2vue.files.total.
const (
	StatusConverted   = "converted"
	StatusPassthrough = "passthrough"
	StatusFailed      = "failed"
)

// durationBucketBoundaries covers 0.5ms to 10s; a single module rarely takes
// more than a few hundred milliseconds.
//
//nolint:gochecknoglobals // Bucket table.
var durationBucketBoundaries = []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 10}

// FileRecord is the outcome of one converted module, as seen by metrics.
type FileRecord struct {
	// Diagnostics counts diagnostics by severity name and code.
	Diagnostics map[DiagnosticKey]int
	Kind        string
	Status      string
	Duration    time.Duration
}

// DiagnosticKey groups diagnostics for the diagnostics counter.
type DiagnosticKey struct {
	Severity string
	Code     string
}

// ConversionMetrics holds the OTel instruments of a conversion run.
// A nil *ConversionMetrics records nothing.
type ConversionMetrics struct {
	filesTotal       metric.Int64Counter
	fileDuration     metric.Float64Histogram
	diagnosticsTotal metric.Int64Counter
	inflightFiles    metric.Int64UpDownCounter
}

// NewConversionMetrics creates the conversion instruments from the given meter.
func NewConversionMetrics(mt metric.Meter) (*ConversionMetrics, error) {
	filesTotal, err := mt.Int64Counter(metricFilesTotal,
		metric.WithDescription("Modules processed, by kind and status"),
		metric.WithUnit("{file}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricFilesTotal, err)
	}

	fileDuration, err := mt.Float64Histogram(metricFileDuration,
		metric.WithDescription("Time spent converting one module"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(durationBucketBoundaries...),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricFileDuration, err)
	}

	diagnosticsTotal, err := mt.Int64Counter(metricDiagnosticsTotal,
		metric.WithDescription("Diagnostics reported, by severity and code"),
		metric.WithUnit("{diagnostic}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricDiagnosticsTotal, err)
	}

	inflight, err := mt.Int64UpDownCounter(metricInflightFiles,
		metric.WithDescription("Modules being converted right now"),
		metric.WithUnit("{file}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricInflightFiles, err)
	}

	return &ConversionMetrics{
		filesTotal:       filesTotal,
		fileDuration:     fileDuration,
		diagnosticsTotal: diagnosticsTotal,
		inflightFiles:    inflight,
	}, nil
}

// RecordFile records one finished module.
func (cm *ConversionMetrics) RecordFile(ctx context.Context, rec FileRecord) {
	if cm == nil {
		return
	}

	cm.filesTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String(attrKind, rec.Kind),
		attribute.String(attrStatus, rec.Status),
	))
	cm.fileDuration.Record(ctx, rec.Duration.Seconds(), metric.WithAttributes(
		attribute.String(attrKind, rec.Kind),
	))

	for key, count := range rec.Diagnostics {
		cm.diagnosticsTotal.Add(ctx, int64(count), metric.WithAttributes(
			attribute.String(attrSeverity, key.Severity),
			attribute.String(attrCode, key.Code),
		))
	}
}

// TrackInflight increments the in-flight gauge and returns a function to
// decrement it.
func (cm *ConversionMetrics) TrackInflight(ctx context.Context) func() {
	if cm == nil {
		return func() {}
	}

	cm.inflightFiles.Add(ctx, 1)

	return func() {
		cm.inflightFiles.Add(ctx, -1)
	}
}
