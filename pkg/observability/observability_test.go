package observability_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"

	"github.com/Sumatoshi-tech/mp2vue/pkg/observability"
)

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := observability.DefaultConfig()

	assert.Equal(t, "mp2vue", cfg.ServiceName)
	assert.Equal(t, observability.ModeCLI, cfg.Mode)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.InDelta(t, 1.0, cfg.SampleRatio, 0.001)
	assert.Empty(t, cfg.OTLPEndpoint)
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"WARN", slog.LevelWarn},
		{"error", slog.LevelError},
		{"loud", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, observability.ParseLevel(tt.name))
		})
	}
}

func TestInit_NoopWhenNoEndpoint(t *testing.T) {
	t.Parallel()

	providers, err := observability.InitWriter(observability.DefaultConfig(), &bytes.Buffer{})
	require.NoError(t, err)

	assert.NotNil(t, providers.Tracer)
	assert.NotNil(t, providers.Meter)
	assert.NotNil(t, providers.Logger)

	_, span := providers.Tracer.Start(context.Background(), "noop")
	span.End()

	assert.False(t, span.SpanContext().IsValid())
	assert.NoError(t, providers.Shutdown(context.Background()))
}

func TestInit_ExtraReaderGetsRealMeter(t *testing.T) {
	t.Parallel()

	reader := sdkmetric.NewManualReader()

	providers, err := observability.InitWriter(observability.DefaultConfig(), &bytes.Buffer{}, reader)
	require.NoError(t, err)

	t.Cleanup(func() { require.NoError(t, providers.Shutdown(context.Background())) })

	cm, err := observability.NewConversionMetrics(providers.Meter)
	require.NoError(t, err)

	cm.RecordFile(context.Background(), observability.FileRecord{Kind: "page", Status: observability.StatusConverted})

	var rm metricdata.ResourceMetrics

	require.NoError(t, reader.Collect(context.Background(), &rm))
	assert.NotNil(t, findMetric(rm, "mp2vue.files.total"))
}

func TestNewLogger_AddsSpanContext(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	cfg := observability.DefaultConfig()
	cfg.LogJSON = true
	cfg.Environment = "ci"
	cfg.Mode = observability.ModeBatch

	logger := observability.NewLogger(cfg, &buf)

	traceID, err := trace.TraceIDFromHex("0102030405060708090a0b0c0d0e0f10")
	require.NoError(t, err)

	spanID, err := trace.SpanIDFromHex("0102030405060708")
	require.NoError(t, err)

	ctx := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	}))

	logger.With("path", "pages/index/index.js").InfoContext(ctx, "converted")

	var record map[string]any

	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))

	assert.Equal(t, "0102030405060708090a0b0c0d0e0f10", record["trace_id"])
	assert.Equal(t, "0102030405060708", record["span_id"])
	assert.Equal(t, "ci", record["env"])
	assert.Equal(t, "batch", record["mode"])
	assert.Equal(t, "pages/index/index.js", record["path"])
}

func TestNewLogger_TextWithoutSpan(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	cfg := observability.DefaultConfig()
	cfg.LogLevel = slog.LevelWarn

	logger := observability.NewLogger(cfg, &buf)
	logger.Info("hidden")
	logger.WithGroup("file").Warn("shown", "path", "app.js")

	out := buf.String()

	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "msg=shown")
	assert.Contains(t, out, "mode=cli")
	assert.Contains(t, out, "file.path=app.js")
	assert.NotContains(t, out, "env=")
	assert.NotContains(t, out, "trace_id")
}

func TestRedactingProcessor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		log  bool
	}{
		{"silent", false},
		{"logged", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var logs bytes.Buffer

			var logger *slog.Logger
			if tt.log {
				logger = slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
			}

			exporter := tracetest.NewInMemoryExporter()
			tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(
				observability.NewRedactingProcessor(sdktrace.NewSimpleSpanProcessor(exporter), logger)))

			t.Cleanup(func() { require.NoError(t, tp.Shutdown(context.Background())) })

			_, span := tp.Tracer("test").Start(context.Background(), "mp2vue.batch")
			span.SetAttributes(
				attribute.Int("batch.files", 3),
				attribute.String("file.path", "app.js"),
				attribute.String("file.text", "App({})"),
				attribute.String("user.name", "someone"),
			)
			span.End()

			spans := exporter.GetSpans()
			require.Len(t, spans, 1)

			keys := make([]string, 0, len(spans[0].Attributes))
			for _, kv := range spans[0].Attributes {
				keys = append(keys, string(kv.Key))
			}

			assert.ElementsMatch(t, []string{"batch.files", "file.path"}, keys)

			if tt.log {
				assert.Contains(t, logs.String(), "key=file.text")
				assert.Contains(t, logs.String(), "key=user.name")
			}
		})
	}
}

func TestDropFileSpans(t *testing.T) {
	t.Parallel()

	exporter := tracetest.NewInMemoryExporter()
	sdk := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))

	t.Cleanup(func() { require.NoError(t, sdk.Shutdown(context.Background())) })

	tracer := observability.DropFileSpans(sdk).Tracer(observability.TracerName)

	ctx, batch := tracer.Start(context.Background(), "mp2vue.batch")
	fileCtx, file := tracer.Start(ctx, observability.SpanConvertFile)

	assert.False(t, file.IsRecording())
	assert.Equal(t, batch.SpanContext(), trace.SpanContextFromContext(fileCtx))

	file.End()
	assert.True(t, batch.IsRecording())

	batch.End()

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "mp2vue.batch", spans[0].Name)
}

func TestConversionMetrics(t *testing.T) {
	t.Parallel()

	reader := sdkmetric.NewManualReader()
	meter := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)).Meter("test")

	cm, err := observability.NewConversionMetrics(meter)
	require.NoError(t, err)

	ctx := context.Background()
	done := cm.TrackInflight(ctx)

	cm.RecordFile(ctx, observability.FileRecord{
		Kind:     "page",
		Status:   observability.StatusConverted,
		Duration: 3 * time.Millisecond,
		Diagnostics: map[observability.DiagnosticKey]int{
			{Severity: "warning", Code: "name-collision"}: 2,
		},
	})
	done()

	var rm metricdata.ResourceMetrics

	require.NoError(t, reader.Collect(ctx, &rm))

	files := findMetric(rm, "mp2vue.files.total")
	require.NotNil(t, files)

	sum, ok := files.Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, sum.DataPoints, 1)
	assert.Equal(t, int64(1), sum.DataPoints[0].Value)

	diags := findMetric(rm, "mp2vue.diagnostics.total")
	require.NotNil(t, diags)

	diagSum, ok := diags.Data.(metricdata.Sum[int64])
	require.True(t, ok)
	assert.Equal(t, int64(2), diagSum.DataPoints[0].Value)

	assert.NotNil(t, findMetric(rm, "mp2vue.file.duration.seconds"))

	inflight := findMetric(rm, "mp2vue.inflight.files")
	require.NotNil(t, inflight)

	gauge, ok := inflight.Data.(metricdata.Sum[int64])
	require.True(t, ok)
	assert.Equal(t, int64(0), gauge.DataPoints[0].Value)
}

func TestConversionMetrics_NilIsSafe(t *testing.T) {
	t.Parallel()

	var cm *observability.ConversionMetrics

	assert.NotPanics(t, func() {
		cm.RecordFile(context.Background(), observability.FileRecord{Kind: "page"})
		cm.TrackInflight(context.Background())()
	})
}

func TestTextfileExporter(t *testing.T) {
	t.Parallel()

	te, err := observability.NewTextfileExporter()
	require.NoError(t, err)

	meter := sdkmetric.NewMeterProvider(sdkmetric.WithReader(te.Reader())).Meter("test")

	cm, err := observability.NewConversionMetrics(meter)
	require.NoError(t, err)

	cm.RecordFile(context.Background(), observability.FileRecord{Kind: "component", Status: observability.StatusConverted})

	path := filepath.Join(t.TempDir(), "mp2vue.prom")
	require.NoError(t, te.WriteFile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	assert.Contains(t, string(data), "mp2vue_files")
	assert.Contains(t, string(data), `kind="component"`)

	require.ErrorIs(t, te.WriteFile(""), observability.ErrEmptyTextfilePath)
}

func findMetric(rm metricdata.ResourceMetrics, name string) *metricdata.Metrics {
	for idx := range rm.ScopeMetrics {
		for midx := range rm.ScopeMetrics[idx].Metrics {
			if rm.ScopeMetrics[idx].Metrics[midx].Name == name {
				return &rm.ScopeMetrics[idx].Metrics[midx]
			}
		}
	}

	return nil
}
