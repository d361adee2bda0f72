package observability

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/metric"
	noopmetric "go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"
)

const (
	// TracerName is the instrumentation scope of every mp2vue span.
	TracerName = "mp2vue"
	meterName  = "mp2vue"
)

// Providers is what one run logs, traces and measures through.
type Providers struct {
	Tracer trace.Tracer
	Meter  metric.Meter
	Logger *slog.Logger

	// Shutdown flushes exporters and readers. Call it once before exit.
	Shutdown func(ctx context.Context) error
}

// Init sets up telemetry for one run with logs on stderr.
func Init(cfg Config, readers ...sdkmetric.Reader) (Providers, error) {
	return InitWriter(cfg, os.Stderr, readers...)
}

// InitWriter sets up telemetry for one run with logs on logOut.
//
// Tracing is exported only when cfg.OTLPEndpoint is set. Metrics are real
// when there is an endpoint or at least one local reader, such as the
// metrics textfile; otherwise both stay no-op and cost nothing.
func InitWriter(cfg Config, logOut io.Writer, readers ...sdkmetric.Reader) (Providers, error) {
	ctx := context.Background()
	logger := NewLogger(cfg, logOut)
	res := runResource(cfg)

	var flush flushChain

	providers := Providers{
		Tracer: nooptrace.NewTracerProvider().Tracer(TracerName),
		Meter:  noopmetric.NewMeterProvider().Meter(meterName),
		Logger: logger,
	}

	if cfg.OTLPEndpoint != "" {
		tp, err := newTracerProvider(ctx, cfg, res, logger)
		if err != nil {
			return Providers{}, err
		}

		flush = append(flush, tp.Shutdown)

		var traced trace.TracerProvider = tp
		if !cfg.TraceVerbose {
			traced = DropFileSpans(tp)
		}

		otel.SetTracerProvider(traced)
		providers.Tracer = traced.Tracer(TracerName)
	}

	if cfg.OTLPEndpoint != "" || len(readers) > 0 {
		mp, err := newMeterProvider(ctx, cfg, res, readers)
		if err != nil {
			return Providers{}, errors.Join(err, flush.run(ctx, cfg.shutdownTimeout()))
		}

		flush = append(flush, mp.Shutdown)

		otel.SetMeterProvider(mp)
		providers.Meter = mp.Meter(meterName)
	}

	providers.Shutdown = func(ctx context.Context) error {
		return flush.run(ctx, cfg.shutdownTimeout())
	}

	return providers, nil
}

func runResource(cfg Config) *resource.Resource {
	attrs := []attribute.KeyValue{
		semconv.ServiceName(cfg.ServiceName),
		attribute.String("mp2vue.mode", string(cfg.Mode)),
	}

	if cfg.ServiceVersion != "" {
		attrs = append(attrs, semconv.ServiceVersion(cfg.ServiceVersion))
	}

	if cfg.Environment != "" {
		attrs = append(attrs, semconv.DeploymentEnvironment(cfg.Environment))
	}

	return resource.NewSchemaless(attrs...)
}

func newTracerProvider(
	ctx context.Context, cfg Config, res *resource.Resource, logger *slog.Logger,
) (*sdktrace.TracerProvider, error) {
	opts := []otlptracegrpc.Option{
		otlptracegrpc.WithEndpoint(cfg.OTLPEndpoint),
		otlptracegrpc.WithHeaders(cfg.OTLPHeaders),
	}

	if cfg.OTLPInsecure {
		opts = append(opts, otlptracegrpc.WithInsecure())
	}

	exporter, err := otlptracegrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("trace exporter: %w", err)
	}

	// Redactions are only worth reporting while debugging a trace setup.
	var redactLog *slog.Logger
	if cfg.DebugTrace {
		redactLog = logger
	}

	sampler := sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.SampleRatio))
	if cfg.DebugTrace {
		sampler = sdktrace.AlwaysSample()
	}

	return sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sampler),
		sdktrace.WithSpanProcessor(NewRedactingProcessor(sdktrace.NewBatchSpanProcessor(exporter), redactLog)),
	), nil
}

func newMeterProvider(
	ctx context.Context, cfg Config, res *resource.Resource, readers []sdkmetric.Reader,
) (*sdkmetric.MeterProvider, error) {
	opts := []sdkmetric.Option{sdkmetric.WithResource(res)}

	for _, reader := range readers {
		opts = append(opts, sdkmetric.WithReader(reader))
	}

	if cfg.OTLPEndpoint != "" {
		exportOpts := []otlpmetricgrpc.Option{
			otlpmetricgrpc.WithEndpoint(cfg.OTLPEndpoint),
			otlpmetricgrpc.WithHeaders(cfg.OTLPHeaders),
		}

		if cfg.OTLPInsecure {
			exportOpts = append(exportOpts, otlpmetricgrpc.WithInsecure())
		}

		exporter, err := otlpmetricgrpc.New(ctx, exportOpts...)
		if err != nil {
			return nil, fmt.Errorf("metric exporter: %w", err)
		}

		opts = append(opts, sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter)))
	}

	return sdkmetric.NewMeterProvider(opts...), nil
}

// flushChain shuts providers down newest first under a single deadline.
type flushChain []func(context.Context) error

func (fc flushChain) run(ctx context.Context, timeout time.Duration) error {
	if len(fc) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	errs := make([]error, 0, len(fc))
	for i := len(fc) - 1; i >= 0; i-- {
		errs = append(errs, fc[i](ctx))
	}

	return errors.Join(errs...)
}
