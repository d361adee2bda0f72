// Package batch converts many modules of one project in parallel.
//
// A run publishes every module into a shared convert.Registry. App modules
// are converted before anything else so that pages and components can see
// the App's globalData members; every other module is scheduled on a bounded
// worker pool. Results come back in input order.
package batch

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"
	"golang.org/x/sync/errgroup"

	"github.com/Sumatoshi-tech/mp2vue/pkg/convert"
	"github.com/Sumatoshi-tech/mp2vue/pkg/diag"
	"github.com/Sumatoshi-tech/mp2vue/pkg/observability"
)

const spanBatch = "mp2vue.batch"

// Runner drives an Engine over a set of inputs.
type Runner struct {
	engine  *convert.Engine
	tracer  trace.Tracer
	metrics *observability.ConversionMetrics
	logger  *slog.Logger
	workers int
}

// Option configures a Runner.
type Option func(*Runner)

// WithWorkers bounds the number of modules converted at once. Values below
// one mean GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(r *Runner) { r.workers = n }
}

// WithTracer sets the tracer for batch and per-file spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(r *Runner) { r.tracer = tracer }
}

// WithMetrics records per-file metrics.
func WithMetrics(metrics *observability.ConversionMetrics) Option {
	return func(r *Runner) { r.metrics = metrics }
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) { r.logger = logger }
}

// New creates a Runner around engine.
func New(engine *convert.Engine, opts ...Option) *Runner {
	runner := &Runner{
		engine: engine,
		tracer: nooptrace.NewTracerProvider().Tracer(observability.TracerName),
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(runner)
	}

	if runner.workers < 1 {
		runner.workers = runtime.GOMAXPROCS(0)
	}

	return runner
}

// Run converts inputs and returns one result per input, in input order.
// Problems inside a module become diagnostics on its result; Run only fails
// when ctx is cancelled.
func (r *Runner) Run(ctx context.Context, inputs []convert.Input) (*Report, error) {
	start := time.Now()

	ctx, span := r.tracer.Start(ctx, spanBatch, trace.WithAttributes(
		attribute.Int("batch.files", len(inputs)),
		attribute.Int("batch.workers", r.workers),
	))
	defer span.End()

	report := &Report{
		Results:  make([]*convert.Result, len(inputs)),
		Registry: convert.NewRegistry(),
	}

	apps, rest := schedule(inputs)

	// Apps go first and one at a time; a project has one.
	for _, idx := range apps {
		if err := ctx.Err(); err != nil {
			return nil, r.fail(span, err)
		}

		report.Results[idx] = r.convertOne(ctx, inputs[idx], report.Registry)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)

	for _, idx := range rest {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return fmt.Errorf("convert %s: %w", inputs[idx].Path, err)
			}

			report.Results[idx] = r.convertOne(gctx, inputs[idx], report.Registry)

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, r.fail(span, err)
	}

	report.Elapsed = time.Since(start)
	summary := report.Summary()

	span.SetAttributes(
		attribute.Int("batch.converted", summary.Converted),
		attribute.Int("batch.failed", summary.Failed),
	)

	r.logger.InfoContext(ctx, "batch: done",
		"files", summary.Files,
		"converted", summary.Converted,
		"passthrough", summary.Passthrough,
		"failed", summary.Failed,
		"elapsed", report.Elapsed)

	return report, nil
}

func (r *Runner) fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())

	return fmt.Errorf("batch: %w", err)
}

func (r *Runner) convertOne(ctx context.Context, in convert.Input, reg *convert.Registry) *convert.Result {
	ctx, span := r.tracer.Start(ctx, observability.SpanConvertFile,
		trace.WithAttributes(attribute.String("file.path", in.Path)))
	defer span.End()

	done := r.metrics.TrackInflight(ctx)
	defer done()

	start := time.Now()
	result := r.engine.Convert(ctx, in, reg)
	status := Status(result)

	span.SetAttributes(
		attribute.String("file.kind", result.Kind.String()),
		attribute.String("file.status", status),
		attribute.Int("file.diagnostics", len(result.Diagnostics)),
	)

	if status == observability.StatusFailed {
		span.SetStatus(codes.Error, "module left unchanged")
		r.logger.WarnContext(ctx, "batch: module left unchanged", "path", in.Path)
	}

	r.metrics.RecordFile(ctx, observability.FileRecord{
		Kind:        result.Kind.String(),
		Status:      status,
		Duration:    time.Since(start),
		Diagnostics: diagnosticCounts(result.Diagnostics),
	})

	return result
}

// schedule splits input indexes into App modules and the rest, each keeping
// input order.
func schedule(inputs []convert.Input) (apps, rest []int) {
	for idx, in := range inputs {
		if in.IsAppFile() {
			apps = append(apps, idx)
		} else {
			rest = append(rest, idx)
		}
	}

	return apps, rest
}

// Status classifies a result for metrics and reports.
func Status(result *convert.Result) string {
	for _, d := range result.Diagnostics {
		if d.Code == diag.CodeParseFailure || d.Code == diag.CodeInternal {
			return observability.StatusFailed
		}
	}

	if result.Groups == nil {
		return observability.StatusPassthrough
	}

	return observability.StatusConverted
}

func diagnosticCounts(diags []diag.Diagnostic) map[observability.DiagnosticKey]int {
	if len(diags) == 0 {
		return nil
	}

	counts := make(map[observability.DiagnosticKey]int)
	for _, d := range diags {
		counts[observability.DiagnosticKey{Severity: d.Severity.String(), Code: d.Code.String()}]++
	}

	return counts
}
