package observability

import (
	"context"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// SpanConvertFile is the per-file span name. It is dropped unless
// TraceVerbose is set.
const SpanConvertFile = "mp2vue.convert.file"

// exportable reports whether a span attribute may leave the process.
// Only mp2vue's own keys and error details are exported, and never the
// text of a converted file.
func exportable(key string) bool {
	switch key {
	case "file.text", "file.output":
		return false
	}

	for _, prefix := range []string{"mp2vue.", "batch.", "file.", "error", "stack"} {
		if strings.HasPrefix(key, prefix) {
			return true
		}
	}

	return false
}

type redactingProcessor struct {
	sdktrace.SpanProcessor

	logger *slog.Logger
}

// NewRedactingProcessor wraps next so that ended spans reach it with
// non-exportable attributes removed. A non-nil logger reports each removed
// key at debug level.
func NewRedactingProcessor(next sdktrace.SpanProcessor, logger *slog.Logger) sdktrace.SpanProcessor {
	return redactingProcessor{SpanProcessor: next, logger: logger}
}

func (p redactingProcessor) OnEnd(span sdktrace.ReadOnlySpan) {
	p.SpanProcessor.OnEnd(redactedSpan{ReadOnlySpan: span, logger: p.logger})
}

type redactedSpan struct {
	sdktrace.ReadOnlySpan

	logger *slog.Logger
}

func (s redactedSpan) Attributes() []attribute.KeyValue {
	all := s.ReadOnlySpan.Attributes()
	kept := all[:0:0]

	for _, kv := range all {
		if exportable(string(kv.Key)) {
			kept = append(kept, kv)

			continue
		}

		if s.logger != nil {
			s.logger.Debug("span attribute redacted", "span", s.Name(), "key", string(kv.Key))
		}
	}

	return kept
}

// DropFileSpans wraps tp so that SpanConvertFile spans are never recorded.
// A dropped span keeps its parent's span context, so logs written during a
// file conversion still carry the batch trace id.
func DropFileSpans(tp trace.TracerProvider) trace.TracerProvider {
	return fileSpanDropper{TracerProvider: tp}
}

type fileSpanDropper struct {
	trace.TracerProvider
}

func (d fileSpanDropper) Tracer(name string, opts ...trace.TracerOption) trace.Tracer {
	return fileSpanTracer{Tracer: d.TracerProvider.Tracer(name, opts...)}
}

type fileSpanTracer struct {
	trace.Tracer
}

func (t fileSpanTracer) Start(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	if name != SpanConvertFile {
		return t.Tracer.Start(ctx, name, opts...)
	}

	ctx = trace.ContextWithSpanContext(ctx, trace.SpanContextFromContext(ctx))

	return ctx, trace.SpanFromContext(ctx)
}
