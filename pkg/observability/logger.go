package observability

import (
	"context"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/trace"
)

// NewLogger returns the run logger. Every record carries the run mode, and
// the environment when one is configured. Records logged under a span also
// carry trace_id and span_id so they can be matched to exported traces.
func NewLogger(cfg Config, out io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}

	var handler slog.Handler = slog.NewTextHandler(out, opts)
	if cfg.LogJSON {
		handler = slog.NewJSONHandler(out, opts)
	}

	runAttrs := []slog.Attr{slog.String("mode", string(cfg.Mode))}
	if cfg.Environment != "" {
		runAttrs = append(runAttrs, slog.String("env", cfg.Environment))
	}

	return slog.New(spanContextHandler{Handler: handler.WithAttrs(runAttrs)})
}

type spanContextHandler struct {
	slog.Handler
}

func (h spanContextHandler) Handle(ctx context.Context, record slog.Record) error {
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		record.AddAttrs(
			slog.String("trace_id", sc.TraceID().String()),
			slog.String("span_id", sc.SpanID().String()),
		)
	}

	return h.Handler.Handle(ctx, record)
}

func (h spanContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return spanContextHandler{Handler: h.Handler.WithAttrs(attrs)}
}

func (h spanContextHandler) WithGroup(name string) slog.Handler {
	return spanContextHandler{Handler: h.Handler.WithGroup(name)}
}
