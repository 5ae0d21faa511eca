package logger

import (
	"context"
	"io"
	"log/slog"
	"os"

	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel/log/global"
	"go.opentelemetry.io/otel/trace"
)

type Options struct {
	Production  bool
	OTelEnabled bool
	ServiceName string
}

func Setup(opts Options) {
	slog.SetDefault(slog.New(NewHandler(os.Stdout, opts)))
}

func NewHandler(w io.Writer, opts Options) slog.Handler {
	hopts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if !opts.Production {
		hopts.Level = slog.LevelDebug
	}

	switch {
	case opts.Production && opts.OTelEnabled:
		return otelslog.NewHandler(
			opts.ServiceName,
			otelslog.WithLoggerProvider(global.GetLoggerProvider()),
		)
	case opts.Production:
		return NewTraceHandler(slog.NewJSONHandler(w, hopts))
	default:
		return NewTraceHandler(slog.NewTextHandler(w, hopts))
	}
}

// TraceHandler adds OTel trace ids and context LogFields to every record.
type TraceHandler struct {
	slog.Handler
}

func NewTraceHandler(h slog.Handler) *TraceHandler {
	return &TraceHandler{Handler: h}
}

func (h *TraceHandler) Handle(ctx context.Context, r slog.Record) error {
	if span := trace.SpanFromContext(ctx); span.SpanContext().IsValid() {
		sc := span.SpanContext()
		r.AddAttrs(
			slog.String("trace_id", sc.TraceID().String()),
			slog.String("span_id", sc.SpanID().String()),
		)
	}

	fields := GetLogFields(ctx)
	if fields.GuildID != nil {
		r.AddAttrs(slog.String("guild_id", *fields.GuildID))
	}
	if fields.QuestionID != nil {
		r.AddAttrs(slog.String("question_id", *fields.QuestionID))
	}
	if fields.ActorID != nil {
		r.AddAttrs(slog.String("actor_id", *fields.ActorID))
	}
	if fields.Action != nil {
		r.AddAttrs(slog.String("action", *fields.Action))
	}
	if fields.Caller != nil {
		r.AddAttrs(slog.String("caller", *fields.Caller))
	}
	if fields.Component != "" {
		r.AddAttrs(slog.String("component", fields.Component))
	}

	return h.Handler.Handle(ctx, r)
}

func (h *TraceHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &TraceHandler{Handler: h.Handler.WithAttrs(attrs)}
}

func (h *TraceHandler) WithGroup(name string) slog.Handler {
	return &TraceHandler{Handler: h.Handler.WithGroup(name)}
}
