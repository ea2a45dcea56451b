package transcribe

import (
	"log/slog"

	"go.opentelemetry.io/otel/trace"
)

type Opts struct {
	Logger *slog.Logger
	Tracer trace.Tracer
}

type Opt func(opts *Opts)

func WithLogger(l *slog.Logger) Opt {
	return func(opts *Opts) { opts.Logger = l }
}

func WithTracer(t trace.Tracer) Opt {
	return func(opts *Opts) { opts.Tracer = t }
}

func buildOpts(defaultOpts Opts, opts ...Opt) Opts {
	o := defaultOpts
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
