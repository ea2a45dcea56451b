package bench

import (
	"context"
	"log/slog"

	"github.com/ciricc/whisper-bench/internal/transcribe"
	"github.com/ciricc/whisper-bench/pkg/benchreport"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Constructor builds a fresh transcriber for one configuration. Every
// benchmarked configuration gets its own collaborator; nothing is reused
// between runs.
type Constructor func(config transcribe.Config) (*transcribe.Transcriber, error)

// Runner executes sweeps. Runs are strictly sequential so that timings are
// never skewed by contention for the accelerator or the model loader.
type Runner struct {
	construct Constructor
	logger    *slog.Logger
	tracer    trace.Tracer
}

func NewRunner(construct Constructor, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		construct: construct,
		logger:    logger,
		tracer:    otel.Tracer("whisper-bench/bench"),
	}
}

// Run benchmarks every configuration in the sweep, in order, against the
// audio file at audioPath. A configuration failing at any stage is logged
// and skipped. The returned records cover only the successes, in sweep
// order; a sweep where everything fails yields an empty slice.
func (r *Runner) Run(ctx context.Context, sweep *Sweep, audioPath string) []benchreport.Record {
	configs := sweep.Configs()
	records := make([]benchreport.Record, 0, len(configs))

	ctx, span := r.tracer.Start(ctx, "benchmark.sweep",
		trace.WithAttributes(
			attribute.Int("sweep.configurations", len(configs)),
			attribute.String("audio.path", audioPath),
		))
	defer span.End()

	r.logger.InfoContext(ctx, "Starting benchmark",
		"configurations", len(configs), "accelerator", sweep.Accelerator(), "audio", audioPath)

	for i, config := range configs {
		r.logger.InfoContext(ctx, "Running benchmark",
			"index", i+1, "total", len(configs), "config", config.String())

		record, err := r.runOne(ctx, config, audioPath)
		if err != nil {
			r.logger.ErrorContext(ctx, "Benchmark configuration failed",
				"config", config.String(), "error", err)
			continue
		}

		r.logger.InfoContext(ctx, "Benchmark completed",
			"config", config.String(),
			"transcription_time", record.TranscriptionTime,
			"real_time_factor", record.RealTimeFactor)
		records = append(records, record)
	}

	return records
}

func (r *Runner) runOne(ctx context.Context, config transcribe.Config, audioPath string) (benchreport.Record, error) {
	ctx, span := r.tracer.Start(ctx, "benchmark.config",
		trace.WithAttributes(
			attribute.String("model.size", config.ModelSize),
			attribute.String("model.device", config.Device),
			attribute.String("model.compute_type", config.ComputeType),
		))
	defer span.End()

	t, err := r.construct(config)
	if err != nil {
		return benchreport.Record{}, err
	}
	defer t.Close()

	// Model load is a fixed cost; warm up before the timed call.
	if err := t.WarmUp(ctx); err != nil {
		return benchreport.Record{}, err
	}

	out, err := t.Transcribe(ctx, audioPath)
	if err != nil {
		return benchreport.Record{}, err
	}

	return benchreport.FromOutcome(config, out), nil
}
