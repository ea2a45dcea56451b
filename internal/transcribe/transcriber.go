package transcribe

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/ciricc/whisper-bench/internal/audiofile"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Engine is the model runtime boundary. One instance owns one loaded model
// for one configuration and is not required to be safe for concurrent use.
type Engine interface {
	// Initialize loads the model without touching any audio
	Initialize(ctx context.Context) error
	// Transcribe runs the loaded model over the audio file at path
	Transcribe(ctx context.Context, audioPath string) (*Result, error)
	// Close releases the model
	Close() error
}

// Transcriber drives an engine over audio files. It enforces the path and
// format preconditions and measures the wall-clock time of every engine
// call; engines never report their own timing.
type Transcriber struct {
	engine Engine
	config Config
	logger *slog.Logger
	tracer trace.Tracer
}

func New(engine Engine, config Config, opts ...Opt) (*Transcriber, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	o := buildOpts(Opts{}, opts...)

	logger := o.Logger
	if logger == nil {
		logger = slog.Default()
	}

	tracer := o.Tracer
	if tracer == nil {
		tracer = otel.Tracer("whisper-bench/transcribe")
	}

	return &Transcriber{
		engine: engine,
		config: config,
		logger: logger,
		tracer: tracer,
	}, nil
}

func (t *Transcriber) Config() Config {
	return t.config
}

// WarmUp loads the model without transcribing anything. Model load is a
// fixed cost, so benchmark timings are taken only after a warm-up.
func (t *Transcriber) WarmUp(ctx context.Context) error {
	if err := t.engine.Initialize(ctx); err != nil {
		return classify(err, ErrModelInitialization)
	}
	return nil
}

// Transcribe checks the audio path, runs the engine over it and stamps the
// result with the measured elapsed time.
func (t *Transcriber) Transcribe(ctx context.Context, audioPath string) (*Outcome, error) {
	if _, err := os.Stat(audioPath); err != nil {
		return nil, fmt.Errorf("%w: file does not exist: %s", ErrInvalidPath, audioPath)
	}

	ext := audiofile.Format(audioPath)
	if ext == "" {
		return nil, fmt.Errorf("%w: no extension", ErrUnsupportedFormat)
	}
	if !audiofile.IsSupported(ext) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}

	ctx, span := t.tracer.Start(ctx, "transcribe",
		trace.WithAttributes(
			attribute.String("audio.path", audioPath),
			attribute.String("model.size", t.config.ModelSize),
			attribute.String("model.device", t.config.Device),
			attribute.String("model.compute_type", t.config.ComputeType),
		))
	defer span.End()

	t.logger.InfoContext(ctx, "Starting transcription", "path", audioPath, "config", t.config.String())

	start := time.Now()
	res, err := t.engine.Transcribe(ctx, audioPath)
	if err != nil {
		return nil, classify(err, ErrTranscription)
	}

	out := NewOutcome(res, time.Since(start).Seconds())

	t.logger.InfoContext(ctx, "Transcription completed",
		"path", audioPath,
		"language", out.Language,
		"duration", out.Duration,
		"transcription_time", out.TranscriptionTime,
		"real_time_factor", out.RealTimeFactor,
	)

	return out, nil
}

// Close releases the underlying engine.
func (t *Transcriber) Close() error {
	return t.engine.Close()
}

// classify wraps err with fallback unless the engine already tagged it with
// one of the failure classes.
func classify(err error, fallback error) error {
	for _, sentinel := range []error{
		ErrInvalidConfiguration,
		ErrInvalidPath,
		ErrUnsupportedFormat,
		ErrModelInitialization,
		ErrTranscription,
	} {
		if errors.Is(err, sentinel) {
			return err
		}
	}
	return fmt.Errorf("%w: %w", fallback, err)
}
