//go:build whispercpp

package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ciricc/whisper-bench/internal/audiofile"
	"github.com/ciricc/whisper-bench/internal/transcribe"
	whisper "github.com/ggerganov/whisper.cpp/bindings/go/pkg/whisper"
)

// NativeAvailable reports whether this binary carries the whisper.cpp
// backend.
func NativeAvailable() bool {
	return true
}

// Native runs whisper.cpp in-process through its Go bindings. It only
// accepts 16 kHz mono PCM16 WAV input; device and compute type come from
// how the library itself was built, not from the configuration.
type Native struct {
	params Params
	logger *slog.Logger
	model  whisper.Model
}

func NewNative(params Params) (*Native, error) {
	if params.ModelPath == "" {
		return nil, fmt.Errorf("%w: whispercpp backend needs a model path", transcribe.ErrModelInitialization)
	}

	return &Native{
		params: params,
		logger: loggerFrom(params).With("engine", BackendWhisperCPP),
	}, nil
}

func (e *Native) Initialize(ctx context.Context) error {
	if e.model != nil {
		return nil
	}

	e.logger.DebugContext(ctx, "Loading model", "path", e.params.ModelPath)

	model, err := whisper.New(e.params.ModelPath)
	if err != nil {
		return fmt.Errorf("%w: load %s: %w", transcribe.ErrModelInitialization, e.params.ModelPath, err)
	}
	e.model = model
	return nil
}

func (e *Native) Transcribe(ctx context.Context, audioPath string) (*transcribe.Result, error) {
	if err := e.Initialize(ctx); err != nil {
		return nil, err
	}

	samples, err := audiofile.ReadSamples(audioPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", transcribe.ErrTranscription, err)
	}

	wctx, err := e.model.NewContext()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", transcribe.ErrModelInitialization, err)
	}

	language := e.params.Language
	if language == "" {
		language = "auto"
	}
	if err := wctx.SetLanguage(language); err != nil {
		return nil, fmt.Errorf("%w: set language %q: %w", transcribe.ErrTranscription, language, err)
	}

	var segments []transcribe.Segment
	onSegment := func(s whisper.Segment) {
		segments = append(segments, transcribe.NewSegment(
			s.Start.Seconds(), s.End.Seconds(), strings.TrimSpace(s.Text), 0,
		))
	}

	if err := wctx.Process(samples, nil, onSegment, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", transcribe.ErrTranscription, err)
	}

	detected := wctx.DetectedLanguage()
	if detected == "" {
		detected = language
	}

	return &transcribe.Result{
		Language: detected,
		Duration: float64(len(samples)) / 16000,
		Segments: segments,
		FullText: transcribe.JoinText(segments),
	}, nil
}

func (e *Native) Close() error {
	if e.model == nil {
		return nil
	}
	model := e.model
	e.model = nil
	return model.Close()
}

var _ transcribe.Engine = (*Native)(nil)
