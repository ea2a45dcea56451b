package engine

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/ciricc/whisper-bench/internal/audiofile"
	"github.com/ciricc/whisper-bench/internal/transcribe"
)

// Stub is a deterministic engine that fabricates a transcript without
// loading any model. It keeps the full pipeline runnable on machines with
// no Python, no server and no native build.
type Stub struct {
	params Params
	logger *slog.Logger
}

func NewStub(params Params) *Stub {
	return &Stub{
		params: params,
		logger: loggerFrom(params).With("engine", BackendStub),
	}
}

func (e *Stub) Initialize(ctx context.Context) error {
	e.logger.DebugContext(ctx, "Stub engine initialized", "config", e.params.Config.String())
	return nil
}

func (e *Stub) Transcribe(ctx context.Context, audioPath string) (*transcribe.Result, error) {
	duration := 1.0
	if d, err := audiofile.ProbeWAVDuration(audioPath); err == nil && d > 0 {
		duration = d
	}

	text := fmt.Sprintf("stub transcript of %s", filepath.Base(audioPath))
	segments := []transcribe.Segment{transcribe.NewSegment(0, duration, text, 0)}

	return &transcribe.Result{
		Language:            "en",
		LanguageProbability: 1,
		Duration:            duration,
		Segments:            segments,
		FullText:            text,
	}, nil
}

func (e *Stub) Close() error {
	return nil
}

var _ transcribe.Engine = (*Stub)(nil)
