// Package batch transcribes independent audio files concurrently. Files
// share nothing; one file's failure never cancels another's in-flight work.
package batch

import (
	"context"
	"log/slog"
	"sync"

	"github.com/ciricc/whisper-bench/internal/monitor"
	"github.com/ciricc/whisper-bench/internal/transcribe"
)

// FileTask transcribes one audio file in the background. Start launches the
// work, Done signals completion, Wait blocks for it.
type FileTask interface {
	Start(ctx context.Context)
	Done() <-chan error
	Wait() error
	Outcome() *transcribe.Outcome
}

type fileTask struct {
	transcriber *transcribe.Transcriber
	loadMonitor monitor.LoadMonitor
	audioPath   string
	logger      *slog.Logger

	outcome   *transcribe.Outcome
	done      chan error
	startOnce sync.Once
}

// NewFileTask wraps one transcriber and one path. The task owns the
// transcriber and closes it when the work finishes.
func NewFileTask(
	transcriber *transcribe.Transcriber,
	loadMonitor monitor.LoadMonitor,
	audioPath string,
	logger *slog.Logger,
) FileTask {
	return &fileTask{
		transcriber: transcriber,
		loadMonitor: loadMonitor,
		audioPath:   audioPath,
		logger:      logger,
		done:        make(chan error, 1),
	}
}

func (t *fileTask) Start(ctx context.Context) {
	t.startOnce.Do(func() {
		go t.run(ctx)
	})
}

func (t *fileTask) Done() <-chan error {
	return t.done
}

func (t *fileTask) Wait() error {
	return <-t.done
}

// Outcome is valid only after Done fired without an error.
func (t *fileTask) Outcome() *transcribe.Outcome {
	return t.outcome
}

func (t *fileTask) run(ctx context.Context) {
	defer t.transcriber.Close()

	if err := t.loadMonitor.Acquire(ctx); err != nil {
		t.finish(err)
		return
	}
	defer t.loadMonitor.Release()

	metrics := t.loadMonitor.GetMetrics()
	t.logger.DebugContext(ctx, "Acquired task slot",
		"path", t.audioPath,
		"active_tasks", metrics.ActiveTasks,
		"load_percentage", metrics.LoadPercentage)

	out, err := t.transcriber.Transcribe(ctx, t.audioPath)
	if err != nil {
		t.finish(err)
		return
	}

	t.outcome = out
	t.finish(nil)
}

func (t *fileTask) finish(err error) {
	select {
	case t.done <- err:
		close(t.done)
	default:
		// already finished
	}
}

var _ FileTask = (*fileTask)(nil)
