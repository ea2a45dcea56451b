package batch

import (
	"context"
	"log/slog"

	"github.com/ciricc/whisper-bench/internal/monitor"
	"github.com/ciricc/whisper-bench/internal/transcribe"
)

// FileResult pairs an input file with what happened to it. Exactly one of
// Outcome and Err is set.
type FileResult struct {
	Path    string
	Outcome *transcribe.Outcome
	Err     error
}

// Constructor builds a fresh transcriber for one file. Engines are not
// required to be safe for concurrent use, so every file gets its own.
type Constructor func() (*transcribe.Transcriber, error)

// Processor fans independent files out to background tasks, bounded by the
// load monitor, and collects per-file results.
type Processor struct {
	construct   Constructor
	loadMonitor monitor.LoadMonitor
	logger      *slog.Logger
}

func NewProcessor(construct Constructor, loadMonitor monitor.LoadMonitor, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		construct:   construct,
		loadMonitor: loadMonitor,
		logger:      logger,
	}
}

// Run starts one task per path and waits for all of them. Results come back
// in input order regardless of completion order; a failed file yields its
// error in place without disturbing the others.
func (p *Processor) Run(ctx context.Context, paths []string) []FileResult {
	results := make([]FileResult, len(paths))
	tasks := make([]FileTask, len(paths))

	for i, path := range paths {
		t, err := p.construct()
		if err != nil {
			results[i] = FileResult{Path: path, Err: err}
			continue
		}

		task := NewFileTask(t, p.loadMonitor, path, p.logger)
		tasks[i] = task
		task.Start(ctx)
	}

	for i, task := range tasks {
		if task == nil {
			continue
		}

		path := paths[i]
		if err := task.Wait(); err != nil {
			p.logger.ErrorContext(ctx, "File transcription failed", "path", path, "error", err)
			results[i] = FileResult{Path: path, Err: err}
			continue
		}
		results[i] = FileResult{Path: path, Outcome: task.Outcome()}
	}

	return results
}
