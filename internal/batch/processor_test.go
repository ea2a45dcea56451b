package batch

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ciricc/whisper-bench/internal/monitor"
	"github.com/ciricc/whisper-bench/internal/transcribe"
)

// slowEngine sleeps through Transcribe and records how many transcriptions
// ran at once.
type slowEngine struct {
	delay   time.Duration
	active  *atomic.Int64
	maxSeen *atomic.Int64
}

func (e *slowEngine) Initialize(ctx context.Context) error { return nil }

func (e *slowEngine) Transcribe(ctx context.Context, audioPath string) (*transcribe.Result, error) {
	if e.active != nil {
		cur := e.active.Add(1)
		defer e.active.Add(-1)
		for {
			seen := e.maxSeen.Load()
			if cur <= seen || e.maxSeen.CompareAndSwap(seen, cur) {
				break
			}
		}
	}

	if e.delay > 0 {
		time.Sleep(e.delay)
	}
	if strings.Contains(audioPath, "bad") {
		return nil, errors.New("unreadable audio")
	}
	return &transcribe.Result{Language: "en", Duration: 1, FullText: "done"}, nil
}

func (e *slowEngine) Close() error { return nil }

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

func writeFiles(t *testing.T, names ...string) []string {
	t.Helper()
	dir := t.TempDir()
	paths := make([]string, 0, len(names))
	for _, name := range names {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte("pcm"), 0o644); err != nil {
			t.Fatalf("write file: %v", err)
		}
		paths = append(paths, path)
	}
	return paths
}

func newConstructor(engine func() transcribe.Engine) Constructor {
	return func() (*transcribe.Transcriber, error) {
		return transcribe.New(engine(), transcribe.DefaultConfig(), transcribe.WithLogger(quietLogger()))
	}
}

func TestRunKeepsInputOrder(t *testing.T) {
	paths := writeFiles(t, "a.wav", "b.wav", "c.wav", "d.wav")

	// The first file finishes last; order must still hold.
	var calls atomic.Int64
	construct := newConstructor(func() transcribe.Engine {
		delay := 5 * time.Millisecond
		if calls.Add(1) == 1 {
			delay = 60 * time.Millisecond
		}
		return &slowEngine{delay: delay}
	})

	p := NewProcessor(construct, monitor.NewSemaphoreLoadMonitor(4), quietLogger())
	results := p.Run(context.Background(), paths)

	if len(results) != len(paths) {
		t.Fatalf("expected %d results, got %d", len(paths), len(results))
	}
	for i, res := range results {
		if res.Path != paths[i] {
			t.Errorf("results[%d] is %s, want %s", i, res.Path, paths[i])
		}
		if res.Err != nil || res.Outcome == nil {
			t.Errorf("expected success for %s, got %v", res.Path, res.Err)
		}
	}
}

func TestRunBoundsConcurrency(t *testing.T) {
	paths := writeFiles(t, "1.wav", "2.wav", "3.wav", "4.wav", "5.wav", "6.wav")

	var active, maxSeen atomic.Int64
	construct := newConstructor(func() transcribe.Engine {
		return &slowEngine{delay: 30 * time.Millisecond, active: &active, maxSeen: &maxSeen}
	})

	p := NewProcessor(construct, monitor.NewSemaphoreLoadMonitor(2), quietLogger())
	results := p.Run(context.Background(), paths)

	for _, res := range results {
		if res.Err != nil {
			t.Errorf("unexpected failure for %s: %v", res.Path, res.Err)
		}
	}
	if maxSeen.Load() > 2 {
		t.Errorf("concurrency bound violated: %d transcriptions ran at once", maxSeen.Load())
	}
}

func TestRunIsolatesFailures(t *testing.T) {
	paths := writeFiles(t, "good1.wav", "bad.wav", "good2.wav")

	construct := newConstructor(func() transcribe.Engine { return &slowEngine{} })
	p := NewProcessor(construct, monitor.NewSemaphoreLoadMonitor(2), quietLogger())
	results := p.Run(context.Background(), paths)

	if results[0].Err != nil || results[0].Outcome == nil {
		t.Errorf("expected first file to succeed: %v", results[0].Err)
	}
	if results[1].Err == nil {
		t.Error("expected the bad file to fail")
	}
	if results[1].Outcome != nil {
		t.Error("a failed file must not carry an outcome")
	}
	if !errors.Is(results[1].Err, transcribe.ErrTranscription) {
		t.Errorf("expected a classified transcription error, got %v", results[1].Err)
	}
	if results[2].Err != nil || results[2].Outcome == nil {
		t.Errorf("expected last file to succeed: %v", results[2].Err)
	}
}

func TestRunReportsConstructorFailureInPlace(t *testing.T) {
	paths := writeFiles(t, "a.wav", "b.wav")

	var calls atomic.Int64
	construct := Constructor(func() (*transcribe.Transcriber, error) {
		if calls.Add(1) == 2 {
			return nil, errors.New("backend unavailable")
		}
		return transcribe.New(&slowEngine{}, transcribe.DefaultConfig(), transcribe.WithLogger(quietLogger()))
	})

	p := NewProcessor(construct, monitor.NewSemaphoreLoadMonitor(2), quietLogger())
	results := p.Run(context.Background(), paths)

	if results[0].Err != nil {
		t.Errorf("expected first file to succeed: %v", results[0].Err)
	}
	if results[1].Err == nil || results[1].Outcome != nil {
		t.Errorf("expected constructor failure in place: %+v", results[1])
	}
}

func TestRunEmptyInput(t *testing.T) {
	p := NewProcessor(newConstructor(func() transcribe.Engine { return &slowEngine{} }),
		monitor.NewSemaphoreLoadMonitor(2), quietLogger())

	if results := p.Run(context.Background(), nil); len(results) != 0 {
		t.Fatalf("expected no results, got %d", len(results))
	}
}

func TestTaskFinishIsIdempotent(t *testing.T) {
	paths := writeFiles(t, "x.wav")
	tr, err := transcribe.New(&slowEngine{}, transcribe.DefaultConfig(), transcribe.WithLogger(quietLogger()))
	if err != nil {
		t.Fatalf("new transcriber: %v", err)
	}

	task := NewFileTask(tr, monitor.NewSemaphoreLoadMonitor(1), paths[0], quietLogger())
	task.Start(context.Background())
	task.Start(context.Background()) // second start is a no-op

	if err := task.Wait(); err != nil {
		t.Fatalf("task failed: %v", err)
	}
	if task.Outcome() == nil {
		t.Fatal("expected an outcome after a successful wait")
	}
}
